/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package ftl

import (
	"testing"
)

const roundTripSource = `### Ludusavi main window

## Buttons

# Shown on the main button.
button-backup = Back up
button-cancel = Cancel
    .title = Stop the current operation

-brand = Ludusavi
    .gender = masculine

about = About { -brand }
about-gen = { -brand(case: "genitive") }

items = { $count ->
    [one] One item
   *[other] { $count } items
}

nested =
    { $n ->
        [0]
            none
            at all
       *[other] { $total ->
            [one] one of one
           *[other] { NUMBER($n, minimumFractionDigits: 2) } of { $total }
        }
    }

relative = a
      b
    c

literal = { "{" }{ "A\"\\" }{ -1.50 }{ { $x } }
special = [x] * .y
ref = { items } and { button-cancel.title }
field =
    .placeholder = Enter a name
`

func Test_SerializeCanonical(t *testing.T) {
	tests := map[string]struct {
		input string
		want  string
	}{
		"ok, simple message": {
			input: "hello   =   Hello, world!",
			want:  "hello = Hello, world!\n",
		},
		"ok, select starts on a new line": {
			input: "items = { $count ->\n    [one] One item\n   *[other] { $count } items\n}\n",
			want:  "items =\n    { $count ->\n        [one] One item\n       *[other] { $count } items\n    }\n",
		},
		"ok, multiline text is indented": {
			input: "multi = Line one\n  Line two\n",
			want:  "multi =\n    Line one\n    Line two\n",
		},
		"ok, attributes": {
			input: "field = Name\n  .placeholder = Enter a name\n",
			want:  "field = Name\n    .placeholder = Enter a name\n",
		},
		"ok, entries are separated by blank lines": {
			input: "## Group\n# note\nkey = v\n-term = t\n",
			want:  "## Group\n\n# note\nkey = v\n\n-term = t\n",
		},
		"ok, call arguments": {
			input: "size = {NUMBER( $bytes ,minimumFractionDigits:2)} B",
			want:  "size = { NUMBER($bytes, minimumFractionDigits: 2) } B\n",
		},
		"ok, junk is dropped by default": {
			input: "a = A\nb = }\nc = C\n",
			want:  "a = A\n\nc = C\n",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			res, _ := Parse(test.input)
			assertEqual(t, test.want, Serialize(res))
		})
	}
}

func Test_SerializeWithJunk(t *testing.T) {
	res, err := Parse("a = A\nb = }\n")
	assertErrorContains(t, err, CodeUnbalancedBrace)
	assertEqual(t, "a = A\n\nb = }\n", Serialize(res, WithJunk(true)))
}

func Test_SerializeEscapesText(t *testing.T) {
	tests := map[string]struct {
		value *Pattern
		want  string
	}{
		"braces": {
			value: pattern(text("a {b}")),
			want:  `m = a { "{" }b{ "}" }` + "\n",
		},
		"trailing whitespace": {
			value: pattern(text("x  ")),
			want:  `m = x{ "  " }` + "\n",
		},
		"leading whitespace": {
			value: pattern(text("  x")),
			want:  `m = { "  " }x` + "\n",
		},
		"empty text": {
			value: pattern(text("")),
			want:  `m = { "" }` + "\n",
		},
		"special character at line start": {
			value: pattern(text("a\n[b]")),
			want:  "m =\n    a\n    { \"[\" }b]\n",
		},
		"control character in literal": {
			value: pattern(placeable(&StringLiteral{Value: "\t"})),
			want:  `m = { "\u0009" }` + "\n",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			res := &Resource{Body: []Entry{&Message{ID: "m", Value: test.value}}}
			out := Serialize(res)
			assertEqual(t, test.want, out)

			reparsed, err := Parse(out)
			assertNoError(t, err)
			if len(reparsed.Messages()) != 1 {
				t.Fatalf("expected one message, got %d", len(reparsed.Messages()))
			}
		})
	}
}

func Test_SerializeRoundTrip(t *testing.T) {
	res, err := Parse(roundTripSource)
	assertNoError(t, err)

	out := Serialize(res)
	reparsed, err := Parse(out)
	assertNoError(t, err)
	assertEqual(t, res.Body, reparsed.Body)

	// Serialization is a fixed point.
	assertEqual(t, out, Serialize(reparsed))
}

func Test_SerializePattern(t *testing.T) {
	res := MustParse("m = Hello, { $name }!\n")
	assertEqual(t, "Hello, { $name }!", SerializePattern(res.Messages()[0].Value))
	assertEqual(t, "", SerializePattern(nil))
	assertEqual(t, `-brand(case: "genitive")`, SerializeExpression(&TermReference{
		ID:        "brand",
		Arguments: &CallArguments{Named: []*NamedArgument{{Name: "case", Value: &StringLiteral{Value: "genitive"}}}},
	}))
}
