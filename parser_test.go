/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package ftl

import (
	"testing"
)

func Test_ParseMessages(t *testing.T) {
	tests := map[string]struct {
		input string
		want  []Entry
	}{
		"ok, simple message": {
			input: "hello = Hello, world!\n",
			want: []Entry{
				&Message{ID: "hello", Value: pattern(text("Hello, world!"))},
			},
		},
		"ok, variable placeholder": {
			input: "greet = Hello, { $name }!",
			want: []Entry{
				&Message{ID: "greet", Value: pattern(text("Hello, "), variable("name"), text("!"))},
			},
		},
		"ok, block pattern": {
			input: "multi =\n    Line one\n    Line two\n",
			want: []Entry{
				&Message{ID: "multi", Value: pattern(text("Line one\nLine two"))},
			},
		},
		"ok, inline start keeps relative indentation": {
			input: "m = a\n      b\n    c\n",
			want: []Entry{
				&Message{ID: "m", Value: pattern(text("a\n  b\nc"))},
			},
		},
		"ok, blank lines inside pattern are preserved, trailing are dropped": {
			input: "m =\n    a\n\n    b\n\n\nnext = x\n",
			want: []Entry{
				&Message{ID: "m", Value: pattern(text("a\n\nb"))},
				&Message{ID: "next", Value: pattern(text("x"))},
			},
		},
		"ok, crlf line endings": {
			input: "a = one\r\nb = two\r\n",
			want: []Entry{
				&Message{ID: "a", Value: pattern(text("one"))},
				&Message{ID: "b", Value: pattern(text("two"))},
			},
		},
		"ok, attributes": {
			input: "field = Name\n    .placeholder = Enter a name\n    .title = Tooltip\n",
			want: []Entry{
				&Message{ID: "field", Value: pattern(text("Name")), Attributes: []*Attribute{
					{ID: "placeholder", Value: pattern(text("Enter a name"))},
					{ID: "title", Value: pattern(text("Tooltip"))},
				}},
			},
		},
		"ok, attributes without value": {
			input: "field =\n    .label = Label\n",
			want: []Entry{
				&Message{ID: "field", Attributes: []*Attribute{
					{ID: "label", Value: pattern(text("Label"))},
				}},
			},
		},
		"ok, comment is bound to the following message": {
			input: "# Shown on the main button.\nbutton-backup = Back up\n",
			want: []Entry{
				&Message{
					ID:      "button-backup",
					Value:   pattern(text("Back up")),
					Comment: &Comment{Level: CommentLevelComment, Content: "Shown on the main button."},
				},
			},
		},
		"ok, multi-line comment": {
			input: "# first\n#\n# third\nkey = v\n",
			want: []Entry{
				&Message{
					ID:      "key",
					Value:   pattern(text("v")),
					Comment: &Comment{Level: CommentLevelComment, Content: "first\n\nthird"},
				},
			},
		},
		"ok, comment separated by blank line stays standalone": {
			input: "# standalone\n\nkey = v\n",
			want: []Entry{
				&Comment{Level: CommentLevelComment, Content: "standalone"},
				&Message{ID: "key", Value: pattern(text("v"))},
			},
		},
		"ok, group and resource comments": {
			input: "### Resource\n## Group\nkey = v\n",
			want: []Entry{
				&Comment{Level: CommentLevelResource, Content: "Resource"},
				&Comment{Level: CommentLevelGroup, Content: "Group"},
				&Message{ID: "key", Value: pattern(text("v"))},
			},
		},
		"ok, plural selector": {
			input: "items = { $count ->\n    [one] One item\n   *[other] { $count } items\n}\n",
			want: []Entry{
				&Message{ID: "items", Value: pattern(placeable(&SelectExpression{
					Selector: &VariableReference{ID: "count"},
					Variants: []*Variant{
						{Key: &Identifier{Name: "one"}, Value: pattern(text("One item"))},
						{Key: &Identifier{Name: "other"}, Value: pattern(variable("count"), text(" items")), Default: true},
					},
				}))},
			},
		},
		"ok, numeric variant key and block variant value": {
			input: "m =\n    { $n ->\n        [0]\n            none\n            at all\n       *[other] some\n    }\n",
			want: []Entry{
				&Message{ID: "m", Value: pattern(placeable(&SelectExpression{
					Selector: &VariableReference{ID: "n"},
					Variants: []*Variant{
						{Key: &NumberLiteral{Value: "0"}, Value: pattern(text("none\nat all"))},
						{Key: &Identifier{Name: "other"}, Value: pattern(text("some")), Default: true},
					},
				}))},
			},
		},
		"ok, terms and term references": {
			input: "-brand = Ludusavi\n    .gender = masculine\nabout = About { -brand }\nabout-gen = { -brand(case: \"genitive\") }\n",
			want: []Entry{
				&Term{ID: "brand", Value: pattern(text("Ludusavi")), Attributes: []*Attribute{
					{ID: "gender", Value: pattern(text("masculine"))},
				}},
				&Message{ID: "about", Value: pattern(text("About "), placeable(&TermReference{ID: "brand"}))},
				&Message{ID: "about-gen", Value: pattern(placeable(&TermReference{
					ID: "brand",
					Arguments: &CallArguments{Named: []*NamedArgument{
						{Name: "case", Value: &StringLiteral{Value: "genitive"}},
					}},
				}))},
			},
		},
		"ok, term attribute as selector": {
			input: "m = { -brand.gender ->\n   *[masculine] his\n    [feminine] her\n}\n",
			want: []Entry{
				&Message{ID: "m", Value: pattern(placeable(&SelectExpression{
					Selector: &TermReference{ID: "brand", Attribute: "gender"},
					Variants: []*Variant{
						{Key: &Identifier{Name: "masculine"}, Value: pattern(text("his")), Default: true},
						{Key: &Identifier{Name: "feminine"}, Value: pattern(text("her"))},
					},
				}))},
			},
		},
		"ok, function call with positional and named arguments": {
			input: "size = { NUMBER($bytes, minimumFractionDigits: 2) } B\n",
			want: []Entry{
				&Message{ID: "size", Value: pattern(placeable(&FunctionReference{
					ID: "NUMBER",
					Arguments: &CallArguments{
						Positional: []Expression{&VariableReference{ID: "bytes"}},
						Named:      []*NamedArgument{{Name: "minimumFractionDigits", Value: &NumberLiteral{Value: "2"}}},
					},
				}), text(" B"))},
			},
		},
		"ok, message references": {
			input: "a = { b } and { c.title }\n",
			want: []Entry{
				&Message{ID: "a", Value: pattern(
					placeable(&MessageReference{ID: "b"}),
					text(" and "),
					placeable(&MessageReference{ID: "c", Attribute: "title"}),
				)},
			},
		},
		"ok, literals and escapes": {
			input: `m = { "{" }{ "A\"\\" }{ -1.50 }{ { $x } }` + "\n",
			want: []Entry{
				&Message{ID: "m", Value: pattern(
					placeable(&StringLiteral{Value: "{"}),
					placeable(&StringLiteral{Value: `A"\`}),
					placeable(&NumberLiteral{Value: "-1.50"}),
					placeable(&Placeable{Expression: &VariableReference{ID: "x"}}),
				)},
			},
		},
		"ok, special characters in the middle of a line": {
			input: "m = [x] * .y\n",
			want: []Entry{
				&Message{ID: "m", Value: pattern(text("[x] * .y"))},
			},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			res, err := Parse(test.input)
			assertNoError(t, err)
			assertEqual(t, test.want, res.Body)
		})
	}
}

func Test_ParseErrors(t *testing.T) {
	tests := map[string]struct {
		input    string
		wantCode string
	}{
		"error, missing default variant": {
			input:    "m = { $n ->\n    [one] one\n}\n",
			wantCode: CodeMissingDefaultVariant,
		},
		"error, two default variants": {
			input:    "m = { $n ->\n   *[one] one\n   *[other] other\n}\n",
			wantCode: CodeMultipleDefaultVariants,
		},
		"error, no variants": {
			input:    "m = { $n ->\n}\n",
			wantCode: CodeMissingVariants,
		},
		"error, message without value": {
			input:    "m =\n",
			wantCode: CodeMessageWithoutValue,
		},
		"error, term without value": {
			input:    "-t =\n    .attr = x\n",
			wantCode: CodeTermWithoutValue,
		},
		"error, missing equals sign": {
			input:    "m Value\n",
			wantCode: CodeExpectedToken,
		},
		"error, unterminated string": {
			input:    "m = { \"abc }\n",
			wantCode: CodeUnterminatedString,
		},
		"error, unknown escape": {
			input:    `m = { "\n" }` + "\n",
			wantCode: CodeInvalidEscape,
		},
		"error, invalid unicode escape": {
			input:    `m = { "\u00ZZ" }` + "\n",
			wantCode: CodeInvalidUnicodeEscape,
		},
		"error, unbalanced brace": {
			input:    "m = a } b\n",
			wantCode: CodeUnbalancedBrace,
		},
		"error, lowercase callee": {
			input:    "m = { number($n) }\n",
			wantCode: CodeCalleeNotUppercase,
		},
		"error, message reference as selector": {
			input:    "m = { other ->\n   *[a] a\n}\n",
			wantCode: CodeMessageAsSelector,
		},
		"error, term as selector": {
			input:    "m = { -brand ->\n   *[a] a\n}\n",
			wantCode: CodeTermAsSelector,
		},
		"error, term attribute as placeable": {
			input:    "m = { -brand.gender }\n",
			wantCode: CodeTermAttrAsPlaceable,
		},
		"error, positional after named": {
			input:    "m = { NUMBER(style: \"x\", $n) }\n",
			wantCode: CodePositionalAfterNamed,
		},
		"error, duplicate named argument": {
			input:    "m = { NUMBER($n, style: \"a\", style: \"b\") }\n",
			wantCode: CodeDuplicateNamedArgument,
		},
		"error, named argument value must be a literal": {
			input:    "m = { NUMBER($n, style: $s) }\n",
			wantCode: CodeExpectedLiteral,
		},
		"error, missing placeable expression": {
			input:    "m = { }\n",
			wantCode: CodeExpectedInlineExpr,
		},
		"error, not an entry": {
			input:    "  indented = value\n",
			wantCode: CodeExpectedEntry,
		},
		"error, too many comment sigils": {
			input:    "#### heading\n",
			wantCode: CodeExpectedToken,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			res, err := Parse(test.input)
			assertErrorContains(t, err, test.wantCode)
			junk := res.Junk()
			if len(junk) != 1 {
				t.Fatalf("expected exactly one junk entry, got %d", len(junk))
			}
			assertEqual(t, test.wantCode, junk[0].Annotations[0].Code)
		})
	}
}

func Test_ParseRecoversAfterJunk(t *testing.T) {
	input := "good = Good\nbad = { $x ->\n    [one] One\n}\n# About the next one\nalso-good = Also\n"
	res, err := Parse(input)
	assertErrorContains(t, err, CodeMissingDefaultVariant)

	if len(res.Body) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(res.Body))
	}
	assertEqual(t, &Message{ID: "good", Value: pattern(text("Good"))}, res.Body[0])
	junk, ok := res.Body[1].(*Junk)
	if !ok {
		t.Fatalf("expected junk, got %T", res.Body[1])
	}
	assertEqual(t, "bad = { $x ->\n    [one] One\n}\n", junk.Content)
	assertEqual(t, &Message{
		ID:      "also-good",
		Value:   pattern(text("Also")),
		Comment: &Comment{Level: CommentLevelComment, Content: "About the next one"},
	}, res.Body[2])
}

func Test_ParseErrorPosition(t *testing.T) {
	_, err := Parse("a = ok\nb = broken }\n")
	assertErrorContains(t, err, "line 2, column 12")
}

func Test_ParseWithSpans(t *testing.T) {
	input := "a = one\n\nb = two\n"
	res, err := Parse(input, WithSpans(true))
	assertNoError(t, err)
	msgs := res.Messages()
	assertEqual(t, 2, len(msgs))
	assertEqual(t, &Span{Start: 0, End: 8}, msgs[0].Span)
	assertEqual(t, &Span{Start: 9, End: 17}, msgs[1].Span)
}

func Test_ParseWithDetachedComments(t *testing.T) {
	res, err := Parse("# note\nkey = v\n", WithDetachedComments(true))
	assertNoError(t, err)
	assertEqual(t, []Entry{
		&Comment{Level: CommentLevelComment, Content: "note"},
		&Message{ID: "key", Value: pattern(text("v"))},
	}, res.Body)
}

func Test_MustParse(t *testing.T) {
	assertPanics(t, func() {
		MustParse("m = {\n")
	})
	res := MustParse("m = ok")
	assertEqual(t, 1, len(res.Messages()))
}

func Test_ResourceLookup(t *testing.T) {
	res := MustParse("-brand = B\nm = M\nm = duplicate\n")
	entry, ok := res.Lookup("m")
	assertEqual(t, true, ok)
	assertEqual(t, pattern(text("M")), entry.(*Message).Value)

	entry, ok = res.Lookup("-brand")
	assertEqual(t, true, ok)
	assertEqual(t, "brand", entry.(*Term).ID)

	_, ok = res.Lookup("brand")
	assertEqual(t, false, ok)
}

func Test_Variables(t *testing.T) {
	res := MustParse("m = { $a } { $count ->\n    [one] { $b }\n   *[other] { NUMBER($c) } { -t(x: 1) } { $a }\n}\n")
	msg := res.Messages()[0]
	assertEqual(t, []string{"a", "count", "b", "c"}, Variables(msg.Value))

	msgs, terms := References(MustParse("m = { a } { -t } { b.attr } { a }").Messages()[0].Value)
	assertEqual(t, []string{"a", "b"}, msgs)
	assertEqual(t, []string{"t"}, terms)
}
