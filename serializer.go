/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package ftl

import (
	"fmt"
	"strings"
)

// SerializerOption is an interface for functional options that can be passed to Serialize.
type SerializerOption interface {
	apply(*serializerOptions)
}

type serializerOptions struct {
	withJunk bool
}

type withJunkSerializerOption bool

func (o withJunkSerializerOption) apply(opts *serializerOptions) {
	opts.withJunk = bool(o)
}

// WithJunk allows specifying whether Junk entries are written back verbatim.
func WithJunk(b bool) SerializerOption {
	return withJunkSerializerOption(b)
}

const indent = "    "

// Serialize writes the resource in the canonical layout.
// Parsing the result yields a resource equal to the one serialized, including
// comments and attributes.
func Serialize(res *Resource, opts ...SerializerOption) string {
	var options serializerOptions
	for _, opt := range opts {
		opt.apply(&options)
	}

	var b strings.Builder
	for _, e := range res.Body {
		var chunk string
		switch v := e.(type) {
		case *Message:
			chunk = serializeMessage(v.Comment, v.ID, v.Value, v.Attributes)
		case *Term:
			chunk = serializeMessage(v.Comment, "-"+v.ID, v.Value, v.Attributes)
		case *Comment:
			chunk = serializeComment(v)
		case *Junk:
			if !options.withJunk {
				continue
			}
			chunk = strings.TrimRight(v.Content, "\n") + "\n"
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(chunk)
	}
	return b.String()
}

// SerializePattern returns the source form of a pattern as it appears after "=",
// without the leading separator.
func SerializePattern(p *Pattern) string {
	if p == nil {
		return ""
	}
	return serializeElements(p.Elements)
}

// SerializeExpression returns the source form of an expression.
func SerializeExpression(expr Expression) string {
	return serializeExpression(expr)
}

func serializeComment(c *Comment) string {
	prefix := c.Level.Prefix()
	var b strings.Builder
	for _, line := range strings.Split(c.Content, "\n") {
		b.WriteString(prefix)
		if line != "" {
			b.WriteString(" ")
			b.WriteString(line)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func serializeMessage(comment *Comment, id string, value *Pattern, attrs []*Attribute) string {
	var b strings.Builder
	if comment != nil {
		b.WriteString(serializeComment(comment))
	}
	b.WriteString(id)
	b.WriteString(" =")
	if value != nil {
		b.WriteString(serializePattern(value))
	}
	for _, attr := range attrs {
		b.WriteString("\n")
		b.WriteString(indent)
		b.WriteString(".")
		b.WriteString(attr.ID)
		b.WriteString(" =")
		b.WriteString(indentExceptFirstLine(serializePattern(attr.Value)))
	}
	b.WriteString("\n")
	return b.String()
}

func serializePattern(p *Pattern) string {
	content := serializeElements(p.Elements)
	multiline := hasSelect(p) || strings.Contains(content, "\n")

	switch {
	case content == "":
		return " { " + stringLiteral("") + " }"
	case strings.IndexByte("[*.", content[0]) >= 0:
		// A continuation line may not start with these, the first line may.
		return " " + indentExceptFirstLine(content)
	case content[0] == ' ':
		if !multiline || allLinesIndented(content) {
			trimmed := strings.TrimLeft(content, " ")
			content = "{ " + stringLiteral(content[:len(content)-len(trimmed)]) + " }" + trimmed
		}
	}

	if multiline {
		return "\n" + indent + indentExceptFirstLine(content)
	}
	return " " + content
}

func serializeElements(elements []PatternElement) string {
	var b strings.Builder
	for i, el := range elements {
		switch e := el.(type) {
		case *TextElement:
			b.WriteString(escapeText(e.Value, i == len(elements)-1))
		case *Placeable:
			b.WriteString(serializePlaceable(e))
		}
	}
	return b.String()
}

// escapeText wraps characters that cannot be expressed as plain text into string
// literal placeables.
func escapeText(s string, last bool) string {
	var trail string
	if last {
		trimmed := strings.TrimRight(s, " \n")
		trail = s[len(trimmed):]
		s = trimmed
	}

	var b strings.Builder
	lineStart := false
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case ch == '{' || ch == '}':
			b.WriteString("{ " + stringLiteral(string(ch)) + " }")
		case lineStart && (ch == '[' || ch == '*' || ch == '.'):
			b.WriteString("{ " + stringLiteral(string(ch)) + " }")
		case lineStart && ch == ' ':
			j := i
			for j < len(s) && s[j] == ' ' {
				j++
			}
			if j == len(s) || s[j] == '\n' {
				b.WriteString("{ " + stringLiteral(s[i:j]) + " }")
			} else {
				b.WriteString(s[i:j])
			}
			i = j - 1
		default:
			b.WriteByte(ch)
		}
		lineStart = ch == '\n'
	}
	if trail != "" {
		b.WriteString("{ " + stringLiteral(trail) + " }")
	}
	return b.String()
}

func serializePlaceable(p *Placeable) string {
	switch e := p.Expression.(type) {
	case *Placeable:
		return "{" + serializePlaceable(e) + "}"
	case *SelectExpression:
		// Select expressions already end with a line break.
		return "{ " + serializeExpression(e) + "}"
	default:
		return "{ " + serializeExpression(e) + " }"
	}
}

func serializeExpression(expr Expression) string {
	switch e := expr.(type) {
	case *StringLiteral:
		return stringLiteral(e.Value)
	case *NumberLiteral:
		return e.Value
	case *VariableReference:
		return "$" + e.ID
	case *MessageReference:
		if e.Attribute != "" {
			return e.ID + "." + e.Attribute
		}
		return e.ID
	case *TermReference:
		out := "-" + e.ID
		if e.Attribute != "" {
			out += "." + e.Attribute
		}
		if e.Arguments != nil {
			out += serializeCallArguments(e.Arguments)
		}
		return out
	case *FunctionReference:
		return e.ID + serializeCallArguments(e.Arguments)
	case *SelectExpression:
		var b strings.Builder
		b.WriteString(serializeExpression(e.Selector))
		b.WriteString(" ->")
		for _, v := range e.Variants {
			b.WriteString(serializeVariant(v))
		}
		b.WriteString("\n")
		return b.String()
	case *Placeable:
		return serializePlaceable(e)
	}
	panic(fmt.Sprintf("unknown expression type %T", expr))
}

func serializeVariant(v *Variant) string {
	value := indentExceptFirstLine(serializePattern(v.Value))
	if v.Default {
		return "\n   *[" + KeyString(v.Key) + "]" + value
	}
	return "\n" + indent + "[" + KeyString(v.Key) + "]" + value
}

func serializeCallArguments(args *CallArguments) string {
	if args == nil {
		return "()"
	}
	parts := make([]string, 0, len(args.Positional)+len(args.Named))
	for _, arg := range args.Positional {
		parts = append(parts, serializeExpression(arg))
	}
	for _, arg := range args.Named {
		parts = append(parts, arg.Name+": "+serializeExpression(arg.Value))
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func stringLiteral(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch {
		case r == '"' || r == '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r < 0x20:
			fmt.Fprintf(&b, `\u%04X`, r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func indentExceptFirstLine(s string) string {
	lines := strings.Split(s, "\n")
	for i := 1; i < len(lines); i++ {
		if lines[i] != "" {
			lines[i] = indent + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}

func allLinesIndented(s string) bool {
	for _, line := range strings.Split(s, "\n") {
		if line != "" && line[0] != ' ' {
			return false
		}
	}
	return true
}

func hasSelect(p *Pattern) bool {
	for _, el := range p.Elements {
		if pl, ok := el.(*Placeable); ok && isSelect(pl.Expression) {
			return true
		}
	}
	return false
}

func isSelect(expr Expression) bool {
	switch e := expr.(type) {
	case *SelectExpression:
		return true
	case *Placeable:
		return isSelect(e.Expression)
	}
	return false
}
