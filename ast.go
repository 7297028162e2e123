/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package ftl

// Span is a byte range inside the parsed source. It is filled only when the parser
// is created with WithSpans(true).
type Span struct {
	Start int
	End   int
}

// Resource is a parsed message table.
type Resource struct {
	Body []Entry
}

// Entry is a top-level item of a Resource: *Message, *Term, *Comment or *Junk.
type Entry interface {
	entry()
}

// Message is a translatable unit addressed by its ID.
// A message has a value, attributes or both.
type Message struct {
	ID         string
	Value      *Pattern
	Attributes []*Attribute
	Comment    *Comment
	Span       *Span
}

// Term is a private message written as "-id". The ID is stored without the dash.
// Terms may be referenced from patterns only and always have a value.
type Term struct {
	ID         string
	Value      *Pattern
	Attributes []*Attribute
	Comment    *Comment
	Span       *Span
}

// CommentLevel distinguishes "#", "##" and "###" comments.
type CommentLevel int

const (
	CommentLevelComment CommentLevel = iota + 1
	CommentLevelGroup
	CommentLevelResource
)

// Prefix returns the sigil used for the comment level.
func (l CommentLevel) Prefix() string {
	switch l {
	case CommentLevelGroup:
		return "##"
	case CommentLevelResource:
		return "###"
	default:
		return "#"
	}
}

// Comment is a translator annotation. Comments are never shown to end users.
type Comment struct {
	Level   CommentLevel
	Content string
	Span    *Span
}

// Junk keeps the raw text of an entry that failed to parse.
type Junk struct {
	Content     string
	Annotations []*ParseError
	Span        *Span
}

func (*Message) entry() {}
func (*Term) entry()    {}
func (*Comment) entry() {}
func (*Junk) entry()    {}

// Attribute is a sub-entry scoped under a message or term, e.g. a tooltip.
type Attribute struct {
	ID    string
	Value *Pattern
}

// Pattern is a template made of text and placeables.
type Pattern struct {
	Elements []PatternElement
}

// PatternElement is either *TextElement or *Placeable.
type PatternElement interface {
	patternElement()
}

// TextElement is a run of literal text.
type TextElement struct {
	Value string
}

// Placeable is an expression enclosed in braces.
type Placeable struct {
	Expression Expression
}

func (*TextElement) patternElement() {}
func (*Placeable) patternElement()   {}

// Expression is anything that can appear inside a placeable.
type Expression interface {
	expression()
}

// StringLiteral holds the unescaped value of a quoted literal.
type StringLiteral struct {
	Value string
}

// NumberLiteral keeps the source text of a number so it can be written back as is.
type NumberLiteral struct {
	Value string
}

// VariableReference is a "$name" placeholder.
type VariableReference struct {
	ID string
}

// MessageReference points at another message or one of its attributes.
type MessageReference struct {
	ID        string
	Attribute string
}

// TermReference points at a term, optionally passing parameters.
// ID is stored without the leading dash.
type TermReference struct {
	ID        string
	Attribute string
	Arguments *CallArguments
}

// FunctionReference calls a function registered in the renderer.
type FunctionReference struct {
	ID        string
	Arguments *CallArguments
}

// SelectExpression chooses one of the variants based on the selector value.
type SelectExpression struct {
	Selector Expression
	Variants []*Variant
}

func (*StringLiteral) expression()     {}
func (*NumberLiteral) expression()     {}
func (*VariableReference) expression() {}
func (*MessageReference) expression()  {}
func (*TermReference) expression()     {}
func (*FunctionReference) expression() {}
func (*SelectExpression) expression()  {}
func (*Placeable) expression()         {}

// CallArguments holds positional and named arguments of a call.
type CallArguments struct {
	Positional []Expression
	Named      []*NamedArgument
}

// NamedArgument is a "name: literal" pair.
type NamedArgument struct {
	Name  string
	Value Expression
}

// VariantKey is either *Identifier or *NumberLiteral.
type VariantKey interface {
	variantKey()
}

// Identifier is a bare variant key such as "one" or "other".
type Identifier struct {
	Name string
}

func (*Identifier) variantKey()    {}
func (*NumberLiteral) variantKey() {}

// Variant is one branch of a select expression. Exactly one variant of a select
// expression is the default ("*[other]").
type Variant struct {
	Key     VariantKey
	Value   *Pattern
	Default bool
}

// KeyString returns the textual form of a variant key.
func KeyString(key VariantKey) string {
	switch k := key.(type) {
	case *Identifier:
		return k.Name
	case *NumberLiteral:
		return k.Value
	}
	return ""
}

// Messages returns messages of the resource in source order.
func (r *Resource) Messages() []*Message {
	var out []*Message
	for _, e := range r.Body {
		if m, ok := e.(*Message); ok {
			out = append(out, m)
		}
	}
	return out
}

// Terms returns terms of the resource in source order.
func (r *Resource) Terms() []*Term {
	var out []*Term
	for _, e := range r.Body {
		if t, ok := e.(*Term); ok {
			out = append(out, t)
		}
	}
	return out
}

// Junk returns entries that failed to parse.
func (r *Resource) Junk() []*Junk {
	var out []*Junk
	for _, e := range r.Body {
		if j, ok := e.(*Junk); ok {
			out = append(out, j)
		}
	}
	return out
}

// Lookup finds a message by ID, or a term when the ID starts with "-".
// The first definition wins.
func (r *Resource) Lookup(id string) (Entry, bool) {
	for _, e := range r.Body {
		switch v := e.(type) {
		case *Message:
			if v.ID == id {
				return v, true
			}
		case *Term:
			if "-"+v.ID == id {
				return v, true
			}
		}
	}
	return nil, false
}
