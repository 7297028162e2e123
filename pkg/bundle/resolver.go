package bundle

import (
	"strconv"
	"strings"

	"golang.org/x/text/message"

	"github.com/acronis/go-ftl"
)

// Unicode isolation marks placed around placeables.
const (
	fsi = "\u2068"
	pdi = "\u2069"
)

// scope is the state of a single Format call.
type scope struct {
	bundle  *Bundle
	printer *message.Printer
	args    Args
	// params are the named arguments of the term being resolved, nil outside terms.
	params map[string]Value

	errs       []error
	placeables int
	dirty      map[*ftl.Pattern]struct{}
	aborted    bool
}

func newScope(b *Bundle, args Args) *scope {
	return &scope{
		bundle:  b,
		printer: message.NewPrinter(b.locale),
		args:    args,
		dirty:   map[*ftl.Pattern]struct{}{},
	}
}

func (s *scope) report(err error) {
	s.errs = append(s.errs, err)
}

// resolvePattern resolves a pattern of the entry identified by ref.
func (s *scope) resolvePattern(ref string, p *ftl.Pattern) Value {
	if _, ok := s.dirty[p]; ok {
		s.report(&CyclicReferenceError{ID: ref})
		return NoneValue{}
	}
	s.dirty[p] = struct{}{}
	defer delete(s.dirty, p)

	if len(p.Elements) == 1 {
		if t, ok := p.Elements[0].(*ftl.TextElement); ok {
			return StringValue(t.Value)
		}
	}

	isolate := s.bundle.opts.useIsolating && len(p.Elements) > 1
	var b strings.Builder
	for _, el := range p.Elements {
		if s.aborted {
			return NoneValue{}
		}
		switch e := el.(type) {
		case *ftl.TextElement:
			b.WriteString(e.Value)
		case *ftl.Placeable:
			s.placeables++
			if s.placeables > s.bundle.opts.maxPlaceables {
				s.aborted = true
				s.report(&RangeError{Count: s.placeables, Limit: s.bundle.opts.maxPlaceables})
				return NoneValue{}
			}
			if isolate {
				b.WriteString(fsi)
			}
			b.WriteString(s.resolveExpression(ref, e.Expression).Format(s.printer))
			if isolate {
				b.WriteString(pdi)
			}
		}
	}
	return StringValue(b.String())
}

func (s *scope) resolveExpression(ref string, expr ftl.Expression) Value {
	switch e := expr.(type) {
	case *ftl.StringLiteral:
		return StringValue(e.Value)
	case *ftl.NumberLiteral:
		v, err := numberLiteral(e.Value)
		if err != nil {
			s.report(&TypeError{Msg: err.Error()})
			return NoneValue{Fallback: e.Value}
		}
		return v
	case *ftl.VariableReference:
		return s.resolveVariable(e)
	case *ftl.MessageReference:
		return s.resolveMessageReference(e)
	case *ftl.TermReference:
		return s.resolveTermReference(e)
	case *ftl.FunctionReference:
		return s.resolveFunctionReference(ref, e)
	case *ftl.SelectExpression:
		return s.resolveSelect(ref, e)
	case *ftl.Placeable:
		return s.resolveExpression(ref, e.Expression)
	}
	return NoneValue{}
}

func (s *scope) resolveVariable(e *ftl.VariableReference) Value {
	fallback := NoneValue{Fallback: "$" + e.ID}
	if s.params != nil {
		// Terms only see their own arguments and may leave them unset.
		if v, ok := s.params[e.ID]; ok {
			return v
		}
		return fallback
	}
	arg, ok := s.args[e.ID]
	if !ok {
		s.report(&ReferenceError{Kind: KindVariable, ID: "$" + e.ID})
		return fallback
	}
	v, err := toValue(arg)
	if err != nil {
		s.report(err)
		return fallback
	}
	return v
}

func (s *scope) resolveMessageReference(e *ftl.MessageReference) Value {
	msg, ok := s.bundle.messages[e.ID]
	if !ok {
		s.report(&ReferenceError{Kind: KindMessage, ID: e.ID})
		return NoneValue{Fallback: e.ID}
	}
	if e.Attribute != "" {
		ref := e.ID + "." + e.Attribute
		attr := findAttribute(msg.Attributes, e.Attribute)
		if attr == nil {
			s.report(&ReferenceError{Kind: KindAttribute, ID: ref})
			return NoneValue{Fallback: ref}
		}
		return s.resolvePattern(ref, attr.Value)
	}
	if msg.Value == nil {
		s.report(&ReferenceError{Kind: KindValue, ID: e.ID})
		return NoneValue{Fallback: e.ID}
	}
	return s.resolvePattern(e.ID, msg.Value)
}

func (s *scope) resolveTermReference(e *ftl.TermReference) Value {
	id := "-" + e.ID
	term, ok := s.bundle.terms[e.ID]
	if !ok {
		s.report(&ReferenceError{Kind: KindTerm, ID: id})
		return NoneValue{Fallback: id}
	}

	params := map[string]Value{}
	if e.Arguments != nil {
		for _, arg := range e.Arguments.Named {
			params[arg.Name] = s.resolveExpression(id, arg.Value)
		}
	}
	saved := s.params
	s.params = params
	defer func() { s.params = saved }()

	if e.Attribute != "" {
		ref := id + "." + e.Attribute
		attr := findAttribute(term.Attributes, e.Attribute)
		if attr == nil {
			s.report(&ReferenceError{Kind: KindAttribute, ID: ref})
			return NoneValue{Fallback: ref}
		}
		return s.resolvePattern(ref, attr.Value)
	}
	return s.resolvePattern(id, term.Value)
}

func (s *scope) resolveFunctionReference(ref string, e *ftl.FunctionReference) Value {
	fallback := NoneValue{Fallback: e.ID + "()"}
	fn, ok := s.bundle.opts.functions[e.ID]
	if !ok {
		s.report(&ReferenceError{Kind: KindFunction, ID: e.ID + "()"})
		return fallback
	}

	var positional []Value
	named := map[string]Value{}
	if e.Arguments != nil {
		for _, arg := range e.Arguments.Positional {
			positional = append(positional, s.resolveExpression(ref, arg))
		}
		for _, arg := range e.Arguments.Named {
			named[arg.Name] = s.resolveExpression(ref, arg.Value)
		}
	}

	v, err := fn(positional, named)
	if err != nil {
		s.report(err)
		return fallback
	}
	if v == nil {
		return fallback
	}
	return v
}

func (s *scope) resolveSelect(ref string, e *ftl.SelectExpression) Value {
	selector := s.resolveExpression(ref, e.Selector)
	variant := s.matchVariant(selector, e.Variants)
	if variant == nil {
		return NoneValue{}
	}
	return s.resolvePattern(ref, variant.Value)
}

// matchVariant picks the variant for the selector value. Exact numeric keys are
// preferred over plural categories; the default variant is used when nothing matches.
func (s *scope) matchVariant(selector Value, variants []*ftl.Variant) *ftl.Variant {
	switch v := selector.(type) {
	case StringValue:
		for _, variant := range variants {
			if key, ok := variant.Key.(*ftl.Identifier); ok && key.Name == string(v) {
				return variant
			}
		}
	case NumberValue:
		for _, variant := range variants {
			if key, ok := variant.Key.(*ftl.NumberLiteral); ok {
				if f, err := strconv.ParseFloat(key.Value, 64); err == nil && f == v.Value {
					return variant
				}
			}
		}
		category := v.Category(s.bundle.locale).String()
		for _, variant := range variants {
			if key, ok := variant.Key.(*ftl.Identifier); ok && key.Name == category {
				return variant
			}
		}
	}
	for _, variant := range variants {
		if variant.Default {
			return variant
		}
	}
	return nil
}
