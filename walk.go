/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package ftl

// Walk calls fn for every expression of the pattern in depth-first order,
// descending into select variants, nested placeables and call arguments.
// Returning false from fn skips the children of that expression.
func Walk(p *Pattern, fn func(Expression) bool) {
	if p == nil {
		return
	}
	for _, el := range p.Elements {
		if pl, ok := el.(*Placeable); ok {
			walkExpression(pl.Expression, fn)
		}
	}
}

func walkExpression(expr Expression, fn func(Expression) bool) {
	if !fn(expr) {
		return
	}
	switch e := expr.(type) {
	case *Placeable:
		walkExpression(e.Expression, fn)
	case *SelectExpression:
		walkExpression(e.Selector, fn)
		for _, v := range e.Variants {
			Walk(v.Value, fn)
		}
	case *TermReference:
		walkArguments(e.Arguments, fn)
	case *FunctionReference:
		walkArguments(e.Arguments, fn)
	}
}

func walkArguments(args *CallArguments, fn func(Expression) bool) {
	if args == nil {
		return
	}
	for _, arg := range args.Positional {
		walkExpression(arg, fn)
	}
	for _, arg := range args.Named {
		walkExpression(arg.Value, fn)
	}
}

// Variables returns distinct names of variables used by the pattern in order of
// first appearance. Variables passed to terms as named arguments are not included.
func Variables(p *Pattern) []string {
	var out []string
	seen := map[string]struct{}{}
	Walk(p, func(expr Expression) bool {
		if v, ok := expr.(*VariableReference); ok {
			if _, dup := seen[v.ID]; !dup {
				seen[v.ID] = struct{}{}
				out = append(out, v.ID)
			}
		}
		return true
	})
	return out
}

// References returns distinct message and term IDs referenced by the pattern.
// Term IDs are returned without the leading dash.
func References(p *Pattern) (messages, terms []string) {
	seenMessages := map[string]struct{}{}
	seenTerms := map[string]struct{}{}
	Walk(p, func(expr Expression) bool {
		switch e := expr.(type) {
		case *MessageReference:
			if _, dup := seenMessages[e.ID]; !dup {
				seenMessages[e.ID] = struct{}{}
				messages = append(messages, e.ID)
			}
		case *TermReference:
			if _, dup := seenTerms[e.ID]; !dup {
				seenTerms[e.ID] = struct{}{}
				terms = append(terms, e.ID)
			}
		}
		return true
	})
	return messages, terms
}
