// Package lint checks a set of locales against the reference locale: coverage of
// messages and attributes, placeholder names, references and plural forms.
package lint

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/language"

	"github.com/acronis/go-ftl"
	"github.com/acronis/go-ftl/pkg/bundle"
	"github.com/acronis/go-ftl/pkg/catalog"
	"github.com/acronis/go-ftl/pkg/plural"
)

type definitions struct {
	messages map[string]*ftl.Message
	terms    map[string]*ftl.Term
	ids      []string
	junk     []*ftl.Junk
}

func collect(resources []*ftl.Resource) *definitions {
	defs := &definitions{
		messages: map[string]*ftl.Message{},
		terms:    map[string]*ftl.Term{},
	}
	for _, res := range resources {
		for _, e := range res.Body {
			switch v := e.(type) {
			case *ftl.Message:
				if _, dup := defs.messages[v.ID]; !dup {
					defs.messages[v.ID] = v
					defs.ids = append(defs.ids, v.ID)
				}
			case *ftl.Term:
				if _, dup := defs.terms[v.ID]; !dup {
					defs.terms[v.ID] = v
				}
			case *ftl.Junk:
				defs.junk = append(defs.junk, v)
			}
		}
	}
	return defs
}

type linter struct {
	opts   options
	report *Report
}

func (l *linter) add(severity Severity, code Code, tag language.Tag, key, format string, args ...any) {
	if _, skip := l.opts.ignore[code]; skip {
		return
	}
	if l.opts.strict {
		severity = SeverityError
	}
	l.report.Issues = append(l.report.Issues, Issue{
		Severity: severity,
		Code:     code,
		Locale:   tag,
		Key:      key,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Lint checks every locale of the catalog. Locales other than the default one are
// compared with it.
// Available options:
// - WithStrict(b bool) - report warnings as errors.
// - WithIgnore(codes ...Code) - skip issues with the codes.
func Lint(c *catalog.Catalog, opts ...Option) *Report {
	l := &linter{opts: makeOptions(opts...), report: &Report{}}

	ref := collect(c.Resources(c.Default()))
	order := map[language.Tag]int{}
	for i, tag := range c.Locales() {
		order[tag] = i
		defs := ref
		if tag != c.Default() {
			defs = collect(c.Resources(tag))
		}
		l.checkLocale(tag, defs)
		if tag != c.Default() {
			l.compare(tag, ref, defs)
		}
	}
	l.checkDuplicates(c.Report())

	l.report.sort(order)
	return l.report
}

func (l *linter) checkLocale(tag language.Tag, defs *definitions) {
	for _, j := range defs.junk {
		for _, a := range j.Annotations {
			l.add(SeverityError, CodeSyntaxError, tag, junkKey(j.Content), "%s", a.Error())
		}
	}

	for _, id := range defs.ids {
		m := defs.messages[id]
		if m.Value != nil && blank(m.Value) {
			l.add(SeverityError, CodeEmptyMessage, tag, id, "message has an empty value")
		}
		for _, p := range messagePatterns(m) {
			l.checkReferences(tag, defs, id, p)
			l.checkPlurals(tag, id, p)
		}
	}
	for id, t := range defs.terms {
		l.checkReferences(tag, defs, "-"+id, t.Value)
		l.checkPlurals(tag, "-"+id, t.Value)
		for _, a := range t.Attributes {
			l.checkReferences(tag, defs, "-"+id, a.Value)
		}
	}
}

func (l *linter) compare(tag language.Tag, ref, defs *definitions) {
	for _, id := range ref.ids {
		if _, ok := defs.messages[id]; !ok {
			l.add(SeverityWarning, CodeMissingMessage, tag, id, "message is not translated, the reference locale is used")
		}
	}

	for _, id := range defs.ids {
		m := defs.messages[id]
		refMsg, ok := ref.messages[id]
		if !ok {
			l.add(SeverityWarning, CodeExtraMessage, tag, id, "message is not defined by the reference locale")
			continue
		}
		if m.Value == nil && refMsg.Value != nil {
			l.add(SeverityError, CodeEmptyMessage, tag, id, "message has no value while the reference has one")
		}

		attrs := attributeNames(m)
		refAttrs := attributeNames(refMsg)
		for _, name := range sortedKeys(refAttrs) {
			if _, ok := attrs[name]; !ok {
				l.add(SeverityWarning, CodeMissingAttribute, tag, id, "attribute .%s is not translated", name)
			}
		}
		for _, name := range sortedKeys(attrs) {
			if _, ok := refAttrs[name]; !ok {
				l.add(SeverityWarning, CodeExtraAttribute, tag, id, "attribute .%s is not defined by the reference", name)
			}
		}

		vars := messageVariables(m)
		refVars := messageVariables(refMsg)
		for _, v := range sortedKeys(vars) {
			if _, ok := refVars[v]; !ok {
				l.add(SeverityError, CodeUnknownVariable, tag, id, "variable $%s is not passed by the application", v)
			}
		}
		for _, v := range sortedKeys(refVars) {
			if _, ok := vars[v]; !ok {
				l.add(SeverityWarning, CodeUnusedVariable, tag, id, "variable $%s of the reference is not used", v)
			}
		}
	}
}

func (l *linter) checkReferences(tag language.Tag, defs *definitions, key string, p *ftl.Pattern) {
	ftl.Walk(p, func(expr ftl.Expression) bool {
		switch e := expr.(type) {
		case *ftl.MessageReference:
			m, ok := defs.messages[e.ID]
			switch {
			case !ok:
				l.add(SeverityError, CodeUnknownReference, tag, key, "unknown message reference: %s", e.ID)
			case e.Attribute != "" && !hasAttribute(m.Attributes, e.Attribute):
				l.add(SeverityError, CodeUnknownReference, tag, key, "unknown attribute reference: %s.%s", e.ID, e.Attribute)
			}
		case *ftl.TermReference:
			t, ok := defs.terms[e.ID]
			switch {
			case !ok:
				l.add(SeverityError, CodeUnknownReference, tag, key, "unknown term reference: -%s", e.ID)
			case e.Attribute != "" && !hasAttribute(t.Attributes, e.Attribute):
				l.add(SeverityError, CodeUnknownReference, tag, key, "unknown attribute reference: -%s.%s", e.ID, e.Attribute)
			}
		}
		return true
	})
}

// checkPlurals warns about plural selects that lack categories the locale uses for
// integers. Such inputs still render through the default variant.
func (l *linter) checkPlurals(tag language.Tag, key string, p *ftl.Pattern) {
	ftl.Walk(p, func(expr ftl.Expression) bool {
		sel, ok := expr.(*ftl.SelectExpression)
		if !ok {
			return true
		}

		keys := map[string]struct{}{}
		looksPlural := false
		for _, v := range sel.Variants {
			if id, ok := v.Key.(*ftl.Identifier); ok {
				keys[id.Name] = struct{}{}
				if _, isCategory := plural.ParseCategory(id.Name); isCategory {
					looksPlural = true
				}
			}
		}

		var name string
		ordinal := false
		switch s := sel.Selector.(type) {
		case *ftl.VariableReference:
			name = "$" + s.ID
		case *ftl.FunctionReference:
			if s.ID != "NUMBER" {
				return true
			}
			name = "NUMBER()"
			looksPlural = true
			ordinal = isOrdinal(s.Arguments)
		default:
			return true
		}
		if !looksPlural {
			return true
		}

		var missing []string
		for _, c := range plural.IntegerCategories(tag, ordinal) {
			if c == plural.Other {
				continue
			}
			if _, ok := keys[c.String()]; !ok {
				missing = append(missing, c.String())
			}
		}
		if len(missing) > 0 {
			l.add(SeverityWarning, CodePluralCoverage, tag, key,
				"select on %s lacks plural categories: %s", name, strings.Join(missing, ", "))
		}
		return true
	})
}

func (l *linter) checkDuplicates(report *catalog.LoadReport) {
	if report == nil {
		return
	}
	for _, f := range report.Files {
		for _, err := range f.Overrides {
			var override *bundle.OverrideError
			if !errors.As(err, &override) {
				continue
			}
			key := override.ID
			if override.Term {
				key = "-" + key
			}
			l.add(SeverityError, CodeDuplicateMessage, f.Locale, key, "defined again in %s", f.Path)
		}
	}
}

func isOrdinal(args *ftl.CallArguments) bool {
	if args == nil {
		return false
	}
	for _, a := range args.Named {
		if s, ok := a.Value.(*ftl.StringLiteral); ok && a.Name == "type" && s.Value == "ordinal" {
			return true
		}
	}
	return false
}

func messagePatterns(m *ftl.Message) []*ftl.Pattern {
	var out []*ftl.Pattern
	if m.Value != nil {
		out = append(out, m.Value)
	}
	for _, a := range m.Attributes {
		out = append(out, a.Value)
	}
	return out
}

func messageVariables(m *ftl.Message) map[string]struct{} {
	out := map[string]struct{}{}
	for _, p := range messagePatterns(m) {
		for _, v := range ftl.Variables(p) {
			out[v] = struct{}{}
		}
	}
	return out
}

func attributeNames(m *ftl.Message) map[string]struct{} {
	out := map[string]struct{}{}
	for _, a := range m.Attributes {
		out[a.ID] = struct{}{}
	}
	return out
}

func hasAttribute(attrs []*ftl.Attribute, name string) bool {
	for _, a := range attrs {
		if a.ID == name {
			return true
		}
	}
	return false
}

// blank reports whether the pattern renders to whitespace only.
func blank(p *ftl.Pattern) bool {
	for _, el := range p.Elements {
		switch e := el.(type) {
		case *ftl.TextElement:
			if strings.TrimSpace(e.Value) != "" {
				return false
			}
		case *ftl.Placeable:
			s, ok := e.Expression.(*ftl.StringLiteral)
			if !ok || strings.TrimSpace(s.Value) != "" {
				return false
			}
		}
	}
	return true
}

// junkKey guesses the ID of a malformed entry from its first line.
func junkKey(content string) string {
	line, _, _ := strings.Cut(content, "\n")
	id, _, found := strings.Cut(line, "=")
	if !found {
		return ""
	}
	id = strings.TrimSpace(id)
	for i, r := range strings.TrimPrefix(id, "-") {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && (r >= '0' && r <= '9' || r == '-' || r == '_'):
		default:
			return ""
		}
	}
	return id
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
