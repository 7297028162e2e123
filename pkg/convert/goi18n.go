package convert

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"

	"github.com/acronis/go-ftl"
	"github.com/acronis/go-ftl/pkg/plural"
)

// pluralCountVar is the variable that receives the go-i18n plural count.
const pluralCountVar = "count"

// ExportGoI18n writes messages as a go-i18n TOML message file. Terms and message
// references are inlined. A select on a variable with plural category keys becomes
// the plural forms of the message. Other selects keep their default variant.
// Attributes are exported as "id.attr" and comments as descriptions.
func ExportGoI18n(res *ftl.Resource) ([]byte, error) {
	out := map[string]any{}
	for _, m := range res.Messages() {
		if _, dup := out[m.ID]; dup {
			continue
		}
		var description string
		if m.Comment != nil {
			description = m.Comment.Content
		}
		if m.Value != nil {
			msg, err := exportMessage(res, m.ID, m.Value, description)
			if err != nil {
				return nil, err
			}
			out[m.ID] = messageValue(msg)
		}
		for _, a := range m.Attributes {
			id := m.ID + "." + a.ID
			msg, err := exportMessage(res, id, a.Value, "")
			if err != nil {
				return nil, err
			}
			out[id] = messageValue(msg)
		}
	}

	data, err := toml.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("marshal TOML: %w", err)
	}
	return data, nil
}

func exportMessage(res *ftl.Resource, id string, p *ftl.Pattern, description string) (*i18n.Message, error) {
	msg := &i18n.Message{ID: id, Description: description}
	forms := pluralForms(p)
	if len(forms) == 0 {
		forms = []plural.Category{plural.Other}
	}

	for _, c := range forms {
		e := &exporter{res: res, visiting: map[string]bool{id: true}}
		var sb strings.Builder
		category := ""
		if len(forms) > 1 {
			category = c.String()
		}
		if err := e.pattern(&sb, p, scope{category: category}); err != nil {
			return nil, fmt.Errorf("%s: %w", id, err)
		}
		text := sb.String()
		switch c {
		case plural.Zero:
			msg.Zero = text
		case plural.One:
			msg.One = text
		case plural.Two:
			msg.Two = text
		case plural.Few:
			msg.Few = text
		case plural.Many:
			msg.Many = text
		default:
			msg.Other = text
		}
	}
	return msg, nil
}

// messageValue is the TOML form of a message: a bare string when only "other" is set.
func messageValue(msg *i18n.Message) any {
	if msg.Description == "" && msg.Zero == "" && msg.One == "" && msg.Two == "" &&
		msg.Few == "" && msg.Many == "" {
		return msg.Other
	}
	out := map[string]string{}
	set := func(key, value string) {
		if value != "" {
			out[key] = value
		}
	}
	set("description", msg.Description)
	set("zero", msg.Zero)
	set("one", msg.One)
	set("two", msg.Two)
	set("few", msg.Few)
	set("many", msg.Many)
	set("other", msg.Other)
	return out
}

// pluralForms lists the categories used as keys of top-level plural selects,
// "other" included. It returns nil for messages without such a select.
func pluralForms(p *ftl.Pattern) []plural.Category {
	seen := map[plural.Category]bool{}
	for _, el := range p.Elements {
		pl, ok := el.(*ftl.Placeable)
		if !ok {
			continue
		}
		sel, ok := pl.Expression.(*ftl.SelectExpression)
		if !ok || !numericSelector(sel.Selector) {
			continue
		}
		for _, v := range sel.Variants {
			if id, ok := v.Key.(*ftl.Identifier); ok {
				if c, ok := plural.ParseCategory(id.Name); ok {
					seen[c] = true
				}
			}
		}
	}
	if len(seen) == 0 {
		return nil
	}
	seen[plural.Other] = true

	var out []plural.Category
	for c := plural.Zero; c <= plural.Other; c++ {
		if seen[c] {
			out = append(out, c)
		}
	}
	return out
}

func numericSelector(expr ftl.Expression) bool {
	switch e := expr.(type) {
	case *ftl.VariableReference:
		return true
	case *ftl.FunctionReference:
		return e.ID == "NUMBER"
	}
	return false
}

type scope struct {
	// category is the plural form being written, empty for the default variant.
	category string
	// params holds the named arguments of the current term call.
	params map[string]ftl.Expression
	inTerm bool
}

type exporter struct {
	res      *ftl.Resource
	visiting map[string]bool
}

func (e *exporter) pattern(sb *strings.Builder, p *ftl.Pattern, sc scope) error {
	for _, el := range p.Elements {
		switch el := el.(type) {
		case *ftl.TextElement:
			sb.WriteString(escapeTemplate(el.Value))
		case *ftl.Placeable:
			if err := e.expression(sb, el.Expression, sc); err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *exporter) expression(sb *strings.Builder, expr ftl.Expression, sc scope) error {
	switch ex := expr.(type) {
	case *ftl.StringLiteral:
		sb.WriteString(escapeTemplate(ex.Value))
	case *ftl.NumberLiteral:
		sb.WriteString(ex.Value)
	case *ftl.Placeable:
		return e.expression(sb, ex.Expression, sc)
	case *ftl.VariableReference:
		if !sc.inTerm {
			sb.WriteString(templateField(ex.ID))
			return nil
		}
		if v, ok := sc.params[ex.ID]; ok {
			return e.expression(sb, v, scope{category: sc.category})
		}
		sb.WriteString("{$" + ex.ID + "}")
	case *ftl.FunctionReference:
		if ex.ID != "NUMBER" || ex.Arguments == nil || len(ex.Arguments.Positional) == 0 {
			return fmt.Errorf("function %s() cannot be expressed as a template", ex.ID)
		}
		return e.expression(sb, ex.Arguments.Positional[0], sc)
	case *ftl.MessageReference:
		key := ex.ID
		entry, ok := e.res.Lookup(ex.ID)
		if !ok {
			return fmt.Errorf("unknown message: %s", ex.ID)
		}
		m := entry.(*ftl.Message)
		p := m.Value
		if ex.Attribute != "" {
			key += "." + ex.Attribute
			p = findAttribute(m.Attributes, ex.Attribute)
		}
		if p == nil {
			return fmt.Errorf("unknown message: %s", key)
		}
		return e.inline(sb, key, p, scope{category: sc.category})
	case *ftl.TermReference:
		key := "-" + ex.ID
		entry, ok := e.res.Lookup(key)
		if !ok {
			return fmt.Errorf("unknown term: %s", key)
		}
		t := entry.(*ftl.Term)
		p := t.Value
		if ex.Attribute != "" {
			key += "." + ex.Attribute
			p = findAttribute(t.Attributes, ex.Attribute)
		}
		if p == nil {
			return fmt.Errorf("unknown term: %s", key)
		}
		params := map[string]ftl.Expression{}
		if ex.Arguments != nil {
			for _, arg := range ex.Arguments.Named {
				params[arg.Name] = arg.Value
			}
		}
		return e.inline(sb, key, p, scope{category: sc.category, params: params, inTerm: true})
	case *ftl.SelectExpression:
		v := chooseVariant(ex, selectorKey(ex.Selector, sc))
		if v == nil {
			return fmt.Errorf("select expression without variants")
		}
		return e.pattern(sb, v.Value, sc)
	default:
		return fmt.Errorf("unsupported expression %T", expr)
	}
	return nil
}

func (e *exporter) inline(sb *strings.Builder, key string, p *ftl.Pattern, sc scope) error {
	if e.visiting[key] {
		return fmt.Errorf("cyclic reference: %s", key)
	}
	e.visiting[key] = true
	defer delete(e.visiting, key)
	return e.pattern(sb, p, sc)
}

func findAttribute(attrs []*ftl.Attribute, name string) *ftl.Pattern {
	for _, a := range attrs {
		if a.ID == name {
			return a.Value
		}
	}
	return nil
}

// selectorKey returns the variant key a selector resolves to without runtime data.
func selectorKey(expr ftl.Expression, sc scope) string {
	switch ex := expr.(type) {
	case *ftl.StringLiteral:
		return ex.Value
	case *ftl.NumberLiteral:
		return ex.Value
	case *ftl.VariableReference:
		if !sc.inTerm {
			return sc.category
		}
		switch v := sc.params[ex.ID].(type) {
		case *ftl.StringLiteral:
			return v.Value
		case *ftl.NumberLiteral:
			return v.Value
		}
	case *ftl.FunctionReference:
		if ex.ID == "NUMBER" && !sc.inTerm {
			return sc.category
		}
	}
	return ""
}

func chooseVariant(sel *ftl.SelectExpression, key string) *ftl.Variant {
	var def *ftl.Variant
	for _, v := range sel.Variants {
		if key != "" && ftl.KeyString(v.Key) == key {
			return v
		}
		if v.Default {
			def = v
		}
	}
	if def == nil && len(sel.Variants) > 0 {
		def = sel.Variants[len(sel.Variants)-1]
	}
	return def
}

func templateField(name string) string {
	if goIdentifier(name) {
		return "{{." + name + "}}"
	}
	return `{{index . "` + name + `"}}`
}

func goIdentifier(s string) bool {
	for i, r := range s {
		switch {
		case r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return s != ""
}

func escapeTemplate(s string) string {
	return strings.ReplaceAll(s, "{{", `{{"{{"}}`)
}

var templateFieldRe = regexp.MustCompile(`\{\{\s*\.([A-Za-z_][A-Za-z0-9_]*)\s*\}\}|\{\{\s*index\s+\.\s+"([A-Za-z][A-Za-z0-9_-]*)"\s*\}\}`)

// ImportGoI18n reads a go-i18n message file. The file name carries the language
// and the format, e.g. "active.en.toml"; TOML and JSON files are supported.
// Template fields become variables and {{.PluralCount}} becomes $count. Plural
// forms become a select on the single variable used by the forms, or on $count.
func ImportGoI18n(data []byte, path string) (*ftl.Resource, error) {
	b := i18n.NewBundle(language.English)
	b.RegisterUnmarshalFunc("toml", toml.Unmarshal)
	b.RegisterUnmarshalFunc("json", json.Unmarshal)

	mf, err := b.ParseMessageFileBytes(data, path)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	messages := append([]*i18n.Message(nil), mf.Messages...)
	sort.Slice(messages, func(i, j int) bool { return messages[i].ID < messages[j].ID })

	rb := newResourceBuilder()
	for _, msg := range messages {
		if err := rb.add(msg.ID, importMessage(msg)); err != nil {
			return nil, err
		}
		if msg.Description == "" || strings.Contains(msg.ID, ".") {
			continue
		}
		m, err := rb.message(msg.ID)
		if err != nil {
			return nil, err
		}
		m.Comment = &ftl.Comment{Level: ftl.CommentLevelComment, Content: msg.Description}
	}
	return rb.resource(), nil
}

func importMessage(msg *i18n.Message) *ftl.Pattern {
	forms := []struct {
		category plural.Category
		text     string
	}{
		{plural.Zero, msg.Zero},
		{plural.One, msg.One},
		{plural.Two, msg.Two},
		{plural.Few, msg.Few},
		{plural.Many, msg.Many},
		{plural.Other, msg.Other},
	}

	sel := &ftl.SelectExpression{}
	vars := map[string]bool{}
	for _, f := range forms {
		if f.text == "" {
			continue
		}
		p := templatePattern(f.text)
		for _, name := range ftl.Variables(p) {
			vars[name] = true
		}
		sel.Variants = append(sel.Variants, &ftl.Variant{
			Key:     &ftl.Identifier{Name: f.category.String()},
			Value:   p,
			Default: f.category == plural.Other,
		})
	}
	switch len(sel.Variants) {
	case 0:
		return placeholderPattern("")
	case 1:
		if msg.Other != "" {
			return sel.Variants[0].Value
		}
	}
	if msg.Other == "" {
		sel.Variants[len(sel.Variants)-1].Default = true
	}

	selector := pluralCountVar
	if len(vars) == 1 {
		for name := range vars {
			selector = name
		}
	}
	sel.Selector = &ftl.VariableReference{ID: selector}
	return &ftl.Pattern{Elements: []ftl.PatternElement{&ftl.Placeable{Expression: sel}}}
}

// templatePattern turns template fields into variables. Other actions stay as text.
func templatePattern(s string) *ftl.Pattern {
	p := &ftl.Pattern{}
	last := 0
	for _, m := range templateFieldRe.FindAllStringSubmatchIndex(s, -1) {
		if m[0] > last {
			p.Elements = append(p.Elements, &ftl.TextElement{Value: s[last:m[0]]})
		}
		var name string
		if m[2] >= 0 {
			name = s[m[2]:m[3]]
		} else {
			name = s[m[4]:m[5]]
		}
		if name == "PluralCount" {
			name = pluralCountVar
		}
		p.Elements = append(p.Elements, &ftl.Placeable{Expression: &ftl.VariableReference{ID: name}})
		last = m[1]
	}
	if last < len(s) {
		p.Elements = append(p.Elements, &ftl.TextElement{Value: s[last:]})
	}
	return p
}
