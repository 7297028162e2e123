// Package convert moves message tables between the Fluent syntax and other
// formats: flat or nested JSON and go-i18n message files.
package convert

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/acronis/go-ftl"
)

// placeholderRe matches {name}, {$name} and {{name}}.
var placeholderRe = regexp.MustCompile(`\{\{\s*\$?([A-Za-z][A-Za-z0-9_-]*)\s*\}\}|\{\s*\$?([A-Za-z][A-Za-z0-9_-]*)\s*\}`)

// ImportJSON turns a JSON object into messages. Nested objects produce IDs joined
// with "-". A key "id.attr" becomes the attribute attr of message id. Placeholders
// written as {name}, {$name} or {{name}} become variables.
func ImportJSON(data []byte) (*ftl.Resource, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid JSON")
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("expected a JSON object, got %s", root.Type)
	}

	b := newResourceBuilder()
	if err := importObject(b, "", root); err != nil {
		return nil, err
	}
	return b.resource(), nil
}

func importObject(b *resourceBuilder, prefix string, obj gjson.Result) error {
	var err error
	obj.ForEach(func(key, value gjson.Result) bool {
		id := key.String()
		if prefix != "" {
			id = prefix + "-" + id
		}
		switch {
		case value.IsObject():
			err = importObject(b, id, value)
		case value.IsArray():
			err = fmt.Errorf("%s: arrays are not supported", id)
		default:
			err = b.add(id, placeholderPattern(value.String()))
		}
		return err == nil
	})
	return err
}

// placeholderPattern builds a pattern from text with placeholders.
func placeholderPattern(s string) *ftl.Pattern {
	p := &ftl.Pattern{}
	last := 0
	for _, m := range placeholderRe.FindAllStringSubmatchIndex(s, -1) {
		if m[0] > last {
			p.Elements = append(p.Elements, &ftl.TextElement{Value: s[last:m[0]]})
		}
		var name string
		if m[2] >= 0 {
			name = s[m[2]:m[3]]
		} else {
			name = s[m[4]:m[5]]
		}
		p.Elements = append(p.Elements, &ftl.Placeable{Expression: &ftl.VariableReference{ID: name}})
		last = m[1]
	}
	if last < len(s) {
		p.Elements = append(p.Elements, &ftl.TextElement{Value: s[last:]})
	}
	if len(p.Elements) == 0 {
		p.Elements = append(p.Elements, &ftl.Placeable{Expression: &ftl.StringLiteral{}})
	}
	return p
}

// ExportJSON writes messages as an ordered object of "id" and "id.attr" keys to
// patterns in Fluent syntax. Terms are private and are not exported.
func ExportJSON(res *ftl.Resource) ([]byte, error) {
	out := orderedmap.New[string, string]()
	for _, m := range res.Messages() {
		if _, dup := out.Get(m.ID); dup {
			continue
		}
		if m.Value != nil {
			out.Set(m.ID, ftl.SerializePattern(m.Value))
		}
		for _, a := range m.Attributes {
			out.Set(m.ID+"."+a.ID, ftl.SerializePattern(a.Value))
		}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal JSON: %w", err)
	}
	return data, nil
}

// resourceBuilder collects messages by ID, attaching "id.attr" keys as attributes.
type resourceBuilder struct {
	messages map[string]*ftl.Message
	order    []*ftl.Message
}

func newResourceBuilder() *resourceBuilder {
	return &resourceBuilder{messages: map[string]*ftl.Message{}}
}

func (b *resourceBuilder) message(id string) (*ftl.Message, error) {
	id = sanitizeID(id)
	if !validID(id) {
		return nil, fmt.Errorf("invalid message id %q", id)
	}
	m, ok := b.messages[id]
	if !ok {
		m = &ftl.Message{ID: id}
		b.messages[id] = m
		b.order = append(b.order, m)
	}
	return m, nil
}

func (b *resourceBuilder) add(key string, p *ftl.Pattern) error {
	id, attr, isAttr := strings.Cut(key, ".")
	m, err := b.message(id)
	if err != nil {
		return err
	}
	if !isAttr {
		if m.Value != nil {
			return fmt.Errorf("duplicate message %q", m.ID)
		}
		m.Value = p
		return nil
	}

	attr = sanitizeID(strings.ReplaceAll(attr, ".", "-"))
	if !validID(attr) {
		return fmt.Errorf("invalid attribute name %q", attr)
	}
	for _, a := range m.Attributes {
		if a.ID == attr {
			return fmt.Errorf("duplicate attribute %s.%s", m.ID, attr)
		}
	}
	m.Attributes = append(m.Attributes, &ftl.Attribute{ID: attr, Value: p})
	return nil
}

func (b *resourceBuilder) resource() *ftl.Resource {
	res := &ftl.Resource{}
	for _, m := range b.order {
		res.Body = append(res.Body, m)
	}
	return res
}

// sanitizeID replaces characters not allowed in identifiers with "-".
func sanitizeID(id string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '_' || r == '-' {
			return r
		}
		return '-'
	}, strings.TrimSpace(id))
}

func validID(id string) bool {
	if id == "" {
		return false
	}
	c := id[0]
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}
