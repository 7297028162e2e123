// Package bundle renders messages of a single locale.
package bundle

import (
	"sort"
	"sync"

	"golang.org/x/text/language"

	"github.com/acronis/go-ftl"
)

// Bundle holds the messages and terms of one locale and formats them.
// It is safe to call Format concurrently with other Format calls and with AddResource.
type Bundle struct {
	locale language.Tag
	opts   options

	mu       sync.RWMutex
	messages map[string]*ftl.Message
	terms    map[string]*ftl.Term
	ids      []string
}

// New creates an empty Bundle for the locale.
// Available options:
// - WithUseIsolating(b bool) - wraps placeables in FSI/PDI marks, enabled by default.
// - WithAllowOverrides(b bool) - lets later definitions replace earlier ones.
// - WithMaxPlaceables(n int) - limits placeables expanded per call, 100 by default.
// - WithFunction(name string, fn Function) - registers a custom function.
func New(locale language.Tag, opts ...Option) *Bundle {
	return &Bundle{
		locale:   locale,
		opts:     makeOptions(opts...),
		messages: map[string]*ftl.Message{},
		terms:    map[string]*ftl.Term{},
	}
}

// Locale returns the locale of the bundle.
func (b *Bundle) Locale() language.Tag {
	return b.locale
}

// AddResource adds messages and terms of the resource. Junk and comments are ignored.
// An ID that is already defined yields an OverrideError and the earlier definition is
// kept, unless overrides are allowed.
func (b *Bundle) AddResource(res *ftl.Resource) []error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var errs []error
	for _, entry := range res.Body {
		switch e := entry.(type) {
		case *ftl.Message:
			if _, ok := b.messages[e.ID]; ok {
				if !b.opts.allowOverrides {
					errs = append(errs, &OverrideError{ID: e.ID})
					continue
				}
			} else {
				b.ids = append(b.ids, e.ID)
			}
			b.messages[e.ID] = e
		case *ftl.Term:
			if _, ok := b.terms[e.ID]; ok && !b.opts.allowOverrides {
				errs = append(errs, &OverrideError{ID: e.ID, Term: true})
				continue
			}
			b.terms[e.ID] = e
		}
	}
	return errs
}

// HasMessage reports whether a message with the ID is defined.
func (b *Bundle) HasMessage(id string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.messages[id]
	return ok
}

// HasAttribute reports whether the message defines the attribute.
func (b *Bundle) HasAttribute(id, attr string) bool {
	msg, ok := b.Message(id)
	return ok && findAttribute(msg.Attributes, attr) != nil
}

// Message returns the message with the ID.
func (b *Bundle) Message(id string) (*ftl.Message, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	msg, ok := b.messages[id]
	return msg, ok
}

// Term returns the term with the ID given without the leading dash.
func (b *Bundle) Term(id string) (*ftl.Term, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	term, ok := b.terms[id]
	return term, ok
}

// MessageIDs returns IDs of all messages in the order they were added.
func (b *Bundle) MessageIDs() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]string(nil), b.ids...)
}

// TermIDs returns sorted IDs of all terms, without the leading dash.
func (b *Bundle) TermIDs() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	ids := make([]string, 0, len(b.terms))
	for id := range b.terms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Format formats the value of the message. Errors do not stop formatting: the
// result is always usable and contains fallback text where resolution failed.
func (b *Bundle) Format(id string, args Args) (string, []error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	msg, ok := b.messages[id]
	if !ok {
		return NoneValue{Fallback: id}.Format(nil), []error{&ReferenceError{Kind: KindMessage, ID: id}}
	}
	if msg.Value == nil {
		return NoneValue{Fallback: id}.Format(nil), []error{&ReferenceError{Kind: KindValue, ID: id}}
	}
	return b.format(id, msg.Value, args)
}

// FormatAttribute formats an attribute of the message.
func (b *Bundle) FormatAttribute(id, attr string, args Args) (string, []error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	ref := id + "." + attr
	msg, ok := b.messages[id]
	if !ok {
		return NoneValue{Fallback: ref}.Format(nil), []error{&ReferenceError{Kind: KindMessage, ID: id}}
	}
	a := findAttribute(msg.Attributes, attr)
	if a == nil {
		return NoneValue{Fallback: ref}.Format(nil), []error{&ReferenceError{Kind: KindAttribute, ID: ref}}
	}
	return b.format(ref, a.Value, args)
}

// FormatPattern formats an arbitrary pattern against the messages of the bundle.
func (b *Bundle) FormatPattern(p *ftl.Pattern, args Args) (string, []error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.format("", p, args)
}

func (b *Bundle) format(id string, p *ftl.Pattern, args Args) (string, []error) {
	if p == nil {
		return "", nil
	}
	s := newScope(b, args)
	out := s.resolvePattern(id, p)
	if s.aborted {
		return NoneValue{}.Format(s.printer), s.errs
	}
	return out.Format(s.printer), s.errs
}

func findAttribute(attrs []*ftl.Attribute, name string) *ftl.Attribute {
	for _, a := range attrs {
		if a.ID == name {
			return a
		}
	}
	return nil
}
