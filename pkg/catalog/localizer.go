package catalog

import (
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/text/language"

	"github.com/acronis/go-ftl/pkg/bundle"
)

// Localizer formats messages for one requested locale. Every message is taken from
// the first bundle of the chain that defines it.
type Localizer struct {
	chain  []*bundle.Bundle
	logger *slog.Logger
}

// Locale returns the locale preferred by the localizer.
func (l *Localizer) Locale() language.Tag {
	if len(l.chain) == 0 {
		return language.Und
	}
	return l.chain[0].Locale()
}

// Chain returns locales of the fallback chain in lookup order.
func (l *Localizer) Chain() []language.Tag {
	out := make([]language.Tag, 0, len(l.chain))
	for _, b := range l.chain {
		out = append(out, b.Locale())
	}
	return out
}

// Resolve returns the locale that supplies the message.
func (l *Localizer) Resolve(id string) (language.Tag, bool) {
	for _, b := range l.chain {
		if b.HasMessage(id) {
			return b.Locale(), true
		}
	}
	return language.Und, false
}

// Has reports whether any locale of the chain defines the message.
func (l *Localizer) Has(id string) bool {
	_, ok := l.Resolve(id)
	return ok
}

// Format formats the message. When no locale defines it, the ID itself is returned
// together with ErrMissingMessage. Other errors come with usable output that
// contains fallback text.
func (l *Localizer) Format(id string, args bundle.Args) (string, error) {
	for _, b := range l.chain {
		if b.HasMessage(id) {
			out, errs := b.Format(id, args)
			return out, formatError(id, errs)
		}
	}
	return id, fmt.Errorf("%w: %s", ErrMissingMessage, id)
}

// Attribute formats an attribute of the message.
func (l *Localizer) Attribute(id, attr string, args bundle.Args) (string, error) {
	for _, b := range l.chain {
		if b.HasAttribute(id, attr) {
			out, errs := b.FormatAttribute(id, attr, args)
			return out, formatError(id+"."+attr, errs)
		}
	}
	return id + "." + attr, fmt.Errorf("%w: %s.%s", ErrMissingMessage, id, attr)
}

// T formats the message and logs errors at debug level.
func (l *Localizer) T(id string, args bundle.Args) string {
	out, err := l.Format(id, args)
	if err != nil {
		l.logger.Debug("Message formatted with errors",
			slog.String("key", id),
			slog.String("locale", l.Locale().String()),
			slog.String("error", err.Error()))
	}
	return out
}

func formatError(id string, errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("format %s: %w", id, errors.Join(errs...))
}
