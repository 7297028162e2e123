// Package translator provides the string table of the backup utility together with
// typed accessors for every message the command line report needs.
package translator

import (
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"sync/atomic"

	"golang.org/x/text/language"

	"github.com/acronis/go-ftl/pkg/bundle"
	"github.com/acronis/go-ftl/pkg/catalog"
)

//go:embed locales
var embedded embed.FS

// ReferenceLocale is the locale every other locale is translated from. It is also
// the last step of every fallback chain.
var ReferenceLocale = language.AmericanEnglish

// Locales returns the embedded message files laid out as <locale>/<name>.ftl.
func Locales() fs.FS {
	sub, err := fs.Sub(embedded, "locales")
	if err != nil {
		panic(fmt.Sprintf("embedded locales: %v", err))
	}
	return sub
}

// Translator formats messages in the active language. The language may be switched
// at any time; readers never block.
type Translator struct {
	catalog *catalog.Catalog
	report  *catalog.LoadReport
	current atomic.Pointer[catalog.Localizer]
	logger  *slog.Logger
}

// New loads the embedded string table.
// Available options:
// - WithLanguage(lang string) - initial language, the reference locale otherwise.
// - WithUseIsolating(b bool) - wrap placeables into isolation marks.
// - WithStrict(b bool) - fail on malformed or duplicate entries.
// - WithBundleOptions(opts ...bundle.Option) - options for every bundle.
// - WithLogger(logger *slog.Logger) - logger of the catalog.
func New(opts ...Option) (*Translator, error) {
	return NewFromFS(Locales(), opts...)
}

// NewFromFS loads message files from fsys instead of the embedded table.
func NewFromFS(fsys fs.FS, opts ...Option) (*Translator, error) {
	o := makeOptions(opts...)
	logger := o.logger
	if logger == nil {
		logger = slog.Default()
	}

	bundleOpts := append([]bundle.Option{bundle.WithUseIsolating(o.useIsolating)}, o.bundleOpts...)
	c := catalog.New(ReferenceLocale,
		catalog.WithBundleOptions(bundleOpts...),
		catalog.WithLogger(logger))

	report, err := c.LoadFS(fsys)
	if err != nil {
		return nil, fmt.Errorf("load translations: %w", err)
	}
	if o.strict && report.Errors != nil {
		return nil, fmt.Errorf("load translations: %w", report.Errors)
	}

	t := &Translator{catalog: c, report: report, logger: logger}
	t.SetLanguage(o.language)
	return t, nil
}

// Catalog returns the underlying catalog.
func (t *Translator) Catalog() *catalog.Catalog {
	return t.catalog
}

// Report returns the load report of the message files.
func (t *Translator) Report() *catalog.LoadReport {
	return t.report
}

// SetLanguage switches the active language and returns the locale actually used.
// Unknown or malformed values select the reference locale.
func (t *Translator) SetLanguage(wanted ...string) language.Tag {
	l := t.catalog.Localizer(wanted...)
	t.current.Store(l)
	t.logger.Debug("Language selected",
		slog.String("locale", l.Locale().String()),
		slog.Any("wanted", wanted))
	return l.Locale()
}

// Language returns the active locale.
func (t *Translator) Language() language.Tag {
	return t.localizer().Locale()
}

// Languages returns all loaded locales, the reference locale first.
func (t *Translator) Languages() []language.Tag {
	return t.catalog.Locales()
}

// Completeness returns the share of reference messages the locale translates, from
// 0 to 1.
func (t *Translator) Completeness(tag language.Tag) float64 {
	return t.catalog.Completeness(tag)
}

func (t *Translator) localizer() *catalog.Localizer {
	return t.current.Load()
}

// Text formats any message of the table. A missing message yields its ID.
func (t *Translator) Text(id string, args bundle.Args) string {
	return t.localizer().T(id, args)
}

// Attribute formats an attribute of a message of the table.
func (t *Translator) Attribute(id, attr string, args bundle.Args) string {
	out, err := t.localizer().Attribute(id, attr, args)
	if err != nil {
		t.logger.Debug("Attribute formatted with errors",
			slog.String("key", id+"."+attr),
			slog.String("error", err.Error()))
	}
	return out
}
