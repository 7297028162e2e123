package catalog

import (
	"golang.org/x/text/language"

	"github.com/acronis/go-ftl"
)

// FileReport describes one loaded message file.
type FileReport struct {
	Path     string
	Locale   language.Tag
	Checksum string
	Messages int
	Terms    int
	// SyntaxErrors are the annotations of entries that failed to parse.
	SyntaxErrors []*ftl.ParseError
	// Overrides are IDs that were already defined by another file of the locale.
	Overrides []error
}

// LoadReport is the outcome of LoadFS.
type LoadReport struct {
	Files []FileReport
	// Errors aggregates all syntax errors and overrides, nil when there are none.
	Errors error
}

// Locales returns locales that have at least one file, in load order.
func (r *LoadReport) Locales() []language.Tag {
	var out []language.Tag
	seen := map[language.Tag]struct{}{}
	for _, f := range r.Files {
		if _, ok := seen[f.Locale]; !ok {
			seen[f.Locale] = struct{}{}
			out = append(out, f.Locale)
		}
	}
	return out
}
