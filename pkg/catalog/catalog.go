// Package catalog loads message files of many locales and resolves messages through
// a locale fallback chain.
package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sort"
	"sync"

	"github.com/acronis/go-stacktrace"
	"golang.org/x/text/language"

	"github.com/acronis/go-ftl"
	"github.com/acronis/go-ftl/pkg/bundle"
	"github.com/acronis/go-ftl/pkg/filesys"
)

// FileExt is the extension of message files.
const FileExt = ".ftl"

var (
	// ErrMissingMessage is returned when no locale of the chain defines the message.
	ErrMissingMessage = errors.New("missing message")
	// ErrDefaultLocaleMissing is returned by LoadFS when no file belongs to the default locale.
	ErrDefaultLocaleMissing = errors.New("default locale not found")
)

// Catalog holds one bundle per locale. A locale is replaced wholesale by LoadFS and
// bundles are never modified while a Localizer may be using them, except through
// AddResource.
type Catalog struct {
	defaultLocale language.Tag
	opts          options

	mu        sync.RWMutex
	bundles   map[language.Tag]*bundle.Bundle
	resources map[language.Tag][]*ftl.Resource
	tags      []language.Tag
	matcher   language.Matcher
	report    *LoadReport
}

// New creates an empty catalog with the locale used when nothing else matches.
// Available options:
// - WithBundleOptions(opts ...bundle.Option) - options for every bundle.
// - WithLogger(logger *slog.Logger) - logger for malformed entries.
func New(defaultLocale language.Tag, opts ...Option) *Catalog {
	c := &Catalog{
		defaultLocale: defaultLocale,
		opts:          makeOptions(opts...),
		bundles:       map[language.Tag]*bundle.Bundle{},
		resources:     map[language.Tag][]*ftl.Resource{},
	}
	c.rebuildIndex()
	return c
}

func (c *Catalog) logger() *slog.Logger {
	if c.opts.logger != nil {
		return c.opts.logger
	}
	return slog.Default()
}

type localeFile struct {
	path   string
	locale language.Tag
}

// listFiles finds "<locale>/*.ftl" and "<locale>.ftl" files at the root of fsys.
func (c *Catalog) listFiles(fsys fs.FS) ([]localeFile, error) {
	files, err := filesys.GlobLocaleFiles(fsys, FileExt)
	if err != nil {
		return nil, err
	}

	var out []localeFile
	for _, f := range files {
		tag, err := language.Parse(f.Locale)
		if err != nil {
			c.logger().Warn("Skipping file of unknown locale", slog.String("path", f.Path), slog.String("locale", f.Locale))
			continue
		}
		out = append(out, localeFile{path: f.Path, locale: tag})
	}
	return out, nil
}

// LoadFS replaces the content of the catalog with the message files found in fsys.
// Malformed entries are recorded in the report and logged, the rest of their file
// is still loaded. It fails when a file cannot be read or the default locale is absent.
func (c *Catalog) LoadFS(fsys fs.FS) (*LoadReport, error) {
	files, err := c.listFiles(fsys)
	if err != nil {
		return nil, err
	}

	report := &LoadReport{}
	bundles := map[language.Tag]*bundle.Bundle{}
	resources := map[language.Tag][]*ftl.Resource{}
	var problems []*stacktrace.StackTrace
	parser := ftl.NewParser()

	for _, f := range files {
		data, err := fs.ReadFile(fsys, f.path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f.path, err)
		}
		res := parser.ParseResource(string(data))

		fr := FileReport{
			Path:     f.path,
			Locale:   f.locale,
			Checksum: filesys.Checksum(data),
			Messages: len(res.Messages()),
			Terms:    len(res.Terms()),
		}
		for _, j := range res.Junk() {
			for _, a := range j.Annotations {
				fr.SyntaxErrors = append(fr.SyntaxErrors, a)
				c.logger().Warn("Malformed entry",
					slog.String("path", f.path),
					slog.String("locale", f.locale.String()),
					slog.String("code", a.Code),
					slog.Int("line", a.Line),
					slog.String("error", a.Message))
				problems = append(problems, stacktrace.New(a.Error(),
					stacktrace.WithInfo("path", f.path),
					stacktrace.WithInfo("locale", f.locale.String()),
					stacktrace.WithType("syntax")))
			}
		}

		b, ok := bundles[f.locale]
		if !ok {
			b = bundle.New(f.locale, c.opts.bundleOpts...)
			bundles[f.locale] = b
		}
		for _, err := range b.AddResource(res) {
			fr.Overrides = append(fr.Overrides, err)
			c.logger().Warn("Duplicate entry",
				slog.String("path", f.path),
				slog.String("locale", f.locale.String()),
				slog.String("error", err.Error()))
			problems = append(problems, stacktrace.NewWrapped("duplicate entry", err,
				stacktrace.WithInfo("path", f.path),
				stacktrace.WithInfo("locale", f.locale.String()),
				stacktrace.WithType("override")))
		}
		resources[f.locale] = append(resources[f.locale], res)
		report.Files = append(report.Files, fr)
	}

	if _, ok := bundles[c.defaultLocale]; !ok {
		return report, fmt.Errorf("%w: %s", ErrDefaultLocaleMissing, c.defaultLocale)
	}
	if len(problems) > 0 {
		st := stacktrace.New(fmt.Sprintf("%d problems in message files", len(problems)), stacktrace.WithType("load"))
		for _, p := range problems {
			_ = st.Append(p)
		}
		report.Errors = st
	}

	c.mu.Lock()
	c.bundles = bundles
	c.resources = resources
	c.report = report
	c.rebuildIndex()
	c.mu.Unlock()

	c.logger().Debug("Catalog loaded",
		slog.Int("files", len(report.Files)),
		slog.Int("locales", len(bundles)))
	return report, nil
}

// LoadDir loads message files from a directory on disk.
func (c *Catalog) LoadDir(dir string) (*LoadReport, error) {
	return c.LoadFS(os.DirFS(dir))
}

// AddResource adds a parsed resource to the locale, creating its bundle if needed.
func (c *Catalog) AddResource(tag language.Tag, res *ftl.Resource) []error {
	c.mu.Lock()
	defer c.mu.Unlock()

	b, ok := c.bundles[tag]
	if !ok {
		b = bundle.New(tag, c.opts.bundleOpts...)
		c.bundles[tag] = b
		c.rebuildIndex()
	}
	c.resources[tag] = append(c.resources[tag], res)
	return b.AddResource(res)
}

// rebuildIndex must be called with the write lock held.
func (c *Catalog) rebuildIndex() {
	tags := make([]language.Tag, 0, len(c.bundles)+1)
	tags = append(tags, c.defaultLocale)
	var others []language.Tag
	for tag := range c.bundles {
		if tag != c.defaultLocale {
			others = append(others, tag)
		}
	}
	sort.Slice(others, func(i, j int) bool { return others[i].String() < others[j].String() })
	c.tags = append(tags, others...)
	c.matcher = language.NewMatcher(c.tags)
}

// Default returns the fallback locale.
func (c *Catalog) Default() language.Tag {
	return c.defaultLocale
}

// Locales returns loaded locales, the default one first.
func (c *Catalog) Locales() []language.Tag {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []language.Tag
	for _, tag := range c.tags {
		if _, ok := c.bundles[tag]; ok {
			out = append(out, tag)
		}
	}
	return out
}

// HasLocale reports whether the locale is loaded.
func (c *Catalog) HasLocale(tag language.Tag) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.bundles[tag]
	return ok
}

// Bundle returns the bundle of the locale.
func (c *Catalog) Bundle(tag language.Tag) (*bundle.Bundle, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok := c.bundles[tag]
	return b, ok
}

// Completeness returns the share of the default locale's messages that the locale
// defines itself, from 0 to 1. Unknown locales yield 0.
func (c *Catalog) Completeness(tag language.Tag) float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ref, ok := c.bundles[c.defaultLocale]
	if !ok {
		return 0
	}
	b, ok := c.bundles[tag]
	if !ok {
		return 0
	}
	ids := ref.MessageIDs()
	if len(ids) == 0 {
		return 1
	}
	var found int
	for _, id := range ids {
		if b.HasMessage(id) {
			found++
		}
	}
	return float64(found) / float64(len(ids))
}

// Resources returns parsed resources of the locale in load order.
func (c *Catalog) Resources(tag language.Tag) []*ftl.Resource {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]*ftl.Resource(nil), c.resources[tag]...)
}

// Report returns the report of the last LoadFS call, nil if nothing was loaded.
func (c *Catalog) Report() *LoadReport {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.report
}

// Match picks the loaded locale that suits the wanted ones best. Each argument may
// be a single tag or an Accept-Language value. The default locale is returned when
// nothing matches.
func (c *Catalog) Match(wanted ...string) language.Tag {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.match(wanted...)
}

func (c *Catalog) match(wanted ...string) language.Tag {
	var desired []language.Tag
	for _, w := range wanted {
		tags, _, err := language.ParseAcceptLanguage(w)
		if err != nil {
			c.logger().Debug("Ignoring malformed locale", slog.String("locale", w))
			continue
		}
		desired = append(desired, tags...)
	}
	if len(desired) == 0 {
		return c.defaultLocale
	}
	_, idx, conf := c.matcher.Match(desired...)
	if conf == language.No {
		return c.defaultLocale
	}
	return c.tags[idx]
}

// Localizer returns the fallback chain for the wanted locales: the best match, its
// parent locales and finally the default locale.
func (c *Catalog) Localizer(wanted ...string) *Localizer {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var chain []*bundle.Bundle
	seen := map[language.Tag]struct{}{}
	add := func(tag language.Tag) {
		if _, dup := seen[tag]; dup {
			return
		}
		if b, ok := c.bundles[tag]; ok {
			seen[tag] = struct{}{}
			chain = append(chain, b)
		}
	}
	for tag := c.match(wanted...); ; tag = tag.Parent() {
		add(tag)
		if tag.IsRoot() {
			break
		}
	}
	add(c.defaultLocale)
	return &Localizer{chain: chain, logger: c.logger()}
}
