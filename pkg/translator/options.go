package translator

import (
	"log/slog"

	"github.com/acronis/go-ftl/pkg/bundle"
)

// Option is an interface for functional options that can be passed to New and NewFromFS.
type Option interface {
	apply(*options)
}

type options struct {
	language     string
	useIsolating bool
	strict       bool
	bundleOpts   []bundle.Option
	logger       *slog.Logger
}

type languageOption string

func (o languageOption) apply(opts *options) {
	opts.language = string(o)
}

// WithLanguage selects the initial language. The value may be a locale tag or an
// Accept-Language list.
func WithLanguage(lang string) Option {
	return languageOption(lang)
}

type useIsolatingOption bool

func (o useIsolatingOption) apply(opts *options) {
	opts.useIsolating = bool(o)
}

// WithUseIsolating wraps placeables into Unicode isolation marks. Disabled by
// default since the output goes to terminals.
func WithUseIsolating(b bool) Option {
	return useIsolatingOption(b)
}

type strictOption bool

func (o strictOption) apply(opts *options) {
	opts.strict = bool(o)
}

// WithStrict makes loading fail when any message file contains malformed entries
// or duplicate definitions.
func WithStrict(b bool) Option {
	return strictOption(b)
}

type bundleOptionsOption []bundle.Option

func (o bundleOptionsOption) apply(opts *options) {
	opts.bundleOpts = append(opts.bundleOpts, o...)
}

// WithBundleOptions passes options to every bundle, e.g. custom functions.
func WithBundleOptions(opts ...bundle.Option) Option {
	return bundleOptionsOption(opts)
}

type loggerOption struct {
	logger *slog.Logger
}

func (o loggerOption) apply(opts *options) {
	opts.logger = o.logger
}

// WithLogger sets the logger of the underlying catalog.
func WithLogger(logger *slog.Logger) Option {
	return loggerOption{logger: logger}
}

func makeOptions(opts ...Option) options {
	var options options
	for _, opt := range opts {
		opt.apply(&options)
	}
	return options
}
