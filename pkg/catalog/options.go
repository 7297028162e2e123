package catalog

import (
	"log/slog"

	"github.com/acronis/go-ftl/pkg/bundle"
)

// Option is an interface for functional options that can be passed to New.
type Option interface {
	apply(*options)
}

type options struct {
	bundleOpts []bundle.Option
	logger     *slog.Logger
}

type bundleOptionsOption []bundle.Option

func (o bundleOptionsOption) apply(opts *options) {
	opts.bundleOpts = append(opts.bundleOpts, o...)
}

// WithBundleOptions sets options of every bundle created by the catalog.
func WithBundleOptions(opts ...bundle.Option) Option {
	return bundleOptionsOption(opts)
}

type loggerOption struct {
	logger *slog.Logger
}

func (o loggerOption) apply(opts *options) {
	opts.logger = o.logger
}

// WithLogger sets the logger used to report malformed entries. slog.Default() is
// used otherwise.
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
