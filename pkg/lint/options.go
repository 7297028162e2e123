package lint

// Option is an interface for functional options that can be passed to Lint.
type Option interface {
	apply(*options)
}

type options struct {
	strict bool
	ignore map[Code]struct{}
}

type strictOption bool

func (o strictOption) apply(opts *options) {
	opts.strict = bool(o)
}

// WithStrict reports every warning as an error.
func WithStrict(b bool) Option {
	return strictOption(b)
}

type ignoreOption []Code

func (o ignoreOption) apply(opts *options) {
	for _, code := range o {
		opts.ignore[code] = struct{}{}
	}
}

// WithIgnore drops issues with the given codes.
func WithIgnore(codes ...Code) Option {
	return ignoreOption(codes)
}

func makeOptions(opts ...Option) options {
	options := options{ignore: map[Code]struct{}{}}
	for _, opt := range opts {
		opt.apply(&options)
	}
	return options
}
