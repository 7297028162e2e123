package bundle

// Option is an interface for functional options that can be passed to New.
type Option interface {
	apply(*options)
}

// DefaultMaxPlaceables is the number of placeables a single Format call may expand.
const DefaultMaxPlaceables = 100

type options struct {
	useIsolating   bool
	allowOverrides bool
	maxPlaceables  int
	functions      map[string]Function
}

type useIsolatingOption bool

func (o useIsolatingOption) apply(opts *options) {
	opts.useIsolating = bool(o)
}

// WithUseIsolating allows specifying whether placeables of multi-element patterns are
// wrapped in Unicode isolation marks (FSI, PDI). Enabled by default.
func WithUseIsolating(b bool) Option {
	return useIsolatingOption(b)
}

type allowOverridesOption bool

func (o allowOverridesOption) apply(opts *options) {
	opts.allowOverrides = bool(o)
}

// WithAllowOverrides lets later resources replace messages and terms defined earlier.
func WithAllowOverrides(b bool) Option {
	return allowOverridesOption(b)
}

type maxPlaceablesOption int

func (o maxPlaceablesOption) apply(opts *options) {
	if o > 0 {
		opts.maxPlaceables = int(o)
	}
}

// WithMaxPlaceables limits the number of placeables expanded by one Format call.
func WithMaxPlaceables(n int) Option {
	return maxPlaceablesOption(n)
}

type functionOption struct {
	name string
	fn   Function
}

func (o functionOption) apply(opts *options) {
	opts.functions[o.name] = o.fn
}

// WithFunction registers a function callable from patterns, e.g. { UPPER($name) }.
// Registering "NUMBER" replaces the built-in one.
func WithFunction(name string, fn Function) Option {
	return functionOption{name: name, fn: fn}
}

func makeOptions(opts ...Option) options {
	options := options{
		useIsolating:  true,
		maxPlaceables: DefaultMaxPlaceables,
		functions: map[string]Function{
			"NUMBER": builtinNumber,
		},
	}
	for _, opt := range opts {
		opt.apply(&options)
	}
	return options
}
