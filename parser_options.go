/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package ftl

// ParserOption is an interface for functional options that can be passed to the NewParser constructor.
type ParserOption interface {
	apply(*parserOptions)
}

type parserOptions struct {
	withSpans      bool
	detachComments bool
}

type withSpansParserOption bool

func (o withSpansParserOption) apply(opts *parserOptions) {
	opts.withSpans = bool(o)
}

// WithSpans allows specifying whether byte ranges of entries are recorded.
func WithSpans(b bool) ParserOption {
	return withSpansParserOption(b)
}

type detachCommentsParserOption bool

func (o detachCommentsParserOption) apply(opts *parserOptions) {
	opts.detachComments = bool(o)
}

// WithDetachedComments keeps every comment as a standalone entry instead of binding
// a "#" comment to the message or term right below it.
func WithDetachedComments(b bool) ParserOption {
	return detachCommentsParserOption(b)
}

func makeParserOptions(opts ...ParserOption) parserOptions {
	var options parserOptions
	for _, opt := range opts {
		opt.apply(&options)
	}
	return options
}
