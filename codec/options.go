package codec

import (
	"go.uber.org/zap"

	"xmlbind/diagnostic"
	"xmlbind/xmlstream"
)

type options struct {
	mode    diagnostic.Mode
	logger  *zap.Logger
	reader  []xmlstream.ReaderOption
	writer  []xmlstream.WriterOption
	suggest bool
}

// Option configures a Decoder or Encoder.
type Option func(*options)

func newOptions(opts []Option) options {
	o := options{
		mode:    diagnostic.ModeCollect,
		logger:  zap.NewNop(),
		suggest: true,
	}

	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// WithMode sets the anomaly escalation policy.
func WithMode(mode diagnostic.Mode) Option {
	return func(o *options) {
		o.mode = mode
	}
}

// WithLogger logs anomalies and document level events.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithSuggestions toggles "did you mean" suggestions on unexpected names.
func WithSuggestions(enabled bool) Option {
	return func(o *options) {
		o.suggest = enabled
	}
}

// WithStrict toggles strict XML parsing on decode.
func WithStrict(strict bool) Option {
	return func(o *options) {
		o.reader = append(o.reader, xmlstream.WithStrict(strict))
	}
}

// WithIndent indents encoder output.
func WithIndent(indent string) Option {
	return func(o *options) {
		o.writer = append(o.writer, xmlstream.WithIndent(indent))
	}
}

// WithPrefix binds space to prefix in encoder output.
func WithPrefix(prefix, space string) Option {
	return func(o *options) {
		o.writer = append(o.writer, xmlstream.WithPrefix(prefix, space))
	}
}

// WithDeclaration makes the encoder write an XML declaration.
func WithDeclaration() Option {
	return func(o *options) {
		o.writer = append(o.writer, xmlstream.WithDeclaration())
	}
}
