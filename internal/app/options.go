package app

import (
	"io"

	"github.com/vk/funcgrid/internal/catalog"
	"github.com/vk/funcgrid/internal/codec"
	"github.com/vk/funcgrid/internal/message"
)

// Option customizes app assembly. Options exist so hosts (and tests) can
// contribute converters, codecs and modules without any registry of their
// own.
type Option func(*options)

type options struct {
	converters []message.Converter
	codecs     []codec.Codec
	modules    []catalog.Module
	closers    []io.Closer
}

// WithConverters places caller-supplied converters ahead of the default
// chain. Supplying a *message.Composite replaces the defaults entirely.
func WithConverters(converters ...message.Converter) Option {
	return func(o *options) {
		o.converters = append(o.converters, converters...)
	}
}

// WithCodec registers an extra JSON codec the preferred_json_codec property
// may select.
func WithCodec(codecs ...codec.Codec) Option {
	return func(o *options) {
		o.codecs = append(o.codecs, codecs...)
	}
}

// WithModules replaces the built-in module list. Used by tests that need a
// catalog containing only their own handlers.
func WithModules(modules ...catalog.Module) Option {
	return func(o *options) {
		o.modules = modules
	}
}
