package message

import (
	"fmt"
	"reflect"
)

// Composite is an ordered converter chain. The first converter that supports
// a given content type / Go type combination handles it.
type Composite struct {
	converters []Converter
}

// NewComposite builds a chain from an explicit converter list. Hosts normally
// use NewChain instead, which applies the defaulting rules.
func NewComposite(converters ...Converter) *Composite {
	return &Composite{converters: converters}
}

// NewChain assembles the converter chain the catalog will use.
//
// Caller-supplied converters go ahead of the defaults, so they win
// negotiation for the content types they claim. Supplying a *Composite
// replaces the defaults entirely: the chain then consists of exactly the
// supplied members. Otherwise the JSON, byte-array and string fallback
// converters are appended, in that order.
func NewChain(c codecProvider, supplied ...Converter) *Composite {
	var list []Converter
	addDefaults := true

	for _, conv := range supplied {
		if comp, ok := conv.(*Composite); ok {
			list = append(list, comp.converters...)
			addDefaults = false
			continue
		}
		list = append(list, conv)
	}

	if addDefaults {
		list = append(list, NewJSON(c), NewByteArray(), NewString())
	}
	return &Composite{converters: list}
}

// codecProvider is the subset of codec.Codec the chain needs. Declared here
// to keep the package's public surface free of a hard codec dependency in
// signatures; internal/codec implementations satisfy it as-is.
type codecProvider interface {
	Name() string
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// Converters returns the chain members in priority order.
func (c *Composite) Converters() []Converter {
	out := make([]Converter, len(c.converters))
	copy(out, c.converters)
	return out
}

func (c *Composite) CanRead(contentType string, target reflect.Type) bool {
	for _, conv := range c.converters {
		if conv.CanRead(contentType, target) {
			return true
		}
	}
	return false
}

// Read decodes m into target using the first converter that supports the
// message's content type and the target's Go type.
func (c *Composite) Read(m *Message, target any) error {
	t := reflect.TypeOf(target)
	if t == nil || t.Kind() != reflect.Pointer {
		return fmt.Errorf("message: read target must be a pointer, got %T", target)
	}
	elem := t.Elem()
	for _, conv := range c.converters {
		if conv.CanRead(m.ContentType(), elem) {
			return conv.Read(m, target)
		}
	}
	return fmt.Errorf("message: no converter reads content type %q into %s", m.ContentType(), elem)
}

func (c *Composite) CanWrite(accept string, v any) bool {
	for _, conv := range c.converters {
		if conv.CanWrite(accept, v) {
			return true
		}
	}
	return false
}

// Write serializes v using the first converter willing to produce the
// accepted content type.
func (c *Composite) Write(v any, headers map[string]string) (*Message, error) {
	accept := headers[AcceptHeader]
	for _, conv := range c.converters {
		if conv.CanWrite(accept, v) {
			return conv.Write(v, headers)
		}
	}
	return nil, fmt.Errorf("message: no converter writes %T as %q", v, accept)
}
