package catalog

import (
	"context"
	"fmt"
	"reflect"

	"github.com/vk/funcgrid/internal/message"
)

// Handler holds the compiled Go parts of a function unit.
//
// Fn must have one of two shapes:
//
//	func(ctx context.Context, in *Input) (Output, error)
//	func(ctx context.Context, m *message.Message) (*message.Message, error)
//
// The first is a typed handler: the converter chain decodes the inbound
// payload into a fresh Input and encodes the Output. The second is a raw
// handler that negotiates nothing and sees the message as-is; the router is
// one of these.
type Handler struct {
	// NewInput returns a pointer to a zero Input for typed handlers.
	// Nil for raw handlers and for handlers that take no input.
	NewInput func() any
	Fn       any
}

var (
	ctxType     = reflect.TypeOf((*context.Context)(nil)).Elem()
	errType     = reflect.TypeOf((*error)(nil)).Elem()
	messageType = reflect.TypeOf((*message.Message)(nil))
)

// raw reports whether Fn has the raw message-in, message-out shape.
func (h *Handler) raw() bool {
	t := reflect.TypeOf(h.Fn)
	return t.NumIn() == 2 && t.In(1) == messageType
}

// validate checks the handler shape. Called from RegisterHandler; a bad
// shape is a programmer error and the caller panics with this message.
func (h *Handler) validate(name string) error {
	if h.Fn == nil {
		return fmt.Errorf("handler %q has nil Fn", name)
	}
	t := reflect.TypeOf(h.Fn)
	if t.Kind() != reflect.Func {
		return fmt.Errorf("handler %q: Fn must be a func, got %s", name, t.Kind())
	}
	if t.NumIn() < 1 || t.NumIn() > 2 || !t.In(0).Implements(ctxType) {
		return fmt.Errorf("handler %q: Fn must take (context.Context) or (context.Context, *Input)", name)
	}
	if t.NumOut() != 2 || !t.Out(1).Implements(errType) {
		return fmt.Errorf("handler %q: Fn must return (value, error)", name)
	}
	if t.NumIn() == 2 {
		if t.In(1).Kind() != reflect.Pointer {
			return fmt.Errorf("handler %q: input parameter must be a pointer, got %s", name, t.In(1))
		}
		if t.In(1) != messageType && h.NewInput == nil {
			return fmt.Errorf("handler %q: typed handlers need NewInput", name)
		}
		if t.In(1) == messageType && t.Out(0) != messageType {
			return fmt.Errorf("handler %q: raw handlers must return *message.Message", name)
		}
	}
	return nil
}

// inputType returns the reflect type of the Input struct for typed handlers,
// or nil for raw and input-less handlers. Used by manifest validation.
func (h *Handler) inputType() reflect.Type {
	t := reflect.TypeOf(h.Fn)
	if t.NumIn() != 2 || t.In(1) == messageType {
		return nil
	}
	return t.In(1).Elem()
}
