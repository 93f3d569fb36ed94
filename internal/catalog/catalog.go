package catalog

import (
	"fmt"
	"log/slog"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/vk/funcgrid/internal/message"
)

// Sources a function binding can come from. Archive bindings use the archive
// location as their source, so one archive cannot unbind another's functions.
const (
	SourceBuiltin = "builtin"
	SourceScan    = "scan"
)

// Function binds a public function name to a registered handler.
type Function struct {
	Name    string
	Handler string

	// InputContentType is assumed for inbound messages that declare no
	// content type. OutputContentType is the accept value used when the
	// caller declares none.
	InputContentType  string
	OutputContentType string

	Description string
	Source      string
}

// Module registers handlers and function bindings with a catalog. Built-in
// function packages implement this; the app holds the definitive list of
// modules compiled into the binary.
type Module interface {
	Register(c *Catalog)
}

// Catalog is the function registry.
type Catalog struct {
	mu        sync.RWMutex
	handlers  map[string]*Handler
	functions map[string]Function
	chain     *message.Composite
}

// New creates an empty catalog that converts payloads through the given
// chain.
func New(chain *message.Composite) *Catalog {
	return &Catalog{
		handlers:  make(map[string]*Handler),
		functions: make(map[string]Function),
		chain:     chain,
	}
}

// RegisterHandler registers a compiled function unit. Panics on a duplicate
// name or a malformed handler; both are programmer errors surfaced at
// startup.
func (c *Catalog) RegisterHandler(name string, h *Handler) {
	if err := h.validate(name); err != nil {
		panic(err.Error())
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.handlers[name]; exists {
		panic(fmt.Sprintf("handler with name '%s' already registered", name))
	}
	slog.Debug("Registering handler.", "name", name)
	c.handlers[name] = h
}

// Bind publishes a function name onto a registered handler. Unlike handler
// registration this happens at runtime (scan, deploy), so failures are
// errors, not panics.
func (c *Catalog) Bind(fn Function) error {
	if fn.Name == "" {
		return fmt.Errorf("catalog: function name must not be empty")
	}
	if strings.Contains(fn.Name, "|") {
		return fmt.Errorf("catalog: function name %q must not contain '|'", fn.Name)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.handlers[fn.Handler]; !ok {
		return fmt.Errorf("catalog: function %q names handler %q which is not compiled into this binary", fn.Name, fn.Handler)
	}
	if existing, ok := c.functions[fn.Name]; ok {
		return fmt.Errorf("catalog: function %q already bound (source %s)", fn.Name, existing.Source)
	}
	slog.Debug("Binding function.", "name", fn.Name, "handler", fn.Handler, "source", fn.Source)
	c.functions[fn.Name] = fn
	return nil
}

// Unbind removes a function binding. Only the source that bound a name may
// remove it.
func (c *Catalog) Unbind(name, source string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn, ok := c.functions[name]
	if !ok {
		return fmt.Errorf("catalog: function %q is not bound", name)
	}
	if fn.Source != source {
		return fmt.Errorf("catalog: function %q is owned by source %s, not %s", name, fn.Source, source)
	}
	slog.Debug("Unbinding function.", "name", name, "source", source)
	delete(c.functions, name)
	return nil
}

// HandlerInputType exposes the Go input type of a handler for manifest
// validation. The second return is false when the handler does not exist;
// a nil type with true means the handler takes no decoded input.
func (c *Catalog) HandlerInputType(name string) (reflect.Type, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	h, ok := c.handlers[name]
	if !ok {
		return nil, false
	}
	return h.inputType(), true
}

// Names returns the bound function names in sorted order.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.functions))
	for name := range c.functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of bound functions.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.functions)
}

// Lookup resolves a function name to an invoker.
//
// An empty name resolves to the sole bound function when exactly one exists,
// so single-function archives need no addressing. A name of the form "a|b"
// composes functions left to right: each stage's output message becomes the
// next stage's input. Missing stages fail here, at lookup time, not during
// invocation.
func (c *Catalog) Lookup(name string) (*Invoker, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if strings.TrimSpace(name) == "" {
		if len(c.functions) != 1 {
			return nil, fmt.Errorf("catalog: empty lookup needs exactly one bound function, have %d", len(c.functions))
		}
		for n := range c.functions {
			name = n
		}
	}

	parts := strings.Split(name, "|")
	stages := make([]stage, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		fn, ok := c.functions[part]
		if !ok {
			return nil, fmt.Errorf("catalog: function %q is not bound (looking up %q)", part, name)
		}
		stages = append(stages, stage{fn: fn, handler: c.handlers[fn.Handler]})
	}
	return &Invoker{name: name, stages: stages, chain: c.chain}, nil
}
