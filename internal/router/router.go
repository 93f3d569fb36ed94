// Package router provides the built-in routing function: a raw handler that
// picks a target function for messages that do not address one directly.
package router

import (
	"context"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/vk/funcgrid/internal/catalog"
	"github.com/vk/funcgrid/internal/ctxlog"
	"github.com/vk/funcgrid/internal/message"
)

// FunctionName is the name the routing function is bound under.
const FunctionName = "router"

// HandlerName is the Go handler name the binding points at.
const HandlerName = "OnRouteMessage"

// Module registers the routing function. It needs the catalog itself (to
// dispatch to the resolved target) and the routing configuration.
type Module struct {
	// DefaultFunction is the configured fallback target.
	DefaultFunction string

	// Expression is a gjson path evaluated against JSON payloads when
	// neither the header nor the default resolve a target. The lookup
	// result is the target function name.
	Expression string

	catalog *catalog.Catalog
}

// New builds the router module over the given catalog.
func New(cat *catalog.Catalog, defaultFunction, expression string) *Module {
	return &Module{
		DefaultFunction: defaultFunction,
		Expression:      expression,
		catalog:         cat,
	}
}

// Register implements catalog.Module.
func (m *Module) Register(c *catalog.Catalog) {
	c.RegisterHandler(HandlerName, &catalog.Handler{Fn: m.route})
	if err := c.Bind(catalog.Function{
		Name:        FunctionName,
		Handler:     HandlerName,
		Description: "Routes messages to a target function by header, default, or expression.",
		Source:      catalog.SourceBuiltin,
	}); err != nil {
		panic(err.Error())
	}
}

// route resolves the target and forwards the message to it unchanged.
func (m *Module) route(ctx context.Context, msg *message.Message) (*message.Message, error) {
	target, err := m.resolve(msg)
	if err != nil {
		return nil, err
	}
	ctxlog.FromContext(ctx).Debug("Routing message.", "target", target)

	inv, err := m.catalog.Lookup(target)
	if err != nil {
		return nil, fmt.Errorf("router: %w", err)
	}
	return inv.Invoke(ctx, msg)
}

// resolve applies the routing order: header, configured default, expression.
func (m *Module) resolve(msg *message.Message) (string, error) {
	if target := strings.TrimSpace(msg.Header(message.FunctionNameHeader)); target != "" {
		return checkTarget(target, "header")
	}
	if m.DefaultFunction != "" {
		return checkTarget(m.DefaultFunction, "configured default")
	}
	if m.Expression != "" {
		result := gjson.GetBytes(msg.Payload, m.Expression)
		if !result.Exists() || result.String() == "" {
			return "", fmt.Errorf("router: expression %q resolved no target in payload", m.Expression)
		}
		return checkTarget(result.String(), "expression")
	}
	return "", fmt.Errorf("router: no %s header, no default function, no routing expression", message.FunctionNameHeader)
}

func checkTarget(target, via string) (string, error) {
	for _, st := range strings.Split(target, "|") {
		if strings.TrimSpace(st) == FunctionName {
			return "", fmt.Errorf("router: refusing to route to itself (target %q via %s)", target, via)
		}
	}
	return target, nil
}
