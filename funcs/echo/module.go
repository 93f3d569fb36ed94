// Package echo ships the built-in echo function: a raw handler that returns
// the inbound payload and its headers untouched. Useful for smoke-testing a
// host before any archive is deployed.
package echo

import (
	"context"

	"github.com/vk/funcgrid/internal/catalog"
	"github.com/vk/funcgrid/internal/message"
)

// Module implements the catalog.Module interface for this package.
type Module struct{}

// OnInvokeEcho is the handler for the 'echo' function.
func OnInvokeEcho(_ context.Context, m *message.Message) (*message.Message, error) {
	return message.New(m.Payload, m.Headers), nil
}

// Register registers the handler and binding with the catalog.
func (mod *Module) Register(c *catalog.Catalog) {
	c.RegisterHandler("OnInvokeEcho", &catalog.Handler{Fn: OnInvokeEcho})
	if err := c.Bind(catalog.Function{
		Name:        "echo",
		Handler:     "OnInvokeEcho",
		Description: "Returns the message unchanged.",
		Source:      catalog.SourceBuiltin,
	}); err != nil {
		panic(err.Error())
	}
}
