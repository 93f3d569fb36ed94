// Package fetch ships the built-in fetch function: an HTTP GET against a
// caller-supplied URL, returning status and body. It demonstrates a function
// with an outbound dependency.
package fetch

import (
	"context"
	"fmt"

	"resty.dev/v3"

	"github.com/vk/funcgrid/internal/catalog"
	"github.com/vk/funcgrid/internal/ctxlog"
	"github.com/vk/funcgrid/internal/message"
)

// Module implements the catalog.Module interface for this package.
type Module struct {
	client *resty.Client
}

// New builds the fetch module with its own HTTP client. Close releases the
// client's resources; the app wires it into shutdown.
func New() *Module {
	return &Module{client: resty.New()}
}

// Close releases the underlying HTTP client.
func (mod *Module) Close() error {
	return mod.client.Close()
}

// Input defines the decoded payload for the fetch function.
type Input struct {
	URL string `json:"url"`
}

// Output carries the upstream response.
type Output struct {
	StatusCode int    `json:"status_code"`
	Body       string `json:"body"`
}

// OnInvokeFetch performs the GET.
func (mod *Module) OnInvokeFetch(ctx context.Context, in *Input) (Output, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Info("Fetching URL.", "url", in.URL)

	if in.URL == "" {
		return Output{}, fmt.Errorf("fetch: url must not be empty")
	}

	res, err := mod.client.R().SetContext(ctx).Get(in.URL)
	if err != nil {
		return Output{}, fmt.Errorf("fetch: %w", err)
	}
	logger.Debug("Received response.", "status", res.StatusCode())

	return Output{StatusCode: res.StatusCode(), Body: res.String()}, nil
}

// Register registers the handler and binding with the catalog.
func (mod *Module) Register(c *catalog.Catalog) {
	c.RegisterHandler("OnInvokeFetch", &catalog.Handler{
		NewInput: func() any { return new(Input) },
		Fn:       mod.OnInvokeFetch,
	})
	if err := c.Bind(catalog.Function{
		Name:              "fetch",
		Handler:           "OnInvokeFetch",
		InputContentType:  message.ContentTypeJSON,
		OutputContentType: message.ContentTypeJSON,
		Description:       "Performs an HTTP GET and returns status and body.",
		Source:            catalog.SourceBuiltin,
	}); err != nil {
		panic(err.Error())
	}
}
