// Package uppercase ships the built-in uppercase function.
package uppercase

import (
	"context"
	"strings"

	"github.com/vk/funcgrid/internal/catalog"
	"github.com/vk/funcgrid/internal/message"
)

// Module implements the catalog.Module interface for this package.
type Module struct{}

// Input defines the decoded payload for the uppercase function.
type Input struct {
	Text string `json:"text"`
}

// Output is the transformed payload.
type Output struct {
	Text string `json:"text"`
}

// OnInvokeUppercase is the handler for the 'uppercase' function.
func OnInvokeUppercase(_ context.Context, in *Input) (Output, error) {
	return Output{Text: strings.ToUpper(in.Text)}, nil
}

// Register registers the handler and binding with the catalog.
func (mod *Module) Register(c *catalog.Catalog) {
	c.RegisterHandler("OnInvokeUppercase", &catalog.Handler{
		NewInput: func() any { return new(Input) },
		Fn:       OnInvokeUppercase,
	})
	if err := c.Bind(catalog.Function{
		Name:              "uppercase",
		Handler:           "OnInvokeUppercase",
		InputContentType:  message.ContentTypeJSON,
		OutputContentType: message.ContentTypeJSON,
		Description:       "Uppercases the text field of a JSON payload.",
		Source:            catalog.SourceBuiltin,
	}); err != nil {
		panic(err.Error())
	}
}
