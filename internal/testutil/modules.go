package testutil

import "github.com/vk/funcgrid/internal/catalog"

// SimpleModule is a test helper for easily creating a mock module that
// registers a single handler, optionally with a direct binding.
type SimpleModule struct {
	HandlerName string
	Handler     *catalog.Handler

	// FunctionName, when set, binds the handler under this name.
	FunctionName string
}

// Register implements the catalog.Module interface.
func (m *SimpleModule) Register(c *catalog.Catalog) {
	if m.HandlerName != "" && m.Handler != nil {
		c.RegisterHandler(m.HandlerName, m.Handler)
	}
	if m.FunctionName != "" {
		if err := c.Bind(catalog.Function{
			Name:    m.FunctionName,
			Handler: m.HandlerName,
			Source:  catalog.SourceBuiltin,
		}); err != nil {
			panic(err.Error())
		}
	}
}
