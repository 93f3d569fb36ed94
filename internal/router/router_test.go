package router

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/funcgrid/internal/catalog"
	"github.com/vk/funcgrid/internal/codec"
	"github.com/vk/funcgrid/internal/ctxlog"
	"github.com/vk/funcgrid/internal/message"
)

type textInput struct {
	Text string `json:"text"`
}

func testContext() context.Context {
	return ctxlog.WithLogger(context.Background(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// routedCatalog binds "upper" and "lower" plus the router itself.
func routedCatalog(t *testing.T, defaultFn, expression string) *catalog.Catalog {
	t.Helper()
	c, err := codec.Select("")
	require.NoError(t, err)
	cat := catalog.New(message.NewChain(c))

	cat.RegisterHandler("OnUpper", &catalog.Handler{
		NewInput: func() any { return new(textInput) },
		Fn: func(_ context.Context, in *textInput) (textInput, error) {
			return textInput{Text: strings.ToUpper(in.Text)}, nil
		},
	})
	cat.RegisterHandler("OnLower", &catalog.Handler{
		NewInput: func() any { return new(textInput) },
		Fn: func(_ context.Context, in *textInput) (textInput, error) {
			return textInput{Text: strings.ToLower(in.Text)}, nil
		},
	})
	require.NoError(t, cat.Bind(catalog.Function{Name: "upper", Handler: "OnUpper", Source: catalog.SourceBuiltin}))
	require.NoError(t, cat.Bind(catalog.Function{Name: "lower", Handler: "OnLower", Source: catalog.SourceBuiltin}))

	New(cat, defaultFn, expression).Register(cat)
	return cat
}

func invoke(t *testing.T, cat *catalog.Catalog, m *message.Message) (*message.Message, error) {
	t.Helper()
	inv, err := cat.Lookup(FunctionName)
	require.NoError(t, err)
	return inv.Invoke(testContext(), m)
}

func TestRouter_HeaderWins(t *testing.T) {
	cat := routedCatalog(t, "lower", "")

	out, err := invoke(t, cat, message.New([]byte(`{"text":"Mixed"}`), map[string]string{
		message.FunctionNameHeader: "upper",
		message.ContentTypeHeader:  message.ContentTypeJSON,
	}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"text":"MIXED"}`, string(out.Payload))
}

func TestRouter_DefaultFunction(t *testing.T) {
	cat := routedCatalog(t, "lower", "")

	out, err := invoke(t, cat, message.New([]byte(`{"text":"Mixed"}`), nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"text":"mixed"}`, string(out.Payload))
}

func TestRouter_ExpressionAgainstPayload(t *testing.T) {
	cat := routedCatalog(t, "", "route.to")

	out, err := invoke(t, cat, message.New([]byte(`{"route":{"to":"upper"},"text":"Mixed"}`), nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"text":"MIXED"}`, string(out.Payload))
}

func TestRouter_ExpressionResolvesNothing(t *testing.T) {
	cat := routedCatalog(t, "", "route.to")

	_, err := invoke(t, cat, message.New([]byte(`{"text":"x"}`), nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "route.to")
}

func TestRouter_NothingToRouteBy(t *testing.T) {
	cat := routedCatalog(t, "", "")

	_, err := invoke(t, cat, message.New([]byte(`{}`), nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no routing expression")
}

func TestRouter_UnknownTarget(t *testing.T) {
	cat := routedCatalog(t, "", "")

	_, err := invoke(t, cat, message.New([]byte(`{}`), map[string]string{
		message.FunctionNameHeader: "missing",
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"missing"`)
}

func TestRouter_RefusesSelfRouting(t *testing.T) {
	cat := routedCatalog(t, "", "")

	_, err := invoke(t, cat, message.New([]byte(`{}`), map[string]string{
		message.FunctionNameHeader: FunctionName,
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "itself")
}

// The self-routing guard compares whole composition stages; a stage name
// that merely contains "router" is a legitimate target.
func TestRouter_StageNameContainingRouterIsNotSelf(t *testing.T) {
	cat := routedCatalog(t, "", "")
	require.NoError(t, cat.Bind(catalog.Function{Name: "myrouter", Handler: "OnUpper", Source: catalog.SourceBuiltin}))

	out, err := invoke(t, cat, message.New([]byte(`{"text":"Mixed"}`), map[string]string{
		message.FunctionNameHeader: "myrouter|lower",
	}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"text":"mixed"}`, string(out.Payload))
}

func TestRouter_RefusesSelfRoutingInComposition(t *testing.T) {
	cat := routedCatalog(t, "", "")

	for _, target := range []string{"upper|router", "router|upper", "upper | router | lower"} {
		_, err := invoke(t, cat, message.New([]byte(`{}`), map[string]string{
			message.FunctionNameHeader: target,
		}))
		require.Error(t, err, target)
		assert.Contains(t, err.Error(), "itself")
	}
}

func TestRouter_HeaderComposition(t *testing.T) {
	cat := routedCatalog(t, "", "")

	out, err := invoke(t, cat, message.New([]byte(`{"text":"Mixed"}`), map[string]string{
		message.FunctionNameHeader: "upper|lower",
	}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"text":"mixed"}`, string(out.Payload))
}
