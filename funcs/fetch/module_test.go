package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/funcgrid/internal/ctxlog"
)

func testContext() context.Context {
	return ctxlog.WithLogger(context.Background(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestOnInvokeFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "upstream says hi")
	}))
	defer srv.Close()

	mod := New()
	defer mod.Close()

	out, err := mod.OnInvokeFetch(testContext(), &Input{URL: srv.URL})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, out.StatusCode)
	assert.Equal(t, "upstream says hi", out.Body)
}

func TestOnInvokeFetch_EmptyURL(t *testing.T) {
	mod := New()
	defer mod.Close()

	_, err := mod.OnInvokeFetch(testContext(), &Input{})
	require.Error(t, err)
}
