// Package gateway exposes the catalog over HTTP. It is a lifecycle
// participant: started after the deployer, stopped before it, so the
// listener drains on shutdown while archive functions are still bound.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vk/funcgrid/internal/catalog"
	"github.com/vk/funcgrid/internal/ctxlog"
	"github.com/vk/funcgrid/internal/lifecycle"
	"github.com/vk/funcgrid/internal/message"
)

// Gateway serves POST /invoke/{name} and GET /health.
type Gateway struct {
	catalog *catalog.Catalog
	port    int

	mu      sync.Mutex
	server  *http.Server
	addr    string
	running bool
}

// New builds a gateway on the given port. Port 0 binds an ephemeral port,
// which tests use; the app never constructs a gateway when the configured
// port is disabled.
func New(cat *catalog.Catalog, port int) *Gateway {
	return &Gateway{catalog: cat, port: port}
}

// Handler returns the HTTP routes. Split out so tests can drive the mux
// without a listener.
func (g *Gateway) Handler(ctx context.Context) http.Handler {
	r := chi.NewRouter()
	r.Get("/health", g.handleHealth)
	r.Post("/invoke", func(w http.ResponseWriter, req *http.Request) {
		g.handleInvoke(ctx, w, req, "")
	})
	r.Post("/invoke/{name}", func(w http.ResponseWriter, req *http.Request) {
		g.handleInvoke(ctx, w, req, chi.URLParam(req, "name"))
	})
	return r
}

func (g *Gateway) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

func (g *Gateway) handleInvoke(ctx context.Context, w http.ResponseWriter, req *http.Request, name string) {
	logger := ctxlog.FromContext(ctx)

	payload, err := io.ReadAll(req.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	headers := make(map[string]string)
	for _, h := range []string{message.ContentTypeHeader, message.AcceptHeader, message.FunctionNameHeader} {
		if v := req.Header.Get(h); v != "" {
			headers[h] = v
		}
	}

	inv, err := g.catalog.Lookup(name)
	if err != nil {
		logger.Debug("Lookup failed.", "name", name, "error", err)
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	out, err := inv.Invoke(ctxlog.WithLogger(req.Context(), logger), message.New(payload, headers))
	if err != nil {
		logger.Error("Invocation failed.", "function", inv.Name(), "error", err)
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	if ct := out.ContentType(); ct != "" {
		w.Header().Set(message.ContentTypeHeader, ct)
	}
	w.WriteHeader(http.StatusOK)
	w.Write(out.Payload)
}

// Start begins serving. The listener is bound synchronously so a busy port
// fails startup instead of surfacing later in a goroutine.
func (g *Gateway) Start(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	logger := ctxlog.FromContext(ctx)

	if g.running {
		return nil
	}

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", g.port))
	if err != nil {
		return fmt.Errorf("gateway: %w", err)
	}
	g.addr = ln.Addr().String()
	g.server = &http.Server{Handler: g.Handler(ctx)}

	go func() {
		if err := g.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Gateway failed unexpectedly.", "error", err)
		}
	}()

	g.running = true
	logger.Info("Gateway listening.", "addr", g.addr)
	return nil
}

// Stop shuts the server down, giving in-flight invocations a grace period.
func (g *Gateway) Stop(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.running {
		return nil
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := g.server.Shutdown(shutdownCtx)
	g.server = nil
	g.running = false
	return err
}

// Running reports whether the listener is up.
func (g *Gateway) Running() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.running
}

// Phase starts the gateway after the deployer and stops it before.
func (g *Gateway) Phase() int {
	return lifecycle.PhaseGateway
}

// Addr returns the bound address after Start, for tests using port 0.
func (g *Gateway) Addr() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.addr
}
