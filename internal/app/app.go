package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/vk/funcgrid/internal/catalog"
	"github.com/vk/funcgrid/internal/codec"
	"github.com/vk/funcgrid/internal/config"
	"github.com/vk/funcgrid/internal/ctxlog"
	"github.com/vk/funcgrid/internal/deployer"
	"github.com/vk/funcgrid/internal/gateway"
	"github.com/vk/funcgrid/internal/lifecycle"
	"github.com/vk/funcgrid/internal/manifest"
	"github.com/vk/funcgrid/internal/message"
	"github.com/vk/funcgrid/internal/router"
)

// App encapsulates the host's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	props    *config.Properties
	catalog  *catalog.Catalog
	manager  *lifecycle.Manager
	deployer *deployer.Deployer
	gateway  *gateway.Gateway
	closers  []io.Closer
}

// NewApp is the constructor for the host. It returns a fully initialized App
// instance, including its own isolated logger and catalog. A failure to
// resolve properties, codec or archive is a fatal startup error and panics.
func NewApp(outW io.Writer, appConfig *Config, opts ...Option) *App {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	props, err := config.Load(appConfig.PropsPath)
	if err != nil {
		panic(fmt.Errorf("failed to load properties: %w", err))
	}
	applyOverrides(props, appConfig)

	logger := newLogger(props.LogLevel, props.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	selected, err := codec.Select(props.PreferredJSONCodec, o.codecs...)
	if err != nil {
		panic(err)
	}
	logger.Debug("JSON codec selected.", "codec", selected.Name())

	chain := message.NewChain(selected, o.converters...)
	cat := catalog.New(chain)

	// Register the compiled-in modules. The router is always present.
	modules, closers := coreModules()
	if o.modules != nil {
		modules, closers = o.modules, nil
	}
	for _, mod := range modules {
		mod.Register(cat)
	}
	router.New(cat, props.FunctionName, props.RoutingExpression).Register(cat)
	logger.Debug("All function modules registered.", "count", len(modules)+1)

	if props.ScanEnabled {
		if err := scanManifests(ctx, cat, props.ScanPath); err != nil {
			panic(err)
		}
	}

	app := &App{
		outW:    outW,
		logger:  logger,
		props:   props,
		catalog: cat,
		closers: append(closers, o.closers...),
	}

	var participants []lifecycle.Participant
	if props.GatewayPort > 0 {
		app.gateway = gateway.New(cat, props.GatewayPort)
		participants = append(participants, app.gateway)
	}
	if props.Location != "" {
		archive, err := deployer.ResolveArchive(props.Location)
		if err != nil {
			// The configured archive does not exist or cannot be opened;
			// there is nothing useful this host could run.
			panic(err)
		}
		app.deployer = deployer.New(archive, cat)
		participants = append(participants, app.deployer)
	}
	app.manager = lifecycle.NewManager(participants...)

	return app
}

// applyOverrides lets CLI flags win over file and environment properties.
func applyOverrides(props *config.Properties, cfg *Config) {
	if cfg.LogLevel != "" {
		props.LogLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" {
		props.LogFormat = cfg.LogFormat
	}
	if cfg.GatewayPort >= 0 {
		props.GatewayPort = cfg.GatewayPort
	}
	if cfg.Location != "" {
		props.Location = cfg.Location
	}
	if cfg.FunctionName != "" {
		props.FunctionName = cfg.FunctionName
	}
}

// scanManifests binds functions declared under the scan path. A missing scan
// path is not an error; most hosts rely on built-ins or an archive alone.
func scanManifests(ctx context.Context, cat *catalog.Catalog, path string) error {
	logger := ctxlog.FromContext(ctx)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		logger.Debug("Scan path does not exist, skipping.", "path", path)
		return nil
	}

	fns, err := manifest.LoadDir(ctx, path)
	if err != nil {
		return fmt.Errorf("manifest scan: %w", err)
	}
	if err := manifest.Validate(ctx, fns, cat); err != nil {
		return err
	}
	for _, fn := range fns {
		err := cat.Bind(catalog.Function{
			Name:              fn.Name,
			Handler:           fn.Handler,
			InputContentType:  fn.InputContentType,
			OutputContentType: fn.OutputContentType,
			Description:       fn.Description,
			Source:            catalog.SourceScan,
		})
		if err != nil {
			return fmt.Errorf("manifest scan: %w", err)
		}
	}
	logger.Debug("Manifest scan complete.", "path", path, "functions", len(fns))
	return nil
}

// Catalog returns the application's catalog. This is primarily for testing.
func (a *App) Catalog() *catalog.Catalog {
	return a.catalog
}

// Deployer returns the archive deployer, nil when no location is configured.
func (a *App) Deployer() *deployer.Deployer {
	return a.deployer
}

// Gateway returns the HTTP gateway, nil when the port is disabled.
func (a *App) Gateway() *gateway.Gateway {
	return a.gateway
}
