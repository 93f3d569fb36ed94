package deployer

import (
	"context"
	"fmt"
	"sync"

	"github.com/vk/funcgrid/internal/catalog"
	"github.com/vk/funcgrid/internal/ctxlog"
	"github.com/vk/funcgrid/internal/lifecycle"
	"github.com/vk/funcgrid/internal/manifest"
)

// Deployer binds an archive's functions into the catalog on Start and
// removes them on Stop. It implements lifecycle.Participant with the
// deployer phase, just below the gateway's, so functions are deployed
// before traffic is accepted and undeployed only after it stops.
type Deployer struct {
	archive *Archive
	catalog *catalog.Catalog

	mu      sync.Mutex
	running bool
	bound   []string
}

// New builds a deployer for a resolved archive.
func New(archive *Archive, cat *catalog.Catalog) *Deployer {
	return &Deployer{archive: archive, catalog: cat}
}

// Start deploys the archive: manifests are parsed, validated against the
// compiled handlers, and bound. A partial failure unbinds everything this
// start bound, so a failed deploy leaves the catalog as it found it.
func (d *Deployer) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	logger := ctxlog.FromContext(ctx)

	if d.running {
		return nil
	}
	logger.Info("Deploying archive.", "location", d.archive.Location())

	fns, err := d.archive.Manifests(ctx)
	if err != nil {
		return err
	}
	if err := manifest.Validate(ctx, fns, d.catalog); err != nil {
		return fmt.Errorf("archive %s: %w", d.archive.Location(), err)
	}

	var bound []string
	for _, fn := range fns {
		err := d.catalog.Bind(catalog.Function{
			Name:              fn.Name,
			Handler:           fn.Handler,
			InputContentType:  fn.InputContentType,
			OutputContentType: fn.OutputContentType,
			Description:       fn.Description,
			Source:            d.archive.Location(),
		})
		if err != nil {
			for _, name := range bound {
				if unbindErr := d.catalog.Unbind(name, d.archive.Location()); unbindErr != nil {
					logger.Error("Failed to unbind during deploy rollback.", "function", name, "error", unbindErr)
				}
			}
			return fmt.Errorf("archive %s: %w", d.archive.Location(), err)
		}
		bound = append(bound, fn.Name)
	}

	d.bound = bound
	d.running = true
	logger.Info("Successfully deployed archive.", "location", d.archive.Location(), "functions", len(bound))
	return nil
}

// Stop undeploys the archive's functions. Stopping a deployer that is not
// running is a no-op.
func (d *Deployer) Stop(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	logger := ctxlog.FromContext(ctx)

	if !d.running {
		return nil
	}
	logger.Info("Undeploying archive.", "location", d.archive.Location())

	var firstErr error
	for _, name := range d.bound {
		if err := d.catalog.Unbind(name, d.archive.Location()); err != nil {
			logger.Error("Failed to unbind function.", "function", name, "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	d.bound = nil
	d.running = false
	if firstErr == nil {
		logger.Info("Successfully undeployed archive.", "location", d.archive.Location())
	}
	return firstErr
}

// Running reports whether the archive is currently deployed.
func (d *Deployer) Running() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.running
}

// Phase places the deployer just below the gateway in the lifecycle order.
func (d *Deployer) Phase() int {
	return lifecycle.PhaseDeployer
}

// Functions returns the names this deployer currently has bound.
func (d *Deployer) Functions() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, len(d.bound))
	copy(out, d.bound)
	return out
}
