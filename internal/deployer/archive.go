// Package deployer deploys a packaged function archive into the catalog and
// undeploys it again through the host lifecycle.
//
// An archive is either a directory (exploded) or a single packaged zip file.
// Either way its content is function manifests; the handlers they name must
// already be compiled into the binary. Resolution happens at construction
// time and failures there abort startup, because a host configured with an
// archive it cannot open has nothing useful to run.
package deployer

import (
	"context"
	"fmt"
	"os"

	"github.com/vk/funcgrid/internal/manifest"
)

// Archive is a resolved deployable unit.
type Archive struct {
	location string
	exploded bool
}

// ResolveArchive inspects the configured location. A missing or unreadable
// location is a fatal configuration error, wrapped so the operator sees the
// path that failed.
func ResolveArchive(location string) (*Archive, error) {
	info, err := os.Stat(location)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve archive: %s: %w", location, err)
	}
	return &Archive{location: location, exploded: info.IsDir()}, nil
}

// Location returns the archive's configured path.
func (a *Archive) Location() string {
	return a.location
}

// Manifests loads the function declarations the archive carries.
func (a *Archive) Manifests(ctx context.Context) ([]*manifest.Function, error) {
	if a.exploded {
		return manifest.LoadDir(ctx, a.location)
	}
	return manifest.LoadZip(ctx, a.location)
}
