package manifest

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/vk/funcgrid/internal/ctxlog"
	"github.com/vk/funcgrid/internal/fsutil"
)

// fileRoot decodes all function blocks from a single manifest file.
type fileRoot struct {
	Functions []*Function `hcl:"function,block"`
	Remain    hcl.Body    `hcl:",remain"`
}

// LoadDir walks a directory (or accepts a single .hcl file) and collects
// every function declaration found. Duplicate function names across files
// are an error.
func LoadDir(ctx context.Context, path string) ([]*Function, error) {
	logger := ctxlog.FromContext(ctx)

	files, err := fsutil.FindFilesByExtension(path, ".hcl")
	if err != nil {
		return nil, fmt.Errorf("manifest scan of %s: %w", path, err)
	}
	logger.Debug("Discovered manifest files.", "path", path, "count", len(files))

	parser := hclparse.NewParser()
	var all []*Function
	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse manifest %s: %w", file, diags)
		}
		fns, err := decode(hclFile, file)
		if err != nil {
			return nil, err
		}
		all = append(all, fns...)
	}
	return merge(all)
}

// LoadZip reads manifests out of a packaged archive without extracting it.
func LoadZip(ctx context.Context, path string) ([]*Function, error) {
	logger := ctxlog.FromContext(ctx)

	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive %s: %w", path, err)
	}
	defer r.Close()

	parser := hclparse.NewParser()
	var all []*Function
	for _, entry := range r.File {
		if filepath.Ext(entry.Name) != ".hcl" {
			continue
		}
		rc, err := entry.Open()
		if err != nil {
			return nil, fmt.Errorf("archive %s: failed to open %s: %w", path, entry.Name, err)
		}
		src, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("archive %s: failed to read %s: %w", path, entry.Name, err)
		}

		hclFile, diags := parser.ParseHCL(src, entry.Name)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse manifest %s in archive %s: %w", entry.Name, path, diags)
		}
		fns, err := decode(hclFile, entry.Name)
		if err != nil {
			return nil, err
		}
		all = append(all, fns...)
	}
	logger.Debug("Loaded manifests from archive.", "path", path, "functions", len(all))
	return merge(all)
}

func decode(file *hcl.File, name string) ([]*Function, error) {
	var root fileRoot
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode manifest %s: %w", name, diags)
	}
	return root.Functions, nil
}

func merge(fns []*Function) ([]*Function, error) {
	seen := make(map[string]struct{}, len(fns))
	for _, fn := range fns {
		if _, dup := seen[fn.Name]; dup {
			return nil, fmt.Errorf("manifest: function %q declared more than once", fn.Name)
		}
		seen[fn.Name] = struct{}{}
	}
	return fns, nil
}
