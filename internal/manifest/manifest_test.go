package manifest

import (
	"archive/zip"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/funcgrid/internal/ctxlog"
)

const upperManifest = `
function "uppercase" {
  handler             = "OnInvokeUppercase"
  description         = "Uppercases the text field."
  input_content_type  = "application/json"
  output_content_type = "application/json"

  input "text" {
    type = "string"
  }
}
`

func testContext() context.Context {
	return ctxlog.WithLogger(context.Background(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "upper.hcl"), []byte(upperManifest), 0644))

	fns, err := LoadDir(testContext(), dir)
	require.NoError(t, err)
	require.Len(t, fns, 1)

	fn := fns[0]
	assert.Equal(t, "uppercase", fn.Name)
	assert.Equal(t, "OnInvokeUppercase", fn.Handler)
	assert.Equal(t, "application/json", fn.InputContentType)
	require.Len(t, fn.Inputs, 1)
	assert.Equal(t, "text", fn.Inputs[0].Name)
}

func TestLoadDir_SingleFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "upper.hcl")
	require.NoError(t, os.WriteFile(file, []byte(upperManifest), 0644))

	fns, err := LoadDir(testContext(), file)
	require.NoError(t, err)
	assert.Len(t, fns, 1)
}

func TestLoadDir_DuplicateFunctionName(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.hcl"), []byte(upperManifest), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.hcl"), []byte(upperManifest), 0644))

	_, err := LoadDir(testContext(), dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "more than once")
}

func TestLoadDir_MalformedManifest(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.hcl"), []byte(`function "x" {`), 0644))

	_, err := LoadDir(testContext(), dir)
	require.Error(t, err)
}

func writeArchive(t *testing.T, entries map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "functions.zip")
	f, err := os.Create(path)
	require.NoError(t, err)
	w := zip.NewWriter(f)
	for name, content := range entries {
		entry, err := w.Create(name)
		require.NoError(t, err)
		_, err = entry.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())
	return path
}

func TestLoadZip(t *testing.T) {
	path := writeArchive(t, map[string]string{
		"manifests/upper.hcl": upperManifest,
		"README.md":           "not a manifest",
	})

	fns, err := LoadZip(testContext(), path)
	require.NoError(t, err)
	require.Len(t, fns, 1)
	assert.Equal(t, "uppercase", fns[0].Name)
}

func TestLoadZip_NotAnArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.zip")
	require.NoError(t, os.WriteFile(path, []byte("not a zip"), 0644))

	_, err := LoadZip(testContext(), path)
	require.Error(t, err)
}

// --- validation ---

type upperInput struct {
	Text  string `json:"text"`
	Times int    `json:"times"`
}

type fakeHandlers map[string]reflect.Type

func (f fakeHandlers) HandlerInputType(name string) (reflect.Type, bool) {
	t, ok := f[name]
	if !ok {
		return nil, false
	}
	if t == reflect.TypeOf(struct{}{}) {
		return nil, true
	}
	return t, true
}

func TestValidate_Parity(t *testing.T) {
	handlers := fakeHandlers{"OnInvokeUppercase": reflect.TypeOf(upperInput{})}

	fns := []*Function{{
		Name:    "uppercase",
		Handler: "OnInvokeUppercase",
		Inputs: []*Input{
			{Name: "text", Type: "string"},
			{Name: "times", Type: "number"},
		},
	}}
	require.NoError(t, Validate(testContext(), fns, handlers))
}

func TestValidate_UnknownHandler(t *testing.T) {
	fns := []*Function{{Name: "x", Handler: "OnMissing"}}
	err := Validate(testContext(), fns, fakeHandlers{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OnMissing")
}

func TestValidate_UndeclaredGoField(t *testing.T) {
	handlers := fakeHandlers{"OnInvokeUppercase": reflect.TypeOf(upperInput{})}
	fns := []*Function{{
		Name:    "uppercase",
		Handler: "OnInvokeUppercase",
		Inputs:  []*Input{{Name: "text", Type: "string"}},
	}}
	err := Validate(testContext(), fns, handlers)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "'times'")
}

func TestValidate_MissingGoField(t *testing.T) {
	handlers := fakeHandlers{"OnInvokeUppercase": reflect.TypeOf(upperInput{})}
	fns := []*Function{{
		Name:    "uppercase",
		Handler: "OnInvokeUppercase",
		Inputs: []*Input{
			{Name: "text", Type: "string"},
			{Name: "times", Type: "number"},
			{Name: "color", Type: "string"},
		},
	}}
	err := Validate(testContext(), fns, handlers)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "'color'")
}

func TestValidate_TypeMismatch(t *testing.T) {
	handlers := fakeHandlers{"OnInvokeUppercase": reflect.TypeOf(upperInput{})}
	fns := []*Function{{
		Name:    "uppercase",
		Handler: "OnInvokeUppercase",
		Inputs: []*Input{
			{Name: "text", Type: "number"},
			{Name: "times", Type: "number"},
		},
	}}
	err := Validate(testContext(), fns, handlers)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "type mismatch")
}

func TestValidate_AnySkipsTypeCheck(t *testing.T) {
	handlers := fakeHandlers{"OnInvokeUppercase": reflect.TypeOf(upperInput{})}
	fns := []*Function{{
		Name:    "uppercase",
		Handler: "OnInvokeUppercase",
		Inputs: []*Input{
			{Name: "text"},
			{Name: "times", Type: "any"},
		},
	}}
	require.NoError(t, Validate(testContext(), fns, handlers))
}

func TestValidate_InputsDeclaredForInputlessHandler(t *testing.T) {
	handlers := fakeHandlers{"OnTick": reflect.TypeOf(struct{}{})}
	fns := []*Function{{
		Name:    "tick",
		Handler: "OnTick",
		Inputs:  []*Input{{Name: "x", Type: "string"}},
	}}
	err := Validate(testContext(), fns, handlers)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "handler takes none")
}
