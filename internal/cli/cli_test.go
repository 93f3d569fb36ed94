package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	var out bytes.Buffer
	cfg, exit, err := Parse(nil, &out)
	require.NoError(t, err)
	assert.False(t, exit)
	assert.Empty(t, cfg.PropsPath)
	assert.Equal(t, -1, cfg.GatewayPort)
}

func TestParse_PositionalPropertiesFile(t *testing.T) {
	var out bytes.Buffer
	cfg, _, err := Parse([]string{"host.hcl"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "host.hcl", cfg.PropsPath)
}

func TestParse_ConfigFlagBeatsPositional(t *testing.T) {
	var out bytes.Buffer
	cfg, _, err := Parse([]string{"-config", "a.hcl", "b.hcl"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "a.hcl", cfg.PropsPath)
}

func TestParse_Overrides(t *testing.T) {
	var out bytes.Buffer
	cfg, _, err := Parse([]string{
		"-port", "9090",
		"-location", "/srv/functions.zip",
		"-function-name", "uppercase",
		"-log-level", "DEBUG",
		"-log-format", "text",
	}, &out)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.GatewayPort)
	assert.Equal(t, "/srv/functions.zip", cfg.Location)
	assert.Equal(t, "uppercase", cfg.FunctionName)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestParse_InvalidLogFormat(t *testing.T) {
	var out bytes.Buffer
	_, _, err := Parse([]string{"-log-format", "xml"}, &out)
	require.Error(t, err)
	exitErr, ok := err.(*ExitError)
	require.True(t, ok)
	assert.Equal(t, 2, exitErr.Code)
}

func TestParse_InvalidLogLevel(t *testing.T) {
	var out bytes.Buffer
	_, _, err := Parse([]string{"-log-level", "verbose"}, &out)
	require.Error(t, err)
}

func TestParse_HelpExitsCleanly(t *testing.T) {
	var out bytes.Buffer
	_, exit, err := Parse([]string{"-h"}, &out)
	require.NoError(t, err)
	assert.True(t, exit)
	assert.Contains(t, out.String(), "funcgrid")
}

func TestParse_InvalidPort(t *testing.T) {
	var out bytes.Buffer
	_, _, err := Parse([]string{"-port", "70000"}, &out)
	require.Error(t, err)
}
