// Package config loads the host's properties: a small HCL file plus
// FUNCGRID_* environment overrides. Everything is resolved exactly once at
// startup; nothing here is consulted again at runtime.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Properties is the resolved host configuration.
type Properties struct {
	// FunctionName is the default routing target when a message addresses
	// no function explicitly.
	FunctionName string

	// Location of the function archive to deploy, empty for none.
	Location string

	// ScanEnabled controls manifest scanning of ScanPath at startup.
	// Defaults to true.
	ScanEnabled bool
	ScanPath    string

	// PreferredJSONCodec selects the JSON mapper ("stdlib", "jsoniter", or
	// the name of a caller-registered codec).
	PreferredJSONCodec string

	// RoutingExpression is a gjson path evaluated against JSON payloads as
	// the router's last resort.
	RoutingExpression string

	// GatewayPort serves the HTTP invocation endpoint; 0 disables it.
	GatewayPort int

	LogLevel  string
	LogFormat string
}

// fileRoot is the HCL shape of the properties file.
type fileRoot struct {
	FunctionName       string     `hcl:"function_name,optional"`
	Location           string     `hcl:"location,optional"`
	PreferredJSONCodec string     `hcl:"preferred_json_codec,optional"`
	RoutingExpression  string     `hcl:"routing_expression,optional"`
	GatewayPort        *int       `hcl:"gateway_port,optional"`
	LogLevel           string     `hcl:"log_level,optional"`
	LogFormat          string     `hcl:"log_format,optional"`
	Scan               *scanBlock `hcl:"scan,block"`
}

type scanBlock struct {
	Enabled *bool  `hcl:"enabled,optional"`
	Path    string `hcl:"path,optional"`
}

// DefaultScanPath is where function manifests are looked for when the scan
// block names no path.
const DefaultScanPath = "functions"

func defaults() *Properties {
	return &Properties{
		ScanEnabled: true,
		ScanPath:    DefaultScanPath,
		LogLevel:    "info",
		LogFormat:   "json",
	}
}

// Load resolves properties from the given HCL file path and the process
// environment. An empty path skips the file entirely; a non-empty path that
// does not exist is a startup error, because the operator asked for it.
// Resolution order: file, then legacy environment keys, then current
// environment keys, later sources winning.
func Load(path string) (*Properties, error) {
	props := defaults()

	if path != "" {
		if err := loadFile(props, path); err != nil {
			return nil, err
		}
	}

	applyLegacyEnv(props)
	if err := applyEnv(props); err != nil {
		return nil, err
	}
	return props, nil
}

func loadFile(props *Properties, path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("properties file %s: %w", path, err)
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return fmt.Errorf("failed to parse properties file %s: %w", path, diags)
	}

	var root fileRoot
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return fmt.Errorf("failed to decode properties file %s: %w", path, diags)
	}

	if root.FunctionName != "" {
		props.FunctionName = root.FunctionName
	}
	if root.Location != "" {
		props.Location = root.Location
	}
	if root.PreferredJSONCodec != "" {
		props.PreferredJSONCodec = root.PreferredJSONCodec
	}
	if root.RoutingExpression != "" {
		props.RoutingExpression = root.RoutingExpression
	}
	if root.GatewayPort != nil {
		props.GatewayPort = *root.GatewayPort
	}
	if root.LogLevel != "" {
		props.LogLevel = root.LogLevel
	}
	if root.LogFormat != "" {
		props.LogFormat = root.LogFormat
	}
	if root.Scan != nil {
		if root.Scan.Enabled != nil {
			props.ScanEnabled = *root.Scan.Enabled
		}
		if root.Scan.Path != "" {
			props.ScanPath = root.Scan.Path
		}
	}
	return nil
}

// applyLegacyEnv honors the pre-rename environment keys. They are translated
// into their current equivalents, so the current keys always win when both
// are present.
func applyLegacyEnv(props *Properties) {
	if v, ok := os.LookupEnv("FUNCTION_NAME"); ok && os.Getenv("FUNCGRID_FUNCTION_NAME") == "" {
		props.FunctionName = v
	}
	if v, ok := os.LookupEnv("FUNCTION_LOCATION"); ok && os.Getenv("FUNCGRID_LOCATION") == "" {
		props.Location = v
	}
}

func applyEnv(props *Properties) error {
	if v, ok := os.LookupEnv("FUNCGRID_FUNCTION_NAME"); ok {
		props.FunctionName = v
	}
	if v, ok := os.LookupEnv("FUNCGRID_LOCATION"); ok {
		props.Location = v
	}
	if v, ok := os.LookupEnv("FUNCGRID_SCAN_ENABLED"); ok {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("FUNCGRID_SCAN_ENABLED: %w", err)
		}
		props.ScanEnabled = enabled
	}
	if v, ok := os.LookupEnv("FUNCGRID_SCAN_PATH"); ok {
		props.ScanPath = v
	}
	if v, ok := os.LookupEnv("FUNCGRID_PREFERRED_JSON_CODEC"); ok {
		props.PreferredJSONCodec = v
	}
	if v, ok := os.LookupEnv("FUNCGRID_ROUTING_EXPRESSION"); ok {
		props.RoutingExpression = v
	}
	if v, ok := os.LookupEnv("FUNCGRID_GATEWAY_PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("FUNCGRID_GATEWAY_PORT: %w", err)
		}
		props.GatewayPort = port
	}
	return nil
}
