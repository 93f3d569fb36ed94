// Package app assembles a funcgrid host: the one place where configuration
// is resolved, the JSON codec is selected, the converter chain is composed,
// built-in modules are registered and the archive deployer is constructed.
// All of it happens exactly once, synchronously, in NewApp; conditional
// construction here replaces any notion of conditional bean registration.
//
// NewApp panics on fatal startup errors (unreadable properties, unknown
// codec preference, unresolvable archive). cmd/funcgrid recovers once and
// turns the panic into a clean non-zero exit.
package app
