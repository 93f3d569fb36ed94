// Package catalog is the function registry at the heart of the host.
//
// Two maps live here. The handler registry maps Go handler names (e.g.
// "OnInvokeUppercase") to compiled function units; it is populated once at
// startup by built-in modules and panics on duplicates, because a duplicate
// handler is a programmer error. The function registry maps public function
// names to bindings onto those handlers; it is mutated at runtime by the
// manifest scanner and the archive deployer, so it is guarded and returns
// errors instead of panicking.
//
// During startup the catalog is populated and bindings are validated against
// the compiled handlers, so a manifest that names a handler the binary does
// not carry fails before the host accepts traffic.
package catalog
