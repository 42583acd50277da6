// Package cli wires the cobra command tree: resolve, apply, version, and
// config.
package cli
