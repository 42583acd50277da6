// Package manifest defines the dependency manifest and apply summary
// documents, their JSON encoding, and schema validation.
package manifest
