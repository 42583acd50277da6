package catalog

import "regexp"

// EntryKind tags the decoded shape of a raw node-map value.
type EntryKind int

const (
	// KindNodeList is a bare list of node names.
	KindNodeList EntryKind = iota
	// KindMetadataOnly is a metadata object with no node list.
	KindMetadataOnly
	// KindNodeListWithMetadata carries both.
	KindNodeListWithMetadata
)

// ProviderEntry is one raw node-map value, decoded once at the load
// boundary so downstream code never re-inspects raw JSON shapes.
// The upstream format is either [[names...], {metadata}?] or {metadata}.
type ProviderEntry struct {
	Kind     EntryKind
	Names    []string
	Metadata map[string]interface{}
}

// RawEntry pairs a raw plugin id with its decoded value, in node-map
// declaration order. Order matters: it is the provider-list tie-break and
// the pattern fallback order.
type RawEntry struct {
	ID    string
	Entry ProviderEntry
}

// DirectoryEntry is one row of the custom node directory
// (custom-node-list.json).
type DirectoryEntry struct {
	Author      string   `json:"author"`
	Title       string   `json:"title"`
	Reference   string   `json:"reference"`
	Files       []string `json:"files"`
	InstallType string   `json:"install_type"`
	Description string   `json:"description"`
}

// PatternEntry is a compiled nodename_pattern and the canonical plugin id
// that declared it.
type PatternEntry struct {
	Pattern  *regexp.Regexp
	PluginID string
}

// Index is the merged catalog lookup built from the node map and the
// directory. One entry per canonical plugin id.
type Index struct {
	// NodeProviders maps a node name to the canonical ids that provide it,
	// in node-map declaration order.
	NodeProviders map[string][]string

	// Metadata maps a canonical id to its merged metadata.
	Metadata map[string]map[string]interface{}

	// Preemptions maps a node name to the canonical id that declared it
	// preempted.
	Preemptions map[string]string

	// Patterns holds compiled nodename_pattern entries in declaration order.
	Patterns []PatternEntry

	// BuiltinNodes are node names owned by the host ComfyUI repository.
	BuiltinNodes map[string]bool
}
