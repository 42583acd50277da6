package manifest

// Plugin is one resolved plugin in the dependency manifest.
type Plugin struct {
	ID       string                 `json:"id"`
	Nodes    []string               `json:"nodes"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// Manifest is the dependency document produced by resolve and consumed by
// apply.
type Manifest struct {
	Plugins         []Plugin `json:"plugins"`
	UnresolvedNodes []string `json:"unresolved_nodes,omitempty"`
}

// PluginResult is the per-plugin outcome row in the apply summary.
type PluginResult struct {
	ID                string   `json:"id"`
	RepoURL           string   `json:"repo_url"`
	Slug              string   `json:"slug"`
	Nodes             []string `json:"nodes"`
	Status            string   `json:"status"`
	Reason            string   `json:"reason"`
	Message           string   `json:"message"`
	RequirementsFiles []string `json:"requirements_files"`
}

// Summary describes a full apply run: every plugin attempted, the nodes
// nobody claimed, and the requirement lines collected.
type Summary struct {
	WorkflowPlugins       []PluginResult `json:"workflow_plugins"`
	UnresolvedNodes       []string       `json:"unresolved_nodes"`
	CollectedRequirements []string       `json:"collected_requirements"`
}
