// Package branding provides compile-time identity values for the CLI.
//
// Forkers edit branding.yaml in this package; //go:embed bakes it into
// the binary at build time.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName        string `yaml:"cli_name"`
	DisplayName    string `yaml:"display_name"`
	Description    string `yaml:"description"`
	HomeDir        string `yaml:"home_dir"`
	EnvPrefix      string `yaml:"env_prefix"`
	GoModule       string `yaml:"go_module"`
	GitHubRepo     string `yaml:"github_repo"`
	ComfyRepoURL   string `yaml:"comfy_repo_url"`
	ManagerRepoURL string `yaml:"manager_repo_url"`
}

func load() {
	once.Do(func() {
		// Hard defaults in case the embedded file is missing/empty.
		defaults = brand{
			CLIName:        "nodedep",
			DisplayName:    "NodeDep",
			Description:    "Resolve and materialize custom node dependencies for ComfyUI workflows",
			HomeDir:        ".nodedep",
			EnvPrefix:      "NODEDEP",
			GoModule:       "github.com/comfykit/nodedep",
			GitHubRepo:     "comfykit/nodedep",
			ComfyRepoURL:   "https://github.com/comfyanonymous/ComfyUI",
			ManagerRepoURL: "https://github.com/Comfy-Org/ComfyUI-Manager",
		}
		// Overlay with embedded YAML values.
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "nodedep").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name.
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// HomeDir returns the dot-directory name under $HOME (e.g., ".nodedep").
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "NODEDEP").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// GitHubRepo returns the "owner/repo" string used for release checks.
func GitHubRepo() string { load(); return defaults.GitHubRepo }

// ComfyRepoURL returns the upstream ComfyUI repository URL. Catalog entries
// whose canonical id equals this URL describe built-in nodes, not plugins.
func ComfyRepoURL() string { load(); return defaults.ComfyRepoURL }

// ManagerRepoURL returns the ComfyUI-Manager repository URL, the source of
// the extension node map and the custom node directory.
func ManagerRepoURL() string { load(); return defaults.ManagerRepoURL }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("HOME") → "NODEDEP_HOME".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
