package catalog

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/comfykit/nodedep/internal/branding"
)

// NodeMapRelPath is the preferred node-map location inside a
// ComfyUI-Manager checkout.
var NodeMapRelPath = filepath.Join("node_db", "dev", "extension-node-map.json")

// EnsureRepo shallow-clones repoURL into path unless the path already
// exists. Returns the path for chaining.
func EnsureRepo(path, repoURL string) (string, error) {
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	if err := ensureGit(); err != nil {
		return "", err
	}

	fmt.Fprintf(os.Stderr, "[info] cloning %s into %s\n", repoURL, path)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("creating parent directory: %w", err)
	}

	cmd := exec.Command("git", "clone", "--depth=1", repoURL, path)
	if output, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("cloning %s: %w\n%s", repoURL, err, strings.TrimSpace(string(output)))
	}
	return path, nil
}

// ResolveManagerRoot ensures a usable ComfyUI-Manager checkout. When the
// given root lacks the node-map file, a fresh clone lands in a sibling
// <root>-download directory instead of touching the existing tree.
func ResolveManagerRoot(root string) (string, error) {
	resolved, err := EnsureRepo(root, branding.ManagerRepoURL())
	if err != nil {
		return "", err
	}

	if fileExists(filepath.Join(resolved, NodeMapRelPath)) {
		return resolved, nil
	}

	fallback := filepath.Join(filepath.Dir(resolved), filepath.Base(resolved)+"-download")
	return EnsureRepo(fallback, branding.ManagerRepoURL())
}

// ResolveComfyRoot ensures a usable ComfyUI checkout, using the same
// sibling-download fallback when the marker files are missing.
func ResolveComfyRoot(root string) (string, error) {
	resolved, err := EnsureRepo(root, branding.ComfyRepoURL())
	if err != nil {
		return "", err
	}

	if fileExists(filepath.Join(resolved, "nodes.py")) ||
		fileExists(filepath.Join(resolved, "comfy", "__init__.py")) {
		return resolved, nil
	}

	fallback := filepath.Join(filepath.Dir(resolved), filepath.Base(resolved)+"-download")
	return EnsureRepo(fallback, branding.ComfyRepoURL())
}

// NodeMapPaths returns the preferred and fallback node-map paths for a
// manager checkout. The fallback is computed up front so every caller
// reads a defined value.
func NodeMapPaths(managerRoot string) (preferred, fallback string) {
	preferred = filepath.Join(managerRoot, NodeMapRelPath)
	fallback = filepath.Join(managerRoot, "extension-node-map.json")
	return preferred, fallback
}

// ensureGit checks that git is available on PATH.
func ensureGit() error {
	if _, err := exec.LookPath("git"); err != nil {
		return fmt.Errorf("git is required but not found in PATH")
	}
	return nil
}
