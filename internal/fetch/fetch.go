// Package fetch materializes plugin plans: it shallow-clones each plugin
// repository and locates its requirement-declaration files.
package fetch

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/comfykit/nodedep/internal/plan"
)

// cloneFlags keep plugin checkouts small: shallow, tagless, with shallow
// submodules (some custom nodes vendor models or kernels as submodules).
var cloneFlags = []string{
	"--depth=1",
	"--no-tags",
	"--recurse-submodules",
	"--shallow-submodules",
}

// Materialize acquires the plugin's source tree under root and records the
// outcome on the plan. A target directory that already exists is treated
// as materialized and only scanned. The clone call blocks until git exits.
func Materialize(p *plan.PluginPlan, root string) {
	if p.RepoURL == "" || p.Slug == "" {
		p.Status = plan.StatusSkipped
		p.Message = "no usable repository URL found"
		return
	}

	targetDir := filepath.Join(root, p.Slug)
	if _, err := os.Stat(targetDir); err == nil {
		p.Status = plan.StatusSkipped
		p.Message = "directory already exists, clone skipped"
		p.Requirements = FindRequirementFiles(targetDir)
		return
	}

	if err := os.MkdirAll(filepath.Dir(targetDir), 0755); err != nil {
		p.Status = plan.StatusFailed
		p.Message = fmt.Sprintf("creating clone root: %v", err)
		return
	}

	if _, err := exec.LookPath("git"); err != nil {
		p.Status = plan.StatusFailed
		p.Message = "git executable not found in PATH"
		return
	}

	args := append([]string{"clone"}, cloneFlags...)
	args = append(args, p.RepoURL, targetDir)
	cmd := exec.Command("git", args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		p.Status = plan.StatusFailed
		p.Message = strings.TrimSpace(string(output))
		if p.Message == "" {
			p.Message = "git clone failed"
		}
		return
	}

	p.Status = plan.StatusCloned
	p.Requirements = FindRequirementFiles(targetDir)
}

// FindRequirementFiles returns the requirement-declaration files directly
// under pluginDir: every regular file matching requirements*, plus the
// extension-less requirements file if present. Result order is stable.
func FindRequirementFiles(pluginDir string) []string {
	var results []string

	matches, err := filepath.Glob(filepath.Join(pluginDir, "requirements*"))
	if err == nil {
		for _, candidate := range matches {
			if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
				results = append(results, candidate)
			}
		}
	}

	standalone := filepath.Join(pluginDir, "requirements")
	if info, err := os.Stat(standalone); err == nil && info.Mode().IsRegular() {
		results = append(results, standalone)
	}

	return results
}
