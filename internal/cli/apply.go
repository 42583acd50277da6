package cli

import (
	"fmt"
	"os"

	"github.com/comfykit/nodedep/internal/config"
	"github.com/comfykit/nodedep/internal/fetch"
	"github.com/comfykit/nodedep/internal/manifest"
	"github.com/comfykit/nodedep/internal/plan"
	"github.com/comfykit/nodedep/internal/requirements"
	"github.com/spf13/cobra"
)

var (
	applyDeps        string
	applyCustomRoot  string
	applyReqsOutput  string
	applySummaryPath string
	applyBaselines   []string
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Clone workflow-required plugins and gather their requirements",
	Long: `Read a dependency manifest produced by resolve, clone each required
plugin into the custom node directory, and collect the requirement lines
not already covered by the baseline manifests. The summary and
requirements outputs always reflect the full attempted state, even when
the run ultimately fails.`,
	RunE: runApply,
}

func init() {
	applyCmd.Flags().StringVar(&applyDeps, "deps", "", "Path to the workflow dependency manifest (required)")
	applyCmd.Flags().StringVar(&applyCustomRoot, "custom-node-root", "", "Directory where plugins are cloned (required)")
	applyCmd.Flags().StringVar(&applyReqsOutput, "requirements-output", "", "Where to write the deduplicated requirements (required)")
	applyCmd.Flags().StringVar(&applySummaryPath, "summary-output", "", "Where to write the JSON run summary (required)")
	applyCmd.Flags().StringArrayVar(&applyBaselines, "baseline", nil, "Baseline requirements file treated as already satisfied (repeatable)")
	_ = applyCmd.MarkFlagRequired("deps")
	_ = applyCmd.MarkFlagRequired("custom-node-root")
	_ = applyCmd.MarkFlagRequired("requirements-output")
	_ = applyCmd.MarkFlagRequired("summary-output")
	rootCmd.AddCommand(applyCmd)
}

func runApply(cmd *cobra.Command, args []string) error {
	config.Load()

	if _, err := os.Stat(applyDeps); os.IsNotExist(err) {
		fmt.Fprintf(cmd.OutOrStdout(), "[info] dependency manifest %s not found, skipping workflow plugins\n", applyDeps)
		return nil
	}

	deps, err := manifest.Load(applyDeps)
	if err != nil {
		return err
	}

	plans := plan.Build(deps)
	unresolvedNodes := deps.UnresolvedNodes

	if len(plans) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "[info] workflow declares no extra plugins, skipping clone")
		if err := requirements.WriteOutput(applyReqsOutput, nil); err != nil {
			return err
		}
		return writeSummary(plans, unresolvedNodes, nil)
	}

	if err := os.MkdirAll(applyCustomRoot, 0755); err != nil {
		return fmt.Errorf("creating custom node root: %w", err)
	}

	missingRepos := 0
	cloneFailures := 0

	fmt.Fprintf(cmd.OutOrStdout(), "[info] plugins to process: %d\n", len(plans))
	for _, p := range plans {
		fetch.Materialize(p, applyCustomRoot)
		switch {
		case p.RepoURL == "":
			fmt.Fprintf(os.Stderr, "[warn] plugin %s has no resolvable repository URL\n", p.PluginID)
			missingRepos++
		case p.Status == plan.StatusFailed:
			fmt.Fprintf(os.Stderr, "[warn] plugin %s clone failed: %s\n", p.PluginID, p.Message)
			cloneFailures++
		default:
			fmt.Fprintf(cmd.OutOrStdout(), "[info] plugin %s -> %s (%s)\n", p.PluginID, p.Status, p.Slug)
		}
	}

	seen := requirements.NewSeen()
	baselines := applyBaselines
	if len(baselines) == 0 {
		baselines = config.GetStringSlice(config.KeyBaselines)
	}
	seen.LoadBaselines(baselines)

	collected := requirements.Collect(plans, seen)
	if err := requirements.WriteOutput(applyReqsOutput, collected); err != nil {
		return err
	}

	if len(collected) > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "[info] %d new requirement lines written to %s\n", len(collected), applyReqsOutput)
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "[info] no new requirements found")
	}

	if len(unresolvedNodes) > 0 {
		fmt.Fprintf(os.Stderr, "[warn] unresolved nodes: %d\n", len(unresolvedNodes))
	}

	if err := writeSummary(plans, unresolvedNodes, collected); err != nil {
		return err
	}

	if missingRepos > 0 || cloneFailures > 0 {
		return fmt.Errorf("%d plugins without a repository URL, %d clone failures", missingRepos, cloneFailures)
	}
	return nil
}

// writeSummary records the full attempted state of the run.
func writeSummary(plans []*plan.PluginPlan, unresolvedNodes, collected []string) error {
	summary := &manifest.Summary{
		WorkflowPlugins:       make([]manifest.PluginResult, 0, len(plans)),
		UnresolvedNodes:       emptyIfNil(unresolvedNodes),
		CollectedRequirements: emptyIfNil(collected),
	}
	for _, p := range plans {
		summary.WorkflowPlugins = append(summary.WorkflowPlugins, manifest.PluginResult{
			ID:                p.PluginID,
			RepoURL:           p.RepoURL,
			Slug:              p.Slug,
			Nodes:             emptyIfNil(p.Nodes),
			Status:            string(p.Status),
			Reason:            p.Reason,
			Message:           p.Message,
			RequirementsFiles: emptyIfNil(p.Requirements),
		})
	}
	return manifest.WriteFile(applySummaryPath, summary)
}

func emptyIfNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
