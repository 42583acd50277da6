package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/comfykit/nodedep/internal/builtin"
	"github.com/comfykit/nodedep/internal/catalog"
	"github.com/comfykit/nodedep/internal/config"
	"github.com/comfykit/nodedep/internal/manifest"
	"github.com/comfykit/nodedep/internal/overrides"
	"github.com/comfykit/nodedep/internal/resolver"
	"github.com/comfykit/nodedep/internal/workflow"
	"github.com/spf13/cobra"
)

var (
	resolveWorkflow    string
	resolveComfyRoot   string
	resolveManagerRoot string
	resolveNodeMap     string
	resolveOverrides   string
	resolveOutput      string
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve a workflow's custom node plugin dependencies",
	Long: `Inspect a workflow JSON export, filter out nodes that ship with ComfyUI,
and match the remaining nodes against the ComfyUI-Manager extension
catalog. Writes a dependency manifest listing the required plugins and
which custom nodes each one provides.`,
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().StringVar(&resolveWorkflow, "workflow", "", "Path to the workflow JSON file exported from ComfyUI (required)")
	resolveCmd.Flags().StringVar(&resolveComfyRoot, "comfy-root", "", "Path to the ComfyUI checkout (cloned if absent)")
	resolveCmd.Flags().StringVar(&resolveManagerRoot, "manager-root", "", "Path to the ComfyUI-Manager checkout (cloned if absent)")
	resolveCmd.Flags().StringVar(&resolveNodeMap, "node-map", "", "Explicit path to extension-node-map.json")
	resolveCmd.Flags().StringVar(&resolveOverrides, "overrides", "", "Path to the override config (builtin_nodes, plugin_overrides)")
	resolveCmd.Flags().StringVarP(&resolveOutput, "output", "o", "", "Write the dependency manifest here instead of stdout")
	_ = resolveCmd.MarkFlagRequired("workflow")
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	config.Load()

	comfyRoot := firstNonEmpty(resolveComfyRoot, config.Get(config.KeyComfyRoot), "ComfyUI")
	managerRoot := firstNonEmpty(resolveManagerRoot, config.Get(config.KeyManagerRoot), "ComfyUI-Manager")

	workflowNodes, err := workflow.LoadNodes(resolveWorkflow)
	if err != nil {
		return err
	}

	comfyRoot, err = catalog.ResolveComfyRoot(comfyRoot)
	if err != nil {
		return fmt.Errorf("preparing ComfyUI checkout: %w", err)
	}
	managerRoot, err = catalog.ResolveManagerRoot(managerRoot)
	if err != nil {
		return fmt.Errorf("preparing ComfyUI-Manager checkout: %w", err)
	}

	var entries []catalog.RawEntry
	if resolveNodeMap != "" {
		entries, err = catalog.LoadNodeMapFile(resolveNodeMap)
	} else {
		preferred, fallback := catalog.NodeMapPaths(managerRoot)
		entries, err = catalog.LoadNodeMap(preferred, fallback)
	}
	if err != nil {
		return err
	}

	ovr := overrides.Empty()
	if resolveOverrides != "" {
		if ovr, err = overrides.Load(resolveOverrides); err != nil {
			return err
		}
	}

	directory := catalog.LoadDirectory(managerRoot)
	index := catalog.BuildIndex(entries, directory)

	builtinNodes := builtin.Scan(comfyRoot)
	for name := range index.BuiltinNodes {
		builtinNodes[name] = true
	}
	for name := range ovr.BuiltinNames {
		builtinNodes[name] = true
	}

	groups, unresolvedNodes := resolver.Resolve(resolver.Input{
		WorkflowNodes:   workflowNodes,
		BuiltinNodes:    builtinNodes,
		BuiltinPatterns: ovr.BuiltinPatterns,
		Index:           index,
		Overrides:       ovr,
	})

	result := &manifest.Manifest{Plugins: make([]manifest.Plugin, 0, len(groups))}
	for _, group := range groups {
		plugin := manifest.Plugin{ID: group.ID, Nodes: group.Nodes}
		if len(group.Metadata) > 0 {
			plugin.Metadata = group.Metadata
		}
		result.Plugins = append(result.Plugins, plugin)
	}
	result.UnresolvedNodes = unresolvedNodes

	if len(unresolvedNodes) > 0 {
		fmt.Fprintf(os.Stderr, "[warn] could not resolve nodes: %s\n", strings.Join(unresolvedNodes, ", "))
	}

	if resolveOutput != "" {
		return manifest.WriteFile(resolveOutput, result)
	}
	data, err := manifest.Encode(result)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), string(data))
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
