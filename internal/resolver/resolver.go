// Package resolver maps workflow node names to the plugins that own them.
package resolver

import (
	"regexp"
	"sort"

	"github.com/comfykit/nodedep/internal/catalog"
	"github.com/comfykit/nodedep/internal/overrides"
)

// Input carries everything a resolution run needs.
type Input struct {
	// WorkflowNodes are the node names referenced by the workflow.
	WorkflowNodes []string
	// BuiltinNodes are names that ship with the host and need no plugin.
	BuiltinNodes map[string]bool
	// BuiltinPatterns are pattern-shaped built-in declarations.
	BuiltinPatterns []*regexp.Regexp
	// Index is the merged catalog lookup.
	Index *catalog.Index
	// Overrides pins specific nodes to specific plugin ids.
	Overrides *overrides.Overrides
}

// PluginGroup is one required plugin and the workflow nodes it must
// provide, node list deduplicated and sorted.
type PluginGroup struct {
	ID       string
	Nodes    []string
	Metadata map[string]interface{}
}

// Resolve decides the owning plugin for every workflow node.
//
// Precedence, first match wins: manual override, preemption, first catalog
// provider, first matching nodename pattern. A non-empty provider list is
// authoritative over the pattern fallback, so it is re-checked last.
// Built-in nodes are skipped outright; nodes nothing claims are returned
// as unresolved, sorted.
func Resolve(in Input) ([]PluginGroup, []string) {
	if in.Overrides == nil {
		in.Overrides = overrides.Empty()
	}

	groups := make(map[string]map[string]bool)
	var unresolved []string

	names := append([]string(nil), in.WorkflowNodes...)
	sort.Strings(names)

	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true

		if in.BuiltinNodes[name] || matchesAny(in.BuiltinPatterns, name) {
			continue
		}

		providers := in.Index.NodeProviders[name]
		pluginID := in.Overrides.PluginOverrides[name]

		if pluginID == "" {
			pluginID = in.Index.Preemptions[name]
			if pluginID == "" && len(providers) > 0 {
				pluginID = providers[0]
			}
			if pluginID == "" {
				for _, entry := range in.Index.Patterns {
					if entry.Pattern.MatchString(name) {
						pluginID = entry.PluginID
						break
					}
				}
			}
		}

		if pluginID == "" && len(providers) > 0 {
			pluginID = providers[0]
		}

		if pluginID == "" {
			unresolved = append(unresolved, name)
			continue
		}

		if groups[pluginID] == nil {
			groups[pluginID] = make(map[string]bool)
		}
		groups[pluginID][name] = true
	}

	ids := make([]string, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	result := make([]PluginGroup, 0, len(ids))
	for _, id := range ids {
		nodes := make([]string, 0, len(groups[id]))
		for node := range groups[id] {
			nodes = append(nodes, node)
		}
		sort.Strings(nodes)
		result = append(result, PluginGroup{
			ID:       id,
			Nodes:    nodes,
			Metadata: in.Index.Metadata[id],
		})
	}

	sort.Strings(unresolved)
	return result, unresolved
}

func matchesAny(patterns []*regexp.Regexp, name string) bool {
	for _, pattern := range patterns {
		if pattern.MatchString(name) {
			return true
		}
	}
	return false
}
