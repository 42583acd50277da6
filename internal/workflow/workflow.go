// Package workflow extracts the set of node type identifiers referenced by
// a ComfyUI workflow export.
package workflow

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// LoadNodes reads a workflow JSON file and returns the node type names it
// references, deduplicated and sorted.
func LoadNodes(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading workflow %s: %w", path, err)
	}
	return ParseNodes(data, path)
}

// ParseNodes extracts node type names from raw workflow JSON. The standard
// export carries a top-level "nodes" array; anything else is crawled
// recursively so API-format and hand-edited files still resolve.
func ParseNodes(data []byte, path string) ([]string, error) {
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing workflow %s: %w", path, err)
	}

	discovered := make(map[string]bool)

	if obj, ok := doc.(map[string]interface{}); ok {
		if nodes, ok := obj["nodes"].([]interface{}); ok {
			for _, raw := range nodes {
				node, ok := raw.(map[string]interface{})
				if !ok {
					continue
				}
				if name := classType(node); name != "" {
					discovered[name] = true
				}
			}
			return sortedKeys(discovered), nil
		}
	}

	// Non-standard format: crawl the whole structure.
	crawl(doc, discovered)
	return sortedKeys(discovered), nil
}

// classType returns the node's type name, preferring "class_type" over
// "type" as the workflow export does.
func classType(node map[string]interface{}) string {
	if s, ok := node["class_type"].(string); ok && s != "" {
		return s
	}
	if s, ok := node["type"].(string); ok {
		return s
	}
	return ""
}

func crawl(v interface{}, discovered map[string]bool) {
	switch val := v.(type) {
	case map[string]interface{}:
		if name := classType(val); name != "" {
			discovered[name] = true
		}
		for _, child := range val {
			crawl(child, discovered)
		}
	case []interface{}:
		for _, child := range val {
			crawl(child, discovered)
		}
	}
}

func sortedKeys(set map[string]bool) []string {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
