// Package overrides loads the manual override config: node names forced to
// built-in status and nodes pinned to a specific plugin id. Overrides exist
// so a human can correct any catalog error.
package overrides

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"go.yaml.in/yaml/v3"

	"github.com/comfykit/nodedep/internal/schema"
)

//go:embed schema/overrides.schema.json
var schemaBytes []byte

var (
	compiledSchema *jsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
)

// regexTokens are the metacharacters that flag a builtin_nodes string as a
// pattern rather than a literal name. Known edge case: a literal node name
// containing one of these (e.g. a dot) is treated as a pattern.
const regexTokens = ".*+?[](){}|^$"

// config is the raw file shape. YAML decoding accepts JSON files too.
type config struct {
	BuiltinNodes    []string          `yaml:"builtin_nodes"`
	PluginOverrides map[string]string `yaml:"plugin_overrides"`
}

// Overrides is the decoded, compiled override config.
type Overrides struct {
	// BuiltinNames are literal node names forced to built-in status.
	BuiltinNames map[string]bool
	// BuiltinPatterns are pattern-shaped builtin_nodes entries.
	BuiltinPatterns []*regexp.Regexp
	// PluginOverrides maps a node name to a forced plugin id.
	PluginOverrides map[string]string
}

// Empty returns an override set with nothing in it.
func Empty() *Overrides {
	return &Overrides{
		BuiltinNames:    make(map[string]bool),
		PluginOverrides: make(map[string]string),
	}
}

// Load reads, validates, and compiles an override config file. The file
// must exist: a dangling flag is a configuration error, not a default.
func Load(path string) (*Overrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading override config %s: %w", path, err)
	}

	s, err := getSchema()
	if err != nil {
		return nil, err
	}
	issues, err := schema.ValidateYAML(s, data)
	if err != nil {
		return nil, fmt.Errorf("parsing override config %s: %w", path, err)
	}
	if len(issues) > 0 {
		return nil, fmt.Errorf("invalid override config %s: %s", path, issues[0])
	}

	var cfg config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing override config %s: %w", path, err)
	}

	loaded := Empty()
	for _, item := range cfg.BuiltinNodes {
		if pattern := maybeCompilePattern(item); pattern != nil {
			loaded.BuiltinPatterns = append(loaded.BuiltinPatterns, pattern)
		} else {
			loaded.BuiltinNames[item] = true
		}
	}
	for node, pluginID := range cfg.PluginOverrides {
		if node != "" && pluginID != "" {
			loaded.PluginOverrides[node] = pluginID
		}
	}
	return loaded, nil
}

// maybeCompilePattern compiles a builtin_nodes entry as a regex when it
// looks like one. Returns nil for literals and for uncompilable patterns.
func maybeCompilePattern(value string) *regexp.Regexp {
	if !strings.ContainsAny(value, regexTokens) {
		return nil
	}
	compiled, err := regexp.Compile(value)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[warn] cannot compile builtin node pattern %q: %v\n", value, err)
		return nil
	}
	return compiled
}

func getSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiledSchema, compileErr = schema.Compile("overrides.schema.json", schemaBytes)
	})
	return compiledSchema, compileErr
}
