package overrides

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "overrides.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadSplitsLiteralsAndPatterns(t *testing.T) {
	path := writeConfig(t, `
builtin_nodes:
  - PlainName
  - "^Prefix_.*"
plugin_overrides:
  SomeNode: https://example.com/plugin
`)

	ovr, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !ovr.BuiltinNames["PlainName"] {
		t.Errorf("PlainName not in literals: %v", ovr.BuiltinNames)
	}
	if len(ovr.BuiltinPatterns) != 1 {
		t.Fatalf("got %d patterns, want 1", len(ovr.BuiltinPatterns))
	}
	if !ovr.BuiltinPatterns[0].MatchString("Prefix_Thing") {
		t.Error("pattern does not match Prefix_Thing")
	}
	if ovr.PluginOverrides["SomeNode"] != "https://example.com/plugin" {
		t.Errorf("plugin override = %q", ovr.PluginOverrides["SomeNode"])
	}
}

func TestLoadUncompilablePatternBecomesLiteral(t *testing.T) {
	path := writeConfig(t, `
builtin_nodes:
  - "([broken"
`)

	ovr, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(ovr.BuiltinPatterns) != 0 {
		t.Errorf("got %d patterns, want 0", len(ovr.BuiltinPatterns))
	}
	if !ovr.BuiltinNames["([broken"] {
		t.Errorf("uncompilable entry not kept as literal: %v", ovr.BuiltinNames)
	}
}

func TestLoadAcceptsJSON(t *testing.T) {
	path := writeConfig(t, `{"builtin_nodes": ["A"], "plugin_overrides": {"B": "https://x/p"}}`)

	ovr, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !ovr.BuiltinNames["A"] || ovr.PluginOverrides["B"] != "https://x/p" {
		t.Errorf("JSON config not decoded: %+v", ovr)
	}
}

func TestLoadRejectsInvalidShape(t *testing.T) {
	path := writeConfig(t, `
builtin_nodes: not-a-list
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected schema error for non-list builtin_nodes")
	}
}

func TestLoadMissingFileIsError(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing override file")
	}
}

func TestMaybeCompilePattern(t *testing.T) {
	if maybeCompilePattern("JustAName") != nil {
		t.Error("literal treated as pattern")
	}
	if maybeCompilePattern("Has.Dot") == nil {
		t.Error("dotted name not treated as pattern")
	}
}
