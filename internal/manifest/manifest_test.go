package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "deps", "dependencies.json")

	in := &Manifest{
		Plugins: []Plugin{
			{
				ID:       "https://example.com/plugin",
				Nodes:    []string{"NodeA", "NodeB"},
				Metadata: map[string]interface{}{"title": "Plugin"},
			},
		},
		UnresolvedNodes: []string{"Mystery"},
	}
	if err := WriteFile(path, in); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	out, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(out.Plugins) != 1 || out.Plugins[0].ID != in.Plugins[0].ID {
		t.Errorf("plugins = %+v", out.Plugins)
	}
	if len(out.UnresolvedNodes) != 1 || out.UnresolvedNodes[0] != "Mystery" {
		t.Errorf("unresolved = %v", out.UnresolvedNodes)
	}
}

func TestLoadRejectsInvalidManifest(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "dependencies.json")
	// plugins entries must carry id and nodes.
	if err := os.WriteFile(path, []byte(`{"plugins": [{"nodes": "not-a-list"}]}`), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("expected error for missing manifest")
	}
}

func TestEncodeFormat(t *testing.T) {
	data, err := Encode(&Manifest{Plugins: []Plugin{}})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.HasSuffix(string(data), "\n") {
		t.Error("encoded document missing trailing newline")
	}
	if !strings.Contains(string(data), "  \"plugins\"") {
		t.Errorf("encoded document not 2-space indented: %q", data)
	}
}

func TestManifestOmitsEmptyUnresolved(t *testing.T) {
	data, err := Encode(&Manifest{Plugins: []Plugin{}})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if strings.Contains(string(data), "unresolved_nodes") {
		t.Errorf("empty unresolved_nodes serialized: %q", data)
	}
}

func TestValidateIssuesCarryPaths(t *testing.T) {
	result, err := Validate([]byte(`{"plugins": "wrong"}`))
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if result.Valid {
		t.Fatal("manifest with non-array plugins reported valid")
	}
	if len(result.Issues) == 0 {
		t.Fatal("no issues reported")
	}
}
