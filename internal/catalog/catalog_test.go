package catalog

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/comfykit/nodedep/internal/branding"
)

func TestDecodeNodeMapPreservesOrder(t *testing.T) {
	data := []byte(`{
		"https://x/zz": [["NodeA"]],
		"https://x/aa": [["NodeB", "NodeC"], {"title": "AA"}],
		"https://x/mm": {"nodename_pattern": "^MM"}
	}`)

	entries, err := DecodeNodeMap(data)
	if err != nil {
		t.Fatalf("DecodeNodeMap: %v", err)
	}

	wantIDs := []string{"https://x/zz", "https://x/aa", "https://x/mm"}
	for i, want := range wantIDs {
		if entries[i].ID != want {
			t.Errorf("entry %d id = %q, want %q", i, entries[i].ID, want)
		}
	}

	if entries[0].Entry.Kind != KindNodeList {
		t.Errorf("entry 0 kind = %v, want KindNodeList", entries[0].Entry.Kind)
	}
	if entries[1].Entry.Kind != KindNodeListWithMetadata {
		t.Errorf("entry 1 kind = %v, want KindNodeListWithMetadata", entries[1].Entry.Kind)
	}
	if !reflect.DeepEqual(entries[1].Entry.Names, []string{"NodeB", "NodeC"}) {
		t.Errorf("entry 1 names = %v", entries[1].Entry.Names)
	}
	if entries[2].Entry.Kind != KindMetadataOnly {
		t.Errorf("entry 2 kind = %v, want KindMetadataOnly", entries[2].Entry.Kind)
	}
}

func TestDecodeNodeMapRejectsNonObject(t *testing.T) {
	if _, err := DecodeNodeMap([]byte(`[1, 2]`)); err == nil {
		t.Fatal("expected error for non-object node map")
	}
}

func TestBuildIndexCanonicalizesThroughDirectory(t *testing.T) {
	entries := []RawEntry{
		{ID: "https://x/raw-one", Entry: ProviderEntry{
			Kind:     KindNodeListWithMetadata,
			Names:    []string{"NodeA", " NodeB "},
			Metadata: map[string]interface{}{"title": "from catalog"},
		}},
		{ID: "https://x/raw-two", Entry: ProviderEntry{
			Kind:  KindNodeList,
			Names: []string{"NodeC"},
		}},
	}
	directory := map[string]*DirectoryEntry{
		"https://x/raw-one": {Reference: "https://x/canonical", Author: "someone"},
		"https://x/raw-two": {Reference: "https://x/canonical"},
	}

	idx := BuildIndex(entries, directory)

	for _, node := range []string{"NodeA", "NodeB", "NodeC"} {
		if !reflect.DeepEqual(idx.NodeProviders[node], []string{"https://x/canonical"}) {
			t.Errorf("providers[%s] = %v, want the canonical id", node, idx.NodeProviders[node])
		}
	}

	meta := idx.Metadata["https://x/canonical"]
	if meta["title"] != "from catalog" {
		t.Errorf("title = %v, want catalog value preserved", meta["title"])
	}
	if meta["author"] != "someone" {
		t.Errorf("author = %v, want directory fill-in", meta["author"])
	}
	if _, ok := idx.Metadata["https://x/raw-one"]; ok {
		t.Error("raw id still present in metadata, want only canonical")
	}
}

func TestBuildIndexPreemptionsAndPatterns(t *testing.T) {
	entries := []RawEntry{
		{ID: "https://x/p1", Entry: ProviderEntry{
			Kind: KindNodeListWithMetadata,
			Metadata: map[string]interface{}{
				"preemptions":      []interface{}{"StolenNode"},
				"nodename_pattern": `^P1_`,
			},
		}},
		{ID: "https://x/p2", Entry: ProviderEntry{
			Kind: KindMetadataOnly,
			Metadata: map[string]interface{}{
				"nodename_pattern": `([invalid`,
			},
		}},
	}

	idx := BuildIndex(entries, nil)

	if idx.Preemptions["StolenNode"] != "https://x/p1" {
		t.Errorf("preemption = %q, want https://x/p1", idx.Preemptions["StolenNode"])
	}
	if len(idx.Patterns) != 1 {
		t.Fatalf("got %d patterns, want 1 (invalid regex dropped)", len(idx.Patterns))
	}
	if idx.Patterns[0].PluginID != "https://x/p1" {
		t.Errorf("pattern owner = %q", idx.Patterns[0].PluginID)
	}
}

func TestBuildIndexBuiltinNodes(t *testing.T) {
	entries := []RawEntry{
		{ID: branding.ComfyRepoURL(), Entry: ProviderEntry{
			Kind:  KindNodeList,
			Names: []string{"KSampler", "SaveImage"},
		}},
	}

	idx := BuildIndex(entries, nil)
	if !idx.BuiltinNodes["KSampler"] || !idx.BuiltinNodes["SaveImage"] {
		t.Errorf("builtin nodes = %v, want KSampler and SaveImage", idx.BuiltinNodes)
	}
}

func TestLoadDirectoryFirstWriterWins(t *testing.T) {
	tmpDir := t.TempDir()
	content := `{"custom_nodes": [
		{"reference": "https://x/one", "files": ["https://x/shared"], "title": "One"},
		{"reference": "https://x/shared", "title": "Two"}
	]}`
	if err := os.WriteFile(filepath.Join(tmpDir, "custom-node-list.json"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	directory := LoadDirectory(tmpDir)
	if directory["https://x/one"].Title != "One" {
		t.Errorf("reference lookup failed: %+v", directory["https://x/one"])
	}
	// The shared URL was first claimed as a files entry of "One".
	if directory["https://x/shared"].Title != "One" {
		t.Errorf("shared URL owner = %q, want One (first writer wins)", directory["https://x/shared"].Title)
	}
}

func TestLoadNodeMapFallbackMerge(t *testing.T) {
	tmpDir := t.TempDir()
	preferred := filepath.Join(tmpDir, "preferred.json")
	fallback := filepath.Join(tmpDir, "fallback.json")

	if err := os.WriteFile(preferred, []byte(`{"https://x/a": [["A"]]}`), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(fallback, []byte(`{"https://x/a": [["SHADOWED"]], "https://x/b": [["B"]]}`), 0644); err != nil {
		t.Fatal(err)
	}

	entries, err := LoadNodeMap(preferred, fallback)
	if err != nil {
		t.Fatalf("LoadNodeMap: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if !reflect.DeepEqual(entries[0].Entry.Names, []string{"A"}) {
		t.Errorf("preferred entry shadowed: %v", entries[0].Entry.Names)
	}
	if entries[1].ID != "https://x/b" {
		t.Errorf("fallback-only entry = %q, want https://x/b", entries[1].ID)
	}
}

func TestLoadNodeMapBothMissingIsFatal(t *testing.T) {
	tmpDir := t.TempDir()
	_, err := LoadNodeMap(filepath.Join(tmpDir, "nope.json"), filepath.Join(tmpDir, "also-nope.json"))
	if err == nil {
		t.Fatal("expected error when both node map files are missing")
	}
}

func TestNodeMapPaths(t *testing.T) {
	preferred, fallback := NodeMapPaths("/mgr")
	if preferred != filepath.Join("/mgr", "node_db", "dev", "extension-node-map.json") {
		t.Errorf("preferred = %q", preferred)
	}
	if fallback != filepath.Join("/mgr", "extension-node-map.json") {
		t.Errorf("fallback = %q", fallback)
	}
}
