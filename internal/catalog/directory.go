package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// directoryFile is the on-disk shape of custom-node-list.json.
type directoryFile struct {
	CustomNodes []*DirectoryEntry `json:"custom_nodes"`
}

// LoadDirectory builds a mapping from any known URL (reference or files)
// to the corresponding custom node entry. Candidate files are tried in
// order; the first one that parses and yields entries wins.
func LoadDirectory(managerRoot string) map[string]*DirectoryEntry {
	candidates := []string{
		filepath.Join(managerRoot, "node_db", "dev", "custom-node-list.json"),
		filepath.Join(managerRoot, "custom-node-list.json"),
	}

	directory := make(map[string]*DirectoryEntry)
	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		var parsed directoryFile
		if err := json.Unmarshal(data, &parsed); err != nil {
			fmt.Fprintf(os.Stderr, "[warn] failed to parse custom node list %s: %v\n", path, err)
			continue
		}

		for _, entry := range parsed.CustomNodes {
			if entry == nil {
				continue
			}
			if entry.Reference != "" {
				setDefault(directory, entry.Reference, entry)
			}
			for _, file := range entry.Files {
				if file != "" {
					setDefault(directory, file, entry)
				}
			}
		}

		// Prefer the first successfully parsed file.
		if len(directory) > 0 {
			break
		}
	}

	return directory
}

// setDefault inserts only when the key is absent (first writer wins).
func setDefault(m map[string]*DirectoryEntry, key string, entry *DirectoryEntry) {
	if _, ok := m[key]; !ok {
		m[key] = entry
	}
}
