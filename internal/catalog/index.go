package catalog

import (
	"regexp"
	"strings"

	"github.com/comfykit/nodedep/internal/branding"
)

// BuildIndex merges the ordered node-map entries with the directory into
// the canonical catalog lookup.
//
// Canonicalization: an entry whose raw id is known to the directory takes
// the directory's reference URL as its canonical id. When several raw ids
// canonicalize to the same id, their node sets union and their metadata
// merges (later non-nil values win).
func BuildIndex(entries []RawEntry, directory map[string]*DirectoryEntry) *Index {
	idx := &Index{
		NodeProviders: make(map[string][]string),
		Metadata:      make(map[string]map[string]interface{}),
		Preemptions:   make(map[string]string),
		BuiltinNodes:  make(map[string]bool),
	}

	for _, raw := range entries {
		canonicalID := raw.ID
		combined := cloneMetadata(raw.Entry.Metadata)

		if dirEntry, ok := directory[raw.ID]; ok {
			if dirEntry.Reference != "" {
				canonicalID = dirEntry.Reference
			}
			fillFromDirectory(combined, dirEntry)
		}

		if existing, ok := idx.Metadata[canonicalID]; ok {
			merged := cloneMetadata(existing)
			for key, value := range combined {
				if value != nil {
					merged[key] = value
				}
			}
			idx.Metadata[canonicalID] = merged
		} else {
			idx.Metadata[canonicalID] = combined
		}

		for _, name := range raw.Entry.Names {
			normalized := strings.TrimSpace(name)
			if normalized != "" {
				idx.NodeProviders[normalized] = append(idx.NodeProviders[normalized], canonicalID)
			}
		}

		if canonicalID == branding.ComfyRepoURL() {
			for _, name := range raw.Entry.Names {
				if trimmed := strings.TrimSpace(name); trimmed != "" {
					idx.BuiltinNodes[trimmed] = true
				}
			}
		}

		// Preemptions and patterns come from the raw catalog metadata, not
		// the directory-merged view.
		if preemptions, ok := raw.Entry.Metadata["preemptions"].([]interface{}); ok {
			for _, item := range preemptions {
				if node, ok := item.(string); ok {
					idx.Preemptions[node] = canonicalID
				}
			}
		}

		if pattern, ok := raw.Entry.Metadata["nodename_pattern"].(string); ok && pattern != "" {
			compiled, err := regexp.Compile(pattern)
			if err != nil {
				// Invalid patterns in catalog data are dropped, never fatal.
				continue
			}
			idx.Patterns = append(idx.Patterns, PatternEntry{Pattern: compiled, PluginID: canonicalID})
		}
	}

	return idx
}

// fillFromDirectory copies directory fields into metadata without
// overwriting keys the catalog already set. Empty directory fields are
// not inserted, so they can never shadow real values when two raw ids
// merge into one canonical entry.
func fillFromDirectory(metadata map[string]interface{}, entry *DirectoryEntry) {
	setMetaDefault(metadata, "reference", entry.Reference)
	setMetaDefault(metadata, "author", entry.Author)
	setMetaDefault(metadata, "title", entry.Title)
	setMetaDefault(metadata, "install_type", entry.InstallType)
	setMetaDefault(metadata, "description", entry.Description)
	if len(entry.Files) > 0 {
		if _, ok := metadata["files"]; !ok {
			files := make([]interface{}, 0, len(entry.Files))
			for _, file := range entry.Files {
				files = append(files, file)
			}
			metadata["files"] = files
		}
	}
}

func setMetaDefault(metadata map[string]interface{}, key, value string) {
	if value == "" {
		return
	}
	if _, ok := metadata[key]; !ok {
		metadata[key] = value
	}
}

func cloneMetadata(metadata map[string]interface{}) map[string]interface{} {
	cloned := make(map[string]interface{}, len(metadata))
	for key, value := range metadata {
		cloned[key] = value
	}
	return cloned
}
