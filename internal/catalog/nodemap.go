package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// UnmarshalJSON decodes the upstream node-map value shape into the tagged
// ProviderEntry variant.
func (e *ProviderEntry) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return fmt.Errorf("empty node-map value")
	}

	switch trimmed[0] {
	case '{':
		var meta map[string]interface{}
		if err := json.Unmarshal(trimmed, &meta); err != nil {
			return err
		}
		e.Kind = KindMetadataOnly
		e.Metadata = meta
		return nil

	case '[':
		var parts []json.RawMessage
		if err := json.Unmarshal(trimmed, &parts); err != nil {
			return err
		}
		if len(parts) > 0 && len(bytes.TrimSpace(parts[0])) > 0 && bytes.TrimSpace(parts[0])[0] == '[' {
			var rawNames []interface{}
			if err := json.Unmarshal(parts[0], &rawNames); err != nil {
				return err
			}
			for _, raw := range rawNames {
				if name, ok := raw.(string); ok {
					e.Names = append(e.Names, name)
				}
			}
		}
		if len(parts) > 1 && len(bytes.TrimSpace(parts[1])) > 0 && bytes.TrimSpace(parts[1])[0] == '{' {
			var meta map[string]interface{}
			if err := json.Unmarshal(parts[1], &meta); err != nil {
				return err
			}
			e.Metadata = meta
		}
		if e.Metadata != nil {
			e.Kind = KindNodeListWithMetadata
		} else {
			e.Kind = KindNodeList
		}
		return nil

	default:
		return fmt.Errorf("unexpected node-map value shape")
	}
}

// DecodeNodeMap decodes a node-map JSON object preserving key order.
// encoding/json maps would randomize it, and order is semantic here.
func DecodeNodeMap(data []byte) ([]RawEntry, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("reading node map: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("node map is not a JSON object")
	}

	var entries []RawEntry
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("reading node map key: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("node map key is not a string")
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("reading node map entry %q: %w", key, err)
		}

		var entry ProviderEntry
		if err := json.Unmarshal(raw, &entry); err != nil {
			return nil, fmt.Errorf("decoding node map entry %q: %w", key, err)
		}
		entries = append(entries, RawEntry{ID: key, Entry: entry})
	}

	return entries, nil
}

// LoadNodeMap reads the extension node map from the preferred path, merged
// with the fallback path when both exist (preferred entries win; fallback
// fills only missing ids). Missing both is an error.
func LoadNodeMap(preferred, fallback string) ([]RawEntry, error) {
	hasPreferred := fileExists(preferred)
	hasFallback := fileExists(fallback)

	if !hasPreferred && !hasFallback {
		return nil, fmt.Errorf("could not find extension node map at either %s or %s", preferred, fallback)
	}
	if !hasPreferred {
		return loadNodeMapFile(fallback)
	}

	entries, err := loadNodeMapFile(preferred)
	if err != nil {
		return nil, err
	}
	if !hasFallback {
		return entries, nil
	}

	fallbackEntries, err := loadNodeMapFile(fallback)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(entries))
	for _, entry := range entries {
		seen[entry.ID] = true
	}
	for _, entry := range fallbackEntries {
		if !seen[entry.ID] {
			entries = append(entries, entry)
			seen[entry.ID] = true
		}
	}
	return entries, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// LoadNodeMapFile reads a single node-map file; the file must exist.
func LoadNodeMapFile(path string) ([]RawEntry, error) {
	return loadNodeMapFile(path)
}

func loadNodeMapFile(path string) ([]RawEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading node map %s: %w", path, err)
	}
	entries, err := DecodeNodeMap(data)
	if err != nil {
		return nil, fmt.Errorf("parsing node map %s: %w", path, err)
	}
	return entries, nil
}
