package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Load reads and validates a dependency manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading dependency manifest %s: %w", path, err)
	}

	result, err := Validate(data)
	if err != nil {
		return nil, fmt.Errorf("validating dependency manifest %s: %w", path, err)
	}
	if !result.Valid {
		return nil, fmt.Errorf("invalid dependency manifest %s: %s", path, result.Issues[0])
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing dependency manifest %s: %w", path, err)
	}
	return &m, nil
}

// Encode renders a manifest or summary document the way the pipeline
// writes them: 2-space indent, trailing newline.
func Encode(doc interface{}) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling document: %w", err)
	}
	return append(data, '\n'), nil
}

// WriteFile encodes doc and writes it to path, creating parent
// directories as needed.
func WriteFile(path string, doc interface{}) error {
	data, err := Encode(doc)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
