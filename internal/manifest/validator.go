package manifest

import (
	_ "embed"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/comfykit/nodedep/internal/schema"
)

//go:embed schema/dependencies.schema.json
var schemaBytes []byte

var (
	compiledSchema *jsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
)

// ValidationResult contains the outcome of a schema validation.
type ValidationResult struct {
	Valid  bool
	Issues []schema.Issue
}

// getSchema compiles the embedded JSON schema once and returns it.
func getSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiledSchema, compileErr = schema.Compile("dependencies.schema.json", schemaBytes)
	})
	return compiledSchema, compileErr
}

// Validate validates raw manifest JSON against the embedded schema.
// The error return is for decode or compilation failures; schema
// violations come back in the ValidationResult.
func Validate(data []byte) (*ValidationResult, error) {
	s, err := getSchema()
	if err != nil {
		return nil, err
	}

	issues, err := schema.ValidateJSON(s, data)
	if err != nil {
		return nil, err
	}
	return &ValidationResult{Valid: len(issues) == 0, Issues: issues}, nil
}
