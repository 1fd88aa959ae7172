package plan

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// planExtensions are tried in order when resolving an id inside a directory
var planExtensions = []string{".yaml", ".yml", ".json"}

// FileLoader reads plans stored as <Dir>/<id>.yaml, .yml or .json.
type FileLoader struct {
	Dir string
}

// Compile-time check: FileLoader satisfies Loader.
var _ Loader = FileLoader{}

// Load resolves id inside Dir and decodes the first matching file.
func (l FileLoader) Load(_ context.Context, id string) (*WorkoutPlan, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return nil, &LoadError{ID: id, Err: ErrPlanNotFound}
	}
	for _, ext := range planExtensions {
		path := filepath.Join(l.Dir, id+ext)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		p, err := LoadFile(path)
		if err != nil {
			return nil, &LoadError{ID: id, Err: errors.Unwrap(err)}
		}
		return p, nil
	}
	return nil, &LoadError{ID: id, Err: ErrPlanNotFound}
}

// LoadFile decodes and validates a single plan file. .json files use the plan
// store's field names (_id, createdBy); anything else is read as YAML. The file
// name without its extension becomes the plan id when the document has none.
func LoadFile(path string) (*WorkoutPlan, error) {
	id := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	data, err := os.ReadFile(filepath.Clean(path)) //nolint:gosec // plan path given by the user
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &LoadError{ID: id, Err: ErrPlanNotFound}
		}
		return nil, &LoadError{ID: id, Err: err}
	}

	decode := DecodeYAML
	if strings.EqualFold(filepath.Ext(path), ".json") {
		decode = DecodeJSON
	}
	p, err := decode(data)
	if err != nil {
		return nil, &LoadError{ID: id, Err: err}
	}
	if p.ID == "" {
		p.ID = id
	}
	if err := p.Validate(); err != nil {
		return nil, &LoadError{ID: id, Err: err}
	}
	return p, nil
}
