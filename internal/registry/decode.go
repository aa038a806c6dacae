package registry

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/afero"
	"github.com/tidwall/gjson"

	"github.com/mrz1836/taskschema/internal/errors"
)

// Decode parses a task registry document.
//
// A document without a "value" array decodes successfully with a nil Value;
// callers report that as "no tasks found" rather than failing.
func Decode(data []byte) (*Registry, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.ErrRegistryDecode
	}

	var reg Registry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrRegistryDecode, err)
	}
	return &reg, nil
}

// Tasks returns the non-nil task definitions in registry order.
func (r *Registry) Tasks() []*TaskDefinition {
	if r == nil {
		return nil
	}
	tasks := make([]*TaskDefinition, 0, len(r.Value))
	for _, task := range r.Value {
		if task != nil {
			tasks = append(tasks, task)
		}
	}
	return tasks
}

// HasTasks reports whether the registry contains at least one task.
func (r *Registry) HasTasks() bool {
	return len(r.Tasks()) > 0
}

// ReadFile reads and decodes a task registry export from fs.
func ReadFile(fs afero.Fs, path string) (*Registry, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read task registry %s", path)
	}

	reg, err := Decode(data)
	if err != nil {
		return nil, errors.Wrapf(err, "task registry %s", path)
	}
	return reg, nil
}
