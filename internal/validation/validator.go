package validation

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/mrz1836/taskschema/internal/errors"
	"github.com/mrz1836/taskschema/internal/schema"
)

// Validator validates pipeline documents against a compiled schema.
// It is safe for concurrent use.
type Validator struct {
	schema *jsonschema.Schema
}

// NewValidator compiles a schema document.
func NewValidator(schemaDoc []byte) (*Validator, error) {
	compiled, err := schema.Compile(schemaDoc)
	if err != nil {
		return nil, err
	}
	return &Validator{schema: compiled}, nil
}

// LoadValidator reads and compiles the schema file at path.
func LoadValidator(fs afero.Fs, path string) (*Validator, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read schema %s", path)
	}
	v, err := NewValidator(data)
	if err != nil {
		return nil, errors.Wrapf(err, "schema %s", path)
	}
	return v, nil
}

// Validate checks a single YAML document. Schema violations are returned as
// problems; a document that cannot be parsed returns an error wrapping
// errors.ErrPipelineParse.
func (v *Validator) Validate(data []byte) ([]Problem, error) {
	doc, err := yamlToJSONValue(data)
	if err != nil {
		return nil, err
	}

	err = v.schema.Validate(doc)
	if err == nil {
		return nil, nil
	}

	var validationErr *jsonschema.ValidationError
	if !stderrors.As(err, &validationErr) {
		return nil, errors.Wrap(err, "schema validation failed")
	}

	var problems []Problem
	collectProblems([]*jsonschema.ValidationError{validationErr}, &problems)
	return dedupe(problems), nil
}

// yamlToJSONValue decodes YAML into the value model the schema validator
// expects: map[string]any, []any, string, bool, nil and json.Number.
func yamlToJSONValue(data []byte) (any, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrPipelineParse, err)
	}

	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrPipelineParse, err)
	}

	dec := json.NewDecoder(bytes.NewReader(encoded))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrPipelineParse, err)
	}
	return doc, nil
}

// collectProblems flattens the validation error tree into its leaves.
func collectProblems(errs []*jsonschema.ValidationError, out *[]Problem) {
	sort.SliceStable(errs, func(i, j int) bool {
		return errs[i].InstanceLocation < errs[j].InstanceLocation
	})

	for _, e := range errs {
		if len(e.Causes) > 0 {
			collectProblems(e.Causes, out)
			continue
		}
		location := strings.TrimLeft(e.InstanceLocation, "/")
		location = strings.ReplaceAll(location, "/", ".")
		*out = append(*out, Problem{
			Location: location,
			Message:  strings.ReplaceAll(e.Message, `'`, `"`),
		})
	}
}

func dedupe(problems []Problem) []Problem {
	seen := make(map[Problem]bool, len(problems))
	out := problems[:0]
	for _, p := range problems {
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}
