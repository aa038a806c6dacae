// Package validation checks pipeline YAML files against a generated schema.
//
// Files are parsed with gopkg.in/yaml.v3, converted to their JSON data model,
// and validated with a compiled draft-07 schema. Several files are checked
// concurrently; results are always reported in the order the files were given.
package validation

import "time"

// Problem is a single schema violation inside a pipeline file.
type Problem struct {
	// Location is the dotted path of the offending value; empty for the document root.
	Location string `json:"location"`
	// Message describes the violation.
	Message string `json:"message"`
}

// FileResult captures the outcome of validating one pipeline file.
type FileResult struct {
	Path       string    `json:"path"`
	Valid      bool      `json:"valid"`
	Problems   []Problem `json:"problems,omitempty"`
	Error      string    `json:"error,omitempty"`
	DurationMs int64     `json:"duration_ms"`
}

// Report aggregates the results of one validation run.
type Report struct {
	Files       []FileResult `json:"files"`
	Success     bool         `json:"success"`
	DurationMs  int64        `json:"duration_ms"`
	StartedAt   time.Time    `json:"started_at"`
	CompletedAt time.Time    `json:"completed_at"`
}

// Failed returns the results of files that did not validate, in report order.
func (r *Report) Failed() []FileResult {
	var failed []FileResult
	for _, f := range r.Files {
		if !f.Valid {
			failed = append(failed, f)
		}
	}
	return failed
}
