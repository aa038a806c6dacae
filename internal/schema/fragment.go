package schema

import (
	"strconv"
	"strings"

	"github.com/keboola/go-utils/pkg/orderedmap"

	"github.com/mrz1836/taskschema/internal/errors"
	"github.com/mrz1836/taskschema/internal/registry"
)

// Fragment is the schema alternative generated for one task. It is placed in
// the "anyOf" list of the task step definition.
type Fragment struct {
	Properties FragmentProperties `json:"properties"`
}

// FragmentProperties holds the two keys a task step is matched on.
type FragmentProperties struct {
	Task   TaskProperty   `json:"task"`
	Inputs InputsProperty `json:"inputs"`
}

// TaskProperty matches the "task:" reference of a step.
type TaskProperty struct {
	Pattern     string `json:"pattern"`
	Description string `json:"description"`
}

// InputsProperty describes the "inputs:" block of a step.
// Properties maps sanitized input names to InputSchema values in input order.
type InputsProperty struct {
	Description string                 `json:"description"`
	Properties  *orderedmap.OrderedMap `json:"properties"`
}

// Input returns the schema generated for the named input.
func (p InputsProperty) Input(name string) (InputSchema, bool) {
	if p.Properties == nil {
		return InputSchema{}, false
	}
	value, found := p.Properties.Get(name)
	if !found {
		return InputSchema{}, false
	}
	input, ok := value.(InputSchema)
	return input, ok
}

// TaskPattern returns the anchored, case-insensitive pattern matching name@major.
func TaskPattern(name string, major int) string {
	return "^" + CaseInsensitivePattern(name) + "@" + strconv.Itoa(major) + "$"
}

// BuildFragment builds the schema fragment for a single task.
// Nil inputs are skipped. An input with an unknown type fails the whole
// fragment; the error names the task.
func BuildFragment(task *registry.TaskDefinition) (*Fragment, error) {
	friendlyName := Sanitize(task.FriendlyName)

	properties := orderedmap.New()
	for _, input := range task.Inputs {
		if input == nil {
			continue
		}
		mapped, err := MapInputType(input)
		if err != nil {
			return nil, errors.Wrapf(err, "task %s input %q", task.Identifier(), input.Name)
		}
		properties.Set(Sanitize(input.Name), mapped)
	}

	return &Fragment{
		Properties: FragmentProperties{
			Task: TaskProperty{
				Pattern:     TaskPattern(task.Name, task.Version.Major),
				Description: strings.Join([]string{friendlyName, "", Sanitize(task.Description)}, "\n"),
			},
			Inputs: InputsProperty{
				Description: friendlyName + " inputs",
				Properties:  properties,
			},
		},
	}, nil
}
