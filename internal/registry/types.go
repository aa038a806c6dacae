// Package registry models the task registry export consumed by the schema
// generator and provides readers for it: local files and the remote registry API.
//
// Decoded values are treated as immutable; nothing downstream mutates them.
package registry

import (
	"encoding/json"
	"fmt"

	"github.com/Masterminds/semver/v3"
	"github.com/tidwall/gjson"
)

// Registry is the envelope returned by the task registry API.
type Registry struct {
	// Count is the number of tasks reported by the registry. It is informational.
	Count int `json:"count"`

	// Value holds the task definitions. A nil Value means the document had no
	// "value" array at all.
	Value []*TaskDefinition `json:"value"`
}

// TaskDefinition is one pipeline task as published by the task registry.
type TaskDefinition struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	FriendlyName string             `json:"friendlyName"`
	Description  string             `json:"description"`
	Version      Version            `json:"version"`
	Inputs       []*InputDefinition `json:"inputs"`
}

// Identifier returns the task reference accepted in pipeline files, name@major.
func (t *TaskDefinition) Identifier() string {
	return fmt.Sprintf("%s@%d", t.Name, t.Version.Major)
}

// Version is the task's semantic version.
type Version struct {
	Major int `json:"major"`
	Minor int `json:"minor"`
	Patch int `json:"patch"`
}

// Semver returns the version as a semver value. Negative components are
// clamped to zero.
func (v Version) Semver() *semver.Version {
	return semver.New(nonNegative(v.Major), nonNegative(v.Minor), nonNegative(v.Patch), "", "")
}

// String renders the version as major.minor.patch.
func (v Version) String() string {
	return v.Semver().String()
}

func nonNegative(n int) uint64 {
	if n < 0 {
		return 0
	}
	return uint64(n)
}

// InputDefinition is one named parameter of a task.
type InputDefinition struct {
	Name    string     `json:"name"`
	Label   string     `json:"label"`
	Type    string     `json:"type"`
	Options *OptionSet `json:"options,omitempty"`
}

// Option is a single pick-list entry.
type Option struct {
	Key   string
	Label string
}

// OptionSet is the ordered mapping of option keys to display labels for
// pick-list and radio inputs. Keys keep the order of the source document.
type OptionSet struct {
	entries []Option
}

// NewOptionSet builds an OptionSet from options in the given order.
func NewOptionSet(options ...Option) *OptionSet {
	entries := make([]Option, len(options))
	copy(entries, options)
	return &OptionSet{entries: entries}
}

// Len returns the number of options. It is safe on a nil set.
func (o *OptionSet) Len() int {
	if o == nil {
		return 0
	}
	return len(o.entries)
}

// Keys returns the option keys in document order.
func (o *OptionSet) Keys() []string {
	if o == nil {
		return nil
	}
	keys := make([]string, len(o.entries))
	for i, entry := range o.entries {
		keys[i] = entry.Key
	}
	return keys
}

// Entries returns a copy of the options in document order.
func (o *OptionSet) Entries() []Option {
	if o == nil {
		return nil
	}
	entries := make([]Option, len(o.entries))
	copy(entries, o.entries)
	return entries
}

// UnmarshalJSON decodes a JSON object while keeping key order.
// A JSON null leaves the set empty. Duplicate keys keep the position of their
// first occurrence and the label of the last one.
func (o *OptionSet) UnmarshalJSON(data []byte) error {
	result := gjson.ParseBytes(data)
	if result.Type == gjson.Null {
		o.entries = nil
		return nil
	}
	if !result.IsObject() {
		return fmt.Errorf("options must be an object, got %s", result.Type)
	}

	entries := make([]Option, 0)
	index := make(map[string]int)
	result.ForEach(func(key, value gjson.Result) bool {
		k := key.String()
		if i, seen := index[k]; seen {
			entries[i].Label = value.String()
			return true
		}
		index[k] = len(entries)
		entries = append(entries, Option{Key: k, Label: value.String()})
		return true
	})
	o.entries = entries
	return nil
}

// MarshalJSON encodes the set as a JSON object in document order.
func (o OptionSet) MarshalJSON() ([]byte, error) {
	buf := []byte{'{'}
	for i, entry := range o.entries {
		if i > 0 {
			buf = append(buf, ',')
		}
		key, err := json.Marshal(entry.Key)
		if err != nil {
			return nil, err
		}
		label, err := json.Marshal(entry.Label)
		if err != nil {
			return nil, err
		}
		buf = append(buf, key...)
		buf = append(buf, ':')
		buf = append(buf, label...)
	}
	return append(buf, '}'), nil
}
