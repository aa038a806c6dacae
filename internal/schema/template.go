package schema

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/keboola/go-utils/pkg/orderedmap"

	"github.com/mrz1836/taskschema/internal/errors"
)

// Slot names of the embedded pipeline template.
const (
	// SlotTaskFragments receives the list of per-task fragments.
	SlotTaskFragments = "taskFragments"
	// SlotTaskNames receives the sorted list of name@major identifiers.
	SlotTaskNames = "taskNames"
)

//go:embed template.json
var pipelineTemplate []byte

//nolint:gochecknoglobals // Slot marker syntax, e.g. "{{taskNames}}"
var slotMarker = regexp.MustCompile(`^\{\{([A-Za-z][A-Za-z0-9_]*)\}\}$`)

//nolint:gochecknoglobals // Parsed once on first use, read-only afterwards
var defaultTemplate = sync.OnceValues(func() (*Template, error) {
	return ParseTemplate(pipelineTemplate, SlotTaskFragments, SlotTaskNames)
})

// DefaultTemplate returns the embedded pipeline grammar template.
func DefaultTemplate() (*Template, error) {
	return defaultTemplate()
}

// Template is a parsed JSON document with named slots.
// A slot is a string value of the form "{{name}}" that is replaced, as a whole
// JSON value, when the template is rendered. A Template is never modified after
// parsing.
type Template struct {
	root  *orderedmap.OrderedMap
	slots map[string][]string
}

// ParseTemplate parses a template document and locates its slots.
// Every name in slotNames must occur exactly once, and the document must not
// contain markers for any other name.
func ParseTemplate(data []byte, slotNames ...string) (*Template, error) {
	root := orderedmap.New()
	if err := json.Unmarshal(data, root); err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrTemplateInvalid, err)
	}

	found := make(map[string][][]string)
	if err := collectSlots(root, nil, found); err != nil {
		return nil, err
	}

	expected := make(map[string]bool, len(slotNames))
	slots := make(map[string][]string, len(slotNames))
	for _, name := range slotNames {
		expected[name] = true
		paths := found[name]
		switch len(paths) {
		case 0:
			return nil, errors.Wrapf(errors.ErrTemplateSlotMissing, "slot %q", name)
		case 1:
			slots[name] = paths[0]
		default:
			return nil, errors.Wrapf(errors.ErrTemplateSlotDuplicate, "slot %q occurs %d times", name, len(paths))
		}
	}
	for name := range found {
		if !expected[name] {
			return nil, errors.Wrapf(errors.ErrTemplateInvalid, "unexpected slot %q", name)
		}
	}

	return &Template{root: root, slots: slots}, nil
}

// collectSlots walks the document and records the key path of every slot
// marker. Markers inside arrays cannot be addressed by key and are rejected.
func collectSlots(value any, path []string, found map[string][][]string) error {
	switch v := value.(type) {
	case *orderedmap.OrderedMap:
		for _, key := range v.Keys() {
			child, _ := v.Get(key)
			childPath := append(append(make([]string, 0, len(path)+1), path...), key)
			if err := collectSlots(child, childPath, found); err != nil {
				return err
			}
		}
	case []any:
		for _, item := range v {
			if name, ok := slotName(item); ok {
				return errors.Wrapf(errors.ErrTemplateInvalid, "slot %q inside an array at %s", name, strings.Join(path, "."))
			}
			if err := collectSlots(item, path, found); err != nil {
				return err
			}
		}
	case string:
		if name, ok := slotName(v); ok {
			found[name] = append(found[name], path)
		}
	}
	return nil
}

func slotName(value any) (string, bool) {
	s, ok := value.(string)
	if !ok {
		return "", false
	}
	match := slotMarker.FindStringSubmatch(s)
	if match == nil {
		return "", false
	}
	return match[1], true
}

// Slots returns the slot names and their dotted key paths.
func (t *Template) Slots() map[string]string {
	out := make(map[string]string, len(t.slots))
	for name, path := range t.slots {
		out[name] = strings.Join(path, ".")
	}
	return out
}

// Render fills every slot with the given value and serializes the document
// with two-space indentation. Values are encoded with encoding/json, without
// HTML escaping.
func (t *Template) Render(values map[string]any) ([]byte, error) {
	doc := t.root.Clone()

	for name, path := range t.slots {
		value, ok := values[name]
		if !ok {
			return nil, errors.Wrapf(errors.ErrTemplateSlotMissing, "no value for slot %q", name)
		}
		if err := setPath(doc, path, value); err != nil {
			return nil, err
		}
	}

	return encodeIndented(doc)
}

func setPath(doc *orderedmap.OrderedMap, path []string, value any) error {
	current := doc
	for _, key := range path[:len(path)-1] {
		child, _ := current.Get(key)
		next, ok := child.(*orderedmap.OrderedMap)
		if !ok {
			return errors.Wrapf(errors.ErrTemplateInvalid, "slot parent %q is %T", key, child)
		}
		current = next
	}
	current.Set(path[len(path)-1], value)
	return nil
}
