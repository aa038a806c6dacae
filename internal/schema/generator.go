package schema

import (
	"cmp"
	"crypto/sha256"
	"encoding/hex"
	"slices"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mrz1836/taskschema/internal/errors"
	"github.com/mrz1836/taskschema/internal/registry"
)

// TaskRef identifies a task by name and major version.
type TaskRef struct {
	Name  string
	Major int
}

// String renders the reference as name@major.
func (r TaskRef) String() string {
	return r.Name + "@" + strconv.Itoa(r.Major)
}

// CompareTaskRefs orders references by name (ordinal, case-sensitive) and
// then by major version, newest first.
func CompareTaskRefs(a, b TaskRef) int {
	if c := cmp.Compare(a.Name, b.Name); c != 0 {
		return c
	}
	return cmp.Compare(b.Major, a.Major)
}

// SortTaskRefs sorts references with CompareTaskRefs. Minor and patch versions
// play no part, and duplicate references keep their original relative order.
func SortTaskRefs(refs []TaskRef) {
	slices.SortStableFunc(refs, CompareTaskRefs)
}

// Result is the outcome of one generation.
type Result struct {
	// Schema is the serialized document without a trailing newline.
	Schema []byte
	// TaskCount is the number of tasks that went into the document.
	TaskCount int
	// Identifiers is the sorted name@major list placed in the task enum.
	Identifiers []string
	// GenerationID uniquely identifies this run in logs and JSON output.
	GenerationID string
	// Digest is the hex SHA-256 of Schema. Equal inputs give equal digests.
	Digest string
}

// Option configures a Generator.
type Option func(*Generator)

// WithTemplate replaces the embedded pipeline template.
// The template must define the taskFragments and taskNames slots.
func WithTemplate(t *Template) Option {
	return func(g *Generator) {
		g.template = t
	}
}

// WithLogger sets the logger used for generation diagnostics.
func WithLogger(logger zerolog.Logger) Option {
	return func(g *Generator) {
		g.logger = logger
	}
}

// WithMetaSchemaCheck makes Generate compile the output as a draft-07 schema
// before returning it.
func WithMetaSchemaCheck(enabled bool) Option {
	return func(g *Generator) {
		g.checkMetaSchema = enabled
	}
}

// Generator turns task definitions into the pipeline schema document.
// It holds no mutable state and is safe for concurrent use.
type Generator struct {
	template        *Template
	logger          zerolog.Logger
	checkMetaSchema bool
}

// NewGenerator creates a Generator. Without WithTemplate it uses the embedded
// pipeline template.
func NewGenerator(opts ...Option) (*Generator, error) {
	g := &Generator{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(g)
	}

	if g.template == nil {
		t, err := DefaultTemplate()
		if err != nil {
			return nil, errors.Wrap(err, "failed to load schema template")
		}
		g.template = t
	}

	return g, nil
}

// Generate builds the schema for the given tasks.
//
// Fragments keep the order of tasks; identifiers are sorted with SortTaskRefs.
// Any input with an unknown type aborts the call and no partial document is
// returned. An empty task list returns errors.ErrNoTasksFound.
func (g *Generator) Generate(tasks []*registry.TaskDefinition) (*Result, error) {
	fragments := make([]*Fragment, 0, len(tasks))
	refs := make([]TaskRef, 0, len(tasks))

	for _, task := range tasks {
		if task == nil {
			continue
		}
		fragment, err := BuildFragment(task)
		if err != nil {
			return nil, err
		}
		fragments = append(fragments, fragment)
		refs = append(refs, TaskRef{Name: task.Name, Major: task.Version.Major})
	}

	// draft-07 requires anyOf to hold at least one schema.
	if len(fragments) == 0 {
		return nil, errors.ErrNoTasksFound
	}

	SortTaskRefs(refs)
	identifiers := make([]string, len(refs))
	for i, ref := range refs {
		identifiers[i] = ref.String()
	}

	doc, err := g.template.Render(map[string]any{
		SlotTaskFragments: fragments,
		SlotTaskNames:     identifiers,
	})
	if err != nil {
		return nil, err
	}

	if g.checkMetaSchema {
		if err := CheckMetaSchema(doc); err != nil {
			return nil, err
		}
	}

	sum := sha256.Sum256(doc)
	result := &Result{
		Schema:       doc,
		TaskCount:    len(fragments),
		Identifiers:  identifiers,
		GenerationID: uuid.NewString(),
		Digest:       hex.EncodeToString(sum[:]),
	}

	g.logger.Debug().
		Str("generation_id", result.GenerationID).
		Int("tasks", result.TaskCount).
		Int("bytes", len(doc)).
		Str("digest", result.Digest).
		Msg("schema generated")

	return result, nil
}

// BuildSchema generates the schema for tasks with the embedded template and
// returns the serialized document.
func BuildSchema(tasks []*registry.TaskDefinition) ([]byte, error) {
	g, err := NewGenerator()
	if err != nil {
		return nil, err
	}
	result, err := g.Generate(tasks)
	if err != nil {
		return nil, err
	}
	return result.Schema, nil
}
