package schema

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	tserrors "github.com/mrz1836/taskschema/internal/errors"
	"github.com/mrz1836/taskschema/internal/registry"
)

func task(name string, major int, inputs ...*registry.InputDefinition) *registry.TaskDefinition {
	return &registry.TaskDefinition{
		Name:         name,
		FriendlyName: name,
		Description:  "Runs " + name,
		Version:      registry.Version{Major: major, Minor: 1, Patch: 2},
		Inputs:       inputs,
	}
}

func sampleTasks() []*registry.TaskDefinition {
	return []*registry.TaskDefinition{
		task("npm", 1, &registry.InputDefinition{Name: "command", Label: "Command", Type: "pickList", Options: registry.NewOptionSet(
			registry.Option{Key: "ci", Label: "ci"},
			registry.Option{Key: "install", Label: "install"},
		)}),
		task("Foo", 1),
		bashTask(),
		task("Foo", 2, &registry.InputDefinition{Name: "retries", Label: "Retries", Type: "int"}),
		task("AzureCLI", 2, &registry.InputDefinition{Name: "azureSubscription", Label: "Azure Resource Manager connection", Type: "connectedService:AzureRM"}),
	}
}

func TestSortTaskRefs(t *testing.T) {
	t.Parallel()

	refs := []TaskRef{
		{"Foo", 1},
		{"bar", 1},
		{"Foo", 2},
		{"Bar", 3},
		{"Foo", 2},
		{"Foo", 10},
	}
	SortTaskRefs(refs)

	got := make([]string, len(refs))
	for i, ref := range refs {
		got[i] = ref.String()
	}
	assert.Equal(t, []string{"Bar@3", "Foo@10", "Foo@2", "Foo@2", "Foo@1", "bar@1"}, got)
}

func TestGenerator_Generate(t *testing.T) {
	t.Parallel()

	g, err := NewGenerator(WithMetaSchemaCheck(true))
	require.NoError(t, err)

	result, err := g.Generate(sampleTasks())
	require.NoError(t, err)

	assert.Equal(t, 5, result.TaskCount)
	assert.Equal(t, []string{"AzureCLI@2", "Bash@3", "Foo@2", "Foo@1", "npm@1"}, result.Identifiers)
	assert.NotEmpty(t, result.GenerationID)
	assert.Len(t, result.Digest, 64)
	assert.True(t, json.Valid(result.Schema))
	assert.NotEqual(t, byte('\n'), result.Schema[len(result.Schema)-1])

	var top map[string]any
	require.NoError(t, json.Unmarshal(result.Schema, &top))
	assert.Equal(t, "http://json-schema.org/draft-07/schema#", top["$schema"])

	doc := gjson.ParseBytes(result.Schema)

	var names []string
	for _, name := range doc.Get("definitions.task.properties.task.enum").Array() {
		names = append(names, name.String())
	}
	assert.Equal(t, result.Identifiers, names)
	assert.Equal(t, "value", doc.Get("definitions.task.properties.task.ignoreCase").String())

	fragments := doc.Get("definitions.task.anyOf").Array()
	require.Len(t, fragments, 5)
	assert.Equal(t, "^[nN][pP][mM]@1$", fragments[0].Get("properties.task.pattern").String())
	assert.Equal(t, "^[fF][oO][oO]@1$", fragments[1].Get("properties.task.pattern").String())
	assert.Equal(t, "^[bB][aA][sS][hH]@3$", fragments[2].Get("properties.task.pattern").String())
	assert.JSONEq(t, `{"description": "Script", "type": "string"}`, fragments[2].Get("properties.inputs.properties.script").Raw)
	assert.JSONEq(t, `{"description": "Command", "enum": ["ci", "install"]}`, fragments[0].Get("properties.inputs.properties.command").Raw)
	assert.JSONEq(t, `{"description": "Retries", "type": "integer"}`, fragments[3].Get("properties.inputs.properties.retries").Raw)
}

func TestGenerator_KeepsTemplateKeyOrder(t *testing.T) {
	t.Parallel()

	out, err := BuildSchema(sampleTasks())
	require.NoError(t, err)

	var keys []string
	gjson.ParseBytes(out).ForEach(func(key, _ gjson.Result) bool {
		keys = append(keys, key.String())
		return true
	})
	assert.Equal(t, []string{"$schema", "title", "description", "anyOf", "definitions"}, keys)
	assert.Contains(t, string(out), "\n  \"definitions\": {\n")
}

func TestGenerator_Deterministic(t *testing.T) {
	t.Parallel()

	g, err := NewGenerator()
	require.NoError(t, err)

	first, err := g.Generate(sampleTasks())
	require.NoError(t, err)
	second, err := g.Generate(sampleTasks())
	require.NoError(t, err)

	assert.Equal(t, string(first.Schema), string(second.Schema))
	assert.Equal(t, first.Digest, second.Digest)
	assert.NotEqual(t, first.GenerationID, second.GenerationID)
}

func TestGenerator_ConcurrentUse(t *testing.T) {
	t.Parallel()

	g, err := NewGenerator()
	require.NoError(t, err)

	want, err := g.Generate(sampleTasks())
	require.NoError(t, err)

	var wg sync.WaitGroup
	digests := make([]string, 8)
	for i := range digests {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, genErr := g.Generate(sampleTasks())
			if genErr == nil {
				digests[i] = result.Digest
			}
		}()
	}
	wg.Wait()

	for _, digest := range digests {
		assert.Equal(t, want.Digest, digest)
	}
}

func TestGenerator_UnknownInputTypeAborts(t *testing.T) {
	t.Parallel()

	tasks := sampleTasks()
	tasks = append(tasks, task("Broken", 1, &registry.InputDefinition{Name: "x", Type: "bogus"}))

	out, err := BuildSchema(tasks)
	require.ErrorIs(t, err, tserrors.ErrUnknownInputType)
	assert.Nil(t, out)
	assert.Contains(t, err.Error(), "Broken@1")
}

func TestGenerator_NoTasks(t *testing.T) {
	t.Parallel()

	_, err := BuildSchema(nil)
	require.ErrorIs(t, err, tserrors.ErrNoTasksFound)

	_, err = BuildSchema([]*registry.TaskDefinition{nil})
	require.ErrorIs(t, err, tserrors.ErrNoTasksFound)
}

func TestGenerator_CustomTemplate(t *testing.T) {
	t.Parallel()

	tmpl, err := ParseTemplate([]byte(`{"names": "{{taskNames}}", "fragments": "{{taskFragments}}"}`),
		SlotTaskFragments, SlotTaskNames)
	require.NoError(t, err)

	g, err := NewGenerator(WithTemplate(tmpl))
	require.NoError(t, err)

	result, err := g.Generate([]*registry.TaskDefinition{task("B", 1), task("A", 1)})
	require.NoError(t, err)

	assert.JSONEq(t, `["A@1", "B@1"]`, gjson.GetBytes(result.Schema, "names").Raw)
	assert.Equal(t, "^[bB]@1$", gjson.GetBytes(result.Schema, "fragments.0.properties.task.pattern").String())
}

func TestGenerator_MetaSchemaCheckRejectsBadPattern(t *testing.T) {
	t.Parallel()

	g, err := NewGenerator(WithMetaSchemaCheck(true))
	require.NoError(t, err)

	_, err = g.Generate([]*registry.TaskDefinition{task("Broken(", 1)})
	require.ErrorIs(t, err, tserrors.ErrSchemaInvalid)

	g, err = NewGenerator()
	require.NoError(t, err)
	_, err = g.Generate([]*registry.TaskDefinition{task("Broken(", 1)})
	require.NoError(t, err)
}

func TestGenerator_KeepsHTMLCharacters(t *testing.T) {
	t.Parallel()

	tk := task("Deploy", 1, &registry.InputDefinition{Name: "path", Label: "Path <dir> & more", Type: "filePath"})
	tk.FriendlyName = "A & B <x>"

	out, err := BuildSchema([]*registry.TaskDefinition{tk})
	require.NoError(t, err)

	doc := string(out)
	assert.Contains(t, doc, `"description": "Path <dir> & more"`)
	assert.Contains(t, doc, `"description": "A & B <x> inputs"`)
	assert.NotContains(t, doc, `\u003c`)
	assert.NotContains(t, doc, `\u003e`)
	assert.NotContains(t, doc, `\u0026`)
}

func TestGenerator_EmptyLabelKeepsDescription(t *testing.T) {
	t.Parallel()

	out, err := BuildSchema([]*registry.TaskDefinition{
		task("Retry", 1, &registry.InputDefinition{Name: "n", Label: "", Type: "int"}),
	})
	require.NoError(t, err)

	input := gjson.GetBytes(out, "definitions.task.anyOf.0.properties.inputs.properties.n")
	require.True(t, input.Exists())
	assert.JSONEq(t, `{"description": "", "type": "integer"}`, input.Raw)
}
