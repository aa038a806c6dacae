package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tserrors "github.com/mrz1836/taskschema/internal/errors"
	"github.com/mrz1836/taskschema/internal/registry"
)

func TestParseInputKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		tag  string
		want InputKind
	}{
		{"string", KindString},
		{"STRING", KindString},
		{"multiLine", KindMultiline},
		{"boolean", KindBoolean},
		{"filePath", KindFilePath},
		{"secureFile", KindSecureFile},
		{"identities", KindIdentities},
		{"connectedService:AzureRM", KindConnectedService},
		{"connectedService:github:OAuth,PersonalAccessToken", KindConnectedService},
		{"connectedservice", KindConnectedService},
		{"pickList", KindPickList},
		{"radio", KindRadio},
		{"querycontrol", KindQueryControl},
		{"int", KindInt},
	}

	for _, tc := range tests {
		t.Run(tc.tag, func(t *testing.T) {
			t.Parallel()
			kind, err := ParseInputKind(tc.tag)
			require.NoError(t, err)
			assert.Equal(t, tc.want, kind)
		})
	}
}

func TestParseInputKind_Unknown(t *testing.T) {
	t.Parallel()

	for _, tag := range []string{"bogus", "", "integer", " string", "service"} {
		kind, err := ParseInputKind(tag)
		require.ErrorIs(t, err, tserrors.ErrUnknownInputType, "tag %q", tag)
		assert.Equal(t, KindUnknown, kind)

		var typed *tserrors.UnknownInputTypeError
		require.ErrorAs(t, err, &typed)
		assert.Equal(t, tag, typed.Tag)
	}
}

func TestInputKind_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "picklist", KindPickList.String())
	assert.Equal(t, "connectedservice", KindConnectedService.String())
	assert.Equal(t, "unknown", KindUnknown.String())
	assert.Equal(t, "unknown", InputKind(99).String())
}

func TestMapInputType(t *testing.T) {
	t.Parallel()

	options := registry.NewOptionSet(
		registry.Option{Key: "filePath", Label: "File Path"},
		registry.Option{Key: "inline", Label: "Inline"},
	)

	tests := []struct {
		name  string
		input registry.InputDefinition
		want  InputSchema
	}{
		{"string", registry.InputDefinition{Label: "Name", Type: "string"}, InputSchema{Description: "Name", Type: "string"}},
		{"multiline", registry.InputDefinition{Label: "Script", Type: "multiLine"}, InputSchema{Description: "Script", Type: "string"}},
		{"boolean", registry.InputDefinition{Label: "Fail on stderr", Type: "boolean"}, InputSchema{Description: "Fail on stderr", Type: "boolean"}},
		{"filepath", registry.InputDefinition{Label: "Path", Type: "filePath"}, InputSchema{Description: "Path", Type: "string"}},
		{"securefile", registry.InputDefinition{Label: "File", Type: "secureFile"}, InputSchema{Description: "File", Type: "string"}},
		{"identities", registry.InputDefinition{Label: "Reviewers", Type: "identities"}, InputSchema{Description: "Reviewers", Type: "string"}},
		{"connected service", registry.InputDefinition{Label: "Subscription", Type: "connectedService:AzureRM"}, InputSchema{Description: "Subscription", Type: "string"}},
		{"querycontrol", registry.InputDefinition{Label: "Query", Type: "querycontrol"}, InputSchema{Description: "Query", Type: "string"}},
		{"int", registry.InputDefinition{Label: "Retries", Type: "int"}, InputSchema{Description: "Retries", Type: "integer"}},
		{"picklist with options", registry.InputDefinition{Label: "Type", Type: "pickList", Options: options}, InputSchema{Description: "Type", Enum: []string{"filePath", "inline"}}},
		{"radio with options", registry.InputDefinition{Label: "Type", Type: "radio", Options: options}, InputSchema{Description: "Type", Enum: []string{"filePath", "inline"}}},
		{"picklist without options", registry.InputDefinition{Label: "Version", Type: "picklist"}, InputSchema{Description: "Version", Type: "string"}},
		{"radio with empty options", registry.InputDefinition{Label: "Mode", Type: "radio", Options: registry.NewOptionSet()}, InputSchema{Description: "Mode", Type: "string"}},
		{"sanitized label", registry.InputDefinition{Label: "Say \"hi\"\n", Type: "string"}, InputSchema{Description: "Say hi", Type: "string"}},
		{"no label", registry.InputDefinition{Type: "boolean"}, InputSchema{Description: "", Type: "boolean"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			input := tc.input
			got, err := MapInputType(&input)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestMapInputType_Unknown(t *testing.T) {
	t.Parallel()

	_, err := MapInputType(&registry.InputDefinition{Name: "x", Type: "bogus"})
	require.ErrorIs(t, err, tserrors.ErrUnknownInputType)
	assert.Contains(t, err.Error(), `"bogus"`)
}

func TestInputSchema_JSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		schema InputSchema
		want   string
	}{
		{"empty description kept", InputSchema{Type: "integer"}, `{"description":"","type":"integer"}`},
		{"enum without type", InputSchema{Description: "Mode", Enum: []string{"a", "b"}}, `{"description":"Mode","enum":["a","b"]}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			data, err := json.Marshal(tc.schema)
			require.NoError(t, err)
			assert.Equal(t, tc.want, string(data))
		})
	}
}
