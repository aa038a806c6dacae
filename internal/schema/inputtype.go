package schema

import (
	"strings"

	"github.com/mrz1836/taskschema/internal/errors"
	"github.com/mrz1836/taskschema/internal/registry"
)

// InputKind is the closed set of task input types the generator understands.
type InputKind int

// Input kinds. KindUnknown is never returned without an error.
const (
	KindUnknown InputKind = iota
	KindString
	KindMultiline
	KindBoolean
	KindFilePath
	KindSecureFile
	KindIdentities
	KindConnectedService
	KindPickList
	KindRadio
	KindQueryControl
	KindInt
)

// connectedServicePrefix matches the whole family of service connection tags,
// e.g. connectedService:AzureRM or connectedService:github:OAuth.
const connectedServicePrefix = "connectedservice"

// String returns the canonical lowercase tag for the kind.
func (k InputKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindMultiline:
		return "multiline"
	case KindBoolean:
		return "boolean"
	case KindFilePath:
		return "filepath"
	case KindSecureFile:
		return "securefile"
	case KindIdentities:
		return "identities"
	case KindConnectedService:
		return connectedServicePrefix
	case KindPickList:
		return "picklist"
	case KindRadio:
		return "radio"
	case KindQueryControl:
		return "querycontrol"
	case KindInt:
		return "int"
	case KindUnknown:
		return "unknown"
	}
	return "unknown"
}

// ParseInputKind resolves a registry type tag, ignoring case.
// Unrecognized tags return an *errors.UnknownInputTypeError carrying the tag
// exactly as it appeared in the registry.
func ParseInputKind(tag string) (InputKind, error) {
	lower := strings.ToLower(tag)

	switch lower {
	case "string":
		return KindString, nil
	case "multiline":
		return KindMultiline, nil
	case "boolean":
		return KindBoolean, nil
	case "filepath":
		return KindFilePath, nil
	case "securefile":
		return KindSecureFile, nil
	case "identities":
		return KindIdentities, nil
	case "picklist":
		return KindPickList, nil
	case "radio":
		return KindRadio, nil
	case "querycontrol":
		return KindQueryControl, nil
	case "int":
		return KindInt, nil
	}

	if strings.HasPrefix(lower, connectedServicePrefix) {
		return KindConnectedService, nil
	}

	return KindUnknown, &errors.UnknownInputTypeError{Tag: tag}
}

// InputSchema is the schema generated for a single task input.
// Exactly one of Type or Enum is set. Description is always present, even
// when the label is empty.
type InputSchema struct {
	Description string   `json:"description"`
	Type        string   `json:"type,omitempty"`
	Enum        []string `json:"enum,omitempty"`
}

// MapInputType converts a task input into its schema.
//
// Pick lists and radio groups that carry options become an enum of the option
// keys in registry order. Without options they fall back to a plain string,
// like every other free-form kind.
func MapInputType(input *registry.InputDefinition) (InputSchema, error) {
	kind, err := ParseInputKind(input.Type)
	if err != nil {
		return InputSchema{}, err
	}

	out := InputSchema{Description: Sanitize(input.Label)}

	switch kind {
	case KindPickList, KindRadio:
		// An empty option set counts as no options: enum: [] would reject
		// every value.
		if input.Options.Len() > 0 {
			out.Enum = input.Options.Keys()
		} else {
			out.Type = "string"
		}
	case KindBoolean:
		out.Type = "boolean"
	case KindInt:
		out.Type = "integer"
	case KindString, KindMultiline, KindFilePath, KindSecureFile,
		KindIdentities, KindConnectedService, KindQueryControl:
		out.Type = "string"
	case KindUnknown:
		return InputSchema{}, &errors.UnknownInputTypeError{Tag: input.Type}
	}

	return out, nil
}
