package schema

import (
	"bytes"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/mrz1836/taskschema/internal/errors"
)

const schemaResource = "schema.json"

// Compile compiles a schema document as draft-07. Compilation validates the
// document against the draft-07 meta-schema and every pattern as a regular
// expression.
func Compile(doc []byte) (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft7

	if err := c.AddResource(schemaResource, bytes.NewReader(doc)); err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrSchemaInvalid, err)
	}

	compiled, err := c.Compile(schemaResource)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrSchemaInvalid, err)
	}
	return compiled, nil
}

// CheckMetaSchema reports whether doc is a well-formed draft-07 schema.
func CheckMetaSchema(doc []byte) error {
	_, err := Compile(doc)
	return err
}
