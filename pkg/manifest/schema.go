package manifest

import (
	"fmt"

	"github.com/acronis/go-stacktrace"
	"github.com/xeipuuv/gojsonschema"
)

const schemaSource = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["version", "default", "locales"],
  "additionalProperties": false,
  "properties": {
    "version": {"type": "string", "pattern": "^v[0-9]+\\.[0-9]+\\.[0-9]+$"},
    "default": {"type": "string", "minLength": 1},
    "locales": {
      "type": "object",
      "minProperties": 1,
      "additionalProperties": {
        "type": "object",
        "required": ["files", "checksum"],
        "additionalProperties": false,
        "properties": {
          "files": {
            "type": "array",
            "minItems": 1,
            "items": {"type": "string", "pattern": "\\.ftl$"}
          },
          "checksum": {"type": "string", "pattern": "^xxh3:"},
          "messages": {"type": "integer", "minimum": 0}
        }
      }
    }
  }
}`

var schema = mustCompileSchema(schemaSource)

func mustCompileSchema(source string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchemaLoader().Compile(gojsonschema.NewStringLoader(source))
	if err != nil {
		panic(fmt.Errorf("compile schema: %w", err))
	}
	return s
}

func validateSchema(data []byte) error {
	res, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("schema validate: %w", err)
	}
	if res.Valid() {
		return nil
	}

	msg := "manifest validation failed"
	for _, e := range res.Errors() {
		msg += "; " + e.String()
	}
	st := stacktrace.New(msg, stacktrace.WithType("validation"))
	for _, e := range res.Errors() {
		_ = st.Append(stacktrace.New(e.Description(),
			stacktrace.WithInfo("context", e.Context().String(".")),
			stacktrace.WithType("validation")))
	}
	return st
}
