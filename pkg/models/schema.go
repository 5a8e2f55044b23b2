package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// pipelineSchema validates the JSON shape of a pipeline definition before it
// is accepted for execution. Notification entries are deliberately open-ended:
// only the fields this engine reads are constrained, everything else is
// template-bearing payload.
const pipelineSchema = `{
  "type": "object",
  "required": ["name", "application"],
  "properties": {
    "id": {"type": "string"},
    "name": {"type": "string", "minLength": 3},
    "application": {"type": "string", "minLength": 1},
    "stages": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["ref_id", "type"],
        "properties": {
          "ref_id": {"type": "string", "minLength": 1},
          "type": {"type": "string", "minLength": 1},
          "name": {"type": "string"},
          "context": {"type": "object"}
        }
      }
    },
    "notifications": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "address": {"type": "string"},
          "publisher_name": {"type": "string"},
          "type": {"type": "string"},
          "when": {"type": "array", "items": {"type": "string"}}
        }
      }
    },
    "triggers": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["cron"],
        "properties": {
          "cron": {"type": "string", "minLength": 1},
          "enabled": {"type": "boolean"}
        }
      }
    }
  }
}`

var ErrInvalidPipelineDef = errors.New("invalid pipeline definition")

// ValidatePipelineJSON checks raw pipeline definition JSON against the schema.
func ValidatePipelineJSON(data []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(pipelineSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return fmt.Errorf("failed to validate pipeline definition: %w", err)
	}

	if result.Valid() {
		return nil
	}

	details := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		details = append(details, desc.String())
	}

	return fmt.Errorf("%w: %s", ErrInvalidPipelineDef, strings.Join(details, "; "))
}
