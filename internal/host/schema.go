// internal/host/schema.go
package host

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// activitySchema validates inbound activity payloads before they reach the
// pipeline. It checks the envelope shape only; semantic checks belong to the
// middleware.
const activitySchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["type"],
	"properties": {
		"type": {
			"type": "string",
			"minLength": 1
		},
		"id": {"type": "string"},
		"channelId": {"type": "string"},
		"text": {"type": "string"},
		"locale": {"type": "string"},
		"conversation": {
			"type": "object",
			"properties": {
				"id": {"type": "string"}
			}
		},
		"from": {
			"type": "object",
			"properties": {
				"id": {"type": "string"}
			}
		},
		"recipient": {
			"type": "object",
			"properties": {
				"id": {"type": "string"}
			}
		}
	}
}`

// ActivityValidator checks raw activity payloads against the envelope schema.
type ActivityValidator struct {
	schema *gojsonschema.Schema
}

func NewActivityValidator() (*ActivityValidator, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(activitySchema))
	if err != nil {
		return nil, fmt.Errorf("failed to compile activity schema: %w", err)
	}
	return &ActivityValidator{schema: schema}, nil
}

// Validate returns a descriptive error when the payload is not a valid
// activity envelope.
func (v *ActivityValidator) Validate(payload []byte) error {
	result, err := v.schema.Validate(gojsonschema.NewBytesLoader(payload))
	if err != nil {
		return fmt.Errorf("activity payload is not valid JSON: %w", err)
	}
	if result.Valid() {
		return nil
	}

	details := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		details = append(details, e.String())
	}
	return fmt.Errorf("invalid activity: %s", strings.Join(details, "; "))
}
