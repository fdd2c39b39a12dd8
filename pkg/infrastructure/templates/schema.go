package templates

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// documentSchema accepts any object with a _name. Unknown keys are allowed
// so presets can carry fields a given build does not know yet.
const documentSchema = `{
  "type": "object",
  "required": ["_name"],
  "properties": {
    "_name": {"type": "string", "minLength": 1},
    "_description": {"type": "string"},
    "headers": {"type": "string"},
    "data": {"type": "string"},
    "http_method": {"type": "string"},
    "content_type": {"type": "string"},
    "verify_ssl": {"type": "boolean"},
    "event_cooldown": {"type": ["integer", "string"]},
    "event_print_progress_interval": {"type": ["integer", "string"]},
    "oauth": {"type": "boolean"},
    "oauth_url": {"type": "string"},
    "oauth_headers": {"type": "string"},
    "oauth_data": {"type": "string"},
    "oauth_http_method": {"type": "string"},
    "oauth_content_type": {"type": "string"},
    "customEvents": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "name": {"type": "string"},
          "message": {"type": "string"}
        }
      }
    }
  }
}`

var schemaLoader = gojsonschema.NewStringLoader(documentSchema)

// validate checks a raw template document against documentSchema.
func validate(data []byte) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if result.Valid() {
		return nil
	}
	issues := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		issues = append(issues, desc.String())
	}
	return fmt.Errorf("schema: %s", strings.Join(issues, "; "))
}
