package backend

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const analyzeSchemaJSON = `{
  "type": "object",
  "required": ["scoreResult"],
  "properties": {
    "scoreResult": { "type": "string" },
    "explainResultList": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "properties": {
          "id": { "type": ["integer", "null"] },
          "selectType": { "type": ["string", "null"] },
          "table": { "type": ["string", "null"] },
          "type": { "type": ["string", "null"] },
          "rows": { "type": ["string", "null"] },
          "filtered": { "type": ["number", "null"] }
        }
      }
    }
  }
}`

const metaSchemaJSON = `{
  "type": "object",
  "properties": {
    "databaseProductName": { "type": ["string", "null"] },
    "databaseVersion": { "type": ["string", "null"] },
    "transactionSupported": { "type": ["boolean", "null"] }
  }
}`

var (
	analyzeSchemaLoader = gojsonschema.NewStringLoader(analyzeSchemaJSON)
	metaSchemaLoader    = gojsonschema.NewStringLoader(metaSchemaJSON)
)

// validatePayload checks data against a schema and folds every violation into one error.
func validatePayload(schema gojsonschema.JSONLoader, data []byte) error {
	result, err := gojsonschema.Validate(schema, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if result.Valid() {
		return nil
	}
	issues := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		issues = append(issues, desc.String())
	}
	return fmt.Errorf("%w: %s", ErrInvalidPayload, strings.Join(issues, "; "))
}
