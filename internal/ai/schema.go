package ai

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// AuthoringSchema reflects the archetype authoring structs into a JSON
// schema document. The embedded configs/archetype.schema.json stays the
// validated source of truth; this export keeps external config editors in
// sync with the Go shapes.
func AuthoringSchema() ([]byte, error) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: true,
		DoNotReference:            true,
	}
	schema := reflector.Reflect(new(archetypeConfig))
	schema.Title = "Archetype"
	return json.MarshalIndent(schema, "", "  ")
}
