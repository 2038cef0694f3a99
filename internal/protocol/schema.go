package protocol

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// commandSchema constrains inbound command envelopes before they reach the
// simulation. It is deliberately loose about optional fields; the command
// handlers do the semantic checks.
const commandSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["type"],
  "properties": {
    "type": {
      "type": "string",
      "enum": [
        "PLACE_ROAD_SEGMENT", "BULLDOZE_CELL", "BULLDOZE_BUILDING",
        "ZONE_RECT", "PLACE_SERVICE", "PLACE_UTILITY",
        "SET_TAX_RATE", "SET_SERVICE_BUDGET",
        "SET_SPEED", "PAUSE", "RESUME",
        "TOGGLE_ONE_WAY", "TAKE_LOAN", "REPAY_LOAN", "SET_POLICY",
        "SET_DISTRICT_POLICY", "SAVE_TO", "LOAD_FROM", "NEW_GAME"
      ]
    },
    "x":  { "type": "integer", "minimum": 0, "maximum": 255 },
    "y":  { "type": "integer", "minimum": 0, "maximum": 255 },
    "x2": { "type": "integer", "minimum": 0, "maximum": 255 },
    "y2": { "type": "integer", "minimum": 0, "maximum": 255 },
    "road_kind": { "type": "string" },
    "curved": { "type": "boolean" },
    "zone": { "type": "string" },
    "service_type": { "type": "string" },
    "utility_type": { "type": "string" },
    "building_id": { "type": "integer", "minimum": 0 },
    "segment_id": { "type": "integer", "minimum": 0 },
    "rate": { "type": "number", "minimum": 0, "maximum": 0.25 },
    "dept": { "type": "string" },
    "level": { "type": "integer", "minimum": 0, "maximum": 3 },
    "speed": { "type": "integer", "enum": [1, 2, 5, 10] },
    "amount": { "type": "number", "minimum": 0 },
    "term": { "type": "integer", "minimum": 1, "maximum": 360 },
    "loan_id": { "type": "integer", "minimum": 0 },
    "policy_id": { "type": "string" },
    "enabled": { "type": "boolean" },
    "district": { "type": "string" },
    "slot": { "type": "string", "pattern": "^[A-Za-z0-9_-]{1,64}$" },
    "seed": { "type": "integer", "minimum": 0 }
  }
}`

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = jsonschema.CompileString("command.schema.json", commandSchema)
	})
	return schema, schemaErr
}

// ValidateCommand checks a raw command envelope against the schema and then
// decodes it. Transport layers call this on every inbound message.
func ValidateCommand(raw []byte) (Command, error) {
	s, err := compiledSchema()
	if err != nil {
		return Command{}, fmt.Errorf("schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return Command{}, fmt.Errorf("command: %w", err)
	}
	if err := s.Validate(v); err != nil {
		return Command{}, fmt.Errorf("command: %w", err)
	}
	return DecodeCommand(raw)
}
