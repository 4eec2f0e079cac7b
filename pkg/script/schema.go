package script

// documentSchema is the JSON Schema gate applied to raw script documents
// before they are decoded into the model. It accepts both the canonical field
// names and the historical aliases (nodes/transitions/initial_state/start);
// normalization happens after this gate. Structural and referential rules
// beyond basic shape live in pkg/validation, not here.
const documentSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["name"],
  "properties": {
    "name": {"type": "string", "minLength": 1},
    "description": {"type": "string"},
    "version": {"type": "string"},
    "general_prompt": {"type": "string"},
    "starting_state": {"type": "string"},
    "initial_state": {"type": "string"},
    "start": {"type": "string"},
    "sections": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["title", "content"],
        "properties": {
          "title": {"type": "string"},
          "content": {"type": "string"},
          "weight": {"type": "number"}
        }
      }
    },
    "states": {"$ref": "#/definitions/stateList"},
    "nodes": {"$ref": "#/definitions/stateList"},
    "edges": {"$ref": "#/definitions/edgeList"},
    "transitions": {"$ref": "#/definitions/edgeList"},
    "tools": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name"],
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "description": {"type": "string"},
          "parameters": {"type": "object"},
          "required": {"type": "boolean"}
        }
      }
    },
    "general_tools": {"type": "array", "items": {"type": "string"}},
    "dynamic_variables": {"type": "object", "additionalProperties": {"type": "string"}},
    "metadata": {"type": "object"}
  },
  "definitions": {
    "stateList": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name"],
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "type": {"type": "string"},
          "prompt": {"type": "string"},
          "tools": {"type": "array", "items": {"type": "string"}},
          "description": {"type": "string"},
          "metadata": {"type": "object"}
        }
      }
    },
    "edgeList": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["from_state", "to_state"],
        "properties": {
          "from_state": {"type": "string", "minLength": 1},
          "to_state": {"type": "string", "minLength": 1},
          "description": {"type": "string"},
          "condition": {
            "type": "object",
            "required": ["type", "value"],
            "properties": {
              "type": {"type": "string"},
              "value": {},
              "operator": {"type": "string"}
            }
          }
        }
      }
    }
  }
}`
