package ai

import (
	"github.com/xeipuuv/gojsonschema"
)

const atsSchema = `{
  "type": "object",
  "required": ["score"],
  "properties": {
    "score": {"type": "number"},
    "keywords": {"type": "array", "items": {"type": "string"}},
    "missingKeywords": {"type": "array", "items": {"type": "string"}},
    "suggestions": {"type": "array", "items": {"type": "string"}}
  }
}`

const grammarSchema = `{
  "type": "object",
  "required": ["score"],
  "properties": {
    "score": {"type": "number"},
    "errors": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["text"],
        "properties": {
          "text": {"type": "string"},
          "correction": {"type": "string"},
          "explanation": {"type": "string"}
        }
      }
    },
    "suggestions": {"type": "array", "items": {"type": "string"}}
  }
}`

const plagiarismSchema = `{
  "type": "object",
  "required": ["score"],
  "properties": {
    "score": {"type": "number"},
    "flaggedSections": {"type": "array", "items": {"type": "string"}},
    "suggestions": {"type": "array", "items": {"type": "string"}}
  }
}`

const generateSchema = `{
  "type": "object",
  "required": ["content"],
  "properties": {
    "content": {"type": "string", "minLength": 1}
  }
}`

var (
	atsResultSchema        = mustSchema(atsSchema)
	grammarResultSchema    = mustSchema(grammarSchema)
	plagiarismResultSchema = mustSchema(plagiarismSchema)
	generateResultSchema   = mustSchema(generateSchema)
)

func mustSchema(src string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic("ai: invalid schema: " + err.Error())
	}
	return schema
}
