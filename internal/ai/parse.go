package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"resume-builder/internal/shared/apperr"
)

// Score is a 0-100 rating. Fractional values from the model are rounded.
type Score int

func (s *Score) UnmarshalJSON(b []byte) error {
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*s = Score(math.Round(f))
	return nil
}

var errNoJSONObject = errors.New("no JSON object in model output")

// parseResponse pulls the first JSON object out of raw model text, checks it
// against schema and decodes it into out.
func parseResponse(raw string, schema *gojsonschema.Schema, out any) error {
	obj, err := extractObject(raw)
	if err != nil {
		return malformed(err)
	}
	result, err := schema.Validate(gojsonschema.NewStringLoader(obj))
	if err != nil {
		return malformed(err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return malformed(fmt.Errorf("schema: %s", strings.Join(msgs, "; ")))
	}
	if err := json.Unmarshal([]byte(obj), out); err != nil {
		return malformed(err)
	}
	return nil
}

func malformed(err error) error {
	return apperr.Wrap(apperr.KindMalformedModelOutput, "AI service returned an unreadable response", err)
}

// extractObject strips markdown code fences and returns the first balanced
// JSON object in the text.
func extractObject(raw string) (string, error) {
	text := stripFences(raw)
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", errNoJSONObject
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}
	return "", errNoJSONObject
}

func stripFences(raw string) string {
	text := strings.TrimSpace(raw)
	open := strings.Index(text, "```")
	if open < 0 {
		return text
	}
	body := text[open+3:]
	if nl := strings.IndexByte(body, '\n'); nl >= 0 && !strings.Contains(body[:nl], "{") {
		body = body[nl+1:]
	}
	if end := strings.Index(body, "```"); end >= 0 {
		body = body[:end]
	}
	return strings.TrimSpace(body)
}
