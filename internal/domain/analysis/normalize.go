package analysis

import (
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const jsonFence = "```json\n"

// errorEnvelope is returned whenever a model reply cannot be used as-is.
const errorEnvelope = `{"status":"error","message":"Invalid response format"}`

// StripFences removes a leading ```json fence and a trailing ``` fence from a
// model reply. Only fences at the very start and end are touched; stripping an
// already-unfenced reply returns it unchanged apart from trimming.
func StripFences(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, jsonFence)
	s = strings.TrimSuffix(s, "\n```")
	return strings.TrimSpace(s)
}

// Normalize shapes a raw model reply into the response envelope. When the
// reply parses as a JSON object the envelope is that object with status 200
// added; a status field already present in the reply is kept. Anything else
// becomes the error envelope. The second return reports whether the reply
// parsed, it never fails.
func Normalize(raw string) (string, bool) {
	text := StripFences(raw)
	if !gjson.Valid(text) || !gjson.Parse(text).IsObject() {
		return errorEnvelope, false
	}
	if gjson.Get(text, "status").Exists() {
		return text, true
	}
	out, err := sjson.Set(text, "status", 200)
	if err != nil {
		return errorEnvelope, false
	}
	return out, true
}
