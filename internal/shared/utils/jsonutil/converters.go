// Package jsonutil converts between string lists and the JSON array text
// stored in spreadsheet cells.
package jsonutil

import (
	"bytes"
	"encoding/json"
	"strings"
)

// StringSliceToJSONArray encodes values as a JSON array string.
// Returns "[]" for empty or nil slices. HTML characters are written as is.
//
// Example:
//
//	[]string{"a", "b"} -> `["a","b"]`
//	nil                -> "[]"
func StringSliceToJSONArray(values []string) string {
	if len(values) == 0 {
		return "[]"
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(values); err != nil {
		return "[]"
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// ParseStringArray decodes a JSON array of strings. Blank input, malformed
// JSON and non-array JSON all yield an empty slice. Non-string elements are
// converted to their JSON text.
func ParseStringArray(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{}
	}

	var items []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return []string{}
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			out = append(out, s)
			continue
		}
		if string(item) == "null" {
			out = append(out, "")
			continue
		}
		out = append(out, string(item))
	}
	return out
}
