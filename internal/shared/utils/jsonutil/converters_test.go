package jsonutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringSliceToJSONArray(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected string
	}{
		{name: "nil slice", input: nil, expected: "[]"},
		{name: "empty slice", input: []string{}, expected: "[]"},
		{name: "single element", input: []string{"f1"}, expected: `["f1"]`},
		{name: "quotes are escaped", input: []string{`rate "list".pdf`}, expected: `["rate \"list\".pdf"]`},
		{name: "html characters kept literal", input: []string{"Rates & <Terms>.pdf"}, expected: `["Rates & <Terms>.pdf"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StringSliceToJSONArray(tt.input))
		})
	}
}

func TestParseStringArray(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{name: "blank", input: "  ", expected: []string{}},
		{name: "malformed", input: "[f1", expected: []string{}},
		{name: "object", input: `{"a":1}`, expected: []string{}},
		{name: "plain text", input: "f1,f2", expected: []string{}},
		{name: "strings", input: `["f1","f2"]`, expected: []string{"f1", "f2"}},
		{name: "mixed", input: `["f1",7,null]`, expected: []string{"f1", "7", ""}},
		{name: "escaped html", input: `["Rates \u0026 \u003cTerms\u003e.pdf"]`, expected: []string{"Rates & <Terms>.pdf"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseStringArray(tt.input))
		})
	}
}
