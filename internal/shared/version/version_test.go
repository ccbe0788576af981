package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "", Normalize("  "))
	assert.Equal(t, "v1.2.3", Normalize("1.2.3"))
	assert.Equal(t, "v1.2.3", Normalize("v1.2.3"))
}

func TestString(t *testing.T) {
	orig := Version
	t.Cleanup(func() { Version = orig })

	tests := map[string]string{
		"":         "dev",
		"dev":      "dev",
		"1.4":      "v1.4.0",
		"v2.0.1":   "v2.0.1",
		"nightly7": "dev",
	}
	for in, want := range tests {
		Version = in
		assert.Equal(t, want, String(), in)
	}
}
