package biztime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTimestamp(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	ts := time.Date(2024, 5, 1, 15, 30, 0, 123_456_789, ist)

	assert.Equal(t, "2024-05-01T10:00:00.123Z", FormatTimestamp(ts))
}

func TestParseTimestamp(t *testing.T) {
	got, err := ParseTimestamp("2024-05-01T10:00:00.123Z")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 123_000_000, time.UTC), got)

	got, err = ParseTimestamp("2024-05-01T15:30:00+05:30")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), got)

	_, err = ParseTimestamp("yesterday")
	assert.Error(t, err)
}
