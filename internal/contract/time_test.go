package contract

import (
	"testing"

	"github.com/rehman-1/git-asana-backend/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateWindow(t *testing.T) {
	tests := []struct {
		name        string
		start       string
		end         string
		expectError bool
		expectRange bool
	}{
		{name: "single day", start: "2024-03-01", end: "2024-03-01"},
		{name: "month", start: "2024-03-01", end: "2024-03-31"},
		{name: "surrounding whitespace", start: " 2024-03-01", end: "2024-03-02 "},
		{name: "bad start", start: "03/01/2024", end: "2024-03-02", expectError: true},
		{name: "bad end", start: "2024-03-01", end: "yesterday", expectError: true},
		{name: "impossible date", start: "2024-02-30", end: "2024-03-02", expectError: true},
		{name: "reversed", start: "2024-03-05", end: "2024-03-01", expectError: true, expectRange: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := ParseDateWindow(tt.start, tt.end)
			if tt.expectError {
				require.Error(t, err)
				assert.Equal(t, tt.expectRange, errorsIs(err, schema.ErrInvalidDateRange))
				assert.Equal(t, !tt.expectRange, errorsIs(err, schema.ErrInvalidDate))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 0, w.Start.Hour())
			assert.Equal(t, 0, w.Start.Minute())
			assert.Equal(t, 23, w.End.Hour())
			assert.Equal(t, 59, w.End.Minute())
			assert.Equal(t, 59, w.End.Second())
		})
	}
}

func TestDateWindowFormatting(t *testing.T) {
	w, err := ParseDateWindow("2024-03-01", "2024-03-31")
	require.NoError(t, err)

	assert.Equal(t, "2024-03-01", w.StartDate())
	assert.Equal(t, "2024-03-31", w.EndDate())
	assert.Equal(t, "2024-03-01T00:00:00", w.Since())
	assert.Equal(t, "2024-03-31T23:59:59", w.Until())
}
