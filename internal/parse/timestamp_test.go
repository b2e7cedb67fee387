package parse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	testCases := []struct {
		name      string
		raw       string
		loc       *time.Location
		expected  time.Time
		expectErr bool
	}{
		{
			name:     "RFC3339 with Z",
			raw:      "2030-05-06T10:00:00Z",
			loc:      berlin,
			expected: time.Date(2030, 5, 6, 10, 0, 0, 0, time.UTC),
		},
		{
			name:     "RFC3339 with offset",
			raw:      "2030-05-06T10:00:00+02:00",
			expected: time.Date(2030, 5, 6, 8, 0, 0, 0, time.UTC),
		},
		{
			name:     "fractional seconds are dropped",
			raw:      "2030-05-06T10:00:00.750Z",
			expected: time.Date(2030, 5, 6, 10, 0, 0, 0, time.UTC),
		},
		{
			name:     "naive form value in Berlin summer time",
			raw:      "2030-05-06T10:00:00",
			loc:      berlin,
			expected: time.Date(2030, 5, 6, 8, 0, 0, 0, time.UTC),
		},
		{
			name:     "naive without seconds defaults to UTC",
			raw:      "2030-05-06T10:00",
			expected: time.Date(2030, 5, 6, 10, 0, 0, 0, time.UTC),
		},
		{
			name:     "space separated",
			raw:      " 2030-05-06 10:30:00 ",
			loc:      time.UTC,
			expected: time.Date(2030, 5, 6, 10, 30, 0, 0, time.UTC),
		},
		{name: "empty", raw: "", expectErr: true},
		{name: "garbage", raw: "tomorrow at ten", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseTimestamp(tc.raw, tc.loc)
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tc.expected.Equal(got), "expected %s, got %s", tc.expected, got)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestCombineDateTime(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	testCases := []struct {
		name      string
		date      string
		clock     string
		loc       *time.Location
		expected  time.Time
		expectErr bool
	}{
		{name: "form values", date: "2030-05-06", clock: "09:00", loc: time.UTC, expected: time.Date(2030, 5, 6, 9, 0, 0, 0, time.UTC)},
		{name: "single digit hour", date: "2030-05-06", clock: "9:30", loc: time.UTC, expected: time.Date(2030, 5, 6, 9, 30, 0, 0, time.UTC)},
		{name: "with seconds", date: "2030-05-06", clock: "23:59:59", loc: time.UTC, expected: time.Date(2030, 5, 6, 23, 59, 59, 0, time.UTC)},
		{name: "winter time in Berlin", date: "2030-01-15", clock: "10:00", loc: berlin, expected: time.Date(2030, 1, 15, 9, 0, 0, 0, time.UTC)},
		{name: "hour out of range", date: "2030-05-06", clock: "24:00", expectErr: true},
		{name: "bad date", date: "06.05.2030", clock: "10:00", expectErr: true},
		{name: "impossible date", date: "2030-02-30", clock: "10:00", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := CombineDateTime(tc.date, tc.clock, tc.loc)
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tc.expected.Equal(got), "expected %s, got %s", tc.expected, got)
		})
	}
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2030-05-06", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2030, 5, 6, 0, 0, 0, 0, time.UTC), got)

	_, err = ParseDate("2030-5-6", time.UTC)
	assert.Error(t, err)
}
