package timer

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecondsLeftCountsDownThenOvertime(t *testing.T) {
	clock := clockwork.NewFakeClock()
	tm := New(clock, 0, "table 4", 3*time.Second)

	var seen []int64
	for i := 0; i < 7; i++ {
		seen = append(seen, tm.SecondsLeft())
		clock.Advance(time.Second)
	}
	assert.Equal(t, []int64{3, 2, 1, 0, -1, -2, -3}, seen)

	crossings := 0
	for i := 1; i < len(seen); i++ {
		assert.Less(t, seen[i], seen[i-1])
		if seen[i-1] >= 0 && seen[i] < 0 {
			crossings++
		}
	}
	assert.Equal(t, 1, crossings)
}

func TestSecondsLeftTruncatesToWholeSeconds(t *testing.T) {
	clock := clockwork.NewFakeClock()
	tm := New(clock, 0, "a", 90*time.Second)

	clock.Advance(500 * time.Millisecond)
	assert.EqualValues(t, 89, tm.SecondsLeft())

	clock.Advance(90 * time.Second)
	assert.EqualValues(t, 0, tm.SecondsLeft(), "half a second of overtime rounds toward zero")
	assert.False(t, tm.Overtime())

	clock.Advance(time.Second)
	assert.EqualValues(t, -1, tm.SecondsLeft())
	assert.True(t, tm.Overtime())
}

func TestSecondsLeftAtClampsBeforeStart(t *testing.T) {
	clock := clockwork.NewFakeClock()
	tm := New(clock, 0, "a", time.Minute)
	assert.EqualValues(t, 60, tm.SecondsLeftAt(tm.Start.Add(-time.Hour)))
}

func TestFormatRemaining(t *testing.T) {
	clock := clockwork.NewFakeClock()
	tm := New(clock, 0, "final", 90*time.Second)
	assert.Equal(t, "00:01:30", tm.FormatRemaining())

	clock.Advance(100 * time.Second)
	assert.Equal(t, "-00:00:10", tm.FormatRemaining())
}

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		secs int64
		want string
	}{
		{0, "00:00:00"},
		{59, "00:00:59"},
		{3600, "01:00:00"},
		{3661, "01:01:01"},
		{-3661, "-01:01:01"},
		{100 * 3600, "100:00:00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatSeconds(tt.secs), "secs=%d", tt.secs)
	}
}

func TestClassifyUrgency(t *testing.T) {
	tests := []struct {
		secs int64
		want Urgency
	}{
		{-5000, Critical},
		{-1, Critical},
		{0, Critical},
		{60, Critical},
		{61, Warning},
		{300, Warning},
		{301, Normal},
		{86400, Normal},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyUrgency(tt.secs), "secs=%d", tt.secs)
	}
}

func TestUrgencyString(t *testing.T) {
	assert.Equal(t, "critical", Critical.String())
	assert.Equal(t, "warning", Warning.String())
	assert.Equal(t, "normal", Normal.String())
}

func TestParseLength(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"25", 25 * time.Minute},
		{" 3 ", 3 * time.Minute},
		{"0", 0},
		{"90s", 90 * time.Second},
		{"1h30m", 90 * time.Minute},
		{"153722867", 153722867 * time.Minute},
	}
	for _, tt := range tests {
		got, err := ParseLength(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	invalid := []string{
		"", "abc", "-5", "-1m", "5 minutes",
		"153722868",
		"200000000",
		"307445734561825861",
		"99999999999999999999",
		"3000000h",
	}
	for _, bad := range invalid {
		_, err := ParseLength(bad)
		assert.ErrorIs(t, err, ErrInvalidLength, bad)
	}
}
