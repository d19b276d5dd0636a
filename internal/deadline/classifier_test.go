package deadline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var refNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func TestDaysUntil(t *testing.T) {
	tests := []struct {
		name     string
		deadline time.Time
		want     int
	}{
		{"same instant", refNow, 0},
		{"one second away rounds up", refNow.Add(time.Second), 1},
		{"23h59m away rounds up to one", refNow.Add(23*time.Hour + 59*time.Minute), 1},
		{"exactly one day", refNow.Add(24 * time.Hour), 1},
		{"one day and an hour", refNow.Add(25 * time.Hour), 2},
		{"half a day ago", refNow.Add(-12 * time.Hour), 0},
		{"one and a half days ago", refNow.Add(-36 * time.Hour), -1},
		{"three days ago", refNow.Add(-72 * time.Hour), -3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysUntil(tt.deadline, refNow))
		})
	}
}

func TestClassifyBuckets(t *testing.T) {
	tests := []struct {
		name       string
		deadline   time.Time
		wantStatus Status
		wantColor  string
	}{
		{"past deadline is expired", refNow.Add(-48 * time.Hour), StatusExpired, "red"},
		{"today is urgent", refNow, StatusUrgent, "orange"},
		{"three days out stays urgent", refNow.Add(3 * 24 * time.Hour), StatusUrgent, "orange"},
		{"four days out is warning", refNow.Add(4 * 24 * time.Hour), StatusWarning, "yellow"},
		{"seven days out stays warning", refNow.Add(7 * 24 * time.Hour), StatusWarning, "yellow"},
		{"eight days out is normal", refNow.Add(8 * 24 * time.Hour), StatusNormal, "green"},
		{"far future is normal", refNow.Add(90 * 24 * time.Hour), StatusNormal, "green"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cls := Classify(tt.deadline, refNow)
			assert.Equal(t, tt.wantStatus, cls.Status)
			assert.Equal(t, tt.wantColor, cls.Color)
			assert.False(t, cls.Unknown)
			assert.NoError(t, cls.Err)
		})
	}
}

func TestClassifyExpiredIffPast(t *testing.T) {
	// expired exactly when the deadline precedes the reference time by
	// at least a full negative day bucket
	for days := -10; days <= 10; days++ {
		deadline := refNow.Add(time.Duration(days) * 24 * time.Hour)
		cls := Classify(deadline, refNow)

		if days < 0 {
			assert.Equal(t, StatusExpired, cls.Status, "days=%d", days)
		} else {
			assert.NotEqual(t, StatusExpired, cls.Status, "days=%d", days)
		}
	}
}

func TestClassifyEveryDayHasExactlyOneStatus(t *testing.T) {
	seen := map[Status]bool{}
	for days := -5; days <= 20; days++ {
		deadline := refNow.Add(time.Duration(days) * 24 * time.Hour)
		cls := Classify(deadline, refNow)

		assert.Contains(t, []Status{StatusExpired, StatusUrgent, StatusWarning, StatusNormal}, cls.Status)
		seen[cls.Status] = true
	}
	assert.Len(t, seen, 4, "all four buckets reachable")
}

func TestIsUrgent(t *testing.T) {
	assert.True(t, IsUrgent(refNow, refNow, 3))
	assert.True(t, IsUrgent(refNow.Add(3*24*time.Hour), refNow, 3))
	assert.False(t, IsUrgent(refNow.Add(4*24*time.Hour), refNow, 3))

	// expired is never urgent, no matter the threshold
	expired := refNow.Add(-48 * time.Hour)
	assert.False(t, IsUrgent(expired, refNow, 3))
	assert.False(t, IsUrgent(expired, refNow, 1000))
}

func TestParseDeadline(t *testing.T) {
	parsed, err := ParseDeadline("2025-06-18")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 18, 0, 0, 0, 0, time.UTC), parsed)

	parsed, err = ParseDeadline("2025-06-18T09:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, 9, parsed.Hour())

	_, err = ParseDeadline("next tuesday")
	require.Error(t, err)

	_, err = ParseDeadline("")
	require.Error(t, err)
}

func TestClassifyStringParseFailureIsDistinguishable(t *testing.T) {
	cls := ClassifyString("garbage", refNow)

	assert.True(t, cls.Unknown)
	assert.Error(t, cls.Err)
	// neutral display defaults, but never mistakable for a real
	// same-day deadline
	assert.Equal(t, StatusNormal, cls.Status)
	assert.Equal(t, "green", cls.Color)
	assert.Equal(t, 0, cls.DaysUntil)
}

func TestClassifyStringValidDate(t *testing.T) {
	cls := ClassifyString(refNow.Add(3*24*time.Hour).Format("2006-01-02"), refNow)

	assert.False(t, cls.Unknown)
	assert.NoError(t, cls.Err)
	assert.Equal(t, StatusUrgent, cls.Status)
	assert.Equal(t, "orange", cls.Color)
}
