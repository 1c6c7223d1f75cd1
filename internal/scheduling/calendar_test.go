package scheduling

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day() time.Time {
	return time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
}

func TestSlots_NeverPastClosing(t *testing.T) {
	slots := Slots(day(), 60*time.Minute, AlwaysAvailable)
	require.NotEmpty(t, slots)

	closing := time.Date(2026, 9, 1, CloseHour, 0, 0, 0, time.UTC)
	for _, s := range slots {
		assert.False(t, s.End.After(closing), "slot ending %s runs past closing", s.End)
	}

	// 09:00 through 16:00 inclusive at 30-minute steps for a 60-minute job.
	assert.Len(t, slots, 15)
	assert.Equal(t, time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC), slots[0].Start)
	assert.Equal(t, time.Date(2026, 9, 1, 16, 0, 0, 0, time.UTC), slots[len(slots)-1].Start)
}

func TestSlots_LongServiceStillFits(t *testing.T) {
	slots := Slots(day(), 4*time.Hour, AlwaysAvailable)
	require.NotEmpty(t, slots)
	// Last possible start for a 4-hour job is 13:00.
	assert.Equal(t, time.Date(2026, 9, 1, 13, 0, 0, 0, time.UTC), slots[len(slots)-1].Start)
}

func TestSlots_ZeroDuration(t *testing.T) {
	assert.Nil(t, Slots(day(), 0, AlwaysAvailable))
}

func TestRandomPolicy_Seeded(t *testing.T) {
	a := Slots(day(), 30*time.Minute, RandomPolicy(rand.New(rand.NewSource(42)), 0.8))
	b := Slots(day(), 30*time.Minute, RandomPolicy(rand.New(rand.NewSource(42)), 0.8))
	assert.Equal(t, a, b)

	// The sample is pseudo-random; a fair seed should leave some slots on
	// each side at an 0.8 ratio over 16 candidates.
	var available int
	for _, s := range a {
		if s.Available {
			available++
		}
	}
	assert.Greater(t, available, 0)
	assert.Less(t, available, len(a))
}

func TestBusyPolicy_HalfOpenIntervals(t *testing.T) {
	busy := []Interval{{
		Start: time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 9, 1, 11, 0, 0, 0, time.UTC),
	}}

	slots := Slots(day(), 60*time.Minute, BusyPolicy(busy))
	byStart := make(map[int]bool)
	for _, s := range slots {
		byStart[s.Start.Hour()*60+s.Start.Minute()] = s.Available
	}

	assert.False(t, byStart[9*60+30], "09:30-10:30 overlaps")
	assert.False(t, byStart[10*60], "10:00-11:00 overlaps")
	assert.False(t, byStart[10*60+30], "10:30-11:30 overlaps")
	assert.True(t, byStart[9*60], "09:00-10:00 touches but does not overlap")
	assert.True(t, byStart[11*60], "11:00-12:00 touches but does not overlap")
}

func TestCombine(t *testing.T) {
	no := func(start, end time.Time) bool { return false }
	slots := Slots(day(), 30*time.Minute, Combine(AlwaysAvailable, no))
	for _, s := range slots {
		assert.False(t, s.Available)
	}
}
