package scheduling

import (
	"math/rand"
	"time"
)

// Operating window and slot granularity.
const (
	OpenHour  = 9
	CloseHour = 17
	SlotStep  = 30 * time.Minute
)

// Slot is a candidate start time for a booking of a given duration.
type Slot struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Available bool      `json:"available"`
}

// AvailabilityPolicy decides whether a booking may start at the given
// instant. Policies are pure from the calendar's point of view.
type AvailabilityPolicy func(start, end time.Time) bool

// Interval is a half-open busy window.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Slots generates candidate start times for the date at SlotStep
// granularity inside the operating window. A slot whose computed end would
// run past closing is never emitted. Each emitted slot is independently
// marked by the policy.
func Slots(date time.Time, duration time.Duration, policy AvailabilityPolicy) []Slot {
	if duration <= 0 {
		return nil
	}

	loc := date.Location()
	open := time.Date(date.Year(), date.Month(), date.Day(), OpenHour, 0, 0, 0, loc)
	close := time.Date(date.Year(), date.Month(), date.Day(), CloseHour, 0, 0, 0, loc)

	var slots []Slot
	for t := open; !t.Add(duration).After(close); t = t.Add(SlotStep) {
		end := t.Add(duration)
		slots = append(slots, Slot{
			Start:     t,
			End:       end,
			Available: policy(t, end),
		})
	}
	return slots
}

// RandomPolicy marks slots available with the given probability. The
// generator is injected so tests can seed it.
func RandomPolicy(r *rand.Rand, availableRatio float64) AvailabilityPolicy {
	return func(start, end time.Time) bool {
		return r.Float64() < availableRatio
	}
}

// BusyPolicy marks a slot unavailable when its window overlaps any busy
// interval. Intervals are half-open: [start, end) overlaps [b.Start,
// b.End) iff start < b.End && b.Start < end.
func BusyPolicy(busy []Interval) AvailabilityPolicy {
	return func(start, end time.Time) bool {
		for _, b := range busy {
			if start.Before(b.End) && b.Start.Before(end) {
				return false
			}
		}
		return true
	}
}

// AlwaysAvailable is the trivial policy.
func AlwaysAvailable(start, end time.Time) bool { return true }

// Combine requires every policy to accept the slot.
func Combine(policies ...AvailabilityPolicy) AvailabilityPolicy {
	return func(start, end time.Time) bool {
		for _, p := range policies {
			if !p(start, end) {
				return false
			}
		}
		return true
	}
}
