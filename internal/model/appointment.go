package model

import (
	"time"
)

// Appointment is a committed booking. Its ID is the request id that
// created it, so replays of the same request resolve to the same record.
// EndTime is always StartTime plus the service duration.
type Appointment struct {
	ID         string     `json:"id"`
	BusinessID string     `json:"business_id"`
	Service    Service    `json:"service"`
	StartTime  time.Time  `json:"start_time"`
	EndTime    time.Time  `json:"end_time"`
	Customer   Customer   `json:"customer"`
	Vehicle    Vehicle    `json:"vehicle"`
	LineItems  []LineItem `json:"line_items"`
	Notes      string     `json:"notes,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Overlaps reports whether the [start, end) window of the appointment
// intersects the given half-open interval.
func (a *Appointment) Overlaps(start, end time.Time) bool {
	return start.Before(a.EndTime) && a.StartTime.Before(end)
}
