package model

import (
	"time"
)

// BookingContext accumulates what the assistant has learned across turns.
// Fields are only ever overwritten by a fresh match; a turn with no match
// for a field leaves it alone. Reset is the only way it shrinks.
type BookingContext struct {
	VehicleYear  string `json:"vehicle_year,omitempty"`
	VehicleMake  string `json:"vehicle_make,omitempty"`
	VehicleModel string `json:"vehicle_model,omitempty"`
	VehicleColor string `json:"vehicle_color,omitempty"`

	// ServiceID is set once the customer has settled on a single service.
	ServiceID string `json:"service_id,omitempty"`

	// SuggestedServiceIDs is the current suggestion list, replaced whenever
	// an utterance produces service matches.
	SuggestedServiceIDs []string `json:"suggested_service_ids,omitempty"`

	DatePreference string `json:"date_preference,omitempty"`
	TimePreference string `json:"time_preference,omitempty"`
}

// HasVehicleInfo reports whether any vehicle attribute has been extracted.
func (c *BookingContext) HasVehicleInfo() bool {
	return c.VehicleYear != "" || c.VehicleMake != "" || c.VehicleModel != "" || c.VehicleColor != ""
}

// Vehicle snapshots the extracted vehicle attributes for a booking request.
func (c *BookingContext) Vehicle() Vehicle {
	return Vehicle{
		Year:  c.VehicleYear,
		Make:  c.VehicleMake,
		Model: c.VehicleModel,
		Color: c.VehicleColor,
	}
}

// Reset clears all accumulated context.
func (c *BookingContext) Reset() {
	*c = BookingContext{}
}

// TurnRole distinguishes who produced a transcript entry.
type TurnRole string

const (
	RoleCustomer  TurnRole = "customer"
	RoleAssistant TurnRole = "assistant"
)

// Turn is one transcript entry.
type Turn struct {
	Role      TurnRole  `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}
