package model

import (
	"time"
)

// Customer identifies who the appointment is for. Email doubles as the
// customer half of the ledger's dedupe key.
type Customer struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"required,min=7"`
}

// Vehicle is the customer's vehicle snapshot at booking time.
type Vehicle struct {
	Year  string `json:"year,omitempty"`
	Make  string `json:"make,omitempty"`
	Model string `json:"model,omitempty"`
	Color string `json:"color,omitempty"`
}

func (v Vehicle) IsZero() bool {
	return v.Year == "" && v.Make == "" && v.Model == "" && v.Color == ""
}

// BookingRequest is constructed once per logical booking action and handed
// to the ledger. The request id that accompanies it is the idempotency key.
type BookingRequest struct {
	BusinessID string    `json:"business_id" validate:"required"`
	ServiceID  string    `json:"service_id" validate:"required"`
	StartTime  time.Time `json:"start_time" validate:"required"`
	Customer   Customer  `json:"customer" validate:"required"`
	Vehicle    Vehicle   `json:"vehicle"`
	Notes      string    `json:"notes" validate:"max=1000"`
}

// LineItem is a named charge on an appointment.
type LineItem struct {
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
}
