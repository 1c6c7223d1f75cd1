package model

// ServiceCategory groups catalog services for keyword matching and
// problem-report suggestions.
type ServiceCategory string

const (
	CategoryDetailing ServiceCategory = "detailing"
	CategoryWash      ServiceCategory = "wash"
	CategoryCeramic   ServiceCategory = "ceramic"
	CategoryPaint     ServiceCategory = "paint"
	CategoryInterior  ServiceCategory = "interior"
	CategoryOther     ServiceCategory = "other"
)

// Service is a bookable catalog entry. Immutable once referenced by an
// appointment; appointments keep their own snapshot.
type Service struct {
	ID          string          `json:"id"`
	BusinessID  string          `json:"business_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Duration    int             `json:"duration"` // in minutes
	PriceCents  int64           `json:"price_cents"`
	Category    ServiceCategory `json:"category"`
}
