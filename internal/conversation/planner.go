package conversation

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/detailops/booking-api/internal/model"
	"github.com/detailops/booking-api/internal/nlp"
)

// Strategy names one of the planner's response strategies.
type Strategy string

const (
	StrategySuggestedPricing  Strategy = "suggested_pricing"
	StrategySuggestedDuration Strategy = "suggested_duration"
	StrategyBooking           Strategy = "booking"
	StrategyCatalogPricing    Strategy = "catalog_pricing"
	StrategyDurationGuidance  Strategy = "duration_guidance"
	StrategyServiceList       Strategy = "service_list"
	StrategyVehicleSuggestion Strategy = "vehicle_suggestion"
	StrategyServiceDetail     Strategy = "service_detail"
	StrategyVehicleAck        Strategy = "vehicle_ack"
	StrategyGreeting          Strategy = "greeting"
	StrategyProblem           Strategy = "problem"
	StrategyFallback          Strategy = "fallback"
)

// Response is the planner's single chosen reply for a turn.
type Response struct {
	Text        string   `json:"text"`
	Strategy    Strategy `json:"strategy"`
	ReadyToBook bool     `json:"ready_to_book"`

	// SuggestedServiceIDs carries the suggestion list the reply was built
	// from, so the session can fold problem-derived suggestions back into
	// the running context.
	SuggestedServiceIDs []string `json:"suggested_service_ids,omitempty"`
}

// fallbackVariants are the canned default prompts. Selection between them
// is pseudo-random and injectable.
var fallbackVariants = []string{
	"I can help you find the right service for your car or get an appointment booked. What are you looking for?",
	"Tell me a bit about your car and what it needs, and I'll point you at the right service.",
	"I can answer questions about our services, pricing, and availability. How can I help?",
}

const maxListedServices = 5

// Planner picks exactly one response strategy per turn by a fixed
// priority order, evaluated top to bottom. The order is the behavioral
// contract: it decides which answer wins when several intents are true at
// once.
type Planner struct {
	pickFallback func(n int) int
}

// NewPlanner builds a planner. pickFallback selects among the fallback
// variants; pass nil for the default pseudo-random pick.
func NewPlanner(pickFallback func(n int) int) *Planner {
	if pickFallback == nil {
		pickFallback = rand.Intn
	}
	return &Planner{pickFallback: pickFallback}
}

// Plan renders the reply for one turn. services is the full catalog for
// the business; the suggestion list is read from the context; problem is
// the service category mapped from a problem report, or empty.
func (p *Planner) Plan(intents nlp.IntentSet, problem model.ServiceCategory, bc *model.BookingContext, services []model.Service) Response {
	suggested := resolveServices(bc.SuggestedServiceIDs, services)

	switch {
	case len(suggested) > 0 && intents.Has(nlp.IntentPricing):
		return Response{
			Text:                describeServices(suggested, "Here's the pricing:"),
			Strategy:            StrategySuggestedPricing,
			SuggestedServiceIDs: ids(suggested),
		}

	case len(suggested) > 0 && intents.Has(nlp.IntentDuration):
		return Response{
			Text:                describeDurations(suggested),
			Strategy:            StrategySuggestedDuration,
			SuggestedServiceIDs: ids(suggested),
		}

	case intents.Has(nlp.IntentBooking):
		return p.planBooking(bc, suggested)

	case intents.Has(nlp.IntentPricing):
		return Response{
			Text:     priceRange(services),
			Strategy: StrategyCatalogPricing,
		}

	case intents.Has(nlp.IntentDuration):
		return Response{
			Text:     "Most services run between 30 minutes and 4 hours depending on what you pick. Tell me which service you're considering and I'll give you an exact time.",
			Strategy: StrategyDurationGuidance,
		}

	case intents.Has(nlp.IntentServices):
		return Response{
			Text:     listServices(services),
			Strategy: StrategyServiceList,
		}

	case len(suggested) > 0 && bc.HasVehicleInfo():
		return Response{
			Text:                fmt.Sprintf("For your %s, we'd suggest: %s", vehicleLabel(bc), describeServices(suggested, "")),
			Strategy:            StrategyVehicleSuggestion,
			SuggestedServiceIDs: ids(suggested),
		}

	case len(suggested) > 0:
		return Response{
			Text:                describeServices(suggested, "Sounds like a fit:"),
			Strategy:            StrategyServiceDetail,
			SuggestedServiceIDs: ids(suggested),
		}

	case bc.HasVehicleInfo():
		return Response{
			Text:     fmt.Sprintf("Got it — a %s. What kind of service are you looking for? We do washes, details, interior work, paint correction and ceramic coating.", vehicleLabel(bc)),
			Strategy: StrategyVehicleAck,
		}

	case intents.Has(nlp.IntentGreeting):
		return Response{
			Text:     "Hi! Welcome to the shop. I can tell you about our services or get you booked in — what can I do for you?",
			Strategy: StrategyGreeting,
		}

	case intents.Has(nlp.IntentProblem):
		return p.planProblem(problem, services)

	default:
		return Response{
			Text:     fallbackVariants[p.pickFallback(len(fallbackVariants))],
			Strategy: StrategyFallback,
		}
	}
}

// planBooking composes the booking-oriented reply, referencing whatever
// vehicle info and suggestions the conversation has accumulated. The
// ready-to-book signal fires only once a suggestion exists.
func (p *Planner) planBooking(bc *model.BookingContext, suggested []model.Service) Response {
	var b strings.Builder
	b.WriteString("Happy to get you booked in")
	if bc.HasVehicleInfo() {
		fmt.Fprintf(&b, " for your %s", vehicleLabel(bc))
	}
	b.WriteString(". ")

	ready := len(suggested) > 0
	if ready {
		fmt.Fprintf(&b, "We'd be looking at: %s ", describeServices(suggested, ""))
		b.WriteString("Pick a date and I'll show you the open times.")
	} else {
		b.WriteString("Which service would you like? I can list what we offer if that helps.")
	}

	return Response{
		Text:                b.String(),
		Strategy:            StrategyBooking,
		ReadyToBook:         ready,
		SuggestedServiceIDs: ids(suggested),
	}
}

// planProblem answers a problem report with the services in the category
// that addresses it, in the same shape as the suggested-pricing replies.
func (p *Planner) planProblem(problem model.ServiceCategory, services []model.Service) Response {
	var matched []model.Service
	for _, svc := range services {
		if svc.Category == problem {
			matched = append(matched, svc)
		}
	}
	if len(matched) == 0 {
		return Response{
			Text:     "That sounds fixable. Can you tell me a bit more about the problem?",
			Strategy: StrategyProblem,
		}
	}
	return Response{
		Text:                describeServices(matched, "That's something we can take care of."),
		Strategy:            StrategyProblem,
		SuggestedServiceIDs: ids(matched),
	}
}

func resolveServices(suggestedIDs []string, services []model.Service) []model.Service {
	if len(suggestedIDs) == 0 {
		return nil
	}
	byID := make(map[string]model.Service, len(services))
	for _, svc := range services {
		byID[svc.ID] = svc
	}
	var out []model.Service
	for _, id := range suggestedIDs {
		if svc, ok := byID[id]; ok {
			out = append(out, svc)
		}
	}
	return out
}

func ids(services []model.Service) []string {
	var out []string
	for _, svc := range services {
		out = append(out, svc.ID)
	}
	return out
}

func describeServices(services []model.Service, prefix string) string {
	var b strings.Builder
	if prefix != "" {
		b.WriteString(prefix)
		b.WriteString(" ")
	}
	for i, svc := range services {
		if i > 0 {
			b.WriteString(" ")
		}
		fmt.Fprintf(&b, "%s is %s and takes about %s.", svc.Name, formatPrice(svc.PriceCents), formatDuration(svc.Duration))
	}
	return b.String()
}

func describeDurations(services []model.Service) string {
	var b strings.Builder
	for i, svc := range services {
		if i > 0 {
			b.WriteString(" ")
		}
		fmt.Fprintf(&b, "%s takes about %s.", svc.Name, formatDuration(svc.Duration))
	}
	return b.String()
}

func priceRange(services []model.Service) string {
	if len(services) == 0 {
		return "We don't have any services listed right now — check back soon."
	}
	min, max := services[0].PriceCents, services[0].PriceCents
	for _, svc := range services[1:] {
		if svc.PriceCents < min {
			min = svc.PriceCents
		}
		if svc.PriceCents > max {
			max = svc.PriceCents
		}
	}
	return fmt.Sprintf("Our services range from %s to %s depending on what your car needs. Tell me what you're after and I'll narrow it down.", formatPrice(min), formatPrice(max))
}

func listServices(services []model.Service) string {
	var b strings.Builder
	b.WriteString("Here's what we offer:")
	n := len(services)
	if n > maxListedServices {
		n = maxListedServices
	}
	for _, svc := range services[:n] {
		fmt.Fprintf(&b, "\n- %s (%s): %s", svc.Name, formatPrice(svc.PriceCents), svc.Description)
	}
	if overflow := len(services) - n; overflow > 0 {
		fmt.Fprintf(&b, "\n...and %d more.", overflow)
	}
	return b.String()
}

func vehicleLabel(bc *model.BookingContext) string {
	parts := make([]string, 0, 4)
	for _, p := range []string{bc.VehicleColor, bc.VehicleYear, bc.VehicleMake, bc.VehicleModel} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return "car"
	}
	return strings.Join(parts, " ")
}

func formatPrice(cents int64) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}

func formatDuration(minutes int) string {
	h, m := minutes/60, minutes%60
	switch {
	case h == 0:
		return fmt.Sprintf("%d minutes", m)
	case m == 0:
		if h == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", h)
	default:
		return fmt.Sprintf("%dh%02dm", h, m)
	}
}
