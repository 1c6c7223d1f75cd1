package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/detailops/booking-api/internal/model"
	"github.com/detailops/booking-api/internal/nlp"
)

func plannerCatalog() []model.Service {
	return []model.Service{
		{ID: "svc-express-wash", Name: "Express Wash", Description: "Exterior hand wash", Duration: 30, PriceCents: 2500, Category: model.CategoryWash},
		{ID: "svc-deluxe-wash", Name: "Deluxe Wash & Wax", Description: "Wash plus wax", Duration: 60, PriceCents: 4500, Category: model.CategoryWash},
		{ID: "svc-full-detail", Name: "Full Detail", Description: "Inside and out", Duration: 180, PriceCents: 19900, Category: model.CategoryDetailing},
		{ID: "svc-mini-detail", Name: "Mini Detail", Description: "Quick detail", Duration: 90, PriceCents: 9900, Category: model.CategoryDetailing},
		{ID: "svc-interior-deep", Name: "Interior Deep Clean", Description: "Shampoo and steam", Duration: 120, PriceCents: 14900, Category: model.CategoryInterior},
		{ID: "svc-ceramic-coat", Name: "Ceramic Coating", Description: "Paint protection", Duration: 240, PriceCents: 79900, Category: model.CategoryCeramic},
		{ID: "svc-paint-correct", Name: "Paint Correction", Description: "Swirl removal", Duration: 240, PriceCents: 49900, Category: model.CategoryPaint},
	}
}

func newTestPlanner() *Planner {
	return NewPlanner(func(n int) int { return 0 })
}

func TestPlan_SuggestedPricingBeatsServiceList(t *testing.T) {
	p := newTestPlanner()
	bc := &model.BookingContext{SuggestedServiceIDs: []string{"svc-full-detail"}}
	intents := nlp.IntentSet{nlp.IntentServices: true, nlp.IntentPricing: true}

	resp := p.Plan(intents, "", bc, plannerCatalog())
	assert.Equal(t, StrategySuggestedPricing, resp.Strategy)
	assert.Contains(t, resp.Text, "Full Detail")
	assert.Contains(t, resp.Text, "$199.00")
}

func TestPlan_SuggestedDuration(t *testing.T) {
	p := newTestPlanner()
	bc := &model.BookingContext{SuggestedServiceIDs: []string{"svc-ceramic-coat"}}
	intents := nlp.IntentSet{nlp.IntentDuration: true}

	resp := p.Plan(intents, "", bc, plannerCatalog())
	assert.Equal(t, StrategySuggestedDuration, resp.Strategy)
	assert.Contains(t, resp.Text, "4 hours")
}

func TestPlan_BookingReadySignal(t *testing.T) {
	p := newTestPlanner()

	// With a suggestion, booking intent signals readiness.
	bc := &model.BookingContext{
		SuggestedServiceIDs: []string{"svc-express-wash"},
		VehicleMake:         "Honda",
	}
	resp := p.Plan(nlp.IntentSet{nlp.IntentBooking: true}, "", bc, plannerCatalog())
	assert.Equal(t, StrategyBooking, resp.Strategy)
	assert.True(t, resp.ReadyToBook)
	assert.Contains(t, resp.Text, "Honda")

	// Without a suggestion, booking intent asks for the service first.
	resp = p.Plan(nlp.IntentSet{nlp.IntentBooking: true}, "", &model.BookingContext{}, plannerCatalog())
	assert.Equal(t, StrategyBooking, resp.Strategy)
	assert.False(t, resp.ReadyToBook)
}

func TestPlan_BookingBeatsPricingWithoutSuggestion(t *testing.T) {
	p := newTestPlanner()
	intents := nlp.IntentSet{nlp.IntentBooking: true, nlp.IntentPricing: true}

	resp := p.Plan(intents, "", &model.BookingContext{}, plannerCatalog())
	assert.Equal(t, StrategyBooking, resp.Strategy)
}

func TestPlan_CatalogPriceRange(t *testing.T) {
	p := newTestPlanner()
	resp := p.Plan(nlp.IntentSet{nlp.IntentPricing: true}, "", &model.BookingContext{}, plannerCatalog())
	assert.Equal(t, StrategyCatalogPricing, resp.Strategy)
	assert.Contains(t, resp.Text, "$25.00")
	assert.Contains(t, resp.Text, "$799.00")
}

func TestPlan_ServiceListCapsAtFive(t *testing.T) {
	p := newTestPlanner()
	resp := p.Plan(nlp.IntentSet{nlp.IntentServices: true}, "", &model.BookingContext{}, plannerCatalog())
	assert.Equal(t, StrategyServiceList, resp.Strategy)
	assert.Contains(t, resp.Text, "Express Wash")
	assert.Contains(t, resp.Text, "...and 2 more.")
	assert.NotContains(t, resp.Text, "Paint Correction")
}

func TestPlan_VehicleSuggestion(t *testing.T) {
	p := newTestPlanner()
	bc := &model.BookingContext{
		VehicleYear:         "2020",
		VehicleMake:         "Honda",
		VehicleColor:        "Red",
		SuggestedServiceIDs: []string{"svc-full-detail"},
	}
	resp := p.Plan(nlp.IntentSet{}, "", bc, plannerCatalog())
	assert.Equal(t, StrategyVehicleSuggestion, resp.Strategy)
	assert.Contains(t, resp.Text, "Red 2020 Honda")
	assert.Contains(t, resp.Text, "Full Detail")
}

func TestPlan_ServiceDetailAlone(t *testing.T) {
	p := newTestPlanner()
	bc := &model.BookingContext{SuggestedServiceIDs: []string{"svc-mini-detail"}}
	resp := p.Plan(nlp.IntentSet{}, "", bc, plannerCatalog())
	assert.Equal(t, StrategyServiceDetail, resp.Strategy)
	assert.Contains(t, resp.Text, "Mini Detail")
}

func TestPlan_VehicleAckAsksForService(t *testing.T) {
	p := newTestPlanner()
	bc := &model.BookingContext{VehicleMake: "Subaru"}
	resp := p.Plan(nlp.IntentSet{}, "", bc, plannerCatalog())
	assert.Equal(t, StrategyVehicleAck, resp.Strategy)
	assert.Contains(t, resp.Text, "Subaru")
}

func TestPlan_Greeting(t *testing.T) {
	p := newTestPlanner()
	resp := p.Plan(nlp.IntentSet{nlp.IntentGreeting: true}, "", &model.BookingContext{}, plannerCatalog())
	assert.Equal(t, StrategyGreeting, resp.Strategy)
}

func TestPlan_ProblemMapsToCategory(t *testing.T) {
	p := newTestPlanner()
	resp := p.Plan(nlp.IntentSet{nlp.IntentProblem: true}, model.CategoryPaint, &model.BookingContext{}, plannerCatalog())
	assert.Equal(t, StrategyProblem, resp.Strategy)
	assert.Contains(t, resp.Text, "Paint Correction")
	assert.Equal(t, []string{"svc-paint-correct"}, resp.SuggestedServiceIDs)
}

func TestPlan_FallbackIsAKnownVariant(t *testing.T) {
	// Variant selection is pseudo-random by default; assert membership,
	// not a specific pick.
	p := NewPlanner(nil)
	resp := p.Plan(nlp.IntentSet{}, "", &model.BookingContext{}, plannerCatalog())
	assert.Equal(t, StrategyFallback, resp.Strategy)
	assert.Contains(t, fallbackVariants, resp.Text)
}
