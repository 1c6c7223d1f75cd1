package nlp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/detailops/booking-api/internal/model"
)

func testCatalog() []model.Service {
	return []model.Service{
		{ID: "svc-express-wash", Name: "Express Wash", Category: model.CategoryWash},
		{ID: "svc-full-detail", Name: "Full Detail", Category: model.CategoryDetailing},
		{ID: "svc-mini-detail", Name: "Mini Detail", Category: model.CategoryDetailing},
		{ID: "svc-ceramic-coat", Name: "Ceramic Coating", Category: model.CategoryCeramic},
	}
}

func TestExtract_VehicleAttributes(t *testing.T) {
	e := NewExtractor()
	var bc model.BookingContext

	e.Extract("I need a detail for my 2020 Honda Civic in red", testCatalog(), &bc)

	assert.Equal(t, "2020", bc.VehicleYear)
	assert.Equal(t, "Honda", bc.VehicleMake)
	assert.Equal(t, "Red", bc.VehicleColor)

	// Category fallback: "detail" selects the detailing services.
	assert.Contains(t, bc.SuggestedServiceIDs, "svc-full-detail")
	assert.Contains(t, bc.SuggestedServiceIDs, "svc-mini-detail")
}

func TestExtract_MakeAliases(t *testing.T) {
	e := NewExtractor()

	var bc model.BookingContext
	e.Extract("it's a chevy silverado", testCatalog(), &bc)
	assert.Equal(t, "Chevrolet", bc.VehicleMake)

	bc.Reset()
	e.Extract("my vw golf", testCatalog(), &bc)
	assert.Equal(t, "Volkswagen", bc.VehicleMake)
}

func TestExtract_MakeNeedsWholeWord(t *testing.T) {
	e := NewExtractor()
	var bc model.BookingContext

	// "ceramic" contains "ram"; must not read as a Ram truck.
	e.Extract("do you do ceramic coating", testCatalog(), &bc)
	assert.Empty(t, bc.VehicleMake)
}

func TestExtract_NeverClearsFields(t *testing.T) {
	e := NewExtractor()
	var bc model.BookingContext

	e.Extract("2020 Honda Civic", testCatalog(), &bc)
	require.Equal(t, "Honda", bc.VehicleMake)

	// A later turn with no vehicle info leaves everything in place.
	e.Extract("what time works", testCatalog(), &bc)
	assert.Equal(t, "2020", bc.VehicleYear)
	assert.Equal(t, "Honda", bc.VehicleMake)
}

func TestExtract_ExactNamePrecedence(t *testing.T) {
	e := NewExtractor()
	var bc model.BookingContext

	// "Express Wash" matches by name; the "wash" category fallback must
	// not also run.
	e.Extract("I'd like the Express Wash please", testCatalog(), &bc)
	assert.Equal(t, []string{"svc-express-wash"}, bc.SuggestedServiceIDs)
	assert.Equal(t, "svc-express-wash", bc.ServiceID)
}

func TestExtract_ExactNamesAccumulate(t *testing.T) {
	e := NewExtractor()
	var bc model.BookingContext

	e.Extract("should I get the express wash or the full detail", testCatalog(), &bc)
	assert.ElementsMatch(t, []string{"svc-express-wash", "svc-full-detail"}, bc.SuggestedServiceIDs)
	// Two candidates: no single service settled yet.
	assert.Empty(t, bc.ServiceID)
}

func TestExtract_YearCenturies(t *testing.T) {
	e := NewExtractor()
	var bc model.BookingContext

	e.Extract("it's a 1998 model", testCatalog(), &bc)
	assert.Equal(t, "1998", bc.VehicleYear)

	bc.Reset()
	e.Extract("I paid 2500 for it", testCatalog(), &bc)
	assert.Empty(t, bc.VehicleYear)
}

func TestExtract_DateAndTimePreference(t *testing.T) {
	e := NewExtractor()
	var bc model.BookingContext

	e.Extract("friday morning would be great", testCatalog(), &bc)
	assert.Equal(t, "friday", bc.DatePreference)
	assert.Equal(t, "morning", bc.TimePreference)
}

func TestExtract_RelativeDateOverridesWeekday(t *testing.T) {
	e := NewExtractor()
	var bc model.BookingContext

	e.Extract("friday, or actually tomorrow afternoon", testCatalog(), &bc)
	assert.Equal(t, "tomorrow", bc.DatePreference)
	assert.Equal(t, "afternoon", bc.TimePreference)
}
