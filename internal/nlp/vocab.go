package nlp

import (
	"github.com/detailops/booking-api/internal/model"
)

// makePattern maps an utterance substring to the canonical manufacturer
// name. Ordered by specificity: aliases and multi-word names first so
// "land rover" wins before any shorter pattern could fire.
var makePatterns = []struct {
	pattern string
	name    string
}{
	{"land rover", "Land Rover"},
	{"alfa romeo", "Alfa Romeo"},
	{"mercedes-benz", "Mercedes-Benz"},
	{"mercedes", "Mercedes-Benz"},
	{"benz", "Mercedes-Benz"},
	{"chevrolet", "Chevrolet"},
	{"chevy", "Chevrolet"},
	{"volkswagen", "Volkswagen"},
	{"vw", "Volkswagen"},
	{"toyota", "Toyota"},
	{"honda", "Honda"},
	{"ford", "Ford"},
	{"bmw", "BMW"},
	{"audi", "Audi"},
	{"nissan", "Nissan"},
	{"hyundai", "Hyundai"},
	{"kia", "Kia"},
	{"subaru", "Subaru"},
	{"mazda", "Mazda"},
	{"lexus", "Lexus"},
	{"jeep", "Jeep"},
	{"tesla", "Tesla"},
	{"dodge", "Dodge"},
	{"ram", "Ram"},
	{"gmc", "GMC"},
	{"buick", "Buick"},
	{"cadillac", "Cadillac"},
	{"chrysler", "Chrysler"},
	{"volvo", "Volvo"},
	{"porsche", "Porsche"},
	{"jaguar", "Jaguar"},
	{"acura", "Acura"},
	{"infiniti", "Infiniti"},
	{"lincoln", "Lincoln"},
	{"mitsubishi", "Mitsubishi"},
	{"mini", "Mini"},
	{"fiat", "Fiat"},
	{"genesis", "Genesis"},
}

// colorPatterns maps utterance substrings to canonical color names.
// "grey" before "gray" only matters for the alias, both normalize the
// same way.
var colorPatterns = []struct {
	pattern string
	name    string
}{
	{"black", "Black"},
	{"white", "White"},
	{"silver", "Silver"},
	{"grey", "Gray"},
	{"gray", "Gray"},
	{"red", "Red"},
	{"blue", "Blue"},
	{"green", "Green"},
	{"yellow", "Yellow"},
	{"orange", "Orange"},
	{"brown", "Brown"},
	{"tan", "Tan"},
	{"beige", "Beige"},
	{"gold", "Gold"},
	{"purple", "Purple"},
	{"maroon", "Maroon"},
	{"burgundy", "Burgundy"},
}

// categoryKeywords is the tier-(b) fallback: when no catalog service name
// appears verbatim, the first group with a keyword hit selects every
// service in that category.
var categoryKeywords = []struct {
	category model.ServiceCategory
	keywords []string
}{
	{model.CategoryDetailing, []string{"detail", "full clean", "inside and out"}},
	{model.CategoryCeramic, []string{"ceramic", "coating", "protection"}},
	{model.CategoryInterior, []string{"interior", "vacuum", "shampoo", "upholstery", "carpet", "seats"}},
	{model.CategoryPaint, []string{"paint", "polish", "correction", "buff", "swirl"}},
	{model.CategoryWash, []string{"wash", "rinse"}},
}

// weekdays in matching order.
var weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// relativeDates are checked after weekday names and override an earlier
// weekday hit in the same utterance.
var relativeDates = []string{"tomorrow", "next week", "weekend"}

var timesOfDay = []string{"morning", "afternoon", "evening"}

// problemKeywords maps reported problems to the service category that
// addresses them.
var problemKeywords = []struct {
	pattern  string
	category model.ServiceCategory
}{
	{"scratch", model.CategoryPaint},
	{"swirl", model.CategoryPaint},
	{"scuff", model.CategoryPaint},
	{"oxidation", model.CategoryPaint},
	{"faded", model.CategoryPaint},
	{"stain", model.CategoryInterior},
	{"odor", model.CategoryInterior},
	{"smell", model.CategoryInterior},
	{"pet hair", model.CategoryInterior},
	{"spill", model.CategoryInterior},
	{"dirty", model.CategoryWash},
	{"mud", model.CategoryWash},
	{"pollen", model.CategoryWash},
}
