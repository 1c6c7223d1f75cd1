package nlp

import (
	"regexp"
	"strings"

	"github.com/detailops/booking-api/internal/model"
)

var yearRE = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// Word-boundary matchers compiled once per vocab entry. Plain substring
// matching trips over our own domain ("ceramic" contains "ram", "mini
// detail" contains "mini"), so make and color patterns match whole words.
var (
	makeREs  []*regexp.Regexp
	colorREs []*regexp.Regexp
)

func init() {
	for _, m := range makePatterns {
		makeREs = append(makeREs, regexp.MustCompile(`\b`+regexp.QuoteMeta(m.pattern)+`\b`))
	}
	for _, c := range colorPatterns {
		colorREs = append(colorREs, regexp.MustCompile(`\b`+regexp.QuoteMeta(c.pattern)+`\b`))
	}
}

// Extractor updates a booking context from one utterance at a time. Every
// rule stops at its first match and a rule that finds nothing leaves the
// corresponding field untouched, so context only ever accumulates.
type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract runs every extraction rule over the utterance against the given
// catalog, mutating bc in place.
func (e *Extractor) Extract(utterance string, services []model.Service, bc *model.BookingContext) {
	text := Normalize(utterance)

	if year := yearRE.FindString(text); year != "" {
		bc.VehicleYear = year
	}

	for i, re := range makeREs {
		if re.MatchString(text) {
			bc.VehicleMake = makePatterns[i].name
			break
		}
	}

	for i, re := range colorREs {
		if re.MatchString(text) {
			bc.VehicleColor = colorPatterns[i].name
			break
		}
	}

	if suggested := matchServices(text, services); len(suggested) > 0 {
		bc.SuggestedServiceIDs = suggested
		if len(suggested) == 1 {
			bc.ServiceID = suggested[0]
		}
	}

	for _, tod := range timesOfDay {
		if strings.Contains(text, tod) {
			bc.TimePreference = tod
			break
		}
	}

	e.extractDatePreference(text, bc)
}

// matchServices implements the two-tier service match. Tier (a): every
// catalog service whose full name appears verbatim accumulates. Tier (b)
// runs only when tier (a) found nothing: the first category keyword group
// with a hit selects all services in that category. The tiers are mutually
// exclusive per utterance.
func matchServices(text string, services []model.Service) []string {
	var exact []string
	for _, svc := range services {
		if strings.Contains(text, strings.ToLower(svc.Name)) {
			exact = append(exact, svc.ID)
		}
	}
	if len(exact) > 0 {
		return exact
	}

	for _, group := range categoryKeywords {
		for _, kw := range group.keywords {
			if strings.Contains(text, kw) {
				var ids []string
				for _, svc := range services {
					if svc.Category == group.category {
						ids = append(ids, svc.ID)
					}
				}
				if len(ids) > 0 {
					return ids
				}
			}
		}
	}
	return nil
}

// extractDatePreference checks weekday names first, then the relative
// keywords; a relative hit later in the list overrides a weekday found in
// the same utterance ("friday or maybe tomorrow" prefers tomorrow).
func (e *Extractor) extractDatePreference(text string, bc *model.BookingContext) {
	for _, day := range weekdays {
		if strings.Contains(text, day) {
			bc.DatePreference = day
			break
		}
	}
	for _, rel := range relativeDates {
		if strings.Contains(text, rel) {
			bc.DatePreference = rel
			break
		}
	}
}
