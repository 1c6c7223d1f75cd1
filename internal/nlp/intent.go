package nlp

import (
	"strings"

	"github.com/detailops/booking-api/internal/model"
)

// Intent is a coarse classification of an utterance's purpose. An
// utterance can carry several at once; ranking between them is the
// planner's job, not the classifier's.
type Intent string

const (
	IntentGreeting Intent = "greeting"
	IntentServices Intent = "services"
	IntentPricing  Intent = "pricing"
	IntentDuration Intent = "duration"
	IntentBooking  Intent = "booking"
	IntentProblem  Intent = "problem"
)

// IntentSet is the set of intents matched for one utterance.
type IntentSet map[Intent]bool

func (s IntentSet) Has(i Intent) bool { return s[i] }

func (s IntentSet) List() []Intent {
	ordered := []Intent{IntentGreeting, IntentServices, IntentPricing, IntentDuration, IntentBooking, IntentProblem}
	var out []Intent
	for _, i := range ordered {
		if s[i] {
			out = append(out, i)
		}
	}
	return out
}

var greetingKeywords = []string{"hi", "hello", "hey", "howdy", "good morning", "good afternoon", "good evening"}
var servicesKeywords = []string{"service", "services", "what do you do", "what do you offer", "offerings", "options", "menu", "packages"}
var pricingKeywords = []string{"price", "prices", "pricing", "cost", "how much", "charge", "rate", "fee"}
var durationKeywords = []string{"how long", "duration", "how much time", "how many hours", "take to"}
var bookingKeywords = []string{"book", "schedule", "appointment", "reserve", "reservation", "availability", "available", "slot", "come in"}

// maxGreetingTokens keeps "hi" in "hi, what does a hitch install cost"
// from reading as a greeting: greeting only fires on short utterances.
const maxGreetingTokens = 3

// Normalize lower-cases and trims an utterance. Classification and
// extraction both run on normalized text.
func Normalize(utterance string) string {
	return strings.ToLower(strings.TrimSpace(utterance))
}

// Classify returns every intent whose keyword list matches the normalized
// utterance. The empty set is a valid answer.
func Classify(utterance string) IntentSet {
	text := Normalize(utterance)
	set := make(IntentSet)

	if isGreeting(text) {
		set[IntentGreeting] = true
	}
	if matchesAny(text, servicesKeywords) {
		set[IntentServices] = true
	}
	if matchesAny(text, pricingKeywords) {
		set[IntentPricing] = true
	}
	if matchesAny(text, durationKeywords) {
		set[IntentDuration] = true
	}
	if matchesAny(text, bookingKeywords) {
		set[IntentBooking] = true
	}
	if _, ok := ProblemCategory(text); ok {
		set[IntentProblem] = true
	}

	return set
}

// ProblemCategory maps a problem report ("there's a scratch on my hood")
// to the service category that addresses it. First pattern wins.
func ProblemCategory(utterance string) (model.ServiceCategory, bool) {
	text := Normalize(utterance)
	for _, p := range problemKeywords {
		if strings.Contains(text, p.pattern) {
			return p.category, true
		}
	}
	return "", false
}

// isGreeting matches greeting words against whole tokens (punctuation
// stripped) so "hi" in "this" never fires.
func isGreeting(text string) bool {
	tokens := strings.Fields(text)
	if len(tokens) > maxGreetingTokens {
		return false
	}
	for _, tok := range tokens {
		tok = strings.Trim(tok, ".,!?")
		for _, kw := range greetingKeywords {
			if tok == kw {
				return true
			}
		}
	}
	return matchesAny(text, []string{"good morning", "good afternoon", "good evening"})
}

func matchesAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
