package conversation

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/detailops/booking-api/internal/model"
	"github.com/detailops/booking-api/internal/nlp"
	"github.com/detailops/booking-api/internal/repository"
)

// TurnResult is what one conversation turn produces.
type TurnResult struct {
	Reply       string               `json:"reply"`
	Strategy    Strategy             `json:"strategy"`
	ReadyToBook bool                 `json:"ready_to_book"`
	Intents     []nlp.Intent         `json:"intents,omitempty"`
	Context     model.BookingContext `json:"context"`
}

// Session orchestrates classifier, extractor and planner for one
// conversation. Turns are inherently sequential; the internal mutex
// serializes callers that don't.
type Session struct {
	ID         string
	BusinessID string

	mu         sync.Mutex
	transcript []model.Turn
	context    model.BookingContext

	catalog   repository.CatalogProvider
	extractor *nlp.Extractor
	planner   *Planner
	now       func() time.Time
}

func NewSession(businessID string, catalog repository.CatalogProvider, extractor *nlp.Extractor, planner *Planner) *Session {
	return &Session{
		ID:         uuid.New().String(),
		BusinessID: businessID,
		catalog:    catalog,
		extractor:  extractor,
		planner:    planner,
		now:        time.Now,
	}
}

// ProcessTurn runs one turn: classify and extract over the same utterance,
// plan the reply, append both sides to the transcript.
func (s *Session) ProcessTurn(ctx context.Context, utterance string) (*TurnResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	services, err := s.catalog.ListServices(ctx, s.BusinessID)
	if err != nil {
		return nil, err
	}

	intents := nlp.Classify(utterance)
	s.extractor.Extract(utterance, services, &s.context)

	var problem model.ServiceCategory
	if cat, ok := nlp.ProblemCategory(utterance); ok {
		problem = cat
	}

	resp := s.planner.Plan(intents, problem, &s.context, services)

	// Problem-derived suggestions feed the running context so a follow-up
	// "book it" turn has something to book.
	if len(resp.SuggestedServiceIDs) > 0 {
		s.context.SuggestedServiceIDs = resp.SuggestedServiceIDs
		if len(resp.SuggestedServiceIDs) == 1 {
			s.context.ServiceID = resp.SuggestedServiceIDs[0]
		}
	}

	s.transcript = append(s.transcript,
		model.Turn{Role: model.RoleCustomer, Text: utterance, Timestamp: s.now()},
		model.Turn{Role: model.RoleAssistant, Text: resp.Text, Timestamp: s.now()},
	)

	return &TurnResult{
		Reply:       resp.Text,
		Strategy:    resp.Strategy,
		ReadyToBook: resp.ReadyToBook,
		Intents:     intents.List(),
		Context:     s.context,
	}, nil
}

// Context returns a snapshot of the accumulated booking context.
func (s *Session) Context() model.BookingContext {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.context
}

// ResetContext clears the accumulated context, keeping the transcript.
func (s *Session) ResetContext() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.context.Reset()
}

// Transcript returns a copy of the transcript so far.
func (s *Session) Transcript() []model.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Turn, len(s.transcript))
	copy(out, s.transcript)
	return out
}
