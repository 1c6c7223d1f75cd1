package chat

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/detailops/booking-api/internal/conversation"
	"github.com/detailops/booking-api/internal/model"
	"github.com/detailops/booking-api/internal/nlp"
	"github.com/detailops/booking-api/internal/repository"
	"github.com/detailops/booking-api/pkg/errors"
	"github.com/detailops/booking-api/pkg/logger"
	"github.com/detailops/booking-api/pkg/metrics"
)

// Session lifetime. An idle conversation is evicted; the customer starts
// over, which matches how walk-away conversations behave anyway.
const (
	sessionTTL     = 30 * time.Minute
	sessionCleanup = 10 * time.Minute
)

// Service owns the live conversation sessions.
type Service struct {
	sessions  *gocache.Cache
	catalog   repository.CatalogProvider
	extractor *nlp.Extractor
	planner   *conversation.Planner
	metrics   *metrics.Metrics
	logger    *logger.Logger
}

func NewService(catalog repository.CatalogProvider, planner *conversation.Planner, m *metrics.Metrics, log *logger.Logger) *Service {
	return &Service{
		sessions:  gocache.New(sessionTTL, sessionCleanup),
		catalog:   catalog,
		extractor: nlp.NewExtractor(),
		planner:   planner,
		metrics:   m,
		logger:    log.WithComponent("chat"),
	}
}

// CreateSession starts a conversation for a business.
func (s *Service) CreateSession(businessID string) *conversation.Session {
	sess := conversation.NewSession(businessID, s.catalog, s.extractor, s.planner)
	s.sessions.Set(sess.ID, sess, gocache.DefaultExpiration)
	s.logger.Info("session created", "session_id", sess.ID, "business_id", businessID)
	return sess
}

// GetSession returns a live session or a not-found error.
func (s *Service) GetSession(id string) (*conversation.Session, error) {
	v, ok := s.sessions.Get(id)
	if !ok {
		return nil, errors.NotFound("session", nil)
	}
	return v.(*conversation.Session), nil
}

// ProcessTurn runs one turn against a session and refreshes its TTL.
func (s *Service) ProcessTurn(ctx context.Context, sessionID, utterance string) (*conversation.TurnResult, error) {
	sess, err := s.GetSession(sessionID)
	if err != nil {
		return nil, err
	}

	result, err := sess.ProcessTurn(ctx, utterance)
	if err != nil {
		return nil, err
	}
	s.sessions.Set(sess.ID, sess, gocache.DefaultExpiration)

	if s.metrics != nil {
		s.metrics.TurnsProcessed.Inc()
		for _, intent := range result.Intents {
			s.metrics.IntentsMatched.WithLabelValues(string(intent)).Inc()
		}
		s.metrics.PlannerStrategy.WithLabelValues(string(result.Strategy)).Inc()
		if result.ReadyToBook {
			s.metrics.BookingReady.Inc()
		}
	}
	return result, nil
}

// Context returns the accumulated booking context for a session; the
// booking handler reads it to prefill a booking request.
func (s *Service) Context(sessionID string) (*model.BookingContext, error) {
	sess, err := s.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	bc := sess.Context()
	return &bc, nil
}
