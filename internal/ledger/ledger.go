package ledger

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/detailops/booking-api/internal/model"
	"github.com/detailops/booking-api/internal/repository"
	"github.com/detailops/booking-api/internal/repository/kv"
	"github.com/detailops/booking-api/pkg/errors"
	"github.com/detailops/booking-api/pkg/logger"
)

// Notifier receives appointment change notifications. Implementations must
// not block; failures are the notifier's problem, never the ledger's.
type Notifier interface {
	AppointmentCreated(ctx context.Context, businessID, appointmentID string)
	AppointmentCancelled(ctx context.Context, businessID, appointmentID string)
}

// stateKey is the single document the ledger persists its state under.
const stateKey = "bookings/ledger"

// state is the persisted form of the ledger. Appointments is the one
// authoritative collection; customer- and business-scoped listings are
// filtered projections of it. ProcessedRequests grows monotonically.
// CancelledRequests marks request ids whose appointment was cancelled:
// cancellation is terminal for a request id, so a replay after
// cancellation is rejected instead of silently re-creating.
type state struct {
	Appointments      map[string]*model.Appointment `json:"appointments"`
	ProcessedRequests map[string]bool               `json:"processed_requests"`
	CancelledRequests map[string]bool               `json:"cancelled_requests"`
}

func newState() *state {
	return &state{
		Appointments:      make(map[string]*model.Appointment),
		ProcessedRequests: make(map[string]bool),
		CancelledRequests: make(map[string]bool),
	}
}

func (s *state) clone() *state {
	cp := newState()
	for id, apt := range s.Appointments {
		a := *apt
		cp.Appointments[id] = &a
	}
	for id := range s.ProcessedRequests {
		cp.ProcessedRequests[id] = true
	}
	for id := range s.CancelledRequests {
		cp.CancelledRequests[id] = true
	}
	return cp
}

// Ledger is the single source of truth for appointments. All writes run
// inside one critical section so the dedupe-check-then-insert sequence
// cannot race; reads take the shared lock and observe committed state only.
type Ledger struct {
	mu       sync.RWMutex
	state    *state
	store    repository.KVStore
	notifier Notifier
	logger   *logger.Logger
	now      func() time.Time
}

func NewLedger(ctx context.Context, store repository.KVStore, notifier Notifier, log *logger.Logger) (*Ledger, error) {
	l := &Ledger{
		store:    store,
		notifier: notifier,
		logger:   log.WithComponent("ledger"),
		now:      time.Now,
	}

	raw, err := store.Load(ctx, stateKey)
	switch {
	case err == kv.ErrKeyNotFound:
		l.state = newState()
	case err != nil:
		return nil, errors.Persistence("ledger load", err)
	default:
		st := newState()
		if err := json.Unmarshal(raw, st); err != nil {
			return nil, errors.Persistence("ledger decode", err)
		}
		l.state = st
	}

	return l, nil
}

// dedupeKey is the content-based duplicate-booking guard: the same customer
// asking for the same start instant is the same booking, whatever request
// id the caller attached.
func dedupeKey(start time.Time, email string) string {
	return start.UTC().Format(time.RFC3339) + "|" + strings.ToLower(email)
}

// CreateAppointment converts a booking request into an appointment exactly
// once. Duplicate submissions resolve, in order: by content (start instant
// plus customer email), then by request id. Only a request that matches
// neither creates a new record; created reports which case applied.
func (l *Ledger) CreateAppointment(ctx context.Context, req *model.BookingRequest, svc model.Service, requestID string) (apt *model.Appointment, created bool, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	// Content dedupe first: protects against double-taps that generated
	// fresh request ids.
	key := dedupeKey(req.StartTime, req.Customer.Email)
	for _, existing := range l.state.Appointments {
		if existing.BusinessID == req.BusinessID && dedupeKey(existing.StartTime, existing.Customer.Email) == key {
			return existing, false, nil
		}
	}

	// Request-id replay: the same logical action retried after a timeout.
	if l.state.ProcessedRequests[requestID] {
		if existing, ok := l.state.Appointments[requestID]; ok {
			return existing, false, nil
		}
		if l.state.CancelledRequests[requestID] {
			return nil, false, errors.Conflict("booking was cancelled and cannot be replayed", nil)
		}
		return nil, false, errors.Conflict("request id was already processed", nil)
	}

	end := req.StartTime.Add(time.Duration(svc.Duration) * time.Minute)
	for _, existing := range l.state.Appointments {
		if existing.BusinessID == req.BusinessID && existing.Overlaps(req.StartTime, end) {
			return nil, false, errors.Conflict("requested time overlaps an existing appointment", nil)
		}
	}

	apt = &model.Appointment{
		ID:         requestID,
		BusinessID: req.BusinessID,
		Service:    svc,
		StartTime:  req.StartTime,
		EndTime:    end,
		Customer:   req.Customer,
		Vehicle:    req.Vehicle,
		LineItems:  []model.LineItem{{Name: svc.Name, PriceCents: svc.PriceCents}},
		Notes:      req.Notes,
		CreatedAt:  l.now(),
	}

	// Persist the whole next state before mutating memory, so a failed
	// save leaves neither the appointment nor the processed-request mark.
	next := l.state.clone()
	next.Appointments[apt.ID] = apt
	next.ProcessedRequests[requestID] = true
	if err := l.persist(ctx, next); err != nil {
		return nil, false, err
	}
	l.state = next

	l.logger.Info("appointment created",
		"appointment_id", apt.ID, "business_id", apt.BusinessID, "start", apt.StartTime)
	l.notifier.AppointmentCreated(ctx, apt.BusinessID, apt.ID)
	return apt, true, nil
}

// CancelAppointment removes the appointment. Cancelling an unknown id is a
// no-op, not an error.
func (l *Ledger) CancelAppointment(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	apt, ok := l.state.Appointments[id]
	if !ok {
		return nil
	}

	next := l.state.clone()
	delete(next.Appointments, id)
	next.CancelledRequests[id] = true
	if err := l.persist(ctx, next); err != nil {
		return err
	}
	l.state = next

	l.logger.Info("appointment cancelled", "appointment_id", id, "business_id", apt.BusinessID)
	l.notifier.AppointmentCancelled(ctx, apt.BusinessID, id)
	return nil
}

// ListForBusiness is the business-scoped projection, ordered by start time.
func (l *Ledger) ListForBusiness(businessID string) []*model.Appointment {
	return l.list(func(apt *model.Appointment) bool {
		return apt.BusinessID == businessID
	})
}

// ListForCustomer is the customer-scoped projection, ordered by start time.
func (l *Ledger) ListForCustomer(email string) []*model.Appointment {
	needle := strings.ToLower(email)
	return l.list(func(apt *model.Appointment) bool {
		return strings.ToLower(apt.Customer.Email) == needle
	})
}

// Get returns the appointment with the given id, or nil.
func (l *Ledger) Get(id string) *model.Appointment {
	l.mu.RLock()
	defer l.mu.RUnlock()

	apt, ok := l.state.Appointments[id]
	if !ok {
		return nil
	}
	cp := *apt
	return &cp
}

func (l *Ledger) list(match func(*model.Appointment) bool) []*model.Appointment {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []*model.Appointment
	for _, apt := range l.state.Appointments {
		if match(apt) {
			cp := *apt
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].StartTime.Before(out[j].StartTime)
	})
	return out
}

func (l *Ledger) persist(ctx context.Context, st *state) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return errors.Persistence("ledger encode", err)
	}
	if err := l.store.Save(ctx, stateKey, raw); err != nil {
		return errors.Persistence("ledger save", err)
	}
	return nil
}
