package booking

import (
	"context"
	"time"

	"github.com/detailops/booking-api/internal/email"
	"github.com/detailops/booking-api/internal/ledger"
	"github.com/detailops/booking-api/internal/model"
	"github.com/detailops/booking-api/internal/repository"
	"github.com/detailops/booking-api/internal/scheduling"
	apperrors "github.com/detailops/booking-api/pkg/errors"
	"github.com/detailops/booking-api/pkg/logger"
	"github.com/detailops/booking-api/pkg/metrics"
	"github.com/detailops/booking-api/pkg/validator"
)

// Service is the booking flow: it validates requests, resolves the catalog
// service, drives the ledger and handles the post-booking side effects the
// ledger doesn't own (confirmation mail, metrics).
type Service struct {
	ledger    *ledger.Ledger
	catalog   repository.CatalogProvider
	validator *validator.Validator
	mailer    email.Sender
	policy    scheduling.AvailabilityPolicy
	metrics   *metrics.Metrics
	logger    *logger.Logger
}

func NewService(
	ldg *ledger.Ledger,
	catalog repository.CatalogProvider,
	v *validator.Validator,
	mailer email.Sender,
	policy scheduling.AvailabilityPolicy,
	m *metrics.Metrics,
	log *logger.Logger,
) *Service {
	if policy == nil {
		policy = scheduling.AlwaysAvailable
	}
	return &Service{
		ledger:    ldg,
		catalog:   catalog,
		validator: v,
		mailer:    mailer,
		policy:    policy,
		metrics:   m,
		logger:    log.WithComponent("booking"),
	}
}

// CreateBooking converts a booking request into an appointment under the
// ledger's idempotency guarantees. requestID is the caller's idempotency
// key for the logical action.
func (s *Service) CreateBooking(ctx context.Context, req *model.BookingRequest, requestID string) (*model.Appointment, error) {
	if requestID == "" {
		return nil, apperrors.Validation("request id is required", nil)
	}
	if err := s.validator.Validate(req); err != nil {
		s.countFailure("validation")
		return nil, err
	}

	svc, err := s.catalog.GetService(ctx, req.BusinessID, req.ServiceID)
	if err != nil {
		s.countFailure("unknown_service")
		return nil, err
	}

	start := time.Now()
	apt, created, err := s.ledger.CreateAppointment(ctx, req, *svc, requestID)
	if s.metrics != nil {
		s.metrics.LedgerLatency.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		s.countFailure("ledger")
		return nil, err
	}

	if !created {
		// The ledger resolved a duplicate; no confirmation re-send.
		if s.metrics != nil {
			s.metrics.BookingsDeduped.WithLabelValues("resolved").Inc()
		}
		return apt, nil
	}

	if s.metrics != nil {
		s.metrics.BookingsCreated.Inc()
	}
	if err := s.mailer.SendBookingConfirmation(ctx, apt); err != nil {
		s.logger.Error(err, "confirmation email failed", "appointment_id", apt.ID)
	}
	return apt, nil
}

// CancelBooking cancels an appointment. Unknown ids are a no-op.
func (s *Service) CancelBooking(ctx context.Context, id string) error {
	apt := s.ledger.Get(id)
	if err := s.ledger.CancelAppointment(ctx, id); err != nil {
		return err
	}
	if apt != nil {
		if s.metrics != nil {
			s.metrics.BookingsCancelled.Inc()
		}
		if err := s.mailer.SendCancellation(ctx, apt); err != nil {
			s.logger.Error(err, "cancellation email failed", "appointment_id", id)
		}
	}
	return nil
}

func (s *Service) ListForBusiness(businessID string) []*model.Appointment {
	return s.ledger.ListForBusiness(businessID)
}

func (s *Service) ListForCustomer(email string) []*model.Appointment {
	return s.ledger.ListForCustomer(email)
}

func (s *Service) Get(id string) *model.Appointment {
	return s.ledger.Get(id)
}

// AvailableSlots generates candidate start times for the service on the
// given date. Booked appointments for the business mask their windows on
// top of the configured availability policy.
func (s *Service) AvailableSlots(ctx context.Context, businessID, serviceID string, date time.Time) ([]scheduling.Slot, error) {
	svc, err := s.catalog.GetService(ctx, businessID, serviceID)
	if err != nil {
		return nil, err
	}

	var busy []scheduling.Interval
	for _, apt := range s.ledger.ListForBusiness(businessID) {
		busy = append(busy, scheduling.Interval{Start: apt.StartTime, End: apt.EndTime})
	}

	duration := time.Duration(svc.Duration) * time.Minute
	policy := scheduling.Combine(s.policy, scheduling.BusyPolicy(busy))
	return scheduling.Slots(date, duration, policy), nil
}

func (s *Service) countFailure(reason string) {
	if s.metrics != nil {
		s.metrics.BookingFailures.WithLabelValues(reason).Inc()
	}
}
