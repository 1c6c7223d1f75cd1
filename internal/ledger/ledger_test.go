package ledger

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/detailops/booking-api/internal/model"
	"github.com/detailops/booking-api/internal/repository/kv"
	apperrors "github.com/detailops/booking-api/pkg/errors"
	"github.com/detailops/booking-api/pkg/logger"
)

type fakeNotifier struct {
	mu        sync.Mutex
	created   []string
	cancelled []string
}

func (n *fakeNotifier) AppointmentCreated(_ context.Context, _, appointmentID string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.created = append(n.created, appointmentID)
}

func (n *fakeNotifier) AppointmentCancelled(_ context.Context, _, appointmentID string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cancelled = append(n.cancelled, appointmentID)
}

func testService() model.Service {
	return model.Service{
		ID:         "svc-full-detail",
		BusinessID: "biz-1",
		Name:       "Full Detail",
		Duration:   180,
		PriceCents: 19900,
		Category:   model.CategoryDetailing,
	}
}

func testRequest(start time.Time) *model.BookingRequest {
	return &model.BookingRequest{
		BusinessID: "biz-1",
		ServiceID:  "svc-full-detail",
		StartTime:  start,
		Customer: model.Customer{
			Name:  "Dana Reyes",
			Email: "dana@example.com",
			Phone: "+15550100",
		},
		Vehicle: model.Vehicle{Year: "2020", Make: "Honda", Model: "Civic", Color: "Red"},
	}
}

func newTestLedger(t *testing.T) (*Ledger, *kv.MemoryStore, *fakeNotifier) {
	t.Helper()
	store := kv.NewMemoryStore()
	notifier := &fakeNotifier{}
	l, err := NewLedger(context.Background(), store, notifier, logger.NewLogger(nil))
	require.NoError(t, err)
	return l, store, notifier
}

func TestCreateAppointment_ContentDedupe(t *testing.T) {
	l, _, notifier := newTestLedger(t)
	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	first, created, err := l.CreateAppointment(context.Background(), testRequest(start), testService(), "req-1")
	require.NoError(t, err)
	assert.True(t, created)

	// Same start instant and customer email, brand-new request id: the
	// double-tap case. Must return the original, create nothing.
	second, created, err := l.CreateAppointment(context.Background(), testRequest(start), testService(), "req-2")
	require.NoError(t, err)
	assert.False(t, created)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, l.ListForBusiness("biz-1"), 1)
	assert.Len(t, notifier.created, 1)
}

func TestCreateAppointment_RequestIDReplay(t *testing.T) {
	l, _, _ := newTestLedger(t)
	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	first, _, err := l.CreateAppointment(context.Background(), testRequest(start), testService(), "req-1")
	require.NoError(t, err)

	replay, created, err := l.CreateAppointment(context.Background(), testRequest(start), testService(), "req-1")
	require.NoError(t, err)
	assert.False(t, created)

	assert.Equal(t, first, replay)
	assert.Len(t, l.ListForBusiness("biz-1"), 1)
}

func TestCreateAppointment_EndTimeDerivation(t *testing.T) {
	l, _, _ := newTestLedger(t)
	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	apt, _, err := l.CreateAppointment(context.Background(), testRequest(start), testService(), "req-1")
	require.NoError(t, err)

	assert.Equal(t, 180*time.Minute, apt.EndTime.Sub(apt.StartTime))
	assert.Equal(t, "req-1", apt.ID)
	require.Len(t, apt.LineItems, 1)
	assert.Equal(t, int64(19900), apt.LineItems[0].PriceCents)
}

func TestCreateAppointment_OverlapRejected(t *testing.T) {
	l, _, _ := newTestLedger(t)
	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	_, _, err := l.CreateAppointment(context.Background(), testRequest(start), testService(), "req-1")
	require.NoError(t, err)

	// Different customer, start inside the first appointment's window.
	other := testRequest(start.Add(30 * time.Minute))
	other.Customer.Email = "lee@example.com"
	_, _, err = l.CreateAppointment(context.Background(), other, testService(), "req-2")
	assert.True(t, apperrors.IsCode(err, apperrors.ErrConflict))
}

func TestCancelAppointment_Consistency(t *testing.T) {
	l, _, notifier := newTestLedger(t)
	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	apt, _, err := l.CreateAppointment(context.Background(), testRequest(start), testService(), "req-1")
	require.NoError(t, err)

	require.NoError(t, l.CancelAppointment(context.Background(), apt.ID))
	assert.Empty(t, l.ListForBusiness("biz-1"))
	assert.Empty(t, l.ListForCustomer("dana@example.com"))
	assert.Len(t, notifier.cancelled, 1)

	// Second cancel is a no-op, not an error.
	require.NoError(t, l.CancelAppointment(context.Background(), apt.ID))
	assert.Len(t, notifier.cancelled, 1)
}

func TestCancelAppointment_UnknownIDIsNoOp(t *testing.T) {
	l, _, notifier := newTestLedger(t)
	require.NoError(t, l.CancelAppointment(context.Background(), "never-existed"))
	assert.Empty(t, notifier.cancelled)
}

func TestCreateAppointment_ReplayAfterCancelRejected(t *testing.T) {
	l, _, _ := newTestLedger(t)
	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	apt, _, err := l.CreateAppointment(context.Background(), testRequest(start), testService(), "req-1")
	require.NoError(t, err)
	require.NoError(t, l.CancelAppointment(context.Background(), apt.ID))

	// Cancellation is terminal for the request id.
	_, _, err = l.CreateAppointment(context.Background(), testRequest(start), testService(), "req-1")
	assert.True(t, apperrors.IsCode(err, apperrors.ErrConflict))
	assert.Empty(t, l.ListForBusiness("biz-1"))
}

func TestCreateAppointment_FailedSaveLeavesNoTrace(t *testing.T) {
	l, store, notifier := newTestLedger(t)
	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	store.FailSaves = errors.New("disk full")
	_, _, err := l.CreateAppointment(context.Background(), testRequest(start), testService(), "req-1")
	assert.True(t, apperrors.IsCode(err, apperrors.ErrPersistence))
	assert.Empty(t, l.ListForBusiness("biz-1"))
	assert.Empty(t, notifier.created)

	// The processed-request record must not have been marked either: the
	// same request id succeeds once the store recovers.
	store.FailSaves = nil
	apt, created, err := l.CreateAppointment(context.Background(), testRequest(start), testService(), "req-1")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "req-1", apt.ID)
}

func TestLedger_StateSurvivesReload(t *testing.T) {
	store := kv.NewMemoryStore()
	notifier := &fakeNotifier{}
	log := logger.NewLogger(nil)

	l, err := NewLedger(context.Background(), store, notifier, log)
	require.NoError(t, err)

	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	_, _, err = l.CreateAppointment(context.Background(), testRequest(start), testService(), "req-1")
	require.NoError(t, err)

	reloaded, err := NewLedger(context.Background(), store, notifier, log)
	require.NoError(t, err)
	require.Len(t, reloaded.ListForBusiness("biz-1"), 1)

	// Replay against the reloaded ledger still resolves to the original.
	apt, created, err := reloaded.CreateAppointment(context.Background(), testRequest(start), testService(), "req-1")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "req-1", apt.ID)
	assert.Len(t, reloaded.ListForBusiness("biz-1"), 1)
}

func TestCreateAppointment_ConcurrentDuplicates(t *testing.T) {
	l, _, _ := newTestLedger(t)
	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	const workers = 16
	var wg sync.WaitGroup
	ids := make(chan string, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			apt, _, err := l.CreateAppointment(context.Background(), testRequest(start), testService(), "req-1")
			if err == nil {
				ids <- apt.ID
			}
		}()
	}
	wg.Wait()
	close(ids)

	for id := range ids {
		assert.Equal(t, "req-1", id)
	}
	assert.Len(t, l.ListForBusiness("biz-1"), 1)
}
