package booking

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/detailops/booking-api/internal/email"
	"github.com/detailops/booking-api/internal/ledger"
	"github.com/detailops/booking-api/internal/middleware"
	"github.com/detailops/booking-api/internal/model"
	"github.com/detailops/booking-api/internal/repository/catalog"
	"github.com/detailops/booking-api/internal/repository/kv"
	"github.com/detailops/booking-api/internal/service/booking"
	"github.com/detailops/booking-api/pkg/logger"
	"github.com/detailops/booking-api/pkg/validator"
)

type silentNotifier struct{}

func (silentNotifier) AppointmentCreated(context.Context, string, string)   {}
func (silentNotifier) AppointmentCancelled(context.Context, string, string) {}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logger.NewLogger(nil)
	ldg, err := ledger.NewLedger(context.Background(), kv.NewMemoryStore(), silentNotifier{}, log)
	require.NoError(t, err)

	provider := catalog.NewProvider(catalog.DefaultCatalog("biz-1"))
	svc := booking.NewService(ldg, provider, validator.New(), email.NoopSender{}, nil, nil, log)

	r := gin.New()
	r.Use(middleware.RequestID())
	api := r.Group("/api/v1")
	NewHandler(svc).RegisterRoutes(api)
	return r
}

func bookingBody(start time.Time) []byte {
	body, _ := json.Marshal(model.BookingRequest{
		BusinessID: "biz-1",
		ServiceID:  "svc-express-wash",
		StartTime:  start,
		Customer: model.Customer{
			Name:  "Dana Reyes",
			Email: "dana@example.com",
			Phone: "+15550100",
		},
	})
	return body
}

func doRequest(r *gin.Engine, method, path string, body []byte, requestID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if requestID != "" {
		req.Header.Set(middleware.HeaderXRequestID, requestID)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool              `json:"success"`
	Data    model.Appointment `json:"data"`
}

func TestCreateBooking_HTTP(t *testing.T) {
	r := newTestRouter(t)
	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	w := doRequest(r, http.MethodPost, "/api/v1/bookings", bookingBody(start), "req-1")
	require.Equal(t, http.StatusCreated, w.Code)

	var resp envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "req-1", resp.Data.ID)
	assert.Equal(t, "req-1", w.Header().Get(middleware.HeaderXRequestID))
}

func TestCreateBooking_IdempotentRetry(t *testing.T) {
	r := newTestRouter(t)
	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	first := doRequest(r, http.MethodPost, "/api/v1/bookings", bookingBody(start), "req-1")
	require.Equal(t, http.StatusCreated, first.Code)

	// Same X-Request-ID: the retry resolves to the original appointment.
	retry := doRequest(r, http.MethodPost, "/api/v1/bookings", bookingBody(start), "req-1")
	require.Equal(t, http.StatusCreated, retry.Code)

	var resp envelope
	require.NoError(t, json.Unmarshal(retry.Body.Bytes(), &resp))
	assert.Equal(t, "req-1", resp.Data.ID)

	list := doRequest(r, http.MethodGet, "/api/v1/bookings?business_id=biz-1", nil, "")
	var listResp struct {
		Data []model.Appointment `json:"data"`
	}
	require.NoError(t, json.Unmarshal(list.Body.Bytes(), &listResp))
	assert.Len(t, listResp.Data, 1)
}

func TestCreateBooking_MissingFields(t *testing.T) {
	r := newTestRouter(t)

	body, _ := json.Marshal(model.BookingRequest{BusinessID: "biz-1"})
	w := doRequest(r, http.MethodPost, "/api/v1/bookings", body, "req-1")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCancelBooking_HTTP(t *testing.T) {
	r := newTestRouter(t)
	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	require.Equal(t, http.StatusCreated,
		doRequest(r, http.MethodPost, "/api/v1/bookings", bookingBody(start), "req-1").Code)

	w := doRequest(r, http.MethodDelete, "/api/v1/bookings/req-1", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	got := doRequest(r, http.MethodGet, "/api/v1/bookings/req-1", nil, "")
	assert.Equal(t, http.StatusNotFound, got.Code)
}

func TestListBookings_RequiresFilter(t *testing.T) {
	r := newTestRouter(t)
	w := doRequest(r, http.MethodGet, "/api/v1/bookings", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetSlots_HTTP(t *testing.T) {
	r := newTestRouter(t)

	w := doRequest(r, http.MethodGet, "/api/v1/slots?business_id=biz-1&service_id=svc-express-wash&date=2026-09-01", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []struct {
			Start     time.Time `json:"start"`
			Available bool      `json:"available"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Data)
}

func TestGetSlots_BadDate(t *testing.T) {
	r := newTestRouter(t)
	w := doRequest(r, http.MethodGet, "/api/v1/slots?business_id=biz-1&service_id=svc-express-wash&date=tuesday", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
