package booking

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/detailops/booking-api/internal/middleware"
	"github.com/detailops/booking-api/internal/model"
	"github.com/detailops/booking-api/internal/service/booking"
	"github.com/detailops/booking-api/pkg/errors"
	"github.com/detailops/booking-api/pkg/httputil"
)

type Handler struct {
	service *booking.Service
}

func NewHandler(service *booking.Service) *Handler {
	return &Handler{service: service}
}

// CreateBooking books an appointment. The request id set by the request-id
// middleware is the idempotency key: clients that retry with the same
// X-Request-ID get the original appointment back instead of a double
// booking.
func (h *Handler) CreateBooking(c *gin.Context) {
	var req model.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.Validation("invalid booking request", err))
		return
	}

	apt, err := h.service.CreateBooking(c.Request.Context(), &req, c.GetString(middleware.ContextRequestID))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, apt)
}

func (h *Handler) GetBooking(c *gin.Context) {
	apt := h.service.Get(c.Param("id"))
	if apt == nil {
		httputil.RespondWithError(c, errors.NotFound("booking", nil))
		return
	}
	httputil.RespondWithSuccess(c, apt)
}

// ListBookings serves both projections: by business_id or by customer
// email, whichever the caller filters on.
func (h *Handler) ListBookings(c *gin.Context) {
	if businessID := c.Query("business_id"); businessID != "" {
		httputil.RespondWithSuccess(c, h.service.ListForBusiness(businessID))
		return
	}
	if email := c.Query("email"); email != "" {
		httputil.RespondWithSuccess(c, h.service.ListForCustomer(email))
		return
	}
	httputil.RespondWithError(c, errors.Validation("business_id or email query parameter is required", nil))
}

func (h *Handler) CancelBooking(c *gin.Context) {
	if err := h.service.CancelBooking(c.Request.Context(), c.Param("id")); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, nil)
}

// GetSlots lists candidate start times for a service on a date.
func (h *Handler) GetSlots(c *gin.Context) {
	businessID := c.Query("business_id")
	serviceID := c.Query("service_id")
	if businessID == "" || serviceID == "" {
		httputil.RespondWithError(c, errors.Validation("business_id and service_id query parameters are required", nil))
		return
	}

	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		httputil.RespondWithError(c, errors.Validation("date must be formatted as YYYY-MM-DD", err))
		return
	}

	slots, err := h.service.AvailableSlots(c.Request.Context(), businessID, serviceID, date)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, slots)
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	bookings := r.Group("/bookings")
	{
		bookings.POST("", h.CreateBooking)
		bookings.GET("", h.ListBookings)
		bookings.GET("/:id", h.GetBooking)
		bookings.DELETE("/:id", h.CancelBooking)
	}
	r.GET("/slots", h.GetSlots)
}
