package catalog

import (
	"github.com/gin-gonic/gin"

	"github.com/detailops/booking-api/internal/repository"
	"github.com/detailops/booking-api/pkg/errors"
	"github.com/detailops/booking-api/pkg/httputil"
)

type Handler struct {
	catalog repository.CatalogProvider
}

func NewHandler(catalog repository.CatalogProvider) *Handler {
	return &Handler{catalog: catalog}
}

func (h *Handler) ListServices(c *gin.Context) {
	businessID := c.Query("business_id")
	if businessID == "" {
		httputil.RespondWithError(c, errors.Validation("business_id query parameter is required", nil))
		return
	}

	services, err := h.catalog.ListServices(c.Request.Context(), businessID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, services)
}

func (h *Handler) GetService(c *gin.Context) {
	businessID := c.Query("business_id")
	if businessID == "" {
		httputil.RespondWithError(c, errors.Validation("business_id query parameter is required", nil))
		return
	}

	svc, err := h.catalog.GetService(c.Request.Context(), businessID, c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, svc)
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	services := r.Group("/services")
	{
		services.GET("", h.ListServices)
		services.GET("/:id", h.GetService)
	}
}
