package catalog

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/detailops/booking-api/internal/model"
	"github.com/detailops/booking-api/pkg/errors"
)

// Provider serves the service catalog from a seeded in-memory table,
// fronted by a short-lived read cache. The catalog is read-only from the
// core's perspective; seeding happens once at construction.
type Provider struct {
	services map[string][]model.Service // businessID -> services
	cache    *gocache.Cache
}

const (
	cacheTTL     = 5 * time.Minute
	cacheCleanup = 10 * time.Minute
)

func NewProvider(services []model.Service) *Provider {
	byBusiness := make(map[string][]model.Service)
	for _, svc := range services {
		byBusiness[svc.BusinessID] = append(byBusiness[svc.BusinessID], svc)
	}
	return &Provider{
		services: byBusiness,
		cache:    gocache.New(cacheTTL, cacheCleanup),
	}
}

func (p *Provider) ListServices(ctx context.Context, businessID string) ([]model.Service, error) {
	if cached, ok := p.cache.Get(businessID); ok {
		return cached.([]model.Service), nil
	}

	services, ok := p.services[businessID]
	if !ok {
		return nil, errors.NotFound("business", nil)
	}

	out := make([]model.Service, len(services))
	copy(out, services)
	p.cache.Set(businessID, out, gocache.DefaultExpiration)
	return out, nil
}

func (p *Provider) GetService(ctx context.Context, businessID, serviceID string) (*model.Service, error) {
	services, err := p.ListServices(ctx, businessID)
	if err != nil {
		return nil, err
	}
	for i := range services {
		if services[i].ID == serviceID {
			svc := services[i]
			return &svc, nil
		}
	}
	return nil, errors.NotFound("service", nil)
}

// DefaultCatalog seeds the catalog a single-location detailing shop ships
// with out of the box.
func DefaultCatalog(businessID string) []model.Service {
	return []model.Service{
		{ID: "svc-express-wash", BusinessID: businessID, Name: "Express Wash", Description: "Exterior hand wash and dry", Duration: 30, PriceCents: 2500, Category: model.CategoryWash},
		{ID: "svc-deluxe-wash", BusinessID: businessID, Name: "Deluxe Wash & Wax", Description: "Hand wash, dry and spray wax", Duration: 60, PriceCents: 4500, Category: model.CategoryWash},
		{ID: "svc-full-detail", BusinessID: businessID, Name: "Full Detail", Description: "Complete interior and exterior detail", Duration: 180, PriceCents: 19900, Category: model.CategoryDetailing},
		{ID: "svc-mini-detail", BusinessID: businessID, Name: "Mini Detail", Description: "Exterior wash plus interior wipe-down and vacuum", Duration: 90, PriceCents: 9900, Category: model.CategoryDetailing},
		{ID: "svc-interior-deep", BusinessID: businessID, Name: "Interior Deep Clean", Description: "Shampoo, steam and odor treatment", Duration: 120, PriceCents: 14900, Category: model.CategoryInterior},
		{ID: "svc-ceramic-coat", BusinessID: businessID, Name: "Ceramic Coating", Description: "Multi-year ceramic paint protection", Duration: 240, PriceCents: 79900, Category: model.CategoryCeramic},
		{ID: "svc-paint-correct", BusinessID: businessID, Name: "Paint Correction", Description: "Machine polish to remove swirls and scratches", Duration: 240, PriceCents: 49900, Category: model.CategoryPaint},
	}
}
