package repository

import (
	"context"

	"github.com/detailops/booking-api/internal/model"
)

// All repository interfaces in one file
type (
	// KVStore is the abstract persistence the ledger writes through. The
	// ledger is agnostic to the medium; implementations include memory,
	// redis and postgres. Load returns ErrKeyNotFound for a missing key.
	KVStore interface {
		Load(ctx context.Context, key string) ([]byte, error)
		Save(ctx context.Context, key string, value []byte) error
	}

	// CatalogProvider exposes the service catalog, read-only.
	CatalogProvider interface {
		ListServices(ctx context.Context, businessID string) ([]model.Service, error)
		GetService(ctx context.Context, businessID, serviceID string) (*model.Service, error)
	}
)
