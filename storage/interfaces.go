package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"growth-hub/models"
)

// ErrNotFound is returned when a business does not exist or belongs to
// another owner.
var ErrNotFound = errors.New("storage: not found")

// BusinessStore persists the businesses analyses run for.
type BusinessStore interface {
	CreateBusiness(ctx context.Context, b *models.Business) error
	GetBusiness(ctx context.Context, id, ownerID int64) (*models.Business, error)
	ListBusinesses(ctx context.Context) ([]models.Business, error)
	ListOwnerBusinesses(ctx context.Context, ownerID int64) ([]models.Business, error)
}

// AnalysisStore persists the output of analysis runs. Replace* calls supersede
// whatever an earlier run stored for the business.
type AnalysisStore interface {
	SaveProducts(ctx context.Context, businessID int64, runID uuid.UUID, listings []models.Listing) error
	ReplaceAnalytics(ctx context.Context, businessID int64, analytics []models.PlatformAnalytic) error
	ReplaceInsights(ctx context.Context, businessID int64, insights []models.Insight) error
	ListAnalytics(ctx context.Context, businessID int64) ([]models.PlatformAnalytic, error)
	ListInsights(ctx context.Context, businessID int64) ([]models.Insight, error)
}

// Store is the interface any database backend must satisfy.
type Store interface {
	BusinessStore
	AnalysisStore
	Close() error
}

// RawListingWriter is the interface for persisting unprocessed collector output.
type RawListingWriter interface {
	WriteRaw(listings []models.RawListing) error
	Close() error
}
