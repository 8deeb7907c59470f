package asset

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/square15/backend/internal/domain/shared"
)

// AssetFilter defines filtering options for asset queries
type AssetFilter struct {
	shared.Filter
	Category     *AssetCategory // Filter by category
	Status       *AssetStatus   // Filter by status
	AcquiredFrom *time.Time     // Filter by acquisition date range start
	AcquiredTo   *time.Time     // Filter by acquisition date range end
}

// AssetRepository defines the interface for asset persistence
type AssetRepository interface {
	// FindByID finds an asset by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Asset, error)

	// FindByIDForTenant finds an asset by ID for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Asset, error)

	// FindByAssetNumber finds by asset number for a tenant
	FindByAssetNumber(ctx context.Context, tenantID uuid.UUID, assetNumber string) (*Asset, error)

	// FindAllForTenant finds all assets for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter AssetFilter) ([]Asset, error)

	// FindActiveForTenant finds all active assets for a tenant
	FindActiveForTenant(ctx context.Context, tenantID uuid.UUID) ([]Asset, error)

	// FindDepreciableForTenant finds assets still accruing depreciation at
	// some point after the given date: active assets plus those disposed of
	// or written off after it
	FindDepreciableForTenant(ctx context.Context, tenantID uuid.UUID, after time.Time) ([]Asset, error)

	// Save creates or updates an asset
	Save(ctx context.Context, asset *Asset) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, asset *Asset) error

	// DeleteForTenant soft deletes an asset for a tenant
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error

	// CountForTenant counts assets for a tenant with optional filters
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter AssetFilter) (int64, error)

	// SumAcquisitionCost sums acquisition cost of active assets for a tenant
	SumAcquisitionCost(ctx context.Context, tenantID uuid.UUID) (decimal.Decimal, error)

	// GenerateAssetNumber generates the next asset number for a tenant
	GenerateAssetNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
}

// LiabilityFilter defines filtering options for liability queries
type LiabilityFilter struct {
	shared.Filter
	Type     *LiabilityType   // Filter by liability type
	Status   *LiabilityStatus // Filter by status
	FromDate *time.Time       // Filter by incurred date range start
	ToDate   *time.Time       // Filter by incurred date range end
}

// LiabilityRepository defines the interface for liability persistence
type LiabilityRepository interface {
	// FindByID finds a liability by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Liability, error)

	// FindByIDForTenant finds a liability by ID for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Liability, error)

	// FindByLiabilityNumber finds by liability number for a tenant
	FindByLiabilityNumber(ctx context.Context, tenantID uuid.UUID, liabilityNumber string) (*Liability, error)

	// FindAllForTenant finds all liabilities for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter LiabilityFilter) ([]Liability, error)

	// Save creates or updates a liability
	Save(ctx context.Context, liability *Liability) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, liability *Liability) error

	// DeleteForTenant soft deletes a liability for a tenant
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error

	// CountForTenant counts liabilities for a tenant with optional filters
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter LiabilityFilter) (int64, error)

	// SumOutstanding sums open liability balances for a tenant
	SumOutstanding(ctx context.Context, tenantID uuid.UUID) (decimal.Decimal, error)

	// GenerateLiabilityNumber generates the next liability number for a tenant
	GenerateLiabilityNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
}
