package crm

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/square15/backend/internal/domain/shared"
)

// CampaignFilter defines filtering options for campaign queries
type CampaignFilter struct {
	shared.Filter
	Status   *CampaignStatus   // Filter by status
	Audience *CampaignAudience // Filter by audience
	FromDate *time.Time        // Filter by creation date range start
	ToDate   *time.Time        // Filter by creation date range end
}

// CampaignRepository defines the interface for campaign persistence
type CampaignRepository interface {
	// FindByID finds a campaign by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Campaign, error)

	// FindByIDForTenant finds a campaign by ID for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Campaign, error)

	// FindByCampaignNumber finds by campaign number for a tenant
	FindByCampaignNumber(ctx context.Context, tenantID uuid.UUID, campaignNumber string) (*Campaign, error)

	// FindAllForTenant finds all campaigns for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter CampaignFilter) ([]Campaign, error)

	// FindDueForDispatch finds scheduled campaigns whose send time has arrived
	FindDueForDispatch(ctx context.Context, asOf time.Time, limit int) ([]Campaign, error)

	// Save creates or updates a campaign
	Save(ctx context.Context, campaign *Campaign) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, campaign *Campaign) error

	// DeleteForTenant soft deletes a campaign for a tenant
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error

	// CountForTenant counts campaigns for a tenant with optional filters
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter CampaignFilter) (int64, error)

	// GenerateCampaignNumber generates the next campaign number for a tenant
	GenerateCampaignNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
}
