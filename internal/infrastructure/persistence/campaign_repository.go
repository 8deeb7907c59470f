package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/square15/backend/internal/domain/crm"
	"github.com/square15/backend/internal/domain/shared"
	"github.com/square15/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormCampaignRepository implements CampaignRepository using GORM
type GormCampaignRepository struct {
	db *gorm.DB
}

// NewGormCampaignRepository creates a new GormCampaignRepository
func NewGormCampaignRepository(db *gorm.DB) *GormCampaignRepository {
	return &GormCampaignRepository{db: db}
}

var _ crm.CampaignRepository = (*GormCampaignRepository)(nil)

// FindByID finds a campaign by its ID
func (r *GormCampaignRepository) FindByID(ctx context.Context, id uuid.UUID) (*crm.Campaign, error) {
	var model models.CampaignModel
	if err := r.db.WithContext(ctx).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForTenant finds a campaign by ID for a specific tenant
func (r *GormCampaignRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*crm.Campaign, error) {
	var model models.CampaignModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCampaignNumber finds by campaign number for a tenant
func (r *GormCampaignRepository) FindByCampaignNumber(ctx context.Context, tenantID uuid.UUID, campaignNumber string) (*crm.Campaign, error) {
	var model models.CampaignModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND campaign_number = ?", tenantID, campaignNumber).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds all campaigns for a tenant with filtering
func (r *GormCampaignRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter crm.CampaignFilter) ([]crm.Campaign, error) {
	var campaignModels []models.CampaignModel
	query := r.db.WithContext(ctx).Model(&models.CampaignModel{}).
		Where("tenant_id = ?", tenantID)
	query = r.applyCampaignFilter(query, filter)

	if err := query.Find(&campaignModels).Error; err != nil {
		return nil, err
	}
	campaigns := make([]crm.Campaign, len(campaignModels))
	for i, model := range campaignModels {
		campaigns[i] = *model.ToDomain()
	}
	return campaigns, nil
}

// FindDueForDispatch finds scheduled campaigns whose send time has arrived.
// Runs across tenants, so callers must not expose results without scoping.
func (r *GormCampaignRepository) FindDueForDispatch(ctx context.Context, asOf time.Time, limit int) ([]crm.Campaign, error) {
	var campaignModels []models.CampaignModel
	query := r.db.WithContext(ctx).
		Where("status = ? AND scheduled_for <= ?", crm.CampaignStatusScheduled, asOf).
		Order("scheduled_for ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&campaignModels).Error; err != nil {
		return nil, err
	}
	campaigns := make([]crm.Campaign, len(campaignModels))
	for i, model := range campaignModels {
		campaigns[i] = *model.ToDomain()
	}
	return campaigns, nil
}

// Save creates or updates a campaign
func (r *GormCampaignRepository) Save(ctx context.Context, campaign *crm.Campaign) error {
	model := models.CampaignModelFromDomain(campaign)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves with optimistic locking
func (r *GormCampaignRepository) SaveWithLock(ctx context.Context, campaign *crm.Campaign) error {
	model := models.CampaignModelFromDomain(campaign)
	result := r.db.WithContext(ctx).
		Model(model).
		Where("id = ? AND version = ?", campaign.ID, campaign.Version-1).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "Record was changed by a concurrent update")
	}
	return nil
}

// DeleteForTenant soft deletes a campaign for a tenant
func (r *GormCampaignRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.CampaignModel{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountForTenant counts campaigns for a tenant
func (r *GormCampaignRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter crm.CampaignFilter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.CampaignModel{}).
		Where("tenant_id = ?", tenantID)
	query = r.applyCampaignFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GenerateCampaignNumber generates a unique campaign number
func (r *GormCampaignRepository) GenerateCampaignNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	// Format: CMP-YYYYMM-XXXXX
	period := time.Now().Format("200601")
	prefix := fmt.Sprintf("CMP-%s-", period)

	var maxNumber string
	if err := r.db.WithContext(ctx).
		Model(&models.CampaignModel{}).
		Select("campaign_number").
		Where("tenant_id = ? AND campaign_number LIKE ?", tenantID, prefix+"%").
		Order("campaign_number DESC").
		Limit(1).
		Pluck("campaign_number", &maxNumber).Error; err != nil {
		return "", err
	}

	var nextNum int
	if maxNumber != "" {
		parts := strings.Split(maxNumber, "-")
		if len(parts) == 3 {
			fmt.Sscanf(parts[2], "%d", &nextNum)
		}
	}
	nextNum++

	return fmt.Sprintf("%s%05d", prefix, nextNum), nil
}

// applyCampaignFilter applies filter options to the query
func (r *GormCampaignRepository) applyCampaignFilter(query *gorm.DB, filter crm.CampaignFilter) *gorm.DB {
	query = r.applyCampaignFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderBy := ValidateSortField(filter.OrderBy, CampaignSortFields, "created_at")
		query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

// applyCampaignFilterWithoutPagination applies filter options without pagination
func (r *GormCampaignRepository) applyCampaignFilterWithoutPagination(query *gorm.DB, filter crm.CampaignFilter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("campaign_number ILIKE ? OR name ILIKE ? OR subject ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Audience != nil {
		query = query.Where("audience = ?", *filter.Audience)
	}
	if filter.FromDate != nil {
		query = query.Where("created_at >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("created_at <= ?", *filter.ToDate)
	}

	return query
}
