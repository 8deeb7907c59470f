package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/square15/backend/internal/domain/asset"
	"github.com/square15/backend/internal/domain/shared"
	"github.com/square15/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAssetRepository implements AssetRepository using GORM
type GormAssetRepository struct {
	db *gorm.DB
}

// NewGormAssetRepository creates a new GormAssetRepository
func NewGormAssetRepository(db *gorm.DB) *GormAssetRepository {
	return &GormAssetRepository{db: db}
}

var _ asset.AssetRepository = (*GormAssetRepository)(nil)

// FindByID finds an asset by its ID
func (r *GormAssetRepository) FindByID(ctx context.Context, id uuid.UUID) (*asset.Asset, error) {
	var model models.AssetModel
	if err := r.db.WithContext(ctx).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForTenant finds an asset by ID for a specific tenant
func (r *GormAssetRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*asset.Asset, error) {
	var model models.AssetModel
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

// FindByAssetNumber finds by asset number for a tenant
func (r *GormAssetRepository) FindByAssetNumber(ctx context.Context, tenantID uuid.UUID, assetNumber string) (*asset.Asset, error) {
	var model models.AssetModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND asset_number = ?", tenantID, assetNumber).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds all assets for a tenant with filtering
func (r *GormAssetRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter asset.AssetFilter) ([]asset.Asset, error) {
	var assetModels []models.AssetModel
	query := r.db.WithContext(ctx).Model(&models.AssetModel{}).
		Where("tenant_id = ?", tenantID)
	query = r.applyAssetFilter(query, filter)

	if err := query.Find(&assetModels).Error; err != nil {
		return nil, err
	}
	assets := make([]asset.Asset, len(assetModels))
	for i, model := range assetModels {
		assets[i] = *model.ToDomain()
	}
	return assets, nil
}

// FindActiveForTenant finds all active assets for a tenant
func (r *GormAssetRepository) FindActiveForTenant(ctx context.Context, tenantID uuid.UUID) ([]asset.Asset, error) {
	var assetModels []models.AssetModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND status = ?", tenantID, asset.AssetStatusActive).
		Order("acquired_at ASC").
		Find(&assetModels).Error; err != nil {
		return nil, err
	}
	assets := make([]asset.Asset, len(assetModels))
	for i, model := range assetModels {
		assets[i] = *model.ToDomain()
	}
	return assets, nil
}

// FindDepreciableForTenant finds active assets plus those disposed of after
// the given date. Disposed assets keep accruing depreciation up to their
// disposal date, so period roll-ups need them too.
func (r *GormAssetRepository) FindDepreciableForTenant(ctx context.Context, tenantID uuid.UUID, after time.Time) ([]asset.Asset, error) {
	var assetModels []models.AssetModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND (status = ? OR disposed_at > ?)", tenantID, asset.AssetStatusActive, after).
		Order("acquired_at ASC").
		Find(&assetModels).Error; err != nil {
		return nil, err
	}
	assets := make([]asset.Asset, len(assetModels))
	for i, model := range assetModels {
		assets[i] = *model.ToDomain()
	}
	return assets, nil
}

// Save creates or updates an asset
func (r *GormAssetRepository) Save(ctx context.Context, a *asset.Asset) error {
	model := models.AssetModelFromDomain(a)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves with optimistic locking
func (r *GormAssetRepository) SaveWithLock(ctx context.Context, a *asset.Asset) error {
	model := models.AssetModelFromDomain(a)
	result := r.db.WithContext(ctx).
		Model(model).
		Where("id = ? AND version = ?", a.ID, a.Version-1).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "Record was changed by a concurrent update")
	}
	return nil
}

// DeleteForTenant soft deletes an asset for a tenant
func (r *GormAssetRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.AssetModel{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountForTenant counts assets for a tenant
func (r *GormAssetRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter asset.AssetFilter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.AssetModel{}).
		Where("tenant_id = ?", tenantID)
	query = r.applyAssetFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumAcquisitionCost sums acquisition cost of active assets for a tenant
func (r *GormAssetRepository) SumAcquisitionCost(ctx context.Context, tenantID uuid.UUID) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&models.AssetModel{}).
		Select("COALESCE(SUM(acquisition_cost), 0) as total").
		Where("tenant_id = ? AND status = ?", tenantID, asset.AssetStatusActive).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// GenerateAssetNumber generates a unique asset number
func (r *GormAssetRepository) GenerateAssetNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	// Format: AST-YYYYMM-XXXXX
	period := time.Now().Format("200601")
	prefix := fmt.Sprintf("AST-%s-", period)

	var maxNumber string
	if err := r.db.WithContext(ctx).
		Model(&models.AssetModel{}).
		Select("asset_number").
		Where("tenant_id = ? AND asset_number LIKE ?", tenantID, prefix+"%").
		Order("asset_number DESC").
		Limit(1).
		Pluck("asset_number", &maxNumber).Error; err != nil {
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

// applyAssetFilter applies filter options to the query
func (r *GormAssetRepository) applyAssetFilter(query *gorm.DB, filter asset.AssetFilter) *gorm.DB {
	query = r.applyAssetFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderBy := ValidateSortField(filter.OrderBy, AssetSortFields, "created_at")
		query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

// applyAssetFilterWithoutPagination applies filter options without pagination
func (r *GormAssetRepository) applyAssetFilterWithoutPagination(query *gorm.DB, filter asset.AssetFilter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("asset_number ILIKE ? OR name ILIKE ? OR serial_number ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.AcquiredFrom != nil {
		query = query.Where("acquired_at >= ?", *filter.AcquiredFrom)
	}
	if filter.AcquiredTo != nil {
		query = query.Where("acquired_at <= ?", *filter.AcquiredTo)
	}

	return query
}
