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

// GormLiabilityRepository implements LiabilityRepository using GORM
type GormLiabilityRepository struct {
	db *gorm.DB
}

// NewGormLiabilityRepository creates a new GormLiabilityRepository
func NewGormLiabilityRepository(db *gorm.DB) *GormLiabilityRepository {
	return &GormLiabilityRepository{db: db}
}

var _ asset.LiabilityRepository = (*GormLiabilityRepository)(nil)

// FindByID finds a liability by its ID
func (r *GormLiabilityRepository) FindByID(ctx context.Context, id uuid.UUID) (*asset.Liability, error) {
	var model models.LiabilityModel
	if err := r.db.WithContext(ctx).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForTenant finds a liability by ID for a specific tenant
func (r *GormLiabilityRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*asset.Liability, error) {
	var model models.LiabilityModel
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

// FindByLiabilityNumber finds by liability number for a tenant
func (r *GormLiabilityRepository) FindByLiabilityNumber(ctx context.Context, tenantID uuid.UUID, liabilityNumber string) (*asset.Liability, error) {
	var model models.LiabilityModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND liability_number = ?", tenantID, liabilityNumber).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds all liabilities for a tenant with filtering
func (r *GormLiabilityRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter asset.LiabilityFilter) ([]asset.Liability, error) {
	var liabilityModels []models.LiabilityModel
	query := r.db.WithContext(ctx).Model(&models.LiabilityModel{}).
		Where("tenant_id = ?", tenantID)
	query = r.applyLiabilityFilter(query, filter)

	if err := query.Find(&liabilityModels).Error; err != nil {
		return nil, err
	}
	liabilities := make([]asset.Liability, len(liabilityModels))
	for i, model := range liabilityModels {
		liabilities[i] = *model.ToDomain()
	}
	return liabilities, nil
}

// Save creates or updates a liability
func (r *GormLiabilityRepository) Save(ctx context.Context, liability *asset.Liability) error {
	model := models.LiabilityModelFromDomain(liability)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves with optimistic locking
func (r *GormLiabilityRepository) SaveWithLock(ctx context.Context, liability *asset.Liability) error {
	model := models.LiabilityModelFromDomain(liability)
	result := r.db.WithContext(ctx).
		Model(model).
		Where("id = ? AND version = ?", liability.ID, liability.Version-1).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "Record was changed by a concurrent update")
	}
	return nil
}

// DeleteForTenant soft deletes a liability for a tenant
func (r *GormLiabilityRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.LiabilityModel{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountForTenant counts liabilities for a tenant
func (r *GormLiabilityRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter asset.LiabilityFilter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.LiabilityModel{}).
		Where("tenant_id = ?", tenantID)
	query = r.applyLiabilityFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumOutstanding sums open liability balances for a tenant
func (r *GormLiabilityRepository) SumOutstanding(ctx context.Context, tenantID uuid.UUID) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&models.LiabilityModel{}).
		Select("COALESCE(SUM(outstanding), 0) as total").
		Where("tenant_id = ? AND status = ?", tenantID, asset.LiabilityStatusOpen).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// GenerateLiabilityNumber generates a unique liability number
func (r *GormLiabilityRepository) GenerateLiabilityNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	// Format: LIA-YYYYMM-XXXXX
	period := time.Now().Format("200601")
	prefix := fmt.Sprintf("LIA-%s-", period)

	var maxNumber string
	if err := r.db.WithContext(ctx).
		Model(&models.LiabilityModel{}).
		Select("liability_number").
		Where("tenant_id = ? AND liability_number LIKE ?", tenantID, prefix+"%").
		Order("liability_number DESC").
		Limit(1).
		Pluck("liability_number", &maxNumber).Error; err != nil {
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

// applyLiabilityFilter applies filter options to the query
func (r *GormLiabilityRepository) applyLiabilityFilter(query *gorm.DB, filter asset.LiabilityFilter) *gorm.DB {
	query = r.applyLiabilityFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderBy := ValidateSortField(filter.OrderBy, LiabilitySortFields, "created_at")
		query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

// applyLiabilityFilterWithoutPagination applies filter options without pagination
func (r *GormLiabilityRepository) applyLiabilityFilterWithoutPagination(query *gorm.DB, filter asset.LiabilityFilter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("liability_number ILIKE ? OR name ILIKE ? OR creditor ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.FromDate != nil {
		query = query.Where("incurred_at >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("incurred_at <= ?", *filter.ToDate)
	}

	return query
}
