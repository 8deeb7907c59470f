package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/square15/backend/internal/domain/finance"
	"github.com/square15/backend/internal/domain/shared"
	"github.com/square15/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAlternativeRevenueRepository implements AlternativeRevenueRepository using GORM
type GormAlternativeRevenueRepository struct {
	db *gorm.DB
}

// NewGormAlternativeRevenueRepository creates a new GormAlternativeRevenueRepository
func NewGormAlternativeRevenueRepository(db *gorm.DB) *GormAlternativeRevenueRepository {
	return &GormAlternativeRevenueRepository{db: db}
}

var _ finance.AlternativeRevenueRepository = (*GormAlternativeRevenueRepository)(nil)

// FindByID finds a revenue record by its ID
func (r *GormAlternativeRevenueRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.AlternativeRevenue, error) {
	var model models.AlternativeRevenueModel
	if err := r.db.WithContext(ctx).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForTenant finds a revenue record by ID for a specific tenant
func (r *GormAlternativeRevenueRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.AlternativeRevenue, error) {
	var model models.AlternativeRevenueModel
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

// FindByRevenueNumber finds by revenue number for a tenant
func (r *GormAlternativeRevenueRepository) FindByRevenueNumber(ctx context.Context, tenantID uuid.UUID, revenueNumber string) (*finance.AlternativeRevenue, error) {
	var model models.AlternativeRevenueModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND revenue_number = ?", tenantID, revenueNumber).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds all revenue records for a tenant with filtering
func (r *GormAlternativeRevenueRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter finance.AlternativeRevenueFilter) ([]finance.AlternativeRevenue, error) {
	var revenueModels []models.AlternativeRevenueModel
	query := r.db.WithContext(ctx).Model(&models.AlternativeRevenueModel{}).
		Where("tenant_id = ?", tenantID)
	query = r.applyRevenueFilter(query, filter)

	if err := query.Find(&revenueModels).Error; err != nil {
		return nil, err
	}
	revenues := make([]finance.AlternativeRevenue, len(revenueModels))
	for i, model := range revenueModels {
		revenues[i] = *model.ToDomain()
	}
	return revenues, nil
}

// Save creates or updates a revenue record
func (r *GormAlternativeRevenueRepository) Save(ctx context.Context, revenue *finance.AlternativeRevenue) error {
	model := models.AlternativeRevenueModelFromDomain(revenue)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves with optimistic locking
func (r *GormAlternativeRevenueRepository) SaveWithLock(ctx context.Context, revenue *finance.AlternativeRevenue) error {
	model := models.AlternativeRevenueModelFromDomain(revenue)
	result := r.db.WithContext(ctx).
		Model(model).
		Where("id = ? AND version = ?", revenue.ID, revenue.Version-1).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "Record was changed by a concurrent update")
	}
	return nil
}

// DeleteForTenant soft deletes a revenue record for a tenant
func (r *GormAlternativeRevenueRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.AlternativeRevenueModel{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountForTenant counts revenue records for a tenant
func (r *GormAlternativeRevenueRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter finance.AlternativeRevenueFilter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.AlternativeRevenueModel{}).
		Where("tenant_id = ?", tenantID)
	query = r.applyRevenueFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumConfirmedByPeriod sums confirmed revenue amounts within an earned-date period
func (r *GormAlternativeRevenueRepository) SumConfirmedByPeriod(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&models.AlternativeRevenueModel{}).
		Select("COALESCE(SUM(amount), 0) as total").
		Where("tenant_id = ? AND status = ? AND earned_at >= ? AND earned_at <= ?",
			tenantID, finance.RevenueStatusConfirmed, from, to).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// SumConfirmedByCategory sums confirmed revenue amounts per category within a period
func (r *GormAlternativeRevenueRepository) SumConfirmedByCategory(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]finance.CategoryTotal, error) {
	var rows []struct {
		Category string
		Total    decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&models.AlternativeRevenueModel{}).
		Select("category, COALESCE(SUM(amount), 0) as total").
		Where("tenant_id = ? AND status = ? AND earned_at >= ? AND earned_at <= ?",
			tenantID, finance.RevenueStatusConfirmed, from, to).
		Group("category").
		Order("category ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	totals := make([]finance.CategoryTotal, len(rows))
	for i, row := range rows {
		totals[i] = finance.CategoryTotal{Category: row.Category, Total: row.Total}
	}
	return totals, nil
}

// SumReceivedByPeriod sums received revenue amounts within a receipt-date period (cash basis)
func (r *GormAlternativeRevenueRepository) SumReceivedByPeriod(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&models.AlternativeRevenueModel{}).
		Select("COALESCE(SUM(amount), 0) as total").
		Where("tenant_id = ? AND receipt_status = ? AND received_at >= ? AND received_at <= ?",
			tenantID, finance.ReceiptStatusReceived, from, to).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// GenerateRevenueNumber generates a unique revenue number
func (r *GormAlternativeRevenueRepository) GenerateRevenueNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	// Format: REV-YYYYMM-XXXXX
	period := time.Now().Format("200601")
	prefix := fmt.Sprintf("REV-%s-", period)

	var maxNumber string
	if err := r.db.WithContext(ctx).
		Model(&models.AlternativeRevenueModel{}).
		Select("revenue_number").
		Where("tenant_id = ? AND revenue_number LIKE ?", tenantID, prefix+"%").
		Order("revenue_number DESC").
		Limit(1).
		Pluck("revenue_number", &maxNumber).Error; err != nil {
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

// applyRevenueFilter applies filter options to the query
func (r *GormAlternativeRevenueRepository) applyRevenueFilter(query *gorm.DB, filter finance.AlternativeRevenueFilter) *gorm.DB {
	query = r.applyRevenueFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderBy := ValidateSortField(filter.OrderBy, RevenueSortFields, "created_at")
		query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

// applyRevenueFilterWithoutPagination applies filter options without pagination
func (r *GormAlternativeRevenueRepository) applyRevenueFilterWithoutPagination(query *gorm.DB, filter finance.AlternativeRevenueFilter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("revenue_number ILIKE ? OR description ILIKE ?",
			searchPattern, searchPattern)
	}

	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.ReceiptStatus != nil {
		query = query.Where("receipt_status = ?", *filter.ReceiptStatus)
	}
	if filter.FromDate != nil {
		query = query.Where("earned_at >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("earned_at <= ?", *filter.ToDate)
	}

	return query
}
