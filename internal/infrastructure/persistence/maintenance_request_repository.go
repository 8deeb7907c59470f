package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/square15/backend/internal/domain/property"
	"github.com/square15/backend/internal/domain/shared"
	"github.com/square15/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormMaintenanceRequestRepository implements MaintenanceRequestRepository using GORM
type GormMaintenanceRequestRepository struct {
	db *gorm.DB
}

// NewGormMaintenanceRequestRepository creates a new GormMaintenanceRequestRepository
func NewGormMaintenanceRequestRepository(db *gorm.DB) *GormMaintenanceRequestRepository {
	return &GormMaintenanceRequestRepository{db: db}
}

var _ property.MaintenanceRequestRepository = (*GormMaintenanceRequestRepository)(nil)

// FindByID finds a maintenance request by its ID
func (r *GormMaintenanceRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*property.MaintenanceRequest, error) {
	var model models.MaintenanceRequestModel
	if err := r.db.WithContext(ctx).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForTenant finds a maintenance request by ID for a specific tenant
func (r *GormMaintenanceRequestRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*property.MaintenanceRequest, error) {
	var model models.MaintenanceRequestModel
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

// FindByRequestNumber finds by request number for a tenant
func (r *GormMaintenanceRequestRepository) FindByRequestNumber(ctx context.Context, tenantID uuid.UUID, requestNumber string) (*property.MaintenanceRequest, error) {
	var model models.MaintenanceRequestModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND request_number = ?", tenantID, requestNumber).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds all maintenance requests for a tenant with filtering
func (r *GormMaintenanceRequestRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter property.MaintenanceRequestFilter) ([]property.MaintenanceRequest, error) {
	var requestModels []models.MaintenanceRequestModel
	query := r.db.WithContext(ctx).Model(&models.MaintenanceRequestModel{}).
		Where("tenant_id = ?", tenantID)
	query = r.applyMaintenanceFilter(query, filter)

	if err := query.Find(&requestModels).Error; err != nil {
		return nil, err
	}
	requests := make([]property.MaintenanceRequest, len(requestModels))
	for i, model := range requestModels {
		requests[i] = *model.ToDomain()
	}
	return requests, nil
}

// FindOpenByPriority finds non-terminal requests at a priority
func (r *GormMaintenanceRequestRepository) FindOpenByPriority(ctx context.Context, tenantID uuid.UUID, priority property.MaintenancePriority) ([]property.MaintenanceRequest, error) {
	var requestModels []models.MaintenanceRequestModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND priority = ? AND status NOT IN ?", tenantID, priority,
			[]property.MaintenanceStatus{property.MaintenanceStatusCompleted, property.MaintenanceStatusCancelled}).
		Order("created_at ASC").
		Find(&requestModels).Error; err != nil {
		return nil, err
	}
	requests := make([]property.MaintenanceRequest, len(requestModels))
	for i, model := range requestModels {
		requests[i] = *model.ToDomain()
	}
	return requests, nil
}

// Save creates or updates a maintenance request
func (r *GormMaintenanceRequestRepository) Save(ctx context.Context, request *property.MaintenanceRequest) error {
	model := models.MaintenanceRequestModelFromDomain(request)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves with optimistic locking
func (r *GormMaintenanceRequestRepository) SaveWithLock(ctx context.Context, request *property.MaintenanceRequest) error {
	model := models.MaintenanceRequestModelFromDomain(request)
	result := r.db.WithContext(ctx).
		Model(model).
		Where("id = ? AND version = ?", request.ID, request.Version-1).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "Record was changed by a concurrent update")
	}
	return nil
}

// DeleteForTenant soft deletes a maintenance request for a tenant
func (r *GormMaintenanceRequestRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.MaintenanceRequestModel{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountForTenant counts maintenance requests for a tenant
func (r *GormMaintenanceRequestRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter property.MaintenanceRequestFilter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.MaintenanceRequestModel{}).
		Where("tenant_id = ?", tenantID)
	query = r.applyMaintenanceFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumCompletedCostByPeriod sums actual costs of completed jobs within a period
func (r *GormMaintenanceRequestRepository) SumCompletedCostByPeriod(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&models.MaintenanceRequestModel{}).
		Select("COALESCE(SUM(actual_cost), 0) as total").
		Where("tenant_id = ? AND status = ? AND completed_at >= ? AND completed_at <= ?",
			tenantID, property.MaintenanceStatusCompleted, from, to).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// GenerateRequestNumber generates a unique maintenance request number
func (r *GormMaintenanceRequestRepository) GenerateRequestNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	// Format: MNT-YYYYMM-XXXXX
	period := time.Now().Format("200601")
	prefix := fmt.Sprintf("MNT-%s-", period)

	var maxNumber string
	if err := r.db.WithContext(ctx).
		Model(&models.MaintenanceRequestModel{}).
		Select("request_number").
		Where("tenant_id = ? AND request_number LIKE ?", tenantID, prefix+"%").
		Order("request_number DESC").
		Limit(1).
		Pluck("request_number", &maxNumber).Error; err != nil {
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

// applyMaintenanceFilter applies filter options to the query
func (r *GormMaintenanceRequestRepository) applyMaintenanceFilter(query *gorm.DB, filter property.MaintenanceRequestFilter) *gorm.DB {
	query = r.applyMaintenanceFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderBy := ValidateSortField(filter.OrderBy, MaintenanceRequestSortFields, "created_at")
		query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

// applyMaintenanceFilterWithoutPagination applies filter options without pagination
func (r *GormMaintenanceRequestRepository) applyMaintenanceFilterWithoutPagination(query *gorm.DB, filter property.MaintenanceRequestFilter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("request_number ILIKE ? OR customer_name ILIKE ? OR title ILIKE ? OR unit_code ILIKE ?",
			searchPattern, searchPattern, searchPattern, searchPattern)
	}

	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		query = query.Where("priority = ?", *filter.Priority)
	}
	if filter.UnitCode != "" {
		query = query.Where("unit_code = ?", filter.UnitCode)
	}
	if filter.FromDate != nil {
		query = query.Where("created_at >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("created_at <= ?", *filter.ToDate)
	}

	return query
}
