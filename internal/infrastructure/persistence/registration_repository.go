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

// GormRegistrationRepository implements RegistrationRepository using GORM
type GormRegistrationRepository struct {
	db *gorm.DB
}

// NewGormRegistrationRepository creates a new GormRegistrationRepository
func NewGormRegistrationRepository(db *gorm.DB) *GormRegistrationRepository {
	return &GormRegistrationRepository{db: db}
}

var _ property.RegistrationRepository = (*GormRegistrationRepository)(nil)

// FindByID finds a registration by its ID
func (r *GormRegistrationRepository) FindByID(ctx context.Context, id uuid.UUID) (*property.Registration, error) {
	var model models.RegistrationModel
	if err := r.db.WithContext(ctx).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForTenant finds a registration by ID for a specific tenant
func (r *GormRegistrationRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*property.Registration, error) {
	var model models.RegistrationModel
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

// FindByRegistrationNumber finds by registration number for a tenant
func (r *GormRegistrationRepository) FindByRegistrationNumber(ctx context.Context, tenantID uuid.UUID, registrationNumber string) (*property.Registration, error) {
	var model models.RegistrationModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND registration_number = ?", tenantID, registrationNumber).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds all registrations for a tenant with filtering
func (r *GormRegistrationRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter property.RegistrationFilter) ([]property.Registration, error) {
	var registrationModels []models.RegistrationModel
	query := r.db.WithContext(ctx).Model(&models.RegistrationModel{}).
		Where("tenant_id = ?", tenantID)
	query = r.applyRegistrationFilter(query, filter)

	if err := query.Find(&registrationModels).Error; err != nil {
		return nil, err
	}
	registrations := make([]property.Registration, len(registrationModels))
	for i, model := range registrationModels {
		registrations[i] = *model.ToDomain()
	}
	return registrations, nil
}

// FindActiveByUnit finds the approved registration occupying a unit
func (r *GormRegistrationRepository) FindActiveByUnit(ctx context.Context, tenantID uuid.UUID, unitCode string) (*property.Registration, error) {
	var model models.RegistrationModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND unit_code = ? AND status = ?", tenantID, unitCode, property.RegistrationStatusApproved).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindActiveForBilling finds approved registrations billable on a date
func (r *GormRegistrationRepository) FindActiveForBilling(ctx context.Context, tenantID uuid.UUID, asOf time.Time) ([]property.Registration, error) {
	var registrationModels []models.RegistrationModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND status = ? AND start_date <= ? AND (end_date IS NULL OR end_date >= ?)",
			tenantID, property.RegistrationStatusApproved, asOf, asOf).
		Order("unit_code ASC").
		Find(&registrationModels).Error; err != nil {
		return nil, err
	}
	registrations := make([]property.Registration, len(registrationModels))
	for i, model := range registrationModels {
		registrations[i] = *model.ToDomain()
	}
	return registrations, nil
}

// Save creates or updates a registration
func (r *GormRegistrationRepository) Save(ctx context.Context, registration *property.Registration) error {
	model := models.RegistrationModelFromDomain(registration)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves with optimistic locking
func (r *GormRegistrationRepository) SaveWithLock(ctx context.Context, registration *property.Registration) error {
	model := models.RegistrationModelFromDomain(registration)
	result := r.db.WithContext(ctx).
		Model(model).
		Where("id = ? AND version = ?", registration.ID, registration.Version-1).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "Record was changed by a concurrent update")
	}
	return nil
}

// DeleteForTenant soft deletes a registration for a tenant
func (r *GormRegistrationRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.RegistrationModel{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountForTenant counts registrations for a tenant
func (r *GormRegistrationRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter property.RegistrationFilter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.RegistrationModel{}).
		Where("tenant_id = ?", tenantID)
	query = r.applyRegistrationFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumActiveMonthlyAmount sums monthly amounts of approved registrations
func (r *GormRegistrationRepository) SumActiveMonthlyAmount(ctx context.Context, tenantID uuid.UUID) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&models.RegistrationModel{}).
		Select("COALESCE(SUM(monthly_amount), 0) as total").
		Where("tenant_id = ? AND status = ?", tenantID, property.RegistrationStatusApproved).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// GenerateRegistrationNumber generates a unique registration number
func (r *GormRegistrationRepository) GenerateRegistrationNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	// Format: REG-YYYYMM-XXXXX
	period := time.Now().Format("200601")
	prefix := fmt.Sprintf("REG-%s-", period)

	var maxNumber string
	if err := r.db.WithContext(ctx).
		Model(&models.RegistrationModel{}).
		Select("registration_number").
		Where("tenant_id = ? AND registration_number LIKE ?", tenantID, prefix+"%").
		Order("registration_number DESC").
		Limit(1).
		Pluck("registration_number", &maxNumber).Error; err != nil {
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

// applyRegistrationFilter applies filter options to the query
func (r *GormRegistrationRepository) applyRegistrationFilter(query *gorm.DB, filter property.RegistrationFilter) *gorm.DB {
	query = r.applyRegistrationFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderBy := ValidateSortField(filter.OrderBy, RegistrationSortFields, "created_at")
		query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

// applyRegistrationFilterWithoutPagination applies filter options without pagination
func (r *GormRegistrationRepository) applyRegistrationFilterWithoutPagination(query *gorm.DB, filter property.RegistrationFilter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("registration_number ILIKE ? OR customer_name ILIKE ? OR unit_code ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.UnitType != nil {
		query = query.Where("unit_type = ?", *filter.UnitType)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.UnitCode != "" {
		query = query.Where("unit_code = ?", filter.UnitCode)
	}

	return query
}
