package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/square15/backend/internal/domain/payroll"
	"github.com/square15/backend/internal/domain/shared"
	"github.com/square15/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPayslipRepository implements PayslipRepository using GORM
type GormPayslipRepository struct {
	db *gorm.DB
}

// NewGormPayslipRepository creates a new GormPayslipRepository
func NewGormPayslipRepository(db *gorm.DB) *GormPayslipRepository {
	return &GormPayslipRepository{db: db}
}

var _ payroll.PayslipRepository = (*GormPayslipRepository)(nil)

// FindByID finds a payslip by its ID
func (r *GormPayslipRepository) FindByID(ctx context.Context, id uuid.UUID) (*payroll.Payslip, error) {
	var model models.PayslipModel
	if err := r.db.WithContext(ctx).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForTenant finds a payslip by ID for a specific tenant
func (r *GormPayslipRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*payroll.Payslip, error) {
	var model models.PayslipModel
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

// FindByPayslipNumber finds by payslip number for a tenant
func (r *GormPayslipRepository) FindByPayslipNumber(ctx context.Context, tenantID uuid.UUID, payslipNumber string) (*payroll.Payslip, error) {
	var model models.PayslipModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND payslip_number = ?", tenantID, payslipNumber).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByEmployeeAndPeriod finds the non-voided payslip for an employee in a period
func (r *GormPayslipRepository) FindByEmployeeAndPeriod(ctx context.Context, tenantID, employeeID uuid.UUID, year int, month time.Month) (*payroll.Payslip, error) {
	var model models.PayslipModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND employee_id = ? AND period_year = ? AND period_month = ? AND status <> ?",
			tenantID, employeeID, year, int(month), payroll.PayslipStatusVoided).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds all payslips for a tenant with filtering
func (r *GormPayslipRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter payroll.PayslipFilter) ([]payroll.Payslip, error) {
	var payslipModels []models.PayslipModel
	query := r.db.WithContext(ctx).Model(&models.PayslipModel{}).
		Where("tenant_id = ?", tenantID)
	query = r.applyPayslipFilter(query, filter)

	if err := query.Find(&payslipModels).Error; err != nil {
		return nil, err
	}
	payslips := make([]payroll.Payslip, len(payslipModels))
	for i, model := range payslipModels {
		payslips[i] = *model.ToDomain()
	}
	return payslips, nil
}

// Save creates or updates a payslip
func (r *GormPayslipRepository) Save(ctx context.Context, payslip *payroll.Payslip) error {
	model := models.PayslipModelFromDomain(payslip)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves with optimistic locking
func (r *GormPayslipRepository) SaveWithLock(ctx context.Context, payslip *payroll.Payslip) error {
	model := models.PayslipModelFromDomain(payslip)
	result := r.db.WithContext(ctx).
		Model(model).
		Where("id = ? AND version = ?", payslip.ID, payslip.Version-1).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "Record was changed by a concurrent update")
	}
	return nil
}

// DeleteForTenant soft deletes a payslip for a tenant
func (r *GormPayslipRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.PayslipModel{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountForTenant counts payslips for a tenant
func (r *GormPayslipRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter payroll.PayslipFilter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.PayslipModel{}).
		Where("tenant_id = ?", tenantID)
	query = r.applyPayslipFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumPeriodTotals aggregates statutory amounts for a payroll period,
// voided payslips excluded
func (r *GormPayslipRepository) SumPeriodTotals(ctx context.Context, tenantID uuid.UUID, year int, month time.Month) (payroll.PeriodTotals, error) {
	var result struct {
		GrossPay decimal.Decimal
		PAYE     decimal.Decimal
		UIFTotal decimal.Decimal
		SDL      decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&models.PayslipModel{}).
		Select("COALESCE(SUM(gross_pay), 0) as gross_pay, COALESCE(SUM(paye), 0) as paye, COALESCE(SUM(uif_employee + uif_employer), 0) as uif_total, COALESCE(SUM(sdl), 0) as sdl").
		Where("tenant_id = ? AND period_year = ? AND period_month = ? AND status <> ?",
			tenantID, year, int(month), payroll.PayslipStatusVoided).
		Scan(&result).Error; err != nil {
		return payroll.PeriodTotals{}, err
	}
	return payroll.PeriodTotals{
		GrossPay: result.GrossPay,
		PAYE:     result.PAYE,
		UIFTotal: result.UIFTotal,
		SDL:      result.SDL,
	}, nil
}

// GeneratePayslipNumber generates a unique payslip number
func (r *GormPayslipRepository) GeneratePayslipNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	// Format: PAY-YYYYMM-XXXXX
	period := time.Now().Format("200601")
	prefix := fmt.Sprintf("PAY-%s-", period)

	var maxNumber string
	if err := r.db.WithContext(ctx).
		Model(&models.PayslipModel{}).
		Select("payslip_number").
		Where("tenant_id = ? AND payslip_number LIKE ?", tenantID, prefix+"%").
		Order("payslip_number DESC").
		Limit(1).
		Pluck("payslip_number", &maxNumber).Error; err != nil {
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

// applyPayslipFilter applies filter options to the query
func (r *GormPayslipRepository) applyPayslipFilter(query *gorm.DB, filter payroll.PayslipFilter) *gorm.DB {
	query = r.applyPayslipFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderBy := ValidateSortField(filter.OrderBy, PayslipSortFields, "created_at")
		query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

// applyPayslipFilterWithoutPagination applies filter options without pagination
func (r *GormPayslipRepository) applyPayslipFilterWithoutPagination(query *gorm.DB, filter payroll.PayslipFilter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("payslip_number ILIKE ? OR employee_name ILIKE ? OR employee_number ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	if filter.EmployeeID != nil {
		query = query.Where("employee_id = ?", *filter.EmployeeID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.PeriodYear != nil {
		query = query.Where("period_year = ?", *filter.PeriodYear)
	}
	if filter.PeriodMonth != nil {
		query = query.Where("period_month = ?", int(*filter.PeriodMonth))
	}

	return query
}
