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

// GormOperationalExpenseRepository implements OperationalExpenseRepository using GORM
type GormOperationalExpenseRepository struct {
	db *gorm.DB
}

// NewGormOperationalExpenseRepository creates a new GormOperationalExpenseRepository
func NewGormOperationalExpenseRepository(db *gorm.DB) *GormOperationalExpenseRepository {
	return &GormOperationalExpenseRepository{db: db}
}

var _ finance.OperationalExpenseRepository = (*GormOperationalExpenseRepository)(nil)

// FindByID finds an expense by its ID
func (r *GormOperationalExpenseRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.OperationalExpense, error) {
	var model models.OperationalExpenseModel
	if err := r.db.WithContext(ctx).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForTenant finds an expense by ID for a specific tenant
func (r *GormOperationalExpenseRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.OperationalExpense, error) {
	var model models.OperationalExpenseModel
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

// FindByExpenseNumber finds by expense number for a tenant
func (r *GormOperationalExpenseRepository) FindByExpenseNumber(ctx context.Context, tenantID uuid.UUID, expenseNumber string) (*finance.OperationalExpense, error) {
	var model models.OperationalExpenseModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND expense_number = ?", tenantID, expenseNumber).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds all expenses for a tenant with filtering
func (r *GormOperationalExpenseRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter finance.OperationalExpenseFilter) ([]finance.OperationalExpense, error) {
	var expenseModels []models.OperationalExpenseModel
	query := r.db.WithContext(ctx).Model(&models.OperationalExpenseModel{}).
		Where("tenant_id = ?", tenantID)
	query = r.applyExpenseFilter(query, filter)

	if err := query.Find(&expenseModels).Error; err != nil {
		return nil, err
	}
	expenses := make([]finance.OperationalExpense, len(expenseModels))
	for i, model := range expenseModels {
		expenses[i] = *model.ToDomain()
	}
	return expenses, nil
}

// Save creates or updates an expense
func (r *GormOperationalExpenseRepository) Save(ctx context.Context, expense *finance.OperationalExpense) error {
	model := models.OperationalExpenseModelFromDomain(expense)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves with optimistic locking
func (r *GormOperationalExpenseRepository) SaveWithLock(ctx context.Context, expense *finance.OperationalExpense) error {
	model := models.OperationalExpenseModelFromDomain(expense)
	result := r.db.WithContext(ctx).
		Model(model).
		Where("id = ? AND version = ?", expense.ID, expense.Version-1).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "Record was changed by a concurrent update")
	}
	return nil
}

// DeleteForTenant soft deletes an expense for a tenant
func (r *GormOperationalExpenseRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.OperationalExpenseModel{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountForTenant counts expenses for a tenant
func (r *GormOperationalExpenseRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter finance.OperationalExpenseFilter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.OperationalExpenseModel{}).
		Where("tenant_id = ?", tenantID)
	query = r.applyExpenseFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumApprovedByPeriod sums approved expense amounts within an incurred-date period
func (r *GormOperationalExpenseRepository) SumApprovedByPeriod(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&models.OperationalExpenseModel{}).
		Select("COALESCE(SUM(amount), 0) as total").
		Where("tenant_id = ? AND status = ? AND incurred_at >= ? AND incurred_at <= ?",
			tenantID, finance.ExpenseStatusApproved, from, to).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// SumApprovedByCategory sums approved expense amounts per category within a period
func (r *GormOperationalExpenseRepository) SumApprovedByCategory(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]finance.CategoryTotal, error) {
	var rows []struct {
		Category string
		Total    decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&models.OperationalExpenseModel{}).
		Select("category, COALESCE(SUM(amount), 0) as total").
		Where("tenant_id = ? AND status = ? AND incurred_at >= ? AND incurred_at <= ?",
			tenantID, finance.ExpenseStatusApproved, from, to).
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

// SumPaidByPeriod sums paid expense amounts within a payment-date period (cash basis)
func (r *GormOperationalExpenseRepository) SumPaidByPeriod(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&models.OperationalExpenseModel{}).
		Select("COALESCE(SUM(amount), 0) as total").
		Where("tenant_id = ? AND payment_status = ? AND paid_at >= ? AND paid_at <= ?",
			tenantID, finance.PaymentStatusPaid, from, to).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// GenerateExpenseNumber generates a unique expense number
func (r *GormOperationalExpenseRepository) GenerateExpenseNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	// Format: EXP-YYYYMM-XXXXX
	period := time.Now().Format("200601")
	prefix := fmt.Sprintf("EXP-%s-", period)

	var maxNumber string
	if err := r.db.WithContext(ctx).
		Model(&models.OperationalExpenseModel{}).
		Select("expense_number").
		Where("tenant_id = ? AND expense_number LIKE ?", tenantID, prefix+"%").
		Order("expense_number DESC").
		Limit(1).
		Pluck("expense_number", &maxNumber).Error; err != nil {
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

// applyExpenseFilter applies filter options to the query
func (r *GormOperationalExpenseRepository) applyExpenseFilter(query *gorm.DB, filter finance.OperationalExpenseFilter) *gorm.DB {
	query = r.applyExpenseFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderBy := ValidateSortField(filter.OrderBy, ExpenseSortFields, "created_at")
		query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

// applyExpenseFilterWithoutPagination applies filter options without pagination
func (r *GormOperationalExpenseRepository) applyExpenseFilterWithoutPagination(query *gorm.DB, filter finance.OperationalExpenseFilter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("expense_number ILIKE ? OR description ILIKE ?",
			searchPattern, searchPattern)
	}

	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.PaymentStatus != nil {
		query = query.Where("payment_status = ?", *filter.PaymentStatus)
	}
	if filter.FromDate != nil {
		query = query.Where("incurred_at >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("incurred_at <= ?", *filter.ToDate)
	}
	if filter.MinAmount != nil {
		query = query.Where("amount >= ?", *filter.MinAmount)
	}
	if filter.MaxAmount != nil {
		query = query.Where("amount <= ?", *filter.MaxAmount)
	}

	return query
}
