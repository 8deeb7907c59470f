package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/square15/backend/internal/domain/billing"
	"github.com/square15/backend/internal/domain/shared"
	"github.com/square15/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormQuotationRepository implements QuotationRepository using GORM
type GormQuotationRepository struct {
	db *gorm.DB
}

// NewGormQuotationRepository creates a new GormQuotationRepository
func NewGormQuotationRepository(db *gorm.DB) *GormQuotationRepository {
	return &GormQuotationRepository{db: db}
}

var _ billing.QuotationRepository = (*GormQuotationRepository)(nil)

// FindByID finds a quotation by its ID
func (r *GormQuotationRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Quotation, error) {
	var model models.QuotationModel
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForTenant finds a quotation by ID for a specific tenant
func (r *GormQuotationRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*billing.Quotation, error) {
	var model models.QuotationModel
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByQuotationNumber finds by quotation number for a tenant
func (r *GormQuotationRepository) FindByQuotationNumber(ctx context.Context, tenantID uuid.UUID, quotationNumber string) (*billing.Quotation, error) {
	var model models.QuotationModel
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("tenant_id = ? AND quotation_number = ?", tenantID, quotationNumber).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds all quotations for a tenant with filtering
func (r *GormQuotationRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter billing.QuotationFilter) ([]billing.Quotation, error) {
	var quotationModels []models.QuotationModel
	query := r.db.WithContext(ctx).Model(&models.QuotationModel{}).
		Preload("Lines").
		Where("tenant_id = ?", tenantID)
	query = r.applyQuotationFilter(query, filter)

	if err := query.Find(&quotationModels).Error; err != nil {
		return nil, err
	}
	quotations := make([]billing.Quotation, len(quotationModels))
	for i, model := range quotationModels {
		quotations[i] = *model.ToDomain()
	}
	return quotations, nil
}

// FindLapsed finds sent quotations whose validity has passed.
// Runs across tenants, so callers must not expose results without scoping.
func (r *GormQuotationRepository) FindLapsed(ctx context.Context, asOf time.Time, limit int) ([]billing.Quotation, error) {
	var quotationModels []models.QuotationModel
	query := r.db.WithContext(ctx).
		Preload("Lines").
		Where("status = ? AND valid_until < ?", billing.QuotationStatusSent, asOf).
		Order("valid_until ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&quotationModels).Error; err != nil {
		return nil, err
	}
	quotations := make([]billing.Quotation, len(quotationModels))
	for i, model := range quotationModels {
		quotations[i] = *model.ToDomain()
	}
	return quotations, nil
}

// Save creates or updates a quotation with its lines
func (r *GormQuotationRepository) Save(ctx context.Context, quotation *billing.Quotation) error {
	model := models.QuotationModelFromDomain(quotation)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lines := model.Lines
		model.Lines = nil
		if err := tx.Save(model).Error; err != nil {
			return err
		}
		return r.saveQuotationLines(tx, quotation.ID, lines)
	})
}

// SaveWithLock saves with optimistic locking
func (r *GormQuotationRepository) SaveWithLock(ctx context.Context, quotation *billing.Quotation) error {
	model := models.QuotationModelFromDomain(quotation)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lines := model.Lines
		model.Lines = nil
		result := tx.Model(model).
			Where("id = ? AND version = ?", quotation.ID, quotation.Version-1).
			Updates(model)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "Record was changed by a concurrent update")
		}
		return r.saveQuotationLines(tx, quotation.ID, lines)
	})
}

// saveQuotationLines replaces the persisted line set with the given lines
func (r *GormQuotationRepository) saveQuotationLines(tx *gorm.DB, quotationID uuid.UUID, lines []models.QuotationLineModel) error {
	currentIDs := make([]uuid.UUID, len(lines))
	for i, line := range lines {
		currentIDs[i] = line.ID
	}
	if len(currentIDs) > 0 {
		if err := tx.Where("quotation_id = ? AND id NOT IN ?", quotationID, currentIDs).
			Delete(&models.QuotationLineModel{}).Error; err != nil {
			return err
		}
	} else {
		if err := tx.Where("quotation_id = ?", quotationID).
			Delete(&models.QuotationLineModel{}).Error; err != nil {
			return err
		}
	}
	for i := range lines {
		if err := tx.Save(&lines[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// DeleteForTenant soft deletes a quotation for a tenant
func (r *GormQuotationRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.QuotationModel{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountForTenant counts quotations for a tenant
func (r *GormQuotationRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter billing.QuotationFilter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.QuotationModel{}).
		Where("tenant_id = ?", tenantID)
	query = r.applyQuotationFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GenerateQuotationNumber generates a unique quotation number
func (r *GormQuotationRepository) GenerateQuotationNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	// Format: QUO-YYYYMM-XXXXX
	period := time.Now().Format("200601")
	prefix := fmt.Sprintf("QUO-%s-", period)

	var maxNumber string
	if err := r.db.WithContext(ctx).
		Model(&models.QuotationModel{}).
		Select("quotation_number").
		Where("tenant_id = ? AND quotation_number LIKE ?", tenantID, prefix+"%").
		Order("quotation_number DESC").
		Limit(1).
		Pluck("quotation_number", &maxNumber).Error; err != nil {
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

// applyQuotationFilter applies filter options to the query
func (r *GormQuotationRepository) applyQuotationFilter(query *gorm.DB, filter billing.QuotationFilter) *gorm.DB {
	query = r.applyQuotationFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderBy := ValidateSortField(filter.OrderBy, QuotationSortFields, "created_at")
		query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

// applyQuotationFilterWithoutPagination applies filter options without pagination
func (r *GormQuotationRepository) applyQuotationFilterWithoutPagination(query *gorm.DB, filter billing.QuotationFilter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("quotation_number ILIKE ? OR customer_name ILIKE ?",
			searchPattern, searchPattern)
	}

	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.FromDate != nil {
		query = query.Where("created_at >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("created_at <= ?", *filter.ToDate)
	}

	return query
}
