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

// GormPaymentRequestRepository implements PaymentRequestRepository using GORM
type GormPaymentRequestRepository struct {
	db *gorm.DB
}

// NewGormPaymentRequestRepository creates a new GormPaymentRequestRepository
func NewGormPaymentRequestRepository(db *gorm.DB) *GormPaymentRequestRepository {
	return &GormPaymentRequestRepository{db: db}
}

var _ billing.PaymentRequestRepository = (*GormPaymentRequestRepository)(nil)

// FindByID finds a payment request by its ID
func (r *GormPaymentRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.PaymentRequest, error) {
	var model models.PaymentRequestModel
	if err := r.db.WithContext(ctx).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForTenant finds a payment request by ID for a specific tenant
func (r *GormPaymentRequestRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*billing.PaymentRequest, error) {
	var model models.PaymentRequestModel
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
func (r *GormPaymentRequestRepository) FindByRequestNumber(ctx context.Context, tenantID uuid.UUID, requestNumber string) (*billing.PaymentRequest, error) {
	var model models.PaymentRequestModel
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

// FindAllForTenant finds all payment requests for a tenant with filtering
func (r *GormPaymentRequestRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter billing.PaymentRequestFilter) ([]billing.PaymentRequest, error) {
	var requestModels []models.PaymentRequestModel
	query := r.db.WithContext(ctx).Model(&models.PaymentRequestModel{}).
		Where("tenant_id = ?", tenantID)
	query = r.applyRequestFilter(query, filter)

	if err := query.Find(&requestModels).Error; err != nil {
		return nil, err
	}
	requests := make([]billing.PaymentRequest, len(requestModels))
	for i, model := range requestModels {
		requests[i] = *model.ToDomain()
	}
	return requests, nil
}

// Save creates or updates a payment request
func (r *GormPaymentRequestRepository) Save(ctx context.Context, request *billing.PaymentRequest) error {
	model := models.PaymentRequestModelFromDomain(request)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves with optimistic locking
func (r *GormPaymentRequestRepository) SaveWithLock(ctx context.Context, request *billing.PaymentRequest) error {
	model := models.PaymentRequestModelFromDomain(request)
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

// DeleteForTenant soft deletes a payment request for a tenant
func (r *GormPaymentRequestRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.PaymentRequestModel{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountForTenant counts payment requests for a tenant
func (r *GormPaymentRequestRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter billing.PaymentRequestFilter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.PaymentRequestModel{}).
		Where("tenant_id = ?", tenantID)
	query = r.applyRequestFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GenerateRequestNumber generates a unique payment request number
func (r *GormPaymentRequestRepository) GenerateRequestNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	// Format: PRQ-YYYYMM-XXXXX
	period := time.Now().Format("200601")
	prefix := fmt.Sprintf("PRQ-%s-", period)

	var maxNumber string
	if err := r.db.WithContext(ctx).
		Model(&models.PaymentRequestModel{}).
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

// applyRequestFilter applies filter options to the query
func (r *GormPaymentRequestRepository) applyRequestFilter(query *gorm.DB, filter billing.PaymentRequestFilter) *gorm.DB {
	query = r.applyRequestFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderBy := ValidateSortField(filter.OrderBy, PaymentRequestSortFields, "created_at")
		query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

// applyRequestFilterWithoutPagination applies filter options without pagination
func (r *GormPaymentRequestRepository) applyRequestFilterWithoutPagination(query *gorm.DB, filter billing.PaymentRequestFilter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("request_number ILIKE ? OR customer_name ILIKE ?",
			searchPattern, searchPattern)
	}

	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.InvoiceID != nil {
		query = query.Where("invoice_id = ?", *filter.InvoiceID)
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
