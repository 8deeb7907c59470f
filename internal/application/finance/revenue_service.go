package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/square15/backend/internal/domain/finance"
	"github.com/square15/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// RevenueService handles alternative revenue operations
type RevenueService struct {
	revenueRepo finance.AlternativeRevenueRepository
	logger      *zap.Logger
}

// NewRevenueService creates a new revenue service
func NewRevenueService(revenueRepo finance.AlternativeRevenueRepository, logger *zap.Logger) *RevenueService {
	return &RevenueService{
		revenueRepo: revenueRepo,
		logger:      logger,
	}
}

// RevenueResponse is the revenue DTO returned to clients
type RevenueResponse struct {
	ID            uuid.UUID       `json:"id"`
	RevenueNumber string          `json:"revenue_number"`
	Category      string          `json:"category"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
	EarnedAt      time.Time       `json:"earned_at"`
	Status        string          `json:"status"`
	ReceiptStatus string          `json:"receipt_status"`
	PaymentMethod string          `json:"payment_method,omitempty"`
	ReceivedAt    *time.Time      `json:"received_at,omitempty"`
	Remark        string          `json:"remark,omitempty"`
	ConfirmedBy   *uuid.UUID      `json:"confirmed_by,omitempty"`
	CancelReason  string          `json:"cancel_reason,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	Version       int             `json:"version"`
}

// CreateRevenueRequest contains fields for recording revenue
type CreateRevenueRequest struct {
	Category    string          `json:"category" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description" binding:"required"`
	EarnedAt    time.Time       `json:"earned_at" binding:"required"`
	Remark      string          `json:"remark"`
}

// UpdateRevenueRequest amends a draft revenue record
type UpdateRevenueRequest struct {
	Category    string          `json:"category" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description" binding:"required"`
	EarnedAt    time.Time       `json:"earned_at" binding:"required"`
}

// ConfirmRevenueRequest carries the confirming user
type ConfirmRevenueRequest struct {
	ConfirmerID uuid.UUID `json:"-"`
}

// CancelRevenueRequest carries the cancelling user and mandatory reason
type CancelRevenueRequest struct {
	CancellerID uuid.UUID `json:"-"`
	Reason      string    `json:"reason" binding:"required"`
}

// MarkRevenueReceivedRequest records how the revenue was received
type MarkRevenueReceivedRequest struct {
	PaymentMethod string `json:"payment_method" binding:"required"`
}

// RevenueListFilter defines filtering options for listing revenue records
type RevenueListFilter struct {
	Category      string `form:"category"`
	Status        string `form:"status"`
	ReceiptStatus string `form:"receipt_status"`
	FromDate      string `form:"from_date"`
	ToDate        string `form:"to_date"`
	Search        string `form:"search"`
	Page          int    `form:"page"`
	PageSize      int    `form:"page_size"`
}

// CreateRevenue records a new draft revenue entry
func (s *RevenueService) CreateRevenue(ctx context.Context, tenantID uuid.UUID, req CreateRevenueRequest) (*RevenueResponse, error) {
	number, err := s.revenueRepo.GenerateRevenueNumber(ctx, tenantID)
	if err != nil {
		s.logger.Error("Failed to generate revenue number", zap.Error(err))
		return nil, err
	}

	revenue, err := finance.NewAlternativeRevenue(
		tenantID, number, finance.RevenueCategory(req.Category),
		req.Amount, req.Description, req.EarnedAt)
	if err != nil {
		return nil, err
	}
	if req.Remark != "" {
		revenue.SetRemark(req.Remark)
	}

	if err := s.revenueRepo.Save(ctx, revenue); err != nil {
		s.logger.Error("Failed to save revenue record", zap.Error(err))
		return nil, err
	}

	s.logger.Info("Revenue recorded",
		zap.String("revenue_number", revenue.RevenueNumber),
		zap.String("category", revenue.Category.String()),
		zap.String("amount", revenue.Amount.StringFixed(2)))

	return toRevenueResponse(revenue), nil
}

// GetRevenue retrieves a revenue record by ID
func (s *RevenueService) GetRevenue(ctx context.Context, tenantID, revenueID uuid.UUID) (*RevenueResponse, error) {
	revenue, err := s.revenueRepo.FindByIDForTenant(ctx, tenantID, revenueID)
	if err != nil {
		return nil, err
	}
	if revenue == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Revenue record not found")
	}
	return toRevenueResponse(revenue), nil
}

// ListRevenue lists revenue records with filtering and pagination
func (s *RevenueService) ListRevenue(ctx context.Context, tenantID uuid.UUID, filter RevenueListFilter) ([]RevenueResponse, int64, error) {
	domainFilter, err := buildRevenueFilter(filter)
	if err != nil {
		return nil, 0, err
	}

	records, err := s.revenueRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.revenueRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]RevenueResponse, 0, len(records))
	for i := range records {
		responses = append(responses, *toRevenueResponse(&records[i]))
	}
	return responses, total, nil
}

// UpdateRevenue amends a draft revenue record
func (s *RevenueService) UpdateRevenue(ctx context.Context, tenantID, revenueID uuid.UUID, req UpdateRevenueRequest) (*RevenueResponse, error) {
	revenue, err := s.revenueRepo.FindByIDForTenant(ctx, tenantID, revenueID)
	if err != nil {
		return nil, err
	}
	if revenue == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Revenue record not found")
	}

	if err := revenue.Update(finance.RevenueCategory(req.Category), req.Amount, req.Description, req.EarnedAt); err != nil {
		return nil, err
	}
	if err := s.revenueRepo.SaveWithLock(ctx, revenue); err != nil {
		return nil, err
	}
	return toRevenueResponse(revenue), nil
}

// ConfirmRevenue confirms a draft revenue record
func (s *RevenueService) ConfirmRevenue(ctx context.Context, tenantID, revenueID uuid.UUID, req ConfirmRevenueRequest) (*RevenueResponse, error) {
	revenue, err := s.revenueRepo.FindByIDForTenant(ctx, tenantID, revenueID)
	if err != nil {
		return nil, err
	}
	if revenue == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Revenue record not found")
	}

	if err := revenue.Confirm(req.ConfirmerID); err != nil {
		return nil, err
	}
	if err := s.revenueRepo.SaveWithLock(ctx, revenue); err != nil {
		return nil, err
	}
	return toRevenueResponse(revenue), nil
}

// CancelRevenue cancels a draft revenue record
func (s *RevenueService) CancelRevenue(ctx context.Context, tenantID, revenueID uuid.UUID, req CancelRevenueRequest) (*RevenueResponse, error) {
	revenue, err := s.revenueRepo.FindByIDForTenant(ctx, tenantID, revenueID)
	if err != nil {
		return nil, err
	}
	if revenue == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Revenue record not found")
	}

	if err := revenue.Cancel(req.CancellerID, req.Reason); err != nil {
		return nil, err
	}
	if err := s.revenueRepo.SaveWithLock(ctx, revenue); err != nil {
		return nil, err
	}
	return toRevenueResponse(revenue), nil
}

// MarkRevenueReceived records receipt of confirmed revenue
func (s *RevenueService) MarkRevenueReceived(ctx context.Context, tenantID, revenueID uuid.UUID, req MarkRevenueReceivedRequest) (*RevenueResponse, error) {
	revenue, err := s.revenueRepo.FindByIDForTenant(ctx, tenantID, revenueID)
	if err != nil {
		return nil, err
	}
	if revenue == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Revenue record not found")
	}

	if err := revenue.MarkAsReceived(finance.PaymentMethod(req.PaymentMethod)); err != nil {
		return nil, err
	}
	if err := s.revenueRepo.SaveWithLock(ctx, revenue); err != nil {
		return nil, err
	}
	return toRevenueResponse(revenue), nil
}

// DeleteRevenue removes a draft revenue record
func (s *RevenueService) DeleteRevenue(ctx context.Context, tenantID, revenueID uuid.UUID) error {
	revenue, err := s.revenueRepo.FindByIDForTenant(ctx, tenantID, revenueID)
	if err != nil {
		return err
	}
	if revenue == nil {
		return shared.NewDomainError("NOT_FOUND", "Revenue record not found")
	}

	if revenue.Status != finance.RevenueStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft revenue records can be deleted")
	}

	return s.revenueRepo.DeleteForTenant(ctx, tenantID, revenueID)
}

// SummariseRevenueByCategory rolls up confirmed revenue per category for a period
func (s *RevenueService) SummariseRevenueByCategory(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]CategorySummary, error) {
	if !to.After(from) {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Period end must be after period start")
	}

	totals, err := s.revenueRepo.SumConfirmedByCategory(ctx, tenantID, from, to)
	if err != nil {
		return nil, err
	}

	summaries := make([]CategorySummary, 0, len(totals))
	for _, t := range totals {
		summaries = append(summaries, CategorySummary{Category: t.Category, Total: t.Total})
	}
	return summaries, nil
}

// buildRevenueFilter maps the list filter to the domain filter
func buildRevenueFilter(filter RevenueListFilter) (finance.AlternativeRevenueFilter, error) {
	domainFilter := finance.AlternativeRevenueFilter{
		Filter: shared.Filter{
			Search:   filter.Search,
			Page:     filter.Page,
			PageSize: filter.PageSize,
		},
	}

	if filter.Category != "" {
		category := finance.RevenueCategory(filter.Category)
		if !category.IsValid() {
			return domainFilter, shared.NewDomainError("INVALID_FILTER", "Invalid revenue category")
		}
		domainFilter.Category = &category
	}
	if filter.Status != "" {
		status := finance.RevenueStatus(filter.Status)
		if !status.IsValid() {
			return domainFilter, shared.NewDomainError("INVALID_FILTER", "Invalid revenue status")
		}
		domainFilter.Status = &status
	}
	if filter.ReceiptStatus != "" {
		receiptStatus := finance.ReceiptStatus(filter.ReceiptStatus)
		if receiptStatus != finance.ReceiptStatusPending && receiptStatus != finance.ReceiptStatusReceived {
			return domainFilter, shared.NewDomainError("INVALID_FILTER", "Invalid receipt status")
		}
		domainFilter.ReceiptStatus = &receiptStatus
	}
	if filter.FromDate != "" {
		from, err := time.Parse("2006-01-02", filter.FromDate)
		if err != nil {
			return domainFilter, shared.NewDomainError("INVALID_FILTER", "Invalid from date, expected YYYY-MM-DD")
		}
		domainFilter.FromDate = &from
	}
	if filter.ToDate != "" {
		to, err := time.Parse("2006-01-02", filter.ToDate)
		if err != nil {
			return domainFilter, shared.NewDomainError("INVALID_FILTER", "Invalid to date, expected YYYY-MM-DD")
		}
		bound := to.AddDate(0, 0, 1)
		domainFilter.ToDate = &bound
	}

	return domainFilter, nil
}

// toRevenueResponse maps a revenue aggregate to the response DTO
func toRevenueResponse(revenue *finance.AlternativeRevenue) *RevenueResponse {
	resp := &RevenueResponse{
		ID:            revenue.ID,
		RevenueNumber: revenue.RevenueNumber,
		Category:      revenue.Category.String(),
		Amount:        revenue.Amount,
		Description:   revenue.Description,
		EarnedAt:      revenue.EarnedAt,
		Status:        revenue.Status.String(),
		ReceiptStatus: string(revenue.ReceiptStatus),
		ReceivedAt:    revenue.ReceivedAt,
		Remark:        revenue.Remark,
		ConfirmedBy:   revenue.ConfirmedBy,
		CancelReason:  revenue.CancelReason,
		CreatedAt:     revenue.CreatedAt,
		Version:       revenue.Version,
	}
	if revenue.PaymentMethod != nil {
		resp.PaymentMethod = string(*revenue.PaymentMethod)
	}
	return resp
}
