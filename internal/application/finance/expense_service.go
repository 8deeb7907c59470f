// Package finance contains services for operational expenses, alternative
// revenue and the derived financial statements.
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

// ExpenseService handles operational expense operations
type ExpenseService struct {
	expenseRepo finance.OperationalExpenseRepository
	logger      *zap.Logger
}

// NewExpenseService creates a new expense service
func NewExpenseService(expenseRepo finance.OperationalExpenseRepository, logger *zap.Logger) *ExpenseService {
	return &ExpenseService{
		expenseRepo: expenseRepo,
		logger:      logger,
	}
}

// ExpenseResponse is the expense DTO returned to clients
type ExpenseResponse struct {
	ID              uuid.UUID       `json:"id"`
	ExpenseNumber   string          `json:"expense_number"`
	Category        string          `json:"category"`
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description"`
	IncurredAt      time.Time       `json:"incurred_at"`
	Status          string          `json:"status"`
	PaymentStatus   string          `json:"payment_status"`
	PaymentMethod   string          `json:"payment_method,omitempty"`
	PaidAt          *time.Time      `json:"paid_at,omitempty"`
	Remark          string          `json:"remark,omitempty"`
	AttachmentKeys  string          `json:"attachment_keys,omitempty"`
	ApprovedBy      *uuid.UUID      `json:"approved_by,omitempty"`
	ApprovalRemark  string          `json:"approval_remark,omitempty"`
	RejectionReason string          `json:"rejection_reason,omitempty"`
	CancelReason    string          `json:"cancel_reason,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	Version         int             `json:"version"`
}

// CreateExpenseRequest contains fields for recording an expense
type CreateExpenseRequest struct {
	Category       string          `json:"category" binding:"required"`
	Amount         decimal.Decimal `json:"amount" binding:"required"`
	Description    string          `json:"description" binding:"required"`
	IncurredAt     time.Time       `json:"incurred_at" binding:"required"`
	Remark         string          `json:"remark"`
	AttachmentKeys string          `json:"attachment_keys"`
}

// UpdateExpenseRequest amends a draft expense
type UpdateExpenseRequest struct {
	Category    string          `json:"category" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description" binding:"required"`
	IncurredAt  time.Time       `json:"incurred_at" binding:"required"`
}

// SubmitExpenseRequest carries the submitting user
type SubmitExpenseRequest struct {
	SubmitterID uuid.UUID `json:"-"`
}

// ApproveExpenseRequest carries the approving user and optional remark
type ApproveExpenseRequest struct {
	ApproverID uuid.UUID `json:"-"`
	Remark     string    `json:"remark"`
}

// RejectExpenseRequest carries the rejecting user and mandatory reason
type RejectExpenseRequest struct {
	RejectorID uuid.UUID `json:"-"`
	Reason     string    `json:"reason" binding:"required"`
}

// CancelExpenseRequest carries the cancelling user and mandatory reason
type CancelExpenseRequest struct {
	CancellerID uuid.UUID `json:"-"`
	Reason      string    `json:"reason" binding:"required"`
}

// MarkExpensePaidRequest records how the expense was settled
type MarkExpensePaidRequest struct {
	PaymentMethod string `json:"payment_method" binding:"required"`
}

// ExpenseListFilter defines filtering options for listing expenses
type ExpenseListFilter struct {
	Category      string `form:"category"`
	Status        string `form:"status"`
	PaymentStatus string `form:"payment_status"`
	FromDate      string `form:"from_date"`
	ToDate        string `form:"to_date"`
	Search        string `form:"search"`
	Page          int    `form:"page"`
	PageSize      int    `form:"page_size"`
}

// CategorySummary is one row of a per-category roll-up
type CategorySummary struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

// CreateExpense records a new draft expense
func (s *ExpenseService) CreateExpense(ctx context.Context, tenantID uuid.UUID, req CreateExpenseRequest) (*ExpenseResponse, error) {
	number, err := s.expenseRepo.GenerateExpenseNumber(ctx, tenantID)
	if err != nil {
		s.logger.Error("Failed to generate expense number", zap.Error(err))
		return nil, err
	}

	expense, err := finance.NewOperationalExpense(
		tenantID, number, finance.ExpenseCategory(req.Category),
		req.Amount, req.Description, req.IncurredAt)
	if err != nil {
		return nil, err
	}
	if req.Remark != "" {
		expense.SetRemark(req.Remark)
	}
	if req.AttachmentKeys != "" {
		expense.SetAttachmentKeys(req.AttachmentKeys)
	}

	if err := s.expenseRepo.Save(ctx, expense); err != nil {
		s.logger.Error("Failed to save expense", zap.Error(err))
		return nil, err
	}

	s.logger.Info("Expense created",
		zap.String("expense_number", expense.ExpenseNumber),
		zap.String("category", expense.Category.String()),
		zap.String("amount", expense.Amount.StringFixed(2)))

	return toExpenseResponse(expense), nil
}

// GetExpense retrieves an expense by ID
func (s *ExpenseService) GetExpense(ctx context.Context, tenantID, expenseID uuid.UUID) (*ExpenseResponse, error) {
	expense, err := s.expenseRepo.FindByIDForTenant(ctx, tenantID, expenseID)
	if err != nil {
		return nil, err
	}
	if expense == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Expense not found")
	}
	return toExpenseResponse(expense), nil
}

// ListExpenses lists expenses with filtering and pagination
func (s *ExpenseService) ListExpenses(ctx context.Context, tenantID uuid.UUID, filter ExpenseListFilter) ([]ExpenseResponse, int64, error) {
	domainFilter, err := buildExpenseFilter(filter)
	if err != nil {
		return nil, 0, err
	}

	expenses, err := s.expenseRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.expenseRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ExpenseResponse, 0, len(expenses))
	for i := range expenses {
		responses = append(responses, *toExpenseResponse(&expenses[i]))
	}
	return responses, total, nil
}

// UpdateExpense amends a draft expense
func (s *ExpenseService) UpdateExpense(ctx context.Context, tenantID, expenseID uuid.UUID, req UpdateExpenseRequest) (*ExpenseResponse, error) {
	expense, err := s.expenseRepo.FindByIDForTenant(ctx, tenantID, expenseID)
	if err != nil {
		return nil, err
	}
	if expense == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Expense not found")
	}

	if err := expense.Update(finance.ExpenseCategory(req.Category), req.Amount, req.Description, req.IncurredAt); err != nil {
		return nil, err
	}
	if err := s.expenseRepo.SaveWithLock(ctx, expense); err != nil {
		return nil, err
	}
	return toExpenseResponse(expense), nil
}

// SubmitExpense submits a draft expense for approval
func (s *ExpenseService) SubmitExpense(ctx context.Context, tenantID, expenseID uuid.UUID, req SubmitExpenseRequest) (*ExpenseResponse, error) {
	expense, err := s.expenseRepo.FindByIDForTenant(ctx, tenantID, expenseID)
	if err != nil {
		return nil, err
	}
	if expense == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Expense not found")
	}

	if err := expense.Submit(req.SubmitterID); err != nil {
		return nil, err
	}
	if err := s.expenseRepo.SaveWithLock(ctx, expense); err != nil {
		return nil, err
	}
	return toExpenseResponse(expense), nil
}

// ApproveExpense approves a pending expense
func (s *ExpenseService) ApproveExpense(ctx context.Context, tenantID, expenseID uuid.UUID, req ApproveExpenseRequest) (*ExpenseResponse, error) {
	expense, err := s.expenseRepo.FindByIDForTenant(ctx, tenantID, expenseID)
	if err != nil {
		return nil, err
	}
	if expense == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Expense not found")
	}

	if err := expense.Approve(req.ApproverID, req.Remark); err != nil {
		return nil, err
	}
	if err := s.expenseRepo.SaveWithLock(ctx, expense); err != nil {
		return nil, err
	}

	s.logger.Info("Expense approved",
		zap.String("expense_number", expense.ExpenseNumber),
		zap.String("approved_by", req.ApproverID.String()))

	return toExpenseResponse(expense), nil
}

// RejectExpense rejects a pending expense
func (s *ExpenseService) RejectExpense(ctx context.Context, tenantID, expenseID uuid.UUID, req RejectExpenseRequest) (*ExpenseResponse, error) {
	expense, err := s.expenseRepo.FindByIDForTenant(ctx, tenantID, expenseID)
	if err != nil {
		return nil, err
	}
	if expense == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Expense not found")
	}

	if err := expense.Reject(req.RejectorID, req.Reason); err != nil {
		return nil, err
	}
	if err := s.expenseRepo.SaveWithLock(ctx, expense); err != nil {
		return nil, err
	}
	return toExpenseResponse(expense), nil
}

// CancelExpense cancels a draft or pending expense
func (s *ExpenseService) CancelExpense(ctx context.Context, tenantID, expenseID uuid.UUID, req CancelExpenseRequest) (*ExpenseResponse, error) {
	expense, err := s.expenseRepo.FindByIDForTenant(ctx, tenantID, expenseID)
	if err != nil {
		return nil, err
	}
	if expense == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Expense not found")
	}

	if err := expense.Cancel(req.CancellerID, req.Reason); err != nil {
		return nil, err
	}
	if err := s.expenseRepo.SaveWithLock(ctx, expense); err != nil {
		return nil, err
	}
	return toExpenseResponse(expense), nil
}

// MarkExpensePaid records payment of an approved expense
func (s *ExpenseService) MarkExpensePaid(ctx context.Context, tenantID, expenseID uuid.UUID, req MarkExpensePaidRequest) (*ExpenseResponse, error) {
	expense, err := s.expenseRepo.FindByIDForTenant(ctx, tenantID, expenseID)
	if err != nil {
		return nil, err
	}
	if expense == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Expense not found")
	}

	if err := expense.MarkAsPaid(finance.PaymentMethod(req.PaymentMethod)); err != nil {
		return nil, err
	}
	if err := s.expenseRepo.SaveWithLock(ctx, expense); err != nil {
		return nil, err
	}
	return toExpenseResponse(expense), nil
}

// DeleteExpense removes a draft expense
func (s *ExpenseService) DeleteExpense(ctx context.Context, tenantID, expenseID uuid.UUID) error {
	expense, err := s.expenseRepo.FindByIDForTenant(ctx, tenantID, expenseID)
	if err != nil {
		return err
	}
	if expense == nil {
		return shared.NewDomainError("NOT_FOUND", "Expense not found")
	}

	if expense.Status != finance.ExpenseStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft expenses can be deleted")
	}

	return s.expenseRepo.DeleteForTenant(ctx, tenantID, expenseID)
}

// SummariseExpensesByCategory rolls up approved expenses per category for a period
func (s *ExpenseService) SummariseExpensesByCategory(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]CategorySummary, error) {
	if !to.After(from) {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Period end must be after period start")
	}

	totals, err := s.expenseRepo.SumApprovedByCategory(ctx, tenantID, from, to)
	if err != nil {
		return nil, err
	}

	summaries := make([]CategorySummary, 0, len(totals))
	for _, t := range totals {
		summaries = append(summaries, CategorySummary{Category: t.Category, Total: t.Total})
	}
	return summaries, nil
}

// buildExpenseFilter maps the list filter to the domain filter
func buildExpenseFilter(filter ExpenseListFilter) (finance.OperationalExpenseFilter, error) {
	domainFilter := finance.OperationalExpenseFilter{
		Filter: shared.Filter{
			Search:   filter.Search,
			Page:     filter.Page,
			PageSize: filter.PageSize,
		},
	}

	if filter.Category != "" {
		category := finance.ExpenseCategory(filter.Category)
		if !category.IsValid() {
			return domainFilter, shared.NewDomainError("INVALID_FILTER", "Invalid expense category")
		}
		domainFilter.Category = &category
	}
	if filter.Status != "" {
		status := finance.ExpenseStatus(filter.Status)
		if !status.IsValid() {
			return domainFilter, shared.NewDomainError("INVALID_FILTER", "Invalid expense status")
		}
		domainFilter.Status = &status
	}
	if filter.PaymentStatus != "" {
		paymentStatus := finance.PaymentStatus(filter.PaymentStatus)
		if paymentStatus != finance.PaymentStatusPaid && paymentStatus != finance.PaymentStatusUnpaid {
			return domainFilter, shared.NewDomainError("INVALID_FILTER", "Invalid payment status")
		}
		domainFilter.PaymentStatus = &paymentStatus
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

// toExpenseResponse maps an expense aggregate to the response DTO
func toExpenseResponse(expense *finance.OperationalExpense) *ExpenseResponse {
	resp := &ExpenseResponse{
		ID:              expense.ID,
		ExpenseNumber:   expense.ExpenseNumber,
		Category:        expense.Category.String(),
		Amount:          expense.Amount,
		Description:     expense.Description,
		IncurredAt:      expense.IncurredAt,
		Status:          expense.Status.String(),
		PaymentStatus:   string(expense.PaymentStatus),
		PaidAt:          expense.PaidAt,
		Remark:          expense.Remark,
		AttachmentKeys:  expense.AttachmentKeys,
		ApprovedBy:      expense.ApprovedBy,
		ApprovalRemark:  expense.ApprovalRemark,
		RejectionReason: expense.RejectionReason,
		CancelReason:    expense.CancelReason,
		CreatedAt:       expense.CreatedAt,
		Version:         expense.Version,
	}
	if expense.PaymentMethod != nil {
		resp.PaymentMethod = string(*expense.PaymentMethod)
	}
	return resp
}
