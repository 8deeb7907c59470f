package finance

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/square15/backend/internal/domain/finance"
	"github.com/square15/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func assertDomainErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, code, domainErr.Code)
}

func draftExpense(t *testing.T, tenantID uuid.UUID) *finance.OperationalExpense {
	t.Helper()
	expense, err := finance.NewOperationalExpense(
		tenantID, "EXP-202608-00001", finance.ExpenseCategoryUtilities,
		decimal.NewFromInt(12450), "City Power electricity account",
		time.Date(2026, 8, 5, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return expense
}

func pendingExpense(t *testing.T, tenantID uuid.UUID) *finance.OperationalExpense {
	t.Helper()
	expense := draftExpense(t, tenantID)
	require.NoError(t, expense.Submit(uuid.New()))
	return expense
}

func approvedExpense(t *testing.T, tenantID uuid.UUID) *finance.OperationalExpense {
	t.Helper()
	expense := pendingExpense(t, tenantID)
	require.NoError(t, expense.Approve(uuid.New(), ""))
	return expense
}

func TestExpenseService_CreateExpense(t *testing.T) {
	expenseRepo := new(MockOperationalExpenseRepository)
	service := NewExpenseService(expenseRepo, zap.NewNop())
	tenantID := uuid.New()

	expenseRepo.On("GenerateExpenseNumber", mock.Anything, tenantID).Return("EXP-202608-00007", nil)
	expenseRepo.On("Save", mock.Anything, mock.AnythingOfType("*finance.OperationalExpense")).Return(nil)

	resp, err := service.CreateExpense(context.Background(), tenantID, CreateExpenseRequest{
		Category:    "SECURITY",
		Amount:      decimal.NewFromInt(18500),
		Description: "Monthly guarding contract, Bidvest Protea Coin",
		IncurredAt:  time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		Remark:      "Contract SEC-2026-11",
	})

	require.NoError(t, err)
	assert.Equal(t, "EXP-202608-00007", resp.ExpenseNumber)
	assert.Equal(t, "SECURITY", resp.Category)
	assert.Equal(t, "DRAFT", resp.Status)
	assert.Equal(t, "UNPAID", resp.PaymentStatus)
	assert.Equal(t, "Contract SEC-2026-11", resp.Remark)
}

func TestExpenseService_CreateExpense_InvalidCategory(t *testing.T) {
	expenseRepo := new(MockOperationalExpenseRepository)
	service := NewExpenseService(expenseRepo, zap.NewNop())
	tenantID := uuid.New()

	expenseRepo.On("GenerateExpenseNumber", mock.Anything, tenantID).Return("EXP-202608-00008", nil)

	_, err := service.CreateExpense(context.Background(), tenantID, CreateExpenseRequest{
		Category:    "ENTERTAINMENT",
		Amount:      decimal.NewFromInt(500),
		Description: "Office party",
		IncurredAt:  time.Now(),
	})
	assertDomainErrorCode(t, err, "INVALID_CATEGORY")
}

func TestExpenseService_SubmitAndApprove(t *testing.T) {
	expenseRepo := new(MockOperationalExpenseRepository)
	service := NewExpenseService(expenseRepo, zap.NewNop())
	tenantID := uuid.New()
	approverID := uuid.New()

	expense := draftExpense(t, tenantID)
	expenseRepo.On("FindByIDForTenant", mock.Anything, tenantID, expense.ID).Return(expense, nil)
	expenseRepo.On("SaveWithLock", mock.Anything, expense).Return(nil)

	resp, err := service.SubmitExpense(context.Background(), tenantID, expense.ID, SubmitExpenseRequest{
		SubmitterID: uuid.New(),
	})
	require.NoError(t, err)
	assert.Equal(t, "PENDING", resp.Status)

	resp, err = service.ApproveExpense(context.Background(), tenantID, expense.ID, ApproveExpenseRequest{
		ApproverID: approverID,
		Remark:     "Within budget",
	})
	require.NoError(t, err)
	assert.Equal(t, "APPROVED", resp.Status)
	require.NotNil(t, resp.ApprovedBy)
	assert.Equal(t, approverID, *resp.ApprovedBy)
	assert.Equal(t, "Within budget", resp.ApprovalRemark)
}

func TestExpenseService_ApproveDraft_Rejected(t *testing.T) {
	expenseRepo := new(MockOperationalExpenseRepository)
	service := NewExpenseService(expenseRepo, zap.NewNop())
	tenantID := uuid.New()

	expense := draftExpense(t, tenantID)
	expenseRepo.On("FindByIDForTenant", mock.Anything, tenantID, expense.ID).Return(expense, nil)

	_, err := service.ApproveExpense(context.Background(), tenantID, expense.ID, ApproveExpenseRequest{
		ApproverID: uuid.New(),
	})
	assertDomainErrorCode(t, err, "INVALID_STATE")
}

func TestExpenseService_RejectExpense(t *testing.T) {
	expenseRepo := new(MockOperationalExpenseRepository)
	service := NewExpenseService(expenseRepo, zap.NewNop())
	tenantID := uuid.New()

	expense := pendingExpense(t, tenantID)
	expenseRepo.On("FindByIDForTenant", mock.Anything, tenantID, expense.ID).Return(expense, nil)
	expenseRepo.On("SaveWithLock", mock.Anything, expense).Return(nil)

	resp, err := service.RejectExpense(context.Background(), tenantID, expense.ID, RejectExpenseRequest{
		RejectorID: uuid.New(),
		Reason:     "No supporting invoice attached",
	})
	require.NoError(t, err)
	assert.Equal(t, "REJECTED", resp.Status)
	assert.Equal(t, "No supporting invoice attached", resp.RejectionReason)
}

func TestExpenseService_MarkPaid_ApprovedOnly(t *testing.T) {
	expenseRepo := new(MockOperationalExpenseRepository)
	service := NewExpenseService(expenseRepo, zap.NewNop())
	tenantID := uuid.New()

	pending := pendingExpense(t, tenantID)
	expenseRepo.On("FindByIDForTenant", mock.Anything, tenantID, pending.ID).Return(pending, nil)

	_, err := service.MarkExpensePaid(context.Background(), tenantID, pending.ID, MarkExpensePaidRequest{
		PaymentMethod: "BANK_TRANSFER",
	})
	assertDomainErrorCode(t, err, "INVALID_STATE")

	approved := approvedExpense(t, tenantID)
	expenseRepo.On("FindByIDForTenant", mock.Anything, tenantID, approved.ID).Return(approved, nil)
	expenseRepo.On("SaveWithLock", mock.Anything, approved).Return(nil)

	resp, err := service.MarkExpensePaid(context.Background(), tenantID, approved.ID, MarkExpensePaidRequest{
		PaymentMethod: "BANK_TRANSFER",
	})
	require.NoError(t, err)
	assert.Equal(t, "PAID", resp.PaymentStatus)
	assert.Equal(t, "BANK_TRANSFER", resp.PaymentMethod)
	require.NotNil(t, resp.PaidAt)
}

func TestExpenseService_UpdateExpense_DraftOnly(t *testing.T) {
	expenseRepo := new(MockOperationalExpenseRepository)
	service := NewExpenseService(expenseRepo, zap.NewNop())
	tenantID := uuid.New()

	expense := pendingExpense(t, tenantID)
	expenseRepo.On("FindByIDForTenant", mock.Anything, tenantID, expense.ID).Return(expense, nil)

	_, err := service.UpdateExpense(context.Background(), tenantID, expense.ID, UpdateExpenseRequest{
		Category:    "CLEANING",
		Amount:      decimal.NewFromInt(4200),
		Description: "Deep clean of common areas",
		IncurredAt:  time.Now(),
	})
	assertDomainErrorCode(t, err, "INVALID_STATE")
}

func TestExpenseService_DeleteExpense_DraftOnly(t *testing.T) {
	expenseRepo := new(MockOperationalExpenseRepository)
	service := NewExpenseService(expenseRepo, zap.NewNop())
	tenantID := uuid.New()

	approved := approvedExpense(t, tenantID)
	expenseRepo.On("FindByIDForTenant", mock.Anything, tenantID, approved.ID).Return(approved, nil)

	err := service.DeleteExpense(context.Background(), tenantID, approved.ID)
	assertDomainErrorCode(t, err, "INVALID_STATE")

	draft := draftExpense(t, tenantID)
	expenseRepo.On("FindByIDForTenant", mock.Anything, tenantID, draft.ID).Return(draft, nil)
	expenseRepo.On("DeleteForTenant", mock.Anything, tenantID, draft.ID).Return(nil)

	require.NoError(t, service.DeleteExpense(context.Background(), tenantID, draft.ID))
}

func TestExpenseService_GetExpense_NotFound(t *testing.T) {
	expenseRepo := new(MockOperationalExpenseRepository)
	service := NewExpenseService(expenseRepo, zap.NewNop())
	tenantID := uuid.New()
	expenseID := uuid.New()

	expenseRepo.On("FindByIDForTenant", mock.Anything, tenantID, expenseID).Return(nil, nil)

	_, err := service.GetExpense(context.Background(), tenantID, expenseID)
	assertDomainErrorCode(t, err, "NOT_FOUND")
}

func TestExpenseService_ListExpenses_FilterParsing(t *testing.T) {
	expenseRepo := new(MockOperationalExpenseRepository)
	service := NewExpenseService(expenseRepo, zap.NewNop())
	tenantID := uuid.New()

	expense := draftExpense(t, tenantID)
	var captured finance.OperationalExpenseFilter
	expenseRepo.On("FindAllForTenant", mock.Anything, tenantID, mock.AnythingOfType("finance.OperationalExpenseFilter")).
		Run(func(args mock.Arguments) {
			captured = args.Get(2).(finance.OperationalExpenseFilter)
		}).
		Return([]finance.OperationalExpense{*expense}, nil)
	expenseRepo.On("CountForTenant", mock.Anything, tenantID, mock.AnythingOfType("finance.OperationalExpenseFilter")).
		Return(int64(1), nil)

	responses, total, err := service.ListExpenses(context.Background(), tenantID, ExpenseListFilter{
		Category:      "UTILITIES",
		Status:        "DRAFT",
		PaymentStatus: "UNPAID",
		FromDate:      "2026-08-01",
		ToDate:        "2026-08-31",
		Page:          2,
		PageSize:      25,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, responses, 1)
	require.NotNil(t, captured.Category)
	assert.Equal(t, finance.ExpenseCategoryUtilities, *captured.Category)
	require.NotNil(t, captured.Status)
	assert.Equal(t, finance.ExpenseStatusDraft, *captured.Status)
	require.NotNil(t, captured.ToDate)
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), *captured.ToDate)
	assert.Equal(t, 2, captured.Page)
}

func TestExpenseService_ListExpenses_InvalidStatus(t *testing.T) {
	expenseRepo := new(MockOperationalExpenseRepository)
	service := NewExpenseService(expenseRepo, zap.NewNop())

	_, _, err := service.ListExpenses(context.Background(), uuid.New(), ExpenseListFilter{Status: "OPEN"})
	assertDomainErrorCode(t, err, "INVALID_FILTER")
}

func TestExpenseService_SummariseExpensesByCategory(t *testing.T) {
	expenseRepo := new(MockOperationalExpenseRepository)
	service := NewExpenseService(expenseRepo, zap.NewNop())
	tenantID := uuid.New()
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	expenseRepo.On("SumApprovedByCategory", mock.Anything, tenantID, from, to).Return([]finance.CategoryTotal{
		{Category: "SECURITY", Total: decimal.NewFromInt(111000)},
		{Category: "UTILITIES", Total: decimal.NewFromInt(74700)},
	}, nil)

	summaries, err := service.SummariseExpensesByCategory(context.Background(), tenantID, from, to)

	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "SECURITY", summaries[0].Category)
	assert.True(t, summaries[0].Total.Equal(decimal.NewFromInt(111000)))

	_, err = service.SummariseExpensesByCategory(context.Background(), tenantID, to, from)
	assertDomainErrorCode(t, err, "INVALID_PERIOD")
}
