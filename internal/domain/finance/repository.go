package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/square15/backend/internal/domain/shared"
)

// OperationalExpenseFilter defines filtering options for expense queries
type OperationalExpenseFilter struct {
	shared.Filter
	Category      *ExpenseCategory // Filter by category
	Status        *ExpenseStatus   // Filter by status
	PaymentStatus *PaymentStatus   // Filter by payment status
	FromDate      *time.Time       // Filter by incurred date range start
	ToDate        *time.Time       // Filter by incurred date range end
	MinAmount     *decimal.Decimal // Filter by minimum amount
	MaxAmount     *decimal.Decimal // Filter by maximum amount
}

// CategoryTotal aggregates amounts per category for reporting
type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
}

// OperationalExpenseRepository defines the interface for expense persistence
type OperationalExpenseRepository interface {
	// FindByID finds an expense by ID
	FindByID(ctx context.Context, id uuid.UUID) (*OperationalExpense, error)

	// FindByIDForTenant finds an expense by ID for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*OperationalExpense, error)

	// FindByExpenseNumber finds by expense number for a tenant
	FindByExpenseNumber(ctx context.Context, tenantID uuid.UUID, expenseNumber string) (*OperationalExpense, error)

	// FindAllForTenant finds all expenses for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter OperationalExpenseFilter) ([]OperationalExpense, error)

	// Save creates or updates an expense
	Save(ctx context.Context, expense *OperationalExpense) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, expense *OperationalExpense) error

	// DeleteForTenant soft deletes an expense for a tenant
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error

	// CountForTenant counts expenses for a tenant with optional filters
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter OperationalExpenseFilter) (int64, error)

	// SumApprovedByPeriod sums approved expense amounts within a period
	SumApprovedByPeriod(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (decimal.Decimal, error)

	// SumApprovedByCategory sums approved expense amounts per category within a period
	SumApprovedByCategory(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]CategoryTotal, error)

	// SumPaidByPeriod sums paid expense amounts within a period (cash basis)
	SumPaidByPeriod(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (decimal.Decimal, error)

	// GenerateExpenseNumber generates the next expense number for a tenant
	GenerateExpenseNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
}

// AlternativeRevenueFilter defines filtering options for revenue queries
type AlternativeRevenueFilter struct {
	shared.Filter
	Category      *RevenueCategory // Filter by category
	Status        *RevenueStatus   // Filter by status
	ReceiptStatus *ReceiptStatus   // Filter by receipt status
	FromDate      *time.Time       // Filter by earned date range start
	ToDate        *time.Time       // Filter by earned date range end
}

// AlternativeRevenueRepository defines the interface for revenue persistence
type AlternativeRevenueRepository interface {
	// FindByID finds a revenue record by ID
	FindByID(ctx context.Context, id uuid.UUID) (*AlternativeRevenue, error)

	// FindByIDForTenant finds a revenue record by ID for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*AlternativeRevenue, error)

	// FindByRevenueNumber finds by revenue number for a tenant
	FindByRevenueNumber(ctx context.Context, tenantID uuid.UUID, revenueNumber string) (*AlternativeRevenue, error)

	// FindAllForTenant finds all revenue records for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter AlternativeRevenueFilter) ([]AlternativeRevenue, error)

	// Save creates or updates a revenue record
	Save(ctx context.Context, revenue *AlternativeRevenue) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, revenue *AlternativeRevenue) error

	// DeleteForTenant soft deletes a revenue record for a tenant
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error

	// CountForTenant counts revenue records for a tenant with optional filters
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter AlternativeRevenueFilter) (int64, error)

	// SumConfirmedByPeriod sums confirmed revenue amounts within a period
	SumConfirmedByPeriod(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (decimal.Decimal, error)

	// SumConfirmedByCategory sums confirmed revenue amounts per category within a period
	SumConfirmedByCategory(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]CategoryTotal, error)

	// SumReceivedByPeriod sums received revenue amounts within a period (cash basis)
	SumReceivedByPeriod(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (decimal.Decimal, error)

	// GenerateRevenueNumber generates the next revenue number for a tenant
	GenerateRevenueNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
}
