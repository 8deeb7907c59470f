package payroll

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/square15/backend/internal/domain/shared"
)

// PayslipFilter defines filtering options for payslip queries
type PayslipFilter struct {
	shared.Filter
	EmployeeID  *uuid.UUID     // Filter by employee
	Status      *PayslipStatus // Filter by status
	PeriodYear  *int           // Filter by payroll year
	PeriodMonth *time.Month    // Filter by payroll month
}

// PeriodTotals aggregates statutory amounts for an EMP201 period
type PeriodTotals struct {
	GrossPay decimal.Decimal
	PAYE     decimal.Decimal
	UIFTotal decimal.Decimal
	SDL      decimal.Decimal
}

// PayslipRepository defines the interface for payslip persistence
type PayslipRepository interface {
	// FindByID finds a payslip by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Payslip, error)

	// FindByIDForTenant finds a payslip by ID for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Payslip, error)

	// FindByPayslipNumber finds by payslip number for a tenant
	FindByPayslipNumber(ctx context.Context, tenantID uuid.UUID, payslipNumber string) (*Payslip, error)

	// FindByEmployeeAndPeriod finds the payslip for an employee in a period
	FindByEmployeeAndPeriod(ctx context.Context, tenantID, employeeID uuid.UUID, year int, month time.Month) (*Payslip, error)

	// FindAllForTenant finds all payslips for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter PayslipFilter) ([]Payslip, error)

	// Save creates or updates a payslip
	Save(ctx context.Context, payslip *Payslip) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, payslip *Payslip) error

	// DeleteForTenant soft deletes a payslip for a tenant
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error

	// CountForTenant counts payslips for a tenant with optional filters
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter PayslipFilter) (int64, error)

	// SumPeriodTotals aggregates statutory amounts for a payroll period,
	// voided payslips excluded
	SumPeriodTotals(ctx context.Context, tenantID uuid.UUID, year int, month time.Month) (PeriodTotals, error)

	// GeneratePayslipNumber generates the next payslip number for a tenant
	GeneratePayslipNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
}
