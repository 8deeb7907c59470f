// Package payroll holds payslips with statutory deductions computed
// server-side from gross remuneration.
package payroll

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/square15/backend/internal/domain/shared"
	"github.com/square15/backend/internal/domain/tax"
)

// PayslipStatus represents the lifecycle state of a payslip
type PayslipStatus string

const (
	PayslipStatusDraft     PayslipStatus = "DRAFT"
	PayslipStatusFinalised PayslipStatus = "FINALISED"
	PayslipStatusPaid      PayslipStatus = "PAID"
	PayslipStatusVoided    PayslipStatus = "VOIDED"
)

// IsValid checks if the status is a valid PayslipStatus
func (s PayslipStatus) IsValid() bool {
	switch s {
	case PayslipStatusDraft, PayslipStatusFinalised, PayslipStatusPaid, PayslipStatusVoided:
		return true
	}
	return false
}

// String returns the string representation of PayslipStatus
func (s PayslipStatus) String() string {
	return string(s)
}

// IsTerminal returns true if the payslip can no longer change
func (s PayslipStatus) IsTerminal() bool {
	return s == PayslipStatusPaid || s == PayslipStatusVoided
}

// Payslip is a monthly remuneration record. PAYE, UIF and SDL are derived
// from the gross amounts; callers never supply the deductions.
type Payslip struct {
	shared.TenantAggregateRoot
	PayslipNumber  string          `json:"payslip_number"`
	EmployeeID     uuid.UUID       `json:"employee_id"`
	EmployeeName   string          `json:"employee_name"`
	EmployeeNumber string          `json:"employee_number"`
	PeriodYear     int             `json:"period_year"`
	PeriodMonth    time.Month      `json:"period_month"`
	BasicSalary    decimal.Decimal `json:"basic_salary"`
	Allowances     decimal.Decimal `json:"allowances"`
	GrossPay       decimal.Decimal `json:"gross_pay"`
	PAYE           decimal.Decimal `json:"paye"`
	UIFEmployee    decimal.Decimal `json:"uif_employee"`
	UIFEmployer    decimal.Decimal `json:"uif_employer"`
	SDL            decimal.Decimal `json:"sdl"`
	NetPay         decimal.Decimal `json:"net_pay"`
	Status         PayslipStatus   `json:"status"`
	FinalisedAt    *time.Time      `json:"finalised_at"`
	PaidAt         *time.Time      `json:"paid_at"`
	VoidReason     string          `json:"void_reason"`
}

// NewPayslip creates a draft payslip with deductions computed from gross pay
func NewPayslip(tenantID uuid.UUID, payslipNumber string, employeeID uuid.UUID, employeeName, employeeNumber string, year int, month time.Month, basicSalary, allowances decimal.Decimal) (*Payslip, error) {
	if payslipNumber == "" {
		return nil, shared.NewDomainError("INVALID_PAYSLIP_NUMBER", "Payslip number cannot be empty")
	}
	if employeeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_EMPLOYEE", "Employee ID cannot be empty")
	}
	if employeeName == "" {
		return nil, shared.NewDomainError("INVALID_EMPLOYEE", "Employee name cannot be empty")
	}
	if year < 2000 || year > 2100 {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Period year is out of range")
	}
	if month < time.January || month > time.December {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Period month is out of range")
	}
	if basicSalary.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_SALARY", "Basic salary must be positive")
	}
	if allowances.IsNegative() {
		return nil, shared.NewDomainError("INVALID_ALLOWANCES", "Allowances cannot be negative")
	}

	p := &Payslip{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		PayslipNumber:       payslipNumber,
		EmployeeID:          employeeID,
		EmployeeName:        employeeName,
		EmployeeNumber:      employeeNumber,
		PeriodYear:          year,
		PeriodMonth:         month,
		BasicSalary:         basicSalary.Round(2),
		Allowances:          allowances.Round(2),
		Status:              PayslipStatusDraft,
	}
	p.recalculate()

	p.AddDomainEvent(NewPayslipCreatedEvent(p))

	return p, nil
}

// UpdateEarnings amends gross amounts and recomputes deductions; draft only
func (p *Payslip) UpdateEarnings(basicSalary, allowances decimal.Decimal) error {
	if p.Status != PayslipStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Can only amend a draft payslip")
	}
	if basicSalary.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_SALARY", "Basic salary must be positive")
	}
	if allowances.IsNegative() {
		return shared.NewDomainError("INVALID_ALLOWANCES", "Allowances cannot be negative")
	}
	p.BasicSalary = basicSalary.Round(2)
	p.Allowances = allowances.Round(2)
	p.recalculate()
	return nil
}

// Finalise locks the payslip for payment
func (p *Payslip) Finalise() error {
	if p.Status != PayslipStatusDraft {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot finalise payslip in %s status", p.Status))
	}

	now := time.Now()
	p.Status = PayslipStatusFinalised
	p.FinalisedAt = &now
	p.UpdatedAt = now
	p.IncrementVersion()

	p.AddDomainEvent(NewPayslipFinalisedEvent(p))

	return nil
}

// MarkPaid records salary payment
func (p *Payslip) MarkPaid() error {
	if p.Status != PayslipStatusFinalised {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot pay payslip in %s status", p.Status))
	}

	now := time.Now()
	p.Status = PayslipStatusPaid
	p.PaidAt = &now
	p.UpdatedAt = now
	p.IncrementVersion()

	p.AddDomainEvent(NewPayslipPaidEvent(p))

	return nil
}

// Void cancels a draft or finalised payslip
func (p *Payslip) Void(reason string) error {
	if p.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot void payslip in %s status", p.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Void reason is required")
	}

	p.Status = PayslipStatusVoided
	p.VoidReason = reason
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// EmployerCost returns the total cost to company including employer levies
func (p *Payslip) EmployerCost() decimal.Decimal {
	return p.GrossPay.Add(p.UIFEmployer).Add(p.SDL)
}

// recalculate derives gross pay and statutory deductions from the earnings
func (p *Payslip) recalculate() {
	p.GrossPay = p.BasicSalary.Add(p.Allowances).Round(2)
	p.PAYE = tax.MonthlyPAYE(p.GrossPay)
	p.UIFEmployee = tax.MonthlyUIFEmployee(p.GrossPay)
	p.UIFEmployer = p.UIFEmployee
	p.SDL = tax.MonthlySDL(p.GrossPay)
	p.NetPay = p.GrossPay.Sub(p.PAYE).Sub(p.UIFEmployee).Round(2)
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}
