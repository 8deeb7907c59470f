package asset

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/square15/backend/internal/domain/shared"
)

// LiabilityStatus represents the lifecycle state of a liability
type LiabilityStatus string

const (
	LiabilityStatusOpen    LiabilityStatus = "OPEN"
	LiabilityStatusSettled LiabilityStatus = "SETTLED"
)

// IsValid checks if the status is a valid LiabilityStatus
func (s LiabilityStatus) IsValid() bool {
	return s == LiabilityStatusOpen || s == LiabilityStatusSettled
}

// String returns the string representation of LiabilityStatus
func (s LiabilityStatus) String() string {
	return string(s)
}

// LiabilityType classifies liabilities for the balance sheet
type LiabilityType string

const (
	LiabilityTypeLoan     LiabilityType = "LOAN"
	LiabilityTypeBond     LiabilityType = "BOND"
	LiabilityTypeCreditor LiabilityType = "CREDITOR"
	LiabilityTypeTaxOwed  LiabilityType = "TAX_OWED"
	LiabilityTypeOther    LiabilityType = "OTHER"
)

// IsValid checks if the liability type is valid
func (t LiabilityType) IsValid() bool {
	switch t {
	case LiabilityTypeLoan, LiabilityTypeBond, LiabilityTypeCreditor, LiabilityTypeTaxOwed, LiabilityTypeOther:
		return true
	}
	return false
}

// Liability is an amount owed by the business. Repayments reduce the
// outstanding balance; the liability settles when the balance reaches zero.
type Liability struct {
	shared.TenantAggregateRoot
	LiabilityNumber string          `json:"liability_number"`
	Name            string          `json:"name"`
	Type            LiabilityType   `json:"type"`
	Creditor        string          `json:"creditor"`
	PrincipalAmount decimal.Decimal `json:"principal_amount"`
	Outstanding     decimal.Decimal `json:"outstanding"`
	InterestRate    decimal.Decimal `json:"interest_rate"` // annual, e.g. 0.115
	IncurredAt      time.Time       `json:"incurred_at"`
	DueDate         *time.Time      `json:"due_date"`
	Status          LiabilityStatus `json:"status"`
	SettledAt       *time.Time      `json:"settled_at"`
}

// NewLiability records an amount owed
func NewLiability(tenantID uuid.UUID, liabilityNumber, name string, liabilityType LiabilityType, creditor string, principal decimal.Decimal, incurredAt time.Time) (*Liability, error) {
	if liabilityNumber == "" {
		return nil, shared.NewDomainError("INVALID_LIABILITY_NUMBER", "Liability number cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Liability name cannot be empty")
	}
	if !liabilityType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TYPE", "Liability type is not valid")
	}
	if creditor == "" {
		return nil, shared.NewDomainError("INVALID_CREDITOR", "Creditor cannot be empty")
	}
	if principal.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_PRINCIPAL", "Principal amount must be positive")
	}

	return &Liability{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		LiabilityNumber:     liabilityNumber,
		Name:                name,
		Type:                liabilityType,
		Creditor:            creditor,
		PrincipalAmount:     principal.Round(2),
		Outstanding:         principal.Round(2),
		InterestRate:        decimal.Zero,
		IncurredAt:          incurredAt,
		Status:              LiabilityStatusOpen,
	}, nil
}

// SetTerms sets the interest rate and due date; open liabilities only
func (l *Liability) SetTerms(interestRate decimal.Decimal, dueDate *time.Time) error {
	if l.Status != LiabilityStatusOpen {
		return shared.NewDomainError("INVALID_STATE", "Can only amend an open liability")
	}
	if interestRate.IsNegative() {
		return shared.NewDomainError("INVALID_RATE", "Interest rate cannot be negative")
	}
	l.InterestRate = interestRate
	l.DueDate = dueDate
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
	return nil
}

// RecordRepayment reduces the outstanding balance; settles at zero
func (l *Liability) RecordRepayment(amount decimal.Decimal) error {
	if l.Status != LiabilityStatusOpen {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot repay liability in %s status", l.Status))
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Repayment amount must be positive")
	}
	if amount.GreaterThan(l.Outstanding) {
		return shared.NewDomainError("INVALID_AMOUNT", "Repayment exceeds outstanding balance")
	}

	l.Outstanding = l.Outstanding.Sub(amount).Round(2)
	now := time.Now()
	l.UpdatedAt = now
	l.IncrementVersion()
	if l.Outstanding.IsZero() {
		l.Status = LiabilityStatusSettled
		l.SettledAt = &now
	}
	return nil
}

// AccrueInterest capitalises interest onto the outstanding balance
func (l *Liability) AccrueInterest(amount decimal.Decimal) error {
	if l.Status != LiabilityStatusOpen {
		return shared.NewDomainError("INVALID_STATE", "Can only accrue interest on an open liability")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Interest amount must be positive")
	}
	l.Outstanding = l.Outstanding.Add(amount).Round(2)
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
	return nil
}
