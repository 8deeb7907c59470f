// Package property holds customer registrations and maintenance workflows
// for managed facilities.
package property

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/square15/backend/internal/domain/shared"
)

// RegistrationStatus represents the lifecycle state of a registration
type RegistrationStatus string

const (
	RegistrationStatusPending    RegistrationStatus = "PENDING"
	RegistrationStatusApproved   RegistrationStatus = "APPROVED"
	RegistrationStatusDeclined   RegistrationStatus = "DECLINED"
	RegistrationStatusTerminated RegistrationStatus = "TERMINATED"
)

// IsValid checks if the status is a valid RegistrationStatus
func (s RegistrationStatus) IsValid() bool {
	switch s {
	case RegistrationStatusPending, RegistrationStatusApproved,
		RegistrationStatusDeclined, RegistrationStatusTerminated:
		return true
	}
	return false
}

// String returns the string representation of RegistrationStatus
func (s RegistrationStatus) String() string {
	return string(s)
}

// IsTerminal returns true if the registration can no longer change
func (s RegistrationStatus) IsTerminal() bool {
	return s == RegistrationStatusDeclined || s == RegistrationStatusTerminated
}

// UnitType classifies the registered unit
type UnitType string

const (
	UnitTypeOffice      UnitType = "OFFICE"
	UnitTypeRetail      UnitType = "RETAIL"
	UnitTypeWarehouse   UnitType = "WAREHOUSE"
	UnitTypeResidential UnitType = "RESIDENTIAL"
	UnitTypeParking     UnitType = "PARKING"
)

// IsValid checks if the unit type is valid
func (t UnitType) IsValid() bool {
	switch t {
	case UnitTypeOffice, UnitTypeRetail, UnitTypeWarehouse, UnitTypeResidential, UnitTypeParking:
		return true
	}
	return false
}

// Registration records a customer's occupancy of a unit. An approved
// registration carries the monthly amount billed to the customer.
type Registration struct {
	shared.TenantAggregateRoot
	RegistrationNumber string             `json:"registration_number"`
	CustomerID         uuid.UUID          `json:"customer_id"`
	CustomerName       string             `json:"customer_name"`
	CustomerEmail      string             `json:"customer_email"`
	UnitCode           string             `json:"unit_code"`
	UnitType           UnitType           `json:"unit_type"`
	MonthlyAmount      decimal.Decimal    `json:"monthly_amount"`
	DepositAmount      decimal.Decimal    `json:"deposit_amount"`
	StartDate          time.Time          `json:"start_date"`
	EndDate            *time.Time         `json:"end_date"`
	Status             RegistrationStatus `json:"status"`
	ApprovedAt         *time.Time         `json:"approved_at"`
	ApprovedBy         *uuid.UUID         `json:"approved_by"`
	DeclineReason      string             `json:"decline_reason"`
	TerminatedAt       *time.Time         `json:"terminated_at"`
	TerminationReason  string             `json:"termination_reason"`
	Remark             string             `json:"remark"`
}

// NewRegistration opens a pending registration for a unit
func NewRegistration(tenantID uuid.UUID, registrationNumber string, customerID uuid.UUID, customerName, customerEmail, unitCode string, unitType UnitType, monthlyAmount, depositAmount decimal.Decimal, startDate time.Time) (*Registration, error) {
	if registrationNumber == "" {
		return nil, shared.NewDomainError("INVALID_REGISTRATION_NUMBER", "Registration number cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if customerName == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer name cannot be empty")
	}
	if unitCode == "" {
		return nil, shared.NewDomainError("INVALID_UNIT", "Unit code cannot be empty")
	}
	if !unitType.IsValid() {
		return nil, shared.NewDomainError("INVALID_UNIT", "Unit type is not valid")
	}
	if monthlyAmount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Monthly amount must be positive")
	}
	if depositAmount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Deposit amount cannot be negative")
	}

	reg := &Registration{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		RegistrationNumber:  registrationNumber,
		CustomerID:          customerID,
		CustomerName:        customerName,
		CustomerEmail:       customerEmail,
		UnitCode:            unitCode,
		UnitType:            unitType,
		MonthlyAmount:       monthlyAmount.Round(2),
		DepositAmount:       depositAmount.Round(2),
		StartDate:           startDate,
		Status:              RegistrationStatusPending,
	}

	reg.AddDomainEvent(NewRegistrationCreatedEvent(reg))

	return reg, nil
}

// Approve activates the registration
func (r *Registration) Approve(approvedBy uuid.UUID) error {
	if r.Status != RegistrationStatusPending {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot approve registration in %s status", r.Status))
	}
	if approvedBy == uuid.Nil {
		return shared.NewDomainError("INVALID_USER", "Approver user ID cannot be empty")
	}

	now := time.Now()
	r.Status = RegistrationStatusApproved
	r.ApprovedAt = &now
	r.ApprovedBy = &approvedBy
	r.UpdatedAt = now
	r.IncrementVersion()

	r.AddDomainEvent(NewRegistrationApprovedEvent(r))

	return nil
}

// Decline rejects a pending registration
func (r *Registration) Decline(reason string) error {
	if r.Status != RegistrationStatusPending {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot decline registration in %s status", r.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Decline reason is required")
	}

	r.Status = RegistrationStatusDeclined
	r.DeclineReason = reason
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	r.AddDomainEvent(NewRegistrationDeclinedEvent(r))

	return nil
}

// Terminate ends an approved registration
func (r *Registration) Terminate(reason string, endDate time.Time) error {
	if r.Status != RegistrationStatusApproved {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot terminate registration in %s status", r.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Termination reason is required")
	}
	if endDate.Before(r.StartDate) {
		return shared.NewDomainError("INVALID_DATE", "End date cannot precede start date")
	}

	now := time.Now()
	r.Status = RegistrationStatusTerminated
	r.TerminatedAt = &now
	r.TerminationReason = reason
	r.EndDate = &endDate
	r.UpdatedAt = now
	r.IncrementVersion()

	r.AddDomainEvent(NewRegistrationTerminatedEvent(r))

	return nil
}

// UpdateBilling amends the monthly amount of an approved registration
func (r *Registration) UpdateBilling(monthlyAmount decimal.Decimal) error {
	if r.Status != RegistrationStatusApproved {
		return shared.NewDomainError("INVALID_STATE", "Can only amend an approved registration")
	}
	if monthlyAmount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Monthly amount must be positive")
	}
	r.MonthlyAmount = monthlyAmount.Round(2)
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	return nil
}

// IsActive reports whether the registration is billable on a date
func (r *Registration) IsActive(asOf time.Time) bool {
	if r.Status != RegistrationStatusApproved {
		return false
	}
	if asOf.Before(r.StartDate) {
		return false
	}
	if r.EndDate != nil && asOf.After(*r.EndDate) {
		return false
	}
	return true
}
