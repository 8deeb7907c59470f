package payroll

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/square15/backend/internal/domain/shared"
)

// PayslipCreatedEvent is raised when a payslip is drafted
type PayslipCreatedEvent struct {
	shared.BaseDomainEvent
	PayslipID     uuid.UUID       `json:"payslip_id"`
	PayslipNumber string          `json:"payslip_number"`
	EmployeeID    uuid.UUID       `json:"employee_id"`
	GrossPay      decimal.Decimal `json:"gross_pay"`
}

// EventType returns the event type name
func (e *PayslipCreatedEvent) EventType() string {
	return "PayslipCreated"
}

// NewPayslipCreatedEvent creates a new PayslipCreatedEvent
func NewPayslipCreatedEvent(p *Payslip) *PayslipCreatedEvent {
	return &PayslipCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("PayslipCreated", "Payslip", p.ID, p.TenantID),
		PayslipID:       p.ID,
		PayslipNumber:   p.PayslipNumber,
		EmployeeID:      p.EmployeeID,
		GrossPay:        p.GrossPay,
	}
}

// PayslipFinalisedEvent is raised when a payslip is locked for payment
type PayslipFinalisedEvent struct {
	shared.BaseDomainEvent
	PayslipID     uuid.UUID       `json:"payslip_id"`
	PayslipNumber string          `json:"payslip_number"`
	EmployeeID    uuid.UUID       `json:"employee_id"`
	NetPay        decimal.Decimal `json:"net_pay"`
}

// EventType returns the event type name
func (e *PayslipFinalisedEvent) EventType() string {
	return "PayslipFinalised"
}

// NewPayslipFinalisedEvent creates a new PayslipFinalisedEvent
func NewPayslipFinalisedEvent(p *Payslip) *PayslipFinalisedEvent {
	return &PayslipFinalisedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("PayslipFinalised", "Payslip", p.ID, p.TenantID),
		PayslipID:       p.ID,
		PayslipNumber:   p.PayslipNumber,
		EmployeeID:      p.EmployeeID,
		NetPay:          p.NetPay,
	}
}

// PayslipPaidEvent is raised when a salary is paid out
type PayslipPaidEvent struct {
	shared.BaseDomainEvent
	PayslipID     uuid.UUID       `json:"payslip_id"`
	PayslipNumber string          `json:"payslip_number"`
	EmployeeID    uuid.UUID       `json:"employee_id"`
	NetPay        decimal.Decimal `json:"net_pay"`
}

// EventType returns the event type name
func (e *PayslipPaidEvent) EventType() string {
	return "PayslipPaid"
}

// NewPayslipPaidEvent creates a new PayslipPaidEvent
func NewPayslipPaidEvent(p *Payslip) *PayslipPaidEvent {
	return &PayslipPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("PayslipPaid", "Payslip", p.ID, p.TenantID),
		PayslipID:       p.ID,
		PayslipNumber:   p.PayslipNumber,
		EmployeeID:      p.EmployeeID,
		NetPay:          p.NetPay,
	}
}
