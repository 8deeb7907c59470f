package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/square15/backend/internal/domain/payroll"
	"github.com/square15/backend/internal/domain/shared"
)

// PayslipModel is the persistence model for the Payslip aggregate root.
type PayslipModel struct {
	TenantAggregateModel
	PayslipNumber  string                `gorm:"type:varchar(50);not null;uniqueIndex:idx_payslip_tenant_number,priority:2"`
	EmployeeID     uuid.UUID             `gorm:"type:uuid;not null;index:idx_payslip_employee_period,priority:1"`
	EmployeeName   string                `gorm:"type:varchar(200);not null"`
	EmployeeNumber string                `gorm:"type:varchar(50);not null"`
	PeriodYear     int                   `gorm:"not null;index:idx_payslip_employee_period,priority:2"`
	PeriodMonth    int                   `gorm:"not null;index:idx_payslip_employee_period,priority:3"`
	BasicSalary    decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	Allowances     decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	GrossPay       decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	PAYE           decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	UIFEmployee    decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	UIFEmployer    decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	SDL            decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	NetPay         decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	Status         payroll.PayslipStatus `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	FinalisedAt    *time.Time
	PaidAt         *time.Time
	VoidReason     string `gorm:"type:varchar(500)"`
}

func (PayslipModel) TableName() string {
	return "payslips"
}

// ToDomain rebuilds the Payslip aggregate from the stored row.
func (m *PayslipModel) ToDomain() *payroll.Payslip {
	return &payroll.Payslip{
		TenantAggregateRoot: shared.TenantAggregateRoot{
			BaseAggregateRoot: shared.BaseAggregateRoot{
				BaseEntity: shared.BaseEntity{
					ID:        m.ID,
					CreatedAt: m.CreatedAt,
					UpdatedAt: m.UpdatedAt,
				},
				Version: m.Version,
			},
			TenantID:  m.TenantID,
			CreatedBy: m.CreatedBy,
		},
		PayslipNumber:  m.PayslipNumber,
		EmployeeID:     m.EmployeeID,
		EmployeeName:   m.EmployeeName,
		EmployeeNumber: m.EmployeeNumber,
		PeriodYear:     m.PeriodYear,
		PeriodMonth:    time.Month(m.PeriodMonth),
		BasicSalary:    m.BasicSalary,
		Allowances:     m.Allowances,
		GrossPay:       m.GrossPay,
		PAYE:           m.PAYE,
		UIFEmployee:    m.UIFEmployee,
		UIFEmployer:    m.UIFEmployer,
		SDL:            m.SDL,
		NetPay:         m.NetPay,
		Status:         m.Status,
		FinalisedAt:    m.FinalisedAt,
		PaidAt:         m.PaidAt,
		VoidReason:     m.VoidReason,
	}
}

// FromDomain copies the Payslip aggregate into the row for saving.
func (m *PayslipModel) FromDomain(p *payroll.Payslip) {
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	m.PayslipNumber = p.PayslipNumber
	m.EmployeeID = p.EmployeeID
	m.EmployeeName = p.EmployeeName
	m.EmployeeNumber = p.EmployeeNumber
	m.PeriodYear = p.PeriodYear
	m.PeriodMonth = int(p.PeriodMonth)
	m.BasicSalary = p.BasicSalary
	m.Allowances = p.Allowances
	m.GrossPay = p.GrossPay
	m.PAYE = p.PAYE
	m.UIFEmployee = p.UIFEmployee
	m.UIFEmployer = p.UIFEmployer
	m.SDL = p.SDL
	m.NetPay = p.NetPay
	m.Status = p.Status
	m.FinalisedAt = p.FinalisedAt
	m.PaidAt = p.PaidAt
	m.VoidReason = p.VoidReason
}

// PayslipModelFromDomain builds a fresh row from the Payslip aggregate.
func PayslipModelFromDomain(p *payroll.Payslip) *PayslipModel {
	m := &PayslipModel{}
	m.FromDomain(p)
	return m
}
