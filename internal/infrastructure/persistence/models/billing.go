package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/square15/backend/internal/domain/billing"
	"github.com/square15/backend/internal/domain/shared"
)

// InvoiceModel is the persistence model for the Invoice aggregate root.
type InvoiceModel struct {
	TenantAggregateModel
	InvoiceNumber string                 `gorm:"type:varchar(50);not null;uniqueIndex:idx_invoice_tenant_number,priority:2"`
	CustomerID    uuid.UUID              `gorm:"type:uuid;not null;index"`
	CustomerName  string                 `gorm:"type:varchar(200);not null"`
	CustomerEmail string                 `gorm:"type:varchar(255)"`
	Lines         []InvoiceLineModel     `gorm:"foreignKey:InvoiceID;references:ID"`
	Subtotal      decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	VATAmount     decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	Total         decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	Status        billing.InvoiceStatus  `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	IssuedAt      *time.Time             `gorm:"index"`
	DueDate       *time.Time             `gorm:"index"`
	PaidAt        *time.Time             `gorm:"index"`
	PaymentMethod *billing.PaymentMethod `gorm:"type:varchar(20)"`
	Remark        string                 `gorm:"type:text"`
	CancelledAt   *time.Time
	CancelReason  string `gorm:"type:varchar(500)"`
}

func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain rebuilds the Invoice aggregate from the stored row.
func (m *InvoiceModel) ToDomain() *billing.Invoice {
	invoice := &billing.Invoice{
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
		InvoiceNumber: m.InvoiceNumber,
		CustomerID:    m.CustomerID,
		CustomerName:  m.CustomerName,
		CustomerEmail: m.CustomerEmail,
		Subtotal:      m.Subtotal,
		VATAmount:     m.VATAmount,
		Total:         m.Total,
		Status:        m.Status,
		IssuedAt:      m.IssuedAt,
		DueDate:       m.DueDate,
		PaidAt:        m.PaidAt,
		PaymentMethod: m.PaymentMethod,
		Remark:        m.Remark,
		CancelledAt:   m.CancelledAt,
		CancelReason:  m.CancelReason,
		Lines:         make([]billing.InvoiceLine, len(m.Lines)),
	}
	for i, line := range m.Lines {
		invoice.Lines[i] = *line.ToDomain()
	}
	return invoice
}

// FromDomain copies the Invoice aggregate into the row for saving.
func (m *InvoiceModel) FromDomain(inv *billing.Invoice) {
	m.FromDomainTenantAggregateRoot(inv.TenantAggregateRoot)
	m.InvoiceNumber = inv.InvoiceNumber
	m.CustomerID = inv.CustomerID
	m.CustomerName = inv.CustomerName
	m.CustomerEmail = inv.CustomerEmail
	m.Subtotal = inv.Subtotal
	m.VATAmount = inv.VATAmount
	m.Total = inv.Total
	m.Status = inv.Status
	m.IssuedAt = inv.IssuedAt
	m.DueDate = inv.DueDate
	m.PaidAt = inv.PaidAt
	m.PaymentMethod = inv.PaymentMethod
	m.Remark = inv.Remark
	m.CancelledAt = inv.CancelledAt
	m.CancelReason = inv.CancelReason
	m.Lines = make([]InvoiceLineModel, len(inv.Lines))
	for i, line := range inv.Lines {
		m.Lines[i] = *InvoiceLineModelFromDomain(inv.ID, &line)
	}
}

// InvoiceModelFromDomain builds a fresh row from the Invoice aggregate.
func InvoiceModelFromDomain(inv *billing.Invoice) *InvoiceModel {
	m := &InvoiceModel{}
	m.FromDomain(inv)
	return m
}

// InvoiceLineModel is the persistence model for the InvoiceLine entity.
type InvoiceLineModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Description string          `gorm:"type:varchar(500);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	LineTotal   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

func (InvoiceLineModel) TableName() string {
	return "invoice_lines"
}

// ToDomain rebuilds the InvoiceLine aggregate from the stored row.
func (m *InvoiceLineModel) ToDomain() *billing.InvoiceLine {
	return &billing.InvoiceLine{
		ID:          m.ID,
		Description: m.Description,
		Quantity:    m.Quantity,
		UnitPrice:   m.UnitPrice,
		LineTotal:   m.LineTotal,
	}
}

// InvoiceLineModelFromDomain builds a fresh row from the InvoiceLine aggregate.
func InvoiceLineModelFromDomain(invoiceID uuid.UUID, l *billing.InvoiceLine) *InvoiceLineModel {
	return &InvoiceLineModel{
		ID:          l.ID,
		InvoiceID:   invoiceID,
		Description: l.Description,
		Quantity:    l.Quantity,
		UnitPrice:   l.UnitPrice,
		LineTotal:   l.LineTotal,
	}
}

// QuotationModel is the persistence model for the Quotation aggregate root.
type QuotationModel struct {
	TenantAggregateModel
	QuotationNumber string                  `gorm:"type:varchar(50);not null;uniqueIndex:idx_quotation_tenant_number,priority:2"`
	CustomerID      uuid.UUID               `gorm:"type:uuid;not null;index"`
	CustomerName    string                  `gorm:"type:varchar(200);not null"`
	CustomerEmail   string                  `gorm:"type:varchar(255)"`
	Lines           []QuotationLineModel    `gorm:"foreignKey:QuotationID;references:ID"`
	Subtotal        decimal.Decimal         `gorm:"type:decimal(18,4);not null;default:0"`
	VATAmount       decimal.Decimal         `gorm:"type:decimal(18,4);not null;default:0"`
	Total           decimal.Decimal         `gorm:"type:decimal(18,4);not null;default:0"`
	Status          billing.QuotationStatus `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	ValidUntil      *time.Time              `gorm:"index"`
	SentAt          *time.Time
	DecidedAt       *time.Time
	RejectionReason string     `gorm:"type:varchar(500)"`
	InvoiceID       *uuid.UUID `gorm:"type:uuid;index"`
	Remark          string     `gorm:"type:text"`
}

func (QuotationModel) TableName() string {
	return "quotations"
}

// ToDomain rebuilds the Quotation aggregate from the stored row.
func (m *QuotationModel) ToDomain() *billing.Quotation {
	quotation := &billing.Quotation{
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
		QuotationNumber: m.QuotationNumber,
		CustomerID:      m.CustomerID,
		CustomerName:    m.CustomerName,
		CustomerEmail:   m.CustomerEmail,
		Subtotal:        m.Subtotal,
		VATAmount:       m.VATAmount,
		Total:           m.Total,
		Status:          m.Status,
		ValidUntil:      m.ValidUntil,
		SentAt:          m.SentAt,
		DecidedAt:       m.DecidedAt,
		RejectionReason: m.RejectionReason,
		InvoiceID:       m.InvoiceID,
		Remark:          m.Remark,
		Lines:           make([]billing.QuotationLine, len(m.Lines)),
	}
	for i, line := range m.Lines {
		quotation.Lines[i] = *line.ToDomain()
	}
	return quotation
}

// FromDomain copies the Quotation aggregate into the row for saving.
func (m *QuotationModel) FromDomain(q *billing.Quotation) {
	m.FromDomainTenantAggregateRoot(q.TenantAggregateRoot)
	m.QuotationNumber = q.QuotationNumber
	m.CustomerID = q.CustomerID
	m.CustomerName = q.CustomerName
	m.CustomerEmail = q.CustomerEmail
	m.Subtotal = q.Subtotal
	m.VATAmount = q.VATAmount
	m.Total = q.Total
	m.Status = q.Status
	m.ValidUntil = q.ValidUntil
	m.SentAt = q.SentAt
	m.DecidedAt = q.DecidedAt
	m.RejectionReason = q.RejectionReason
	m.InvoiceID = q.InvoiceID
	m.Remark = q.Remark
	m.Lines = make([]QuotationLineModel, len(q.Lines))
	for i, line := range q.Lines {
		m.Lines[i] = *QuotationLineModelFromDomain(q.ID, &line)
	}
}

// QuotationModelFromDomain builds a fresh row from the Quotation aggregate.
func QuotationModelFromDomain(q *billing.Quotation) *QuotationModel {
	m := &QuotationModel{}
	m.FromDomain(q)
	return m
}

// QuotationLineModel is the persistence model for the QuotationLine entity.
type QuotationLineModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	QuotationID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Description string          `gorm:"type:varchar(500);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	LineTotal   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

func (QuotationLineModel) TableName() string {
	return "quotation_lines"
}

// ToDomain rebuilds the QuotationLine aggregate from the stored row.
func (m *QuotationLineModel) ToDomain() *billing.QuotationLine {
	return &billing.QuotationLine{
		ID:          m.ID,
		Description: m.Description,
		Quantity:    m.Quantity,
		UnitPrice:   m.UnitPrice,
		LineTotal:   m.LineTotal,
	}
}

// QuotationLineModelFromDomain builds a fresh row from the QuotationLine aggregate.
func QuotationLineModelFromDomain(quotationID uuid.UUID, l *billing.QuotationLine) *QuotationLineModel {
	return &QuotationLineModel{
		ID:          l.ID,
		QuotationID: quotationID,
		Description: l.Description,
		Quantity:    l.Quantity,
		UnitPrice:   l.UnitPrice,
		LineTotal:   l.LineTotal,
	}
}

// OrderModel is the persistence model for the Order aggregate root.
type OrderModel struct {
	TenantAggregateModel
	OrderNumber   string              `gorm:"type:varchar(50);not null;uniqueIndex:idx_order_tenant_number,priority:2"`
	CustomerID    uuid.UUID           `gorm:"type:uuid;not null;index"`
	CustomerName  string              `gorm:"type:varchar(200);not null"`
	CustomerEmail string              `gorm:"type:varchar(255)"`
	Lines         []OrderLineModel    `gorm:"foreignKey:OrderID;references:ID"`
	Subtotal      decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	VATAmount     decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	Total         decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	Status        billing.OrderStatus `gorm:"type:varchar(20);not null;default:'PENDING'"`
	ConfirmedAt   *time.Time          `gorm:"index"`
	FulfilledAt   *time.Time
	CancelledAt   *time.Time
	CancelReason  string `gorm:"type:varchar(500)"`
	Remark        string `gorm:"type:text"`
}

func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain rebuilds the Order aggregate from the stored row.
func (m *OrderModel) ToDomain() *billing.Order {
	order := &billing.Order{
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
		OrderNumber:   m.OrderNumber,
		CustomerID:    m.CustomerID,
		CustomerName:  m.CustomerName,
		CustomerEmail: m.CustomerEmail,
		Subtotal:      m.Subtotal,
		VATAmount:     m.VATAmount,
		Total:         m.Total,
		Status:        m.Status,
		ConfirmedAt:   m.ConfirmedAt,
		FulfilledAt:   m.FulfilledAt,
		CancelledAt:   m.CancelledAt,
		CancelReason:  m.CancelReason,
		Remark:        m.Remark,
		Lines:         make([]billing.OrderLine, len(m.Lines)),
	}
	for i, line := range m.Lines {
		order.Lines[i] = *line.ToDomain()
	}
	return order
}

// FromDomain copies the Order aggregate into the row for saving.
func (m *OrderModel) FromDomain(o *billing.Order) {
	m.FromDomainTenantAggregateRoot(o.TenantAggregateRoot)
	m.OrderNumber = o.OrderNumber
	m.CustomerID = o.CustomerID
	m.CustomerName = o.CustomerName
	m.CustomerEmail = o.CustomerEmail
	m.Subtotal = o.Subtotal
	m.VATAmount = o.VATAmount
	m.Total = o.Total
	m.Status = o.Status
	m.ConfirmedAt = o.ConfirmedAt
	m.FulfilledAt = o.FulfilledAt
	m.CancelledAt = o.CancelledAt
	m.CancelReason = o.CancelReason
	m.Remark = o.Remark
	m.Lines = make([]OrderLineModel, len(o.Lines))
	for i, line := range o.Lines {
		m.Lines[i] = *OrderLineModelFromDomain(o.ID, &line)
	}
}

// OrderModelFromDomain builds a fresh row from the Order aggregate.
func OrderModelFromDomain(o *billing.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}

// OrderLineModel is the persistence model for the OrderLine entity.
type OrderLineModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Description string          `gorm:"type:varchar(500);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	LineTotal   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

func (OrderLineModel) TableName() string {
	return "order_lines"
}

// ToDomain rebuilds the OrderLine aggregate from the stored row.
func (m *OrderLineModel) ToDomain() *billing.OrderLine {
	return &billing.OrderLine{
		ID:          m.ID,
		Description: m.Description,
		Quantity:    m.Quantity,
		UnitPrice:   m.UnitPrice,
		LineTotal:   m.LineTotal,
	}
}

// OrderLineModelFromDomain builds a fresh row from the OrderLine aggregate.
func OrderLineModelFromDomain(orderID uuid.UUID, l *billing.OrderLine) *OrderLineModel {
	return &OrderLineModel{
		ID:          l.ID,
		OrderID:     orderID,
		Description: l.Description,
		Quantity:    l.Quantity,
		UnitPrice:   l.UnitPrice,
		LineTotal:   l.LineTotal,
	}
}

// PaymentRequestModel is the persistence model for the PaymentRequest aggregate root.
type PaymentRequestModel struct {
	TenantAggregateModel
	RequestNumber string                       `gorm:"type:varchar(50);not null;uniqueIndex:idx_payment_request_tenant_number,priority:2"`
	CustomerID    uuid.UUID                    `gorm:"type:uuid;not null;index"`
	CustomerName  string                       `gorm:"type:varchar(200);not null"`
	CustomerEmail string                       `gorm:"type:varchar(255)"`
	InvoiceID     *uuid.UUID                   `gorm:"type:uuid;index"`
	Amount        decimal.Decimal              `gorm:"type:decimal(18,4);not null"`
	Description   string                       `gorm:"type:varchar(500);not null"`
	Status        billing.PaymentRequestStatus `gorm:"type:varchar(20);not null;default:'PENDING'"`
	ApprovedBy    *uuid.UUID                   `gorm:"type:uuid"`
	DecidedAt     *time.Time
	DeclineReason string `gorm:"type:varchar(500)"`
	PaidAt        *time.Time
	PaymentMethod *billing.PaymentMethod `gorm:"type:varchar(20)"`
}

func (PaymentRequestModel) TableName() string {
	return "payment_requests"
}

// ToDomain rebuilds the PaymentRequest aggregate from the stored row.
func (m *PaymentRequestModel) ToDomain() *billing.PaymentRequest {
	return &billing.PaymentRequest{
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
		RequestNumber: m.RequestNumber,
		CustomerID:    m.CustomerID,
		CustomerName:  m.CustomerName,
		CustomerEmail: m.CustomerEmail,
		InvoiceID:     m.InvoiceID,
		Amount:        m.Amount,
		Description:   m.Description,
		Status:        m.Status,
		ApprovedBy:    m.ApprovedBy,
		DecidedAt:     m.DecidedAt,
		DeclineReason: m.DeclineReason,
		PaidAt:        m.PaidAt,
		PaymentMethod: m.PaymentMethod,
	}
}

// FromDomain copies the PaymentRequest aggregate into the row for saving.
func (m *PaymentRequestModel) FromDomain(p *billing.PaymentRequest) {
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	m.RequestNumber = p.RequestNumber
	m.CustomerID = p.CustomerID
	m.CustomerName = p.CustomerName
	m.CustomerEmail = p.CustomerEmail
	m.InvoiceID = p.InvoiceID
	m.Amount = p.Amount
	m.Description = p.Description
	m.Status = p.Status
	m.ApprovedBy = p.ApprovedBy
	m.DecidedAt = p.DecidedAt
	m.DeclineReason = p.DeclineReason
	m.PaidAt = p.PaidAt
	m.PaymentMethod = p.PaymentMethod
}

// PaymentRequestModelFromDomain builds a fresh row from the PaymentRequest aggregate.
func PaymentRequestModelFromDomain(p *billing.PaymentRequest) *PaymentRequestModel {
	m := &PaymentRequestModel{}
	m.FromDomain(p)
	return m
}
