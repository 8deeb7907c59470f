package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/square15/backend/internal/domain/shared"
)

// InvoiceFilter defines filtering options for invoice queries
type InvoiceFilter struct {
	shared.Filter
	CustomerID *uuid.UUID       // Filter by customer
	Status     *InvoiceStatus   // Filter by status
	FromDate   *time.Time       // Filter by creation date range start
	ToDate     *time.Time       // Filter by creation date range end
	DueFrom    *time.Time       // Filter by due date range start
	DueTo      *time.Time       // Filter by due date range end
	MinTotal   *decimal.Decimal // Filter by minimum total
	MaxTotal   *decimal.Decimal // Filter by maximum total
}

// InvoiceRepository defines the interface for invoice persistence
type InvoiceRepository interface {
	// FindByID finds an invoice by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)

	// FindByIDForTenant finds an invoice by ID for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Invoice, error)

	// FindByInvoiceNumber finds by invoice number for a tenant
	FindByInvoiceNumber(ctx context.Context, tenantID uuid.UUID, invoiceNumber string) (*Invoice, error)

	// FindAllForTenant finds all invoices for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter InvoiceFilter) ([]Invoice, error)

	// FindByCustomer finds invoices for a customer
	FindByCustomer(ctx context.Context, tenantID, customerID uuid.UUID, filter InvoiceFilter) ([]Invoice, error)

	// FindDueForOverdueSweep finds sent invoices whose due date has passed
	FindDueForOverdueSweep(ctx context.Context, asOf time.Time, limit int) ([]Invoice, error)

	// Save creates or updates an invoice
	Save(ctx context.Context, invoice *Invoice) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, invoice *Invoice) error

	// DeleteForTenant soft deletes an invoice for a tenant
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error

	// CountForTenant counts invoices for a tenant with optional filters
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter InvoiceFilter) (int64, error)

	// SumTotalsByStatus sums invoice totals by status within an issue-date period
	SumTotalsByStatus(ctx context.Context, tenantID uuid.UUID, status InvoiceStatus, from, to time.Time) (decimal.Decimal, error)

	// SumPaidTotals sums settled invoice totals within a payment-date period
	SumPaidTotals(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (decimal.Decimal, error)

	// GenerateInvoiceNumber generates the next invoice number for a tenant
	GenerateInvoiceNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
}

// QuotationFilter defines filtering options for quotation queries
type QuotationFilter struct {
	shared.Filter
	CustomerID *uuid.UUID       // Filter by customer
	Status     *QuotationStatus // Filter by status
	FromDate   *time.Time       // Filter by creation date range start
	ToDate     *time.Time       // Filter by creation date range end
}

// QuotationRepository defines the interface for quotation persistence
type QuotationRepository interface {
	// FindByID finds a quotation by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Quotation, error)

	// FindByIDForTenant finds a quotation by ID for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Quotation, error)

	// FindByQuotationNumber finds by quotation number for a tenant
	FindByQuotationNumber(ctx context.Context, tenantID uuid.UUID, quotationNumber string) (*Quotation, error)

	// FindAllForTenant finds all quotations for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter QuotationFilter) ([]Quotation, error)

	// FindLapsed finds sent quotations whose validity has passed
	FindLapsed(ctx context.Context, asOf time.Time, limit int) ([]Quotation, error)

	// Save creates or updates a quotation
	Save(ctx context.Context, quotation *Quotation) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, quotation *Quotation) error

	// DeleteForTenant soft deletes a quotation for a tenant
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error

	// CountForTenant counts quotations for a tenant with optional filters
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter QuotationFilter) (int64, error)

	// GenerateQuotationNumber generates the next quotation number for a tenant
	GenerateQuotationNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
}

// OrderFilter defines filtering options for order queries
type OrderFilter struct {
	shared.Filter
	CustomerID *uuid.UUID   // Filter by customer
	Status     *OrderStatus // Filter by status
	FromDate   *time.Time   // Filter by creation date range start
	ToDate     *time.Time   // Filter by creation date range end
}

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByID finds an order by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByIDForTenant finds an order by ID for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Order, error)

	// FindByOrderNumber finds by order number for a tenant
	FindByOrderNumber(ctx context.Context, tenantID uuid.UUID, orderNumber string) (*Order, error)

	// FindAllForTenant finds all orders for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter OrderFilter) ([]Order, error)

	// Save creates or updates an order
	Save(ctx context.Context, order *Order) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, order *Order) error

	// DeleteForTenant soft deletes an order for a tenant
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error

	// CountForTenant counts orders for a tenant with optional filters
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter OrderFilter) (int64, error)

	// GenerateOrderNumber generates the next order number for a tenant
	GenerateOrderNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
}

// PaymentRequestFilter defines filtering options for payment request queries
type PaymentRequestFilter struct {
	shared.Filter
	CustomerID *uuid.UUID            // Filter by customer
	InvoiceID  *uuid.UUID            // Filter by linked invoice
	Status     *PaymentRequestStatus // Filter by status
	FromDate   *time.Time            // Filter by creation date range start
	ToDate     *time.Time            // Filter by creation date range end
}

// PaymentRequestRepository defines the interface for payment request persistence
type PaymentRequestRepository interface {
	// FindByID finds a payment request by ID
	FindByID(ctx context.Context, id uuid.UUID) (*PaymentRequest, error)

	// FindByIDForTenant finds a payment request by ID for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*PaymentRequest, error)

	// FindByRequestNumber finds by request number for a tenant
	FindByRequestNumber(ctx context.Context, tenantID uuid.UUID, requestNumber string) (*PaymentRequest, error)

	// FindAllForTenant finds all payment requests for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter PaymentRequestFilter) ([]PaymentRequest, error)

	// Save creates or updates a payment request
	Save(ctx context.Context, request *PaymentRequest) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, request *PaymentRequest) error

	// DeleteForTenant soft deletes a payment request for a tenant
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error

	// CountForTenant counts payment requests for a tenant with optional filters
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter PaymentRequestFilter) (int64, error)

	// GenerateRequestNumber generates the next payment request number for a tenant
	GenerateRequestNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
}
