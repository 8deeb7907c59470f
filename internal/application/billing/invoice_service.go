package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/square15/backend/internal/domain/billing"
	"github.com/square15/backend/internal/domain/identity"
	"github.com/square15/backend/internal/domain/shared"
	"github.com/square15/backend/internal/infrastructure/mailer"
	"github.com/square15/backend/internal/infrastructure/pdf"
	"github.com/square15/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// InvoiceService handles invoice operations
type InvoiceService struct {
	invoiceRepo    billing.InvoiceRepository
	tenantRepo     identity.TenantRepository
	documents      *pdf.DocumentBuilder
	renderer       pdf.Renderer
	mail           mailer.Mailer
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	invoiceRepo billing.InvoiceRepository,
	tenantRepo identity.TenantRepository,
	documents *pdf.DocumentBuilder,
	renderer pdf.Renderer,
	mail mailer.Mailer,
	logger *zap.Logger,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo: invoiceRepo,
		tenantRepo:  tenantRepo,
		documents:   documents,
		renderer:    renderer,
		mail:        mail,
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *InvoiceService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// publishEvents publishes the invoice's pending domain events.
// Publish failures are logged and do not fail the operation.
func (s *InvoiceService) publishEvents(ctx context.Context, invoice *billing.Invoice) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range invoice.GetDomainEvents() {
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.Warn("Failed to publish invoice event",
				zap.String("event_type", event.EventType()),
				zap.String("invoice_number", invoice.InvoiceNumber),
				zap.Error(err))
		}
	}
	invoice.ClearDomainEvents()
}

// LineItemRequest is a billable line submitted by the client
type LineItemRequest struct {
	Description string          `json:"description" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
}

// LineItemResponse is a line item DTO
type LineItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// InvoiceResponse is the invoice DTO returned to clients
type InvoiceResponse struct {
	ID            uuid.UUID          `json:"id"`
	InvoiceNumber string             `json:"invoice_number"`
	CustomerID    uuid.UUID          `json:"customer_id"`
	CustomerName  string             `json:"customer_name"`
	CustomerEmail string             `json:"customer_email"`
	Lines         []LineItemResponse `json:"lines"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	VATAmount     decimal.Decimal    `json:"vat_amount"`
	Total         decimal.Decimal    `json:"total"`
	Status        string             `json:"status"`
	IssuedAt      *time.Time         `json:"issued_at,omitempty"`
	DueDate       *time.Time         `json:"due_date,omitempty"`
	PaidAt        *time.Time         `json:"paid_at,omitempty"`
	PaymentMethod string             `json:"payment_method,omitempty"`
	Remark        string             `json:"remark,omitempty"`
	CancelReason  string             `json:"cancel_reason,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	Version       int                `json:"version"`
}

// CreateInvoiceRequest contains fields for creating a draft invoice
type CreateInvoiceRequest struct {
	CustomerID    uuid.UUID         `json:"customer_id" binding:"required"`
	CustomerName  string            `json:"customer_name" binding:"required"`
	CustomerEmail string            `json:"customer_email"`
	Lines         []LineItemRequest `json:"lines"`
	Remark        string            `json:"remark"`
}

// SendInvoiceRequest carries the payment due date
type SendInvoiceRequest struct {
	DueDate time.Time `json:"due_date" binding:"required"`
}

// MarkInvoicePaidRequest carries the settlement method
type MarkInvoicePaidRequest struct {
	PaymentMethod string `json:"payment_method" binding:"required"`
}

// CancelInvoiceRequest carries the cancellation reason
type CancelInvoiceRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// InvoiceListFilter defines filtering options for listing invoices
type InvoiceListFilter struct {
	CustomerID string `form:"customer_id"`
	Status     string `form:"status"`
	FromDate   string `form:"from_date"` // YYYY-MM-DD
	ToDate     string `form:"to_date"`   // YYYY-MM-DD
	Search     string `form:"search"`
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size"`
}

// CreateInvoice creates a draft invoice with optional initial lines
func (s *InvoiceService) CreateInvoice(ctx context.Context, tenantID uuid.UUID, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	number, err := s.invoiceRepo.GenerateInvoiceNumber(ctx, tenantID)
	if err != nil {
		s.logger.Error("Failed to generate invoice number", zap.Error(err))
		return nil, err
	}

	invoice, err := billing.NewInvoice(tenantID, number, req.CustomerID, req.CustomerName, req.CustomerEmail)
	if err != nil {
		return nil, err
	}

	for _, line := range req.Lines {
		if _, err := invoice.AddLine(line.Description, line.Quantity, line.UnitPrice); err != nil {
			return nil, err
		}
	}
	if req.Remark != "" {
		invoice.SetRemark(req.Remark)
	}

	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		s.logger.Error("Failed to save invoice", zap.Error(err))
		return nil, err
	}
	s.publishEvents(ctx, invoice)

	s.logger.Info("Invoice created",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.String("total", invoice.Total.StringFixed(2)))

	return toInvoiceResponse(invoice), nil
}

// GetInvoice retrieves an invoice by ID
func (s *InvoiceService) GetInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.findInvoice(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(invoice), nil
}

// ListInvoices lists invoices for the tenant with filtering
func (s *InvoiceService) ListInvoices(ctx context.Context, tenantID uuid.UUID, filter InvoiceListFilter) ([]InvoiceResponse, int64, error) {
	domainFilter, err := buildInvoiceFilter(filter)
	if err != nil {
		return nil, 0, err
	}

	invoices, err := s.invoiceRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.invoiceRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]InvoiceResponse, 0, len(invoices))
	for i := range invoices {
		responses = append(responses, *toInvoiceResponse(&invoices[i]))
	}
	return responses, total, nil
}

// AddInvoiceLine appends a line to a draft invoice
func (s *InvoiceService) AddInvoiceLine(ctx context.Context, tenantID, invoiceID uuid.UUID, req LineItemRequest) (*InvoiceResponse, error) {
	invoice, err := s.findInvoice(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}

	if _, err := invoice.AddLine(req.Description, req.Quantity, req.UnitPrice); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.SaveWithLock(ctx, invoice); err != nil {
		return nil, err
	}
	return toInvoiceResponse(invoice), nil
}

// RemoveInvoiceLine removes a line from a draft invoice
func (s *InvoiceService) RemoveInvoiceLine(ctx context.Context, tenantID, invoiceID, lineID uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.findInvoice(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}

	if err := invoice.RemoveLine(lineID); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.SaveWithLock(ctx, invoice); err != nil {
		return nil, err
	}
	return toInvoiceResponse(invoice), nil
}

// SendInvoice issues the invoice to the customer
func (s *InvoiceService) SendInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID, req SendInvoiceRequest) (*InvoiceResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", "send",
		telemetry.WithAttribute(telemetry.SpanAttrInvoiceID, invoiceID.String()))
	defer span.End()

	invoice, err := s.findInvoice(ctx, tenantID, invoiceID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span,
		telemetry.SpanAttrInvoiceNumber, invoice.InvoiceNumber,
		telemetry.SpanAttrCustomerName, invoice.CustomerName)

	if err := invoice.Send(req.DueDate); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if err := s.invoiceRepo.SaveWithLock(ctx, invoice); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	s.publishEvents(ctx, invoice)

	s.logger.Info("Invoice sent",
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.Time("due_date", req.DueDate))

	return toInvoiceResponse(invoice), nil
}

// MarkInvoicePaid settles the invoice
func (s *InvoiceService) MarkInvoicePaid(ctx context.Context, tenantID, invoiceID uuid.UUID, req MarkInvoicePaidRequest) (*InvoiceResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", "mark-paid",
		telemetry.WithAttribute(telemetry.SpanAttrInvoiceID, invoiceID.String()))
	defer span.End()

	invoice, err := s.findInvoice(ctx, tenantID, invoiceID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span,
		telemetry.SpanAttrInvoiceNumber, invoice.InvoiceNumber,
		telemetry.SpanAttrAmount, invoice.Total.StringFixed(2))

	if err := invoice.MarkPaid(billing.PaymentMethod(req.PaymentMethod)); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if err := s.invoiceRepo.SaveWithLock(ctx, invoice); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttribute(span, telemetry.SpanAttrInvoiceStatus, string(invoice.Status))
	s.publishEvents(ctx, invoice)

	s.logger.Info("Invoice paid",
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.String("total", invoice.Total.StringFixed(2)))

	return toInvoiceResponse(invoice), nil
}

// CancelInvoice voids the invoice
func (s *InvoiceService) CancelInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID, req CancelInvoiceRequest) (*InvoiceResponse, error) {
	invoice, err := s.findInvoice(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}

	if err := invoice.Cancel(req.Reason); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.SaveWithLock(ctx, invoice); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, invoice)
	return toInvoiceResponse(invoice), nil
}

// DeleteInvoice removes a draft or cancelled invoice
func (s *InvoiceService) DeleteInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) error {
	invoice, err := s.findInvoice(ctx, tenantID, invoiceID)
	if err != nil {
		return err
	}

	if invoice.Status != billing.InvoiceStatusDraft && invoice.Status != billing.InvoiceStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Only draft or cancelled invoices can be deleted")
	}

	return s.invoiceRepo.DeleteForTenant(ctx, tenantID, invoiceID)
}

// RenderInvoicePDF renders the invoice as a PDF document
func (s *InvoiceService) RenderInvoicePDF(ctx context.Context, tenantID, invoiceID uuid.UUID) ([]byte, string, error) {
	invoice, err := s.findInvoice(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, "", err
	}

	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil || tenant == nil {
		return nil, "", shared.NewDomainError("NOT_FOUND", "Tenant not found")
	}

	html, err := s.documents.BuildInvoiceHTML(buildInvoiceDocument(tenant, invoice))
	if err != nil {
		return nil, "", err
	}

	result, err := s.renderer.Render(ctx, &pdf.RenderRequest{
		HTML:      html,
		PaperSize: pdf.PaperSizeA4,
		Title:     invoice.InvoiceNumber,
	})
	if err != nil {
		s.logger.Error("Failed to render invoice PDF",
			zap.String("invoice_number", invoice.InvoiceNumber),
			zap.Error(err))
		return nil, "", err
	}

	filename := fmt.Sprintf("%s.pdf", invoice.InvoiceNumber)
	return result.PDFData, filename, nil
}

// EmailStatement renders a statement for the customer's invoices in the
// period and mails it with the PDF attached.
func (s *InvoiceService) EmailStatement(ctx context.Context, tenantID, customerID uuid.UUID, periodStart, periodEnd time.Time) error {
	if !periodEnd.After(periodStart) {
		return shared.NewDomainError("INVALID_PERIOD", "Period end must be after period start")
	}

	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil || tenant == nil {
		return shared.NewDomainError("NOT_FOUND", "Tenant not found")
	}

	invoices, err := s.invoiceRepo.FindByCustomer(ctx, tenantID, customerID, billing.InvoiceFilter{
		FromDate: &periodStart,
		ToDate:   &periodEnd,
	})
	if err != nil {
		return err
	}
	if len(invoices) == 0 {
		return shared.NewDomainError("NOT_FOUND", "Customer has no invoices in the period")
	}
	if invoices[0].CustomerEmail == "" {
		return shared.NewDomainError("NO_EMAIL", "Customer has no email address on file")
	}

	doc := buildStatementDocument(tenant, invoices, periodStart, periodEnd)

	html, err := s.documents.BuildStatementHTML(doc)
	if err != nil {
		return err
	}
	result, err := s.renderer.Render(ctx, &pdf.RenderRequest{
		HTML:      html,
		PaperSize: pdf.PaperSizeA4,
		Title:     "Statement",
	})
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("Your statement for %s", periodStart.Format("January 2006"))
	err = s.mail.Send(ctx, &mailer.Message{
		To:       []string{invoices[0].CustomerEmail},
		Subject:  subject,
		HTMLBody: html,
		Attachments: []mailer.Attachment{
			{Filename: "statement.pdf", ContentType: "application/pdf", Data: result.PDFData},
		},
	})
	if err != nil {
		s.logger.Error("Failed to email statement",
			zap.String("customer_id", customerID.String()),
			zap.Error(err))
		return shared.NewDomainError("MAIL_FAILED", "Failed to send statement email")
	}

	s.logger.Info("Statement emailed",
		zap.String("customer_id", customerID.String()),
		zap.Int("invoices", len(invoices)))

	return nil
}

// RunOverdueSweep flags sent invoices whose due date has passed.
// Returns the number of invoices marked overdue.
func (s *InvoiceService) RunOverdueSweep(ctx context.Context, asOf time.Time) (int, error) {
	const batchSize = 200

	marked := 0
	for {
		due, err := s.invoiceRepo.FindDueForOverdueSweep(ctx, asOf, batchSize)
		if err != nil {
			return marked, err
		}
		if len(due) == 0 {
			return marked, nil
		}

		for i := range due {
			invoice := &due[i]
			if err := invoice.MarkOverdue(asOf); err != nil {
				continue
			}
			if err := s.invoiceRepo.SaveWithLock(ctx, invoice); err != nil {
				s.logger.Warn("Failed to mark invoice overdue",
					zap.String("invoice_number", invoice.InvoiceNumber),
					zap.Error(err))
				continue
			}
			s.publishEvents(ctx, invoice)
			marked++
		}

		if len(due) < batchSize {
			return marked, nil
		}
	}
}

func (s *InvoiceService) findInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) (*billing.Invoice, error) {
	invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Invoice not found")
	}
	return invoice, nil
}

// buildInvoiceFilter parses the HTTP filter into the domain filter
func buildInvoiceFilter(filter InvoiceListFilter) (billing.InvoiceFilter, error) {
	domainFilter := billing.InvoiceFilter{
		Filter: shared.Filter{
			Search:   filter.Search,
			Page:     filter.Page,
			PageSize: filter.PageSize,
		},
	}
	if filter.CustomerID != "" {
		customerID, err := uuid.Parse(filter.CustomerID)
		if err != nil {
			return domainFilter, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID is not a valid UUID")
		}
		domainFilter.CustomerID = &customerID
	}
	if filter.Status != "" {
		status := billing.InvoiceStatus(filter.Status)
		if !status.IsValid() {
			return domainFilter, shared.NewDomainError("INVALID_STATUS", "Invoice status is not valid")
		}
		domainFilter.Status = &status
	}
	if filter.FromDate != "" {
		from, err := time.Parse("2006-01-02", filter.FromDate)
		if err != nil {
			return domainFilter, shared.NewDomainError("INVALID_DATE", "from_date must be YYYY-MM-DD")
		}
		domainFilter.FromDate = &from
	}
	if filter.ToDate != "" {
		to, err := time.Parse("2006-01-02", filter.ToDate)
		if err != nil {
			return domainFilter, shared.NewDomainError("INVALID_DATE", "to_date must be YYYY-MM-DD")
		}
		end := to.AddDate(0, 0, 1)
		domainFilter.ToDate = &end
	}
	return domainFilter, nil
}

func buildInvoiceDocument(tenant *identity.Tenant, invoice *billing.Invoice) *pdf.InvoiceDocument {
	doc := &pdf.InvoiceDocument{
		CompanyName:      tenant.Name,
		CompanyVATNumber: tenant.TaxProfile.VATNumber,
		CompanyAddress:   tenant.Address,
		Number:           invoice.InvoiceNumber,
		Status:           invoice.Status.String(),
		CustomerName:     invoice.CustomerName,
		CustomerEmail:    invoice.CustomerEmail,
		Subtotal:         invoice.Subtotal,
		VATRate:          decimal.NewFromInt(15),
		VATAmount:        invoice.VATAmount,
		Total:            invoice.Total,
		Notes:            invoice.Remark,
	}
	if invoice.IssuedAt != nil {
		doc.IssueDate = *invoice.IssuedAt
	}
	if invoice.DueDate != nil {
		doc.DueDate = *invoice.DueDate
	}
	for _, line := range invoice.Lines {
		doc.Lines = append(doc.Lines, pdf.InvoiceLine{
			Description: line.Description,
			Quantity:    int(line.Quantity.IntPart()),
			UnitPrice:   line.UnitPrice,
			Amount:      line.LineTotal,
		})
	}
	return doc
}

func buildStatementDocument(tenant *identity.Tenant, invoices []billing.Invoice, periodStart, periodEnd time.Time) *pdf.StatementDocument {
	doc := &pdf.StatementDocument{
		CompanyName:  tenant.Name,
		CustomerName: invoices[0].CustomerName,
		PeriodStart:  periodStart,
		PeriodEnd:    periodEnd,
	}

	totalBilled := decimal.Zero
	totalPaid := decimal.Zero
	totalOverdue := decimal.Zero
	now := time.Now()

	for i := range invoices {
		inv := &invoices[i]
		if inv.Status == billing.InvoiceStatusCancelled {
			continue
		}

		line := pdf.StatementLine{
			Date:        inv.CreatedAt,
			Reference:   inv.InvoiceNumber,
			Description: "Invoice",
			Status:      inv.Status.String(),
			Amount:      inv.Total,
		}
		if inv.IssuedAt != nil {
			line.Date = *inv.IssuedAt
		}
		if inv.Status == billing.InvoiceStatusOverdue || inv.IsOverdue(now) {
			line.Overdue = true
			totalOverdue = totalOverdue.Add(inv.Total)
		}
		doc.Lines = append(doc.Lines, line)

		totalBilled = totalBilled.Add(inv.Total)
		if inv.Status == billing.InvoiceStatusPaid {
			totalPaid = totalPaid.Add(inv.Total)
		}
	}

	doc.TotalBilled = totalBilled
	doc.TotalPaid = totalPaid
	doc.TotalOverdue = totalOverdue
	doc.TotalOutstanding = totalBilled.Sub(totalPaid)
	return doc
}

// toInvoiceResponse maps an invoice aggregate to the response DTO
func toInvoiceResponse(invoice *billing.Invoice) *InvoiceResponse {
	resp := &InvoiceResponse{
		ID:            invoice.ID,
		InvoiceNumber: invoice.InvoiceNumber,
		CustomerID:    invoice.CustomerID,
		CustomerName:  invoice.CustomerName,
		CustomerEmail: invoice.CustomerEmail,
		Lines:         make([]LineItemResponse, 0, len(invoice.Lines)),
		Subtotal:      invoice.Subtotal,
		VATAmount:     invoice.VATAmount,
		Total:         invoice.Total,
		Status:        invoice.Status.String(),
		IssuedAt:      invoice.IssuedAt,
		DueDate:       invoice.DueDate,
		PaidAt:        invoice.PaidAt,
		Remark:        invoice.Remark,
		CancelReason:  invoice.CancelReason,
		CreatedAt:     invoice.CreatedAt,
		Version:       invoice.Version,
	}
	if invoice.PaymentMethod != nil {
		resp.PaymentMethod = string(*invoice.PaymentMethod)
	}
	for _, line := range invoice.Lines {
		resp.Lines = append(resp.Lines, LineItemResponse{
			ID:          line.ID,
			Description: line.Description,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			LineTotal:   line.LineTotal,
		})
	}
	return resp
}
