package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/square15/backend/internal/domain/billing"
	"github.com/square15/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// QuotationService handles quotation operations
type QuotationService struct {
	quotationRepo billing.QuotationRepository
	invoiceRepo   billing.InvoiceRepository
	logger        *zap.Logger
}

// NewQuotationService creates a new quotation service
func NewQuotationService(
	quotationRepo billing.QuotationRepository,
	invoiceRepo billing.InvoiceRepository,
	logger *zap.Logger,
) *QuotationService {
	return &QuotationService{
		quotationRepo: quotationRepo,
		invoiceRepo:   invoiceRepo,
		logger:        logger,
	}
}

// QuotationResponse is the quotation DTO returned to clients
type QuotationResponse struct {
	ID              uuid.UUID          `json:"id"`
	QuotationNumber string             `json:"quotation_number"`
	CustomerID      uuid.UUID          `json:"customer_id"`
	CustomerName    string             `json:"customer_name"`
	CustomerEmail   string             `json:"customer_email"`
	Lines           []LineItemResponse `json:"lines"`
	Subtotal        decimal.Decimal    `json:"subtotal"`
	VATAmount       decimal.Decimal    `json:"vat_amount"`
	Total           decimal.Decimal    `json:"total"`
	Status          string             `json:"status"`
	ValidUntil      *time.Time         `json:"valid_until,omitempty"`
	SentAt          *time.Time         `json:"sent_at,omitempty"`
	DecidedAt       *time.Time         `json:"decided_at,omitempty"`
	RejectionReason string             `json:"rejection_reason,omitempty"`
	InvoiceID       *uuid.UUID         `json:"invoice_id,omitempty"`
	Remark          string             `json:"remark,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
	Version         int                `json:"version"`
}

// CreateQuotationRequest contains fields for creating a draft quotation
type CreateQuotationRequest struct {
	CustomerID    uuid.UUID         `json:"customer_id" binding:"required"`
	CustomerName  string            `json:"customer_name" binding:"required"`
	CustomerEmail string            `json:"customer_email"`
	Lines         []LineItemRequest `json:"lines"`
	Remark        string            `json:"remark"`
}

// SendQuotationRequest carries the validity deadline
type SendQuotationRequest struct {
	ValidUntil time.Time `json:"valid_until" binding:"required"`
}

// RejectQuotationRequest carries the rejection reason
type RejectQuotationRequest struct {
	Reason string `json:"reason"`
}

// QuotationListFilter defines filtering options for listing quotations
type QuotationListFilter struct {
	CustomerID string `form:"customer_id"`
	Status     string `form:"status"`
	Search     string `form:"search"`
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size"`
}

// CreateQuotation creates a draft quotation with optional initial lines
func (s *QuotationService) CreateQuotation(ctx context.Context, tenantID uuid.UUID, req CreateQuotationRequest) (*QuotationResponse, error) {
	number, err := s.quotationRepo.GenerateQuotationNumber(ctx, tenantID)
	if err != nil {
		s.logger.Error("Failed to generate quotation number", zap.Error(err))
		return nil, err
	}

	quotation, err := billing.NewQuotation(tenantID, number, req.CustomerID, req.CustomerName, req.CustomerEmail)
	if err != nil {
		return nil, err
	}

	for _, line := range req.Lines {
		if err := quotation.AddLine(line.Description, line.Quantity, line.UnitPrice); err != nil {
			return nil, err
		}
	}
	if req.Remark != "" {
		quotation.SetRemark(req.Remark)
	}

	if err := s.quotationRepo.Save(ctx, quotation); err != nil {
		s.logger.Error("Failed to save quotation", zap.Error(err))
		return nil, err
	}

	s.logger.Info("Quotation created",
		zap.String("quotation_number", quotation.QuotationNumber),
		zap.String("total", quotation.Total.StringFixed(2)))

	return toQuotationResponse(quotation), nil
}

// GetQuotation retrieves a quotation by ID
func (s *QuotationService) GetQuotation(ctx context.Context, tenantID, quotationID uuid.UUID) (*QuotationResponse, error) {
	quotation, err := s.findQuotation(ctx, tenantID, quotationID)
	if err != nil {
		return nil, err
	}
	return toQuotationResponse(quotation), nil
}

// ListQuotations lists quotations for the tenant with filtering
func (s *QuotationService) ListQuotations(ctx context.Context, tenantID uuid.UUID, filter QuotationListFilter) ([]QuotationResponse, int64, error) {
	domainFilter := billing.QuotationFilter{
		Filter: shared.Filter{
			Search:   filter.Search,
			Page:     filter.Page,
			PageSize: filter.PageSize,
		},
	}
	if filter.CustomerID != "" {
		customerID, err := uuid.Parse(filter.CustomerID)
		if err != nil {
			return nil, 0, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID is not a valid UUID")
		}
		domainFilter.CustomerID = &customerID
	}
	if filter.Status != "" {
		status := billing.QuotationStatus(filter.Status)
		if !status.IsValid() {
			return nil, 0, shared.NewDomainError("INVALID_STATUS", "Quotation status is not valid")
		}
		domainFilter.Status = &status
	}

	quotations, err := s.quotationRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.quotationRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]QuotationResponse, 0, len(quotations))
	for i := range quotations {
		responses = append(responses, *toQuotationResponse(&quotations[i]))
	}
	return responses, total, nil
}

// AddQuotationLine appends a line to a draft quotation
func (s *QuotationService) AddQuotationLine(ctx context.Context, tenantID, quotationID uuid.UUID, req LineItemRequest) (*QuotationResponse, error) {
	quotation, err := s.findQuotation(ctx, tenantID, quotationID)
	if err != nil {
		return nil, err
	}

	if err := quotation.AddLine(req.Description, req.Quantity, req.UnitPrice); err != nil {
		return nil, err
	}
	if err := s.quotationRepo.SaveWithLock(ctx, quotation); err != nil {
		return nil, err
	}
	return toQuotationResponse(quotation), nil
}

// SendQuotation issues the quotation to the customer
func (s *QuotationService) SendQuotation(ctx context.Context, tenantID, quotationID uuid.UUID, req SendQuotationRequest) (*QuotationResponse, error) {
	quotation, err := s.findQuotation(ctx, tenantID, quotationID)
	if err != nil {
		return nil, err
	}

	if err := quotation.Send(req.ValidUntil); err != nil {
		return nil, err
	}
	if err := s.quotationRepo.SaveWithLock(ctx, quotation); err != nil {
		return nil, err
	}
	return toQuotationResponse(quotation), nil
}

// AcceptQuotation records customer acceptance
func (s *QuotationService) AcceptQuotation(ctx context.Context, tenantID, quotationID uuid.UUID) (*QuotationResponse, error) {
	quotation, err := s.findQuotation(ctx, tenantID, quotationID)
	if err != nil {
		return nil, err
	}

	if err := quotation.Accept(); err != nil {
		return nil, err
	}
	if err := s.quotationRepo.SaveWithLock(ctx, quotation); err != nil {
		return nil, err
	}
	return toQuotationResponse(quotation), nil
}

// RejectQuotation records customer rejection
func (s *QuotationService) RejectQuotation(ctx context.Context, tenantID, quotationID uuid.UUID, req RejectQuotationRequest) (*QuotationResponse, error) {
	quotation, err := s.findQuotation(ctx, tenantID, quotationID)
	if err != nil {
		return nil, err
	}

	if err := quotation.Reject(req.Reason); err != nil {
		return nil, err
	}
	if err := s.quotationRepo.SaveWithLock(ctx, quotation); err != nil {
		return nil, err
	}
	return toQuotationResponse(quotation), nil
}

// ConvertQuotation creates a draft invoice from an accepted quotation and
// links the two documents.
func (s *QuotationService) ConvertQuotation(ctx context.Context, tenantID, quotationID uuid.UUID) (*InvoiceResponse, error) {
	quotation, err := s.findQuotation(ctx, tenantID, quotationID)
	if err != nil {
		return nil, err
	}

	if quotation.Status != billing.QuotationStatusAccepted {
		return nil, shared.NewDomainError("INVALID_STATE", "Only accepted quotations can be converted")
	}
	if quotation.InvoiceID != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Quotation has already been converted")
	}

	number, err := s.invoiceRepo.GenerateInvoiceNumber(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	invoice, err := billing.NewInvoice(tenantID, number, quotation.CustomerID, quotation.CustomerName, quotation.CustomerEmail)
	if err != nil {
		return nil, err
	}
	for _, line := range quotation.Lines {
		if _, err := invoice.AddLine(line.Description, line.Quantity, line.UnitPrice); err != nil {
			return nil, err
		}
	}
	invoice.SetRemark("Converted from quotation " + quotation.QuotationNumber)

	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}

	if err := quotation.MarkConverted(invoice.ID); err != nil {
		return nil, err
	}
	if err := s.quotationRepo.SaveWithLock(ctx, quotation); err != nil {
		return nil, err
	}

	s.logger.Info("Quotation converted to invoice",
		zap.String("quotation_number", quotation.QuotationNumber),
		zap.String("invoice_number", invoice.InvoiceNumber))

	return toInvoiceResponse(invoice), nil
}

// DeleteQuotation removes a draft quotation
func (s *QuotationService) DeleteQuotation(ctx context.Context, tenantID, quotationID uuid.UUID) error {
	quotation, err := s.findQuotation(ctx, tenantID, quotationID)
	if err != nil {
		return err
	}

	if quotation.Status != billing.QuotationStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft quotations can be deleted")
	}

	return s.quotationRepo.DeleteForTenant(ctx, tenantID, quotationID)
}

// RunExpirySweep lapses sent quotations whose validity has passed.
// Returns the number of quotations expired.
func (s *QuotationService) RunExpirySweep(ctx context.Context, asOf time.Time) (int, error) {
	const batchSize = 200

	expired := 0
	for {
		lapsed, err := s.quotationRepo.FindLapsed(ctx, asOf, batchSize)
		if err != nil {
			return expired, err
		}
		if len(lapsed) == 0 {
			return expired, nil
		}

		for i := range lapsed {
			quotation := &lapsed[i]
			if err := quotation.Expire(asOf); err != nil {
				continue
			}
			if err := s.quotationRepo.SaveWithLock(ctx, quotation); err != nil {
				s.logger.Warn("Failed to expire quotation",
					zap.String("quotation_number", quotation.QuotationNumber),
					zap.Error(err))
				continue
			}
			expired++
		}

		if len(lapsed) < batchSize {
			return expired, nil
		}
	}
}

func (s *QuotationService) findQuotation(ctx context.Context, tenantID, quotationID uuid.UUID) (*billing.Quotation, error) {
	quotation, err := s.quotationRepo.FindByIDForTenant(ctx, tenantID, quotationID)
	if err != nil {
		return nil, err
	}
	if quotation == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Quotation not found")
	}
	return quotation, nil
}

// toQuotationResponse maps a quotation aggregate to the response DTO
func toQuotationResponse(quotation *billing.Quotation) *QuotationResponse {
	resp := &QuotationResponse{
		ID:              quotation.ID,
		QuotationNumber: quotation.QuotationNumber,
		CustomerID:      quotation.CustomerID,
		CustomerName:    quotation.CustomerName,
		CustomerEmail:   quotation.CustomerEmail,
		Lines:           make([]LineItemResponse, 0, len(quotation.Lines)),
		Subtotal:        quotation.Subtotal,
		VATAmount:       quotation.VATAmount,
		Total:           quotation.Total,
		Status:          quotation.Status.String(),
		ValidUntil:      quotation.ValidUntil,
		SentAt:          quotation.SentAt,
		DecidedAt:       quotation.DecidedAt,
		RejectionReason: quotation.RejectionReason,
		InvoiceID:       quotation.InvoiceID,
		Remark:          quotation.Remark,
		CreatedAt:       quotation.CreatedAt,
		Version:         quotation.Version,
	}
	for _, line := range quotation.Lines {
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
