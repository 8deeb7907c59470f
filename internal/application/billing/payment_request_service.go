package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/square15/backend/internal/domain/billing"
	"github.com/square15/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// approvalIdempotencyTTL bounds how long a processed approval key is remembered
const approvalIdempotencyTTL = 24 * time.Hour

// PaymentRequestService handles payment request operations. Approvals are
// deduplicated through the idempotency store so a retried approval call
// cannot double-process.
type PaymentRequestService struct {
	requestRepo billing.PaymentRequestRepository
	invoiceRepo billing.InvoiceRepository
	idempotency shared.IdempotencyStore
	logger      *zap.Logger
}

// NewPaymentRequestService creates a new payment request service
func NewPaymentRequestService(
	requestRepo billing.PaymentRequestRepository,
	invoiceRepo billing.InvoiceRepository,
	idempotency shared.IdempotencyStore,
	logger *zap.Logger,
) *PaymentRequestService {
	return &PaymentRequestService{
		requestRepo: requestRepo,
		invoiceRepo: invoiceRepo,
		idempotency: idempotency,
		logger:      logger,
	}
}

// PaymentRequestResponse is the payment request DTO returned to clients
type PaymentRequestResponse struct {
	ID            uuid.UUID       `json:"id"`
	RequestNumber string          `json:"request_number"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	CustomerName  string          `json:"customer_name"`
	CustomerEmail string          `json:"customer_email"`
	InvoiceID     *uuid.UUID      `json:"invoice_id,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
	Status        string          `json:"status"`
	ApprovedBy    *uuid.UUID      `json:"approved_by,omitempty"`
	DecidedAt     *time.Time      `json:"decided_at,omitempty"`
	DeclineReason string          `json:"decline_reason,omitempty"`
	PaidAt        *time.Time      `json:"paid_at,omitempty"`
	PaymentMethod string          `json:"payment_method,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	Version       int             `json:"version"`
}

// CreatePaymentRequestRequest contains fields for creating a payment request
type CreatePaymentRequestRequest struct {
	CustomerID    uuid.UUID       `json:"customer_id" binding:"required"`
	CustomerName  string          `json:"customer_name" binding:"required"`
	CustomerEmail string          `json:"customer_email"`
	InvoiceID     *uuid.UUID      `json:"invoice_id"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Description   string          `json:"description" binding:"required"`
}

// ApprovePaymentRequestRequest carries the approver identity and an optional
// client-supplied idempotency key
type ApprovePaymentRequestRequest struct {
	ApproverID     uuid.UUID `json:"-"`
	IdempotencyKey string    `json:"idempotency_key"`
}

// DeclinePaymentRequestRequest carries the decline reason
type DeclinePaymentRequestRequest struct {
	ApproverID uuid.UUID `json:"-"`
	Reason     string    `json:"reason" binding:"required"`
}

// MarkPaymentRequestPaidRequest carries the settlement method
type MarkPaymentRequestPaidRequest struct {
	PaymentMethod string `json:"payment_method" binding:"required"`
}

// PaymentRequestListFilter defines filtering options for listing payment requests
type PaymentRequestListFilter struct {
	CustomerID string `form:"customer_id"`
	InvoiceID  string `form:"invoice_id"`
	Status     string `form:"status"`
	Search     string `form:"search"`
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size"`
}

// CreatePaymentRequest creates a pending payment request
func (s *PaymentRequestService) CreatePaymentRequest(ctx context.Context, tenantID uuid.UUID, req CreatePaymentRequestRequest) (*PaymentRequestResponse, error) {
	number, err := s.requestRepo.GenerateRequestNumber(ctx, tenantID)
	if err != nil {
		s.logger.Error("Failed to generate payment request number", zap.Error(err))
		return nil, err
	}

	request, err := billing.NewPaymentRequest(tenantID, number, req.CustomerID, req.CustomerName, req.CustomerEmail, req.Amount, req.Description)
	if err != nil {
		return nil, err
	}

	if req.InvoiceID != nil {
		invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, *req.InvoiceID)
		if err != nil {
			return nil, err
		}
		if invoice == nil {
			return nil, shared.NewDomainError("NOT_FOUND", "Linked invoice not found")
		}
		if err := request.LinkInvoice(invoice.ID); err != nil {
			return nil, err
		}
	}

	if err := s.requestRepo.Save(ctx, request); err != nil {
		s.logger.Error("Failed to save payment request", zap.Error(err))
		return nil, err
	}

	s.logger.Info("Payment request created",
		zap.String("request_number", request.RequestNumber),
		zap.String("amount", request.Amount.StringFixed(2)))

	return toPaymentRequestResponse(request), nil
}

// GetPaymentRequest retrieves a payment request by ID
func (s *PaymentRequestService) GetPaymentRequest(ctx context.Context, tenantID, requestID uuid.UUID) (*PaymentRequestResponse, error) {
	request, err := s.findRequest(ctx, tenantID, requestID)
	if err != nil {
		return nil, err
	}
	return toPaymentRequestResponse(request), nil
}

// ListPaymentRequests lists payment requests for the tenant with filtering
func (s *PaymentRequestService) ListPaymentRequests(ctx context.Context, tenantID uuid.UUID, filter PaymentRequestListFilter) ([]PaymentRequestResponse, int64, error) {
	domainFilter := billing.PaymentRequestFilter{
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
	if filter.InvoiceID != "" {
		invoiceID, err := uuid.Parse(filter.InvoiceID)
		if err != nil {
			return nil, 0, shared.NewDomainError("INVALID_INVOICE", "Invoice ID is not a valid UUID")
		}
		domainFilter.InvoiceID = &invoiceID
	}
	if filter.Status != "" {
		status := billing.PaymentRequestStatus(filter.Status)
		if !status.IsValid() {
			return nil, 0, shared.NewDomainError("INVALID_STATUS", "Payment request status is not valid")
		}
		domainFilter.Status = &status
	}

	requests, err := s.requestRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.requestRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]PaymentRequestResponse, 0, len(requests))
	for i := range requests {
		responses = append(responses, *toPaymentRequestResponse(&requests[i]))
	}
	return responses, total, nil
}

// ApprovePaymentRequest clears the request for payment capture. A repeated
// call with the same idempotency key returns the stored outcome instead of
// failing on the state transition.
func (s *PaymentRequestService) ApprovePaymentRequest(ctx context.Context, tenantID, requestID uuid.UUID, req ApprovePaymentRequestRequest) (*PaymentRequestResponse, error) {
	request, err := s.findRequest(ctx, tenantID, requestID)
	if err != nil {
		return nil, err
	}

	if s.idempotency != nil && req.IdempotencyKey != "" {
		key := approvalKey(tenantID, requestID, req.IdempotencyKey)
		fresh, err := s.idempotency.MarkProcessed(ctx, key, approvalIdempotencyTTL)
		if err != nil {
			s.logger.Warn("Idempotency check failed, proceeding without dedupe", zap.Error(err))
		} else if !fresh {
			if request.Status == billing.PaymentRequestStatusApproved || request.Status == billing.PaymentRequestStatusPaid {
				s.logger.Info("Duplicate approval ignored",
					zap.String("request_number", request.RequestNumber),
					zap.String("idempotency_key", req.IdempotencyKey))
				return toPaymentRequestResponse(request), nil
			}
			return nil, shared.NewDomainError("DUPLICATE_REQUEST", "Approval with this idempotency key was already processed")
		}
	}

	if err := request.Approve(req.ApproverID); err != nil {
		return nil, err
	}
	if err := s.requestRepo.SaveWithLock(ctx, request); err != nil {
		return nil, err
	}

	s.logger.Info("Payment request approved",
		zap.String("request_number", request.RequestNumber),
		zap.String("approver_id", req.ApproverID.String()))

	return toPaymentRequestResponse(request), nil
}

// DeclinePaymentRequest rejects the request
func (s *PaymentRequestService) DeclinePaymentRequest(ctx context.Context, tenantID, requestID uuid.UUID, req DeclinePaymentRequestRequest) (*PaymentRequestResponse, error) {
	request, err := s.findRequest(ctx, tenantID, requestID)
	if err != nil {
		return nil, err
	}

	if err := request.Decline(req.ApproverID, req.Reason); err != nil {
		return nil, err
	}
	if err := s.requestRepo.SaveWithLock(ctx, request); err != nil {
		return nil, err
	}
	return toPaymentRequestResponse(request), nil
}

// MarkPaymentRequestPaid records settlement of an approved request. When the
// request is linked to an invoice the invoice is settled with the same method.
func (s *PaymentRequestService) MarkPaymentRequestPaid(ctx context.Context, tenantID, requestID uuid.UUID, req MarkPaymentRequestPaidRequest) (*PaymentRequestResponse, error) {
	request, err := s.findRequest(ctx, tenantID, requestID)
	if err != nil {
		return nil, err
	}

	method := billing.PaymentMethod(req.PaymentMethod)
	if err := request.MarkPaid(method); err != nil {
		return nil, err
	}
	if err := s.requestRepo.SaveWithLock(ctx, request); err != nil {
		return nil, err
	}

	if request.InvoiceID != nil {
		invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, *request.InvoiceID)
		if err == nil && invoice != nil && invoice.Status.CanMarkPaid() {
			if err := invoice.MarkPaid(method); err == nil {
				if err := s.invoiceRepo.SaveWithLock(ctx, invoice); err != nil {
					s.logger.Warn("Failed to settle linked invoice",
						zap.String("invoice_number", invoice.InvoiceNumber),
						zap.Error(err))
				}
			}
		}
	}

	s.logger.Info("Payment request paid",
		zap.String("request_number", request.RequestNumber),
		zap.String("amount", request.Amount.StringFixed(2)))

	return toPaymentRequestResponse(request), nil
}

func (s *PaymentRequestService) findRequest(ctx context.Context, tenantID, requestID uuid.UUID) (*billing.PaymentRequest, error) {
	request, err := s.requestRepo.FindByIDForTenant(ctx, tenantID, requestID)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Payment request not found")
	}
	return request, nil
}

func approvalKey(tenantID, requestID uuid.UUID, key string) string {
	return fmt.Sprintf("payment-approval:%s:%s:%s", tenantID, requestID, key)
}

// toPaymentRequestResponse maps a payment request aggregate to the response DTO
func toPaymentRequestResponse(request *billing.PaymentRequest) *PaymentRequestResponse {
	resp := &PaymentRequestResponse{
		ID:            request.ID,
		RequestNumber: request.RequestNumber,
		CustomerID:    request.CustomerID,
		CustomerName:  request.CustomerName,
		CustomerEmail: request.CustomerEmail,
		InvoiceID:     request.InvoiceID,
		Amount:        request.Amount,
		Description:   request.Description,
		Status:        request.Status.String(),
		ApprovedBy:    request.ApprovedBy,
		DecidedAt:     request.DecidedAt,
		DeclineReason: request.DeclineReason,
		PaidAt:        request.PaidAt,
		CreatedAt:     request.CreatedAt,
		Version:       request.Version,
	}
	if request.PaymentMethod != nil {
		resp.PaymentMethod = string(*request.PaymentMethod)
	}
	return resp
}
