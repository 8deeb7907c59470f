package property

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/square15/backend/internal/domain/property"
	"github.com/square15/backend/internal/domain/shared"
	"github.com/square15/backend/internal/infrastructure/mailer"
	"go.uber.org/zap"
)

// queuePriorities orders the maintenance queue, most urgent first
var queuePriorities = []property.MaintenancePriority{
	property.MaintenancePriorityCritical,
	property.MaintenancePriorityHigh,
	property.MaintenancePriorityMedium,
	property.MaintenancePriorityLow,
}

// MaintenanceService handles maintenance request workflows
type MaintenanceService struct {
	maintenanceRepo  property.MaintenanceRequestRepository
	registrationRepo property.RegistrationRepository
	mail             mailer.Mailer
	logger           *zap.Logger
}

// NewMaintenanceService creates a new maintenance service
func NewMaintenanceService(
	maintenanceRepo property.MaintenanceRequestRepository,
	registrationRepo property.RegistrationRepository,
	mail mailer.Mailer,
	logger *zap.Logger,
) *MaintenanceService {
	return &MaintenanceService{
		maintenanceRepo:  maintenanceRepo,
		registrationRepo: registrationRepo,
		mail:             mail,
		logger:           logger,
	}
}

// MaintenanceRequestResponse is the maintenance request DTO returned to clients
type MaintenanceRequestResponse struct {
	ID             uuid.UUID        `json:"id"`
	RequestNumber  string           `json:"request_number"`
	CustomerID     uuid.UUID        `json:"customer_id"`
	CustomerName   string           `json:"customer_name"`
	UnitCode       string           `json:"unit_code"`
	Title          string           `json:"title"`
	Description    string           `json:"description"`
	Priority       string           `json:"priority"`
	Status         string           `json:"status"`
	AssignedTo     string           `json:"assigned_to,omitempty"`
	ScheduledFor   *time.Time       `json:"scheduled_for,omitempty"`
	StartedAt      *time.Time       `json:"started_at,omitempty"`
	CompletedAt    *time.Time       `json:"completed_at,omitempty"`
	ActualCost     *decimal.Decimal `json:"actual_cost,omitempty"`
	CompletionNote string           `json:"completion_note,omitempty"`
	CancelledAt    *time.Time       `json:"cancelled_at,omitempty"`
	CancelReason   string           `json:"cancel_reason,omitempty"`
	AttachmentKeys string           `json:"attachment_keys,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	Version        int              `json:"version"`
}

// SubmitMaintenanceRequest contains fields for reporting a repair job
type SubmitMaintenanceRequest struct {
	CustomerID     uuid.UUID `json:"customer_id" binding:"required"`
	CustomerName   string    `json:"customer_name" binding:"required"`
	UnitCode       string    `json:"unit_code" binding:"required"`
	Title          string    `json:"title" binding:"required"`
	Description    string    `json:"description"`
	AttachmentKeys string    `json:"attachment_keys"`
}

// TriageMaintenanceRequest assigns a priority after assessment
type TriageMaintenanceRequest struct {
	Priority string `json:"priority" binding:"required"`
}

// ScheduleMaintenanceRequest books the job with a contractor
type ScheduleMaintenanceRequest struct {
	AssignedTo   string    `json:"assigned_to" binding:"required"`
	ScheduledFor time.Time `json:"scheduled_for" binding:"required"`
}

// CompleteMaintenanceRequest closes the job with the actual cost
type CompleteMaintenanceRequest struct {
	ActualCost     decimal.Decimal `json:"actual_cost"`
	CompletionNote string          `json:"completion_note"`
}

// CancelMaintenanceRequest voids the request before work starts
type CancelMaintenanceRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// MaintenanceListFilter defines filtering options for listing requests
type MaintenanceListFilter struct {
	CustomerID string `form:"customer_id"`
	Status     string `form:"status"`
	Priority   string `form:"priority"`
	UnitCode   string `form:"unit_code"`
	FromDate   string `form:"from_date"`
	ToDate     string `form:"to_date"`
	Search     string `form:"search"`
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size"`
}

// SubmitRequest opens a new maintenance request
func (s *MaintenanceService) SubmitRequest(ctx context.Context, tenantID uuid.UUID, req SubmitMaintenanceRequest) (*MaintenanceRequestResponse, error) {
	number, err := s.maintenanceRepo.GenerateRequestNumber(ctx, tenantID)
	if err != nil {
		s.logger.Error("Failed to generate maintenance request number", zap.Error(err))
		return nil, err
	}

	request, err := property.NewMaintenanceRequest(
		tenantID, number, req.CustomerID, req.CustomerName, req.UnitCode, req.Title, req.Description)
	if err != nil {
		return nil, err
	}
	if req.AttachmentKeys != "" {
		request.SetAttachmentKeys(req.AttachmentKeys)
	}

	if err := s.maintenanceRepo.Save(ctx, request); err != nil {
		s.logger.Error("Failed to save maintenance request", zap.Error(err))
		return nil, err
	}

	s.logger.Info("Maintenance request submitted",
		zap.String("request_number", request.RequestNumber),
		zap.String("unit_code", request.UnitCode))

	return toMaintenanceResponse(request), nil
}

// GetRequest retrieves a maintenance request by ID
func (s *MaintenanceService) GetRequest(ctx context.Context, tenantID, requestID uuid.UUID) (*MaintenanceRequestResponse, error) {
	request, err := s.maintenanceRepo.FindByIDForTenant(ctx, tenantID, requestID)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Maintenance request not found")
	}
	return toMaintenanceResponse(request), nil
}

// ListRequests lists maintenance requests with filtering and pagination
func (s *MaintenanceService) ListRequests(ctx context.Context, tenantID uuid.UUID, filter MaintenanceListFilter) ([]MaintenanceRequestResponse, int64, error) {
	domainFilter, err := buildMaintenanceFilter(filter)
	if err != nil {
		return nil, 0, err
	}

	requests, err := s.maintenanceRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.maintenanceRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]MaintenanceRequestResponse, 0, len(requests))
	for i := range requests {
		responses = append(responses, *toMaintenanceResponse(&requests[i]))
	}
	return responses, total, nil
}

// ListQueue returns open requests ordered by priority, most urgent first
func (s *MaintenanceService) ListQueue(ctx context.Context, tenantID uuid.UUID) ([]MaintenanceRequestResponse, error) {
	var queue []MaintenanceRequestResponse
	for _, priority := range queuePriorities {
		requests, err := s.maintenanceRepo.FindOpenByPriority(ctx, tenantID, priority)
		if err != nil {
			return nil, err
		}
		for i := range requests {
			queue = append(queue, *toMaintenanceResponse(&requests[i]))
		}
	}
	return queue, nil
}

// TriageRequest assigns a priority to a submitted request
func (s *MaintenanceService) TriageRequest(ctx context.Context, tenantID, requestID uuid.UUID, req TriageMaintenanceRequest) (*MaintenanceRequestResponse, error) {
	request, err := s.maintenanceRepo.FindByIDForTenant(ctx, tenantID, requestID)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Maintenance request not found")
	}

	if err := request.Triage(property.MaintenancePriority(req.Priority)); err != nil {
		return nil, err
	}
	if err := s.maintenanceRepo.SaveWithLock(ctx, request); err != nil {
		return nil, err
	}
	return toMaintenanceResponse(request), nil
}

// ScheduleRequest books the job with a contractor
func (s *MaintenanceService) ScheduleRequest(ctx context.Context, tenantID, requestID uuid.UUID, req ScheduleMaintenanceRequest) (*MaintenanceRequestResponse, error) {
	request, err := s.maintenanceRepo.FindByIDForTenant(ctx, tenantID, requestID)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Maintenance request not found")
	}

	if err := request.Schedule(req.AssignedTo, req.ScheduledFor); err != nil {
		return nil, err
	}
	if err := s.maintenanceRepo.SaveWithLock(ctx, request); err != nil {
		return nil, err
	}

	s.logger.Info("Maintenance request scheduled",
		zap.String("request_number", request.RequestNumber),
		zap.String("assigned_to", req.AssignedTo))

	return toMaintenanceResponse(request), nil
}

// StartRequest records that the contractor is on site
func (s *MaintenanceService) StartRequest(ctx context.Context, tenantID, requestID uuid.UUID) (*MaintenanceRequestResponse, error) {
	request, err := s.maintenanceRepo.FindByIDForTenant(ctx, tenantID, requestID)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Maintenance request not found")
	}

	if err := request.StartWork(); err != nil {
		return nil, err
	}
	if err := s.maintenanceRepo.SaveWithLock(ctx, request); err != nil {
		return nil, err
	}
	return toMaintenanceResponse(request), nil
}

// CompleteRequest closes the job and notifies the customer by email
func (s *MaintenanceService) CompleteRequest(ctx context.Context, tenantID, requestID uuid.UUID, req CompleteMaintenanceRequest) (*MaintenanceRequestResponse, error) {
	request, err := s.maintenanceRepo.FindByIDForTenant(ctx, tenantID, requestID)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Maintenance request not found")
	}

	if err := request.Complete(req.ActualCost, req.CompletionNote); err != nil {
		return nil, err
	}
	if err := s.maintenanceRepo.SaveWithLock(ctx, request); err != nil {
		return nil, err
	}

	s.notifyCompletion(ctx, request)

	return toMaintenanceResponse(request), nil
}

// CancelRequest voids the request before work starts
func (s *MaintenanceService) CancelRequest(ctx context.Context, tenantID, requestID uuid.UUID, req CancelMaintenanceRequest) (*MaintenanceRequestResponse, error) {
	request, err := s.maintenanceRepo.FindByIDForTenant(ctx, tenantID, requestID)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Maintenance request not found")
	}

	if err := request.Cancel(req.Reason); err != nil {
		return nil, err
	}
	if err := s.maintenanceRepo.SaveWithLock(ctx, request); err != nil {
		return nil, err
	}
	return toMaintenanceResponse(request), nil
}

// DeleteRequest removes a cancelled maintenance request
func (s *MaintenanceService) DeleteRequest(ctx context.Context, tenantID, requestID uuid.UUID) error {
	request, err := s.maintenanceRepo.FindByIDForTenant(ctx, tenantID, requestID)
	if err != nil {
		return err
	}
	if request == nil {
		return shared.NewDomainError("NOT_FOUND", "Maintenance request not found")
	}

	if request.Status != property.MaintenanceStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Only cancelled requests can be deleted")
	}

	return s.maintenanceRepo.DeleteForTenant(ctx, tenantID, requestID)
}

// notifyCompletion emails the customer that the job is done. The customer
// email lives on the unit's registration; no registration means no mail.
func (s *MaintenanceService) notifyCompletion(ctx context.Context, request *property.MaintenanceRequest) {
	if s.mail == nil {
		return
	}

	registration, err := s.registrationRepo.FindActiveByUnit(ctx, request.TenantID, request.UnitCode)
	if err != nil {
		s.logger.Warn("Failed to look up registration for completion mail",
			zap.String("request_number", request.RequestNumber),
			zap.Error(err))
		return
	}
	if registration == nil || registration.CustomerEmail == "" {
		s.logger.Info("No customer email for completed maintenance request",
			zap.String("request_number", request.RequestNumber),
			zap.String("unit_code", request.UnitCode))
		return
	}

	body := fmt.Sprintf(
		"<html><body><p>Dear %s,</p>"+
			"<p>Maintenance request <strong>%s</strong> for unit %s has been completed.</p>"+
			"<p>%s</p>"+
			"<p>Square 15 Properties</p></body></html>",
		request.CustomerName, request.RequestNumber, request.UnitCode, request.CompletionNote)

	msg := &mailer.Message{
		To:       []string{registration.CustomerEmail},
		Subject:  fmt.Sprintf("Maintenance request %s completed", request.RequestNumber),
		HTMLBody: body,
	}
	if err := s.mail.Send(ctx, msg); err != nil {
		s.logger.Warn("Failed to send completion notification",
			zap.String("request_number", request.RequestNumber),
			zap.Error(err))
	}
}

// buildMaintenanceFilter maps the list filter to the domain filter
func buildMaintenanceFilter(filter MaintenanceListFilter) (property.MaintenanceRequestFilter, error) {
	domainFilter := property.MaintenanceRequestFilter{
		Filter: shared.Filter{
			Search:   filter.Search,
			Page:     filter.Page,
			PageSize: filter.PageSize,
		},
		UnitCode: filter.UnitCode,
	}

	if filter.CustomerID != "" {
		customerID, err := uuid.Parse(filter.CustomerID)
		if err != nil {
			return domainFilter, shared.NewDomainError("INVALID_FILTER", "Invalid customer ID")
		}
		domainFilter.CustomerID = &customerID
	}
	if filter.Status != "" {
		status := property.MaintenanceStatus(filter.Status)
		if !status.IsValid() {
			return domainFilter, shared.NewDomainError("INVALID_FILTER", "Invalid maintenance status")
		}
		domainFilter.Status = &status
	}
	if filter.Priority != "" {
		priority := property.MaintenancePriority(filter.Priority)
		if !priority.IsValid() {
			return domainFilter, shared.NewDomainError("INVALID_FILTER", "Invalid priority")
		}
		domainFilter.Priority = &priority
	}
	if filter.FromDate != "" {
		from, err := time.Parse("2006-01-02", filter.FromDate)
		if err != nil {
			return domainFilter, shared.NewDomainError("INVALID_FILTER", "Invalid from date, expected YYYY-MM-DD")
		}
		domainFilter.FromDate = &from
	}
	if filter.ToDate != "" {
		to, err := time.Parse("2006-01-02", filter.ToDate)
		if err != nil {
			return domainFilter, shared.NewDomainError("INVALID_FILTER", "Invalid to date, expected YYYY-MM-DD")
		}
		bound := to.AddDate(0, 0, 1)
		domainFilter.ToDate = &bound
	}

	return domainFilter, nil
}

// toMaintenanceResponse maps a maintenance request aggregate to the response DTO
func toMaintenanceResponse(request *property.MaintenanceRequest) *MaintenanceRequestResponse {
	return &MaintenanceRequestResponse{
		ID:             request.ID,
		RequestNumber:  request.RequestNumber,
		CustomerID:     request.CustomerID,
		CustomerName:   request.CustomerName,
		UnitCode:       request.UnitCode,
		Title:          request.Title,
		Description:    request.Description,
		Priority:       string(request.Priority),
		Status:         request.Status.String(),
		AssignedTo:     request.AssignedTo,
		ScheduledFor:   request.ScheduledFor,
		StartedAt:      request.StartedAt,
		CompletedAt:    request.CompletedAt,
		ActualCost:     request.ActualCost,
		CompletionNote: request.CompletionNote,
		CancelledAt:    request.CancelledAt,
		CancelReason:   request.CancelReason,
		AttachmentKeys: request.AttachmentKeys,
		CreatedAt:      request.CreatedAt,
		Version:        request.Version,
	}
}
