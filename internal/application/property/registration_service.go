// Package property contains services for unit registrations,
// maintenance workflows and the monthly billing run.
package property

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/square15/backend/internal/domain/property"
	"github.com/square15/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// RegistrationService handles unit registration operations
type RegistrationService struct {
	registrationRepo property.RegistrationRepository
	logger           *zap.Logger
}

// NewRegistrationService creates a new registration service
func NewRegistrationService(registrationRepo property.RegistrationRepository, logger *zap.Logger) *RegistrationService {
	return &RegistrationService{
		registrationRepo: registrationRepo,
		logger:           logger,
	}
}

// RegistrationResponse is the registration DTO returned to clients
type RegistrationResponse struct {
	ID                 uuid.UUID       `json:"id"`
	RegistrationNumber string          `json:"registration_number"`
	CustomerID         uuid.UUID       `json:"customer_id"`
	CustomerName       string          `json:"customer_name"`
	CustomerEmail      string          `json:"customer_email"`
	UnitCode           string          `json:"unit_code"`
	UnitType           string          `json:"unit_type"`
	MonthlyAmount      decimal.Decimal `json:"monthly_amount"`
	DepositAmount      decimal.Decimal `json:"deposit_amount"`
	StartDate          time.Time       `json:"start_date"`
	EndDate            *time.Time      `json:"end_date,omitempty"`
	Status             string          `json:"status"`
	ApprovedAt         *time.Time      `json:"approved_at,omitempty"`
	ApprovedBy         *uuid.UUID      `json:"approved_by,omitempty"`
	DeclineReason      string          `json:"decline_reason,omitempty"`
	TerminatedAt       *time.Time      `json:"terminated_at,omitempty"`
	TerminationReason  string          `json:"termination_reason,omitempty"`
	Remark             string          `json:"remark,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	Version            int             `json:"version"`
}

// CreateRegistrationRequest contains fields for opening a registration
type CreateRegistrationRequest struct {
	CustomerID    uuid.UUID       `json:"customer_id" binding:"required"`
	CustomerName  string          `json:"customer_name" binding:"required"`
	CustomerEmail string          `json:"customer_email"`
	UnitCode      string          `json:"unit_code" binding:"required"`
	UnitType      string          `json:"unit_type" binding:"required"`
	MonthlyAmount decimal.Decimal `json:"monthly_amount" binding:"required"`
	DepositAmount decimal.Decimal `json:"deposit_amount"`
	StartDate     time.Time       `json:"start_date" binding:"required"`
	Remark        string          `json:"remark"`
}

// ApproveRegistrationRequest carries the approving user
type ApproveRegistrationRequest struct {
	ApproverID uuid.UUID `json:"-"`
}

// DeclineRegistrationRequest carries the decline reason
type DeclineRegistrationRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// TerminateRegistrationRequest ends an approved registration
type TerminateRegistrationRequest struct {
	Reason  string    `json:"reason" binding:"required"`
	EndDate time.Time `json:"end_date" binding:"required"`
}

// AmendRegistrationBillingRequest changes the monthly amount
type AmendRegistrationBillingRequest struct {
	MonthlyAmount decimal.Decimal `json:"monthly_amount" binding:"required"`
}

// RegistrationListFilter defines filtering options for listing registrations
type RegistrationListFilter struct {
	CustomerID string `form:"customer_id"`
	UnitType   string `form:"unit_type"`
	UnitCode   string `form:"unit_code"`
	Status     string `form:"status"`
	Search     string `form:"search"`
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size"`
}

// CreateRegistration opens a pending registration for a unit
func (s *RegistrationService) CreateRegistration(ctx context.Context, tenantID uuid.UUID, req CreateRegistrationRequest) (*RegistrationResponse, error) {
	unitType := property.UnitType(req.UnitType)
	if !unitType.IsValid() {
		return nil, shared.NewDomainError("INVALID_UNIT", "Unit type is not valid")
	}

	// A unit can only carry one active registration at a time
	occupied, err := s.registrationRepo.FindActiveByUnit(ctx, tenantID, req.UnitCode)
	if err != nil {
		return nil, err
	}
	if occupied != nil {
		return nil, shared.NewDomainError("UNIT_OCCUPIED", "Unit already has an active registration")
	}

	number, err := s.registrationRepo.GenerateRegistrationNumber(ctx, tenantID)
	if err != nil {
		s.logger.Error("Failed to generate registration number", zap.Error(err))
		return nil, err
	}

	registration, err := property.NewRegistration(
		tenantID, number, req.CustomerID, req.CustomerName, req.CustomerEmail,
		req.UnitCode, unitType, req.MonthlyAmount, req.DepositAmount, req.StartDate)
	if err != nil {
		return nil, err
	}
	if req.Remark != "" {
		registration.Remark = req.Remark
	}

	if err := s.registrationRepo.Save(ctx, registration); err != nil {
		s.logger.Error("Failed to save registration", zap.Error(err))
		return nil, err
	}

	s.logger.Info("Registration created",
		zap.String("registration_number", registration.RegistrationNumber),
		zap.String("unit_code", registration.UnitCode),
		zap.String("tenant_id", tenantID.String()))

	return toRegistrationResponse(registration), nil
}

// GetRegistration retrieves a registration by ID
func (s *RegistrationService) GetRegistration(ctx context.Context, tenantID, registrationID uuid.UUID) (*RegistrationResponse, error) {
	registration, err := s.registrationRepo.FindByIDForTenant(ctx, tenantID, registrationID)
	if err != nil {
		return nil, err
	}
	if registration == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Registration not found")
	}
	return toRegistrationResponse(registration), nil
}

// ListRegistrations lists registrations with filtering and pagination
func (s *RegistrationService) ListRegistrations(ctx context.Context, tenantID uuid.UUID, filter RegistrationListFilter) ([]RegistrationResponse, int64, error) {
	domainFilter, err := buildRegistrationFilter(filter)
	if err != nil {
		return nil, 0, err
	}

	registrations, err := s.registrationRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.registrationRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]RegistrationResponse, 0, len(registrations))
	for i := range registrations {
		responses = append(responses, *toRegistrationResponse(&registrations[i]))
	}
	return responses, total, nil
}

// ApproveRegistration activates a pending registration
func (s *RegistrationService) ApproveRegistration(ctx context.Context, tenantID, registrationID uuid.UUID, req ApproveRegistrationRequest) (*RegistrationResponse, error) {
	registration, err := s.registrationRepo.FindByIDForTenant(ctx, tenantID, registrationID)
	if err != nil {
		return nil, err
	}
	if registration == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Registration not found")
	}

	if err := registration.Approve(req.ApproverID); err != nil {
		return nil, err
	}
	if err := s.registrationRepo.SaveWithLock(ctx, registration); err != nil {
		return nil, err
	}

	s.logger.Info("Registration approved",
		zap.String("registration_number", registration.RegistrationNumber),
		zap.String("approved_by", req.ApproverID.String()))

	return toRegistrationResponse(registration), nil
}

// DeclineRegistration rejects a pending registration
func (s *RegistrationService) DeclineRegistration(ctx context.Context, tenantID, registrationID uuid.UUID, req DeclineRegistrationRequest) (*RegistrationResponse, error) {
	registration, err := s.registrationRepo.FindByIDForTenant(ctx, tenantID, registrationID)
	if err != nil {
		return nil, err
	}
	if registration == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Registration not found")
	}

	if err := registration.Decline(req.Reason); err != nil {
		return nil, err
	}
	if err := s.registrationRepo.SaveWithLock(ctx, registration); err != nil {
		return nil, err
	}
	return toRegistrationResponse(registration), nil
}

// TerminateRegistration ends an approved registration
func (s *RegistrationService) TerminateRegistration(ctx context.Context, tenantID, registrationID uuid.UUID, req TerminateRegistrationRequest) (*RegistrationResponse, error) {
	registration, err := s.registrationRepo.FindByIDForTenant(ctx, tenantID, registrationID)
	if err != nil {
		return nil, err
	}
	if registration == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Registration not found")
	}

	if err := registration.Terminate(req.Reason, req.EndDate); err != nil {
		return nil, err
	}
	if err := s.registrationRepo.SaveWithLock(ctx, registration); err != nil {
		return nil, err
	}

	s.logger.Info("Registration terminated",
		zap.String("registration_number", registration.RegistrationNumber),
		zap.String("reason", req.Reason))

	return toRegistrationResponse(registration), nil
}

// AmendRegistrationBilling changes the monthly amount of an approved registration
func (s *RegistrationService) AmendRegistrationBilling(ctx context.Context, tenantID, registrationID uuid.UUID, req AmendRegistrationBillingRequest) (*RegistrationResponse, error) {
	registration, err := s.registrationRepo.FindByIDForTenant(ctx, tenantID, registrationID)
	if err != nil {
		return nil, err
	}
	if registration == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Registration not found")
	}

	if err := registration.UpdateBilling(req.MonthlyAmount); err != nil {
		return nil, err
	}
	if err := s.registrationRepo.SaveWithLock(ctx, registration); err != nil {
		return nil, err
	}
	return toRegistrationResponse(registration), nil
}

// DeleteRegistration removes a registration that never became active
func (s *RegistrationService) DeleteRegistration(ctx context.Context, tenantID, registrationID uuid.UUID) error {
	registration, err := s.registrationRepo.FindByIDForTenant(ctx, tenantID, registrationID)
	if err != nil {
		return err
	}
	if registration == nil {
		return shared.NewDomainError("NOT_FOUND", "Registration not found")
	}

	if registration.Status != property.RegistrationStatusPending &&
		registration.Status != property.RegistrationStatusDeclined {
		return shared.NewDomainError("INVALID_STATE", "Only pending or declined registrations can be deleted")
	}

	return s.registrationRepo.DeleteForTenant(ctx, tenantID, registrationID)
}

// buildRegistrationFilter maps the list filter to the domain filter
func buildRegistrationFilter(filter RegistrationListFilter) (property.RegistrationFilter, error) {
	domainFilter := property.RegistrationFilter{
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
	if filter.UnitType != "" {
		unitType := property.UnitType(filter.UnitType)
		if !unitType.IsValid() {
			return domainFilter, shared.NewDomainError("INVALID_FILTER", "Invalid unit type")
		}
		domainFilter.UnitType = &unitType
	}
	if filter.Status != "" {
		status := property.RegistrationStatus(filter.Status)
		if !status.IsValid() {
			return domainFilter, shared.NewDomainError("INVALID_FILTER", "Invalid registration status")
		}
		domainFilter.Status = &status
	}

	return domainFilter, nil
}

// toRegistrationResponse maps a registration aggregate to the response DTO
func toRegistrationResponse(registration *property.Registration) *RegistrationResponse {
	return &RegistrationResponse{
		ID:                 registration.ID,
		RegistrationNumber: registration.RegistrationNumber,
		CustomerID:         registration.CustomerID,
		CustomerName:       registration.CustomerName,
		CustomerEmail:      registration.CustomerEmail,
		UnitCode:           registration.UnitCode,
		UnitType:           string(registration.UnitType),
		MonthlyAmount:      registration.MonthlyAmount,
		DepositAmount:      registration.DepositAmount,
		StartDate:          registration.StartDate,
		EndDate:            registration.EndDate,
		Status:             registration.Status.String(),
		ApprovedAt:         registration.ApprovedAt,
		ApprovedBy:         registration.ApprovedBy,
		DeclineReason:      registration.DeclineReason,
		TerminatedAt:       registration.TerminatedAt,
		TerminationReason:  registration.TerminationReason,
		Remark:             registration.Remark,
		CreatedAt:          registration.CreatedAt,
		Version:            registration.Version,
	}
}
