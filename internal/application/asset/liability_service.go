package asset

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/square15/backend/internal/domain/asset"
	"github.com/square15/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// LiabilityService handles liability book operations
type LiabilityService struct {
	liabilityRepo asset.LiabilityRepository
	logger        *zap.Logger
}

// NewLiabilityService creates a new liability service
func NewLiabilityService(liabilityRepo asset.LiabilityRepository, logger *zap.Logger) *LiabilityService {
	return &LiabilityService{
		liabilityRepo: liabilityRepo,
		logger:        logger,
	}
}

// LiabilityResponse is the liability DTO returned to clients
type LiabilityResponse struct {
	ID              uuid.UUID       `json:"id"`
	LiabilityNumber string          `json:"liability_number"`
	Name            string          `json:"name"`
	Type            string          `json:"type"`
	Creditor        string          `json:"creditor"`
	PrincipalAmount decimal.Decimal `json:"principal_amount"`
	Outstanding     decimal.Decimal `json:"outstanding"`
	InterestRate    decimal.Decimal `json:"interest_rate"`
	IncurredAt      time.Time       `json:"incurred_at"`
	DueDate         *time.Time      `json:"due_date,omitempty"`
	Status          string          `json:"status"`
	SettledAt       *time.Time      `json:"settled_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	Version         int             `json:"version"`
}

// RecordLiabilityRequest contains fields for recording a liability
type RecordLiabilityRequest struct {
	Name            string          `json:"name" binding:"required"`
	Type            string          `json:"type" binding:"required"`
	Creditor        string          `json:"creditor" binding:"required"`
	PrincipalAmount decimal.Decimal `json:"principal_amount" binding:"required"`
	IncurredAt      time.Time       `json:"incurred_at" binding:"required"`
	InterestRate    decimal.Decimal `json:"interest_rate"`
	DueDate         *time.Time      `json:"due_date"`
}

// SetLiabilityTermsRequest amends the interest rate and due date
type SetLiabilityTermsRequest struct {
	InterestRate decimal.Decimal `json:"interest_rate"`
	DueDate      *time.Time      `json:"due_date"`
}

// RecordRepaymentRequest reduces the outstanding balance
type RecordRepaymentRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// AccrueInterestRequest capitalises interest onto the balance
type AccrueInterestRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// LiabilityListFilter defines filtering options for listing liabilities
type LiabilityListFilter struct {
	Type     string `form:"type"`
	Status   string `form:"status"`
	FromDate string `form:"from_date"`
	ToDate   string `form:"to_date"`
	Search   string `form:"search"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// RecordLiability records a new liability
func (s *LiabilityService) RecordLiability(ctx context.Context, tenantID uuid.UUID, req RecordLiabilityRequest) (*LiabilityResponse, error) {
	number, err := s.liabilityRepo.GenerateLiabilityNumber(ctx, tenantID)
	if err != nil {
		s.logger.Error("Failed to generate liability number", zap.Error(err))
		return nil, err
	}

	liability, err := asset.NewLiability(
		tenantID, number, req.Name, asset.LiabilityType(req.Type),
		req.Creditor, req.PrincipalAmount, req.IncurredAt)
	if err != nil {
		return nil, err
	}
	if !req.InterestRate.IsZero() || req.DueDate != nil {
		if err := liability.SetTerms(req.InterestRate, req.DueDate); err != nil {
			return nil, err
		}
	}

	if err := s.liabilityRepo.Save(ctx, liability); err != nil {
		s.logger.Error("Failed to save liability", zap.Error(err))
		return nil, err
	}

	s.logger.Info("Liability recorded",
		zap.String("liability_number", liability.LiabilityNumber),
		zap.String("creditor", liability.Creditor),
		zap.String("principal", liability.PrincipalAmount.StringFixed(2)))

	return toLiabilityResponse(liability), nil
}

// GetLiability retrieves a liability by ID
func (s *LiabilityService) GetLiability(ctx context.Context, tenantID, liabilityID uuid.UUID) (*LiabilityResponse, error) {
	liability, err := s.liabilityRepo.FindByIDForTenant(ctx, tenantID, liabilityID)
	if err != nil {
		return nil, err
	}
	if liability == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Liability not found")
	}
	return toLiabilityResponse(liability), nil
}

// ListLiabilities lists liabilities with filtering and pagination
func (s *LiabilityService) ListLiabilities(ctx context.Context, tenantID uuid.UUID, filter LiabilityListFilter) ([]LiabilityResponse, int64, error) {
	domainFilter, err := buildLiabilityFilter(filter)
	if err != nil {
		return nil, 0, err
	}

	liabilities, err := s.liabilityRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.liabilityRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]LiabilityResponse, 0, len(liabilities))
	for i := range liabilities {
		responses = append(responses, *toLiabilityResponse(&liabilities[i]))
	}
	return responses, total, nil
}

// SetTerms amends the interest rate and due date of an open liability
func (s *LiabilityService) SetTerms(ctx context.Context, tenantID, liabilityID uuid.UUID, req SetLiabilityTermsRequest) (*LiabilityResponse, error) {
	liability, err := s.liabilityRepo.FindByIDForTenant(ctx, tenantID, liabilityID)
	if err != nil {
		return nil, err
	}
	if liability == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Liability not found")
	}

	if err := liability.SetTerms(req.InterestRate, req.DueDate); err != nil {
		return nil, err
	}
	if err := s.liabilityRepo.SaveWithLock(ctx, liability); err != nil {
		return nil, err
	}
	return toLiabilityResponse(liability), nil
}

// RecordRepayment reduces the outstanding balance; the liability settles
// when the balance reaches zero
func (s *LiabilityService) RecordRepayment(ctx context.Context, tenantID, liabilityID uuid.UUID, req RecordRepaymentRequest) (*LiabilityResponse, error) {
	liability, err := s.liabilityRepo.FindByIDForTenant(ctx, tenantID, liabilityID)
	if err != nil {
		return nil, err
	}
	if liability == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Liability not found")
	}

	if err := liability.RecordRepayment(req.Amount); err != nil {
		return nil, err
	}
	if err := s.liabilityRepo.SaveWithLock(ctx, liability); err != nil {
		return nil, err
	}

	s.logger.Info("Liability repayment recorded",
		zap.String("liability_number", liability.LiabilityNumber),
		zap.String("amount", req.Amount.StringFixed(2)),
		zap.String("outstanding", liability.Outstanding.StringFixed(2)))

	return toLiabilityResponse(liability), nil
}

// AccrueInterest capitalises interest onto the outstanding balance
func (s *LiabilityService) AccrueInterest(ctx context.Context, tenantID, liabilityID uuid.UUID, req AccrueInterestRequest) (*LiabilityResponse, error) {
	liability, err := s.liabilityRepo.FindByIDForTenant(ctx, tenantID, liabilityID)
	if err != nil {
		return nil, err
	}
	if liability == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Liability not found")
	}

	if err := liability.AccrueInterest(req.Amount); err != nil {
		return nil, err
	}
	if err := s.liabilityRepo.SaveWithLock(ctx, liability); err != nil {
		return nil, err
	}
	return toLiabilityResponse(liability), nil
}

// DeleteLiability removes an open liability with no repayments against it
func (s *LiabilityService) DeleteLiability(ctx context.Context, tenantID, liabilityID uuid.UUID) error {
	liability, err := s.liabilityRepo.FindByIDForTenant(ctx, tenantID, liabilityID)
	if err != nil {
		return err
	}
	if liability == nil {
		return shared.NewDomainError("NOT_FOUND", "Liability not found")
	}

	if liability.Status != asset.LiabilityStatusOpen || !liability.Outstanding.Equal(liability.PrincipalAmount) {
		return shared.NewDomainError("INVALID_STATE", "Only untouched open liabilities can be deleted")
	}

	return s.liabilityRepo.DeleteForTenant(ctx, tenantID, liabilityID)
}

// buildLiabilityFilter maps the list filter to the domain filter
func buildLiabilityFilter(filter LiabilityListFilter) (asset.LiabilityFilter, error) {
	domainFilter := asset.LiabilityFilter{
		Filter: shared.Filter{
			Search:   filter.Search,
			Page:     filter.Page,
			PageSize: filter.PageSize,
		},
	}

	if filter.Type != "" {
		liabilityType := asset.LiabilityType(filter.Type)
		if !liabilityType.IsValid() {
			return domainFilter, shared.NewDomainError("INVALID_FILTER", "Invalid liability type")
		}
		domainFilter.Type = &liabilityType
	}
	if filter.Status != "" {
		status := asset.LiabilityStatus(filter.Status)
		if !status.IsValid() {
			return domainFilter, shared.NewDomainError("INVALID_FILTER", "Invalid liability status")
		}
		domainFilter.Status = &status
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

// toLiabilityResponse maps a liability aggregate to the response DTO
func toLiabilityResponse(liability *asset.Liability) *LiabilityResponse {
	return &LiabilityResponse{
		ID:              liability.ID,
		LiabilityNumber: liability.LiabilityNumber,
		Name:            liability.Name,
		Type:            string(liability.Type),
		Creditor:        liability.Creditor,
		PrincipalAmount: liability.PrincipalAmount,
		Outstanding:     liability.Outstanding,
		InterestRate:    liability.InterestRate,
		IncurredAt:      liability.IncurredAt,
		DueDate:         liability.DueDate,
		Status:          liability.Status.String(),
		SettledAt:       liability.SettledAt,
		CreatedAt:       liability.CreatedAt,
		Version:         liability.Version,
	}
}
