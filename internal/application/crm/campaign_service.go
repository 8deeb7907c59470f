// Package crm contains the campaign service. Scheduled campaigns are
// dispatched by the poller through DispatchDueCampaigns.
package crm

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/square15/backend/internal/domain/billing"
	"github.com/square15/backend/internal/domain/crm"
	"github.com/square15/backend/internal/domain/property"
	"github.com/square15/backend/internal/domain/shared"
	"github.com/square15/backend/internal/infrastructure/mailer"
	"go.uber.org/zap"
)

// dispatchBatchSize bounds the number of campaigns claimed per dispatch pass
const dispatchBatchSize = 20

// CampaignService handles campaign operations and dispatch
type CampaignService struct {
	campaignRepo     crm.CampaignRepository
	registrationRepo property.RegistrationRepository
	invoiceRepo      billing.InvoiceRepository
	quotationRepo    billing.QuotationRepository
	mail             mailer.Mailer
	logger           *zap.Logger
}

// NewCampaignService creates a new campaign service
func NewCampaignService(
	campaignRepo crm.CampaignRepository,
	registrationRepo property.RegistrationRepository,
	invoiceRepo billing.InvoiceRepository,
	quotationRepo billing.QuotationRepository,
	mail mailer.Mailer,
	logger *zap.Logger,
) *CampaignService {
	return &CampaignService{
		campaignRepo:     campaignRepo,
		registrationRepo: registrationRepo,
		invoiceRepo:      invoiceRepo,
		quotationRepo:    quotationRepo,
		mail:             mail,
		logger:           logger,
	}
}

// CampaignResponse is the campaign DTO returned to clients
type CampaignResponse struct {
	ID             uuid.UUID  `json:"id"`
	CampaignNumber string     `json:"campaign_number"`
	Name           string     `json:"name"`
	Subject        string     `json:"subject"`
	Body           string     `json:"body"`
	Audience       string     `json:"audience"`
	Status         string     `json:"status"`
	ScheduledFor   *time.Time `json:"scheduled_for,omitempty"`
	StartedAt      *time.Time `json:"started_at,omitempty"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	RecipientCount int        `json:"recipient_count"`
	DeliveredCount int        `json:"delivered_count"`
	FailedCount    int        `json:"failed_count"`
	CancelledAt    *time.Time `json:"cancelled_at,omitempty"`
	CancelReason   string     `json:"cancel_reason,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	Version        int        `json:"version"`
}

// CreateCampaignRequest contains fields for creating a campaign
type CreateCampaignRequest struct {
	Name     string `json:"name" binding:"required"`
	Subject  string `json:"subject" binding:"required"`
	Body     string `json:"body" binding:"required"`
	Audience string `json:"audience" binding:"required"`
}

// UpdateCampaignRequest amends the message of a draft campaign
type UpdateCampaignRequest struct {
	Name     string `json:"name" binding:"required"`
	Subject  string `json:"subject" binding:"required"`
	Body     string `json:"body" binding:"required"`
	Audience string `json:"audience" binding:"required"`
}

// ScheduleCampaignRequest books the campaign for dispatch
type ScheduleCampaignRequest struct {
	SendAt time.Time `json:"send_at" binding:"required"`
}

// CancelCampaignRequest cancels a campaign with a reason
type CancelCampaignRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// CampaignListFilter defines filtering options for listing campaigns
type CampaignListFilter struct {
	Status   string `form:"status"`
	Audience string `form:"audience"`
	FromDate string `form:"from_date"`
	ToDate   string `form:"to_date"`
	Search   string `form:"search"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// CreateCampaign creates a draft campaign
func (s *CampaignService) CreateCampaign(ctx context.Context, tenantID uuid.UUID, req CreateCampaignRequest) (*CampaignResponse, error) {
	number, err := s.campaignRepo.GenerateCampaignNumber(ctx, tenantID)
	if err != nil {
		s.logger.Error("Failed to generate campaign number", zap.Error(err))
		return nil, err
	}

	campaign, err := crm.NewCampaign(tenantID, number, req.Name, req.Subject, req.Body, crm.CampaignAudience(req.Audience))
	if err != nil {
		return nil, err
	}

	if err := s.campaignRepo.Save(ctx, campaign); err != nil {
		s.logger.Error("Failed to save campaign", zap.Error(err))
		return nil, err
	}

	s.logger.Info("Campaign created",
		zap.String("campaign_number", campaign.CampaignNumber),
		zap.String("audience", string(campaign.Audience)))

	return toCampaignResponse(campaign), nil
}

// GetCampaign retrieves a campaign by ID
func (s *CampaignService) GetCampaign(ctx context.Context, tenantID, campaignID uuid.UUID) (*CampaignResponse, error) {
	campaign, err := s.findCampaign(ctx, tenantID, campaignID)
	if err != nil {
		return nil, err
	}
	return toCampaignResponse(campaign), nil
}

// ListCampaigns lists campaigns with filtering and pagination
func (s *CampaignService) ListCampaigns(ctx context.Context, tenantID uuid.UUID, filter CampaignListFilter) ([]CampaignResponse, int64, error) {
	domainFilter, err := buildCampaignFilter(filter)
	if err != nil {
		return nil, 0, err
	}

	campaigns, err := s.campaignRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.campaignRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]CampaignResponse, 0, len(campaigns))
	for i := range campaigns {
		responses = append(responses, *toCampaignResponse(&campaigns[i]))
	}
	return responses, total, nil
}

// UpdateCampaign amends the message of a draft campaign
func (s *CampaignService) UpdateCampaign(ctx context.Context, tenantID, campaignID uuid.UUID, req UpdateCampaignRequest) (*CampaignResponse, error) {
	campaign, err := s.findCampaign(ctx, tenantID, campaignID)
	if err != nil {
		return nil, err
	}

	if err := campaign.UpdateContent(req.Name, req.Subject, req.Body, crm.CampaignAudience(req.Audience)); err != nil {
		return nil, err
	}
	if err := s.campaignRepo.SaveWithLock(ctx, campaign); err != nil {
		return nil, err
	}
	return toCampaignResponse(campaign), nil
}

// ScheduleCampaign books a draft campaign for dispatch
func (s *CampaignService) ScheduleCampaign(ctx context.Context, tenantID, campaignID uuid.UUID, req ScheduleCampaignRequest) (*CampaignResponse, error) {
	campaign, err := s.findCampaign(ctx, tenantID, campaignID)
	if err != nil {
		return nil, err
	}

	if err := campaign.Schedule(req.SendAt); err != nil {
		return nil, err
	}
	if err := s.campaignRepo.SaveWithLock(ctx, campaign); err != nil {
		return nil, err
	}

	s.logger.Info("Campaign scheduled",
		zap.String("campaign_number", campaign.CampaignNumber),
		zap.Time("send_at", req.SendAt))

	return toCampaignResponse(campaign), nil
}

// CancelCampaign voids a draft or scheduled campaign
func (s *CampaignService) CancelCampaign(ctx context.Context, tenantID, campaignID uuid.UUID, req CancelCampaignRequest) (*CampaignResponse, error) {
	campaign, err := s.findCampaign(ctx, tenantID, campaignID)
	if err != nil {
		return nil, err
	}

	if err := campaign.Cancel(req.Reason); err != nil {
		return nil, err
	}
	if err := s.campaignRepo.SaveWithLock(ctx, campaign); err != nil {
		return nil, err
	}
	return toCampaignResponse(campaign), nil
}

// DeleteCampaign removes a draft campaign
func (s *CampaignService) DeleteCampaign(ctx context.Context, tenantID, campaignID uuid.UUID) error {
	campaign, err := s.findCampaign(ctx, tenantID, campaignID)
	if err != nil {
		return err
	}

	if campaign.Status != crm.CampaignStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft campaigns can be deleted")
	}

	return s.campaignRepo.DeleteForTenant(ctx, tenantID, campaignID)
}

// DispatchDueCampaigns sends all campaigns scheduled at or before asOf.
// Each recipient gets an individual message; per-recipient failures count
// against the campaign but do not abort the run.
func (s *CampaignService) DispatchDueCampaigns(ctx context.Context, asOf time.Time) (int, error) {
	due, err := s.campaignRepo.FindDueForDispatch(ctx, asOf, dispatchBatchSize)
	if err != nil {
		return 0, err
	}

	dispatched := 0
	for i := range due {
		campaign := &due[i]
		if err := s.dispatchCampaign(ctx, campaign); err != nil {
			s.logger.Error("Campaign dispatch failed",
				zap.String("campaign_number", campaign.CampaignNumber),
				zap.Error(err))
			continue
		}
		dispatched++
	}
	return dispatched, nil
}

// dispatchCampaign resolves the audience and sends one campaign end to end
func (s *CampaignService) dispatchCampaign(ctx context.Context, campaign *crm.Campaign) error {
	recipients, err := s.resolveAudience(ctx, campaign.TenantID, campaign.Audience)
	if err != nil {
		return err
	}

	if err := campaign.StartDispatch(len(recipients)); err != nil {
		return err
	}
	if err := s.campaignRepo.SaveWithLock(ctx, campaign); err != nil {
		return err
	}

	delivered, failed := 0, 0
	for _, email := range recipients {
		msg := &mailer.Message{
			To:       []string{email},
			Subject:  campaign.Subject,
			HTMLBody: campaign.Body,
		}
		if err := s.mail.Send(ctx, msg); err != nil {
			s.logger.Warn("Campaign recipient delivery failed",
				zap.String("campaign_number", campaign.CampaignNumber),
				zap.String("recipient", email),
				zap.Error(err))
			failed++
			continue
		}
		delivered++
	}

	if err := campaign.CompleteDispatch(delivered, failed); err != nil {
		return err
	}
	if err := s.campaignRepo.SaveWithLock(ctx, campaign); err != nil {
		return err
	}

	s.logger.Info("Campaign dispatched",
		zap.String("campaign_number", campaign.CampaignNumber),
		zap.Int("delivered", delivered),
		zap.Int("failed", failed))

	return nil
}

// resolveAudience maps an audience selection to distinct recipient emails
func (s *CampaignService) resolveAudience(ctx context.Context, tenantID uuid.UUID, audience crm.CampaignAudience) ([]string, error) {
	switch audience {
	case crm.CampaignAudienceAll:
		registrations, err := s.registrationRepo.FindAllForTenant(ctx, tenantID, property.RegistrationFilter{})
		if err != nil {
			return nil, err
		}
		emails := make([]string, 0, len(registrations))
		for i := range registrations {
			emails = append(emails, registrations[i].CustomerEmail)
		}
		return dedupeEmails(emails), nil

	case crm.CampaignAudienceActive:
		status := property.RegistrationStatusApproved
		registrations, err := s.registrationRepo.FindAllForTenant(ctx, tenantID, property.RegistrationFilter{Status: &status})
		if err != nil {
			return nil, err
		}
		emails := make([]string, 0, len(registrations))
		for i := range registrations {
			emails = append(emails, registrations[i].CustomerEmail)
		}
		return dedupeEmails(emails), nil

	case crm.CampaignAudienceOverdue:
		status := billing.InvoiceStatusOverdue
		invoices, err := s.invoiceRepo.FindAllForTenant(ctx, tenantID, billing.InvoiceFilter{Status: &status})
		if err != nil {
			return nil, err
		}
		emails := make([]string, 0, len(invoices))
		for i := range invoices {
			emails = append(emails, invoices[i].CustomerEmail)
		}
		return dedupeEmails(emails), nil

	case crm.CampaignAudienceProspect:
		quotations, err := s.quotationRepo.FindAllForTenant(ctx, tenantID, billing.QuotationFilter{})
		if err != nil {
			return nil, err
		}
		registrations, err := s.registrationRepo.FindAllForTenant(ctx, tenantID, property.RegistrationFilter{})
		if err != nil {
			return nil, err
		}
		registered := make(map[string]struct{}, len(registrations))
		for i := range registrations {
			registered[registrations[i].CustomerEmail] = struct{}{}
		}
		emails := make([]string, 0, len(quotations))
		for i := range quotations {
			if _, ok := registered[quotations[i].CustomerEmail]; ok {
				continue
			}
			emails = append(emails, quotations[i].CustomerEmail)
		}
		return dedupeEmails(emails), nil
	}

	return nil, shared.NewDomainError("INVALID_AUDIENCE", "Campaign audience is not valid")
}

// dedupeEmails drops blanks and duplicates and sorts for stable send order
func dedupeEmails(emails []string) []string {
	seen := make(map[string]struct{}, len(emails))
	out := make([]string, 0, len(emails))
	for _, email := range emails {
		if email == "" {
			continue
		}
		if _, ok := seen[email]; ok {
			continue
		}
		seen[email] = struct{}{}
		out = append(out, email)
	}
	sort.Strings(out)
	return out
}

func (s *CampaignService) findCampaign(ctx context.Context, tenantID, campaignID uuid.UUID) (*crm.Campaign, error) {
	campaign, err := s.campaignRepo.FindByIDForTenant(ctx, tenantID, campaignID)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Campaign not found")
	}
	return campaign, nil
}

// buildCampaignFilter maps the list filter to the domain filter
func buildCampaignFilter(filter CampaignListFilter) (crm.CampaignFilter, error) {
	domainFilter := crm.CampaignFilter{
		Filter: shared.Filter{
			Search:   filter.Search,
			Page:     filter.Page,
			PageSize: filter.PageSize,
		},
	}

	if filter.Status != "" {
		status := crm.CampaignStatus(filter.Status)
		if !status.IsValid() {
			return domainFilter, shared.NewDomainError("INVALID_FILTER", "Invalid campaign status")
		}
		domainFilter.Status = &status
	}
	if filter.Audience != "" {
		audience := crm.CampaignAudience(filter.Audience)
		if !audience.IsValid() {
			return domainFilter, shared.NewDomainError("INVALID_FILTER", "Invalid campaign audience")
		}
		domainFilter.Audience = &audience
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

// toCampaignResponse maps a campaign aggregate to the response DTO
func toCampaignResponse(campaign *crm.Campaign) *CampaignResponse {
	return &CampaignResponse{
		ID:             campaign.ID,
		CampaignNumber: campaign.CampaignNumber,
		Name:           campaign.Name,
		Subject:        campaign.Subject,
		Body:           campaign.Body,
		Audience:       string(campaign.Audience),
		Status:         campaign.Status.String(),
		ScheduledFor:   campaign.ScheduledFor,
		StartedAt:      campaign.StartedAt,
		CompletedAt:    campaign.CompletedAt,
		RecipientCount: campaign.RecipientCount,
		DeliveredCount: campaign.DeliveredCount,
		FailedCount:    campaign.FailedCount,
		CancelledAt:    campaign.CancelledAt,
		CancelReason:   campaign.CancelReason,
		CreatedAt:      campaign.CreatedAt,
		Version:        campaign.Version,
	}
}
