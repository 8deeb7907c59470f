// Package crm holds outbound marketing campaigns.
package crm

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/square15/backend/internal/domain/shared"
)

// CampaignStatus represents the lifecycle state of a campaign
type CampaignStatus string

const (
	CampaignStatusDraft     CampaignStatus = "DRAFT"
	CampaignStatusScheduled CampaignStatus = "SCHEDULED"
	CampaignStatusSending   CampaignStatus = "SENDING"
	CampaignStatusSent      CampaignStatus = "SENT"
	CampaignStatusCancelled CampaignStatus = "CANCELLED"
)

// IsValid checks if the status is a valid CampaignStatus
func (s CampaignStatus) IsValid() bool {
	switch s {
	case CampaignStatusDraft, CampaignStatusScheduled, CampaignStatusSending,
		CampaignStatusSent, CampaignStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of CampaignStatus
func (s CampaignStatus) String() string {
	return string(s)
}

// IsTerminal returns true if the campaign can no longer change
func (s CampaignStatus) IsTerminal() bool {
	return s == CampaignStatusSent || s == CampaignStatusCancelled
}

// CampaignAudience selects which customers receive the campaign
type CampaignAudience string

const (
	CampaignAudienceAll      CampaignAudience = "ALL"      // Every customer
	CampaignAudienceActive   CampaignAudience = "ACTIVE"   // Customers with an active registration
	CampaignAudienceOverdue  CampaignAudience = "OVERDUE"  // Customers with overdue invoices
	CampaignAudienceProspect CampaignAudience = "PROSPECT" // Customers without a registration
)

// IsValid checks if the audience is valid
func (a CampaignAudience) IsValid() bool {
	switch a {
	case CampaignAudienceAll, CampaignAudienceActive, CampaignAudienceOverdue, CampaignAudienceProspect:
		return true
	}
	return false
}

// Campaign is an outbound email campaign aggregate root. A scheduled
// campaign is picked up by the dispatcher at its send time; dispatch
// counts are recorded when the run finishes.
type Campaign struct {
	shared.TenantAggregateRoot
	CampaignNumber string           `json:"campaign_number"`
	Name           string           `json:"name"`
	Subject        string           `json:"subject"`
	Body           string           `json:"body"` // HTML template body
	Audience       CampaignAudience `json:"audience"`
	Status         CampaignStatus   `json:"status"`
	ScheduledFor   *time.Time       `json:"scheduled_for"`
	StartedAt      *time.Time       `json:"started_at"`
	CompletedAt    *time.Time       `json:"completed_at"`
	RecipientCount int              `json:"recipient_count"`
	DeliveredCount int              `json:"delivered_count"`
	FailedCount    int              `json:"failed_count"`
	CancelledAt    *time.Time       `json:"cancelled_at"`
	CancelReason   string           `json:"cancel_reason"`
}

// NewCampaign creates a draft campaign
func NewCampaign(tenantID uuid.UUID, campaignNumber, name, subject, body string, audience CampaignAudience) (*Campaign, error) {
	if campaignNumber == "" {
		return nil, shared.NewDomainError("INVALID_CAMPAIGN_NUMBER", "Campaign number cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Campaign name cannot be empty")
	}
	if subject == "" {
		return nil, shared.NewDomainError("INVALID_SUBJECT", "Campaign subject cannot be empty")
	}
	if body == "" {
		return nil, shared.NewDomainError("INVALID_BODY", "Campaign body cannot be empty")
	}
	if !audience.IsValid() {
		return nil, shared.NewDomainError("INVALID_AUDIENCE", "Campaign audience is not valid")
	}

	c := &Campaign{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		CampaignNumber:      campaignNumber,
		Name:                name,
		Subject:             subject,
		Body:                body,
		Audience:            audience,
		Status:              CampaignStatusDraft,
	}

	c.AddDomainEvent(NewCampaignCreatedEvent(c))

	return c, nil
}

// UpdateContent amends the message; draft only
func (c *Campaign) UpdateContent(name, subject, body string, audience CampaignAudience) error {
	if c.Status != CampaignStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Can only amend a draft campaign")
	}
	if name == "" || subject == "" || body == "" {
		return shared.NewDomainError("INVALID_CONTENT", "Name, subject and body are required")
	}
	if !audience.IsValid() {
		return shared.NewDomainError("INVALID_AUDIENCE", "Campaign audience is not valid")
	}
	c.Name = name
	c.Subject = subject
	c.Body = body
	c.Audience = audience
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// Schedule books the campaign for dispatch
func (c *Campaign) Schedule(sendAt time.Time) error {
	if c.Status != CampaignStatusDraft {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot schedule campaign in %s status", c.Status))
	}
	if sendAt.Before(time.Now()) {
		return shared.NewDomainError("INVALID_SCHEDULE", "Send time cannot be in the past")
	}

	c.Status = CampaignStatusScheduled
	c.ScheduledFor = &sendAt
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewCampaignScheduledEvent(c))

	return nil
}

// StartDispatch claims the campaign for a send run
func (c *Campaign) StartDispatch(recipientCount int) error {
	if c.Status != CampaignStatusScheduled {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot dispatch campaign in %s status", c.Status))
	}
	if recipientCount < 0 {
		return shared.NewDomainError("INVALID_RECIPIENTS", "Recipient count cannot be negative")
	}

	now := time.Now()
	c.Status = CampaignStatusSending
	c.StartedAt = &now
	c.RecipientCount = recipientCount
	c.UpdatedAt = now
	c.IncrementVersion()
	return nil
}

// CompleteDispatch records the outcome of a send run
func (c *Campaign) CompleteDispatch(delivered, failed int) error {
	if c.Status != CampaignStatusSending {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot complete campaign in %s status", c.Status))
	}
	if delivered < 0 || failed < 0 {
		return shared.NewDomainError("INVALID_COUNTS", "Delivery counts cannot be negative")
	}
	if delivered+failed > c.RecipientCount {
		return shared.NewDomainError("INVALID_COUNTS", "Delivery counts exceed recipient count")
	}

	now := time.Now()
	c.Status = CampaignStatusSent
	c.CompletedAt = &now
	c.DeliveredCount = delivered
	c.FailedCount = failed
	c.UpdatedAt = now
	c.IncrementVersion()

	c.AddDomainEvent(NewCampaignSentEvent(c))

	return nil
}

// Cancel voids a draft or scheduled campaign
func (c *Campaign) Cancel(reason string) error {
	if c.Status != CampaignStatusDraft && c.Status != CampaignStatusScheduled {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel campaign in %s status", c.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}

	now := time.Now()
	c.Status = CampaignStatusCancelled
	c.CancelledAt = &now
	c.CancelReason = reason
	c.UpdatedAt = now
	c.IncrementVersion()
	return nil
}

// IsDue reports whether a scheduled campaign should be dispatched
func (c *Campaign) IsDue(asOf time.Time) bool {
	return c.Status == CampaignStatusScheduled && c.ScheduledFor != nil && !asOf.Before(*c.ScheduledFor)
}
