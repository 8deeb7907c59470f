package crm

import (
	"time"

	"github.com/google/uuid"
	"github.com/square15/backend/internal/domain/shared"
)

// CampaignCreatedEvent is raised when a campaign is drafted
type CampaignCreatedEvent struct {
	shared.BaseDomainEvent
	CampaignID     uuid.UUID        `json:"campaign_id"`
	CampaignNumber string           `json:"campaign_number"`
	Audience       CampaignAudience `json:"audience"`
}

// EventType returns the event type name
func (e *CampaignCreatedEvent) EventType() string {
	return "CampaignCreated"
}

// NewCampaignCreatedEvent creates a new CampaignCreatedEvent
func NewCampaignCreatedEvent(c *Campaign) *CampaignCreatedEvent {
	return &CampaignCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("CampaignCreated", "Campaign", c.ID, c.TenantID),
		CampaignID:      c.ID,
		CampaignNumber:  c.CampaignNumber,
		Audience:        c.Audience,
	}
}

// CampaignScheduledEvent is raised when a campaign is booked for dispatch
type CampaignScheduledEvent struct {
	shared.BaseDomainEvent
	CampaignID     uuid.UUID `json:"campaign_id"`
	CampaignNumber string    `json:"campaign_number"`
	ScheduledFor   time.Time `json:"scheduled_for"`
}

// EventType returns the event type name
func (e *CampaignScheduledEvent) EventType() string {
	return "CampaignScheduled"
}

// NewCampaignScheduledEvent creates a new CampaignScheduledEvent
func NewCampaignScheduledEvent(c *Campaign) *CampaignScheduledEvent {
	scheduledFor := time.Now()
	if c.ScheduledFor != nil {
		scheduledFor = *c.ScheduledFor
	}
	return &CampaignScheduledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("CampaignScheduled", "Campaign", c.ID, c.TenantID),
		CampaignID:      c.ID,
		CampaignNumber:  c.CampaignNumber,
		ScheduledFor:    scheduledFor,
	}
}

// CampaignSentEvent is raised when a send run finishes
type CampaignSentEvent struct {
	shared.BaseDomainEvent
	CampaignID     uuid.UUID `json:"campaign_id"`
	CampaignNumber string    `json:"campaign_number"`
	Delivered      int       `json:"delivered"`
	Failed         int       `json:"failed"`
}

// EventType returns the event type name
func (e *CampaignSentEvent) EventType() string {
	return "CampaignSent"
}

// NewCampaignSentEvent creates a new CampaignSentEvent
func NewCampaignSentEvent(c *Campaign) *CampaignSentEvent {
	return &CampaignSentEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("CampaignSent", "Campaign", c.ID, c.TenantID),
		CampaignID:      c.ID,
		CampaignNumber:  c.CampaignNumber,
		Delivered:       c.DeliveredCount,
		Failed:          c.FailedCount,
	}
}
