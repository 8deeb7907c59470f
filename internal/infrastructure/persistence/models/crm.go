package models

import (
	"time"

	"github.com/square15/backend/internal/domain/crm"
	"github.com/square15/backend/internal/domain/shared"
)

// CampaignModel is the persistence model for the Campaign aggregate root.
type CampaignModel struct {
	TenantAggregateModel
	CampaignNumber string               `gorm:"type:varchar(50);not null;uniqueIndex:idx_campaign_tenant_number,priority:2"`
	Name           string               `gorm:"type:varchar(200);not null"`
	Subject        string               `gorm:"type:varchar(300);not null"`
	Body           string               `gorm:"type:text"`
	Audience       crm.CampaignAudience `gorm:"type:varchar(20);not null;default:'ALL'"`
	Status         crm.CampaignStatus   `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	ScheduledFor   *time.Time           `gorm:"index"`
	StartedAt      *time.Time
	CompletedAt    *time.Time
	RecipientCount int `gorm:"not null;default:0"`
	DeliveredCount int `gorm:"not null;default:0"`
	FailedCount    int `gorm:"not null;default:0"`
	CancelledAt    *time.Time
	CancelReason   string `gorm:"type:varchar(500)"`
}

func (CampaignModel) TableName() string {
	return "campaigns"
}

// ToDomain rebuilds the Campaign aggregate from the stored row.
func (m *CampaignModel) ToDomain() *crm.Campaign {
	return &crm.Campaign{
		TenantAggregateRoot: shared.TenantAggregateRoot{
			BaseAggregateRoot: shared.BaseAggregateRoot{
				BaseEntity: shared.BaseEntity{
					ID:        m.ID,
					CreatedAt: m.CreatedAt,
					UpdatedAt: m.UpdatedAt,
				},
				Version: m.Version,
			},
			TenantID:  m.TenantID,
			CreatedBy: m.CreatedBy,
		},
		CampaignNumber: m.CampaignNumber,
		Name:           m.Name,
		Subject:        m.Subject,
		Body:           m.Body,
		Audience:       m.Audience,
		Status:         m.Status,
		ScheduledFor:   m.ScheduledFor,
		StartedAt:      m.StartedAt,
		CompletedAt:    m.CompletedAt,
		RecipientCount: m.RecipientCount,
		DeliveredCount: m.DeliveredCount,
		FailedCount:    m.FailedCount,
		CancelledAt:    m.CancelledAt,
		CancelReason:   m.CancelReason,
	}
}

// FromDomain copies the Campaign aggregate into the row for saving.
func (m *CampaignModel) FromDomain(c *crm.Campaign) {
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	m.CampaignNumber = c.CampaignNumber
	m.Name = c.Name
	m.Subject = c.Subject
	m.Body = c.Body
	m.Audience = c.Audience
	m.Status = c.Status
	m.ScheduledFor = c.ScheduledFor
	m.StartedAt = c.StartedAt
	m.CompletedAt = c.CompletedAt
	m.RecipientCount = c.RecipientCount
	m.DeliveredCount = c.DeliveredCount
	m.FailedCount = c.FailedCount
	m.CancelledAt = c.CancelledAt
	m.CancelReason = c.CancelReason
}

// CampaignModelFromDomain builds a fresh row from the Campaign aggregate.
func CampaignModelFromDomain(c *crm.Campaign) *CampaignModel {
	m := &CampaignModel{}
	m.FromDomain(c)
	return m
}
