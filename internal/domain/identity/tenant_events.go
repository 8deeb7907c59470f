package identity

import (
	"github.com/google/uuid"
	"github.com/square15/backend/internal/domain/shared"
)

// TenantCreatedEvent is raised when a tenant is provisioned
type TenantCreatedEvent struct {
	shared.BaseDomainEvent
	TenantAggregateID uuid.UUID `json:"tenant_aggregate_id"`
	Code              string    `json:"code"`
	Name              string    `json:"name"`
}

// EventType returns the event type name
func (e *TenantCreatedEvent) EventType() string {
	return "TenantCreated"
}

// NewTenantCreatedEvent creates a new TenantCreatedEvent
func NewTenantCreatedEvent(tenant *Tenant) *TenantCreatedEvent {
	return &TenantCreatedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent("TenantCreated", "Tenant", tenant.ID, tenant.ID),
		TenantAggregateID: tenant.ID,
		Code:              tenant.Code,
		Name:              tenant.Name,
	}
}

// TenantSuspendedEvent is raised when a tenant is suspended
type TenantSuspendedEvent struct {
	shared.BaseDomainEvent
	TenantAggregateID uuid.UUID `json:"tenant_aggregate_id"`
	Code              string    `json:"code"`
	Reason            string    `json:"reason"`
}

// EventType returns the event type name
func (e *TenantSuspendedEvent) EventType() string {
	return "TenantSuspended"
}

// NewTenantSuspendedEvent creates a new TenantSuspendedEvent
func NewTenantSuspendedEvent(tenant *Tenant, reason string) *TenantSuspendedEvent {
	return &TenantSuspendedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent("TenantSuspended", "Tenant", tenant.ID, tenant.ID),
		TenantAggregateID: tenant.ID,
		Code:              tenant.Code,
		Reason:            reason,
	}
}
