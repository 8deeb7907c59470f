package telemetry

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormReceivablesMetricsProvider implements ReceivablesMetricsProvider using GORM.
// It queries the invoices and maintenance_requests tables directly for counts.
type GormReceivablesMetricsProvider struct {
	db *gorm.DB
}

// NewGormReceivablesMetricsProvider creates a new GormReceivablesMetricsProvider.
func NewGormReceivablesMetricsProvider(db *gorm.DB) *GormReceivablesMetricsProvider {
	return &GormReceivablesMetricsProvider{db: db}
}

// GetOverdueInvoiceCount returns the number of overdue invoices for a tenant.
func (p *GormReceivablesMetricsProvider) GetOverdueInvoiceCount(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).
		Table("invoices").
		Where("tenant_id = ? AND status = ?", tenantID, "OVERDUE").
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// GetOpenMaintenanceCount returns the number of maintenance requests that are
// neither completed nor cancelled for a tenant.
func (p *GormReceivablesMetricsProvider) GetOpenMaintenanceCount(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).
		Table("maintenance_requests").
		Where("tenant_id = ? AND status NOT IN ?", tenantID, []string{"COMPLETED", "CANCELLED"}).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure interface compliance
var _ ReceivablesMetricsProvider = (*GormReceivablesMetricsProvider)(nil)
