package billing

import (
	"context"
	"fmt"
	"html"

	"github.com/square15/backend/internal/domain/billing"
	"github.com/square15/backend/internal/domain/shared"
	"github.com/square15/backend/internal/infrastructure/mailer"
	"go.uber.org/zap"
)

// OverdueNoticeHandler handles InvoiceOverdue events and sends a payment
// reminder to the customer on file.
type OverdueNoticeHandler struct {
	logger *zap.Logger
	mail   mailer.Mailer
}

// NewOverdueNoticeHandler creates a new handler for overdue invoice events
func NewOverdueNoticeHandler(logger *zap.Logger) *OverdueNoticeHandler {
	return &OverdueNoticeHandler{
		logger: logger,
	}
}

// WithMailer sets the mailer used to deliver reminders
func (h *OverdueNoticeHandler) WithMailer(mail mailer.Mailer) *OverdueNoticeHandler {
	h.mail = mail
	return h
}

// EventTypes returns the event types this handler is interested in
func (h *OverdueNoticeHandler) EventTypes() []string {
	return []string{"InvoiceOverdue"}
}

// Handle processes an InvoiceOverdueEvent
func (h *OverdueNoticeHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	overdueEvent, ok := event.(*billing.InvoiceOverdueEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", "InvoiceOverdue"),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected InvoiceOverdue, got %s", event.EventType())
	}

	h.logger.Warn("invoice overdue",
		zap.String("tenant_id", event.TenantID().String()),
		zap.String("invoice_id", overdueEvent.InvoiceID.String()),
		zap.String("invoice_number", overdueEvent.InvoiceNumber),
		zap.String("total", overdueEvent.Total.StringFixed(2)),
	)

	if h.mail == nil {
		return nil
	}
	if overdueEvent.CustomerEmail == "" {
		h.logger.Debug("customer has no email address, skipping overdue reminder",
			zap.String("invoice_number", overdueEvent.InvoiceNumber),
		)
		return nil
	}

	msg := &mailer.Message{
		To:       []string{overdueEvent.CustomerEmail},
		Subject:  fmt.Sprintf("Payment reminder: invoice %s is overdue", overdueEvent.InvoiceNumber),
		HTMLBody: buildOverdueNoticeHTML(overdueEvent),
	}
	if err := h.mail.Send(ctx, msg); err != nil {
		h.logger.Error("failed to send overdue reminder",
			zap.String("invoice_number", overdueEvent.InvoiceNumber),
			zap.Error(err),
		)
		// Delivery failure must not fail the event handling
		return nil
	}

	h.logger.Info("overdue reminder sent",
		zap.String("invoice_number", overdueEvent.InvoiceNumber),
		zap.String("customer_email", overdueEvent.CustomerEmail),
	)
	return nil
}

func buildOverdueNoticeHTML(event *billing.InvoiceOverdueEvent) string {
	return fmt.Sprintf(
		`<p>Dear customer,</p>
<p>Invoice <strong>%s</strong> for <strong>R %s</strong> is now overdue.</p>
<p>Please settle the outstanding amount at your earliest convenience, or contact us if payment has already been made.</p>
<p>Square 15 Properties</p>`,
		html.EscapeString(event.InvoiceNumber),
		event.Total.StringFixed(2),
	)
}

// Ensure OverdueNoticeHandler implements shared.EventHandler
var _ shared.EventHandler = (*OverdueNoticeHandler)(nil)
