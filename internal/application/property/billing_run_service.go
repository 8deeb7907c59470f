package property

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/square15/backend/internal/domain/billing"
	"github.com/square15/backend/internal/domain/property"
	"go.uber.org/zap"
)

// invoiceDueDays is how long customers have to settle a monthly invoice
const invoiceDueDays = 7

// BillingRunService generates the monthly invoices for active registrations
type BillingRunService struct {
	registrationRepo property.RegistrationRepository
	invoiceRepo      billing.InvoiceRepository
	logger           *zap.Logger
}

// NewBillingRunService creates a new billing run service
func NewBillingRunService(
	registrationRepo property.RegistrationRepository,
	invoiceRepo billing.InvoiceRepository,
	logger *zap.Logger,
) *BillingRunService {
	return &BillingRunService{
		registrationRepo: registrationRepo,
		invoiceRepo:      invoiceRepo,
		logger:           logger,
	}
}

// BillingRunResult summarises a completed billing run
type BillingRunResult struct {
	Period   string `json:"period"`
	Invoiced int    `json:"invoiced"`
	Skipped  int    `json:"skipped"`
	Failed   int    `json:"failed"`
}

// RunMonthlyBilling raises one invoice per active registration for the month
// containing periodStart. Registrations already invoiced for the period are
// skipped, so reruns after a partial failure are safe.
func (s *BillingRunService) RunMonthlyBilling(ctx context.Context, tenantID uuid.UUID, periodStart time.Time) (*BillingRunResult, error) {
	monthStart := time.Date(periodStart.Year(), periodStart.Month(), 1, 0, 0, 0, 0, periodStart.Location())
	monthEnd := monthStart.AddDate(0, 1, 0)
	periodLabel := monthStart.Format("January 2006")

	registrations, err := s.registrationRepo.FindActiveForBilling(ctx, tenantID, monthStart)
	if err != nil {
		return nil, err
	}

	result := &BillingRunResult{Period: monthStart.Format("2006-01")}
	for i := range registrations {
		registration := &registrations[i]

		invoiced, err := s.alreadyInvoiced(ctx, registration, monthStart, monthEnd)
		if err != nil {
			s.logger.Error("Failed to check existing invoices",
				zap.String("registration_number", registration.RegistrationNumber),
				zap.Error(err))
			result.Failed++
			continue
		}
		if invoiced {
			result.Skipped++
			continue
		}

		if err := s.raiseInvoice(ctx, registration, periodLabel, monthStart); err != nil {
			s.logger.Error("Failed to raise monthly invoice",
				zap.String("registration_number", registration.RegistrationNumber),
				zap.String("unit_code", registration.UnitCode),
				zap.Error(err))
			result.Failed++
			continue
		}
		result.Invoiced++
	}

	s.logger.Info("Monthly billing run completed",
		zap.String("tenant_id", tenantID.String()),
		zap.String("period", result.Period),
		zap.Int("invoiced", result.Invoiced),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed))

	return result, nil
}

// alreadyInvoiced reports whether the registration was billed this period
func (s *BillingRunService) alreadyInvoiced(ctx context.Context, registration *property.Registration, monthStart, monthEnd time.Time) (bool, error) {
	reference := billingReference(registration.RegistrationNumber, monthStart)

	invoices, err := s.invoiceRepo.FindByCustomer(ctx, registration.TenantID, registration.CustomerID, billing.InvoiceFilter{
		FromDate: &monthStart,
		ToDate:   &monthEnd,
	})
	if err != nil {
		return false, err
	}

	for i := range invoices {
		if invoices[i].Status == billing.InvoiceStatusCancelled {
			continue
		}
		if invoices[i].Remark == reference {
			return true, nil
		}
	}
	return false, nil
}

// raiseInvoice creates and sends the invoice for one registration
func (s *BillingRunService) raiseInvoice(ctx context.Context, registration *property.Registration, periodLabel string, monthStart time.Time) error {
	number, err := s.invoiceRepo.GenerateInvoiceNumber(ctx, registration.TenantID)
	if err != nil {
		return err
	}

	invoice, err := billing.NewInvoice(
		registration.TenantID, number,
		registration.CustomerID, registration.CustomerName, registration.CustomerEmail)
	if err != nil {
		return err
	}

	description := fmt.Sprintf("Monthly fee for unit %s (%s)", registration.UnitCode, periodLabel)
	if _, err := invoice.AddLine(description, decimal.NewFromInt(1), registration.MonthlyAmount); err != nil {
		return err
	}
	invoice.SetRemark(billingReference(registration.RegistrationNumber, monthStart))

	if err := invoice.Send(time.Now().AddDate(0, 0, invoiceDueDays)); err != nil {
		return err
	}

	return s.invoiceRepo.Save(ctx, invoice)
}

// billingReference is the dedupe marker stored on run-generated invoices
func billingReference(registrationNumber string, monthStart time.Time) string {
	return fmt.Sprintf("Billing run %s %s", monthStart.Format("2006-01"), registrationNumber)
}
