// Package insights assembles a tenant business snapshot and puts it in
// front of a chat-completions model together with the operator's question.
package insights

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/square15/backend/internal/domain/billing"
	"github.com/square15/backend/internal/domain/finance"
	"github.com/square15/backend/internal/domain/payroll"
	"github.com/square15/backend/internal/domain/property"
	"github.com/square15/backend/internal/domain/shared"
	"github.com/square15/backend/internal/infrastructure/ai"
	"go.uber.org/zap"
)

const systemPrompt = "You are a business analyst for a South African property and facility management company. " +
	"Answer using the monthly snapshot provided. Amounts are in ZAR. " +
	"Be direct and concrete; if the snapshot cannot answer the question, say so."

// InsightService answers operator questions against live business figures
type InsightService struct {
	invoiceRepo     billing.InvoiceRepository
	expenseRepo     finance.OperationalExpenseRepository
	revenueRepo     finance.AlternativeRevenueRepository
	maintenanceRepo property.MaintenanceRequestRepository
	payslipRepo     payroll.PayslipRepository
	chat            ai.ChatClient
	logger          *zap.Logger
}

// NewInsightService creates a new insight service
func NewInsightService(
	invoiceRepo billing.InvoiceRepository,
	expenseRepo finance.OperationalExpenseRepository,
	revenueRepo finance.AlternativeRevenueRepository,
	maintenanceRepo property.MaintenanceRequestRepository,
	payslipRepo payroll.PayslipRepository,
	chat ai.ChatClient,
	logger *zap.Logger,
) *InsightService {
	return &InsightService{
		invoiceRepo:     invoiceRepo,
		expenseRepo:     expenseRepo,
		revenueRepo:     revenueRepo,
		maintenanceRepo: maintenanceRepo,
		payslipRepo:     payslipRepo,
		chat:            chat,
		logger:          logger,
	}
}

// BusinessSnapshot is the month-to-date picture handed to the model
type BusinessSnapshot struct {
	AsOf                 time.Time       `json:"as_of"`
	PeriodStart          time.Time       `json:"period_start"`
	RevenueMonth         decimal.Decimal `json:"revenue_month"`
	ExpensesMonth        decimal.Decimal `json:"expenses_month"`
	OverdueInvoiceCount  int             `json:"overdue_invoice_count"`
	OverdueInvoiceValue  decimal.Decimal `json:"overdue_invoice_value"`
	OpenMaintenanceCount int64           `json:"open_maintenance_count"`
	PayrollCostMonth     decimal.Decimal `json:"payroll_cost_month"`
}

// AskInsightRequest carries the operator's question
type AskInsightRequest struct {
	Question string `json:"question" binding:"required"`
}

// InsightResponse returns the model's answer and the snapshot it saw
type InsightResponse struct {
	Answer   string           `json:"answer"`
	Snapshot BusinessSnapshot `json:"snapshot"`
}

// BuildSnapshot assembles the month-to-date business figures as of a date
func (s *InsightService) BuildSnapshot(ctx context.Context, tenantID uuid.UUID, asOf time.Time) (*BusinessSnapshot, error) {
	periodStart := time.Date(asOf.Year(), asOf.Month(), 1, 0, 0, 0, 0, asOf.Location())

	invoiced, err := s.invoiceRepo.SumPaidTotals(ctx, tenantID, periodStart, asOf)
	if err != nil {
		return nil, err
	}
	otherRevenue, err := s.revenueRepo.SumReceivedByPeriod(ctx, tenantID, periodStart, asOf)
	if err != nil {
		return nil, err
	}
	expenses, err := s.expenseRepo.SumPaidByPeriod(ctx, tenantID, periodStart, asOf)
	if err != nil {
		return nil, err
	}

	overdueCount, overdueValue, err := s.overdueBook(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	openMaintenance, err := s.openMaintenanceCount(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	totals, err := s.payslipRepo.SumPeriodTotals(ctx, tenantID, asOf.Year(), asOf.Month())
	if err != nil {
		return nil, err
	}
	employerUIF := totals.UIFTotal.Div(decimal.NewFromInt(2)).Round(2)
	payrollCost := totals.GrossPay.Add(employerUIF).Add(totals.SDL)

	return &BusinessSnapshot{
		AsOf:                 asOf,
		PeriodStart:          periodStart,
		RevenueMonth:         invoiced.Add(otherRevenue),
		ExpensesMonth:        expenses,
		OverdueInvoiceCount:  overdueCount,
		OverdueInvoiceValue:  overdueValue,
		OpenMaintenanceCount: openMaintenance,
		PayrollCostMonth:     payrollCost,
	}, nil
}

// Ask builds the snapshot and asks the model the operator's question
func (s *InsightService) Ask(ctx context.Context, tenantID uuid.UUID, req AskInsightRequest) (*InsightResponse, error) {
	if strings.TrimSpace(req.Question) == "" {
		return nil, shared.NewDomainError("INVALID_QUESTION", "Question cannot be empty")
	}

	snapshot, err := s.BuildSnapshot(ctx, tenantID, time.Now())
	if err != nil {
		return nil, err
	}

	answer, err := s.chat.Complete(ctx, systemPrompt, buildUserPrompt(snapshot, req.Question))
	if err != nil {
		s.logger.Warn("Insight completion failed", zap.Error(err))
		return nil, shared.NewDomainError("FAILED_DEPENDENCY", "The insights provider is unavailable")
	}

	return &InsightResponse{Answer: answer, Snapshot: *snapshot}, nil
}

// overdueBook returns the count and total value of overdue invoices
func (s *InsightService) overdueBook(ctx context.Context, tenantID uuid.UUID) (int, decimal.Decimal, error) {
	status := billing.InvoiceStatusOverdue
	invoices, err := s.invoiceRepo.FindAllForTenant(ctx, tenantID, billing.InvoiceFilter{Status: &status})
	if err != nil {
		return 0, decimal.Zero, err
	}
	value := decimal.Zero
	for i := range invoices {
		value = value.Add(invoices[i].Total)
	}
	return len(invoices), value, nil
}

// openMaintenanceCount counts maintenance requests in non-terminal states
func (s *InsightService) openMaintenanceCount(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	openStatuses := []property.MaintenanceStatus{
		property.MaintenanceStatusSubmitted,
		property.MaintenanceStatusTriaged,
		property.MaintenanceStatusScheduled,
		property.MaintenanceStatusInProgress,
	}
	var total int64
	for _, status := range openStatuses {
		status := status
		count, err := s.maintenanceRepo.CountForTenant(ctx, tenantID, property.MaintenanceRequestFilter{Status: &status})
		if err != nil {
			return 0, err
		}
		total += count
	}
	return total, nil
}

// buildUserPrompt renders the snapshot and question as the user message
func buildUserPrompt(snapshot *BusinessSnapshot, question string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Snapshot as of %s (month to date from %s):\n",
		snapshot.AsOf.Format("2006-01-02"), snapshot.PeriodStart.Format("2006-01-02"))
	fmt.Fprintf(&b, "- Revenue received: R%s\n", snapshot.RevenueMonth.StringFixed(2))
	fmt.Fprintf(&b, "- Expenses paid: R%s\n", snapshot.ExpensesMonth.StringFixed(2))
	fmt.Fprintf(&b, "- Overdue invoices: %d worth R%s\n", snapshot.OverdueInvoiceCount, snapshot.OverdueInvoiceValue.StringFixed(2))
	fmt.Fprintf(&b, "- Open maintenance requests: %d\n", snapshot.OpenMaintenanceCount)
	fmt.Fprintf(&b, "- Payroll cost this month: R%s\n", snapshot.PayrollCostMonth.StringFixed(2))
	fmt.Fprintf(&b, "\nQuestion: %s", question)
	return b.String()
}
