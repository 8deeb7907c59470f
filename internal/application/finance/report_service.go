package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/square15/backend/internal/domain/asset"
	"github.com/square15/backend/internal/domain/billing"
	"github.com/square15/backend/internal/domain/finance"
	"github.com/square15/backend/internal/domain/payroll"
	"github.com/square15/backend/internal/domain/shared"
	"github.com/square15/backend/internal/domain/tax"
	"go.uber.org/zap"
)

// ReportService builds the derived financial statements from the
// transactional aggregates. All figures are decimal roll-ups; nothing
// is stored.
type ReportService struct {
	invoiceRepo   billing.InvoiceRepository
	expenseRepo   finance.OperationalExpenseRepository
	revenueRepo   finance.AlternativeRevenueRepository
	assetRepo     asset.AssetRepository
	liabilityRepo asset.LiabilityRepository
	payslipRepo   payroll.PayslipRepository
	logger        *zap.Logger
}

// NewReportService creates a new report service
func NewReportService(
	invoiceRepo billing.InvoiceRepository,
	expenseRepo finance.OperationalExpenseRepository,
	revenueRepo finance.AlternativeRevenueRepository,
	assetRepo asset.AssetRepository,
	liabilityRepo asset.LiabilityRepository,
	payslipRepo payroll.PayslipRepository,
	logger *zap.Logger,
) *ReportService {
	return &ReportService{
		invoiceRepo:   invoiceRepo,
		expenseRepo:   expenseRepo,
		revenueRepo:   revenueRepo,
		assetRepo:     assetRepo,
		liabilityRepo: liabilityRepo,
		payslipRepo:   payslipRepo,
		logger:        logger,
	}
}

// ProfitAndLossReport is the income statement for a period
type ProfitAndLossReport struct {
	From               time.Time         `json:"from"`
	To                 time.Time         `json:"to"`
	InvoicedRevenue    decimal.Decimal   `json:"invoiced_revenue"`
	OtherRevenue       decimal.Decimal   `json:"other_revenue"`
	TotalRevenue       decimal.Decimal   `json:"total_revenue"`
	OperatingExpenses  decimal.Decimal   `json:"operating_expenses"`
	ExpensesByCategory []CategorySummary `json:"expenses_by_category"`
	PayrollCost        decimal.Decimal   `json:"payroll_cost"`
	Depreciation       decimal.Decimal   `json:"depreciation"`
	NetProfit          decimal.Decimal   `json:"net_profit"`
}

// BalanceSheetReport is the statement of financial position as of a date
type BalanceSheetReport struct {
	AsOf               time.Time       `json:"as_of"`
	FixedAssets        decimal.Decimal `json:"fixed_assets"`
	AccountsReceivable decimal.Decimal `json:"accounts_receivable"`
	TotalAssets        decimal.Decimal `json:"total_assets"`
	Borrowings         decimal.Decimal `json:"borrowings"`
	VATPayable         decimal.Decimal `json:"vat_payable"`
	PayrollLiabilities decimal.Decimal `json:"payroll_liabilities"`
	TotalLiabilities   decimal.Decimal `json:"total_liabilities"`
	Equity             decimal.Decimal `json:"equity"`
}

// CashFlowReport is the cash movement statement for a period
type CashFlowReport struct {
	From              time.Time       `json:"from"`
	To                time.Time       `json:"to"`
	CashFromCustomers decimal.Decimal `json:"cash_from_customers"`
	OtherCashReceived decimal.Decimal `json:"other_cash_received"`
	ExpensesPaid      decimal.Decimal `json:"expenses_paid"`
	SalariesPaid      decimal.Decimal `json:"salaries_paid"`
	NetCash           decimal.Decimal `json:"net_cash"`
}

// ProfitAndLoss builds the income statement for a period
func (s *ReportService) ProfitAndLoss(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (*ProfitAndLossReport, error) {
	if !to.After(from) {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Period end must be after period start")
	}

	invoiced, err := s.invoiceRepo.SumTotalsByStatus(ctx, tenantID, billing.InvoiceStatusPaid, from, to)
	if err != nil {
		return nil, err
	}
	otherRevenue, err := s.revenueRepo.SumConfirmedByPeriod(ctx, tenantID, from, to)
	if err != nil {
		return nil, err
	}
	expenses, err := s.expenseRepo.SumApprovedByPeriod(ctx, tenantID, from, to)
	if err != nil {
		return nil, err
	}
	byCategory, err := s.expenseRepo.SumApprovedByCategory(ctx, tenantID, from, to)
	if err != nil {
		return nil, err
	}
	payrollCost, err := s.payrollCost(ctx, tenantID, from, to)
	if err != nil {
		return nil, err
	}
	depreciation, err := s.depreciationCharge(ctx, tenantID, from, to)
	if err != nil {
		return nil, err
	}

	categories := make([]CategorySummary, 0, len(byCategory))
	for _, c := range byCategory {
		categories = append(categories, CategorySummary{Category: c.Category, Total: c.Total})
	}

	totalRevenue := invoiced.Add(otherRevenue)
	netProfit := totalRevenue.Sub(expenses).Sub(payrollCost).Sub(depreciation)

	return &ProfitAndLossReport{
		From:               from,
		To:                 to,
		InvoicedRevenue:    invoiced,
		OtherRevenue:       otherRevenue,
		TotalRevenue:       totalRevenue,
		OperatingExpenses:  expenses,
		ExpensesByCategory: categories,
		PayrollCost:        payrollCost,
		Depreciation:       depreciation.Round(2),
		NetProfit:          netProfit.Round(2),
	}, nil
}

// BalanceSheet builds the statement of financial position as of a date
func (s *ReportService) BalanceSheet(ctx context.Context, tenantID uuid.UUID, asOf time.Time) (*BalanceSheetReport, error) {
	assets, err := s.assetRepo.FindActiveForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	fixedAssets := decimal.Zero
	for i := range assets {
		fixedAssets = fixedAssets.Add(assets[i].BookValue(asOf))
	}

	var epoch time.Time
	sent, err := s.invoiceRepo.SumTotalsByStatus(ctx, tenantID, billing.InvoiceStatusSent, epoch, asOf)
	if err != nil {
		return nil, err
	}
	overdue, err := s.invoiceRepo.SumTotalsByStatus(ctx, tenantID, billing.InvoiceStatusOverdue, epoch, asOf)
	if err != nil {
		return nil, err
	}
	receivable := sent.Add(overdue)

	borrowings, err := s.liabilityRepo.SumOutstanding(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	// Output VAT on uncollected invoices is owed to the revenue service
	// once collected
	vatPayable := tax.VATPortionOfInclusive(receivable)

	// Statutory deductions for the current period awaiting payover
	totals, err := s.payslipRepo.SumPeriodTotals(ctx, tenantID, asOf.Year(), asOf.Month())
	if err != nil {
		return nil, err
	}
	payrollLiabilities := totals.PAYE.Add(totals.UIFTotal).Add(totals.SDL)

	totalAssets := fixedAssets.Add(receivable)
	totalLiabilities := borrowings.Add(vatPayable).Add(payrollLiabilities)

	return &BalanceSheetReport{
		AsOf:               asOf,
		FixedAssets:        fixedAssets.Round(2),
		AccountsReceivable: receivable.Round(2),
		TotalAssets:        totalAssets.Round(2),
		Borrowings:         borrowings.Round(2),
		VATPayable:         vatPayable.Round(2),
		PayrollLiabilities: payrollLiabilities.Round(2),
		TotalLiabilities:   totalLiabilities.Round(2),
		Equity:             totalAssets.Sub(totalLiabilities).Round(2),
	}, nil
}

// CashFlow builds the cash movement statement for a period
func (s *ReportService) CashFlow(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (*CashFlowReport, error) {
	if !to.After(from) {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Period end must be after period start")
	}

	fromCustomers, err := s.invoiceRepo.SumPaidTotals(ctx, tenantID, from, to)
	if err != nil {
		return nil, err
	}
	otherReceived, err := s.revenueRepo.SumReceivedByPeriod(ctx, tenantID, from, to)
	if err != nil {
		return nil, err
	}
	expensesPaid, err := s.expenseRepo.SumPaidByPeriod(ctx, tenantID, from, to)
	if err != nil {
		return nil, err
	}
	salariesPaid, err := s.salariesPaid(ctx, tenantID, from, to)
	if err != nil {
		return nil, err
	}

	netCash := fromCustomers.Add(otherReceived).Sub(expensesPaid).Sub(salariesPaid)

	return &CashFlowReport{
		From:              from,
		To:                to,
		CashFromCustomers: fromCustomers,
		OtherCashReceived: otherReceived,
		ExpensesPaid:      expensesPaid,
		SalariesPaid:      salariesPaid.Round(2),
		NetCash:           netCash.Round(2),
	}, nil
}

// payrollCost sums the employer cost of payroll across the months in a
// period. UIF totals carry employee and employer halves in equal parts.
func (s *ReportService) payrollCost(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	two := decimal.NewFromInt(2)
	cost := decimal.Zero
	for month := monthOf(from); month.Before(to); month = month.AddDate(0, 1, 0) {
		totals, err := s.payslipRepo.SumPeriodTotals(ctx, tenantID, month.Year(), month.Month())
		if err != nil {
			return decimal.Zero, err
		}
		employerUIF := totals.UIFTotal.Div(two)
		cost = cost.Add(totals.GrossPay).Add(employerUIF).Add(totals.SDL)
	}
	return cost.Round(2), nil
}

// salariesPaid sums net pay of paid payslips across the months in a period
func (s *ReportService) salariesPaid(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	paid := payroll.PayslipStatusPaid
	total := decimal.Zero
	for month := monthOf(from); month.Before(to); month = month.AddDate(0, 1, 0) {
		year := month.Year()
		periodMonth := month.Month()
		payslips, err := s.payslipRepo.FindAllForTenant(ctx, tenantID, payroll.PayslipFilter{
			Status:      &paid,
			PeriodYear:  &year,
			PeriodMonth: &periodMonth,
		})
		if err != nil {
			return decimal.Zero, err
		}
		for i := range payslips {
			total = total.Add(payslips[i].NetPay)
		}
	}
	return total, nil
}

// depreciationCharge sums the straight-line depreciation accrued by the
// asset register within a period. Assets disposed of during the period
// still contribute the months they were in service; their accumulation is
// frozen at the disposal date.
func (s *ReportService) depreciationCharge(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	assets, err := s.assetRepo.FindDepreciableForTenant(ctx, tenantID, from)
	if err != nil {
		return decimal.Zero, err
	}

	charge := decimal.Zero
	for i := range assets {
		accrued := assets[i].AccumulatedDepreciation(to).Sub(assets[i].AccumulatedDepreciation(from))
		charge = charge.Add(accrued)
	}
	return charge, nil
}

// monthOf truncates a time to the first of its month
func monthOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
