// Package tax builds the SARS compliance returns from the transactional
// aggregates: VAT201, EMP201, IRP6 and the annual IT14 summary. Empty
// periods produce zero-valued forms, never errors.
package tax

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

// ComplianceService assembles SARS returns
type ComplianceService struct {
	invoiceRepo billing.InvoiceRepository
	expenseRepo finance.OperationalExpenseRepository
	revenueRepo finance.AlternativeRevenueRepository
	assetRepo   asset.AssetRepository
	payslipRepo payroll.PayslipRepository
	logger      *zap.Logger
}

// NewComplianceService creates a new compliance service
func NewComplianceService(
	invoiceRepo billing.InvoiceRepository,
	expenseRepo finance.OperationalExpenseRepository,
	revenueRepo finance.AlternativeRevenueRepository,
	assetRepo asset.AssetRepository,
	payslipRepo payroll.PayslipRepository,
	logger *zap.Logger,
) *ComplianceService {
	return &ComplianceService{
		invoiceRepo: invoiceRepo,
		expenseRepo: expenseRepo,
		revenueRepo: revenueRepo,
		assetRepo:   assetRepo,
		payslipRepo: payslipRepo,
		logger:      logger,
	}
}

// VAT201Return is the VAT201 vendor declaration for a period
type VAT201Return struct {
	PeriodStart   time.Time       `json:"period_start"`
	PeriodEnd     time.Time       `json:"period_end"`
	OutputVAT     decimal.Decimal `json:"output_vat"`
	InputVAT      decimal.Decimal `json:"input_vat"`
	NetVAT        decimal.Decimal `json:"net_vat"`
	Refundable    bool            `json:"refundable"`
	InvoicedGross decimal.Decimal `json:"invoiced_gross"`
	ExpensesGross decimal.Decimal `json:"expenses_gross"`
	CapitalAcquis decimal.Decimal `json:"capital_acquisitions"`
}

// EMP201Return is the monthly employer declaration
type EMP201Return struct {
	Year     int             `json:"year"`
	Month    time.Month      `json:"month"`
	GrossPay decimal.Decimal `json:"gross_pay"`
	PAYE     decimal.Decimal `json:"paye"`
	UIF      decimal.Decimal `json:"uif"`
	SDL      decimal.Decimal `json:"sdl"`
	TotalDue decimal.Decimal `json:"total_due"`
}

// IRP6Estimate is a provisional tax estimate for a six-month period
type IRP6Estimate struct {
	PeriodStart        time.Time       `json:"period_start"`
	PeriodEnd          time.Time       `json:"period_end"`
	EstimatedTaxable   decimal.Decimal `json:"estimated_taxable_income"`
	TaxOnEstimate      decimal.Decimal `json:"tax_on_estimate"`
	ProvisionalPaid    decimal.Decimal `json:"provisional_paid"`
	ProvisionalPayable decimal.Decimal `json:"provisional_payable"`
}

// IT14Summary is the annual company income tax summary
type IT14Summary struct {
	YearStart         time.Time       `json:"year_start"`
	YearEnd           time.Time       `json:"year_end"`
	Turnover          decimal.Decimal `json:"turnover"`
	OperatingExpenses decimal.Decimal `json:"operating_expenses"`
	PayrollCost       decimal.Decimal `json:"payroll_cost"`
	WearAndTear       decimal.Decimal `json:"wear_and_tear"`
	TaxableIncome     decimal.Decimal `json:"taxable_income"`
	TaxPayable        decimal.Decimal `json:"tax_payable"`
}

// BuildVAT201 assembles the VAT201 return for a period. Invoice totals and
// expense amounts are VAT-inclusive; input VAT is claimed on approved
// expenses and on assets capitalised within the period.
func (s *ComplianceService) BuildVAT201(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (*VAT201Return, error) {
	if !to.After(from) {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Period end must be after period start")
	}

	invoiced := decimal.Zero
	for _, status := range []billing.InvoiceStatus{billing.InvoiceStatusSent, billing.InvoiceStatusOverdue, billing.InvoiceStatusPaid} {
		total, err := s.invoiceRepo.SumTotalsByStatus(ctx, tenantID, status, from, to)
		if err != nil {
			return nil, err
		}
		invoiced = invoiced.Add(total)
	}

	expenses, err := s.expenseRepo.SumApprovedByPeriod(ctx, tenantID, from, to)
	if err != nil {
		return nil, err
	}
	capital, err := s.capitalAcquisitions(ctx, tenantID, from, to)
	if err != nil {
		return nil, err
	}

	outputVAT := tax.VATPortionOfInclusive(invoiced)
	inputVAT := tax.VATPortionOfInclusive(expenses).Add(tax.VATPortionOfInclusive(capital))
	netVAT := outputVAT.Sub(inputVAT)

	return &VAT201Return{
		PeriodStart:   from,
		PeriodEnd:     to,
		OutputVAT:     outputVAT,
		InputVAT:      inputVAT,
		NetVAT:        netVAT,
		Refundable:    netVAT.IsNegative(),
		InvoicedGross: invoiced,
		ExpensesGross: expenses,
		CapitalAcquis: capital,
	}, nil
}

// BuildEMP201 assembles the monthly employer declaration
func (s *ComplianceService) BuildEMP201(ctx context.Context, tenantID uuid.UUID, year int, month time.Month) (*EMP201Return, error) {
	totals, err := s.payslipRepo.SumPeriodTotals(ctx, tenantID, year, month)
	if err != nil {
		return nil, err
	}

	return &EMP201Return{
		Year:     year,
		Month:    month,
		GrossPay: totals.GrossPay,
		PAYE:     totals.PAYE,
		UIF:      totals.UIFTotal,
		SDL:      totals.SDL,
		TotalDue: totals.PAYE.Add(totals.UIFTotal).Add(totals.SDL),
	}, nil
}

// BuildIRP6 estimates provisional tax for a six-month period: taxable income
// for the period at the company rate, less provisional amounts already paid.
// Payable is floored at zero.
func (s *ComplianceService) BuildIRP6(ctx context.Context, tenantID uuid.UUID, from, to time.Time, provisionalPaid decimal.Decimal) (*IRP6Estimate, error) {
	if !to.After(from) {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Period end must be after period start")
	}
	if provisionalPaid.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Provisional amount paid cannot be negative")
	}

	taxable, _, _, _, err := s.taxableIncome(ctx, tenantID, from, to)
	if err != nil {
		return nil, err
	}

	taxOnEstimate := tax.CompanyIncomeTax(taxable)
	payable := taxOnEstimate.Sub(provisionalPaid)
	if payable.IsNegative() {
		payable = decimal.Zero
	}

	return &IRP6Estimate{
		PeriodStart:        from,
		PeriodEnd:          to,
		EstimatedTaxable:   taxable,
		TaxOnEstimate:      taxOnEstimate,
		ProvisionalPaid:    provisionalPaid,
		ProvisionalPayable: payable,
	}, nil
}

// BuildIT14 assembles the annual income tax summary
func (s *ComplianceService) BuildIT14(ctx context.Context, tenantID uuid.UUID, yearStart, yearEnd time.Time) (*IT14Summary, error) {
	if !yearEnd.After(yearStart) {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Tax year end must be after tax year start")
	}

	taxable, turnover, expenses, payrollCost, err := s.taxableIncome(ctx, tenantID, yearStart, yearEnd)
	if err != nil {
		return nil, err
	}
	wearAndTear, err := s.wearAndTear(ctx, tenantID, yearStart, yearEnd)
	if err != nil {
		return nil, err
	}

	return &IT14Summary{
		YearStart:         yearStart,
		YearEnd:           yearEnd,
		Turnover:          turnover,
		OperatingExpenses: expenses,
		PayrollCost:       payrollCost,
		WearAndTear:       wearAndTear,
		TaxableIncome:     taxable,
		TaxPayable:        tax.CompanyIncomeTax(taxable),
	}, nil
}

// taxableIncome computes taxable income for a period: turnover less approved
// expenses, employer payroll cost and the wear-and-tear allowance.
func (s *ComplianceService) taxableIncome(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (taxable, turnover, expenses, payrollCost decimal.Decimal, err error) {
	invoiced, err := s.invoiceRepo.SumPaidTotals(ctx, tenantID, from, to)
	if err != nil {
		return decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero, err
	}
	otherRevenue, err := s.revenueRepo.SumConfirmedByPeriod(ctx, tenantID, from, to)
	if err != nil {
		return decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero, err
	}
	expenses, err = s.expenseRepo.SumApprovedByPeriod(ctx, tenantID, from, to)
	if err != nil {
		return decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero, err
	}
	payrollCost, err = s.employerPayrollCost(ctx, tenantID, from, to)
	if err != nil {
		return decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero, err
	}
	wearAndTear, err := s.wearAndTear(ctx, tenantID, from, to)
	if err != nil {
		return decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero, err
	}

	turnover = invoiced.Add(otherRevenue)
	taxable = turnover.Sub(expenses).Sub(payrollCost).Sub(wearAndTear).Round(2)
	return taxable, turnover, expenses, payrollCost, nil
}

// employerPayrollCost sums gross pay plus the employer UIF half and SDL
// across the months in a period
func (s *ComplianceService) employerPayrollCost(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	two := decimal.NewFromInt(2)
	cost := decimal.Zero
	for month := firstOfMonth(from); month.Before(to); month = month.AddDate(0, 1, 0) {
		totals, err := s.payslipRepo.SumPeriodTotals(ctx, tenantID, month.Year(), month.Month())
		if err != nil {
			return decimal.Zero, err
		}
		cost = cost.Add(totals.GrossPay).Add(totals.UIFTotal.Div(two)).Add(totals.SDL)
	}
	return cost.Round(2), nil
}

// wearAndTear sums the straight-line allowance accrued by the asset register
// within a period. Assets disposed of mid-period count for the months they
// were still in service.
func (s *ComplianceService) wearAndTear(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	assets, err := s.assetRepo.FindDepreciableForTenant(ctx, tenantID, from)
	if err != nil {
		return decimal.Zero, err
	}

	allowance := decimal.Zero
	for i := range assets {
		allowance = allowance.Add(assets[i].AccumulatedDepreciation(to).Sub(assets[i].AccumulatedDepreciation(from)))
	}
	return allowance.Round(2), nil
}

// capitalAcquisitions sums the cost of assets acquired within a period
func (s *ComplianceService) capitalAcquisitions(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	assets, err := s.assetRepo.FindAllForTenant(ctx, tenantID, asset.AssetFilter{
		AcquiredFrom: &from,
		AcquiredTo:   &to,
	})
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for i := range assets {
		total = total.Add(assets[i].AcquisitionCost)
	}
	return total, nil
}

func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
