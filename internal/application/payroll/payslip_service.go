// Package payroll contains the payslip service. Statutory deductions are
// computed by the aggregate; callers only supply earnings.
package payroll

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/square15/backend/internal/domain/identity"
	"github.com/square15/backend/internal/domain/payroll"
	"github.com/square15/backend/internal/domain/shared"
	"github.com/square15/backend/internal/infrastructure/pdf"
	"go.uber.org/zap"
)

// PayslipService handles payslip operations
type PayslipService struct {
	payslipRepo payroll.PayslipRepository
	tenantRepo  identity.TenantRepository
	documents   *pdf.DocumentBuilder
	renderer    pdf.Renderer
	logger      *zap.Logger
}

// NewPayslipService creates a new payslip service
func NewPayslipService(
	payslipRepo payroll.PayslipRepository,
	tenantRepo identity.TenantRepository,
	documents *pdf.DocumentBuilder,
	renderer pdf.Renderer,
	logger *zap.Logger,
) *PayslipService {
	return &PayslipService{
		payslipRepo: payslipRepo,
		tenantRepo:  tenantRepo,
		documents:   documents,
		renderer:    renderer,
		logger:      logger,
	}
}

// PayslipResponse is the payslip DTO returned to clients
type PayslipResponse struct {
	ID             uuid.UUID       `json:"id"`
	PayslipNumber  string          `json:"payslip_number"`
	EmployeeID     uuid.UUID       `json:"employee_id"`
	EmployeeName   string          `json:"employee_name"`
	EmployeeNumber string          `json:"employee_number,omitempty"`
	PeriodYear     int             `json:"period_year"`
	PeriodMonth    int             `json:"period_month"`
	BasicSalary    decimal.Decimal `json:"basic_salary"`
	Allowances     decimal.Decimal `json:"allowances"`
	GrossPay       decimal.Decimal `json:"gross_pay"`
	PAYE           decimal.Decimal `json:"paye"`
	UIFEmployee    decimal.Decimal `json:"uif_employee"`
	UIFEmployer    decimal.Decimal `json:"uif_employer"`
	SDL            decimal.Decimal `json:"sdl"`
	NetPay         decimal.Decimal `json:"net_pay"`
	EmployerCost   decimal.Decimal `json:"employer_cost"`
	Status         string          `json:"status"`
	FinalisedAt    *time.Time      `json:"finalised_at,omitempty"`
	PaidAt         *time.Time      `json:"paid_at,omitempty"`
	VoidReason     string          `json:"void_reason,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	Version        int             `json:"version"`
}

// CreatePayslipRequest contains fields for creating a draft payslip.
// Deductions are derived server-side and never accepted from the client.
type CreatePayslipRequest struct {
	EmployeeID     uuid.UUID       `json:"employee_id" binding:"required"`
	EmployeeName   string          `json:"employee_name" binding:"required"`
	EmployeeNumber string          `json:"employee_number"`
	PeriodYear     int             `json:"period_year" binding:"required"`
	PeriodMonth    int             `json:"period_month" binding:"required"`
	BasicSalary    decimal.Decimal `json:"basic_salary" binding:"required"`
	Allowances     decimal.Decimal `json:"allowances"`
}

// UpdateEarningsRequest amends gross amounts on a draft payslip
type UpdateEarningsRequest struct {
	BasicSalary decimal.Decimal `json:"basic_salary" binding:"required"`
	Allowances  decimal.Decimal `json:"allowances"`
}

// VoidPayslipRequest cancels a payslip with a reason
type VoidPayslipRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// PayslipListFilter defines filtering options for listing payslips
type PayslipListFilter struct {
	EmployeeID  string `form:"employee_id"`
	Status      string `form:"status"`
	PeriodYear  int    `form:"period_year"`
	PeriodMonth int    `form:"period_month"`
	Search      string `form:"search"`
	Page        int    `form:"page"`
	PageSize    int    `form:"page_size"`
}

// CreatePayslip creates a draft payslip with deductions computed from gross.
// One payslip per employee per period.
func (s *PayslipService) CreatePayslip(ctx context.Context, tenantID uuid.UUID, req CreatePayslipRequest) (*PayslipResponse, error) {
	month := time.Month(req.PeriodMonth)
	existing, err := s.payslipRepo.FindByEmployeeAndPeriod(ctx, tenantID, req.EmployeeID, req.PeriodYear, month)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.Status != payroll.PayslipStatusVoided {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Employee already has a payslip for this period")
	}

	number, err := s.payslipRepo.GeneratePayslipNumber(ctx, tenantID)
	if err != nil {
		s.logger.Error("Failed to generate payslip number", zap.Error(err))
		return nil, err
	}

	payslip, err := payroll.NewPayslip(
		tenantID, number, req.EmployeeID, req.EmployeeName, req.EmployeeNumber,
		req.PeriodYear, month, req.BasicSalary, req.Allowances)
	if err != nil {
		return nil, err
	}

	if err := s.payslipRepo.Save(ctx, payslip); err != nil {
		s.logger.Error("Failed to save payslip", zap.Error(err))
		return nil, err
	}

	s.logger.Info("Payslip created",
		zap.String("payslip_number", payslip.PayslipNumber),
		zap.String("employee", payslip.EmployeeName),
		zap.String("gross", payslip.GrossPay.StringFixed(2)))

	return toPayslipResponse(payslip), nil
}

// GetPayslip retrieves a payslip by ID
func (s *PayslipService) GetPayslip(ctx context.Context, tenantID, payslipID uuid.UUID) (*PayslipResponse, error) {
	payslip, err := s.findPayslip(ctx, tenantID, payslipID)
	if err != nil {
		return nil, err
	}
	return toPayslipResponse(payslip), nil
}

// ListPayslips lists payslips with filtering and pagination
func (s *PayslipService) ListPayslips(ctx context.Context, tenantID uuid.UUID, filter PayslipListFilter) ([]PayslipResponse, int64, error) {
	domainFilter, err := buildPayslipFilter(filter)
	if err != nil {
		return nil, 0, err
	}

	payslips, err := s.payslipRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.payslipRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]PayslipResponse, 0, len(payslips))
	for i := range payslips {
		responses = append(responses, *toPayslipResponse(&payslips[i]))
	}
	return responses, total, nil
}

// UpdateEarnings amends the gross amounts of a draft payslip and recomputes
// the deductions
func (s *PayslipService) UpdateEarnings(ctx context.Context, tenantID, payslipID uuid.UUID, req UpdateEarningsRequest) (*PayslipResponse, error) {
	payslip, err := s.findPayslip(ctx, tenantID, payslipID)
	if err != nil {
		return nil, err
	}

	if err := payslip.UpdateEarnings(req.BasicSalary, req.Allowances); err != nil {
		return nil, err
	}
	if err := s.payslipRepo.SaveWithLock(ctx, payslip); err != nil {
		return nil, err
	}
	return toPayslipResponse(payslip), nil
}

// FinalisePayslip locks a draft payslip for payment
func (s *PayslipService) FinalisePayslip(ctx context.Context, tenantID, payslipID uuid.UUID) (*PayslipResponse, error) {
	payslip, err := s.findPayslip(ctx, tenantID, payslipID)
	if err != nil {
		return nil, err
	}

	if err := payslip.Finalise(); err != nil {
		return nil, err
	}
	if err := s.payslipRepo.SaveWithLock(ctx, payslip); err != nil {
		return nil, err
	}
	return toPayslipResponse(payslip), nil
}

// MarkPayslipPaid records salary payment of a finalised payslip
func (s *PayslipService) MarkPayslipPaid(ctx context.Context, tenantID, payslipID uuid.UUID) (*PayslipResponse, error) {
	payslip, err := s.findPayslip(ctx, tenantID, payslipID)
	if err != nil {
		return nil, err
	}

	if err := payslip.MarkPaid(); err != nil {
		return nil, err
	}
	if err := s.payslipRepo.SaveWithLock(ctx, payslip); err != nil {
		return nil, err
	}

	s.logger.Info("Payslip paid",
		zap.String("payslip_number", payslip.PayslipNumber),
		zap.String("net", payslip.NetPay.StringFixed(2)))

	return toPayslipResponse(payslip), nil
}

// VoidPayslip cancels a draft or finalised payslip
func (s *PayslipService) VoidPayslip(ctx context.Context, tenantID, payslipID uuid.UUID, req VoidPayslipRequest) (*PayslipResponse, error) {
	payslip, err := s.findPayslip(ctx, tenantID, payslipID)
	if err != nil {
		return nil, err
	}

	if err := payslip.Void(req.Reason); err != nil {
		return nil, err
	}
	if err := s.payslipRepo.SaveWithLock(ctx, payslip); err != nil {
		return nil, err
	}
	return toPayslipResponse(payslip), nil
}

// DeletePayslip removes a draft payslip
func (s *PayslipService) DeletePayslip(ctx context.Context, tenantID, payslipID uuid.UUID) error {
	payslip, err := s.findPayslip(ctx, tenantID, payslipID)
	if err != nil {
		return err
	}

	if payslip.Status != payroll.PayslipStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft payslips can be deleted")
	}

	return s.payslipRepo.DeleteForTenant(ctx, tenantID, payslipID)
}

// RenderPayslipPDF renders the payslip as a PDF document
func (s *PayslipService) RenderPayslipPDF(ctx context.Context, tenantID, payslipID uuid.UUID) ([]byte, string, error) {
	payslip, err := s.findPayslip(ctx, tenantID, payslipID)
	if err != nil {
		return nil, "", err
	}
	if payslip.Status == payroll.PayslipStatusDraft || payslip.Status == payroll.PayslipStatusVoided {
		return nil, "", shared.NewDomainError("INVALID_STATE", "Only finalised or paid payslips can be rendered")
	}

	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil || tenant == nil {
		return nil, "", shared.NewDomainError("NOT_FOUND", "Tenant not found")
	}

	html, err := s.documents.BuildPayslipHTML(buildPayslipDocument(tenant, payslip))
	if err != nil {
		return nil, "", err
	}

	result, err := s.renderer.Render(ctx, &pdf.RenderRequest{
		HTML:      html,
		PaperSize: pdf.PaperSizeA4,
		Title:     payslip.PayslipNumber,
	})
	if err != nil {
		s.logger.Error("Failed to render payslip PDF",
			zap.String("payslip_number", payslip.PayslipNumber),
			zap.Error(err))
		return nil, "", err
	}

	filename := fmt.Sprintf("%s.pdf", payslip.PayslipNumber)
	return result.PDFData, filename, nil
}

func (s *PayslipService) findPayslip(ctx context.Context, tenantID, payslipID uuid.UUID) (*payroll.Payslip, error) {
	payslip, err := s.payslipRepo.FindByIDForTenant(ctx, tenantID, payslipID)
	if err != nil {
		return nil, err
	}
	if payslip == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Payslip not found")
	}
	return payslip, nil
}

// buildPayslipFilter maps the list filter to the domain filter
func buildPayslipFilter(filter PayslipListFilter) (payroll.PayslipFilter, error) {
	domainFilter := payroll.PayslipFilter{
		Filter: shared.Filter{
			Search:   filter.Search,
			Page:     filter.Page,
			PageSize: filter.PageSize,
		},
	}

	if filter.EmployeeID != "" {
		employeeID, err := uuid.Parse(filter.EmployeeID)
		if err != nil {
			return domainFilter, shared.NewDomainError("INVALID_FILTER", "Invalid employee ID")
		}
		domainFilter.EmployeeID = &employeeID
	}
	if filter.Status != "" {
		status := payroll.PayslipStatus(filter.Status)
		if !status.IsValid() {
			return domainFilter, shared.NewDomainError("INVALID_FILTER", "Invalid payslip status")
		}
		domainFilter.Status = &status
	}
	if filter.PeriodYear != 0 {
		year := filter.PeriodYear
		domainFilter.PeriodYear = &year
	}
	if filter.PeriodMonth != 0 {
		if filter.PeriodMonth < 1 || filter.PeriodMonth > 12 {
			return domainFilter, shared.NewDomainError("INVALID_FILTER", "Invalid period month")
		}
		month := time.Month(filter.PeriodMonth)
		domainFilter.PeriodMonth = &month
	}

	return domainFilter, nil
}

// buildPayslipDocument maps a payslip to the PDF template data
func buildPayslipDocument(tenant *identity.Tenant, payslip *payroll.Payslip) *pdf.PayslipDocument {
	payDate := time.Now()
	if payslip.PaidAt != nil {
		payDate = *payslip.PaidAt
	}

	earnings := []pdf.PayslipItem{
		{Description: "Basic salary", Amount: payslip.BasicSalary},
	}
	if !payslip.Allowances.IsZero() {
		earnings = append(earnings, pdf.PayslipItem{Description: "Allowances", Amount: payslip.Allowances})
	}

	return &pdf.PayslipDocument{
		CompanyName:         tenant.Name,
		PAYEReferenceNumber: tenant.TaxProfile.PAYEReference,
		Number:              payslip.PayslipNumber,
		Period:              fmt.Sprintf("%s %d", payslip.PeriodMonth, payslip.PeriodYear),
		PayDate:             payDate,
		EmployeeName:        payslip.EmployeeName,
		EmployeeNumber:      payslip.EmployeeNumber,
		Earnings:            earnings,
		GrossPay:            payslip.GrossPay,
		PAYE:                payslip.PAYE,
		UIF:                 payslip.UIFEmployee,
		TotalDeductions:     payslip.PAYE.Add(payslip.UIFEmployee),
		NetPay:              payslip.NetPay,
	}
}

// toPayslipResponse maps a payslip aggregate to the response DTO
func toPayslipResponse(payslip *payroll.Payslip) *PayslipResponse {
	return &PayslipResponse{
		ID:             payslip.ID,
		PayslipNumber:  payslip.PayslipNumber,
		EmployeeID:     payslip.EmployeeID,
		EmployeeName:   payslip.EmployeeName,
		EmployeeNumber: payslip.EmployeeNumber,
		PeriodYear:     payslip.PeriodYear,
		PeriodMonth:    int(payslip.PeriodMonth),
		BasicSalary:    payslip.BasicSalary,
		Allowances:     payslip.Allowances,
		GrossPay:       payslip.GrossPay,
		PAYE:           payslip.PAYE,
		UIFEmployee:    payslip.UIFEmployee,
		UIFEmployer:    payslip.UIFEmployer,
		SDL:            payslip.SDL,
		NetPay:         payslip.NetPay,
		EmployerCost:   payslip.EmployerCost(),
		Status:         payslip.Status.String(),
		FinalisedAt:    payslip.FinalisedAt,
		PaidAt:         payslip.PaidAt,
		VoidReason:     payslip.VoidReason,
		CreatedAt:      payslip.CreatedAt,
		Version:        payslip.Version,
	}
}
