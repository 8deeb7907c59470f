package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/square15/backend/internal/application/finance"
)

// FinanceReportHandler handles financial report HTTP requests
type FinanceReportHandler struct {
	BaseHandler
	reportService *finance.ReportService
}

// NewFinanceReportHandler creates a new finance report handler
func NewFinanceReportHandler(reportService *finance.ReportService) *FinanceReportHandler {
	return &FinanceReportHandler{
		reportService: reportService,
	}
}

// ProfitAndLoss godoc
// @Summary      Profit and loss statement
// @Description  Build the income statement for the period
// @Tags         reports
// @Produce      json
// @Param        from query string true "Period start (YYYY-MM-DD)"
// @Param        to query string true "Period end (YYYY-MM-DD)"
// @Success      200 {object} dto.Response{data=finance.ProfitAndLossReport}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /reports/profit-and-loss [get]
func (h *FinanceReportHandler) ProfitAndLoss(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	from, err := time.Parse("2006-01-02", c.Query("from"))
	if err != nil {
		h.BadRequest(c, "Invalid from date, expected YYYY-MM-DD")
		return
	}
	to, err := time.Parse("2006-01-02", c.Query("to"))
	if err != nil {
		h.BadRequest(c, "Invalid to date, expected YYYY-MM-DD")
		return
	}

	result, err := h.reportService.ProfitAndLoss(c.Request.Context(), tenantID, from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// BalanceSheet godoc
// @Summary      Balance sheet
// @Description  Build the statement of financial position as of a date
// @Tags         reports
// @Produce      json
// @Param        as_of query string false "Reporting date (YYYY-MM-DD), defaults to today"
// @Success      200 {object} dto.Response{data=finance.BalanceSheetReport}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /reports/balance-sheet [get]
func (h *FinanceReportHandler) BalanceSheet(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	asOf := time.Now()
	if raw := c.Query("as_of"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			h.BadRequest(c, "Invalid as_of date, expected YYYY-MM-DD")
			return
		}
		asOf = parsed
	}

	result, err := h.reportService.BalanceSheet(c.Request.Context(), tenantID, asOf)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// CashFlow godoc
// @Summary      Cash flow statement
// @Description  Build the cash movement summary for the period
// @Tags         reports
// @Produce      json
// @Param        from query string true "Period start (YYYY-MM-DD)"
// @Param        to query string true "Period end (YYYY-MM-DD)"
// @Success      200 {object} dto.Response{data=finance.CashFlowReport}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /reports/cash-flow [get]
func (h *FinanceReportHandler) CashFlow(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	from, err := time.Parse("2006-01-02", c.Query("from"))
	if err != nil {
		h.BadRequest(c, "Invalid from date, expected YYYY-MM-DD")
		return
	}
	to, err := time.Parse("2006-01-02", c.Query("to"))
	if err != nil {
		h.BadRequest(c, "Invalid to date, expected YYYY-MM-DD")
		return
	}

	result, err := h.reportService.CashFlow(c.Request.Context(), tenantID, from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
