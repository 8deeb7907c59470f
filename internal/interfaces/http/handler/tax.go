package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/square15/backend/internal/application/tax"
)

// TaxHandler handles SARS compliance report HTTP requests
type TaxHandler struct {
	BaseHandler
	complianceService *tax.ComplianceService
}

// NewTaxHandler creates a new tax handler
func NewTaxHandler(complianceService *tax.ComplianceService) *TaxHandler {
	return &TaxHandler{
		complianceService: complianceService,
	}
}

// VAT201 godoc
// @Summary      Build VAT201 return
// @Description  Compute output and input VAT for the period
// @Tags         tax
// @Produce      json
// @Param        from query string true "Period start (YYYY-MM-DD)"
// @Param        to query string true "Period end (YYYY-MM-DD)"
// @Success      200 {object} dto.Response{data=tax.VAT201Return}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /tax/vat201 [get]
func (h *TaxHandler) VAT201(c *gin.Context) {
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

	result, err := h.complianceService.BuildVAT201(c.Request.Context(), tenantID, from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// EMP201 godoc
// @Summary      Build EMP201 declaration
// @Description  Compute PAYE, UIF and SDL payable for the month
// @Tags         tax
// @Produce      json
// @Param        year query int true "Calendar year"
// @Param        month query int true "Month (1-12)"
// @Success      200 {object} dto.Response{data=tax.EMP201Return}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /tax/emp201 [get]
func (h *TaxHandler) EMP201(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	year, err := strconv.Atoi(c.Query("year"))
	if err != nil || year < 2000 || year > 2200 {
		h.BadRequest(c, "Invalid year")
		return
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil || month < 1 || month > 12 {
		h.BadRequest(c, "Invalid month, expected 1-12")
		return
	}

	result, err := h.complianceService.BuildEMP201(c.Request.Context(), tenantID, year, time.Month(month))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// IRP6 godoc
// @Summary      Build IRP6 estimate
// @Description  Estimate provisional tax for the period
// @Tags         tax
// @Produce      json
// @Param        from query string true "Period start (YYYY-MM-DD)"
// @Param        to query string true "Period end (YYYY-MM-DD)"
// @Param        provisional_paid query string false "Provisional tax already paid"
// @Success      200 {object} dto.Response{data=tax.IRP6Estimate}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /tax/irp6 [get]
func (h *TaxHandler) IRP6(c *gin.Context) {
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

	provisionalPaid := decimal.Zero
	if raw := c.Query("provisional_paid"); raw != "" {
		parsed, err := decimal.NewFromString(raw)
		if err != nil {
			h.BadRequest(c, "Invalid provisional_paid amount")
			return
		}
		provisionalPaid = parsed
	}

	result, err := h.complianceService.BuildIRP6(c.Request.Context(), tenantID, from, to, provisionalPaid)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// IT14 godoc
// @Summary      Build IT14 summary
// @Description  Summarise annual income tax for the year of assessment
// @Tags         tax
// @Produce      json
// @Param        year_start query string true "Year of assessment start (YYYY-MM-DD)"
// @Param        year_end query string true "Year of assessment end (YYYY-MM-DD)"
// @Success      200 {object} dto.Response{data=tax.IT14Summary}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /tax/it14 [get]
func (h *TaxHandler) IT14(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	yearStart, err := time.Parse("2006-01-02", c.Query("year_start"))
	if err != nil {
		h.BadRequest(c, "Invalid year_start date, expected YYYY-MM-DD")
		return
	}
	yearEnd, err := time.Parse("2006-01-02", c.Query("year_end"))
	if err != nil {
		h.BadRequest(c, "Invalid year_end date, expected YYYY-MM-DD")
		return
	}

	result, err := h.complianceService.BuildIT14(c.Request.Context(), tenantID, yearStart, yearEnd)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
