package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/square15/backend/internal/application/payroll"
)

// PayslipHandler handles payslip HTTP requests
type PayslipHandler struct {
	BaseHandler
	payslipService *payroll.PayslipService
}

// NewPayslipHandler creates a new payslip handler
func NewPayslipHandler(payslipService *payroll.PayslipService) *PayslipHandler {
	return &PayslipHandler{
		payslipService: payslipService,
	}
}

// Create godoc
// @Summary      Create payslip
// @Description  Create a draft payslip with statutory deductions computed from gross
// @Tags         payslips
// @Accept       json
// @Produce      json
// @Param        request body payroll.CreatePayslipRequest true "Payslip details"
// @Success      201 {object} dto.Response{data=payroll.PayslipResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /payslips [post]
func (h *PayslipHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req payroll.CreatePayslipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.payslipService.CreatePayslip(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Get godoc
// @Summary      Get payslip
// @Description  Get a payslip by ID
// @Tags         payslips
// @Produce      json
// @Param        id path string true "Payslip ID"
// @Success      200 {object} dto.Response{data=payroll.PayslipResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /payslips/{id} [get]
func (h *PayslipHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	payslipID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payslip ID")
		return
	}

	result, err := h.payslipService.GetPayslip(c.Request.Context(), tenantID, payslipID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// List godoc
// @Summary      List payslips
// @Description  List payslips with filtering and pagination
// @Tags         payslips
// @Produce      json
// @Param        employee_id query string false "Filter by employee"
// @Param        status query string false "Filter by status"
// @Param        period_year query int false "Filter by pay period year"
// @Param        period_month query int false "Filter by pay period month"
// @Param        search query string false "Search by employee name"
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response{data=[]payroll.PayslipResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /payslips [get]
func (h *PayslipHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var filter payroll.PayslipListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	result, total, err := h.payslipService.ListPayslips(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result, total, filter.Page, filter.PageSize)
}

// UpdateEarnings godoc
// @Summary      Update payslip earnings
// @Description  Update a draft payslip's earnings, recomputing deductions
// @Tags         payslips
// @Accept       json
// @Produce      json
// @Param        id path string true "Payslip ID"
// @Param        request body payroll.UpdateEarningsRequest true "New earnings"
// @Success      200 {object} dto.Response{data=payroll.PayslipResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /payslips/{id}/earnings [put]
func (h *PayslipHandler) UpdateEarnings(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	payslipID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payslip ID")
		return
	}

	var req payroll.UpdateEarningsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.payslipService.UpdateEarnings(c.Request.Context(), tenantID, payslipID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Finalise godoc
// @Summary      Finalise payslip
// @Description  Lock a draft payslip for payment
// @Tags         payslips
// @Produce      json
// @Param        id path string true "Payslip ID"
// @Success      200 {object} dto.Response{data=payroll.PayslipResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /payslips/{id}/finalise [post]
func (h *PayslipHandler) Finalise(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	payslipID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payslip ID")
		return
	}

	result, err := h.payslipService.FinalisePayslip(c.Request.Context(), tenantID, payslipID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// MarkPaid godoc
// @Summary      Mark payslip paid
// @Description  Record payment of a finalised payslip
// @Tags         payslips
// @Produce      json
// @Param        id path string true "Payslip ID"
// @Success      200 {object} dto.Response{data=payroll.PayslipResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /payslips/{id}/pay [post]
func (h *PayslipHandler) MarkPaid(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	payslipID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payslip ID")
		return
	}

	result, err := h.payslipService.MarkPayslipPaid(c.Request.Context(), tenantID, payslipID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Void godoc
// @Summary      Void payslip
// @Description  Void a payslip with a reason
// @Tags         payslips
// @Accept       json
// @Produce      json
// @Param        id path string true "Payslip ID"
// @Param        request body payroll.VoidPayslipRequest true "Void reason"
// @Success      200 {object} dto.Response{data=payroll.PayslipResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /payslips/{id}/void [post]
func (h *PayslipHandler) Void(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	payslipID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payslip ID")
		return
	}

	var req payroll.VoidPayslipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.payslipService.VoidPayslip(c.Request.Context(), tenantID, payslipID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Delete godoc
// @Summary      Delete payslip
// @Description  Delete a draft payslip
// @Tags         payslips
// @Produce      json
// @Param        id path string true "Payslip ID"
// @Success      204
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /payslips/{id} [delete]
func (h *PayslipHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	payslipID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payslip ID")
		return
	}

	if err := h.payslipService.DeletePayslip(c.Request.Context(), tenantID, payslipID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// DownloadPDF godoc
// @Summary      Download payslip PDF
// @Description  Render the payslip as a PDF document
// @Tags         payslips
// @Produce      application/pdf
// @Param        id path string true "Payslip ID"
// @Success      200 {file} binary
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      424 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /payslips/{id}/pdf [get]
func (h *PayslipHandler) DownloadPDF(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	payslipID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payslip ID")
		return
	}

	content, filename, err := h.payslipService.RenderPayslipPDF(c.Request.Context(), tenantID, payslipID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(200, "application/pdf", content)
}
