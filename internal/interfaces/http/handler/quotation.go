package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/square15/backend/internal/application/billing"
)

// QuotationHandler handles quotation HTTP requests
type QuotationHandler struct {
	BaseHandler
	quotationService *billing.QuotationService
}

// NewQuotationHandler creates a new quotation handler
func NewQuotationHandler(quotationService *billing.QuotationService) *QuotationHandler {
	return &QuotationHandler{
		quotationService: quotationService,
	}
}

// Create godoc
// @Summary      Create quotation
// @Description  Create a draft quotation with optional initial lines
// @Tags         quotations
// @Accept       json
// @Produce      json
// @Param        request body billing.CreateQuotationRequest true "Quotation details"
// @Success      201 {object} dto.Response{data=billing.QuotationResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /quotations [post]
func (h *QuotationHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req billing.CreateQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.quotationService.CreateQuotation(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Get godoc
// @Summary      Get quotation
// @Description  Get a quotation by ID
// @Tags         quotations
// @Produce      json
// @Param        id path string true "Quotation ID"
// @Success      200 {object} dto.Response{data=billing.QuotationResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /quotations/{id} [get]
func (h *QuotationHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	quotationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid quotation ID")
		return
	}

	result, err := h.quotationService.GetQuotation(c.Request.Context(), tenantID, quotationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// List godoc
// @Summary      List quotations
// @Description  List quotations with filtering and pagination
// @Tags         quotations
// @Produce      json
// @Param        customer_id query string false "Filter by customer"
// @Param        status query string false "Filter by status"
// @Param        search query string false "Search by number or customer name"
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response{data=[]billing.QuotationResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /quotations [get]
func (h *QuotationHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var filter billing.QuotationListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	result, total, err := h.quotationService.ListQuotations(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result, total, filter.Page, filter.PageSize)
}

// AddLine godoc
// @Summary      Add quotation line
// @Description  Add a line item to a draft quotation
// @Tags         quotations
// @Accept       json
// @Produce      json
// @Param        id path string true "Quotation ID"
// @Param        request body billing.LineItemRequest true "Line item"
// @Success      200 {object} dto.Response{data=billing.QuotationResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /quotations/{id}/lines [post]
func (h *QuotationHandler) AddLine(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	quotationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid quotation ID")
		return
	}

	var req billing.LineItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.quotationService.AddQuotationLine(c.Request.Context(), tenantID, quotationID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Send godoc
// @Summary      Send quotation
// @Description  Send a draft quotation to the customer with a validity date
// @Tags         quotations
// @Accept       json
// @Produce      json
// @Param        id path string true "Quotation ID"
// @Param        request body billing.SendQuotationRequest true "Validity date"
// @Success      200 {object} dto.Response{data=billing.QuotationResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /quotations/{id}/send [post]
func (h *QuotationHandler) Send(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	quotationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid quotation ID")
		return
	}

	var req billing.SendQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.quotationService.SendQuotation(c.Request.Context(), tenantID, quotationID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Accept godoc
// @Summary      Accept quotation
// @Description  Mark a sent quotation as accepted by the customer
// @Tags         quotations
// @Produce      json
// @Param        id path string true "Quotation ID"
// @Success      200 {object} dto.Response{data=billing.QuotationResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /quotations/{id}/accept [post]
func (h *QuotationHandler) Accept(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	quotationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid quotation ID")
		return
	}

	result, err := h.quotationService.AcceptQuotation(c.Request.Context(), tenantID, quotationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Reject godoc
// @Summary      Reject quotation
// @Description  Mark a sent quotation as rejected by the customer
// @Tags         quotations
// @Accept       json
// @Produce      json
// @Param        id path string true "Quotation ID"
// @Param        request body billing.RejectQuotationRequest false "Rejection reason"
// @Success      200 {object} dto.Response{data=billing.QuotationResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /quotations/{id}/reject [post]
func (h *QuotationHandler) Reject(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	quotationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid quotation ID")
		return
	}

	var req billing.RejectQuotationRequest
	_ = c.ShouldBindJSON(&req) // body is optional

	result, err := h.quotationService.RejectQuotation(c.Request.Context(), tenantID, quotationID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Convert godoc
// @Summary      Convert quotation to invoice
// @Description  Create a draft invoice from an accepted quotation
// @Tags         quotations
// @Produce      json
// @Param        id path string true "Quotation ID"
// @Success      201 {object} dto.Response{data=billing.InvoiceResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /quotations/{id}/convert [post]
func (h *QuotationHandler) Convert(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	quotationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid quotation ID")
		return
	}

	result, err := h.quotationService.ConvertQuotation(c.Request.Context(), tenantID, quotationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Delete godoc
// @Summary      Delete quotation
// @Description  Delete a draft quotation
// @Tags         quotations
// @Produce      json
// @Param        id path string true "Quotation ID"
// @Success      204
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /quotations/{id} [delete]
func (h *QuotationHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	quotationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid quotation ID")
		return
	}

	if err := h.quotationService.DeleteQuotation(c.Request.Context(), tenantID, quotationID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// RunExpirySweep godoc
// @Summary      Run expiry sweep
// @Description  Mark sent quotations past their validity date as expired
// @Tags         quotations
// @Produce      json
// @Param        as_of query string false "Sweep date (YYYY-MM-DD), defaults to today"
// @Success      200 {object} dto.Response{data=CountData}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /quotations/sweeps/expiry [post]
func (h *QuotationHandler) RunExpirySweep(c *gin.Context) {
	asOf := time.Now()
	if raw := c.Query("as_of"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			h.BadRequest(c, "Invalid as_of date, expected YYYY-MM-DD")
			return
		}
		asOf = parsed
	}

	count, err := h.quotationService.RunExpirySweep(c.Request.Context(), asOf)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, CountData{Count: int64(count)})
}
