package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/square15/backend/internal/application/finance"
)

// RevenueHandler handles alternative revenue HTTP requests
type RevenueHandler struct {
	BaseHandler
	revenueService *finance.RevenueService
}

// NewRevenueHandler creates a new revenue handler
func NewRevenueHandler(revenueService *finance.RevenueService) *RevenueHandler {
	return &RevenueHandler{
		revenueService: revenueService,
	}
}

// Create godoc
// @Summary      Create revenue entry
// @Description  Record a new draft revenue entry
// @Tags         revenue
// @Accept       json
// @Produce      json
// @Param        request body finance.CreateRevenueRequest true "Revenue details"
// @Success      201 {object} dto.Response{data=finance.RevenueResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /revenue [post]
func (h *RevenueHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req finance.CreateRevenueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.revenueService.CreateRevenue(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Get godoc
// @Summary      Get revenue entry
// @Description  Get a revenue entry by ID
// @Tags         revenue
// @Produce      json
// @Param        id path string true "Revenue ID"
// @Success      200 {object} dto.Response{data=finance.RevenueResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /revenue/{id} [get]
func (h *RevenueHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	revenueID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid revenue ID")
		return
	}

	result, err := h.revenueService.GetRevenue(c.Request.Context(), tenantID, revenueID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// List godoc
// @Summary      List revenue entries
// @Description  List revenue entries with filtering and pagination
// @Tags         revenue
// @Produce      json
// @Param        category query string false "Filter by category"
// @Param        status query string false "Filter by status"
// @Param        receipt_status query string false "Filter by receipt status"
// @Param        from_date query string false "Earned on or after (YYYY-MM-DD)"
// @Param        to_date query string false "Earned on or before (YYYY-MM-DD)"
// @Param        search query string false "Search by description or source"
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response{data=[]finance.RevenueResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /revenue [get]
func (h *RevenueHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var filter finance.RevenueListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	result, total, err := h.revenueService.ListRevenue(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result, total, filter.Page, filter.PageSize)
}

// Update godoc
// @Summary      Update revenue entry
// @Description  Update a draft revenue entry
// @Tags         revenue
// @Accept       json
// @Produce      json
// @Param        id path string true "Revenue ID"
// @Param        request body finance.UpdateRevenueRequest true "Fields to update"
// @Success      200 {object} dto.Response{data=finance.RevenueResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /revenue/{id} [put]
func (h *RevenueHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	revenueID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid revenue ID")
		return
	}

	var req finance.UpdateRevenueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.revenueService.UpdateRevenue(c.Request.Context(), tenantID, revenueID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Confirm godoc
// @Summary      Confirm revenue entry
// @Description  Confirm a draft revenue entry
// @Tags         revenue
// @Accept       json
// @Produce      json
// @Param        id path string true "Revenue ID"
// @Param        request body finance.ConfirmRevenueRequest false "Confirmer details"
// @Success      200 {object} dto.Response{data=finance.RevenueResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /revenue/{id}/confirm [post]
func (h *RevenueHandler) Confirm(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	revenueID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid revenue ID")
		return
	}

	var req finance.ConfirmRevenueRequest
	_ = c.ShouldBindJSON(&req) // body is optional

	result, err := h.revenueService.ConfirmRevenue(c.Request.Context(), tenantID, revenueID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Cancel godoc
// @Summary      Cancel revenue entry
// @Description  Cancel an unreceived revenue entry with a reason
// @Tags         revenue
// @Accept       json
// @Produce      json
// @Param        id path string true "Revenue ID"
// @Param        request body finance.CancelRevenueRequest true "Cancellation reason"
// @Success      200 {object} dto.Response{data=finance.RevenueResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /revenue/{id}/cancel [post]
func (h *RevenueHandler) Cancel(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	revenueID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid revenue ID")
		return
	}

	var req finance.CancelRevenueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.revenueService.CancelRevenue(c.Request.Context(), tenantID, revenueID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// MarkReceived godoc
// @Summary      Mark revenue received
// @Description  Record receipt of a confirmed revenue entry
// @Tags         revenue
// @Accept       json
// @Produce      json
// @Param        id path string true "Revenue ID"
// @Param        request body finance.MarkRevenueReceivedRequest true "Payment method"
// @Success      200 {object} dto.Response{data=finance.RevenueResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /revenue/{id}/receive [post]
func (h *RevenueHandler) MarkReceived(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	revenueID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid revenue ID")
		return
	}

	var req finance.MarkRevenueReceivedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.revenueService.MarkRevenueReceived(c.Request.Context(), tenantID, revenueID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Delete godoc
// @Summary      Delete revenue entry
// @Description  Delete a draft revenue entry
// @Tags         revenue
// @Produce      json
// @Param        id path string true "Revenue ID"
// @Success      204
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /revenue/{id} [delete]
func (h *RevenueHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	revenueID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid revenue ID")
		return
	}

	if err := h.revenueService.DeleteRevenue(c.Request.Context(), tenantID, revenueID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// SummariseByCategory godoc
// @Summary      Summarise revenue by category
// @Description  Roll up received revenue per category for the period
// @Tags         revenue
// @Produce      json
// @Param        from query string true "Period start (YYYY-MM-DD)"
// @Param        to query string true "Period end (YYYY-MM-DD)"
// @Success      200 {object} dto.Response{data=[]finance.CategorySummary}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /revenue/summary [get]
func (h *RevenueHandler) SummariseByCategory(c *gin.Context) {
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

	result, err := h.revenueService.SummariseRevenueByCategory(c.Request.Context(), tenantID, from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
