package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/square15/backend/internal/application/asset"
)

// LiabilityHandler handles liability HTTP requests
type LiabilityHandler struct {
	BaseHandler
	liabilityService *asset.LiabilityService
}

// NewLiabilityHandler creates a new liability handler
func NewLiabilityHandler(liabilityService *asset.LiabilityService) *LiabilityHandler {
	return &LiabilityHandler{
		liabilityService: liabilityService,
	}
}

// Record godoc
// @Summary      Record liability
// @Description  Record a new liability on the register
// @Tags         liabilities
// @Accept       json
// @Produce      json
// @Param        request body asset.RecordLiabilityRequest true "Liability details"
// @Success      201 {object} dto.Response{data=asset.LiabilityResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /liabilities [post]
func (h *LiabilityHandler) Record(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req asset.RecordLiabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.liabilityService.RecordLiability(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Get godoc
// @Summary      Get liability
// @Description  Get a liability by ID
// @Tags         liabilities
// @Produce      json
// @Param        id path string true "Liability ID"
// @Success      200 {object} dto.Response{data=asset.LiabilityResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /liabilities/{id} [get]
func (h *LiabilityHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	liabilityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid liability ID")
		return
	}

	result, err := h.liabilityService.GetLiability(c.Request.Context(), tenantID, liabilityID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// List godoc
// @Summary      List liabilities
// @Description  List liabilities with filtering and pagination
// @Tags         liabilities
// @Produce      json
// @Param        type query string false "Filter by type"
// @Param        status query string false "Filter by status"
// @Param        from_date query string false "Incurred on or after (YYYY-MM-DD)"
// @Param        to_date query string false "Incurred on or before (YYYY-MM-DD)"
// @Param        search query string false "Search by description or creditor"
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response{data=[]asset.LiabilityResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /liabilities [get]
func (h *LiabilityHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var filter asset.LiabilityListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	result, total, err := h.liabilityService.ListLiabilities(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result, total, filter.Page, filter.PageSize)
}

// SetTerms godoc
// @Summary      Set liability terms
// @Description  Set the interest rate and repayment terms of a liability
// @Tags         liabilities
// @Accept       json
// @Produce      json
// @Param        id path string true "Liability ID"
// @Param        request body asset.SetLiabilityTermsRequest true "Terms"
// @Success      200 {object} dto.Response{data=asset.LiabilityResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /liabilities/{id}/terms [put]
func (h *LiabilityHandler) SetTerms(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	liabilityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid liability ID")
		return
	}

	var req asset.SetLiabilityTermsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.liabilityService.SetTerms(c.Request.Context(), tenantID, liabilityID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// RecordRepayment godoc
// @Summary      Record repayment
// @Description  Record a repayment against a liability
// @Tags         liabilities
// @Accept       json
// @Produce      json
// @Param        id path string true "Liability ID"
// @Param        request body asset.RecordRepaymentRequest true "Repayment details"
// @Success      200 {object} dto.Response{data=asset.LiabilityResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /liabilities/{id}/repayments [post]
func (h *LiabilityHandler) RecordRepayment(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	liabilityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid liability ID")
		return
	}

	var req asset.RecordRepaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.liabilityService.RecordRepayment(c.Request.Context(), tenantID, liabilityID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// AccrueInterest godoc
// @Summary      Accrue interest
// @Description  Add accrued interest to a liability's balance
// @Tags         liabilities
// @Accept       json
// @Produce      json
// @Param        id path string true "Liability ID"
// @Param        request body asset.AccrueInterestRequest true "Interest amount"
// @Success      200 {object} dto.Response{data=asset.LiabilityResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /liabilities/{id}/interest [post]
func (h *LiabilityHandler) AccrueInterest(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	liabilityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid liability ID")
		return
	}

	var req asset.AccrueInterestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.liabilityService.AccrueInterest(c.Request.Context(), tenantID, liabilityID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Delete godoc
// @Summary      Delete liability
// @Description  Remove a liability that was recorded in error
// @Tags         liabilities
// @Produce      json
// @Param        id path string true "Liability ID"
// @Success      204
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /liabilities/{id} [delete]
func (h *LiabilityHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	liabilityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid liability ID")
		return
	}

	if err := h.liabilityService.DeleteLiability(c.Request.Context(), tenantID, liabilityID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
