package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/square15/backend/internal/application/crm"
)

// CampaignHandler handles marketing campaign HTTP requests
type CampaignHandler struct {
	BaseHandler
	campaignService *crm.CampaignService
}

// NewCampaignHandler creates a new campaign handler
func NewCampaignHandler(campaignService *crm.CampaignService) *CampaignHandler {
	return &CampaignHandler{
		campaignService: campaignService,
	}
}

// Create godoc
// @Summary      Create campaign
// @Description  Create a draft marketing campaign
// @Tags         campaigns
// @Accept       json
// @Produce      json
// @Param        request body crm.CreateCampaignRequest true "Campaign details"
// @Success      201 {object} dto.Response{data=crm.CampaignResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /campaigns [post]
func (h *CampaignHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req crm.CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.campaignService.CreateCampaign(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Get godoc
// @Summary      Get campaign
// @Description  Get a campaign by ID
// @Tags         campaigns
// @Produce      json
// @Param        id path string true "Campaign ID"
// @Success      200 {object} dto.Response{data=crm.CampaignResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /campaigns/{id} [get]
func (h *CampaignHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	campaignID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid campaign ID")
		return
	}

	result, err := h.campaignService.GetCampaign(c.Request.Context(), tenantID, campaignID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// List godoc
// @Summary      List campaigns
// @Description  List campaigns with filtering and pagination
// @Tags         campaigns
// @Produce      json
// @Param        status query string false "Filter by status"
// @Param        audience query string false "Filter by audience"
// @Param        from_date query string false "Scheduled on or after (YYYY-MM-DD)"
// @Param        to_date query string false "Scheduled on or before (YYYY-MM-DD)"
// @Param        search query string false "Search by name or subject"
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response{data=[]crm.CampaignResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /campaigns [get]
func (h *CampaignHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var filter crm.CampaignListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	result, total, err := h.campaignService.ListCampaigns(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result, total, filter.Page, filter.PageSize)
}

// Update godoc
// @Summary      Update campaign
// @Description  Update a draft campaign's content
// @Tags         campaigns
// @Accept       json
// @Produce      json
// @Param        id path string true "Campaign ID"
// @Param        request body crm.UpdateCampaignRequest true "Fields to update"
// @Success      200 {object} dto.Response{data=crm.CampaignResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /campaigns/{id} [put]
func (h *CampaignHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	campaignID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid campaign ID")
		return
	}

	var req crm.UpdateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.campaignService.UpdateCampaign(c.Request.Context(), tenantID, campaignID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Schedule godoc
// @Summary      Schedule campaign
// @Description  Schedule a draft campaign for dispatch
// @Tags         campaigns
// @Accept       json
// @Produce      json
// @Param        id path string true "Campaign ID"
// @Param        request body crm.ScheduleCampaignRequest true "Dispatch time"
// @Success      200 {object} dto.Response{data=crm.CampaignResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /campaigns/{id}/schedule [post]
func (h *CampaignHandler) Schedule(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	campaignID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid campaign ID")
		return
	}

	var req crm.ScheduleCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.campaignService.ScheduleCampaign(c.Request.Context(), tenantID, campaignID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Cancel godoc
// @Summary      Cancel campaign
// @Description  Cancel a scheduled campaign with a reason
// @Tags         campaigns
// @Accept       json
// @Produce      json
// @Param        id path string true "Campaign ID"
// @Param        request body crm.CancelCampaignRequest false "Cancellation reason"
// @Success      200 {object} dto.Response{data=crm.CampaignResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /campaigns/{id}/cancel [post]
func (h *CampaignHandler) Cancel(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	campaignID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid campaign ID")
		return
	}

	var req crm.CancelCampaignRequest
	_ = c.ShouldBindJSON(&req) // body is optional

	result, err := h.campaignService.CancelCampaign(c.Request.Context(), tenantID, campaignID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Delete godoc
// @Summary      Delete campaign
// @Description  Delete a draft or cancelled campaign
// @Tags         campaigns
// @Produce      json
// @Param        id path string true "Campaign ID"
// @Success      204
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /campaigns/{id} [delete]
func (h *CampaignHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	campaignID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid campaign ID")
		return
	}

	if err := h.campaignService.DeleteCampaign(c.Request.Context(), tenantID, campaignID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// DispatchDue godoc
// @Summary      Dispatch due campaigns
// @Description  Send every scheduled campaign whose dispatch time has passed
// @Tags         campaigns
// @Produce      json
// @Success      200 {object} dto.Response{data=CountData}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /campaigns/dispatch [post]
func (h *CampaignHandler) DispatchDue(c *gin.Context) {
	count, err := h.campaignService.DispatchDueCampaigns(c.Request.Context(), time.Now())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, CountData{Count: int64(count)})
}
