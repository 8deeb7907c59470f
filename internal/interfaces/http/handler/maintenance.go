package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/square15/backend/internal/application/property"
)

// MaintenanceHandler handles maintenance request HTTP requests
type MaintenanceHandler struct {
	BaseHandler
	maintenanceService *property.MaintenanceService
}

// NewMaintenanceHandler creates a new maintenance handler
func NewMaintenanceHandler(maintenanceService *property.MaintenanceService) *MaintenanceHandler {
	return &MaintenanceHandler{
		maintenanceService: maintenanceService,
	}
}

// Submit godoc
// @Summary      Submit maintenance request
// @Description  Log a new maintenance request for a unit
// @Tags         maintenance
// @Accept       json
// @Produce      json
// @Param        request body property.SubmitMaintenanceRequest true "Request details"
// @Success      201 {object} dto.Response{data=property.MaintenanceRequestResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /maintenance [post]
func (h *MaintenanceHandler) Submit(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req property.SubmitMaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.maintenanceService.SubmitRequest(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Get godoc
// @Summary      Get maintenance request
// @Description  Get a maintenance request by ID
// @Tags         maintenance
// @Produce      json
// @Param        id path string true "Request ID"
// @Success      200 {object} dto.Response{data=property.MaintenanceRequestResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /maintenance/{id} [get]
func (h *MaintenanceHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid request ID")
		return
	}

	result, err := h.maintenanceService.GetRequest(c.Request.Context(), tenantID, requestID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// List godoc
// @Summary      List maintenance requests
// @Description  List maintenance requests with filtering and pagination
// @Tags         maintenance
// @Produce      json
// @Param        customer_id query string false "Filter by customer"
// @Param        status query string false "Filter by status"
// @Param        priority query string false "Filter by priority"
// @Param        unit_code query string false "Filter by unit code"
// @Param        from_date query string false "Submitted on or after (YYYY-MM-DD)"
// @Param        to_date query string false "Submitted on or before (YYYY-MM-DD)"
// @Param        search query string false "Search by number or summary"
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response{data=[]property.MaintenanceRequestResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /maintenance [get]
func (h *MaintenanceHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var filter property.MaintenanceListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	result, total, err := h.maintenanceService.ListRequests(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result, total, filter.Page, filter.PageSize)
}

// Queue godoc
// @Summary      Get triage queue
// @Description  List open maintenance requests ordered for triage
// @Tags         maintenance
// @Produce      json
// @Success      200 {object} dto.Response{data=[]property.MaintenanceRequestResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /maintenance/queue [get]
func (h *MaintenanceHandler) Queue(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	result, err := h.maintenanceService.ListQueue(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Triage godoc
// @Summary      Triage maintenance request
// @Description  Set the priority of a submitted maintenance request
// @Tags         maintenance
// @Accept       json
// @Produce      json
// @Param        id path string true "Request ID"
// @Param        request body property.TriageMaintenanceRequest true "Triage details"
// @Success      200 {object} dto.Response{data=property.MaintenanceRequestResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /maintenance/{id}/triage [post]
func (h *MaintenanceHandler) Triage(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid request ID")
		return
	}

	var req property.TriageMaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.maintenanceService.TriageRequest(c.Request.Context(), tenantID, requestID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Schedule godoc
// @Summary      Schedule maintenance request
// @Description  Assign a contractor and date to a triaged request
// @Tags         maintenance
// @Accept       json
// @Produce      json
// @Param        id path string true "Request ID"
// @Param        request body property.ScheduleMaintenanceRequest true "Schedule details"
// @Success      200 {object} dto.Response{data=property.MaintenanceRequestResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /maintenance/{id}/schedule [post]
func (h *MaintenanceHandler) Schedule(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid request ID")
		return
	}

	var req property.ScheduleMaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.maintenanceService.ScheduleRequest(c.Request.Context(), tenantID, requestID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Start godoc
// @Summary      Start maintenance work
// @Description  Mark a scheduled request as in progress
// @Tags         maintenance
// @Produce      json
// @Param        id path string true "Request ID"
// @Success      200 {object} dto.Response{data=property.MaintenanceRequestResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /maintenance/{id}/start [post]
func (h *MaintenanceHandler) Start(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid request ID")
		return
	}

	result, err := h.maintenanceService.StartRequest(c.Request.Context(), tenantID, requestID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Complete godoc
// @Summary      Complete maintenance request
// @Description  Close out an in-progress request with the final cost
// @Tags         maintenance
// @Accept       json
// @Produce      json
// @Param        id path string true "Request ID"
// @Param        request body property.CompleteMaintenanceRequest true "Completion details"
// @Success      200 {object} dto.Response{data=property.MaintenanceRequestResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /maintenance/{id}/complete [post]
func (h *MaintenanceHandler) Complete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid request ID")
		return
	}

	var req property.CompleteMaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.maintenanceService.CompleteRequest(c.Request.Context(), tenantID, requestID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Cancel godoc
// @Summary      Cancel maintenance request
// @Description  Cancel an open maintenance request with a reason
// @Tags         maintenance
// @Accept       json
// @Produce      json
// @Param        id path string true "Request ID"
// @Param        request body property.CancelMaintenanceRequest true "Cancellation reason"
// @Success      200 {object} dto.Response{data=property.MaintenanceRequestResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /maintenance/{id}/cancel [post]
func (h *MaintenanceHandler) Cancel(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid request ID")
		return
	}

	var req property.CancelMaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.maintenanceService.CancelRequest(c.Request.Context(), tenantID, requestID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Delete godoc
// @Summary      Delete maintenance request
// @Description  Delete a cancelled maintenance request
// @Tags         maintenance
// @Produce      json
// @Param        id path string true "Request ID"
// @Success      204
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /maintenance/{id} [delete]
func (h *MaintenanceHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid request ID")
		return
	}

	if err := h.maintenanceService.DeleteRequest(c.Request.Context(), tenantID, requestID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
