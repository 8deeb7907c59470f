package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/square15/backend/internal/application/property"
)

// RegistrationHandler handles property registration HTTP requests
type RegistrationHandler struct {
	BaseHandler
	registrationService *property.RegistrationService
	billingRunService   *property.BillingRunService
}

// NewRegistrationHandler creates a new registration handler
func NewRegistrationHandler(
	registrationService *property.RegistrationService,
	billingRunService *property.BillingRunService,
) *RegistrationHandler {
	return &RegistrationHandler{
		registrationService: registrationService,
		billingRunService:   billingRunService,
	}
}

// Create godoc
// @Summary      Create registration
// @Description  Open a pending registration for a unit
// @Tags         registrations
// @Accept       json
// @Produce      json
// @Param        request body property.CreateRegistrationRequest true "Registration details"
// @Success      201 {object} dto.Response{data=property.RegistrationResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /registrations [post]
func (h *RegistrationHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req property.CreateRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.registrationService.CreateRegistration(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Get godoc
// @Summary      Get registration
// @Description  Get a registration by ID
// @Tags         registrations
// @Produce      json
// @Param        id path string true "Registration ID"
// @Success      200 {object} dto.Response{data=property.RegistrationResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /registrations/{id} [get]
func (h *RegistrationHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	registrationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid registration ID")
		return
	}

	result, err := h.registrationService.GetRegistration(c.Request.Context(), tenantID, registrationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// List godoc
// @Summary      List registrations
// @Description  List registrations with filtering and pagination
// @Tags         registrations
// @Produce      json
// @Param        customer_id query string false "Filter by customer"
// @Param        unit_type query string false "Filter by unit type"
// @Param        unit_code query string false "Filter by unit code"
// @Param        status query string false "Filter by status"
// @Param        search query string false "Search by number or customer name"
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response{data=[]property.RegistrationResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /registrations [get]
func (h *RegistrationHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var filter property.RegistrationListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	result, total, err := h.registrationService.ListRegistrations(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result, total, filter.Page, filter.PageSize)
}

// Approve godoc
// @Summary      Approve registration
// @Description  Approve a pending registration and activate billing
// @Tags         registrations
// @Accept       json
// @Produce      json
// @Param        id path string true "Registration ID"
// @Param        request body property.ApproveRegistrationRequest true "Approver details"
// @Success      200 {object} dto.Response{data=property.RegistrationResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /registrations/{id}/approve [post]
func (h *RegistrationHandler) Approve(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	registrationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid registration ID")
		return
	}

	var req property.ApproveRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.registrationService.ApproveRegistration(c.Request.Context(), tenantID, registrationID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Decline godoc
// @Summary      Decline registration
// @Description  Decline a pending registration with a reason
// @Tags         registrations
// @Accept       json
// @Produce      json
// @Param        id path string true "Registration ID"
// @Param        request body property.DeclineRegistrationRequest true "Decline reason"
// @Success      200 {object} dto.Response{data=property.RegistrationResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /registrations/{id}/decline [post]
func (h *RegistrationHandler) Decline(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	registrationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid registration ID")
		return
	}

	var req property.DeclineRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.registrationService.DeclineRegistration(c.Request.Context(), tenantID, registrationID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Terminate godoc
// @Summary      Terminate registration
// @Description  Terminate an active registration
// @Tags         registrations
// @Accept       json
// @Produce      json
// @Param        id path string true "Registration ID"
// @Param        request body property.TerminateRegistrationRequest true "Termination details"
// @Success      200 {object} dto.Response{data=property.RegistrationResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /registrations/{id}/terminate [post]
func (h *RegistrationHandler) Terminate(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	registrationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid registration ID")
		return
	}

	var req property.TerminateRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.registrationService.TerminateRegistration(c.Request.Context(), tenantID, registrationID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// AmendBilling godoc
// @Summary      Amend registration billing
// @Description  Change the monthly amount billed for an active registration
// @Tags         registrations
// @Accept       json
// @Produce      json
// @Param        id path string true "Registration ID"
// @Param        request body property.AmendRegistrationBillingRequest true "New billing terms"
// @Success      200 {object} dto.Response{data=property.RegistrationResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /registrations/{id}/billing [put]
func (h *RegistrationHandler) AmendBilling(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	registrationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid registration ID")
		return
	}

	var req property.AmendRegistrationBillingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.registrationService.AmendRegistrationBilling(c.Request.Context(), tenantID, registrationID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Delete godoc
// @Summary      Delete registration
// @Description  Delete a pending or declined registration
// @Tags         registrations
// @Produce      json
// @Param        id path string true "Registration ID"
// @Success      204
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /registrations/{id} [delete]
func (h *RegistrationHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	registrationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid registration ID")
		return
	}

	if err := h.registrationService.DeleteRegistration(c.Request.Context(), tenantID, registrationID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// RunMonthlyBilling godoc
// @Summary      Run monthly billing
// @Description  Raise one invoice per active registration for the billing month
// @Tags         registrations
// @Produce      json
// @Param        period query string false "Billing month (YYYY-MM-DD), defaults to the current month"
// @Success      200 {object} dto.Response{data=property.BillingRunResult}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /registrations/billing-runs [post]
func (h *RegistrationHandler) RunMonthlyBilling(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	periodStart := time.Now()
	if raw := c.Query("period"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			h.BadRequest(c, "Invalid period date, expected YYYY-MM-DD")
			return
		}
		periodStart = parsed
	}

	result, err := h.billingRunService.RunMonthlyBilling(c.Request.Context(), tenantID, periodStart)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
