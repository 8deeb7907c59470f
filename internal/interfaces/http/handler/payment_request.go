package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/square15/backend/internal/application/billing"
)

// PaymentRequestHandler handles payment request HTTP requests
type PaymentRequestHandler struct {
	BaseHandler
	paymentRequestService *billing.PaymentRequestService
}

// NewPaymentRequestHandler creates a new payment request handler
func NewPaymentRequestHandler(paymentRequestService *billing.PaymentRequestService) *PaymentRequestHandler {
	return &PaymentRequestHandler{
		paymentRequestService: paymentRequestService,
	}
}

// Create godoc
// @Summary      Create payment request
// @Description  Raise a payment request against an invoice
// @Tags         payment-requests
// @Accept       json
// @Produce      json
// @Param        request body billing.CreatePaymentRequestRequest true "Payment request details"
// @Success      201 {object} dto.Response{data=billing.PaymentRequestResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /payment-requests [post]
func (h *PaymentRequestHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req billing.CreatePaymentRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.paymentRequestService.CreatePaymentRequest(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Get godoc
// @Summary      Get payment request
// @Description  Get a payment request by ID
// @Tags         payment-requests
// @Produce      json
// @Param        id path string true "Payment request ID"
// @Success      200 {object} dto.Response{data=billing.PaymentRequestResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /payment-requests/{id} [get]
func (h *PaymentRequestHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment request ID")
		return
	}

	result, err := h.paymentRequestService.GetPaymentRequest(c.Request.Context(), tenantID, requestID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// List godoc
// @Summary      List payment requests
// @Description  List payment requests with filtering and pagination
// @Tags         payment-requests
// @Produce      json
// @Param        customer_id query string false "Filter by customer"
// @Param        invoice_id query string false "Filter by invoice"
// @Param        status query string false "Filter by status"
// @Param        search query string false "Search by reference"
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response{data=[]billing.PaymentRequestResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /payment-requests [get]
func (h *PaymentRequestHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var filter billing.PaymentRequestListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	result, total, err := h.paymentRequestService.ListPaymentRequests(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result, total, filter.Page, filter.PageSize)
}

// Approve godoc
// @Summary      Approve payment request
// @Description  Approve a pending payment request
// @Tags         payment-requests
// @Accept       json
// @Produce      json
// @Param        id path string true "Payment request ID"
// @Param        request body billing.ApprovePaymentRequestRequest true "Approver details"
// @Success      200 {object} dto.Response{data=billing.PaymentRequestResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /payment-requests/{id}/approve [post]
func (h *PaymentRequestHandler) Approve(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment request ID")
		return
	}

	var req billing.ApprovePaymentRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.paymentRequestService.ApprovePaymentRequest(c.Request.Context(), tenantID, requestID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Decline godoc
// @Summary      Decline payment request
// @Description  Decline a pending payment request with a reason
// @Tags         payment-requests
// @Accept       json
// @Produce      json
// @Param        id path string true "Payment request ID"
// @Param        request body billing.DeclinePaymentRequestRequest true "Decline reason"
// @Success      200 {object} dto.Response{data=billing.PaymentRequestResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /payment-requests/{id}/decline [post]
func (h *PaymentRequestHandler) Decline(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment request ID")
		return
	}

	var req billing.DeclinePaymentRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.paymentRequestService.DeclinePaymentRequest(c.Request.Context(), tenantID, requestID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// MarkPaid godoc
// @Summary      Mark payment request paid
// @Description  Record settlement of an approved payment request
// @Tags         payment-requests
// @Accept       json
// @Produce      json
// @Param        id path string true "Payment request ID"
// @Param        request body billing.MarkPaymentRequestPaidRequest true "Payment method"
// @Success      200 {object} dto.Response{data=billing.PaymentRequestResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /payment-requests/{id}/pay [post]
func (h *PaymentRequestHandler) MarkPaid(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment request ID")
		return
	}

	var req billing.MarkPaymentRequestPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.paymentRequestService.MarkPaymentRequestPaid(c.Request.Context(), tenantID, requestID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
