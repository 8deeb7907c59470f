package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/square15/backend/internal/application/attachments"
)

// AttachmentHandler handles attachment HTTP requests
type AttachmentHandler struct {
	BaseHandler
	attachmentService *attachments.AttachmentService
}

// NewAttachmentHandler creates a new attachment handler
func NewAttachmentHandler(attachmentService *attachments.AttachmentService) *AttachmentHandler {
	return &AttachmentHandler{
		attachmentService: attachmentService,
	}
}

// InitiateUpload godoc
// @Summary      Initiate upload
// @Description  Issue a presigned URL for uploading a document
// @Tags         attachments
// @Accept       json
// @Produce      json
// @Param        request body attachments.InitiateUploadRequest true "Upload details"
// @Success      201 {object} dto.Response{data=attachments.InitiateUploadResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      424 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /attachments/uploads [post]
func (h *AttachmentHandler) InitiateUpload(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req attachments.InitiateUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.attachmentService.InitiateUpload(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// PresignDownload godoc
// @Summary      Presign download
// @Description  Issue a presigned URL for downloading a stored document
// @Tags         attachments
// @Produce      json
// @Param        key path string true "Storage key"
// @Success      200 {object} dto.Response{data=attachments.DownloadURLResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      424 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /attachments/{key} [get]
func (h *AttachmentHandler) PresignDownload(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	// keys are slash-separated, the route binds them with a wildcard
	storageKey := strings.TrimPrefix(c.Param("key"), "/")
	if storageKey == "" {
		h.BadRequest(c, "Missing storage key")
		return
	}

	result, err := h.attachmentService.PresignDownload(c.Request.Context(), tenantID, storageKey)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Delete godoc
// @Summary      Delete attachment
// @Description  Remove a stored document
// @Tags         attachments
// @Produce      json
// @Param        key path string true "Storage key"
// @Success      204
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      424 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /attachments/{key} [delete]
func (h *AttachmentHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	storageKey := strings.TrimPrefix(c.Param("key"), "/")
	if storageKey == "" {
		h.BadRequest(c, "Missing storage key")
		return
	}

	if err := h.attachmentService.Delete(c.Request.Context(), tenantID, storageKey); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
