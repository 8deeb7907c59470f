package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/square15/backend/internal/application/asset"
)

// AssetHandler handles fixed asset HTTP requests
type AssetHandler struct {
	BaseHandler
	assetService *asset.AssetService
}

// NewAssetHandler creates a new asset handler
func NewAssetHandler(assetService *asset.AssetService) *AssetHandler {
	return &AssetHandler{
		assetService: assetService,
	}
}

// Register godoc
// @Summary      Register asset
// @Description  Register a fixed asset on the asset register
// @Tags         assets
// @Accept       json
// @Produce      json
// @Param        request body asset.RegisterAssetRequest true "Asset details"
// @Success      201 {object} dto.Response{data=asset.AssetResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /assets [post]
func (h *AssetHandler) Register(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req asset.RegisterAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.assetService.RegisterAsset(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Get godoc
// @Summary      Get asset
// @Description  Get an asset by ID
// @Tags         assets
// @Produce      json
// @Param        id path string true "Asset ID"
// @Success      200 {object} dto.Response{data=asset.AssetResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /assets/{id} [get]
func (h *AssetHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	assetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid asset ID")
		return
	}

	result, err := h.assetService.GetAsset(c.Request.Context(), tenantID, assetID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// List godoc
// @Summary      List assets
// @Description  List assets with filtering and pagination
// @Tags         assets
// @Produce      json
// @Param        category query string false "Filter by category"
// @Param        status query string false "Filter by status"
// @Param        acquired_from query string false "Acquired on or after (YYYY-MM-DD)"
// @Param        acquired_to query string false "Acquired on or before (YYYY-MM-DD)"
// @Param        search query string false "Search by name or serial"
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response{data=[]asset.AssetResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /assets [get]
func (h *AssetHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var filter asset.AssetListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	result, total, err := h.assetService.ListAssets(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result, total, filter.Page, filter.PageSize)
}

// Update godoc
// @Summary      Update asset
// @Description  Update an asset's details
// @Tags         assets
// @Accept       json
// @Produce      json
// @Param        id path string true "Asset ID"
// @Param        request body asset.UpdateAssetRequest true "Fields to update"
// @Success      200 {object} dto.Response{data=asset.AssetResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /assets/{id} [put]
func (h *AssetHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	assetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid asset ID")
		return
	}

	var req asset.UpdateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.assetService.UpdateAsset(c.Request.Context(), tenantID, assetID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Dispose godoc
// @Summary      Dispose asset
// @Description  Record the sale or disposal of an asset
// @Tags         assets
// @Accept       json
// @Produce      json
// @Param        id path string true "Asset ID"
// @Param        request body asset.DisposeAssetRequest true "Disposal details"
// @Success      200 {object} dto.Response{data=asset.AssetResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /assets/{id}/dispose [post]
func (h *AssetHandler) Dispose(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	assetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid asset ID")
		return
	}

	var req asset.DisposeAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.assetService.DisposeAsset(c.Request.Context(), tenantID, assetID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// WriteOff godoc
// @Summary      Write off asset
// @Description  Write an asset off the register
// @Tags         assets
// @Accept       json
// @Produce      json
// @Param        id path string true "Asset ID"
// @Param        request body asset.WriteOffAssetRequest true "Write-off reason"
// @Success      200 {object} dto.Response{data=asset.AssetResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /assets/{id}/write-off [post]
func (h *AssetHandler) WriteOff(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	assetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid asset ID")
		return
	}

	var req asset.WriteOffAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.assetService.WriteOffAsset(c.Request.Context(), tenantID, assetID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Delete godoc
// @Summary      Delete asset
// @Description  Remove an asset that was registered in error
// @Tags         assets
// @Produce      json
// @Param        id path string true "Asset ID"
// @Success      204
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /assets/{id} [delete]
func (h *AssetHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	assetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid asset ID")
		return
	}

	if err := h.assetService.DeleteAsset(c.Request.Context(), tenantID, assetID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// RegisterReport godoc
// @Summary      Asset register report
// @Description  Build the asset register with depreciation as of a date
// @Tags         assets
// @Produce      json
// @Param        as_of query string false "Reporting date (YYYY-MM-DD), defaults to today"
// @Success      200 {object} dto.Response{data=asset.AssetRegisterReport}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /assets/register-report [get]
func (h *AssetHandler) RegisterReport(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	asOf := time.Now()
	if raw := c.Query("as_of"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			h.BadRequest(c, "Invalid as_of date, expected YYYY-MM-DD")
			return
		}
		asOf = parsed
	}

	result, err := h.assetService.BuildRegisterReport(c.Request.Context(), tenantID, asOf)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
