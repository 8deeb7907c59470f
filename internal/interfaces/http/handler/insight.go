package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/square15/backend/internal/application/insights"
)

// InsightHandler handles business insight HTTP requests
type InsightHandler struct {
	BaseHandler
	insightService *insights.InsightService
}

// NewInsightHandler creates a new insight handler
func NewInsightHandler(insightService *insights.InsightService) *InsightHandler {
	return &InsightHandler{
		insightService: insightService,
	}
}

// Snapshot godoc
// @Summary      Business snapshot
// @Description  Assemble the month-to-date business figures as of a date
// @Tags         insights
// @Produce      json
// @Param        as_of query string false "Snapshot date (YYYY-MM-DD), defaults to today"
// @Success      200 {object} dto.Response{data=insights.BusinessSnapshot}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /insights/snapshot [get]
func (h *InsightHandler) Snapshot(c *gin.Context) {
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

	result, err := h.insightService.BuildSnapshot(c.Request.Context(), tenantID, asOf)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Ask godoc
// @Summary      Ask a business question
// @Description  Answer an operator's question grounded on the current snapshot
// @Tags         insights
// @Accept       json
// @Produce      json
// @Param        request body insights.AskInsightRequest true "The question"
// @Success      200 {object} dto.Response{data=insights.InsightResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      424 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /insights/ask [post]
func (h *InsightHandler) Ask(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req insights.AskInsightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.insightService.Ask(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
