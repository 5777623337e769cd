package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/homehub/backend/internal/application/analytics"
)

// AnalyticsHandler handles analytics and reporting HTTP requests
type AnalyticsHandler struct {
	BaseHandler
	analyticsService *analytics.AnalyticsService
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(analyticsService *analytics.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
	}
}

// GetDashboard godoc
// @Summary      Space dashboard
// @Description  Live counters for the space's home screen, computed concurrently
// @Tags         analytics
// @Produce      json
// @Success      200 {object} dto.Response{data=analytics.Dashboard}
// @Security     BearerAuth
// @Router       /analytics/dashboard [get]
func (h *AnalyticsHandler) GetDashboard(c *gin.Context) {
	spaceID, err := getSpaceID(c)
	if err != nil {
		h.Forbidden(c, "No space selected")
		return
	}

	dashboard, err := h.analyticsService.GetDashboard(c.Request.Context(), spaceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dashboard)
}

// GetRetention godoc
// @Summary      Retention cohorts
// @Description  Weekly signup cohorts with per-week activity retention; plan-gated
// @Tags         analytics
// @Produce      json
// @Param        from query string true "Cohort range start (RFC3339)"
// @Param        to query string true "Cohort range end (RFC3339)"
// @Param        max_weeks query int false "Horizon in weeks (default 8)"
// @Success      200 {object} dto.Response{data=analytics.RetentionReport}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      402 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /analytics/retention [get]
func (h *AnalyticsHandler) GetRetention(c *gin.Context) {
	var input analytics.RetentionInput
	if err := c.ShouldBindQuery(&input); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	report, err := h.analyticsService.GetRetention(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, report)
}

// GetHistory godoc
// @Summary      Snapshot history
// @Description  Daily activity snapshots for the space over a date range
// @Tags         analytics
// @Produce      json
// @Param        from query string true "Range start (RFC3339)"
// @Param        to query string true "Range end (RFC3339)"
// @Success      200 {object} dto.Response{data=[]analytics.SnapshotInfo}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /analytics/history [get]
func (h *AnalyticsHandler) GetHistory(c *gin.Context) {
	spaceID, err := getSpaceID(c)
	if err != nil {
		h.Forbidden(c, "No space selected")
		return
	}

	from, err := time.Parse(time.RFC3339, c.Query("from"))
	if err != nil {
		h.BadRequest(c, "Invalid from parameter")
		return
	}
	to, err := time.Parse(time.RFC3339, c.Query("to"))
	if err != nil {
		h.BadRequest(c, "Invalid to parameter")
		return
	}

	snapshots, err := h.analyticsService.GetHistory(c.Request.Context(), spaceID, from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, snapshots)
}
