package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// DashboardStats serves the public dashboard rollup.
func (h HandlerSet) DashboardStats(c *gin.Context) {
	stats, err := h.statsService.Dashboard(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
