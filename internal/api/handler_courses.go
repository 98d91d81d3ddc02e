package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"campus-space-backend/internal/course"
	"campus-space-backend/internal/ingest"
)

// GetCourses handles the GET /api/courses request: a dump of the live
// snapshot, or an empty result before the first successful refresh.
func (h *Handler) GetCourses(c *gin.Context) {
	snap := h.holder.Load()
	if snap == nil {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"count":   0,
			"courses": []course.Section{},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"lastUpdated": snap.FetchedAt,
		"source":      snap.Source,
		"count":       len(snap.Sections),
		"courses":     snap.Sections,
	})
}

// GetHealth handles the GET /api/health request.
func (h *Handler) GetHealth(c *gin.Context) {
	resp := gin.H{
		"success":       true,
		"status":        "running",
		"coursesLoaded": 0,
	}
	if snap := h.holder.Load(); snap != nil {
		resp["coursesLoaded"] = len(snap.Sections)
		resp["lastUpdated"] = snap.FetchedAt
		resp["source"] = snap.Source
	}
	c.JSON(http.StatusOK, resp)
}

// PostRefresh handles the POST /api/refresh request, forcing a refresh
// cycle out of band of the hourly schedule.
func (h *Handler) PostRefresh(c *gin.Context) {
	outcome, err := h.ingest.Refresh(c.Request.Context())
	if errors.Is(err, ingest.ErrRefreshInFlight) {
		c.JSON(http.StatusConflict, gin.H{"error": "a refresh is already in progress"})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, outcome)
}
