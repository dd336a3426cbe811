package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/careersage/careersage-backend/internal/service"
	"github.com/careersage/careersage-backend/pkg/logger"
)

type DashboardHandler struct {
	dashboardService *service.DashboardService
}

func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Stats returns the headline numbers for the dashboard.
func (h *DashboardHandler) Stats(c *gin.Context) {
	userID := c.GetString("userId")

	stats, err := h.dashboardService.Stats(userID)
	if err != nil {
		logger.Error("Failed to load dashboard stats", "userId", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Roadmaps returns the caller's most recent roadmap cards.
func (h *DashboardHandler) Roadmaps(c *gin.Context) {
	userID := c.GetString("userId")

	roadmaps, err := h.dashboardService.Roadmaps(userID)
	if err != nil {
		logger.Error("Failed to load dashboard roadmaps", "userId", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load roadmaps"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"roadmaps": roadmaps})
}

// Activity returns the recent-activity log.
func (h *DashboardHandler) Activity(c *gin.Context) {
	userID := c.GetString("userId")

	activity, err := h.dashboardService.Activity(userID)
	if err != nil {
		logger.Error("Failed to load activity", "userId", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load activity"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"activity": activity})
}

// Skills returns the acquired skills list.
func (h *DashboardHandler) Skills(c *gin.Context) {
	userID := c.GetString("userId")

	skills, err := h.dashboardService.Skills(userID)
	if err != nil {
		logger.Error("Failed to load skills", "userId", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load skills"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"skills": skills})
}

// Progress returns the full progress record.
func (h *DashboardHandler) Progress(c *gin.Context) {
	userID := c.GetString("userId")

	progress, err := h.dashboardService.Progress(userID)
	if err != nil {
		logger.Error("Failed to load progress", "userId", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load progress"})
		return
	}
	c.JSON(http.StatusOK, progress)
}

// Leaderboard ranks users by completed roadmap nodes.
func (h *DashboardHandler) Leaderboard(c *gin.Context) {
	entries, err := h.dashboardService.Leaderboard()
	if err != nil {
		logger.Error("Failed to load progress leaderboard", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load leaderboard"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"leaderboard": entries})
}
