package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/careersage/careersage-backend/internal/service"
	"github.com/careersage/careersage-backend/pkg/logger"
)

type BattleHandler struct {
	battleService *service.BattleService
}

func NewBattleHandler(battleService *service.BattleService) *BattleHandler {
	return &BattleHandler{battleService: battleService}
}

// Leaderboard returns the top players by rating.
func (h *BattleHandler) Leaderboard(c *gin.Context) {
	entries, err := h.battleService.Leaderboard()
	if err != nil {
		logger.Error("Failed to load battle leaderboard", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load leaderboard"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"leaderboard": entries})
}

// Stats returns the caller's battle record.
func (h *BattleHandler) Stats(c *gin.Context) {
	userID := c.GetString("userId")

	stats, name, err := h.battleService.Stats(userID)
	if err != nil {
		logger.Error("Failed to load battle stats", "userId", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"name":         name,
		"totalBattles": stats.TotalBattles,
		"wins":         stats.Wins,
		"losses":       stats.Losses,
		"draws":        stats.Draws,
		"rating":       stats.Rating,
		"badges":       []string(stats.Badges),
		"winStreak":    stats.WinStreak,
		"bestStreak":   stats.BestStreak,
		"winRate":      stats.WinRate(),
	})
}

// History returns the caller's completed battles.
func (h *BattleHandler) History(c *gin.Context) {
	userID := c.GetString("userId")

	battles, err := h.battleService.History(userID)
	if err != nil {
		logger.Error("Failed to load battle history", "userId", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"battles": battles})
}

// Active returns waiting battles the caller could join.
func (h *BattleHandler) Active(c *gin.Context) {
	userID := c.GetString("userId")

	battles, err := h.battleService.ActiveBattles(userID)
	if err != nil {
		logger.Error("Failed to load active battles", "userId", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load active battles"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"battles": battles})
}
