package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/careersage/careersage-backend/internal/models"
	"github.com/careersage/careersage-backend/internal/service"
	"github.com/careersage/careersage-backend/pkg/logger"
)

type RoadmapHandler struct {
	roadmapService *service.RoadmapService
}

func NewRoadmapHandler(roadmapService *service.RoadmapService) *RoadmapHandler {
	return &RoadmapHandler{roadmapService: roadmapService}
}

// List returns the published catalog, optionally filtered by category.
func (h *RoadmapHandler) List(c *gin.Context) {
	roadmaps, err := h.roadmapService.List(c.Query("category"))
	if err != nil {
		logger.Error("Failed to list roadmaps", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load roadmaps"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"roadmaps": roadmaps})
}

// Categories returns the distinct catalog categories.
func (h *RoadmapHandler) Categories(c *gin.Context) {
	categories, err := h.roadmapService.Categories()
	if err != nil {
		logger.Error("Failed to list categories", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load categories"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// GetBySlug returns one catalog roadmap and counts the view.
func (h *RoadmapHandler) GetBySlug(c *gin.Context) {
	roadmap, err := h.roadmapService.GetBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrRoadmapNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Roadmap not found"})
			return
		}
		logger.Error("Failed to load roadmap", "slug", c.Param("slug"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load roadmap"})
		return
	}
	c.JSON(http.StatusOK, roadmap)
}

// ListMine returns the caller's saved roadmaps.
func (h *RoadmapHandler) ListMine(c *gin.Context) {
	userID := c.GetString("userId")

	roadmaps, err := h.roadmapService.UserRoadmaps(userID)
	if err != nil {
		logger.Error("Failed to list user roadmaps", "userId", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load roadmaps"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"roadmaps": roadmaps})
}

// GetMine returns one of the caller's saved roadmaps.
func (h *RoadmapHandler) GetMine(c *gin.Context) {
	userID := c.GetString("userId")

	roadmap, err := h.roadmapService.GetUserRoadmap(c.Param("id"), userID)
	if err != nil {
		if errors.Is(err, service.ErrRoadmapNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Roadmap not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load roadmap"})
		return
	}
	c.JSON(http.StatusOK, roadmap)
}

type SaveRoadmapRequest struct {
	RoadmapID   string          `json:"roadmapId"`
	Title       string          `json:"title" binding:"required"`
	Description string          `json:"description"`
	Nodes       models.JSONList `json:"nodes"`
	Connections models.JSONList `json:"connections"`
}

// Save stores a roadmap copy for the caller.
func (h *RoadmapHandler) Save(c *gin.Context) {
	userID := c.GetString("userId")

	var req SaveRoadmapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rm := &models.UserRoadmap{
		UserID:      userID,
		RoadmapID:   req.RoadmapID,
		Title:       req.Title,
		Description: req.Description,
		Nodes:       req.Nodes,
		Connections: req.Connections,
	}
	if err := h.roadmapService.Save(rm); err != nil {
		logger.Error("Failed to save roadmap", "userId", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save roadmap"})
		return
	}

	c.JSON(http.StatusCreated, rm)
}

type UpdateRoadmapRequest struct {
	Title          *string         `json:"title"`
	Description    *string         `json:"description"`
	Nodes          models.JSONList `json:"nodes"`
	Connections    models.JSONList `json:"connections"`
	CompletedNodes []string        `json:"completedNodes"`
}

// Update applies changes to a saved roadmap.
func (h *RoadmapHandler) Update(c *gin.Context) {
	userID := c.GetString("userId")

	var req UpdateRoadmapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rm, err := h.roadmapService.Update(c.Param("id"), userID, service.UpdateUserRoadmapInput{
		Title:          req.Title,
		Description:    req.Description,
		Nodes:          req.Nodes,
		Connections:    req.Connections,
		CompletedNodes: req.CompletedNodes,
	})
	if err != nil {
		if errors.Is(err, service.ErrRoadmapNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Roadmap not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update roadmap"})
		return
	}
	c.JSON(http.StatusOK, rm)
}

// Delete removes a saved roadmap.
func (h *RoadmapHandler) Delete(c *gin.Context) {
	userID := c.GetString("userId")

	if err := h.roadmapService.Delete(c.Param("id"), userID); err != nil {
		if errors.Is(err, service.ErrRoadmapNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Roadmap not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete roadmap"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Roadmap deleted"})
}

type ToggleNodeRequest struct {
	NodeID    string `json:"nodeId" binding:"required"`
	Completed bool   `json:"completed"`
}

// ToggleNode marks a roadmap node complete or incomplete.
func (h *RoadmapHandler) ToggleNode(c *gin.Context) {
	userID := c.GetString("userId")

	var req ToggleNodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	nodes, progress, err := h.roadmapService.ToggleNode(c.Param("id"), userID, req.NodeID, req.Completed)
	if err != nil {
		if errors.Is(err, service.ErrRoadmapNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Roadmap not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update progress"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"completedNodes": nodes,
		"progress":       progress,
	})
}
