package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/careersage/careersage-backend/internal/service"
	"github.com/careersage/careersage-backend/pkg/logger"
)

type AIHandler struct {
	aiService *service.AIService
}

func NewAIHandler(aiService *service.AIService) *AIHandler {
	return &AIHandler{aiService: aiService}
}

type GenerateRoadmapRequest struct {
	Topic           string   `json:"topic" binding:"required"`
	Skills          []string `json:"skills"`
	ExperienceLevel string   `json:"experienceLevel"`
	CareerGoal      string   `json:"careerGoal"`
}

// GenerateRoadmap builds and saves a personalized roadmap. Non-tech
// topics are rejected before any model call.
func (h *AIHandler) GenerateRoadmap(c *gin.Context) {
	userID := c.GetString("userId")

	var req GenerateRoadmapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	roadmap, err := h.aiService.GenerateRoadmap(c.Request.Context(), userID, service.GenerateRoadmapInput{
		Topic:           req.Topic,
		Skills:          req.Skills,
		ExperienceLevel: req.ExperienceLevel,
		CareerGoal:      req.CareerGoal,
	})
	if err != nil {
		if errors.Is(err, service.ErrNotTechTopic) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "I can only generate roadmaps for technology and software development topics",
			})
			return
		}
		logger.Error("Failed to generate roadmap", "userId", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate roadmap"})
		return
	}

	c.JSON(http.StatusCreated, roadmap)
}

type ChatRequest struct {
	Message string `json:"message" binding:"required"`
}

// Chat answers a career question with a canned assistant response.
func (h *AIHandler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"response": service.AIChat(req.Message)})
}

// SuggestResources returns curated learning resources for a topic.
func (h *AIHandler) SuggestResources(c *gin.Context) {
	topic := c.Query("topic")
	if topic == "" {
		topic = c.Param("topic")
	}

	c.JSON(http.StatusOK, gin.H{
		"topic":     topic,
		"resources": service.SuggestResources(topic),
	})
}
