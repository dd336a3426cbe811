package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/careersage/careersage-backend/internal/service"
	"github.com/careersage/careersage-backend/pkg/logger"
)

type QuizHandler struct {
	quizService *service.QuizService
}

func NewQuizHandler(quizService *service.QuizService) *QuizHandler {
	return &QuizHandler{quizService: quizService}
}

// Questions returns the question set for a category. Correct answers are
// stripped by the model's JSON tags.
func (h *QuizHandler) Questions(c *gin.Context) {
	category, questions := h.quizService.Questions(c.Param("category"))
	c.JSON(http.StatusOK, gin.H{
		"category":  category,
		"questions": questions,
	})
}

type SubmitQuizRequest struct {
	Category  string               `json:"category" binding:"required"`
	Answers   []service.QuizAnswer `json:"answers" binding:"required"`
	TimeTaken int                  `json:"timeTaken"`
}

// Submit grades a quiz attempt and stores the result.
func (h *QuizHandler) Submit(c *gin.Context) {
	userID := c.GetString("userId")

	var req SubmitQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.quizService.Submit(userID, req.Category, req.Answers, req.TimeTaken)
	if err != nil {
		if errors.Is(err, service.ErrQuizCategoryUnknown) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown quiz category"})
			return
		}
		logger.Error("Failed to submit quiz", "userId", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit quiz"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// Results returns the caller's past quiz results, newest first.
func (h *QuizHandler) Results(c *gin.Context) {
	userID := c.GetString("userId")

	results, err := h.quizService.Results(userID)
	if err != nil {
		logger.Error("Failed to load quiz results", "userId", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load results"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}
