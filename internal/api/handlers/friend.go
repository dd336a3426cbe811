package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/careersage/careersage-backend/internal/service"
	"github.com/careersage/careersage-backend/pkg/logger"
)

type FriendHandler struct {
	friendService *service.FriendService
}

func NewFriendHandler(friendService *service.FriendService) *FriendHandler {
	return &FriendHandler{friendService: friendService}
}

// List returns the caller's friends with online status.
func (h *FriendHandler) List(c *gin.Context) {
	userID := c.GetString("userId")

	friends, err := h.friendService.List(userID)
	if err != nil {
		logger.Error("Failed to list friends", "userId", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load friends"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"friends": friends})
}

type FriendRequestBody struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

// SendRequest sends a friend request identified by user id or email.
func (h *FriendHandler) SendRequest(c *gin.Context) {
	userID := c.GetString("userId")

	var req FriendRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.UserID == "" && req.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId or email required"})
		return
	}

	notification, err := h.friendService.SendRequest(userID, req.UserID, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		case errors.Is(err, service.ErrSelfFriend):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot add yourself as a friend"})
		case errors.Is(err, service.ErrAlreadyFriends):
			c.JSON(http.StatusConflict, gin.H{"error": "Already friends"})
		case errors.Is(err, service.ErrFriendRequestPending):
			c.JSON(http.StatusConflict, gin.H{"error": "Friend request already pending"})
		default:
			logger.Error("Failed to send friend request", "userId", userID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send friend request"})
		}
		return
	}

	c.JSON(http.StatusCreated, notification)
}

// AcceptRequest accepts a pending friend request by notification id.
func (h *FriendHandler) AcceptRequest(c *gin.Context) {
	userID := c.GetString("userId")

	if err := h.friendService.AcceptRequest(userID, c.Param("id")); err != nil {
		switch {
		case errors.Is(err, service.ErrRequestNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Friend request not found"})
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		default:
			logger.Error("Failed to accept friend request", "userId", userID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to accept friend request"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Friend request accepted"})
}

// Remove deletes a friendship.
func (h *FriendHandler) Remove(c *gin.Context) {
	userID := c.GetString("userId")

	if err := h.friendService.RemoveFriend(userID, c.Param("id")); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		logger.Error("Failed to remove friend", "userId", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove friend"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Friend removed"})
}

// Notifications returns recent notifications and the unread count.
func (h *FriendHandler) Notifications(c *gin.Context) {
	userID := c.GetString("userId")

	notifications, unread, err := h.friendService.Notifications(userID)
	if err != nil {
		logger.Error("Failed to load notifications", "userId", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
		"unreadCount":   unread,
	})
}

type MarkReadRequest struct {
	NotificationID string `json:"notificationId"`
}

// MarkNotificationsRead marks one notification read, or all when no id is
// given.
func (h *FriendHandler) MarkNotificationsRead(c *gin.Context) {
	userID := c.GetString("userId")

	var req MarkReadRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.friendService.MarkNotificationsRead(userID, req.NotificationID); err != nil {
		logger.Error("Failed to mark notifications read", "userId", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark notifications read"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notifications marked read"})
}
