package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/careersage/careersage-backend/internal/websocket"
	jwtutil "github.com/careersage/careersage-backend/pkg/jwt"
)

// WebSocketHandler upgrades authenticated connections into the hub.
type WebSocketHandler struct {
	hub        *websocket.Hub
	jwtManager *jwtutil.JWTManager
}

func NewWebSocketHandler(hub *websocket.Hub, jwtManager *jwtutil.JWTManager) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, jwtManager: jwtManager}
}

// HandleWebSocket authenticates via the token query parameter (browsers
// cannot set headers on websocket upgrades) or the Authorization header,
// then hands the connection to the hub.
func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		authHeader := c.GetHeader("Authorization")
		if parts := strings.Split(authHeader, " "); len(parts) == 2 && parts[0] == "Bearer" {
			token = parts[1]
		}
	}
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token required"})
		return
	}

	claims, err := h.jwtManager.Verify(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return
	}

	websocket.ServeWs(h.hub, c.Writer, c.Request, claims.UserID)
}
