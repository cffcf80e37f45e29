package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"janmat/backend/internal/models"
	"janmat/backend/internal/pushhub"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allows connections from any origin. Tighten in production.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWebSocket authenticates the bearer credential once at connect time
// and subscribes the session to the caller's own update channel.
func (h *Handler) ServeWebSocket(c *gin.Context) {
	tokenString := bearerToken(c)
	if tokenString == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token missing"})
		return
	}

	identity, err := h.validateJWT(tokenString)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token or expired"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to upgrade connection"})
		return
	}

	client := &pushhub.WebSocketClient{
		Hub:    h.Hub,
		UserID: identity.ID,
		Conn:   conn,
		Send:   make(chan *models.Complaint, 16),
	}

	h.Hub.RegisterCh <- client
	client.Run()
}
