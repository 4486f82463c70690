package handler

import (
	"log"
	"net/http"

	"smartalert/backend/internal/eventhub"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Дозволяє з'єднання з будь-якого домену. У продакшені налаштувати!
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWebSocket оновлює HTTP-з'єднання до WebSocket. Route is guarded by
// RequireRole, so the session is always authenticated here.
func (h *Handler) ServeWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("ERROR: Failed to upgrade connection: %v", err)
		return
	}

	client := eventhub.NewWebSocketClient(h.Hub, conn, CurrentSession(c))
	if !h.Hub.Register(client) {
		conn.Close()
		return
	}
	client.Run()
}
