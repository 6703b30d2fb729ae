package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"
	"github.com/yourusername/qa-eval-api/internal/websocket"
)

// WSHandler обрабатывает WebSocket соединения live-ленты дашборда
type WSHandler struct {
	hub *websocket.Hub
}

// NewWSHandler создает новый обработчик WebSocket
func NewWSHandler(hub *websocket.Hub) *WSHandler {
	return &WSHandler{hub: hub}
}

var upgrader = gorillaws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Если Origin пустой - это не браузерный клиент (curl, мониторинг и т.д.)
		if r.Header.Get("Origin") == "" {
			return true
		}
		// Лента только читает события, чувствительных действий через нее нет
		return true
	},
}

// HandleConnection апгрейдит HTTP-соединение до WebSocket и регистрирует клиента
func (h *WSHandler) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WSHandler] Ошибка апгрейда соединения: %v", err)
		return
	}
	websocket.NewClient(h.hub, conn)
}
