package websocket

import (
	"encoding/json"
	"log"
)

// Event - сообщение live-ленты, отправляемое всем подключенным клиентам
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// Hub поддерживает набор активных клиентов и рассылает им события.
// Используется дашбордом для live-обновлений без перезапроса API.
type Hub struct {
	// Зарегистрированные клиенты
	clients map[*Client]bool

	// События для рассылки всем клиентам
	broadcast chan []byte

	// Запросы на регистрацию от клиентов
	register chan *Client

	// Запросы на отмену регистрации от клиентов
	unregister chan *Client
}

// NewHub создает новый хаб
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run запускает цикл обработки хаба; вызывается в отдельной горутине
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			log.Printf("[WebSocket] Клиент подключен, всего: %d", len(h.clients))
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				log.Printf("[WebSocket] Клиент отключен, всего: %d", len(h.clients))
			}
		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Буфер клиента переполнен - отключаем его
					delete(h.clients, client)
					close(client.send)
				}
			}
		}
	}
}

// Publish сериализует событие и рассылает его всем клиентам.
// Реализует service.EventPublisher.
func (h *Hub) Publish(event string, payload interface{}) {
	data, err := json.Marshal(Event{Type: event, Payload: payload})
	if err != nil {
		log.Printf("[WebSocket] Не удалось сериализовать событие %s: %v", event, err)
		return
	}
	select {
	case h.broadcast <- data:
	default:
		log.Printf("[WebSocket] Канал рассылки переполнен, событие %s отброшено", event)
	}
}
