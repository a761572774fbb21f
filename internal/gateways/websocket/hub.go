package websocket

import (
	"crypto/rand"
	"encoding/base64"

	"atomflow/internal/utils"

	"go.uber.org/zap"
)

type Client struct {
	hub  *Hub
	conn ClientConn
	ID   string
}

type ClientConn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteJSON(v interface{}) error
	Close() error
}

func generateClientID() string {
	bytes := make([]byte, 6)
	if _, err := rand.Read(bytes); err != nil {
		return "xxxxx"
	}
	return base64.URLEncoding.EncodeToString(bytes)
}

// pushMessage is what every client receives when a snapshot changes. Clients
// replace their local state wholesale with the payload; receiving an
// identical snapshot twice is harmless.
type pushMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// Hub fans board snapshot events out to every connected client. All client
// writes happen on the Run goroutine, so no connection is ever written
// concurrently.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	eventBus   *utils.EventBus
	logger     *zap.SugaredLogger
}

func NewHub(logger *zap.Logger, eventBus *utils.EventBus) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		eventBus:   eventBus,
		logger:     logger.Sugar(),
	}
}

func (h *Hub) Run() {
	h.logger.Info("WebSocket Hub started")

	events := h.eventBus.SubscribeCh()

	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			h.logger.Infow("Client connected",
				"client_id", client.ID,
				"clients_count", len(h.clients),
			)

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				h.logger.Infow("Client disconnected",
					"client_id", client.ID,
					"clients_count", len(h.clients),
				)
			}

		case event := <-events:
			h.broadcast(event)
		}
	}
}

func (h *Hub) broadcast(event utils.Event) {
	msg := pushMessage{Type: event.Event, Payload: event.Data}
	for client := range h.clients {
		if err := client.conn.WriteJSON(msg); err != nil {
			h.logger.Warnw("Failed to push to client, dropping it",
				"client_id", client.ID,
				"error", err,
			)
			client.conn.Close()
			delete(h.clients, client)
		}
	}
}
