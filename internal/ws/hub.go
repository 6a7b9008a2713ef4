package ws

import (
	"fmt"
	"sync"
	"time"

	"github.com/RosuMadalin/tracking-tradings/internal/telemetry"
)

const sendBuffer = 16

type Subscriber struct {
	SessionID string
	Symbols   map[string]struct{}
	send      chan serverMessage
}

// Hub tracks websocket sessions and the symbols each one follows.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]*Subscriber
}

func NewHub() *Hub {
	return &Hub{subscribers: make(map[string]*Subscriber)}
}

func (h *Hub) Add(sessionID string) (*Subscriber, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if sessionID == "" {
		return nil, fmt.Errorf("sessionID is required")
	}
	if _, ok := h.subscribers[sessionID]; ok {
		return nil, fmt.Errorf("session already exists")
	}
	sub := &Subscriber{
		SessionID: sessionID,
		Symbols:   map[string]struct{}{},
		send:      make(chan serverMessage, sendBuffer),
	}
	h.subscribers[sessionID] = sub
	return sub, nil
}

func (h *Hub) Remove(sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subscribers, sessionID)
}

func (h *Hub) Subscribe(sessionID, symbol string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	sub, ok := h.subscribers[sessionID]
	if !ok {
		return
	}
	sub.Symbols[symbol] = struct{}{}
}

func (h *Hub) Unsubscribe(sessionID, symbol string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	sub, ok := h.subscribers[sessionID]
	if !ok {
		return
	}
	delete(sub.Symbols, symbol)
}

// Publish fans a price out to every session subscribed to symbol. Sessions
// whose buffer is full miss the update.
func (h *Hub) Publish(symbol string, price float64, fetchedAt time.Time) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	msg := serverMessage{
		Type:      "price",
		Symbol:    symbol,
		Price:     &price,
		FetchedAt: &fetchedAt,
	}
	for _, sub := range h.subscribers {
		if _, ok := sub.Symbols[symbol]; !ok {
			continue
		}
		select {
		case sub.send <- msg:
		default:
			telemetry.WSMessageDropped()
		}
	}
}
