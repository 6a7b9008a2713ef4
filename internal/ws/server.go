package ws

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/RosuMadalin/tracking-tradings/internal/telemetry"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

type clientMessage struct {
	Type   string `json:"type"`
	Symbol string `json:"symbol,omitempty"`
}

type serverMessage struct {
	Type      string     `json:"type"`
	SessionID string     `json:"session_id,omitempty"`
	Symbol    string     `json:"symbol,omitempty"`
	Price     *float64   `json:"price,omitempty"`
	FetchedAt *time.Time `json:"fetched_at,omitempty"`
	Message   string     `json:"message,omitempty"`
}

type Server struct {
	Hub *Hub
}

func NewServer(hub *Hub) *Server {
	return &Server{Hub: hub}
}

func (s *Server) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			slog.Warn("websocket accept failed", "error", err)
			return
		}
		defer conn.Close(websocket.StatusInternalError, "server error")

		sessionID, err := newSessionID()
		if err != nil {
			slog.Error("failed to create websocket session id", "error", err)
			return
		}
		sub, err := s.Hub.Add(sessionID)
		if err != nil {
			slog.Error("failed to register websocket session", "error", err)
			return
		}
		defer s.Hub.Remove(sessionID)

		telemetry.WSConnectionOpened()
		defer telemetry.WSConnectionClosed()

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case msg := <-sub.send:
					if err := wsjson.Write(ctx, conn, msg); err != nil {
						cancel()
						return
					}
				}
			}
		}()

		if err := wsjson.Write(ctx, conn, serverMessage{Type: "ready", SessionID: sessionID}); err != nil {
			return
		}

		for {
			var msg clientMessage
			if err := wsjson.Read(ctx, conn, &msg); err != nil {
				if websocket.CloseStatus(err) == websocket.StatusNormalClosure {
					conn.Close(websocket.StatusNormalClosure, "")
				}
				return
			}
			if err := wsjson.Write(ctx, conn, s.handle(sessionID, msg)); err != nil {
				return
			}
		}
	}
}

func (s *Server) handle(sessionID string, msg clientMessage) serverMessage {
	symbol := strings.ToUpper(strings.TrimSpace(msg.Symbol))

	switch msg.Type {
	case "subscribe", "unsubscribe":
	default:
		return serverMessage{Type: "error", Message: "type must be subscribe or unsubscribe"}
	}
	if symbol == "" {
		return serverMessage{Type: "error", Message: "symbol is required"}
	}

	if msg.Type == "subscribe" {
		s.Hub.Subscribe(sessionID, symbol)
		return serverMessage{Type: "subscribed", Symbol: symbol}
	}
	s.Hub.Unsubscribe(sessionID, symbol)
	return serverMessage{Type: "unsubscribed", Symbol: symbol}
}

func newSessionID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
