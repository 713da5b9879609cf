package http

import (
	"log"
	"net/http"

	"exam-portal/internal/app"
	"github.com/gorilla/websocket"
)

// WSHandler streams leaderboard updates to authenticated websocket clients.
type WSHandler struct {
	feed     *app.LeaderboardFeed
	auth     *Authenticator
	upgrader websocket.Upgrader
}

func NewWSHandler(feed *app.LeaderboardFeed, auth *Authenticator) *WSHandler {
	return &WSHandler{
		feed: feed,
		auth: auth,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades the request and forwards every leaderboard update until the client leaves.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	if _, err := h.auth.Caller(r); err != nil {
		writeError(w, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	updates, cancel, err := h.feed.Subscribe(r.Context())
	if err != nil {
		log.Printf("ws subscribe failed: %v", err)
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: "leaderboard unavailable"}})
		return
	}
	defer cancel()

	// The reader only watches for the client going away; clients send nothing meaningful.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case update, ok := <-updates:
			if !ok {
				return
			}
			if err := conn.WriteJSON(outboundMessage[app.LeaderboardUpdate]{Type: "leaderboard", Payload: update}); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		case <-closed:
			return
		}
	}
}
