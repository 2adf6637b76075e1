package http

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"kidquiz-engine/internal/app"
)

type WSHandler struct {
	service  *app.SessionService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.SessionService) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	OptionID string `json:"optionId"`
}

type errorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// ServeWS upgrades HTTP requests to websockets and runs one quiz session over
// the connection: presentation commands stream out, option selections stream
// in. Closing the socket aborts the session.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	kidID := r.URL.Query().Get("kidId")
	packagesParam := r.URL.Query().Get("packages")
	if kidID == "" || packagesParam == "" {
		http.Error(w, "missing kidId or packages", http.StatusBadRequest)
		return
	}
	packageIDs := strings.Split(packagesParam, ",")

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	sessionID, err := h.service.StartSession(r.Context(), kidID, packageIDs)
	if err != nil {
		_ = conn.WriteJSON(errorMessage{Type: "error", Message: err.Error()})
		return
	}

	commands, cancel, err := h.service.Subscribe(r.Context(), sessionID)
	if err != nil {
		_ = conn.WriteJSON(errorMessage{Type: "error", Message: err.Error()})
		return
	}
	defer cancel()
	defer func() { _ = h.service.Abort(r.Context(), sessionID) }()

	send := make(chan any, 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	commandsDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	go func() {
		defer close(commandsDone)
		for {
			select {
			case cmd, ok := <-commands:
				if !ok {
					return
				}
				select {
				case send <- cmd:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- errorMessage{Type: "error", Message: "invalid answer payload"}
				continue
			}
			// Late or duplicate selections are absorbed by the engine;
			// only a vanished session is worth reporting.
			if err := h.service.SelectOption(r.Context(), sessionID, payload.OptionID); err != nil {
				send <- errorMessage{Type: "error", Message: err.Error()}
			}
		case "close":
			_ = h.service.Abort(r.Context(), sessionID)
		default:
			send <- errorMessage{Type: "error", Message: "unsupported message type"}
		}
	}

	close(closeSignals)
	<-commandsDone
	close(send)
	<-writerDone
}
