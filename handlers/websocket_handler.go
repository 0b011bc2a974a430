package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/Dosada05/worldcup/live"
	"github.com/Dosada05/worldcup/services"
)

type WebSocketHandler struct {
	hub             *live.Hub
	worldcupService services.WorldcupService
	upgrader        websocket.Upgrader
}

// NewWebSocketHandler accepts connections from allowedOrigins; "*" allows any origin.
func NewWebSocketHandler(hub *live.Hub, ws services.WorldcupService, allowedOrigins []string) *WebSocketHandler {
	allowAll := false
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		if o == "*" {
			allowAll = true
		}
		allowed[o] = true
	}

	return &WebSocketHandler{
		hub:             hub,
		worldcupService: ws,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return allowAll || origin == "" || allowed[origin]
			},
		},
	}
}

// ServeWs подписывает клиента на обновления статистики worldcup.
// Клиент должен подключаться к /ws/worldcups/{worldcupID}
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	worldcupID, err := getIDFromURL(r, "worldcupID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if _, err := h.worldcupService.GetWorldcup(r.Context(), worldcupID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade сам отправляет HTTP ошибку клиенту
		slog.Warn("websocket upgrade failed", slog.String("worldcup_id", worldcupID), slog.Any("error", err))
		return
	}

	h.hub.Attach(conn, worldcupID)
}
