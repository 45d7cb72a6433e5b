package realtime

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"webdating-engagement/internal/pkg/token"
)

const HubPath = "/hubs/notification"

// Handler upgrades authenticated requests to push sessions. The access token
// travels in the access_token query parameter since browsers cannot set
// headers on websocket requests.
type Handler struct {
	hub          *Hub
	jwtSecret    string
	writeTimeout time.Duration
	logger       *zap.Logger
	upgrader     websocket.Upgrader
}

func NewHandler(hub *Hub, jwtSecret string, writeTimeout time.Duration, allowedOrigins []string, logger *zap.Logger) *Handler {
	if writeTimeout <= 0 {
		writeTimeout = 10 * time.Second
	}
	return &Handler{
		hub:          hub,
		jwtSecret:    jwtSecret,
		writeTimeout: writeTimeout,
		logger:       logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	claims, err := token.Parse(r.URL.Query().Get("access_token"), h.jwtSecret)
	if err != nil {
		http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
		return
	}
	if h.hub.Closed() {
		http.Error(w, "Push hub is shutting down", http.StatusServiceUnavailable)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debug("websocket upgrade failed", zap.Error(err))
		return
	}

	s := newSession(h.hub, conn, claims.UserID, h.writeTimeout)
	if !h.hub.register(s) {
		// Run returned between the check above and the upgrade.
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"), time.Now().Add(time.Second))
		conn.Close()
		return
	}

	go s.writePump()
	go s.readPump()
}

func originChecker(allowed []string) func(*http.Request) bool {
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[o] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || set[origin]
	}
}
