package realtime

import (
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxInboundSize = 4096
)

// Session is one websocket connection of an authenticated user. A user can
// hold several sessions at once, one per device or tab.
type Session struct {
	id           string
	userID       int64
	hub          *Hub
	conn         *websocket.Conn
	send         chan []byte
	writeTimeout time.Duration
}

func newSession(hub *Hub, conn *websocket.Conn, userID int64, writeTimeout time.Duration) *Session {
	return &Session{
		id:           uuid.New().String(),
		userID:       userID,
		hub:          hub,
		conn:         conn,
		send:         make(chan []byte, hub.sessionBuffer),
		writeTimeout: writeTimeout,
	}
}

// readPump only serves control frames; clients do not send events on this
// channel. It returns when the connection fails or is closed.
func (s *Session) readPump() {
	defer func() {
		s.hub.unregister(s)
		s.conn.Close()
	}()

	s.conn.SetReadLimit(maxInboundSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.hub.logger.Debug("push session read failed", zap.String("session_id", s.id), zap.Error(err))
			}
			return
		}
	}
}

func (s *Session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
			if !ok {
				_ = s.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				s.hub.logger.Debug("push session write failed", zap.String("session_id", s.id), zap.Error(err))
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
