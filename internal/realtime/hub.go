package realtime

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"webdating-engagement/internal/metrics"
)

// Hub tracks the push sessions of this instance. Events are queued by
// SendToUser and Broadcast and fanned out by Run.
type Hub struct {
	logger        *zap.Logger
	queue         chan Envelope
	sessionBuffer int

	mu       sync.RWMutex
	sessions map[int64]map[*Session]struct{}
	closed   bool
}

func NewHub(logger *zap.Logger, queueSize, sessionBuffer int) *Hub {
	if queueSize <= 0 {
		queueSize = 256
	}
	if sessionBuffer <= 0 {
		sessionBuffer = 16
	}
	return &Hub{
		logger:        logger,
		queue:         make(chan Envelope, queueSize),
		sessionBuffer: sessionBuffer,
		sessions:      make(map[int64]map[*Session]struct{}),
	}
}

func (h *Hub) SendToUser(userID int64, event string, payload any) {
	env, err := newEnvelope(userID, event, payload)
	if err != nil {
		h.logger.Error("encode push payload", zap.String("event", event), zap.Error(err))
		metrics.PushEvents.WithLabelValues(metrics.PushFailed).Inc()
		return
	}
	h.Enqueue(env)
}

func (h *Hub) Broadcast(event string, payload any) {
	h.SendToUser(0, event, payload)
}

// Enqueue hands an already encoded envelope to the hub without blocking.
func (h *Hub) Enqueue(env Envelope) {
	select {
	case h.queue <- env:
	default:
		metrics.PushEvents.WithLabelValues(metrics.PushDropped).Inc()
		h.logger.Warn("push queue full, event dropped",
			zap.String("event", env.Event), zap.Int64("user_id", env.UserID))
	}
}

// Run delivers queued events until ctx is cancelled, then closes every
// session.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case env := <-h.queue:
			h.deliver(env)
		}
	}
}

func (h *Hub) deliver(env Envelope) {
	frame, err := json.Marshal(Message{Event: env.Event, Data: env.Payload})
	if err != nil {
		h.logger.Error("encode push frame", zap.String("event", env.Event), zap.Error(err))
		metrics.PushEvents.WithLabelValues(metrics.PushFailed).Inc()
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if env.UserID == 0 {
		for _, set := range h.sessions {
			for s := range set {
				h.push(s, env, frame)
			}
		}
		return
	}

	set := h.sessions[env.UserID]
	if len(set) == 0 {
		metrics.PushEvents.WithLabelValues(metrics.PushNoSession).Inc()
		return
	}
	for s := range set {
		h.push(s, env, frame)
	}
}

func (h *Hub) push(s *Session, env Envelope, frame []byte) {
	select {
	case s.send <- frame:
		metrics.PushEvents.WithLabelValues(metrics.PushDelivered).Inc()
	default:
		metrics.PushEvents.WithLabelValues(metrics.PushDropped).Inc()
		h.logger.Warn("push session buffer full, event dropped",
			zap.String("event", env.Event), zap.String("session_id", s.id), zap.Int64("user_id", s.userID))
	}
}

// register adds s to the hub. It reports false once Run has returned.
func (h *Hub) register(s *Session) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return false
	}
	set, ok := h.sessions[s.userID]
	if !ok {
		set = make(map[*Session]struct{})
		h.sessions[s.userID] = set
	}
	set[s] = struct{}{}
	metrics.PushSessions.Inc()
	h.logger.Debug("push session opened", zap.String("session_id", s.id), zap.Int64("user_id", s.userID))
	return true
}

func (h *Hub) unregister(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.sessions[s.userID]
	if !ok {
		return
	}
	if _, ok := set[s]; !ok {
		return
	}
	delete(set, s)
	if len(set) == 0 {
		delete(h.sessions, s.userID)
	}
	close(s.send)
	metrics.PushSessions.Dec()
	h.logger.Debug("push session closed", zap.String("session_id", s.id), zap.Int64("user_id", s.userID))
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for userID, set := range h.sessions {
		for s := range set {
			close(s.send)
			metrics.PushSessions.Dec()
		}
		delete(h.sessions, userID)
	}
}

// Closed reports whether the hub has stopped accepting sessions.
func (h *Hub) Closed() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.closed
}

// SessionCount reports the open sessions of a user on this instance.
func (h *Hub) SessionCount(userID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[userID])
}
