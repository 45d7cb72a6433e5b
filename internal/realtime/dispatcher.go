// Package realtime pushes engagement events to connected clients over
// websockets. Delivery is best effort: events for users without an open
// session, or for sessions that cannot keep up, are dropped.
package realtime

import "encoding/json"

const (
	EventSendNotification = "SendNotification"
	EventReceiveComment   = "ReceiveComment"
)

// Dispatcher is the push channel used by the services. Implementations never
// block the caller and never report delivery errors.
type Dispatcher interface {
	SendToUser(userID int64, event string, payload any)
	Broadcast(event string, payload any)
}

// Envelope is one event on its way to sessions. UserID 0 addresses every
// connected session.
type Envelope struct {
	UserID  int64           `json:"user_id,omitempty"`
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// Message is the frame written to the websocket.
type Message struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func newEnvelope(userID int64, event string, payload any) (Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{UserID: userID, Event: event, Payload: raw}, nil
}

// Nop discards every event. It is used when push is disabled.
type Nop struct{}

func (Nop) SendToUser(int64, string, any) {}
func (Nop) Broadcast(string, any)         {}
