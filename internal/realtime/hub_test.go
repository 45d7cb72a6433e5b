package realtime

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func fakeSession(h *Hub, userID int64, buffer int) *Session {
	s := &Session{id: "s", userID: userID, hub: h, send: make(chan []byte, buffer)}
	h.register(s)
	return s
}

func startHub(t *testing.T, h *Hub) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
}

func receive(t *testing.T, s *Session) Message {
	t.Helper()
	select {
	case frame := <-s.send:
		var msg Message
		require.NoError(t, json.Unmarshal(frame, &msg))
		return msg
	case <-time.After(time.Second):
		t.Fatal("no frame received")
	}
	return Message{}
}

func assertSilent(t *testing.T, s *Session) {
	t.Helper()
	select {
	case frame := <-s.send:
		t.Fatalf("unexpected frame %s", frame)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_SendToUserReachesEverySessionOfThatUser(t *testing.T) {
	h := NewHub(zap.NewNop(), 8, 4)
	phone := fakeSession(h, 1, 4)
	laptop := fakeSession(h, 1, 4)
	other := fakeSession(h, 2, 4)
	startHub(t, h)

	h.SendToUser(1, EventSendNotification, map[string]int64{"id": 9})

	for _, s := range []*Session{phone, laptop} {
		msg := receive(t, s)
		assert.Equal(t, EventSendNotification, msg.Event)
		assert.JSONEq(t, `{"id":9}`, string(msg.Data))
	}
	assertSilent(t, other)
}

func TestHub_SendToUserWithoutSessionIsNoop(t *testing.T) {
	h := NewHub(zap.NewNop(), 8, 4)
	other := fakeSession(h, 2, 4)
	startHub(t, h)

	h.SendToUser(1, EventSendNotification, "x")

	assertSilent(t, other)
	assert.Equal(t, 0, h.SessionCount(1))
}

func TestHub_BroadcastReachesEveryone(t *testing.T) {
	h := NewHub(zap.NewNop(), 8, 4)
	a := fakeSession(h, 1, 4)
	b := fakeSession(h, 2, 4)
	startHub(t, h)

	h.Broadcast(EventReceiveComment, []int{1, 2})

	assert.Equal(t, EventReceiveComment, receive(t, a).Event)
	assert.Equal(t, EventReceiveComment, receive(t, b).Event)
}

func TestHub_FullSessionBufferDropsInsteadOfBlocking(t *testing.T) {
	h := NewHub(zap.NewNop(), 8, 1)
	slow := fakeSession(h, 1, 1)

	h.SendToUser(1, "first", 1)
	h.SendToUser(1, "second", 2)
	h.SendToUser(1, "third", 3)
	for i := 0; i < 3; i++ {
		h.deliver(<-h.queue)
	}

	require.Len(t, slow.send, 1)
	assert.Equal(t, "first", receive(t, slow).Event)
}

func TestHub_EnqueueNeverBlocksWhenQueueIsFull(t *testing.T) {
	h := NewHub(zap.NewNop(), 1, 1)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			h.SendToUser(1, "evt", i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("SendToUser blocked on a full queue")
	}
}

func TestHub_UnregisterRemovesSession(t *testing.T) {
	h := NewHub(zap.NewNop(), 8, 4)
	s := fakeSession(h, 1, 4)
	require.Equal(t, 1, h.SessionCount(1))

	h.unregister(s)
	h.unregister(s)

	assert.Equal(t, 0, h.SessionCount(1))
	_, open := <-s.send
	assert.False(t, open)
}

func TestHub_RunClosesSessionsOnShutdown(t *testing.T) {
	h := NewHub(zap.NewNop(), 8, 4)
	s := fakeSession(h, 1, 4)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(done)
	}()
	cancel()
	<-done

	_, open := <-s.send
	assert.False(t, open)
	assert.Equal(t, 0, h.SessionCount(1))
}

func TestNop_DiscardsEvents(t *testing.T) {
	var d Dispatcher = Nop{}
	d.SendToUser(1, "evt", nil)
	d.Broadcast("evt", nil)
}

func TestHub_RegisterAfterRunReturnsIsRejected(t *testing.T) {
	h := NewHub(zap.NewNop(), 8, 4)
	before := fakeSession(h, 1, 4)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	h.Run(ctx)

	_, open := <-before.send
	assert.False(t, open)
	assert.True(t, h.Closed())

	late := &Session{id: "late", userID: 1, hub: h, send: make(chan []byte, 1)}
	assert.False(t, h.register(late))
	assert.Zero(t, h.SessionCount(1))
}
