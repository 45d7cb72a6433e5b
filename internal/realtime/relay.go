package realtime

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"webdating-engagement/internal/metrics"
)

const publishTimeout = 2 * time.Second

// RedisRelay shares push events between instances. Every event is published
// on a Redis channel and each instance delivers what it receives to its own
// Hub, so a user connected to any instance gets the event.
//
// Outgoing events wait in a bounded outbox drained by Run. A full outbox
// drops the event, like a full Hub queue.
type RedisRelay struct {
	client  *redis.Client
	channel string
	hub     *Hub
	outbox  chan Envelope
	logger  *zap.Logger
}

func NewRedisRelay(client *redis.Client, channel string, hub *Hub, queueSize int, logger *zap.Logger) *RedisRelay {
	if queueSize <= 0 {
		queueSize = 256
	}
	return &RedisRelay{
		client:  client,
		channel: channel,
		hub:     hub,
		outbox:  make(chan Envelope, queueSize),
		logger:  logger,
	}
}

func (r *RedisRelay) SendToUser(userID int64, event string, payload any) {
	env, err := newEnvelope(userID, event, payload)
	if err != nil {
		r.logger.Error("encode push payload", zap.String("event", event), zap.Error(err))
		metrics.PushEvents.WithLabelValues(metrics.PushFailed).Inc()
		return
	}

	select {
	case r.outbox <- env:
	default:
		metrics.PushEvents.WithLabelValues(metrics.PushDropped).Inc()
		r.logger.Warn("relay outbox full, event dropped",
			zap.String("event", env.Event), zap.Int64("user_id", env.UserID))
	}
}

func (r *RedisRelay) Broadcast(event string, payload any) {
	r.SendToUser(0, event, payload)
}

// publish sends env to every instance. When Redis cannot be reached the
// event is still delivered to this instance's sessions.
func (r *RedisRelay) publish(ctx context.Context, env Envelope) {
	data, err := json.Marshal(env)
	if err != nil {
		r.logger.Error("encode push envelope", zap.String("event", env.Event), zap.Error(err))
		metrics.PushEvents.WithLabelValues(metrics.PushFailed).Inc()
		return
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := r.client.Publish(ctx, r.channel, data).Err(); err != nil {
		r.logger.Warn("publish push event, delivering locally",
			zap.String("event", env.Event), zap.Error(err))
		metrics.PushEvents.WithLabelValues(metrics.PushFailed).Inc()
		r.hub.Enqueue(env)
		return
	}
	metrics.PushEvents.WithLabelValues(metrics.PushRelayed).Inc()
}

func (r *RedisRelay) drainOutbox(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case env := <-r.outbox:
			r.publish(ctx, env)
		}
	}
}

// Run subscribes to the relay channel, publishes queued events and feeds
// received ones to the local Hub until ctx is cancelled.
func (r *RedisRelay) Run(ctx context.Context) error {
	sub := r.client.Subscribe(ctx, r.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		r.drainOutbox(ctx)
	}()
	defer func() {
		cancel()
		<-done
	}()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var env Envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				r.logger.Warn("discard malformed push envelope", zap.Error(err))
				continue
			}
			r.hub.Enqueue(env)
		}
	}
}
