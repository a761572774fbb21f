package board

import (
	"context"
	"encoding/json"

	"atomflow/internal/providers/redis"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type syncMessage struct {
	Origin  string          `json:"origin"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// SyncBus mirrors snapshots across service instances over a Redis pub/sub
// channel. Every message carries the publishing instance's id and a
// subscriber drops its own messages, the same way a browser storage event
// only ever fires in tabs other than the writer. Delivery is
// last-writer-wins at whole-snapshot granularity; there is no merge.
type SyncBus struct {
	redisP  *redis.RedisProvider
	channel string
	origin  string
	logger  *zap.SugaredLogger
}

func NewSyncBus(redisP *redis.RedisProvider, channel string, logger *zap.Logger) *SyncBus {
	return &SyncBus{
		redisP:  redisP,
		channel: channel,
		origin:  uuid.NewString(),
		logger:  logger.Sugar(),
	}
}

func (b *SyncBus) PublishCards(cards []*Card) {
	b.publish(EventCardsUpdated, cards)
}

func (b *SyncBus) PublishColumns(columns []*Column) {
	b.publish(EventColumnsUpdated, columns)
}

// publish is fire-and-forget: a failed broadcast is logged and dropped, the
// local write has already landed.
func (b *SyncBus) publish(msgType string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		b.logger.Warnw("Failed to encode sync payload", "type", msgType, "error", err)
		return
	}
	data, err := json.Marshal(syncMessage{
		Origin:  b.origin,
		Type:    msgType,
		Payload: raw,
	})
	if err != nil {
		b.logger.Warnw("Failed to encode sync message", "type", msgType, "error", err)
		return
	}
	if err := b.redisP.Publish(context.Background(), b.channel, data).Err(); err != nil {
		b.logger.Warnw("Failed to publish sync message", "type", msgType, "error", err)
	}
}

// Listen applies foreign snapshots to the board service until the context is
// cancelled. The subscription is released on cancellation; nothing leaks
// past shutdown.
func (b *SyncBus) Listen(ctx context.Context, svc Service) {
	sub := b.redisP.Subscribe(ctx, b.channel)
	go func() {
		<-ctx.Done()
		if err := sub.Close(); err != nil {
			b.logger.Warnw("Failed to close sync subscription", "error", err)
		}
	}()

	b.logger.Infow("Sync bus listening", "channel", b.channel, "origin", b.origin)

	for msg := range sub.Channel() {
		var m syncMessage
		if err := json.Unmarshal([]byte(msg.Payload), &m); err != nil {
			b.logger.Warnw("Dropping malformed sync message", "error", err)
			continue
		}
		if m.Origin == b.origin {
			continue
		}

		switch m.Type {
		case EventCardsUpdated:
			var cards []*Card
			if err := json.Unmarshal(m.Payload, &cards); err != nil {
				b.logger.Warnw("Dropping malformed cards snapshot", "error", err)
				continue
			}
			svc.ApplyCards(cards)
		case EventColumnsUpdated:
			var columns []*Column
			if err := json.Unmarshal(m.Payload, &columns); err != nil {
				b.logger.Warnw("Dropping malformed columns snapshot", "error", err)
				continue
			}
			svc.ApplyColumns(columns)
		default:
			b.logger.Debugw("Ignoring unknown sync message", "type", m.Type)
		}
	}
}
