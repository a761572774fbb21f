package board

import (
	"context"
	"encoding/json"

	"atomflow/internal/providers/redis"

	"go.uber.org/zap"
)

// Repository is the snapshot blob store. Loads never fail: an absent or
// corrupted blob yields the built-in default so a broken store can only cost
// data, never availability.
type Repository interface {
	LoadCards(ctx context.Context) []*Card
	SaveCards(ctx context.Context, cards []*Card) error
	LoadColumns(ctx context.Context) []*Column
	SaveColumns(ctx context.Context, columns []*Column) error
}

type repository struct {
	redisP *redis.RedisProvider
	logger *zap.SugaredLogger
}

func NewRepository(redisP *redis.RedisProvider, logger *zap.Logger) Repository {
	return &repository{
		redisP: redisP,
		logger: logger.Sugar(),
	}
}

func (r *repository) LoadCards(ctx context.Context) []*Card {
	data, err := r.redisP.Get(ctx, CardsKey).Result()
	if err != nil || data == "" {
		return []*Card{}
	}
	cards, ok := decodeCards(data)
	if !ok {
		r.logger.Warnw("Discarding corrupted snapshot", "key", CardsKey)
		return []*Card{}
	}
	return cards
}

func (r *repository) SaveCards(ctx context.Context, cards []*Card) error {
	return r.save(ctx, CardsKey, cards)
}

func (r *repository) LoadColumns(ctx context.Context) []*Column {
	data, err := r.redisP.Get(ctx, ColumnsKey).Result()
	if err != nil || data == "" {
		return DefaultColumns()
	}
	columns, ok := decodeColumns(data)
	if !ok {
		r.logger.Warnw("Discarding corrupted snapshot", "key", ColumnsKey)
		return DefaultColumns()
	}
	if len(columns) == 0 {
		return DefaultColumns()
	}
	return columns
}

func (r *repository) SaveColumns(ctx context.Context, columns []*Column) error {
	return r.save(ctx, ColumnsKey, columns)
}

// decodeCards rejects the blob wholesale on any decode error. json.Unmarshal
// fills the slice with every element it decoded before failing, so the
// partially filled result must never be handed to the controller.
func decodeCards(data string) ([]*Card, bool) {
	var cards []*Card
	if err := json.Unmarshal([]byte(data), &cards); err != nil {
		return nil, false
	}
	if cards == nil {
		cards = []*Card{}
	}
	return cards, true
}

func decodeColumns(data string) ([]*Column, bool) {
	var columns []*Column
	if err := json.Unmarshal([]byte(data), &columns); err != nil {
		return nil, false
	}
	return columns, true
}

func (r *repository) save(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.redisP.Set(ctx, key, data).Err()
}
