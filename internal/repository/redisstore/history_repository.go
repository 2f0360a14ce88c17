package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"solemate-be/internal/repository/contract"
	"solemate-be/pkg/store"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "solemate:history:"

// HistoryRepository keeps transcripts in Redis lists so several API
// instances can serve the same session. Pair it with SessionLock so turns of
// one session stay serialized across instances.
type HistoryRepository struct {
	rdb *redis.Client
	ttl time.Duration
}

var _ contract.HistoryRepository = &HistoryRepository{}

// NewHistoryRepository creates the store. A ttl of zero never expires keys.
func NewHistoryRepository(rdb *redis.Client, ttl time.Duration) *HistoryRepository {
	return &HistoryRepository{rdb: rdb, ttl: ttl}
}

func key(sessionID string) string {
	return keyPrefix + sessionID
}

func (r *HistoryRepository) Load(ctx context.Context, sessionID string) ([]store.Turn, error) {
	raw, err := r.rdb.LRange(ctx, key(sessionID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	turns := make([]store.Turn, 0, len(raw))
	for _, item := range raw {
		var turn store.Turn
		if err := json.Unmarshal([]byte(item), &turn); err != nil {
			return nil, fmt.Errorf("decode turn: %w", err)
		}
		turns = append(turns, turn)
	}
	return turns, nil
}

// Append pushes all turns in one transaction so a turn pair is never split
func (r *HistoryRepository) Append(ctx context.Context, sessionID string, turns ...store.Turn) error {
	if len(turns) == 0 {
		return nil
	}

	values := make([]interface{}, 0, len(turns))
	for _, turn := range turns {
		data, err := json.Marshal(turn)
		if err != nil {
			return fmt.Errorf("encode turn: %w", err)
		}
		values = append(values, data)
	}

	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key(sessionID), values...)
		if r.ttl > 0 {
			pipe.Expire(ctx, key(sessionID), r.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}

func (r *HistoryRepository) Delete(ctx context.Context, sessionID string) error {
	if err := r.rdb.Del(ctx, key(sessionID)).Err(); err != nil {
		return fmt.Errorf("delete history: %w", err)
	}
	return nil
}
