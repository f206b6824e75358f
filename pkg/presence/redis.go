package presence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisTTL bounds how long an idle canvas keeps presence keys.
const DefaultRedisTTL = 10 * time.Minute

// upsertScript writes the record and its server-side timestamp atomically.
// KEYS[1] hash of user -> record JSON, KEYS[2] zset of user -> last active
// milliseconds. ARGV: user id, record JSON, ttl milliseconds.
var upsertScript = redis.NewScript(`
local t = redis.call('TIME')
local ms = tonumber(t[1]) * 1000 + math.floor(tonumber(t[2]) / 1000)
local prev = redis.call('ZSCORE', KEYS[2], ARGV[1])
if prev and tonumber(prev) > ms then
	return tonumber(prev)
end
redis.call('HSET', KEYS[1], ARGV[1], ARGV[2])
redis.call('ZADD', KEYS[2], ms, ARGV[1])
redis.call('PEXPIRE', KEYS[1], ARGV[3])
redis.call('PEXPIRE', KEYS[2], ARGV[3])
return ms
`)

// RedisStore keeps presence in Redis so every server instance sees the same
// collaborators. Timestamps come from the Redis server clock.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedisStore wraps an existing client. An empty prefix defaults to
// "artboard:presence"; a non-positive ttl selects DefaultRedisTTL.
func NewRedisStore(client redis.UniversalClient, prefix string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = "artboard:presence"
	}
	if ttl <= 0 {
		ttl = DefaultRedisTTL
	}
	return &RedisStore{client: client, prefix: prefix, ttl: ttl}
}

// keys share a hash tag so the upsert script's two keys land in one
// cluster slot.
func (s *RedisStore) keys(canvasID string) (records, stamps string) {
	base := fmt.Sprintf("%s:{%s}", s.prefix, canvasID)
	return base, base + ":ts"
}

func (s *RedisStore) Upsert(ctx context.Context, rec Record) (Record, error) {
	if err := validate(rec.CanvasID, rec.UserID); err != nil {
		return Record{}, err
	}
	fill(&rec)
	rec.LastActive = time.Time{}
	data, err := json.Marshal(rec)
	if err != nil {
		return Record{}, fmt.Errorf("marshal presence: %w", err)
	}
	hk, zk := s.keys(rec.CanvasID)
	ms, err := upsertScript.Run(ctx, s.client, []string{hk, zk}, rec.UserID, data, s.ttl.Milliseconds()).Int64()
	if err != nil {
		return Record{}, fmt.Errorf("upsert presence: %w", err)
	}
	rec.LastActive = time.UnixMilli(ms)
	return rec, nil
}

func (s *RedisStore) List(ctx context.Context, canvasID string) ([]Record, error) {
	hk, zk := s.keys(canvasID)
	var (
		hashCmd *redis.MapStringStringCmd
		zsetCmd *redis.ZSliceCmd
	)
	_, err := s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		hashCmd = pipe.HGetAll(ctx, hk)
		zsetCmd = pipe.ZRangeWithScores(ctx, zk, 0, -1)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list presence: %w", err)
	}

	stamps := make(map[string]time.Time)
	for _, z := range zsetCmd.Val() {
		if member, ok := z.Member.(string); ok {
			stamps[member] = time.UnixMilli(int64(z.Score))
		}
	}
	out := make([]Record, 0, len(hashCmd.Val()))
	for user, raw := range hashCmd.Val() {
		var rec Record
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			continue
		}
		rec.LastActive = stamps[user]
		out = append(out, rec)
	}
	return out, nil
}

func (s *RedisStore) Delete(ctx context.Context, canvasID, userID string) error {
	hk, zk := s.keys(canvasID)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HDel(ctx, hk, userID)
		pipe.ZRem(ctx, zk, userID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete presence: %w", err)
	}
	return nil
}

// Close closes the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

var _ Store = (*RedisStore)(nil)
