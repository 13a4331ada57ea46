package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-storefront/internal/errors"
)

var _ Repo = (*RedisRepo)(nil)

// RedisRepo stores each session as a JSON value under prefix+id with a TTL
type RedisRepo struct {
	redis  redis.UniversalClient
	prefix string
	ttl    time.Duration
}

func NewRedisRepo(client redis.UniversalClient, prefix string, ttl time.Duration) *RedisRepo {
	return &RedisRepo{
		redis:  client,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (r *RedisRepo) key(id string) string {
	return r.prefix + id
}

func (r *RedisRepo) LoadAll(ctx context.Context) (map[string]Session, error) {
	var (
		cursor uint64
		keys   []string
	)
	for {
		batch, next, err := r.redis.Scan(ctx, cursor, r.prefix+"*", 500).Result()
		if err != nil {
			return nil, errors.Wrapf(errors.ErrUnavailable, "scan sessions: %v", err)
		}
		keys = append(keys, batch...)
		cursor = next
		if cursor == 0 {
			break
		}
	}

	out := make(map[string]Session, len(keys))
	if len(keys) == 0 {
		return out, nil
	}

	values, err := r.redis.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, errors.Wrapf(errors.ErrUnavailable, "load sessions: %v", err)
	}
	var corrupt []string
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			// expired between SCAN and MGET
			continue
		}
		var s Session
		if err := json.Unmarshal([]byte(raw), &s); err != nil {
			log.Warn().Err(err).Str("session", shortID(keys[i][len(r.prefix):])).Msg("Dropping undecodable session")
			corrupt = append(corrupt, keys[i])
			continue
		}
		out[keys[i][len(r.prefix):]] = s
	}
	if len(corrupt) > 0 {
		if err := r.redis.Del(ctx, corrupt...).Err(); err != nil {
			log.Err(err).Int("keys", len(corrupt)).Msg("Failed to delete corrupt sessions")
		}
	}
	return out, nil
}

func (r *RedisRepo) Save(ctx context.Context, id string, s Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return errors.Wrapf(err, "encode session")
	}
	if err := r.redis.Set(ctx, r.key(id), data, r.ttl).Err(); err != nil {
		return errors.Wrapf(errors.ErrUnavailable, "save session: %v", err)
	}
	return nil
}

func (r *RedisRepo) Delete(ctx context.Context, id string) error {
	if err := r.redis.Del(ctx, r.key(id)).Err(); err != nil {
		return errors.Wrapf(errors.ErrUnavailable, "delete session: %v", err)
	}
	return nil
}
