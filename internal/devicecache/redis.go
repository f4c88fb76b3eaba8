package devicecache

import (
	"context"
	"errors"
	"fmt"

	"github.com/evdc-project/enocean-vdc/internal/config"
	"github.com/evdc-project/enocean-vdc/internal/devices"
	"github.com/redis/go-redis/v9"
)

// redisStore shares RuntimeState across every instance of this core that
// points at the same Redis server, so a clustered deployment's HTTP status
// surface sees consistent per-device runtime data regardless of which
// instance last handled a telegram for that device.
type redisStore struct {
	client *redis.Client
}

func newRedisStore(cfg *config.Config) (*redisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
	})
	return &redisStore{client: client}, nil
}

func (s *redisStore) Get(ctx context.Context, key devices.Key) (RuntimeState, bool, error) {
	raw, err := s.client.Get(ctx, cacheKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return RuntimeState{}, false, nil
	}
	if err != nil {
		return RuntimeState{}, false, fmt.Errorf("devicecache: redis get: %w", err)
	}
	state, _, err := RuntimeState{}.UnmarshalMsg(raw)
	if err != nil {
		return RuntimeState{}, false, fmt.Errorf("devicecache: decode runtime state: %w", err)
	}
	return state, true, nil
}

func (s *redisStore) Put(ctx context.Context, key devices.Key, state RuntimeState) error {
	raw, err := state.MarshalMsg(nil)
	if err != nil {
		return fmt.Errorf("devicecache: encode runtime state: %w", err)
	}
	if err := s.client.Set(ctx, cacheKey(key), raw, 0).Err(); err != nil {
		return fmt.Errorf("devicecache: redis set: %w", err)
	}
	return nil
}

func (s *redisStore) Delete(ctx context.Context, key devices.Key) error {
	if err := s.client.Del(ctx, cacheKey(key)).Err(); err != nil {
		return fmt.Errorf("devicecache: redis del: %w", err)
	}
	return nil
}

func (s *redisStore) Close() error {
	return s.client.Close()
}
