// Package redis implementa el puerto KVStore sobre Redis: cada clave es un string
// con prefijo configurable.
package redis

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/inventory-system/internal/domain/repository"
	"github.com/jhoicas/inventory-system/pkg/config"
)

var _ repository.KVStore = (*KVStore)(nil)

// KVStore adaptador Redis.
type KVStore struct {
	client *goredis.Client
	prefix string
}

// NewClient abre el cliente y verifica la conexión con PING.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	return client, nil
}

// NewKVStore construye el adaptador sobre un cliente ya abierto.
func NewKVStore(client *goredis.Client, prefix string) *KVStore {
	return &KVStore{client: client, prefix: prefix}
}

// Load GET prefix+key; redis.Nil significa ausente.
func (s *KVStore) Load(ctx context.Context, key string) (string, bool, error) {
	blob, err := s.client.Get(ctx, s.prefix+key).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("redis get %q: %w", key, err)
	}
	return blob, true, nil
}

// Save SET prefix+key sin expiración.
func (s *KVStore) Save(ctx context.Context, key, blob string) error {
	if err := s.client.Set(ctx, s.prefix+key, blob, 0).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}
