package tokenstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/stylashop-pos/internal/domain/repository"
)

var _ repository.TokenStore = (*RedisStore)(nil)

// RedisStore guarda el token bajo una clave de Redis; permite compartir la
// sesión entre la CLI y la consola HTTP en distintas terminales.
type RedisStore struct {
	rdb *redis.Client
	key string
}

// NewRedisStore conecta con la URL (redis://...) y verifica con PING.
func NewRedisStore(ctx context.Context, redisURL, key string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("tokenstore: REDIS_URL inválida: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("tokenstore: ping redis: %w", err)
	}
	return &RedisStore{rdb: rdb, key: key}, nil
}

// NewRedisStoreWithClient usa un cliente ya construido.
func NewRedisStoreWithClient(rdb *redis.Client, key string) *RedisStore {
	return &RedisStore{rdb: rdb, key: key}
}

func (s *RedisStore) Load(ctx context.Context) (string, error) {
	tok, err := s.rdb.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("tokenstore: redis get: %w", err)
	}
	return tok, nil
}

// Save guarda sin TTL; la expiración la decide el claim exp del token.
func (s *RedisStore) Save(ctx context.Context, token string) error {
	if err := s.rdb.Set(ctx, s.key, token, 0).Err(); err != nil {
		return fmt.Errorf("tokenstore: redis set: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.rdb.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("tokenstore: redis del: %w", err)
	}
	return nil
}

// Close cierra la conexión.
func (s *RedisStore) Close() error { return s.rdb.Close() }
