package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	redisClient "arcadeportal.io/infrastructure/database/connection/cache"
	"arcadeportal.io/infrastructure/logger"
)

const maxUpdateRetries = 3

var ErrContention = errors.New("redis key changed concurrently, retries exhausted")

// RedisRepository wraps the shared redis client. Methods return errors
// instead of logging them; callers decide how loud a failure is.
type RedisRepository struct {
	Client *redis.Client
}

func (redisRepo *RedisRepository) preRequest() error {
	if redisRepo.Client == nil {
		client, err := redisClient.GetInstance()
		if err != nil {
			return err
		}
		redisRepo.Client = client
		logger.Info("redis repository initialisation complete")
	}
	return nil
}

// FindOneByteArray returns nil, nil when the key does not exist.
func (redisRepo *RedisRepository) FindOneByteArray(ctx context.Context, key string) ([]byte, error) {
	if err := redisRepo.preRequest(); err != nil {
		return nil, err
	}
	result, err := redisRepo.Client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return result, nil
}

// DeleteOne reports whether a key was removed.
func (redisRepo *RedisRepository) DeleteOne(ctx context.Context, key string) (bool, error) {
	if err := redisRepo.preRequest(); err != nil {
		return false, err
	}
	result, err := redisRepo.Client.Del(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("redis del %s: %w", key, err)
	}
	return result == 1, nil
}

// UpdateEntry applies fn to the current value of key inside an optimistic
// transaction and stores the result with ttl. current is nil when the key is
// absent.
func (redisRepo *RedisRepository) UpdateEntry(ctx context.Context, key string, ttl time.Duration, fn func(current []byte) ([]byte, error)) ([]byte, error) {
	if err := redisRepo.preRequest(); err != nil {
		return nil, err
	}

	var next []byte
	txf := func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, key).Bytes()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if errors.Is(err, redis.Nil) {
			current = nil
		}
		next, err = fn(current)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, next, ttl)
			return nil
		})
		return err
	}

	for i := 0; i < maxUpdateRetries; i++ {
		err := redisRepo.Client.Watch(ctx, txf, key)
		if err == nil {
			return next, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return nil, fmt.Errorf("redis update %s: %w", key, err)
	}
	return nil, ErrContention
}
