package cache

import (
	"context"
	"errors"
	"time"

	"arcadeportal.io/infrastructure/logger"
	"github.com/redis/go-redis/v9"
)

var (
	Client *redis.Client

	ErrNotConnected = errors.New("redis client not connected")
)

// ConnectToCache dials the shared store and pings it. An empty address
// leaves Client nil and is not an error.
func ConnectToCache(addr string, password string, timeout time.Duration) error {
	if addr == "" {
		logger.Info("no redis address configured, shared stores disabled")
		return nil
	}
	client := NewClient(addr, password, timeout)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		logger.Warning("could not reach redis", logger.LoggerOptions{Key: "error", Data: err.Error()}, logger.LoggerOptions{Key: "addr", Data: addr})
		return err
	}

	Client = client
	logger.Info("connected to redis successfully")
	return nil
}

// NewClient builds the shared store client. Every read and write is bounded
// by timeout and by the caller's context deadline.
func NewClient(addr string, password string, timeout time.Duration) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:                  addr,
		Password:              password,
		DB:                    0,
		PoolSize:              10,
		DialTimeout:           2 * time.Second,
		ReadTimeout:           timeout,
		WriteTimeout:          timeout,
		ContextTimeoutEnabled: true,
	})
}

func GetInstance() (*redis.Client, error) {
	if Client == nil {
		return nil, ErrNotConnected
	}
	return Client, nil
}

func Disconnect() {
	if Client == nil {
		return
	}
	if err := Client.Close(); err != nil {
		logger.Error("error closing redis client", logger.LoggerOptions{Key: "error", Data: err.Error()})
	}
	Client = nil
}
