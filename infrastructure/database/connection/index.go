package connection

import (
	"arcadeportal.io/infrastructure/database/connection/cache"
	"arcadeportal.io/infrastructure/database/connection/datastore"
	"arcadeportal.io/infrastructure/env"
	"arcadeportal.io/infrastructure/logger"
)

// ConnectToDatabase fails only when the user directory is unreachable.
// An unreachable redis leaves the process running on in-process stores.
func ConnectToDatabase(cfg env.Config) error {
	if err := datastore.ConnectToDatabase(cfg.DBURL, cfg.DBName); err != nil {
		return err
	}
	if err := cache.ConnectToCache(cfg.RedisAddr, cfg.RedisPassword, cfg.SharedStoreTimeout()); err != nil {
		logger.Warning("continuing without the shared store", logger.LoggerOptions{Key: "error", Data: err.Error()})
	}
	return nil
}

func Disconnect() {
	cache.Disconnect()
	datastore.Disconnect()
}
