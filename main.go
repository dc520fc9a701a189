package main

import (
	"os"

	"arcadeportal.io/infrastructure"
	"arcadeportal.io/infrastructure/env"
	"arcadeportal.io/infrastructure/logger"
)

func main() {
	bootstrap()
	if err := run(); err != nil {
		logger.Error("server stopped with an error", logger.LoggerOptions{Key: "error", Data: err.Error()})
		logger.Sync()
		os.Exit(1)
	}
	logger.Sync()
}

// bootstrap merges .env into the environment and then builds the logger.
func bootstrap() {
	dotEnvErr := env.LoadDotEnv()
	logger.InitializeLogger()
	if dotEnvErr != nil {
		logger.Info("no .env file found, reading configuration from the environment")
	}
}

func run() error {
	cfg, err := env.Load()
	if err != nil {
		return err
	}
	return infrastructure.StartServer(cfg)
}
