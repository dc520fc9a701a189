package startup

import (
	"errors"

	"arcadeportal.io/application/controller"
	"arcadeportal.io/application/repository"
	"arcadeportal.io/application/services/faceauth"
	"arcadeportal.io/infrastructure/auth"
	"arcadeportal.io/infrastructure/database"
	"arcadeportal.io/infrastructure/database/connection/cache"
	cacheRepo "arcadeportal.io/infrastructure/database/repository/cache"
	"arcadeportal.io/infrastructure/env"
	"arcadeportal.io/infrastructure/logger"
	messagequeue "arcadeportal.io/infrastructure/message_queue"
)

type Services struct {
	FaceAuth           *faceauth.Service
	Ledger             *faceauth.ResilientLedger
	FaceAuthController *controller.FaceAuthController
}

// Used to start services such as databases, queues and the face auth service.
func StartServices(cfg env.Config) (*Services, error) {
	if cfg.JWTSigningKey == "" {
		if cfg.IsProduction() {
			return nil, errors.New("JWT_SIGNING_KEY must be set in production")
		}
		logger.Warning("JWT_SIGNING_KEY is not set, face logins will fail to issue sessions")
	}

	if err := database.SetUpDatabase(cfg); err != nil {
		return nil, err
	}

	faceConfig := cfg.FaceAuth()

	var primary faceauth.AttemptLedger
	if cache.Client != nil {
		primary = repository.NewRedisAttemptLedger(&cacheRepo.RedisRepository{Client: cache.Client}, faceConfig.LockoutWindow, cfg.SharedStoreTimeout())
	}
	ledger := faceauth.NewResilientLedger(primary, faceauth.NewMemoryLedger(faceConfig.LockoutWindow, nil))
	logger.Info("attempt ledger ready", logger.LoggerOptions{Key: "mode", Data: ledger.Mode()})

	opts := []faceauth.Option{}
	if cache.Client != nil {
		if err := messagequeue.StartQueue(cfg.RedisAddr, cfg.RedisPassword); err == nil && messagequeue.TaskQueue != nil {
			opts = append(opts, faceauth.WithAuditPublisher(messagequeue.NewAuditPublisher(messagequeue.TaskQueue)))
		}
	}
	if len(opts) == 0 {
		logger.Info("face auth audit trail disabled, no task queue available")
	}

	issuer := auth.NewJWTSessionIssuer(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.AccessTTL(), cfg.RefreshTTL())
	service := faceauth.NewService(
		faceConfig,
		repository.NewFaceCredentialStore(repository.UserRepo()),
		ledger,
		issuer,
		opts...,
	)

	return &Services{
		FaceAuth:           service,
		Ledger:             ledger,
		FaceAuthController: controller.NewFaceAuthController(service, ledger.Mode),
	}, nil
}

// Used to clean up after services that have been shutdown.
func CleanUpServices() {
	messagequeue.StopQueue()
	database.CleanUpDatabase()
	logger.Sync()
}
