package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	apperrors "arcadeportal.io/application/appErrors"
	"arcadeportal.io/application/controller"
	"arcadeportal.io/infrastructure/env"
	"arcadeportal.io/infrastructure/logger"
	middlewares "arcadeportal.io/infrastructure/middleware"
	ratelimit "arcadeportal.io/infrastructure/ratelimit"
	webRoutev1 "arcadeportal.io/infrastructure/routes/ginRouter/web/v1"
	server_response "arcadeportal.io/infrastructure/serverResponse"
	startup "arcadeportal.io/infrastructure/startUp"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const (
	requestsPerSecondPerIP = 25
	loginsPerSecondPerIP   = 5
)

type ginServer struct {
	cfg env.Config
}

// NewRouter builds the HTTP surface around an already constructed controller.
func NewRouter(cfg env.Config, faceAuthController *controller.FaceAuthController) *gin.Engine {
	server := gin.Default()
	corsConfig := cors.Config{
		AllowOrigins:     cfg.AllowedOriginList(),
		AllowMethods:     []string{"GET", "POST", "PUT"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-Device-Id", "User-Agent"},
		ExposeHeaders:    []string{"Content-Length", "Retry-After"},
		AllowCredentials: !containsWildcard(cfg.AllowedOriginList()),
		MaxAge:           12 * time.Hour,
	}
	server.Use(cors.New(corsConfig))
	server.Use(ratelimit.TokenBucketPerIP(requestsPerSecondPerIP))

	api := server.Group("/api")
	api.Use(middlewares.RequestMetaMiddleware())

	routerV1 := api.Group("/v1")
	{
		webRoutev1.FaceAuthRouter(routerV1, faceAuthController, loginsPerSecondPerIP)
	}

	server.GET("/ping", func(ctx *gin.Context) {
		server_response.Responder.Respond(ctx, http.StatusOK, "pong!", nil, nil, nil)
	})

	server.NoRoute(func(ctx *gin.Context) {
		apperrors.NotFoundError(ctx, fmt.Sprintf("%s %s does not exist", ctx.Request.Method, ctx.Request.URL), nil)
	})
	return server
}

func (s *ginServer) Start() error {
	switch s.cfg.GinMode {
	case gin.DebugMode, gin.ReleaseMode:
		gin.SetMode(s.cfg.GinMode)
	default:
		return fmt.Errorf("invalid gin mode used - %s", s.cfg.GinMode)
	}

	services, err := startup.StartServices(s.cfg)
	if err != nil {
		return err
	}
	defer startup.CleanUpServices()

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%s", s.cfg.Port),
		Handler:           NewRouter(s.cfg, services.FaceAuthController),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info(fmt.Sprintf("Server starting on PORT %s", s.cfg.Port))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	}
}

func containsWildcard(origins []string) bool {
	for _, origin := range origins {
		if origin == "*" {
			return true
		}
	}
	return false
}
