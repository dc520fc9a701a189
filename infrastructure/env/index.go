package env

import (
	"errors"
	"strings"
	"time"

	"arcadeportal.io/application/services/faceauth"
	"arcadeportal.io/infrastructure/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is loaded once at startup and passed by value afterwards.
type Config struct {
	AppEnv  string `mapstructure:"APP_ENV"`
	Port    string `mapstructure:"PORT"`
	GinMode string `mapstructure:"GIN_MODE"`

	DBURL  string `mapstructure:"DB_URL"`
	DBName string `mapstructure:"DB_NAME"`

	// RedisAddr is the shared attempt store endpoint. Empty means in-process only.
	RedisAddr            string `mapstructure:"REDIS_ADDR"`
	RedisPassword        string `mapstructure:"REDIS_PASSWORD"`
	SharedStoreTimeoutMS int    `mapstructure:"SHARED_STORE_TIMEOUT_MS"`

	SimilarityThreshold  float64 `mapstructure:"FACE_SIMILARITY_THRESHOLD"`
	EmbeddingDimensions  int     `mapstructure:"FACE_EMBEDDING_DIMENSIONALITY"`
	MaxFailedAttempts    int     `mapstructure:"FACE_MAX_FAILED_ATTEMPTS"`
	LockoutWindowMinutes int     `mapstructure:"FACE_LOCKOUT_WINDOW_MINUTES"`

	JWTSigningKey   string `mapstructure:"JWT_SIGNING_KEY"`
	JWTIssuer       string `mapstructure:"JWT_ISSUER"`
	AccessTokenTTL  string `mapstructure:"ACCESS_TOKEN_TTL"`
	RefreshTokenTTL string `mapstructure:"REFRESH_TOKEN_TTL"`

	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`
}

// LoadDotEnv copies .env entries into the process environment without
// overriding variables that are already set. It runs before the logger is
// built so APP_ENV from .env picks the production logger.
func LoadDotEnv() error {
	return godotenv.Load()
}

// Load reads the process environment, after LoadDotEnv has merged .env.
func Load() (Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("DB_URL", "")
	v.SetDefault("DB_NAME", "arcadeportal")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("SHARED_STORE_TIMEOUT_MS", 250)
	v.SetDefault("FACE_SIMILARITY_THRESHOLD", faceauth.DefaultSimilarityThreshold)
	v.SetDefault("FACE_EMBEDDING_DIMENSIONALITY", faceauth.DefaultDimensionality)
	v.SetDefault("FACE_MAX_FAILED_ATTEMPTS", faceauth.DefaultMaxAttempts)
	v.SetDefault("FACE_LOCKOUT_WINDOW_MINUTES", int(faceauth.DefaultLockoutWindow/time.Minute))
	v.SetDefault("JWT_SIGNING_KEY", "")
	v.SetDefault("JWT_ISSUER", "arcadeportal")
	v.SetDefault("ACCESS_TOKEN_TTL", "1h")
	v.SetDefault("REFRESH_TOKEN_TTL", "168h")
	v.SetDefault("ALLOWED_ORIGINS", "*")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}

	if cfg.EmbeddingDimensions <= 0 {
		return Config{}, errors.New("env: FACE_EMBEDDING_DIMENSIONALITY must be positive")
	}
	if cfg.MaxFailedAttempts <= 0 {
		return Config{}, errors.New("env: FACE_MAX_FAILED_ATTEMPTS must be positive")
	}
	if cfg.LockoutWindowMinutes <= 0 {
		return Config{}, errors.New("env: FACE_LOCKOUT_WINDOW_MINUTES must be positive")
	}
	if cfg.SharedStoreTimeoutMS <= 0 {
		return Config{}, errors.New("env: SHARED_STORE_TIMEOUT_MS must be positive")
	}

	if clamped := faceauth.ClampThreshold(cfg.SimilarityThreshold); clamped != cfg.SimilarityThreshold {
		logger.Warning("similarity threshold outside the allowed range, clamping",
			logger.LoggerOptions{Key: "configured", Data: cfg.SimilarityThreshold},
			logger.LoggerOptions{Key: "effective", Data: clamped},
		)
		cfg.SimilarityThreshold = clamped
	}

	return cfg, nil
}

func (c Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// FaceAuth derives the service configuration.
func (c Config) FaceAuth() faceauth.Config {
	return faceauth.Config{
		SimilarityThreshold: c.SimilarityThreshold,
		Dimensionality:      c.EmbeddingDimensions,
		MaxFailedAttempts:   c.MaxFailedAttempts,
		LockoutWindow:       time.Duration(c.LockoutWindowMinutes) * time.Minute,
		Production:          c.IsProduction(),
	}
}

func (c Config) SharedStoreTimeout() time.Duration {
	return time.Duration(c.SharedStoreTimeoutMS) * time.Millisecond
}

// AccessTTL returns 1h if ACCESS_TOKEN_TTL is unset or invalid.
func (c Config) AccessTTL() time.Duration {
	d, err := time.ParseDuration(c.AccessTokenTTL)
	if err != nil || d <= 0 {
		return time.Hour
	}
	return d
}

// RefreshTTL returns 168h if REFRESH_TOKEN_TTL is unset or invalid.
func (c Config) RefreshTTL() time.Duration {
	d, err := time.ParseDuration(c.RefreshTokenTTL)
	if err != nil || d <= 0 {
		return 168 * time.Hour
	}
	return d
}

func (c Config) AllowedOriginList() []string {
	parts := strings.Split(c.AllowedOrigins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
