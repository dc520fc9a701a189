package faceauth

import (
	"context"
	"time"
)

const (
	DefaultSimilarityThreshold = 0.92
	MinSimilarityThreshold     = 0.70
	MaxSimilarityThreshold     = 0.98
)

// Config is built once at startup and never changes afterwards.
type Config struct {
	SimilarityThreshold float64
	Dimensionality      int
	MaxFailedAttempts   int
	LockoutWindow       time.Duration
	// Production withholds similarity scores from callers.
	Production bool
}

func DefaultConfig() Config {
	return Config{
		SimilarityThreshold: DefaultSimilarityThreshold,
		Dimensionality:      DefaultDimensionality,
		MaxFailedAttempts:   DefaultMaxAttempts,
		LockoutWindow:       DefaultLockoutWindow,
	}
}

// ClampThreshold keeps a configured threshold inside the safe range.
func ClampThreshold(threshold float64) float64 {
	if threshold < MinSimilarityThreshold {
		return MinSimilarityThreshold
	}
	if threshold > MaxSimilarityThreshold {
		return MaxSimilarityThreshold
	}
	return threshold
}

func (c Config) normalised() Config {
	defaults := DefaultConfig()
	if c.SimilarityThreshold == 0 {
		c.SimilarityThreshold = defaults.SimilarityThreshold
	}
	c.SimilarityThreshold = ClampThreshold(c.SimilarityThreshold)
	if c.Dimensionality <= 0 {
		c.Dimensionality = defaults.Dimensionality
	}
	if c.MaxFailedAttempts <= 0 {
		c.MaxFailedAttempts = defaults.MaxFailedAttempts
	}
	if c.LockoutWindow <= 0 {
		c.LockoutWindow = defaults.LockoutWindow
	}
	return c
}

// FaceCredential is the slice of a user directory entry the service reads.
type FaceCredential struct {
	Identity              string
	HasReferenceEmbedding bool
	ReferenceEmbedding    []float64
}

// CredentialStore is the user directory.
type CredentialStore interface {
	// FindByIdentity returns nil, nil when no account exists.
	FindByIdentity(ctx context.Context, identity string) (*FaceCredential, error)
	// SetReferenceEmbedding replaces the stored reference wholesale.
	SetReferenceEmbedding(ctx context.Context, identity string, embedding []float64) error
}

// Credentials are the opaque session tokens handed back on a verified login.
type Credentials struct {
	SessionID    string    `json:"sessionId"`
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// SessionIssuer mints session credentials for a verified identity.
type SessionIssuer interface {
	Issue(ctx context.Context, identity string) (*Credentials, error)
}

type Status string

const (
	StatusConfigured Status = "Configured"
	StatusVerified   Status = "Verified"
	StatusUpdated    Status = "Updated"
)

type SignupResult struct {
	Status  Status
	Message string
}

type LoginResult struct {
	Verified    bool
	Message     string
	Similarity  *float64
	Credentials *Credentials
}

type UpdateResult struct {
	Success bool
	Message string
}

// RequestMeta describes the client behind an operation, for the audit trail.
type RequestMeta struct {
	ClientIP  string
	UserAgent string
	DeviceID  string
}

type requestMetaKey struct{}

func WithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, requestMetaKey{}, meta)
}

func RequestMetaFrom(ctx context.Context) RequestMeta {
	meta, _ := ctx.Value(requestMetaKey{}).(RequestMeta)
	return meta
}

type Operation string

const (
	OperationSignup Operation = "signup"
	OperationLogin  Operation = "login"
	OperationUpdate Operation = "update"
)

// AuditEvent records the outcome of one operation.
type AuditEvent struct {
	Identity   string      `json:"identity"`
	Operation  Operation   `json:"operation"`
	Outcome    string      `json:"outcome"`
	SessionID  string      `json:"sessionId,omitempty"`
	Similarity *float64    `json:"similarity,omitempty"`
	At         time.Time   `json:"at"`
	Meta       RequestMeta `json:"meta"`
}

// AuditPublisher receives audit events. Publishing is best effort and must
// not block the request.
type AuditPublisher interface {
	Publish(ctx context.Context, event AuditEvent)
}
