package faceauth

import (
	"context"
	"fmt"
	"time"

	"arcadeportal.io/application/utils"
	"arcadeportal.io/infrastructure/logger"
)

// Service binds face embeddings to identities and verifies logins against them.
type Service struct {
	config Config
	policy LockoutPolicy

	store  CredentialStore
	ledger AttemptLedger
	issuer SessionIssuer
	audit  AuditPublisher

	scorer     Scorer
	nowF       func() time.Time
	failureLog *logger.KeyedThrottled
}

type Option func(*Service)

func WithClock(clock func() time.Time) Option {
	return func(s *Service) { s.nowF = clock }
}

func WithScorer(scorer Scorer) Option {
	return func(s *Service) { s.scorer = scorer }
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) { s.audit = publisher }
}

func NewService(config Config, store CredentialStore, ledger AttemptLedger, issuer SessionIssuer, opts ...Option) *Service {
	config = config.normalised()
	s := &Service{
		config: config,
		policy: LockoutPolicy{
			MaxAttempts: config.MaxFailedAttempts,
			Window:      config.LockoutWindow,
		},
		store:      store,
		ledger:     ledger,
		issuer:     issuer,
		scorer:     CosineSimilarity,
		nowF:       time.Now,
		failureLog: logger.NewKeyedThrottled(time.Minute),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Config returns the effective configuration after defaults and clamping.
func (s *Service) Config() Config {
	return s.config
}

// Signup stores the first reference embedding for an existing identity.
func (s *Service) Signup(ctx context.Context, identity string, values []float64) (*SignupResult, error) {
	identity = utils.NormalizeEmail(identity)

	candidate, err := NewEmbedding(values, s.config.Dimensionality)
	if err != nil {
		return nil, s.reject(ctx, OperationSignup, identity, &Error{Kind: InvalidEmbedding, Message: err.Error()})
	}

	credential, faErr := s.lookup(ctx, identity)
	if faErr != nil {
		return nil, s.reject(ctx, OperationSignup, identity, faErr)
	}
	if credential.HasReferenceEmbedding {
		return nil, s.reject(ctx, OperationSignup, identity, newError(AlreadyConfigured, "face authentication is already set up for this account"))
	}

	if err := s.store.SetReferenceEmbedding(ctx, identity, candidate.Values()); err != nil {
		return nil, s.reject(ctx, OperationSignup, identity, s.directoryFailure("signup", identity, err))
	}

	s.publish(ctx, AuditEvent{Identity: identity, Operation: OperationSignup, Outcome: string(StatusConfigured)})
	return &SignupResult{
		Status:  StatusConfigured,
		Message: "face authentication set up successfully",
	}, nil
}

// Login verifies a candidate embedding and issues session credentials on a match.
func (s *Service) Login(ctx context.Context, identity string, values []float64) (*LoginResult, error) {
	identity = utils.NormalizeEmail(identity)

	candidate, err := NewEmbedding(values, s.config.Dimensionality)
	if err != nil {
		return nil, s.reject(ctx, OperationLogin, identity, &Error{Kind: InvalidEmbedding, Message: err.Error()})
	}

	credential, faErr := s.lookup(ctx, identity)
	if faErr != nil {
		return nil, s.reject(ctx, OperationLogin, identity, faErr)
	}
	if !credential.HasReferenceEmbedding {
		return nil, s.reject(ctx, OperationLogin, identity, newError(NotConfigured, "face authentication is not set up for this account"))
	}
	reference, err := NewEmbedding(credential.ReferenceEmbedding, s.config.Dimensionality)
	if err != nil {
		logger.Error("stored reference embedding failed validation",
			logger.LoggerOptions{Key: "identity", Data: identity},
			logger.LoggerOptions{Key: "error", Data: err.Error()},
		)
		return nil, s.reject(ctx, OperationLogin, identity, newError(NotConfigured, "stored face data is unusable, update your face data to continue"))
	}

	record, err := s.ledger.Get(ctx, identity)
	if err != nil {
		logger.Warning("could not read attempt record, assuming none",
			logger.LoggerOptions{Key: "identity", Data: identity},
			logger.LoggerOptions{Key: "error", Data: err.Error()},
		)
		record = AttemptRecord{}
	}
	now := s.nowF()
	if s.policy.IsLockedOut(record, now) {
		remaining := s.policy.Remaining(record, now)
		lockErr := &Error{
			Kind:       LockedOut,
			Message:    fmt.Sprintf("too many failed attempts, try again in %d minutes", ceilMinutes(remaining)),
			RetryAfter: remaining,
		}
		return nil, s.reject(ctx, OperationLogin, identity, lockErr)
	}

	score := s.scorer(candidate.values, reference.values)
	if score < s.config.SimilarityThreshold {
		return nil, s.reject(ctx, OperationLogin, identity, s.verificationFailed(ctx, identity, score))
	}

	if err := s.ledger.Reset(ctx, identity); err != nil {
		logger.Warning("could not reset attempt record after verification",
			logger.LoggerOptions{Key: "identity", Data: identity},
			logger.LoggerOptions{Key: "error", Data: err.Error()},
		)
	}

	credentials, err := s.issuer.Issue(ctx, identity)
	if err != nil || credentials == nil {
		logger.Error("session issuance failed after face verification",
			logger.LoggerOptions{Key: "identity", Data: identity},
			logger.LoggerOptions{Key: "error", Data: err},
		)
		return nil, s.reject(ctx, OperationLogin, identity, &Error{
			Kind:    SessionIssuanceFailed,
			Message: "could not start a session, please try again",
			Err:     err,
		})
	}

	issuedAt := s.nowF()
	logger.Info("face login verified",
		logger.LoggerOptions{Key: "timestamp", Data: issuedAt},
		logger.LoggerOptions{Key: "identity", Data: identity},
		logger.LoggerOptions{Key: "session", Data: credentials.SessionID},
	)
	s.publish(ctx, AuditEvent{
		Identity:   identity,
		Operation:  OperationLogin,
		Outcome:    string(StatusVerified),
		SessionID:  credentials.SessionID,
		Similarity: s.exposedScore(score),
		At:         issuedAt,
	})

	return &LoginResult{
		Verified:    true,
		Message:     "face verified successfully",
		Similarity:  s.exposedScore(score),
		Credentials: credentials,
	}, nil
}

// UpdateEmbedding replaces an existing reference embedding. It never creates one.
func (s *Service) UpdateEmbedding(ctx context.Context, identity string, values []float64) (*UpdateResult, error) {
	identity = utils.NormalizeEmail(identity)

	candidate, err := NewEmbedding(values, s.config.Dimensionality)
	if err != nil {
		return nil, s.reject(ctx, OperationUpdate, identity, &Error{Kind: InvalidEmbedding, Message: err.Error()})
	}

	credential, faErr := s.lookup(ctx, identity)
	if faErr != nil {
		return nil, s.reject(ctx, OperationUpdate, identity, faErr)
	}
	if !credential.HasReferenceEmbedding {
		return nil, s.reject(ctx, OperationUpdate, identity, newError(NotConfigured, "face authentication is not set up for this account"))
	}

	if err := s.store.SetReferenceEmbedding(ctx, identity, candidate.Values()); err != nil {
		return nil, s.reject(ctx, OperationUpdate, identity, s.directoryFailure("update", identity, err))
	}

	s.publish(ctx, AuditEvent{Identity: identity, Operation: OperationUpdate, Outcome: string(StatusUpdated)})
	return &UpdateResult{
		Success: true,
		Message: "face data updated successfully",
	}, nil
}

func (s *Service) lookup(ctx context.Context, identity string) (*FaceCredential, *Error) {
	credential, err := s.store.FindByIdentity(ctx, identity)
	if err != nil {
		return nil, s.directoryFailure("lookup", identity, err)
	}
	if credential == nil {
		return nil, newError(IdentityNotFound, "account not found")
	}
	return credential, nil
}

func (s *Service) verificationFailed(ctx context.Context, identity string, score float64) *Error {
	updated, err := s.ledger.RecordFailure(ctx, identity)
	if err != nil {
		logger.Warning("could not record failed attempt",
			logger.LoggerOptions{Key: "identity", Data: identity},
			logger.LoggerOptions{Key: "error", Data: err.Error()},
		)
	}
	left := s.policy.AttemptsLeft(updated)

	message := fmt.Sprintf("face verification failed, %d attempts remaining", left)
	if err == nil && s.policy.IsLockedOut(updated, s.nowF()) {
		message = fmt.Sprintf("face verification failed, too many failed attempts, try again in %d minutes",
			s.policy.RetryAfterMinutes(updated, s.nowF()))
	}

	s.failureLog.Warning(identity, "face verification failed",
		logger.LoggerOptions{Key: "identity", Data: identity},
		logger.LoggerOptions{Key: "failedAttempts", Data: updated.Count},
	)

	return &Error{
		Kind:         VerificationFailed,
		Message:      message,
		Similarity:   s.exposedScore(score),
		AttemptsLeft: &left,
	}
}

func (s *Service) directoryFailure(op string, identity string, err error) *Error {
	logger.Error("user directory call failed",
		logger.LoggerOptions{Key: "operation", Data: op},
		logger.LoggerOptions{Key: "identity", Data: identity},
		logger.LoggerOptions{Key: "error", Data: err.Error()},
	)
	return &Error{Kind: Internal, Message: "something went wrong, please try again later", Err: err}
}

// reject publishes the failed outcome and returns faErr.
func (s *Service) reject(ctx context.Context, op Operation, identity string, faErr *Error) error {
	s.publish(ctx, AuditEvent{
		Identity:   identity,
		Operation:  op,
		Outcome:    string(faErr.Kind),
		Similarity: faErr.Similarity,
	})
	return faErr
}

func (s *Service) publish(ctx context.Context, event AuditEvent) {
	if s.audit == nil {
		return
	}
	if event.At.IsZero() {
		event.At = s.nowF()
	}
	event.Meta = RequestMetaFrom(ctx)
	s.audit.Publish(ctx, event)
}

func (s *Service) exposedScore(score float64) *float64 {
	if s.config.Production {
		return nil
	}
	return utils.GetFloat64Pointer(score)
}
