package controller_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"arcadeportal.io/application/constants"
	"arcadeportal.io/application/controller"
	"arcadeportal.io/application/controller/dto"
	"arcadeportal.io/application/services/faceauth"
	middlewares "arcadeportal.io/infrastructure/middleware"
	webRoutev1 "arcadeportal.io/infrastructure/routes/ginRouter/web/v1"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryDirectory struct {
	mu    sync.Mutex
	users map[string]*faceauth.FaceCredential
	err   error
}

func (d *memoryDirectory) FindByIdentity(ctx context.Context, identity string) (*faceauth.FaceCredential, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return nil, d.err
	}
	user, ok := d.users[identity]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

func (d *memoryDirectory) SetReferenceEmbedding(ctx context.Context, identity string, embedding []float64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.users[identity] = &faceauth.FaceCredential{Identity: identity, HasReferenceEmbedding: true, ReferenceEmbedding: embedding}
	return nil
}

type stubIssuer struct {
	err error
}

func (s *stubIssuer) Issue(ctx context.Context, identity string) (*faceauth.Credentials, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &faceauth.Credentials{
		SessionID:    "session-1",
		AccessToken:  "access",
		RefreshToken: "refresh",
		ExpiresAt:    time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
	}, nil
}

type envelope struct {
	Message      string          `json:"message"`
	Body         json.RawMessage `json:"body"`
	Errors       []string        `json:"errors"`
	ResponseCode *uint           `json:"response_code"`
}

type testAPI struct {
	router    *gin.Engine
	directory *memoryDirectory
	issuer    *stubIssuer
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	directory := &memoryDirectory{users: map[string]*faceauth.FaceCredential{
		"player@arcade.example": {Identity: "player@arcade.example"},
	}}
	issuer := &stubIssuer{}
	config := faceauth.DefaultConfig()
	config.Dimensionality = 4
	config.MaxFailedAttempts = 3

	ledger := faceauth.NewResilientLedger(nil, faceauth.NewMemoryLedger(config.LockoutWindow, nil))
	service := faceauth.NewService(config, directory, ledger, issuer)

	router := gin.New()
	api := router.Group("/api")
	api.Use(middlewares.RequestMetaMiddleware())
	webRoutev1.FaceAuthRouter(api.Group("/v1"), controller.NewFaceAuthController(service, ledger.Mode), 1000)

	return &testAPI{router: router, directory: directory, issuer: issuer}
}

func (a *testAPI) do(t *testing.T, method string, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var payload []byte
	switch b := body.(type) {
	case nil:
	case string:
		payload = []byte(b)
	default:
		var err error
		payload, err = json.Marshal(b)
		require.NoError(t, err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Device-Id", "device-1")
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec, env
}

func faceBody(email string, embedding ...float64) dto.FaceAuthDTO {
	return dto.FaceAuthDTO{Email: email, Embedding: embedding}
}

func TestFaceAuthAPI_SignupAndLogin(t *testing.T) {
	api := newTestAPI(t)

	rec, env := api.do(t, http.MethodPost, "/api/v1/face-auth/signup", faceBody("player@arcade.example", 1, 0, 0, 0))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, constants.FACE_AUTH_CONFIGURED, *env.ResponseCode)
	var signup dto.SignupResponse
	require.NoError(t, json.Unmarshal(env.Body, &signup))
	assert.Equal(t, faceauth.StatusConfigured, signup.Status)

	rec, env = api.do(t, http.MethodPost, "/api/v1/face-auth/signup", faceBody("player@arcade.example", 0, 1, 0, 0))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, constants.FACE_AUTH_ALREADY_CONFIGURED, *env.ResponseCode)

	rec, env = api.do(t, http.MethodPost, "/api/v1/face-auth/login", faceBody("Player@Arcade.example", 1, 0, 0, 0))
	require.Equal(t, http.StatusOK, rec.Code)
	var login dto.LoginResponse
	require.NoError(t, json.Unmarshal(env.Body, &login))
	assert.True(t, login.Verified)
	require.NotNil(t, login.Credentials)
	assert.Equal(t, "session-1", login.Credentials.SessionID)
	require.NotNil(t, login.Similarity)
	assert.InDelta(t, 1.0, *login.Similarity, 1e-9)
}

func TestFaceAuthAPI_FailedLoginsLockOut(t *testing.T) {
	api := newTestAPI(t)
	_, _ = api.do(t, http.MethodPost, "/api/v1/face-auth/signup", faceBody("player@arcade.example", 1, 0, 0, 0))

	for remaining := 2; remaining >= 0; remaining-- {
		rec, env := api.do(t, http.MethodPost, "/api/v1/face-auth/login", faceBody("player@arcade.example", -1, 0, 0, 0))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, constants.FACE_VERIFICATION_FAILED, *env.ResponseCode)
		var body dto.LoginResponse
		require.NoError(t, json.Unmarshal(env.Body, &body))
		assert.False(t, body.Verified)
		require.NotNil(t, body.AttemptsRemaining)
		assert.Equal(t, remaining, *body.AttemptsRemaining)
	}

	rec, env := api.do(t, http.MethodPost, "/api/v1/face-auth/login", faceBody("player@arcade.example", 1, 0, 0, 0))
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, constants.FACE_AUTH_LOCKED_OUT, *env.ResponseCode)
	assert.Equal(t, "900", rec.Header().Get("Retry-After"))
	var locked dto.LockedOutResponse
	require.NoError(t, json.Unmarshal(env.Body, &locked))
	assert.Equal(t, 15, locked.RetryAfterMinutes)
}

func TestFaceAuthAPI_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		path     string
		body     any
		setup    func(api *testAPI)
		wantCode int
		wantResp *uint
	}{
		{
			name: "malformed json", method: http.MethodPost, path: "/api/v1/face-auth/signup",
			body: "{", wantCode: http.StatusBadRequest,
		},
		{
			name: "payload validation", method: http.MethodPost, path: "/api/v1/face-auth/login",
			body: faceBody("not-an-email", 1, 0, 0, 0), wantCode: http.StatusBadRequest,
		},
		{
			name: "wrong dimensionality", method: http.MethodPost, path: "/api/v1/face-auth/signup",
			body: faceBody("player@arcade.example", 1, 0), wantCode: http.StatusBadRequest, wantResp: &constants.FACE_INVALID_EMBEDDING,
		},
		{
			name: "unknown account", method: http.MethodPost, path: "/api/v1/face-auth/signup",
			body: faceBody("ghost@arcade.example", 1, 0, 0, 0), wantCode: http.StatusNotFound, wantResp: &constants.FACE_ACCOUNT_NOT_FOUND,
		},
		{
			name: "login before signup", method: http.MethodPost, path: "/api/v1/face-auth/login",
			body: faceBody("player@arcade.example", 1, 0, 0, 0), wantCode: http.StatusNotFound, wantResp: &constants.FACE_AUTH_NOT_CONFIGURED,
		},
		{
			name: "update before signup", method: http.MethodPut, path: "/api/v1/face-auth/update",
			body: faceBody("player@arcade.example", 1, 0, 0, 0), wantCode: http.StatusNotFound, wantResp: &constants.FACE_AUTH_NOT_CONFIGURED,
		},
		{
			name: "directory failure", method: http.MethodPost, path: "/api/v1/face-auth/login",
			body:     faceBody("player@arcade.example", 1, 0, 0, 0),
			setup:    func(api *testAPI) { api.directory.err = errors.New("mongo: server selection timeout") },
			wantCode: http.StatusInternalServerError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI(t)
			if tt.setup != nil {
				tt.setup(api)
			}
			rec, env := api.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.NotContains(t, rec.Body.String(), "mongo")
			if tt.wantResp != nil {
				require.NotNil(t, env.ResponseCode)
				assert.Equal(t, *tt.wantResp, *env.ResponseCode)
			}
		})
	}
}

func TestFaceAuthAPI_SessionIssuanceFailure(t *testing.T) {
	api := newTestAPI(t)
	_, _ = api.do(t, http.MethodPost, "/api/v1/face-auth/signup", faceBody("player@arcade.example", 1, 0, 0, 0))
	api.issuer.err = errors.New("signing key missing")

	rec, env := api.do(t, http.MethodPost, "/api/v1/face-auth/login", faceBody("player@arcade.example", 1, 0, 0, 0))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, constants.FACE_SESSION_ISSUANCE_FAILED, *env.ResponseCode)
	assert.NotContains(t, rec.Body.String(), "signing key")
}

func TestFaceAuthAPI_Update(t *testing.T) {
	api := newTestAPI(t)
	_, _ = api.do(t, http.MethodPost, "/api/v1/face-auth/signup", faceBody("player@arcade.example", 1, 0, 0, 0))

	rec, env := api.do(t, http.MethodPut, "/api/v1/face-auth/update", faceBody("player@arcade.example", 0, 1, 0, 0))
	require.Equal(t, http.StatusOK, rec.Code)
	var update dto.UpdateResponse
	require.NoError(t, json.Unmarshal(env.Body, &update))
	assert.True(t, update.Success)

	rec, _ = api.do(t, http.MethodPost, "/api/v1/face-auth/login", faceBody("player@arcade.example", 0, 1, 0, 0))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestFaceAuthAPI_Health(t *testing.T) {
	api := newTestAPI(t)
	rec, env := api.do(t, http.MethodGet, "/api/v1/face-auth/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var health dto.HealthResponse
	require.NoError(t, json.Unmarshal(env.Body, &health))
	assert.Equal(t, faceauth.LedgerModeInProcess, health.LedgerMode)
	assert.Equal(t, 4, health.Dimensionality)
}
