package auth

import (
	"context"
	"errors"
	"time"

	"arcadeportal.io/application/services/faceauth"
	"arcadeportal.io/infrastructure/logger"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

var ErrMissingSigningKey = errors.New("JWT_SIGNING_KEY is not set")

// JWTSessionIssuer mints an HS256 access and refresh token pair sharing one
// session id.
type JWTSessionIssuer struct {
	signingKey []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	nowF       func() time.Time
}

func NewJWTSessionIssuer(signingKey string, issuer string, accessTTL time.Duration, refreshTTL time.Duration) *JWTSessionIssuer {
	return &JWTSessionIssuer{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		nowF:       time.Now,
	}
}

func (i *JWTSessionIssuer) Issue(ctx context.Context, identity string) (*faceauth.Credentials, error) {
	if len(i.signingKey) == 0 {
		return nil, ErrMissingSigningKey
	}
	meta := faceauth.RequestMetaFrom(ctx)
	now := i.nowF()
	sessionID := uuid.NewString()

	claims := ClaimsData{
		Issuer:    i.issuer,
		SessionID: sessionID,
		Email:     identity,
		DeviceID:  meta.DeviceID,
		UserAgent: meta.UserAgent,
		IssuedAt:  now.Unix(),
	}

	access := claims
	access.TokenType = AccessToken
	access.ExpiresAt = now.Add(i.accessTTL).Unix()
	accessToken, err := i.generateAuthToken(access)
	if err != nil {
		return nil, err
	}

	refresh := claims
	refresh.TokenType = RefreshToken
	refresh.ExpiresAt = now.Add(i.refreshTTL).Unix()
	refreshToken, err := i.generateAuthToken(refresh)
	if err != nil {
		return nil, err
	}

	return &faceauth.Credentials{
		SessionID:    sessionID,
		AccessToken:  *accessToken,
		RefreshToken: *refreshToken,
		ExpiresAt:    time.Unix(access.ExpiresAt, 0).UTC(),
	}, nil
}

func (i *JWTSessionIssuer) generateAuthToken(claimsData ClaimsData) (*string, error) {
	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iss":       claimsData.Issuer,
		"jti":       claimsData.SessionID,
		"sub":       claimsData.Email,
		"exp":       claimsData.ExpiresAt,
		"iat":       claimsData.IssuedAt,
		"deviceID":  claimsData.DeviceID,
		"userAgent": claimsData.UserAgent,
		"tokenType": claimsData.TokenType,
	}).SignedString(i.signingKey)
	if err != nil {
		return nil, err
	}
	return &tokenString, nil
}

func (i *JWTSessionIssuer) decodeAuthToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return i.signingKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrSignatureInvalid) {
			return nil, errors.New("invalid token signature used")
		}
		logger.Error("error decoding jwt", logger.LoggerOptions{
			Key:  "error",
			Data: err.Error(),
		})
		return nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token used")
	}
	if claims["iss"] != i.issuer {
		return nil, errors.New("token issued by another service")
	}
	return claims, nil
}
