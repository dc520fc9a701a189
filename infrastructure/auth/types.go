package auth

type TokenType string

const (
	AccessToken  TokenType = "access_token"
	RefreshToken TokenType = "refresh_token"
)

type ClaimsData struct {
	Issuer    string
	SessionID string
	Email     string
	DeviceID  string
	UserAgent string
	IssuedAt  int64
	ExpiresAt int64
	TokenType TokenType
}
