package domain

// TokenClaims are the validated claims of an access token.
type TokenClaims struct {
	UserUUID string
	TokenID  string
}

// TokenService issues and validates access tokens.
type TokenService interface {
	// GenerateAccessToken issues a signed access token for a user.
	GenerateAccessToken(userUUID string) (string, error)

	// ValidateToken parses and verifies a token, rejecting revoked ones.
	ValidateToken(token string) (*TokenClaims, error)

	// RevokeToken invalidates a token until its natural expiry.
	RevokeToken(token string) error
}
