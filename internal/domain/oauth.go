package domain

import "context"

// OAuthIdentity is the identity returned by a third-party provider exchange.
type OAuthIdentity struct {
	ProviderID int64
	Login      string
	Email      string
	AvatarURL  string
}

// OAuthProvider exchanges an authorization code for a third-party identity.
// The exchange itself (token endpoint, user endpoint) is an external
// collaborator; this core only consumes the resulting identity.
type OAuthProvider interface {
	Exchange(ctx context.Context, code string) (*OAuthIdentity, error)
}
