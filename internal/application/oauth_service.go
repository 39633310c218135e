package application

import (
	"context"
	"time"

	"github.com/litblc/account-service/internal/domain"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// CallbackResult carries the token for a third-party login. BindingStatus is
// false until the user has bound an email or mobile to the account, which
// the frontend uses to prompt for binding.
type CallbackResult struct {
	AccessToken   string
	BindingStatus bool
}

// OAuthService logs in or creates users from third-party identities.
type OAuthService struct {
	users    domain.UserRepository
	provider domain.OAuthProvider
	tokens   domain.TokenService
	log      *zap.Logger
}

func NewOAuthService(users domain.UserRepository, provider domain.OAuthProvider, tokens domain.TokenService, log *zap.Logger) *OAuthService {
	return &OAuthService{
		users:    users,
		provider: provider,
		tokens:   tokens,
		log:      log,
	}
}

// Callback exchanges the authorization code and either logs in the linked
// user or creates a new one carrying the provider identity.
func (s *OAuthService) Callback(ctx context.Context, code string) (*CallbackResult, error) {
	identity, err := s.provider.Exchange(ctx, code)
	if err != nil {
		s.log.Warn("oauth exchange failed", zap.Error(err))
		return nil, domain.ErrUnauthorized
	}

	user, err := s.users.FindByGithubID(ctx, identity.ProviderID)
	switch err {
	case nil:
		if !user.IsOpen() {
			return nil, domain.ErrAccountClosedOrUnknown
		}
	case domain.ErrUserNotFound:
		user, err = s.createFromIdentity(ctx, identity)
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	token, err := s.tokens.GenerateAccessToken(user.UUID)
	if err != nil {
		return nil, domain.ErrPersistence
	}

	return &CallbackResult{
		AccessToken:   token,
		BindingStatus: user.Email != "" || user.Mobile != "",
	}, nil
}

func (s *OAuthService) createFromIdentity(ctx context.Context, identity *domain.OAuthIdentity) (*domain.User, error) {
	now := time.Now()
	user := &domain.User{
		UUID:      "user-" + ulid.Make().String(),
		Name:      identity.Login,
		Avatar:    identity.AvatarURL,
		Closure:   domain.ClosureNone,
		IsRename:  domain.RenameAllowed,
		GithubID:  identity.ProviderID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, domain.ErrPersistence
	}
	return user, nil
}
