package application

import (
	"context"
	"errors"
	"time"

	"github.com/litblc/account-service/internal/domain"
	"github.com/litblc/account-service/internal/infrastructure/classifier"
	"github.com/litblc/account-service/internal/infrastructure/password"
	"github.com/litblc/account-service/internal/infrastructure/ratelimit"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// Rate-limited action names, one bucket per (action, IP).
const (
	actionRegister       = "register"
	actionPasswordCode   = "password-code"
	actionLogin          = "login"
	actionPasswordChange = "password-change"
	actionAccountStatus  = "account-status"
)

// downstreamTimeout bounds calls to the notification senders and the
// persistence layer so a hung dependency cannot hang the caller.
const downstreamTimeout = 5 * time.Second

// Limiter is the attempt-counter consumed by the orchestrator.
type Limiter interface {
	Admit(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
	Strikes(ctx context.Context, key string) (int64, error)
	AddStrike(ctx context.Context, key string, window time.Duration) error
}

// CodeStore issues and validates one-time verification codes.
type CodeStore interface {
	Issue(ctx context.Context, purpose domain.Purpose, account string) (string, error)
	Commit(ctx context.Context, purpose domain.Purpose, account, code string) error
	Verify(ctx context.Context, purpose domain.Purpose, account, candidate string) error
}

// LoginResult is the successful login response payload.
type LoginResult struct {
	AccessToken string
	User        *domain.User
}

// AuthService orchestrates registration, login, password reset and
// account-status checks. Every flow runs RateCheck -> Precondition ->
// Action -> Response.
type AuthService struct {
	users   domain.UserRepository
	codes   CodeStore
	limiter Limiter
	tokens  domain.TokenService
	emails  domain.EmailSender
	sms     domain.SMSSender
	log     *zap.Logger
}

func NewAuthService(
	users domain.UserRepository,
	codes CodeStore,
	limiter Limiter,
	tokens domain.TokenService,
	emails domain.EmailSender,
	sms domain.SMSSender,
	log *zap.Logger,
) *AuthService {
	return &AuthService{
		users:   users,
		codes:   codes,
		limiter: limiter,
		tokens:  tokens,
		emails:  emails,
		sms:     sms,
		log:     log,
	}
}

// SendRegisterCode issues and delivers a registration code for account.
func (s *AuthService) SendRegisterCode(ctx context.Context, ip, account string) error {
	return s.sendCode(ctx, ip, account, domain.PurposeRegister, actionRegister)
}

// SendPasswordCode issues and delivers a password-reset code for account.
func (s *AuthService) SendPasswordCode(ctx context.Context, ip, account string) error {
	return s.sendCode(ctx, ip, account, domain.PurposePasswordReset, actionPasswordCode)
}

func (s *AuthService) sendCode(ctx context.Context, ip, account string, purpose domain.Purpose, action string) error {
	allowed, err := s.limiter.Admit(ctx, ratelimit.IPKey(action, ip), ratelimit.IPLimit, ratelimit.IPWindow)
	if err != nil {
		return domain.ErrPersistence
	}
	if !allowed {
		return domain.ErrRateLimited
	}

	kind := classifier.Classify(account)
	if kind == domain.KindUnknown {
		return domain.ErrValidation
	}

	code, err := s.codes.Issue(ctx, purpose, account)
	if err != nil {
		return err
	}

	if err := s.dispatch(ctx, kind, account, code, purpose); err != nil {
		return err
	}

	// The code is persisted only after the provider accepted the send, so a
	// failed delivery never leaves a live code behind. A commit that lost a
	// concurrent race reports pending; the winner's code stays live.
	if err := s.codes.Commit(ctx, purpose, account, code); err != nil {
		var pending *domain.CodePendingError
		if errors.As(err, &pending) {
			return err
		}
		return domain.ErrPersistence
	}

	s.log.Info("verification code sent",
		zap.String("purpose", string(purpose)),
		zap.String("kind", kind.String()))
	return nil
}

// dispatch routes a code to the email or SMS sender by account kind.
func (s *AuthService) dispatch(ctx context.Context, kind domain.AccountKind, account, code string, purpose domain.Purpose) error {
	ctx, cancel := context.WithTimeout(ctx, downstreamTimeout)
	defer cancel()

	switch kind {
	case domain.KindEmail:
		var err error
		if purpose == domain.PurposeRegister {
			err = s.emails.SendVerificationEmail(ctx, account, code)
		} else {
			err = s.emails.SendPasswordResetEmail(ctx, account, code)
		}
		if err != nil {
			return domain.ErrPersistence
		}
		return nil
	case domain.KindMobile:
		// SMS failures carry the provider message through unchanged.
		return s.sms.SendCode(ctx, account, code)
	default:
		return domain.ErrValidation
	}
}

// Register creates a user once the registration code checks out and returns
// a fresh access token.
func (s *AuthService) Register(ctx context.Context, name, plainPassword, account, candidate string) (string, error) {
	kind := classifier.Classify(account)
	if kind == domain.KindUnknown {
		return "", domain.ErrValidation
	}

	if err := s.codes.Verify(ctx, domain.PurposeRegister, account, candidate); err != nil {
		return "", err
	}

	hashed, err := password.HashPassword(plainPassword)
	if err != nil {
		s.log.Error("failed to hash password", zap.Error(err))
		return "", domain.ErrPersistence
	}

	now := time.Now()
	user := &domain.User{
		UUID:      "user-" + ulid.Make().String(),
		Name:      name,
		Password:  hashed,
		Closure:   domain.ClosureNone,
		IsRename:  domain.RenameAllowed,
		CreatedAt: now,
		UpdatedAt: now,
	}
	switch kind {
	case domain.KindEmail:
		user.Email = account
	case domain.KindMobile:
		user.Mobile = account
	}

	createCtx, cancel := context.WithTimeout(ctx, downstreamTimeout)
	defer cancel()
	if err := s.users.Create(createCtx, user); err != nil {
		return "", domain.ErrPersistence
	}

	token, err := s.tokens.GenerateAccessToken(user.UUID)
	if err != nil {
		return "", domain.ErrPersistence
	}
	return token, nil
}

// Login authenticates an account. The absent and closed cases collapse into
// one response so login cannot be used to enumerate accounts.
func (s *AuthService) Login(ctx context.Context, ip, account, plainPassword string) (*LoginResult, error) {
	allowed, err := s.limiter.Admit(ctx, ratelimit.IPKey(actionLogin, ip), ratelimit.IPLimit, ratelimit.IPWindow)
	if err != nil {
		return nil, domain.ErrPersistence
	}
	if !allowed {
		return nil, domain.ErrRateLimited
	}

	kind := classifier.Classify(account)
	if kind == domain.KindUnknown {
		return nil, domain.ErrValidation
	}

	user, err := s.findByKind(ctx, kind, account)
	if err == domain.ErrUserNotFound {
		return nil, domain.ErrAccountClosedOrUnknown
	}
	if err != nil {
		return nil, err
	}
	if !user.IsOpen() {
		return nil, domain.ErrAccountClosedOrUnknown
	}

	failKey := ratelimit.LoginFailKey(account)
	strikes, err := s.limiter.Strikes(ctx, failKey)
	if err != nil {
		return nil, domain.ErrPersistence
	}
	if strikes >= ratelimit.StrikeLimit {
		return nil, domain.ErrRateLimited
	}

	if !password.Matches(plainPassword, user.Password) {
		// Only failed matches count; the bucket expires on its own.
		if err := s.limiter.AddStrike(ctx, failKey, ratelimit.StrikeWindow); err != nil {
			s.log.Error("failed to record login strike", zap.Error(err))
		}
		return nil, domain.ErrCredentialMismatch
	}

	token, err := s.tokens.GenerateAccessToken(user.UUID)
	if err != nil {
		return nil, domain.ErrPersistence
	}

	return &LoginResult{AccessToken: token, User: user}, nil
}

// ChangePassword resets an account's password after the reset code checks out.
func (s *AuthService) ChangePassword(ctx context.Context, ip, account, candidate, plainPassword string) error {
	allowed, err := s.limiter.Admit(ctx, ratelimit.IPKey(actionPasswordChange, ip), ratelimit.IPLimit, ratelimit.IPWindow)
	if err != nil {
		return domain.ErrPersistence
	}
	if !allowed {
		return domain.ErrRateLimited
	}

	kind := classifier.Classify(account)
	if kind == domain.KindUnknown {
		return domain.ErrValidation
	}

	if err := s.codes.Verify(ctx, domain.PurposePasswordReset, account, candidate); err != nil {
		return err
	}

	user, err := s.findByKind(ctx, kind, account)
	if err == domain.ErrUserNotFound {
		return domain.ErrAccountClosedOrUnknown
	}
	if err != nil {
		return err
	}

	hashed, err := password.HashPassword(plainPassword)
	if err != nil {
		s.log.Error("failed to hash password", zap.Error(err))
		return domain.ErrPersistence
	}

	updateCtx, cancel := context.WithTimeout(ctx, downstreamTimeout)
	defer cancel()
	return s.users.UpdatePassword(updateCtx, user.ID, hashed)
}

// AccountStatus reports whether an account exists in a usable state. Closed
// and unknown collapse into the same error, as in login.
func (s *AuthService) AccountStatus(ctx context.Context, ip, account string) error {
	allowed, err := s.limiter.Admit(ctx, ratelimit.IPKey(actionAccountStatus, ip), ratelimit.IPLimit, ratelimit.IPWindow)
	if err != nil {
		return domain.ErrPersistence
	}
	if !allowed {
		return domain.ErrRateLimited
	}

	kind := classifier.Classify(account)
	if kind == domain.KindUnknown {
		return domain.ErrValidation
	}

	user, err := s.findByKind(ctx, kind, account)
	if err == domain.ErrUserNotFound {
		return domain.ErrAccountClosedOrUnknown
	}
	if err != nil {
		return err
	}
	if !user.IsOpen() {
		return domain.ErrAccountClosedOrUnknown
	}
	return nil
}

// Logout revokes the presented access token.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if err := s.tokens.RevokeToken(token); err != nil {
		return domain.ErrUnauthorized
	}
	return nil
}

// findByKind maps the classified kind to an explicit repository call.
func (s *AuthService) findByKind(ctx context.Context, kind domain.AccountKind, account string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, downstreamTimeout)
	defer cancel()

	switch kind {
	case domain.KindEmail:
		return s.users.FindByEmail(ctx, account)
	case domain.KindMobile:
		return s.users.FindByMobile(ctx, account)
	default:
		return nil, domain.ErrValidation
	}
}
