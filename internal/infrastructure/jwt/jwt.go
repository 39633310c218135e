package jwt

import (
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/litblc/account-service/internal/domain"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrRevokedToken = errors.New("token has been revoked")
)

type claims struct {
	jwt.RegisteredClaims
}

// JWT issues and validates RSA-signed access tokens. Revoked token IDs are
// held in memory until their natural expiry.
type JWT struct {
	privateKey     *rsa.PrivateKey
	publicKey      *rsa.PublicKey
	accessDuration time.Duration
	log            *zap.Logger

	mu      sync.RWMutex
	revoked map[string]time.Time // tokenID -> expiry
}

// New creates a new JWT service with a fresh signing key.
func New(accessDuration time.Duration, log *zap.Logger) (*JWT, error) {
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, err
	}

	return &JWT{
		privateKey:     privateKey,
		publicKey:      &privateKey.PublicKey,
		accessDuration: accessDuration,
		log:            log,
		revoked:        make(map[string]time.Time),
	}, nil
}

// GenerateAccessToken issues a signed access token for a user.
func (j *JWT) GenerateAccessToken(userUUID string) (string, error) {
	now := time.Now()
	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        ulid.Make().String(),
			Subject:   userUUID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.accessDuration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, c)
	signed, err := token.SignedString(j.privateKey)
	if err != nil {
		j.log.Error("failed to sign access token", zap.Error(err))
		return "", err
	}
	return signed, nil
}

// ValidateToken parses and verifies a token, rejecting revoked ones.
func (j *JWT) ValidateToken(tokenStr string) (*domain.TokenClaims, error) {
	c := &claims{}
	token, err := jwt.ParseWithClaims(tokenStr, c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, ErrInvalidToken
		}
		return j.publicKey, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	j.mu.RLock()
	_, revoked := j.revoked[c.ID]
	j.mu.RUnlock()
	if revoked {
		return nil, ErrRevokedToken
	}

	return &domain.TokenClaims{
		UserUUID: c.Subject,
		TokenID:  c.ID,
	}, nil
}

// RevokeToken invalidates a token until its natural expiry.
func (j *JWT) RevokeToken(tokenStr string) error {
	c := &claims{}
	token, err := jwt.ParseWithClaims(tokenStr, c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, ErrInvalidToken
		}
		return j.publicKey, nil
	})
	if err != nil || !token.Valid {
		return ErrInvalidToken
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	j.revoked[c.ID] = c.ExpiresAt.Time
	for id, exp := range j.revoked {
		if time.Now().After(exp) {
			delete(j.revoked, id)
		}
	}
	return nil
}
