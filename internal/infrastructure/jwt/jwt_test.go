package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestGenerateAndValidate(t *testing.T) {
	svc, err := New(time.Hour, zap.NewNop())
	require.NoError(t, err)

	token, err := svc.GenerateAccessToken("user-01HYX2")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-01HYX2", claims.UserUUID)
	assert.NotEmpty(t, claims.TokenID)
}

func TestValidateRejectsGarbage(t *testing.T) {
	svc, err := New(time.Hour, zap.NewNop())
	require.NoError(t, err)

	_, err = svc.ValidateToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsForeignKey(t *testing.T) {
	issuer, err := New(time.Hour, zap.NewNop())
	require.NoError(t, err)
	verifier, err := New(time.Hour, zap.NewNop())
	require.NoError(t, err)

	token, err := issuer.GenerateAccessToken("user-01HYX2")
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRevokeToken(t *testing.T) {
	svc, err := New(time.Hour, zap.NewNop())
	require.NoError(t, err)

	token, err := svc.GenerateAccessToken("user-01HYX2")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	require.NoError(t, err)

	require.NoError(t, svc.RevokeToken(token))

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrRevokedToken)

	// other tokens stay valid
	other, err := svc.GenerateAccessToken("user-01HYX3")
	require.NoError(t, err)
	_, err = svc.ValidateToken(other)
	assert.NoError(t, err)
}
