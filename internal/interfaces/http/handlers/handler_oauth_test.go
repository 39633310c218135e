package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/litblc/account-service/internal/application"
	"github.com/litblc/account-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockOAuthService struct {
	mock.Mock
}

func (m *MockOAuthService) Callback(ctx context.Context, code string) (*application.CallbackResult, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*application.CallbackResult), args.Error(1)
}

func TestGithubLoginHandler(t *testing.T) {
	h := NewOAuthHandler(new(MockOAuthService), "the-client-id", zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	h.GithubLoginHandler(w, req)

	require.Equal(t, http.StatusFound, w.Code)

	location, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "github.com", location.Host)
	assert.Equal(t, "/login/oauth/authorize", location.Path)
	assert.Equal(t, "the-client-id", location.Query().Get("client_id"))
	assert.NotEmpty(t, location.Query().Get("state"))
}

func TestGithubCallbackHandler(t *testing.T) {
	t.Run("missing code or state", func(t *testing.T) {
		h := NewOAuthHandler(new(MockOAuthService), "the-client-id", zap.NewNop())

		req := httptest.NewRequest(http.MethodGet, "/?code=abc", nil)
		w := httptest.NewRecorder()
		h.GithubCallbackHandler(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("success returns token and binding status", func(t *testing.T) {
		svc := new(MockOAuthService)
		svc.On("Callback", mock.Anything, "abc").Return(&application.CallbackResult{
			AccessToken:   "the-token",
			BindingStatus: false,
		}, nil)
		h := NewOAuthHandler(svc, "the-client-id", zap.NewNop())

		req := httptest.NewRequest(http.MethodGet, "/?code=abc&state=xyz", nil)
		w := httptest.NewRecorder()
		h.GithubCallbackHandler(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "the-token")
		assert.Contains(t, w.Body.String(), `"binding_status":false`)
	})

	t.Run("rejected code maps to 401", func(t *testing.T) {
		svc := new(MockOAuthService)
		svc.On("Callback", mock.Anything, mock.Anything).Return(nil, domain.ErrUnauthorized)
		h := NewOAuthHandler(svc, "the-client-id", zap.NewNop())

		req := httptest.NewRequest(http.MethodGet, "/?code=abc&state=xyz", nil)
		w := httptest.NewRecorder()
		h.GithubCallbackHandler(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
