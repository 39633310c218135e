package handlers

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"net/url"

	"github.com/litblc/account-service/internal/application"
	"go.uber.org/zap"
)

const githubAuthorizeURL = "https://github.com/login/oauth/authorize"

type OAuthService interface {
	Callback(ctx context.Context, code string) (*application.CallbackResult, error)
}

type OAuthHandler struct {
	oauthService OAuthService
	clientID     string
	logger       *zap.Logger
}

func NewOAuthHandler(oauthService OAuthService, clientID string, logger *zap.Logger) *OAuthHandler {
	return &OAuthHandler{
		oauthService: oauthService,
		clientID:     clientID,
		logger:       logger,
	}
}

// GithubLoginHandler sends the browser to GitHub's authorize page with a
// fresh state token.
func (h *OAuthHandler) GithubLoginHandler(w http.ResponseWriter, r *http.Request) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		writeMessage(w, http.StatusInternalServerError, "could not build authorize url")
		return
	}

	query := url.Values{}
	query.Set("client_id", h.clientID)
	query.Set("state", hex.EncodeToString(buf))

	http.Redirect(w, r, githubAuthorizeURL+"?"+query.Encode(), http.StatusFound)
}

// GithubCallbackHandler handles the redirect back from GitHub.
func (h *OAuthHandler) GithubCallbackHandler(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	if code == "" || state == "" {
		writeMessage(w, http.StatusBadRequest, "code and state are required")
		return
	}

	result, err := h.oauthService.Callback(r.Context(), code)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"access_token":   result.AccessToken,
		"binding_status": result.BindingStatus,
	})
}
