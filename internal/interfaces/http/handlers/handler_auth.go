package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/litblc/account-service/internal/application"
	"github.com/litblc/account-service/internal/interfaces/http/middleware/auth"
	"go.uber.org/zap"
)

type AuthService interface {
	SendRegisterCode(ctx context.Context, ip, account string) error
	SendPasswordCode(ctx context.Context, ip, account string) error
	Register(ctx context.Context, name, password, account, candidate string) (string, error)
	Login(ctx context.Context, ip, account, password string) (*application.LoginResult, error)
	ChangePassword(ctx context.Context, ip, account, candidate, password string) error
	AccountStatus(ctx context.Context, ip, account string) error
	Logout(ctx context.Context, token string) error
}

type AuthHandler struct {
	authService AuthService
	logger      *zap.Logger
}

func NewAuthHandler(authService AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

func (h *AuthHandler) SendRegisterCodeHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Account string `json:"account"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Account == "" {
		writeMessage(w, http.StatusBadRequest, "account is required")
		return
	}

	if err := h.authService.SendRegisterCode(r.Context(), clientIP(r), req.Account); err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "verification code sent")
}

func (h *AuthHandler) SendPasswordCodeHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Account string `json:"account"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Account == "" {
		writeMessage(w, http.StatusBadRequest, "account is required")
		return
	}

	if err := h.authService.SendPasswordCode(r.Context(), clientIP(r), req.Account); err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "verification code sent")
}

func (h *AuthHandler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name       string `json:"name"`
		Password   string `json:"password"`
		Account    string `json:"account"`
		VerifyCode string `json:"verify_code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" || req.Password == "" || req.Account == "" || req.VerifyCode == "" {
		writeMessage(w, http.StatusBadRequest, "name, password, account and verify_code are required")
		return
	}

	token, err := h.authService.Register(r.Context(), req.Name, req.Password, req.Account, req.VerifyCode)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"access_token": token})
}

func (h *AuthHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Account  string `json:"account"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Account == "" || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "account and password are required")
		return
	}

	result, err := h.authService.Login(r.Context(), clientIP(r), req.Account, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"access_token": result.AccessToken,
		"data":         result.User,
	})
}

func (h *AuthHandler) ChangePasswordHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Account    string `json:"account"`
		VerifyCode string `json:"verify_code"`
		Password   string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Account == "" || req.VerifyCode == "" || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "account, verify_code and password are required")
		return
	}

	if err := h.authService.ChangePassword(r.Context(), clientIP(r), req.Account, req.VerifyCode, req.Password); err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "password changed")
}

func (h *AuthHandler) AccountStatusHandler(w http.ResponseWriter, r *http.Request) {
	account := r.URL.Query().Get("account")
	if account == "" {
		writeMessage(w, http.StatusBadRequest, "account is required")
		return
	}

	if err := h.authService.AccountStatus(r.Context(), clientIP(r), account); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	token := auth.TokenFromContext(r.Context())
	if token == "" {
		writeMessage(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := h.authService.Logout(r.Context(), token); err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "logged out")
}
