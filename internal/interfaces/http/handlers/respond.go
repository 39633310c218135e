package handlers

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"

	"github.com/litblc/account-service/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// writeError maps domain errors to responses. Internal detail (store keys,
// stack traces) never reaches the caller.
func writeError(w http.ResponseWriter, err error) {
	var pending *domain.CodePendingError
	if errors.As(err, &pending) {
		writeMessage(w, http.StatusUnprocessableEntity, pending.Error())
		return
	}

	var delivery *domain.DeliveryError
	if errors.As(err, &delivery) {
		writeMessage(w, http.StatusInternalServerError, delivery.Reason)
		return
	}

	switch {
	case errors.Is(err, domain.ErrRateLimited):
		writeMessage(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrValidation):
		writeMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrCodeMismatch):
		writeMessage(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrCodeMissingOrExpired):
		writeMessage(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrAccountClosedOrUnknown):
		writeMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrCredentialMismatch):
		writeMessage(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrRenameNotAllowed):
		writeMessage(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrUserNotFound):
		writeMessage(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeMessage(w, http.StatusUnauthorized, err.Error())
	default:
		writeMessage(w, http.StatusInternalServerError, domain.ErrPersistence.Error())
	}
}

// clientIP extracts the caller's IP. The RealIP middleware has already
// rewritten RemoteAddr when the request came through a proxy.
func clientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
