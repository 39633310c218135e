package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/litblc/account-service/internal/domain"
	"github.com/litblc/account-service/internal/interfaces/http/middleware/auth"
	"go.uber.org/zap"
)

type ProfileService interface {
	GetUserByUUID(ctx context.Context, uuid string) (*domain.User, error)
	MyInfo(ctx context.Context, uuid string) (*domain.User, error)
	UpdateMyInfo(ctx context.Context, uuid string, update domain.ProfileUpdate) (*domain.User, error)
	UpdateMyName(ctx context.Context, uuid, name string) error
}

type ProfileHandler struct {
	profileService ProfileService
	logger         *zap.Logger
}

func NewProfileHandler(profileService ProfileService, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		logger:         logger,
	}
}

// publicProfile is the projection served for other users.
type publicProfile struct {
	UUID       string `json:"uuid"`
	Name       string `json:"name"`
	Avatar     string `json:"avatar,omitempty"`
	Gender     string `json:"gender,omitempty"`
	Birthday   string `json:"birthday,omitempty"`
	ResideCity string `json:"reside_city,omitempty"`
	Bio        string `json:"bio,omitempty"`
}

func (h *ProfileHandler) GetUserHandler(w http.ResponseWriter, r *http.Request) {
	uuid := chi.URLParam(r, "uuid")

	user, err := h.profileService.GetUserByUUID(r.Context(), uuid)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"data": publicProfile{
		UUID:       user.UUID,
		Name:       user.Name,
		Avatar:     user.Avatar,
		Gender:     user.Gender,
		Birthday:   user.Birthday,
		ResideCity: user.ResideCity,
		Bio:        user.Bio,
	}})
}

func (h *ProfileHandler) MyInfoHandler(w http.ResponseWriter, r *http.Request) {
	uuid := auth.UserUUIDFromContext(r.Context())

	user, err := h.profileService.MyInfo(r.Context(), uuid)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"data": user})
}

func (h *ProfileHandler) UpdateMyInfoHandler(w http.ResponseWriter, r *http.Request) {
	uuid := auth.UserUUIDFromContext(r.Context())

	var req struct {
		Avatar     string `json:"avatar"`
		Gender     string `json:"gender"`
		Birthday   string `json:"birthday"`
		ResideCity string `json:"reside_city"`
		Bio        string `json:"bio"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.profileService.UpdateMyInfo(r.Context(), uuid, domain.ProfileUpdate{
		Avatar:     req.Avatar,
		Gender:     req.Gender,
		Birthday:   req.Birthday,
		ResideCity: req.ResideCity,
		Bio:        req.Bio,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"data": user})
}

func (h *ProfileHandler) UpdateMyNameHandler(w http.ResponseWriter, r *http.Request) {
	uuid := auth.UserUUIDFromContext(r.Context())

	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		writeMessage(w, http.StatusBadRequest, "name is required")
		return
	}

	if err := h.profileService.UpdateMyName(r.Context(), uuid, req.Name); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"data": req.Name})
}
