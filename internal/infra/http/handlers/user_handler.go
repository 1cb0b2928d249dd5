package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/xavierca1/fortis-crm/internal/entity"
	"go.uber.org/zap"
)

type UserHandler struct {
	Users  UserService
	Logger *zap.Logger
}

func NewUserHandler(users UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{Users: users, Logger: logger}
}

func (h *UserHandler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Patch("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.Users.ListUsers(r.Context())
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch entity.UserPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	user, err := h.Users.UpdateUser(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Users.DeleteUser(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, h.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
