package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/xavierca1/fortis-crm/internal/entity"
	"github.com/xavierca1/fortis-crm/internal/usecase"
	"go.uber.org/zap"
)

type SettingsHandler struct {
	Settings SettingsService
	Logger   *zap.Logger
}

func NewSettingsHandler(settings SettingsService, logger *zap.Logger) *SettingsHandler {
	return &SettingsHandler{Settings: settings, Logger: logger}
}

func (h *SettingsHandler) GetCompany(w http.ResponseWriter, r *http.Request) {
	out, err := h.Settings.GetCompany(r.Context())
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *SettingsHandler) UpdateCompany(w http.ResponseWriter, r *http.Request) {
	var patch entity.SettingsPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	out, err := h.Settings.UpdateCompany(r.Context(), patch)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *SettingsHandler) TagRoutes(r chi.Router) {
	r.Get("/", h.ListTags)
	r.Post("/", h.AddTag)
	r.Put("/{id}", h.UpdateTag)
	r.Delete("/{id}", h.RemoveTag)
}

func (h *SettingsHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.Settings.ListTags(r.Context())
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, tags)
}

func (h *SettingsHandler) AddTag(w http.ResponseWriter, r *http.Request) {
	var in usecase.TagInput
	if !decodeJSON(w, r, &in) {
		return
	}
	tag, err := h.Settings.AddTag(r.Context(), in)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, tag)
}

func (h *SettingsHandler) UpdateTag(w http.ResponseWriter, r *http.Request) {
	var in usecase.TagInput
	if !decodeJSON(w, r, &in) {
		return
	}
	tag, err := h.Settings.UpdateTag(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, tag)
}

func (h *SettingsHandler) RemoveTag(w http.ResponseWriter, r *http.Request) {
	if err := h.Settings.RemoveTag(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, h.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// VocabularyRoutes monta /channels ou /origins; as duas tabelas só têm nome.
func (h *SettingsHandler) VocabularyRoutes(v entity.Vocabulary) func(chi.Router) {
	return func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			names, err := h.Settings.ListNames(r.Context(), v)
			if err != nil {
				writeError(w, h.Logger, err)
				return
			}
			writeJSON(w, http.StatusOK, names)
		})
		r.Post("/", func(w http.ResponseWriter, r *http.Request) {
			var in usecase.NameInput
			if !decodeJSON(w, r, &in) {
				return
			}
			names, err := h.Settings.AddName(r.Context(), v, in.Name)
			if err != nil {
				writeError(w, h.Logger, err)
				return
			}
			writeJSON(w, http.StatusCreated, names)
		})
		r.Put("/{name}", func(w http.ResponseWriter, r *http.Request) {
			var in usecase.NameInput
			if !decodeJSON(w, r, &in) {
				return
			}
			if err := h.Settings.RenameName(r.Context(), v, pathParam(r, "name"), in.Name); err != nil {
				writeError(w, h.Logger, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		})
		r.Delete("/{name}", func(w http.ResponseWriter, r *http.Request) {
			if err := h.Settings.RemoveName(r.Context(), v, pathParam(r, "name")); err != nil {
				writeError(w, h.Logger, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		})
	}
}
