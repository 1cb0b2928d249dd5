package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/xavierca1/fortis-crm/internal/entity"
	"github.com/xavierca1/fortis-crm/internal/infra/http/middleware"
	"github.com/xavierca1/fortis-crm/internal/usecase"
	"go.uber.org/zap"
)

type LeadHandler struct {
	Leads  LeadService
	Logger *zap.Logger
}

func NewLeadHandler(leads LeadService, logger *zap.Logger) *LeadHandler {
	return &LeadHandler{Leads: leads, Logger: logger}
}

func (h *LeadHandler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Patch("/", h.Update)
		r.Delete("/", h.Delete)
		r.Post("/move", h.Move)
		r.Post("/notes", h.AddNote)
		r.Post("/sales", h.AddSale)
		r.Get("/history", h.History)
	})
}

// List (GET /leads?offset=&limit=)
func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	page, ok := queryPage(w, r)
	if !ok {
		return
	}
	out, err := h.Leads.ListPipeline(r.Context(), page.Offset, page.Limit)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *LeadHandler) Get(w http.ResponseWriter, r *http.Request) {
	lead, err := h.Leads.GetLead(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func (h *LeadHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input usecase.CreateLeadInput
	if !decodeJSON(w, r, &input) {
		return
	}
	lead, err := h.Leads.CreateLead(r.Context(), input, middleware.ActorFrom(r.Context()))
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, lead)
}

func (h *LeadHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch entity.LeadPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	lead, err := h.Leads.UpdateLead(r.Context(), chi.URLParam(r, "id"), patch, middleware.ActorFrom(r.Context()))
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

// Move (POST /leads/{id}/move) é o arrastar do kanban.
func (h *LeadHandler) Move(w http.ResponseWriter, r *http.Request) {
	var input usecase.MoveLeadInput
	if !decodeJSON(w, r, &input) {
		return
	}
	lead, err := h.Leads.MoveLead(r.Context(), chi.URLParam(r, "id"), input.Status, middleware.ActorFrom(r.Context()))
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func (h *LeadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Leads.DeleteLead(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, h.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *LeadHandler) AddNote(w http.ResponseWriter, r *http.Request) {
	var input usecase.AddNoteInput
	if !decodeJSON(w, r, &input) {
		return
	}
	entry, err := h.Leads.AddNote(r.Context(), chi.URLParam(r, "id"), input.Note, middleware.ActorFrom(r.Context()))
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (h *LeadHandler) AddSale(w http.ResponseWriter, r *http.Request) {
	var input usecase.AddSaleInput
	if !decodeJSON(w, r, &input) {
		return
	}
	lead, err := h.Leads.AddSale(r.Context(), chi.URLParam(r, "id"), input, middleware.ActorFrom(r.Context()))
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, lead)
}

func (h *LeadHandler) History(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Leads.History(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
