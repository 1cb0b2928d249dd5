package handlers

import (
	"net/http"
	"strconv"

	"github.com/xavierca1/fortis-crm/internal/entity"
	"github.com/xavierca1/fortis-crm/internal/usecase"
	"go.uber.org/zap"
)

type ClientHandler struct {
	Clients ClientService
	Sales   SalesService
	Logger  *zap.Logger
}

func NewClientHandler(clients ClientService, sales SalesService, logger *zap.Logger) *ClientHandler {
	return &ClientHandler{Clients: clients, Sales: sales, Logger: logger}
}

// List (GET /clients)
// Filtros: search, status, responsible, origin, channel, tags=a,b,
// sort, desc=true, view=after_sales.
func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	page, ok := queryPage(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	desc, _ := strconv.ParseBool(q.Get("desc"))
	filter := usecase.ClientFilter{
		Search:        q.Get("search"),
		Status:        entity.LeadStatus(q.Get("status")),
		ResponsibleID: q.Get("responsible"),
		Origin:        q.Get("origin"),
		Channel:       q.Get("channel"),
		Tags:          splitList(q.Get("tags")),
		SortKey:       q.Get("sort"),
		SortDesc:      desc,
		AfterSales:    q.Get("view") == "after_sales",
	}

	out, err := h.Clients.ListClients(r.Context(), filter, page)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *ClientHandler) Options(w http.ResponseWriter, r *http.Request) {
	out, err := h.Clients.FilterOptions(r.Context())
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// ListSales (GET /sales?search=)
func (h *ClientHandler) ListSales(w http.ResponseWriter, r *http.Request) {
	page, ok := queryPage(w, r)
	if !ok {
		return
	}
	out, err := h.Sales.ListSales(r.Context(), r.URL.Query().Get("search"), page)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
