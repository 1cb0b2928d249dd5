package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/xavierca1/fortis-crm/internal/usecase"
	"go.uber.org/zap"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		json.NewEncoder(w).Encode(body)
	}
}

func writeErrorResponse(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: code, Message: message})
}

// writeError maps use case errors to HTTP: domain errors are the caller's
// fault (4xx), technical errors are ours (5xx, cause only in the log).
func writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var de *usecase.DomainError
	if errors.As(err, &de) {
		writeErrorResponse(w, domainStatus(de.Code), de.Code, de.Message)
		return
	}

	var te *usecase.TechnicalError
	if errors.As(err, &te) {
		logger.Error("❌ Erro técnico", zap.String("code", te.Code), zap.Error(err))
		status := http.StatusInternalServerError
		if te.Code == usecase.CodeStatsFailed {
			status = http.StatusServiceUnavailable
		}
		writeErrorResponse(w, status, te.Code, te.Message)
		return
	}

	logger.Error("❌ Erro inesperado", zap.Error(err))
	writeErrorResponse(w, http.StatusInternalServerError, "INTERNAL_ERROR", "erro interno")
}

func domainStatus(code string) int {
	switch code {
	case usecase.CodeLeadNotFound, usecase.CodeUserNotFound, usecase.CodeTagNotFound, usecase.CodeNameNotFound:
		return http.StatusNotFound
	case usecase.CodeDuplicate:
		return http.StatusConflict
	case usecase.CodeValidation, usecase.CodeInvalidStatus:
		return http.StatusBadRequest
	default:
		return http.StatusUnprocessableEntity
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "JSON inválido")
		return false
	}
	return true
}

// queryPage reads offset/limit. Zero values are left to the use case
// defaults.
func queryPage(w http.ResponseWriter, r *http.Request) (usecase.Page, bool) {
	var p usecase.Page
	q := r.URL.Query()
	for name, dst := range map[string]*int{"offset": &p.Offset, "limit": &p.Limit} {
		raw := q.Get(name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeErrorResponse(w, http.StatusBadRequest, usecase.CodeValidation, name+" deve ser um inteiro não negativo")
			return p, false
		}
		*dst = n
	}
	return p, true
}

// pathParam returns an unescaped URL parameter; names like "Tráfego Pago"
// arrive percent-encoded.
func pathParam(r *http.Request, key string) string {
	raw := chi.URLParam(r, key)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
