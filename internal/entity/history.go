package entity

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type HistoryType string

const (
	HistoryStatusChange HistoryType = "STATUS_CHANGE"
	HistoryNote         HistoryType = "NOTE"
	HistoryEdit         HistoryType = "EDIT"
	HistoryEmailSent    HistoryType = "EMAIL_SENT"
	HistorySale         HistoryType = "SALE"
)

// SystemActor signs entries written without a logged user.
const SystemActor = "system"

const (
	LeadCreatedNote = "Lead cadastrado no ecossistema Fortis."
	emptyFieldValue = "Nenhum"
)

var FieldLabels = map[string]string{
	"name":               "Nome",
	"email":              "E-mail",
	"phone":              "Telefone",
	"status":             "Status",
	"after_sales_status": "Status de Pós-venda",
	"responsible_id":     "Responsável",
	"channel":            "Canal",
	"origin":             "Origem",
	"uf":                 "UF",
	"notes":              "Observações",
	"cpf":                "CPF",
	"address":            "Endereço",
	"address_number":     "Número",
	"district":           "Bairro",
	"city":               "Cidade",
}

// LeadHistory is an append-only activity record. Entries are never updated
// or deleted.
type LeadHistory struct {
	ID          string      `json:"id"`
	LeadID      string      `json:"lead_id"`
	Type        HistoryType `json:"type"`
	Field       string      `json:"field,omitempty"`
	OldValue    string      `json:"old_value,omitempty"`
	NewValue    string      `json:"new_value,omitempty"`
	Description string      `json:"description"`
	UserID      string      `json:"user_id"`
	Timestamp   time.Time   `json:"timestamp"`
}

func newHistory(leadID string, t HistoryType, description, actor string, at time.Time) LeadHistory {
	if actor == "" {
		actor = SystemActor
	}
	return LeadHistory{
		ID:          uuid.New().String(),
		LeadID:      leadID,
		Type:        t,
		Description: description,
		UserID:      actor,
		Timestamp:   at,
	}
}

func NewNoteEntry(leadID, note, actor string, at time.Time) LeadHistory {
	return newHistory(leadID, HistoryNote, note, actor, at)
}

func NewSaleEntry(leadID, description, actor string, at time.Time) LeadHistory {
	return newHistory(leadID, HistorySale, description, actor, at)
}

func NewEmailEntry(leadID, description string, at time.Time) LeadHistory {
	return newHistory(leadID, HistoryEmailSent, description, SystemActor, at)
}

// NewEditEntry records one changed field.
func NewEditEntry(leadID, field, oldValue, newValue, actor string, at time.Time) LeadHistory {
	label, ok := FieldLabels[field]
	if !ok {
		label = field
	}
	if oldValue == "" {
		oldValue = emptyFieldValue
	}
	h := newHistory(leadID, HistoryEdit, fmt.Sprintf("Alterou %s", label), actor, at)
	h.Field = field
	h.OldValue = oldValue
	h.NewValue = newValue
	return h
}

// DiffLeads builds one EDIT entry per scalar field that differs between before
// and after. Tags, purchases and timestamps are not tracked.
func DiffLeads(before, after Lead, actor string, at time.Time) []LeadHistory {
	pairs := []struct {
		field    string
		old, new string
	}{
		{"name", before.Name, after.Name},
		{"email", before.Email, after.Email},
		{"phone", before.Phone, after.Phone},
		{"status", string(before.Status), string(after.Status)},
		{"after_sales_status", string(before.AfterSalesStatus), string(after.AfterSalesStatus)},
		{"responsible_id", before.ResponsibleID, after.ResponsibleID},
		{"channel", before.Channel, after.Channel},
		{"origin", before.Origin, after.Origin},
		{"uf", before.UF, after.UF},
		{"notes", before.Notes, after.Notes},
		{"cpf", before.CPF, after.CPF},
		{"address", before.Address, after.Address},
		{"address_number", before.AddressNumber, after.AddressNumber},
		{"district", before.District, after.District},
		{"city", before.City, after.City},
	}

	var entries []LeadHistory
	for _, p := range pairs {
		if p.old != p.new {
			entries = append(entries, NewEditEntry(before.ID, p.field, p.old, p.new, actor, at))
		}
	}
	return entries
}

type HistoryRepositoryInterface interface {
	Append(ctx context.Context, entries ...LeadHistory) error
	ListByLead(ctx context.Context, leadID string) ([]LeadHistory, error)
	PurchasesByLead(ctx context.Context, leadID string) ([]Purchase, error)
}
