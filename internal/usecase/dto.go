package usecase

import (
	"github.com/shopspring/decimal"
	"github.com/xavierca1/fortis-crm/internal/entity"
)

type CreateLeadInput struct {
	Name             string            `json:"name" validate:"required,min=2,max=200"`
	Email            string            `json:"email" validate:"omitempty,email"`
	Phone            string            `json:"phone" validate:"omitempty,phone_br"`
	Status           entity.LeadStatus `json:"status" validate:"omitempty,lead_status"`
	AfterSalesStatus entity.LeadStatus `json:"after_sales_status" validate:"omitempty,lead_status"`
	ResponsibleID    string            `json:"responsible_id"`
	Tags             []string          `json:"tags"`
	Channel          string            `json:"channel" validate:"max=100"`
	Origin           string            `json:"origin" validate:"max=100"`
	UF               string            `json:"uf" validate:"omitempty,len=2"`
	Notes            string            `json:"notes" validate:"max=5000"`
	CPF              string            `json:"cpf" validate:"omitempty,cpf"`
	Address          string            `json:"address"`
	AddressNumber    string            `json:"address_number"`
	District         string            `json:"district"`
	City             string            `json:"city"`
}

type AddSaleInput struct {
	Value decimal.Decimal `json:"value"`
	Note  string          `json:"note" validate:"max=2000"`
}

type AddNoteInput struct {
	Note string `json:"note" validate:"required,max=5000"`
}

type MoveLeadInput struct {
	Status entity.LeadStatus `json:"status" validate:"required,lead_status"`
}

// Page is an offset window over a result set.
type Page struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

const (
	DefaultListLimit = 25
	MaxListLimit     = 500
)

func (p Page) normalize(def int) Page {
	if p.Offset < 0 {
		p.Offset = 0
	}
	if p.Limit <= 0 {
		p.Limit = def
	}
	if p.Limit > MaxListLimit {
		p.Limit = MaxListLimit
	}
	return p
}

// paginate slices items to p, returning the window and the total count.
func paginate[T any](items []T, p Page) ([]T, int) {
	total := len(items)
	if p.Offset >= total {
		return []T{}, total
	}
	end := min(p.Offset+p.Limit, total)
	return items[p.Offset:end], total
}

type LeadPage struct {
	Leads   []entity.Lead `json:"leads"`
	Offset  int           `json:"offset"`
	HasMore bool          `json:"has_more"`
}

type ListResult[T any] struct {
	Items  []T `json:"items"`
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
