package entity

import (
	"context"
	"time"
)

type LeadStatus string

// Pipeline stages
const (
	StatusNovo                LeadStatus = "NOVO"
	StatusContato             LeadStatus = "CONTATO"
	StatusFollowUp            LeadStatus = "FOLLOW_UP"
	StatusQualificado         LeadStatus = "QUALIFICADO"
	StatusAguardandoPagamento LeadStatus = "AGUARDANDO_PAGAMENTO"
	StatusGanho               LeadStatus = "GANHO"
	StatusPerdido             LeadStatus = "PERDIDO"
	StatusSemClassificacao    LeadStatus = "SEM_CLASSIFICACAO"
	StatusFinalizado          LeadStatus = "FINALIZADO"
)

// After-sales stages. They are valid values for both Lead.Status and
// Lead.AfterSalesStatus.
const (
	StatusPrimeiraCompra LeadStatus = "PRIMEIRA_COMPRA"
	StatusRecorrente     LeadStatus = "RECORRENTE"
	StatusVIP            LeadStatus = "VIP"
	StatusInativo        LeadStatus = "INATIVO"
)

var (
	PipelineStatuses = []LeadStatus{
		StatusNovo, StatusContato, StatusFollowUp, StatusQualificado,
		StatusAguardandoPagamento, StatusPerdido,
	}

	// ListablePipelineStatuses is what the kanban loads: the pipeline plus
	// leads that were never classified.
	ListablePipelineStatuses = append(append([]LeadStatus{}, PipelineStatuses...), StatusSemClassificacao)

	AfterSalesStatuses = []LeadStatus{
		StatusPrimeiraCompra, StatusRecorrente, StatusVIP, StatusInativo,
	}

	CustomerStatuses = []LeadStatus{
		StatusPrimeiraCompra, StatusRecorrente, StatusVIP, StatusInativo,
		StatusGanho, StatusFinalizado,
	}
)

var statusLabels = map[LeadStatus]string{
	StatusNovo:                "Lead Novo",
	StatusContato:             "Contato Realizado",
	StatusFollowUp:            "Follow Up",
	StatusQualificado:         "Qualificado",
	StatusAguardandoPagamento: "Aguardando Pagamento",
	StatusGanho:               "Ganho",
	StatusPerdido:             "Perdido",
	StatusPrimeiraCompra:      "1ª Compra",
	StatusRecorrente:          "Recorrente",
	StatusVIP:                 "VIP",
	StatusInativo:             "Inativo",
	StatusSemClassificacao:    "Sem Classificação",
	StatusFinalizado:          "Finalizado",
}

// Label returns the pt-BR display name of the status.
func (s LeadStatus) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

func (s LeadStatus) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

func (s LeadStatus) In(set []LeadStatus) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

func (s LeadStatus) IsAfterSales() bool { return s.In(AfterSalesStatuses) }

func StatusStrings(set []LeadStatus) []string {
	out := make([]string, len(set))
	for i, s := range set {
		out[i] = string(s)
	}
	return out
}

// Lead is a prospect or a customer. Status and AfterSalesStatus hold what is
// stored; Classify derives the effective view from the purchase history.
type Lead struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Email            string     `json:"email"`
	Phone            string     `json:"phone"`
	Status           LeadStatus `json:"status"`
	AfterSalesStatus LeadStatus `json:"after_sales_status,omitempty"`
	ResponsibleID    string     `json:"responsible_id"`
	Tags             []string   `json:"tags"`
	Channel          string     `json:"channel"`
	Origin           string     `json:"origin"`
	UF               string     `json:"uf"`
	Notes            string     `json:"notes"`

	CPF           string `json:"cpf,omitempty"`
	Address       string `json:"address,omitempty"`
	AddressNumber string `json:"address_number,omitempty"`
	District      string `json:"district,omitempty"`
	City          string `json:"city,omitempty"`

	CreatedAt      time.Time  `json:"created_at"`
	LastContactAt  *time.Time `json:"last_contact_at,omitempty"`
	LastPurchaseAt *time.Time `json:"last_purchase_at,omitempty"`

	Purchases []Purchase `json:"purchase_history"`
}

// IsCustomer reports whether the lead left the sales pipeline.
func (l *Lead) IsCustomer() bool {
	return l.Status.In(CustomerStatuses) || l.AfterSalesStatus.In(CustomerStatuses)
}

func (l *Lead) IsPipeline() bool {
	return l.Status.In(PipelineStatuses)
}

// Classify returns a copy of the lead carrying its effective status at now.
// Purchases come back sorted newest first and LastPurchaseAt follows the most
// recent dated purchase when there is one.
func (l Lead) Classify(now time.Time) Lead {
	set := NormalizePurchases(l.Purchases)
	c := Classify(l.Status, l.AfterSalesStatus, set, now)

	l.Status = c.Status
	l.AfterSalesStatus = c.AfterSales
	l.Purchases = set.All
	if len(set.All) > 0 && !set.All[0].Date.IsZero() {
		d := set.All[0].Date
		l.LastPurchaseAt = &d
	}
	return l
}

// LeadPatch carries a partial update. Nil fields are left alone.
type LeadPatch struct {
	Name             *string     `json:"name,omitempty"`
	Email            *string     `json:"email,omitempty"`
	Phone            *string     `json:"phone,omitempty"`
	Status           *LeadStatus `json:"status,omitempty"`
	AfterSalesStatus *LeadStatus `json:"after_sales_status,omitempty"`
	ResponsibleID    *string     `json:"responsible_id,omitempty"`
	Tags             *[]string   `json:"tags,omitempty"`
	Channel          *string     `json:"channel,omitempty"`
	Origin           *string     `json:"origin,omitempty"`
	UF               *string     `json:"uf,omitempty"`
	Notes            *string     `json:"notes,omitempty"`
	CPF              *string     `json:"cpf,omitempty"`
	Address          *string     `json:"address,omitempty"`
	AddressNumber    *string     `json:"address_number,omitempty"`
	District         *string     `json:"district,omitempty"`
	City             *string     `json:"city,omitempty"`
}

// Apply writes the patch over a copy of lead.
func (p LeadPatch) Apply(lead Lead) Lead {
	setStr := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	setStr(&lead.Name, p.Name)
	setStr(&lead.Email, p.Email)
	setStr(&lead.Phone, p.Phone)
	setStr(&lead.ResponsibleID, p.ResponsibleID)
	setStr(&lead.Channel, p.Channel)
	setStr(&lead.Origin, p.Origin)
	setStr(&lead.UF, p.UF)
	setStr(&lead.Notes, p.Notes)
	setStr(&lead.CPF, p.CPF)
	setStr(&lead.Address, p.Address)
	setStr(&lead.AddressNumber, p.AddressNumber)
	setStr(&lead.District, p.District)
	setStr(&lead.City, p.City)
	if p.Status != nil {
		lead.Status = *p.Status
	}
	if p.AfterSalesStatus != nil {
		lead.AfterSalesStatus = *p.AfterSalesStatus
	}
	if p.Tags != nil {
		lead.Tags = append([]string(nil), (*p.Tags)...)
	}
	return lead
}

// LeadRepositoryInterface is the persistence contract for leads and their
// purchases.
type LeadRepositoryInterface interface {
	Create(ctx context.Context, lead *Lead) error
	FindByID(ctx context.Context, id string) (*Lead, error)
	Update(ctx context.Context, lead *Lead) error
	Delete(ctx context.Context, id string) error
	ListByStatus(ctx context.Context, statuses []LeadStatus, offset, limit int) ([]Lead, error)
	PurchasesByLeadIDs(ctx context.Context, ids []string) (map[string][]Purchase, error)
	RegisterSale(ctx context.Context, sale Sale) error
}

// Sale is the unit written atomically by RegisterSale.
type Sale struct {
	Purchase Purchase
	History  LeadHistory
}
