package usecase

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"time"

	"github.com/xavierca1/fortis-crm/internal/entity"
	"go.uber.org/zap"
)

// RosterLimit caps how many customers are loaded into the working set.
const RosterLimit = 2000

// Roster loads the customer working set that the clients, after-sales and
// sales screens filter in memory.
type Roster struct {
	Repo    entity.LeadRepositoryInterface
	Metrics Metrics
	Logger  *zap.Logger
	Now     Clock
}

// Load returns customers classified at now. Leads stored as won but with no
// paid history classify out of the customer set and are dropped.
func (r *Roster) Load(ctx context.Context) ([]entity.Lead, error) {
	leads, err := r.Repo.ListByStatus(ctx, entity.CustomerStatuses, 0, RosterLimit)
	if err != nil {
		return nil, dbError("listar clientes", err)
	}

	if len(leads) > 0 {
		ids := make([]string, len(leads))
		for i, l := range leads {
			ids[i] = l.ID
		}
		byLead, err := r.Repo.PurchasesByLeadIDs(ctx, ids)
		if err != nil {
			return nil, dbError("listar compras dos clientes", err)
		}
		for i := range leads {
			leads[i].Purchases = byLead[leads[i].ID]
		}
	}

	metrics := r.Metrics
	if metrics == nil {
		metrics = nopMetrics{}
	}
	classified := classifyAll(leads, r.Now(), metrics, r.Logger)
	return slices.DeleteFunc(classified, func(l entity.Lead) bool { return !l.IsCustomer() }), nil
}

type ClientFilter struct {
	Search        string
	Status        entity.LeadStatus
	ResponsibleID string
	Origin        string
	Channel       string
	Tags          []string
	SortKey       string
	SortDesc      bool
	// AfterSales selects the after-sales view: a missing after-sales status
	// reads as PRIMEIRA_COMPRA and CPF is not searched.
	AfterSales bool
}

type FilterOptions struct {
	Origins  []string `json:"origins"`
	Channels []string `json:"channels"`
}

type ClientUseCase struct {
	Roster *Roster
}

func NewClientUseCase(roster *Roster) *ClientUseCase {
	return &ClientUseCase{Roster: roster}
}

func (uc *ClientUseCase) ListClients(ctx context.Context, f ClientFilter, p Page) (*ListResult[entity.Lead], error) {
	if f.SortKey != "" {
		if _, ok := clientSorters[f.SortKey]; !ok {
			return nil, &DomainError{Code: CodeValidation, Message: "validation failed: sort: is not a known value"}
		}
	}

	clients, err := uc.Roster.Load(ctx)
	if err != nil {
		return nil, err
	}

	filtered := make([]entity.Lead, 0, len(clients))
	for _, c := range clients {
		if f.AfterSales && c.AfterSalesStatus == "" {
			c.AfterSalesStatus = entity.StatusPrimeiraCompra
		}
		if f.matches(c) {
			filtered = append(filtered, c)
		}
	}

	if less, ok := clientSorters[f.SortKey]; ok {
		slices.SortStableFunc(filtered, func(a, b entity.Lead) int {
			if f.SortDesc {
				return less(b, a)
			}
			return less(a, b)
		})
	}

	p = p.normalize(DefaultListLimit)
	items, total := paginate(filtered, p)
	return &ListResult[entity.Lead]{Items: items, Total: total, Offset: p.Offset, Limit: p.Limit}, nil
}

func (uc *ClientUseCase) FilterOptions(ctx context.Context) (*FilterOptions, error) {
	clients, err := uc.Roster.Load(ctx)
	if err != nil {
		return nil, err
	}
	origins := make([]string, 0)
	channels := make([]string, 0)
	for _, c := range clients {
		if c.Origin != "" {
			origins = append(origins, c.Origin)
		}
		if c.Channel != "" {
			channels = append(channels, c.Channel)
		}
	}
	slices.Sort(origins)
	slices.Sort(channels)
	return &FilterOptions{Origins: slices.Compact(origins), Channels: slices.Compact(channels)}, nil
}

func (f ClientFilter) matches(l entity.Lead) bool {
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		hit := strings.Contains(strings.ToLower(l.Name), q) || strings.Contains(strings.ToLower(l.Email), q)
		if !hit && !f.AfterSales && l.CPF != "" {
			hit = strings.Contains(l.CPF, strings.TrimSpace(f.Search))
		}
		if !hit {
			return false
		}
	}
	if f.Status != "" && l.Status != f.Status && l.AfterSalesStatus != f.Status {
		return false
	}
	if f.ResponsibleID != "" && l.ResponsibleID != f.ResponsibleID {
		return false
	}
	if f.Origin != "" && l.Origin != f.Origin {
		return false
	}
	if f.Channel != "" && l.Channel != f.Channel {
		return false
	}
	for _, t := range f.Tags {
		if !slices.Contains(l.Tags, t) {
			return false
		}
	}
	return true
}

func byString(get func(entity.Lead) string) func(a, b entity.Lead) int {
	return func(a, b entity.Lead) int {
		return strings.Compare(strings.ToLower(get(a)), strings.ToLower(get(b)))
	}
}

func byTime(get func(entity.Lead) *time.Time) func(a, b entity.Lead) int {
	return func(a, b entity.Lead) int {
		ta, tb := get(a), get(b)
		switch {
		case ta == nil && tb == nil:
			return 0
		case ta == nil:
			return -1
		case tb == nil:
			return 1
		}
		return ta.Compare(*tb)
	}
}

var clientSorters = map[string]func(a, b entity.Lead) int{
	"id":                 func(a, b entity.Lead) int { return cmp.Compare(a.ID, b.ID) },
	"name":               byString(func(l entity.Lead) string { return l.Name }),
	"cpf":                byString(func(l entity.Lead) string { return l.CPF }),
	"email":              byString(func(l entity.Lead) string { return l.Email }),
	"phone":              byString(func(l entity.Lead) string { return l.Phone }),
	"origin":             byString(func(l entity.Lead) string { return l.Origin }),
	"channel":            byString(func(l entity.Lead) string { return l.Channel }),
	"city":               byString(func(l entity.Lead) string { return l.City }),
	"uf":                 byString(func(l entity.Lead) string { return l.UF }),
	"responsible_id":     byString(func(l entity.Lead) string { return l.ResponsibleID }),
	"after_sales_status": byString(func(l entity.Lead) string { return string(l.AfterSalesStatus) }),
	"last_purchase_at":   byTime(func(l entity.Lead) *time.Time { return l.LastPurchaseAt }),
	"created_at":         byTime(func(l entity.Lead) *time.Time { return &l.CreatedAt }),
}
