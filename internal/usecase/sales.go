package usecase

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xavierca1/fortis-crm/internal/entity"
)

// SaleRow is one purchase in the sales ledger.
type SaleRow struct {
	ID         string              `json:"id"`
	ClientID   string              `json:"client_id"`
	ClientName string              `json:"client_name"`
	Status     string              `json:"status"`
	Payment    entity.PaymentClass `json:"payment"`
	Date       time.Time           `json:"date"`
	Value      decimal.Decimal     `json:"value"`
}

type SalesUseCase struct {
	Roster *Roster
}

func NewSalesUseCase(roster *Roster) *SalesUseCase {
	return &SalesUseCase{Roster: roster}
}

// ListSales flattens the purchases of every customer, newest first. search
// matches the client name, the client id or the purchase id.
func (uc *SalesUseCase) ListSales(ctx context.Context, search string, p Page) (*ListResult[SaleRow], error) {
	clients, err := uc.Roster.Load(ctx)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(search))
	var rows []SaleRow
	for _, c := range clients {
		for _, purchase := range c.Purchases {
			if q != "" &&
				!strings.Contains(strings.ToLower(c.Name), q) &&
				!strings.Contains(strings.ToLower(purchase.ID), q) &&
				!strings.Contains(strings.ToLower(c.ID), q) {
				continue
			}
			rows = append(rows, SaleRow{
				ID:         purchase.ID,
				ClientID:   c.ID,
				ClientName: c.Name,
				Status:     purchase.Status,
				Payment:    purchase.Payment(),
				Date:       purchase.Date,
				Value:      purchase.Value,
			})
		}
	}

	slices.SortStableFunc(rows, func(a, b SaleRow) int { return b.Date.Compare(a.Date) })

	p = p.normalize(DefaultListLimit)
	items, total := paginate(rows, p)
	return &ListResult[SaleRow]{Items: items, Total: total, Offset: p.Offset, Limit: p.Limit}, nil
}
