package usecase

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xavierca1/fortis-crm/internal/entity"
	"github.com/xavierca1/fortis-crm/internal/report"
)

type TrafficFilter struct {
	Search   string
	Platform string
}

type TrafficRow struct {
	entity.TrafficInvestment
	CPC  decimal.Decimal `json:"cpc"`
	ROAS decimal.Decimal `json:"roas"`
}

type TrafficTotals struct {
	AmountSpent     decimal.Decimal `json:"amount_spent"`
	Purchases       int64           `json:"purchases"`
	ConversionValue decimal.Decimal `json:"conversion_value"`
	ROAS            decimal.Decimal `json:"roas"`
}

type TrafficReport struct {
	Period report.Period `json:"period"`
	ListResult[TrafficRow]
	Totals TrafficTotals `json:"totals"`
}

type TrafficUseCase struct {
	Repo entity.TrafficRepositoryInterface
	Now  Clock
}

func NewTrafficUseCase(repo entity.TrafficRepositoryInterface, now Clock) *TrafficUseCase {
	return &TrafficUseCase{Repo: repo, Now: now}
}

// ListTraffic returns the ad investment rows of a period, newest first.
// Totals cover every filtered row, not just the requested page.
func (uc *TrafficUseCase) ListTraffic(ctx context.Context, token string, custom report.CustomRange, f TrafficFilter, p Page) (*TrafficReport, error) {
	period := report.Resolve(token, custom, uc.Now())

	rows, err := uc.Repo.ListBetween(ctx, period.Current.StartDate(), period.Current.EndDate())
	if err != nil {
		return nil, dbError("listar investimentos de tráfego", err)
	}

	q := strings.ToLower(strings.TrimSpace(f.Search))
	totals := TrafficTotals{AmountSpent: decimal.Zero, ConversionValue: decimal.Zero}
	filtered := make([]TrafficRow, 0, len(rows))
	for _, r := range rows {
		if q != "" && !strings.Contains(strings.ToLower(r.Name), q) {
			continue
		}
		if f.Platform != "" && r.Platform != f.Platform {
			continue
		}
		filtered = append(filtered, TrafficRow{TrafficInvestment: r, CPC: r.CPC(), ROAS: r.ROAS()})
		totals.AmountSpent = totals.AmountSpent.Add(r.AmountSpent)
		totals.Purchases += r.Purchases
		totals.ConversionValue = totals.ConversionValue.Add(r.PurchaseConversionValue)
	}
	if !totals.AmountSpent.IsZero() {
		totals.ROAS = totals.ConversionValue.Div(totals.AmountSpent).Round(2)
	}

	p = p.normalize(DefaultListLimit)
	items, total := paginate(filtered, p)
	return &TrafficReport{
		Period:     period,
		ListResult: ListResult[TrafficRow]{Items: items, Total: total, Offset: p.Offset, Limit: p.Limit},
		Totals:     totals,
	}, nil
}
