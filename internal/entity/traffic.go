package entity

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// TrafficInvestment is one campaign-day of ad spend. Rows are produced by the
// ads reporting pipeline; the CRM only reads them.
type TrafficInvestment struct {
	ID                          string          `json:"id"`
	Name                        string          `json:"name"`
	Date                        string          `json:"date"`
	Platform                    string          `json:"platform"`
	AmountSpent                 decimal.Decimal `json:"amount_spent"`
	Impressions                 int64           `json:"impressions"`
	Reach                       int64           `json:"reach"`
	LinkClicks                  int64           `json:"link_clicks"`
	LandingPageViews            int64           `json:"landing_page_views"`
	AddToCart                   int64           `json:"add_to_cart"`
	CheckoutsInitiated          int64           `json:"checkouts_initiated"`
	Purchases                   int64           `json:"purchases"`
	PurchaseConversionValue     decimal.Decimal `json:"purchase_conversion_value"`
	Contacts                    int64           `json:"contacts"`
	Registrations               int64           `json:"registrations"`
	MessageConversationsStarted int64           `json:"message_conversations_started"`
	Objective                   string          `json:"objective,omitempty"`
	CampaignName                string          `json:"campaign_name,omitempty"`
	CampaignID                  string          `json:"campaign_id,omitempty"`
	CreatedAt                   time.Time       `json:"created_at"`
}

// CPC is spend per link click, zero without clicks.
func (t TrafficInvestment) CPC() decimal.Decimal {
	if t.LinkClicks == 0 {
		return decimal.Zero
	}
	return t.AmountSpent.Div(decimal.NewFromInt(t.LinkClicks))
}

// ROAS is conversion value per unit spent, zero without spend.
func (t TrafficInvestment) ROAS() decimal.Decimal {
	if t.AmountSpent.IsZero() {
		return decimal.Zero
	}
	return t.PurchaseConversionValue.Div(t.AmountSpent)
}

type TrafficRepositoryInterface interface {
	ListBetween(ctx context.Context, startDate, endDate string) ([]TrafficInvestment, error)
}
