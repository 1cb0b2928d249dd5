package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/xavierca1/fortis-crm/internal/entity"
)

type TrafficRepository struct {
	DB *sqlx.DB
}

func NewTrafficRepository(db *sqlx.DB) *TrafficRepository {
	return &TrafficRepository{DB: db}
}

type trafficRow struct {
	ID                          string          `db:"id"`
	Name                        string          `db:"name"`
	Date                        string          `db:"date"`
	Platform                    sql.NullString  `db:"platform"`
	AmountSpent                 decimal.Decimal `db:"amount_spent"`
	Impressions                 int64           `db:"impressions"`
	Reach                       int64           `db:"reach"`
	LinkClicks                  int64           `db:"link_clicks"`
	LandingPageViews            int64           `db:"landing_page_views"`
	AddToCart                   int64           `db:"add_to_cart"`
	CheckoutsInitiated          int64           `db:"checkouts_initiated"`
	Purchases                   int64           `db:"purchases"`
	PurchaseConversionValue     decimal.Decimal `db:"purchase_conversion_value"`
	Contacts                    int64           `db:"contacts"`
	Registrations               int64           `db:"registrations"`
	MessageConversationsStarted int64           `db:"message_conversations_started"`
	Objective                   sql.NullString  `db:"objective"`
	CampaignName                sql.NullString  `db:"campaign_name"`
	CampaignID                  sql.NullString  `db:"campaign_id"`
	CreatedAt                   time.Time       `db:"created_at"`
}

// ListBetween returns the meta_ads rows dated within [startDate, endDate]
// (YYYY-MM-DD, inclusive), newest first.
func (r *TrafficRepository) ListBetween(ctx context.Context, startDate, endDate string) ([]entity.TrafficInvestment, error) {
	query := `
		SELECT
			id::text AS id,
			COALESCE(NULLIF(account_name, ''), 'Meta Ads') AS name,
			to_char(date, 'YYYY-MM-DD') AS date,
			platform,
			COALESCE(amount_spent, 0) AS amount_spent,
			COALESCE(impressions, 0) AS impressions,
			COALESCE(reach, 0) AS reach,
			COALESCE(link_clicks, 0) AS link_clicks,
			COALESCE(landing_page_views, 0) AS landing_page_views,
			COALESCE(add_to_cart, 0) AS add_to_cart,
			COALESCE(checkouts_initiated, 0) AS checkouts_initiated,
			COALESCE(purchases, 0) AS purchases,
			COALESCE(purchase_conversion_value, 0) AS purchase_conversion_value,
			COALESCE(contacts, 0) AS contacts,
			COALESCE(registrations, 0) AS registrations,
			COALESCE(message_conversations_started, 0) AS message_conversations_started,
			objective, campaign_name, campaign_id, created_at
		FROM meta_ads
		WHERE date BETWEEN $1::date AND $2::date
		ORDER BY date DESC
	`

	var rows []trafficRow
	if err := r.DB.SelectContext(ctx, &rows, query, startDate, endDate); err != nil {
		return nil, err
	}

	out := make([]entity.TrafficInvestment, len(rows))
	for i, row := range rows {
		out[i] = entity.TrafficInvestment{
			ID:                          row.ID,
			Name:                        row.Name,
			Date:                        row.Date,
			Platform:                    row.Platform.String,
			AmountSpent:                 row.AmountSpent,
			Impressions:                 row.Impressions,
			Reach:                       row.Reach,
			LinkClicks:                  row.LinkClicks,
			LandingPageViews:            row.LandingPageViews,
			AddToCart:                   row.AddToCart,
			CheckoutsInitiated:          row.CheckoutsInitiated,
			Purchases:                   row.Purchases,
			PurchaseConversionValue:     row.PurchaseConversionValue,
			Contacts:                    row.Contacts,
			Registrations:               row.Registrations,
			MessageConversationsStarted: row.MessageConversationsStarted,
			Objective:                   row.Objective.String,
			CampaignName:                row.CampaignName.String,
			CampaignID:                  row.CampaignID.String,
			CreatedAt:                   row.CreatedAt,
		}
	}
	return out, nil
}
