package database

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/xavierca1/fortis-crm/internal/entity"
	"github.com/xavierca1/fortis-crm/internal/report"
)

// StatsRepository serves the dashboard reads. Each method is one query so
// they can run concurrently on the pool.
type StatsRepository struct {
	DB *sqlx.DB
}

func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{DB: db}
}

func (r *StatsRepository) CountLeadsCreated(ctx context.Context, w report.Window) (int, error) {
	var n int
	err := r.DB.GetContext(ctx, &n,
		`SELECT count(*) FROM leads WHERE created_at BETWEEN $1 AND $2`, w.Start, w.End)
	return n, err
}

func (r *StatsRepository) LeadStatuses(ctx context.Context) ([]report.StatusRow, error) {
	var rows []struct {
		Status     sql.NullString `db:"status"`
		AfterSales sql.NullString `db:"after_sales_status"`
	}
	if err := r.DB.SelectContext(ctx, &rows, `SELECT status, after_sales_status FROM leads`); err != nil {
		return nil, err
	}

	out := make([]report.StatusRow, len(rows))
	for i, row := range rows {
		out[i] = report.StatusRow{
			Status:     entity.LeadStatus(row.Status.String),
			AfterSales: entity.LeadStatus(row.AfterSales.String),
		}
	}
	return out, nil
}

// Investment calls get_meta_ads_investment. A nil window passes NULL bounds,
// which the function reads as all time.
func (r *StatsRepository) Investment(ctx context.Context, w *report.Window) (decimal.Decimal, error) {
	var start, end sql.NullString
	if w != nil {
		start = sql.NullString{String: w.StartDate(), Valid: true}
		end = sql.NullString{String: w.EndDate(), Valid: true}
	}

	var total decimal.NullDecimal
	if err := r.DB.GetContext(ctx, &total,
		`SELECT get_meta_ads_investment($1::date, $2::date)`, start, end); err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

func (r *StatsRepository) PurchasesBetween(ctx context.Context, w report.Window) ([]entity.Purchase, error) {
	var rows []purchaseRow
	if err := r.DB.SelectContext(ctx, &rows,
		`SELECT `+purchaseColumns+` FROM lead_purchases WHERE date BETWEEN $1 AND $2`, w.Start, w.End); err != nil {
		return nil, err
	}
	return toPurchases(rows), nil
}

func (r *StatsRepository) AllPurchases(ctx context.Context) ([]entity.Purchase, error) {
	var rows []purchaseRow
	if err := r.DB.SelectContext(ctx, &rows, `SELECT `+purchaseColumns+` FROM lead_purchases`); err != nil {
		return nil, err
	}
	return toPurchases(rows), nil
}

// CountLeadsByOrigin matches origin ignoring case and surrounding spaces.
func (r *StatsRepository) CountLeadsByOrigin(ctx context.Context, origin string) (int, error) {
	var n int
	err := r.DB.GetContext(ctx, &n,
		`SELECT count(*) FROM leads WHERE lower(trim(origin)) = lower(trim($1))`, origin)
	return n, err
}

func (r *StatsRepository) LeadActivity(ctx context.Context, w report.Window) ([]report.ActivityRow, error) {
	var rows []struct {
		Status         sql.NullString `db:"status"`
		UF             sql.NullString `db:"uf"`
		LastPurchaseAt sql.NullTime   `db:"last_purchase_at"`
	}
	if err := r.DB.SelectContext(ctx, &rows, `
		SELECT status, uf, last_purchase_at
		FROM leads
		WHERE last_purchase_at BETWEEN $1 AND $2`, w.Start, w.End); err != nil {
		return nil, err
	}

	out := make([]report.ActivityRow, len(rows))
	for i, row := range rows {
		out[i] = report.ActivityRow{
			Status:         entity.LeadStatus(row.Status.String),
			UF:             row.UF.String,
			LastPurchaseAt: row.LastPurchaseAt.Time,
		}
	}
	return out, nil
}
