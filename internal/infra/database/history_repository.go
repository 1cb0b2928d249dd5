package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/xavierca1/fortis-crm/internal/entity"
)

const insertHistory = `
	INSERT INTO lead_history (id, lead_id, type, field, old_value, new_value, description, user_id, created_at)
	VALUES (:id, :lead_id, :type, :field, :old_value, :new_value, :description, :user_id, :created_at)
`

type historyRow struct {
	ID          string         `db:"id"`
	LeadID      string         `db:"lead_id"`
	Type        string         `db:"type"`
	Field       sql.NullString `db:"field"`
	OldValue    sql.NullString `db:"old_value"`
	NewValue    sql.NullString `db:"new_value"`
	Description string         `db:"description"`
	UserID      sql.NullString `db:"user_id"`
	CreatedAt   time.Time      `db:"created_at"`
}

func toHistoryRow(h entity.LeadHistory) historyRow {
	userID := h.UserID
	if userID == entity.SystemActor {
		userID = ""
	}
	return historyRow{
		ID:          h.ID,
		LeadID:      h.LeadID,
		Type:        string(h.Type),
		Field:       sql.NullString{String: h.Field, Valid: h.Field != ""},
		OldValue:    sql.NullString{String: h.OldValue, Valid: h.OldValue != ""},
		NewValue:    sql.NullString{String: h.NewValue, Valid: h.NewValue != ""},
		Description: h.Description,
		UserID:      sql.NullString{String: userID, Valid: userID != ""},
		CreatedAt:   h.Timestamp,
	}
}

func (r historyRow) toEntity() entity.LeadHistory {
	userID := r.UserID.String
	if userID == "" {
		userID = entity.SystemActor
	}
	return entity.LeadHistory{
		ID:          r.ID,
		LeadID:      r.LeadID,
		Type:        entity.HistoryType(r.Type),
		Field:       r.Field.String,
		OldValue:    r.OldValue.String,
		NewValue:    r.NewValue.String,
		Description: r.Description,
		UserID:      userID,
		Timestamp:   r.CreatedAt,
	}
}

type HistoryRepository struct {
	DB *sqlx.DB
}

func NewHistoryRepository(db *sqlx.DB) *HistoryRepository {
	return &HistoryRepository{DB: db}
}

// Append inserts every entry in a single statement.
func (r *HistoryRepository) Append(ctx context.Context, entries ...entity.LeadHistory) error {
	if len(entries) == 0 {
		return nil
	}
	rows := make([]historyRow, len(entries))
	for i, e := range entries {
		rows[i] = toHistoryRow(e)
	}
	_, err := r.DB.NamedExecContext(ctx, insertHistory, rows)
	return mapError(err)
}

func (r *HistoryRepository) ListByLead(ctx context.Context, leadID string) ([]entity.LeadHistory, error) {
	var rows []historyRow
	err := r.DB.SelectContext(ctx, &rows, `
		SELECT id::text AS id, lead_id, type, field, old_value, new_value, description, user_id, created_at
		FROM lead_history
		WHERE lead_id = $1
		ORDER BY created_at DESC`, leadID)
	if err != nil {
		return nil, err
	}

	out := make([]entity.LeadHistory, len(rows))
	for i, row := range rows {
		out[i] = row.toEntity()
	}
	return out, nil
}

func (r *HistoryRepository) PurchasesByLead(ctx context.Context, leadID string) ([]entity.Purchase, error) {
	var rows []purchaseRow
	if err := r.DB.SelectContext(ctx, &rows,
		`SELECT `+purchaseColumns+` FROM lead_purchases WHERE lead_id = $1`, leadID); err != nil {
		return nil, err
	}
	return toPurchases(rows), nil
}
