package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/xavierca1/fortis-crm/internal/entity"
)

const leadColumns = `
	id, name, email, phone, status, after_sales_status, responsible_id, tags,
	channel, origin, uf, notes, cpf, address, address_number, district, city,
	created_at, last_contact_at, last_purchase_at`

const purchaseColumns = `id, lead_id, date, value, status, lead_origin`

type leadRow struct {
	ID               string         `db:"id"`
	Name             sql.NullString `db:"name"`
	Email            sql.NullString `db:"email"`
	Phone            sql.NullString `db:"phone"`
	Status           sql.NullString `db:"status"`
	AfterSalesStatus sql.NullString `db:"after_sales_status"`
	ResponsibleID    sql.NullString `db:"responsible_id"`
	Tags             pq.StringArray `db:"tags"`
	Channel          sql.NullString `db:"channel"`
	Origin           sql.NullString `db:"origin"`
	UF               sql.NullString `db:"uf"`
	Notes            sql.NullString `db:"notes"`
	CPF              sql.NullString `db:"cpf"`
	Address          sql.NullString `db:"address"`
	AddressNumber    sql.NullString `db:"address_number"`
	District         sql.NullString `db:"district"`
	City             sql.NullString `db:"city"`
	CreatedAt        time.Time      `db:"created_at"`
	LastContactAt    sql.NullTime   `db:"last_contact_at"`
	LastPurchaseAt   sql.NullTime   `db:"last_purchase_at"`
}

func (r leadRow) toEntity() entity.Lead {
	l := entity.Lead{
		ID:               r.ID,
		Name:             r.Name.String,
		Email:            r.Email.String,
		Phone:            r.Phone.String,
		Status:           entity.LeadStatus(r.Status.String),
		AfterSalesStatus: entity.LeadStatus(r.AfterSalesStatus.String),
		ResponsibleID:    r.ResponsibleID.String,
		Tags:             []string(r.Tags),
		Channel:          r.Channel.String,
		Origin:           r.Origin.String,
		UF:               r.UF.String,
		Notes:            r.Notes.String,
		CPF:              r.CPF.String,
		Address:          r.Address.String,
		AddressNumber:    r.AddressNumber.String,
		District:         r.District.String,
		City:             r.City.String,
		CreatedAt:        r.CreatedAt,
	}
	if l.Tags == nil {
		l.Tags = []string{}
	}
	if r.LastContactAt.Valid {
		t := r.LastContactAt.Time
		l.LastContactAt = &t
	}
	if r.LastPurchaseAt.Valid {
		t := r.LastPurchaseAt.Time
		l.LastPurchaseAt = &t
	}
	return l
}

// Placeholders shown by list screens for missing data. They are applied on
// list reads only so that an edit never writes them back.
const (
	noName        = "Sem nome"
	notInformed   = "Não informado"
	noFederalUnit = "-"
)

func withListDefaults(l entity.Lead) entity.Lead {
	if l.Name == "" {
		l.Name = noName
	}
	if l.Channel == "" {
		l.Channel = notInformed
	}
	if l.Origin == "" {
		l.Origin = notInformed
	}
	if l.UF == "" {
		l.UF = noFederalUnit
	}
	return l
}

type purchaseRow struct {
	ID         string              `db:"id"`
	LeadID     string              `db:"lead_id"`
	Date       sql.NullTime        `db:"date"`
	Value      decimal.NullDecimal `db:"value"`
	Status     sql.NullString      `db:"status"`
	LeadOrigin sql.NullString      `db:"lead_origin"`
}

func (r purchaseRow) toEntity() entity.Purchase {
	p := entity.Purchase{
		ID:         r.ID,
		LeadID:     r.LeadID,
		Value:      decimal.Zero,
		Status:     r.Status.String,
		LeadOrigin: r.LeadOrigin.String,
	}
	if r.Date.Valid {
		p.Date = r.Date.Time
	}
	if r.Value.Valid {
		p.Value = r.Value.Decimal
	}
	if p.Status == "" {
		p.Status = entity.DefaultPurchaseStatus
	}
	return p
}

func toPurchases(rows []purchaseRow) []entity.Purchase {
	out := make([]entity.Purchase, len(rows))
	for i, r := range rows {
		out[i] = r.toEntity()
	}
	return out
}

type LeadRepository struct {
	DB *sqlx.DB
}

func NewLeadRepository(db *sqlx.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

func (r *LeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	query := `
		INSERT INTO leads (
			id, name, email, phone, status, after_sales_status, responsible_id, tags,
			channel, origin, uf, notes, cpf, address, address_number, district, city, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`
	_, err := r.DB.ExecContext(ctx, query, append([]any{lead.ID}, append(leadValues(lead), lead.CreatedAt)...)...)
	return mapError(err)
}

func (r *LeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	var row leadRow
	if err := r.DB.GetContext(ctx, &row, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id); err != nil {
		return nil, mapError(err)
	}

	var purchases []purchaseRow
	if err := r.DB.SelectContext(ctx, &purchases,
		`SELECT `+purchaseColumns+` FROM lead_purchases WHERE lead_id = $1`, id); err != nil {
		return nil, fmt.Errorf("compras do lead %s: %w", id, err)
	}

	lead := row.toEntity()
	lead.Purchases = toPurchases(purchases)
	return &lead, nil
}

// Update writes every editable column of lead.
func (r *LeadRepository) Update(ctx context.Context, lead *entity.Lead) error {
	query := `
		UPDATE leads SET
			name = $2, email = $3, phone = $4, status = $5, after_sales_status = $6,
			responsible_id = $7, tags = $8, channel = $9, origin = $10, uf = $11,
			notes = $12, cpf = $13, address = $14, address_number = $15, district = $16, city = $17
		WHERE id = $1
	`
	return expectAffected(r.DB.ExecContext(ctx, query, append([]any{lead.ID}, leadValues(lead)...)...))
}

func (r *LeadRepository) Delete(ctx context.Context, id string) error {
	return expectAffected(r.DB.ExecContext(ctx, `DELETE FROM leads WHERE id = $1`, id))
}

// ListByStatus returns leads whose stored status is in statuses, newest first.
func (r *LeadRepository) ListByStatus(ctx context.Context, statuses []entity.LeadStatus, offset, limit int) ([]entity.Lead, error) {
	query := `SELECT ` + leadColumns + `
		FROM leads
		WHERE status = ANY($1)
		ORDER BY created_at DESC
		OFFSET $2 LIMIT $3`

	var rows []leadRow
	if err := r.DB.SelectContext(ctx, &rows, query, pq.Array(entity.StatusStrings(statuses)), offset, limit); err != nil {
		return nil, err
	}

	leads := make([]entity.Lead, len(rows))
	for i, row := range rows {
		leads[i] = withListDefaults(row.toEntity())
	}
	return leads, nil
}

func (r *LeadRepository) PurchasesByLeadIDs(ctx context.Context, ids []string) (map[string][]entity.Purchase, error) {
	out := make(map[string][]entity.Purchase, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var rows []purchaseRow
	if err := r.DB.SelectContext(ctx, &rows,
		`SELECT `+purchaseColumns+` FROM lead_purchases WHERE lead_id = ANY($1)`, pq.Array(ids)); err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.LeadID] = append(out[row.LeadID], row.toEntity())
	}
	return out, nil
}

// RegisterSale inserts the purchase, marks the lead as won and appends the
// SALE entry in one transaction.
func (r *LeadRepository) RegisterSale(ctx context.Context, sale entity.Sale) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	p := sale.Purchase
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO lead_purchases (id, lead_id, date, value, status, lead_origin) VALUES ($1, $2, $3, $4, $5, $6)`,
		p.ID, p.LeadID, p.Date, p.Value, p.Status, nullString(p.LeadOrigin),
	); err != nil {
		return mapError(err)
	}

	if err := expectAffected(tx.ExecContext(ctx,
		`UPDATE leads SET status = $2, last_purchase_at = $3 WHERE id = $1`,
		p.LeadID, string(entity.StatusGanho), p.Date,
	)); err != nil {
		return err
	}

	if _, err := tx.NamedExecContext(ctx, insertHistory, toHistoryRow(sale.History)); err != nil {
		return mapError(err)
	}

	return tx.Commit()
}

func leadValues(l *entity.Lead) []any {
	return []any{
		l.Name,
		nullString(l.Email),
		nullString(l.Phone),
		string(l.Status),
		nullString(string(l.AfterSalesStatus)),
		nullString(l.ResponsibleID),
		pq.Array(l.Tags),
		nullString(l.Channel),
		nullString(l.Origin),
		nullString(l.UF),
		nullString(l.Notes),
		nullString(l.CPF),
		nullString(l.Address),
		nullString(l.AddressNumber),
		nullString(l.District),
		nullString(l.City),
	}
}
