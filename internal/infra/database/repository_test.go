package database

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/fortis-crm/internal/entity"
	"github.com/xavierca1/fortis-crm/internal/report"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "postgres"), mock
}

var leadCols = []string{
	"id", "name", "email", "phone", "status", "after_sales_status", "responsible_id", "tags",
	"channel", "origin", "uf", "notes", "cpf", "address", "address_number", "district", "city",
	"created_at", "last_contact_at", "last_purchase_at",
}

var purchaseCols = []string{"id", "lead_id", "date", "value", "status", "lead_origin"}

var created = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

// TestListByStatusAppliesListDefaults - Campos vazios recebem os textos de exibição
func TestListByStatusAppliesListDefaults(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewLeadRepository(db)

	rows := sqlmock.NewRows(leadCols).
		AddRow("l1", nil, "ana@example.com", nil, "NOVO", nil, "u1", "{kit,promo}",
			nil, nil, nil, nil, nil, nil, nil, nil, nil, created, nil, nil)
	mock.ExpectQuery(regexp.QuoteMeta("FROM leads")).
		WithArgs(pq.Array([]string{"NOVO", "CONTATO"}), 0, 100).
		WillReturnRows(rows)

	leads, err := repo.ListByStatus(context.Background(), []entity.LeadStatus{entity.StatusNovo, entity.StatusContato}, 0, 100)

	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "Sem nome", leads[0].Name)
	assert.Equal(t, "Não informado", leads[0].Channel)
	assert.Equal(t, "Não informado", leads[0].Origin)
	assert.Equal(t, "-", leads[0].UF)
	assert.Equal(t, []string{"kit", "promo"}, leads[0].Tags)
	assert.Nil(t, leads[0].LastPurchaseAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestFindByIDLoadsPurchases - Lead vem com compras e status padrão "Pago"
func TestFindByIDLoadsPurchases(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewLeadRepository(db)
	paidAt := time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM leads WHERE id = $1")).WithArgs("l1").
		WillReturnRows(sqlmock.NewRows(leadCols).AddRow("l1", "Ana", nil, nil, "GANHO", nil, nil, nil,
			"WhatsApp", "Instagram", "SP", nil, nil, nil, nil, nil, nil, created, nil, paidAt))
	mock.ExpectQuery(regexp.QuoteMeta("FROM lead_purchases WHERE lead_id = $1")).WithArgs("l1").
		WillReturnRows(sqlmock.NewRows(purchaseCols).
			AddRow("p1", "l1", paidAt, "150.50", nil, "Instagram").
			AddRow("p2", "l1", nil, nil, "PENDENTE", nil))

	lead, err := repo.FindByID(context.Background(), "l1")

	require.NoError(t, err)
	assert.Equal(t, "Ana", lead.Name)
	assert.Equal(t, []string{}, lead.Tags)
	require.Len(t, lead.Purchases, 2)
	assert.Equal(t, "Pago", lead.Purchases[0].Status)
	assert.True(t, lead.Purchases[0].Value.Equal(decimal.RequireFromString("150.50")))
	assert.True(t, lead.Purchases[1].Date.IsZero())
	assert.True(t, lead.Purchases[1].Value.IsZero())
	require.NotNil(t, lead.LastPurchaseAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestFindByIDNotFound - Nenhuma linha vira ErrNotFound
func TestFindByIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewLeadRepository(db)
	mock.ExpectQuery("FROM leads").WithArgs("x").WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "x")

	assert.ErrorIs(t, err, entity.ErrNotFound)
}

// TestCreateLeadDuplicate - Violação de unicidade vira ErrDuplicate
func TestCreateLeadDuplicate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewLeadRepository(db)
	mock.ExpectExec("INSERT INTO leads").WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Create(context.Background(), &entity.Lead{ID: "l1", Name: "Ana", Status: entity.StatusNovo, CreatedAt: created})

	assert.ErrorIs(t, err, entity.ErrDuplicate)
}

// TestUpdateLeadMissingRow - UPDATE sem linha afetada vira ErrNotFound
func TestUpdateLeadMissingRow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewLeadRepository(db)
	mock.ExpectExec("UPDATE leads SET").WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &entity.Lead{ID: "l1", Name: "Ana"})

	assert.ErrorIs(t, err, entity.ErrNotFound)
}

// TestPurchasesByLeadIDsGroups - Compras agrupadas por lead
func TestPurchasesByLeadIDsGroups(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewLeadRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE lead_id = ANY($1)")).
		WillReturnRows(sqlmock.NewRows(purchaseCols).
			AddRow("p1", "a", created, "10", "Pago", nil).
			AddRow("p2", "b", created, "20", "Pago", nil).
			AddRow("p3", "a", created, "30", "Pago", nil))

	got, err := repo.PurchasesByLeadIDs(context.Background(), []string{"a", "b"})

	require.NoError(t, err)
	assert.Len(t, got["a"], 2)
	assert.Len(t, got["b"], 1)
}

// TestPurchasesByLeadIDsEmpty - Sem ids não consulta o banco
func TestPurchasesByLeadIDsEmpty(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewLeadRepository(db)

	got, err := repo.PurchasesByLeadIDs(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func sampleSale() entity.Sale {
	at := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	return entity.Sale{
		Purchase: entity.Purchase{ID: "p1", LeadID: "l1", Date: at, Value: decimal.NewFromInt(500), Status: "Pago"},
		History:  entity.NewSaleEntry("l1", "Venda realizada no valor de R$ 500,00.", "u1", at),
	}
}

// TestRegisterSaleCommits - Compra, status e histórico na mesma transação
func TestRegisterSaleCommits(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewLeadRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO lead_purchases").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE leads SET status = $2, last_purchase_at = $3")).
		WithArgs("l1", "GANHO", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO lead_history").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.RegisterSale(context.Background(), sampleSale()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestRegisterSaleRollsBack - Lead inexistente desfaz a compra
func TestRegisterSaleRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewLeadRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO lead_purchases").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE leads SET").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.RegisterSale(context.Background(), sampleSale())

	assert.ErrorIs(t, err, entity.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestHistoryAppendBatch - Várias entradas num único INSERT
func TestHistoryAppendBatch(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewHistoryRepository(db)
	at := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	entries := entity.DiffLeads(
		entity.Lead{ID: "l1", Name: "Ana", Status: entity.StatusNovo},
		entity.Lead{ID: "l1", Name: "Ana Lima", Status: entity.StatusContato},
		"", at)
	require.Len(t, entries, 2)

	mock.ExpectExec("INSERT INTO lead_history").WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, repo.Append(context.Background(), entries...))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestHistoryAppendNothing - Lista vazia não executa INSERT
func TestHistoryAppendNothing(t *testing.T) {
	db, mock := newMockDB(t)

	require.NoError(t, NewHistoryRepository(db).Append(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestHistoryListByLeadSystemActor - user_id nulo aparece como system
func TestHistoryListByLeadSystemActor(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewHistoryRepository(db)
	mock.ExpectQuery("FROM lead_history").WithArgs("l1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "lead_id", "type", "field", "old_value", "new_value", "description", "user_id", "created_at"}).
			AddRow("1", "l1", "EMAIL_SENT", nil, nil, nil, "E-mail enviado", nil, created))

	got, err := repo.ListByLead(context.Background(), "l1")

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, entity.SystemActor, got[0].UserID)
	assert.Equal(t, entity.HistoryEmailSent, got[0].Type)
}

// TestInvestmentAllTime - Janela nula envia NULL para a função
func TestInvestmentAllTime(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewStatsRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("get_meta_ads_investment")).
		WithArgs(nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{"get_meta_ads_investment"}).AddRow("1234.5"))

	total, err := repo.Investment(context.Background(), nil)

	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.RequireFromString("1234.5")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestInvestmentWindowNull - Função sem dados no período retorna zero
func TestInvestmentWindowNull(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewStatsRepository(db)
	w := report.Window{
		Start: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC),
	}
	mock.ExpectQuery("get_meta_ads_investment").
		WithArgs("2024-03-01", "2024-03-31").
		WillReturnRows(sqlmock.NewRows([]string{"get_meta_ads_investment"}).AddRow(nil))

	total, err := repo.Investment(context.Background(), &w)

	require.NoError(t, err)
	assert.True(t, total.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestLeadActivity - Projeção status/UF/última compra
func TestLeadActivity(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewStatsRepository(db)
	mock.ExpectQuery("WHERE last_purchase_at BETWEEN").
		WillReturnRows(sqlmock.NewRows([]string{"status", "uf", "last_purchase_at"}).
			AddRow("VIP", "SP", created).
			AddRow("GANHO", nil, created))

	rows, err := repo.LeadActivity(context.Background(), report.Window{Start: created, End: created.Add(time.Hour)})

	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, entity.StatusVIP, rows[0].Status)
	assert.Equal(t, "", rows[1].UF)
}

// TestTrafficListBetween - Linhas de meta_ads com valores numéricos
func TestTrafficListBetween(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTrafficRepository(db)
	cols := []string{
		"id", "name", "date", "platform", "amount_spent", "impressions", "reach", "link_clicks",
		"landing_page_views", "add_to_cart", "checkouts_initiated", "purchases", "purchase_conversion_value",
		"contacts", "registrations", "message_conversations_started", "objective", "campaign_name", "campaign_id", "created_at",
	}
	mock.ExpectQuery("FROM meta_ads").WithArgs("2024-03-01", "2024-03-31").
		WillReturnRows(sqlmock.NewRows(cols).AddRow(
			"7", "Meta Ads", "2024-03-10", "facebook", "120.40", 1000, 800, 40,
			30, 5, 3, 2, "380.00", 1, 0, 4, nil, "Kit Verão", "cmp-1", created))

	rows, err := repo.ListBetween(context.Background(), "2024-03-01", "2024-03-31")

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Meta Ads", rows[0].Name)
	assert.Equal(t, "2024-03-10", rows[0].Date)
	assert.Equal(t, int64(40), rows[0].LinkClicks)
	assert.True(t, rows[0].AmountSpent.Equal(decimal.RequireFromString("120.40")))
	assert.Equal(t, "Kit Verão", rows[0].CampaignName)
}

// TestSettingsUnknownVocabulary - Tabela fora da lista não é consultada
func TestSettingsUnknownVocabulary(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSettingsRepository(db)

	_, err := repo.ListNames(context.Background(), entity.Vocabulary("users; DROP TABLE leads"))

	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestSettingsAddNameDuplicate - Nome repetido vira ErrDuplicate
func TestSettingsAddNameDuplicate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSettingsRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO channels (name)")).WithArgs("WhatsApp").
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.AddName(context.Background(), entity.VocabularyChannels, "WhatsApp")

	assert.ErrorIs(t, err, entity.ErrDuplicate)
}

// TestSettingsCreateTagReturnsID - ID gerado pelo banco volta na tag
func TestSettingsCreateTagReturnsID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSettingsRepository(db)
	mock.ExpectQuery("INSERT INTO tags").WithArgs("Kit", "#588575").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("42"))

	tag := &entity.ConfigTag{Label: "Kit", Color: "#588575"}
	require.NoError(t, repo.CreateTag(context.Background(), tag))

	assert.Equal(t, "42", tag.ID)
}

// TestProfileUpdateKeepsUnsetColumns - Campos nulos do patch viram NULL no COALESCE
func TestProfileUpdateKeepsUnsetColumns(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProfileRepository(db)
	role := entity.RoleVendedor
	mock.ExpectExec("UPDATE profiles SET").
		WithArgs("u1", nil, nil, nil, "VENDEDOR", nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Update(context.Background(), "u1", entity.UserPatch{Role: &role}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestMapError - Erros genéricos passam adiante
func TestMapError(t *testing.T) {
	boom := errors.New("boom")
	assert.Nil(t, mapError(nil))
	assert.Equal(t, boom, mapError(boom))
	assert.ErrorIs(t, mapError(sql.ErrNoRows), entity.ErrNotFound)
}
