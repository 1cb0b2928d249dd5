package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/xavierca1/fortis-crm/internal/entity"
)

// settingsID is the only row of the settings table.
const settingsID = 1

var vocabularyTables = map[entity.Vocabulary]string{
	entity.VocabularyChannels: "channels",
	entity.VocabularyOrigins:  "origins",
}

type SettingsRepository struct {
	DB *sqlx.DB
}

func NewSettingsRepository(db *sqlx.DB) *SettingsRepository {
	return &SettingsRepository{DB: db}
}

func (r *SettingsRepository) GetCompany(ctx context.Context) (*entity.CompanySettings, error) {
	var row struct {
		CompanyName  sql.NullString `db:"company_name"`
		ContactEmail sql.NullString `db:"contact_email"`
		Address      sql.NullString `db:"address"`
		LogoURL      sql.NullString `db:"logo_url"`
	}
	err := r.DB.GetContext(ctx, &row,
		`SELECT company_name, contact_email, address, logo_url FROM settings WHERE id = $1`, settingsID)
	if err != nil {
		return nil, mapError(err)
	}
	return &entity.CompanySettings{
		CompanyName:  row.CompanyName.String,
		ContactEmail: row.ContactEmail.String,
		Address:      row.Address.String,
		LogoURL:      row.LogoURL.String,
	}, nil
}

// UpdateCompany leaves columns whose patch field is nil untouched.
func (r *SettingsRepository) UpdateCompany(ctx context.Context, patch entity.SettingsPatch) error {
	query := `
		UPDATE settings SET
			company_name = COALESCE($2, company_name),
			contact_email = COALESCE($3, contact_email),
			address = COALESCE($4, address),
			logo_url = COALESCE($5, logo_url),
			updated_at = NOW()
		WHERE id = $1
	`
	return expectAffected(r.DB.ExecContext(ctx, query,
		settingsID, patch.CompanyName, patch.ContactEmail, patch.Address, patch.LogoURL))
}

func (r *SettingsRepository) ListTags(ctx context.Context) ([]entity.ConfigTag, error) {
	tags := []entity.ConfigTag{}
	err := r.DB.SelectContext(ctx, &tags, `SELECT id::text AS id, label, color FROM tags ORDER BY label`)
	return tags, err
}

func (r *SettingsRepository) CreateTag(ctx context.Context, tag *entity.ConfigTag) error {
	err := r.DB.QueryRowxContext(ctx,
		`INSERT INTO tags (label, color) VALUES ($1, $2) RETURNING id::text`, tag.Label, tag.Color,
	).Scan(&tag.ID)
	return mapError(err)
}

func (r *SettingsRepository) UpdateTag(ctx context.Context, tag entity.ConfigTag) error {
	return expectAffected(r.DB.ExecContext(ctx,
		`UPDATE tags SET label = $2, color = $3 WHERE id::text = $1`, tag.ID, tag.Label, tag.Color))
}

func (r *SettingsRepository) DeleteTag(ctx context.Context, id string) error {
	return expectAffected(r.DB.ExecContext(ctx, `DELETE FROM tags WHERE id::text = $1`, id))
}

func (r *SettingsRepository) ListNames(ctx context.Context, v entity.Vocabulary) ([]string, error) {
	table, err := vocabularyTable(v)
	if err != nil {
		return nil, err
	}
	names := []string{}
	err = r.DB.SelectContext(ctx, &names, `SELECT name FROM `+table+` ORDER BY name`)
	return names, err
}

func (r *SettingsRepository) AddName(ctx context.Context, v entity.Vocabulary, name string) error {
	table, err := vocabularyTable(v)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, `INSERT INTO `+table+` (name) VALUES ($1)`, name)
	return mapError(err)
}

func (r *SettingsRepository) RenameName(ctx context.Context, v entity.Vocabulary, oldName, newName string) error {
	table, err := vocabularyTable(v)
	if err != nil {
		return err
	}
	return expectAffected(r.DB.ExecContext(ctx,
		`UPDATE `+table+` SET name = $2 WHERE name = $1`, oldName, newName))
}

func (r *SettingsRepository) DeleteName(ctx context.Context, v entity.Vocabulary, name string) error {
	table, err := vocabularyTable(v)
	if err != nil {
		return err
	}
	return expectAffected(r.DB.ExecContext(ctx, `DELETE FROM `+table+` WHERE name = $1`, name))
}

func vocabularyTable(v entity.Vocabulary) (string, error) {
	table, ok := vocabularyTables[v]
	if !ok {
		return "", fmt.Errorf("vocabulário desconhecido: %q", v)
	}
	return table, nil
}
