package database

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/xavierca1/fortis-crm/internal/entity"
)

const profileColumns = `id::text AS id, name, email, phone, role, avatar, last_activity`

type profileRow struct {
	ID           string         `db:"id"`
	Name         sql.NullString `db:"name"`
	Email        sql.NullString `db:"email"`
	Phone        sql.NullString `db:"phone"`
	Role         sql.NullString `db:"role"`
	Avatar       sql.NullString `db:"avatar"`
	LastActivity sql.NullTime   `db:"last_activity"`
}

func (r profileRow) toEntity() entity.User {
	u := entity.User{
		ID:     r.ID,
		Name:   r.Name.String,
		Email:  r.Email.String,
		Phone:  r.Phone.String,
		Role:   entity.UserRole(r.Role.String),
		Avatar: r.Avatar.String,
	}
	if r.LastActivity.Valid {
		t := r.LastActivity.Time
		u.LastActivity = &t
	}
	return u
}

// ProfileRepository reads team members from profiles. Accounts themselves
// are managed by the auth provider.
type ProfileRepository struct {
	DB *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) *ProfileRepository {
	return &ProfileRepository{DB: db}
}

func (r *ProfileRepository) List(ctx context.Context) ([]entity.User, error) {
	var rows []profileRow
	if err := r.DB.SelectContext(ctx, &rows, `SELECT `+profileColumns+` FROM profiles ORDER BY name`); err != nil {
		return nil, err
	}
	users := make([]entity.User, len(rows))
	for i, row := range rows {
		users[i] = row.toEntity()
	}
	return users, nil
}

func (r *ProfileRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	var row profileRow
	if err := r.DB.GetContext(ctx, &row, `SELECT `+profileColumns+` FROM profiles WHERE id::text = $1`, id); err != nil {
		return nil, mapError(err)
	}
	u := row.toEntity()
	return &u, nil
}

func (r *ProfileRepository) Update(ctx context.Context, id string, patch entity.UserPatch) error {
	var role *string
	if patch.Role != nil {
		s := string(*patch.Role)
		role = &s
	}
	query := `
		UPDATE profiles SET
			name = COALESCE($2, name),
			email = COALESCE($3, email),
			phone = COALESCE($4, phone),
			role = COALESCE($5, role),
			avatar = COALESCE($6, avatar)
		WHERE id::text = $1
	`
	return expectAffected(r.DB.ExecContext(ctx, query, id, patch.Name, patch.Email, patch.Phone, role, patch.Avatar))
}

func (r *ProfileRepository) Delete(ctx context.Context, id string) error {
	return expectAffected(r.DB.ExecContext(ctx, `DELETE FROM profiles WHERE id::text = $1`, id))
}
