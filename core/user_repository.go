package core

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRecord is the full credential row. PasswordHash stays inside the
// repository and the auth service; it is never serialized to clients.
type UserRecord struct {
	Username     string
	PasswordHash string
	Role         string
	RequestAdmin bool
	CreatedBy    string
	ModifiedBy   string
	ModifiedAt   time.Time
	CreatedAt    time.Time
}

// UserListItem is the projection for admin user listing (no password hash).
type UserListItem struct {
	Username     string    `json:"username"`
	Role         string    `json:"role"`
	RequestAdmin bool      `json:"requestAdmin"`
	CreatedBy    string    `json:"createdBy"`
	ModifiedBy   string    `json:"modifiedBy"`
	ModifiedAt   time.Time `json:"modifiedAt"`
	CreatedAt    time.Time `json:"createdAt"`
}

// UserPatch carries the only two mutable fields. Nil means keep.
type UserPatch struct {
	PasswordHash *string
	Role         *string
}

// UserRepository defines persistence operations for user credentials.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*UserRecord, error)
	// Create inserts a new user. The username primary key makes the
	// check-then-insert atomic; a duplicate loses with ErrConflict.
	Create(ctx context.Context, u UserRecord) error
	// Update applies patch and stamps modified_by/modified_at from actor.
	Update(ctx context.Context, username string, patch UserPatch, actor string) (*UserRecord, error)
	// Delete removes the user and appends one audit entry in the same
	// transaction. A miss returns ErrNotFound and writes no audit row.
	Delete(ctx context.Context, username, actor string) error
	List(ctx context.Context) ([]UserListItem, error)
	HasAdmin(ctx context.Context) (bool, error)
}

// PgUserRepository implements UserRepository using pgxpool.
type PgUserRepository struct {
	db *pgxpool.Pool
}

func NewPgUserRepository(db *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{db: db}
}

const userColumns = `username, password_hash, role, request_admin, created_by, modified_by, modified_at, created_at`

func scanUser(row pgx.Row) (*UserRecord, error) {
	var u UserRecord
	if err := row.Scan(&u.Username, &u.PasswordHash, &u.Role, &u.RequestAdmin, &u.CreatedBy, &u.ModifiedBy, &u.ModifiedAt, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *PgUserRepository) FindByUsername(ctx context.Context, username string) (*UserRecord, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE username=$1`
	return scanUser(r.db.QueryRow(ctx, q, username))
}

func (r *PgUserRepository) Create(ctx context.Context, u UserRecord) error {
	const q = `
INSERT INTO users (username, password_hash, role, request_admin, created_by, modified_by, modified_at)
VALUES ($1, $2, $3, $4, $5, $5, now())`
	if _, err := r.db.Exec(ctx, q, u.Username, u.PasswordHash, u.Role, u.RequestAdmin, u.CreatedBy); err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return err
	}
	return nil
}

func (r *PgUserRepository) Update(ctx context.Context, username string, patch UserPatch, actor string) (*UserRecord, error) {
	const q = `
UPDATE users
SET password_hash = COALESCE($2, password_hash),
    role          = COALESCE($3, role),
    modified_by   = $4,
    modified_at   = now()
WHERE username = $1
RETURNING ` + userColumns
	return scanUser(r.db.QueryRow(ctx, q, username, patch.PasswordHash, patch.Role, actor))
}

func (r *PgUserRepository) Delete(ctx context.Context, username, actor string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `DELETE FROM users WHERE username=$1`, username)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO audit_log (action, target_user, actor) VALUES ($1, $2, $3)`,
		"user.delete", username, actor); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *PgUserRepository) List(ctx context.Context) ([]UserListItem, error) {
	rows, err := r.db.Query(ctx, `
SELECT username, role, request_admin, created_by, modified_by, modified_at, created_at
FROM users ORDER BY username`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]UserListItem, 0)
	for rows.Next() {
		var u UserListItem
		if err := rows.Scan(&u.Username, &u.Role, &u.RequestAdmin, &u.CreatedBy, &u.ModifiedBy, &u.ModifiedAt, &u.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, u)
	}
	return items, rows.Err()
}

func (r *PgUserRepository) HasAdmin(ctx context.Context) (bool, error) {
	const q = `SELECT 1 FROM users WHERE role='admin' LIMIT 1`
	var one int
	if err := r.db.QueryRow(ctx, q).Scan(&one); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// isUniqueViolation reports whether err is a Postgres unique constraint error.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
