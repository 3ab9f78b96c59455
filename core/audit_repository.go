package core

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// AuditEntry records a privileged destructive action. The log is append-only:
// there is no update or delete path anywhere in the codebase.
type AuditEntry struct {
	ID         int64     `json:"id"`
	Action     string    `json:"action"`
	TargetUser string    `json:"targetUser"`
	Actor      string    `json:"actor"`
	CreatedAt  time.Time `json:"createdAt"`
}

// AuditRepository exposes the audit log for admin review. Appends for user
// deletion happen inside UserRepository.Delete so they commit atomically
// with the delete itself.
type AuditRepository interface {
	List(ctx context.Context) ([]AuditEntry, error)
}

type PgAuditRepository struct {
	db *pgxpool.Pool
}

func NewPgAuditRepository(db *pgxpool.Pool) *PgAuditRepository {
	return &PgAuditRepository{db: db}
}

func (r *PgAuditRepository) List(ctx context.Context) ([]AuditEntry, error) {
	rows, err := r.db.Query(ctx, `
SELECT id, action, target_user, actor, created_at
FROM audit_log ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]AuditEntry, 0)
	for rows.Next() {
		var e AuditEntry
		if err := rows.Scan(&e.ID, &e.Action, &e.TargetUser, &e.Actor, &e.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, rows.Err()
}
