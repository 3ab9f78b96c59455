package core

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Hackathon is an event record. Mode/PptNeeded/Registered and the date
// fields stay free-form strings; the tracker stores whatever the team
// enters and only the presence of a name is enforced.
type Hackathon struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Organizer  string    `json:"organizer"`
	Location   string    `json:"location"`
	Mode       string    `json:"mode"`       // Online/Offline/Hybrid
	PptNeeded  string    `json:"pptNeeded"`  // Yes/No
	Registered string    `json:"registered"` // Yes/No
	StartDate  string    `json:"startDate"`
	EndDate    string    `json:"endDate"`
	TeamSize   int       `json:"teamSize"`
	TeamCode   string    `json:"teamCode"`
	Link       string    `json:"link"`
	CreatedBy  string    `json:"createdBy"`
	ModifiedBy string    `json:"modifiedBy"`
	ModifiedAt time.Time `json:"modifiedAt"`
	CreatedAt  time.Time `json:"createdAt"`
}

// HackathonRepository defines CRUD persistence for event records.
type HackathonRepository interface {
	// List returns all records, newest first.
	List(ctx context.Context) ([]Hackathon, error)
	Get(ctx context.Context, id int64) (*Hackathon, error)
	// Create stamps created_by/modified_by from actor and returns the stored record.
	Create(ctx context.Context, h Hackathon, actor string) (*Hackathon, error)
	// Update overwrites the record fields and stamps modified_by/modified_at.
	Update(ctx context.Context, id int64, h Hackathon, actor string) (*Hackathon, error)
	Delete(ctx context.Context, id int64) error
}

// PgHackathonRepository implements HackathonRepository using pgxpool.
type PgHackathonRepository struct {
	db *pgxpool.Pool
}

func NewPgHackathonRepository(db *pgxpool.Pool) *PgHackathonRepository {
	return &PgHackathonRepository{db: db}
}

const hackathonColumns = `id, name, organizer, location, mode, ppt_needed, registered,
start_date, end_date, team_size, team_code, link, created_by, modified_by, modified_at, created_at`

func scanHackathon(row pgx.Row) (*Hackathon, error) {
	var h Hackathon
	if err := row.Scan(&h.ID, &h.Name, &h.Organizer, &h.Location, &h.Mode, &h.PptNeeded, &h.Registered,
		&h.StartDate, &h.EndDate, &h.TeamSize, &h.TeamCode, &h.Link, &h.CreatedBy, &h.ModifiedBy, &h.ModifiedAt, &h.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &h, nil
}

func (r *PgHackathonRepository) List(ctx context.Context) ([]Hackathon, error) {
	rows, err := r.db.Query(ctx, `SELECT `+hackathonColumns+` FROM hackathons ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Hackathon, 0)
	for rows.Next() {
		h, err := scanHackathon(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *h)
	}
	return items, rows.Err()
}

func (r *PgHackathonRepository) Get(ctx context.Context, id int64) (*Hackathon, error) {
	const q = `SELECT ` + hackathonColumns + ` FROM hackathons WHERE id=$1`
	return scanHackathon(r.db.QueryRow(ctx, q, id))
}

func (r *PgHackathonRepository) Create(ctx context.Context, h Hackathon, actor string) (*Hackathon, error) {
	const q = `
INSERT INTO hackathons (name, organizer, location, mode, ppt_needed, registered,
                        start_date, end_date, team_size, team_code, link,
                        created_by, modified_by, modified_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$12,now())
RETURNING ` + hackathonColumns
	return scanHackathon(r.db.QueryRow(ctx, q,
		h.Name, h.Organizer, h.Location, h.Mode, h.PptNeeded, h.Registered,
		h.StartDate, h.EndDate, h.TeamSize, h.TeamCode, h.Link, actor))
}

func (r *PgHackathonRepository) Update(ctx context.Context, id int64, h Hackathon, actor string) (*Hackathon, error) {
	const q = `
UPDATE hackathons
SET name=$2, organizer=$3, location=$4, mode=$5, ppt_needed=$6, registered=$7,
    start_date=$8, end_date=$9, team_size=$10, team_code=$11, link=$12,
    modified_by=$13, modified_at=now()
WHERE id=$1
RETURNING ` + hackathonColumns
	return scanHackathon(r.db.QueryRow(ctx, q, id,
		h.Name, h.Organizer, h.Location, h.Mode, h.PptNeeded, h.Registered,
		h.StartDate, h.EndDate, h.TeamSize, h.TeamCode, h.Link, actor))
}

func (r *PgHackathonRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM hackathons WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
