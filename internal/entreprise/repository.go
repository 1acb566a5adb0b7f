package entreprise

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/odyssey-erp/entreprise-registry/internal/platform/db"
	"github.com/odyssey-erp/entreprise-registry/internal/platform/httpx"
)

// Store is the persistence collaborator behind the v1 API.
type Store interface {
	// CreateEntreprise attempts one insert. Database errors are reported as ResultFailed
	// together with the wrapped error.
	CreateEntreprise(ctx context.Context, name string) (Entreprise, Result, error)
	ListEntreprises(ctx context.Context, limit, offset int) ([]Entreprise, int, error)
	GetEntreprise(ctx context.Context, id int64) (Entreprise, error)
}

// DBTX is the subset of pgxpool.Pool and pgx.Tx used by the repository.
type DBTX interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type repository struct {
	db DBTX
}

// NewRepository returns a Store backed by Postgres.
func NewRepository(pool DBTX) Store {
	return &repository{db: pool}
}

const insertEntrepriseSQL = `INSERT INTO entreprises (name) VALUES ($1) RETURNING id, name, created_at`

func (r *repository) CreateEntreprise(ctx context.Context, name string) (Entreprise, Result, error) {
	var (
		e         Entreprise
		createdAt pgtype.Timestamptz
	)
	err := r.db.QueryRow(ctx, insertEntrepriseSQL, name).Scan(&e.ID, &e.Name, &createdAt)
	if err != nil {
		if db.IsStringTooLong(err) {
			return Entreprise{}, ResultFailed, fmt.Errorf("insert entreprise: name exceeds column size: %w", err)
		}
		return Entreprise{}, ResultFailed, fmt.Errorf("insert entreprise: %w", err)
	}
	if createdAt.Valid {
		e.CreatedAt = createdAt.Time
	}
	return e, ResultCreated, nil
}

func (r *repository) ListEntreprises(ctx context.Context, limit, offset int) ([]Entreprise, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM entreprises`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count entreprises: %w", err)
	}

	rows, err := r.db.Query(ctx, `SELECT id, name, created_at FROM entreprises ORDER BY id DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list entreprises: %w", err)
	}
	defer rows.Close()

	entreprises := make([]Entreprise, 0, limit)
	for rows.Next() {
		var (
			e         Entreprise
			createdAt pgtype.Timestamptz
		)
		if err := rows.Scan(&e.ID, &e.Name, &createdAt); err != nil {
			return nil, 0, fmt.Errorf("scan entreprise: %w", err)
		}
		if createdAt.Valid {
			e.CreatedAt = createdAt.Time
		}
		entreprises = append(entreprises, e)
	}
	return entreprises, total, rows.Err()
}

func (r *repository) GetEntreprise(ctx context.Context, id int64) (Entreprise, error) {
	var (
		e         Entreprise
		createdAt pgtype.Timestamptz
	)
	err := r.db.QueryRow(ctx, `SELECT id, name, created_at FROM entreprises WHERE id = $1`, id).Scan(&e.ID, &e.Name, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Entreprise{}, fmt.Errorf("entreprise %d: %w", id, httpx.ErrNotFound)
		}
		return Entreprise{}, fmt.Errorf("get entreprise %d: %w", id, err)
	}
	if createdAt.Valid {
		e.CreatedAt = createdAt.Time
	}
	return e, nil
}
