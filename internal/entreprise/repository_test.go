package entreprise

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/entreprise-registry/internal/platform/httpx"
)

type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *int64:
			*p = r.values[i].(int64)
		case *int:
			*p = r.values[i].(int)
		case *string:
			*p = r.values[i].(string)
		case *pgtype.Timestamptz:
			*p = pgtype.Timestamptz{Time: r.values[i].(time.Time), Valid: true}
		}
	}
	return nil
}

type fakeDB struct {
	row      fakeRow
	queryErr error
	sql      []string
	args     [][]any
}

func (f *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	f.sql = append(f.sql, sql)
	f.args = append(f.args, args)
	return f.row
}

func (f *fakeDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	f.sql = append(f.sql, sql)
	f.args = append(f.args, args)
	return nil, f.queryErr
}

func TestRepositoryCreateEntreprise(t *testing.T) {
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	db := &fakeDB{row: fakeRow{values: []any{int64(12), "Acme", at}}}

	e, result, err := NewRepository(db).CreateEntreprise(context.Background(), "Acme")

	require.NoError(t, err)
	assert.Equal(t, ResultCreated, result)
	assert.Equal(t, Entreprise{ID: 12, Name: "Acme", CreatedAt: at}, e)
	assert.Equal(t, insertEntrepriseSQL, db.sql[0])
	assert.Equal(t, []any{"Acme"}, db.args[0])
}

func TestRepositoryCreateEntrepriseFailures(t *testing.T) {
	db := &fakeDB{row: fakeRow{err: &pgconn.PgError{Code: "22001"}}}
	_, result, err := NewRepository(db).CreateEntreprise(context.Background(), "Acme")
	assert.Equal(t, ResultFailed, result)
	assert.ErrorContains(t, err, "name exceeds column size")

	db = &fakeDB{row: fakeRow{err: errors.New("conn closed")}}
	_, result, err = NewRepository(db).CreateEntreprise(context.Background(), "Acme")
	assert.Equal(t, ResultFailed, result)
	assert.ErrorContains(t, err, "insert entreprise: conn closed")
}

func TestRepositoryGetEntrepriseNotFound(t *testing.T) {
	db := &fakeDB{row: fakeRow{err: pgx.ErrNoRows}}

	_, err := NewRepository(db).GetEntreprise(context.Background(), 4)

	assert.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestRepositoryListEntreprisesQueryError(t *testing.T) {
	db := &fakeDB{row: fakeRow{values: []any{3}}, queryErr: errors.New("timeout")}

	_, _, err := NewRepository(db).ListEntreprises(context.Background(), 10, 20)

	assert.ErrorContains(t, err, "list entreprises: timeout")
	assert.Equal(t, []any{10, 20}, db.args[1])
}
