package db

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// IsStringTooLong reports whether err carries the Postgres string_data_right_truncation code.
func IsStringTooLong(err error) bool {
	return hasCode(err, "22001")
}

func hasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == code
	}
	return false
}
