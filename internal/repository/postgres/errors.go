package postgres

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

// Postgres error codes mapped to domain errors.
const (
	codeUniqueViolation    = "23505"
	codeExclusionViolation = "23P01"
	codeInvalidText        = "22P02"
)

func pgCode(err error) string {
	var perr *pq.Error
	if errors.As(err, &perr) {
		return string(perr.Code)
	}
	return ""
}

// isNotFound reports a missing row. An id that is not a valid uuid cannot match a row either.
func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows) || pgCode(err) == codeInvalidText
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}
