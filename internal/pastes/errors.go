package pastes

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound = errors.New("paste not found")

	// ErrPasswordRequired reports that the paste exists but the supplied
	// password is missing or wrong. Kept distinct from ErrNotFound so the
	// caller can prompt instead of rendering a 404.
	ErrPasswordRequired = errors.New("password required")
)

func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows) || errors.Is(err, ErrNotFound)
}

func IsUniqueViolationID(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	if pgErr.Code != "23505" { // unique_violation
		return false
	}

	if pgErr.ConstraintName == "pastes_pkey" {
		return true
	}

	if pgErr.ColumnName == "id" {
		return true
	}

	return false
}
