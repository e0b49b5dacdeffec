package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is returned when the referenced member or duty
	// assignment does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateUsername is returned when an insert or update would
	// violate the unique constraint on members.username.
	ErrDuplicateUsername = errors.New("username already exists")
)

// 23505 is the postgres unique_violation code.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
