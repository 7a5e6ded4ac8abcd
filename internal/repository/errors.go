package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrDuplicateNationalID is returned when a patient with the same NIK already exists.
var ErrDuplicateNationalID = errors.New("patient with this NIK already exists")

// ErrDuplicateSlug is returned when a doctor slug is already taken.
var ErrDuplicateSlug = errors.New("slug already exists")

// isDuplicateKeyError checks for a unique violation, either translated by gorm
// or as a raw PostgreSQL error containing the constraint name.
func isDuplicateKeyError(err error, constraintName string) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23505 = unique_violation
		if pgErr.Code == "23505" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}
