package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

var constraintFields = map[string]string{
	"users_email_unique": "email",
	"users_phone_unique": "phone",
}

// uniqueViolationField maps a unique constraint error to the user-facing field.
func uniqueViolationField(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return "", false
	}
	if field, ok := constraintFields[pgErr.ConstraintName]; ok {
		return field, true
	}
	return pgErr.ConstraintName, true
}
