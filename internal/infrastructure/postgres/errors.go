package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/oksasatya/go-dashboard-api/pkg/apperror"
)

const (
	uniqueViolation     = "23505"
	invalidTextEncoding = "22P02"
)

// mapErr converts driver errors into typed domain errors.
func mapErr(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperror.NotFound("%s not found", what)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return apperror.AlreadyExists("%s already exists", what)
		case invalidTextEncoding:
			// malformed uuid in a lookup
			return apperror.NotFound("%s not found", what)
		}
	}
	return apperror.Internal(err, what+" query failed")
}
