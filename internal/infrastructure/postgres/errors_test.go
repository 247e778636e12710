package postgres

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/oksasatya/go-dashboard-api/pkg/apperror"
)

func TestMapErr(t *testing.T) {
	assert.NoError(t, mapErr(nil, "user"))
	assert.ErrorIs(t, mapErr(pgx.ErrNoRows, "user"), apperror.ErrNotFound)
	assert.ErrorIs(t, mapErr(&pgconn.PgError{Code: "23505"}, "user"), apperror.ErrAlreadyExists)
	assert.ErrorIs(t, mapErr(&pgconn.PgError{Code: "22P02"}, "layout"), apperror.ErrNotFound)

	err := mapErr(errors.New("conn reset"), "user")
	assert.ErrorIs(t, err, apperror.ErrInternal)
	assert.ErrorContains(t, err, "conn reset")
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%work%", likePattern("work"))
	assert.Equal(t, `%100\%\_x%`, likePattern("100%_x"))
}
