package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-dashboard-api/internal/domain/entity"
	"github.com/oksasatya/go-dashboard-api/internal/domain/repository"
)

type AuditRepository struct {
	pool *pgxpool.Pool
}

func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (r *AuditRepository) Record(ctx context.Context, e entity.AuditEvent) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO audit_logs (user_id, email, action, ip, user_agent, metadata)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, nullable(e.UserID), nullable(e.Email), e.Action, nullable(e.IP), nullable(e.UserAgent), e.Metadata)
	return mapErr(err, "audit log")
}

var _ repository.AuditRepository = (*AuditRepository)(nil)
