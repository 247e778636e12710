package repository

import (
	"context"

	"github.com/oksasatya/go-dashboard-api/internal/domain/entity"
)

type AuditRepository interface {
	Record(ctx context.Context, e entity.AuditEvent) error
}
