package repository

import (
	"context"

	"github.com/oksasatya/go-dashboard-api/internal/domain/entity"
)

type PreferencesRepository interface {
	Create(ctx context.Context, p *entity.Preferences) error
	GetByUser(ctx context.Context, userID string) (*entity.Preferences, error)
	Update(ctx context.Context, p *entity.Preferences) error
	DeleteByUser(ctx context.Context, userID string) error
}
