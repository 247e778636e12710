package repository

import (
	"context"

	"github.com/oksasatya/go-dashboard-api/internal/domain/entity"
)

type WidgetRepository interface {
	Create(ctx context.Context, w *entity.Widget) error
	GetByID(ctx context.Context, id string) (*entity.Widget, error)
	// ListByLayout orders by order index ascending.
	ListByLayout(ctx context.Context, layoutID string) ([]entity.Widget, error)
	Update(ctx context.Context, w *entity.Widget) error
	SoftDelete(ctx context.Context, id string) error
	SoftDeleteByLayout(ctx context.Context, layoutID string) error
	MaxOrderIndex(ctx context.Context, layoutID string) (int, error)
}
