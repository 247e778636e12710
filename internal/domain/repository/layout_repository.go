package repository

import (
	"context"

	"github.com/oksasatya/go-dashboard-api/internal/domain/entity"
)

type LayoutRepository interface {
	Create(ctx context.Context, l *entity.Layout) error
	GetByID(ctx context.Context, id string) (*entity.Layout, error)
	GetDefault(ctx context.Context, userID string) (*entity.Layout, error)
	// ListByUser orders the default layout first, then by creation time.
	ListByUser(ctx context.Context, userID string, page entity.PageRequest) ([]entity.Layout, int, error)
	ListAllByUser(ctx context.Context, userID string) ([]entity.Layout, error)
	Search(ctx context.Context, userID, term string, page entity.PageRequest) ([]entity.Layout, int, error)
	Update(ctx context.Context, l *entity.Layout) error
	SoftDelete(ctx context.Context, id string) error
	// ClearDefault demotes every default layout of the user.
	ClearDefault(ctx context.Context, userID string) error
}
