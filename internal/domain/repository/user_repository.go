package repository

import (
	"context"
	"time"

	"github.com/oksasatya/go-dashboard-api/internal/domain/entity"
)

// UserRepository defines the persistence operations of the user directory.
// Every lookup only sees active users.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	SoftDelete(ctx context.Context, id string) error

	List(ctx context.Context, page entity.PageRequest) ([]entity.User, int, error)
	Search(ctx context.Context, term string, page entity.PageRequest) ([]entity.User, int, error)
	ListByRole(ctx context.Context, role entity.Role, page entity.PageRequest) ([]entity.User, int, error)
	ListGoogleDriveLinked(ctx context.Context) ([]entity.User, error)

	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	CountActive(ctx context.Context) (int, error)
	CountLoggedInSince(ctx context.Context, since time.Time) (int, error)
}
