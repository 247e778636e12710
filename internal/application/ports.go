package application

import (
	"context"
	"io"
	"time"

	"github.com/oksasatya/go-dashboard-api/internal/domain/entity"
)

// Notifier delivers user-facing emails. Implementations may be asynchronous.
type Notifier interface {
	SendResetPIN(ctx context.Context, email, name, pin string, expiresAt time.Time) error
	SendWelcome(ctx context.Context, email, name string) error
}

// AvatarStore uploads an image and returns its public URL.
type AvatarStore interface {
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
}

// UserIndexer keeps the search index in step with the directory.
type UserIndexer interface {
	Index(ctx context.Context, u *entity.User) error
	Suggest(ctx context.Context, q string, size int) ([]map[string]any, error)
}
