package repository

import (
	"context"
	"io"

	"github.com/oksasatya/go-dashboard-api/internal/domain/entity"
)

// BackupStore keeps database dump files addressable by name.
type BackupStore interface {
	List(ctx context.Context) ([]entity.BackupFile, error)
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Save(ctx context.Context, name string, r io.Reader) (entity.BackupFile, error)
}

// DumpProvider produces and replays full database dumps.
type DumpProvider interface {
	Dump(ctx context.Context, w io.Writer) error
	Restore(ctx context.Context, r io.Reader) error
}
