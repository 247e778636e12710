// Package storage holds the backup file stores and the avatar uploader.
package storage

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-dashboard-api/internal/domain/entity"
	"github.com/oksasatya/go-dashboard-api/internal/domain/repository"
	"github.com/oksasatya/go-dashboard-api/pkg/apperror"
)

// LocalStore keeps backups as plain files in one directory.
type LocalStore struct {
	dir    string
	logger *logrus.Logger
}

func NewLocalStore(dir string, logger *logrus.Logger) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, err
	}
	return &LocalStore{dir: dir, logger: logger}, nil
}

func (s *LocalStore) List(_ context.Context) ([]entity.BackupFile, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	out := make([]entity.BackupFile, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, entity.BackupFile{Name: e.Name(), Size: info.Size(), ModifiedAt: info.ModTime()})
	}
	return out, nil
}

func (s *LocalStore) Open(_ context.Context, name string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(s.dir, filepath.Base(name)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, apperror.NotFound("backup %s not found", name)
	}
	return f, err
}

// Save writes through a temp file so a failed stream never leaves a partial backup behind.
func (s *LocalStore) Save(_ context.Context, name string, r io.Reader) (entity.BackupFile, error) {
	final := filepath.Join(s.dir, filepath.Base(name))
	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return entity.BackupFile{}, err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		return entity.BackupFile{}, err
	}
	if err := tmp.Close(); err != nil {
		return entity.BackupFile{}, err
	}
	if err := os.Rename(tmp.Name(), final); err != nil {
		return entity.BackupFile{}, err
	}
	info, err := os.Stat(final)
	if err != nil {
		return entity.BackupFile{}, err
	}
	s.logger.WithFields(logrus.Fields{"file": final, "size": info.Size()}).Debug("backup written")
	return entity.BackupFile{Name: info.Name(), Size: info.Size(), ModifiedAt: info.ModTime()}, nil
}

var _ repository.BackupStore = (*LocalStore)(nil)
