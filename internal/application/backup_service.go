package application

import (
	"context"
	"io"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-dashboard-api/internal/domain/entity"
	repo "github.com/oksasatya/go-dashboard-api/internal/domain/repository"
	"github.com/oksasatya/go-dashboard-api/pkg/apperror"
	"github.com/oksasatya/go-dashboard-api/pkg/helpers"
)

const backupNameLayout = "02-01-2006_15-04-05"

// BackupService moves whole-database dumps between the database and a file store.
type BackupService struct {
	Dumper repo.DumpProvider
	Store  repo.BackupStore
	Logger *logrus.Logger
	Now    func() time.Time
}

func NewBackupService(dumper repo.DumpProvider, store repo.BackupStore, logger *logrus.Logger) *BackupService {
	return &BackupService{Dumper: dumper, Store: store, Logger: helpers.OrNop(logger), Now: time.Now}
}

// BackupName returns the file name used for a dump taken at t.
func BackupName(t time.Time) string {
	return "backup_" + t.Format(backupNameLayout) + ".sql"
}

// ValidBackupName rejects anything that could escape the store or is not a dump.
func ValidBackupName(name string) error {
	if name == "" || name != path.Base(name) || strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".") {
		return apperror.Validation("invalid backup name %q", name)
	}
	if !strings.HasSuffix(name, ".sql") {
		return apperror.Validation("backup files must end in .sql")
	}
	return nil
}

// Export streams a fresh dump straight into the store.
func (s *BackupService) Export(ctx context.Context) (entity.BackupFile, error) {
	name := BackupName(s.Now())
	pr, pw := io.Pipe()
	go func() {
		pw.CloseWithError(s.Dumper.Dump(ctx, pw))
	}()
	f, err := s.Store.Save(ctx, name, pr)
	_ = pr.CloseWithError(err)
	if err != nil {
		s.Logger.WithError(err).WithField("file", name).Error("backup export failed")
		return entity.BackupFile{}, apperror.Internal(err, "export backup")
	}
	s.Logger.WithFields(logrus.Fields{"file": f.Name, "size": f.Size}).Info("backup exported")
	return f, nil
}

// List returns the stored dumps, newest first.
func (s *BackupService) List(ctx context.Context) ([]entity.BackupFile, error) {
	files, err := s.Store.List(ctx)
	if err != nil {
		return nil, apperror.Internal(err, "list backups")
	}
	sort.SliceStable(files, func(i, j int) bool { return files[i].ModifiedAt.After(files[j].ModifiedAt) })
	return files, nil
}

func (s *BackupService) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := ValidBackupName(name); err != nil {
		return nil, err
	}
	return s.Store.Open(ctx, name)
}

func (s *BackupService) Upload(ctx context.Context, name string, r io.Reader) (entity.BackupFile, error) {
	if err := ValidBackupName(name); err != nil {
		return entity.BackupFile{}, err
	}
	f, err := s.Store.Save(ctx, name, r)
	if err != nil {
		return entity.BackupFile{}, apperror.Internal(err, "store backup")
	}
	s.Logger.WithFields(logrus.Fields{"file": f.Name, "size": f.Size}).Info("backup uploaded")
	return f, nil
}

// Import replays a stored dump into the database.
func (s *BackupService) Import(ctx context.Context, name string) error {
	rc, err := s.Open(ctx, name)
	if err != nil {
		return err
	}
	defer func() { _ = rc.Close() }()
	if err := s.Dumper.Restore(ctx, rc); err != nil {
		s.Logger.WithError(err).WithField("file", name).Error("backup import failed")
		return apperror.Internal(err, "import backup")
	}
	s.Logger.WithField("file", name).Info("backup imported")
	return nil
}
