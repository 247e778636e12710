package application

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-dashboard-api/internal/domain/entity"
	"github.com/oksasatya/go-dashboard-api/pkg/apperror"
)

type fakeDumper struct {
	dump     string
	dumpErr  error
	restored []string
}

func (d *fakeDumper) Dump(_ context.Context, w io.Writer) error {
	if d.dumpErr != nil {
		return d.dumpErr
	}
	_, err := io.WriteString(w, d.dump)
	return err
}

func (d *fakeDumper) Restore(_ context.Context, r io.Reader) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	d.restored = append(d.restored, string(b))
	return nil
}

type fakeBackupStore struct {
	mu    sync.Mutex
	files map[string][]byte
	mod   map[string]time.Time
	clock time.Time
}

func newFakeBackupStore() *fakeBackupStore {
	return &fakeBackupStore{files: map[string][]byte{}, mod: map[string]time.Time{}, clock: time.Unix(1700000000, 0)}
}

func (s *fakeBackupStore) List(context.Context) ([]entity.BackupFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.BackupFile, 0, len(s.files))
	for name, b := range s.files {
		out = append(out, entity.BackupFile{Name: name, Size: int64(len(b)), ModifiedAt: s.mod[name]})
	}
	return out, nil
}

func (s *fakeBackupStore) Open(_ context.Context, name string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.files[name]
	if !ok {
		return nil, apperror.NotFound("backup %s not found", name)
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (s *fakeBackupStore) Save(_ context.Context, name string, r io.Reader) (entity.BackupFile, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return entity.BackupFile{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clock = s.clock.Add(time.Minute)
	s.files[name] = b
	s.mod[name] = s.clock
	return entity.BackupFile{Name: name, Size: int64(len(b)), ModifiedAt: s.clock}, nil
}

func TestBackupName(t *testing.T) {
	ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	assert.Equal(t, "backup_02-01-2025_03-04-05.sql", BackupName(ts))
}

func TestValidBackupName(t *testing.T) {
	assert.NoError(t, ValidBackupName("backup_02-01-2025_03-04-05.sql"))
	for _, bad := range []string{"", "../etc/passwd.sql", "dir/file.sql", `a\b.sql`, ".hidden.sql", "dump.txt"} {
		assert.ErrorIs(t, ValidBackupName(bad), apperror.ErrValidation, bad)
	}
}

func TestBackupService_ExportListImport(t *testing.T) {
	dumper := &fakeDumper{dump: "CREATE TABLE t();"}
	store := newFakeBackupStore()
	svc := NewBackupService(dumper, store, nil)
	ctx := context.Background()

	svc.Now = func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) }
	first, err := svc.Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, "backup_01-01-2025_00-00-00.sql", first.Name)
	assert.EqualValues(t, len(dumper.dump), first.Size)

	svc.Now = func() time.Time { return time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC) }
	second, err := svc.Export(ctx)
	require.NoError(t, err)

	files, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, second.Name, files[0].Name)

	require.NoError(t, svc.Import(ctx, first.Name))
	assert.Equal(t, []string{dumper.dump}, dumper.restored)

	assert.ErrorIs(t, svc.Import(ctx, "backup_missing.sql"), apperror.ErrNotFound)
	assert.ErrorIs(t, svc.Import(ctx, "../x.sql"), apperror.ErrValidation)
}

func TestBackupService_ExportDumpFailure(t *testing.T) {
	svc := NewBackupService(&fakeDumper{dumpErr: errors.New("pg_dump: connection refused")}, newFakeBackupStore(), nil)
	_, err := svc.Export(context.Background())
	assert.ErrorIs(t, err, apperror.ErrInternal)
}

func TestBackupService_Upload(t *testing.T) {
	store := newFakeBackupStore()
	svc := NewBackupService(&fakeDumper{}, store, nil)
	ctx := context.Background()

	f, err := svc.Upload(ctx, "manual.sql", bytes.NewBufferString("SELECT 1;"))
	require.NoError(t, err)
	assert.EqualValues(t, 9, f.Size)

	_, err = svc.Upload(ctx, "manual.exe", bytes.NewBufferString("x"))
	assert.ErrorIs(t, err, apperror.ErrValidation)
}
