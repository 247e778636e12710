package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-dashboard-api/pkg/apperror"
	"github.com/oksasatya/go-dashboard-api/pkg/helpers"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("stream broken") }

func TestLocalStore_SaveListOpen(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStore(dir, helpers.NopLogger())
	require.NoError(t, err)
	ctx := context.Background()

	f, err := s.Save(ctx, "backup_a.sql", strings.NewReader("SELECT 1;"))
	require.NoError(t, err)
	assert.Equal(t, "backup_a.sql", f.Name)
	assert.EqualValues(t, 9, f.Size)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600))

	files, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "backup_a.sql", files[0].Name)

	rc, err := s.Open(ctx, "backup_a.sql")
	require.NoError(t, err)
	defer func() { _ = rc.Close() }()
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "SELECT 1;", string(b))

	_, err = s.Open(ctx, "missing.sql")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestLocalStore_FailedSaveLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStore(dir, helpers.NopLogger())
	require.NoError(t, err)

	_, err = s.Save(context.Background(), "broken.sql", io.MultiReader(bytes.NewBufferString("partial"), failingReader{}))
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestPublicURL(t *testing.T) {
	assert.Equal(t, "https://storage.googleapis.com/bucket/avatars/u/1.png", PublicURL("bucket", "avatars/u/1.png"))
}
