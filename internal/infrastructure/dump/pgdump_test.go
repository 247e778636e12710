package dump

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-dashboard-api/pkg/helpers"
)

func TestNewPgTools_DefaultsBinaries(t *testing.T) {
	p := NewPgTools(Config{DSN: "postgres://u:p@db/app"}, helpers.NopLogger())
	assert.Equal(t, "pg_dump", p.cfg.PgDumpPath)
	assert.Equal(t, "psql", p.cfg.PsqlPath)
	assert.Contains(t, p.dumpArgs(), "--dbname=postgres://u:p@db/app")
	assert.Contains(t, p.restoreArgs(), "--single-transaction")
}

func TestPgTools_StreamsThroughCommand(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	p := NewPgTools(Config{DSN: "x"}, helpers.NopLogger())
	p.command = func(ctx context.Context, name string, _ ...string) *exec.Cmd {
		if name == "pg_dump" {
			return exec.CommandContext(ctx, "sh", "-c", "printf 'CREATE TABLE t();'")
		}
		return exec.CommandContext(ctx, "sh", "-c", "cat >/dev/null")
	}

	var out bytes.Buffer
	require.NoError(t, p.Dump(context.Background(), &out))
	assert.Equal(t, "CREATE TABLE t();", out.String())
	require.NoError(t, p.Restore(context.Background(), strings.NewReader(out.String())))
}

func TestPgTools_ReportsStderr(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	p := NewPgTools(Config{DSN: "x"}, helpers.NopLogger())
	p.command = func(ctx context.Context, _ string, _ ...string) *exec.Cmd {
		return exec.CommandContext(ctx, "sh", "-c", "echo 'connection refused' >&2; exit 1")
	}
	err := p.Dump(context.Background(), &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}
