// Package dump runs the PostgreSQL client tools to dump and restore the database.
package dump

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-dashboard-api/internal/domain/repository"
)

type Config struct {
	DSN        string
	PgDumpPath string
	PsqlPath   string
}

// PgTools shells out to pg_dump and psql.
type PgTools struct {
	cfg    Config
	logger *logrus.Logger
	// command builds the process; tests swap it.
	command func(ctx context.Context, name string, args ...string) *exec.Cmd
}

func NewPgTools(cfg Config, logger *logrus.Logger) *PgTools {
	if cfg.PgDumpPath == "" {
		cfg.PgDumpPath = "pg_dump"
	}
	if cfg.PsqlPath == "" {
		cfg.PsqlPath = "psql"
	}
	return &PgTools{cfg: cfg, logger: logger, command: exec.CommandContext}
}

func (p *PgTools) dumpArgs() []string {
	return []string{"--dbname=" + p.cfg.DSN, "--clean", "--if-exists", "--no-owner", "--no-privileges", "--format=plain"}
}

func (p *PgTools) restoreArgs() []string {
	return []string{"--dbname=" + p.cfg.DSN, "--single-transaction", "--set=ON_ERROR_STOP=1", "--quiet"}
}

// Dump writes a plain SQL dump to w.
func (p *PgTools) Dump(ctx context.Context, w io.Writer) error {
	cmd := p.command(ctx, p.cfg.PgDumpPath, p.dumpArgs()...)
	var stderr bytes.Buffer
	cmd.Stdout = w
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("pg_dump: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	p.logger.Info("database dumped")
	return nil
}

// Restore feeds r to psql inside a single transaction.
func (p *PgTools) Restore(ctx context.Context, r io.Reader) error {
	cmd := p.command(ctx, p.cfg.PsqlPath, p.restoreArgs()...)
	var stderr bytes.Buffer
	cmd.Stdin = r
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("psql: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	p.logger.Info("database restored")
	return nil
}

var _ repository.DumpProvider = (*PgTools)(nil)
