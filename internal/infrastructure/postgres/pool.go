package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

type PoolConfig struct {
	DSN         string
	MaxConns    int32
	MinConns    int32
	MaxConnLife time.Duration
}

// NewPool opens the pgx pool and pings it once.
func NewPool(ctx context.Context, pc PoolConfig, logger *logrus.Logger) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(pc.DSN)
	if err != nil {
		return nil, err
	}
	if pc.MaxConns > 0 {
		cfg.MaxConns = pc.MaxConns
	}
	if pc.MinConns > 0 {
		cfg.MinConns = pc.MinConns
	}
	if pc.MaxConnLife > 0 {
		cfg.MaxConnLifetime = pc.MaxConnLife
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, err
	}
	logger.WithFields(logrus.Fields{
		"host":      cfg.ConnConfig.Host,
		"database":  cfg.ConnConfig.Database,
		"max_conns": cfg.MaxConns,
	}).Info("postgres pool ready")
	return pool, nil
}
