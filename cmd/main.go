package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-dashboard-api/config"
	"github.com/oksasatya/go-dashboard-api/internal/container"
	repo "github.com/oksasatya/go-dashboard-api/internal/domain/repository"
	"github.com/oksasatya/go-dashboard-api/internal/infrastructure/dump"
	pginfra "github.com/oksasatya/go-dashboard-api/internal/infrastructure/postgres"
	"github.com/oksasatya/go-dashboard-api/internal/infrastructure/queue"
	"github.com/oksasatya/go-dashboard-api/internal/infrastructure/search"
	"github.com/oksasatya/go-dashboard-api/internal/infrastructure/storage"
	"github.com/oksasatya/go-dashboard-api/internal/interface/middleware"
	"github.com/oksasatya/go-dashboard-api/internal/router"
	"github.com/oksasatya/go-dashboard-api/pkg/helpers"
	"github.com/oksasatya/go-dashboard-api/pkg/metrics"
	"github.com/oksasatya/go-dashboard-api/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, pginfra.PoolConfig{
		DSN:         cfg.PostgresDSN(),
		MaxConns:    cfg.DBMaxConns,
		MinConns:    cfg.DBMinConns,
		MaxConnLife: cfg.DBMaxConnLife,
	}, logger)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer func() { _ = rdb.Close() }()
	if helpers.PingRedis(ctx, rdb, logger) {
		container.SetRedis(rdb)
	}

	jwtManager := helpers.NewJWTManager(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.AccessTTL, cfg.RefreshTTL)
	m := metrics.New("dashboard")

	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetPGPool(pool)
	container.SetJWT(jwtManager)
	container.SetMetrics(m)

	// Optional integrations: a failure disables the feature, not the server.
	if cfg.GCSBucket != "" || cfg.BackupStorage == config.BackupStorageGCS {
		gcsClient, err := storage.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			logger.WithError(err).Warn("gcs disabled")
		} else {
			defer func() { _ = gcsClient.Close() }()
			container.SetGCS(gcsClient)
		}
	}
	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		es, err := search.NewESClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err != nil {
			logger.WithError(err).Warn("elasticsearch disabled")
		} else {
			container.SetES(es)
		}
	}
	if cfg.MailSendEnabled {
		pub, err := queue.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
		if err != nil {
			logger.WithError(err).Warn("email queue disabled")
		} else {
			defer pub.Close()
			container.SetRabbitPub(pub)
		}
	}
	if store, err := backupStore(ctx, cfg, logger); err != nil {
		logger.WithError(err).Warn("backups disabled")
	} else {
		tools := dump.NewPgTools(dump.Config{DSN: cfg.PostgresDSN(), PgDumpPath: cfg.PgDumpPath, PsqlPath: cfg.PsqlPath}, logger)
		container.SetBackups(tools, store)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RealIP())
	r.Use(m.Middleware())
	corsCfg := cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	r.Use(cors.New(corsCfg))
	if cfg.HTTPLogEnabled {
		r.Use(gin.Logger())
	}

	reg := router.NewRegistry(r)
	router.InitModules(reg)
	reg.RegisterAll()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Fatalf("server forced to shutdown: %v", err)
	}
	logger.Info("server exited properly")
}

// backupStore picks the dump file backend named by BACKUP_STORAGE.
func backupStore(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (repo.BackupStore, error) {
	switch cfg.BackupStorage {
	case config.BackupStorageGCS:
		client := container.GetGCS()
		if client == nil || cfg.GCSBucket == "" {
			return nil, errors.New("gcs backup storage needs GCS_BUCKET and credentials")
		}
		return storage.NewGCSStore(storage.NewGCSObjects(client, cfg.GCSBucket), cfg.BackupPrefix, logger), nil
	case config.BackupStorageMinIO:
		store, err := storage.NewMinIOStore(cfg.MinIO(), logger)
		if err != nil {
			return nil, err
		}
		if err := store.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return store, nil
	default:
		return storage.NewLocalStore(cfg.BackupDir, logger)
	}
}
