package main

import (
	"context"
	"errors"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-dashboard-api/config"
	"github.com/oksasatya/go-dashboard-api/internal/application"
	"github.com/oksasatya/go-dashboard-api/internal/domain/entity"
	pginfra "github.com/oksasatya/go-dashboard-api/internal/infrastructure/postgres"
	"github.com/oksasatya/go-dashboard-api/pkg/apperror"
	"github.com/oksasatya/go-dashboard-api/pkg/helpers"
)

// seed creates an admin account with preferences and a starter dashboard.
// Running it again reuses the existing account.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, pginfra.PoolConfig{DSN: cfg.PostgresDSN()}, logger)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()
	if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	usersRepo := pginfra.NewUserRepository(pool)
	layoutsRepo := pginfra.NewLayoutRepository(pool)
	widgetsRepo := pginfra.NewWidgetRepository(pool)
	prefsRepo := pginfra.NewPreferencesRepository(pool)
	tx := pginfra.NewTransactor(pool)

	users := application.NewUserService(usersRepo, nil, nil, nil, logger)
	layouts := application.NewLayoutService(layoutsRepo, widgetsRepo, tx, logger)
	widgets := application.NewWidgetService(layouts, widgetsRepo, tx, logger)
	prefs := application.NewPreferencesService(prefsRepo, layoutsRepo, logger)
	dash := application.NewDashboardService(layouts, widgets, prefs, usersRepo, tx, logger)

	email := envOr("SEED_ADMIN_EMAIL", "admin@example.com")
	in := application.CreateUserInput{
		Email:     email,
		Username:  envOr("SEED_ADMIN_USERNAME", "admin"),
		Password:  envOr("SEED_ADMIN_PASSWORD", "password123"),
		FirstName: "Admin",
		Role:      entity.RoleSuperAdmin,
	}

	u, err := users.Create(ctx, in)
	switch {
	case errors.Is(err, apperror.ErrAlreadyExists):
		u, err = users.GetByEmail(ctx, email)
		if err != nil {
			log.Fatalf("failed to load existing admin: %v", err)
		}
		logger.WithField("user_id", u.ID).Info("admin already present")
	case err != nil:
		log.Fatalf("failed to seed admin: %v", err)
	default:
		logger.WithField("user_id", u.ID).Info("admin created")
	}

	board, err := dash.Initialize(ctx, u.ID, false)
	if err != nil {
		log.Fatalf("failed to initialize dashboard: %v", err)
	}
	logger.WithField("layout_id", board.Layout.ID).Infof("seeded %s with %d widgets", email, len(board.Widgets))
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
