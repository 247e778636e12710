package router

import (
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-dashboard-api/internal/application"
	"github.com/oksasatya/go-dashboard-api/internal/container"
	repo "github.com/oksasatya/go-dashboard-api/internal/domain/repository"
	pginfra "github.com/oksasatya/go-dashboard-api/internal/infrastructure/postgres"
	"github.com/oksasatya/go-dashboard-api/internal/infrastructure/queue"
	"github.com/oksasatya/go-dashboard-api/internal/infrastructure/search"
	"github.com/oksasatya/go-dashboard-api/internal/infrastructure/storage"
	handlers "github.com/oksasatya/go-dashboard-api/internal/interface/http"
	"github.com/oksasatya/go-dashboard-api/internal/interface/middleware"
	"github.com/oksasatya/go-dashboard-api/internal/router/modules"
	"github.com/oksasatya/go-dashboard-api/pkg/helpers"
	"github.com/oksasatya/go-dashboard-api/pkg/metrics"
)

// Deps is everything the HTTP modules are built from. Optional collaborators
// (Notifier, Avatars, Index, Dumper, BackupStore, Metrics) may be nil.
type Deps struct {
	Users       repo.UserRepository
	Layouts     repo.LayoutRepository
	Widgets     repo.WidgetRepository
	Preferences repo.PreferencesRepository
	Audit       repo.AuditRepository
	Tx          repo.Transactor

	JWT      *helpers.JWTManager
	Cookies  *helpers.Manager
	Redis    *redis.Client
	Notifier application.Notifier
	Avatars  application.AvatarStore
	Index    application.UserIndexer

	Dumper      repo.DumpProvider
	BackupStore repo.BackupStore

	Metrics *metrics.Metrics
	Logger  *logrus.Logger

	APILimit   int
	APIWindow  time.Duration
	AuthLimit  int
	AuthWindow time.Duration
	Debug      bool
}

// Wire builds services and handlers from d and adds every module to r.
func Wire(r *Registry, d Deps) {
	logger := helpers.OrNop(d.Logger)

	users := application.NewUserService(d.Users, d.Notifier, d.Avatars, d.Index, logger)
	auth := application.NewAuthService(users, d.JWT, d.Redis, d.Audit, logger)
	layouts := application.NewLayoutService(d.Layouts, d.Widgets, d.Tx, logger)
	widgets := application.NewWidgetService(layouts, d.Widgets, d.Tx, logger)
	prefs := application.NewPreferencesService(d.Preferences, d.Layouts, logger)
	dash := application.NewDashboardService(layouts, widgets, prefs, d.Users, d.Tx, logger)

	guard := modules.Guard{
		Auth:       middleware.Auth(d.JWT, auth.SessionActive),
		RDB:        d.Redis,
		APILimit:   d.APILimit,
		APIWindow:  d.APIWindow,
		AuthLimit:  d.AuthLimit,
		AuthWindow: d.AuthWindow,
	}

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(auth, users, d.Cookies, d.Metrics, logger), guard))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(users, logger), guard))
	r.Add(modules.NewDashboardModule(handlers.NewDashboardHandler(layouts, widgets, prefs, dash, logger), guard))

	if d.Dumper != nil && d.BackupStore != nil {
		backups := application.NewBackupService(d.Dumper, d.BackupStore, logger)
		r.Add(modules.NewBackupModule(handlers.NewBackupHandler(backups, d.Metrics, logger), guard))
	} else {
		logger.Warn("backup routes disabled: no dump tool or backup store")
	}

	if d.Debug {
		r.Add(modules.NewDebugModule(d.Metrics, guard))
	}
}

// buildDeps assembles Postgres repositories and the optional integrations registered in the container.
func buildDeps() Deps {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()

	d := Deps{
		Users:       pginfra.NewUserRepository(pool),
		Layouts:     pginfra.NewLayoutRepository(pool),
		Widgets:     pginfra.NewWidgetRepository(pool),
		Preferences: pginfra.NewPreferencesRepository(pool),
		Audit:       pginfra.NewAuditRepository(pool),
		Tx:          pginfra.NewTransactor(pool),
		JWT:         container.GetJWT(),
		Cookies:     helpers.NewCookie(cfg.CookieDomain, cfg.CookieSecure),
		Redis:       container.GetRedis(),
		Metrics:     container.GetMetrics(),
		Logger:      logger,
		APILimit:    cfg.APIRateLimit,
		APIWindow:   cfg.APIRateWindow,
		AuthLimit:   cfg.AuthRateLimit,
		AuthWindow:  cfg.AuthRateWindow,
		Debug:       cfg.DebugMetricsEnabled,
	}

	// interface fields stay untyped nil when an integration is off
	var pub queue.Publisher
	if p := container.GetRabbitPub(); p != nil && cfg.MailSendEnabled {
		pub = p
	}
	d.Notifier = queue.NewEmailNotifier(pub, cfg.Branding(), logger)

	if gcs := container.GetGCS(); gcs != nil && cfg.GCSBucket != "" {
		d.Avatars = storage.NewGCSObjects(gcs, cfg.GCSBucket)
	}
	if es := container.GetES(); es != nil {
		d.Index = search.NewUserIndex(es, cfg.ESUsersIndex, logger)
	}
	d.Dumper, d.BackupStore = container.GetBackups()
	return d
}

// InitModules wires all application modules against the container and registers them with r.
// Call once during startup, after the container is populated.
func InitModules(r *Registry) {
	Wire(r, buildDeps())
}
