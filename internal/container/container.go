package container

import (
	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-dashboard-api/config"
	repo "github.com/oksasatya/go-dashboard-api/internal/domain/repository"
	"github.com/oksasatya/go-dashboard-api/internal/infrastructure/queue"
	"github.com/oksasatya/go-dashboard-api/pkg/helpers"
	"github.com/oksasatya/go-dashboard-api/pkg/metrics"
)

// app-level container to share constructed infrastructure across packages.
// The router builds repositories, services and handlers from these singletons.
// Optional clients (GCS, Elasticsearch, RabbitMQ, backups) may be nil.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	pgPool      *pgxpool.Pool
	redisClient *redis.Client
	gcsClient   *storage.Client
	jwtManager  *helpers.JWTManager
	rabbitPub   *queue.RabbitPublisher
	esClient    *elasticsearch.Client
	appMetrics  *metrics.Metrics
	backupStore repo.BackupStore
	dumper      repo.DumpProvider
)

func SetConfig(c *config.Config)   { cfg = c }
func GetConfig() *config.Config    { return cfg }
func SetLogger(l *logrus.Logger)   { logger = l }
func GetLogger() *logrus.Logger    { return helpers.OrNop(logger) }
func SetPGPool(p *pgxpool.Pool)    { pgPool = p }
func GetPGPool() *pgxpool.Pool     { return pgPool }
func SetRedis(r *redis.Client)     { redisClient = r }
func GetRedis() *redis.Client      { return redisClient }
func SetGCS(s *storage.Client)     { gcsClient = s }
func GetGCS() *storage.Client      { return gcsClient }
func SetJWT(m *helpers.JWTManager) { jwtManager = m }
func GetJWT() *helpers.JWTManager  { return jwtManager }

func SetRabbitPub(p *queue.RabbitPublisher) { rabbitPub = p }
func GetRabbitPub() *queue.RabbitPublisher  { return rabbitPub }
func SetES(c *elasticsearch.Client)         { esClient = c }
func GetES() *elasticsearch.Client          { return esClient }
func SetMetrics(m *metrics.Metrics)         { appMetrics = m }
func GetMetrics() *metrics.Metrics          { return appMetrics }

// SetBackups registers the dump tool and file store used by the admin backup routes.
func SetBackups(d repo.DumpProvider, s repo.BackupStore) { dumper, backupStore = d, s }
func GetBackups() (repo.DumpProvider, repo.BackupStore)  { return dumper, backupStore }
