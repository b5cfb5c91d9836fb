package app

import (
	"context"
	"fmt"
	"time"

	"github.com/pavel-2009/ai-task-assistant/internal/classifier"
	"github.com/pavel-2009/ai-task-assistant/internal/config"
	"github.com/pavel-2009/ai-task-assistant/internal/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type App struct {
	cfg    config.Config
	log    *zap.Logger
	db     *pgxpool.Pool
	redis  *redis.Client
	router *gin.Engine
}

func New(cfg config.Config, log *zap.Logger) (*App, error) {
	a := &App{cfg: cfg, log: log}

	db, err := newPostgres(cfg.PG.DSN)
	if err != nil {
		return nil, err
	}
	a.db = db

	rdb, err := newRedis(cfg.Redis)
	if err != nil {
		db.Close()
		return nil, err
	}
	a.redis = rdb

	if err := runMigrations(cfg.PG.DSN, "./migrations"); err != nil {
		a.redis.Close()
		a.db.Close()
		return nil, err
	}

	avatars, err := newAvatarStore(cfg.Storage)
	if err != nil {
		a.redis.Close()
		a.db.Close()
		return nil, err
	}

	cls, err := newClassifier(cfg.Classifier, log)
	if err != nil {
		a.redis.Close()
		a.db.Close()
		return nil, err
	}

	a.router = newRouter(cfg, a.db, a.redis, avatars, cls, log)
	return a, nil
}

func (a *App) Router() *gin.Engine {
	return a.router
}

func (a *App) Close(ctx context.Context) error {
	_ = ctx
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
	return nil
}

func newPostgres(dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("pg parse config: %w", err)
	}
	cfg.MaxConns = 10
	cfg.MinConns = 2
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.MaxConnLifetime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("pg connect: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg ping: %w", err)
	}

	return pool, nil
}

func newRedis(cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return rdb, nil
}

func runMigrations(dsn string, migrationsDir string) error {
	db, err := goose.OpenDBWithDriver("pgx", dsn)
	if err != nil {
		return fmt.Errorf("goose open db: %w", err)
	}
	defer db.Close()

	if err := goose.Up(db, migrationsDir); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

func newAvatarStore(cfg config.StorageConfig) (storage.Store, error) {
	if cfg.Driver == "s3" {
		return storage.NewS3Store(context.Background(), storage.S3Options{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
	}
	return storage.NewLocalStore(cfg.AvatarDir)
}

// newClassifier returns nil when no backend is configured; the predict
// endpoint then answers 503.
func newClassifier(cfg config.ClassifierConfig, log *zap.Logger) (classifier.Provider, error) {
	if cfg.URL == "" {
		log.Info("classifier disabled: CLASSIFIER_URL not set")
		return nil, nil
	}
	labels, err := classifier.LoadLabels(cfg.LabelsPath)
	if err != nil {
		return nil, fmt.Errorf("classifier labels: %w", err)
	}
	log.Info("classifier enabled",
		zap.String("url", cfg.URL),
		zap.Int("labels", len(labels)))
	return classifier.NewClient(cfg.URL, labels, cfg.Timeout.Duration()), nil
}

func newRouter(cfg config.Config, db *pgxpool.Pool, rdb *redis.Client, avatars storage.Store, cls classifier.Provider, log *zap.Logger) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length", "Content-Type"},
		MaxAge:        12 * time.Hour,
	}))

	Setup(r, cfg, db, rdb, avatars, cls, log)
	return r
}
