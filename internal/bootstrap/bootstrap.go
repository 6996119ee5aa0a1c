// Package bootstrap opens the stores and clients shared by the API and the
// report worker, according to config.Config.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/crucial707/candidate-hub/internal/config"
	"github.com/crucial707/candidate-hub/internal/db"
	"github.com/crucial707/candidate-hub/internal/repo"
	"github.com/crucial707/candidate-hub/internal/report"
	"github.com/crucial707/candidate-hub/internal/service"
	"github.com/redis/go-redis/v9"
)

// Stores are the persistence backends of one process.
type Stores struct {
	// DB is nil in memory mode.
	DB         *sql.DB
	Users      service.UserStore
	Candidates service.CandidateStore
	Audit      service.AuditStore
}

// Memory reports whether the stores live in process memory.
func (s *Stores) Memory() bool { return s.DB == nil }

func (s *Stores) Close() error {
	if s.DB == nil {
		return nil
	}
	return s.DB.Close()
}

// OpenStores connects to PostgreSQL and applies migrations, or builds the
// in-memory stores when cfg.Storage is "memory".
func OpenStores(ctx context.Context, cfg config.Config) (*Stores, error) {
	if cfg.Storage == "memory" {
		slog.Warn("using in-memory storage; data is lost on restart")
		return &Stores{
			Users:      repo.NewMemoryUserRepo(),
			Candidates: repo.NewMemoryCandidateRepo(),
			Audit:      repo.NewMemoryAuditRepo(),
		}, nil
	}

	database, err := db.Connect(ctx,
		cfg.DBHost,
		cfg.DBPort,
		cfg.DBName,
		cfg.DBUser,
		cfg.DBPass,
		db.Options{
			MaxOpenConns:    cfg.DBMaxOpenConns,
			MaxIdleConns:    cfg.DBMaxIdleConns,
			ConnMaxLifetime: 30 * time.Minute,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	slog.Info("connected to database", "host", cfg.DBHost, "name", cfg.DBName)

	version, err := db.Migrate(cfg.DatabaseURL())
	if err != nil {
		database.Close()
		return nil, err
	}
	slog.Info("database migrations applied", "version", version)

	return &Stores{
		DB:         database,
		Users:      repo.NewUserRepo(database),
		Candidates: repo.NewCandidateRepo(database),
		Audit:      repo.NewAuditRepo(database),
	}, nil
}

// OpenRedis returns a client that has answered a PING.
func OpenRedis(ctx context.Context, cfg config.Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.RedisAddr, err)
	}
	return rdb, nil
}

// OpenReportStore returns the artifact store selected by cfg.ReportStore.
func OpenReportStore(ctx context.Context, cfg config.Config) (report.Store, error) {
	switch cfg.ReportStore {
	case "s3":
		client, err := report.NewS3Client(ctx, report.S3Options{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3Access,
			SecretKey: cfg.S3Secret,
		})
		if err != nil {
			return nil, err
		}
		slog.Info("report artifacts stored in s3", "bucket", cfg.S3Bucket)
		return report.NewS3Store(client, cfg.S3Bucket, "reports/"), nil
	default:
		store, err := report.NewFileStore(cfg.ReportDir)
		if err != nil {
			return nil, err
		}
		slog.Info("report artifacts stored on disk", "dir", cfg.ReportDir)
		return store, nil
	}
}
