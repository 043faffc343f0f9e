package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hibiken/asynq"

	"github.com/erazemk/najdeno/internal/api"
	"github.com/erazemk/najdeno/internal/blob"
	"github.com/erazemk/najdeno/internal/config"
	"github.com/erazemk/najdeno/internal/db"
	"github.com/erazemk/najdeno/internal/metrics"
	"github.com/erazemk/najdeno/internal/notify"
	"github.com/erazemk/najdeno/internal/service"
	"github.com/erazemk/najdeno/internal/web"
)

// openDatabase opens and migrates the database at path.
func openDatabase(ctx context.Context, path string) (*sql.DB, error) {
	database, err := db.Open(path)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx, database); err != nil {
		database.Close()
		return nil, err
	}
	slog.Info("database ready", "path", path)
	return database, nil
}

func redisOpt(c config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{Addr: c.Addr, Password: c.Password, DB: c.DB}
}

// newBlobStore returns the configured backend for photos and QR codes.
func newBlobStore(ctx context.Context, c *config.Config, database *sql.DB) (blob.Store, error) {
	if c.BlobBackend != config.BlobBackendMinio {
		return blob.NewDBStore(database), nil
	}

	s, err := blob.NewMinioStore(blob.MinioConfig{
		Endpoint:      c.Minio.Endpoint,
		AccessKey:     c.Minio.AccessKey,
		SecretKey:     c.Minio.SecretKey,
		Bucket:        c.Minio.Bucket,
		Region:        c.Minio.Region,
		UseSSL:        c.Minio.UseSSL,
		PresignExpiry: c.Minio.PresignExpiry,
	})
	if err != nil {
		return nil, err
	}
	if err := s.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	slog.Info("using minio blob store", "endpoint", c.Minio.Endpoint, "bucket", c.Minio.Bucket)
	return s, nil
}

// newNotifier queues notices on Redis when configured and delivers them
// inline otherwise. The returned close func is never nil.
func newNotifier(c *config.Config, database *sql.DB) (notify.Notifier, func()) {
	if c.Redis.Addr == "" {
		return &notify.LogNotifier{DB: database}, func() {}
	}
	client := asynq.NewClient(redisOpt(c.Redis))
	slog.Info("queueing owner notifications", "redis", c.Redis.Addr)
	return &notify.QueueNotifier{Client: client}, func() { client.Close() }
}

// newService wires the service to the configured backends.
func newService(database *sql.DB, c *config.Config, blobs blob.Store, notifier notify.Notifier) *service.Service {
	svc := service.New(database, c.BaseURL)
	svc.Blobs = blobs
	svc.Notifier = notifier
	svc.ExternalTimeout = c.ExternalTimeout
	return svc
}

// newHandler assembles the full HTTP handler: health, metrics, the JSON API
// under /api and the HTML pages for everything else.
func newHandler(svc *service.Service, c *config.Config, jwtSecret string) (http.Handler, error) {
	pages, err := web.NewServer(svc, jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("loading templates: %w", err)
	}
	pages.SecureCookies = c.SecureCookies
	pages.MaxUploadBytes = c.MaxUploadBytes

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(api.LoggingMiddleware)
	r.Use(metrics.Middleware)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := svc.DB.PingContext(r.Context()); err != nil {
			slog.Error("health check failed", "error", err)
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", metrics.Handler())
	r.Handle("/api/*", api.NewRouter(svc, jwtSecret))
	r.Mount("/", pages.Router())

	return r, nil
}
