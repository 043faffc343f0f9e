// Package service implements the lost-and-found operations on top of the
// store: item registration and lifecycle, finder reports, found posts,
// accounts and the read-only boards. Every mutating operation that needs an
// identity takes the acting user's ID explicitly.
package service

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"time"

	"github.com/erazemk/najdeno/internal/blob"
	"github.com/erazemk/najdeno/internal/imaging"
	"github.com/erazemk/najdeno/internal/metrics"
	"github.com/erazemk/najdeno/internal/notify"
	"github.com/erazemk/najdeno/internal/qr"
)

// DefaultExternalTimeout bounds QR generation, photo processing and blob
// writes when Service.ExternalTimeout is zero.
const DefaultExternalTimeout = 10 * time.Second

// Service holds the dependencies shared by all operations.
type Service struct {
	DB       *sql.DB
	Blobs    blob.Store
	Notifier notify.Notifier
	// BaseURL is the public origin QR codes point at.
	BaseURL         string
	ExternalTimeout time.Duration
}

// New returns a Service with database-backed blobs and log notifications.
// Callers may replace either before first use.
func New(db *sql.DB, baseURL string) *Service {
	return &Service{
		DB:       db,
		Blobs:    blob.NewDBStore(db),
		Notifier: &notify.LogNotifier{DB: db},
		BaseURL:  baseURL,
	}
}

func (s *Service) external(ctx context.Context) (context.Context, context.CancelFunc) {
	d := s.ExternalTimeout
	if d <= 0 {
		d = DefaultExternalTimeout
	}
	return context.WithTimeout(ctx, d)
}

// storeQR renders the recovery URL for token and saves it. Returns the blob key.
func (s *Service) storeQR(ctx context.Context, token string) (string, error) {
	ctx, cancel := s.external(ctx)
	defer cancel()

	png, err := qr.PNGContext(ctx, qr.RecoveryURL(s.BaseURL, token))
	if err != nil {
		metrics.ExternalFailures.WithLabelValues("qr").Inc()
		return "", storageError("generating QR code", err)
	}

	key := blob.QRKey(token)
	if err := s.Blobs.Put(ctx, key, png, qr.MIME); err != nil {
		metrics.ExternalFailures.WithLabelValues("blob_put").Inc()
		return "", storageError("storing QR code", err)
	}
	return key, nil
}

// storeImage transcodes and saves an uploaded photo. Returns the blob key.
func (s *Service) storeImage(ctx context.Context, r io.Reader) (string, error) {
	ctx, cancel := s.external(ctx)
	defer cancel()

	res, err := imaging.ProcessContext(ctx, r)
	if err != nil {
		metrics.ExternalFailures.WithLabelValues("image").Inc()
		return "", storageError("processing photo", err)
	}

	key := blob.NewImageKey()
	if err := s.Blobs.Put(ctx, key, res.Data, res.MIME); err != nil {
		metrics.ExternalFailures.WithLabelValues("blob_put").Inc()
		return "", storageError("storing photo", err)
	}
	return key, nil
}

// removeBlobs deletes blobs without failing the caller.
func (s *Service) removeBlobs(ctx context.Context, keys ...string) {
	for _, key := range keys {
		if key == "" {
			continue
		}
		if err := s.Blobs.Delete(ctx, key); err != nil {
			slog.Warn("failed to delete blob", "key", key, "error", err)
		}
	}
}
