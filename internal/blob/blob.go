// Package blob stores QR codes and photos. Objects live either in the SQLite
// database or in an S3-compatible bucket.
package blob

import (
	"context"
	"errors"
	"path"

	"github.com/google/uuid"
)

// ErrNotFound is returned by Get for a missing key.
var ErrNotFound = errors.New("blob not found")

// Object is a stored blob.
type Object struct {
	Data []byte
	MIME string
}

// Store is a key/value store for binary objects.
type Store interface {
	Put(ctx context.Context, key string, data []byte, mime string) error
	Get(ctx context.Context, key string) (*Object, error)
	Delete(ctx context.Context, key string) error
	// URL returns a direct download URL for key, or "" if the object must be
	// served through the application.
	URL(ctx context.Context, key string) (string, error)
}

// QRKey is the key of an item's QR code.
func QRKey(token string) string {
	return path.Join("qr", token+".png")
}

// NewImageKey returns a fresh key for a photo.
func NewImageKey() string {
	return path.Join("img", uuid.NewString()+".jpg")
}

// ValidKey reports whether key looks like one produced by this package.
func ValidKey(key string) bool {
	dir, file := path.Split(key)
	return (dir == "qr/" || dir == "img/") && file != "" && path.Clean(key) == key
}
