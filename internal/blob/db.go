package blob

import (
	"context"
	"database/sql"

	"github.com/erazemk/najdeno/internal/store"
)

// DBStore keeps blobs in the application database.
type DBStore struct {
	DB *sql.DB
}

// NewDBStore returns a Store backed by the blobs table.
func NewDBStore(db *sql.DB) *DBStore {
	return &DBStore{DB: db}
}

func (s *DBStore) Put(ctx context.Context, key string, data []byte, mime string) error {
	return store.PutBlob(ctx, s.DB, key, data, mime)
}

func (s *DBStore) Get(ctx context.Context, key string) (*Object, error) {
	data, mime, err := store.GetBlob(ctx, s.DB, key)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, ErrNotFound
	}
	return &Object{Data: data, MIME: mime}, nil
}

func (s *DBStore) Delete(ctx context.Context, key string) error {
	return store.DeleteBlob(ctx, s.DB, key)
}

func (s *DBStore) URL(context.Context, string) (string, error) {
	return "", nil
}
