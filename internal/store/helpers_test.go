package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/erazemk/najdeno/internal/model"
)

func mustUser(t *testing.T, db *sql.DB, email string) *model.User {
	t.Helper()
	u, err := CreateUser(context.Background(), db, "Test User", email, "hash", "")
	if err != nil {
		t.Fatalf("CreateUser(%s): %v", email, err)
	}
	return u
}

func mustItem(t *testing.T, db *sql.DB, ownerID int64, name, token string) *model.Item {
	t.Helper()
	item, err := CreateItem(context.Background(), db, ownerID, name, "", model.CategoryOther, token, "")
	if err != nil {
		t.Fatalf("CreateItem(%s): %v", name, err)
	}
	return item
}
