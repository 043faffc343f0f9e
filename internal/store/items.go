package store

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/erazemk/najdeno/internal/model"
)

var itemColumns = []string{
	"id", "owner_id", "name", "description", "category", "status",
	"recovery_token", "qr_ref", "image_ref", "created_at", "updated_at",
}

const openReportsColumn = `(SELECT COUNT(*) FROM finder_reports r
	WHERE r.item_id = items.id AND r.status = 'open') AS open_reports`

// CreateItem creates a new item with status active.
func CreateItem(ctx context.Context, db *sql.DB, ownerID int64, name, description, category, token, qrRef string) (*model.Item, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO items (owner_id, name, description, category, recovery_token, qr_ref)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		ownerID, name, nullString(description), category, token, nullString(qrRef),
	)
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("creating item: %w", ErrDuplicate)
	}
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting item id: %w", err)
	}

	return GetItem(ctx, db, id)
}

// GetItem returns an item by ID.
func GetItem(ctx context.Context, db *sql.DB, id int64) (*model.Item, error) {
	return getItemWhere(ctx, db, sq.Eq{"id": id})
}

// GetItemByToken returns the item whose recovery token equals token exactly.
func GetItemByToken(ctx context.Context, db *sql.DB, token string) (*model.Item, error) {
	return getItemWhere(ctx, db, sq.Eq{"recovery_token": token})
}

func getItemWhere(ctx context.Context, db *sql.DB, where sq.Sqlizer) (*model.Item, error) {
	query, args, err := sq.Select(itemColumns...).From("items").Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("building item query: %w", err)
	}

	item := &model.Item{}
	err = db.QueryRowContext(ctx, query, args...).Scan(itemFields(item)...)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return item, nil
}

// ListOwnerItems returns an owner's items, newest first, with the number of
// open reports on each.
func ListOwnerItems(ctx context.Context, db *sql.DB, ownerID int64, f Filter) ([]model.Item, error) {
	b := sq.Select(append(itemColumns, openReportsColumn)...).
		From("items").
		Where(sq.Eq{"owner_id": ownerID})
	b = f.apply(b, "name", "description").OrderBy("created_at DESC", "id DESC")
	return listItems(ctx, db, b, true)
}

// ListLostItems returns all items currently marked lost, newest first.
func ListLostItems(ctx context.Context, db *sql.DB, f Filter) ([]model.Item, error) {
	f.Status = model.ItemStatusLost
	b := f.apply(sq.Select(itemColumns...).From("items"), "name", "description").
		OrderBy("updated_at DESC", "id DESC")
	return listItems(ctx, db, b, false)
}

func listItems(ctx context.Context, db *sql.DB, b sq.SelectBuilder, withOpenReports bool) ([]model.Item, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building item list query: %w", err)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		var item model.Item
		dest := itemFields(&item)
		if withOpenReports {
			dest = append(dest, &item.OpenReports)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// SetItemStatus changes the status of an item owned by ownerID. Returns false
// if no such item exists for that owner.
func SetItemStatus(ctx context.Context, db *sql.DB, id, ownerID int64, status string) (bool, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE items SET status = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND owner_id = ?`,
		status, id, ownerID,
	)
	if err != nil {
		return false, fmt.Errorf("setting item status: %w", err)
	}
	return affected(result)
}

// SetItemImage sets an item's image reference.
func SetItemImage(ctx context.Context, db *sql.DB, id int64, imageRef string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE items SET image_ref = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		nullString(imageRef), id,
	)
	if err != nil {
		return fmt.Errorf("setting item image: %w", err)
	}
	return nil
}

// DeleteItem removes an item owned by ownerID together with its reports.
// Returns false if no such item exists for that owner.
func DeleteItem(ctx context.Context, db *sql.DB, id, ownerID int64) (bool, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	// Reports go first so the delete does not depend on ON DELETE CASCADE.
	_, err = tx.ExecContext(ctx,
		`DELETE FROM finder_reports
		 WHERE item_id IN (SELECT id FROM items WHERE id = ? AND owner_id = ?)`,
		id, ownerID,
	)
	if err != nil {
		return false, fmt.Errorf("deleting item reports: %w", err)
	}

	result, err := tx.ExecContext(ctx,
		`DELETE FROM items WHERE id = ? AND owner_id = ?`, id, ownerID,
	)
	if err != nil {
		return false, fmt.Errorf("deleting item: %w", err)
	}
	ok, err := affected(result)
	if err != nil || !ok {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("committing item delete: %w", err)
	}
	return true, nil
}

func itemFields(item *model.Item) []any {
	return []any{
		&item.ID, &item.OwnerID, &item.Name, (*nullable)(&item.Description), &item.Category, &item.Status,
		&item.RecoveryToken, (*nullable)(&item.QRRef), (*nullable)(&item.ImageRef), &item.CreatedAt, &item.UpdatedAt,
	}
}
