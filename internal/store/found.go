package store

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/erazemk/najdeno/internal/model"
)

var foundColumns = []string{
	"id", "finder_name", "finder_email", "item_name", "description", "category",
	"location_found", "image_ref", "status", "claimed_by", "claimed_at", "created_at",
}

// CreateFoundPost records a found item with status unclaimed.
func CreateFoundPost(ctx context.Context, db *sql.DB, p model.FoundPost) (*model.FoundPost, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO found_posts (finder_name, finder_email, item_name, description, category, location_found, image_ref)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.FinderName, p.FinderEmail, p.ItemName, nullString(p.Description), p.Category,
		nullString(p.LocationFound), nullString(p.ImageRef),
	)
	if err != nil {
		return nil, fmt.Errorf("creating found post: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting found post id: %w", err)
	}

	return GetFoundPost(ctx, db, id)
}

// GetFoundPost returns a found post by ID.
func GetFoundPost(ctx context.Context, db *sql.DB, id int64) (*model.FoundPost, error) {
	query, args, err := sq.Select(foundColumns...).From("found_posts").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("building found post query: %w", err)
	}

	p := &model.FoundPost{}
	err = db.QueryRowContext(ctx, query, args...).Scan(foundFields(p)...)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting found post: %w", err)
	}
	return p, nil
}

// ListFoundPosts returns found posts, unclaimed first, then newest first.
func ListFoundPosts(ctx context.Context, db *sql.DB, f Filter) ([]model.FoundPost, error) {
	b := f.apply(sq.Select(foundColumns...).From("found_posts"), "item_name", "description", "location_found").
		OrderBy("status = 'claimed'", "created_at DESC", "id DESC")

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building found post list query: %w", err)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing found posts: %w", err)
	}
	defer rows.Close()

	var posts []model.FoundPost
	for rows.Next() {
		var p model.FoundPost
		if err := rows.Scan(foundFields(&p)...); err != nil {
			return nil, fmt.Errorf("scanning found post: %w", err)
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// ClaimFoundPost marks an unclaimed post claimed by userID. Returns false if
// the post does not exist or was already claimed, so concurrent claims
// succeed at most once.
func ClaimFoundPost(ctx context.Context, db *sql.DB, id, userID int64) (bool, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE found_posts SET status = 'claimed', claimed_by = ?, claimed_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND status = 'unclaimed'`,
		userID, id,
	)
	if err != nil {
		return false, fmt.Errorf("claiming found post: %w", err)
	}
	return affected(result)
}

func foundFields(p *model.FoundPost) []any {
	return []any{
		&p.ID, &p.FinderName, &p.FinderEmail, &p.ItemName, (*nullable)(&p.Description), &p.Category,
		(*nullable)(&p.LocationFound), (*nullable)(&p.ImageRef), &p.Status, &p.ClaimedBy, &p.ClaimedAt, &p.CreatedAt,
	}
}
