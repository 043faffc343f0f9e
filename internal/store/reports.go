package store

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/erazemk/najdeno/internal/model"
)

var reportColumns = []string{
	"r.id", "r.item_id", "r.kind", "r.finder_name", "r.finder_email", "r.location_hint",
	"r.message", "r.status", "r.notified_at", "r.created_at", "r.resolved_at", "i.name AS item_name",
}

// CreateReport records a finder report with status open.
func CreateReport(ctx context.Context, db *sql.DB, itemID int64, kind, finderName, finderEmail, locationHint, message string) (*model.FinderReport, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO finder_reports (item_id, kind, finder_name, finder_email, location_hint, message)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		itemID, kind, finderName, finderEmail, nullString(locationHint), message,
	)
	if err != nil {
		return nil, fmt.Errorf("creating report: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting report id: %w", err)
	}

	return GetReport(ctx, db, id)
}

// GetReport returns a report by ID.
func GetReport(ctx context.Context, db *sql.DB, id int64) (*model.FinderReport, error) {
	query, args, err := reportSelect().Where(sq.Eq{"r.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("building report query: %w", err)
	}

	r := &model.FinderReport{}
	err = db.QueryRowContext(ctx, query, args...).Scan(reportFields(r)...)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting report: %w", err)
	}
	return r, nil
}

// ListOwnerReports returns reports on all items owned by ownerID, newest
// first. An empty status returns every report.
func ListOwnerReports(ctx context.Context, db *sql.DB, ownerID int64, status string) ([]model.FinderReport, error) {
	b := reportSelect().Where(sq.Eq{"i.owner_id": ownerID})
	if status != "" {
		b = b.Where(sq.Eq{"r.status": status})
	}
	return listReports(ctx, db, b.OrderBy("r.created_at DESC", "r.id DESC"))
}

// ListItemReports returns all reports on one item, newest first.
func ListItemReports(ctx context.Context, db *sql.DB, itemID int64) ([]model.FinderReport, error) {
	return listReports(ctx, db, reportSelect().
		Where(sq.Eq{"r.item_id": itemID}).
		OrderBy("r.created_at DESC", "r.id DESC"))
}

// ResolveReport marks an open report resolved, but only if the report's item
// is owned by ownerID. Returns false if nothing changed, so concurrent
// resolves succeed at most once.
func ResolveReport(ctx context.Context, db *sql.DB, id, ownerID int64) (bool, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE finder_reports SET status = 'resolved', resolved_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND status = 'open'
		   AND item_id IN (SELECT id FROM items WHERE owner_id = ?)`,
		id, ownerID,
	)
	if err != nil {
		return false, fmt.Errorf("resolving report: %w", err)
	}
	return affected(result)
}

// MarkReportNotified records that the item owner was notified.
func MarkReportNotified(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx,
		`UPDATE finder_reports SET notified_at = CURRENT_TIMESTAMP WHERE id = ? AND notified_at IS NULL`, id,
	)
	if err != nil {
		return fmt.Errorf("marking report notified: %w", err)
	}
	return nil
}

func reportSelect() sq.SelectBuilder {
	return sq.Select(reportColumns...).
		From("finder_reports r").
		Join("items i ON i.id = r.item_id")
}

func listReports(ctx context.Context, db *sql.DB, b sq.SelectBuilder) ([]model.FinderReport, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building report list query: %w", err)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing reports: %w", err)
	}
	defer rows.Close()

	var reports []model.FinderReport
	for rows.Next() {
		var r model.FinderReport
		if err := rows.Scan(reportFields(&r)...); err != nil {
			return nil, fmt.Errorf("scanning report: %w", err)
		}
		reports = append(reports, r)
	}
	return reports, rows.Err()
}

func reportFields(r *model.FinderReport) []any {
	return []any{
		&r.ID, &r.ItemID, &r.Kind, &r.FinderName, &r.FinderEmail, (*nullable)(&r.LocationHint),
		&r.Message, &r.Status, &r.NotifiedAt, &r.CreatedAt, &r.ResolvedAt, &r.ItemName,
	}
}
