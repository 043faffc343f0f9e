package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/najdeno/internal/model"
)

// AddReportMessage appends a message to a report's thread.
func AddReportMessage(ctx context.Context, db *sql.DB, reportID int64, sender, body string) (*model.ReportMessage, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO report_messages (report_id, sender, body) VALUES (?, ?, ?)`,
		reportID, sender, body,
	)
	if err != nil {
		return nil, fmt.Errorf("adding report message: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting report message id: %w", err)
	}

	m := &model.ReportMessage{}
	err = db.QueryRowContext(ctx,
		`SELECT id, report_id, sender, body, created_at FROM report_messages WHERE id = ?`, id,
	).Scan(&m.ID, &m.ReportID, &m.Sender, &m.Body, &m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("getting report message: %w", err)
	}
	return m, nil
}

// ListReportMessages returns a report's thread, oldest first.
func ListReportMessages(ctx context.Context, db *sql.DB, reportID int64) ([]model.ReportMessage, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, report_id, sender, body, created_at
		 FROM report_messages WHERE report_id = ? ORDER BY created_at, id`, reportID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing report messages: %w", err)
	}
	defer rows.Close()

	var messages []model.ReportMessage
	for rows.Next() {
		var m model.ReportMessage
		if err := rows.Scan(&m.ID, &m.ReportID, &m.Sender, &m.Body, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning report message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
