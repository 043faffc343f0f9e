// Package notify tells item owners about new finder reports. Delivery is
// either inline (log) or through an asynq queue drained by the worker.
package notify

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/erazemk/najdeno/internal/store"
)

// Notice identifies a newly filed report.
type Notice struct {
	ReportID int64  `json:"report_id"`
	ItemID   int64  `json:"item_id"`
	OwnerID  int64  `json:"owner_id"`
	Kind     string `json:"kind"`
}

// Notifier is called after a finder report is stored.
type Notifier interface {
	ReportFiled(ctx context.Context, n Notice) error
}

// LogNotifier delivers notices immediately by logging them.
type LogNotifier struct {
	DB *sql.DB
}

func (l *LogNotifier) ReportFiled(ctx context.Context, n Notice) error {
	return deliver(ctx, l.DB, n)
}

// deliver logs a notice and marks the report notified.
func deliver(ctx context.Context, db *sql.DB, n Notice) error {
	report, err := store.GetReport(ctx, db, n.ReportID)
	if err != nil {
		return err
	}
	if report == nil {
		// Item (and report) deleted before delivery.
		slog.Warn("notice for missing report dropped", "report", n.ReportID)
		return nil
	}
	owner, err := store.GetUser(ctx, db, n.OwnerID)
	if err != nil {
		return err
	}
	if owner == nil {
		slog.Warn("notice for missing owner dropped", "report", n.ReportID, "owner", n.OwnerID)
		return nil
	}

	if err := store.MarkReportNotified(ctx, db, report.ID); err != nil {
		return fmt.Errorf("delivering notice: %w", err)
	}

	slog.Info("owner notified",
		"owner", owner.Email,
		"item", report.ItemName,
		"report", report.ID,
		"kind", report.Kind,
		"finder", report.FinderName,
	)
	return nil
}
