package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/erazemk/najdeno/internal/metrics"
	"github.com/erazemk/najdeno/internal/model"
	"github.com/erazemk/najdeno/internal/notify"
	"github.com/erazemk/najdeno/internal/store"
)

// ReportInput is what a finder submits about an item.
type ReportInput struct {
	FinderName   string
	FinderEmail  string
	Message      string
	LocationHint string
}

func (in ReportInput) validate() (ReportInput, error) {
	var err error
	if in.FinderName, err = model.ValidateLength("finder_name", in.FinderName, 2, 100); err != nil {
		return in, err
	}
	if in.FinderEmail, err = model.ValidateEmail("finder_email", in.FinderEmail); err != nil {
		return in, err
	}
	if in.Message, err = model.ValidateLength("message", in.Message, 3, 2000); err != nil {
		return in, err
	}
	if in.LocationHint, err = model.ValidateLength("location_hint", in.LocationHint, 0, 200); err != nil {
		return in, err
	}
	return in, nil
}

// SubmitFinderReport files a report from someone who scanned an item's QR
// code.
func (s *Service) SubmitFinderReport(ctx context.Context, token string, in ReportInput) (*model.FinderReport, error) {
	item, err := s.ResolveToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.fileReport(ctx, item, model.ReportKindScan, in)
}

// SubmitSighting files a report from the public lost board. Only items
// currently marked lost accept sightings.
func (s *Service) SubmitSighting(ctx context.Context, itemID int64, in ReportInput) (*model.FinderReport, error) {
	item, err := store.GetItem(ctx, s.DB, itemID)
	if err != nil {
		return nil, storageError("loading item", err)
	}
	if item == nil {
		return nil, fmt.Errorf("item %d: %w", itemID, ErrNotFound)
	}
	if item.Status != model.ItemStatusLost {
		return nil, fmt.Errorf("item %d is %s, not lost: %w", itemID, item.Status, ErrConflict)
	}
	return s.fileReport(ctx, item, model.ReportKindSighting, in)
}

func (s *Service) fileReport(ctx context.Context, item *model.Item, kind string, in ReportInput) (*model.FinderReport, error) {
	in, err := in.validate()
	if err != nil {
		return nil, err
	}

	report, err := store.CreateReport(ctx, s.DB, item.ID, kind, in.FinderName, in.FinderEmail, in.LocationHint, in.Message)
	if err != nil {
		return nil, storageError("filing report", err)
	}

	metrics.ReportsFiled.WithLabelValues(kind).Inc()
	slog.Info("report filed", "item", item.ID, "report", report.ID, "kind", kind)

	if s.Notifier != nil {
		n := notify.Notice{ReportID: report.ID, ItemID: item.ID, OwnerID: item.OwnerID, Kind: kind}
		if err := s.Notifier.ReportFiled(ctx, n); err != nil {
			slog.Error("failed to notify owner", "report", report.ID, "error", err)
		}
	}
	return report, nil
}

// ownedReport loads a report on one of actor's items.
func (s *Service) ownedReport(ctx context.Context, actor, reportID int64) (*model.FinderReport, error) {
	report, err := store.GetReport(ctx, s.DB, reportID)
	if err != nil {
		return nil, storageError("loading report", err)
	}
	if report == nil {
		return nil, fmt.Errorf("report %d: %w", reportID, ErrNotFound)
	}
	if _, err := s.ownedItem(ctx, actor, report.ItemID); err != nil {
		return nil, err
	}
	return report, nil
}

// ResolveReport closes an open report on one of actor's items. A report can
// be resolved once; later attempts by the owner return ErrConflict.
func (s *Service) ResolveReport(ctx context.Context, actor, reportID int64) error {
	if _, err := s.ownedReport(ctx, actor, reportID); err != nil {
		return err
	}

	// The update re-checks ownership and status so concurrent resolves
	// succeed at most once.
	ok, err := store.ResolveReport(ctx, s.DB, reportID, actor)
	if err != nil {
		return storageError("resolving report", err)
	}
	if !ok {
		return fmt.Errorf("report %d already resolved: %w", reportID, ErrConflict)
	}

	metrics.ReportsResolved.Inc()
	slog.Info("report resolved", "user", actor, "report", reportID)
	return nil
}

// ItemReports lists every report filed on one of actor's items, open or
// resolved, newest first.
func (s *Service) ItemReports(ctx context.Context, actor, itemID int64) ([]model.FinderReport, error) {
	if _, err := s.ownedItem(ctx, actor, itemID); err != nil {
		return nil, err
	}
	reports, err := store.ListItemReports(ctx, s.DB, itemID)
	if err != nil {
		return nil, storageError("listing item reports", err)
	}
	return reports, nil
}

// ReportThread returns the notes the owner has kept on a report.
func (s *Service) ReportThread(ctx context.Context, actor, reportID int64) ([]model.ReportMessage, error) {
	if _, err := s.ownedReport(ctx, actor, reportID); err != nil {
		return nil, err
	}
	messages, err := store.ListReportMessages(ctx, s.DB, reportID)
	if err != nil {
		return nil, storageError("listing report messages", err)
	}
	return messages, nil
}

// AddReportNote appends an owner note to a report, e.g. what was agreed with
// the finder.
func (s *Service) AddReportNote(ctx context.Context, actor, reportID int64, body string) (*model.ReportMessage, error) {
	body, err := model.ValidateLength("body", body, 1, 2000)
	if err != nil {
		return nil, err
	}
	if _, err := s.ownedReport(ctx, actor, reportID); err != nil {
		return nil, err
	}

	m, err := store.AddReportMessage(ctx, s.DB, reportID, model.MessageSenderOwner, body)
	if err != nil {
		return nil, storageError("adding report note", err)
	}
	slog.Info("report note added", "user", actor, "report", reportID)
	return m, nil
}
