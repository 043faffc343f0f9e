package service

import (
	"context"

	"github.com/erazemk/najdeno/internal/model"
	"github.com/erazemk/najdeno/internal/store"
)

// Filter narrows board listings: Query is a case-insensitive substring of
// name or description, Category and Status match exactly. Empty fields are
// ignored.
type Filter = store.Filter

// DashboardView is an owner's items and the open reports on them.
type DashboardView struct {
	Items   []model.Item
	Reports []model.FinderReport
}

// Dashboard lists actor's items and open reports.
func (s *Service) Dashboard(ctx context.Context, actor int64, f Filter) (*DashboardView, error) {
	if f.Status != "" {
		if err := model.ValidateItemStatus(f.Status); err != nil {
			return nil, err
		}
	}

	items, err := store.ListOwnerItems(ctx, s.DB, actor, f)
	if err != nil {
		return nil, storageError("listing items", err)
	}
	reports, err := store.ListOwnerReports(ctx, s.DB, actor, model.ReportStatusOpen)
	if err != nil {
		return nil, storageError("listing reports", err)
	}
	return &DashboardView{Items: items, Reports: reports}, nil
}

// LostBoard lists items currently marked lost, without owner details.
func (s *Service) LostBoard(ctx context.Context, f Filter) ([]model.PublicItem, error) {
	items, err := store.ListLostItems(ctx, s.DB, f)
	if err != nil {
		return nil, storageError("listing lost items", err)
	}

	public := make([]model.PublicItem, len(items))
	for i := range items {
		public[i] = items[i].Public()
	}
	return public, nil
}

// FoundBoard lists found posts, unclaimed first, then newest first.
func (s *Service) FoundBoard(ctx context.Context, f Filter) ([]model.FoundPost, error) {
	switch f.Status {
	case "", model.FoundStatusUnclaimed, model.FoundStatusClaimed:
	default:
		return nil, model.Invalid("status", "unknown status %q", f.Status)
	}

	posts, err := store.ListFoundPosts(ctx, s.DB, f)
	if err != nil {
		return nil, storageError("listing found posts", err)
	}
	return posts, nil
}
