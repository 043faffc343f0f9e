package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/erazemk/najdeno/internal/metrics"
	"github.com/erazemk/najdeno/internal/model"
	"github.com/erazemk/najdeno/internal/store"
)

// FoundInput describes an unregistered item someone picked up. Image is
// optional.
type FoundInput struct {
	FinderName    string
	FinderEmail   string
	ItemName      string
	Description   string
	Category      string
	LocationFound string
	Image         io.Reader
}

func (in FoundInput) validate() (model.FoundPost, error) {
	var p model.FoundPost
	var err error
	if p.FinderName, err = model.ValidateLength("finder_name", in.FinderName, 2, 100); err != nil {
		return p, err
	}
	if p.FinderEmail, err = model.ValidateEmail("finder_email", in.FinderEmail); err != nil {
		return p, err
	}
	if p.ItemName, err = model.ValidateLength("item_name", in.ItemName, 1, 150); err != nil {
		return p, err
	}
	if p.Description, err = model.ValidateLength("description", in.Description, 0, 2000); err != nil {
		return p, err
	}
	if p.Category, err = model.ValidateCategory(in.Category); err != nil {
		return p, err
	}
	if p.LocationFound, err = model.ValidateLength("location_found", in.LocationFound, 0, 200); err != nil {
		return p, err
	}
	return p, nil
}

// PostFoundItem publishes an anonymous found post. Photo failures follow the
// same rule as RegisterItem: the post is created and returned alongside an
// error wrapping ErrStorage.
func (s *Service) PostFoundItem(ctx context.Context, in FoundInput) (*model.FoundPost, error) {
	p, err := in.validate()
	if err != nil {
		return nil, err
	}

	var photoErr error
	if in.Image != nil {
		if p.ImageRef, photoErr = s.storeImage(ctx, in.Image); photoErr != nil {
			slog.Warn("found post photo skipped", "error", photoErr)
		}
	}

	post, err := store.CreateFoundPost(ctx, s.DB, p)
	if err != nil {
		s.removeBlobs(context.WithoutCancel(ctx), p.ImageRef)
		return nil, storageError("posting found item", err)
	}

	metrics.FoundPosts.Inc()
	slog.Info("found item posted", "post", post.ID, "category", post.Category)
	return post, photoErr
}

// ClaimFoundPost marks a found post claimed by actor. Any signed-in user may
// claim; only the first claim succeeds.
func (s *Service) ClaimFoundPost(ctx context.Context, actor, postID int64) (*model.FoundPost, error) {
	ok, err := store.ClaimFoundPost(ctx, s.DB, postID, actor)
	if err != nil {
		return nil, storageError("claiming found post", err)
	}

	post, err := store.GetFoundPost(ctx, s.DB, postID)
	if err != nil {
		return nil, storageError("loading found post", err)
	}
	if post == nil {
		return nil, fmt.Errorf("found post %d: %w", postID, ErrNotFound)
	}
	if !ok {
		metrics.FoundClaims.WithLabelValues("conflict").Inc()
		return nil, fmt.Errorf("found post %d already claimed: %w", postID, ErrConflict)
	}

	metrics.FoundClaims.WithLabelValues("claimed").Inc()
	slog.Info("found post claimed", "user", actor, "post", postID)
	return post, nil
}
