package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/erazemk/najdeno/internal/auth"
	"github.com/erazemk/najdeno/internal/blob"
	"github.com/erazemk/najdeno/internal/metrics"
	"github.com/erazemk/najdeno/internal/model"
	"github.com/erazemk/najdeno/internal/store"
)

// ItemInput is the owner-supplied part of a new item. Image is optional.
type ItemInput struct {
	Name        string
	Description string
	Category    string
	Image       io.Reader
}

// RegisterItem creates an item owned by actor with a fresh recovery token and
// a stored QR code.
//
// If the photo cannot be processed or stored the item is still created
// without one; the item is returned together with an error wrapping
// ErrStorage. Any other error returns a nil item.
func (s *Service) RegisterItem(ctx context.Context, actor int64, in ItemInput) (*model.Item, error) {
	name, err := model.ValidateLength("name", in.Name, 1, 150)
	if err != nil {
		return nil, err
	}
	description, err := model.ValidateLength("description", in.Description, 0, 2000)
	if err != nil {
		return nil, err
	}
	category, err := model.ValidateCategory(in.Category)
	if err != nil {
		return nil, err
	}

	token, err := auth.NewRecoveryToken()
	if err != nil {
		return nil, storageError("registering item", err)
	}

	qrKey, err := s.storeQR(ctx, token)
	if err != nil {
		return nil, err
	}

	item, err := store.CreateItem(ctx, s.DB, actor, name, description, category, token, qrKey)
	if err != nil {
		s.removeBlobs(context.WithoutCancel(ctx), qrKey)
		return nil, storageError("registering item", err)
	}

	metrics.ItemsRegistered.Inc()
	slog.Info("item registered", "user", actor, "item", item.ID, "category", item.Category)

	if in.Image == nil {
		return item, nil
	}

	imageKey, err := s.storeImage(ctx, in.Image)
	if err != nil {
		slog.Warn("item photo skipped", "item", item.ID, "error", err)
		return item, err
	}
	if err := store.SetItemImage(ctx, s.DB, item.ID, imageKey); err != nil {
		s.removeBlobs(context.WithoutCancel(ctx), imageKey)
		return item, storageError("attaching photo", err)
	}
	item.ImageRef = imageKey
	return item, nil
}

// ownedItem loads an item and checks that actor owns it.
func (s *Service) ownedItem(ctx context.Context, actor, itemID int64) (*model.Item, error) {
	item, err := store.GetItem(ctx, s.DB, itemID)
	if err != nil {
		return nil, storageError("loading item", err)
	}
	if item == nil {
		return nil, fmt.Errorf("item %d: %w", itemID, ErrNotFound)
	}
	if item.OwnerID != actor {
		return nil, fmt.Errorf("item %d: %w", itemID, ErrForbidden)
	}
	return item, nil
}

// SetItemStatus changes an item's status. Any status may follow any other;
// setting the current status again is a no-op success.
func (s *Service) SetItemStatus(ctx context.Context, actor, itemID int64, status string) error {
	if _, err := s.ownedItem(ctx, actor, itemID); err != nil {
		return err
	}
	if err := model.ValidateItemStatus(status); err != nil {
		return err
	}

	ok, err := store.SetItemStatus(ctx, s.DB, itemID, actor, status)
	if err != nil {
		return storageError("setting item status", err)
	}
	if !ok {
		// Deleted between the ownership check and the update.
		return fmt.Errorf("item %d: %w", itemID, ErrNotFound)
	}

	metrics.ItemStatusChanges.WithLabelValues(status).Inc()
	slog.Info("item status changed", "user", actor, "item", itemID, "status", status)
	return nil
}

// DeleteItem removes an item, its reports and, best effort, its blobs.
func (s *Service) DeleteItem(ctx context.Context, actor, itemID int64) error {
	item, err := s.ownedItem(ctx, actor, itemID)
	if err != nil {
		return err
	}

	ok, err := store.DeleteItem(ctx, s.DB, itemID, actor)
	if err != nil {
		return storageError("deleting item", err)
	}
	if !ok {
		return fmt.Errorf("item %d: %w", itemID, ErrNotFound)
	}

	s.removeBlobs(ctx, item.QRRef, item.ImageRef)
	slog.Info("item deleted", "user", actor, "item", itemID)
	return nil
}

// ResolveToken returns the item a recovery token belongs to. Only exact
// matches count.
func (s *Service) ResolveToken(ctx context.Context, token string) (*model.Item, error) {
	if !auth.WellFormedRecoveryToken(token) {
		return nil, fmt.Errorf("recovery token: %w", ErrNotFound)
	}
	item, err := store.GetItemByToken(ctx, s.DB, token)
	if err != nil {
		return nil, storageError("resolving token", err)
	}
	if item == nil {
		return nil, fmt.Errorf("recovery token: %w", ErrNotFound)
	}
	return item, nil
}

// ItemQR returns the QR PNG of an item the actor owns, identified by its
// recovery token. Codes missing from the blob store are regenerated.
func (s *Service) ItemQR(ctx context.Context, actor int64, token string) ([]byte, error) {
	item, err := s.ResolveToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if item.OwnerID != actor {
		return nil, fmt.Errorf("item %d: %w", item.ID, ErrForbidden)
	}

	obj, err := s.Blobs.Get(ctx, blob.QRKey(item.RecoveryToken))
	if err == nil {
		return obj.Data, nil
	}
	if !errors.Is(err, blob.ErrNotFound) {
		return nil, storageError("loading QR code", err)
	}

	slog.Warn("QR code missing, regenerating", "item", item.ID)
	key, err := s.storeQR(ctx, item.RecoveryToken)
	if err != nil {
		return nil, err
	}
	obj, err = s.Blobs.Get(ctx, key)
	if err != nil {
		return nil, storageError("loading QR code", err)
	}
	return obj.Data, nil
}

// Media returns a stored photo by key. If the backend can serve the object
// directly, url is set and obj is nil. QR codes are only available to their
// owner through ItemQR.
func (s *Service) Media(ctx context.Context, key string) (obj *blob.Object, url string, err error) {
	if !blob.ValidKey(key) || !strings.HasPrefix(key, "img/") {
		return nil, "", fmt.Errorf("media %q: %w", key, ErrNotFound)
	}

	url, err = s.Blobs.URL(ctx, key)
	if err != nil {
		return nil, "", storageError("presigning media", err)
	}
	if url != "" {
		return nil, url, nil
	}

	obj, err = s.Blobs.Get(ctx, key)
	if errors.Is(err, blob.ErrNotFound) {
		return nil, "", fmt.Errorf("media %q: %w", key, ErrNotFound)
	}
	if err != nil {
		return nil, "", storageError("loading media", err)
	}
	return obj, "", nil
}
