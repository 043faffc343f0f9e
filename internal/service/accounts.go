package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/erazemk/najdeno/internal/auth"
	"github.com/erazemk/najdeno/internal/model"
	"github.com/erazemk/najdeno/internal/store"
)

// SignupInput is a new account.
type SignupInput struct {
	FullName string
	Email    string
	Password string
	Phone    string
}

// Signup creates an account. A taken email returns ErrConflict.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*model.User, error) {
	fullName, err := model.ValidateLength("full_name", in.FullName, 2, 100)
	if err != nil {
		return nil, err
	}
	email, err := model.ValidateEmail("email", in.Email)
	if err != nil {
		return nil, err
	}
	if err := model.ValidatePassword(in.Password); err != nil {
		return nil, err
	}
	phone, err := model.ValidateLength("phone", in.Phone, 0, 32)
	if err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, storageError("signing up", err)
	}

	u, err := store.CreateUser(ctx, s.DB, fullName, email, hash, phone)
	if errors.Is(err, store.ErrDuplicate) {
		return nil, fmt.Errorf("email %s: %w", email, ErrConflict)
	}
	if err != nil {
		return nil, storageError("signing up", err)
	}

	slog.Info("user signed up", "user", u.ID)
	return u, nil
}

// Login checks credentials. Unknown emails and wrong passwords both return
// ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (*model.User, error) {
	u, err := store.GetUserByEmail(ctx, s.DB, strings.TrimSpace(email))
	if err != nil {
		return nil, storageError("logging in", err)
	}
	if u == nil {
		return nil, ErrInvalidCredentials
	}

	ok, err := auth.CheckPassword(u.PasswordHash, password)
	if err != nil {
		return nil, storageError("logging in", err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// User returns an account by ID.
func (s *Service) User(ctx context.Context, id int64) (*model.User, error) {
	u, err := store.GetUser(ctx, s.DB, id)
	if err != nil {
		return nil, storageError("loading user", err)
	}
	if u == nil {
		return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	return u, nil
}

// UpdateProfile changes actor's display name and phone number.
func (s *Service) UpdateProfile(ctx context.Context, actor int64, fullName, phone string) (*model.User, error) {
	fullName, err := model.ValidateLength("full_name", fullName, 2, 100)
	if err != nil {
		return nil, err
	}
	phone, err = model.ValidateLength("phone", phone, 0, 32)
	if err != nil {
		return nil, err
	}

	if _, err := s.User(ctx, actor); err != nil {
		return nil, err
	}
	if err := store.UpdateUserProfile(ctx, s.DB, actor, fullName, phone); err != nil {
		return nil, storageError("updating profile", err)
	}

	slog.Info("profile updated", "user", actor)
	return s.User(ctx, actor)
}

// ChangePassword replaces actor's password after checking the current one.
func (s *Service) ChangePassword(ctx context.Context, actor int64, current, next string) error {
	u, err := s.User(ctx, actor)
	if err != nil {
		return err
	}

	ok, err := auth.CheckPassword(u.PasswordHash, current)
	if err != nil {
		return storageError("changing password", err)
	}
	if !ok {
		return ErrInvalidCredentials
	}
	if err := model.ValidatePassword(next); err != nil {
		return err
	}

	hash, err := auth.HashPassword(next)
	if err != nil {
		return storageError("changing password", err)
	}
	if err := store.UpdateUserPassword(ctx, s.DB, actor, hash); err != nil {
		return storageError("changing password", err)
	}

	slog.Info("password changed", "user", actor)
	return nil
}
