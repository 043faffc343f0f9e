package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/najdeno/internal/model"
)

const userColumns = `id, full_name, email, password_hash, phone, created_at`

// CreateUser creates a new user. Returns ErrDuplicate if the email is taken.
func CreateUser(ctx context.Context, db *sql.DB, fullName, email, passwordHash, phone string) (*model.User, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO users (full_name, email, password_hash, phone) VALUES (?, ?, ?, ?)`,
		fullName, email, passwordHash, nullString(phone),
	)
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("creating user: %w", ErrDuplicate)
	}
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting user id: %w", err)
	}

	return GetUser(ctx, db, id)
}

// GetUser returns a user by ID.
func GetUser(ctx context.Context, db *sql.DB, id int64) (*model.User, error) {
	u, err := scanUser(db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return u, nil
}

// GetUserByEmail returns a user by email, compared case-insensitively.
func GetUserByEmail(ctx context.Context, db *sql.DB, email string) (*model.User, error) {
	u, err := scanUser(db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting user by email: %w", err)
	}
	return u, nil
}

// UpdateUserProfile updates a user's display name and phone number.
func UpdateUserProfile(ctx context.Context, db *sql.DB, id int64, fullName, phone string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE users SET full_name = ?, phone = ? WHERE id = ?`,
		fullName, nullString(phone), id,
	)
	if err != nil {
		return fmt.Errorf("updating user profile: %w", err)
	}
	return nil
}

// UpdateUserPassword updates a user's password hash.
func UpdateUserPassword(ctx context.Context, db *sql.DB, id int64, passwordHash string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE users SET password_hash = ? WHERE id = ?`,
		passwordHash, id,
	)
	if err != nil {
		return fmt.Errorf("updating user password: %w", err)
	}
	return nil
}

func scanUser(row *sql.Row) (*model.User, error) {
	u := &model.User{}
	var phone sql.NullString
	if err := row.Scan(&u.ID, &u.FullName, &u.Email, &u.PasswordHash, &phone, &u.CreatedAt); err != nil {
		return nil, err
	}
	u.Phone = phone.String
	return u, nil
}
