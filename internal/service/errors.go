package service

import (
	"errors"
	"fmt"

	"github.com/erazemk/najdeno/internal/model"
)

// Errors returned by Service operations. Callers test them with errors.Is.
var (
	ErrValidation         = model.ErrValidation
	ErrForbidden          = errors.New("not allowed")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrStorage            = errors.New("storage failure")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// ValidationError names the rejected input field.
type ValidationError = model.ValidationError

func storageError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}
