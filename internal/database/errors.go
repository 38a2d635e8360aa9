package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"

	"github.com/mrlokans/mediatracker/internal/entities"
)

var (
	// ErrNotFound is returned when a single-entity lookup matches nothing.
	ErrNotFound = errors.New("not found")

	// ErrStorageUnavailable wraps failures to open, read or write the store.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrConstraintViolation wraps unique/primary key violations.
	ErrConstraintViolation = errors.New("constraint violation")

	ErrInvalidRating = entities.ErrInvalidRating
)

// Translate maps GORM and driver errors onto the package error taxonomy.
// Errors that already belong to it, and context errors, pass through.
func Translate(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrStorageUnavailable),
		errors.Is(err, ErrConstraintViolation),
		errors.Is(err, ErrInvalidRating),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		return fmt.Errorf("%w: %w", ErrConstraintViolation, err)
	}

	return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
}
