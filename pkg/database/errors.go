package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Error kinds surfaced to callers. Every repository operation returns one of
// these wrapped with operation context, so callers classify failures with
// errors.Is without depending on driver types.
var (
	ErrNotFound            = errors.New("record not found")
	ErrUniqueViolation     = errors.New("unique constraint violation")
	ErrForeignKeyViolation = errors.New("foreign key violation")
	ErrValidation          = errors.New("validation failed")
	ErrTxTimeout           = errors.New("transaction timed out")
	ErrConnection          = errors.New("storage unreachable")
	ErrUnknown             = errors.New("unknown storage error")
)

// Postgres error classes. Codes are matched by prefix for connection-class
// failures and exactly for constraint violations.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
	pgCheckViolation      = "23514"
)

// Classify maps a raw storage error onto one of the package error kinds. The
// original error stays in the chain; the failing statement shape may be
// attached by the caller, parameter values never are.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	if hasKind(err) {
		return err
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTxTimeout, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == pgUniqueViolation:
			return fmt.Errorf("%w (constraint %s): %w", ErrUniqueViolation, pgErr.ConstraintName, err)
		case pgErr.Code == pgForeignKeyViolation:
			return fmt.Errorf("%w (constraint %s): %w", ErrForeignKeyViolation, pgErr.ConstraintName, err)
		case pgErr.Code == pgNotNullViolation, pgErr.Code == pgCheckViolation:
			return fmt.Errorf("%w (column %s): %w", ErrValidation, pgErr.ColumnName, err)
		case strings.HasPrefix(pgErr.Code, "08"), strings.HasPrefix(pgErr.Code, "57P"):
			return fmt.Errorf("%w: %w", ErrConnection, err)
		}
		return fmt.Errorf("%w (sqlstate %s): %w", ErrUnknown, pgErr.Code, err)
	}

	return fmt.Errorf("%w: %w", ErrUnknown, err)
}

func hasKind(err error) bool {
	for _, kind := range []error{ErrNotFound, ErrUniqueViolation, ErrForeignKeyViolation, ErrValidation, ErrTxTimeout, ErrConnection, ErrUnknown} {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}

// IsStorage reports whether err originated in gorm or the Postgres driver
// rather than in application code. Transaction bodies may return business
// errors; those pass through unclassified.
func IsStorage(err error) bool {
	var pgErr *pgconn.PgError
	return errors.Is(err, gorm.ErrRecordNotFound) || errors.As(err, &pgErr)
}

// Validationf builds an ErrValidation with a formatted reason. Used by the
// query option validators before any statement is issued.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
