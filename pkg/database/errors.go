package database

import (
	"database/sql"
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/algoaura/dashboard-backend/pkg/errors"
	"github.com/lib/pq"
)

// MapError translates repository errors: no rows becomes NotFound(resource),
// PostgreSQL constraint errors become AppErrors. Anything else is wrapped as
// a 500 so driver text stays out of responses.
func MapError(err error, resource string) error {
	if err == nil {
		return nil
	}
	if stderrors.Is(err, sql.ErrNoRows) {
		return errors.NotFound(resource)
	}
	if appErr := MapPQError(err); appErr != nil {
		return appErr
	}
	return errors.Wrap(err, "DB_ERROR", "database error", http.StatusInternalServerError)
}

// MapPQError converts a PostgreSQL error to an AppError with meaningful messages.
// Returns nil if the error is not a pq.Error.
func MapPQError(err error) *errors.AppError {
	var pqErr *pq.Error
	if !stderrors.As(err, &pqErr) {
		return nil
	}

	switch pqErr.Code {
	// Check constraint violation (23514)
	case "23514":
		return mapCheckConstraint(pqErr)

	// Unique constraint violation (23505)
	case "23505":
		return mapUniqueConstraint(pqErr)

	// Foreign key violation (23503)
	case "23503":
		return errors.BadRequest("referenced record does not exist")

	// Not null violation (23502)
	case "23502":
		col := pqErr.Column
		if col == "" {
			col = "required field"
		}
		return errors.Validation(map[string]string{
			col: "must not be empty",
		})

	// Invalid text representation (22P02), invalid datetime format (22007)
	case "22P02", "22007", "22008":
		return errors.BadRequest("invalid input value")

	default:
		return nil
	}
}

// mapUniqueConstraint maps unique index names to conflicts the client can act on.
func mapUniqueConstraint(pqErr *pq.Error) *errors.AppError {
	constraint := pqErr.Constraint

	switch {
	case constraint == "appointments_admin_start_idx":
		return errors.Conflict("This time slot is already booked")
	case strings.HasPrefix(constraint, "admins_phone"):
		return errors.ConflictFields("An account with this phone or email already exists",
			map[string]bool{"phone": true, "email": false})
	case strings.HasPrefix(constraint, "admins_email"):
		return errors.ConflictFields("An account with this phone or email already exists",
			map[string]bool{"phone": false, "email": true})
	case strings.HasPrefix(constraint, "contacts_phone"):
		return errors.ConflictFields("A contact with this phone already exists",
			map[string]bool{"phone": true})
	default:
		return errors.Conflict("a record with these values already exists")
	}
}

// mapCheckConstraint maps specific CHECK constraint names to user-friendly messages.
func mapCheckConstraint(pqErr *pq.Error) *errors.AppError {
	constraint := pqErr.Constraint

	switch {
	case strings.HasSuffix(constraint, "_time_order_check"):
		return errors.Validation(map[string]string{
			"end_time": "must be after start_time",
		})

	case strings.Contains(constraint, "payment") && strings.HasSuffix(constraint, "_nonneg_check"):
		return errors.Validation(map[string]string{
			"payment": "amounts must not be negative",
		})

	case strings.HasSuffix(constraint, "_check"):
		// PostgreSQL names column checks <table>_<column>_check
		field := strings.TrimSuffix(constraint, "_check")
		if pqErr.Table != "" {
			field = strings.TrimPrefix(field, pqErr.Table+"_")
		}
		return errors.Validation(map[string]string{
			field: "invalid value",
		})

	default:
		return errors.BadRequest("data validation failed: " + constraint)
	}
}
