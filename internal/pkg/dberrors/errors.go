package dberrors

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/puddle/v2"
)

const uniqueViolation = "23505"

// constraintFields maps unique constraints to the document field they guard.
var constraintFields = map[string]string{
	"registrations_registration_id_key":         "registrationId",
	"registrations_event_email_key":             "email",
	"registrations_event_membership_number_key": "membershipNumber",
	"events_slug_key":                           "slug",
}

// DuplicateField returns the offending field of a unique violation.
// ok is false when err is not a unique violation at all.
func DuplicateField(err error) (field string, ok bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return "", false
	}
	if f, known := constraintFields[pgErr.ConstraintName]; known {
		return f, true
	}
	return "", true
}

// DuplicateCode turns a duplicated field into its client error code.
func DuplicateCode(field string) string {
	switch field {
	case "":
		return "DUPLICATE_KEY"
	case "email":
		return "DUPLICATE_EMAIL"
	case "membershipNumber":
		return "DUPLICATE_IEEE_MEMBERSHIP"
	default:
		return "DUPLICATE_" + strings.ToUpper(field)
	}
}

// IsConnectionError reports failures reaching the database, as opposed to
// errors produced by a statement. A closed pool counts as unreachable.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, puddle.ErrClosedPool) {
		return true
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.HasPrefix(pgErr.Code, "08") || strings.HasPrefix(pgErr.Code, "57P")
	}
	return pgconn.SafeToRetry(err)
}
