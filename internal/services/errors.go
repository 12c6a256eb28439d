package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// ConflictError reports a service double-booking attempt. It always
// names the offending service ids so the caller can show exactly which
// providers are taken.
type ConflictError struct {
	Date       time.Time
	ServiceIDs []uint
}

func (e *ConflictError) Error() string {
	ids := make([]string, 0, len(e.ServiceIDs))
	for _, id := range e.ServiceIDs {
		ids = append(ids, fmt.Sprintf("%d", id))
	}
	return fmt.Sprintf("services already booked on %s: %s",
		e.Date.Format("2006-01-02"), strings.Join(ids, ", "))
}

// IsConflict reports whether err is (or wraps) a ConflictError
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

// ValidationError reports input rejected before any store mutation
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is (or wraps) a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// errNotFound aborts a transaction when the addressed row is missing.
// Service methods translate it into the nil / false "not found"
// outcome instead of surfacing an error.
var errNotFound = errors.New("record not found")

// isDuplicateKey reports whether err is a unique-constraint violation.
// The database connection translates driver errors into
// gorm.ErrDuplicatedKey; the string checks cover drivers that don't.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
