package services

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

var (
	ErrRoomNotFound    = errors.New("room_not_found")
	ErrBookingNotFound = errors.New("booking_not_found")
	ErrNoPhotoStore    = errors.New("photo store not configured")
)

// ValidationError: a missing/invalid field or an unmet precondition.
// Nothing has been mutated when one is returned.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// MaxTextLen caps free-text input (names, items, reasons, notes). Log
// entries are stored as JSON inside a single spreadsheet cell.
const MaxTextLen = 1000

// checkText validates field/value pairs against MaxTextLen.
func checkText(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if n := utf8.RuneCountInString(pairs[i+1]); n > MaxTextLen {
			return invalid(pairs[i], "too long (%d characters, max %d)", n, MaxTextLen)
		}
	}
	return nil
}

func IsValidationError(err error) *ValidationError {
	if err == nil {
		return nil
	}
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr
	}
	return nil
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrRoomNotFound) || errors.Is(err, ErrBookingNotFound)
}
