package db

import (
	"strings"

	"github.com/teranos/worktodo/errors"
)

// ErrDatabaseClosed marks errors from a handle used after Close.
var ErrDatabaseClosed = errors.New("database is closed")

// IsDatabaseClosed reports whether err came from a closed handle, either
// marked by Wrapf or raw from database/sql (which has no sentinel for it).
func IsDatabaseClosed(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrDatabaseClosed) {
		return true
	}
	return strings.Contains(err.Error(), "database is closed")
}

// Wrapf annotates a query error and marks it ErrDatabaseClosed when the
// handle had been closed. Returns nil for a nil err.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	wrapped := errors.Wrapf(err, format, args...)
	if IsDatabaseClosed(err) {
		return errors.Mark(wrapped, ErrDatabaseClosed)
	}
	return wrapped
}
