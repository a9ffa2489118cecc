// Package cli provides CLI infrastructure for pm.
package cli

import (
	"errors"

	"github.com/jacksmith/pm/internal/model"
	"github.com/jacksmith/pm/internal/ops"
	"github.com/jacksmith/pm/internal/storage"
)

// FormatError returns a user-friendly error message.
// It prefixes the error with "error: " for consistent CLI output and adds a
// hint line for errors the user can act on.
func FormatError(err error) string {
	if err == nil {
		return ""
	}
	msg := "error: " + err.Error()
	if hint := Hint(err); hint != "" {
		msg += "\n" + hint
	}
	return msg
}

// Hint suggests how to recover from err, or returns "".
func Hint(err error) string {
	var (
		verr    *ops.ValidationError
		dupErr  *ops.DuplicateCodeError
		nfErr   *ops.NotFoundError
		readErr *storage.ReadError
	)
	switch {
	case errors.As(err, &verr):
		return "Set every field with --title, --description, --price, --thumbnail, --code and --stock."
	case errors.As(err, &dupErr):
		return "Choose another --code, or update the existing product."
	case errors.As(err, &nfErr):
		return "Run `pm list` to see existing IDs."
	case errors.As(err, &readErr):
		return "Fix or remove " + readErr.Path + "; a missing file is treated as empty."
	case errors.Is(err, ErrNoEditor):
		return "Run `export EDITOR=vim`, or use --price, --stock and the other field flags."
	case errors.Is(err, model.ErrInvalidID):
		return "IDs are positive numbers, e.g. `pm show 3`."
	}
	return ""
}
