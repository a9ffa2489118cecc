package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidID is returned when an ID cannot be parsed.
var ErrInvalidID = errors.New("invalid ID format")

// ParseID parses a product ID given on the command line.
// Accepts "7", " 7 " and "#7"; the number must be positive.
func ParseID(s string) (int, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(s), "#")
	id, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidID, s)
	}
	if id <= 0 {
		return 0, fmt.Errorf("%w: %q must be positive", ErrInvalidID, s)
	}
	return id, nil
}

// FormatID formats a product ID for display.
func FormatID(id int) string {
	return "#" + strconv.Itoa(id)
}
