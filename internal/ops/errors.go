package ops

import (
	"fmt"
	"strings"
)

// ValidationError indicates a product was rejected because required fields
// were missing or zero.
type ValidationError struct {
	Fields []string // JSON names of the offending fields
}

func (e *ValidationError) Error() string {
	return "all fields are required, missing: " + strings.Join(e.Fields, ", ")
}

// DuplicateCodeError indicates a product code is already taken.
type DuplicateCodeError struct {
	Code string
}

func (e *DuplicateCodeError) Error() string {
	return fmt.Sprintf("product code %q already exists", e.Code)
}

// NotFoundError indicates no product has the requested id.
type NotFoundError struct {
	ID int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("product %d not found", e.ID)
}
