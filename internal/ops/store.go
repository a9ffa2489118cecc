package ops

import (
	"github.com/jacksmith/pm/internal/model"
)

// Store defines the persistence interface required by the product operations.
// The concrete implementation is storage.Storage, but this interface allows
// alternative backends (in-memory, failing, etc.) for testing.
type Store interface {
	Load() ([]model.Product, error)
	Save(products []model.Product) error
}
