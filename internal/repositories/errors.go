package repositories

import (
	"errors"

	"gorm.io/gorm"
)

// ErrReadOnlyCatalog is returned by catalog implementations that do
// not support writes (the built-in static curriculum).
var ErrReadOnlyCatalog = errors.New("catalog is read-only")

// IsNotFoundError reports whether err represents a missing record.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
