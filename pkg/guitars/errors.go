package guitars

import (
	"github.com/foomo/guitarserver/pkg/store"
	"github.com/pkg/errors"
)

var (
	// ErrValidation is returned by Create for names that are empty or fail validation
	ErrValidation = errors.New("invalid guitar")
	// ErrNotFound is returned by Delete when no item matches the address
	ErrNotFound = errors.New("guitar not found")
	// ErrStoreUnavailable is returned when the collection could not be loaded or persisted
	ErrStoreUnavailable = store.ErrStoreUnavailable
)
