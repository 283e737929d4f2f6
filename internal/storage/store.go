package storage

import (
	"errors"

	"github.com/vitaflowd/vitaflow/internal/model"
)

// ErrCorrupt marks a collection blob that exists but cannot be decoded.
// Callers fall back to a seed collection instead of failing the load.
var ErrCorrupt = errors.New("storage: corrupt collection blob")

// Store is the durable mirror of the in-memory checklist. The collection is
// written as a single serialized blob with full-overwrite semantics; the day
// marker records the local date of the last taken-state reset. The boolean
// result distinguishes "absent" from an actual failure.
type Store interface {
	LoadSupplements() ([]model.Supplement, bool, error)
	SaveSupplements(items []model.Supplement) error
	LoadDayMarker() (string, bool, error)
	SaveDayMarker(marker string) error
	Close() error
}
