package repository

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/vitaflowd/vitaflow/internal/model"
	"github.com/vitaflowd/vitaflow/internal/storage"
)

var ErrNotFound = errors.New("repository: supplement not found")

// Repository owns the canonical in-memory collection. Every mutation writes
// the full collection through to the store before it returns; a failed write
// leaves the in-memory state authoritative and reports the error so the UI
// can surface it. The mutex serializes mutations against the scheduler's
// snapshot reads.
type Repository struct {
	mu    sync.Mutex
	items []model.Supplement
	store storage.Store
	newID func() string
}

func New(store storage.Store) *Repository {
	return &Repository{
		store: store,
		newID: func() string { return uuid.NewString() },
	}
}

// ReplaceAll installs a freshly initialized collection. Used by the daily
// lifecycle manager at startup and on midnight rollover; no write-through,
// the lifecycle manager already persisted what it changed.
func (r *Repository) ReplaceAll(items []model.Supplement) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = make([]model.Supplement, len(items))
	copy(r.items, items)
}

// ToggleTaken flips the taken flag of one item and persists the collection.
func (r *Repository) ToggleTaken(id string) (model.Supplement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID == id {
			r.items[i].Taken = !r.items[i].Taken
			return r.items[i], r.persistLocked()
		}
	}
	return model.Supplement{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Add validates and appends new items, assigning fresh IDs with taken=false.
// Nothing is applied when any input is invalid.
func (r *Repository) Add(inputs []model.NewSupplementInput) ([]model.Supplement, error) {
	for _, in := range inputs {
		if err := in.Validate(); err != nil {
			return nil, err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	added := make([]model.Supplement, 0, len(inputs))
	for _, in := range inputs {
		item := model.Supplement{
			ID:           r.newID(),
			Name:         in.Name,
			Dosage:       in.Dosage,
			Frequency:    in.Frequency,
			Taken:        false,
			Notes:        in.Notes,
			Category:     model.NormalizeCategory(in.Category),
			ReminderTime: in.ReminderTime,
		}
		r.items = append(r.items, item)
		added = append(added, item)
	}
	return added, r.persistLocked()
}

// SetReminder updates one item's reminder time ("" clears it) and persists
// the collection.
func (r *Repository) SetReminder(id, hhmm string) error {
	if hhmm != "" {
		if err := model.ValidateReminderTime(hhmm); err != nil {
			return err
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID == id {
			r.items[i].ReminderTime = hhmm
			return r.persistLocked()
		}
	}
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Remove deletes the item with the given id and persists the collection.
func (r *Repository) Remove(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return r.persistLocked()
		}
	}
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}

// ResetTaken clears every taken flag for the new day and persists the
// collection. Items, removals, and edits made since startup are kept because
// the reset runs against the live collection, not a stale store read.
func (r *Repository) ResetTaken() ([]model.Supplement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		r.items[i].Taken = false
	}
	out := make([]model.Supplement, len(r.items))
	copy(out, r.items)
	return out, r.persistLocked()
}

// Snapshot returns a consistent copy of the collection in insertion order.
func (r *Repository) Snapshot() []model.Supplement {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Supplement, len(r.items))
	copy(out, r.items)
	return out
}

// Sorted returns the display order: untaken first, stable within groups.
func (r *Repository) Sorted() []model.Supplement {
	return model.SortForDisplay(r.Snapshot())
}

// Progress computes the day's completion summary.
func (r *Repository) Progress() model.DayProgress {
	return model.ComputeProgress(r.Snapshot())
}

func (r *Repository) persistLocked() error {
	if err := r.store.SaveSupplements(r.items); err != nil {
		return fmt.Errorf("write-through: %w", err)
	}
	return nil
}
