package lifecycle

import (
	"errors"
	"fmt"
	"time"

	"github.com/vitaflowd/vitaflow/internal/model"
	"github.com/vitaflowd/vitaflow/internal/storage"
)

// dayMarkerLayout is the persisted shape of the "last reset" date. The marker
// and reminder matching both use the local clock so the midnight boundary
// never disagrees between the two.
const dayMarkerLayout = "2006-01-02"

// DefaultSeed is the collection installed on the first ever run.
func DefaultSeed() []model.Supplement {
	return []model.Supplement{
		{
			ID:           "seed-1",
			Name:         "Vitamin D3",
			Dosage:       "2000 IU",
			Frequency:    "Morning",
			Category:     model.CategoryVitamin,
			ReminderTime: "08:00",
		},
		{
			ID:           "seed-2",
			Name:         "Magnesium",
			Dosage:       "400mg",
			Frequency:    "Night",
			Category:     model.CategoryVitamin,
			Notes:        "Helps with sleep",
			ReminderTime: "22:00",
		},
	}
}

// LocalDay formats a moment as the local calendar date used for day markers.
func LocalDay(at time.Time) string {
	return at.Local().Format(dayMarkerLayout)
}

// Result carries the initialized collection plus what happened during load.
type Result struct {
	Items []model.Supplement
	// Reset is true when the day boundary was crossed and taken flags cleared.
	Reset bool
	// Seeded is true when no persisted collection existed.
	Seeded bool
	// LoadWarning is set when the persisted blob was corrupt and the seed was
	// installed instead. The load itself still succeeds.
	LoadWarning error
}

// Initialize loads the persisted collection, applies the once-per-day reset of
// taken flags, and persists the new day marker. Invoked once per process
// start; the caller installs Result.Items as the live repository contents.
func Initialize(store storage.Store, now time.Time) (Result, error) {
	var res Result

	items, present, err := store.LoadSupplements()
	switch {
	case err != nil && errors.Is(err, storage.ErrCorrupt):
		res.LoadWarning = err
		items = DefaultSeed()
		res.Seeded = true
	case err != nil:
		return Result{}, fmt.Errorf("load collection: %w", err)
	case !present:
		items = DefaultSeed()
		res.Seeded = true
	}

	marker, hasMarker, err := store.LoadDayMarker()
	if err != nil {
		return Result{}, fmt.Errorf("load day marker: %w", err)
	}

	today := LocalDay(now)
	if !hasMarker || marker != today {
		for i := range items {
			items[i].Taken = false
		}
		res.Reset = true
		if err := store.SaveDayMarker(today); err != nil {
			return Result{}, fmt.Errorf("save day marker: %w", err)
		}
	}

	if res.Seeded || res.Reset {
		if err := store.SaveSupplements(items); err != nil {
			return Result{}, fmt.Errorf("persist collection: %w", err)
		}
	}

	res.Items = items
	return res, nil
}
