package lifecycle

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/vitaflowd/vitaflow/internal/model"
	"github.com/vitaflowd/vitaflow/internal/repository"
	"github.com/vitaflowd/vitaflow/internal/storage"
)

type fakeStore struct {
	items      []model.Supplement
	hasItems   bool
	corrupt    bool
	marker     string
	hasMarker  bool
	saveErr    error
	savedItems [][]model.Supplement
}

func (f *fakeStore) LoadSupplements() ([]model.Supplement, bool, error) {
	if f.corrupt {
		return nil, true, fmt.Errorf("%w: bad blob", storage.ErrCorrupt)
	}
	if !f.hasItems {
		return nil, false, nil
	}
	out := make([]model.Supplement, len(f.items))
	copy(out, f.items)
	return out, true, nil
}

func (f *fakeStore) SaveSupplements(items []model.Supplement) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	saved := make([]model.Supplement, len(items))
	copy(saved, items)
	f.savedItems = append(f.savedItems, saved)
	f.items = saved
	f.hasItems = true
	return nil
}

func (f *fakeStore) LoadDayMarker() (string, bool, error) {
	return f.marker, f.hasMarker, nil
}

func (f *fakeStore) SaveDayMarker(marker string) error {
	f.marker = marker
	f.hasMarker = true
	return nil
}

func (f *fakeStore) Close() error { return nil }

func localNoon(t *testing.T, day string) time.Time {
	t.Helper()
	at, err := time.ParseInLocation("2006-01-02 15:04", day+" 12:00", time.Local)
	if err != nil {
		t.Fatalf("parse day: %v", err)
	}
	return at
}

func TestInitializeFirstRunInstallsSeed(t *testing.T) {
	store := &fakeStore{}
	res, err := Initialize(store, localNoon(t, "2026-08-28"))
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if !res.Seeded {
		t.Fatal("expected seeded result")
	}
	if len(res.Items) != 2 || res.Items[0].Name != "Vitamin D3" {
		t.Fatalf("unexpected seed: %#v", res.Items)
	}
	if store.marker != "2026-08-28" {
		t.Fatalf("expected marker written, got %q", store.marker)
	}
}

func TestInitializeDayBoundaryClearsOnlyTaken(t *testing.T) {
	store := &fakeStore{
		hasItems: true,
		items: []model.Supplement{
			{ID: "1", Name: "Zinc", Dosage: "25mg", Taken: true, Notes: "after lunch"},
			{ID: "2", Name: "Omega 3", Taken: true, ReminderTime: "09:00"},
		},
		marker:    "2026-08-27",
		hasMarker: true,
	}
	res, err := Initialize(store, localNoon(t, "2026-08-28"))
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if !res.Reset {
		t.Fatal("expected reset on day change")
	}
	for _, item := range res.Items {
		if item.Taken {
			t.Fatalf("expected all taken flags cleared: %#v", res.Items)
		}
	}
	if res.Items[0].Dosage != "25mg" || res.Items[0].Notes != "after lunch" || res.Items[1].ReminderTime != "09:00" {
		t.Fatalf("non-taken fields must be unchanged: %#v", res.Items)
	}
	if store.marker != "2026-08-28" {
		t.Fatalf("expected marker rewritten, got %q", store.marker)
	}
	if len(store.savedItems) != 1 {
		t.Fatalf("expected reset collection persisted once, got %d saves", len(store.savedItems))
	}
}

func TestInitializeSameDayKeepsTaken(t *testing.T) {
	store := &fakeStore{
		hasItems:  true,
		items:     []model.Supplement{{ID: "1", Name: "Zinc", Taken: true}},
		marker:    "2026-08-28",
		hasMarker: true,
	}
	res, err := Initialize(store, localNoon(t, "2026-08-28"))
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if res.Reset {
		t.Fatal("unexpected reset within the same day")
	}
	if !res.Items[0].Taken {
		t.Fatal("taken flag must survive a same-day restart")
	}
	if len(store.savedItems) != 0 {
		t.Fatalf("no writes expected on a same-day load, got %d", len(store.savedItems))
	}
}

func TestInitializeCorruptBlobFallsBackToSeed(t *testing.T) {
	store := &fakeStore{corrupt: true}
	res, err := Initialize(store, localNoon(t, "2026-08-28"))
	if err != nil {
		t.Fatalf("corrupt blob must not fail the load: %v", err)
	}
	if res.LoadWarning == nil || !errors.Is(res.LoadWarning, storage.ErrCorrupt) {
		t.Fatalf("expected corrupt-blob warning, got: %v", res.LoadWarning)
	}
	if !res.Seeded || len(res.Items) != 2 {
		t.Fatalf("expected seed fallback, got %#v", res.Items)
	}
}

func TestRolloverResetsLiveCollectionAndMarker(t *testing.T) {
	store := &fakeStore{}
	repo := repository.New(store)
	repo.ReplaceAll([]model.Supplement{{ID: "a", Name: "Zinc", Taken: true}})
	// An edit made while the process runs must survive the boundary.
	if _, err := repo.Add([]model.NewSupplementInput{{Name: "Creatine"}}); err != nil {
		t.Fatalf("add: %v", err)
	}

	items, err := Rollover(store, repo, localNoon(t, "2026-08-29"))
	if err != nil {
		t.Fatalf("rollover: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected both items to survive the rollover, got %#v", items)
	}
	for _, item := range items {
		if item.Taken {
			t.Fatalf("expected taken flags cleared: %#v", items)
		}
	}
	snap := repo.Snapshot()
	if len(snap) != 2 || snap[0].Taken {
		t.Fatalf("live collection not reset: %#v", snap)
	}
	if store.marker != "2026-08-29" {
		t.Fatalf("expected marker rewritten, got %q", store.marker)
	}
}

func TestInitializeAgainstSQLite(t *testing.T) {
	store, err := storage.OpenSQLite(t.TempDir() + "/roundtrip.db")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	day1 := localNoon(t, "2026-08-27")
	res, err := Initialize(store, day1)
	if err != nil {
		t.Fatalf("first initialize: %v", err)
	}
	res.Items[0].Taken = true
	if err := store.SaveSupplements(res.Items); err != nil {
		t.Fatalf("save: %v", err)
	}

	// Restart on the next day: taken flags reset.
	res2, err := Initialize(store, localNoon(t, "2026-08-28"))
	if err != nil {
		t.Fatalf("second initialize: %v", err)
	}
	if !res2.Reset || res2.Items[0].Taken {
		t.Fatalf("expected reset collection, got %#v", res2.Items)
	}
}
