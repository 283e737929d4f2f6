package scheduler

import (
	"testing"
	"time"

	"github.com/vitaflowd/vitaflow/internal/model"
)

func fixedSnapshot(items []model.Supplement) Snapshot {
	return func() []model.Supplement {
		out := make([]model.Supplement, len(items))
		copy(out, items)
		return out
	}
}

func localClock(t *testing.T, hhmm string) func() time.Time {
	t.Helper()
	at, err := time.ParseInLocation("2006-01-02 15:04", "2026-08-28 "+hhmm, time.Local)
	if err != nil {
		t.Fatalf("parse clock: %v", err)
	}
	return func() time.Time { return at }
}

func TestDueMatchesUntakenItemExactlyOnce(t *testing.T) {
	engine := NewEngine(fixedSnapshot([]model.Supplement{
		{ID: "sup-1", Name: "Vitamin D3", Dosage: "2000 IU", ReminderTime: "08:00"},
		{ID: "sup-2", Name: "Magnesium", ReminderTime: "22:00"},
	}), 8, WithClock(localClock(t, "08:00")))

	events := engine.Due(engine.now())
	if len(events) != 1 {
		t.Fatalf("expected exactly one event, got %d", len(events))
	}
	ev := events[0]
	if ev.ItemID != "sup-1" || ev.Name != "Vitamin D3" || ev.Dosage != "2000 IU" {
		t.Fatalf("unexpected event payload: %#v", ev)
	}
	if ev.Tag != "sup-1-08:00" {
		t.Fatalf("unexpected dedup tag: %q", ev.Tag)
	}
}

func TestDueSkipsTakenItems(t *testing.T) {
	engine := NewEngine(fixedSnapshot([]model.Supplement{
		{ID: "sup-1", Name: "Vitamin D3", ReminderTime: "08:00", Taken: true},
	}), 8, WithClock(localClock(t, "08:00")))

	if events := engine.Due(engine.now()); len(events) != 0 {
		t.Fatalf("expected zero events for taken item, got %d", len(events))
	}
}

func TestDueSkipsItemsWithoutReminder(t *testing.T) {
	engine := NewEngine(fixedSnapshot([]model.Supplement{
		{ID: "sup-1", Name: "No reminder"},
		{ID: "sup-2", Name: "Wrong minute", ReminderTime: "08:01"},
	}), 8, WithClock(localClock(t, "08:00")))

	if events := engine.Due(engine.now()); len(events) != 0 {
		t.Fatalf("expected zero events, got %d", len(events))
	}
}

func TestEngineEmitsWhileArmed(t *testing.T) {
	engine := NewEngine(fixedSnapshot([]model.Supplement{
		{ID: "sup-1", Name: "Vitamin D3", ReminderTime: "08:00"},
	}), 8, WithClock(localClock(t, "08:00")), WithInterval(10*time.Millisecond))
	engine.Arm()
	engine.Start()
	defer engine.Stop()

	select {
	case ev := <-engine.C():
		if ev.ItemID != "sup-1" {
			t.Fatalf("unexpected event: %#v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for reminder event")
	}
}

func TestEngineStaysQuietWhileIdle(t *testing.T) {
	engine := NewEngine(fixedSnapshot([]model.Supplement{
		{ID: "sup-1", Name: "Vitamin D3", ReminderTime: "08:00"},
	}), 8, WithClock(localClock(t, "08:00")), WithInterval(5*time.Millisecond))
	engine.Start()
	defer engine.Stop()

	select {
	case ev := <-engine.C():
		t.Fatalf("idle engine must not emit, got %#v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestEngineDropsWhenConsumerIsSlow(t *testing.T) {
	engine := NewEngine(fixedSnapshot([]model.Supplement{
		{ID: "a", Name: "A", ReminderTime: "08:00"},
		{ID: "b", Name: "B", ReminderTime: "08:00"},
	}), 1, WithClock(localClock(t, "08:00")), WithInterval(5*time.Millisecond))
	engine.Arm()
	engine.Start()
	defer engine.Stop()

	time.Sleep(60 * time.Millisecond)
	if engine.Dropped() == 0 {
		t.Fatalf("expected dropped events > 0, got %d", engine.Dropped())
	}
}

func TestStopIsIdempotentAndJoins(t *testing.T) {
	engine := NewEngine(fixedSnapshot(nil), 1, WithInterval(5*time.Millisecond))
	engine.Start()
	engine.Stop()
	engine.Stop()

	select {
	case _, open := <-engine.C():
		if open {
			t.Fatal("expected closed channel after stop")
		}
	default:
		t.Fatal("expected out channel closed after stop")
	}
}
