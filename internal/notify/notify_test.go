package notify

import (
	"testing"

	"github.com/vitaflowd/vitaflow/internal/scheduler"
)

func TestFromEventWithNotes(t *testing.T) {
	n := FromEvent(scheduler.ReminderEvent{
		ItemID: "sup-1",
		Name:   "Magnesium",
		Dosage: "400mg",
		Notes:  "Helps with sleep",
		At:     "22:00",
		Tag:    "sup-1-22:00",
	})
	if n.Title != "Time to take: Magnesium" {
		t.Fatalf("unexpected title: %q", n.Title)
	}
	if n.Body != "Dosage: 400mg. Helps with sleep" {
		t.Fatalf("unexpected body: %q", n.Body)
	}
	if n.Tag != "sup-1-22:00" {
		t.Fatalf("unexpected tag: %q", n.Tag)
	}
}

func TestFromEventWithoutDosage(t *testing.T) {
	n := FromEvent(scheduler.ReminderEvent{ItemID: "x", Name: "Iron", Tag: "x-07:30"})
	if n.Body != "As directed" {
		t.Fatalf("unexpected body: %q", n.Body)
	}
}

func TestEscapeAppleScript(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`plain`, `plain`},
		{`say "hi"`, `say \"hi\"`},
		{`back\slash`, `back\\slash`},
		{`tricky \"`, `tricky \\\"`},
	}
	for _, tc := range cases {
		if got := escapeAppleScript(tc.in); got != tc.want {
			t.Fatalf("escape %q: got %q, want %q", tc.in, got, tc.want)
		}
	}
}
