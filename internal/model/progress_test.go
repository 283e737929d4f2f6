package model

import "testing"

func TestComputeProgressEmpty(t *testing.T) {
	p := ComputeProgress(nil)
	if p.Total != 0 || p.Completed != 0 || p.Percentage != 0 {
		t.Fatalf("unexpected progress for empty collection: %#v", p)
	}
}

func TestComputeProgressQuarter(t *testing.T) {
	items := []Supplement{
		{ID: "1", Taken: true},
		{ID: "2"},
		{ID: "3"},
		{ID: "4"},
	}
	p := ComputeProgress(items)
	if p.Total != 4 || p.Completed != 1 {
		t.Fatalf("unexpected counts: %#v", p)
	}
	if p.Percentage != 25 {
		t.Fatalf("expected 25%%, got %v", p.Percentage)
	}
}

func TestComputeProgressComplete(t *testing.T) {
	items := []Supplement{{ID: "1", Taken: true}, {ID: "2", Taken: true}}
	p := ComputeProgress(items)
	if p.Percentage != 100 {
		t.Fatalf("expected 100%%, got %v", p.Percentage)
	}
}
