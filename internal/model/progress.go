package model

// DayProgress summarizes the current checklist; it is derived state and never
// persisted.
type DayProgress struct {
	Total      int
	Completed  int
	Percentage float64
}

func ComputeProgress(items []Supplement) DayProgress {
	total := len(items)
	completed := 0
	for _, item := range items {
		if item.Taken {
			completed++
		}
	}
	pct := 0.0
	if total > 0 {
		pct = float64(completed) / float64(total) * 100
	}
	return DayProgress{Total: total, Completed: completed, Percentage: pct}
}
