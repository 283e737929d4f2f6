package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidCategory     = errors.New("model: invalid supplement category")
	ErrInvalidReminderTime = errors.New("model: invalid reminder time")
)

type Category string

const (
	CategoryVitamin  Category = "vitamin"
	CategoryMedicine Category = "medicine"
	CategoryProtein  Category = "protein"
	CategoryOther    Category = "other"
)

func (c Category) IsValid() bool {
	switch c {
	case CategoryVitamin, CategoryMedicine, CategoryProtein, CategoryOther:
		return true
	default:
		return false
	}
}

// NormalizeCategory maps an absent category to CategoryOther.
func NormalizeCategory(c Category) Category {
	if c == "" {
		return CategoryOther
	}
	return c
}

// Supplement is one tracked item on the daily checklist. Taken means
// "done for the current calendar day" and is cleared on every day boundary.
// JSON tags match the persisted collection blob layout.
type Supplement struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Dosage       string   `json:"dosage,omitempty"`
	Frequency    string   `json:"frequency,omitempty"`
	Taken        bool     `json:"taken"`
	Notes        string   `json:"notes,omitempty"`
	Category     Category `json:"category,omitempty"`
	ReminderTime string   `json:"reminderTime,omitempty"`
}

func (s Supplement) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return errors.New("model: supplement id is required")
	}
	return validateFields(s.Name, s.Category, s.ReminderTime)
}

// NewSupplementInput is a supplement candidate before it receives an ID and
// enters the collection. Produced by the add form and the text extractor.
type NewSupplementInput struct {
	Name         string   `json:"name"`
	Dosage       string   `json:"dosage,omitempty"`
	Frequency    string   `json:"frequency,omitempty"`
	Notes        string   `json:"notes,omitempty"`
	Category     Category `json:"category"`
	ReminderTime string   `json:"reminderTime,omitempty"`
}

func (in NewSupplementInput) Validate() error {
	return validateFields(in.Name, in.Category, in.ReminderTime)
}

func validateFields(name string, category Category, reminderTime string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("model: supplement name is required")
	}
	if category != "" && !category.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, category)
	}
	if reminderTime != "" {
		if err := ValidateReminderTime(reminderTime); err != nil {
			return err
		}
	}
	return nil
}

// ValidateReminderTime accepts 24-hour "HH:MM" with hour 00-23 and minute 00-59.
func ValidateReminderTime(s string) error {
	if len(s) != 5 || s[2] != ':' {
		return fmt.Errorf("%w: %q", ErrInvalidReminderTime, s)
	}
	hour, ok1 := twoDigits(s[0], s[1])
	minute, ok2 := twoDigits(s[3], s[4])
	if !ok1 || !ok2 || hour > 23 || minute > 59 {
		return fmt.Errorf("%w: %q", ErrInvalidReminderTime, s)
	}
	return nil
}

func twoDigits(a, b byte) (int, bool) {
	if a < '0' || a > '9' || b < '0' || b > '9' {
		return 0, false
	}
	return int(a-'0')*10 + int(b-'0'), true
}

// SortForDisplay returns a new slice with untaken items before taken ones.
// Relative order inside each group keeps the original insertion order; this
// is a stable partition, not a comparator sort.
func SortForDisplay(items []Supplement) []Supplement {
	out := make([]Supplement, 0, len(items))
	for _, item := range items {
		if !item.Taken {
			out = append(out, item)
		}
	}
	for _, item := range items {
		if item.Taken {
			out = append(out, item)
		}
	}
	return out
}
