package complaint

import (
	"fmt"
	"strings"

	"smartalert/backend/internal/models"
)

// FilterKey names one field of a FilterState.
type FilterKey string

const (
	FilterStatus   FilterKey = "status"
	FilterCategory FilterKey = "category"
	FilterDate     FilterKey = "date"
	FilterQuery    FilterKey = "query"
)

// AnyValue is the dropdown sentinel for "no constraint". The empty string means the same.
const AnyValue = "all"

// FilterState is the set of active list filters. The zero value constrains nothing.
type FilterState struct {
	Status   string `json:"status"`
	Category string `json:"category"`
	Date     string `json:"date"`
	Query    string `json:"query"`
}

// Set updates one key. Status values are normalised to their display form
// so "inProgress" and "In Progress" filter the same records.
func (f *FilterState) Set(key FilterKey, value string) error {
	value = strings.TrimSpace(value)
	if strings.EqualFold(value, AnyValue) {
		value = ""
	}

	switch key {
	case FilterStatus:
		if s, ok := models.ParseStatus(value); ok {
			value = string(s)
		}
		f.Status = value
	case FilterCategory:
		f.Category = value
	case FilterDate:
		f.Date = value
	case FilterQuery:
		f.Query = value
	default:
		return fmt.Errorf("unknown filter %q", key)
	}
	return nil
}

// Reset clears every key at once.
func (f *FilterState) Reset() {
	*f = FilterState{}
}

func (f FilterState) IsEmpty() bool {
	return f == FilterState{}
}

// Matches reports whether c satisfies every active key.
func (f FilterState) Matches(c models.Complaint) bool {
	if f.Status != "" && string(c.Status) != f.Status {
		return false
	}
	if f.Category != "" && c.Category != f.Category {
		return false
	}
	if f.Date != "" && c.Date() != f.Date {
		return false
	}
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		if !strings.Contains(strings.ToLower(c.Title), q) &&
			!strings.Contains(strings.ToLower(c.Description), q) &&
			!strings.Contains(strings.ToLower(c.ID), q) {
			return false
		}
	}
	return true
}

// ApplyFilters returns the records matching f in their original order.
func ApplyFilters(records []models.Complaint, f FilterState) []models.Complaint {
	out := make([]models.Complaint, 0, len(records))
	for _, c := range records {
		if f.Matches(c) {
			out = append(out, c)
		}
	}
	return out
}
