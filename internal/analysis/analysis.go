// Package analysis derives secondary complaint attributes from what the
// citizen reported, such as a default priority for the incident type.
package analysis

import (
	"smartalert/backend/internal/config"
	"smartalert/backend/internal/models"
)

// DefaultPriority returns the priority for a category, falling back to Low
// for unknown categories.
func DefaultPriority(category string) models.Priority {
	if p, ok := models.ParsePriority(config.CategoryPriorities[category]); ok {
		return p
	}
	return models.PriorityLow
}

// ResolvePriority keeps an explicit priority when it is valid and otherwise
// derives one from the category.
func ResolvePriority(requested, category string) models.Priority {
	if p, ok := models.ParsePriority(requested); ok {
		return p
	}
	return DefaultPriority(category)
}
