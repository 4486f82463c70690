package config

import "time"

const (
	// BannerDuration is how long a success banner stays visible on a detail view.
	BannerDuration = 3 * time.Second

	// RecentComplaintsLimit caps the "recent complaints" block on dashboards.
	RecentComplaintsLimit = 5

	// DateLayout is the date-only format used by list views and the date filter.
	DateLayout = "2006-01-02"

	DefaultCategory = "Other"
)

// Categories is the fixed set of incident types a citizen can report.
var Categories = []string{
	"Infrastructure",
	"Traffic",
	"Security",
	"Fire",
	"Medical",
	"Noise",
	"Environment",
	"Vandalism",
	"Animal Control",
	"Sanitation",
	"Weather",
	"Other",
}

// CategoryPriorities is the priority assigned to a new report when the
// reporter does not pick one.
var CategoryPriorities = map[string]string{
	"Fire":           "High",
	"Medical":        "High",
	"Security":       "High",
	"Infrastructure": "Medium",
	"Traffic":        "Medium",
	"Environment":    "Medium",
	"Animal Control": "Medium",
	"Weather":        "Medium",
	"Noise":          "Low",
	"Vandalism":      "Low",
	"Sanitation":     "Low",
	"Other":          "Low",
}

// MarkerStyle is how the incident map draws a pin for one category.
type MarkerStyle struct {
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

var MarkerStyles = map[string]MarkerStyle{
	"Infrastructure": {Color: "#3b82f6", Icon: "wrench"},
	"Traffic":        {Color: "#f59e0b", Icon: "car"},
	"Security":       {Color: "#ef4444", Icon: "shield"},
	"Fire":           {Color: "#dc2626", Icon: "fire"},
	"Medical":        {Color: "#10b981", Icon: "medical"},
	"Weather":        {Color: "#8b5cf6", Icon: "cloud"},
	"Other":          {Color: "#6b7280", Icon: "alert"},
}

// IsCategory reports whether name is one of Categories.
func IsCategory(name string) bool {
	for _, c := range Categories {
		if c == name {
			return true
		}
	}
	return false
}
