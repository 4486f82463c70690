package complaint

import (
	"context"
	"time"

	"smartalert/backend/internal/models"
)

// ViewState is the lifecycle of a list or detail view.
type ViewState string

const (
	StateLoading ViewState = "loading"
	StateEmpty   ViewState = "empty"
	StateReady   ViewState = "ready"
	StateFailed  ViewState = "failed"
)

// Summary is one row of a list or of a dashboard's recent block.
type Summary struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Category  string          `json:"category"`
	Priority  models.Priority `json:"priority"`
	Status    models.Status   `json:"status"`
	Location  string          `json:"location"`
	Date      string          `json:"date"`
	Reporter  string          `json:"reporter,omitempty"`
	Path      string          `json:"path"`
	CreatedAt time.Time       `json:"created_at"`
}

func summarize(c models.Complaint, caps Capabilities) Summary {
	s := Summary{
		ID:        c.ID,
		Title:     c.Title,
		Category:  c.Category,
		Priority:  c.Priority,
		Status:    c.Status,
		Location:  c.Location,
		Date:      c.Date(),
		Path:      caps.DetailPath(c.ID),
		CreatedAt: c.CreatedAt,
	}
	if caps.ShowReporter {
		s.Reporter = c.SubmittedBy.Name
	}
	return s
}

// Facets are the distinct values offered by the filter dropdowns.
type Facets struct {
	Statuses   []models.Status `json:"statuses"`
	Categories []string        `json:"categories"`
	Dates      []string        `json:"dates"`
}

// ListView holds one mounted collection and the filters applied to it.
type ListView struct {
	Caps   Capabilities
	Filter FilterState

	mounted bool
	records []models.Complaint
	err     error
}

func NewListView(caps Capabilities) *ListView {
	return &ListView{Caps: caps}
}

// Mount loads the collection once. A load error moves the view to StateFailed.
func (v *ListView) Mount(ctx context.Context, load func(context.Context) ([]models.Complaint, error)) error {
	records, err := load(ctx)
	v.mounted = true
	v.records = records
	v.err = err
	return err
}

func (v *ListView) State() ViewState {
	switch {
	case !v.mounted:
		return StateLoading
	case v.err != nil:
		return StateFailed
	case len(v.Records()) == 0:
		return StateEmpty
	default:
		return StateReady
	}
}

// Records is the filtered collection.
func (v *ListView) Records() []models.Complaint {
	return ApplyFilters(v.records, v.Filter)
}

// ResetFilters clears all filters in one step.
func (v *ListView) ResetFilters() {
	v.Filter.Reset()
}

// Facets are computed over the whole mounted collection, in first-seen order.
func (v *ListView) Facets() Facets {
	f := Facets{
		Statuses:   models.AllStatuses,
		Categories: []string{},
		Dates:      []string{},
	}
	seenCategory := map[string]bool{}
	seenDate := map[string]bool{}
	for _, c := range v.records {
		if !seenCategory[c.Category] {
			seenCategory[c.Category] = true
			f.Categories = append(f.Categories, c.Category)
		}
		if d := c.Date(); !seenDate[d] {
			seenDate[d] = true
			f.Dates = append(f.Dates, d)
		}
	}
	return f
}

// ListModel is the JSON body of a list view.
type ListModel struct {
	State   ViewState    `json:"state"`
	Filters FilterState  `json:"filters"`
	Facets  Facets       `json:"facets"`
	Items   []Summary    `json:"items"`
	Total   int          `json:"total"`
	Message string       `json:"message,omitempty"`
	Caps    Capabilities `json:"capabilities"`
}

// Model renders the view. emptyMessage is shown in StateEmpty.
func (v *ListView) Model(emptyMessage string) ListModel {
	records := v.Records()
	m := ListModel{
		State:   v.State(),
		Filters: v.Filter,
		Facets:  v.Facets(),
		Items:   make([]Summary, 0, len(records)),
		Total:   len(v.records),
		Caps:    v.Caps,
	}
	for _, c := range records {
		m.Items = append(m.Items, summarize(c, v.Caps))
	}
	if m.State == StateEmpty {
		m.Message = emptyMessage
	}
	return m
}

// DetailView is one complaint with the editing state of its page.
type DetailView struct {
	Caps   Capabilities
	Record *models.Complaint
	Strict bool

	PendingStatus models.Status
	Banner        string
}

func NewDetailView(caps Capabilities, record *models.Complaint, strict bool) *DetailView {
	return &DetailView{Caps: caps, Record: record, Strict: strict, PendingStatus: record.Status}
}

// AllowedStatuses are the options the status selector enables.
func (v *DetailView) AllowedStatuses() []models.Status {
	if !v.Caps.CanUpdateStatus {
		return []models.Status{}
	}
	if v.Strict {
		next := v.Record.Status.NextStatuses()
		out := make([]models.Status, len(next))
		copy(out, next)
		return out
	}

	out := make([]models.Status, 0, len(models.AllStatuses)-1)
	for _, s := range models.AllStatuses {
		if s != v.Record.Status {
			out = append(out, s)
		}
	}
	return out
}

// CanSubmitStatus is false while the pending status equals the current one.
func (v *DetailView) CanSubmitStatus() bool {
	if v.PendingStatus == v.Record.Status {
		return false
	}
	for _, s := range v.AllowedStatuses() {
		if s == v.PendingStatus {
			return true
		}
	}
	return false
}

// DetailModel is the JSON body of a detail view.
type DetailModel struct {
	State           ViewState         `json:"state"`
	Complaint       *models.Complaint `json:"complaint"`
	PendingStatus   models.Status     `json:"pending_status"`
	AllowedStatuses []models.Status   `json:"allowed_statuses"`
	CanSubmitStatus bool              `json:"can_submit_status"`
	Banner          string            `json:"banner,omitempty"`
	BackPath        string            `json:"back_path"`
	Caps            Capabilities      `json:"capabilities"`
}

func (v *DetailView) Model() DetailModel {
	return DetailModel{
		State:           StateReady,
		Complaint:       v.Record,
		PendingStatus:   v.PendingStatus,
		AllowedStatuses: v.AllowedStatuses(),
		CanSubmitStatus: v.CanSubmitStatus(),
		Banner:          v.Banner,
		BackPath:        v.Caps.BasePath,
		Caps:            v.Caps,
	}
}
