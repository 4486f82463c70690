package complaint

import (
	"context"

	"smartalert/backend/internal/config"
	"smartalert/backend/internal/models"
	"smartalert/backend/internal/storage"
)

// Dashboard is the landing view of both portals.
type Dashboard struct {
	Counts map[models.Status]int64 `json:"counts"`
	Total  int64                   `json:"total"`
	Recent []Summary               `json:"recent"`
}

func (s *Service) Dashboard(ctx context.Context, sess models.Session) (*Dashboard, error) {
	caps := CapabilitiesFor(sess.Role)
	owner := ""
	if caps.OwnOnly {
		owner = sess.UserID
	}

	counts, err := s.Storage.CountComplaintsByStatus(ctx, owner)
	if err != nil {
		return nil, err
	}
	recent, err := s.Storage.ListComplaints(ctx, storage.ListParams{SubmittedByID: owner, Limit: config.RecentComplaintsLimit})
	if err != nil {
		return nil, err
	}

	d := &Dashboard{
		Counts: make(map[models.Status]int64, len(models.AllStatuses)),
		Recent: make([]Summary, 0, len(recent)),
	}
	for _, status := range models.AllStatuses {
		d.Counts[status] = counts[status]
		d.Total += counts[status]
	}
	for _, c := range recent {
		d.Recent = append(d.Recent, summarize(c, caps))
	}
	return d, nil
}

// Marker is one pin of the incident map.
type Marker struct {
	ID       string        `json:"id"`
	Title    string        `json:"title"`
	Lat      float64       `json:"lat"`
	Lng      float64       `json:"lng"`
	Category string        `json:"category"`
	Status   models.Status `json:"status"`
	Color    string        `json:"color"`
	Icon     string        `json:"icon"`
}

// MarkerStyleFor falls back to the "Other" style for unstyled categories.
func MarkerStyleFor(category string) config.MarkerStyle {
	if style, ok := config.MarkerStyles[category]; ok {
		return style
	}
	return config.MarkerStyles[config.DefaultCategory]
}

// Markers returns a pin for every visible complaint that has coordinates.
func (s *Service) Markers(ctx context.Context, sess models.Session) ([]Marker, error) {
	records, err := s.List(ctx, sess)
	if err != nil {
		return nil, err
	}
	return BuildMarkers(records), nil
}

func BuildMarkers(records []models.Complaint) []Marker {
	markers := make([]Marker, 0, len(records))
	for _, c := range records {
		lat, lng := c.Latitude, c.Longitude
		if lat == nil || lng == nil {
			coords, ok := ParseCoordinates(c.Location)
			if !ok {
				continue
			}
			lat, lng = &coords.Lat, &coords.Lng
		}
		style := MarkerStyleFor(c.Category)
		markers = append(markers, Marker{
			ID:       c.ID,
			Title:    c.Title,
			Lat:      *lat,
			Lng:      *lng,
			Category: c.Category,
			Status:   c.Status,
			Color:    style.Color,
			Icon:     style.Icon,
		})
	}
	return markers
}
