package complaint

import (
	"context"
	"errors"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"smartalert/backend/internal/analysis"
	"smartalert/backend/internal/config"
	"smartalert/backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// ErrGeolocationUnavailable is returned when the device position cannot be read.
var ErrGeolocationUnavailable = errors.New("unable to retrieve your location")

// Draft is the editable state of the submission form.
type Draft struct {
	Title        string `json:"title" validate:"required,max=200"`
	Description  string `json:"description" validate:"required,max=5000"`
	IncidentType string `json:"incidentType" validate:"required,category"`
	Location     string `json:"location" validate:"required,max=500"`
	Priority     string `json:"priority,omitempty" validate:"omitempty,priority"`
	Image        string `json:"image,omitempty" validate:"max=1000"`

	// Contact fields of anonymous reporters. Signed-in citizens use their profile.
	Name  string `json:"name,omitempty" validate:"max=200"`
	Email string `json:"email,omitempty" validate:"omitempty,email"`
	Phone string `json:"phone,omitempty" validate:"max=50"`
}

// ValidationError maps draft field names (JSON form) to messages.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return "invalid complaint: " + strings.Join(names, ", ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return config.IsCategory(fl.Field().String())
	})
	_ = v.RegisterValidation("priority", func(fl validator.FieldLevel) bool {
		_, ok := models.ParsePriority(fl.Field().String())
		return ok
	})
	return v
}

// Normalize trims every text field.
func (d Draft) Normalize() Draft {
	d.Title = strings.TrimSpace(d.Title)
	d.Description = strings.TrimSpace(d.Description)
	d.IncidentType = strings.TrimSpace(d.IncidentType)
	d.Location = strings.TrimSpace(d.Location)
	d.Priority = strings.TrimSpace(d.Priority)
	d.Image = strings.TrimSpace(d.Image)
	d.Name = strings.TrimSpace(d.Name)
	d.Email = strings.TrimSpace(d.Email)
	d.Phone = strings.TrimSpace(d.Phone)
	return d
}

// Validate returns a *ValidationError listing every failing field, or nil.
func (d Draft) Validate() error {
	err := validate.Struct(d.Normalize())
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	out := &ValidationError{Fields: make(map[string]string, len(fieldErrs))}
	for _, fe := range fieldErrs {
		out.Fields[fe.Field()] = fieldMessage(fe)
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "max":
		return fe.Field() + " must be at most " + fe.Param() + " characters"
	case "email":
		return fe.Field() + " must be a valid email address"
	case "category":
		return "incidentType must be one of: " + strings.Join(config.Categories, ", ")
	case "priority":
		return "priority must be one of: Low, Medium, High"
	default:
		return fe.Field() + " is invalid"
	}
}

// Build turns a valid draft into a new Pending complaint with its creation
// event. by is the reporter; anonymous drafts use the draft's contact fields.
func (d Draft) Build(by models.Reporter, now time.Time) *models.Complaint {
	d = d.Normalize()
	if by.UserID == "" {
		by = models.Reporter{Name: d.Name, Email: d.Email, Phone: d.Phone}
	}
	if by.Name == "" {
		by.Name = "Anonymous"
	}

	c := &models.Complaint{
		ID:          models.NewComplaintID(),
		Title:       d.Title,
		Description: d.Description,
		Category:    d.IncidentType,
		Priority:    analysis.ResolvePriority(d.Priority, d.IncidentType),
		Status:      models.StatusPending,
		Location:    d.Location,
		SubmittedBy: by,
		Images:      []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if d.Image != "" {
		c.Images = append(c.Images, d.Image)
	}
	if coords, ok := ParseCoordinates(d.Location); ok {
		c.Latitude = &coords.Lat
		c.Longitude = &coords.Lng
	}

	c.Timeline = []models.TimelineEvent{{
		Status:    models.StatusPending,
		By:        by.Name,
		ByRole:    models.AuthorCitizen,
		CreatedAt: now,
	}}
	return c
}

// Coordinates is a WGS84 position.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (c Coordinates) Valid() bool {
	return !math.IsNaN(c.Lat) && !math.IsNaN(c.Lng) &&
		c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// FormatCoordinates renders a position the way the location field stores it.
func FormatCoordinates(c Coordinates) string {
	return fmt.Sprintf("Lat: %.6f, Long: %.6f", c.Lat, c.Lng)
}

var coordinatesRe = regexp.MustCompile(`^\s*Lat:\s*(-?\d+(?:\.\d+)?),\s*Long:\s*(-?\d+(?:\.\d+)?)\s*$`)

// ParseCoordinates reads a location written by FormatCoordinates. Free-text
// addresses return false.
func ParseCoordinates(location string) (Coordinates, bool) {
	m := coordinatesRe.FindStringSubmatch(location)
	if m == nil {
		return Coordinates{}, false
	}
	lat, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return Coordinates{}, false
	}
	lng, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return Coordinates{}, false
	}
	c := Coordinates{Lat: lat, Lng: lng}
	return c, c.Valid()
}

// Geolocator supplies the device position.
type Geolocator interface {
	Locate(ctx context.Context) (Coordinates, error)
}

// StaticGeolocator returns a position the client already measured.
type StaticGeolocator Coordinates

func (g StaticGeolocator) Locate(context.Context) (Coordinates, error) {
	c := Coordinates(g)
	if !c.Valid() {
		return Coordinates{}, ErrGeolocationUnavailable
	}
	return c, nil
}

// Form owns one draft. It is safe for concurrent use: a geolocation result
// may arrive while the draft is being edited.
type Form struct {
	mu    sync.Mutex
	draft Draft
}

func NewForm(d Draft) *Form {
	return &Form{draft: d}
}

func (f *Form) Draft() Draft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

// Update edits the draft in place.
func (f *Form) Update(fn func(*Draft)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(&f.draft)
}

// Reset empties the draft.
func (f *Form) Reset() {
	f.Update(func(d *Draft) { *d = Draft{} })
}

// Submit validates the draft and hands it to save. The draft is reset only
// when save succeeds.
func (f *Form) Submit(ctx context.Context, save func(context.Context, Draft) (*models.Complaint, error)) (*models.Complaint, error) {
	d := f.Draft()
	if err := d.Validate(); err != nil {
		return nil, err
	}

	c, err := save(ctx, d.Normalize())
	if err != nil {
		return nil, err
	}
	f.Reset()
	return c, nil
}

// UseLocation asks g for the current position and writes it into the
// location field. On failure the field is left unchanged. If ctx ends first
// the late result is discarded.
func (f *Form) UseLocation(ctx context.Context, g Geolocator) error {
	type result struct {
		coords Coordinates
		err    error
	}
	done := make(chan result, 1)

	go func() {
		coords, err := g.Locate(ctx)
		done <- result{coords: coords, err: err}
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case r := <-done:
		if r.err != nil {
			return fmt.Errorf("%w: %v", ErrGeolocationUnavailable, r.err)
		}
		if !r.coords.Valid() {
			return ErrGeolocationUnavailable
		}
		f.Update(func(d *Draft) { d.Location = FormatCoordinates(r.coords) })
		return nil
	}
}
