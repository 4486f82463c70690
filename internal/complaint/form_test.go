package complaint_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"smartalert/backend/internal/complaint"
	"smartalert/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDraft() complaint.Draft {
	return complaint.Draft{
		Title:        "Pothole",
		Description:  "Large pothole",
		IncidentType: "Infrastructure",
		Location:     "Main St",
	}
}

func TestDraftValidate(t *testing.T) {
	assert.NoError(t, validDraft().Validate())

	err := complaint.Draft{Title: "   ", IncidentType: "Aliens", Email: "not-an-email"}.Validate()
	var verr *complaint.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "title is required", verr.Fields["title"])
	assert.Contains(t, verr.Fields, "description")
	assert.Contains(t, verr.Fields, "location")
	assert.Contains(t, verr.Fields["incidentType"], "Infrastructure")
	assert.Contains(t, verr.Fields, "email")

	d := validDraft()
	d.Priority = "urgent"
	require.ErrorAs(t, d.Validate(), &verr)
	assert.Contains(t, verr.Fields, "priority")
}

func TestDraftBuild(t *testing.T) {
	now := time.Date(2023, 7, 15, 9, 0, 0, 0, time.UTC)
	d := validDraft()
	d.Location = "Lat: 40.712776, Long: -74.005974"
	d.Image = "photo-1.jpg"

	c := d.Build(models.Reporter{UserID: "u-1", Name: "John Doe"}, now)

	assert.Equal(t, models.StatusPending, c.Status)
	assert.Equal(t, models.PriorityMedium, c.Priority, "derived from the category")
	assert.Equal(t, []string{"photo-1.jpg"}, c.Images)
	require.NotNil(t, c.Latitude)
	assert.InDelta(t, 40.712776, *c.Latitude, 1e-9)
	require.Len(t, c.Timeline, 1)
	assert.Equal(t, models.StatusPending, c.Timeline[0].Status)
	assert.Equal(t, "John Doe", c.Timeline[0].By)
	assert.Empty(t, c.Comments)

	anon := validDraft().Build(models.Reporter{}, now)
	assert.Equal(t, "Anonymous", anon.SubmittedBy.Name)
	assert.Nil(t, anon.Latitude)
	assert.Empty(t, anon.Images)
}

func TestCoordinates(t *testing.T) {
	s := complaint.FormatCoordinates(complaint.Coordinates{Lat: 40.7127759, Lng: -74.0059728})
	assert.Equal(t, "Lat: 40.712776, Long: -74.005973", s)

	c, ok := complaint.ParseCoordinates(s)
	require.True(t, ok)
	assert.InDelta(t, 40.712776, c.Lat, 1e-9)

	_, ok = complaint.ParseCoordinates("123 Main St")
	assert.False(t, ok)
	_, ok = complaint.ParseCoordinates("Lat: 91.0, Long: 0.0")
	assert.False(t, ok)
}

func TestFormSubmit_ResetsOnlyOnSuccess(t *testing.T) {
	ctx := context.Background()
	f := complaint.NewForm(validDraft())

	_, err := f.Submit(ctx, func(context.Context, complaint.Draft) (*models.Complaint, error) {
		return nil, errors.New("db down")
	})
	assert.Error(t, err)
	assert.Equal(t, validDraft(), f.Draft())

	c, err := f.Submit(ctx, func(_ context.Context, d complaint.Draft) (*models.Complaint, error) {
		return d.Build(models.Reporter{}, time.Now()), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Pothole", c.Title)
	assert.Equal(t, complaint.Draft{}, f.Draft())
}

func TestFormSubmit_InvalidDraftNeverSaved(t *testing.T) {
	f := complaint.NewForm(complaint.Draft{Title: "Pothole"})
	called := false

	_, err := f.Submit(context.Background(), func(context.Context, complaint.Draft) (*models.Complaint, error) {
		called = true
		return nil, nil
	})

	var verr *complaint.ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.False(t, called)
	assert.Equal(t, "Pothole", f.Draft().Title)
}

type failingGeolocator struct{}

func (failingGeolocator) Locate(context.Context) (complaint.Coordinates, error) {
	return complaint.Coordinates{}, errors.New("permission denied")
}

type slowGeolocator struct {
	release chan struct{}
}

func (g slowGeolocator) Locate(context.Context) (complaint.Coordinates, error) {
	<-g.release
	return complaint.Coordinates{Lat: 1, Lng: 2}, nil
}

func TestUseLocation(t *testing.T) {
	ctx := context.Background()
	f := complaint.NewForm(complaint.Draft{Location: "Main St"})

	require.NoError(t, f.UseLocation(ctx, complaint.StaticGeolocator{Lat: 50.45, Lng: 30.5234}))
	assert.Equal(t, "Lat: 50.450000, Long: 30.523400", f.Draft().Location)

	f.Update(func(d *complaint.Draft) { d.Location = "Main St" })
	err := f.UseLocation(ctx, failingGeolocator{})
	assert.ErrorIs(t, err, complaint.ErrGeolocationUnavailable)
	assert.Equal(t, "Main St", f.Draft().Location)

	err = f.UseLocation(ctx, complaint.StaticGeolocator{Lat: 120, Lng: 0})
	assert.ErrorIs(t, err, complaint.ErrGeolocationUnavailable)
	assert.Equal(t, "Main St", f.Draft().Location)
}

func TestUseLocation_CancelledDiscardsLateResult(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	f := complaint.NewForm(complaint.Draft{Location: "Main St"})
	g := slowGeolocator{release: make(chan struct{})}

	cancel()
	err := f.UseLocation(ctx, g)
	assert.ErrorIs(t, err, context.Canceled)

	close(g.release)
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, "Main St", f.Draft().Location)
}
