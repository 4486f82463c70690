package complaint_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"smartalert/backend/internal/complaint"
	"smartalert/backend/internal/localization"
	"smartalert/backend/internal/models"
	"smartalert/backend/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyStatusChange(ctx context.Context, user *models.User, c *models.Complaint) error {
	args := m.Called(ctx, user, c)
	return args.Error(0)
}

type fixture struct {
	svc     *complaint.Service
	store   *storage.Service
	banners *storage.MemoryKV
	now     time.Time

	citizen models.Session
	other   models.Session
	officer models.Session
	events  []models.ComplaintEvent
}

func newFixture(t *testing.T, strict bool) *fixture {
	t.Helper()
	ctx := context.Background()

	db, err := storage.Open("sqlite", filepath.Join(t.TempDir(), "complaints.db"))
	require.NoError(t, err)
	require.NoError(t, storage.Migrate(db))

	loc, err := localization.NewLocalizer("../localization", "en")
	require.NoError(t, err)

	f := &fixture{now: time.Date(2023, 7, 15, 9, 0, 0, 0, time.UTC)}
	f.store = storage.NewStorageService(db, storage.NewMemoryKV(), nil, time.Minute)
	f.store.LocalEvents = func(e models.ComplaintEvent) { f.events = append(f.events, e) }

	f.banners = storage.NewMemoryKV()
	f.banners.Now = func() time.Time { return f.now }

	f.svc = complaint.NewService(f.store, f.banners, loc, strict)
	f.svc.Now = func() time.Time { return f.now }

	john := &models.User{Name: "John Doe", Email: "john@example.com", Role: models.RoleUser}
	jane := &models.User{Name: "Jane Roe", Email: "jane@example.com", Role: models.RoleUser}
	officer := &models.User{Name: "Officer Smith", Email: "officer@city.gov", Role: models.RoleAuthority}
	for _, u := range []*models.User{john, jane, officer} {
		require.NoError(t, f.store.SaveUser(ctx, u))
	}
	f.citizen = models.NewSession("s-john", john.ID, john.Name, models.RoleUser)
	f.other = models.NewSession("s-jane", jane.ID, jane.Name, models.RoleUser)
	f.officer = models.NewSession("s-officer", officer.ID, officer.Name, models.RoleAuthority)
	return f
}

func (f *fixture) submit(t *testing.T, sess models.Session) *models.Complaint {
	t.Helper()
	c, err := f.svc.Submit(context.Background(), sess, validDraft())
	require.NoError(t, err)
	return c
}

func TestSubmit_AppearsInCitizenList(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)

	c := f.submit(t, f.citizen)

	got, err := f.svc.Get(ctx, f.citizen, c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, got.Status)
	require.Len(t, got.Timeline, 1, "only the creation entry")
	assert.Equal(t, models.StatusPending, got.Timeline[0].Status)
	assert.Equal(t, "John Doe", got.SubmittedBy.Name)

	records, err := f.svc.List(ctx, f.citizen)
	require.NoError(t, err)
	v := complaint.NewListView(complaint.CitizenCapabilities)
	require.NoError(t, v.Mount(ctx, func(context.Context) ([]models.Complaint, error) { return records, nil }))
	require.NoError(t, v.Filter.Set(complaint.FilterCategory, "Infrastructure"))
	assert.Equal(t, []string{c.ID}, ids(v.Records()))

	require.Len(t, f.events, 1)
	assert.Equal(t, models.EventComplaintCreated, f.events[0].Type)
	assert.Equal(t, f.citizen.UserID, f.events[0].OwnerID)
}

func TestSubmit_Invalid(t *testing.T) {
	f := newFixture(t, true)

	_, err := f.svc.Submit(context.Background(), models.GuestSession(), complaint.Draft{Title: "Pothole"})

	var verr *complaint.ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Empty(t, f.events)
}

func TestList_Scoping(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)
	mine := f.submit(t, f.citizen)
	theirs := f.submit(t, f.other)
	f.submit(t, models.GuestSession())

	records, err := f.svc.List(ctx, f.citizen)
	require.NoError(t, err)
	assert.Equal(t, []string{mine.ID}, ids(records))

	all, err := f.svc.List(ctx, f.officer)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = f.svc.Get(ctx, f.citizen, theirs.ID)
	assert.ErrorIs(t, err, complaint.ErrForbidden)

	_, err = f.svc.Get(ctx, f.officer, "C-missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUpdateStatus_PendingToResolvedLoose(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)
	c := f.submit(t, f.citizen)

	updated, err := f.svc.UpdateStatus(ctx, f.officer, c.ID, models.StatusResolved)
	require.NoError(t, err)

	assert.Equal(t, models.StatusResolved, updated.Status)
	require.Len(t, updated.Timeline, 2)
	assert.Equal(t, models.StatusResolved, updated.Timeline[1].Status)
	assert.Equal(t, "Officer Smith", updated.Timeline[1].By)
	require.Len(t, updated.Comments, 1)
	assert.True(t, updated.Comments[0].IsSystem)
	assert.Equal(t, `Status updated to "Resolved"`, updated.Comments[0].Text)

	detail, err := f.svc.Detail(ctx, f.officer, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Complaint status successfully updated to Resolved.", detail.Banner)

	f.now = f.now.Add(3 * time.Second)
	assert.Empty(t, f.svc.Banner(ctx, f.officer, c.ID), "banner is dismissed after 3 seconds")

	// Another session viewing the same record sees the change.
	seen, err := f.svc.Get(ctx, f.citizen, c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusResolved, seen.Status)
	assert.Empty(t, f.svc.Banner(ctx, f.citizen, c.ID))
}

func TestUpdateStatus_StrictRejectsSkippingAStep(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)
	c := f.submit(t, f.citizen)

	_, err := f.svc.UpdateStatus(ctx, f.officer, c.ID, models.StatusResolved)
	assert.ErrorIs(t, err, complaint.ErrInvalidTransition)

	_, err = f.svc.UpdateStatus(ctx, f.officer, c.ID, "in_progress")
	require.NoError(t, err)
	updated, err := f.svc.UpdateStatus(ctx, f.officer, c.ID, models.StatusResolved)
	require.NoError(t, err)
	assert.Len(t, updated.Timeline, 3)

	_, err = f.svc.UpdateStatus(ctx, f.officer, c.ID, models.StatusPending)
	assert.ErrorIs(t, err, complaint.ErrInvalidTransition, "resolved is terminal")
}

func TestUpdateStatus_IgnoresOutdatedCachedStatus(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)
	c := f.submit(t, f.citizen)

	// Warm the cache, then move the record on without going through it.
	_, err := f.svc.Get(ctx, f.officer, c.ID)
	require.NoError(t, err)
	require.NoError(t, f.store.DB.Model(&models.Complaint{}).Where("id = ?", c.ID).
		Update("status", models.StatusInProgress).Error)

	updated, err := f.svc.UpdateStatus(ctx, f.officer, c.ID, models.StatusResolved)

	require.NoError(t, err)
	assert.Equal(t, models.StatusResolved, updated.Status)
	require.Len(t, updated.Timeline, 2)
}

func TestUpdateStatus_SameStatusIsNoOp(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)
	c := f.submit(t, f.citizen)

	_, err := f.svc.UpdateStatus(ctx, f.officer, c.ID, models.StatusPending)
	assert.ErrorIs(t, err, complaint.ErrNoStatusChange)

	got, err := f.svc.Get(ctx, f.officer, c.ID)
	require.NoError(t, err)
	assert.Len(t, got.Timeline, 1)
	assert.Empty(t, got.Comments)
	assert.Empty(t, f.svc.Banner(ctx, f.officer, c.ID))
}

func TestUpdateStatus_OnlyAuthority(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)
	c := f.submit(t, f.citizen)

	_, err := f.svc.UpdateStatus(ctx, f.citizen, c.ID, models.StatusInProgress)
	assert.ErrorIs(t, err, complaint.ErrForbidden)

	_, err = f.svc.UpdateStatus(ctx, f.officer, c.ID, "Escalated")
	assert.ErrorIs(t, err, complaint.ErrUnknownStatus)
}

func TestUpdateStatus_NotifiesReporterWithPush(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)

	user, err := f.store.GetUserByID(ctx, f.citizen.UserID)
	require.NoError(t, err)
	user.Notifications.Push = true
	user.TelegramChatID = 4242
	require.NoError(t, f.store.SaveUser(ctx, user))

	notifier := new(MockNotifier)
	notifier.On("NotifyStatusChange", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.TelegramChatID == 4242
	}), mock.MatchedBy(func(c *models.Complaint) bool {
		return c.Status == models.StatusInProgress
	})).Return(nil).Once()
	f.svc.Notifier = notifier

	c := f.submit(t, f.citizen)
	_, err = f.svc.UpdateStatus(ctx, f.officer, c.ID, models.StatusInProgress)
	require.NoError(t, err)

	notifier.AssertExpectations(t)
}

func TestAddComment(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)
	c := f.submit(t, f.citizen)

	_, err := f.svc.AddComment(ctx, f.officer, c.ID, "   \n\t")
	assert.ErrorIs(t, err, complaint.ErrEmptyComment)
	got, err := f.svc.Get(ctx, f.officer, c.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Comments)

	updated, err := f.svc.AddComment(ctx, f.officer, c.ID, " We are looking into it. ")
	require.NoError(t, err)
	require.Len(t, updated.Comments, 1)
	assert.Equal(t, "We are looking into it.", updated.Comments[0].Text)
	assert.Equal(t, models.AuthorAuthority, updated.Comments[0].AuthorRole)
	assert.Equal(t, "Your comment has been added.", f.svc.Banner(ctx, f.officer, c.ID))

	_, err = f.svc.AddComment(ctx, f.other, c.ID, "not mine")
	assert.ErrorIs(t, err, complaint.ErrForbidden)
}

func TestDashboardAndMarkers(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)

	onMap := validDraft()
	onMap.Location = "Lat: 50.450100, Long: 30.523400"
	onMap.IncidentType = "Noise"
	_, err := f.svc.Submit(ctx, f.citizen, onMap)
	require.NoError(t, err)
	plain := f.submit(t, f.citizen)
	f.submit(t, f.other)
	_, err = f.svc.UpdateStatus(ctx, f.officer, plain.ID, models.StatusInProgress)
	require.NoError(t, err)

	mine, err := f.svc.Dashboard(ctx, f.citizen)
	require.NoError(t, err)
	assert.Equal(t, int64(2), mine.Total)
	assert.Equal(t, int64(1), mine.Counts[models.StatusInProgress])
	assert.Equal(t, int64(0), mine.Counts[models.StatusResolved])
	assert.Len(t, mine.Recent, 2)

	all, err := f.svc.Dashboard(ctx, f.officer)
	require.NoError(t, err)
	assert.Equal(t, int64(3), all.Total)

	markers, err := f.svc.Markers(ctx, f.citizen)
	require.NoError(t, err)
	require.Len(t, markers, 1)
	assert.InDelta(t, 50.4501, markers[0].Lat, 1e-9)
	assert.Equal(t, "#6b7280", markers[0].Color, "unstyled categories use the Other style")
}
