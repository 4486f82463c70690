package models_test

import (
	"strings"
	"testing"
	"time"

	"smartalert/backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		raw  string
		want models.Status
		ok   bool
	}{
		{"Pending", models.StatusPending, true},
		{"In Progress", models.StatusInProgress, true},
		{"inProgress", models.StatusInProgress, true},
		{"in_progress", models.StatusInProgress, true},
		{" resolved ", models.StatusResolved, true},
		{"REJECTED", models.StatusRejected, true},
		{"Under Review", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := models.ParseStatus(tt.raw)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStatusTransitions(t *testing.T) {
	assert.True(t, models.StatusPending.CanTransitionTo(models.StatusInProgress))
	assert.True(t, models.StatusPending.CanTransitionTo(models.StatusRejected))
	assert.False(t, models.StatusPending.CanTransitionTo(models.StatusResolved))
	assert.False(t, models.StatusPending.CanTransitionTo(models.StatusPending))

	assert.True(t, models.StatusInProgress.CanTransitionTo(models.StatusResolved))
	assert.True(t, models.StatusInProgress.CanTransitionTo(models.StatusRejected))
	assert.False(t, models.StatusInProgress.CanTransitionTo(models.StatusPending))

	for _, terminal := range []models.Status{models.StatusResolved, models.StatusRejected} {
		assert.True(t, terminal.IsTerminal())
		assert.Empty(t, terminal.NextStatuses())
		for _, next := range models.AllStatuses {
			assert.False(t, terminal.CanTransitionTo(next), "%s must be terminal", terminal)
		}
	}
}

func TestComplaintBeforeCreate(t *testing.T) {
	c := &models.Complaint{Title: "Pothole"}

	assert.NoError(t, c.BeforeCreate(nil))
	assert.True(t, strings.HasPrefix(c.ID, "C-"))
	assert.Equal(t, models.StatusPending, c.Status)

	existing := &models.Complaint{ID: "C-1001", Status: models.StatusResolved}
	assert.NoError(t, existing.BeforeCreate(nil))
	assert.Equal(t, "C-1001", existing.ID)
	assert.Equal(t, models.StatusResolved, existing.Status)
}

func TestNewComplaintID_IsOrdered(t *testing.T) {
	first := models.NewComplaintID()
	second := models.NewComplaintID()

	assert.NotEqual(t, first, second)
	assert.Less(t, first, second, "ids must sort by creation order")
}

func TestComplaintDate(t *testing.T) {
	c := models.Complaint{CreatedAt: time.Date(2023, 7, 15, 9, 30, 0, 0, time.UTC)}
	assert.Equal(t, "2023-07-15", c.Date())
}

func TestParsePriority(t *testing.T) {
	p, ok := models.ParsePriority("high")
	assert.True(t, ok)
	assert.Equal(t, models.PriorityHigh, p)

	_, ok = models.ParsePriority("urgent")
	assert.False(t, ok)
}
