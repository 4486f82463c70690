package main

import (
	"errors"
	"fmt"
	"time"

	"smartalert/backend/internal/models"
	"smartalert/backend/internal/session"
	"smartalert/backend/internal/storage"

	"github.com/spf13/cobra"
)

type seedComplaint struct {
	id, title, description, category, location string
	status                                     models.Status
	priority                                   models.Priority
	date                                       string
}

var demoComplaints = []seedComplaint{
	{"C-1001", "Water Leakage in Main Street", "Water has been leaking from a pipe under the road for two days.", "Infrastructure", "123 Main St, Cityville", models.StatusPending, models.PriorityHigh, "2023-07-15"},
	{"C-1002", "Traffic Light Malfunction at 5th Avenue", "The signal is stuck on red for all directions.", "Traffic", "5th Ave & Oak St, Cityville", models.StatusInProgress, models.PriorityMedium, "2023-07-14"},
	{"C-1003", "Garbage Collection Missed on Oak Street", "Bins have not been emptied this week.", "Sanitation", "Oak Street, Cityville", models.StatusResolved, models.PriorityLow, "2023-07-12"},
	{"C-1004", "Pothole on Elm Street", "A deep pothole is damaging cars near the school.", "Infrastructure", "456 Elm St, Cityville", models.StatusPending, models.PriorityMedium, "2023-07-15"},
	{"C-1005", "Noise Complaint from Construction Site", "Construction continues past 10 PM every night.", "Noise", "Pine Avenue, Cityville", models.StatusInProgress, models.PriorityLow, "2023-07-13"},
	{"C-1006", "Broken Street Light on Maple Road", "The street is completely dark at night.", "Infrastructure", "Maple Road, Cityville", models.StatusPending, models.PriorityMedium, "2023-07-14"},
}

func init() {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load demo accounts and complaints",
		Run:   runSeed,
	}

	cmd.Flags().String("password", "password", "Password for the demo accounts")

	rootCmd.AddCommand(cmd)
}

func runSeed(cmd *cobra.Command, args []string) {
	password, _ := cmd.Flags().GetString("password")

	s, err := openStorage()
	if err != nil {
		exitErr("open storage", err)
	}
	ctx := cmd.Context()

	hash, err := session.HashPassword(password)
	if err != nil {
		exitErr("hash password", err)
	}

	citizen := &models.User{Name: "John Doe", Email: "john@example.com", Phone: "555-0100", Role: models.RoleUser, PasswordHash: hash}
	officer := &models.User{Name: "Officer Smith", Email: "officer@city.gov", Department: "Public Works", Role: models.RoleAuthority, PasswordHash: hash}
	for _, u := range []*models.User{citizen, officer} {
		existing, err := s.GetUserByEmail(ctx, u.Email)
		switch {
		case err == nil:
			*u = *existing
			fmt.Printf("User %s already exists\n", u.Email)
			continue
		case !errors.Is(err, storage.ErrNotFound):
			exitErr("seed users", err)
		}
		if err := s.SaveUser(ctx, u); err != nil {
			exitErr("seed users", err)
		}
		fmt.Printf("Created %s %s\n", u.Role, u.Email)
	}

	created := 0
	for _, d := range demoComplaints {
		if _, err := s.GetComplaint(ctx, d.id); err == nil {
			continue
		}
		if err := s.CreateComplaint(ctx, d.build(citizen, officer)); err != nil {
			exitErr("seed complaints", err)
		}
		created++
	}
	fmt.Printf("Seeded %d complaints\n", created)
}

// build replays the status history up to d.status so the timeline matches.
func (d seedComplaint) build(citizen, officer *models.User) *models.Complaint {
	at, err := time.Parse("2006-01-02", d.date)
	if err != nil {
		at = time.Now()
	}
	at = at.Add(9 * time.Hour)

	c := &models.Complaint{
		ID:          d.id,
		Title:       d.title,
		Description: d.description,
		Category:    d.category,
		Priority:    d.priority,
		Status:      d.status,
		Location:    d.location,
		SubmittedBy: citizen.Reporter(),
		CreatedAt:   at,
		UpdatedAt:   at,
		Timeline: []models.TimelineEvent{
			{Status: models.StatusPending, By: citizen.Name, ByRole: models.AuthorCitizen, CreatedAt: at},
		},
	}

	var path []models.Status
	switch d.status {
	case models.StatusInProgress:
		path = []models.Status{models.StatusInProgress}
	case models.StatusResolved, models.StatusRejected:
		path = []models.Status{models.StatusInProgress, d.status}
	}
	for i, st := range path {
		when := at.Add(time.Duration(i+1) * 24 * time.Hour)
		c.Timeline = append(c.Timeline, models.TimelineEvent{
			Status: st, By: officer.Name, ByRole: models.AuthorAuthority, CreatedAt: when,
		})
		c.Comments = append(c.Comments, models.Comment{
			Author:     "System",
			AuthorRole: models.AuthorSystem,
			Text:       fmt.Sprintf("Status updated to %q", st),
			IsSystem:   true,
			CreatedAt:  when,
		})
	}
	return c
}
