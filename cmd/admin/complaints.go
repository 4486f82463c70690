package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"smartalert/backend/internal/complaint"
	"smartalert/backend/internal/models"
	"smartalert/backend/internal/storage"

	"github.com/spf13/cobra"
)

func init() {
	list := &cobra.Command{
		Use:   "list",
		Short: "List complaints, newest first",
		Run:   runList,
	}
	list.Flags().StringP("status", "s", "", "Filter by status")
	list.Flags().String("category", "", "Filter by category")
	list.Flags().IntP("limit", "l", 20, "Max results")

	setStatus := &cobra.Command{
		Use:   "set-status <complaint_id> <status>",
		Short: "Move a complaint to a new status",
		Args:  cobra.ExactArgs(2),
		Run:   runSetStatus,
	}
	setStatus.Flags().Bool("force", false, "Allow transitions outside the status workflow")

	rootCmd.AddCommand(list, setStatus)
}

func runList(cmd *cobra.Command, args []string) {
	status, _ := cmd.Flags().GetString("status")
	category, _ := cmd.Flags().GetString("category")
	limit, _ := cmd.Flags().GetInt("limit")

	var filter complaint.FilterState
	if err := filter.Set(complaint.FilterStatus, status); err != nil {
		exitErr("list", err)
	}
	if err := filter.Set(complaint.FilterCategory, category); err != nil {
		exitErr("list", err)
	}

	s, err := openStorage()
	if err != nil {
		exitErr("open storage", err)
	}

	records, err := s.ListComplaints(cmd.Context(), storage.ListParams{})
	if err != nil {
		exitErr("list", err)
	}
	records = complaint.ApplyFilters(records, filter)
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}

	b, _ := json.MarshalIndent(records, "", "  ")
	fmt.Println(string(b))
}

func runSetStatus(cmd *cobra.Command, args []string) {
	force, _ := cmd.Flags().GetBool("force")

	next, ok := models.ParseStatus(args[1])
	if !ok {
		exitErr("set-status", fmt.Errorf("unknown status %q", args[1]))
	}

	s, err := openStorage()
	if err != nil {
		exitErr("open storage", err)
	}

	errAlready := errors.New("already in this status")
	check := func(current models.Status) error {
		if current == next {
			return errAlready
		}
		if !force && !current.CanTransitionTo(next) {
			return fmt.Errorf("%s -> %s is not allowed (use --force)", current, next)
		}
		return nil
	}

	now := time.Now()
	event := &models.TimelineEvent{Status: next, By: "Administrator", ByRole: models.AuthorSystem, CreatedAt: now}
	note := &models.Comment{
		Author:     "System",
		AuthorRole: models.AuthorSystem,
		Text:       fmt.Sprintf("Status updated to %q", next),
		IsSystem:   true,
		CreatedAt:  now,
	}
	from, err := s.UpdateComplaintStatus(cmd.Context(), args[0], next, check, event, note)
	if errors.Is(err, errAlready) {
		fmt.Printf("Complaint %s is already %s\n", args[0], next)
		return
	}
	if err != nil {
		exitErr("set-status", err)
	}
	fmt.Printf("Complaint %s: %s -> %s\n", args[0], from, next)
}
