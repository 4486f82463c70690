package main

import (
	"fmt"
	"strings"

	"smartalert/backend/internal/models"
	"smartalert/backend/internal/session"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "create-user <email> <password>",
		Short: "Create a citizen or authority account",
		Args:  cobra.ExactArgs(2),
		Run:   runCreateUser,
	}

	cmd.Flags().StringP("name", "n", "", "Display name (default: the email)")
	cmd.Flags().StringP("role", "r", string(models.RoleUser), "Role: User or Authority")
	cmd.Flags().String("department", "", "Department, for authorities")
	cmd.Flags().String("phone", "", "Phone number")

	rootCmd.AddCommand(cmd)
}

func runCreateUser(cmd *cobra.Command, args []string) {
	name, _ := cmd.Flags().GetString("name")
	roleRaw, _ := cmd.Flags().GetString("role")
	department, _ := cmd.Flags().GetString("department")
	phone, _ := cmd.Flags().GetString("phone")

	role := models.ParseRole(roleRaw)
	if role == models.RoleGuest {
		exitErr("create-user", fmt.Errorf("unknown role %q", roleRaw))
	}

	email := strings.ToLower(strings.TrimSpace(args[0]))
	if name == "" {
		name = email
	}

	s, err := openStorage()
	if err != nil {
		exitErr("open storage", err)
	}

	hash, err := session.HashPassword(args[1])
	if err != nil {
		exitErr("hash password", err)
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		Phone:        phone,
		Department:   department,
		Role:         role,
		PasswordHash: hash,
	}
	if err := s.SaveUser(cmd.Context(), user); err != nil {
		exitErr("create-user", err)
	}
	fmt.Printf("Created %s %s (%s)\n", user.Role, user.Email, user.ID)
}
