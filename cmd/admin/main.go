// Package main provides account maintenance utilities for SportPulse.
package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"text/tabwriter"

	"sportpulse/internal/config"
	"sportpulse/internal/database"
	"sportpulse/internal/models"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func usage() {
	fmt.Println("Usage:")
	fmt.Println("  go run ./cmd/admin users [role|personal|complete]   - List accounts, optionally by registration step")
	fmt.Println("  go run ./cmd/admin set-role <username> <role>       - Change a user's role")
	fmt.Println("  go run ./cmd/admin reset-profile <username>         - Send a user back through the profile wizard")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	args := os.Args[2:]
	switch os.Args[1] {
	case "users":
		step := ""
		if len(args) > 0 {
			step = args[0]
		}
		err = listUsers(db, os.Stdout, models.RegistrationStep(step))
	case "set-role":
		if len(args) < 2 {
			usage()
			os.Exit(1)
		}
		err = setRole(db, os.Stdout, args[0], models.Role(args[1]))
	case "reset-profile":
		if len(args) < 1 {
			usage()
			os.Exit(1)
		}
		err = resetProfile(db, os.Stdout, args[0])
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func findUser(db *gorm.DB, username string) (*models.User, error) {
	var user models.User
	if err := db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %q not found", username)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &user, nil
}

func listUsers(db *gorm.DB, out io.Writer, step models.RegistrationStep) error {
	var users []models.User
	if err := db.Order("created_at ASC").Find(&users).Error; err != nil {
		return fmt.Errorf("failed to fetch users: %w", err)
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "USERNAME\tEMAIL\tROLE\tSTEP")
	shown := 0
	for _, u := range users {
		if step != "" && u.RegistrationStep != step {
			continue
		}
		role := string(u.Role)
		if role == "" {
			role = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", u.Username, u.Email, role, u.RegistrationStep)
		shown++
	}
	if err := w.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(out, "%d users\n", shown)
	return err
}

func setRole(db *gorm.DB, out io.Writer, username string, role models.Role) error {
	if !role.Valid() {
		return fmt.Errorf("invalid role %q, expected one of %v", role, models.Roles)
	}
	user, err := findUser(db, username)
	if err != nil {
		return err
	}
	if user.Role == role {
		_, err := fmt.Fprintf(out, "%s already has role %s\n", user.Username, role)
		return err
	}
	if err := db.Model(user).Update("role", role).Error; err != nil {
		return fmt.Errorf("failed to update role: %w", err)
	}
	_, err = fmt.Fprintf(out, "Set role of %s to %s\n", user.Username, role)
	return err
}

func resetProfile(db *gorm.DB, out io.Writer, username string) error {
	user, err := findUser(db, username)
	if err != nil {
		return err
	}
	if user.ProfileCompletedAt == nil {
		_, err := fmt.Fprintf(out, "%s has not completed the profile\n", user.Username)
		return err
	}
	if err := db.Model(user).Update("profile_completed_at", nil).Error; err != nil {
		return fmt.Errorf("failed to reset profile: %w", err)
	}
	_, err = fmt.Fprintf(out, "%s will be asked to complete the profile again\n", user.Username)
	return err
}
