// Package cli implements the maintenance subcommands of the server binary.
package cli

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/mrlokans/attendance/internal/config"
	"github.com/mrlokans/attendance/internal/database"
	"github.com/mrlokans/attendance/internal/database/users"
)

// CleanupUsersCommand deletes every account except the named admin.
// Intended for resetting shared demo or staging deployments.
type CleanupUsersCommand struct {
	AdminEmail string
	Yes        bool
}

// NewCleanupUsersCommand creates a new CleanupUsersCommand.
func NewCleanupUsersCommand() *CleanupUsersCommand {
	return &CleanupUsersCommand{}
}

// ParseFlags parses command line flags
func (cmd *CleanupUsersCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("cleanup-users", flag.ExitOnError)

	fs.StringVar(&cmd.AdminEmail, "admin-email", "admin@example.com", "Email of the account to keep")
	fs.BoolVar(&cmd.Yes, "yes", false, "Skip the confirmation prompt")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s cleanup-users [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Delete all users except the main admin account.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

// Run executes the cleanup command
func (cmd *CleanupUsersCommand) Run() error {
	cfg, err := config.NewConfig()
	if err != nil {
		return err
	}

	db, err := database.NewDatabase(cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	repo := users.NewRepository(db.DB)

	total, err := repo.Count()
	if err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if total == 0 {
		fmt.Println("No users to delete.")
		return nil
	}

	if !cmd.Yes {
		fmt.Printf("This will delete all users except %s. Are you sure? (yes/no): ", cmd.AdminEmail)
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		if strings.TrimSpace(strings.ToLower(answer)) != "yes" {
			fmt.Println("Operation cancelled.")
			return nil
		}
	}

	deleted, err := repo.DeleteAllExcept(cmd.AdminEmail)
	if err != nil {
		return fmt.Errorf("failed to delete users: %w", err)
	}

	fmt.Printf("Successfully deleted %d users.\n", deleted)
	return nil
}
