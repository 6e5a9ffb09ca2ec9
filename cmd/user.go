package cmd

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vibast-solutions/ms-go-contacts/app/repository"
	"github.com/vibast-solutions/ms-go-contacts/app/service"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage user accounts",
}

var userConfirmCmd = &cobra.Command{
	Use:   "confirm <email>",
	Short: "Confirm a user account without a mailed token",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		userRepo, db, err := newUserRepoForUserCommands()
		if err != nil {
			return err
		}
		defer db.Close()

		email := service.NormalizeEmail(args[0])
		user, err := userRepo.FindByEmail(context.Background(), email)
		if err != nil {
			return err
		}
		if user == nil {
			return fmt.Errorf("no account for %q", email)
		}
		if user.IsConfirmed {
			fmt.Printf("account %s is already confirmed\n", email)
			return nil
		}

		if err := userRepo.ConfirmEmail(context.Background(), email); err != nil {
			return err
		}

		fmt.Printf("account %s confirmed\n", email)
		return nil
	},
}

func init() {
	userCmd.AddCommand(userConfirmCmd)
	rootCmd.AddCommand(userCmd)
}

func newUserRepoForUserCommands() (*repository.UserRepository, *sql.DB, error) {
	_ = godotenv.Load()

	dsn := strings.TrimSpace(os.Getenv("MYSQL_DSN"))
	if dsn == "" {
		return nil, nil, errors.New("MYSQL_DSN environment variable is required")
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, nil, err
	}
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, nil, err
	}

	return repository.NewUserRepository(db), db, nil
}
