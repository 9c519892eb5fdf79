// Command usercheck inspects and repairs the JSON user store.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"shopassist/internal/repository"
	"shopassist/internal/service"
)

// passwordVariations are tried when the expected password does not match.
var passwordVariations = []string{"admin123", "Admin123", "ADMIN123", "admin", "admin@123"}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	var usersFile string

	root := &cobra.Command{
		Use:           "usercheck",
		Short:         "Diagnose and repair shopping assistant user accounts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.PersistentFlags().StringVarP(&usersFile, "file", "f", envOr("USERS_FILE", "users.json"), "path to the users JSON file")

	root.AddCommand(newDiagnoseCmd(&usersFile), newResetPasswordCmd(&usersFile))
	return root
}

func newDiagnoseCmd(usersFile *string) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "diagnose",
		Short: "Check that a user exists and that a password matches its hash",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return diagnose(cmd.OutOrStdout(), repository.NewUserStore(*usersFile), email, password)
		},
	}
	cmd.Flags().StringVar(&email, "email", "admin@gmail.com", "email of the user to check")
	cmd.Flags().StringVar(&password, "password", "admin123", "password expected to match")
	return cmd
}

func newResetPasswordCmd(usersFile *string) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Replace a user's password hash",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if len(password) < 6 {
				return errors.New("password must be at least 6 characters")
			}
			hash, err := service.HashPassword(password)
			if err != nil {
				return err
			}
			if err := repository.NewUserStore(*usersFile).UpdatePassword(email, hash); err != nil {
				return fmt.Errorf("reset %s: %w", email, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Password updated for %s\n", email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email of the user to update")
	cmd.Flags().StringVar(&password, "password", "", "new password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func diagnose(out io.Writer, store *repository.UserStore, email, password string) error {
	rule := strings.Repeat("=", 60)
	fmt.Fprintln(out, "Diagnosing authentication")
	fmt.Fprintln(out, rule)

	users, err := store.List()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Loaded %s: %d user(s)\n", store.Path(), len(users))

	user, err := store.FindByEmail(email)
	if errors.Is(err, repository.ErrUserNotFound) {
		fmt.Fprintf(out, "\nNo user found with email %s\n", email)
		fmt.Fprintln(out, rule)
		fmt.Fprintln(out, "Delete the users file and restart the server to recreate the default accounts.")
		return err
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "\nUser found:\n")
	fmt.Fprintf(out, "  Name:  %s\n", user.Name)
	fmt.Fprintf(out, "  Email: %s\n", user.Email)
	fmt.Fprintf(out, "  Role:  %s\n", user.Role)

	if service.CheckPassword(user.Password, password) {
		fmt.Fprintf(out, "  Password %q: matches\n", password)
		fmt.Fprintln(out, rule)
		return nil
	}

	fmt.Fprintf(out, "  Password %q: does not match\n", password)
	fmt.Fprintln(out, "\nTrying common variations:")
	for _, v := range passwordVariations {
		if v == password {
			continue
		}
		result := "no"
		if service.CheckPassword(user.Password, v) {
			result = "MATCHES"
		}
		fmt.Fprintf(out, "  %-10s %s\n", v, result)
	}

	fmt.Fprintln(out, rule)
	fmt.Fprintln(out, "Run 'usercheck reset-password --email <email> --password <new>' to set a known password.")
	return fmt.Errorf("password mismatch for %s", email)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
