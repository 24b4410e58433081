package cmd

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/assesskit/assesskit/internal/errors"
	"github.com/assesskit/assesskit/internal/guard"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the assessment platform",
	Long: `Log in with your email and password.

The session token pair is stored in ~/.assesskit/credentials.json and
reused by later commands until it expires or you log out. Expired access
tokens are refreshed automatically.

Examples:
  assesskit login --email admin@example.com
  assesskit login --email admin@example.com --password secret`,
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")

		if email == "" || password == "" {
			if err := promptCredentials(&email, &password); err != nil {
				return err
			}
		}

		ctx, cancel := commandContext(cmd, theApp.cfg.Timeout)
		defer cancel()

		id, err := theApp.client.Login(ctx, email, password)
		if err != nil {
			return err
		}

		fmt.Printf("Logged in as %s", id.Email)
		if id.IsAdmin {
			fmt.Print(" (admin)")
		}
		fmt.Println()
		return nil
	},
}

// promptCredentials asks for whichever of email/password is missing.
func promptCredentials(email, password *string) error {
	var fields []huh.Field
	if *email == "" {
		fields = append(fields, huh.NewInput().
			Title("Email").
			Value(email))
	}
	if *password == "" {
		fields = append(fields, huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(password))
	}
	return huh.NewForm(huh.NewGroup(fields...)).Run()
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and remove stored credentials",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !theApp.session.Authenticated() {
			fmt.Println("Not logged in")
			return nil
		}
		if err := theApp.client.Logout(); err != nil {
			return err
		}
		fmt.Println("Logged out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session",
	RunE: func(cmd *cobra.Command, args []string) error {
		id := theApp.session.Current()
		if id == nil {
			return errors.NewNotLoggedInError()
		}

		fmt.Printf("Email:  %s\n", id.Email)
		role := "respondent"
		if id.IsAdmin {
			role = "admin"
		}
		fmt.Printf("Role:   %s\n", role)

		if exp, err := theApp.session.AccessExpiry(); err == nil && !exp.IsZero() {
			fmt.Printf("Token:  expires %s\n", exp.Local().Format("2006-01-02 15:04:05"))
		}
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new account",
	Long: `Create a new account on the assessment platform.

Registration does not log you in; run 'assesskit login' afterwards.

Examples:
  assesskit register --email me@example.com`,
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")

		if email == "" || password == "" {
			if err := promptCredentials(&email, &password); err != nil {
				return err
			}
		}

		ctx, cancel := commandContext(cmd, theApp.cfg.Timeout)
		defer cancel()

		p, err := theApp.client.Register(ctx, email, password)
		if err != nil {
			return err
		}
		fmt.Printf("Account created for %s. Run 'assesskit login' to sign in.\n", p.Email)
		return nil
	},
}

var passwdCmd = &cobra.Command{
	Use:   "passwd",
	Short: "Change the password of the logged-in account",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := guard.Require(guard.Requirement{Authenticated: true}, theApp.session); err != nil {
			return err
		}

		var current, next string
		err := huh.NewForm(huh.NewGroup(
			huh.NewInput().Title("Current password").EchoMode(huh.EchoModePassword).Value(&current),
			huh.NewInput().Title("New password").EchoMode(huh.EchoModePassword).Value(&next),
		)).Run()
		if err != nil {
			return err
		}

		ctx, cancel := commandContext(cmd, theApp.cfg.Timeout)
		defer cancel()

		if err := theApp.client.ChangePassword(ctx, current, next); err != nil {
			return err
		}
		fmt.Println("Password changed")
		return nil
	},
}

var forgotCmd = &cobra.Command{
	Use:   "forgot <email>",
	Short: "Request a password reset email",
	Long: `Request a password reset email for an account.

The backend sends a reset token to the address. Finish the reset with
the token:

  assesskit forgot me@example.com
  assesskit forgot me@example.com --token abc123`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		email := args[0]
		token, _ := cmd.Flags().GetString("token")

		ctx, cancel := commandContext(cmd, theApp.cfg.Timeout)
		defer cancel()

		if token == "" {
			if err := theApp.client.RequestPasswordReset(ctx, email); err != nil {
				return err
			}
			fmt.Println("If the address exists, a reset email is on its way")
			return nil
		}

		var next string
		err := huh.NewForm(huh.NewGroup(
			huh.NewInput().Title("New password").EchoMode(huh.EchoModePassword).Value(&next),
		)).Run()
		if err != nil {
			return err
		}
		if err := theApp.client.ConfirmPasswordReset(ctx, token, next); err != nil {
			return err
		}
		fmt.Println("Password reset. Run 'assesskit login' to sign in.")
		return nil
	},
}

func init() {
	loginCmd.Flags().String("email", "", "account email")
	loginCmd.Flags().String("password", "", "account password (prompted when omitted)")
	registerCmd.Flags().String("email", "", "account email")
	registerCmd.Flags().String("password", "", "account password (prompted when omitted)")

	forgotCmd.Flags().String("token", "", "reset token from the email")

	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd, registerCmd, passwdCmd, forgotCmd)
}
