package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/assesskit/assesskit/internal/guard"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or update the account profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := guard.Require(guard.Requirement{Authenticated: true}, theApp.session); err != nil {
			return err
		}

		ctx, cancel := commandContext(cmd, theApp.cfg.Timeout)
		defer cancel()

		email, _ := cmd.Flags().GetString("email")
		if email != "" {
			p, err := theApp.client.UpdateProfile(ctx, map[string]any{"email": email})
			if err != nil {
				return err
			}
			fmt.Printf("Profile updated; email is now %s\n", p.Email)

			// Keep the stored identity in step with the backend.
			id := theApp.session.Current()
			id.Email = p.Email
			return theApp.session.Login(*id)
		}

		p, err := theApp.client.CurrentProfile(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("ID:     %d\n", p.ID)
		fmt.Printf("Email:  %s\n", p.Email)
		fmt.Printf("Admin:  %v\n", p.Admin())
		return nil
	},
}

func init() {
	profileCmd.Flags().String("email", "", "set a new account email")
	rootCmd.AddCommand(profileCmd)
}
