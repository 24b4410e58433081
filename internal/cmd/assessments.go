package cmd

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/assesskit/assesskit/internal/assessment"
	"github.com/assesskit/assesskit/internal/errors"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available assessments",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd, theApp.cfg.Timeout)
		defer cancel()

		assessments, err := theApp.client.ListAssessments(ctx)
		if err != nil {
			return err
		}
		if len(assessments) == 0 {
			fmt.Println("No assessments available")
			return nil
		}

		title := lipgloss.NewStyle().Bold(true)
		muted := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
		for _, a := range assessments {
			fmt.Printf("%s  %s\n", muted.Render(fmt.Sprintf("#%-3d", a.ID)), title.Render(a.Title))
			if a.Description != "" {
				fmt.Printf("      %s\n", muted.Render(a.Description))
			}
			meta := fmt.Sprintf("%d questions", len(a.Questions))
			if a.TimeLimitMinutes > 0 {
				meta += fmt.Sprintf(" • %d minute limit", a.TimeLimitMinutes)
			}
			fmt.Printf("      %s\n", muted.Render(meta))
		}
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <assessment-id>",
	Short: "Show an assessment's questions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		ctx, cancel := commandContext(cmd, theApp.cfg.Timeout)
		defer cancel()

		a, err := theApp.client.GetAssessment(ctx, id)
		if err != nil {
			return err
		}

		fmt.Printf("%s (#%d)\n", a.Title, a.ID)
		if a.Description != "" {
			fmt.Println(a.Description)
		}
		if a.TimeLimitMinutes > 0 {
			fmt.Printf("Time limit: %d minutes\n", a.TimeLimitMinutes)
		}
		fmt.Println()

		for i, q := range a.Questions {
			required := ""
			if q.Required {
				required = " *"
			}
			fmt.Printf("%2d. %s%s  [%s]\n", i+1, q.Text, required, q.Type)
			if q.Type.HasChoices() {
				for _, c := range q.Choices {
					fmt.Printf("      - %s\n", c.Text)
				}
			}
		}
		return nil
	},
}

// parseID converts a positional id argument.
func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, errors.New(errors.ErrCodeAPIRequest, fmt.Sprintf("invalid assessment id %q", s)).
			WithSuggestion("Run 'assesskit list' to see available assessments")
	}
	return id, nil
}

// questionSummary is shared by show and admin question listings.
func questionSummary(q assessment.Question) string {
	s := fmt.Sprintf("#%d %s [%s]", q.ID, q.Text, q.Type)
	if q.Required {
		s += " required"
	}
	return s
}

func init() {
	rootCmd.AddCommand(listCmd, showCmd)
}
