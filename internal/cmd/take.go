package cmd

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/assesskit/assesskit/internal/assessment"
	"github.com/assesskit/assesskit/internal/autosave"
	"github.com/assesskit/assesskit/internal/form"
	"github.com/assesskit/assesskit/internal/resume"
	"github.com/assesskit/assesskit/internal/tui"
)

var takeCmd = &cobra.Command{
	Use:   "take <assessment-id>",
	Short: "Take an assessment in the interactive wizard",
	Long: `Take an assessment in a step-by-step wizard.

Your answers are saved automatically a moment after each edit, keyed by
the email you enter on the first step. If a saved draft exists for that
email you can resume where you left off (or the draft is restored
automatically when hydrate_policy is set to "auto").

Time-limited assessments show a countdown; running out of time does not
discard your answers.

Examples:
  assesskit take 3
  assesskit take 3 --email ceo@example.com`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		email, _ := cmd.Flags().GetString("email")

		ctx, cancel := commandContext(cmd, theApp.cfg.Timeout)
		a, err := theApp.client.GetAssessment(ctx, id)
		cancel()
		if err != nil {
			return err
		}

		policy, err := resume.ParsePolicy(theApp.cfg.HydratePolicy)
		if err != nil {
			return err
		}
		resolver := resume.NewResolver(theApp.client.FindPartial, policy)

		// With --email the draft lookup happens before the wizard
		// starts; otherwise it runs right after the email step.
		var match *resume.Match
		sessionOpts := []form.Option{}
		if email != "" {
			sessionOpts = append(sessionOpts, form.WithEmail(email))

			ctx, cancel := commandContext(cmd, theApp.cfg.Timeout)
			match, err = resolver.Resolve(ctx, id, email)
			cancel()
			if err != nil {
				return err
			}
			if match != nil && match.AutoHydrate {
				sessionOpts = append(sessionOpts, form.WithSavedAnswers(match.Partial.Answers))
			}
		}

		session, err := form.NewSession(a, sessionOpts...)
		if err != nil {
			return err
		}

		persist := func(ctx context.Context, partialID int, d autosave.Draft) (int, error) {
			return theApp.client.SavePartial(ctx, partialID, assessment.PartialResponse{
				Assessment:      d.Assessment,
				RespondentEmail: d.Email,
				Answers:         d.Answers,
			})
		}
		saverOpts := []autosave.Option{
			autosave.WithDebounce(theApp.cfg.AutosaveDebounce),
			autosave.WithLogger(theApp.log),
		}
		if match != nil {
			saverOpts = append(saverOpts, autosave.WithPartialID(match.Partial.ID))
		}
		saver := autosave.NewCoordinator(persist, saverOpts...)

		model, err := tui.NewWizard(tui.WizardOptions{
			Session:  session,
			Saver:    saver,
			Match:    match,
			Resolver: resolver,
			Submit: func(ctx context.Context, sub assessment.Submission) error {
				_, err := theApp.client.SubmitResponse(ctx, sub)
				return err
			},
		})
		if err != nil {
			return err
		}

		program := tea.NewProgram(model, tea.WithContext(cmd.Context()))
		final, err := program.Run()
		if err != nil {
			return err
		}

		if m, ok := final.(*tui.WizardModel); ok {
			switch {
			case m.Submitted():
				// The draft row is no longer needed once the real
				// submission landed; a stale draft would resurface on
				// the next take.
				if pid := saver.PartialID(); pid != 0 {
					ctx, cancel := commandContext(cmd, theApp.cfg.Timeout)
					if err := theApp.client.DeletePartial(ctx, pid); err != nil {
						theApp.log.WithError(err).Debug("could not remove saved draft")
					}
					cancel()
				}
				fmt.Println("Responses submitted. Thank you!")
			case m.Quitting():
				if msg := quitMessage(saver); msg != "" {
					fmt.Println(msg)
				}
			}
		}
		return nil
	},
}

// quitMessage describes what a bailed-out respondent left behind.
// Nothing prints when nothing was ever persisted.
func quitMessage(saver *autosave.Coordinator) string {
	if saver.PartialID() != 0 || !saver.LastSaved().IsZero() {
		return "Progress saved. Run the same command to resume."
	}
	return ""
}

func init() {
	takeCmd.Flags().String("email", "", "respondent email (skips the first wizard step)")
	rootCmd.AddCommand(takeCmd)
}
