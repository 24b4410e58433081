package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/assesskit/assesskit/internal/assessment"
	"github.com/assesskit/assesskit/internal/guard"
	"github.com/assesskit/assesskit/internal/stats"
)

var resultsCmd = &cobra.Command{
	Use:   "results [assessment-id]",
	Short: "List submitted responses (admin)",
	Long: `List submitted responses, newest last. With an assessment id only
that assessment's responses are shown.

Examples:
  assesskit results
  assesskit results 3
  assesskit results 3 --answers
  assesskit results --response 17`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := guard.Require(guard.Requirement{Admin: true}, theApp.session); err != nil {
			return err
		}

		assessmentID := 0
		if len(args) == 1 {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			assessmentID = id
		}
		showAnswers, _ := cmd.Flags().GetBool("answers")
		responseID, _ := cmd.Flags().GetInt("response")

		ctx, cancel := commandContext(cmd, theApp.cfg.Timeout)
		defer cancel()

		if responseID != 0 {
			r, err := theApp.client.GetResponse(ctx, responseID)
			if err != nil {
				return err
			}
			printResponse(*r, true)
			return nil
		}

		responses, err := theApp.client.ListResponses(ctx, assessmentID)
		if err != nil {
			return err
		}
		if len(responses) == 0 {
			fmt.Println("No responses yet")
			return nil
		}

		for _, r := range responses {
			printResponse(r, showAnswers)
		}
		return nil
	},
}

func printResponse(r assessment.Response, showAnswers bool) {
	when := ""
	if !r.SubmittedAt.IsZero() {
		when = r.SubmittedAt.Local().Format("2006-01-02 15:04")
	}
	fmt.Printf("#%-4d assessment %-3d %-30s %s\n", r.ID, r.Assessment, r.RespondentEmail, when)
	if showAnswers {
		for _, a := range r.Answers {
			fmt.Printf("        q%-3d %s\n", a.Question, a.AnswerText)
		}
	}
}

var statsCmd = &cobra.Command{
	Use:   "stats <assessment-id>",
	Short: "Show response statistics for an assessment (admin)",
	Long: `Show the response rollup for an assessment: totals, completion rate,
per-choice distributions, and scale averages.

By default the backend's precomputed rollup is shown. With --local the
raw responses are fetched and aggregated client-side instead, which is
useful for checking the two views against each other.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := guard.Require(guard.Requirement{Admin: true}, theApp.session); err != nil {
			return err
		}

		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		local, _ := cmd.Flags().GetBool("local")

		ctx, cancel := commandContext(cmd, theApp.cfg.Timeout)
		defer cancel()

		var report *stats.Report
		if local {
			a, err := theApp.client.GetAssessment(ctx, id)
			if err != nil {
				return err
			}
			responses, err := theApp.client.ListResponses(ctx, id)
			if err != nil {
				return err
			}
			r := stats.Aggregate(a, responses)
			report = &r
		} else {
			report, err = theApp.client.GetAssessmentStats(ctx, id)
			if err != nil {
				return err
			}
		}

		printReport(report)
		return nil
	},
}

func printReport(r *stats.Report) {
	fmt.Printf("%s (#%d)\n", r.Title, r.Assessment)
	fmt.Printf("Responses:  %d\n", r.TotalResponses)
	fmt.Printf("Completion: %.0f%%\n\n", r.CompletionRate*100)

	for _, q := range r.Questions {
		fmt.Printf("%s\n", q.Text)
		fmt.Printf("  answered: %d", q.Answered)
		if q.Type == assessment.QuestionTypeScale && q.Answered > 0 {
			fmt.Printf("  average: %.1f", q.Average)
		}
		fmt.Println()

		if len(q.Distribution) > 0 {
			tokens := make([]string, 0, len(q.Distribution))
			for tok := range q.Distribution {
				tokens = append(tokens, tok)
			}
			sort.Slice(tokens, func(i, j int) bool {
				if q.Distribution[tokens[i]] != q.Distribution[tokens[j]] {
					return q.Distribution[tokens[i]] > q.Distribution[tokens[j]]
				}
				return tokens[i] < tokens[j]
			})
			for _, tok := range tokens {
				fmt.Printf("  %-24s %d\n", tok, q.Distribution[tok])
			}
		}
		fmt.Println()
	}
}

func init() {
	resultsCmd.Flags().Bool("answers", false, "include individual answers")
	resultsCmd.Flags().Int("response", 0, "show a single response by id")
	statsCmd.Flags().Bool("local", false, "aggregate raw responses client-side")
	rootCmd.AddCommand(resultsCmd, statsCmd)
}
