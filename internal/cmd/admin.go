package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/assesskit/assesskit/internal/api"
	"github.com/assesskit/assesskit/internal/assessment"
	"github.com/assesskit/assesskit/internal/guard"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Manage assessments, questions, choices, and users",
	Long: `Manage the assessment platform. All admin subcommands require a
logged-in account with admin rights.

Subcommands:
  assessments  Create, update, and delete assessments
  questions    Create, update, and delete questions
  choices      Create, update, and delete choices
  users        List and update user accounts

Examples:
  assesskit admin assessments create --title "Operations Review"
  assesskit admin questions create 3 --text "Describe your process" --type text --required
  assesskit admin users list`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Root's PersistentPreRunE is shadowed by this one; wire the
		// app first, then apply the admin gate.
		if err := rootCmd.PersistentPreRunE(cmd, args); err != nil {
			return err
		}
		return guard.Require(guard.Requirement{Admin: true}, theApp.session)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var adminAssessmentsCmd = &cobra.Command{
	Use:   "assessments",
	Short: "Manage assessments",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var adminAssessmentsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an assessment",
	RunE: func(cmd *cobra.Command, args []string) error {
		draft, err := assessmentDraftFromFlags(cmd)
		if err != nil {
			return err
		}

		ctx, cancel := commandContext(cmd, theApp.cfg.Timeout)
		defer cancel()

		a, err := theApp.client.CreateAssessment(ctx, draft)
		if err != nil {
			return err
		}
		fmt.Printf("Created assessment #%d %q\n", a.ID, a.Title)
		return nil
	},
}

var adminAssessmentsUpdateCmd = &cobra.Command{
	Use:   "update <assessment-id>",
	Short: "Update an assessment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		draft, err := assessmentDraftFromFlags(cmd)
		if err != nil {
			return err
		}

		ctx, cancel := commandContext(cmd, theApp.cfg.Timeout)
		defer cancel()

		a, err := theApp.client.UpdateAssessment(ctx, id, draft)
		if err != nil {
			return err
		}
		fmt.Printf("Updated assessment #%d %q\n", a.ID, a.Title)
		return nil
	},
}

var adminAssessmentsDeleteCmd = &cobra.Command{
	Use:   "delete <assessment-id>",
	Short: "Delete an assessment and everything under it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		ctx, cancel := commandContext(cmd, theApp.cfg.Timeout)
		defer cancel()

		if err := theApp.client.DeleteAssessment(ctx, id); err != nil {
			return err
		}
		fmt.Printf("Deleted assessment #%d\n", id)
		return nil
	},
}

func assessmentDraftFromFlags(cmd *cobra.Command) (api.AssessmentDraft, error) {
	title, _ := cmd.Flags().GetString("title")
	if title == "" {
		return api.AssessmentDraft{}, fmt.Errorf("--title is required")
	}
	description, _ := cmd.Flags().GetString("description")
	limit, _ := cmd.Flags().GetInt("time-limit")
	return api.AssessmentDraft{
		Title:            title,
		Description:      description,
		TimeLimitMinutes: limit,
	}, nil
}

var adminQuestionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "Manage questions",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var adminQuestionsListCmd = &cobra.Command{
	Use:   "list <assessment-id>",
	Short: "List an assessment's questions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		assessmentID, err := parseID(args[0])
		if err != nil {
			return err
		}

		ctx, cancel := commandContext(cmd, theApp.cfg.Timeout)
		defer cancel()

		questions, err := theApp.client.ListQuestions(ctx, assessmentID)
		if err != nil {
			return err
		}
		for _, q := range questions {
			fmt.Println(questionSummary(q))
		}
		return nil
	},
}

var adminQuestionsCreateCmd = &cobra.Command{
	Use:   "create <assessment-id>",
	Short: "Add a question to an assessment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		assessmentID, err := parseID(args[0])
		if err != nil {
			return err
		}
		draft, err := questionDraftFromFlags(cmd)
		if err != nil {
			return err
		}
		draft.Assessment = assessmentID

		ctx, cancel := commandContext(cmd, theApp.cfg.Timeout)
		defer cancel()

		q, err := theApp.client.CreateQuestion(ctx, draft)
		if err != nil {
			return err
		}
		fmt.Println("Created question", questionSummary(*q))
		return nil
	},
}

var adminQuestionsUpdateCmd = &cobra.Command{
	Use:   "update <question-id>",
	Short: "Update a question",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		draft, err := questionDraftFromFlags(cmd)
		if err != nil {
			return err
		}
		assessmentID, _ := cmd.Flags().GetInt("assessment")
		draft.Assessment = assessmentID

		ctx, cancel := commandContext(cmd, theApp.cfg.Timeout)
		defer cancel()

		q, err := theApp.client.UpdateQuestion(ctx, id, draft)
		if err != nil {
			return err
		}
		fmt.Println("Updated question", questionSummary(*q))
		return nil
	},
}

var adminQuestionsDeleteCmd = &cobra.Command{
	Use:   "delete <question-id>",
	Short: "Delete a question and its choices",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		ctx, cancel := commandContext(cmd, theApp.cfg.Timeout)
		defer cancel()

		if err := theApp.client.DeleteQuestion(ctx, id); err != nil {
			return err
		}
		fmt.Printf("Deleted question #%d\n", id)
		return nil
	},
}

func questionDraftFromFlags(cmd *cobra.Command) (api.QuestionDraft, error) {
	text, _ := cmd.Flags().GetString("text")
	if text == "" {
		return api.QuestionDraft{}, fmt.Errorf("--text is required")
	}
	typeStr, _ := cmd.Flags().GetString("type")
	qType := assessment.QuestionType(typeStr)
	if !qType.Valid() {
		return api.QuestionDraft{}, fmt.Errorf("invalid question type %q (text, multiple_choice, checkbox, scale)", typeStr)
	}
	required, _ := cmd.Flags().GetBool("required")
	order, _ := cmd.Flags().GetInt("order")
	return api.QuestionDraft{
		Text:     text,
		Type:     qType,
		Required: required,
		Order:    order,
	}, nil
}

var adminChoicesCmd = &cobra.Command{
	Use:   "choices",
	Short: "Manage choices",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var adminChoicesCreateCmd = &cobra.Command{
	Use:   "create <question-id>",
	Short: "Add a choice to a question",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		questionID, err := parseID(args[0])
		if err != nil {
			return err
		}
		text, _ := cmd.Flags().GetString("text")
		value, _ := cmd.Flags().GetString("value")
		order, _ := cmd.Flags().GetInt("order")
		if text == "" || value == "" {
			return fmt.Errorf("--text and --value are required")
		}

		ctx, cancel := commandContext(cmd, theApp.cfg.Timeout)
		defer cancel()

		c, err := theApp.client.CreateChoice(ctx, api.ChoiceDraft{
			Question: questionID,
			Text:     text,
			Value:    value,
			Order:    order,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Created choice #%d %q\n", c.ID, c.Text)
		return nil
	},
}

var adminChoicesUpdateCmd = &cobra.Command{
	Use:   "update <choice-id>",
	Short: "Update a choice",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		questionID, _ := cmd.Flags().GetInt("question")
		text, _ := cmd.Flags().GetString("text")
		value, _ := cmd.Flags().GetString("value")
		order, _ := cmd.Flags().GetInt("order")
		if text == "" || value == "" {
			return fmt.Errorf("--text and --value are required")
		}

		ctx, cancel := commandContext(cmd, theApp.cfg.Timeout)
		defer cancel()

		c, err := theApp.client.UpdateChoice(ctx, id, api.ChoiceDraft{
			Question: questionID,
			Text:     text,
			Value:    value,
			Order:    order,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Updated choice #%d %q\n", c.ID, c.Text)
		return nil
	},
}

var adminChoicesDeleteCmd = &cobra.Command{
	Use:   "delete <choice-id>",
	Short: "Delete a choice",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		ctx, cancel := commandContext(cmd, theApp.cfg.Timeout)
		defer cancel()

		if err := theApp.client.DeleteChoice(ctx, id); err != nil {
			return err
		}
		fmt.Printf("Deleted choice #%d\n", id)
		return nil
	},
}

var adminUsersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage user accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var adminUsersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List user accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd, theApp.cfg.Timeout)
		defer cancel()

		users, err := theApp.client.ListUsers(ctx)
		if err != nil {
			return err
		}
		for _, u := range users {
			flags := ""
			if u.IsAdmin || u.IsStaff {
				flags += " admin"
			}
			if !u.IsActive {
				flags += " inactive"
			}
			fmt.Printf("#%-4d %-30s%s\n", u.ID, u.Email, flags)
		}
		return nil
	},
}

var adminUsersShowCmd = &cobra.Command{
	Use:   "show <user-id>",
	Short: "Show a user account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		ctx, cancel := commandContext(cmd, theApp.cfg.Timeout)
		defer cancel()

		u, err := theApp.client.GetUser(ctx, id)
		if err != nil {
			return err
		}
		fmt.Printf("#%d %s\n", u.ID, u.Email)
		fmt.Printf("admin: %v  staff: %v  active: %v\n", u.IsAdmin, u.IsStaff, u.IsActive)
		return nil
	},
}

var adminUsersUpdateCmd = &cobra.Command{
	Use:   "update <user-id>",
	Short: "Update a user account's flags",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		fields := userFieldsFromFlags(cmd)
		if len(fields) == 0 {
			return fmt.Errorf("nothing to update; pass --admin, --staff, or --active")
		}

		ctx, cancel := commandContext(cmd, theApp.cfg.Timeout)
		defer cancel()

		u, err := theApp.client.UpdateUser(ctx, id, fields)
		if err != nil {
			return err
		}
		fmt.Printf("Updated user #%d %s\n", u.ID, u.Email)
		return nil
	},
}

var adminUsersPromoteCmd = &cobra.Command{
	Use:   "promote <user-id>",
	Short: "Grant a user admin rights",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		ctx, cancel := commandContext(cmd, theApp.cfg.Timeout)
		defer cancel()

		u, err := theApp.client.UpdateUser(ctx, id, map[string]any{"is_admin": true})
		if err != nil {
			return err
		}
		fmt.Printf("Promoted user #%d %s to admin\n", u.ID, u.Email)
		return nil
	},
}

var adminUsersDeleteCmd = &cobra.Command{
	Use:   "delete <user-id>",
	Short: "Delete a user account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		ctx, cancel := commandContext(cmd, theApp.cfg.Timeout)
		defer cancel()

		if err := theApp.client.DeleteUser(ctx, id); err != nil {
			return err
		}
		fmt.Printf("Deleted user #%d\n", id)
		return nil
	},
}

var adminUsersBulkCmd = &cobra.Command{
	Use:   "bulk-update <user-id>...",
	Short: "Apply the same flag changes to several accounts",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids := make([]int, 0, len(args))
		for _, arg := range args {
			id, err := parseID(arg)
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}
		fields := userFieldsFromFlags(cmd)
		if len(fields) == 0 {
			return fmt.Errorf("nothing to update; pass --admin, --staff, or --active")
		}

		ctx, cancel := commandContext(cmd, theApp.cfg.Timeout)
		defer cancel()

		if err := theApp.client.BulkUpdateUsers(ctx, ids, fields); err != nil {
			return err
		}
		fmt.Printf("Updated %d users\n", len(ids))
		return nil
	},
}

// userFieldsFromFlags collects only the flags the caller actually set,
// so an omitted flag never overwrites the stored value.
func userFieldsFromFlags(cmd *cobra.Command) map[string]any {
	fields := map[string]any{}
	for flag, field := range map[string]string{
		"admin":  "is_admin",
		"staff":  "is_staff",
		"active": "is_active",
	} {
		if cmd.Flags().Changed(flag) {
			v, _ := cmd.Flags().GetBool(flag)
			fields[field] = v
		}
	}
	return fields
}

func init() {
	for _, c := range []*cobra.Command{adminAssessmentsCreateCmd, adminAssessmentsUpdateCmd} {
		c.Flags().String("title", "", "assessment title")
		c.Flags().String("description", "", "assessment description")
		c.Flags().Int("time-limit", 0, "time limit in minutes (0 = none)")
	}
	adminAssessmentsCmd.AddCommand(adminAssessmentsCreateCmd, adminAssessmentsUpdateCmd, adminAssessmentsDeleteCmd)

	for _, c := range []*cobra.Command{adminQuestionsCreateCmd, adminQuestionsUpdateCmd} {
		c.Flags().String("text", "", "question text")
		c.Flags().String("type", "text", "question type (text, multiple_choice, checkbox, scale)")
		c.Flags().Bool("required", false, "require an answer")
		c.Flags().Int("order", 0, "display order")
	}
	adminQuestionsUpdateCmd.Flags().Int("assessment", 0, "owning assessment id")
	adminQuestionsCmd.AddCommand(adminQuestionsListCmd, adminQuestionsCreateCmd, adminQuestionsUpdateCmd, adminQuestionsDeleteCmd)

	for _, c := range []*cobra.Command{adminChoicesCreateCmd, adminChoicesUpdateCmd} {
		c.Flags().String("text", "", "choice label shown to respondents")
		c.Flags().String("value", "", "choice token stored as the answer")
		c.Flags().Int("order", 0, "display order")
	}
	adminChoicesUpdateCmd.Flags().Int("question", 0, "owning question id")
	adminChoicesCmd.AddCommand(adminChoicesCreateCmd, adminChoicesUpdateCmd, adminChoicesDeleteCmd)

	for _, c := range []*cobra.Command{adminUsersUpdateCmd, adminUsersBulkCmd} {
		c.Flags().Bool("admin", false, "grant or revoke admin rights")
		c.Flags().Bool("staff", false, "grant or revoke staff rights")
		c.Flags().Bool("active", false, "activate or deactivate the account")
	}
	adminUsersCmd.AddCommand(adminUsersListCmd, adminUsersShowCmd, adminUsersUpdateCmd, adminUsersPromoteCmd, adminUsersDeleteCmd, adminUsersBulkCmd)

	adminCmd.AddCommand(adminAssessmentsCmd, adminQuestionsCmd, adminChoicesCmd, adminUsersCmd)
	rootCmd.AddCommand(adminCmd)
}
