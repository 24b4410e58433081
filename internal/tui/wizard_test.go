package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assesskit/assesskit/internal/assessment"
	"github.com/assesskit/assesskit/internal/autosave"
	"github.com/assesskit/assesskit/internal/form"
	"github.com/assesskit/assesskit/internal/resume"
)

func wizardAssessment() *assessment.Assessment {
	return &assessment.Assessment{
		ID:          42,
		Title:       "Operations Review",
		Description: "Tell us how your business runs.",
		Questions: []assessment.Question{
			{ID: 1, Text: "Describe your process", Type: assessment.QuestionTypeText, Required: true},
			{ID: 2, Text: "Which tools do you use?", Type: assessment.QuestionTypeCheckbox,
				Choices: []assessment.Choice{
					{Value: "crm", Text: "CRM"},
					{Value: "erp", Text: "ERP"},
				}},
			{ID: 3, Text: "We plan a year ahead", Type: assessment.QuestionTypeScale},
		},
	}
}

func noopSubmit(ctx context.Context, sub assessment.Submission) error { return nil }

func newWizard(t *testing.T, opts WizardOptions) *WizardModel {
	t.Helper()
	if opts.Session == nil {
		s, err := form.NewSession(wizardAssessment())
		require.NoError(t, err)
		opts.Session = s
	}
	if opts.Submit == nil {
		opts.Submit = noopSubmit
	}
	m, err := NewWizard(opts)
	require.NoError(t, err)
	t.Cleanup(m.stopTimers)
	return m
}

func TestNewWizardRequiresSessionAndSubmit(t *testing.T) {
	_, err := NewWizard(WizardOptions{Submit: noopSubmit})
	assert.Error(t, err)

	s, _ := form.NewSession(wizardAssessment())
	_, err = NewWizard(WizardOptions{Session: s})
	assert.Error(t, err)
}

func TestWizardOpensOnInfoStep(t *testing.T) {
	m := newWizard(t, WizardOptions{})

	assert.Equal(t, phaseStep, m.phase)
	assert.Nil(t, m.countdown, "no countdown without a time limit")
	require.NotNil(t, m.form)
	assert.True(t, m.session.CurrentStep().Info, "the wizard starts on the respondent info step")

	// The header renders before the form is driven by the program.
	assert.Contains(t, m.View(), "Operations Review")
}

func TestWizardOpensOnResumePrompt(t *testing.T) {
	s, _ := form.NewSession(wizardAssessment())
	match := &resume.Match{
		Partial: &assessment.PartialResponse{
			ID:              7,
			Assessment:      42,
			RespondentEmail: "ceo@example.com",
			Answers:         []assessment.WireAnswer{{Question: 1, AnswerText: "draft"}},
			UpdatedAt:       time.Now(),
		},
	}

	m := newWizard(t, WizardOptions{Session: s, Match: match})
	assert.Equal(t, phaseResume, m.phase)
	require.NotNil(t, m.form)
	assert.True(t, m.restore, "the prompt defaults to resuming")
}

func TestWizardAutoHydratedSkipsPrompt(t *testing.T) {
	match := &resume.Match{
		Partial: &assessment.PartialResponse{
			Answers: []assessment.WireAnswer{{Question: 1, AnswerText: "draft"}},
		},
		AutoHydrate: true,
	}
	s, _ := form.NewSession(wizardAssessment(), match.Options()...)

	m := newWizard(t, WizardOptions{Session: s, Match: match})
	assert.Equal(t, phaseStep, m.phase)
}

func TestWizardStartsCountdownForTimeLimit(t *testing.T) {
	a := wizardAssessment()
	a.TimeLimitMinutes = 30
	s, _ := form.NewSession(a)

	m := newWizard(t, WizardOptions{Session: s})
	require.NotNil(t, m.countdown)
	assert.Contains(t, m.View(), "remaining")
}

func TestWriteBackStagedValues(t *testing.T) {
	m := newWizard(t, WizardOptions{})

	// info step writes the email
	m.emailVal = "  ceo@example.com "
	m.writeBack()
	assert.Equal(t, "ceo@example.com", m.session.Email())

	// question step writes staged answers through to the session
	m.session.Advance()
	m.buildStepForm()
	require.Len(t, m.stage, 3)

	m.stage[0].text = "we iterate weekly"
	m.stage[1].tokens = []string{"crm", "erp"}
	m.stage[2].scale = 4
	m.writeBack()

	ans, _ := m.session.Answer(0)
	assert.Equal(t, "we iterate weekly", ans.Value.Text())
	ans, _ = m.session.Answer(1)
	assert.Equal(t, []string{"crm", "erp"}, ans.Value.Tokens())
	ans, _ = m.session.Answer(2)
	assert.Equal(t, 4, ans.Value.Scale())
	assert.Equal(t, 100, m.session.Progress())
}

func TestStepFormSeedsExistingAnswers(t *testing.T) {
	saved := []assessment.WireAnswer{{Question: 2, AnswerText: "crm,erp"}}
	s, _ := form.NewSession(wizardAssessment(), form.WithSavedAnswers(saved))

	m := newWizard(t, WizardOptions{Session: s})
	m.session.Advance()
	m.buildStepForm()

	assert.Equal(t, []string{"crm", "erp"}, m.stage[1].tokens,
		"hydrated checkbox answers pre-select their options")
}

func TestResumeMsgPromptsThenHydrates(t *testing.T) {
	m := newWizard(t, WizardOptions{})
	m.emailVal = "ceo@example.com"
	m.writeBack()

	match := &resume.Match{
		Partial: &assessment.PartialResponse{
			ID:              7,
			RespondentEmail: "ceo@example.com",
			Answers:         []assessment.WireAnswer{{Question: 1, AnswerText: "draft text"}},
		},
	}
	_, _ = m.Update(resumeMsg{match: match})
	assert.Equal(t, phaseResume, m.phase)

	// accepting the prompt overlays the draft and skips the info step
	m.restore = true
	_, _ = m.advancePhase()
	assert.Equal(t, phaseStep, m.phase)
	assert.Equal(t, 1, m.session.StepIndex())

	ans, _ := m.session.Answer(0)
	assert.Equal(t, "draft text", ans.Value.Text())
}

func TestResumeMsgDeclinedKeepsBlankSession(t *testing.T) {
	m := newWizard(t, WizardOptions{})
	m.emailVal = "ceo@example.com"
	m.writeBack()

	match := &resume.Match{
		Partial: &assessment.PartialResponse{
			ID:      7,
			Answers: []assessment.WireAnswer{{Question: 1, AnswerText: "draft text"}},
		},
	}
	_, _ = m.Update(resumeMsg{match: match})

	m.restore = false
	_, _ = m.advancePhase()
	assert.Equal(t, phaseStep, m.phase)
	assert.Nil(t, m.match)

	ans, _ := m.session.Answer(0)
	assert.True(t, ans.Value.IsEmpty())
}

func TestLookupWindowIgnoresInput(t *testing.T) {
	lookup := func(ctx context.Context, assessmentID int, email string) (*assessment.PartialResponse, error) {
		return nil, nil
	}
	m := newWizard(t, WizardOptions{
		Resolver: resume.NewResolver(lookup, resume.PolicyNotify),
	})

	m.emailVal = "ceo@example.com"
	m.form.State = huh.StateCompleted
	_, cmd := m.advancePhase()
	require.NotNil(t, cmd, "completing the email step kicks off the draft lookup")
	assert.Equal(t, phaseResolving, m.phase)
	assert.Equal(t, 0, m.session.StepIndex())

	// While the lookup is in flight the completed email form must not
	// advance the session again on stray input.
	_, _ = m.Update(tea.WindowSizeMsg{Width: 80})
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, 0, m.session.StepIndex())

	_, _ = m.Update(resumeMsg{match: nil})
	assert.Equal(t, phaseStep, m.phase)
	assert.Equal(t, 1, m.session.StepIndex(), "the lookup result advances exactly one step")
}

func TestTouchSaverCarriesSessionID(t *testing.T) {
	var got autosave.Draft
	persist := func(ctx context.Context, partialID int, d autosave.Draft) (int, error) {
		got = d
		return 1, nil
	}
	saver := autosave.NewCoordinator(persist, autosave.WithDebounce(time.Hour))
	m := newWizard(t, WizardOptions{Saver: saver})

	m.emailVal = "ceo@example.com"
	m.writeBack()
	saver.Flush(context.Background())

	require.NotEmpty(t, m.session.ID())
	assert.Equal(t, m.session.ID(), got.Session, "drafts are tagged with the editing session")
}

func TestResumeMsgNoDraftAdvances(t *testing.T) {
	m := newWizard(t, WizardOptions{})
	m.emailVal = "ceo@example.com"
	m.writeBack()

	_, _ = m.Update(resumeMsg{match: nil})
	assert.Equal(t, phaseStep, m.phase)
	assert.Equal(t, 1, m.session.StepIndex())
}

func TestScaleOptions(t *testing.T) {
	opts := scaleOptions()
	require.Len(t, opts, 5)
	assert.Equal(t, 1, opts[0].Value)
	assert.Equal(t, 5, opts[4].Value)
	assert.True(t, strings.Contains(opts[0].Key, "Strongly disagree"))
}

func TestRequiredMarker(t *testing.T) {
	m := newWizard(t, WizardOptions{})
	qs := m.session.Assessment().Questions

	assert.Equal(t, "Describe your process *", m.title(qs[0]))
	assert.Equal(t, "Which tools do you use?", m.title(qs[1]))
}

func TestBannerShowsViolations(t *testing.T) {
	m := newWizard(t, WizardOptions{})
	m.violations = form.Violations{
		Email:     "Email is required to save your progress",
		Questions: map[int]string{1: "This question requires an answer"},
	}

	banner := m.renderBanner()
	assert.Contains(t, banner, "Email is required to save your progress")
	assert.Contains(t, banner, "Describe your process")
	assert.Contains(t, banner, "This question requires an answer")
}

func TestDoneView(t *testing.T) {
	m := newWizard(t, WizardOptions{})
	m.phase = phaseDone

	view := m.View()
	assert.Contains(t, view, "Thank you")
	assert.Contains(t, view, "Operations Review")
}
