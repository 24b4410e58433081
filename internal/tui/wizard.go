package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/assesskit/assesskit/internal/assessment"
	"github.com/assesskit/assesskit/internal/autosave"
	"github.com/assesskit/assesskit/internal/form"
	"github.com/assesskit/assesskit/internal/resume"
)

// phase is the wizard's top-level state.
type phase int

const (
	phaseResume phase = iota
	phaseResolving
	phaseStep
	phaseReview
	phaseDone
)

// tickMsg drives the countdown display.
type tickMsg time.Time

// submitResultMsg carries the outcome of a submission attempt.
type submitResultMsg struct {
	violations form.Violations
	err        error
}

// resumeMsg carries the draft lookup result after the email step.
type resumeMsg struct {
	match *resume.Match
}

// WizardOptions wires the wizard to the rest of the system. Saver and
// Match may be nil; Submit must deliver the finished submission.
type WizardOptions struct {
	Session *form.Session
	Saver   *autosave.Coordinator
	Match   *resume.Match
	// Resolver, when set, looks for a saved draft once the respondent
	// has entered their email, mirroring how the lookup keys on
	// (assessment, email).
	Resolver *resume.Resolver
	Submit   form.SubmitFunc
	Styles   *Styles
}

// WizardModel is the bubbletea model for taking an assessment: one huh
// form per step, a progress header, the countdown for time-limited
// assessments, and autosave touches on every completed step.
type WizardModel struct {
	session  *form.Session
	saver    *autosave.Coordinator
	match    *resume.Match
	resolver *resume.Resolver
	resolved bool
	submit   form.SubmitFunc
	styles   Styles

	phase     phase
	form      *huh.Form
	stage     []*staged
	emailVal  string
	restore   bool
	confirm   bool
	countdown *form.Countdown
	remaining int

	violations form.Violations
	err        error
	quitting   bool
	width      int
}

// staged buffers one question's huh field value until the step
// completes; only then does it flow back into the session.
type staged struct {
	idx    int
	text   string
	choice string
	tokens []string
	scale  int
}

// NewWizard builds the wizard model. When a saved draft was found under
// the notify policy, the wizard opens on a restore prompt; under the
// auto policy the caller has already hydrated the session.
func NewWizard(opts WizardOptions) (*WizardModel, error) {
	if opts.Session == nil {
		return nil, fmt.Errorf("wizard needs a form session")
	}
	if opts.Submit == nil {
		return nil, fmt.Errorf("wizard needs a submit function")
	}

	m := &WizardModel{
		session:  opts.Session,
		saver:    opts.Saver,
		match:    opts.Match,
		resolver: opts.Resolver,
		resolved: opts.Match != nil,
		submit:   opts.Submit,
		styles:   DefaultStyles(),
	}
	if opts.Styles != nil {
		m.styles = *opts.Styles
	}

	if limit := opts.Session.Assessment().TimeLimitMinutes; limit > 0 {
		m.countdown = form.StartCountdown(time.Duration(limit) * time.Minute)
		m.remaining = m.countdown.RemainingSeconds()
	}

	if m.match != nil && !m.match.AutoHydrate {
		m.phase = phaseResume
		m.buildResumeForm()
	} else {
		m.phase = phaseStep
		m.buildStepForm()
	}
	return m, nil
}

// buildResumeForm asks whether to restore the saved draft.
func (m *WizardModel) buildResumeForm() {
	m.restore = true
	saved := m.match.Partial.UpdatedAt
	desc := "A saved draft exists for this assessment."
	if !saved.IsZero() {
		desc = fmt.Sprintf("A saved draft from %s exists for this assessment.", saved.Format("Jan 2 15:04"))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Key("restore").
				Title("Resume where you left off?").
				Description(desc).
				Affirmative("Resume").
				Negative("Start over").
				Value(&m.restore),
		),
	)
}

// buildStepForm creates the huh form for the current step.
func (m *WizardModel) buildStepForm() {
	step := m.session.CurrentStep()

	if step.Info {
		m.emailVal = m.session.Email()
		m.form = huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Key("email").
					Title("Email Address").
					Description("Your progress is saved under this address.").
					Value(&m.emailVal).
					Validate(func(s string) error {
						if strings.TrimSpace(s) == "" {
							return fmt.Errorf("Email is required to save your progress")
						}
						return nil
					}),
			).
				Title(step.Title).
				Description(m.session.Assessment().Description),
		)
		return
	}

	m.stage = make([]*staged, 0, len(step.Questions))
	fields := make([]huh.Field, 0, len(step.Questions))

	for _, idx := range step.Questions {
		q := m.session.Assessment().Questions[idx]
		ans, _ := m.session.Answer(idx)

		st := &staged{idx: idx}
		m.stage = append(m.stage, st)
		key := fmt.Sprintf("q%d", idx)

		switch q.Type {
		case assessment.QuestionTypeText:
			st.text = ans.Value.Text()
			fields = append(fields, huh.NewText().
				Key(key).
				Title(m.title(q)).
				Value(&st.text))

		case assessment.QuestionTypeMultipleChoice:
			st.choice = ans.Value.Text()
			options := make([]huh.Option[string], 0, len(q.Choices))
			for _, c := range q.Choices {
				options = append(options, huh.NewOption(c.Text, c.Value))
			}
			fields = append(fields, huh.NewSelect[string]().
				Key(key).
				Title(m.title(q)).
				Options(options...).
				Value(&st.choice))

		case assessment.QuestionTypeCheckbox:
			st.tokens = ans.Value.Tokens()
			options := make([]huh.Option[string], 0, len(q.Choices))
			for _, c := range q.Choices {
				options = append(options, huh.NewOption(c.Text, c.Value))
			}
			fields = append(fields, huh.NewMultiSelect[string]().
				Key(key).
				Title(m.title(q)).
				Options(options...).
				Value(&st.tokens))

		case assessment.QuestionTypeScale:
			st.scale = ans.Value.Scale()
			fields = append(fields, huh.NewSelect[int]().
				Key(key).
				Title(m.title(q)).
				Options(scaleOptions()...).
				Value(&st.scale))
		}
	}

	m.form = huh.NewForm(
		huh.NewGroup(fields...).
			Title(step.Title).
			Description(m.stepHelp()),
	)
}

// title renders a question title with its required marker.
func (m *WizardModel) title(q assessment.Question) string {
	if q.Required {
		return q.Text + " *"
	}
	return q.Text
}

func (m *WizardModel) stepHelp() string {
	return "Tab/Shift+Tab to move between questions • Enter to continue • Ctrl+C to quit"
}

// scaleOptions are the five agreement ratings.
func scaleOptions() []huh.Option[int] {
	labels := []string{
		"Strongly disagree",
		"Disagree",
		"Neutral",
		"Agree",
		"Strongly agree",
	}
	options := make([]huh.Option[int], 0, len(labels))
	for i, label := range labels {
		options = append(options, huh.NewOption(fmt.Sprintf("%d - %s", i+1, label), i+1))
	}
	return options
}

// buildReviewForm asks for final confirmation before submitting.
func (m *WizardModel) buildReviewForm() {
	m.confirm = true
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Key("confirm").
				Title("Submit your responses?").
				Description(fmt.Sprintf("%d%% of questions answered. Submitted responses cannot be changed.", m.session.Progress())).
				Affirmative("Submit").
				Negative("Go back").
				Value(&m.confirm),
		),
	)
}

// writeBack flows the staged field values into the session and touches
// the autosave coordinator.
func (m *WizardModel) writeBack() {
	if m.session.CurrentStep().Info {
		m.session.SetEmail(strings.TrimSpace(m.emailVal))
	} else {
		for _, st := range m.stage {
			q := m.session.Assessment().Questions[st.idx]
			var v assessment.Value
			switch q.Type {
			case assessment.QuestionTypeText:
				v = assessment.TextValue(st.text)
			case assessment.QuestionTypeMultipleChoice:
				v = assessment.ChoiceValue(st.choice)
			case assessment.QuestionTypeCheckbox:
				v = assessment.MultiValue(st.tokens...)
			case assessment.QuestionTypeScale:
				v = assessment.ScaleValue(st.scale)
			}
			_ = m.session.SetAnswer(st.idx, v)
		}
	}
	m.touchSaver()
}

func (m *WizardModel) touchSaver() {
	if m.saver == nil {
		return
	}
	m.saver.Touch(autosave.Draft{
		Session:    m.session.ID(),
		Assessment: m.session.Assessment().ID,
		Email:      m.session.Email(),
		Answers:    m.session.Snapshot(),
	})
}

// Init implements tea.Model.
func (m *WizardModel) Init() tea.Cmd {
	cmds := []tea.Cmd{}
	if m.form != nil {
		cmds = append(cmds, m.form.Init())
	}
	if m.countdown != nil {
		cmds = append(cmds, tick())
	}
	return tea.Batch(cmds...)
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Update implements tea.Model.
func (m *WizardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width

	case tickMsg:
		if m.countdown != nil {
			m.remaining = m.countdown.RemainingSeconds()
			if !m.countdown.Expired() {
				return m, tick()
			}
		}
		return m, nil

	case resumeMsg:
		if msg.match == nil {
			m.phase = phaseStep
			m.session.Advance()
			m.buildStepForm()
			return m, m.form.Init()
		}
		m.match = msg.match
		if m.saver != nil {
			m.saver.SeedPartialID(msg.match.Partial.ID)
		}
		if msg.match.AutoHydrate {
			form.WithSavedAnswers(msg.match.Partial.Answers)(m.session)
			m.phase = phaseStep
			m.session.Advance()
			m.buildStepForm()
			return m, m.form.Init()
		}
		m.phase = phaseResume
		m.buildResumeForm()
		return m, m.form.Init()

	case submitResultMsg:
		m.violations = msg.violations
		if msg.err != nil && msg.violations.OK() {
			m.err = msg.err
			m.buildReviewForm()
			return m, m.form.Init()
		}
		if msg.err != nil {
			// Field problems: send the respondent back to fix them.
			m.err = nil
			m.phase = phaseStep
			m.session.GoToStep(0)
			m.buildStepForm()
			return m, m.form.Init()
		}
		m.phase = phaseDone
		m.stopTimers()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			m.stopTimers()
			return m, tea.Quit
		case "esc":
			if m.phase == phaseReview {
				m.phase = phaseStep
				m.buildStepForm()
				return m, m.form.Init()
			}
		}
	}

	if m.phase == phaseDone {
		if _, ok := msg.(tea.KeyMsg); ok {
			return m, tea.Quit
		}
		return m, nil
	}

	if m.phase == phaseResolving {
		// The email form is complete but the draft lookup is still in
		// flight; feeding it more input would advance the session a
		// second time.
		return m, nil
	}

	if m.form == nil {
		return m, nil
	}

	f, cmd := m.form.Update(msg)
	if fm, ok := f.(*huh.Form); ok {
		m.form = fm
		if m.form.State == huh.StateCompleted {
			return m.advancePhase()
		}
	}
	return m, cmd
}

// advancePhase reacts to a completed huh form.
func (m *WizardModel) advancePhase() (tea.Model, tea.Cmd) {
	switch m.phase {
	case phaseResume:
		m.phase = phaseStep
		if m.restore {
			form.WithSavedAnswers(m.match.Partial.Answers)(m.session)
			if m.session.Email() == "" {
				m.session.SetEmail(m.match.Partial.RespondentEmail)
			}
			if m.session.CurrentStep().Info && m.session.Email() != "" {
				m.session.Advance()
			}
		} else {
			// Starting over: the next save overwrites the draft.
			m.match = nil
		}
		m.buildStepForm()
		return m, m.form.Init()

	case phaseStep:
		m.writeBack()
		if m.session.CurrentStep().Info && m.resolver != nil && !m.resolved {
			m.resolved = true
			m.phase = phaseResolving
			return m, m.resolveCmd()
		}
		if m.session.StepIndex() == len(m.session.Steps())-1 {
			m.phase = phaseReview
			m.buildReviewForm()
			return m, m.form.Init()
		}
		m.session.Advance()
		m.buildStepForm()
		return m, m.form.Init()

	case phaseReview:
		if !m.confirm {
			m.phase = phaseStep
			m.buildStepForm()
			return m, m.form.Init()
		}
		return m, m.submitCmd()
	}
	return m, nil
}

// resolveCmd runs the draft lookup for the just-entered email.
func (m *WizardModel) resolveCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		match, err := m.resolver.Resolve(ctx, m.session.Assessment().ID, m.session.Email())
		if err != nil {
			match = nil
		}
		return resumeMsg{match: match}
	}
}

// submitCmd flushes any pending autosave and delivers the submission.
func (m *WizardModel) submitCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if m.saver != nil {
			m.saver.Flush(ctx)
		}
		v, err := m.session.Submit(ctx, m.submit)
		return submitResultMsg{violations: v, err: err}
	}
}

func (m *WizardModel) stopTimers() {
	if m.countdown != nil {
		m.countdown.Stop()
	}
	if m.saver != nil {
		m.saver.Stop()
	}
}

// Quitting reports whether the respondent bailed out before finishing.
func (m *WizardModel) Quitting() bool { return m.quitting }

// Submitted reports whether the session reached its terminal state.
func (m *WizardModel) Submitted() bool { return m.session.Submitted() }
