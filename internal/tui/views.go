package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"

	"github.com/assesskit/assesskit/internal/form"
)

// View implements tea.Model.
func (m *WizardModel) View() string {
	if m.quitting {
		return ""
	}
	if m.phase == phaseDone {
		return m.renderDone()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	if banner := m.renderBanner(); banner != "" {
		b.WriteString(banner)
		b.WriteString("\n")
	}

	if m.phase == phaseResolving {
		b.WriteString(m.styles.Muted.Render("Checking for a saved draft…"))
		b.WriteString("\n")
	} else if m.form != nil {
		b.WriteString(m.form.View())
	}
	return b.String()
}

// renderHeader shows the assessment title, the progress bar, the
// countdown for time-limited assessments, and the last autosave.
func (m *WizardModel) renderHeader() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render(m.session.Assessment().Title))
	b.WriteString("\n")

	bar := progress.New(progress.WithDefaultGradient(), progress.WithWidth(40))
	pct := float64(m.session.Progress()) / 100
	b.WriteString(bar.ViewAs(pct))
	b.WriteString(m.styles.Muted.Render(fmt.Sprintf(" %d%% complete", m.session.Progress())))
	b.WriteString("\n")

	var status []string
	if m.countdown != nil {
		timer := fmt.Sprintf("⏱ %s remaining", form.FormatRemaining(m.remaining))
		if m.remaining <= 60 {
			status = append(status, m.styles.Error.Render(timer))
		} else {
			status = append(status, m.styles.Status.Render(timer))
		}
	}
	if m.saver != nil {
		if last := m.saver.LastSaved(); !last.IsZero() {
			status = append(status, m.styles.Muted.Render(
				fmt.Sprintf("saved %s ago", formatAgo(time.Since(last)))))
		}
	}
	if len(status) > 0 {
		b.WriteString(strings.Join(status, m.styles.Muted.Render(" • ")))
		b.WriteString("\n")
	}
	return b.String()
}

// renderBanner surfaces timer expiry, validation problems, and delivery
// failures above the form.
func (m *WizardModel) renderBanner() string {
	var lines []string

	if m.countdown != nil && m.countdown.Expired() {
		lines = append(lines, m.styles.Warning.Render(
			"⏱ Time is up. You can still review and submit your answers."))
	}

	if !m.violations.OK() {
		if m.violations.Email != "" {
			lines = append(lines, m.styles.Error.Render("• "+m.violations.Email))
		}
		for _, q := range m.session.Assessment().Questions {
			if msg, ok := m.violations.Questions[q.ID]; ok {
				lines = append(lines, m.styles.Error.Render(
					fmt.Sprintf("• %s: %s", q.Text, msg)))
			}
		}
	}

	if m.err != nil {
		lines = append(lines, m.styles.Error.Render("✗ Submission failed: ")+
			m.styles.Subtitle.Render(summarize(m.err)))
		lines = append(lines, m.styles.Muted.Render("Your answers are kept. Try submitting again."))
	}

	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

// renderDone is the terminal screen after a successful submission.
func (m *WizardModel) renderDone() string {
	var b strings.Builder
	b.WriteString(m.styles.Success.Render("✓ Thank you!"))
	b.WriteString("\n\n")
	b.WriteString(m.styles.Subtitle.Render(
		fmt.Sprintf("Your responses to %q have been submitted.", m.session.Assessment().Title)))
	b.WriteString("\n\n")
	b.WriteString(m.styles.Muted.Render("Press any key to exit"))
	return b.String()
}

// summarize keeps multi-line error text out of the one-line banner.
func summarize(err error) string {
	msg := err.Error()
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		msg = msg[:i]
	}
	return msg
}

func formatAgo(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	default:
		return fmt.Sprintf("%dh", int(d.Hours()))
	}
}
