package form

import (
	"context"
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/assesskit/assesskit/internal/assessment"
	"github.com/assesskit/assesskit/internal/errors"
)

var validate = validator.New()

// SubmitFunc delivers a finished submission to the backend.
type SubmitFunc func(ctx context.Context, sub assessment.Submission) error

// Session drives one respondent's pass through an assessment, from
// first render to submission. It owns the answer sequence, the step
// cursor, and nothing else; persistence and presentation stay outside.
type Session struct {
	id         string
	assessment *assessment.Assessment
	email      string
	answers    []assessment.Answer
	steps      []Step
	step       int
	submitted  bool
}

// Option configures a new Session.
type Option func(*Session)

// WithEmail seeds the respondent email.
func WithEmail(email string) Option {
	return func(s *Session) { s.email = email }
}

// WithSavedAnswers overlays a prior partial snapshot onto the blank
// answer sequence. Entries for questions not in the assessment are
// dropped; checkbox strings are split back into token sets.
func WithSavedAnswers(saved []assessment.WireAnswer) Option {
	return func(s *Session) {
		for _, wa := range saved {
			for i := range s.assessment.Questions {
				if s.assessment.Questions[i].ID == wa.Question {
					s.answers[i].Value = assessment.ValueFromWire(s.assessment.Questions[i].Type, wa.AnswerText)
					break
				}
			}
		}
	}
}

// NewSession builds a session with exactly one answer per question, in
// assessment order, each starting type-appropriately empty.
func NewSession(a *assessment.Assessment, opts ...Option) (*Session, error) {
	if a == nil || len(a.Questions) == 0 {
		return nil, errors.New(errors.ErrCodeFormValidation, "assessment has no questions")
	}

	s := &Session{
		id:         uuid.New().String(),
		assessment: a,
		answers:    make([]assessment.Answer, len(a.Questions)),
		steps:      partition(a),
	}
	for i, q := range a.Questions {
		s.answers[i] = assessment.Answer{
			Question: q.ID,
			Value:    assessment.EmptyValue(q.Type),
		}
	}

	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// ID returns the session's identifier.
func (s *Session) ID() string { return s.id }

// Assessment returns the assessment being taken.
func (s *Session) Assessment() *assessment.Assessment { return s.assessment }

// Email returns the respondent email.
func (s *Session) Email() string { return s.email }

// SetEmail records the respondent email. No validation happens here;
// format problems surface through Validate.
func (s *Session) SetEmail(email string) { s.email = email }

// Answers returns a copy of the answer sequence, positionally aligned
// with the assessment's questions.
func (s *Session) Answers() []assessment.Answer {
	out := make([]assessment.Answer, len(s.answers))
	copy(out, s.answers)
	return out
}

// Answer returns the answer at the given question position.
func (s *Session) Answer(i int) (assessment.Answer, error) {
	if i < 0 || i >= len(s.answers) {
		return assessment.Answer{}, errors.New(errors.ErrCodeFormQuestionRange,
			fmt.Sprintf("question index %d out of range [0,%d)", i, len(s.answers)))
	}
	return s.answers[i], nil
}

// SetAnswer mutates the answer at the given question position. No
// validation is performed at mutation time; validation is deferred to
// Validate/Submit.
func (s *Session) SetAnswer(i int, v assessment.Value) error {
	if i < 0 || i >= len(s.answers) {
		return errors.New(errors.ErrCodeFormQuestionRange,
			fmt.Sprintf("question index %d out of range [0,%d)", i, len(s.answers)))
	}
	s.answers[i].Value = v
	return nil
}

// Steps returns the step sequence: info step first, then question
// pages covering every question exactly once in order.
func (s *Session) Steps() []Step { return s.steps }

// StepIndex returns the current step cursor.
func (s *Session) StepIndex() int { return s.step }

// CurrentStep returns the step under the cursor.
func (s *Session) CurrentStep() Step { return s.steps[s.step] }

// Advance moves one step forward. There is no validation gate on
// forward navigation; required answers are only enforced at submit.
func (s *Session) Advance() { s.GoToStep(s.step + 1) }

// Retreat moves one step back.
func (s *Session) Retreat() { s.GoToStep(s.step - 1) }

// GoToStep jumps to a step, clamping to the valid range.
func (s *Session) GoToStep(i int) {
	if i < 0 {
		i = 0
	}
	if i > len(s.steps)-1 {
		i = len(s.steps) - 1
	}
	s.step = i
}

// Progress returns the percentage of questions carrying a non-empty
// answer, rounded to the nearest integer.
func (s *Session) Progress() int {
	if len(s.answers) == 0 {
		return 0
	}
	answered := 0
	for _, a := range s.answers {
		if !a.Value.IsEmpty() {
			answered++
		}
	}
	return int(math.Round(float64(answered) / float64(len(s.answers)) * 100))
}

// Violations is the result of validating a session. An empty set of
// violations means the session may be submitted.
type Violations struct {
	// Email holds the respondent-email problem, if any.
	Email string
	// Questions maps question id to its error message.
	Questions map[int]string
}

// OK reports whether there are no violations.
func (v Violations) OK() bool {
	return v.Email == "" && len(v.Questions) == 0
}

// Count returns how many violations were found.
func (v Violations) Count() int {
	n := len(v.Questions)
	if v.Email != "" {
		n++
	}
	return n
}

// Validate checks the respondent email and every required question.
// Required checkbox questions need a non-empty token set; all other
// required types need a non-empty scalar. Optional questions always
// pass regardless of value.
func (s *Session) Validate() Violations {
	v := Violations{Questions: map[int]string{}}

	switch {
	case s.email == "":
		v.Email = "Email is required to save your progress"
	case validate.Var(s.email, "email") != nil:
		v.Email = "Please enter a valid email address"
	}

	for i, q := range s.assessment.Questions {
		if !q.Required {
			continue
		}
		if s.answers[i].Value.IsEmpty() {
			v.Questions[q.ID] = "This question requires an answer"
		}
	}
	return v
}

// BuildSubmission assembles the final-response payload, flattening
// answers to their wire form (checkbox token sets comma-joined).
func (s *Session) BuildSubmission() assessment.Submission {
	return assessment.Submission{
		Assessment:      s.assessment.ID,
		RespondentEmail: s.email,
		Answers:         s.Snapshot(),
	}
}

// Snapshot returns the wire form of the current answers, used both for
// autosave persistence and for the final submission.
func (s *Session) Snapshot() []assessment.WireAnswer {
	out := make([]assessment.WireAnswer, len(s.answers))
	for i, a := range s.answers {
		out[i] = a.ToWire()
	}
	return out
}

// Submitted reports whether the session reached its terminal state.
func (s *Session) Submitted() bool { return s.submitted }

// Submit validates every answer and, when clean, delivers the payload.
// On a validation failure the field errors are attached and nothing is
// sent. On a delivery failure the session stays mutable so the
// respondent keeps everything entered and may retry.
func (s *Session) Submit(ctx context.Context, submit SubmitFunc) (Violations, error) {
	if s.submitted {
		return Violations{}, errors.New(errors.ErrCodeFormAlreadyDone, "assessment already submitted")
	}

	v := s.Validate()
	if !v.OK() {
		return v, errors.NewValidationError(v.Count())
	}

	if err := submit(ctx, s.BuildSubmission()); err != nil {
		return v, err
	}

	s.submitted = true
	return v, nil
}
