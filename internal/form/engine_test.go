package form

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assesskit/assesskit/internal/assessment"
)

func fourQuestionAssessment() *assessment.Assessment {
	return &assessment.Assessment{
		ID:    42,
		Title: "Operations Review",
		Questions: []assessment.Question{
			{ID: 1, Text: "Describe your process", Type: assessment.QuestionTypeText, Required: true},
			{ID: 2, Text: "Pick your sector", Type: assessment.QuestionTypeMultipleChoice, Required: true,
				Choices: []assessment.Choice{
					{ID: 10, Text: "Retail", Value: "retail"},
					{ID: 11, Text: "Manufacturing", Value: "manufacturing"},
				}},
			{ID: 3, Text: "Which tools do you use?", Type: assessment.QuestionTypeCheckbox, Required: true,
				Choices: []assessment.Choice{
					{ID: 20, Text: "CRM", Value: "a"},
					{ID: 21, Text: "ERP", Value: "b"},
				}},
			{ID: 4, Text: "We plan a year ahead", Type: assessment.QuestionTypeScale, Required: false},
		},
	}
}

func TestNewSessionOneAnswerPerQuestion(t *testing.T) {
	a := fourQuestionAssessment()
	s, err := NewSession(a)
	require.NoError(t, err)

	answers := s.Answers()
	require.Len(t, answers, len(a.Questions))
	for i, ans := range answers {
		assert.Equal(t, a.Questions[i].ID, ans.Question, "answer %d misaligned", i)
		assert.True(t, ans.Value.IsEmpty(), "answer %d should start empty", i)
	}

	// type-appropriate empties
	assert.Equal(t, assessment.KindText, answers[0].Value.Kind())
	assert.Equal(t, assessment.KindMultiChoice, answers[2].Value.Kind())
}

func TestSessionIDIsUnique(t *testing.T) {
	a := fourQuestionAssessment()
	s1, err := NewSession(a)
	require.NoError(t, err)
	s2, err := NewSession(a)
	require.NoError(t, err)

	assert.NotEmpty(t, s1.ID())
	assert.NotEqual(t, s1.ID(), s2.ID(), "each session gets its own id")
}

func TestNewSessionRejectsEmptyAssessment(t *testing.T) {
	_, err := NewSession(&assessment.Assessment{ID: 1})
	assert.Error(t, err)
	_, err = NewSession(nil)
	assert.Error(t, err)
}

func TestSavedAnswerOverlay(t *testing.T) {
	saved := []assessment.WireAnswer{
		{Question: 3, AnswerText: "a,b"},
		{Question: 1, AnswerText: "we iterate weekly"},
		{Question: 99, AnswerText: "not in scope"},
	}

	s, err := NewSession(fourQuestionAssessment(), WithSavedAnswers(saved), WithEmail("ceo@example.com"))
	require.NoError(t, err)

	answers := s.Answers()
	require.Len(t, answers, 4, "overlay must not change the answer count")

	assert.Equal(t, "we iterate weekly", answers[0].Value.Text())
	assert.Equal(t, []string{"a", "b"}, answers[2].Value.Tokens(), "checkbox string rehydrates to tokens in order")
	assert.True(t, answers[1].Value.IsEmpty())
	assert.Equal(t, "ceo@example.com", s.Email())
}

func TestSetAnswerBounds(t *testing.T) {
	s, _ := NewSession(fourQuestionAssessment())

	require.NoError(t, s.SetAnswer(0, assessment.TextValue("x")))
	assert.Error(t, s.SetAnswer(-1, assessment.TextValue("x")))
	assert.Error(t, s.SetAnswer(4, assessment.TextValue("x")))

	_, err := s.Answer(4)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	s, _ := NewSession(fourQuestionAssessment())
	s.SetEmail("someone@example.com")

	v := s.Validate()
	assert.Empty(t, v.Email)
	// q1..q3 required and empty; q4 optional
	assert.Len(t, v.Questions, 3)
	assert.Contains(t, v.Questions, 1)
	assert.Contains(t, v.Questions, 3)
	assert.NotContains(t, v.Questions, 4)

	// required checkbox with an empty set stays invalid
	require.NoError(t, s.SetAnswer(2, assessment.MultiValue()))
	assert.Contains(t, s.Validate().Questions, 3)

	require.NoError(t, s.SetAnswer(0, assessment.TextValue("we iterate")))
	require.NoError(t, s.SetAnswer(1, assessment.ChoiceValue("retail")))
	require.NoError(t, s.SetAnswer(2, assessment.MultiValue("a")))
	assert.True(t, s.Validate().OK())
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  string
	}{
		{"missing", "", "Email is required to save your progress"},
		{"malformed", "not-an-email", "Please enter a valid email address"},
		{"valid", "ok@example.com", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := NewSession(fourQuestionAssessment())
			s.SetEmail(tt.email)
			assert.Equal(t, tt.want, s.Validate().Email)
		})
	}
}

func TestProgress(t *testing.T) {
	s, _ := NewSession(fourQuestionAssessment())

	assert.Equal(t, 0, s.Progress())

	prev := 0
	fills := []struct {
		idx int
		val assessment.Value
	}{
		{0, assessment.TextValue("answer")},
		{1, assessment.ChoiceValue("retail")},
		{2, assessment.MultiValue("a", "b")},
		{3, assessment.ScaleValue(4)},
	}
	for _, f := range fills {
		require.NoError(t, s.SetAnswer(f.idx, f.val))
		got := s.Progress()
		assert.GreaterOrEqual(t, got, prev, "progress must not decrease as answers fill in")
		prev = got
	}
	assert.Equal(t, 100, s.Progress())
}

func TestProgressIgnoresRequiredFlag(t *testing.T) {
	// progress counts any non-empty answer, required or not
	s, _ := NewSession(fourQuestionAssessment())
	require.NoError(t, s.SetAnswer(3, assessment.ScaleValue(5)))
	assert.Equal(t, 25, s.Progress())
}

func TestNavigationClamping(t *testing.T) {
	// 4 questions in steps of 3 -> [info, {q1,q2,q3}, {q4}]
	s, _ := NewSession(fourQuestionAssessment())
	require.Len(t, s.Steps(), 3)

	assert.Equal(t, 0, s.StepIndex())
	s.Retreat()
	assert.Equal(t, 0, s.StepIndex(), "retreat clamps at first step")

	s.Advance()
	s.Advance()
	assert.Equal(t, 2, s.StepIndex(), "two advances reach the last step")
	s.Advance()
	assert.Equal(t, 2, s.StepIndex(), "advance clamps at last step")

	s.GoToStep(1)
	assert.Equal(t, 1, s.StepIndex())
	s.GoToStep(99)
	assert.Equal(t, 2, s.StepIndex())
	s.GoToStep(-5)
	assert.Equal(t, 0, s.StepIndex())
}

func TestBuildSubmission(t *testing.T) {
	s, _ := NewSession(fourQuestionAssessment(), WithEmail("ceo@example.com"))
	require.NoError(t, s.SetAnswer(0, assessment.TextValue("lean, mostly")))
	require.NoError(t, s.SetAnswer(2, assessment.MultiValue("a", "b")))
	require.NoError(t, s.SetAnswer(3, assessment.ScaleValue(2)))

	sub := s.BuildSubmission()
	assert.Equal(t, 42, sub.Assessment)
	assert.Equal(t, "ceo@example.com", sub.RespondentEmail)
	require.Len(t, sub.Answers, 4)
	assert.Equal(t, assessment.WireAnswer{Question: 1, AnswerText: "lean, mostly"}, sub.Answers[0])
	assert.Equal(t, assessment.WireAnswer{Question: 3, AnswerText: "a,b"}, sub.Answers[2])
	assert.Equal(t, assessment.WireAnswer{Question: 4, AnswerText: "2"}, sub.Answers[3])
}

func TestSubmitBlockedByValidation(t *testing.T) {
	s, _ := NewSession(fourQuestionAssessment(), WithEmail("ceo@example.com"))
	require.NoError(t, s.SetAnswer(1, assessment.ChoiceValue("retail")))
	require.NoError(t, s.SetAnswer(2, assessment.MultiValue("a")))
	// q1 (required text) left blank

	calls := 0
	v, err := s.Submit(context.Background(), func(ctx context.Context, sub assessment.Submission) error {
		calls++
		return nil
	})

	assert.Error(t, err)
	assert.Equal(t, 0, calls, "validation failure must not reach the submission endpoint")
	require.Len(t, v.Questions, 1)
	assert.Contains(t, v.Questions, 1)
	assert.False(t, s.Submitted())
}

func TestSubmitDeliveryFailureKeepsSessionMutable(t *testing.T) {
	s := fullyAnswered(t)

	_, err := s.Submit(context.Background(), func(ctx context.Context, sub assessment.Submission) error {
		return assert.AnError
	})
	require.Error(t, err)
	assert.False(t, s.Submitted())

	// retry succeeds with everything still in place
	var got assessment.Submission
	_, err = s.Submit(context.Background(), func(ctx context.Context, sub assessment.Submission) error {
		got = sub
		return nil
	})
	require.NoError(t, err)
	assert.True(t, s.Submitted())
	assert.Equal(t, "a,b", got.Answers[2].AnswerText)

	// terminal: a second submit is refused
	_, err = s.Submit(context.Background(), func(ctx context.Context, sub assessment.Submission) error { return nil })
	assert.Error(t, err)
}

func fullyAnswered(t *testing.T) *Session {
	t.Helper()
	s, err := NewSession(fourQuestionAssessment(), WithEmail("ceo@example.com"))
	require.NoError(t, err)
	require.NoError(t, s.SetAnswer(0, assessment.TextValue("done")))
	require.NoError(t, s.SetAnswer(1, assessment.ChoiceValue("retail")))
	require.NoError(t, s.SetAnswer(2, assessment.MultiValue("a", "b")))
	require.NoError(t, s.SetAnswer(3, assessment.ScaleValue(3)))
	return s
}

func TestSnapshotRoundTrip(t *testing.T) {
	s := fullyAnswered(t)

	resumed, err := NewSession(fourQuestionAssessment(), WithSavedAnswers(s.Snapshot()))
	require.NoError(t, err)

	a, _ := resumed.Answer(2)
	assert.Equal(t, []string{"a", "b"}, a.Value.Tokens())
	assert.Equal(t, 100, resumed.Progress())
}
