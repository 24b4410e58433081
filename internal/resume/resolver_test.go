package resume

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assesskit/assesskit/internal/assessment"
	"github.com/assesskit/assesskit/internal/errors"
	"github.com/assesskit/assesskit/internal/form"
)

func savedPartial() *assessment.PartialResponse {
	return &assessment.PartialResponse{
		ID:              7,
		Assessment:      42,
		RespondentEmail: "ceo@example.com",
		Answers: []assessment.WireAnswer{
			{Question: 1, AnswerText: "we iterate"},
			{Question: 3, AnswerText: "a,b"},
		},
		UpdatedAt: time.Now(),
	}
}

func TestParsePolicy(t *testing.T) {
	for _, s := range []string{"notify", "auto"} {
		p, err := ParsePolicy(s)
		require.NoError(t, err)
		assert.Equal(t, Policy(s), p)
	}

	_, err := ParsePolicy("always")
	assert.Error(t, err)
}

func TestResolveFindsDraft(t *testing.T) {
	lookups := 0
	r := NewResolver(func(ctx context.Context, id int, email string) (*assessment.PartialResponse, error) {
		lookups++
		assert.Equal(t, 42, id)
		assert.Equal(t, "ceo@example.com", email)
		return savedPartial(), nil
	}, PolicyNotify)

	m, err := r.Resolve(context.Background(), 42, "ceo@example.com")
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, 1, lookups)
	assert.False(t, m.AutoHydrate)
	assert.Equal(t, 7, m.Partial.ID)
}

func TestResolveAutoPolicy(t *testing.T) {
	r := NewResolver(func(ctx context.Context, id int, email string) (*assessment.PartialResponse, error) {
		return savedPartial(), nil
	}, PolicyAuto)

	m, err := r.Resolve(context.Background(), 42, "ceo@example.com")
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.True(t, m.AutoHydrate)
}

func TestResolveSkipsImplausibleEmails(t *testing.T) {
	r := NewResolver(func(ctx context.Context, id int, email string) (*assessment.PartialResponse, error) {
		t.Fatal("lookup must not run for an implausible email")
		return nil, nil
	}, PolicyNotify)

	for _, email := range []string{"", "ceo", "ceo@", "@example.com"} {
		m, err := r.Resolve(context.Background(), 42, email)
		require.NoError(t, err)
		assert.Nil(t, m, "email %q", email)
	}
}

func TestResolveNoDraft(t *testing.T) {
	r := NewResolver(func(ctx context.Context, id int, email string) (*assessment.PartialResponse, error) {
		return nil, nil
	}, PolicyNotify)

	m, err := r.Resolve(context.Background(), 42, "ceo@example.com")
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestResolveEmptyDraftIgnored(t *testing.T) {
	r := NewResolver(func(ctx context.Context, id int, email string) (*assessment.PartialResponse, error) {
		p := savedPartial()
		p.Answers = nil
		return p, nil
	}, PolicyNotify)

	m, err := r.Resolve(context.Background(), 42, "ceo@example.com")
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestResolveLookupFailureStartsFresh(t *testing.T) {
	r := NewResolver(func(ctx context.Context, id int, email string) (*assessment.PartialResponse, error) {
		return nil, errors.New(errors.ErrCodeAPIUnavailable, "backend down")
	}, PolicyNotify)

	m, err := r.Resolve(context.Background(), 42, "ceo@example.com")
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestResolveCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewResolver(func(ctx context.Context, id int, email string) (*assessment.PartialResponse, error) {
		return nil, ctx.Err()
	}, PolicyNotify)

	_, err := r.Resolve(ctx, 42, "ceo@example.com")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMatchOptionsHydrateSession(t *testing.T) {
	a := &assessment.Assessment{
		ID: 42,
		Questions: []assessment.Question{
			{ID: 1, Text: "q1", Type: assessment.QuestionTypeText, Required: true},
			{ID: 2, Text: "q2", Type: assessment.QuestionTypeText},
			{ID: 3, Text: "q3", Type: assessment.QuestionTypeCheckbox},
		},
	}

	m := &Match{Partial: savedPartial()}
	s, err := form.NewSession(a, m.Options()...)
	require.NoError(t, err)

	assert.Equal(t, "ceo@example.com", s.Email())
	ans, _ := s.Answer(2)
	assert.Equal(t, []string{"a", "b"}, ans.Value.Tokens())
}
