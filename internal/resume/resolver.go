package resume

import (
	"context"

	"github.com/go-playground/validator/v10"

	"github.com/assesskit/assesskit/internal/assessment"
	"github.com/assesskit/assesskit/internal/errors"
	"github.com/assesskit/assesskit/internal/form"
	"github.com/assesskit/assesskit/internal/log"
)

var validate = validator.New()

// Policy decides what happens when a saved draft is found for the
// respondent.
type Policy string

const (
	// PolicyNotify surfaces the draft and lets the respondent choose
	// whether to restore it.
	PolicyNotify Policy = "notify"
	// PolicyAuto restores the draft without asking.
	PolicyAuto Policy = "auto"
)

// ParsePolicy validates a configured policy string.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case PolicyNotify, PolicyAuto:
		return Policy(s), nil
	}
	return "", errors.New(errors.ErrCodeConfigInvalid, "hydrate policy must be \"notify\" or \"auto\"")
}

// LookupFunc finds the saved draft for (assessment, respondent email).
// A nil result with a nil error means no draft exists.
type LookupFunc func(ctx context.Context, assessmentID int, email string) (*assessment.PartialResponse, error)

// Match is a found draft plus what the policy says to do with it.
type Match struct {
	Partial *assessment.PartialResponse
	// AutoHydrate is true when the policy restores without prompting.
	AutoHydrate bool
}

// Resolver checks for a respondent's saved draft when they enter an
// assessment they have touched before.
type Resolver struct {
	lookup LookupFunc
	policy Policy
	log    *log.Logger
}

// NewResolver builds a resolver around the given lookup.
func NewResolver(lookup LookupFunc, policy Policy) *Resolver {
	return &Resolver{
		lookup: lookup,
		policy: policy,
		log:    log.DefaultLogger(),
	}
}

// Resolve looks for a saved draft. Emails that cannot be valid skip
// the lookup entirely, so keystrokes of a half-typed address never hit
// the backend. Lookup failures degrade to "no draft": resuming is a
// convenience, not a gate.
func (r *Resolver) Resolve(ctx context.Context, assessmentID int, email string) (*Match, error) {
	if email == "" || validate.Var(email, "email") != nil {
		return nil, nil
	}

	p, err := r.lookup(ctx, assessmentID, email)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		r.log.WithError(err).Debug("draft lookup failed, starting fresh")
		return nil, nil
	}
	if p == nil || len(p.Answers) == 0 {
		return nil, nil
	}

	return &Match{
		Partial:     p,
		AutoHydrate: r.policy == PolicyAuto,
	}, nil
}

// Options converts a found draft into session options: the saved
// answers are overlaid and the respondent email is restored.
func (m *Match) Options() []form.Option {
	return []form.Option{
		form.WithEmail(m.Partial.RespondentEmail),
		form.WithSavedAnswers(m.Partial.Answers),
	}
}
