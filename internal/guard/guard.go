package guard

import (
	"github.com/assesskit/assesskit/internal/errors"
	"github.com/assesskit/assesskit/internal/session"
)

// Requirement describes what a command needs from the caller.
type Requirement struct {
	// Authenticated requires a logged-in session.
	Authenticated bool
	// Admin requires the session's account to carry admin rights.
	// Implies Authenticated.
	Admin bool
}

// Decision is the outcome of a guard check.
type Decision int

const (
	// Allow lets the command run.
	Allow Decision = iota
	// DenyLogin blocks the command until the caller logs in.
	DenyLogin
	// DenyAdmin blocks the command because the account lacks admin
	// rights. The caller is logged in, so re-authenticating with the
	// same account will not help.
	DenyAdmin
)

// Check evaluates a requirement against the current identity. It reads
// only what it is given and never mutates the session.
func Check(req Requirement, id *session.Identity) Decision {
	if !req.Authenticated && !req.Admin {
		return Allow
	}
	if id == nil || id.AccessToken == "" {
		return DenyLogin
	}
	if req.Admin && !id.IsAdmin {
		return DenyAdmin
	}
	return Allow
}

// Err converts a non-Allow decision into the matching error.
func (d Decision) Err() error {
	switch d {
	case DenyLogin:
		return errors.NewNotLoggedInError()
	case DenyAdmin:
		return errors.NewAdminRequiredError()
	}
	return nil
}

// Require runs a check and returns an error for anything but Allow.
// Commands call this at the top of their RunE.
func Require(req Requirement, mgr *session.Manager) error {
	return Check(req, mgr.Current()).Err()
}
