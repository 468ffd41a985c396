// Package session owns the in-memory session state machine for the
// StudyNotes client. It reconciles the persisted credential slot against
// the remote gateway on startup, serves explicit login/register/logout
// flows, and publishes committed state transitions to subscribers.
package session

import "github.com/dmitrijs2005/studynotes/internal/client/models"

// Phase is the discriminant of the session state machine. Exactly one
// phase is active at a time.
type Phase int

const (
	// PhaseUnauthenticated means no credential is persisted.
	PhaseUnauthenticated Phase = iota

	// PhaseValidating means a persisted credential exists but has not yet
	// been confirmed against the backend. Transient: resolves to exactly
	// one of the other two phases.
	PhaseValidating

	// PhaseAuthenticated means a confirmed credential is persisted.
	PhaseAuthenticated
)

func (p Phase) String() string {
	switch p {
	case PhaseValidating:
		return "validating"
	case PhaseAuthenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// State is an immutable snapshot of the session. User is set while
// authenticated; Pending carries the unconfirmed credential while
// validating. Snapshots never mix fields from two transitions.
type State struct {
	Phase   Phase
	User    *models.UserProfile
	Pending *models.Credential
}
