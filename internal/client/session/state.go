package session

import "github.com/dmitrijs2005/campus/internal/client/models"

type Phase int

const (
	PhaseRestoring Phase = iota
	PhaseUnauthenticated
	PhaseAuthenticated
)

func (p Phase) String() string {
	switch p {
	case PhaseRestoring:
		return "restoring"
	case PhaseUnauthenticated:
		return "unauthenticated"
	case PhaseAuthenticated:
		return "authenticated"
	}
	return "unknown"
}

// State is a snapshot of the session. User is set only in PhaseAuthenticated.
type State struct {
	Phase     Phase
	User      *models.Profile
	IsLoading bool
	Error     string
}

func (s State) Authenticated() bool {
	return s.Phase == PhaseAuthenticated
}

func (s State) clone() State {
	s.User = s.User.Clone()
	return s
}

// Listener receives state snapshots. It must not call mutating Manager
// methods synchronously.
type Listener func(State)
