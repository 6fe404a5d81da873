package router

import "github.com/dmitrijs2005/campus/internal/client/session"

// Decide returns where path must be redirected to for the given phase, if
// anywhere. No decision is made while the session is restoring.
func Decide(phase session.Phase, path string, t Table) (target string, redirect bool) {
	group := t.GroupOf(path)
	switch {
	case phase == session.PhaseUnauthenticated && group == GroupProtected:
		return t.PublicEntry, true
	case phase == session.PhaseAuthenticated && group == GroupPublic:
		return t.ProtectedEntry, true
	}
	return "", false
}
