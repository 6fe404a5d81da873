// Package session owns the process-wide session state of the client.
//
// A Manager starts in PhaseRestoring and settles into PhaseAuthenticated or
// PhaseUnauthenticated once Restore has read the vault. SignIn, Register,
// SignOut and Expire are the only writers of the state; observers receive a
// copy after every change through Subscribe.
//
// Only one operation runs at a time. A call made while another is in flight
// is rejected with common.ErrBusy and leaves the state untouched. Outcome
// failures are not returned as errors: they are stored in State.Error.
package session
