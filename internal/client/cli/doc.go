// Package cli implements the interactive terminal client.
//
// NewApp wires the secure store, the token vault, the request pipeline, the
// domain services, the session manager and the route guard. Run restores the
// session, starts the connectivity watcher and reads commands until EOF or
// "exit".
//
// Every command that shows protected data first navigates to its route. When
// the guard redirects (no session), the command is not executed.
package cli
