// Package router partitions the client's screens into a public and a
// protected group and keeps the current screen consistent with the session.
//
// Decide is the pure redirect rule. Guard applies it whenever the session or
// the navigator changes, using replace-style navigation.
package router
