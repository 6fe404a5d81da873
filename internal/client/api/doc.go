// Package api is the request pipeline of the campus client.
//
// # Overview
//
// Client sends JSON requests to the backend. Its base URL is resolved once at
// construction (see EnvResolver) and every request passes through a single
// RoundTripper that applies default headers, a request id and, when the token
// source holds a credential, the "Authorization: Bearer" header. There is no
// per-call way to skip the credential.
//
// # Error Handling
//
// Any failure is returned as *Error (the normalized error): Kind, HTTP status
// when a response was received, and the response payload when one was sent.
// Failures are logged and returned; the client never retries and never
// redirects. Use errors.As or IsKind to inspect them.
package api
