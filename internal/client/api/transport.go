package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/campus/internal/common"
	"github.com/google/uuid"
)

// TokenSource yields the current credential. The token vault implements it.
type TokenSource interface {
	ReadToken(ctx context.Context) (string, bool)
}

// authTransport is applied to every outbound request, redirected hops
// included. The bearer is only sent to the backend origin.
type authTransport struct {
	base    http.RoundTripper
	tokens  TokenSource
	headers http.Header
	origin  *url.URL
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())

	for k, vs := range t.headers {
		if r.Header.Get(k) != "" {
			continue
		}
		for _, v := range vs {
			r.Header.Add(k, v)
		}
	}

	if r.Header.Get(common.RequestIDHeaderName) == "" {
		r.Header.Set(common.RequestIDHeaderName, uuid.NewString())
	}

	r.Header.Del(common.AuthorizationHeaderName)
	if t.tokens != nil && t.sameOrigin(r.URL) {
		if tok, ok := t.tokens.ReadToken(r.Context()); ok {
			r.Header.Set(common.AuthorizationHeaderName, common.BearerScheme+" "+tok)
		}
	}

	return t.base.RoundTrip(r)
}

func (t *authTransport) sameOrigin(u *url.URL) bool {
	if t.origin == nil {
		return false
	}
	return strings.EqualFold(u.Scheme, t.origin.Scheme) && strings.EqualFold(u.Host, t.origin.Host)
}
