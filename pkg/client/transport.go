package client

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// SessionState is the in-memory session the transport consults first.
// A 401 from the API forces it into the logged-out state.
type SessionState interface {
	Token() string
	Logout()
}

// CredentialStore is the persisted-token fallback, keyed by "token".
type CredentialStore interface {
	Get(ctx context.Context, key string) (string, error)
}

const tokenKey = "token"

// authTransport wraps every request the client sends. It attaches the
// bearer token on the way out and watches for authorization failures on
// the way back, so no call site has to repeat either. Composed exactly
// once, at client construction.
type authTransport struct {
	base    http.RoundTripper
	static  string // fixed token (env override); bypasses session and store
	session SessionState
	store   CredentialStore
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Per-request clone: RoundTrippers must not mutate the original.
	req = req.Clone(req.Context())
	req.Header.Set("X-Request-Id", uuid.NewString())
	if tok := t.resolveToken(req.Context()); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	// The only place that reacts to 401. The response still reaches the
	// caller unchanged so its own error path fires too. Requests already
	// in flight are not cancelled; ones that have not resolved a token
	// yet will see the cleared session.
	if resp.StatusCode == http.StatusUnauthorized && t.session != nil {
		t.session.Logout()
	}
	return resp, nil
}

// resolveToken picks the bearer token: fixed override, then the live
// session, then the persisted store. Failure to resolve is not an error;
// the request simply goes out without the header and the server decides.
func (t *authTransport) resolveToken(ctx context.Context) string {
	if t.static != "" {
		return t.static
	}
	if t.session != nil {
		if tok := t.session.Token(); tok != "" {
			return tok
		}
	}
	if t.store != nil {
		if tok, err := t.store.Get(ctx, tokenKey); err == nil {
			return tok
		}
	}
	return ""
}
