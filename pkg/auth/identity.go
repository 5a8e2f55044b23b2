// Package auth carries the caller identity used for outbound service calls.
//
// There is no ambient authenticated state in this engine: every client that
// can act on behalf of a user takes an explicit Identity, and callers decide
// per call whether to impersonate or stay anonymous.
package auth

import "context"

// Identity is the end user an outbound call is performed as. The zero value
// is the anonymous service identity.
type Identity struct {
	User string
}

// Anonymous is the service identity used when no user should be impersonated.
var Anonymous = Identity{}

// User returns an identity impersonating the given user, or Anonymous when
// the user is empty.
func User(user string) Identity {
	return Identity{User: user}
}

func (i Identity) IsAnonymous() bool {
	return i.User == ""
}

type contextKey string

const identityKey contextKey = "identity"

// WithIdentity returns a context carrying the identity of the inbound caller.
// Clients still take the identity explicitly; the context form only exists so
// transport handlers can hand it to the code that decides the call policy.
func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// FromContext returns the caller identity on ctx, or Anonymous.
func FromContext(ctx context.Context) Identity {
	identity, ok := ctx.Value(identityKey).(Identity)
	if !ok {
		return Anonymous
	}

	return identity
}
