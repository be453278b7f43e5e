package authsess

import "github.com/frodez/authsess/token"

// SecurityContext is the per-request holder of the authenticated principal.
// Its lifetime equals one request and it is confined to that request's
// goroutine: the engine never shares it across requests, so no locking is
// performed. Setting the principal is idempotent within a request.
type SecurityContext struct {
	principal *token.Principal
}

// NewSecurityContext describes the newsecuritycontext operation and its observable behavior.
//
// NewSecurityContext does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewSecurityContext() *SecurityContext {
	return &SecurityContext{}
}

// Set installs the authenticated principal for the current request.
func (c *SecurityContext) Set(p token.Principal) {
	if c == nil {
		return
	}
	cp := p
	c.principal = &cp
}

// Get returns the current principal, if one has been set.
func (c *SecurityContext) Get() (token.Principal, bool) {
	if c == nil || c.principal == nil {
		return token.Principal{}, false
	}
	return *c.principal, true
}

// Clear removes the current principal.
func (c *SecurityContext) Clear() {
	if c == nil {
		return
	}
	c.principal = nil
}
