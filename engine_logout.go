package authsess

import (
	"context"

	"github.com/frodez/authsess/internal/flows"
)

// Logout describes the logout operation and its observable behavior.
//
// Logout invalidates the session bound to the request's bearer token, clears
// the per-request principal, and clears the auth cookie through the request's
// response sink. Logging out without a live session (including a second
// logout with the same token) is a business failure, not a service error.
// Logout may return a non-OK Result when input validation, dependency calls, or security checks fail.
func (e *Engine) Logout(ctx context.Context, sc *SecurityContext, req RequestContext) Result {
	if !e.ready() {
		return ServiceError()
	}

	var authorization string
	if req != nil {
		authorization = req.Header("Authorization")
	}

	res := e.flows.Logout(ctx, authorization)
	switch res.Failure {
	case flows.LogoutFailureNone:
	case flows.LogoutFailureNotOnline:
		e.metricInc(MetricLogoutNotOnline)
		e.emitAudit(ctx, auditEventLogoutNotOnline, false, "", 0, nil, nil)
		return Fail(msgNotOnline)
	default:
		return e.serviceFault(ctx, "logout", "", res.Err)
	}

	sc.Clear()
	if req != nil {
		req.ClearAuthCookie()
	}
	e.metricInc(MetricLogoutSuccess)
	e.metricInc(MetricSessionInvalidated)
	e.emitAudit(ctx, auditEventLogoutSession, true, "", 0, nil, nil)

	return OK(nil)
}
