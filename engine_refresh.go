package authsess

import (
	"context"

	"github.com/frodez/authsess/internal/flows"
)

// Refresh describes the refresh operation and its observable behavior.
//
// Refresh exchanges a signature-valid (possibly expired) token for a freshly
// minted one without re-supplying the password. Every precondition failure
// that could act as an oracle (forged token, foreign token, missing session)
// collapses into a single NO_AUTH result. A directory record that no longer
// matches the cached snapshot rejects the rotation and leaves the old session
// untouched.
// Refresh may return a non-OK Result when input validation, dependency calls, or security checks fail.
func (e *Engine) Refresh(ctx context.Context, sc *SecurityContext, param RefreshParam) Result {
	if !e.ready() {
		return ServiceError()
	}
	if err := flows.CheckUsername(param.Username); err != nil {
		return Fail(err.Error())
	}
	if err := flows.CheckOldToken(param.OldToken); err != nil {
		return Fail(err.Error())
	}

	res := e.flows.Refresh(ctx, param.Username, param.OldToken)
	switch res.Failure {
	case flows.RefreshFailureNone:
	case flows.RefreshFailureUpstream:
		return Result{Code: Code(res.Upstream.Code), Message: res.Upstream.Message, Data: res.Upstream.Data}
	case flows.RefreshFailureNoAuth:
		e.metricInc(MetricRefreshNoAuth)
		e.emitAudit(ctx, auditEventRefreshInvalid, false, param.Username, auditUserID(res.User), nil, nil)
		return NoAuth()
	case flows.RefreshFailureStale:
		e.metricInc(MetricRefreshStale)
		e.emitAudit(ctx, auditEventRefreshStale, false, param.Username, auditUserID(res.User), nil, func() map[string]string {
			return map[string]string{"reason": "directory_mismatch"}
		})
		return Fail(msgBadCredentials)
	default:
		return e.serviceFault(ctx, "refresh", param.Username, res.Err)
	}

	// Rotation replaced the old session atomically; re-issue the ambient
	// principal with the fresh authorities.
	sc.Clear()
	sc.Set(e.principalFor(res.User))
	e.metricInc(MetricRefreshSuccess)
	e.metricInc(MetricSessionInvalidated)
	e.metricInc(MetricSessionCreated)
	e.emitAudit(ctx, auditEventRefreshSuccess, true, param.Username, res.User.ID, nil, nil)

	return OK(res.Token)
}
