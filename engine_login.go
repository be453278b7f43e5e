package authsess

import (
	"context"

	"github.com/frodez/authsess/internal/flows"
	"github.com/frodez/authsess/session"
	"github.com/frodez/authsess/token"
)

// User-facing failure messages, kept byte-for-byte stable for API clients.
const (
	msgBadCredentials = "用户名或密码错误"
	msgAlreadyOnline  = "用户已登录"
	msgNotOnline      = "用户已下线"
)

// Login describes the login operation and its observable behavior.
//
// Login authenticates the credentials, mints a bearer token, records the
// session, and installs the principal into sc. The credentials message never
// reveals whether the username exists, and a wrong password never reveals
// whether the user is currently logged in.
// Login may return a non-OK Result when input validation, dependency calls, or security checks fail.
func (e *Engine) Login(ctx context.Context, sc *SecurityContext, param LoginParam) Result {
	if !e.ready() {
		return ServiceError()
	}
	if err := flows.CheckUsername(param.Username); err != nil {
		return Fail(err.Error())
	}
	if err := flows.CheckPassword(param.Password); err != nil {
		return Fail(err.Error())
	}

	res := e.flows.Login(ctx, param.Username, param.Password)
	switch res.Failure {
	case flows.LoginFailureNone:
	case flows.LoginFailureUpstream:
		return Result{Code: Code(res.Upstream.Code), Message: res.Upstream.Message, Data: res.Upstream.Data}
	case flows.LoginFailureBadCredentials:
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, param.Username, auditUserID(res.User), nil, func() map[string]string {
			return map[string]string{"reason": "bad_credentials"}
		})
		return Fail(msgBadCredentials)
	case flows.LoginFailureAlreadyOnline:
		e.metricInc(MetricLoginBlocked)
		e.emitAudit(ctx, auditEventLoginBlocked, false, param.Username, auditUserID(res.User), nil, nil)
		return Fail(msgAlreadyOnline)
	default:
		return e.serviceFault(ctx, "login", param.Username, res.Err)
	}

	sc.Set(e.principalFor(res.User))
	e.metricInc(MetricLoginSuccess)
	e.metricInc(MetricSessionCreated)
	e.emitAudit(ctx, auditEventLoginSuccess, true, param.Username, res.User.ID, nil, nil)

	return OK(res.Token)
}

func (e *Engine) principalFor(user *session.User) token.Principal {
	now := e.now()
	return token.Principal{
		Subject:     user.Username,
		Authorities: user.Authorities,
		IssuedAt:    now,
		ExpiresAt:   now.Add(e.config.Token.TTL),
	}
}

func auditUserID(user *session.User) int64 {
	if user == nil {
		return 0
	}
	return user.ID
}
