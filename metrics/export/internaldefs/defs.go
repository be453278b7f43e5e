package internaldefs

import (
	"github.com/frodez/authsess"
)

// CounterDef defines a public type used by authsess APIs.
//
// CounterDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CounterDef struct {
	ID   authsess.MetricID
	Name string
	Help string
}

// CounterDefs is an exported constant or variable used by the authentication engine.
var CounterDefs = []CounterDef{
	{ID: authsess.MetricLoginSuccess, Name: "authsess_login_success_total", Help: "Successful login attempts."},
	{ID: authsess.MetricLoginFailure, Name: "authsess_login_failure_total", Help: "Login attempts failed on credentials."},
	{ID: authsess.MetricLoginBlocked, Name: "authsess_login_blocked_total", Help: "Login attempts blocked by an existing live session."},
	{ID: authsess.MetricRefreshSuccess, Name: "authsess_refresh_success_total", Help: "Successful token rotations."},
	{ID: authsess.MetricRefreshNoAuth, Name: "authsess_refresh_noauth_total", Help: "Refresh attempts rejected as unauthenticated."},
	{ID: authsess.MetricRefreshStale, Name: "authsess_refresh_stale_total", Help: "Refresh attempts rejected on a stale directory record."},
	{ID: authsess.MetricLogoutSuccess, Name: "authsess_logout_success_total", Help: "Successful logout operations."},
	{ID: authsess.MetricLogoutNotOnline, Name: "authsess_logout_not_online_total", Help: "Logout attempts without a live session."},
	{ID: authsess.MetricSessionCreated, Name: "authsess_session_created_total", Help: "Created sessions."},
	{ID: authsess.MetricSessionInvalidated, Name: "authsess_session_invalidated_total", Help: "Invalidated sessions."},
	{ID: authsess.MetricServiceError, Name: "authsess_service_error_total", Help: "Operations collapsed into a service error."},
}
