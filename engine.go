package authsess

import (
	"context"
	"log"
	"time"

	"github.com/frodez/authsess/internal/flows"
	"github.com/frodez/authsess/session"
	"github.com/frodez/authsess/token"
	"github.com/google/uuid"
)

const (
	auditEventLoginSuccess    = "login_success"
	auditEventLoginFailure    = "login_failure"
	auditEventLoginBlocked    = "login_blocked"
	auditEventRefreshSuccess  = "refresh_success"
	auditEventRefreshInvalid  = "refresh_invalid"
	auditEventRefreshStale    = "refresh_stale"
	auditEventLogoutSession   = "logout_session"
	auditEventLogoutNotOnline = "logout_not_online"
	auditEventSessionKickout  = "session_kickout"
	auditEventServiceError    = "service_error"
)

// Engine defines a public type used by authsess APIs.
//
// Engine instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Engine struct {
	config       Config
	codec        *token.Codec
	sessionStore *session.Store
	directory    UserDirectory
	hasher       PasswordHasher
	flows        flows.Service
	audit        *auditDispatcher
	metrics      *Metrics
	now          func() time.Time
}

// Close describes the close operation and its observable behavior.
//
// Close does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped describes the auditdropped operation and its observable behavior.
//
// AuditDropped does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
//
// MetricsSnapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) ready() bool {
	return e != nil && e.flows.Initialized()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

// serviceFault is the single boundary for unexpected collaborator errors:
// log with the operation name, record the audit event, surface a generic
// failure. Business failures never pass through here.
func (e *Engine) serviceFault(ctx context.Context, op, username string, err error) Result {
	log.Printf("authsess: %s failed: %v", op, err)
	e.metricInc(MetricServiceError)
	e.emitAudit(ctx, auditEventServiceError, false, username, 0, err, func() map[string]string {
		return map[string]string{"operation": op}
	})
	return ServiceError()
}

func (e *Engine) emitAudit(
	ctx context.Context,
	eventType string,
	success bool,
	username string,
	userID int64,
	err error,
	metadata func() map[string]string,
) {
	if e == nil || e.audit == nil {
		return
	}

	event := AuditEvent{
		EventID:   uuid.NewString(),
		Timestamp: e.now(),
		EventType: eventType,
		Username:  username,
		UserID:    userID,
		IP:        clientIPFromContext(ctx),
		Success:   success,
	}
	if err != nil {
		event.Error = err.Error()
	}
	if metadata != nil {
		event.Metadata = metadata()
	}

	e.audit.Emit(ctx, event)
}
