package authsess

import (
	"context"
	"time"
)

// SessionInfo is the safe introspection view for a session. It intentionally
// excludes the password hash snapshot and the raw cache encoding.
type SessionInfo struct {
	UserID      int64
	Username    string
	Name        string
	Authorities []string
	CreatedAt   int64
	ExpiresAt   int64
}

// HealthStatus is an on-demand backend health result.
type HealthStatus struct {
	RedisAvailable bool
	RedisLatency   time.Duration
}

// ActiveSessionEstimate describes the activesessionestimate operation and its observable behavior.
//
// ActiveSessionEstimate may return an error when input validation, dependency calls, or security checks fail.
// ActiveSessionEstimate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) ActiveSessionEstimate(ctx context.Context) (int, error) {
	if e == nil || e.sessionStore == nil {
		return 0, ErrEngineNotReady
	}
	return e.sessionStore.ActiveSessionEstimate(ctx)
}

// GetSessionInfo describes the getsessioninfo operation and its observable behavior.
//
// GetSessionInfo may return an error when input validation, dependency calls, or security checks fail.
// GetSessionInfo does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) GetSessionInfo(ctx context.Context, tokenStr string) (SessionInfo, error) {
	if e == nil || e.sessionStore == nil {
		return SessionInfo{}, ErrEngineNotReady
	}

	entry, err := e.sessionStore.Get(ctx, tokenStr)
	if err != nil {
		return SessionInfo{}, err
	}
	if entry == nil {
		return SessionInfo{}, ErrSessionNotFound
	}

	return SessionInfo{
		UserID:      entry.User.ID,
		Username:    entry.User.Username,
		Name:        entry.User.Name,
		Authorities: entry.User.Authorities,
		CreatedAt:   entry.CreatedAt,
		ExpiresAt:   entry.ExpiresAt,
	}, nil
}

// Kickout describes the kickout operation and its observable behavior.
//
// Kickout is the administrative eviction path: it removes the user's live
// session (both index directions) without a bearer token. It reports whether
// a session existed.
// Kickout may return an error when input validation, dependency calls, or security checks fail.
func (e *Engine) Kickout(ctx context.Context, userID int64) (bool, error) {
	if e == nil || e.sessionStore == nil {
		return false, ErrEngineNotReady
	}

	removed, err := e.sessionStore.RemoveByUserID(ctx, userID)
	if err != nil {
		return false, err
	}
	if removed {
		e.metricInc(MetricSessionInvalidated)
		e.emitAudit(ctx, auditEventSessionKickout, true, "", userID, nil, nil)
	}
	return removed, nil
}

// Health describes the health operation and its observable behavior.
//
// Health does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Health(ctx context.Context) HealthStatus {
	if e == nil || e.sessionStore == nil {
		return HealthStatus{}
	}

	latency, err := e.sessionStore.Ping(ctx)
	if err != nil {
		return HealthStatus{}
	}
	return HealthStatus{RedisAvailable: true, RedisLatency: latency}
}
