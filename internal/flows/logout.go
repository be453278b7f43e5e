package flows

import (
	"context"
	"fmt"
)

// LogoutFailure classifies logout flow failures for root-level mapping.
type LogoutFailure int

const (
	LogoutFailureNone LogoutFailure = iota
	// LogoutFailureNotOnline means no live session exists for the presented
	// token (including a missing or malformed Authorization header).
	LogoutFailureNotOnline
	LogoutFailureInternal
)

// LogoutResult carries the removed token or failure metadata.
type LogoutResult struct {
	Failure LogoutFailure
	Err     error
	Token   string
}

// LogoutDeps captures logout flow dependencies.
type LogoutDeps struct {
	ExtractBearer func(rawHeader string) (string, bool)
	ExistToken    func(ctx context.Context, token string) (bool, error)
	Remove        func(ctx context.Context, token string) (bool, error)
}

// RunLogout invalidates the session bound to the request's bearer token.
// Logging out twice is a business failure, never an internal one.
func RunLogout(ctx context.Context, authorization string, deps LogoutDeps) LogoutResult {
	token, ok := deps.ExtractBearer(authorization)
	if !ok {
		return LogoutResult{Failure: LogoutFailureNotOnline}
	}

	online, err := deps.ExistToken(ctx, token)
	if err != nil {
		return LogoutResult{Failure: LogoutFailureInternal, Err: fmt.Errorf("session lookup: %w", err)}
	}
	if !online {
		return LogoutResult{Failure: LogoutFailureNotOnline, Token: token}
	}

	removed, err := deps.Remove(ctx, token)
	if err != nil {
		return LogoutResult{Failure: LogoutFailureInternal, Err: fmt.Errorf("session remove: %w", err)}
	}
	if !removed {
		// Raced another logout for the same token.
		return LogoutResult{Failure: LogoutFailureNotOnline, Token: token}
	}

	return LogoutResult{Token: token}
}
