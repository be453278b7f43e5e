package flows

import (
	"context"
	"fmt"

	"github.com/frodez/authsess/session"
)

// RefreshFailure classifies refresh flow failures for root-level mapping.
type RefreshFailure int

const (
	RefreshFailureNone RefreshFailure = iota
	// RefreshFailureNoAuth covers every precondition failure that must stay
	// indistinguishable to the caller: bad signature, foreign token, subject
	// mismatch, missing session.
	RefreshFailureNoAuth
	RefreshFailureUpstream
	// RefreshFailureStale means the directory record no longer matches the
	// cached snapshot (rename or password change since issuance).
	RefreshFailureStale
	RefreshFailureInternal
)

// RefreshResult carries either the rotated token or failure metadata.
type RefreshResult struct {
	Failure  RefreshFailure
	Err      error
	Upstream *Upstream
	Token    string
	User     *session.User
	Entry    *session.Entry
}

// RefreshDeps captures refresh flow dependencies.
type RefreshDeps struct {
	// VerifySubject checks signature and structure only; expiry is
	// deliberately tolerated so a just-expired token can still be rotated.
	VerifySubject func(oldToken string) (string, error)
	GetSession    func(ctx context.Context, token string) (*session.Entry, error)
	Lookup        func(ctx context.Context, username string) (*session.User, *Upstream, error)
	Mint          func(username string, authorities []string) (string, error)
	Rotate        func(ctx context.Context, oldToken, newToken string, user *session.User) (session.RotateStatus, error)
}

// RunRefresh rotates a session token without re-verifying the password.
// The cached snapshot is cross-checked against a fresh directory lookup:
// both the display name and the password hash must still match, otherwise
// the old session is left untouched and no rotation happens.
func RunRefresh(ctx context.Context, username, oldToken string, deps RefreshDeps) RefreshResult {
	subject, err := deps.VerifySubject(oldToken)
	if err != nil {
		return RefreshResult{Failure: RefreshFailureNoAuth}
	}
	if subject != username {
		return RefreshResult{Failure: RefreshFailureNoAuth}
	}

	cached, err := deps.GetSession(ctx, oldToken)
	if err != nil {
		return RefreshResult{Failure: RefreshFailureInternal, Err: fmt.Errorf("session lookup: %w", err)}
	}
	if cached == nil {
		return RefreshResult{Failure: RefreshFailureNoAuth}
	}

	user, upstream, err := deps.Lookup(ctx, username)
	if err != nil {
		return RefreshResult{Failure: RefreshFailureInternal, Err: fmt.Errorf("directory lookup: %w", err)}
	}
	if upstream != nil {
		return RefreshResult{Failure: RefreshFailureUpstream, Upstream: upstream}
	}

	if user.Name != cached.User.Name || user.PasswordHash != cached.User.PasswordHash {
		return RefreshResult{Failure: RefreshFailureStale, User: user}
	}

	newToken, err := deps.Mint(user.Username, user.Authorities)
	if err != nil {
		return RefreshResult{Failure: RefreshFailureInternal, Err: fmt.Errorf("mint token: %w", err), User: user}
	}

	status, err := deps.Rotate(ctx, oldToken, newToken, user)
	if err != nil {
		return RefreshResult{Failure: RefreshFailureInternal, Err: fmt.Errorf("rotate session: %w", err), User: user}
	}
	switch status {
	case session.RotateRotated:
	case session.RotateMissing:
		// Session vanished between the read above and the rotation
		// (concurrent logout or expiry).
		return RefreshResult{Failure: RefreshFailureNoAuth, User: user}
	case session.RotateRemovedOnly:
		return RefreshResult{Failure: RefreshFailureInternal, Err: session.ErrConflict, User: user}
	default:
		return RefreshResult{Failure: RefreshFailureInternal, Err: fmt.Errorf("unexpected rotate status %d", status), User: user}
	}

	return RefreshResult{Token: newToken, User: user}
}
