package flows

import (
	"context"
	"errors"
	"fmt"

	"github.com/frodez/authsess/session"
)

// LoginFailure classifies login flow failures for root-level mapping.
type LoginFailure int

const (
	LoginFailureNone LoginFailure = iota
	LoginFailureUpstream
	LoginFailureBadCredentials
	LoginFailureAlreadyOnline
	LoginFailureInternal
)

// LoginResult carries either the issued token or failure metadata.
type LoginResult struct {
	Failure  LoginFailure
	Err      error
	Upstream *Upstream
	Token    string
	User     *session.User
	Entry    *session.Entry
}

// LoginDeps captures login flow dependencies.
type LoginDeps struct {
	SingleSession bool

	Lookup        func(ctx context.Context, username string) (*session.User, *Upstream, error)
	MatchPassword func(plain, hash string) bool
	ExistUserID   func(ctx context.Context, userID int64) (bool, error)
	Mint          func(username string, authorities []string) (string, error)
	SaveSession   func(ctx context.Context, token string, user *session.User) (*session.Entry, error)
}

// RunLogin executes credential verification and session creation without root
// package dependencies. The password check strictly precedes the online check:
// a caller with a wrong password never learns whether the user is logged in.
func RunLogin(ctx context.Context, username, password string, deps LoginDeps) LoginResult {
	user, upstream, err := deps.Lookup(ctx, username)
	if err != nil {
		return LoginResult{Failure: LoginFailureInternal, Err: fmt.Errorf("directory lookup: %w", err)}
	}
	if upstream != nil {
		return LoginResult{Failure: LoginFailureUpstream, Upstream: upstream}
	}

	if !deps.MatchPassword(password, user.PasswordHash) {
		return LoginResult{Failure: LoginFailureBadCredentials, User: user}
	}

	if deps.SingleSession {
		online, err := deps.ExistUserID(ctx, user.ID)
		if err != nil {
			return LoginResult{Failure: LoginFailureInternal, Err: err, User: user}
		}
		if online {
			return LoginResult{Failure: LoginFailureAlreadyOnline, User: user}
		}
	}

	token, err := deps.Mint(user.Username, user.Authorities)
	if err != nil {
		return LoginResult{Failure: LoginFailureInternal, Err: fmt.Errorf("mint token: %w", err), User: user}
	}

	entry, err := deps.SaveSession(ctx, token, user)
	if err != nil {
		// Lost a save race for the same user: equivalent to finding the
		// session during the online check above.
		if deps.SingleSession && errors.Is(err, session.ErrConflict) {
			return LoginResult{Failure: LoginFailureAlreadyOnline, User: user}
		}
		return LoginResult{Failure: LoginFailureInternal, Err: fmt.Errorf("save session: %w", err), User: user}
	}

	return LoginResult{Token: token, User: user, Entry: entry}
}
