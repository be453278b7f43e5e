package authsess

import (
	"context"

	"github.com/frodez/authsess/session"
)

// UserStatus defines a public type used by authsess APIs.
//
// UserStatus instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type UserStatus uint8

const (
	// StatusNormal is an exported constant or variable used by the authentication engine.
	StatusNormal UserStatus = 1
	// StatusDisabled is an exported constant or variable used by the authentication engine.
	StatusDisabled UserStatus = 2
	// StatusLocked is an exported constant or variable used by the authentication engine.
	StatusLocked UserStatus = 3
)

// PermissionInfo is a named capability granted to a user. Only the name is
// carried into the token's authority claims.
type PermissionInfo struct {
	ID          int64
	Name        string
	Description string
}

// UserInfo is the account record returned by [UserDirectory]. The engine
// treats it as immutable; the password hash is only ever compared, never
// exposed through a result payload.
type UserInfo struct {
	ID           int64
	Username     string
	Name         string
	PasswordHash string
	Status       UserStatus
	Permissions  []PermissionInfo
}

// AuthorityNames returns the permission names in their granted order.
func (u *UserInfo) AuthorityNames() []string {
	if u == nil || len(u.Permissions) == 0 {
		return nil
	}
	names := make([]string, 0, len(u.Permissions))
	for _, p := range u.Permissions {
		names = append(names, p.Name)
	}
	return names
}

func (u *UserInfo) sessionUser() *session.User {
	return &session.User{
		ID:           u.ID,
		Username:     u.Username,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		Status:       uint8(u.Status),
		Authorities:  u.AuthorityNames(),
	}
}

// UserDirectory is the port through which the engine resolves accounts.
// A successful lookup returns an OK [Result] whose Data is *[UserInfo];
// any non-OK result (unknown user, disabled account, upstream fault) is
// propagated to the caller verbatim.
type UserDirectory interface {
	Lookup(ctx context.Context, username string) Result
}

// PasswordHasher is the port used to compare a plaintext password against a
// stored hash. Implementations should be constant-time on equal-length
// inputs; [password.Bcrypt] is the default.
type PasswordHasher interface {
	Matches(plain, hash string) bool
}

// RequestContext is the per-request transport handle passed into
// [Engine.Logout]. It exposes the request headers and the response-side sink
// used to clear the auth cookie.
type RequestContext interface {
	Header(name string) string
	ClearAuthCookie()
}

// LoginParam is the validated login request.
type LoginParam struct {
	Username string
	Password string
}

// RefreshParam is the validated token rotation request.
type RefreshParam struct {
	Username string
	OldToken string
}
