// Package authsess provides a session-token authentication engine with signed
// JWT bearer tokens, a Redis-backed revocation cache, single-active-session
// enforcement, and password-free token refresh.
//
// The package is designed for concurrent server workloads: Engine methods are
// safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// authsess is the public surface. It exposes [Engine], [Builder], [Config],
// the [Result] envelope, and the ports a host must implement ([UserDirectory],
// [PasswordHasher], [RequestContext]). Flow orchestration lives under
// internal/ and is never exported; token and session primitives live in the
// token and session subpackages.
//
// # What this package must NOT do
//
//   - Own HTTP transport, routing, or serialization; hosts adapt requests to
//     the engine's parameter types.
//   - Store or migrate user rows; the user directory is a port.
//   - Trust a signed token alone for revocable state: logout and the
//     single-session rule live in the session cache, on purpose.
//
// # Result discipline
//
// Business failures (bad credentials, already logged in, not logged in,
// refresh rejection) are returned as non-OK [Result] values with stable codes.
// Only unexpected collaborator faults are logged and collapsed into
// [CodeServiceError].
package authsess
