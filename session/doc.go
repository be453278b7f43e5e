// Package session is the authoritative Redis-backed cache of live login
// sessions. It maintains a bidirectional index (token to user snapshot, user
// id to token) so the engine can revoke tokens immediately and enforce the
// single-active-session rule.
//
// Every update that touches both directions of the index runs inside a single
// Redis Lua script, so concurrent login, refresh, and logout calls for the
// same user always observe the two indices in agreement.
package session
