// Package flows holds the login, refresh, and logout orchestration logic,
// decoupled from the root package through dependency structs. Flow functions
// return failure kinds instead of result envelopes; the root engine maps them
// to its public result codes and user-facing messages.
package flows
