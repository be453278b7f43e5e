package flows

// Upstream is a non-OK user directory result carried through a flow verbatim,
// so the engine can propagate it without rewording.
type Upstream struct {
	Code    int
	Message string
	Data    any
}

// Deps groups flow dependency sets. The root engine builds this once and
// delegates request methods to the matching flow implementation.
type Deps struct {
	Login   LoginDeps
	Refresh RefreshDeps
	Logout  LogoutDeps
}
