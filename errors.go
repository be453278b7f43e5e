package authsess

import "errors"

var (
	// ErrEngineNotReady is an exported constant or variable used by the authentication engine.
	ErrEngineNotReady = errors.New("engine not initialized")
	// ErrSessionNotFound is an exported constant or variable used by the authentication engine.
	ErrSessionNotFound = errors.New("session not found")
	// ErrUserDirectoryPayload is an exported constant or variable used by the authentication engine.
	ErrUserDirectoryPayload = errors.New("user directory returned OK without *UserInfo payload")
)
