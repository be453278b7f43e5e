package session

// User is the immutable account snapshot captured when a session is created.
// The password hash is retained so the refresh flow can detect out-of-band
// credential changes since the session was issued.
type User struct {
	ID           int64    `json:"id"`
	Username     string   `json:"username"`
	Name         string   `json:"name"`
	PasswordHash string   `json:"password_hash"`
	Status       uint8    `json:"status"`
	Authorities  []string `json:"authorities,omitempty"`
}

// Entry binds one live token to the user snapshot it was issued for.
type Entry struct {
	Token     string `json:"token"`
	User      User   `json:"user"`
	CreatedAt int64  `json:"created_at"`
	ExpiresAt int64  `json:"expires_at"`
}
