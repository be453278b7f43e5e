package authsess

import (
	"errors"
	"time"
)

// Config defines a public type used by authsess APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Token   TokenConfig
	Session SessionConfig
	Login   LoginConfig
	Audit   AuditConfig
	Metrics MetricsConfig
}

/*
====================================
TOKEN CONFIG
====================================
*/

// TokenConfig defines a public type used by authsess APIs.
//
// TokenConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type TokenConfig struct {
	TTL           time.Duration
	SigningMethod string // "hs256" (default), "ed25519" optional
	Secret        []byte
	PrivateKey    []byte
	PublicKey     []byte
	Issuer        string
	BearerPrefix  string
	Leeway        time.Duration
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig defines a public type used by authsess APIs.
//
// SessionConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SessionConfig struct {
	RedisPrefix string
	// IdleTTL bounds the cache entry lifetime. It must be at least the token
	// TTL, otherwise a live token could outlast its own session.
	IdleTTL time.Duration
}

/*
====================================
LOGIN CONFIG
====================================
*/

// LoginConfig defines a public type used by authsess APIs.
//
// LoginConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type LoginConfig struct {
	// SingleSession rejects a login while the user already has a live
	// session. When disabled, a new login displaces the previous session
	// instead; the cache never holds two sessions for one user.
	SingleSession bool
}

/*
====================================
AUDIT CONFIG
====================================
*/

// AuditConfig defines a public type used by authsess APIs.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig defines a public type used by authsess APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled bool
}

func defaultConfig() Config {
	return Config{
		Token: TokenConfig{
			TTL:           30 * time.Minute,
			SigningMethod: "hs256",
			BearerPrefix:  "Bearer ",
		},
		Session: SessionConfig{
			RedisPrefix: "authsess",
			IdleTTL:     2 * time.Hour,
		},
		Login: LoginConfig{
			SingleSession: true,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation, dependency calls, or security checks fail.
// Validate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c Config) Validate() error {
	if c.Token.TTL <= 0 {
		return errors.New("Token TTL must be positive")
	}
	if c.Session.IdleTTL < c.Token.TTL {
		return errors.New("Session IdleTTL must be at least Token TTL")
	}
	switch c.Token.SigningMethod {
	case "hs256":
		if len(c.Token.Secret) == 0 {
			return errors.New("hs256 requires Token Secret")
		}
	case "ed25519":
		if len(c.Token.PublicKey) == 0 {
			return errors.New("ed25519 requires Token PublicKey")
		}
	default:
		return errors.New("unsupported Token SigningMethod")
	}
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit BufferSize must be positive when audit is enabled")
	}
	return nil
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Token.Secret = cloneBytes(cfg.Token.Secret)
	out.Token.PrivateKey = cloneBytes(cfg.Token.PrivateKey)
	out.Token.PublicKey = cloneBytes(cfg.Token.PublicKey)
	return out
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
