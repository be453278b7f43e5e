package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

const minPassBytes = 6

// Config defines a public type used by authsess APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Cost int
}

// Bcrypt defines a public type used by authsess APIs.
//
// Bcrypt instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Bcrypt struct {
	cost int
}

// NewBcrypt describes the newbcrypt operation and its observable behavior.
//
// NewBcrypt may return an error when input validation, dependency calls, or security checks fail.
// NewBcrypt does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewBcrypt(cfg Config) (*Bcrypt, error) {
	if cfg.Cost == 0 {
		cfg.Cost = bcrypt.DefaultCost
	}
	if cfg.Cost < bcrypt.MinCost || cfg.Cost > bcrypt.MaxCost {
		return nil, errors.New("invalid bcrypt cost configuration")
	}
	return &Bcrypt{cost: cfg.Cost}, nil
}

// Hash describes the hash operation and its observable behavior.
//
// Hash may return an error when input validation, dependency calls, or security checks fail.
// Hash does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Bcrypt) Hash(plain string) (string, error) {
	if len(plain) < minPassBytes {
		return "", errors.New("password too short")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), b.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Matches describes the matches operation and its observable behavior.
//
// Matches reports whether plain corresponds to the stored hash. Malformed
// hashes simply fail the comparison.
// Matches does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Bcrypt) Matches(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
