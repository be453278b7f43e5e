package token

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrMalformedToken is returned when a token fails structural or signature checks.
var ErrMalformedToken = errors.New("malformed token")

// ErrExpiredToken is returned when a structurally valid token is past its expiry.
var ErrExpiredToken = errors.New("expired token")

// DefaultBearerPrefix is the scheme prefix stripped by [Codec.ExtractBearer].
const DefaultBearerPrefix = "Bearer "

// SigningMethod defines a public type used by authsess APIs.
//
// SigningMethod instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SigningMethod string

const (
	// MethodEd25519 is an exported constant or variable used by the authentication engine.
	MethodEd25519 SigningMethod = "ed25519"
	// MethodHS256 is an exported constant or variable used by the authentication engine.
	MethodHS256 SigningMethod = "hs256"
)

// Config defines a public type used by authsess APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	TTL           time.Duration
	SigningMethod SigningMethod
	Secret        []byte
	PrivateKey    []byte
	PublicKey     []byte
	Issuer        string
	BearerPrefix  string
	Leeway        time.Duration
	Now           func() time.Time
}

// Codec defines a public type used by authsess APIs.
//
// Codec instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Codec struct {
	config Config
}

// Principal is the identity carried by a verified token.
type Principal struct {
	Subject     string
	Authorities []string
	IssuedAt    time.Time
	ExpiresAt   time.Time
}

type tokenClaims struct {
	Authorities []string `json:"auth,omitempty"`
	jwt.RegisteredClaims
}

// NewCodec describes the newcodec operation and its observable behavior.
//
// NewCodec may return an error when input validation, dependency calls, or security checks fail.
// NewCodec does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewCodec(cfg Config) (*Codec, error) {
	if cfg.TTL <= 0 {
		return nil, errors.New("invalid TTL configuration")
	}
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, errors.New("invalid leeway configuration")
	}
	if cfg.BearerPrefix == "" {
		cfg.BearerPrefix = DefaultBearerPrefix
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	switch cfg.SigningMethod {
	case MethodHS256:
		if len(cfg.Secret) == 0 {
			return nil, errors.New("hs256 requires signing secret")
		}
	case MethodEd25519:
		if len(cfg.PrivateKey) > 0 {
			if _, err := parseEdPrivateKey(cfg.PrivateKey); err != nil {
				return nil, err
			}
		}
		if len(cfg.PublicKey) == 0 {
			return nil, errors.New("ed25519 requires public key")
		}
		if _, err := parseEdPublicKey(cfg.PublicKey); err != nil {
			return nil, err
		}
	default:
		return nil, errors.New("unsupported signing method")
	}

	return &Codec{config: cfg}, nil
}

// TTL reports the configured token lifetime.
func (c *Codec) TTL() time.Duration {
	return c.config.TTL
}

// Mint describes the mint operation and its observable behavior.
//
// Mint may return an error when input validation, dependency calls, or security checks fail.
// Mint does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Codec) Mint(username string, authorities []string, ttl time.Duration) (string, error) {
	if strings.TrimSpace(username) == "" {
		return "", errors.New("mint requires nonblank username")
	}
	if ttl <= 0 {
		ttl = c.config.TTL
	}

	now := c.config.Now()
	claims := tokenClaims{
		Authorities: authorities,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    c.config.Issuer,
			ID:        uuid.NewString(),
		},
	}

	tk := jwt.NewWithClaims(c.getMethod(), claims)

	signKey, err := c.getSignKey()
	if err != nil {
		return "", err
	}

	return tk.SignedString(signKey)
}

// Verify describes the verify operation and its observable behavior.
//
// Signature and structural failures map to [ErrMalformedToken]. Expiry maps to
// [ErrExpiredToken] and is only checked when allowExpired is false, so that the
// refresh flow can accept a recently expired token.
// Verify does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Codec) Verify(tokenStr string, allowExpired bool) (*Principal, error) {
	// Claim validation is performed by hand below: the parser only checks
	// structure and signature, which keeps the two expiry modes in one path.
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{c.getMethod().Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	claims := &tokenClaims{}
	tk, err := parser.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != c.getMethod().Alg() {
			return nil, fmt.Errorf("unexpected signing algorithm: %s", t.Method.Alg())
		}
		return c.getVerifyKey()
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	if !tk.Valid {
		return nil, ErrMalformedToken
	}
	if strings.TrimSpace(claims.Subject) == "" || claims.ExpiresAt == nil {
		return nil, fmt.Errorf("%w: missing sub or exp claim", ErrMalformedToken)
	}
	if c.config.Issuer != "" && claims.Issuer != c.config.Issuer {
		return nil, fmt.Errorf("%w: issuer mismatch", ErrMalformedToken)
	}

	expiresAt := claims.ExpiresAt.Time
	if !allowExpired {
		if !c.config.Now().Before(expiresAt.Add(c.config.Leeway)) {
			return nil, ErrExpiredToken
		}
	}

	principal := &Principal{
		Subject:     claims.Subject,
		Authorities: claims.Authorities,
		ExpiresAt:   expiresAt,
	}
	if claims.IssuedAt != nil {
		principal.IssuedAt = claims.IssuedAt.Time
	}

	return principal, nil
}

// ExtractBearer describes the extractbearer operation and its observable behavior.
//
// The scheme prefix match is case-insensitive. The second return value is false
// when the header does not carry a bearer token.
// ExtractBearer does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Codec) ExtractBearer(rawHeader string) (string, bool) {
	prefix := c.config.BearerPrefix
	if len(rawHeader) <= len(prefix) {
		return "", false
	}
	if !strings.EqualFold(rawHeader[:len(prefix)], prefix) {
		return "", false
	}
	tk := strings.TrimSpace(rawHeader[len(prefix):])
	if tk == "" {
		return "", false
	}
	return tk, true
}

func (c *Codec) getMethod() jwt.SigningMethod {
	switch c.config.SigningMethod {
	case MethodHS256:
		return jwt.SigningMethodHS256
	default:
		return jwt.SigningMethodEdDSA
	}
}

func (c *Codec) getSignKey() (interface{}, error) {
	switch c.config.SigningMethod {
	case MethodHS256:
		return c.config.Secret, nil
	default:
		return parseEdPrivateKey(c.config.PrivateKey)
	}
}

func (c *Codec) getVerifyKey() (interface{}, error) {
	switch c.config.SigningMethod {
	case MethodHS256:
		return c.config.Secret, nil
	default:
		return parseEdPublicKey(c.config.PublicKey)
	}
}

func parseEdPrivateKey(key []byte) (ed25519.PrivateKey, error) {
	if len(key) == ed25519.PrivateKeySize {
		return ed25519.PrivateKey(key), nil
	}
	parsed, err := jwt.ParseEdPrivateKeyFromPEM(key)
	if err != nil {
		return nil, errors.New("invalid ed25519 private key")
	}
	edKey, ok := parsed.(ed25519.PrivateKey)
	if !ok {
		return nil, errors.New("invalid ed25519 private key type")
	}
	return edKey, nil
}

func parseEdPublicKey(key []byte) (ed25519.PublicKey, error) {
	if len(key) == ed25519.PublicKeySize {
		return ed25519.PublicKey(key), nil
	}
	parsed, err := jwt.ParseEdPublicKeyFromPEM(key)
	if err != nil {
		return nil, errors.New("invalid ed25519 public key")
	}
	edKey, ok := parsed.(ed25519.PublicKey)
	if !ok {
		return nil, errors.New("invalid ed25519 public key type")
	}
	return edKey, nil
}
