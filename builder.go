package authsess

import (
	"context"
	"errors"
	"time"

	"github.com/frodez/authsess/internal/flows"
	"github.com/frodez/authsess/password"
	"github.com/frodez/authsess/session"
	"github.com/frodez/authsess/token"
	"github.com/redis/go-redis/v9"
)

// Builder defines a public type used by authsess APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config Config
	redis  *redis.Client

	directory UserDirectory
	hasher    PasswordHasher
	auditSink AuditSink
	clock     func() time.Time

	built bool
}

// New describes the new operation and its observable behavior.
//
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig describes the withconfig operation and its observable behavior.
//
// WithConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis describes the withredis operation and its observable behavior.
//
// WithRedis does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithRedis(client *redis.Client) *Builder {
	b.redis = client
	return b
}

// WithUserDirectory describes the withuserdirectory operation and its observable behavior.
//
// WithUserDirectory does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithUserDirectory(dir UserDirectory) *Builder {
	b.directory = dir
	return b
}

// WithPasswordHasher describes the withpasswordhasher operation and its observable behavior.
//
// WithPasswordHasher does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithPasswordHasher(h PasswordHasher) *Builder {
	b.hasher = h
	return b
}

// WithAuditSink describes the withauditsink operation and its observable behavior.
//
// WithAuditSink does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithClock describes the withclock operation and its observable behavior.
//
// WithClock does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.clock = now
	return b
}

// WithMetricsEnabled describes the withmetricsenabled operation and its observable behavior.
//
// WithMetricsEnabled does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// Build describes the build operation and its observable behavior.
//
// Build may return an error when input validation, dependency calls, or security checks fail.
// Build does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)

	if b.redis == nil {
		return nil, errors.New("redis client required")
	}
	if b.directory == nil {
		return nil, errors.New("user directory required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	now := b.clock
	if now == nil {
		now = time.Now
	}

	hasher := b.hasher
	if hasher == nil {
		bc, err := password.NewBcrypt(password.Config{})
		if err != nil {
			return nil, err
		}
		hasher = bc
	}

	codec, err := token.NewCodec(token.Config{
		TTL:           cfg.Token.TTL,
		SigningMethod: token.SigningMethod(cfg.Token.SigningMethod),
		Secret:        cloneBytes(cfg.Token.Secret),
		PrivateKey:    cloneBytes(cfg.Token.PrivateKey),
		PublicKey:     cloneBytes(cfg.Token.PublicKey),
		Issuer:        cfg.Token.Issuer,
		BearerPrefix:  cfg.Token.BearerPrefix,
		Leeway:        cfg.Token.Leeway,
		Now:           now,
	})
	if err != nil {
		return nil, err
	}

	store := session.NewStore(b.redis, cfg.Session.RedisPrefix, cfg.Session.IdleTTL, now)

	engine := &Engine{
		config:       cfg,
		codec:        codec,
		sessionStore: store,
		directory:    b.directory,
		hasher:       hasher,
		now:          now,
	}
	engine.audit = newAuditDispatcher(cfg.Audit, b.auditSink)
	engine.metrics = NewMetrics(cfg.Metrics)
	engine.flows = flows.New(engine.flowDeps())

	b.built = true

	return engine, nil
}

func (e *Engine) flowDeps() flows.Deps {
	lookup := func(ctx context.Context, username string) (*session.User, *flows.Upstream, error) {
		r := e.directory.Lookup(ctx, username)
		if r.Unable() {
			return nil, &flows.Upstream{Code: int(r.Code), Message: r.Message, Data: r.Data}, nil
		}
		info, ok := r.Data.(*UserInfo)
		if !ok || info == nil {
			return nil, nil, ErrUserDirectoryPayload
		}
		return info.sessionUser(), nil, nil
	}

	mint := func(username string, authorities []string) (string, error) {
		return e.codec.Mint(username, authorities, e.config.Token.TTL)
	}

	return flows.Deps{
		Login: flows.LoginDeps{
			SingleSession: e.config.Login.SingleSession,
			Lookup:        lookup,
			MatchPassword: e.hasher.Matches,
			ExistUserID:   e.sessionStore.ExistUserID,
			Mint:          mint,
			SaveSession: func(ctx context.Context, tk string, user *session.User) (*session.Entry, error) {
				return e.sessionStore.Save(ctx, tk, user, !e.config.Login.SingleSession)
			},
		},
		Refresh: flows.RefreshDeps{
			VerifySubject: func(oldToken string) (string, error) {
				principal, err := e.codec.Verify(oldToken, true)
				if err != nil {
					return "", err
				}
				return principal.Subject, nil
			},
			GetSession: e.sessionStore.Get,
			Lookup:     lookup,
			Mint:       mint,
			Rotate:     e.sessionStore.Rotate,
		},
		Logout: flows.LogoutDeps{
			ExtractBearer: e.codec.ExtractBearer,
			ExistToken:    e.sessionStore.ExistToken,
			Remove:        e.sessionStore.Remove,
		},
	}
}
