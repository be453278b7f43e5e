//go:build integration
// +build integration

package test

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/frodez/authsess"
	"github.com/frodez/authsess/password"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

// newIntegrationRedis returns a client against miniredis, or against a real
// Redis when REDIS_ADDR is set (e.g. "127.0.0.1:6379").
func newIntegrationRedis(t *testing.T) (*redis.Client, func()) {
	t.Helper()

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: addr})
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			t.Skipf("cannot connect to Redis at %s: %v", addr, err)
		}
		rdb.FlushDB(context.Background())
		return rdb, func() { rdb.FlushDB(context.Background()); _ = rdb.Close() }
	}

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return rdb, func() { _ = rdb.Close(); mr.Close() }
}

// memoryDirectory is an in-memory UserDirectory backed by real bcrypt hashes.
type memoryDirectory struct {
	mu    sync.Mutex
	users map[string]*authsess.UserInfo
}

func newMemoryDirectory(t *testing.T) *memoryDirectory {
	t.Helper()

	hasher, err := password.NewBcrypt(password.Config{Cost: bcrypt.MinCost})
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	hash := func(plain string) string {
		h, err := hasher.Hash(plain)
		if err != nil {
			t.Fatalf("hash %q: %v", plain, err)
		}
		return h
	}

	return &memoryDirectory{
		users: map[string]*authsess.UserInfo{
			"alice": {
				ID:           1,
				Username:     "alice",
				Name:         "Alice Liddell",
				PasswordHash: hash("correct-horse"),
				Status:       authsess.StatusNormal,
				Permissions: []authsess.PermissionInfo{
					{ID: 10, Name: "user:read"},
					{ID: 11, Name: "user:write"},
				},
			},
			"bobby": {
				ID:           2,
				Username:     "bobby",
				Name:         "Bob",
				PasswordHash: hash("hunter-two"),
				Status:       authsess.StatusNormal,
				Permissions:  []authsess.PermissionInfo{{ID: 10, Name: "user:read"}},
			},
		},
	}
}

func (d *memoryDirectory) Lookup(_ context.Context, username string) authsess.Result {
	d.mu.Lock()
	defer d.mu.Unlock()
	u, ok := d.users[username]
	if !ok {
		return authsess.Fail("用户不存在")
	}
	return authsess.OK(u)
}

func newIntegrationEngine(t *testing.T) *authsess.Engine {
	t.Helper()

	rdb, cleanup := newIntegrationRedis(t)
	t.Cleanup(cleanup)

	cfg := authsess.Config{
		Token: authsess.TokenConfig{
			TTL:           30 * time.Minute,
			SigningMethod: "hs256",
			Secret:        []byte("integration-secret-integration-s"),
			Issuer:        "authsess-integration",
			BearerPrefix:  "Bearer ",
		},
		Session: authsess.SessionConfig{
			RedisPrefix: "asint",
			IdleTTL:     2 * time.Hour,
		},
		Login:   authsess.LoginConfig{SingleSession: true},
		Metrics: authsess.MetricsConfig{Enabled: true},
	}

	engine, err := authsess.New().
		WithConfig(cfg).
		WithRedis(rdb).
		WithUserDirectory(newMemoryDirectory(t)).
		Build()
	if err != nil {
		t.Fatalf("build engine: %v", err)
	}
	t.Cleanup(engine.Close)

	return engine
}

type headerRequest struct {
	authorization string
	cookieCleared bool
}

func (r *headerRequest) Header(name string) string {
	if name == "Authorization" {
		return r.authorization
	}
	return ""
}

func (r *headerRequest) ClearAuthCookie() {
	r.cookieCleared = true
}
