package authsess

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

var testTokenSecret = []byte("test-secret-test-secret-test-sec")

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Unix(1700000000, 0)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// directoryStub is an in-memory UserDirectory. Tests mutate it directly to
// simulate out-of-band account changes between login and refresh.
type directoryStub struct {
	mu       sync.Mutex
	users    map[string]*UserInfo
	override map[string]Result
}

func newDirectoryStub() *directoryStub {
	return &directoryStub{
		users:    map[string]*UserInfo{},
		override: map[string]Result{},
	}
}

func (d *directoryStub) add(u *UserInfo) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.users[u.Username] = u
}

func (d *directoryStub) failWith(username string, r Result) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.override[username] = r
}

func (d *directoryStub) setPasswordHash(username, hash string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	u := *d.users[username]
	u.PasswordHash = hash
	d.users[username] = &u
}

func (d *directoryStub) setName(username, name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	u := *d.users[username]
	u.Name = name
	d.users[username] = &u
}

func (d *directoryStub) Lookup(_ context.Context, username string) Result {
	d.mu.Lock()
	defer d.mu.Unlock()
	if r, ok := d.override[username]; ok {
		return r
	}
	u, ok := d.users[username]
	if !ok {
		return Fail("用户不存在")
	}
	return OK(u)
}

type stubHasher struct{}

// Matches treats "h:<plain>" as the stored hash shape, keeping engine tests
// free of real bcrypt latency.
func (stubHasher) Matches(plain, hash string) bool {
	return hash == "h:"+plain
}

type stubRequest struct {
	headers       map[string]string
	cookieCleared bool
}

func (r *stubRequest) Header(name string) string {
	return r.headers[name]
}

func (r *stubRequest) ClearAuthCookie() {
	r.cookieCleared = true
}

func bearerRequest(token string) *stubRequest {
	return &stubRequest{headers: map[string]string{"Authorization": "Bearer " + token}}
}

func aliceInfo() *UserInfo {
	return &UserInfo{
		ID:           1,
		Username:     "alice",
		Name:         "Alice Liddell",
		PasswordHash: "h:pw",
		Status:       StatusNormal,
		Permissions: []PermissionInfo{
			{ID: 10, Name: "user:read"},
			{ID: 11, Name: "user:write"},
		},
	}
}

func bobInfo() *UserInfo {
	return &UserInfo{
		ID:           2,
		Username:     "bobby",
		Name:         "Bob",
		PasswordHash: "h:pw2",
		Status:       StatusNormal,
		Permissions:  []PermissionInfo{{ID: 10, Name: "user:read"}},
	}
}

type engineFixture struct {
	engine *Engine
	mr     *miniredis.Miniredis
	rdb    *redis.Client
	dir    *directoryStub
	clock  *fakeClock
}

func newEngineFixture(t *testing.T, mutate func(*Config, *Builder)) *engineFixture {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	clock := newFakeClock()
	dir := newDirectoryStub()
	dir.add(aliceInfo())
	dir.add(bobInfo())

	cfg := defaultConfig()
	cfg.Token.TTL = 30 * time.Minute
	cfg.Token.Secret = testTokenSecret
	cfg.Token.Issuer = "authsess-test"
	cfg.Session.RedisPrefix = "as"
	cfg.Session.IdleTTL = 2 * time.Hour

	builder := New()
	if mutate != nil {
		mutate(&cfg, builder)
	}
	builder.WithConfig(cfg).
		WithRedis(rdb).
		WithUserDirectory(dir).
		WithPasswordHasher(stubHasher{}).
		WithClock(clock.Now)

	engine, err := builder.Build()
	if err != nil {
		t.Fatalf("build engine: %v", err)
	}

	t.Cleanup(func() {
		engine.Close()
		rdb.Close()
		mr.Close()
	})

	return &engineFixture{engine: engine, mr: mr, rdb: rdb, dir: dir, clock: clock}
}
