package authsess

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
)

// TestConcurrentSessionLifecycle hammers login/refresh/logout from many
// goroutines and then checks the cache invariants: both index directions
// agree, and no user holds more than one live session.
func TestConcurrentSessionLifecycle(t *testing.T) {
	fx := newEngineFixture(t, nil)
	ctx := context.Background()

	const workers = 8
	const iterations = 40

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		username := fmt.Sprintf("user%02d", w)
		fx.dir.add(&UserInfo{
			ID:           int64(100 + w),
			Username:     username,
			Name:         "Worker " + username,
			PasswordHash: "h:pw",
			Status:       StatusNormal,
			Permissions:  []PermissionInfo{{ID: 10, Name: "user:read"}},
		})

		wg.Add(1)
		go func() {
			defer wg.Done()
			var tok string
			for i := 0; i < iterations; i++ {
				switch i % 4 {
				case 0, 1:
					r := fx.engine.Login(ctx, NewSecurityContext(), LoginParam{Username: username, Password: "pw"})
					if !r.Unable() {
						tok = r.TokenString()
					}
				case 2:
					if tok != "" {
						r := fx.engine.Refresh(ctx, NewSecurityContext(), RefreshParam{Username: username, OldToken: tok})
						if !r.Unable() {
							tok = r.TokenString()
						}
					}
				case 3:
					if tok != "" {
						fx.engine.Logout(ctx, NewSecurityContext(), bearerRequest(tok))
						tok = ""
					}
				}
			}
		}()
	}
	wg.Wait()

	tokenKeys, err := fx.rdb.Keys(ctx, "as:token:*").Result()
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	uidKeys, err := fx.rdb.Keys(ctx, "as:uid:*").Result()
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if len(tokenKeys) != len(uidKeys) {
		t.Fatalf("index directions disagree: %d token keys, %d uid keys", len(tokenKeys), len(uidKeys))
	}

	seenUsers := map[int64]string{}
	for _, key := range tokenKeys {
		tok := strings.TrimPrefix(key, "as:token:")
		info, err := fx.engine.GetSessionInfo(ctx, tok)
		if err != nil {
			t.Fatalf("session info for %s: %v", key, err)
		}
		if prev, dup := seenUsers[info.UserID]; dup {
			t.Fatalf("user %d holds two live sessions (%s, %s)", info.UserID, prev, tok)
		}
		seenUsers[info.UserID] = tok

		// The uid side must point back at this exact token.
		back, err := fx.rdb.Get(ctx, fmt.Sprintf("as:uid:%d", info.UserID)).Result()
		if err != nil {
			t.Fatalf("uid index for %d: %v", info.UserID, err)
		}
		if back != tok {
			t.Fatalf("uid index for %d points at %q, token key is %q", info.UserID, back, tok)
		}
	}
}
