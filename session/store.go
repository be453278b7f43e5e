package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrConflict is returned when a save would create a second live session for
// a token or user id that already has one.
var ErrConflict = errors.New("session conflict")

// ErrRedisUnavailable is an exported constant or variable used by the authentication engine.
var ErrRedisUnavailable = errors.New("redis unavailable")

// RotateStatus reports the outcome of an atomic token rotation.
type RotateStatus int64

const (
	// RotateMissing means the old token had no live session.
	RotateMissing RotateStatus = 0
	// RotateRemovedOnly means the old session was removed but the new token
	// collided with a live entry; the user ends up cleanly logged out.
	RotateRemovedOnly RotateStatus = 1
	// RotateRotated means the old session was replaced by the new one.
	RotateRotated RotateStatus = 2
)

const saveSessionScript = `
if redis.call("EXISTS", KEYS[1]) == 1 then
  return 0
end
local existing = redis.call("GET", KEYS[2])
if existing then
  if ARGV[4] ~= "1" then
    return 0
  end
  redis.call("DEL", ARGV[5] .. existing)
end
redis.call("SET", KEYS[1], ARGV[1], "PX", ARGV[3])
redis.call("SET", KEYS[2], ARGV[2], "PX", ARGV[3])
return 1
`

var saveSessionLua = redis.NewScript(saveSessionScript)

const removeSessionScript = `
local blob = redis.call("GET", KEYS[1])
if not blob then
  return 0
end
local ok, entry = pcall(cjson.decode, blob)
if ok and entry and entry.user and entry.user.id then
  redis.call("DEL", ARGV[1] .. string.format("%d", entry.user.id))
end
redis.call("DEL", KEYS[1])
return 1
`

var removeSessionLua = redis.NewScript(removeSessionScript)

const removeByUserScript = `
local tk = redis.call("GET", KEYS[1])
if not tk then
  return 0
end
redis.call("DEL", ARGV[1] .. tk)
redis.call("DEL", KEYS[1])
return 1
`

var removeByUserLua = redis.NewScript(removeByUserScript)

const rotateSessionScript = `
local old = redis.call("GET", KEYS[1])
if not old then
  return 0
end
redis.call("DEL", KEYS[1])
if redis.call("EXISTS", KEYS[2]) == 1 then
  redis.call("DEL", KEYS[3])
  return 1
end
redis.call("SET", KEYS[2], ARGV[1], "PX", ARGV[3])
redis.call("SET", KEYS[3], ARGV[2], "PX", ARGV[3])
return 2
`

var rotateSessionLua = redis.NewScript(rotateSessionScript)

// Store defines a public type used by authsess APIs.
//
// Store instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Store struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	now    func() time.Time
}

// NewStore describes the newstore operation and its observable behavior.
//
// NewStore may return an error when input validation, dependency calls, or security checks fail.
// NewStore does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewStore(client *redis.Client, prefix string, idleTTL time.Duration, now func() time.Time) *Store {
	if prefix == "" {
		prefix = "authsess"
	}
	if idleTTL <= 0 {
		idleTTL = time.Hour
	}
	if now == nil {
		now = time.Now
	}
	return &Store{
		client: client,
		prefix: prefix,
		ttl:    idleTTL,
		now:    now,
	}
}

func (s *Store) tokenKey(token string) string {
	return s.prefix + ":token:" + token
}

func (s *Store) tokenKeyPrefix() string {
	return s.prefix + ":token:"
}

func (s *Store) userKey(userID int64) string {
	return s.prefix + ":uid:" + strconv.FormatInt(userID, 10)
}

func (s *Store) userKeyPrefix() string {
	return s.prefix + ":uid:"
}

// Save describes the save operation and its observable behavior.
//
// Save returns [ErrConflict] when a live session already exists for either
// the token or the user id. With replace set, an existing session for the
// same user is displaced instead (last login wins); a token collision is
// still a conflict. Both index directions are written in one script.
// Save does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Store) Save(ctx context.Context, token string, user *User, replace bool) (*Entry, error) {
	if token == "" || user == nil {
		return nil, errors.New("save requires token and user")
	}

	entry := s.newEntry(token, user)
	blob, err := json.Marshal(entry)
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}

	replaceFlag := "0"
	if replace {
		replaceFlag = "1"
	}
	res, err := saveSessionLua.Run(ctx, s.client,
		[]string{s.tokenKey(token), s.userKey(user.ID)},
		blob, token, s.ttl.Milliseconds(), replaceFlag, s.tokenKeyPrefix(),
	).Int64()
	if err != nil {
		return nil, unavailable("session save", err)
	}
	if res == 0 {
		return nil, ErrConflict
	}

	return entry, nil
}

// Get describes the get operation and its observable behavior.
//
// A cache miss is not an error: Get returns (nil, nil) when no live session
// exists for the token.
// Get does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Store) Get(ctx context.Context, token string) (*Entry, error) {
	if token == "" {
		return nil, nil
	}
	blob, err := s.client.Get(ctx, s.tokenKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, unavailable("session get", err)
	}

	entry := &Entry{}
	if err := json.Unmarshal(blob, entry); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return entry, nil
}

// ExistToken describes the existtoken operation and its observable behavior.
//
// ExistToken may return an error when input validation, dependency calls, or security checks fail.
// ExistToken does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Store) ExistToken(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}
	n, err := s.client.Exists(ctx, s.tokenKey(token)).Result()
	if err != nil {
		return false, unavailable("session exist token", err)
	}
	return n == 1, nil
}

// ExistUserID describes the existuserid operation and its observable behavior.
//
// ExistUserID may return an error when input validation, dependency calls, or security checks fail.
// ExistUserID does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Store) ExistUserID(ctx context.Context, userID int64) (bool, error) {
	n, err := s.client.Exists(ctx, s.userKey(userID)).Result()
	if err != nil {
		return false, unavailable("session exist user", err)
	}
	return n == 1, nil
}

// Remove describes the remove operation and its observable behavior.
//
// Remove drops both index directions in one script and reports whether a live
// session existed. Removing an absent token is a no-op, not an error.
// Remove does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Store) Remove(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}
	res, err := removeSessionLua.Run(ctx, s.client,
		[]string{s.tokenKey(token)},
		s.userKeyPrefix(),
	).Int64()
	if err != nil {
		return false, unavailable("session remove", err)
	}
	return res == 1, nil
}

// RemoveByUserID describes the removebyuserid operation and its observable behavior.
//
// RemoveByUserID may return an error when input validation, dependency calls, or security checks fail.
// RemoveByUserID does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Store) RemoveByUserID(ctx context.Context, userID int64) (bool, error) {
	res, err := removeByUserLua.Run(ctx, s.client,
		[]string{s.userKey(userID)},
		s.tokenKeyPrefix(),
	).Int64()
	if err != nil {
		return false, unavailable("session remove by user", err)
	}
	return res == 1, nil
}

// Rotate describes the rotate operation and its observable behavior.
//
// Rotate removes the old session and installs the new one in a single script,
// so the old and new tokens are never live at the same time. When the save
// half cannot proceed the old session is already gone and [RotateRemovedOnly]
// is reported; no state is left pointing at either token.
// Rotate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Store) Rotate(ctx context.Context, oldToken, newToken string, user *User) (RotateStatus, error) {
	if oldToken == "" || newToken == "" || user == nil {
		return RotateMissing, errors.New("rotate requires both tokens and user")
	}

	entry := s.newEntry(newToken, user)
	blob, err := json.Marshal(entry)
	if err != nil {
		return RotateMissing, fmt.Errorf("encode session: %w", err)
	}

	res, err := rotateSessionLua.Run(ctx, s.client,
		[]string{s.tokenKey(oldToken), s.tokenKey(newToken), s.userKey(user.ID)},
		blob, newToken, s.ttl.Milliseconds(),
	).Int64()
	if err != nil {
		return RotateMissing, unavailable("session rotate", err)
	}
	return RotateStatus(res), nil
}

// ActiveSessionEstimate describes the activesessionestimate operation and its observable behavior.
//
// ActiveSessionEstimate may return an error when input validation, dependency calls, or security checks fail.
// ActiveSessionEstimate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Store) ActiveSessionEstimate(ctx context.Context) (int, error) {
	var cursor uint64
	count := 0
	for {
		keys, next, err := s.client.Scan(ctx, cursor, s.tokenKeyPrefix()+"*", 512).Result()
		if err != nil {
			return 0, unavailable("session estimate", err)
		}
		count += len(keys)
		if next == 0 {
			return count, nil
		}
		cursor = next
	}
}

// Ping describes the ping operation and its observable behavior.
//
// Ping may return an error when input validation, dependency calls, or security checks fail.
// Ping does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Store) Ping(ctx context.Context) (time.Duration, error) {
	start := s.now()
	if err := s.client.Ping(ctx).Err(); err != nil {
		return 0, unavailable("session ping", err)
	}
	return s.now().Sub(start), nil
}

func (s *Store) newEntry(token string, user *User) *Entry {
	created := s.now()
	snapshot := *user
	return &Entry{
		Token:     token,
		User:      snapshot,
		CreatedAt: created.Unix(),
		ExpiresAt: created.Add(s.ttl).Unix(),
	}
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, ErrRedisUnavailable, err)
}
