package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const replayKeyPrefix = "idemp:ax"

var reHex32 = regexp.MustCompile(`^[a-f0-9]{32}$`)

// replayEntry is what the store keeps per (method, path, user, request id).
// A reserved entry has InProgress set and no response yet.
type replayEntry struct {
	InProgress  bool      `json:"in_progress"`
	Code        int       `json:"code"`
	Body        []byte    `json:"body"`
	BodySHA256  string    `json:"body_sha256"`
	RequestID   string    `json:"request_id"`
	RequestAtMS int64     `json:"request_at_ms"`
	CreatedAt   time.Time `json:"created_at"`
}

func (e replayEntry) replayable() bool {
	return !e.InProgress && e.Code != 0 && len(e.Body) > 0
}

// replayKey scopes a request id to the caller, so two users may reuse the
// same Ax-Request-Id without seeing each other's responses.
type replayKey struct {
	Method    string
	Path      string
	UserID    string
	RequestID string
}

func (k replayKey) String() string {
	return strings.Join([]string{replayKeyPrefix, strings.ToLower(k.Method), k.Path, k.UserID, k.RequestID}, ":")
}

type replayStore struct {
	rdb      redis.Cmdable
	lockTTL  time.Duration
	finalTTL time.Duration
}

// reserve claims key for an in-flight request. It reports false when an
// entry already exists.
func (s replayStore) reserve(ctx context.Context, key replayKey, e replayEntry) (bool, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return false, err
	}
	return s.rdb.SetNX(ctx, key.String(), payload, s.lockTTL).Result()
}

// load returns the stored entry. A missing key is reported as found=false.
func (s replayStore) load(ctx context.Context, key replayKey) (replayEntry, bool, error) {
	var e replayEntry
	raw, err := s.rdb.Get(ctx, key.String()).Bytes()
	if errors.Is(err, redis.Nil) {
		return e, false, nil
	}
	if err != nil {
		return e, false, err
	}
	if err := json.Unmarshal(raw, &e); err != nil {
		return e, false, fmt.Errorf("decode replay entry: %w", err)
	}
	return e, true, nil
}

// finish overwrites the reservation with the final response.
func (s replayStore) finish(ctx context.Context, key replayKey, e replayEntry) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, key.String(), payload, s.finalTTL).Err()
}

func bodyHash(b []byte) string { s := sha256.Sum256(b); return hex.EncodeToString(s[:]) }

func nowUTC() time.Time { return time.Now().UTC() }

// validRequestID accepts 32 lowercase hex chars or a lowercase canonical
// RFC 4122 uuid (versions 1-5).
func validRequestID(id string) bool {
	if reHex32.MatchString(id) {
		return true
	}
	if len(id) != 36 || id != strings.ToLower(id) {
		return false
	}
	u, err := uuid.Parse(id)
	if err != nil {
		return false
	}
	return u.Variant() == uuid.RFC4122 && u.Version() >= 1 && u.Version() <= 5
}

// parseRequestAt reads Ax-Request-At as epoch seconds, epoch milliseconds,
// or RFC 3339 with an explicit zone.
func parseRequestAt(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errors.New("missing Ax-Request-At")
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if n > 1e12 {
			return time.UnixMilli(n).UTC(), nil
		}
		return time.Unix(n, 0).UTC(), nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errors.New("Ax-Request-At must be epoch (s/ms) or RFC3339 with timezone")
}
