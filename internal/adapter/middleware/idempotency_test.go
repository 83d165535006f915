package middleware

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"p2p-lending/internal/domain/user"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

const (
	testUserID  = "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	otherUserID = "cccccccccccccccccccccccccccccccc"
	testReqID   = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	testPath    = "/wallet/deposit"
)

// fakeAuth authenticates a request carrying "X-Test-User" as that user.
func fakeAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if uid := c.Request().Header.Get("X-Test-User"); uid != "" {
			SetIdentity(c, user.Identity{UserID: uid, Role: user.RoleLender})
		}
		return next(c)
	}
}

func setupEcho(rdb redis.Cmdable, ttl time.Duration, handler echo.HandlerFunc) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(fakeAuth, IdempotencyMiddleware(rdb, ttl, slog.New(slog.NewTextHandler(io.Discard, nil))))
	e.POST(testPath, handler)
	e.GET(testPath, handler)
	return e
}

func newMiniredisClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func headers(userID, reqID string) map[string]string {
	h := map[string]string{
		"Ax-Request-Id": reqID,
		"Ax-Request-At": time.Now().UTC().Format(time.RFC3339),
	}
	if userID != "" {
		h["X-Test-User"] = userID
	}
	return h
}

func doReq(t *testing.T, e *echo.Echo, method string, body string, hdr map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, testPath, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// countingHandler echoes the caller and how many times it ran.
func countingHandler(calls *int) echo.HandlerFunc {
	return func(c echo.Context) error {
		*calls++
		id, _ := IdentityFrom(c)
		return c.JSON(http.StatusCreated, map[string]any{"call": *calls, "user": id.UserID})
	}
}

func Test_BypassOnGET_NoHeadersRequired(t *testing.T) {
	_, rdb := newMiniredisClient(t)
	calls := 0
	e := setupEcho(rdb, time.Minute, countingHandler(&calls))

	rec := doReq(t, e, http.MethodGet, "", nil)
	if rec.Code != http.StatusCreated || calls != 1 {
		t.Fatalf("GET must pass through: code=%d calls=%d", rec.Code, calls)
	}
}

func Test_ValidationFailures(t *testing.T) {
	_, rdb := newMiniredisClient(t)
	calls := 0
	e := setupEcho(rdb, time.Minute, countingHandler(&calls))

	cases := []struct {
		name string
		hdr  map[string]string
		code int
	}{
		{"missing request id", map[string]string{"Ax-Request-At": time.Now().UTC().Format(time.RFC3339), "X-Test-User": testUserID}, http.StatusBadRequest},
		{"bad request id", headers(testUserID, "NOT-VALID"), http.StatusBadRequest},
		{"uppercase request id", headers(testUserID, strings.ToUpper(testReqID)), http.StatusBadRequest},
		{"bad request at", map[string]string{"Ax-Request-Id": testReqID, "Ax-Request-At": "not-a-time", "X-Test-User": testUserID}, http.StatusBadRequest},
		{"skewed request at", map[string]string{
			"Ax-Request-Id": testReqID,
			"Ax-Request-At": time.Now().UTC().Add(-maxClockSkew - time.Minute).Format(time.RFC3339),
			"X-Test-User":   testUserID,
		}, http.StatusBadRequest},
		{"unauthenticated", headers("", testReqID), http.StatusUnauthorized},
	}
	for _, tc := range cases {
		rec := doReq(t, e, http.MethodPost, `{"amount":1}`, tc.hdr)
		if rec.Code != tc.code {
			t.Fatalf("%s: want %d, got %d (%s)", tc.name, tc.code, rec.Code, rec.Body.String())
		}
	}
	if calls != 0 {
		t.Fatalf("rejected requests must not reach the handler, got %d calls", calls)
	}
}

func Test_HappyPath_Then_Replay(t *testing.T) {
	_, rdb := newMiniredisClient(t)
	calls := 0
	e := setupEcho(rdb, 2*time.Minute, countingHandler(&calls))

	h := headers(testUserID, testReqID)
	rec1 := doReq(t, e, http.MethodPost, `{"amount":100}`, h)
	if rec1.Code != http.StatusCreated {
		t.Fatalf("first request => want 201, got %d: %s", rec1.Code, rec1.Body.String())
	}
	rec2 := doReq(t, e, http.MethodPost, `{"amount":100}`, h)
	if rec2.Code != http.StatusCreated || rec1.Body.String() != rec2.Body.String() {
		t.Fatalf("replay mismatch: %d %q vs %q", rec2.Code, rec1.Body.String(), rec2.Body.String())
	}
	if calls != 1 {
		t.Fatalf("replay must not re-run the handler, got %d calls", calls)
	}
}

func Test_Conflict_When_InProgress(t *testing.T) {
	_, rdb := newMiniredisClient(t)
	e := setupEcho(rdb, 2*time.Minute, countingHandler(new(int)))

	body := `{"amount":1}`
	store := replayStore{rdb: rdb, lockTTL: provisionalLockTTL, finalTTL: time.Minute}
	key := replayKey{Method: http.MethodPost, Path: testPath, UserID: testUserID, RequestID: testReqID}
	if ok, err := store.reserve(context.Background(), key, replayEntry{InProgress: true, BodySHA256: bodyHash([]byte(body))}); err != nil || !ok {
		t.Fatalf("seed reservation: ok=%v err=%v", ok, err)
	}

	rec := doReq(t, e, http.MethodPost, body, headers(testUserID, testReqID))
	if rec.Code != http.StatusConflict || !strings.Contains(rec.Body.String(), "in progress") {
		t.Fatalf("in-progress => want 409, got %d %s", rec.Code, rec.Body.String())
	}
}

func Test_Conflict_When_SameReqID_DifferentBody(t *testing.T) {
	_, rdb := newMiniredisClient(t)
	calls := 0
	e := setupEcho(rdb, 2*time.Minute, countingHandler(&calls))

	if rec := doReq(t, e, http.MethodPost, `{"amount":1}`, headers(testUserID, testReqID)); rec.Code != http.StatusCreated {
		t.Fatalf("first => %d", rec.Code)
	}
	rec := doReq(t, e, http.MethodPost, `{"amount":2}`, headers(testUserID, testReqID))
	if rec.Code != http.StatusConflict || !strings.Contains(rec.Body.String(), "different body") {
		t.Fatalf("different body => want 409, got %d %s", rec.Code, rec.Body.String())
	}
	if calls != 1 {
		t.Fatalf("handler ran %d times", calls)
	}
}

func Test_StoreUnavailable_Returns503(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	mr.Close()
	e := setupEcho(rdb, time.Minute, countingHandler(new(int)))

	rec := doReq(t, e, http.MethodPost, `{}`, headers(testUserID, testReqID))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("store unavailable => want 503, got %d", rec.Code)
	}
}

// The same Ax-Request-Id from two users must neither replay one user's
// response to the other nor be treated as a body mismatch.
func Test_RequestIDIsScopedPerUser(t *testing.T) {
	_, rdb := newMiniredisClient(t)
	calls := 0
	e := setupEcho(rdb, 2*time.Minute, countingHandler(&calls))

	recA := doReq(t, e, http.MethodPost, `{"amount":100}`, headers(testUserID, testReqID))
	recB := doReq(t, e, http.MethodPost, `{"amount":999}`, headers(otherUserID, testReqID))
	if recA.Code != http.StatusCreated || recB.Code != http.StatusCreated {
		t.Fatalf("want 201/201, got %d/%d (%s)", recA.Code, recB.Code, recB.Body.String())
	}
	if calls != 2 {
		t.Fatalf("both users must reach the handler, got %d calls", calls)
	}
	if !strings.Contains(recB.Body.String(), otherUserID) || strings.Contains(recB.Body.String(), testUserID) {
		t.Fatalf("second user got someone else's response: %s", recB.Body.String())
	}

	// each user's retry replays their own response
	replayA := doReq(t, e, http.MethodPost, `{"amount":100}`, headers(testUserID, testReqID))
	replayB := doReq(t, e, http.MethodPost, `{"amount":999}`, headers(otherUserID, testReqID))
	if !bytes.Equal(replayA.Body.Bytes(), recA.Body.Bytes()) || !bytes.Equal(replayB.Body.Bytes(), recB.Body.Bytes()) {
		t.Fatalf("replays crossed users: %s / %s", replayA.Body.String(), replayB.Body.String())
	}
	if calls != 2 {
		t.Fatalf("replays must not re-run the handler, got %d calls", calls)
	}
}
