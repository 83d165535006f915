package middleware

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

const (
	// reservation lifetime while the handler runs
	provisionalLockTTL = 60 * time.Second
	// allowed skew between Ax-Request-At and server time
	maxClockSkew = 10 * time.Minute
	storeTimeout = 2 * time.Second
)

// captureWriter tees the response so it can be stored for replay.
type captureWriter struct {
	http.ResponseWriter
	buf  bytes.Buffer
	code int
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *captureWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}

func jsonError(c echo.Context, code int, msg string) error {
	return c.JSON(code, map[string]string{"error": msg})
}

// IdempotencyMiddleware makes mutating requests replayable. Callers send
// Ax-Request-Id and Ax-Request-At; a retry with the same id and body gets
// the stored response, a different body gets 409. Entries are keyed by
// method, request path, authenticated user and request id, so it must run
// after Auth.
func IdempotencyMiddleware(rdb redis.Cmdable, ttl time.Duration, log *slog.Logger) echo.MiddlewareFunc {
	if log == nil {
		log = slog.Default()
	}
	store := replayStore{rdb: rdb, lockTTL: provisionalLockTTL, finalTTL: ttl}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			switch req.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				return next(c)
			}

			reqID := strings.TrimSpace(req.Header.Get("Ax-Request-Id"))
			if reqID == "" {
				return jsonError(c, http.StatusBadRequest, "missing Ax-Request-Id")
			}
			if !validRequestID(reqID) {
				return jsonError(c, http.StatusBadRequest, "invalid Ax-Request-Id format")
			}
			reqAt, err := parseRequestAt(req.Header.Get("Ax-Request-At"))
			if err != nil {
				return jsonError(c, http.StatusBadRequest, err.Error())
			}
			if now := nowUTC(); reqAt.Before(now.Add(-maxClockSkew)) || reqAt.After(now.Add(maxClockSkew)) {
				return jsonError(c, http.StatusBadRequest, "Ax-Request-At too skewed")
			}
			identity, ok := IdentityFrom(c)
			if !ok {
				return jsonError(c, http.StatusUnauthorized, "unauthenticated")
			}

			var body []byte
			if req.Body != nil {
				body, _ = io.ReadAll(req.Body)
			}
			req.Body = io.NopCloser(bytes.NewReader(body))
			hash := bodyHash(body)

			key := replayKey{Method: req.Method, Path: req.URL.Path, UserID: identity.UserID, RequestID: reqID}
			ctx, cancel := context.WithTimeout(req.Context(), storeTimeout)
			defer cancel()

			reserved, err := store.reserve(ctx, key, replayEntry{
				InProgress:  true,
				BodySHA256:  hash,
				RequestID:   reqID,
				RequestAtMS: reqAt.UnixMilli(),
				CreatedAt:   nowUTC(),
			})
			if err != nil {
				log.Warn("idempotency reserve failed", "key", key.String(), "err", err)
				return jsonError(c, http.StatusServiceUnavailable, "idempotency store unavailable")
			}
			if !reserved {
				return replay(ctx, c, store, key, hash, log)
			}

			w := &captureWriter{ResponseWriter: c.Response().Writer, code: http.StatusOK}
			c.Response().Writer = w
			if err := next(c); err != nil {
				c.Error(err)
			}

			final := replayEntry{
				Code:        w.code,
				Body:        w.buf.Bytes(),
				BodySHA256:  hash,
				RequestID:   reqID,
				RequestAtMS: reqAt.UnixMilli(),
				CreatedAt:   nowUTC(),
			}
			if err := store.finish(context.Background(), key, final); err != nil {
				log.Warn("idempotency entry save failed", "key", key.String(), "err", err)
			}
			return nil
		}
	}
}

func replay(ctx context.Context, c echo.Context, store replayStore, key replayKey, hash string, log *slog.Logger) error {
	cur, found, err := store.load(ctx, key)
	if err != nil {
		log.Warn("idempotency entry load failed", "key", key.String(), "err", err)
	}
	if found && cur.BodySHA256 != "" && cur.BodySHA256 != hash {
		return jsonError(c, http.StatusConflict, "Ax-Request-Id reused with different body")
	}
	if found && cur.replayable() {
		return c.Blob(cur.Code, echo.MIMEApplicationJSON, cur.Body)
	}
	return jsonError(c, http.StatusConflict, "request is already in progress")
}
