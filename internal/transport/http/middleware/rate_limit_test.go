package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap/zaptest"
)

type fakeRateLimitStore struct {
	trimErr   error
	count     int
	countErr  error
	oldest    time.Time
	hasOldest bool
	oldestErr error
	recordErr error

	recordCalls int
	recordedKey string
}

func (f *fakeRateLimitStore) TrimWindow(ctx context.Context, identifier string, window time.Duration, reference time.Time) error {
	return f.trimErr
}

func (f *fakeRateLimitStore) CountAttempts(ctx context.Context, identifier string, window time.Duration, reference time.Time) (int, error) {
	return f.count, f.countErr
}

func (f *fakeRateLimitStore) RecordAttempt(ctx context.Context, identifier string, at time.Time) error {
	f.recordCalls++
	f.recordedKey = identifier
	return f.recordErr
}

func (f *fakeRateLimitStore) OldestAttempt(ctx context.Context, identifier string, window time.Duration, reference time.Time) (time.Time, bool, error) {
	return f.oldest, f.hasOldest, f.oldestErr
}

func rateLimitedRouter(limiter *RateLimiter, rule RateLimitRule) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/auth/login", limiter.RateLimit(rule), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router
}

func fixedIdentifier(id string) IdentifierFunc {
	return func(*gin.Context) (string, bool) {
		return id, true
	}
}

func TestRateLimitAllowsBelowLimit(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	window := time.Minute
	store := &fakeRateLimitStore{
		count:     2,
		oldest:    now.Add(-20 * time.Second),
		hasOldest: true,
	}

	limiter := NewRateLimiter(store, zaptest.NewLogger(t)).
		WithClock(func() time.Time { return now })

	router := rateLimitedRouter(limiter, RateLimitRule{
		Name:       "login_ip",
		Limit:      5,
		Window:     window,
		Identifier: fixedIdentifier("203.0.113.7"),
	})

	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if store.recordCalls != 1 {
		t.Fatalf("expected one recorded attempt, got %d", store.recordCalls)
	}
	if store.recordedKey != "login_ip:203.0.113.7" {
		t.Fatalf("unexpected storage key %q", store.recordedKey)
	}

	if got := rr.Header().Get("X-RateLimit-Limit"); got != "5" {
		t.Fatalf("X-RateLimit-Limit = %q, want 5", got)
	}
	// Two prior attempts plus this one leaves two slots in the window.
	if got := rr.Header().Get("X-RateLimit-Remaining"); got != "2" {
		t.Fatalf("X-RateLimit-Remaining = %q, want 2", got)
	}
	wantReset := strconv.FormatInt(store.oldest.Add(window).Unix(), 10)
	if got := rr.Header().Get("X-RateLimit-Reset"); got != wantReset {
		t.Fatalf("X-RateLimit-Reset = %q, want %s", got, wantReset)
	}
	if got := rr.Header().Get("Retry-After"); got != "" {
		t.Fatalf("Retry-After should be absent on allowed requests, got %q", got)
	}
}

func TestRateLimitBlocksAtLimit(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	window := time.Minute
	store := &fakeRateLimitStore{
		count:     5,
		oldest:    now.Add(-30 * time.Second),
		hasOldest: true,
	}

	limiter := NewRateLimiter(store, zaptest.NewLogger(t)).
		WithClock(func() time.Time { return now })

	router := rateLimitedRouter(limiter, RateLimitRule{
		Name:       "login_ip",
		Limit:      5,
		Window:     window,
		Identifier: fixedIdentifier("203.0.113.7"),
	})

	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rr.Code)
	}
	if store.recordCalls != 0 {
		t.Fatalf("blocked requests must not record attempts, got %d", store.recordCalls)
	}
	if got := rr.Header().Get("Retry-After"); got != "30" {
		t.Fatalf("Retry-After = %q, want 30", got)
	}
	if got := rr.Header().Get("X-RateLimit-Remaining"); got != "0" {
		t.Fatalf("X-RateLimit-Remaining = %q, want 0", got)
	}

	var problem ProblemDetails
	if err := json.Unmarshal(rr.Body.Bytes(), &problem); err != nil {
		t.Fatalf("decode problem payload: %v", err)
	}
	if problem.Status != http.StatusTooManyRequests {
		t.Fatalf("problem status = %d, want 429", problem.Status)
	}
	if problem.RetryAfter != 30 {
		t.Fatalf("problem retry_after = %d, want 30", problem.RetryAfter)
	}
	if problem.Instance != "/auth/login" {
		t.Fatalf("problem instance = %q, want /auth/login", problem.Instance)
	}
}

func TestRateLimitFailsOpenOnStoreError(t *testing.T) {
	store := &fakeRateLimitStore{
		countErr: context.DeadlineExceeded,
	}

	limiter := NewRateLimiter(store, zaptest.NewLogger(t))

	router := rateLimitedRouter(limiter, RateLimitRule{
		Name:       "login_ip",
		Limit:      5,
		Window:     time.Minute,
		Identifier: fixedIdentifier("203.0.113.7"),
	})

	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("store errors must fail open, got %d", rr.Code)
	}
	if store.recordCalls != 0 {
		t.Fatalf("no attempt should be recorded after a store error, got %d", store.recordCalls)
	}
	if got := rr.Header().Get("X-RateLimit-Limit"); got != "" {
		t.Fatalf("headers should be skipped when evaluation fails, got limit %q", got)
	}
}

func TestRateLimitSkipsRuleWithoutIdentifier(t *testing.T) {
	store := &fakeRateLimitStore{count: 100}

	limiter := NewRateLimiter(store, zaptest.NewLogger(t))

	router := rateLimitedRouter(limiter, RateLimitRule{
		Name:   "login_ip",
		Limit:  1,
		Window: time.Minute,
		Identifier: func(*gin.Context) (string, bool) {
			return "", false
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("rules without an identifier must not block, got %d", rr.Code)
	}
	if store.recordCalls != 0 {
		t.Fatalf("no attempt should be recorded when the identifier is absent, got %d", store.recordCalls)
	}
}
