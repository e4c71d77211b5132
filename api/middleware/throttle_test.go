package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCounter struct {
	mu     sync.Mutex
	counts map[string]int64
}

func newFakeCounter() *fakeCounter {
	return &fakeCounter{counts: map[string]int64{}}
}

func (f *fakeCounter) IncrWithTTL(_ context.Context, key string, _ time.Duration) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts[key]++
	return f.counts[key], nil
}

func loginAttempt(t *testing.T, handler http.Handler, ip, email string) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(map[string]string{"email": email, "password": "contrasena-larga"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(payload))
	req.RemoteAddr = ip + ":51234"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func echoBodyHandler(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		w.WriteHeader(http.StatusOK)
		w.Write(body)
	})
}

func TestThrottle_UnderLimitPassesBodyThrough(t *testing.T) {
	policy := NewThrottlePolicy("login", time.Minute, 10, 5)
	handler := Throttle(policy, newFakeCounter(), nil)(echoBodyHandler(t))

	rec := loginAttempt(t, handler, "203.0.113.7", "cliente@example.com")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "cliente@example.com", "downstream handler sees the full body")
}

func TestThrottle_EmailLimitBlocksAcrossAddresses(t *testing.T) {
	policy := NewThrottlePolicy("login", time.Minute, 100, 2)
	handler := Throttle(policy, newFakeCounter(), nil)(echoBodyHandler(t))

	// Same target account, rotating source addresses.
	for i, ip := range []string{"203.0.113.1", "203.0.113.2"} {
		rec := loginAttempt(t, handler, ip, "Objetivo@Example.com")
		assert.Equal(t, http.StatusOK, rec.Code, "attempt %d", i+1)
	}

	rec := loginAttempt(t, handler, "203.0.113.3", "objetivo@example.com")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code, "normalized email is the counter key")
	assert.Contains(t, rec.Body.String(), "RATE_LIMIT_EXCEEDED")
}

func TestThrottle_IPLimitBlocksBeforeBodyIsRead(t *testing.T) {
	policy := NewThrottlePolicy("register", time.Minute, 1, 0)
	handler := Throttle(policy, newFakeCounter(), nil)(echoBodyHandler(t))

	first := loginAttempt(t, handler, "198.51.100.9", "uno@example.com")
	assert.Equal(t, http.StatusOK, first.Code)

	second := loginAttempt(t, handler, "198.51.100.9", "dos@example.com")
	assert.Equal(t, http.StatusTooManyRequests, second.Code, "different email, same address")
}

func TestThrottle_ForwardedForWinsOverSocketAddress(t *testing.T) {
	policy := NewThrottlePolicy("login", time.Minute, 1, 0)
	counter := newFakeCounter()
	handler := Throttle(policy, counter, nil)(echoBodyHandler(t))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{}`))
	req.RemoteAddr = "10.0.0.1:40000"
	req.Header.Set("X-Forwarded-For", "203.0.113.50, 10.0.0.1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	counter.mu.Lock()
	defer counter.mu.Unlock()
	assert.Contains(t, counter.counts, "throttle:login:ip:203.0.113.50")
}

func TestThrottle_DisabledPolicyIsTransparent(t *testing.T) {
	handler := Throttle(NewThrottlePolicy("login", 0, 5, 5), newFakeCounter(), nil)(echoBodyHandler(t))

	for i := 0; i < 20; i++ {
		rec := loginAttempt(t, handler, "192.0.2.1", "libre@example.com")
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}
