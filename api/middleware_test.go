package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_Allow(t *testing.T) {
	rl := NewRateLimiter(60, 2)
	defer rl.Stop()

	// GIVEN: A burst of two
	assert.True(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.1"))

	// THEN: The third immediate request is refused, other clients are not
	assert.False(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.2"))
}

func TestRateLimiter_UploadRoutesOnly(t *testing.T) {
	ts := newTestServer(t)
	rl := NewRateLimiter(1, 1)
	defer rl.Stop()
	router := NewRouter(ts.handler, RouterOptions{Limiter: rl})

	serve := func(req *http.Request) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	first := serve(uploadRequest(t, "/api/promotion/upload", "staff.xlsx", staffWorkbook(t), nil))
	require.Equal(t, http.StatusOK, first.Code)

	second := serve(uploadRequest(t, "/api/experience/upload", "staff.xlsx", staffWorkbook(t), nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.NotEmpty(t, second.Header().Get("Retry-After"))

	// Calculators are not throttled
	for range 3 {
		assert.Equal(t, http.StatusOK, serve(httptest.NewRequest(http.MethodGet, "/api/tiers", nil)).Code)
	}
}

func TestRateLimiter_StopIsIdempotent(t *testing.T) {
	rl := NewRateLimiter(10, 1)
	rl.Stop()
	rl.Stop()
}

func TestClientAddr(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.9:5555"
	assert.Equal(t, "203.0.113.9", clientAddr(req))

	req.RemoteAddr = "203.0.113.9"
	assert.Equal(t, "203.0.113.9", clientAddr(req))
}

func TestRouter_CORSExposesRunHeaders(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/tiers", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := ts.do(req)

	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Expose-Headers"), "X-Run-Id")
}
