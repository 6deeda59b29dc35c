package ratelimit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/linemk/levelup-shop/internal/jwt-new/jwtmiddleware"
	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestLimiter_BlocksAfterBurst(t *testing.T) {
	l := NewLimiter(0.001, 2, time.Minute)
	handler := l.Middleware(okHandler())

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest("GET", "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestLimiter_SeparateBucketsPerUser(t *testing.T) {
	l := NewLimiter(0.001, 1, time.Minute)
	handler := l.Middleware(okHandler())

	for _, userID := range []string{"u1", "u2"} {
		req := httptest.NewRequest("GET", "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		req = req.WithContext(context.WithValue(req.Context(), jwtmiddleware.UserIDKey, userID))
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code, "user %s should have own bucket", userID)
	}
}

func TestLimiter_Cleanup(t *testing.T) {
	now := time.Now()
	l := NewLimiter(1, 1, time.Minute)
	l.now = func() time.Time { return now }

	l.getVisitor("ip:1")
	l.getVisitor("ip:2")

	now = now.Add(2 * time.Minute)
	l.getVisitor("ip:2")

	assert.Equal(t, 1, l.Cleanup())
	assert.Len(t, l.visitors, 1)
}
