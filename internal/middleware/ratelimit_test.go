package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newLimitedHandler(t *testing.T, addr string, limit int) http.Handler {
	t.Helper()
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	config := RateLimitConfig{
		RequestsPerWindow: limit,
		Window:            time.Minute,
		KeyPrefix:         "catalog_rate_limit",
	}
	return RateLimitMiddleware(client, config, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func hit(handler http.Handler, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

// Requests beyond the window budget are answered with 429
func TestProperty_RateLimitBlocksExcessRequests(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("exactly the budget passes and the rest is blocked", prop.ForAll(
		func(limit int, excess int) bool {
			mr := miniredis.RunT(t)
			handler := newLimitedHandler(t, mr.Addr(), limit)

			passed, blocked := 0, 0
			for i := 0; i < limit+excess; i++ {
				switch hit(handler, "192.168.1.100").Code {
				case http.StatusOK:
					passed++
				case http.StatusTooManyRequests:
					blocked++
				}
			}

			if passed != limit || blocked != excess {
				t.Logf("FAIL: limit %d excess %d: passed %d blocked %d", limit, excess, passed, blocked)
				return false
			}
			return true
		},
		gen.IntRange(1, 20),
		gen.IntRange(1, 10),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestRateLimit_ClientsAreCountedSeparately(t *testing.T) {
	mr := miniredis.RunT(t)
	handler := newLimitedHandler(t, mr.Addr(), 1)

	assert.Equal(t, http.StatusOK, hit(handler, "10.0.0.1").Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(handler, "10.0.0.1").Code)
	assert.Equal(t, http.StatusOK, hit(handler, "10.0.0.2").Code)
}

func TestRateLimit_PortDoesNotOpenNewBucket(t *testing.T) {
	mr := miniredis.RunT(t)
	handler := newLimitedHandler(t, mr.Addr(), 1)

	assert.Equal(t, http.StatusOK, hit(handler, "10.0.0.1:5000").Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(handler, "10.0.0.1:5001").Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(handler, "10.0.0.1:5002").Code)
	assert.Equal(t, http.StatusOK, hit(handler, "[2001:db8::1]:5000").Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(handler, "2001:db8::1").Code)
}

func TestRateLimit_HeadersAndWindowReset(t *testing.T) {
	mr := miniredis.RunT(t)
	handler := newLimitedHandler(t, mr.Addr(), 2)

	first := hit(handler, "10.0.0.3")
	assert.Equal(t, "2", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Remaining"))

	hit(handler, "10.0.0.3")
	blocked := hit(handler, "10.0.0.3")
	assert.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.NotEmpty(t, blocked.Header().Get("Retry-After"))

	mr.FastForward(time.Minute + time.Second)
	assert.Equal(t, http.StatusOK, hit(handler, "10.0.0.3").Code)
}

func TestRateLimit_PassesThroughWhenRedisIsDown(t *testing.T) {
	mr := miniredis.RunT(t)
	handler := newLimitedHandler(t, mr.Addr(), 1)
	mr.Close()

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, hit(handler, "10.0.0.4").Code)
	}
}
