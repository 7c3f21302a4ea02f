package ratelimit_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"

	"github.com/wardenlabs/inquest/internal/rest/middleware/ratelimit"
	"github.com/wardenlabs/inquest/internal/setup/config"
)

// setupRouter builds a router with only the rate limiting middleware so
// requests are bucketed by remote address.
func setupRouter(t *testing.T, cfg *config.RateLimit) *bunrouter.Router {
	t.Helper()

	middleware := ratelimit.New(cfg, zap.NewNop())

	router := bunrouter.New()
	router.Use(middleware.AsRESTMiddleware).GET("/ping", func(w http.ResponseWriter, _ bunrouter.Request) error {
		w.WriteHeader(http.StatusNoContent)
		return nil
	})

	return router
}

func ping(router *bunrouter.Router, addr string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = addr
	router.ServeHTTP(rec, req)

	return rec
}

func TestRateLimit(t *testing.T) {
	t.Parallel()

	t.Run("allows requests within burst", func(t *testing.T) {
		t.Parallel()

		router := setupRouter(t, &config.RateLimit{
			RequestsPerSecond: 100,
			BurstSize:         10,
			StrikeLimit:       3,
			BlockDuration:     60,
		})

		for range 3 {
			rec := ping(router, "10.0.0.1:50000")
			assert.Equal(t, http.StatusNoContent, rec.Code)
		}
	})

	t.Run("rejects requests beyond burst", func(t *testing.T) {
		t.Parallel()

		// Near-zero refill so tokens never come back during the test
		router := setupRouter(t, &config.RateLimit{
			RequestsPerSecond: 0.01,
			BurstSize:         2,
			StrikeLimit:       5,
			BlockDuration:     60,
		})

		assert.Equal(t, http.StatusNoContent, ping(router, "10.0.0.2:50000").Code)
		assert.Equal(t, http.StatusNoContent, ping(router, "10.0.0.2:50000").Code)

		rec := ping(router, "10.0.0.2:50000")
		require.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Equal(t, "rate limit exceeded", strings.TrimSpace(rec.Body.String()))
		assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	})

	t.Run("blocks after repeated violations", func(t *testing.T) {
		t.Parallel()

		router := setupRouter(t, &config.RateLimit{
			RequestsPerSecond: 0.01,
			BurstSize:         1,
			StrikeLimit:       2,
			BlockDuration:     60,
		})

		assert.Equal(t, http.StatusNoContent, ping(router, "10.0.0.3:50000").Code)

		// First violation is a plain rejection
		rec := ping(router, "10.0.0.3:50000")
		require.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Equal(t, "rate limit exceeded", strings.TrimSpace(rec.Body.String()))

		// Second violation reaches the strike limit and triggers a block
		rec = ping(router, "10.0.0.3:50000")
		require.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Equal(t, "temporarily blocked for repeated rate limit violations", strings.TrimSpace(rec.Body.String()))
		assert.Equal(t, "60", rec.Header().Get("Retry-After"))

		// Still blocked on the next attempt
		rec = ping(router, "10.0.0.3:50000")
		require.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Equal(t, "temporarily blocked for repeated rate limit violations", strings.TrimSpace(rec.Body.String()))
		assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	})

	t.Run("concurrent requests from one client", func(t *testing.T) {
		t.Parallel()

		router := setupRouter(t, &config.RateLimit{
			RequestsPerSecond: 0.01,
			BurstSize:         5,
			StrikeLimit:       3,
			BlockDuration:     60,
		})

		// Hammer a single bucket from many goroutines; strike counting
		// must stay consistent and every request must get a decision.
		var wg sync.WaitGroup

		codes := make([]int, 20)

		for i := range codes {
			wg.Add(1)

			go func() {
				defer wg.Done()

				codes[i] = ping(router, "10.0.0.6:50000").Code
			}()
		}

		wg.Wait()

		allowed := 0

		for _, code := range codes {
			require.Contains(t, []int{http.StatusNoContent, http.StatusTooManyRequests}, code)

			if code == http.StatusNoContent {
				allowed++
			}
		}

		// The burst bounds how many requests can succeed
		assert.LessOrEqual(t, allowed, 5)
	})

	t.Run("separate clients get separate buckets", func(t *testing.T) {
		t.Parallel()

		router := setupRouter(t, &config.RateLimit{
			RequestsPerSecond: 0.01,
			BurstSize:         1,
			StrikeLimit:       3,
			BlockDuration:     60,
		})

		assert.Equal(t, http.StatusNoContent, ping(router, "10.0.0.4:50000").Code)
		assert.Equal(t, http.StatusTooManyRequests, ping(router, "10.0.0.4:50000").Code)

		// A different address is unaffected by the first client's violations
		assert.Equal(t, http.StatusNoContent, ping(router, "10.0.0.5:50000").Code)
	})
}
