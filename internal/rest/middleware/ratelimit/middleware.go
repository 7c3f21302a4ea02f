package ratelimit

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/wardenlabs/inquest/internal/rest/middleware/auth"
	"github.com/wardenlabs/inquest/internal/setup/config"
	"github.com/wardenlabs/inquest/pkg/utils"
)

const headerRetryAt = "Retry-After"

var (
	errBlocked   = errors.New("temporarily blocked for repeated rate limit violations")
	errRateLimit = errors.New("rate limit exceeded")
)

// limiterState tracks one client's bucket and violation history. The TTLMap
// hands the same pointer to concurrent requests, so the mutex guards the
// strike and block fields.
type limiterState struct {
	mu           sync.Mutex
	limiter      *rate.Limiter
	strikes      int       // Number of times client has violated rate limit
	blockedUntil time.Time // Time until client is blocked for repeated violations
}

// Middleware implements rate limiting for API requests.
type Middleware struct {
	limiters *utils.TTLMap[string, *limiterState]
	config   *config.RateLimit
	logger   *zap.Logger
}

// New creates a new rate limiting middleware.
func New(config *config.RateLimit, logger *zap.Logger) *Middleware {
	// Use the longer of block duration or burst window * 2 for TTL
	ttl := time.Second * time.Duration(config.BurstSize*2)
	if blockTTL := time.Second * time.Duration(config.BlockDuration*2); blockTTL > ttl {
		ttl = blockTTL
	}

	return &Middleware{
		limiters: utils.NewTTLMap[string, *limiterState](ttl),
		config:   config,
		logger:   logger,
	}
}

// AsRESTMiddleware returns a bunrouter middleware handler for rate limiting.
func (m *Middleware) AsRESTMiddleware(next bunrouter.HandlerFunc) bunrouter.HandlerFunc {
	return func(w http.ResponseWriter, req bunrouter.Request) error {
		client := clientKey(req)
		if allowed, retryAfter, err := m.checkRateLimit(client); !allowed {
			// Add Retry-After header if there's a wait time
			if retryAfter > 0 {
				w.Header().Set(headerRetryAt, fmt.Sprintf("%.0f", retryAfter.Seconds()))
			}

			http.Error(w, err.Error(), http.StatusTooManyRequests)

			return nil
		}

		return next(w, req)
	}
}

// clientKey identifies the requester for limiter bucketing. Authenticated
// moderators get per-account buckets so shared NATs cannot starve each
// other; everything else falls back to the remote address.
func clientKey(req bunrouter.Request) string {
	if moderator := auth.FromContext(req.Context()); moderator != nil {
		return "mod:" + strconv.FormatUint(moderator.ID, 10)
	}

	host, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		return "addr:" + req.RemoteAddr
	}

	return "addr:" + host
}

// getLimiter returns the rate limiter state for the specified client.
func (m *Middleware) getLimiter(client string) *limiterState {
	// Try to get existing limiter
	if state, exists := m.limiters.Get(client); exists {
		return state
	}

	state := &limiterState{
		limiter: rate.NewLimiter(rate.Limit(m.config.RequestsPerSecond), m.config.BurstSize),
	}
	m.limiters.Set(client, state)

	return state
}

// handleStrikes checks if strikes exceed limit and blocks if necessary.
func (m *Middleware) handleStrikes(state *limiterState, client string) (bool, time.Duration, error) {
	if state.strikes >= m.config.StrikeLimit {
		blockDuration := time.Duration(m.config.BlockDuration) * time.Second
		state.blockedUntil = time.Now().Add(blockDuration)
		state.strikes = 0 // Reset strikes

		m.logger.Debug("Client exceeded strike limit and is now blocked",
			zap.String("client", client),
			zap.Int("strikes", m.config.StrikeLimit),
			zap.Duration("block_duration", blockDuration))

		return false, blockDuration, errBlocked
	}

	return true, 0, nil
}

// checkBlocked checks if the client is currently blocked.
func (m *Middleware) checkBlocked(state *limiterState, client string) (bool, time.Duration, error) {
	if !state.blockedUntil.IsZero() && time.Now().Before(state.blockedUntil) {
		retryAfter := time.Until(state.blockedUntil).Round(time.Second)
		m.logger.Debug("Client is temporarily blocked",
			zap.String("client", client),
			zap.Duration("retry_after", retryAfter))

		return false, retryAfter, errBlocked
	}

	return true, 0, nil
}

// checkRateLimit checks if the request should be allowed and updates violation tracking.
func (m *Middleware) checkRateLimit(client string) (bool, time.Duration, error) {
	state := m.getLimiter(client)

	state.mu.Lock()
	defer state.mu.Unlock()

	// Check if client is blocked
	if allowed, retryAfter, err := m.checkBlocked(state, client); !allowed {
		return allowed, retryAfter, err
	}

	// Try to reserve a token
	reservation := state.limiter.Reserve()
	if !reservation.OK() {
		state.strikes++

		// Check if we should block the client
		if allowed, retryAfter, err := m.handleStrikes(state, client); !allowed {
			return allowed, retryAfter, err
		}

		m.logger.Debug("Rate limit exceeded",
			zap.String("client", client),
			zap.Int("strikes", state.strikes))

		return false, 0, errRateLimit
	}

	// Get delay for this reservation
	delay := reservation.Delay()
	if delay > 0 {
		state.strikes++
		reservation.Cancel()

		// Check if we should block the client
		if allowed, retryAfter, err := m.handleStrikes(state, client); !allowed {
			return allowed, retryAfter, err
		}

		m.logger.Debug("Rate limit delay required",
			zap.String("client", client),
			zap.Duration("delay", delay),
			zap.Int("strikes", state.strikes))

		return false, delay, errRateLimit
	}

	// Reset strikes on successful request
	if state.strikes > 0 {
		state.strikes = 0
	}

	return true, 0, nil
}
