package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"

	"github.com/wardenlabs/inquest/internal/database/types"
)

type moderatorCtxKey struct{}

// FromContext retrieves the authenticated moderator from the context.
// Returns nil if the request was not authenticated.
func FromContext(ctx context.Context) *types.Moderator {
	if moderator, ok := ctx.Value(moderatorCtxKey{}).(*types.Moderator); ok {
		return moderator
	}

	return nil
}

// ModeratorProvider resolves API keys to moderator accounts.
type ModeratorProvider interface {
	// GetByAPIKey returns types.ErrModeratorNotFound when no account owns
	// the key.
	GetByAPIKey(ctx context.Context, apiKey string) (*types.Moderator, error)
	// TouchLastActive records request activity; it must never fail the
	// request.
	TouchLastActive(ctx context.Context, id uint64)
}

// Middleware resolves API keys to moderator accounts and stores the
// account in the request context.
type Middleware struct {
	moderators ModeratorProvider
	logger     *zap.Logger
}

// New creates a new authentication middleware.
func New(moderators ModeratorProvider, logger *zap.Logger) *Middleware {
	return &Middleware{
		moderators: moderators,
		logger:     logger,
	}
}

// AsRESTMiddleware returns a bunrouter middleware handler for API key authentication.
func (m *Middleware) AsRESTMiddleware(next bunrouter.HandlerFunc) bunrouter.HandlerFunc {
	return func(w http.ResponseWriter, req bunrouter.Request) error {
		apiKey := bearerToken(req.Request)
		if apiKey == "" {
			http.Error(w, "Missing API key", http.StatusUnauthorized)
			return nil
		}

		moderator, err := m.moderators.GetByAPIKey(req.Context(), apiKey)
		if err != nil {
			if errors.Is(err, types.ErrModeratorNotFound) {
				m.logger.Debug("Rejected request with unknown API key")
				http.Error(w, "Invalid API key", http.StatusUnauthorized)

				return nil
			}

			m.logger.Error("Failed to authenticate request", zap.Error(err))
			http.Error(w, "Internal server error", http.StatusInternalServerError)

			return nil
		}

		// Record activity; failures are logged inside and never fail the request
		m.moderators.TouchLastActive(req.Context(), moderator.ID)

		// Store moderator in context for handlers
		ctx := context.WithValue(req.Context(), moderatorCtxKey{}, moderator)
		req = req.WithContext(ctx)

		return next(w, req)
	}
}

// bearerToken extracts the credential from the Authorization header.
// Accepts both "Bearer <key>" and a bare key.
func bearerToken(req *http.Request) string {
	authHeader := req.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
}
