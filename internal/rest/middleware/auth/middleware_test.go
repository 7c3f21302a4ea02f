package auth_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"

	"github.com/wardenlabs/inquest/internal/database/types"
	"github.com/wardenlabs/inquest/internal/database/types/enum"
	"github.com/wardenlabs/inquest/internal/rest/middleware/auth"
)

var errDown = errors.New("connection refused")

// stubModerators resolves API keys from a fixed map and records activity
// touches.
type stubModerators struct {
	byKey   map[string]*types.Moderator
	err     error
	touched []uint64
}

func (s *stubModerators) GetByAPIKey(_ context.Context, apiKey string) (*types.Moderator, error) {
	if s.err != nil {
		return nil, s.err
	}

	moderator, ok := s.byKey[apiKey]
	if !ok {
		return nil, types.ErrModeratorNotFound
	}

	return moderator, nil
}

func (s *stubModerators) TouchLastActive(_ context.Context, id uint64) {
	s.touched = append(s.touched, id)
}

// setupRouter builds a router whose handler reports which moderator the
// middleware stored in the request context.
func setupRouter(t *testing.T, moderators *stubModerators) (*bunrouter.Router, *uint64) {
	t.Helper()

	var seen uint64

	middleware := auth.New(moderators, zap.NewNop())

	router := bunrouter.New()
	router.Use(middleware.AsRESTMiddleware).GET("/ping", func(w http.ResponseWriter, req bunrouter.Request) error {
		if moderator := auth.FromContext(req.Context()); moderator != nil {
			seen = moderator.ID
		}

		w.WriteHeader(http.StatusNoContent)

		return nil
	})

	return router, &seen
}

func ping(router *bunrouter.Router, authorization string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)

	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}

	router.ServeHTTP(rec, req)

	return rec
}

func TestAuth_ValidKey(t *testing.T) {
	t.Parallel()

	moderators := &stubModerators{byKey: map[string]*types.Moderator{
		"key-501": {ID: 501, Username: "mod_ellis", Role: enum.ModeratorRoleInvestigator},
	}}
	router, seen := setupRouter(t, moderators)

	rec := ping(router, "Bearer key-501")
	require.Equal(t, http.StatusNoContent, rec.Code)

	// The handler saw the resolved account and activity was recorded
	assert.Equal(t, uint64(501), *seen)
	assert.Equal(t, []uint64{501}, moderators.touched)
}

func TestAuth_BareKeyWithoutBearerPrefix(t *testing.T) {
	t.Parallel()

	moderators := &stubModerators{byKey: map[string]*types.Moderator{
		"key-501": {ID: 501, Role: enum.ModeratorRoleInvestigator},
	}}
	router, seen := setupRouter(t, moderators)

	rec := ping(router, "key-501")
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, uint64(501), *seen)
}

func TestAuth_UnknownKeyRejected(t *testing.T) {
	t.Parallel()

	moderators := &stubModerators{byKey: map[string]*types.Moderator{}}
	router, seen := setupRouter(t, moderators)

	rec := ping(router, "Bearer no-such-key")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// The handler never ran and nothing was touched
	assert.Zero(t, *seen)
	assert.Empty(t, moderators.touched)
}

func TestAuth_MissingKeyRejected(t *testing.T) {
	t.Parallel()

	moderators := &stubModerators{byKey: map[string]*types.Moderator{}}
	router, _ := setupRouter(t, moderators)

	rec := ping(router, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_LookupFaultIsNotUnauthorized(t *testing.T) {
	t.Parallel()

	moderators := &stubModerators{err: errDown}
	router, _ := setupRouter(t, moderators)

	// A store fault must surface as a server error, not as a rejected key
	rec := ping(router, "Bearer key-501")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
