package rest

import (
	"net/http"

	"github.com/klauspost/compress/gzhttp"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"

	"github.com/wardenlabs/inquest/internal/database"
	"github.com/wardenlabs/inquest/internal/rest/handler"
	"github.com/wardenlabs/inquest/internal/rest/middleware/auth"
	"github.com/wardenlabs/inquest/internal/rest/middleware/ratelimit"
	"github.com/wardenlabs/inquest/internal/setup/config"
)

// Server implements the REST API service.
type Server struct {
	inquiryHandler *handler.InquiryHandler
}

// NewServer creates a new REST API server. Authentication runs before rate
// limiting so the limiter can bucket by moderator account instead of by
// address.
func NewServer(db database.Client, logger *zap.Logger, config *config.APIConfig) (http.Handler, error) {
	// Create server instance with handlers
	server := &Server{
		inquiryHandler: handler.NewInquiryHandler(db.Service().Inquiry(), db.Service().Report(), logger),
	}

	// Create middleware instances
	authMiddleware := auth.New(db.Model().Moderator(), logger)
	rateLimiter := ratelimit.New(&config.RateLimit, logger)

	// Create base router
	router := bunrouter.New()

	// Create API routes group
	router.Use(
		authMiddleware.AsRESTMiddleware,
		rateLimiter.AsRESTMiddleware,
	).WithGroup("/v1", func(g *bunrouter.Group) {
		g.GET("/inquiry", server.inquiryHandler.GetInquiry)
		g.POST("/inquiry/process", server.inquiryHandler.ProcessInquiry)
		g.DELETE("/inquiry", server.inquiryHandler.ReleaseInquiry)
		g.POST("/reports/:id/claim", server.inquiryHandler.ClaimReport)
	})

	// Add gzip compression
	return gzhttp.GzipHandler(router), nil
}
