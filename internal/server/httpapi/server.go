// Package httpapi binds the FileVault services to their HTTP surface:
// cookie-based sessions, multipart upload intake, owner-scoped listings, and
// streamed report downloads.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/filevault/internal/logging"
	"github.com/dmitrijs2005/filevault/internal/server/config"
	"github.com/dmitrijs2005/filevault/internal/server/services"
)

const sessionCookieName = "token"

type HTTPServer struct {
	address       string
	logger        logging.Logger
	users         *services.UserService
	ingest        *services.IngestService
	reports       *services.ReportService
	cookieMaxAge  int
	maxUploadSize int64
}

func NewHTTPServer(cfg *config.Config, l logging.Logger, us *services.UserService, is *services.IngestService, rs *services.ReportService) *HTTPServer {
	return &HTTPServer{
		address:       cfg.EndpointAddrHTTP,
		logger:        l.With("module", "http_server"),
		users:         us,
		ingest:        is,
		reports:       rs,
		cookieMaxAge:  int(cfg.TokenValidityDuration / time.Second),
		maxUploadSize: cfg.MaxUploadSize,
	}
}

// Router assembles the gin engine. Split out from Run so tests can drive
// the routes through httptest without binding a socket.
func (s *HTTPServer) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.POST("/auth/login", s.handleLogin)
	r.GET("/auth/session", s.requireSession, s.handleSession)
	r.POST("/files", s.requireSession, s.handleUpload)
	r.GET("/files", s.requireSession, s.handleListFiles)
	r.GET("/reports/:fileId", s.requireSession, s.handleReport)

	return r
}

func (s *HTTPServer) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.address,
		Handler: s.Router(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
