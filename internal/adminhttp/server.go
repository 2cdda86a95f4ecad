package adminhttp

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/kepler-fts/facetrackd/internal/admin"
	"github.com/kepler-fts/facetrackd/internal/config"
)

// Server is the gin-backed HTTP surface wrapping an AdminAdapter.
type Server struct {
	cfg    *config.Config
	router *gin.Engine
	server *http.Server

	handlers *Handlers
}

func NewServer(cfg *config.Config, adapter *admin.Adapter) *Server {
	if cfg.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	return &Server{
		cfg:      cfg,
		router:   gin.New(),
		handlers: NewHandlers(adapter),
	}
}

func (s *Server) Setup() {
	s.router.Use(gin.Recovery())
	s.router.Use(requestID())
	s.setupRoutes()
	s.router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.cfg.AdminHTTPPort),
		Handler: s.router,
	}
}

func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}
