package adminhttp

import "github.com/gin-gonic/gin"

func (s *Server) setupRoutes() {
	s.router.GET("/health", func(c *gin.Context) { c.Status(200) })

	fts := s.router.Group("/fts")
	{
		fts.POST("/start", s.handlers.Start)
		fts.POST("/stop", s.handlers.Stop)
		fts.POST("/restart", s.handlers.Restart)
		fts.GET("/status", s.handlers.Status)
		fts.POST("/discover", s.handlers.Discover)
		fts.GET("/config", s.handlers.GetConfig)
		fts.PUT("/config", s.handlers.ApplyConfig)
	}

	identities := s.router.Group("/identities")
	{
		identities.POST("", s.handlers.Enroll)
		identities.DELETE("/:employee_id", s.handlers.RemoveIdentity)
	}

	cameras := s.router.Group("/cameras")
	{
		cameras.GET("/:camera_id/mjpeg", s.handlers.StreamMJPEG)
	}
}
