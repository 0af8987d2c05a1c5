package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/m4tinbeigi-official/didar-crm/internal/config"
	"github.com/m4tinbeigi-official/didar-crm/internal/handlers"
	"github.com/m4tinbeigi-official/didar-crm/internal/middleware"
)

// HandlerDependencies bundles the handlers needed by the router.
type HandlerDependencies struct {
	AuthHandler *handlers.AuthHandler
	SyncHandler *handlers.SyncHandler
	UserHandler *handlers.UserHandler
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, deps HandlerDependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.Server.AllowedOrigins,
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:  []string{"Authorization", "Content-Type", "X-Sync-Token", "X-Request-ID"},
		ExposeHeaders: []string{"X-Request-ID"},
	}))

	public := router.Group("/api/v1")
	{
		public.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{"status": "ok"})
		})
		public.POST("/auth/login", deps.AuthHandler.Login)
	}

	protected := router.Group("/api/v1")
	protected.Use(middleware.JWTAuthMiddleware(cfg))
	{
		users := protected.Group("/users")
		{
			users.GET("/:id", deps.UserHandler.GetUser)
			users.POST("/:id/opt-out", deps.UserHandler.OptOut)
			users.DELETE("/:id/opt-out", deps.UserHandler.OptIn)
		}

		// Manual sync triggers additionally require the anti-forgery token.
		sync := protected.Group("/sync")
		{
			sync.GET("/settings", deps.SyncHandler.GetSettings)
			sync.PUT("/settings", deps.SyncHandler.UpdateSettings)
			sync.GET("/logs", deps.SyncHandler.GetLogs)
			sync.DELETE("/logs", deps.SyncHandler.ClearLogs)

			runs := sync.Group("")
			runs.Use(middleware.SyncTokenMiddleware(cfg))
			{
				runs.POST("/run", deps.SyncHandler.RunSync)
				runs.POST("/users/:id", deps.SyncHandler.SyncUser)
			}
		}
	}

	return router
}
