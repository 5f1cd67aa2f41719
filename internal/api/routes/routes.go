package routes

import (
	"board-service/internal/api/handlers"
	"board-service/internal/api/middleware"
	"board-service/internal/ws"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type Router struct {
	engine        *gin.Engine
	wsHandler     *handlers.WSHandler
	statusHandler *handlers.StatusHandler
	jwtSecret     string
}

func NewRouter(hub *ws.Hub, jwtSecret string) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	// Add middlewares
	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS())
	engine.Use(middleware.LogApi())

	return &Router{
		engine:        engine,
		wsHandler:     handlers.NewWSHandler(hub),
		statusHandler: handlers.NewStatusHandler(hub),
		jwtSecret:     jwtSecret,
	}
}

func (r *Router) SetupRoutes() {
	r.engine.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Swagger documentation
	r.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.engine.Group("/api/v1")

	// WebSocket endpoint, token checked before the upgrade
	api.GET("/ws",
		middleware.WSAuth(r.jwtSecret),
		r.wsHandler.HandleWebSocket,
	)

	api.GET("/metrics", r.statusHandler.GetMetrics)
}

func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
