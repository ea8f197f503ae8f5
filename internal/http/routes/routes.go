package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/phambaophuc/multiscale/internal/http/handlers"
	"github.com/phambaophuc/multiscale/internal/http/middleware"
	ginprometheus "github.com/zsais/go-gin-prometheus"
	"go.uber.org/zap"
)

type Router struct {
	imageHandler *handlers.ImageHandler
	logger       *zap.Logger
	metrics      bool
}

func NewRouter(
	imageHandler *handlers.ImageHandler,
	logger *zap.Logger,
	metrics bool,
) *Router {
	return &Router{
		imageHandler: imageHandler,
		logger:       logger,
		metrics:      metrics,
	}
}

func (r *Router) SetupRoutes() *gin.Engine {
	router := gin.New()

	if r.metrics {
		prom := ginprometheus.NewPrometheus("gin")
		prom.Use(router)
	}

	router.Use(middleware.Logger(r.logger))
	router.Use(middleware.ErrorHandler(r.logger))
	router.Use(middleware.CORS())
	router.Use(middleware.SecurityHeaders())

	// API version 1
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", r.imageHandler.HealthCheck)
		v1.GET("/devices", r.imageHandler.ListDevices)

		batches := v1.Group("/batches")
		{
			batches.POST("", r.imageHandler.CreateBatch)
			batches.POST("/upload", r.imageHandler.UploadBatch)
		}
	}

	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{
			"status":  "OK",
			"message": "MultiScale is running",
		})
	})

	return router
}
