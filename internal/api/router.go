package api

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lokokit/locomotion-backend-go/internal/config"
	"github.com/lokokit/locomotion-backend-go/internal/handler"
	"github.com/lokokit/locomotion-backend-go/internal/middleware"
	"github.com/lokokit/locomotion-backend-go/internal/repository"
	"github.com/lokokit/locomotion-backend-go/internal/service"
)

// SetupRouter wires repositories, services and handlers onto a gin engine
func SetupRouter(cfg *config.Config, db *sql.DB) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	sampleRepo := repository.NewSampleRepository(db)
	segmentRepo := repository.NewSegmentRepository(db)

	sampleService := service.NewSampleService(sampleRepo)
	segmentService := service.NewSegmentService(db, segmentRepo, sampleRepo)

	sampleHandler := handler.NewSampleHandler(sampleService)
	segmentHandler := handler.NewSegmentHandler(segmentService)

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Locomotion Sample API is running",
		})
	})

	auth := middleware.Auth(cfg.JWTSecret)

	api := r.Group("/api/v1")
	{
		samples := api.Group("/samples")
		{
			samples.GET("", sampleHandler.GetSamples)
			samples.GET("/:id", sampleHandler.GetSampleByID)
			samples.POST("", auth, sampleHandler.IngestBatch)
			samples.POST("/:id/classifier-results", auth, sampleHandler.AttachClassifierResults)
		}

		segments := api.Group("/segments")
		{
			segments.GET("", segmentHandler.GetSegments)
			segments.GET("/:id", segmentHandler.GetSegmentByID)
			segments.GET("/:id/statistics", segmentHandler.GetStatistics)
			segments.POST("", auth, segmentHandler.CreateSegment)
		}
	}

	return r
}
