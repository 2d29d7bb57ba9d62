package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/peerpath/journey-backend-go/internal/config"
	"github.com/peerpath/journey-backend-go/internal/handler"
	"github.com/peerpath/journey-backend-go/internal/middleware"
	"github.com/peerpath/journey-backend-go/internal/service"
)

// SetupRouter wires middleware, handlers and routes.
func SetupRouter(cfg *config.Config, sessions *service.SessionManager, searcher handler.LocationSearcher) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

	// CORS
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

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Journey Tracker API is running",
		})
	})

	journeyHandler := handler.NewJourneyHandler(sessions)
	geocodeHandler := handler.NewGeocodeHandler(searcher)

	api := r.Group("/api/v1")
	api.Use(middleware.Auth(cfg.JWTSecret))
	{
		geocode := api.Group("/geocode")
		geocode.Use(middleware.RateLimit(cfg.GeocodeRate, cfg.GeocodeWindow))
		{
			geocode.GET("/search", geocodeHandler.Search)
		}

		journey := api.Group("/journey")
		{
			journey.GET("", journeyHandler.GetJourney)
			journey.GET("/map", journeyHandler.GetMap)
			journey.GET("/history", journeyHandler.GetHistory)

			journey.POST("/start", journeyHandler.Start)
			journey.POST("/complete", journeyHandler.Complete)
			journey.POST("/reset", journeyHandler.Reset)
			journey.POST("/position", journeyHandler.ReportPosition)
			journey.POST("/verify", journeyHandler.Verify)

			journey.POST("/waypoints", journeyHandler.AddMidpoint)
			journey.POST("/waypoints/:id/otp", journeyHandler.TriggerOTP)
			journey.POST("/waypoints/:id/capture", journeyHandler.CaptureTarget)
			journey.PUT("/waypoints/:id/target", journeyHandler.SetTarget)
			journey.PUT("/waypoints/:id/radius", journeyHandler.UpdateRadius)
		}
	}

	return r
}
