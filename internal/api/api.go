package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/channelpulse/backend-go/internal/api/handlers"
	"github.com/channelpulse/backend-go/internal/api/middleware"
	"github.com/channelpulse/backend-go/internal/service"
)

type Services struct {
	Upload    *service.UploadService
	Analytics *service.AnalyticsService
	Market    *service.MarketService
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())

	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")

	if services != nil {
		if services.Analytics != nil || services.Upload != nil {
			dashboardHandler := handlers.NewDashboardHandler(services.Upload, services.Analytics)
			dashboardGroup := apiGroup.Group("/dashboard")
			{
				dashboardGroup.POST("/upload", dashboardHandler.Upload)
				dashboardGroup.GET("/analysis", dashboardHandler.GetAnalysis)
				dashboardGroup.GET("/trend", dashboardHandler.GetTrend)
				dashboardGroup.GET("/totals", dashboardHandler.GetTotals)
				dashboardGroup.GET("/options", dashboardHandler.GetOptions)
				dashboardGroup.GET("/document", dashboardHandler.GetDocument)
			}
		}

		if services.Market != nil {
			marketHandler := handlers.NewMarketHandler(services.Upload, services.Market)
			marketGroup := apiGroup.Group("/market")
			{
				marketGroup.POST("/upload", marketHandler.Upload)
				marketGroup.GET("/history", marketHandler.GetHistory)
				marketGroup.GET("/latest", marketHandler.GetLatest)
				marketGroup.GET("/movers", marketHandler.GetMovers)
				marketGroup.GET("/brands/averages", marketHandler.GetBrandAverages)
				marketGroup.GET("/brands/trend", marketHandler.GetBrandTrend)
			}
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		for _, part := range strings.Split(origin, ",") {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
