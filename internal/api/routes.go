package api

import (
	"alcyxob/health-tracker/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Services are the dependencies the HTTP layer is built from.
type Services struct {
	Auth      service.AuthService
	Tracker   service.TrackerService
	Profile   service.ProfileService
	Account   service.AccountService
	Analytics service.AnalyticsService
	Export    service.ExportService
	Clock     service.Clock
}

func SetupRoutes(router *gin.Engine, jwtSecret string, services Services) {
	authHandler := NewAuthHandler(services.Auth)
	trackerHandler := NewTrackerHandler(services.Tracker, services.Clock)
	profileHandler := NewProfileHandler(services.Profile, services.Account)
	analyticsHandler := NewAnalyticsHandler(services.Analytics, services.Clock)
	exportHandler := NewExportHandler(services.Export)

	authMiddleware := AuthMiddleware(jwtSecret, services.Auth)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/", OptionalAuth(jwtSecret, services.Auth), authHandler.Index)
	router.POST("/register/", authHandler.Register)
	router.POST("/login/", authHandler.Login)

	protected := router.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/dashboard/", analyticsHandler.Dashboard)
		protected.GET("/analytics/", analyticsHandler.Analytics)
		protected.GET("/api/chart-data/", analyticsHandler.ChartData)

		protected.GET("/weight/", trackerHandler.ListWeight)
		protected.POST("/weight/", trackerHandler.CreateWeight)
		protected.GET("/exercise/", trackerHandler.ListExercise)
		protected.POST("/exercise/", trackerHandler.CreateExercise)
		protected.GET("/nutrition/", trackerHandler.ListNutrition)
		protected.POST("/nutrition/", trackerHandler.CreateNutrition)
		protected.GET("/sleep/", trackerHandler.ListSleep)
		protected.POST("/sleep/", trackerHandler.CreateSleep)
		protected.GET("/water/", trackerHandler.ListWater)
		protected.POST("/water/", trackerHandler.CreateWater)
		protected.GET("/mood/", trackerHandler.ListMood)
		protected.POST("/mood/", trackerHandler.CreateMood)
		protected.GET("/goals/", trackerHandler.ListGoals)
		protected.POST("/goals/", trackerHandler.CreateGoal)
		protected.GET("/medications/", trackerHandler.ListMedications)
		protected.POST("/medications/", trackerHandler.CreateMedication)
		protected.GET("/metrics/", trackerHandler.ListHealthMetrics)
		protected.POST("/metrics/", trackerHandler.CreateHealthMetric)

		protected.GET("/quick-add/", trackerHandler.QuickAddForm)
		protected.POST("/quick-add/", trackerHandler.QuickAdd)

		// Generic edit/delete for every entry kind
		protected.GET("/edit/:kind/:id/", trackerHandler.GetEntry)
		protected.POST("/edit/:kind/:id/", trackerHandler.UpdateEntry)
		protected.POST("/delete/:kind/:id/", trackerHandler.DeleteEntry)

		protected.GET("/profile/", profileHandler.GetProfile)
		protected.POST("/profile/", profileHandler.UpdateProfile)
		protected.POST("/account/delete/", profileHandler.DeleteAccount)

		protected.GET("/export/", exportHandler.ListExports)
		protected.POST("/export/", exportHandler.CreateExport)
	}
}
