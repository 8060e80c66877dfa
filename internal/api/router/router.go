package router

import (
	"net/http"

	"github.com/albaworks/albawork-be/internal/api/handler"
	"github.com/gin-gonic/gin"
)

// SetupRouter configures and returns the Gin router with all routes
func SetupRouter(deps *handler.Dependencies, authSecret string) *gin.Engine {
	r := gin.New()

	// Middleware
	r.Use(gin.Recovery())
	r.Use(LoggerMiddleware(deps.Logger))
	r.Use(CORSMiddleware())

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "albawork-api-service",
		})
	})

	jobHandler := handler.NewJobHandler(deps)
	applicationHandler := handler.NewApplicationHandler(deps)
	settlementHandler := handler.NewSettlementHandler(deps)
	chatHandler := handler.NewChatHandler(deps)
	notificationHandler := handler.NewNotificationHandler(deps)

	// API v1 routes, all behind token auth
	v1 := r.Group("/api/v1")
	v1.Use(AuthMiddleware(authSecret))
	{
		jobs := v1.Group("/jobs")
		{
			jobs.GET("", jobHandler.ListJobs)
			jobs.GET("/:job_id", jobHandler.GetJob)

			jobs.POST("", RequireAdmin(), jobHandler.CreateJob)
			jobs.PUT("/:job_id", RequireAdmin(), jobHandler.UpdateJob)
		}

		applications := v1.Group("/applications")
		{
			applications.POST("", applicationHandler.SubmitApplication)
			applications.GET("", applicationHandler.ListApplications)

			applications.POST("/:application_id/approve", RequireAdmin(), applicationHandler.ApproveApplication)
			applications.POST("/:application_id/reject", RequireAdmin(), applicationHandler.RejectApplication)
		}

		v1.GET("/schedules", settlementHandler.ListSchedules)

		settlements := v1.Group("/settlements")
		{
			settlements.POST("", settlementHandler.RequestSettlement)
			settlements.GET("", settlementHandler.ListSettlements)

			settlements.POST("/:settlement_id/approve", RequireAdmin(), settlementHandler.ApproveSettlement)
			settlements.POST("/:settlement_id/reject", RequireAdmin(), settlementHandler.RejectSettlement)
		}

		chat := v1.Group("/chat")
		{
			chat.GET("/rooms", chatHandler.ListRooms)
			chat.POST("/rooms", RequireAdmin(), chatHandler.CreateRoom)
			chat.GET("/rooms/:room_id/messages", chatHandler.ListMessages)
			chat.POST("/rooms/:room_id/messages", chatHandler.SendMessage)
		}

		notifications := v1.Group("/notifications")
		{
			notifications.GET("", notificationHandler.ListNotifications)
			notifications.POST("/:notification_id/read", notificationHandler.MarkRead)
		}
	}

	return r
}
