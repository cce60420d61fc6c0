package api

import (
	"github.com/gin-gonic/gin"

	"github.com/farmtrack/farmtrack/internal/handlers"
)

func registerNotificationRoutes(api *gin.RouterGroup, handler *handlers.NotificationHandler) {
	group := api.Group("/notifications")
	{
		group.GET("", handler.List)
		group.GET("/unread", handler.ListUnread)
		group.GET("/:id", handler.Get)

		group.POST("/mark-read/:id", handler.MarkRead)
		group.POST("/mark-all-read", handler.MarkAllRead)
		group.DELETE("/:id", handler.Delete)

		group.POST("/check-drug-notifications", handler.CheckDrugNotifications)
	}
}
