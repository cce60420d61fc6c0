package api

import (
	"github.com/gin-gonic/gin"

	"github.com/farmtrack/farmtrack/internal/handlers"
)

func registerTreatmentRoutes(api *gin.RouterGroup, handler *handlers.TreatmentHandler) {
	group := api.Group("/treatments")
	{
		group.GET("", handler.List)
		group.GET("/animal/:animalId", handler.ListByAnimal)
		group.GET("/:id", handler.Get)
		group.POST("", handler.Create)
		group.PUT("/:id", handler.Update)
		group.DELETE("/:id", handler.Delete)

		group.POST("/:id/complete", handler.Complete)
		group.POST("/:id/follow-ups", handler.AddFollowUp)
		group.POST("/:id/follow-ups/:index/complete", handler.CompleteFollowUp)
	}
}
