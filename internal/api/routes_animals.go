package api

import (
	"github.com/gin-gonic/gin"

	"github.com/farmtrack/farmtrack/internal/handlers"
)

func registerAnimalRoutes(api *gin.RouterGroup, handler *handlers.AnimalHandler) {
	group := api.Group("/animals")
	{
		group.GET("", handler.List)
		group.GET("/:id", handler.Get)
		group.POST("", handler.Create)
		group.PUT("/:id", handler.Update)
		group.DELETE("/:id", handler.Delete)

		group.PATCH("/:id/health-status", handler.UpdateHealthStatus)
		group.PATCH("/:id/weight", handler.UpdateWeight)
		group.PATCH("/:id/age", handler.UpdateAge)
		group.POST("/:id/upload-image", handler.UploadImage)
	}
}
