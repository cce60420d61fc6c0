package api

import (
	"github.com/gin-gonic/gin"

	"github.com/farmtrack/farmtrack/internal/handlers"
)

func registerDrugRoutes(api *gin.RouterGroup, handler *handlers.DrugHandler) {
	group := api.Group("/drugs")
	{
		// The static filter routes must be declared alongside /:id;
		// gin resolves them before the wildcard.
		group.GET("", handler.List)
		group.GET("/low-stock", handler.ListLowStock)
		group.GET("/expiring", handler.ListExpiring)
		group.GET("/expired", handler.ListExpired)
		group.GET("/:id", handler.Get)

		group.POST("", handler.Create)
		group.PUT("/:id", handler.Update)
		group.PATCH("/:id/quantity", handler.UpdateQuantity)
		group.DELETE("/:id", handler.Delete)
	}
}
