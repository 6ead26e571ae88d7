package routes

import (
	"github.com/dendyfood/dendyfood-api/controllers"
	"github.com/dendyfood/dendyfood-api/middlewares"
	"github.com/gin-gonic/gin"
)

func FoodItemRoutes(api *gin.RouterGroup) {
	api.GET("/food-items", controllers.GetFoodItems)

	admin := api.Group("/food-items", middlewares.RequireAdmin())
	{
		admin.POST("", controllers.CreateFoodItem)
		admin.PUT("/:id", controllers.UpdateFoodItem)
		admin.DELETE("/:id", controllers.DeleteFoodItem)
	}
}
