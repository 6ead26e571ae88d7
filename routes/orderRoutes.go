package routes

import (
	"github.com/dendyfood/dendyfood-api/controllers"
	"github.com/dendyfood/dendyfood-api/middlewares"
	"github.com/gin-gonic/gin"
)

func OrderRoutes(api *gin.RouterGroup) {
	api.POST("/orders", controllers.CreateOrder)
	api.GET("/orders", middlewares.RequireAdmin(), controllers.GetOrders)
}
