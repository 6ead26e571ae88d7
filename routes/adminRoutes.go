package routes

import (
	"github.com/dendyfood/dendyfood-api/controllers"
	"github.com/dendyfood/dendyfood-api/middlewares"
	"github.com/gin-gonic/gin"
)

func AdminRoutes(api *gin.RouterGroup, loginLimiter *middlewares.RateLimiter) {
	api.POST("/admin/login", loginLimiter.Limit(), controllers.AdminLogin)
	api.POST("/upload", middlewares.RequireAdmin(), controllers.UploadImage)
}
