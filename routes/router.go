package routes

import (
	"slices"
	"time"

	"github.com/dendyfood/dendyfood-api/controllers"
	"github.com/dendyfood/dendyfood-api/initializers"
	"github.com/dendyfood/dendyfood-api/middlewares"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// SetupRouter builds the HTTP handler for the whole API.
func SetupRouter(cfg *initializers.Config) *gin.Engine {
	server := gin.Default()
	server.MaxMultipartMemory = 8 << 20
	server.Use(cors.New(corsConfig(cfg.CORSOrigins)))

	if cfg.ImageStore == "local" {
		server.Static("/uploads", cfg.UploadDir)
	}

	DefaultRoutes(server)

	api := server.Group("/api")
	FoodItemRoutes(api)
	OrderRoutes(api)
	AdminRoutes(api, middlewares.NewRateLimiter(cfg.LoginRatePerMinute))

	return server
}

func corsConfig(origins []string) cors.Config {
	config := cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", controllers.IdempotencyHeader},
		ExposeHeaders:    []string{"Content-Length", controllers.SnapshotHeader, "X-Total-Count"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		config.AllowOrigins = nil
		config.AllowAllOrigins = true
		config.AllowCredentials = false
	}
	return config
}
