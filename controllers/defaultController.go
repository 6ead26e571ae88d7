package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func GetHome(ctx *gin.Context) {
	message := `Welcome to DendyFood API. Hot-dogs, burgers and more.

The following are the endpoints for this API:

MENU
- GET "/api/food-items" - List menu items, newest first
- POST "/api/food-items" - Create menu item (admin)
- PUT "/api/food-items/:id" - Update menu item (admin)
- DELETE "/api/food-items/:id" - Delete menu item (admin)

ORDER
- POST "/api/orders" - Submit an order (Idempotency-Key header supported)
- GET "/api/orders" - List orders (admin)

ADMIN
- POST "/api/admin/login" - Get an admin session token
- POST "/api/upload" - Upload a menu item image (admin)`

	ctx.JSON(http.StatusOK, gin.H{
		"message": message,
	})
}

func GetHealth(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}
