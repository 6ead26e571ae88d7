package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/dendyfood/dendyfood-api/initializers"
	"github.com/dendyfood/dendyfood-api/middlewares"
	"github.com/dendyfood/dendyfood-api/models"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// SnapshotHeader marks a menu listing served from the last good snapshot.
const SnapshotHeader = "X-Menu-Snapshot"

// Common error response helper
func respondWithError(ctx *gin.Context, statusCode int, message string, err error) {
	errMsg := ""
	if err != nil {
		errMsg = err.Error()
	}
	ctx.JSON(statusCode, gin.H{
		"message": message,
		"error":   errMsg,
	})
}

type foodItemInput struct {
	NameUz      string          `json:"nameUz" binding:"required"`
	NameRu      string          `json:"nameRu" binding:"required"`
	Description *string         `json:"description"`
	Price       *models.Money   `json:"price" binding:"required"`
	ImageURL    *string         `json:"imageUrl"`
	Category    models.Category `json:"category" binding:"required,oneof=hotdog burger sandwich sides drinks combo"`
	Available   *bool           `json:"available"`
}

func (in foodItemInput) applyTo(item *models.FoodItem) {
	item.NameUz = in.NameUz
	item.NameRu = in.NameRu
	item.Price = *in.Price
	item.Category = in.Category
	if in.Description != nil {
		item.Description = nullIfBlank(*in.Description)
	}
	if in.ImageURL != nil {
		item.ImageURL = nullIfBlank(*in.ImageURL)
	}
	if in.Available != nil {
		item.Available = *in.Available
	}
}

// nullIfBlank maps an explicitly blanked optional field to NULL.
func nullIfBlank(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

func parseFoodItemID(ctx *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondWithError(ctx, http.StatusBadRequest, "Invalid food item ID", err)
		return 0, false
	}
	return uint(id), true
}

func GetFoodItems(ctx *gin.Context) {
	var items []models.FoodItem
	if err := models.NewestFirst(initializers.DB).Find(&items).Error; err != nil {
		log.Error().Err(err).Msg("unable to fetch food items")
		cached, snapErr := MenuSnapshots.Load(ctx.Request.Context())
		if snapErr != nil {
			respondWithError(ctx, http.StatusInternalServerError, "Unable to fetch food items", err)
			return
		}
		ctx.Header(SnapshotHeader, "cached")
		ctx.JSON(http.StatusOK, cached)
		return
	}
	if items == nil {
		items = []models.FoodItem{}
	}

	if err := MenuSnapshots.Save(ctx.Request.Context(), items); err != nil {
		log.Warn().Err(err).Msg("unable to store menu snapshot")
	}
	ctx.JSON(http.StatusOK, items)
}

func CreateFoodItem(ctx *gin.Context) {
	var input foodItemInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	item := models.FoodItem{Available: true}
	input.applyTo(&item)
	if err := initializers.DB.Create(&item).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to create food item", err)
		return
	}

	log.Info().Uint("id", item.ID).Str("admin", ctx.GetString(middlewares.AdminKey)).Msg("food item created")
	ctx.JSON(http.StatusCreated, item)
}

func UpdateFoodItem(ctx *gin.Context) {
	id, ok := parseFoodItemID(ctx)
	if !ok {
		return
	}

	var input foodItemInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	var item models.FoodItem
	if err := initializers.DB.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondWithError(ctx, http.StatusNotFound, "Food item not found", nil)
		} else {
			respondWithError(ctx, http.StatusInternalServerError, "Unable to retrieve food item", err)
		}
		return
	}

	input.applyTo(&item)
	if err := initializers.DB.Save(&item).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to update food item", err)
		return
	}

	ctx.JSON(http.StatusOK, item)
}

func DeleteFoodItem(ctx *gin.Context) {
	id, ok := parseFoodItemID(ctx)
	if !ok {
		return
	}

	result := initializers.DB.Delete(&models.FoodItem{}, id)
	if result.Error != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to delete food item", result.Error)
		return
	}
	if result.RowsAffected == 0 {
		respondWithError(ctx, http.StatusNotFound, "Food item not found", nil)
		return
	}

	log.Info().Uint("id", id).Str("admin", ctx.GetString(middlewares.AdminKey)).Msg("food item deleted")
	ctx.JSON(http.StatusOK, gin.H{"success": true})
}
