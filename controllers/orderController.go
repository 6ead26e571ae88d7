package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/dendyfood/dendyfood-api/initializers"
	"github.com/dendyfood/dendyfood-api/models"
	"github.com/dendyfood/dendyfood-api/utils"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// IdempotencyHeader carries the client's key for one logical order submission.
const IdempotencyHeader = "Idempotency-Key"

const maxIdempotencyKeyLen = 64

var (
	ErrInvalidTotal    = errors.New("total price does not match the order lines")
	ErrUnknownFoodItem = errors.New("order references an unknown food item")
)

type orderLineInput struct {
	FoodItemID uint          `json:"foodItemId" binding:"required"`
	Quantity   int           `json:"quantity" binding:"required,min=1,max=1000"`
	Price      *models.Money `json:"price" binding:"required"`
}

type orderInput struct {
	TotalPrice    *models.Money        `json:"totalPrice" binding:"required"`
	PaymentMethod models.PaymentMethod `json:"paymentMethod" binding:"required,oneof=cash card"`
	Items         []orderLineInput     `json:"items" binding:"required,min=1,dive"`
}

func (in orderInput) linesTotal() (models.Money, error) {
	var total models.Money
	for _, line := range in.Items {
		lineTotal, err := line.Price.TimesChecked(line.Quantity)
		if err != nil {
			return 0, fmt.Errorf("food item %d: %w", line.FoodItemID, err)
		}
		if total, err = total.AddChecked(lineTotal); err != nil {
			return 0, err
		}
	}
	return total, nil
}

// orderableItems loads the referenced food items keyed by id, failing when any is missing.
func orderableItems(db *gorm.DB, lines []orderLineInput) (map[uint]models.FoodItem, error) {
	ids := make([]uint, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.FoodItemID)
	}

	var found []models.FoodItem
	if err := db.Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, fmt.Errorf("load food items: %w", err)
	}
	byID := make(map[uint]models.FoodItem, len(found))
	for _, item := range found {
		byID[item.ID] = item
	}
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			return nil, fmt.Errorf("%w: %d", ErrUnknownFoodItem, id)
		}
	}
	return byID, nil
}

// withOrderDetails preloads order lines and their food items, soft-deleted ones included.
func withOrderDetails(db *gorm.DB) *gorm.DB {
	return db.Preload("Items").Preload("Items.FoodItem", func(db *gorm.DB) *gorm.DB {
		return db.Unscoped()
	})
}

func beginTx(db *gorm.DB) (*gorm.DB, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("begin transaction: %w", tx.Error)
	}
	return tx, nil
}

func findOrderByRequestID(requestID string) (models.Order, error) {
	var order models.Order
	err := withOrderDetails(initializers.DB).Where("request_id = ?", requestID).First(&order).Error
	return order, err
}

func replayOrder(ctx *gin.Context, requestID string) bool {
	order, err := findOrderByRequestID(requestID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			respondWithError(ctx, http.StatusInternalServerError, "Unable to look up order", err)
			return true
		}
		return false
	}
	log.Info().Uint("order_id", order.ID).Msg("replaying order for repeated idempotency key")
	ctx.JSON(http.StatusOK, order)
	return true
}

func CreateOrder(ctx *gin.Context) {
	requestID := strings.TrimSpace(ctx.GetHeader(IdempotencyHeader))
	if len(requestID) > maxIdempotencyKeyLen {
		sendErrorResponse(ctx, http.StatusBadRequest, "Idempotency-Key is too long")
		return
	}
	if requestID != "" && replayOrder(ctx, requestID) {
		return
	}

	var orderInfo orderInput
	if err := ctx.ShouldBindJSON(&orderInfo); err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	total, err := orderInfo.linesTotal()
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid order total", err)
		return
	}
	if total != *orderInfo.TotalPrice {
		respondWithError(ctx, http.StatusBadRequest, "Invalid order total", ErrInvalidTotal)
		return
	}

	foodItems, err := orderableItems(initializers.DB, orderInfo.Items)
	if err != nil {
		if errors.Is(err, ErrUnknownFoodItem) {
			respondWithError(ctx, http.StatusBadRequest, "Unknown food item", err)
		} else {
			respondWithError(ctx, http.StatusInternalServerError, "Unable to validate order", err)
		}
		return
	}

	order := models.Order{
		TotalPrice:    *orderInfo.TotalPrice,
		PaymentMethod: orderInfo.PaymentMethod,
		Status:        models.OrderStatusPending,
	}
	if requestID != "" {
		order.RequestID = &requestID
	}

	tx, err := beginTx(initializers.DB)
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to start order transaction", err)
		return
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := tx.Omit(clause.Associations).Create(&order).Error; err != nil {
		tx.Rollback()
		// a concurrent submission with the same key won the race
		if requestID != "" && errors.Is(err, gorm.ErrDuplicatedKey) && replayOrder(ctx, requestID) {
			return
		}
		respondWithError(ctx, http.StatusInternalServerError, "Failed to create order", err)
		return
	}

	for _, line := range orderInfo.Items {
		food := foodItems[line.FoodItemID]
		item := models.OrderItem{
			OrderID:    order.ID,
			FoodItemID: line.FoodItemID,
			Quantity:   line.Quantity,
			Price:      *line.Price,
			Names:      datatypes.NewJSONType(models.ItemNames{Uz: food.NameUz, Ru: food.NameRu}),
		}
		if err := tx.Omit(clause.Associations).Create(&item).Error; err != nil {
			tx.Rollback()
			respondWithError(ctx, http.StatusInternalServerError, "Failed to create order items", err)
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to save order", err)
		return
	}

	if err := withOrderDetails(initializers.DB).First(&order, order.ID).Error; err != nil {
		log.Warn().Err(err).Uint("order_id", order.ID).Msg("order saved but could not be reloaded")
	}
	log.Info().Uint("order_id", order.ID).Str("total", order.TotalPrice.String()).Msg("order created")

	go notifyOrder(Notifier, order)

	ctx.JSON(http.StatusCreated, order)
}

func notifyOrder(notifier utils.OrderNotifier, order models.Order) {
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()
	if err := notifier.NotifyOrder(ctx, order); err != nil {
		log.Error().Err(err).Uint("order_id", order.ID).Msg("failed to send order notification")
	}
}

// GetOrders lists orders newest first. page and limit are optional; without
// limit every order is returned.
func GetOrders(ctx *gin.Context) {
	query := withOrderDetails(initializers.DB).Order("created_at DESC").Order("id DESC")

	if limitParam := ctx.Query("limit"); limitParam != "" {
		limit, err := strconv.Atoi(limitParam)
		if err != nil || limit <= 0 {
			sendErrorResponse(ctx, http.StatusBadRequest, "Invalid limit")
			return
		}
		page, err := strconv.Atoi(ctx.DefaultQuery("page", "1"))
		if err != nil || page <= 0 {
			sendErrorResponse(ctx, http.StatusBadRequest, "Invalid page")
			return
		}

		var count int64
		if err := initializers.DB.Model(&models.Order{}).Count(&count).Error; err != nil {
			respondWithError(ctx, http.StatusInternalServerError, "Unable to fetch orders", err)
			return
		}
		ctx.Header("X-Total-Count", strconv.FormatInt(count, 10))
		query = query.Limit(limit).Offset((page - 1) * limit)
	}

	orders := []models.Order{}
	if result := query.Find(&orders); result.Error != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to fetch orders", result.Error)
		return
	}

	ctx.JSON(http.StatusOK, orders)
}
