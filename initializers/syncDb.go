package initializers

import (
	"fmt"

	"github.com/dendyfood/dendyfood-api/models"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

func SyncDatabase(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.AdminUser{}, &models.FoodItem{}, &models.Order{}, &models.OrderItem{}); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	log.Info().Msg("database synced successfully")
	return nil
}
