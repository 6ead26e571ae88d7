package initializers

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/dendyfood/dendyfood-api/models"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const bcryptCost = 10

// BootstrapAdmin creates the admin account from configuration when it does not
// exist yet. It never changes an existing account.
func BootstrapAdmin(db *gorm.DB, username, password string) error {
	if username == "" || password == "" {
		log.Warn().Msg("ADMIN_USERNAME or ADMIN_PASSWORD not set, skipping admin bootstrap")
		return nil
	}

	var existing models.AdminUser
	err := db.Where("username = ?", username).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("look up admin %q: %w", username, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	admin := models.AdminUser{Username: username, Password: string(hash)}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("create admin %q: %w", username, err)
	}
	log.Info().Str("username", username).Msg("admin account created")
	return nil
}

// Seed replaces every order and food item with the default catalog.
func Seed(db *gorm.DB) error {
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.OrderItem{}).Error; err != nil {
			return fmt.Errorf("clear order items: %w", err)
		}
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Order{}).Error; err != nil {
			return fmt.Errorf("clear orders: %w", err)
		}
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(&models.FoodItem{}).Error; err != nil {
			return fmt.Errorf("clear food items: %w", err)
		}
		for _, item := range models.DefaultMenu() {
			item.ID = 0
			if err := tx.Create(&item).Error; err != nil {
				return fmt.Errorf("create %q: %w", item.NameUz, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	log.Info().Int("items", len(models.DefaultMenu())).Msg("database seeded successfully")
	return nil
}

func randomSecret() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("read random secret: %v", err))
	}
	return hex.EncodeToString(buf)
}
