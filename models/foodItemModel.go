package models

import (
	"time"

	"gorm.io/gorm"
)

type FoodItem struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	NameUz      string         `json:"nameUz" gorm:"not null"`
	NameRu      string         `json:"nameRu" gorm:"not null"`
	Description *string        `json:"description,omitempty"`
	Price       Money          `json:"price" gorm:"not null"`
	ImageURL    *string        `json:"imageUrl,omitempty"`
	Category    Category       `json:"category" gorm:"not null;index"`
	Available   bool           `json:"available" gorm:"not null"`
	CreatedAt   time.Time      `json:"createdAt" gorm:"index"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

// Name returns the item name in the given language ("uz" or "ru").
func (f FoodItem) Name(lang string) string {
	if lang == "ru" {
		return f.NameRu
	}
	return f.NameUz
}

// NewestFirst orders catalog listings by creation time, newest first.
func NewestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC").Order("id DESC")
}
