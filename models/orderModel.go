package models

import (
	"time"

	"gorm.io/datatypes"
)

type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentCard PaymentMethod = "card"
)

func (p PaymentMethod) Valid() bool {
	return p == PaymentCash || p == PaymentCard
}

type OrderStatus string

// Orders are created pending and never transition afterwards.
const OrderStatusPending OrderStatus = "pending"

type Order struct {
	ID            uint          `json:"id" gorm:"primaryKey"`
	TotalPrice    Money         `json:"totalPrice" gorm:"not null"`
	PaymentMethod PaymentMethod `json:"paymentMethod" gorm:"not null"`
	Status        OrderStatus   `json:"status" gorm:"not null;default:pending"`
	RequestID     *string       `json:"requestId,omitempty" gorm:"uniqueIndex;size:64"`
	Items         []OrderItem   `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time     `json:"createdAt" gorm:"index"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// ItemNames is the bilingual name of a food item captured when it was ordered.
type ItemNames struct {
	Uz string `json:"uz"`
	Ru string `json:"ru"`
}

type OrderItem struct {
	ID         uint                          `json:"id" gorm:"primaryKey"`
	OrderID    uint                          `json:"orderId" gorm:"not null;index"`
	FoodItemID uint                          `json:"foodItemId" gorm:"not null;index"`
	FoodItem   FoodItem                      `json:"foodItem" gorm:"foreignKey:FoodItemID"`
	Quantity   int                           `json:"quantity" gorm:"not null"`
	Price      Money                         `json:"price" gorm:"not null"`
	Names      datatypes.JSONType[ItemNames] `json:"names"`
}

// LinesTotal sums price times quantity over the order lines.
func (o Order) LinesTotal() Money {
	var total Money
	for _, item := range o.Items {
		total += item.Price.Times(item.Quantity)
	}
	return total
}
