package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sgavilan/leatherstore-backend/pkg/enums"
)

// Order is a customer order. Monetary fields are derived once at creation:
// Subtotal is the sum of line subtotals and Total = Subtotal - Discount.
type Order struct {
	ID              uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ClientID        uuid.UUID           `gorm:"column:client_id;type:uuid;not null;index"`
	CreatedByUserID *uuid.UUID          `gorm:"column:created_by_user_id;type:uuid"`
	Status          enums.OrderStatus   `gorm:"column:status;not null;default:'pending';index"`
	Subtotal        decimal.Decimal     `gorm:"column:subtotal;type:numeric(12,2);not null"`
	Discount        decimal.Decimal     `gorm:"column:discount;type:numeric(12,2);not null;default:0"`
	Total           decimal.Decimal     `gorm:"column:total;type:numeric(12,2);not null"`
	PaymentMethod   enums.PaymentMethod `gorm:"column:payment_method;not null;default:'cash'"`
	Notes           string              `gorm:"column:notes"`
	DeliveryAddress string              `gorm:"column:delivery_address"`
	StatusChangedAt *time.Time          `gorm:"column:status_changed_at"`
	CancelledAt     *time.Time          `gorm:"column:cancelled_at"`
	Items           []OrderLineItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
