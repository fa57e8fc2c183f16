package models

import (
	"time"

	"github.com/google/uuid"
)

// StockRecord holds the on-hand quantity for a single product. One record per
// product, enforced by the unique index. Quantity never goes negative; the
// ledger decrements through a conditional update guarded by quantity.
type StockRecord struct {
	ID               uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID        uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex"`
	Quantity         int       `gorm:"column:quantity;not null;default:0"`
	MinimumThreshold int       `gorm:"column:minimum_threshold;not null;default:5"`
	Location         string    `gorm:"column:location"`
	LastUpdated      time.Time `gorm:"column:last_updated;autoUpdateTime"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime"`
}
