package inventory

import (
	"time"

	"github.com/google/uuid"

	"github.com/sgavilan/leatherstore-backend/pkg/db/models"
)

// CreateStockInput captures the fields accepted when registering stock for a product.
type CreateStockInput struct {
	ProductID        uuid.UUID
	Quantity         int
	MinimumThreshold *int
	Location         string
}

// UpdateStockInput is a partial update; nil fields are left untouched.
type UpdateStockInput struct {
	Quantity         *int
	MinimumThreshold *int
	Location         *string
}

// StockMovement reports the result of an increase or decrease.
type StockMovement struct {
	ProductID uuid.UUID `json:"product_id"`
	Moved     int       `json:"moved"`
	Remaining int       `json:"remaining"`
}

// StockDTO is the outward representation of a stock record.
type StockDTO struct {
	ID               uuid.UUID `json:"id"`
	ProductID        uuid.UUID `json:"product_id"`
	Quantity         int       `json:"quantity"`
	MinimumThreshold int       `json:"minimum_threshold"`
	Location         string    `json:"location,omitempty"`
	LastUpdated      time.Time `json:"last_updated"`
}

func toStockDTO(record *models.StockRecord) *StockDTO {
	if record == nil {
		return nil
	}
	return &StockDTO{
		ID:               record.ID,
		ProductID:        record.ProductID,
		Quantity:         record.Quantity,
		MinimumThreshold: record.MinimumThreshold,
		Location:         record.Location,
		LastUpdated:      record.LastUpdated,
	}
}

func toStockDTOs(records []models.StockRecord) []StockDTO {
	out := make([]StockDTO, 0, len(records))
	for i := range records {
		out = append(out, *toStockDTO(&records[i]))
	}
	return out
}
