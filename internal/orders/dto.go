package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sgavilan/leatherstore-backend/pkg/db/models"
	"github.com/sgavilan/leatherstore-backend/pkg/enums"
)

// OrderItemInput is one requested product/quantity pair.
type OrderItemInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// CreateOrderInput captures everything needed to place an order.
type CreateOrderInput struct {
	ClientID        uuid.UUID
	CreatedByUserID *uuid.UUID
	Items           []OrderItemInput
	Discount        decimal.Decimal
	PaymentMethod   enums.PaymentMethod
	Notes           string
	DeliveryAddress string
}

// UpdateOrderInput is a partial update of the order's mutable fields. Totals
// are never recalculated here.
type UpdateOrderInput struct {
	Notes           *string
	DeliveryAddress *string
	PaymentMethod   *enums.PaymentMethod
	Discount        *decimal.Decimal
}

// OrderLineItemDTO is the outward representation of a line item snapshot.
type OrderLineItemDTO struct {
	ID           uuid.UUID       `json:"id"`
	ProductID    uuid.UUID       `json:"product_id"`
	ProductName  string          `json:"product_name"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	LineSubtotal decimal.Decimal `json:"line_subtotal"`
}

// OrderDTO is the outward representation of an order.
type OrderDTO struct {
	ID              uuid.UUID           `json:"id"`
	ClientID        uuid.UUID           `json:"client_id"`
	CreatedByUserID *uuid.UUID          `json:"created_by_user_id,omitempty"`
	Status          enums.OrderStatus   `json:"status"`
	Subtotal        decimal.Decimal     `json:"subtotal"`
	Discount        decimal.Decimal     `json:"discount"`
	Total           decimal.Decimal     `json:"total"`
	PaymentMethod   enums.PaymentMethod `json:"payment_method"`
	Notes           string              `json:"notes,omitempty"`
	DeliveryAddress string              `json:"delivery_address,omitempty"`
	StatusChangedAt *time.Time          `json:"status_changed_at,omitempty"`
	CancelledAt     *time.Time          `json:"cancelled_at,omitempty"`
	Items           []OrderLineItemDTO  `json:"items"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// CancelOrderResult confirms a cancellation.
type CancelOrderResult struct {
	ID        uuid.UUID `json:"id"`
	Cancelled bool      `json:"cancelled"`
}

func toOrderDTO(order *models.Order) *OrderDTO {
	if order == nil {
		return nil
	}
	items := make([]OrderLineItemDTO, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderLineItemDTO{
			ID:           item.ID,
			ProductID:    item.ProductID,
			ProductName:  item.ProductName,
			Quantity:     item.Quantity,
			UnitPrice:    item.UnitPrice,
			LineSubtotal: item.LineSubtotal,
		})
	}
	return &OrderDTO{
		ID:              order.ID,
		ClientID:        order.ClientID,
		CreatedByUserID: order.CreatedByUserID,
		Status:          order.Status,
		Subtotal:        order.Subtotal,
		Discount:        order.Discount,
		Total:           order.Total,
		PaymentMethod:   order.PaymentMethod,
		Notes:           order.Notes,
		DeliveryAddress: order.DeliveryAddress,
		StatusChangedAt: order.StatusChangedAt,
		CancelledAt:     order.CancelledAt,
		Items:           items,
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}
}

func toOrderDTOs(orders []models.Order) []OrderDTO {
	out := make([]OrderDTO, 0, len(orders))
	for i := range orders {
		out = append(out, *toOrderDTO(&orders[i]))
	}
	return out
}
