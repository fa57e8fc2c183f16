package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sgavilan/leatherstore-backend/pkg/db/models"
	"github.com/sgavilan/leatherstore-backend/pkg/enums"
	pkgerrors "github.com/sgavilan/leatherstore-backend/pkg/errors"
	"github.com/sgavilan/leatherstore-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type clientDirectory interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Client, error)
}

type productCatalog interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// StockLedger applies stock movements inside the order transaction.
type StockLedger interface {
	FindByProduct(ctx context.Context, tx *gorm.DB, productID uuid.UUID) (*models.StockRecord, error)
	Decrease(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty int) error
	Increase(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty int) error
}

// Service exposes the order workflow.
type Service interface {
	Create(ctx context.Context, input CreateOrderInput) (*OrderDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*OrderDTO, error)
	List(ctx context.Context, params pagination.Params) ([]OrderDTO, error)
	ListByClient(ctx context.Context, clientID uuid.UUID, params pagination.Params) ([]OrderDTO, error)
	ListByStatus(ctx context.Context, status string, params pagination.Params) ([]OrderDTO, error)
	ChangeStatus(ctx context.Context, id uuid.UUID, status string) (*OrderDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateOrderInput) (*OrderDTO, error)
	Cancel(ctx context.Context, id uuid.UUID) (*CancelOrderResult, error)
}

type service struct {
	repo     Repository
	tx       txRunner
	clients  clientDirectory
	products productCatalog
	ledger   StockLedger
}

// NewService builds an order service with the required dependencies.
func NewService(repo Repository, tx txRunner, clients clientDirectory, products productCatalog, ledger StockLedger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if clients == nil {
		return nil, fmt.Errorf("client directory required")
	}
	if products == nil {
		return nil, fmt.Errorf("product catalog required")
	}
	if ledger == nil {
		return nil, fmt.Errorf("stock ledger required")
	}
	return &service{
		repo:     repo,
		tx:       tx,
		clients:  clients,
		products: products,
		ledger:   ledger,
	}, nil
}

// Create validates the request, snapshots prices, persists the order and
// reserves stock. Everything past validation runs in a single transaction, so
// a failed reservation rolls back the order and any earlier decrements.
func (s *service) Create(ctx context.Context, input CreateOrderInput) (*OrderDTO, error) {
	if input.ClientID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "client id required")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one item required")
	}
	for _, item := range input.Items {
		if item.ProductID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item product id required")
		}
		if item.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be greater than zero")
		}
	}
	if input.Discount.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount cannot be negative")
	}
	paymentMethod := input.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = enums.PaymentMethodCash
	}
	if !paymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}

	client, err := s.clients.FindByID(ctx, input.ClientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "client not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load client")
	}
	if !client.Active {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "client not found")
	}

	var created *models.Order
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		lineItems := make([]models.OrderLineItem, 0, len(input.Items))
		subtotal := decimal.Zero

		for _, item := range input.Items {
			product, err := s.products.FindByID(ctx, item.ProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeNotFound,
						fmt.Sprintf("product %s not found", item.ProductID))
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
			}

			record, err := s.ledger.FindByProduct(ctx, tx, item.ProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeNotFound,
						fmt.Sprintf("no stock record for product %s", product.Name))
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load stock record")
			}
			if record.Quantity < item.Quantity {
				return pkgerrors.New(pkgerrors.CodeInsufficientStock,
					fmt.Sprintf("not enough stock for %s", product.Name)).
					WithDetails(map[string]any{
						"product_id": product.ID,
						"available":  record.Quantity,
						"requested":  item.Quantity,
					})
			}

			lineSubtotal := product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
			subtotal = subtotal.Add(lineSubtotal)
			lineItems = append(lineItems, models.OrderLineItem{
				ProductID:    product.ID,
				ProductName:  product.Name,
				Quantity:     item.Quantity,
				UnitPrice:    product.Price,
				LineSubtotal: lineSubtotal,
			})
		}

		order := &models.Order{
			ClientID:        input.ClientID,
			CreatedByUserID: input.CreatedByUserID,
			Status:          enums.OrderStatusPending,
			Subtotal:        subtotal,
			Discount:        input.Discount,
			Total:           subtotal.Sub(input.Discount),
			PaymentMethod:   paymentMethod,
			Notes:           input.Notes,
			DeliveryAddress: input.DeliveryAddress,
		}

		repo := s.repo.WithTx(tx)
		if _, err := repo.Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}
		for i := range lineItems {
			lineItems[i].OrderID = order.ID
		}
		if err := repo.CreateLineItems(ctx, lineItems); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order line items")
		}

		for _, item := range input.Items {
			if err := s.ledger.Decrease(ctx, tx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		order.Items = lineItems
		created = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toOrderDTO(created), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*OrderDTO, error) {
	order, err := s.loadOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	return toOrderDTO(order), nil
}

func (s *service) List(ctx context.Context, params pagination.Params) ([]OrderDTO, error) {
	orders, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return toOrderDTOs(orders), nil
}

func (s *service) ListByClient(ctx context.Context, clientID uuid.UUID, params pagination.Params) ([]OrderDTO, error) {
	orders, err := s.repo.ListByClient(ctx, clientID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders by client")
	}
	return toOrderDTOs(orders), nil
}

func (s *service) ListByStatus(ctx context.Context, status string, params pagination.Params) ([]OrderDTO, error) {
	parsed, err := enums.ParseOrderStatus(status)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}
	orders, err := s.repo.ListByStatus(ctx, parsed, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders by status")
	}
	return toOrderDTOs(orders), nil
}

func (s *service) ChangeStatus(ctx context.Context, id uuid.UUID, status string) (*OrderDTO, error) {
	parsed, err := enums.ParseOrderStatus(status)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}

	if _, err := s.loadOrder(ctx, id); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	updates := map[string]any{
		"status":            parsed,
		"status_changed_at": now,
	}
	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}
	return s.Get(ctx, id)
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateOrderInput) (*OrderDTO, error) {
	updates := map[string]any{}
	if input.Notes != nil {
		updates["notes"] = *input.Notes
	}
	if input.DeliveryAddress != nil {
		updates["delivery_address"] = *input.DeliveryAddress
	}
	if input.PaymentMethod != nil {
		if !input.PaymentMethod.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
		}
		updates["payment_method"] = *input.PaymentMethod
	}
	if input.Discount != nil {
		if input.Discount.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount cannot be negative")
		}
		updates["discount"] = *input.Discount
	}
	if len(updates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}

	if _, err := s.loadOrder(ctx, id); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order")
	}
	return s.Get(ctx, id)
}

// Cancel returns every reserved unit to stock and marks the order cancelled.
// Runs in one transaction so a failed restore never leaves the order half
// cancelled.
func (s *service) Cancel(ctx context.Context, id uuid.UUID) (*CancelOrderResult, error) {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if !order.Status.IsCancellable() {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("order in status %s cannot be cancelled", order.Status))
		}

		for _, item := range order.Items {
			if err := s.ledger.Increase(ctx, tx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		now := time.Now().UTC()
		updates := map[string]any{
			"status":            enums.OrderStatusCancelled,
			"status_changed_at": now,
			"cancelled_at":      now,
		}
		if err := repo.Update(ctx, order.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &CancelOrderResult{ID: id, Cancelled: true}, nil
}

func (s *service) loadOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}
