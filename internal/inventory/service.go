package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sgavilan/leatherstore-backend/pkg/db/models"
	pkgerrors "github.com/sgavilan/leatherstore-backend/pkg/errors"
	"github.com/sgavilan/leatherstore-backend/pkg/pagination"
)

// DefaultMinimumThreshold is used when a stock record is created without one.
const DefaultMinimumThreshold = 5

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type productFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Service exposes stock administration and the increase/decrease movements.
type Service interface {
	Create(ctx context.Context, input CreateStockInput) (*StockDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*StockDTO, error)
	GetByProduct(ctx context.Context, productID uuid.UUID) (*StockDTO, error)
	List(ctx context.Context, params pagination.Params) ([]StockDTO, error)
	ListBelowThreshold(ctx context.Context) ([]StockDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateStockInput) (*StockDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Decrease(ctx context.Context, productID uuid.UUID, amount int) (*StockMovement, error)
	Increase(ctx context.Context, productID uuid.UUID, amount int) (*StockMovement, error)
}

type service struct {
	repo     Repository
	tx       txRunner
	products productFinder
}

// NewService builds a stock service with the required dependencies.
func NewService(repo Repository, tx txRunner, products productFinder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("stock repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if products == nil {
		return nil, fmt.Errorf("product finder required")
	}
	return &service{repo: repo, tx: tx, products: products}, nil
}

func (s *service) Create(ctx context.Context, input CreateStockInput) (*StockDTO, error) {
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if input.Quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
	}
	threshold := DefaultMinimumThreshold
	if input.MinimumThreshold != nil {
		if *input.MinimumThreshold < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "minimum threshold cannot be negative")
		}
		threshold = *input.MinimumThreshold
	}

	if _, err := s.products.FindByID(ctx, input.ProductID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	record := &models.StockRecord{
		ProductID:        input.ProductID,
		Quantity:         input.Quantity,
		MinimumThreshold: threshold,
		Location:         input.Location,
	}
	created, err := s.repo.Create(ctx, record)
	if err != nil {
		if pkgerrors.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "stock record already exists for product")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create stock record")
	}
	return toStockDTO(created), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*StockDTO, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "stock record not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load stock record")
	}
	return toStockDTO(record), nil
}

func (s *service) GetByProduct(ctx context.Context, productID uuid.UUID) (*StockDTO, error) {
	record, err := s.repo.FindByProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "stock record not found for product")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load stock record")
	}
	return toStockDTO(record), nil
}

func (s *service) List(ctx context.Context, params pagination.Params) ([]StockDTO, error) {
	records, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list stock records")
	}
	return toStockDTOs(records), nil
}

func (s *service) ListBelowThreshold(ctx context.Context) ([]StockDTO, error) {
	records, err := s.repo.ListBelowThreshold(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list low stock records")
	}
	return toStockDTOs(records), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateStockInput) (*StockDTO, error) {
	updates := map[string]any{}
	if input.Quantity != nil {
		if *input.Quantity < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
		}
		updates["quantity"] = *input.Quantity
	}
	if input.MinimumThreshold != nil {
		if *input.MinimumThreshold < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "minimum threshold cannot be negative")
		}
		updates["minimum_threshold"] = *input.MinimumThreshold
	}
	if input.Location != nil {
		updates["location"] = *input.Location
	}
	if len(updates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "stock record not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load stock record")
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update stock record")
	}
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "stock record not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load stock record")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete stock record")
	}
	return nil
}

func (s *service) Decrease(ctx context.Context, productID uuid.UUID, amount int) (*StockMovement, error) {
	if amount <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be greater than zero")
	}

	var movement *StockMovement
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		rows, err := repo.DecrementQuantity(ctx, productID, amount)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decrement stock")
		}
		record, findErr := repo.FindByProduct(ctx, productID)
		if rows == 0 {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "stock record not found for product")
			}
			if findErr != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, findErr, "load stock record")
			}
			return pkgerrors.New(pkgerrors.CodeInsufficientStock, "not enough stock available").
				WithDetails(map[string]any{"product_id": productID, "available": record.Quantity, "requested": amount})
		}
		if findErr != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, findErr, "load stock record")
		}
		movement = &StockMovement{ProductID: productID, Moved: amount, Remaining: record.Quantity}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return movement, nil
}

func (s *service) Increase(ctx context.Context, productID uuid.UUID, amount int) (*StockMovement, error) {
	if amount <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be greater than zero")
	}

	var movement *StockMovement
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		rows, err := repo.IncrementQuantity(ctx, productID, amount)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "increment stock")
		}
		if rows == 0 {
			return pkgerrors.New(pkgerrors.CodeNotFound, "stock record not found for product")
		}
		record, err := repo.FindByProduct(ctx, productID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load stock record")
		}
		movement = &StockMovement{ProductID: productID, Moved: amount, Remaining: record.Quantity}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return movement, nil
}
