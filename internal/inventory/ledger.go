package inventory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sgavilan/leatherstore-backend/pkg/db/models"
	pkgerrors "github.com/sgavilan/leatherstore-backend/pkg/errors"
)

// Ledger applies stock movements inside a caller-owned transaction. The order
// workflow uses it so reservation and release commit or roll back together
// with the order itself.
type Ledger struct{}

// NewLedger exposes the default ledger implementation.
func NewLedger() Ledger {
	return Ledger{}
}

// InitRecord creates an empty stock record for a newly registered product.
func (Ledger) InitRecord(ctx context.Context, tx *gorm.DB, productID uuid.UUID) error {
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "transaction required for stock init")
	}
	record := &models.StockRecord{
		ID:               uuid.New(),
		ProductID:        productID,
		Quantity:         0,
		MinimumThreshold: DefaultMinimumThreshold,
	}
	if err := tx.WithContext(ctx).Create(record).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "init stock record")
	}
	return nil
}

// FindByProduct loads the stock record for a product within tx.
func (Ledger) FindByProduct(ctx context.Context, tx *gorm.DB, productID uuid.UUID) (*models.StockRecord, error) {
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction required for stock lookup")
	}
	var record models.StockRecord
	err := tx.WithContext(ctx).
		Where("product_id = ?", productID).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Decrease reserves qty units for a product. The guarded update keeps the
// quantity non-negative under concurrent writers; zero rows affected means
// either a missing record or not enough stock, disambiguated by a re-read.
func (l Ledger) Decrease(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty int) error {
	if qty <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be greater than zero")
	}
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "transaction required for stock decrease")
	}

	res := tx.WithContext(ctx).Exec(`
		UPDATE stock_records
		SET quantity = quantity - ?,
			last_updated = CURRENT_TIMESTAMP
		WHERE product_id = ? AND quantity >= ?
	`, qty, productID, qty)
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "decrease stock")
	}
	if res.RowsAffected == 0 {
		record, err := l.FindByProduct(ctx, tx, productID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "stock record not found for product")
		}
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load stock record")
		}
		return pkgerrors.New(pkgerrors.CodeInsufficientStock, "not enough stock available").
			WithDetails(map[string]any{"product_id": productID, "available": record.Quantity, "requested": qty})
	}
	return nil
}

// Increase returns qty units to a product, used when an order is cancelled.
func (Ledger) Increase(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty int) error {
	if qty <= 0 {
		return nil
	}
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "transaction required for stock increase")
	}

	res := tx.WithContext(ctx).Exec(`
		UPDATE stock_records
		SET quantity = quantity + ?,
			last_updated = CURRENT_TIMESTAMP
		WHERE product_id = ?
	`, qty, productID)
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "increase stock")
	}
	if res.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "stock record not found for product")
	}
	return nil
}
