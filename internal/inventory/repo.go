package inventory

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sgavilan/leatherstore-backend/pkg/db/models"
	"github.com/sgavilan/leatherstore-backend/pkg/pagination"
)

// Repository exposes stock record persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, record *models.StockRecord) (*models.StockRecord, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.StockRecord, error)
	FindByProduct(ctx context.Context, productID uuid.UUID) (*models.StockRecord, error)
	List(ctx context.Context, params pagination.Params) ([]models.StockRecord, error)
	ListBelowThreshold(ctx context.Context) ([]models.StockRecord, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
	DecrementQuantity(ctx context.Context, productID uuid.UUID, amount int) (int64, error)
	IncrementQuantity(ctx context.Context, productID uuid.UUID, amount int) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a stock repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, record *models.StockRecord) (*models.StockRecord, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.StockRecord, error) {
	var record models.StockRecord
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *repository) FindByProduct(ctx context.Context, productID uuid.UUID) (*models.StockRecord, error) {
	var record models.StockRecord
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *repository) List(ctx context.Context, params pagination.Params) ([]models.StockRecord, error) {
	params = pagination.Normalize(params)
	var records []models.StockRecord
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(params.Limit).
		Offset(params.Offset).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repository) ListBelowThreshold(ctx context.Context) ([]models.StockRecord, error) {
	var records []models.StockRecord
	err := r.db.WithContext(ctx).
		Where("quantity <= minimum_threshold").
		Order("quantity ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.StockRecord{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.StockRecord{}).Error
}

// DecrementQuantity applies a guarded decrement so the quantity can never go
// negative even under concurrent orders. Returns the affected row count: zero
// means either no record or not enough stock.
func (r *repository) DecrementQuantity(ctx context.Context, productID uuid.UUID, amount int) (int64, error) {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE stock_records
		SET quantity = quantity - ?,
			last_updated = CURRENT_TIMESTAMP
		WHERE product_id = ? AND quantity >= ?
	`, amount, productID, amount)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *repository) IncrementQuantity(ctx context.Context, productID uuid.UUID, amount int) (int64, error) {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE stock_records
		SET quantity = quantity + ?,
			last_updated = CURRENT_TIMESTAMP
		WHERE product_id = ?
	`, amount, productID)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
