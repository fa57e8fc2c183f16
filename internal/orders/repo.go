package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sgavilan/leatherstore-backend/pkg/db/models"
	"github.com/sgavilan/leatherstore-backend/pkg/enums"
	"github.com/sgavilan/leatherstore-backend/pkg/pagination"
)

// Repository exposes order persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	CreateLineItems(ctx context.Context, items []models.OrderLineItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	List(ctx context.Context, params pagination.Params) ([]models.Order, error)
	ListByClient(ctx context.Context, clientID uuid.UUID, params pagination.Params) ([]models.Order, error)
	ListByStatus(ctx context.Context, status enums.OrderStatus, params pagination.Params) ([]models.Order, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Omit("Items").Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) CreateLineItems(ctx context.Context, items []models.OrderLineItem) error {
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) List(ctx context.Context, params pagination.Params) ([]models.Order, error) {
	return r.list(ctx, params)
}

func (r *repository) ListByClient(ctx context.Context, clientID uuid.UUID, params pagination.Params) ([]models.Order, error) {
	return r.list(ctx, params, "client_id = ?", clientID)
}

func (r *repository) ListByStatus(ctx context.Context, status enums.OrderStatus, params pagination.Params) ([]models.Order, error) {
	return r.list(ctx, params, "status = ?", status)
}

func (r *repository) list(ctx context.Context, params pagination.Params, conds ...any) ([]models.Order, error) {
	params = pagination.Normalize(params)
	query := r.db.WithContext(ctx).
		Preload("Items").
		Order("created_at DESC").
		Limit(params.Limit).
		Offset(params.Offset)
	if len(conds) > 0 {
		query = query.Where(conds[0], conds[1:]...)
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Updates(updates).Error
}
