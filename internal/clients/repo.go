package clients

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sgavilan/leatherstore-backend/pkg/db/models"
	"github.com/sgavilan/leatherstore-backend/pkg/pagination"
)

// Repository exposes client persistence.
type Repository interface {
	Create(ctx context.Context, client *models.Client) (*models.Client, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Client, error)
	FindByDocument(ctx context.Context, documentID string) (*models.Client, error)
	List(ctx context.Context, params pagination.Params) ([]models.Client, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a client repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, client *models.Client) (*models.Client, error) {
	if client.ID == uuid.Nil {
		client.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(client).Error; err != nil {
		return nil, err
	}
	return client, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	var client models.Client
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&client).Error
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *repository) FindByDocument(ctx context.Context, documentID string) (*models.Client, error) {
	var client models.Client
	err := r.db.WithContext(ctx).
		Where("document_id = ?", documentID).
		First(&client).Error
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *repository) List(ctx context.Context, params pagination.Params) ([]models.Client, error) {
	params = pagination.Normalize(params)
	var clients []models.Client
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("created_at DESC").
		Limit(params.Limit).
		Offset(params.Offset).
		Find(&clients).Error
	if err != nil {
		return nil, err
	}
	return clients, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Client{}).
		Where("id = ?", id).
		Updates(updates).Error
}
