package clients

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sgavilan/leatherstore-backend/pkg/db/models"
	pkgerrors "github.com/sgavilan/leatherstore-backend/pkg/errors"
	"github.com/sgavilan/leatherstore-backend/pkg/pagination"
)

// CreateClientInput captures the fields accepted when registering a client.
type CreateClientInput struct {
	Name       string
	Email      string
	DocumentID string
	Phone      string
	Address    string
}

// UpdateClientInput is a partial update; nil fields are left untouched.
type UpdateClientInput struct {
	Name    *string
	Email   *string
	Phone   *string
	Address *string
}

// Service exposes client directory management.
type Service interface {
	Create(ctx context.Context, input CreateClientInput) (*models.Client, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Client, error)
	GetByDocument(ctx context.Context, documentID string) (*models.Client, error)
	List(ctx context.Context, params pagination.Params) ([]models.Client, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateClientInput) (*models.Client, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
}

// NewService builds a client service with the required dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("client repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateClientInput) (*models.Client, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)
	document := strings.TrimSpace(input.DocumentID)
	if name == "" || email == "" || document == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name, email and document id are required")
	}

	client := &models.Client{
		Name:       name,
		Email:      email,
		DocumentID: document,
		Phone:      input.Phone,
		Address:    input.Address,
		Active:     true,
	}
	created, err := s.repo.Create(ctx, client)
	if err != nil {
		if pkgerrors.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "document id already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create client")
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	client, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "client not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load client")
	}
	return client, nil
}

func (s *service) GetByDocument(ctx context.Context, documentID string) (*models.Client, error) {
	documentID = strings.TrimSpace(documentID)
	if documentID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "document id required")
	}
	client, err := s.repo.FindByDocument(ctx, documentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "client not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load client")
	}
	return client, nil
}

func (s *service) List(ctx context.Context, params pagination.Params) ([]models.Client, error) {
	clients, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list clients")
	}
	return clients, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateClientInput) (*models.Client, error) {
	updates := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "client name cannot be empty")
		}
		updates["name"] = name
	}
	if input.Email != nil {
		email := strings.TrimSpace(*input.Email)
		if email == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "client email cannot be empty")
		}
		updates["email"] = email
	}
	if input.Phone != nil {
		updates["phone"] = *input.Phone
	}
	if input.Address != nil {
		updates["address"] = *input.Address
	}
	if len(updates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}

	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update client")
	}
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, id, map[string]any{"active": false}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivate client")
	}
	return nil
}
