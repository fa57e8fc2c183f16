package products

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sgavilan/leatherstore-backend/pkg/db/models"
	pkgerrors "github.com/sgavilan/leatherstore-backend/pkg/errors"
	"github.com/sgavilan/leatherstore-backend/pkg/pagination"
)

type stubProductsRepo struct {
	createFn   func(ctx context.Context, product *models.Product) (*models.Product, error)
	findByIDFn func(ctx context.Context, id uuid.UUID) (*models.Product, error)
	updateFn   func(ctx context.Context, id uuid.UUID, updates map[string]any) error

	updates []map[string]any
}

func (s *stubProductsRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubProductsRepo) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if s.createFn != nil {
		return s.createFn(ctx, product)
	}
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	return product, nil
}

func (s *stubProductsRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if s.findByIDFn != nil {
		return s.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubProductsRepo) List(ctx context.Context, params pagination.Params) ([]models.Product, error) {
	panic("not implemented")
}

func (s *stubProductsRepo) ListByCategory(ctx context.Context, categoryID uuid.UUID, params pagination.Params) ([]models.Product, error) {
	panic("not implemented")
}

func (s *stubProductsRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if s.updateFn != nil {
		return s.updateFn(ctx, id, updates)
	}
	s.updates = append(s.updates, updates)
	return nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubCategoryFinder struct {
	findByIDFn func(ctx context.Context, id uuid.UUID) (*models.Category, error)
}

func (s *stubCategoryFinder) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	if s.findByIDFn != nil {
		return s.findByIDFn(ctx, id)
	}
	return &models.Category{ID: id, Name: "Belts", Active: true}, nil
}

type stubStockInitializer struct {
	initialized []uuid.UUID
	err         error
}

func (s *stubStockInitializer) InitRecord(ctx context.Context, tx *gorm.DB, productID uuid.UUID) error {
	if s.err != nil {
		return s.err
	}
	s.initialized = append(s.initialized, productID)
	return nil
}

type stubStockReader struct {
	findByProductFn func(ctx context.Context, productID uuid.UUID) (*models.StockRecord, error)
}

func (s *stubStockReader) FindByProduct(ctx context.Context, productID uuid.UUID) (*models.StockRecord, error) {
	if s.findByProductFn != nil {
		return s.findByProductFn(ctx, productID)
	}
	return nil, gorm.ErrRecordNotFound
}

func money(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func newProductService(t *testing.T, repo Repository, categories categoryFinder, stockInit stockInitializer, stock stockReader) Service {
	t.Helper()
	svc, err := NewService(repo, stubTxRunner{}, categories, stockInit, stock)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func assertCode(t *testing.T, err error, want pkgerrors.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s, got nil", want)
	}
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected typed error, got %v", err)
	}
	if typed.Code() != want {
		t.Fatalf("expected code %s, got %s (%v)", want, typed.Code(), err)
	}
}

func TestCreateInitializesStockRecord(t *testing.T) {
	repo := &stubProductsRepo{}
	stockInit := &stubStockInitializer{}
	svc := newProductService(t, repo, &stubCategoryFinder{}, stockInit, &stubStockReader{})

	dto, err := svc.Create(context.Background(), CreateProductInput{
		Name:       "Classic Belt",
		Price:      money("45.50"),
		CategoryID: uuid.New(),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !dto.Active {
		t.Errorf("new products should be active")
	}
	if len(stockInit.initialized) != 1 || stockInit.initialized[0] != dto.ID {
		t.Errorf("expected a stock record for the new product, got %v", stockInit.initialized)
	}
}

func TestCreateValidation(t *testing.T) {
	categoryID := uuid.New()
	cases := []struct {
		name  string
		input CreateProductInput
	}{
		{name: "empty name", input: CreateProductInput{Name: "  ", Price: money("10.00"), CategoryID: categoryID}},
		{name: "zero price", input: CreateProductInput{Name: "Belt", Price: money("0"), CategoryID: categoryID}},
		{name: "negative price", input: CreateProductInput{Name: "Belt", Price: money("-5.00"), CategoryID: categoryID}},
		{name: "missing category", input: CreateProductInput{Name: "Belt", Price: money("10.00")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := newProductService(t, &stubProductsRepo{}, &stubCategoryFinder{}, &stubStockInitializer{}, &stubStockReader{})
			_, err := svc.Create(context.Background(), tc.input)
			assertCode(t, err, pkgerrors.CodeValidation)
		})
	}
}

func TestCreateUnknownCategory(t *testing.T) {
	categories := &stubCategoryFinder{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*models.Category, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc := newProductService(t, &stubProductsRepo{}, categories, &stubStockInitializer{}, &stubStockReader{})

	_, err := svc.Create(context.Background(), CreateProductInput{
		Name:       "Belt",
		Price:      money("10.00"),
		CategoryID: uuid.New(),
	})
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestGetMergesStockQuantity(t *testing.T) {
	productID := uuid.New()
	repo := &stubProductsRepo{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*models.Product, error) {
			return &models.Product{ID: productID, Name: "Belt", Active: true}, nil
		},
	}
	stock := &stubStockReader{
		findByProductFn: func(ctx context.Context, id uuid.UUID) (*models.StockRecord, error) {
			return &models.StockRecord{ProductID: id, Quantity: 9}, nil
		},
	}
	svc := newProductService(t, repo, &stubCategoryFinder{}, &stubStockInitializer{}, stock)

	dto, err := svc.Get(context.Background(), productID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if dto.StockQuantity == nil || *dto.StockQuantity != 9 {
		t.Errorf("expected stock quantity 9, got %v", dto.StockQuantity)
	}
}

func TestGetWithoutStockRecord(t *testing.T) {
	productID := uuid.New()
	repo := &stubProductsRepo{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*models.Product, error) {
			return &models.Product{ID: productID, Name: "Belt", Active: true}, nil
		},
	}
	svc := newProductService(t, repo, &stubCategoryFinder{}, &stubStockInitializer{}, &stubStockReader{})

	dto, err := svc.Get(context.Background(), productID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if dto.StockQuantity != nil {
		t.Errorf("expected nil stock quantity, got %v", *dto.StockQuantity)
	}
}

func TestDeleteDeactivates(t *testing.T) {
	productID := uuid.New()
	repo := &stubProductsRepo{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*models.Product, error) {
			return &models.Product{ID: productID, Active: true}, nil
		},
	}
	svc := newProductService(t, repo, &stubCategoryFinder{}, &stubStockInitializer{}, &stubStockReader{})

	if err := svc.Delete(context.Background(), productID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(repo.updates) != 1 {
		t.Fatalf("expected one update, got %d", len(repo.updates))
	}
	if repo.updates[0]["active"] != false {
		t.Errorf("expected active=false, got %v", repo.updates[0])
	}
}
