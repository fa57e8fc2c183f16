package inventory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sgavilan/leatherstore-backend/pkg/db/models"
	pkgerrors "github.com/sgavilan/leatherstore-backend/pkg/errors"
	"github.com/sgavilan/leatherstore-backend/pkg/pagination"
)

type stubStockRepo struct {
	createFn        func(ctx context.Context, record *models.StockRecord) (*models.StockRecord, error)
	findByIDFn      func(ctx context.Context, id uuid.UUID) (*models.StockRecord, error)
	findByProductFn func(ctx context.Context, productID uuid.UUID) (*models.StockRecord, error)
	decrementFn     func(ctx context.Context, productID uuid.UUID, amount int) (int64, error)
	incrementFn     func(ctx context.Context, productID uuid.UUID, amount int) (int64, error)
	updateFn        func(ctx context.Context, id uuid.UUID, updates map[string]any) error

	updates []map[string]any
}

func (s *stubStockRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubStockRepo) Create(ctx context.Context, record *models.StockRecord) (*models.StockRecord, error) {
	if s.createFn != nil {
		return s.createFn(ctx, record)
	}
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	return record, nil
}

func (s *stubStockRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.StockRecord, error) {
	if s.findByIDFn != nil {
		return s.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubStockRepo) FindByProduct(ctx context.Context, productID uuid.UUID) (*models.StockRecord, error) {
	if s.findByProductFn != nil {
		return s.findByProductFn(ctx, productID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubStockRepo) List(ctx context.Context, params pagination.Params) ([]models.StockRecord, error) {
	panic("not implemented")
}

func (s *stubStockRepo) ListBelowThreshold(ctx context.Context) ([]models.StockRecord, error) {
	panic("not implemented")
}

func (s *stubStockRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if s.updateFn != nil {
		return s.updateFn(ctx, id, updates)
	}
	s.updates = append(s.updates, updates)
	return nil
}

func (s *stubStockRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (s *stubStockRepo) DecrementQuantity(ctx context.Context, productID uuid.UUID, amount int) (int64, error) {
	if s.decrementFn != nil {
		return s.decrementFn(ctx, productID, amount)
	}
	return 1, nil
}

func (s *stubStockRepo) IncrementQuantity(ctx context.Context, productID uuid.UUID, amount int) (int64, error) {
	if s.incrementFn != nil {
		return s.incrementFn(ctx, productID, amount)
	}
	return 1, nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubProductFinder struct {
	findByIDFn func(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

func (s *stubProductFinder) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if s.findByIDFn != nil {
		return s.findByIDFn(ctx, id)
	}
	return &models.Product{ID: id, Name: "Classic Belt"}, nil
}

func newStockService(t *testing.T, repo Repository, products productFinder) Service {
	t.Helper()
	svc, err := NewService(repo, stubTxRunner{}, products)
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

func TestCreateDefaultsThreshold(t *testing.T) {
	repo := &stubStockRepo{}
	svc := newStockService(t, repo, &stubProductFinder{})

	dto, err := svc.Create(context.Background(), CreateStockInput{
		ProductID: uuid.New(),
		Quantity:  12,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if dto.MinimumThreshold != DefaultMinimumThreshold {
		t.Errorf("expected default threshold %d, got %d", DefaultMinimumThreshold, dto.MinimumThreshold)
	}
}

func TestCreateRejectsUnknownProduct(t *testing.T) {
	products := &stubProductFinder{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*models.Product, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc := newStockService(t, &stubStockRepo{}, products)

	_, err := svc.Create(context.Background(), CreateStockInput{ProductID: uuid.New(), Quantity: 1})
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestCreateRejectsNegativeQuantity(t *testing.T) {
	svc := newStockService(t, &stubStockRepo{}, &stubProductFinder{})

	_, err := svc.Create(context.Background(), CreateStockInput{ProductID: uuid.New(), Quantity: -1})
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestDecreaseRejectsNonPositiveAmount(t *testing.T) {
	svc := newStockService(t, &stubStockRepo{}, &stubProductFinder{})

	_, err := svc.Decrease(context.Background(), uuid.New(), 0)
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestDecreaseReturnsMovement(t *testing.T) {
	productID := uuid.New()
	repo := &stubStockRepo{
		findByProductFn: func(ctx context.Context, id uuid.UUID) (*models.StockRecord, error) {
			return &models.StockRecord{ID: uuid.New(), ProductID: id, Quantity: 6}, nil
		},
	}
	svc := newStockService(t, repo, &stubProductFinder{})

	movement, err := svc.Decrease(context.Background(), productID, 4)
	if err != nil {
		t.Fatalf("Decrease: %v", err)
	}
	if movement.Moved != 4 || movement.Remaining != 6 {
		t.Errorf("unexpected movement: %+v", movement)
	}
}

func TestDecreaseDistinguishesMissingFromShort(t *testing.T) {
	t.Run("missing record", func(t *testing.T) {
		repo := &stubStockRepo{
			decrementFn: func(ctx context.Context, productID uuid.UUID, amount int) (int64, error) {
				return 0, nil
			},
		}
		svc := newStockService(t, repo, &stubProductFinder{})

		_, err := svc.Decrease(context.Background(), uuid.New(), 1)
		assertCode(t, err, pkgerrors.CodeNotFound)
	})

	t.Run("short stock", func(t *testing.T) {
		repo := &stubStockRepo{
			decrementFn: func(ctx context.Context, productID uuid.UUID, amount int) (int64, error) {
				return 0, nil
			},
			findByProductFn: func(ctx context.Context, productID uuid.UUID) (*models.StockRecord, error) {
				return &models.StockRecord{ID: uuid.New(), ProductID: productID, Quantity: 2}, nil
			},
		}
		svc := newStockService(t, repo, &stubProductFinder{})

		_, err := svc.Decrease(context.Background(), uuid.New(), 5)
		assertCode(t, err, pkgerrors.CodeInsufficientStock)

		details, ok := pkgerrors.As(err).Details().(map[string]any)
		if !ok {
			t.Fatalf("expected shortage details")
		}
		if details["available"] != 2 || details["requested"] != 5 {
			t.Errorf("unexpected shortage details: %v", details)
		}
	})
}

func TestIncreaseUnknownProduct(t *testing.T) {
	repo := &stubStockRepo{
		incrementFn: func(ctx context.Context, productID uuid.UUID, amount int) (int64, error) {
			return 0, nil
		},
	}
	svc := newStockService(t, repo, &stubProductFinder{})

	_, err := svc.Increase(context.Background(), uuid.New(), 3)
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestUpdateRequiresFields(t *testing.T) {
	svc := newStockService(t, &stubStockRepo{}, &stubProductFinder{})

	_, err := svc.Update(context.Background(), uuid.New(), UpdateStockInput{})
	assertCode(t, err, pkgerrors.CodeValidation)
}
