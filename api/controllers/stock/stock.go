package stock

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sgavilan/leatherstore-backend/api/responses"
	"github.com/sgavilan/leatherstore-backend/api/validators"
	"github.com/sgavilan/leatherstore-backend/internal/inventory"
	pkgerrors "github.com/sgavilan/leatherstore-backend/pkg/errors"
	"github.com/sgavilan/leatherstore-backend/pkg/logger"
)

type createStockRequest struct {
	ProductID        string `json:"product_id" validate:"required,uuid"`
	Quantity         int    `json:"quantity" validate:"omitempty,min=0"`
	MinimumThreshold *int   `json:"minimum_threshold,omitempty" validate:"omitempty,min=0"`
	Location         string `json:"location,omitempty"`
}

type updateStockRequest struct {
	Quantity         *int    `json:"quantity,omitempty" validate:"omitempty,min=0"`
	MinimumThreshold *int    `json:"minimum_threshold,omitempty" validate:"omitempty,min=0"`
	Location         *string `json:"location,omitempty"`
}

type movementRequest struct {
	Amount int `json:"amount" validate:"required,gt=0"`
}

// Create handles POST /stock.
func Create(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createStockRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := uuid.Parse(req.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product_id must be a valid uuid"))
			return
		}
		record, err := svc.Create(r.Context(), inventory.CreateStockInput{
			ProductID:        productID,
			Quantity:         req.Quantity,
			MinimumThreshold: req.MinimumThreshold,
			Location:         req.Location,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, record)
	}
}

// List handles GET /stock.
func List(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		records, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, records)
	}
}

// ListLow handles GET /stock/low.
func ListLow(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := svc.ListBelowThreshold(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, records)
	}
}

// Get handles GET /stock/{stockId}.
func Get(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(chi.URLParam(r, "stockId"), "stockId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		record, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, record)
	}
}

// GetByProduct handles GET /stock/product/{productId}.
func GetByProduct(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.ParseUUIDParam(chi.URLParam(r, "productId"), "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		record, err := svc.GetByProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, record)
	}
}

// Update handles PUT /stock/{stockId}.
func Update(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(chi.URLParam(r, "stockId"), "stockId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req updateStockRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		record, err := svc.Update(r.Context(), id, inventory.UpdateStockInput{
			Quantity:         req.Quantity,
			MinimumThreshold: req.MinimumThreshold,
			Location:         req.Location,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, record)
	}
}

// Increase handles PUT /stock/increase/{productId}.
func Increase(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return movement(svc.Increase, logg)
}

// Decrease handles PUT /stock/decrease/{productId}.
func Decrease(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return movement(svc.Decrease, logg)
}

func movement(apply func(ctx context.Context, productID uuid.UUID, amount int) (*inventory.StockMovement, error), logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.ParseUUIDParam(chi.URLParam(r, "productId"), "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req movementRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := apply(r.Context(), productID, req.Amount)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// Delete handles DELETE /stock/{stockId}.
func Delete(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(chi.URLParam(r, "stockId"), "stockId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"deleted": true})
	}
}
