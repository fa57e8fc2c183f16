package orders

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sgavilan/leatherstore-backend/api/responses"
	"github.com/sgavilan/leatherstore-backend/api/validators"
	"github.com/sgavilan/leatherstore-backend/internal/orders"
	"github.com/sgavilan/leatherstore-backend/pkg/enums"
	pkgerrors "github.com/sgavilan/leatherstore-backend/pkg/errors"
	"github.com/sgavilan/leatherstore-backend/pkg/logger"
)

type orderItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

type createOrderRequest struct {
	ClientID        string             `json:"client_id" validate:"required,uuid"`
	CreatedByUserID *string            `json:"created_by_user_id,omitempty" validate:"omitempty,uuid"`
	Items           []orderItemRequest `json:"items" validate:"required,min=1,dive"`
	Discount        *decimal.Decimal   `json:"discount,omitempty"`
	PaymentMethod   string             `json:"payment_method,omitempty"`
	Notes           string             `json:"notes,omitempty"`
	DeliveryAddress string             `json:"delivery_address,omitempty"`
}

type updateOrderRequest struct {
	Notes           *string          `json:"notes,omitempty"`
	DeliveryAddress *string          `json:"delivery_address,omitempty"`
	PaymentMethod   *string          `json:"payment_method,omitempty"`
	Discount        *decimal.Decimal `json:"discount,omitempty"`
}

type changeStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// Create handles POST /orders.
func Create(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		clientID, err := uuid.Parse(req.ClientID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "client_id must be a valid uuid"))
			return
		}

		input := orders.CreateOrderInput{
			ClientID:        clientID,
			Notes:           req.Notes,
			DeliveryAddress: req.DeliveryAddress,
			PaymentMethod:   enums.PaymentMethod(req.PaymentMethod),
		}
		if req.CreatedByUserID != nil {
			userID, parseErr := uuid.Parse(*req.CreatedByUserID)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "created_by_user_id must be a valid uuid"))
				return
			}
			input.CreatedByUserID = &userID
		}
		if req.Discount != nil {
			input.Discount = *req.Discount
		}
		for _, item := range req.Items {
			productID, parseErr := uuid.Parse(item.ProductID)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "item product_id must be a valid uuid"))
				return
			}
			input.Items = append(input.Items, orders.OrderItemInput{ProductID: productID, Quantity: item.Quantity})
		}

		order, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// Get handles GET /orders/{orderId}.
func Get(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(chi.URLParam(r, "orderId"), "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// List handles GET /orders.
func List(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		list, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// ListByClient handles GET /orders/client/{clientId}.
func ListByClient(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientID, err := validators.ParseUUIDParam(chi.URLParam(r, "clientId"), "clientId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		list, err := svc.ListByClient(r.Context(), clientID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// ListByStatus handles GET /orders/status/{status}.
func ListByStatus(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		list, err := svc.ListByStatus(r.Context(), chi.URLParam(r, "status"), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// ChangeStatus handles PUT /orders/{orderId}/status.
func ChangeStatus(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(chi.URLParam(r, "orderId"), "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req changeStatusRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.ChangeStatus(r.Context(), id, req.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// Update handles PUT /orders/{orderId}.
func Update(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(chi.URLParam(r, "orderId"), "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req updateOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := orders.UpdateOrderInput{
			Notes:           req.Notes,
			DeliveryAddress: req.DeliveryAddress,
			Discount:        req.Discount,
		}
		if req.PaymentMethod != nil {
			method := enums.PaymentMethod(*req.PaymentMethod)
			input.PaymentMethod = &method
		}

		order, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// Cancel handles DELETE /orders/{orderId}.
func Cancel(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(chi.URLParam(r, "orderId"), "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.Cancel(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
