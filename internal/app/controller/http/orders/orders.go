package orders

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/render"
	"go.uber.org/zap"

	httputils "github.com/avGenie/go-order-system/internal/app/controller/http/utils"
	"github.com/avGenie/go-order-system/internal/app/entity"
	"github.com/avGenie/go-order-system/internal/app/model"
	err_storage "github.com/avGenie/go-order-system/internal/app/storage/api/errors"
	usecase "github.com/avGenie/go-order-system/internal/app/usecase/errors"
	"github.com/avGenie/go-order-system/internal/app/usecase/postal"
	"github.com/avGenie/go-order-system/internal/app/validator"
)

//go:generate mockgen -destination=mock/orders.go -package=mock . OrderService,AddressResolver

const (
	AllowedMethods = "GET, POST, DELETE, PATCH"

	msgAPIKeyRequired  = "apiKey is required and must be a string"
	msgInvalidAPIKey   = "Invalid API key"
	msgInvalidAuth     = "auth credentials are invalid"
	msgOrderRequired   = "Order not provided"
	msgInvalidBody     = "request body is not a valid JSON"
	msgUserNotFound    = "User not found in this team"
	msgTeamNotFound    = "Team not found"
	msgOrderNotFound   = "Order not found"
	msgProductNotFound = "Inventory product not found"
	msgPostalNotFound  = "cep: postal code not found"
	msgOrderCreated    = "Order created!"
	msgInternal        = "Something went wrong"
)

type OrderService interface {
	ResolveAPIKey(ctx context.Context, apiKey string) (entity.APIKey, error)
	CreateByAPIKey(ctx context.Context, order entity.Order, apiKey string) (entity.Order, error)
	Create(ctx context.Context, order entity.Order, teamID entity.TeamID) (entity.Order, error)

	List(ctx context.Context, teamID entity.TeamID) (entity.Orders, error)
	ListUnfinished(ctx context.Context, teamID entity.TeamID) (entity.Orders, error)
	ListFinished(ctx context.Context, teamID entity.TeamID) (entity.Orders, error)
	GetOne(ctx context.Context, orderID entity.OrderID, teamID entity.TeamID) (entity.Order, error)

	Update(ctx context.Context, orderID entity.OrderID, teamID entity.TeamID, patch entity.OrderPatch) (entity.Order, error)
	UpdateStatus(ctx context.Context, orderID entity.OrderID, teamID entity.TeamID, change entity.StatusChange) (entity.Order, error)
	Delete(ctx context.Context, orderID entity.OrderID, teamID entity.TeamID) error
}

type AddressResolver interface {
	ResolveAddress(ctx context.Context, postalCode string) (entity.Address, error)
}

type Order struct {
	service  OrderService
	resolver AddressResolver
}

func New(service OrderService, resolver AddressResolver) Order {
	return Order{
		service:  service,
		resolver: resolver,
	}
}

// MethodNotAllowed answers every method /api/order doesn't serve.
func (p *Order) MethodNotAllowed() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Allow", AllowedMethods)
		httputils.WriteError(w, r, http.StatusMethodNotAllowed, fmt.Sprintf("Method %s Not Allowed", r.Method))
	}
}

// resolveAddress fills street, city and state from the postal code lookup.
func (p *Order) resolveAddress(w http.ResponseWriter, r *http.Request, address *entity.Address) error {
	resolved, err := p.resolver.ResolveAddress(r.Context(), address.PostalCode)
	if err != nil {
		if errors.Is(err, postal.ErrPostalCodeNotFound) {
			httputils.WriteError(w, r, http.StatusUnprocessableEntity, msgPostalNotFound)
		} else {
			httputils.WriteError(w, r, http.StatusInternalServerError, msgInternal)
		}

		return fmt.Errorf("error while resolving address: %w", err)
	}

	if len(resolved.Street) != 0 {
		address.Street = resolved.Street
	}
	if len(resolved.City) != 0 {
		address.City = resolved.City
	}
	if len(resolved.State) != 0 {
		address.State = resolved.State
	}

	return nil
}

func decodeOrderRequest(w http.ResponseWriter, r *http.Request) (model.OrderPayload, error) {
	var request model.CreateOrderRequest
	err := render.DecodeJSON(r.Body, &request)
	if err != nil {
		httputils.WriteError(w, r, http.StatusBadRequest, msgInvalidBody)
		return model.OrderPayload{}, fmt.Errorf("error while decoding order request: %w", err)
	}

	if request.Order == nil {
		httputils.WriteError(w, r, http.StatusBadRequest, msgOrderRequired)
		return model.OrderPayload{}, fmt.Errorf("order is absent in request")
	}

	return *request.Order, nil
}

func writeValidationError(w http.ResponseWriter, r *http.Request, err error) {
	httputils.WriteError(w, r, http.StatusUnprocessableEntity, err.Error())
}

// writeServiceError maps usecase and storage errors onto HTTP answers.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *validator.ValidationError

	switch {
	case errors.As(err, &validationErr):
		httputils.WriteError(w, r, http.StatusUnprocessableEntity, validationErr.Error())
	case errors.Is(err, err_storage.ErrAPIKeyNotFound):
		httputils.WriteError(w, r, http.StatusUnauthorized, msgInvalidAPIKey)
	case errors.Is(err, err_storage.ErrTeamMemberNotFound):
		httputils.WriteError(w, r, http.StatusNotFound, msgUserNotFound)
	case errors.Is(err, err_storage.ErrTeamNotFound):
		httputils.WriteError(w, r, http.StatusNotFound, msgTeamNotFound)
	case errors.Is(err, err_storage.ErrOrderNotFound):
		httputils.WriteError(w, r, http.StatusNotFound, msgOrderNotFound)
	case errors.Is(err, err_storage.ErrProductNotFound):
		httputils.WriteError(w, r, http.StatusNotFound, msgProductNotFound)
	case errors.Is(err, usecase.ErrInvalidStatusTransition),
		errors.Is(err, err_storage.ErrOrderStatusChanged):
		httputils.WriteError(w, r, http.StatusConflict, err.Error())
	case errors.Is(err, usecase.ErrEmptyOrderItems):
		httputils.WriteError(w, r, http.StatusUnprocessableEntity, usecase.ErrEmptyOrderItems.Error())
	default:
		zap.L().Error("unexpected error while processing order request", zap.Error(err))
		httputils.WriteError(w, r, http.StatusInternalServerError, msgInternal)
	}
}
