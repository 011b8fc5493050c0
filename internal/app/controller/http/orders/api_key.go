package orders

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/render"
	"go.uber.org/zap"

	httputils "github.com/avGenie/go-order-system/internal/app/controller/http/utils"
	"github.com/avGenie/go-order-system/internal/app/converter"
	"github.com/avGenie/go-order-system/internal/app/model"
	"github.com/avGenie/go-order-system/internal/app/validator"
)

func (p *Order) GetOrdersByAPIKey() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		apiKey, err := p.parseAPIKey(w, r)
		if err != nil {
			zap.L().Error("error while parsing api key while getting orders", zap.Error(err))
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), httputils.RequestTimeout)
		defer cancel()

		key, err := p.service.ResolveAPIKey(ctx, apiKey)
		if err != nil {
			zap.L().Info("api key is rejected while getting orders", zap.Error(err))
			writeServiceError(w, r, err)
			return
		}

		orders, err := p.service.List(ctx, key.TeamID)
		if err != nil {
			zap.L().Error("error while getting team orders", zap.Error(err), zap.String("team_id", key.TeamID.String()))
			writeServiceError(w, r, err)
			return
		}

		render.JSON(w, r, converter.ConvertOrdersToResponse(orders))
	}
}

func (p *Order) CreateOrderByAPIKey() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		apiKey, err := p.parseAPIKey(w, r)
		if err != nil {
			zap.L().Error("error while parsing api key while creating order", zap.Error(err))
			return
		}

		payload, err := decodeOrderRequest(w, r)
		if err != nil {
			zap.L().Info("bad order request", zap.Error(err))
			return
		}

		order, err := validator.ValidateCreate(payload)
		if err != nil {
			zap.L().Info("order validation failed", zap.Error(err))
			writeValidationError(w, r, err)
			return
		}

		err = p.resolveAddress(w, r, &order.Address)
		if err != nil {
			zap.L().Error("error while enriching order address", zap.Error(err), zap.String("cep", order.PostalCode))
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), httputils.RequestTimeout)
		defer cancel()

		created, err := p.service.CreateByAPIKey(ctx, order, apiKey)
		if err != nil {
			zap.L().Error("error while creating order by api key", zap.Error(err))
			writeServiceError(w, r, err)
			return
		}

		render.JSON(w, r, model.CreateOrderResponse{
			Data:    converter.ConvertOrderToResponse(created),
			Message: msgOrderCreated,
		})
	}
}

func (p *Order) parseAPIKey(w http.ResponseWriter, r *http.Request) (string, error) {
	keyCtx, err := httputils.GetAPIKeyFromContext(r)
	if err != nil {
		httputils.WriteError(w, r, http.StatusInternalServerError, msgInternal)
		return "", err
	}

	if keyCtx.StatusCode != http.StatusOK {
		httputils.WriteError(w, r, keyCtx.StatusCode, msgAPIKeyRequired)
		return "", fmt.Errorf("api key is invalid, status %d", keyCtx.StatusCode)
	}

	return keyCtx.Key, nil
}
