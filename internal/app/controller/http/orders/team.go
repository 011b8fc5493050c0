package orders

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"go.uber.org/zap"

	httputils "github.com/avGenie/go-order-system/internal/app/controller/http/utils"
	"github.com/avGenie/go-order-system/internal/app/converter"
	"github.com/avGenie/go-order-system/internal/app/entity"
	"github.com/avGenie/go-order-system/internal/app/model"
	"github.com/avGenie/go-order-system/internal/app/validator"
)

const (
	TeamIDParam  = "teamID"
	OrderIDParam = "orderID"

	statusQuery      = "status"
	bucketUnfinished = "unfinished"
	bucketFinished   = "finished"
)

func (p *Order) GetTeamOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		member, err := p.parseMember(w, r)
		if err != nil {
			zap.L().Error("error while parsing member while getting team orders", zap.Error(err))
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), httputils.RequestTimeout)
		defer cancel()

		var orders entity.Orders
		switch bucket := r.URL.Query().Get(statusQuery); bucket {
		case "":
			orders, err = p.service.List(ctx, member.TeamID)
		case bucketUnfinished:
			orders, err = p.service.ListUnfinished(ctx, member.TeamID)
		case bucketFinished:
			orders, err = p.service.ListFinished(ctx, member.TeamID)
		default:
			httputils.WriteError(w, r, http.StatusBadRequest, fmt.Sprintf("unknown status filter %q", bucket))
			return
		}
		if err != nil {
			zap.L().Error("error while getting team orders", zap.Error(err), zap.String("team_id", member.TeamID.String()))
			writeServiceError(w, r, err)
			return
		}

		render.JSON(w, r, converter.ConvertOrdersToResponse(orders))
	}
}

func (p *Order) CreateTeamOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		member, err := p.parseMember(w, r)
		if err != nil {
			zap.L().Error("error while parsing member while creating order", zap.Error(err))
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

		order.CreatedBy = member.UserID
		order.UserID = member.UserID

		ctx, cancel := context.WithTimeout(r.Context(), httputils.RequestTimeout)
		defer cancel()

		created, err := p.service.Create(ctx, order, member.TeamID)
		if err != nil {
			zap.L().Error("error while creating team order", zap.Error(err))
			writeServiceError(w, r, err)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, model.CreateOrderResponse{
			Data:    converter.ConvertOrderToResponse(created),
			Message: msgOrderCreated,
		})
	}
}

func (p *Order) GetTeamOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		member, err := p.parseMember(w, r)
		if err != nil {
			zap.L().Error("error while parsing member while getting order", zap.Error(err))
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), httputils.RequestTimeout)
		defer cancel()

		order, err := p.service.GetOne(ctx, orderIDFromRequest(r), member.TeamID)
		if err != nil {
			zap.L().Info("error while getting order", zap.Error(err))
			writeServiceError(w, r, err)
			return
		}

		render.JSON(w, r, converter.ConvertOrderToResponse(order))
	}
}

func (p *Order) UpdateTeamOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		member, err := p.parseMember(w, r)
		if err != nil {
			zap.L().Error("error while parsing member while updating order", zap.Error(err))
			return
		}

		var payload model.OrderPayload
		err = render.DecodeJSON(r.Body, &payload)
		if err != nil {
			zap.L().Info("bad order update request", zap.Error(err))
			httputils.WriteError(w, r, http.StatusBadRequest, msgInvalidBody)
			return
		}

		patch, err := validator.ValidateUpdate(payload)
		if err != nil {
			zap.L().Info("order update validation failed", zap.Error(err))
			writeValidationError(w, r, err)
			return
		}

		if patch.PostalCode != nil {
			err = p.resolvePatchAddress(w, r, &patch)
			if err != nil {
				zap.L().Error("error while enriching order address", zap.Error(err), zap.String("cep", *patch.PostalCode))
				return
			}
		}

		ctx, cancel := context.WithTimeout(r.Context(), httputils.RequestTimeout)
		defer cancel()

		updated, err := p.service.Update(ctx, orderIDFromRequest(r), member.TeamID, patch)
		if err != nil {
			zap.L().Info("error while updating order", zap.Error(err))
			writeServiceError(w, r, err)
			return
		}

		render.JSON(w, r, converter.ConvertOrderToResponse(updated))
	}
}

func (p *Order) UpdateTeamOrderStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		member, err := p.parseMember(w, r)
		if err != nil {
			zap.L().Error("error while parsing member while updating order status", zap.Error(err))
			return
		}

		var request model.StatusUpdateRequest
		err = render.DecodeJSON(r.Body, &request)
		if err != nil {
			zap.L().Info("bad status update request", zap.Error(err))
			httputils.WriteError(w, r, http.StatusBadRequest, msgInvalidBody)
			return
		}

		change, err := validator.ValidateStatusChange(request)
		if err != nil {
			writeValidationError(w, r, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), httputils.RequestTimeout)
		defer cancel()

		updated, err := p.service.UpdateStatus(ctx, orderIDFromRequest(r), member.TeamID, change)
		if err != nil {
			zap.L().Info("error while updating order status", zap.Error(err))
			writeServiceError(w, r, err)
			return
		}

		render.JSON(w, r, converter.ConvertOrderToResponse(updated))
	}
}

func (p *Order) DeleteTeamOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		member, err := p.parseMember(w, r)
		if err != nil {
			zap.L().Error("error while parsing member while deleting order", zap.Error(err))
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), httputils.RequestTimeout)
		defer cancel()

		err = p.service.Delete(ctx, orderIDFromRequest(r), member.TeamID)
		if err != nil {
			zap.L().Info("error while deleting order", zap.Error(err))
			writeServiceError(w, r, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// parseMember checks the bearer token result and that it belongs to the
// team in the path. Another team's path looks like a missing team.
func (p *Order) parseMember(w http.ResponseWriter, r *http.Request) (entity.Member, error) {
	memberCtx, err := httputils.GetMemberFromContext(r)
	if err != nil {
		httputils.WriteError(w, r, http.StatusInternalServerError, msgInternal)
		return entity.Member{}, err
	}

	if memberCtx.StatusCode != http.StatusOK {
		httputils.WriteError(w, r, memberCtx.StatusCode, msgInvalidAuth)
		return entity.Member{}, fmt.Errorf("member is not authorized, status %d", memberCtx.StatusCode)
	}

	teamID := entity.TeamID(chi.URLParam(r, TeamIDParam))
	if teamID != memberCtx.Member.TeamID {
		httputils.WriteError(w, r, http.StatusNotFound, msgTeamNotFound)
		return entity.Member{}, fmt.Errorf("member of team %s requested team %s", memberCtx.Member.TeamID, teamID)
	}

	return memberCtx.Member, nil
}

// resolvePatchAddress fills address fields the patch leaves unset after a postal code change.
func (p *Order) resolvePatchAddress(w http.ResponseWriter, r *http.Request, patch *entity.OrderPatch) error {
	address := entity.Address{PostalCode: *patch.PostalCode}
	err := p.resolveAddress(w, r, &address)
	if err != nil {
		return err
	}

	if patch.Street == nil && len(address.Street) != 0 {
		patch.Street = &address.Street
	}
	if patch.City == nil && len(address.City) != 0 {
		patch.City = &address.City
	}
	if patch.State == nil && len(address.State) != 0 {
		patch.State = &address.State
	}

	return nil
}

func orderIDFromRequest(r *http.Request) entity.OrderID {
	return entity.OrderID(chi.URLParam(r, OrderIDParam))
}
