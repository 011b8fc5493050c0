package converter

import (
	"time"

	"github.com/golang-module/carbon/v2"

	"github.com/avGenie/go-order-system/internal/app/entity"
	"github.com/avGenie/go-order-system/internal/app/model"
)

func ConvertOrdersToResponse(orders entity.Orders) model.OrdersResponse {
	response := make(model.OrdersResponse, 0, len(orders))
	for _, order := range orders {
		response = append(response, ConvertOrderToResponse(order))
	}

	return response
}

// ConvertOrderToResponse projects the public order fields, team and user
// linkage never leave the service.
func ConvertOrderToResponse(order entity.Order) model.OrderResponse {
	items := make([]model.OrderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, model.OrderItemResponse{
			ID:       item.ID,
			Quantity: item.Quantity,
			Product: model.InventoryProductResponse{
				ID:   string(item.ProductID),
				Name: item.ProductName,
			},
		})
	}

	return model.OrderResponse{
		ID:             order.ID.String(),
		Name:           order.Name,
		Value:          order.Value.InexactFloat64(),
		Items:          items,
		Status:         order.Status.String(),
		DeliveryPerson: order.DeliveryPerson,
		CancelReason:   order.CancelReason,
		Street:         order.Street,
		Number:         order.Number,
		Complement:     order.Complement,
		PostalCode:     order.PostalCode,
		City:           order.City,
		State:          order.State,
		Phone:          order.Phone,
		PaymentMethod:  order.PaymentMethod,
		Instructions:   order.Instructions,
		PlacedAt:       formatTime(order.PlacedAt),
		CreatedBy:      order.CreatedBy.String(),
		CreatedAt:      formatTime(order.CreatedAt),
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return carbon.CreateFromStdTime(t.UTC(), carbon.UTC).ToRfc3339String()
}
