package model

import "encoding/json"

type CreateOrderRequest struct {
	Order *OrderPayload `json:"order"`
}

// OrderPayload is the raw order body. Pointers tell an absent field from an
// empty one.
type OrderPayload struct {
	Name           *string             `json:"nome"`
	Value          *json.RawMessage    `json:"valor"`
	Items          *[]OrderItemPayload `json:"orderItems"`
	Status         *string             `json:"status"`
	DeliveryPerson *string             `json:"entregador"`
	Street         *string             `json:"rua"`
	Number         *string             `json:"numero"`
	Complement     *string             `json:"complemento"`
	PostalCode     *string             `json:"cep"`
	City           *string             `json:"cidade"`
	State          *string             `json:"estado"`
	Phone          *string             `json:"tel"`
	PaymentMethod  *string             `json:"metodo_pag"`
	Instructions   *string             `json:"instrucoes"`
	CancelReason   *string             `json:"motivo_cancelamento"`
}

type OrderItemPayload struct {
	ProductID *string      `json:"productId"`
	Quantity  *json.RawMessage `json:"quantidade"`
}

type StatusUpdateRequest struct {
	Status       *string `json:"status"`
	CancelReason *string `json:"motivo_cancelamento"`
}

type OrdersResponse []OrderResponse

type OrderResponse struct {
	ID             string              `json:"id"`
	Name           string              `json:"nome"`
	Value          float64             `json:"valor"`
	Items          []OrderItemResponse `json:"orderItems"`
	Status         string              `json:"status"`
	DeliveryPerson string              `json:"entregador"`
	CancelReason   string              `json:"motivo_cancelamento,omitempty"`
	Street         string              `json:"rua"`
	Number         string              `json:"numero"`
	Complement     string              `json:"complemento"`
	PostalCode     string              `json:"cep"`
	City           string              `json:"cidade"`
	State          string              `json:"estado"`
	Phone          string              `json:"tel"`
	PaymentMethod  string              `json:"metodo_pag"`
	Instructions   string              `json:"instrucoes"`
	PlacedAt       string              `json:"horario"`
	CreatedBy      string              `json:"createdBy"`
	CreatedAt      string              `json:"createdAt"`
}

type OrderItemResponse struct {
	ID       string                   `json:"id"`
	Quantity int                      `json:"quantidade"`
	Product  InventoryProductResponse `json:"inventoryProduct"`
}

type InventoryProductResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type CreateOrderResponse struct {
	Data    OrderResponse `json:"data"`
	Message string        `json:"message"`
}
