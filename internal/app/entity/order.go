package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderID string

func (id OrderID) String() string {
	return string(id)
}

type ProductID string

type Orders []Order

type Order struct {
	ID     OrderID
	Name   string
	Value  decimal.Decimal
	Items  []OrderItem
	Status OrderStatus

	PlacedAt       time.Time
	DeliveryPerson string
	Address
	Phone         string
	PaymentMethod string
	Instructions  string
	CancelReason  string

	TeamID    TeamID
	UserID    UserID
	CreatedBy UserID

	CreatedAt time.Time
	UpdatedAt time.Time
}

type OrderItem struct {
	ID          string
	ProductID   ProductID
	ProductName string
	Quantity    int
}

// Address holds the delivery location. Street, City and State come from the
// postal code lookup on creation.
type Address struct {
	Street     string
	Number     string
	Complement string
	PostalCode string
	City       string
	State      string
}

// OrderPatch is a partial order update, nil fields stay untouched.
type OrderPatch struct {
	Name           *string
	Value          *decimal.Decimal
	Items          []OrderItem
	Status         *OrderStatus
	DeliveryPerson *string
	Street         *string
	Number         *string
	Complement     *string
	PostalCode     *string
	City           *string
	State          *string
	Phone          *string
	PaymentMethod  *string
	Instructions   *string
	CancelReason   *string
}

func (p OrderPatch) Empty() bool {
	return p.Name == nil && p.Value == nil && p.Items == nil && p.Status == nil &&
		p.DeliveryPerson == nil && p.Street == nil && p.Number == nil &&
		p.Complement == nil && p.PostalCode == nil && p.City == nil &&
		p.State == nil && p.Phone == nil && p.PaymentMethod == nil &&
		p.Instructions == nil && p.CancelReason == nil
}

type StatusChange struct {
	Status       OrderStatus
	CancelReason string
}
