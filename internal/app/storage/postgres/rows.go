package storage

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/avGenie/go-order-system/internal/app/entity"
)

type teamRow struct {
	ID        string    `gorm:"column:id;primaryKey"`
	Name      string    `gorm:"column:name"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (teamRow) TableName() string {
	return "teams"
}

type teamMemberRow struct {
	ID        string    `gorm:"column:id;primaryKey"`
	TeamID    string    `gorm:"column:team_id"`
	UserID    string    `gorm:"column:user_id"`
	Role      string    `gorm:"column:role"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (teamMemberRow) TableName() string {
	return "team_members"
}

type apiKeyRow struct {
	ID         string     `gorm:"column:id;primaryKey"`
	Name       string     `gorm:"column:name"`
	HashedKey  string     `gorm:"column:hashed_key"`
	TeamID     string     `gorm:"column:team_id"`
	ExpiresAt  *time.Time `gorm:"column:expires_at"`
	LastUsedAt *time.Time `gorm:"column:last_used_at"`
	CreatedAt  time.Time  `gorm:"column:created_at"`
}

func (apiKeyRow) TableName() string {
	return "api_keys"
}

type inventoryProductRow struct {
	ID        string    `gorm:"column:id;primaryKey"`
	TeamID    string    `gorm:"column:team_id"`
	Name      string    `gorm:"column:name"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (inventoryProductRow) TableName() string {
	return "inventory_products"
}

type orderRow struct {
	ID        string `gorm:"column:id;primaryKey"`
	TeamID    string `gorm:"column:team_id"`
	UserID    string `gorm:"column:user_id"`
	CreatedBy string `gorm:"column:created_by"`

	Name           string          `gorm:"column:nome"`
	Value          decimal.Decimal `gorm:"column:valor;type:numeric(12,2)"`
	Status         string          `gorm:"column:status"`
	PlacedAt       time.Time       `gorm:"column:horario"`
	DeliveryPerson string          `gorm:"column:entregador"`
	Street         string          `gorm:"column:rua"`
	Number         string          `gorm:"column:numero"`
	Complement     string          `gorm:"column:complemento"`
	PostalCode     string          `gorm:"column:cep"`
	City           string          `gorm:"column:cidade"`
	State          string          `gorm:"column:estado"`
	Phone          string          `gorm:"column:tel"`
	PaymentMethod  string          `gorm:"column:metodo_pag"`
	Instructions   string          `gorm:"column:instrucoes"`
	CancelReason   string          `gorm:"column:motivo_cancelamento"`

	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`

	Items []orderItemRow `gorm:"foreignKey:OrderID;references:ID"`
}

func (orderRow) TableName() string {
	return "orders"
}

type orderItemRow struct {
	ID        string `gorm:"column:id;primaryKey"`
	OrderID   string `gorm:"column:order_id"`
	ProductID string `gorm:"column:inventory_product_id"`
	Quantity  int    `gorm:"column:quantidade"`
	Position  int    `gorm:"column:position"`

	Product inventoryProductRow `gorm:"foreignKey:ProductID;references:ID"`
}

func (orderItemRow) TableName() string {
	return "order_items"
}

func newOrderRow(order entity.Order) orderRow {
	return orderRow{
		ID:             order.ID.String(),
		TeamID:         order.TeamID.String(),
		UserID:         order.UserID.String(),
		CreatedBy:      order.CreatedBy.String(),
		Name:           order.Name,
		Value:          order.Value,
		Status:         order.Status.String(),
		PlacedAt:       order.PlacedAt,
		DeliveryPerson: order.DeliveryPerson,
		Street:         order.Street,
		Number:         order.Number,
		Complement:     order.Complement,
		PostalCode:     order.PostalCode,
		City:           order.City,
		State:          order.State,
		Phone:          order.Phone,
		PaymentMethod:  order.PaymentMethod,
		Instructions:   order.Instructions,
		CancelReason:   order.CancelReason,
		CreatedAt:      order.CreatedAt,
		UpdatedAt:      order.UpdatedAt,
	}
}

func newOrderItemRows(orderID entity.OrderID, items []entity.OrderItem) []orderItemRow {
	rows := make([]orderItemRow, 0, len(items))
	for i, item := range items {
		rows = append(rows, orderItemRow{
			ID:        item.ID,
			OrderID:   orderID.String(),
			ProductID: string(item.ProductID),
			Quantity:  item.Quantity,
			Position:  i,
		})
	}

	return rows
}

func (r orderRow) toEntity() entity.Order {
	items := make([]entity.OrderItem, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, entity.OrderItem{
			ID:          item.ID,
			ProductID:   entity.ProductID(item.ProductID),
			ProductName: item.Product.Name,
			Quantity:    item.Quantity,
		})
	}

	return entity.Order{
		ID:             entity.OrderID(r.ID),
		Name:           r.Name,
		Value:          r.Value,
		Items:          items,
		Status:         entity.OrderStatus(r.Status),
		PlacedAt:       r.PlacedAt,
		DeliveryPerson: r.DeliveryPerson,
		Address: entity.Address{
			Street:     r.Street,
			Number:     r.Number,
			Complement: r.Complement,
			PostalCode: r.PostalCode,
			City:       r.City,
			State:      r.State,
		},
		Phone:         r.Phone,
		PaymentMethod: r.PaymentMethod,
		Instructions:  r.Instructions,
		CancelReason:  r.CancelReason,
		TeamID:        entity.TeamID(r.TeamID),
		UserID:        entity.UserID(r.UserID),
		CreatedBy:     entity.UserID(r.CreatedBy),
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

// patchColumns maps the set fields of a patch onto order columns.
func patchColumns(patch entity.OrderPatch) map[string]any {
	columns := make(map[string]any)

	setString := func(column string, value *string) {
		if value != nil {
			columns[column] = *value
		}
	}

	setString("nome", patch.Name)
	setString("entregador", patch.DeliveryPerson)
	setString("rua", patch.Street)
	setString("numero", patch.Number)
	setString("complemento", patch.Complement)
	setString("cep", patch.PostalCode)
	setString("cidade", patch.City)
	setString("estado", patch.State)
	setString("tel", patch.Phone)
	setString("metodo_pag", patch.PaymentMethod)
	setString("instrucoes", patch.Instructions)
	setString("motivo_cancelamento", patch.CancelReason)

	if patch.Value != nil {
		columns["valor"] = *patch.Value
	}
	if patch.Status != nil {
		columns["status"] = patch.Status.String()
	}

	return columns
}
