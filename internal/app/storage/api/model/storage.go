package model

import (
	"context"

	"github.com/avGenie/go-order-system/internal/app/entity"
)

type Storage interface {
	Close() error
	Ping(ctx context.Context) error

	GetTeam(ctx context.Context, teamID entity.TeamID) (entity.Team, error)
	GetTeamMember(ctx context.Context, teamID entity.TeamID) (entity.Member, error)
	GetAPIKey(ctx context.Context, hashedKey string) (entity.APIKey, error)

	CreateOrder(ctx context.Context, order entity.Order) (entity.Order, error)
	GetOrders(ctx context.Context, teamID entity.TeamID, bucket entity.StatusBucket) (entity.Orders, error)
	GetOrder(ctx context.Context, orderID entity.OrderID, teamID entity.TeamID) (entity.Order, error)
	UpdateOrder(ctx context.Context, orderID entity.OrderID, teamID entity.TeamID, expected entity.OrderStatus, patch entity.OrderPatch) (entity.Order, error)
	DeleteOrder(ctx context.Context, orderID entity.OrderID, teamID entity.TeamID) error
}
