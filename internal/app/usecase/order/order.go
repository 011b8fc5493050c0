package order

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"

	"github.com/avGenie/go-order-system/internal/app/entity"
	err_storage "github.com/avGenie/go-order-system/internal/app/storage/api/errors"
	usecase "github.com/avGenie/go-order-system/internal/app/usecase/errors"
)

//go:generate mockgen -destination=mock/order.go -package=mock . OrderStorage,IDGenerator,EventPublisher

const (
	maxIDAttempts = 3
	idRetryDelay  = time.Millisecond
)

type OrderStorage interface {
	GetTeam(ctx context.Context, teamID entity.TeamID) (entity.Team, error)
	GetTeamMember(ctx context.Context, teamID entity.TeamID) (entity.Member, error)
	GetAPIKey(ctx context.Context, hashedKey string) (entity.APIKey, error)

	CreateOrder(ctx context.Context, order entity.Order) (entity.Order, error)
	GetOrders(ctx context.Context, teamID entity.TeamID, bucket entity.StatusBucket) (entity.Orders, error)
	GetOrder(ctx context.Context, orderID entity.OrderID, teamID entity.TeamID) (entity.Order, error)
	UpdateOrder(ctx context.Context, orderID entity.OrderID, teamID entity.TeamID, expected entity.OrderStatus, patch entity.OrderPatch) (entity.Order, error)
	DeleteOrder(ctx context.Context, orderID entity.OrderID, teamID entity.TeamID) error
}

type IDGenerator interface {
	Generate(teamName string) (entity.OrderID, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event entity.OrderEvent) error
}

type Service struct {
	storage   OrderStorage
	idgen     IDGenerator
	publisher EventPublisher

	now func() time.Time
}

func New(storage OrderStorage, idgen IDGenerator, publisher EventPublisher) *Service {
	return &Service{
		storage:   storage,
		idgen:     idgen,
		publisher: publisher,
		now:       time.Now,
	}
}

// HashAPIKey returns the form api keys are stored in.
func HashAPIKey(apiKey string) string {
	sum := sha256.Sum256([]byte(apiKey))
	return hex.EncodeToString(sum[:])
}

func (s *Service) ResolveAPIKey(ctx context.Context, apiKey string) (entity.APIKey, error) {
	key, err := s.storage.GetAPIKey(ctx, HashAPIKey(apiKey))
	if err != nil {
		return entity.APIKey{}, fmt.Errorf("error while resolving api key: %w", err)
	}

	if key.Expired(s.now()) {
		return entity.APIKey{}, fmt.Errorf("api key %s is expired: %w", key.ID, err_storage.ErrAPIKeyNotFound)
	}

	return key, nil
}

// TeamCreator returns the member orders created through an api key are attributed to.
func (s *Service) TeamCreator(ctx context.Context, teamID entity.TeamID) (entity.UserID, error) {
	member, err := s.storage.GetTeamMember(ctx, teamID)
	if err != nil {
		return "", fmt.Errorf("error while getting team creator: %w", err)
	}

	return member.UserID, nil
}

func (s *Service) CreateByAPIKey(ctx context.Context, order entity.Order, apiKey string) (entity.Order, error) {
	key, err := s.ResolveAPIKey(ctx, apiKey)
	if err != nil {
		return entity.Order{}, err
	}

	creator, err := s.TeamCreator(ctx, key.TeamID)
	if err != nil {
		return entity.Order{}, err
	}

	order.CreatedBy = creator
	order.UserID = creator

	return s.Create(ctx, order, key.TeamID)
}

// Create stores a new order for the team, regenerating the id when it collides.
func (s *Service) Create(ctx context.Context, order entity.Order, teamID entity.TeamID) (entity.Order, error) {
	team, err := s.storage.GetTeam(ctx, teamID)
	if err != nil {
		return entity.Order{}, fmt.Errorf("error while getting team for order: %w", err)
	}

	if !order.CreatedBy.Valid() {
		return entity.Order{}, usecase.ErrCreatorRequired
	}
	if len(order.Items) == 0 {
		return entity.Order{}, usecase.ErrEmptyOrderItems
	}

	if len(order.Status) == 0 {
		order.Status = entity.StatusBacklog
	}
	if !order.UserID.Valid() {
		order.UserID = order.CreatedBy
	}

	now := s.now().UTC()
	if order.PlacedAt.IsZero() {
		order.PlacedAt = now
	}
	order.CreatedAt = now
	order.TeamID = team.ID

	var created entity.Order
	backoff := retry.WithMaxRetries(maxIDAttempts-1, retry.NewConstant(idRetryDelay))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		id, err := s.idgen.Generate(team.Name)
		if err != nil {
			return fmt.Errorf("error while generating order id: %w", err)
		}
		order.ID = id

		created, err = s.storage.CreateOrder(ctx, order)
		if errors.Is(err, err_storage.ErrOrderIDExists) {
			zap.L().Warn("generated order id already exists", zap.String("order_id", id.String()))
			return retry.RetryableError(err)
		}

		return err
	})
	if err != nil {
		return entity.Order{}, fmt.Errorf("error while creating order: %w", err)
	}

	s.publish(ctx, entity.EventOrderCreated, created)

	return created, nil
}

func (s *Service) List(ctx context.Context, teamID entity.TeamID) (entity.Orders, error) {
	return s.list(ctx, teamID, entity.BucketAll)
}

func (s *Service) ListUnfinished(ctx context.Context, teamID entity.TeamID) (entity.Orders, error) {
	return s.list(ctx, teamID, entity.BucketUnfinished)
}

func (s *Service) ListFinished(ctx context.Context, teamID entity.TeamID) (entity.Orders, error) {
	return s.list(ctx, teamID, entity.BucketFinished)
}

func (s *Service) list(ctx context.Context, teamID entity.TeamID, bucket entity.StatusBucket) (entity.Orders, error) {
	orders, err := s.storage.GetOrders(ctx, teamID, bucket)
	if err != nil {
		return nil, fmt.Errorf("error while getting team orders: %w", err)
	}

	return orders, nil
}

func (s *Service) GetOne(ctx context.Context, orderID entity.OrderID, teamID entity.TeamID) (entity.Order, error) {
	order, err := s.storage.GetOrder(ctx, orderID, teamID)
	if err != nil {
		return entity.Order{}, fmt.Errorf("error while getting order: %w", err)
	}

	return order, nil
}

func (s *Service) UpdateStatus(ctx context.Context, orderID entity.OrderID, teamID entity.TeamID, change entity.StatusChange) (entity.Order, error) {
	current, err := s.GetOne(ctx, orderID, teamID)
	if err != nil {
		return entity.Order{}, err
	}

	err = checkTransition(current.Status, change.Status)
	if err != nil {
		return entity.Order{}, err
	}

	if current.Status == change.Status {
		return current, nil
	}

	patch := entity.OrderPatch{
		Status: &change.Status,
	}
	if change.Status == entity.StatusCancelled {
		reason := change.CancelReason
		patch.CancelReason = &reason
	}

	updated, err := s.storage.UpdateOrder(ctx, orderID, teamID, current.Status, patch)
	if err != nil {
		return entity.Order{}, fmt.Errorf("error while updating order status: %w", err)
	}

	s.publish(ctx, entity.EventOrderStatusChanged, updated)

	return updated, nil
}

func (s *Service) Update(ctx context.Context, orderID entity.OrderID, teamID entity.TeamID, patch entity.OrderPatch) (entity.Order, error) {
	if patch.Items != nil && len(patch.Items) == 0 {
		return entity.Order{}, usecase.ErrEmptyOrderItems
	}

	current, err := s.GetOne(ctx, orderID, teamID)
	if err != nil {
		return entity.Order{}, err
	}

	if patch.Status != nil {
		err = checkTransition(current.Status, *patch.Status)
		if err != nil {
			return entity.Order{}, err
		}
	}

	updated, err := s.storage.UpdateOrder(ctx, orderID, teamID, current.Status, patch)
	if err != nil {
		return entity.Order{}, fmt.Errorf("error while updating order: %w", err)
	}

	s.publish(ctx, entity.EventOrderUpdated, updated)
	if updated.Status != current.Status {
		s.publish(ctx, entity.EventOrderStatusChanged, updated)
	}

	return updated, nil
}

func (s *Service) Delete(ctx context.Context, orderID entity.OrderID, teamID entity.TeamID) error {
	err := s.storage.DeleteOrder(ctx, orderID, teamID)
	if err != nil {
		return fmt.Errorf("error while deleting order: %w", err)
	}

	s.publish(ctx, entity.EventOrderDeleted, entity.Order{ID: orderID, TeamID: teamID})

	return nil
}

func checkTransition(from, to entity.OrderStatus) error {
	if !from.CanTransitionTo(to) {
		return fmt.Errorf("%s -> %s: %w", from, to, usecase.ErrInvalidStatusTransition)
	}

	return nil
}

// publish never fails the request, events are best effort.
func (s *Service) publish(ctx context.Context, eventType entity.OrderEventType, order entity.Order) {
	event := entity.OrderEvent{
		Type:       eventType,
		OrderID:    order.ID,
		TeamID:     order.TeamID,
		Status:     order.Status,
		OccurredAt: s.now().UTC(),
	}

	err := s.publisher.Publish(ctx, event)
	if err != nil {
		zap.L().Error("error while publishing order event",
			zap.String("type", string(eventType)),
			zap.String("order_id", order.ID.String()),
			zap.Error(err),
		)
	}
}
