package order

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avGenie/go-order-system/internal/app/entity"
	err_storage "github.com/avGenie/go-order-system/internal/app/storage/api/errors"
	usecase "github.com/avGenie/go-order-system/internal/app/usecase/errors"
	"github.com/avGenie/go-order-system/internal/app/usecase/order/mock"
)

const (
	teamID  entity.TeamID  = "team-a"
	userID  entity.UserID  = "ac2a4811-4f10-487f-bde3-e39a14af7cd8"
	orderID entity.OrderID = "pizza-hut-abcdefgh"
)

var testNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type mocks struct {
	storage   *mock.MockOrderStorage
	idgen     *mock.MockIDGenerator
	publisher *mock.MockEventPublisher
}

func newTestService(t *testing.T) (*Service, mocks) {
	ctrl := gomock.NewController(t)

	m := mocks{
		storage:   mock.NewMockOrderStorage(ctrl),
		idgen:     mock.NewMockIDGenerator(ctrl),
		publisher: mock.NewMockEventPublisher(ctrl),
	}

	s := New(m.storage, m.idgen, m.publisher)
	s.now = func() time.Time { return testNow }

	return s, m
}

func newOrder() entity.Order {
	return entity.Order{
		Name:  "Pedido",
		Value: decimal.RequireFromString("25.50"),
		Items: []entity.OrderItem{
			{ProductID: "product-a", Quantity: 2},
		},
		CreatedBy: userID,
	}
}

func TestCreate(t *testing.T) {
	team := entity.Team{ID: teamID, Name: "Pizza Hut"}

	type want struct {
		err      error
		attempts int
	}
	tests := []struct {
		name       string
		order      entity.Order
		teamErr    error
		createErrs []error
		publishErr error

		want want
	}{
		{
			name:       "new order",
			order:      newOrder(),
			createErrs: []error{nil},

			want: want{attempts: 1},
		},
		{
			name:       "id collision is regenerated",
			order:      newOrder(),
			createErrs: []error{err_storage.ErrOrderIDExists, nil},

			want: want{attempts: 2},
		},
		{
			name:  "id collision every attempt",
			order: newOrder(),
			createErrs: []error{
				err_storage.ErrOrderIDExists,
				err_storage.ErrOrderIDExists,
				err_storage.ErrOrderIDExists,
			},

			want: want{err: err_storage.ErrOrderIDExists, attempts: 3},
		},
		{
			name:       "storage error is not retried",
			order:      newOrder(),
			createErrs: []error{err_storage.ErrProductNotFound},

			want: want{err: err_storage.ErrProductNotFound, attempts: 1},
		},
		{
			name:       "publish error doesn't fail request",
			order:      newOrder(),
			createErrs: []error{nil},
			publishErr: errors.New("broker is down"),

			want: want{attempts: 1},
		},
		{
			name:    "unknown team",
			order:   newOrder(),
			teamErr: err_storage.ErrTeamNotFound,

			want: want{err: err_storage.ErrTeamNotFound},
		},
		{
			name: "empty items",
			order: func() entity.Order {
				o := newOrder()
				o.Items = nil
				return o
			}(),

			want: want{err: usecase.ErrEmptyOrderItems},
		},
		{
			name: "no creator",
			order: func() entity.Order {
				o := newOrder()
				o.CreatedBy = ""
				return o
			}(),

			want: want{err: usecase.ErrCreatorRequired},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			s, m := newTestService(t)

			m.storage.EXPECT().GetTeam(gomock.Any(), teamID).Return(team, test.teamErr)

			if test.want.attempts > 0 {
				m.idgen.EXPECT().Generate(team.Name).Return(orderID, nil).Times(test.want.attempts)
			}

			var calls []*gomock.Call
			for _, createErr := range test.createErrs {
				createErr := createErr
				call := m.storage.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, order entity.Order) (entity.Order, error) {
						assert.Equal(t, orderID, order.ID)
						assert.Equal(t, teamID, order.TeamID)
						assert.Equal(t, entity.StatusBacklog, order.Status)
						assert.Equal(t, userID, order.UserID)
						assert.Equal(t, testNow, order.PlacedAt)
						if createErr != nil {
							return entity.Order{}, createErr
						}
						return order, nil
					})
				calls = append(calls, call)
			}
			if len(calls) > 1 {
				gomock.InOrder(calls...)
			}

			if test.want.err == nil {
				m.publisher.EXPECT().Publish(gomock.Any(), entity.OrderEvent{
					Type:       entity.EventOrderCreated,
					OrderID:    orderID,
					TeamID:     teamID,
					Status:     entity.StatusBacklog,
					OccurredAt: testNow,
				}).Return(test.publishErr)
			}

			created, err := s.Create(context.Background(), test.order, teamID)
			if test.want.err != nil {
				assert.ErrorIs(t, err, test.want.err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, orderID, created.ID)
			assert.Equal(t, entity.StatusBacklog, created.Status)
		})
	}
}

func TestCreateByAPIKey(t *testing.T) {
	expired := testNow.Add(-time.Minute)
	future := testNow.Add(time.Hour)

	tests := []struct {
		name      string
		key       entity.APIKey
		keyErr    error
		memberErr error

		wantErr error
	}{
		{
			name: "valid key",
			key:  entity.APIKey{ID: "key-1", TeamID: teamID, ExpiresAt: &future},
		},
		{
			name:    "unknown key",
			keyErr:  err_storage.ErrAPIKeyNotFound,
			wantErr: err_storage.ErrAPIKeyNotFound,
		},
		{
			name:    "expired key",
			key:     entity.APIKey{ID: "key-1", TeamID: teamID, ExpiresAt: &expired},
			wantErr: err_storage.ErrAPIKeyNotFound,
		},
		{
			name:      "team without members",
			key:       entity.APIKey{ID: "key-1", TeamID: teamID},
			memberErr: err_storage.ErrTeamMemberNotFound,
			wantErr:   err_storage.ErrTeamMemberNotFound,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			s, m := newTestService(t)

			m.storage.EXPECT().GetAPIKey(gomock.Any(), HashAPIKey("plain-key")).Return(test.key, test.keyErr)

			if test.keyErr == nil && test.key.ExpiresAt != &expired {
				m.storage.EXPECT().GetTeamMember(gomock.Any(), teamID).
					Return(entity.Member{UserID: userID, TeamID: teamID}, test.memberErr)
			}

			if test.wantErr == nil {
				m.storage.EXPECT().GetTeam(gomock.Any(), teamID).Return(entity.Team{ID: teamID, Name: "Pizza Hut"}, nil)
				m.idgen.EXPECT().Generate("Pizza Hut").Return(orderID, nil)
				m.storage.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, order entity.Order) (entity.Order, error) {
						return order, nil
					})
				m.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)
			}

			order := newOrder()
			order.CreatedBy = ""

			created, err := s.CreateByAPIKey(context.Background(), order, "plain-key")
			if test.wantErr != nil {
				assert.ErrorIs(t, err, test.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, userID, created.CreatedBy)
			assert.Equal(t, teamID, created.TeamID)
		})
	}
}

func TestHashAPIKey(t *testing.T) {
	assert.Equal(t, "2c26b46b68ffc68ff99b453c1d30413413422d706483bfa0f98a5e886266e7ae", HashAPIKey("foo"))
}

func TestList(t *testing.T) {
	s, m := newTestService(t)
	ctx := context.Background()

	all := entity.Orders{{ID: "a", Status: entity.StatusBacklog}, {ID: "b", Status: entity.StatusDone}}

	m.storage.EXPECT().GetOrders(gomock.Any(), teamID, entity.BucketAll).Return(all, nil)
	m.storage.EXPECT().GetOrders(gomock.Any(), teamID, entity.BucketUnfinished).Return(all[:1], nil)
	m.storage.EXPECT().GetOrders(gomock.Any(), teamID, entity.BucketFinished).Return(all[1:], nil)

	got, err := s.List(ctx, teamID)
	require.NoError(t, err)
	assert.Equal(t, all, got)

	got, err = s.ListUnfinished(ctx, teamID)
	require.NoError(t, err)
	assert.Equal(t, all[:1], got)

	got, err = s.ListFinished(ctx, teamID)
	require.NoError(t, err)
	assert.Equal(t, all[1:], got)

	m.storage.EXPECT().GetOrder(gomock.Any(), orderID, entity.TeamID("team-b")).Return(entity.Order{}, err_storage.ErrOrderNotFound)
	_, err = s.GetOne(ctx, orderID, "team-b")
	assert.ErrorIs(t, err, err_storage.ErrOrderNotFound)
}

func TestUpdateStatus(t *testing.T) {
	type want struct {
		err     error
		updated bool
	}
	tests := []struct {
		name    string
		current entity.OrderStatus
		change  entity.StatusChange
		guard   error

		want want
	}{
		{
			name:    "start work",
			current: entity.StatusBacklog,
			change:  entity.StatusChange{Status: entity.StatusInProgress},
			want:    want{updated: true},
		},
		{
			name:    "deliver",
			current: entity.StatusOutForDelivery,
			change:  entity.StatusChange{Status: entity.StatusDone},
			want:    want{updated: true},
		},
		{
			name:    "cancel with reason",
			current: entity.StatusInProgress,
			change:  entity.StatusChange{Status: entity.StatusCancelled, CancelReason: "cliente desistiu"},
			want:    want{updated: true},
		},
		{
			name:    "same status",
			current: entity.StatusInProgress,
			change:  entity.StatusChange{Status: entity.StatusInProgress},
		},
		{
			name:    "skip steps",
			current: entity.StatusBacklog,
			change:  entity.StatusChange{Status: entity.StatusDone},
			want:    want{err: usecase.ErrInvalidStatusTransition},
		},
		{
			name:    "reopen finished order",
			current: entity.StatusDone,
			change:  entity.StatusChange{Status: entity.StatusBacklog},
			want:    want{err: usecase.ErrInvalidStatusTransition},
		},
		{
			name:    "cancel done order",
			current: entity.StatusDone,
			change:  entity.StatusChange{Status: entity.StatusCancelled},
			want:    want{err: usecase.ErrInvalidStatusTransition},
		},
		{
			name:    "concurrent change",
			current: entity.StatusBacklog,
			change:  entity.StatusChange{Status: entity.StatusInProgress},
			guard:   err_storage.ErrOrderStatusChanged,
			want:    want{err: err_storage.ErrOrderStatusChanged, updated: true},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			s, m := newTestService(t)

			current := entity.Order{ID: orderID, TeamID: teamID, Status: test.current}
			m.storage.EXPECT().GetOrder(gomock.Any(), orderID, teamID).Return(current, nil)

			if test.want.updated {
				m.storage.EXPECT().UpdateOrder(gomock.Any(), orderID, teamID, test.current, gomock.Any()).
					DoAndReturn(func(_ context.Context, _ entity.OrderID, _ entity.TeamID, _ entity.OrderStatus, patch entity.OrderPatch) (entity.Order, error) {
						require.NotNil(t, patch.Status)
						assert.Equal(t, test.change.Status, *patch.Status)
						if test.change.Status == entity.StatusCancelled {
							require.NotNil(t, patch.CancelReason)
							assert.Equal(t, test.change.CancelReason, *patch.CancelReason)
						} else {
							assert.Nil(t, patch.CancelReason)
						}
						if test.guard != nil {
							return entity.Order{}, test.guard
						}
						return entity.Order{ID: orderID, TeamID: teamID, Status: *patch.Status}, nil
					})
			}
			if test.want.updated && test.want.err == nil {
				m.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, event entity.OrderEvent) error {
						assert.Equal(t, entity.EventOrderStatusChanged, event.Type)
						assert.Equal(t, test.change.Status, event.Status)
						return nil
					})
			}

			got, err := s.UpdateStatus(context.Background(), orderID, teamID, test.change)
			if test.want.err != nil {
				assert.ErrorIs(t, err, test.want.err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, test.change.Status, got.Status)
		})
	}
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	name := "Novo nome"
	done := entity.StatusDone

	t.Run("partial update", func(t *testing.T) {
		s, m := newTestService(t)
		patch := entity.OrderPatch{Name: &name}

		m.storage.EXPECT().GetOrder(gomock.Any(), orderID, teamID).
			Return(entity.Order{ID: orderID, TeamID: teamID, Status: entity.StatusBacklog}, nil)
		m.storage.EXPECT().UpdateOrder(gomock.Any(), orderID, teamID, entity.StatusBacklog, patch).
			Return(entity.Order{ID: orderID, TeamID: teamID, Name: name, Status: entity.StatusBacklog}, nil)
		m.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

		got, err := s.Update(ctx, orderID, teamID, patch)
		require.NoError(t, err)
		assert.Equal(t, name, got.Name)
	})

	t.Run("status change publishes both events", func(t *testing.T) {
		s, m := newTestService(t)
		inProgress := entity.StatusInProgress
		patch := entity.OrderPatch{Status: &inProgress}

		m.storage.EXPECT().GetOrder(gomock.Any(), orderID, teamID).
			Return(entity.Order{ID: orderID, TeamID: teamID, Status: entity.StatusBacklog}, nil)
		m.storage.EXPECT().UpdateOrder(gomock.Any(), orderID, teamID, entity.StatusBacklog, patch).
			Return(entity.Order{ID: orderID, TeamID: teamID, Status: entity.StatusInProgress}, nil)
		gomock.InOrder(
			m.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, event entity.OrderEvent) error {
					assert.Equal(t, entity.EventOrderUpdated, event.Type)
					return nil
				}),
			m.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, event entity.OrderEvent) error {
					assert.Equal(t, entity.EventOrderStatusChanged, event.Type)
					return nil
				}),
		)

		_, err := s.Update(ctx, orderID, teamID, patch)
		require.NoError(t, err)
	})

	t.Run("illegal status", func(t *testing.T) {
		s, m := newTestService(t)

		m.storage.EXPECT().GetOrder(gomock.Any(), orderID, teamID).
			Return(entity.Order{ID: orderID, TeamID: teamID, Status: entity.StatusBacklog}, nil)

		_, err := s.Update(ctx, orderID, teamID, entity.OrderPatch{Status: &done})
		assert.ErrorIs(t, err, usecase.ErrInvalidStatusTransition)
	})

	t.Run("empty items", func(t *testing.T) {
		s, _ := newTestService(t)

		_, err := s.Update(ctx, orderID, teamID, entity.OrderPatch{Items: []entity.OrderItem{}})
		assert.ErrorIs(t, err, usecase.ErrEmptyOrderItems)
	})

	t.Run("order of another team", func(t *testing.T) {
		s, m := newTestService(t)

		m.storage.EXPECT().GetOrder(gomock.Any(), orderID, entity.TeamID("team-b")).
			Return(entity.Order{}, err_storage.ErrOrderNotFound)

		_, err := s.Update(ctx, orderID, "team-b", entity.OrderPatch{Name: &name})
		assert.ErrorIs(t, err, err_storage.ErrOrderNotFound)
	})
}

func TestDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("existing order", func(t *testing.T) {
		s, m := newTestService(t)

		m.storage.EXPECT().DeleteOrder(gomock.Any(), orderID, teamID).Return(nil)
		m.publisher.EXPECT().Publish(gomock.Any(), entity.OrderEvent{
			Type:       entity.EventOrderDeleted,
			OrderID:    orderID,
			TeamID:     teamID,
			OccurredAt: testNow,
		}).Return(nil)

		require.NoError(t, s.Delete(ctx, orderID, teamID))
	})

	t.Run("missing order", func(t *testing.T) {
		s, m := newTestService(t)

		m.storage.EXPECT().DeleteOrder(gomock.Any(), orderID, teamID).Return(err_storage.ErrOrderNotFound)

		assert.ErrorIs(t, s.Delete(ctx, orderID, teamID), err_storage.ErrOrderNotFound)
	})
}
