package storage

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"

	"github.com/avGenie/go-order-system/internal/app/entity"
	storageErrors "github.com/avGenie/go-order-system/internal/app/storage/api/errors"
)

const (
	teamA entity.TeamID = "team-a"
	teamB entity.TeamID = "team-b"

	productA entity.ProductID = "product-a"
	productB entity.ProductID = "product-b"

	userA entity.UserID = "user-a"
)

func newTestStorage(t *testing.T) *Postgres {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	s, err := New(context.Background(), sqlite.Open(dsn), goose.DialectSQLite3)
	require.NoError(t, err)
	s.sqlDB.SetMaxOpenConns(1)

	t.Cleanup(func() {
		s.Close()
	})

	now := time.Now().UTC()
	seed := []any{
		&teamRow{ID: teamA.String(), Name: "Pizza Hut", CreatedAt: now},
		&teamRow{ID: teamB.String(), Name: "Burger Place", CreatedAt: now},
		&teamMemberRow{ID: "member-2", TeamID: teamA.String(), UserID: "user-late", Role: "MEMBER", CreatedAt: now.Add(time.Minute)},
		&teamMemberRow{ID: "member-1", TeamID: teamA.String(), UserID: userA.String(), Role: "OWNER", CreatedAt: now},
		&inventoryProductRow{ID: string(productA), TeamID: teamA.String(), Name: "Pizza", CreatedAt: now},
		&inventoryProductRow{ID: string(productB), TeamID: teamB.String(), Name: "Burger", CreatedAt: now},
		&apiKeyRow{ID: "key-1", Name: "default", HashedKey: "hashed", TeamID: teamA.String(), CreatedAt: now},
	}
	for _, row := range seed {
		require.NoError(t, s.db.Create(row).Error)
	}

	return s
}

func testOrder(id entity.OrderID, teamID entity.TeamID, status entity.OrderStatus, product entity.ProductID) entity.Order {
	return entity.Order{
		ID:     id,
		Name:   "Pedido",
		Value:  decimal.RequireFromString("25.50"),
		Status: status,
		Items: []entity.OrderItem{
			{ProductID: product, Quantity: 2},
		},
		PlacedAt:       time.Now().UTC(),
		DeliveryPerson: "Joao",
		Address: entity.Address{
			Street:     "Praça da Sé",
			Number:     "10",
			Complement: "apto 1",
			PostalCode: "01001000",
			City:       "São Paulo",
			State:      "SP",
		},
		Phone:         "11987654321",
		PaymentMethod: "PIX",
		Instructions:  "ring twice",
		TeamID:        teamID,
		UserID:        userA,
		CreatedBy:     userA,
	}
}

func TestCreateAndGetOrder(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	created, err := s.CreateOrder(ctx, testOrder("pizza-hut-abcdefgh", teamA, entity.StatusBacklog, productA))
	require.NoError(t, err)

	assert.Equal(t, entity.OrderID("pizza-hut-abcdefgh"), created.ID)
	assert.Equal(t, entity.StatusBacklog, created.Status)
	assert.True(t, decimal.RequireFromString("25.5").Equal(created.Value))
	require.Len(t, created.Items, 1)
	assert.NotEmpty(t, created.Items[0].ID)
	assert.Equal(t, "Pizza", created.Items[0].ProductName)
	assert.Equal(t, 2, created.Items[0].Quantity)

	got, err := s.GetOrder(ctx, created.ID, teamA)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "São Paulo", got.City)
	assert.Equal(t, userA, got.CreatedBy)
}

func TestCreateOrderErrors(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	_, err := s.CreateOrder(ctx, testOrder("pizza-hut-00000000", teamA, entity.StatusBacklog, productA))
	require.NoError(t, err)

	tests := []struct {
		name  string
		order entity.Order
		err   error
	}{
		{
			name:  "duplicated id",
			order: testOrder("pizza-hut-00000000", teamA, entity.StatusBacklog, productA),
			err:   storageErrors.ErrOrderIDExists,
		},
		{
			name:  "unknown product",
			order: testOrder("pizza-hut-11111111", teamA, entity.StatusBacklog, "missing"),
			err:   storageErrors.ErrProductNotFound,
		},
		{
			name:  "product of another team",
			order: testOrder("pizza-hut-22222222", teamA, entity.StatusBacklog, productB),
			err:   storageErrors.ErrProductNotFound,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := s.CreateOrder(ctx, test.order)
			assert.ErrorIs(t, err, test.err)
		})
	}

	_, err = s.GetOrder(ctx, "pizza-hut-11111111", teamA)
	assert.ErrorIs(t, err, storageErrors.ErrOrderNotFound)
}

func TestGetOrdersBuckets(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	for i, status := range entity.OrderStatuses {
		id := entity.OrderID(fmt.Sprintf("pizza-hut-%08d", i))
		_, err := s.CreateOrder(ctx, testOrder(id, teamA, status, productA))
		require.NoError(t, err)
	}
	_, err := s.CreateOrder(ctx, testOrder("burger-place-00000000", teamB, entity.StatusBacklog, productB))
	require.NoError(t, err)

	all, err := s.GetOrders(ctx, teamA, entity.BucketAll)
	require.NoError(t, err)
	unfinished, err := s.GetOrders(ctx, teamA, entity.BucketUnfinished)
	require.NoError(t, err)
	finished, err := s.GetOrders(ctx, teamA, entity.BucketFinished)
	require.NoError(t, err)

	assert.Len(t, all, len(entity.OrderStatuses))
	assert.Len(t, unfinished, 3)
	assert.Len(t, finished, 2)

	seen := make(map[entity.OrderID]int)
	for _, order := range unfinished {
		assert.False(t, order.Status.Finished())
		seen[order.ID]++
	}
	for _, order := range finished {
		assert.True(t, order.Status.Finished())
		seen[order.ID]++
	}
	for _, order := range all {
		assert.Equal(t, teamA, order.TeamID)
		assert.Equal(t, 1, seen[order.ID], "order %s", order.ID)
	}
}

func TestGetOrderOtherTeam(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	created, err := s.CreateOrder(ctx, testOrder("burger-place-abcdefgh", teamB, entity.StatusBacklog, productB))
	require.NoError(t, err)

	_, err = s.GetOrder(ctx, created.ID, teamA)
	assert.ErrorIs(t, err, storageErrors.ErrOrderNotFound)
}

func TestUpdateOrder(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	created, err := s.CreateOrder(ctx, testOrder("pizza-hut-abcdefgh", teamA, entity.StatusBacklog, productA))
	require.NoError(t, err)

	name := "Novo nome"
	status := entity.StatusInProgress
	patch := entity.OrderPatch{
		Name:   &name,
		Status: &status,
		Items: []entity.OrderItem{
			{ProductID: productA, Quantity: 5},
		},
	}

	tests := []struct {
		name     string
		teamID   entity.TeamID
		expected entity.OrderStatus
		err      error
	}{
		{
			name:     "another team",
			teamID:   teamB,
			expected: entity.StatusBacklog,
			err:      storageErrors.ErrOrderNotFound,
		},
		{
			name:     "status changed",
			teamID:   teamA,
			expected: entity.StatusOutForDelivery,
			err:      storageErrors.ErrOrderStatusChanged,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := s.UpdateOrder(ctx, created.ID, test.teamID, test.expected, patch)
			assert.ErrorIs(t, err, test.err)
		})
	}

	updated, err := s.UpdateOrder(ctx, created.ID, teamA, entity.StatusBacklog, patch)
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
	assert.Equal(t, entity.StatusInProgress, updated.Status)
	require.Len(t, updated.Items, 1)
	assert.Equal(t, 5, updated.Items[0].Quantity)
	assert.NotEqual(t, created.Items[0].ID, updated.Items[0].ID)
	assert.Equal(t, created.PostalCode, updated.PostalCode)

	unknown := entity.OrderPatch{Items: []entity.OrderItem{{ProductID: productB, Quantity: 1}}}
	_, err = s.UpdateOrder(ctx, created.ID, teamA, entity.StatusInProgress, unknown)
	assert.ErrorIs(t, err, storageErrors.ErrProductNotFound)

	got, err := s.GetOrder(ctx, created.ID, teamA)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Items[0].Quantity)
}

func TestDeleteOrder(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	created, err := s.CreateOrder(ctx, testOrder("pizza-hut-abcdefgh", teamA, entity.StatusBacklog, productA))
	require.NoError(t, err)

	err = s.DeleteOrder(ctx, created.ID, teamB)
	assert.ErrorIs(t, err, storageErrors.ErrOrderNotFound)

	err = s.DeleteOrder(ctx, created.ID, teamA)
	require.NoError(t, err)

	_, err = s.GetOrder(ctx, created.ID, teamA)
	assert.ErrorIs(t, err, storageErrors.ErrOrderNotFound)

	var items int64
	require.NoError(t, s.db.Model(&orderItemRow{}).Where("order_id = ?", created.ID.String()).Count(&items).Error)
	assert.Zero(t, items)

	err = s.DeleteOrder(ctx, created.ID, teamA)
	assert.ErrorIs(t, err, storageErrors.ErrOrderNotFound)
}

func TestTeamLookups(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	team, err := s.GetTeam(ctx, teamA)
	require.NoError(t, err)
	assert.Equal(t, "Pizza Hut", team.Name)

	_, err = s.GetTeam(ctx, "missing")
	assert.ErrorIs(t, err, storageErrors.ErrTeamNotFound)

	member, err := s.GetTeamMember(ctx, teamA)
	require.NoError(t, err)
	assert.Equal(t, userA, member.UserID)

	_, err = s.GetTeamMember(ctx, teamB)
	assert.ErrorIs(t, err, storageErrors.ErrTeamMemberNotFound)

	key, err := s.GetAPIKey(ctx, "hashed")
	require.NoError(t, err)
	assert.Equal(t, teamA, key.TeamID)
	assert.Nil(t, key.ExpiresAt)

	_, err = s.GetAPIKey(ctx, "unknown")
	assert.ErrorIs(t, err, storageErrors.ErrAPIKeyNotFound)

	assert.NoError(t, s.Ping(ctx))
}
