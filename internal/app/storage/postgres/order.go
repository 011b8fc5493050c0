package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/avGenie/go-order-system/internal/app/entity"
	storageErrors "github.com/avGenie/go-order-system/internal/app/storage/api/errors"
)

func (s *Postgres) CreateOrder(ctx context.Context, order entity.Order) (entity.Order, error) {
	now := time.Now().UTC()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	order.UpdatedAt = now

	for i := range order.Items {
		if len(order.Items[i].ID) == 0 {
			order.Items[i].ID = uuid.NewString()
		}
	}

	var created entity.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&orderRow{}).Where("id = ?", order.ID.String()).Count(&count).Error
		if err != nil {
			return fmt.Errorf("failed to check order id: %w", err)
		}
		if count != 0 {
			return storageErrors.ErrOrderIDExists
		}

		err = checkProducts(tx, order.TeamID, order.Items)
		if err != nil {
			return err
		}

		row := newOrderRow(order)
		err = tx.Omit(clause.Associations).Create(&row).Error
		if err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return storageErrors.ErrOrderIDExists
			}
			return fmt.Errorf("failed to insert order: %w", err)
		}

		err = insertItems(tx, order.ID, order.Items)
		if err != nil {
			return err
		}

		created, err = loadOrder(tx, order.ID, order.TeamID)
		return err
	})
	if err != nil {
		return entity.Order{}, err
	}

	return created, nil
}

func (s *Postgres) GetOrders(ctx context.Context, teamID entity.TeamID, bucket entity.StatusBucket) (entity.Orders, error) {
	query := withItems(s.db.WithContext(ctx)).
		Where("team_id = ?", teamID.String())

	finished := statusStrings(entity.FinishedStatuses)
	switch bucket {
	case entity.BucketUnfinished:
		query = query.Where("status NOT IN ?", finished)
	case entity.BucketFinished:
		query = query.Where("status IN ?", finished)
	}

	var rows []orderRow
	err := query.Order("created_at").Order("id").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get orders: %w", err)
	}

	orders := make(entity.Orders, 0, len(rows))
	for _, row := range rows {
		orders = append(orders, row.toEntity())
	}

	return orders, nil
}

func (s *Postgres) GetOrder(ctx context.Context, orderID entity.OrderID, teamID entity.TeamID) (entity.Order, error) {
	return loadOrder(s.db.WithContext(ctx), orderID, teamID)
}

// UpdateOrder applies the patch only while the order is still in the expected status.
func (s *Postgres) UpdateOrder(ctx context.Context, orderID entity.OrderID, teamID entity.TeamID,
	expected entity.OrderStatus, patch entity.OrderPatch) (entity.Order, error) {
	var updated entity.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		columns := patchColumns(patch)
		columns["updated_at"] = time.Now().UTC()

		result := tx.Model(&orderRow{}).
			Where("id = ? AND team_id = ? AND status = ?", orderID.String(), teamID.String(), expected.String()).
			Updates(columns)
		if result.Error != nil {
			return fmt.Errorf("failed to update order: %w", result.Error)
		}

		if result.RowsAffected == 0 {
			exists, err := orderExists(tx, orderID, teamID)
			if err != nil {
				return err
			}
			if !exists {
				return storageErrors.ErrOrderNotFound
			}
			return storageErrors.ErrOrderStatusChanged
		}

		if patch.Items != nil {
			err := replaceItems(tx, orderID, teamID, patch.Items)
			if err != nil {
				return err
			}
		}

		var err error
		updated, err = loadOrder(tx, orderID, teamID)
		return err
	})
	if err != nil {
		return entity.Order{}, err
	}

	return updated, nil
}

func (s *Postgres) DeleteOrder(ctx context.Context, orderID entity.OrderID, teamID entity.TeamID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND team_id = ?", orderID.String(), teamID.String()).
			Delete(&orderRow{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete order: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return storageErrors.ErrOrderNotFound
		}

		err := tx.Where("order_id = ?", orderID.String()).Delete(&orderItemRow{}).Error
		if err != nil {
			return fmt.Errorf("failed to delete order items: %w", err)
		}

		return nil
	})
}

func withItems(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position")
		}).
		Preload("Items.Product")
}

func loadOrder(db *gorm.DB, orderID entity.OrderID, teamID entity.TeamID) (entity.Order, error) {
	var row orderRow
	err := withItems(db).
		Where("id = ? AND team_id = ?", orderID.String(), teamID.String()).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entity.Order{}, storageErrors.ErrOrderNotFound
		}
		return entity.Order{}, fmt.Errorf("failed to get order: %w", err)
	}

	return row.toEntity(), nil
}

func orderExists(tx *gorm.DB, orderID entity.OrderID, teamID entity.TeamID) (bool, error) {
	var count int64
	err := tx.Model(&orderRow{}).
		Where("id = ? AND team_id = ?", orderID.String(), teamID.String()).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check order: %w", err)
	}

	return count != 0, nil
}

// checkProducts makes sure every referenced product belongs to the team inventory.
func checkProducts(tx *gorm.DB, teamID entity.TeamID, items []entity.OrderItem) error {
	ids := make([]string, 0, len(items))
	seen := make(map[entity.ProductID]struct{}, len(items))
	for _, item := range items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, string(item.ProductID))
	}

	if len(ids) == 0 {
		return nil
	}

	var count int64
	err := tx.Model(&inventoryProductRow{}).
		Where("team_id = ? AND id IN ?", teamID.String(), ids).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("failed to check inventory products: %w", err)
	}

	if count != int64(len(ids)) {
		return storageErrors.ErrProductNotFound
	}

	return nil
}

func insertItems(tx *gorm.DB, orderID entity.OrderID, items []entity.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	rows := newOrderItemRows(orderID, items)
	err := tx.Omit("Product").Create(&rows).Error
	if err != nil {
		return fmt.Errorf("failed to insert order items: %w", err)
	}

	return nil
}

func replaceItems(tx *gorm.DB, orderID entity.OrderID, teamID entity.TeamID, items []entity.OrderItem) error {
	err := checkProducts(tx, teamID, items)
	if err != nil {
		return err
	}

	err = tx.Where("order_id = ?", orderID.String()).Delete(&orderItemRow{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete order items: %w", err)
	}

	fresh := make([]entity.OrderItem, len(items))
	copy(fresh, items)
	for i := range fresh {
		fresh[i].ID = uuid.NewString()
	}

	return insertItems(tx, orderID, fresh)
}

func statusStrings(statuses []entity.OrderStatus) []string {
	result := make([]string, 0, len(statuses))
	for _, status := range statuses {
		result = append(result, status.String())
	}

	return result
}
