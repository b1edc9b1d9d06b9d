package mysql

import (
	"context"
	"errors"

	"posimarket/domain/order"
	"posimarket/infrastructure/persistence/mysql/po"

	"gorm.io/gorm"
)

// OrderRepository MySQL/GORM implementation of order repository
// GORM associations are not used; items and history are written and read explicitly
// to keep the aggregate boundary visible.
type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Save inserts a new order with items and history, or updates an existing one
// under the optimistic version check and appends its pending history rows
func (r *OrderRepository) Save(ctx context.Context, o *order.Order) error {
	err := inTx(ctx, r.db, func(tx *gorm.DB) error {
		return r.saveWithTx(tx, o)
	})
	if err != nil {
		return err
	}
	o.MarkPersisted()
	return nil
}

func (r *OrderRepository) saveWithTx(tx *gorm.DB, o *order.Order) error {
	orderPO, itemPOs := po.FromOrderDomain(o)

	if o.IsNew() {
		if err := tx.Create(orderPO).Error; err != nil {
			return err
		}
		if len(itemPOs) > 0 {
			if err := tx.Create(&itemPOs).Error; err != nil {
				return err
			}
		}
	} else {
		expectedVersion := o.Version()
		result := tx.Model(&po.OrderPO{}).
			Where("id = ? AND version = ?", o.ID(), expectedVersion).
			Updates(map[string]interface{}{
				"status":        orderPO.Status,
				"cancelled_at":  orderPO.CancelledAt,
				"cancel_reason": orderPO.CancelReason,
				"delivered_at":  orderPO.DeliveredAt,
				"version":       expectedVersion + 1,
				"updated_at":    orderPO.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&po.OrderPO{}).Where("id = ?", o.ID()).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return order.NewOrderNotFoundError(o.ID())
			}
			return order.NewConcurrentModificationError(o.ID())
		}
	}

	if history := po.FromHistoryDomain(o.PendingHistory()); len(history) > 0 {
		if err := tx.Create(&history).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*order.Order, error) {
	db := getDB(ctx, r.db)
	var row po.OrderPO
	if err := db.First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.NewOrderNotFoundError(id)
		}
		return nil, err
	}
	orders, err := r.hydrate(db, []po.OrderPO{row})
	if err != nil {
		return nil, err
	}
	return orders[0], nil
}

func (r *OrderRepository) FindChildren(ctx context.Context, parentID string) ([]*order.Order, error) {
	return r.list(getDB(ctx, r.db).Where("parent_order_id = ?", parentID).Order("number ASC"))
}

func (r *OrderRepository) FindByBuyer(ctx context.Context, buyerID string) ([]*order.Order, error) {
	return r.list(getDB(ctx, r.db).
		Where("buyer_id = ? AND (parent_order_id = '' OR parent_order_id IS NULL)", buyerID).
		Order("created_at DESC"))
}

func (r *OrderRepository) FindBySeller(ctx context.Context, sellerID string) ([]*order.Order, error) {
	return r.list(getDB(ctx, r.db).Where("seller_id = ?", sellerID).Order("created_at DESC"))
}

func (r *OrderRepository) list(q *gorm.DB) ([]*order.Order, error) {
	var rows []po.OrderPO
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	// the scope only carries the filter; children are read on a fresh session
	return r.hydrate(q.Session(&gorm.Session{NewDB: true}), rows)
}

// hydrate loads items and history of every row with one query per table
func (r *OrderRepository) hydrate(db *gorm.DB, rows []po.OrderPO) ([]*order.Order, error) {
	if len(rows) == 0 {
		return []*order.Order{}, nil
	}
	ids := make([]string, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}

	var items []po.OrderItemPO
	if err := db.Where("order_id IN ?", ids).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	var history []po.OrderHistoryPO
	if err := db.Where("order_id IN ?", ids).Order("created_at ASC").Order("id ASC").Find(&history).Error; err != nil {
		return nil, err
	}

	itemsByOrder := make(map[string][]po.OrderItemPO, len(rows))
	for _, it := range items {
		itemsByOrder[it.OrderID] = append(itemsByOrder[it.OrderID], it)
	}
	historyByOrder := make(map[string][]po.OrderHistoryPO, len(rows))
	for _, h := range history {
		historyByOrder[h.OrderID] = append(historyByOrder[h.OrderID], h)
	}

	orders := make([]*order.Order, len(rows))
	for i := range rows {
		orders[i] = rows[i].ToDomain(itemsByOrder[rows[i].ID], historyByOrder[rows[i].ID])
	}
	return orders, nil
}

var _ order.Repository = (*OrderRepository)(nil)
