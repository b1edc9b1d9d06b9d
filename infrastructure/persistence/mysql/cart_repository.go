package mysql

import (
	"context"
	"errors"
	"time"

	"posimarket/domain/cart"
	"posimarket/infrastructure/persistence/mysql/po"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartRepository reservations on MySQL
type CartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{db: db}
}

func (r *CartRepository) FindLine(ctx context.Context, cartID, productID string) (*cart.Line, error) {
	var row po.CartLinePO
	err := getDB(ctx, r.db).First(&row, "cart_id = ? AND product_id = ?", cartID, productID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return row.ToDomain(), nil
}

func (r *CartRepository) ListByCart(ctx context.Context, cartID string) ([]*cart.Line, error) {
	var rows []po.CartLinePO
	if err := getDB(ctx, r.db).Where("cart_id = ?", cartID).Order("reserved_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	lines := make([]*cart.Line, len(rows))
	for i := range rows {
		lines[i] = rows[i].ToDomain()
	}
	return lines, nil
}

func (r *CartRepository) SumHeld(ctx context.Context, productID string, now time.Time, excludeCartID string) (int, error) {
	q := getDB(ctx, r.db).Model(&po.CartLinePO{}).
		Where("product_id = ? AND expires_at > ?", productID, now)
	if excludeCartID != "" {
		q = q.Where("cart_id <> ?", excludeCartID)
	}
	var held int64
	if err := q.Select("COALESCE(SUM(quantity), 0)").Scan(&held).Error; err != nil {
		return 0, err
	}
	return int(held), nil
}

// Save upsert on the (cart_id, product_id) unique key; the original line id is kept
func (r *CartRepository) Save(ctx context.Context, line *cart.Line) error {
	return getDB(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"quantity", "reserved_at", "expires_at"}),
	}).Create(po.FromCartLineDomain(line)).Error
}

func (r *CartRepository) Delete(ctx context.Context, cartID, productID string) error {
	return getDB(ctx, r.db).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Delete(&po.CartLinePO{}).Error
}

func (r *CartRepository) DeleteForProducts(ctx context.Context, cartID string, productIDs []string) error {
	if len(productIDs) == 0 {
		return nil
	}
	return getDB(ctx, r.db).
		Where("cart_id = ? AND product_id IN ?", cartID, productIDs).
		Delete(&po.CartLinePO{}).Error
}

func (r *CartRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := getDB(ctx, r.db).Where("expires_at < ?", now).Delete(&po.CartLinePO{})
	return result.RowsAffected, result.Error
}

var _ cart.Repository = (*CartRepository)(nil)
