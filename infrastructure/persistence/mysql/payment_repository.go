package mysql

import (
	"context"
	"errors"

	"posimarket/domain/payment"
	"posimarket/infrastructure/persistence/mysql/po"

	"gorm.io/gorm"
)

// PaymentRepository payments on MySQL, unique per order
type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) FindByOrderID(ctx context.Context, orderID string) (*payment.Payment, error) {
	var row po.PaymentPO
	if err := getDB(ctx, r.db).First(&row, "order_id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return row.ToDomain(), nil
}

// Save a second insert for the same order loses on the unique key and reports a
// concurrent modification so the caller retries against the stored record
func (r *PaymentRepository) Save(ctx context.Context, p *payment.Payment) error {
	db := getDB(ctx, r.db)
	row := po.FromPaymentDomain(p)

	if p.IsNew() {
		if err := db.Create(row).Error; err != nil {
			if isDuplicateKeyError(err) {
				return payment.NewConcurrentModificationError(p.OrderID())
			}
			return err
		}
		p.MarkPersisted()
		return nil
	}

	expectedVersion := p.Version()
	result := db.Model(&po.PaymentPO{}).
		Where("id = ? AND version = ?", p.ID(), expectedVersion).
		Updates(map[string]interface{}{
			"amount":         row.Amount,
			"method":         row.Method,
			"status":         row.Status,
			"transaction_id": row.TransactionID,
			"reason":         row.Reason,
			"attempts":       row.Attempts,
			"paid_at":        row.PaidAt,
			"version":        expectedVersion + 1,
			"updated_at":     row.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return payment.NewConcurrentModificationError(p.OrderID())
	}
	p.MarkPersisted()
	return nil
}

var _ payment.Repository = (*PaymentRepository)(nil)
