package mysql

import (
	"context"
	"errors"

	"posimarket/domain/catalog"
	"posimarket/infrastructure/persistence/mysql/po"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductRepository product directory on MySQL
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*catalog.Product, error) {
	return r.find(getDB(ctx, r.db), id)
}

// FindByIDForUpdate SELECT ... FOR UPDATE; only meaningful inside a unit of work
func (r *ProductRepository) FindByIDForUpdate(ctx context.Context, id string) (*catalog.Product, error) {
	return r.find(getDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *ProductRepository) find(db *gorm.DB, id string) (*catalog.Product, error) {
	var row po.ProductPO
	if err := db.First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.NewProductNotFoundError(id)
		}
		return nil, err
	}
	return row.ToDomain(), nil
}

// DecrementStock conditional update: the row changes only while stock >= quantity
func (r *ProductRepository) DecrementStock(ctx context.Context, id string, quantity int) error {
	db := getDB(ctx, r.db)
	result := db.Model(&po.ProductPO{}).
		Where("id = ? AND stock >= ?", id, quantity).
		Update("stock", gorm.Expr("stock - ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 1 {
		return nil
	}

	var row po.ProductPO
	if err := db.Select("id", "stock").First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return catalog.NewProductNotFoundError(id)
		}
		return err
	}
	return catalog.NewInsufficientStockError(id, quantity, row.Stock)
}

func (r *ProductRepository) IncrementStock(ctx context.Context, id string, quantity int) error {
	result := getDB(ctx, r.db).Model(&po.ProductPO{}).
		Where("id = ?", id).
		Update("stock", gorm.Expr("stock + ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return catalog.NewProductNotFoundError(id)
	}
	return nil
}

func (r *ProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return getDB(ctx, r.db).Save(po.FromProductDomain(product)).Error
}

// UserRepository account directory on MySQL
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*catalog.User, error) {
	var row po.UserPO
	if err := getDB(ctx, r.db).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.NewUserNotFoundError(id)
		}
		return nil, err
	}
	return row.ToDomain(), nil
}

func (r *UserRepository) Save(ctx context.Context, user *catalog.User) error {
	return getDB(ctx, r.db).Save(po.FromUserDomain(user)).Error
}

var (
	_ catalog.ProductRepository = (*ProductRepository)(nil)
	_ catalog.UserRepository    = (*UserRepository)(nil)
)
