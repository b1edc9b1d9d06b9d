package checkout

import (
	"context"

	"posimarket/domain/cart"
	"posimarket/domain/catalog"
)

// ledgerStockAdapter adapts cart.Ledger to order.StockChecker: stock held by other
// carts is unavailable, the buyer's own holds are not
type ledgerStockAdapter struct {
	ledger  *cart.Ledger
	buyerID string
}

func (a *ledgerStockAdapter) Available(ctx context.Context, product *catalog.Product) (int, error) {
	return a.ledger.AvailableExcludingCart(ctx, product, a.buyerID)
}

// unlockedProducts reads products without row locks, for pricing outside the transaction
type unlockedProducts struct {
	catalog.ProductRepository
}

func (p unlockedProducts) FindByIDForUpdate(ctx context.Context, id string) (*catalog.Product, error) {
	return p.FindByID(ctx, id)
}
