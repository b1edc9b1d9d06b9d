package cart

import (
	"context"

	"posimarket/domain/catalog"
)

// sellerClassifierAdapter adapts catalog.UserRepository to cart.SellerClassifier
type sellerClassifierAdapter struct {
	users catalog.UserRepository
}

func (a *sellerClassifierAdapter) IsIndividualSeller(ctx context.Context, sellerID string) (bool, error) {
	u, err := a.users.FindByID(ctx, sellerID)
	if err != nil {
		return false, err
	}
	return u.IsIndividual(), nil
}
