// Package shipping Application Layer - shipping quotes for carts and seller groups
package shipping

import (
	"context"
	"errors"
	"sort"

	"posimarket/domain/cart"
	"posimarket/domain/catalog"
	"posimarket/domain/shared"
	"posimarket/domain/shipping"
	"posimarket/pkg/logger"

	"go.uber.org/zap"
)

// ApplicationService shipping quote use cases
type ApplicationService struct {
	quoter   *shipping.Quoter
	products catalog.ProductRepository
	users    catalog.UserRepository
	lines    cart.Repository
	clock    shared.Clock
}

func NewApplicationService(
	quoter *shipping.Quoter,
	products catalog.ProductRepository,
	users catalog.UserRepository,
	lines cart.Repository,
	clock shared.Clock,
) *ApplicationService {
	quoter.OnFallback(func(err error) {
		logger.Warn("Carrier rate provider failed, using local rates", zap.Error(err))
	})
	return &ApplicationService{
		quoter:   quoter,
		products: products,
		users:    users,
		lines:    lines,
		clock:    clock,
	}
}

// QuoteSeller prices one seller group; the origin comes from the directory
func (s *ApplicationService) QuoteSeller(ctx context.Context, sellerID, destination string, items []shipping.Item) (shipping.Quote, error) {
	seller, err := s.users.FindByID(ctx, sellerID)
	if err != nil {
		return shipping.Quote{}, err
	}
	return s.quoter.QuoteGroup(ctx, seller.Kind(), seller.Address(), destination, items)
}

// QuoteCart groups the items by seller and quotes every group
func (s *ApplicationService) QuoteCart(ctx context.Context, buyerID string, req QuoteRequest) (*QuoteResponse, error) {
	dest, err := shipping.ParsePostalCode(req.DestinationPostalCode)
	if err != nil {
		return nil, err
	}

	items := req.Items
	if len(items) == 0 {
		if items, err = s.heldItems(ctx, buyerID); err != nil {
			return nil, err
		}
	}
	if len(items) == 0 {
		return nil, shipping.NewEmptyItemsError()
	}

	bySeller := make(map[string][]shipping.Item)
	for _, it := range items {
		if it.Quantity <= 0 {
			return nil, shared.NewValidationError("shipping", "quantity", "quantity must be at least 1")
		}
		product, err := s.products.FindByID(ctx, it.ProductID)
		if err != nil {
			return nil, err
		}
		bySeller[product.SellerID()] = append(bySeller[product.SellerID()], shipping.ItemFromProduct(product, it.Quantity))
	}

	sellerIDs := make([]string, 0, len(bySeller))
	for id := range bySeller {
		sellerIDs = append(sellerIDs, id)
	}
	sort.Strings(sellerIDs)

	resp := &QuoteResponse{Destination: dest.Formatted()}
	for _, sellerID := range sellerIDs {
		seller, err := s.users.FindByID(ctx, sellerID)
		if err != nil {
			if errors.Is(err, catalog.ErrUserNotFound) {
				logger.WithContext(ctx).Warn("Product references a missing seller", zap.String("seller_id", sellerID))
			}
			return nil, err
		}
		quote, err := s.quoter.QuoteGroup(ctx, seller.Kind(), seller.Address(), dest.String(), bySeller[sellerID])
		if err != nil {
			return nil, err
		}
		shipping.SortByCarrier(quote.Options)
		resp.Groups = append(resp.Groups, GroupQuote{
			SellerID:    sellerID,
			SellerName:  seller.Name(),
			Options:     quote.Options,
			Approximate: quote.Approximate,
			Simulated:   quote.Simulated,
		})
		for _, opt := range quote.Options {
			resp.Options = append(resp.Options, FlatOption{SellerID: sellerID, Option: opt})
		}
	}

	sortFlat(resp.Options)
	return resp, nil
}

// heldItems unexpired lines of the buyer's cart
func (s *ApplicationService) heldItems(ctx context.Context, buyerID string) ([]QuoteItem, error) {
	lines, err := s.lines.ListByCart(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	items := make([]QuoteItem, 0, len(lines))
	for _, l := range lines {
		if l.Holds(now) {
			items = append(items, QuoteItem{ProductID: l.ProductID(), Quantity: l.Quantity()})
		}
	}
	return items, nil
}

// sortFlat price ascending, carrier order then seller id breaking ties
func sortFlat(options []FlatOption) {
	sort.SliceStable(options, func(i, j int) bool {
		a, b := options[i].Option, options[j].Option
		if shipping.Cheaper(a, b) {
			return true
		}
		if shipping.Cheaper(b, a) {
			return false
		}
		return options[i].SellerID < options[j].SellerID
	})
}
