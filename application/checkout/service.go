/*
Package checkout Application Layer - multi-vendor order placement

The chosen shipping per seller is re-quoted on the server before any row is
locked, because the carrier may be a remote call. PlaceOrder then runs as one unit
of work: product rows are locked and validated, each seller group is checked
against the items that were priced, the parent order and its sub-orders are saved,
stock is decremented conditionally and the buyer's holds on the ordered products
are consumed. Any failure rolls back all of it.
*/
package checkout

import (
	"context"
	"errors"
	"slices"

	orderapp "posimarket/application/order"
	"posimarket/domain/cart"
	"posimarket/domain/catalog"
	"posimarket/domain/order"
	"posimarket/domain/payment"
	"posimarket/domain/shared"
	"posimarket/domain/shipping"
	"posimarket/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ShippingQuoter prices one seller group with the seller's registered origin
type ShippingQuoter interface {
	QuoteSeller(ctx context.Context, sellerID, destination string, items []shipping.Item) (shipping.Quote, error)
}

// ApplicationService checkout use case
type ApplicationService struct {
	uowFactory shared.UnitOfWorkFactory
	orders     order.Repository
	products   catalog.ProductRepository
	users      catalog.UserRepository
	lines      cart.Repository
	ledger     *cart.Ledger
	quoter     ShippingQuoter
	feeRate    decimal.Decimal
	clock      shared.Clock
}

func NewApplicationService(
	uowFactory shared.UnitOfWorkFactory,
	orders order.Repository,
	products catalog.ProductRepository,
	users catalog.UserRepository,
	lines cart.Repository,
	ledger *cart.Ledger,
	quoter ShippingQuoter,
	feeRate decimal.Decimal,
	clock shared.Clock,
) *ApplicationService {
	return &ApplicationService{
		uowFactory: uowFactory,
		orders:     orders,
		products:   products,
		users:      users,
		lines:      lines,
		ledger:     ledger,
		quoter:     quoter,
		feeRate:    feeRate,
		clock:      clock,
	}
}

// PlaceOrder creates the parent order and one sub-order per seller
func (s *ApplicationService) PlaceOrder(ctx context.Context, buyerID string, req PlaceOrderRequest) (*orderapp.OrderResponse, error) {
	method, err := payment.ParseMethod(req.PaymentMethod)
	if err != nil {
		return nil, err
	}
	destination, err := shipping.ParsePostalCode(req.DeliveryAddress.PostalCode)
	if err != nil {
		return nil, err
	}
	if req.CleaningFee.IsNegative() {
		return nil, shared.NewValidationError("order", "cleaning_fee", "cleaning fee cannot be negative")
	}

	requested := make([]order.RequestedLine, len(req.Items))
	for i, it := range req.Items {
		requested[i] = order.RequestedLine{ProductID: it.ProductID, SellerID: it.SellerID, Quantity: it.Quantity}
	}
	address := catalog.Address{
		Street:     req.DeliveryAddress.Street,
		Number:     req.DeliveryAddress.Number,
		City:       req.DeliveryAddress.City,
		State:      req.DeliveryAddress.State,
		PostalCode: destination.Formatted(),
	}

	draft, err := order.GroupLines(ctx, unlockedProducts{s.products}, nil, requested)
	if err != nil {
		return nil, err
	}
	priced, err := s.requote(ctx, draft, destination, req.Shipping)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.New()
	var parent *order.Order
	var subs []*order.Order
	err = uow.Execute(ctx, func(ctx context.Context) error {
		if _, err := s.users.FindByID(ctx, buyerID); err != nil {
			if errors.Is(err, catalog.ErrUserNotFound) {
				return order.NewBuyerNotFoundError(buyerID)
			}
			return err
		}

		groups, err := order.GroupLines(ctx, s.products, &ledgerStockAdapter{ledger: s.ledger, buyerID: buyerID}, requested)
		if err != nil {
			return err
		}

		chosen, err := s.confirmQuotes(ctx, groups, draft, priced, destination, req.Shipping)
		if err != nil {
			return err
		}

		now := s.clock.Now()
		parent, subs, err = order.Decompose(order.Checkout{
			BuyerID:         buyerID,
			DeliveryAddress: address,
			PaymentMethod:   string(method),
			CleaningFee:     req.CleaningFee,
			FeeRate:         s.feeRate,
			Groups:          groups,
			Shipping:        chosen,
		}, order.NewNumber(now), now, uuid.NewString)
		if err != nil {
			return err
		}

		if err := s.orders.Save(ctx, parent); err != nil {
			return err
		}
		for _, sub := range subs {
			if err := s.orders.Save(ctx, sub); err != nil {
				return err
			}
		}

		var ordered []string
		for _, g := range groups {
			for _, l := range g.Lines {
				if err := s.products.DecrementStock(ctx, l.Product.ID(), l.Quantity); err != nil {
					return err
				}
				ordered = append(ordered, l.Product.ID())
			}
		}
		if err := s.lines.DeleteForProducts(ctx, buyerID, ordered); err != nil {
			return err
		}

		uow.RegisterNew(parent)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.WithContext(ctx).Info("Order placed",
		zap.String("order_id", parent.ID()),
		zap.String("number", parent.Number()),
		zap.String("buyer_id", buyerID),
		zap.Int("sub_orders", len(subs)),
		zap.String("total", parent.Total().String()),
	)

	resp := orderapp.ToOrderResponse(parent, subs)
	return &resp, nil
}

// requote prices the chosen method of every seller on the server; client prices are never trusted
func (s *ApplicationService) requote(ctx context.Context, groups []order.SellerGroup, destination shipping.PostalCode, choices map[string]string) (map[string]shipping.Option, error) {
	chosen := make(map[string]shipping.Option, len(groups))
	for _, g := range groups {
		method := shipping.Method(choices[g.SellerID])
		if !method.Valid() {
			return nil, order.NewShippingOptionUnavailableError(g.SellerID, string(method))
		}
		quote, err := s.quoter.QuoteSeller(ctx, g.SellerID, destination.String(), g.ShippingItems())
		if err != nil {
			return nil, err
		}
		opt, ok := shipping.Find(quote.Options, method)
		if !ok {
			return nil, order.NewShippingOptionUnavailableError(g.SellerID, string(method))
		}
		chosen[g.SellerID] = opt
	}
	return chosen, nil
}

// confirmQuotes keeps the prices computed before the transaction for every group
// whose shipped items are unchanged under lock; a group that changed in between is
// priced again.
func (s *ApplicationService) confirmQuotes(ctx context.Context, groups, draft []order.SellerGroup, priced map[string]shipping.Option, destination shipping.PostalCode, choices map[string]string) (map[string]shipping.Option, error) {
	drafted := make(map[string][]shipping.Item, len(draft))
	for _, g := range draft {
		drafted[g.SellerID] = g.ShippingItems()
	}

	chosen := make(map[string]shipping.Option, len(groups))
	var stale []order.SellerGroup
	for _, g := range groups {
		opt, ok := priced[g.SellerID]
		if ok && slices.Equal(drafted[g.SellerID], g.ShippingItems()) {
			chosen[g.SellerID] = opt
			continue
		}
		stale = append(stale, g)
	}
	if len(stale) == 0 {
		return chosen, nil
	}

	logger.WithContext(ctx).Warn("Products changed during checkout, re-quoting shipping",
		zap.Int("seller_groups", len(stale)),
	)
	requoted, err := s.requote(ctx, stale, destination, choices)
	if err != nil {
		return nil, err
	}
	for seller, opt := range requoted {
		chosen[seller] = opt
	}
	return chosen, nil
}
