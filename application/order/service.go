/*
Package order Application Layer - order status use cases

Responsibilities:
 1. Load the order and its sub-orders inside a unit of work
 2. Let the domain state machine validate and apply the transition
 3. Save every changed order, restock cancelled items, register the parent so its
    status_changed event lands in the outbox in the same transaction

Application services never publish events directly; the outbox worker does.
*/
package order

import (
	"context"

	"posimarket/domain/catalog"
	"posimarket/domain/order"
	"posimarket/domain/shared"
	"posimarket/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ApplicationService order use cases
type ApplicationService struct {
	uowFactory shared.UnitOfWorkFactory
	orders     order.Repository
	products   catalog.ProductRepository
	clock      shared.Clock
}

func NewApplicationService(
	uowFactory shared.UnitOfWorkFactory,
	orders order.Repository,
	products catalog.ProductRepository,
	clock shared.Clock,
) *ApplicationService {
	return &ApplicationService{
		uowFactory: uowFactory,
		orders:     orders,
		products:   products,
		clock:      clock,
	}
}

// ============================================================================
// Commands
// ============================================================================

// Transition moves an order to a new status on behalf of actor
func (s *ApplicationService) Transition(ctx context.Context, orderID string, actor order.Actor, req TransitionRequest) (*OrderResponse, error) {
	target := order.Status(req.Status)
	if !target.Valid() {
		return nil, shared.NewValidationError("order", "status", "unknown status "+req.Status)
	}

	if err := s.Move(ctx, orderID, target, actor, req.Note); err != nil {
		return nil, err
	}
	return s.Get(ctx, orderID, actor)
}

// Move applies a transition in its own unit of work, or joins the caller's.
// The order is reloaded on every attempt so a retried transaction sees fresh versions.
func (s *ApplicationService) Move(ctx context.Context, orderID string, target order.Status, actor order.Actor, note string) error {
	uow := s.uowFactory.New()
	var result order.TransitionResult
	err := uow.Execute(ctx, func(ctx context.Context) error {
		o, err := s.orders.FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		var children []*order.Order
		if o.IsParent() {
			if children, err = s.orders.FindChildren(ctx, o.ID()); err != nil {
				return err
			}
		}

		result, err = order.Transition(o, children, target, actor, note, s.clock.Now(), uuid.NewString)
		if err != nil {
			return err
		}
		for _, changed := range result.Changed {
			if err := s.orders.Save(ctx, changed); err != nil {
				return err
			}
		}
		for _, r := range result.Restock {
			if err := s.products.IncrementStock(ctx, r.ProductID, r.Quantity); err != nil {
				return err
			}
		}

		uow.RegisterDirty(o)
		return nil
	})
	if err != nil {
		return err
	}

	logger.WithContext(ctx).Info("Order status changed",
		zap.String("order_id", orderID),
		zap.String("status", target.String()),
		zap.String("actor_id", actor.UserID),
		zap.Int("orders_changed", len(result.Changed)),
		zap.Int("restocked_lines", len(result.Restock)),
	)
	return nil
}

// ============================================================================
// Queries
// ============================================================================

// Get returns an order with its sub-orders and history; hidden from unrelated actors
func (s *ApplicationService) Get(ctx context.Context, orderID string, actor order.Actor) (*OrderResponse, error) {
	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	var children []*order.Order
	if o.IsParent() {
		if children, err = s.orders.FindChildren(ctx, o.ID()); err != nil {
			return nil, err
		}
	}
	if !order.CanAccess(o, children, actor) {
		return nil, order.NewOrderNotFoundError(orderID)
	}

	// sellers only see their own sub-orders of a parent
	if o.IsParent() && !actor.Admin && o.BuyerID() != actor.UserID {
		own := children[:0:0]
		for _, c := range children {
			if c.SellerID() == actor.UserID {
				own = append(own, c)
			}
		}
		children = own
	}

	resp := ToOrderResponse(o, children)
	return &resp, nil
}

// ListBuyerOrders parent orders of the buyer with their sub-orders, newest first
func (s *ApplicationService) ListBuyerOrders(ctx context.Context, buyerID string) ([]OrderResponse, error) {
	parents, err := s.orders.FindByBuyer(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	resp := make([]OrderResponse, 0, len(parents))
	for _, p := range parents {
		children, err := s.orders.FindChildren(ctx, p.ID())
		if err != nil {
			return nil, err
		}
		resp = append(resp, ToOrderResponse(p, children))
	}
	return resp, nil
}

// ListSellerOrders sub-orders addressed to the seller, newest first
func (s *ApplicationService) ListSellerOrders(ctx context.Context, sellerID string) ([]SellerOrderResponse, error) {
	subs, err := s.orders.FindBySeller(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	resp := make([]SellerOrderResponse, 0, len(subs))
	for _, o := range subs {
		resp = append(resp, toSellerOrderResponse(o))
	}
	return resp, nil
}
