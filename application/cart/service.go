/*
Package cart Application Layer - cart and stock reservation use cases

Every mutation runs in its own unit of work: the ledger locks the product row,
checks availability, and the line is saved before the lock is released.
*/
package cart

import (
	"context"
	"errors"
	"time"

	"posimarket/domain/cart"
	"posimarket/domain/catalog"
	"posimarket/domain/shared"
	"posimarket/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ApplicationService cart use cases
type ApplicationService struct {
	uowFactory shared.UnitOfWorkFactory
	lines      cart.Repository
	products   catalog.ProductRepository
	ledger     *cart.Ledger
}

func NewApplicationService(
	uowFactory shared.UnitOfWorkFactory,
	lines cart.Repository,
	products catalog.ProductRepository,
	users catalog.UserRepository,
	clock shared.Clock,
	ttl time.Duration,
) *ApplicationService {
	return &ApplicationService{
		uowFactory: uowFactory,
		lines:      lines,
		products:   products,
		ledger: cart.NewLedger(lines, products, &sellerClassifierAdapter{users: users}, clock, ttl,
			func() string { return uuid.NewString() }),
	}
}

// Ledger reservation rules shared with checkout
func (s *ApplicationService) Ledger() *cart.Ledger { return s.ledger }

// Reserve adds a product to the buyer's cart or replaces the line's quantity
func (s *ApplicationService) Reserve(ctx context.Context, buyerID string, req ReserveRequest) (*LineResponse, error) {
	var resp LineResponse
	err := s.uowFactory.New().Execute(ctx, func(ctx context.Context) error {
		line, err := s.ledger.Reserve(ctx, buyerID, req.ProductID, req.Quantity)
		if err != nil {
			return err
		}
		if err := s.lines.Save(ctx, line); err != nil {
			return err
		}
		product, err := s.products.FindByID(ctx, req.ProductID)
		if err != nil {
			return err
		}
		available, err := s.ledger.AvailableStock(ctx, req.ProductID)
		if err != nil {
			return err
		}
		resp = toLineResponse(line, product, false, available)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.WithContext(ctx).Debug("Stock reserved",
		zap.String("buyer_id", buyerID),
		zap.String("product_id", req.ProductID),
		zap.Int("quantity", resp.Quantity),
		zap.Time("expires_at", resp.ExpiresAt),
	)
	return &resp, nil
}

// UpdateQuantity renews an existing line with a new quantity
func (s *ApplicationService) UpdateQuantity(ctx context.Context, buyerID, productID string, req UpdateQuantityRequest) (*LineResponse, error) {
	existing, err := s.lines.FindLine(ctx, buyerID, productID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, shared.NewNotFoundError("cart_line", productID)
	}
	return s.Reserve(ctx, buyerID, ReserveRequest{ProductID: productID, Quantity: req.Quantity})
}

// Remove drops the line and releases its hold
func (s *ApplicationService) Remove(ctx context.Context, buyerID, productID string) error {
	return s.lines.Delete(ctx, buyerID, productID)
}

// ListCart lines with their expiry state and the stock each could still take
func (s *ApplicationService) ListCart(ctx context.Context, buyerID string) (*CartResponse, error) {
	lines, err := s.lines.ListByCart(ctx, buyerID)
	if err != nil {
		return nil, err
	}

	resp := &CartResponse{BuyerID: buyerID, Lines: make([]LineResponse, 0, len(lines)), Subtotal: shared.ZeroMoney()}
	for _, l := range lines {
		product, err := s.products.FindByID(ctx, l.ProductID())
		if err != nil {
			if errors.Is(err, catalog.ErrProductNotFound) {
				continue
			}
			return nil, err
		}
		available, err := s.ledger.AvailableExcludingCart(ctx, product, buyerID)
		if err != nil {
			return nil, err
		}
		expired := s.ledger.IsExpired(l)
		line := toLineResponse(l, product, expired, available)
		if !expired {
			resp.Subtotal = resp.Subtotal.Add(line.LineTotal)
		}
		resp.Lines = append(resp.Lines, line)
	}
	return resp, nil
}

// AvailableStock physical stock minus every unexpired hold
func (s *ApplicationService) AvailableStock(ctx context.Context, productID string) (*AvailabilityResponse, error) {
	n, err := s.ledger.AvailableStock(ctx, productID)
	if err != nil {
		return nil, err
	}
	return &AvailabilityResponse{ProductID: productID, Available: n}, nil
}

// SweepExpired deletes lapsed lines. Availability never depends on it running.
func (s *ApplicationService) SweepExpired(ctx context.Context) (int64, error) {
	n, err := s.lines.DeleteExpired(ctx, s.ledger.Now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		logger.Info("Expired reservations swept", zap.Int64("count", n))
	}
	return n, nil
}
