/*
Package payment Application Layer - paying a parent order

Submit runs in one unit of work: the gateway answer, the payment record and, on
approval, the move of the parent and every sub-order to PROCESSING commit together.
The gateway is only called once that move is known to succeed, so an authorized
charge is never rolled back by the order side.
*/
package payment

import (
	"context"

	"posimarket/domain/order"
	"posimarket/domain/payment"
	"posimarket/domain/shared"
	"posimarket/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderMover applies a status transition, joining the caller's unit of work
type OrderMover interface {
	Move(ctx context.Context, orderID string, target order.Status, actor order.Actor, note string) error
}

// ApplicationService payment use cases
type ApplicationService struct {
	uowFactory shared.UnitOfWorkFactory
	orders     order.Repository
	payments   payment.Repository
	gateway    payment.Gateway
	mover      OrderMover
	clock      shared.Clock
}

func NewApplicationService(
	uowFactory shared.UnitOfWorkFactory,
	orders order.Repository,
	payments payment.Repository,
	gateway payment.Gateway,
	mover OrderMover,
	clock shared.Clock,
) *ApplicationService {
	return &ApplicationService{
		uowFactory: uowFactory,
		orders:     orders,
		payments:   payments,
		gateway:    gateway,
		mover:      mover,
		clock:      clock,
	}
}

// Submit charges the order total; a rejected or pending payment is retried in place
func (s *ApplicationService) Submit(ctx context.Context, orderID string, actor order.Actor, req SubmitRequest) (*PaymentResponse, error) {
	method, err := payment.ParseMethod(req.Method)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.New()
	var p *payment.Payment
	orderStatus := ""
	err = uow.Execute(ctx, func(ctx context.Context) error {
		o, err := s.orders.FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if o.BuyerID() != actor.UserID {
			return order.NewOrderNotFoundError(orderID)
		}
		if !o.IsParent() {
			return payment.NewNotPayableError(orderID, "a sub-order")
		}

		p, err = s.payments.FindByOrderID(ctx, orderID)
		if err != nil {
			return err
		}
		if p != nil && p.IsApproved() {
			return payment.NewDuplicatePaymentError(orderID)
		}
		if o.Status() != order.StatusPendingPayment {
			return payment.NewNotPayableError(orderID, o.Status().String())
		}
		if !req.Amount.Round().Equals(o.Total()) {
			return payment.NewAmountMismatchError(o.Total(), req.Amount)
		}
		children, err := s.orders.FindChildren(ctx, orderID)
		if err != nil {
			return err
		}
		if _, err := order.Plan(o, children, order.StatusProcessing, order.SystemActor); err != nil {
			logger.WithContext(ctx).Warn("Order cannot accept payment",
				zap.String("order_id", orderID),
				zap.Error(err),
			)
			return payment.NewNotPayableError(orderID, "a sub-order has left PENDING_PAYMENT")
		}

		now := s.clock.Now()
		if p == nil {
			p = payment.NewPayment(uuid.NewString(), orderID, o.BuyerID(), o.Total(), method, now)
			uow.RegisterNew(p)
		} else {
			if err := p.Resubmit(o.Total(), method, now); err != nil {
				return err
			}
			uow.RegisterDirty(p)
		}

		auth, err := s.gateway.Authorize(ctx, payment.Charge{
			PaymentID: p.ID(),
			OrderID:   orderID,
			Amount:    p.Amount(),
			Method:    method,
		})
		if err != nil {
			return err
		}
		p.Apply(auth, o.Number(), now)
		if err := s.payments.Save(ctx, p); err != nil {
			return err
		}

		orderStatus = o.Status().String()
		if p.IsApproved() {
			if err := s.mover.Move(ctx, orderID, order.StatusProcessing, order.SystemActor, "payment approved"); err != nil {
				return err
			}
			orderStatus = order.StatusProcessing.String()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.WithContext(ctx).Info("Payment submitted",
		zap.String("order_id", orderID),
		zap.String("payment_id", p.ID()),
		zap.String("method", string(method)),
		zap.String("status", string(p.Status())),
		zap.Int("attempts", p.Attempts()),
	)
	return toPaymentResponse(p, orderStatus), nil
}

// Get the order's payment, visible to its buyer
func (s *ApplicationService) Get(ctx context.Context, orderID string, actor order.Actor) (*PaymentResponse, error) {
	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.BuyerID() != actor.UserID && !actor.Admin {
		return nil, order.NewOrderNotFoundError(orderID)
	}
	p, err := s.payments.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, shared.NewNotFoundError("payment", orderID)
	}
	return toPaymentResponse(p, o.Status().String()), nil
}
