package order

import "time"

// Actor who asks for a status change
type Actor struct {
	UserID string
	Admin  bool
}

// SystemActor internal transitions such as payment approval
var SystemActor = Actor{UserID: "system", Admin: true}

// Restock quantity to put back on a product after a cancellation
type Restock struct {
	ProductID string
	Quantity  int
}

// TransitionResult orders to save and stock to restore, all in one transaction
type TransitionResult struct {
	Changed []*Order
	Restock []Restock
}

// CanAccess buyer, a seller of the order or of one of its sub-orders, or an admin
func CanAccess(o *Order, children []*Order, actor Actor) bool {
	if actor.Admin {
		return true
	}
	if actor.UserID == "" {
		return false
	}
	if o.buyerID == actor.UserID || o.sellerID == actor.UserID {
		return true
	}
	for _, c := range children {
		if c.sellerID == actor.UserID {
			return true
		}
	}
	return false
}

// Transition moves o to target.
//
// For a parent order the move cascades to every sub-order that is not already at
// target or cancelled; each of them is validated before anything changes. Entering CANCELLED
// restocks the line items of every cancelled sub-order and stamps the cancellation;
// entering DELIVERED stamps the delivery. Each changed order gets exactly one
// history row, and o records one status_changed event for buyer and sellers.
//
// Leaving PENDING_PAYMENT for PROCESSING is reserved to the payment flow
// (SystemActor) and admins. A sub-order still awaiting payment cannot be
// cancelled on its own, because the parent total it is paid through would not
// shrink. Actors without access get ErrOrderNotFound so the order's existence
// is not leaked.
func Transition(o *Order, children []*Order, target Status, actor Actor, note string, now time.Time, newID func() string) (TransitionResult, error) {
	cascade, err := Plan(o, children, target, actor)
	if err != nil {
		return TransitionResult{}, err
	}

	from := o.status
	result := TransitionResult{Changed: make([]*Order, 0, 1+len(cascade))}
	for _, changed := range append([]*Order{o}, cascade...) {
		changed.moveTo(target, newID(), note, actor.UserID, now)
		result.Changed = append(result.Changed, changed)
		if target == StatusCancelled {
			for _, it := range changed.items {
				result.Restock = append(result.Restock, Restock{ProductID: it.productID, Quantity: it.quantity})
			}
		}
	}

	o.Record(newStatusChangedEvent(o, children, from, actor.UserID, note, now))
	return result, nil
}

// Plan validates a transition without changing anything and returns the
// sub-orders the cascade would move.
func Plan(o *Order, children []*Order, target Status, actor Actor) ([]*Order, error) {
	if !CanAccess(o, children, actor) {
		return nil, NewOrderNotFoundError(o.id)
	}
	if !o.status.CanTransitionTo(target) {
		return nil, NewInvalidTransitionError(o.id, o.status, target)
	}
	if o.status == StatusPendingPayment && target == StatusProcessing && !actor.Admin {
		return nil, NewPaymentRequiredError(o.id)
	}
	if !o.IsParent() && o.status == StatusPendingPayment && target == StatusCancelled {
		return nil, NewCancelWithParentError(o.id, o.parentOrderID)
	}

	var cascade []*Order
	if o.IsParent() {
		for _, c := range children {
			// a sub-order cancelled on its own stays cancelled
			if c.status == target || c.status == StatusCancelled {
				continue
			}
			if !c.status.CanTransitionTo(target) {
				return nil, NewInvalidTransitionError(c.id, c.status, target)
			}
			cascade = append(cascade, c)
		}
	}
	return cascade, nil
}
