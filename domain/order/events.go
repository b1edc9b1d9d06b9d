package order

import (
	"fmt"
	"time"

	"posimarket/domain/shared"
)

const (
	EventOrderPlaced        = "order.placed"
	EventOrderStatusChanged = "order.status_changed"
)

// PlacedEvent a parent order and its sub-orders were committed.
// Recipient fields are read by the notification relay.
type PlacedEvent struct {
	OrderID     string       `json:"order_id"`
	OrderNumber string       `json:"order_number"`
	BuyerID     string       `json:"buyer_id"`
	SubOrderIDs []string     `json:"sub_order_ids"`
	Total       shared.Money `json:"total"`
	Recipients  []string     `json:"recipients"`
	Title       string       `json:"title"`
	Message     string       `json:"message"`
	Kind        string       `json:"kind"`
	Link        string       `json:"link"`
	At          time.Time    `json:"occurred_on"`
}

func newPlacedEvent(parent *Order, subs []*Order, now time.Time) *PlacedEvent {
	ids := make([]string, len(subs))
	for i, s := range subs {
		ids[i] = s.id
	}
	return &PlacedEvent{
		OrderID:     parent.id,
		OrderNumber: parent.number,
		BuyerID:     parent.buyerID,
		SubOrderIDs: ids,
		Total:       parent.total,
		Recipients:  recipients(parent, subs),
		Title:       "Order placed",
		Message:     fmt.Sprintf("Order %s was placed, total %s %s", parent.number, shared.Currency, parent.total),
		Kind:        "ORDER",
		Link:        "/orders/" + parent.id,
		At:          now,
	}
}

func (e *PlacedEvent) EventName() string      { return EventOrderPlaced }
func (e *PlacedEvent) OccurredOn() time.Time  { return e.At }
func (e *PlacedEvent) GetAggregateID() string { return e.OrderID }

// StatusChangedEvent one transition of a parent or sub-order
type StatusChangedEvent struct {
	OrderID     string    `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	From        Status    `json:"from"`
	To          Status    `json:"to"`
	ActorID     string    `json:"actor_id"`
	Note        string    `json:"note,omitempty"`
	Recipients  []string  `json:"recipients"`
	Title       string    `json:"title"`
	Message     string    `json:"message"`
	Kind        string    `json:"kind"`
	Link        string    `json:"link"`
	At          time.Time `json:"occurred_on"`
}

func newStatusChangedEvent(o *Order, children []*Order, from Status, actorID, note string, now time.Time) *StatusChangedEvent {
	return &StatusChangedEvent{
		OrderID:     o.id,
		OrderNumber: o.number,
		From:        from,
		To:          o.status,
		ActorID:     actorID,
		Note:        note,
		Recipients:  recipients(o, children),
		Title:       "Order status updated",
		Message:     fmt.Sprintf("Order %s is now %s", o.number, o.status),
		Kind:        "ORDER_STATUS",
		Link:        "/orders/" + o.rootID(),
		At:          now,
	}
}

func (e *StatusChangedEvent) EventName() string      { return EventOrderStatusChanged }
func (e *StatusChangedEvent) OccurredOn() time.Time  { return e.At }
func (e *StatusChangedEvent) GetAggregateID() string { return e.OrderID }

// recipients buyer first, then every distinct seller in order of appearance
func recipients(o *Order, children []*Order) []string {
	seen := map[string]bool{o.buyerID: true}
	out := []string{o.buyerID}
	add := func(id string) {
		if id != "" && !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	add(o.sellerID)
	for _, c := range children {
		add(c.sellerID)
	}
	return out
}
