/*
Package order Multi-vendor orders

A checkout produces one parent order for the buyer and one sub-order per seller.
The parent carries the grand totals and the cleaning fee; each sub-order carries
its own line items, shipping share and platform fee. Both kinds move through the
same status graph, and every move appends one history row.

Fields are private. Repositories rebuild aggregates through OrderDTO and read
them back through ToDTO.
*/
package order

import (
	"time"

	"posimarket/domain/catalog"
	"posimarket/domain/shared"

	"github.com/shopspring/decimal"
)

// ReportingCommissionRate figure shown in seller financial summaries.
// It never moves money; the platform fee charged at checkout uses the configured fee rate.
var ReportingCommissionRate = decimal.RequireFromString("0.05")

// Order aggregate root for both parent orders and seller sub-orders
type Order struct {
	id              string
	number          string
	buyerID         string
	sellerID        string // set on sub-orders only
	parentOrderID   string // empty on parents
	status          Status
	subtotal        shared.Money
	shippingCost    shared.Money
	platformFee     shared.Money
	cleaningFee     shared.Money
	total           shared.Money
	shippingMethod  string
	deliveryAddress catalog.Address
	paymentMethod   string
	items           []LineItem
	history         []HistoryEntry
	cancelledAt     *time.Time
	cancelReason    string
	deliveredAt     *time.Time
	version         int
	createdAt       time.Time
	updatedAt       time.Time

	// history rows appended since load, inserted by the repository on save
	pendingHistory int
	isNew          bool

	shared.EventRecorder
}

// LineItem immutable price snapshot of one product on a sub-order
type LineItem struct {
	id           string
	orderID      string
	productID    string
	productTitle string
	quantity     int
	unitPrice    shared.Money
	total        shared.Money
}

// HistoryEntry append-only status log row
type HistoryEntry struct {
	id        string
	orderID   string
	status    Status
	note      string
	actorID   string
	createdAt time.Time
}

// ============================================================================
// Reconstruction DTOs - repository use only
// ============================================================================

// OrderDTO flat shape of an order row plus its children
type OrderDTO struct {
	ID              string
	Number          string
	BuyerID         string
	SellerID        string
	ParentOrderID   string
	Status          Status
	Subtotal        shared.Money
	ShippingCost    shared.Money
	PlatformFee     shared.Money
	CleaningFee     shared.Money
	Total           shared.Money
	ShippingMethod  string
	DeliveryAddress catalog.Address
	PaymentMethod   string
	Items           []LineItemDTO
	History         []HistoryEntryDTO
	CancelledAt     *time.Time
	CancelReason    string
	DeliveredAt     *time.Time
	Version         int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type LineItemDTO struct {
	ID           string
	OrderID      string
	ProductID    string
	ProductTitle string
	Quantity     int
	UnitPrice    shared.Money
	Total        shared.Money
}

type HistoryEntryDTO struct {
	ID        string
	OrderID   string
	Status    Status
	Note      string
	ActorID   string
	CreatedAt time.Time
}

// RebuildFromDTO restores a persisted order; it has no pending changes
func RebuildFromDTO(dto OrderDTO) *Order {
	o := &Order{
		id:              dto.ID,
		number:          dto.Number,
		buyerID:         dto.BuyerID,
		sellerID:        dto.SellerID,
		parentOrderID:   dto.ParentOrderID,
		status:          dto.Status,
		subtotal:        dto.Subtotal,
		shippingCost:    dto.ShippingCost,
		platformFee:     dto.PlatformFee,
		cleaningFee:     dto.CleaningFee,
		total:           dto.Total,
		shippingMethod:  dto.ShippingMethod,
		deliveryAddress: dto.DeliveryAddress,
		paymentMethod:   dto.PaymentMethod,
		cancelledAt:     dto.CancelledAt,
		cancelReason:    dto.CancelReason,
		deliveredAt:     dto.DeliveredAt,
		version:         dto.Version,
		createdAt:       dto.CreatedAt,
		updatedAt:       dto.UpdatedAt,
	}
	for _, it := range dto.Items {
		o.items = append(o.items, LineItem{
			id:           it.ID,
			orderID:      it.OrderID,
			productID:    it.ProductID,
			productTitle: it.ProductTitle,
			quantity:     it.Quantity,
			unitPrice:    it.UnitPrice,
			total:        it.Total,
		})
	}
	for _, h := range dto.History {
		o.history = append(o.history, HistoryEntry{
			id:        h.ID,
			orderID:   h.OrderID,
			status:    h.Status,
			note:      h.Note,
			actorID:   h.ActorID,
			createdAt: h.CreatedAt,
		})
	}
	return o
}

// ToDTO snapshot of the full aggregate
func (o *Order) ToDTO() OrderDTO {
	dto := OrderDTO{
		ID:              o.id,
		Number:          o.number,
		BuyerID:         o.buyerID,
		SellerID:        o.sellerID,
		ParentOrderID:   o.parentOrderID,
		Status:          o.status,
		Subtotal:        o.subtotal,
		ShippingCost:    o.shippingCost,
		PlatformFee:     o.platformFee,
		CleaningFee:     o.cleaningFee,
		Total:           o.total,
		ShippingMethod:  o.shippingMethod,
		DeliveryAddress: o.deliveryAddress,
		PaymentMethod:   o.paymentMethod,
		CancelledAt:     o.cancelledAt,
		CancelReason:    o.cancelReason,
		DeliveredAt:     o.deliveredAt,
		Version:         o.version,
		CreatedAt:       o.createdAt,
		UpdatedAt:       o.updatedAt,
	}
	for _, it := range o.items {
		dto.Items = append(dto.Items, it.ToDTO())
	}
	for _, h := range o.history {
		dto.History = append(dto.History, h.ToDTO())
	}
	return dto
}

func (it LineItem) ToDTO() LineItemDTO {
	return LineItemDTO{
		ID:           it.id,
		OrderID:      it.orderID,
		ProductID:    it.productID,
		ProductTitle: it.productTitle,
		Quantity:     it.quantity,
		UnitPrice:    it.unitPrice,
		Total:        it.total,
	}
}

func (h HistoryEntry) ToDTO() HistoryEntryDTO {
	return HistoryEntryDTO{
		ID:        h.id,
		OrderID:   h.orderID,
		Status:    h.status,
		Note:      h.note,
		ActorID:   h.actorID,
		CreatedAt: h.createdAt,
	}
}

// ============================================================================
// State changes
// ============================================================================

func (o *Order) appendHistory(id string, status Status, note, actorID string, now time.Time) {
	o.history = append(o.history, HistoryEntry{
		id:        id,
		orderID:   o.id,
		status:    status,
		note:      note,
		actorID:   actorID,
		createdAt: now,
	})
	o.pendingHistory++
}

// moveTo applies a validated transition and its timestamps
func (o *Order) moveTo(target Status, historyID, note, actorID string, now time.Time) {
	o.status = target
	o.updatedAt = now
	switch target {
	case StatusCancelled:
		t := now
		o.cancelledAt = &t
		o.cancelReason = note
	case StatusDelivered:
		t := now
		o.deliveredAt = &t
	}
	o.appendHistory(historyID, target, note, actorID, now)
}

// ============================================================================
// Persistence tracking - repository use only
// ============================================================================

// IsNew created in this unit of work and not yet inserted
func (o *Order) IsNew() bool { return o.isNew }

// PendingHistory history rows appended since load
func (o *Order) PendingHistory() []HistoryEntry {
	if o.pendingHistory == 0 {
		return nil
	}
	start := len(o.history) - o.pendingHistory
	pending := make([]HistoryEntry, o.pendingHistory)
	copy(pending, o.history[start:])
	return pending
}

// MarkPersisted clears tracking and bumps the version after a successful save
func (o *Order) MarkPersisted() {
	if !o.isNew {
		o.version++
	}
	o.isNew = false
	o.pendingHistory = 0
}

// ============================================================================
// Getters
// ============================================================================

func (o *Order) ID() string                       { return o.id }
func (o *Order) Number() string                   { return o.number }
func (o *Order) BuyerID() string                  { return o.buyerID }
func (o *Order) SellerID() string                 { return o.sellerID }
func (o *Order) ParentOrderID() string            { return o.parentOrderID }
func (o *Order) Status() Status                   { return o.status }
func (o *Order) Subtotal() shared.Money           { return o.subtotal }
func (o *Order) ShippingCost() shared.Money       { return o.shippingCost }
func (o *Order) PlatformFee() shared.Money        { return o.platformFee }
func (o *Order) CleaningFee() shared.Money        { return o.cleaningFee }
func (o *Order) Total() shared.Money              { return o.total }
func (o *Order) ShippingMethod() string           { return o.shippingMethod }
func (o *Order) DeliveryAddress() catalog.Address { return o.deliveryAddress }
func (o *Order) PaymentMethod() string            { return o.paymentMethod }
func (o *Order) CancelledAt() *time.Time          { return o.cancelledAt }
func (o *Order) CancelReason() string             { return o.cancelReason }
func (o *Order) DeliveredAt() *time.Time          { return o.deliveredAt }
func (o *Order) Version() int                     { return o.version }
func (o *Order) CreatedAt() time.Time             { return o.createdAt }
func (o *Order) UpdatedAt() time.Time             { return o.updatedAt }

// IsParent true for the buyer-facing order that groups sub-orders
func (o *Order) IsParent() bool { return o.parentOrderID == "" }

// ReportingCommission subtotal at the reporting rate, for display only
func (o *Order) ReportingCommission() shared.Money {
	return o.subtotal.MulRate(ReportingCommissionRate).Round()
}

// IsReviewable buyers may review the purchase once it is delivered
func (o *Order) IsReviewable() bool { return o.status == StatusDelivered }

// Items copy of the line items
func (o *Order) Items() []LineItem {
	items := make([]LineItem, len(o.items))
	copy(items, o.items)
	return items
}

// History copy of the status log, oldest first
func (o *Order) History() []HistoryEntry {
	history := make([]HistoryEntry, len(o.history))
	copy(history, o.history)
	return history
}

func (o *Order) rootID() string {
	if o.parentOrderID != "" {
		return o.parentOrderID
	}
	return o.id
}

func (it LineItem) ID() string              { return it.id }
func (it LineItem) OrderID() string         { return it.orderID }
func (it LineItem) ProductID() string       { return it.productID }
func (it LineItem) ProductTitle() string    { return it.productTitle }
func (it LineItem) Quantity() int           { return it.quantity }
func (it LineItem) UnitPrice() shared.Money { return it.unitPrice }
func (it LineItem) Total() shared.Money     { return it.total }

func (h HistoryEntry) ID() string           { return h.id }
func (h HistoryEntry) OrderID() string      { return h.orderID }
func (h HistoryEntry) Status() Status       { return h.status }
func (h HistoryEntry) Note() string         { return h.note }
func (h HistoryEntry) ActorID() string      { return h.actorID }
func (h HistoryEntry) CreatedAt() time.Time { return h.createdAt }

var _ shared.AggregateRoot = (*Order)(nil)
