package order_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	cartapp "posimarket/application/cart"
	"posimarket/application/checkout"
	orderapp "posimarket/application/order"
	shippingapp "posimarket/application/shipping"
	"posimarket/domain/catalog"
	"posimarket/domain/order"
	"posimarket/domain/shared"
	"posimarket/domain/shipping"
	"posimarket/infrastructure/persistence/mocks"

	"github.com/shopspring/decimal"
)

var start = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

var (
	buyer    = order.Actor{UserID: "buyer"}
	ana      = order.Actor{UserID: "ana"}
	escola   = order.Actor{UserID: "escola"}
	stranger = order.Actor{UserID: "stranger"}
	admin    = order.Actor{UserID: "ops", Admin: true}
)

type fixture struct {
	store    *mocks.Store
	products *mocks.ProductRepository
	orders   *orderapp.ApplicationService
	placed   *orderapp.OrderResponse
	clock    *shared.ManualClock
}

// newFixture places one order for "buyer" with a sub-order for ana and one for escola
func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := mocks.NewStore()
	store.PutUser(catalog.UserDTO{ID: "buyer", Kind: catalog.SellerIndividual})
	store.PutUser(catalog.UserDTO{ID: "escola", Kind: catalog.SellerInstitutional, Address: catalog.Address{PostalCode: "13010-001"}})
	store.PutUser(catalog.UserDTO{ID: "ana", Kind: catalog.SellerIndividual, Address: catalog.Address{PostalCode: "04538-133"}})
	store.PutProduct(catalog.ProductDTO{ID: "pens", SellerID: "escola", Title: "Pens", Price: shared.MustParseMoney("10.00"), Stock: 10})
	store.PutProduct(catalog.ProductDTO{ID: "backpack", SellerID: "ana", Title: "Backpack", Price: shared.MustParseMoney("60.00"), Stock: 1,
		Condition: catalog.ConditionUsed})

	clock := shared.NewManualClock(start)
	uows := mocks.NewUnitOfWorkFactory(store)
	products := mocks.NewProductRepository(store)
	users := mocks.NewUserRepository(store)
	lines := mocks.NewCartRepository(store)
	orders := mocks.NewOrderRepository(store)

	carts := cartapp.NewApplicationService(uows, lines, products, users, clock, 15*time.Minute)
	quoter := shipping.NewQuoter(shipping.NewCalculator(shipping.DefaultRateTable(), shipping.HubPostalCode), nil)
	quotes := shippingapp.NewApplicationService(quoter, products, users, lines, clock)
	placer := checkout.NewApplicationService(uows, orders, products, users, lines, carts.Ledger(), quotes,
		decimal.RequireFromString("0.10"), clock)

	placed, err := placer.PlaceOrder(context.Background(), "buyer", checkout.PlaceOrderRequest{
		Items: []checkout.LineRequest{
			{ProductID: "pens", SellerID: "escola", Quantity: 3},
			{ProductID: "backpack", SellerID: "ana", Quantity: 1},
		},
		DeliveryAddress: checkout.AddressRequest{Street: "Rua A", City: "São Paulo", State: "SP", PostalCode: "05409-000"},
		Shipping:        map[string]string{"escola": "STANDARD", "ana": "STANDARD"},
		PaymentMethod:   "PIX",
	})
	if err != nil {
		t.Fatalf("PlaceOrder() error = %v", err)
	}
	clock.Advance(time.Minute)

	return &fixture{
		store:    store,
		products: products,
		orders:   orderapp.NewApplicationService(uows, orders, products, clock),
		placed:   placed,
		clock:    clock,
	}
}

func (f *fixture) sub(seller string) orderapp.OrderResponse {
	for _, s := range f.placed.SubOrders {
		if s.SellerID == seller {
			return s
		}
	}
	return orderapp.OrderResponse{}
}

func (f *fixture) stock(t *testing.T, id string) int {
	t.Helper()
	p, err := f.products.FindByID(context.Background(), id)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	return p.Stock()
}

func (f *fixture) lastEvent(t *testing.T) order.StatusChangedEvent {
	t.Helper()
	events := f.store.OutboxEvents()
	last := events[len(events)-1]
	if last.EventType != order.EventOrderStatusChanged {
		t.Fatalf("last outbox event = %s, want %s", last.EventType, order.EventOrderStatusChanged)
	}
	var ev order.StatusChangedEvent
	if err := json.Unmarshal([]byte(last.Payload), &ev); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	return ev
}

func TestCancelParentCascadesAndRestocks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if f.stock(t, "pens") != 7 || f.stock(t, "backpack") != 0 {
		t.Fatalf("stock after checkout = %d/%d", f.stock(t, "pens"), f.stock(t, "backpack"))
	}

	resp, err := f.orders.Transition(ctx, f.placed.ID, buyer, orderapp.TransitionRequest{Status: "CANCELLED", Note: "changed my mind"})
	if err != nil {
		t.Fatalf("Transition() error = %v", err)
	}

	if resp.Status != "CANCELLED" || resp.CancelledAt == nil || resp.CancelReason != "changed my mind" {
		t.Errorf("parent = %s cancelledAt=%v reason=%q", resp.Status, resp.CancelledAt, resp.CancelReason)
	}
	for _, sub := range resp.SubOrders {
		if sub.Status != "CANCELLED" {
			t.Errorf("sub-order %s status = %s, want CANCELLED", sub.Number, sub.Status)
		}
		if len(sub.History) != 2 {
			t.Errorf("sub-order %s history rows = %d, want 2", sub.Number, len(sub.History))
		}
	}
	if len(resp.History) != 2 {
		t.Errorf("parent history rows = %d, want 2", len(resp.History))
	}
	if got := f.stock(t, "pens"); got != 10 {
		t.Errorf("pens stock = %d, want 10", got)
	}
	if got := f.stock(t, "backpack"); got != 1 {
		t.Errorf("backpack stock = %d, want 1", got)
	}

	ev := f.lastEvent(t)
	want := []string{"buyer", "ana", "escola"}
	if len(ev.Recipients) != len(want) {
		t.Fatalf("recipients = %v, want %v", ev.Recipients, want)
	}
	for i := range want {
		if ev.Recipients[i] != want[i] {
			t.Errorf("recipients = %v, want %v", ev.Recipients, want)
			break
		}
	}
}

func TestSubOrderCancelledAloneStaysCancelled(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	anaSub := f.sub("ana")
	if err := f.orders.Move(ctx, f.placed.ID, order.StatusProcessing, order.SystemActor, "payment approved"); err != nil {
		t.Fatalf("Move() error = %v", err)
	}

	if _, err := f.orders.Transition(ctx, anaSub.ID, ana, orderapp.TransitionRequest{Status: "CANCELLED", Note: "damaged"}); err != nil {
		t.Fatalf("seller cancel error = %v", err)
	}
	if got := f.stock(t, "backpack"); got != 1 {
		t.Fatalf("backpack stock = %d, want 1", got)
	}

	resp, err := f.orders.Transition(ctx, f.placed.ID, buyer, orderapp.TransitionRequest{Status: "CANCELLED"})
	if err != nil {
		t.Fatalf("parent cancel error = %v", err)
	}
	if got := f.stock(t, "backpack"); got != 1 {
		t.Errorf("backpack restocked twice: stock = %d", got)
	}
	if got := f.stock(t, "pens"); got != 10 {
		t.Errorf("pens stock = %d, want 10", got)
	}
	for _, sub := range resp.SubOrders {
		if sub.SellerID == "ana" && (len(sub.History) != 3 || sub.CancelReason != "damaged") {
			t.Errorf("ana sub-order touched by cascade: history=%d reason=%q", len(sub.History), sub.CancelReason)
		}
	}
}

func TestFulfilmentPathToDelivered(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.orders.Move(ctx, f.placed.ID, order.StatusProcessing, order.SystemActor, "payment approved"); err != nil {
		t.Fatalf("Move() error = %v", err)
	}
	sub := f.sub("escola")
	for _, status := range []string{"CONFIRMED", "SHIPPED", "DELIVERED"} {
		f.clock.Advance(time.Hour)
		if _, err := f.orders.Transition(ctx, sub.ID, escola, orderapp.TransitionRequest{Status: status}); err != nil {
			t.Fatalf("Transition(%s) error = %v", status, err)
		}
	}

	got, err := f.orders.Get(ctx, sub.ID, buyer)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Status != "DELIVERED" || !got.Reviewable || got.DeliveredAt == nil {
		t.Errorf("delivered sub-order = %s reviewable=%v deliveredAt=%v", got.Status, got.Reviewable, got.DeliveredAt)
	}
	if len(got.NextStatuses) != 0 {
		t.Errorf("next statuses of a terminal order = %v", got.NextStatuses)
	}
	statuses := make([]string, len(got.History))
	for i, h := range got.History {
		statuses[i] = h.Status
	}
	want := []string{"PENDING_PAYMENT", "PROCESSING", "CONFIRMED", "SHIPPED", "DELIVERED"}
	if len(statuses) != len(want) {
		t.Fatalf("history = %v, want %v", statuses, want)
	}
	for i := range want {
		if statuses[i] != want[i] {
			t.Fatalf("history = %v, want %v", statuses, want)
		}
	}
}

func TestTransitionRejections(t *testing.T) {
	tests := []struct {
		name    string
		actor   order.Actor
		status  string
		wantErr error
	}{
		{"skipping ahead", buyer, "SHIPPED", order.ErrInvalidTransition},
		{"buyer skips payment", buyer, "PROCESSING", order.ErrPaymentRequired},
		{"seller skips payment", ana, "PROCESSING", order.ErrPaymentRequired},
		{"unknown status", buyer, "LOST", shared.ErrInvalidInput},
		{"stranger", stranger, "CANCELLED", order.ErrOrderNotFound},
		{"anonymous", order.Actor{}, "CANCELLED", order.ErrOrderNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			before := len(f.store.OutboxEvents())

			_, err := f.orders.Transition(context.Background(), f.placed.ID, tt.actor, orderapp.TransitionRequest{Status: tt.status})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Transition() error = %v, want %v", err, tt.wantErr)
			}

			got, err := f.orders.Get(context.Background(), f.placed.ID, admin)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if got.Status != "PENDING_PAYMENT" || len(got.History) != 1 {
				t.Errorf("order mutated: status=%s history=%d", got.Status, len(got.History))
			}
			if after := len(f.store.OutboxEvents()); after != before {
				t.Errorf("outbox grew from %d to %d", before, after)
			}
		})
	}
}

func TestInvalidCascadeLeavesEverythingUntouched(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if err := f.orders.Move(ctx, f.placed.ID, order.StatusProcessing, order.SystemActor, ""); err != nil {
		t.Fatalf("Move() error = %v", err)
	}
	if _, err := f.orders.Transition(ctx, f.sub("escola").ID, escola, orderapp.TransitionRequest{Status: "CONFIRMED"}); err != nil {
		t.Fatalf("confirm sub-order error = %v", err)
	}

	// escola's sub-order is CONFIRMED and can no longer be cancelled
	_, err := f.orders.Transition(ctx, f.placed.ID, buyer, orderapp.TransitionRequest{Status: "CANCELLED"})
	if !errors.Is(err, order.ErrInvalidTransition) {
		t.Fatalf("Transition() error = %v, want invalid transition", err)
	}
	got, err := f.orders.Get(ctx, f.placed.ID, buyer)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Status != "PROCESSING" {
		t.Errorf("parent status = %s, want PROCESSING", got.Status)
	}
	for _, sub := range got.SubOrders {
		if sub.Status == "CANCELLED" {
			t.Errorf("sub-order %s cancelled despite failed cascade", sub.Number)
		}
	}
	if got := f.stock(t, "backpack"); got != 0 {
		t.Errorf("backpack stock = %d, want 0", got)
	}
}

func TestVisibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	got, err := f.orders.Get(ctx, f.placed.ID, ana)
	if err != nil {
		t.Fatalf("seller Get() error = %v", err)
	}
	if len(got.SubOrders) != 1 || got.SubOrders[0].SellerID != "ana" {
		t.Errorf("seller sees sub-orders %+v, want only her own", got.SubOrders)
	}

	if _, err := f.orders.Get(ctx, f.placed.ID, stranger); !errors.Is(err, order.ErrOrderNotFound) {
		t.Errorf("stranger Get() error = %v, want not found", err)
	}
	if _, err := f.orders.Get(ctx, "missing", admin); !errors.Is(err, order.ErrOrderNotFound) {
		t.Errorf("missing Get() error = %v, want not found", err)
	}

	mine, err := f.orders.ListBuyerOrders(ctx, "buyer")
	if err != nil || len(mine) != 1 || len(mine[0].SubOrders) != 2 {
		t.Fatalf("ListBuyerOrders() = %d orders, err %v", len(mine), err)
	}

	sales, err := f.orders.ListSellerOrders(ctx, "ana")
	if err != nil || len(sales) != 1 {
		t.Fatalf("ListSellerOrders() = %d, err %v", len(sales), err)
	}
	if got := sales[0].ReportingCommission.String(); got != "3.00" {
		t.Errorf("reporting commission = %s, want 3.00", got)
	}
	if got := sales[0].PlatformFee.String(); got != "6.00" {
		t.Errorf("platform fee = %s, want 6.00", got)
	}
}

func TestUnpaidSubOrderCannotBeAdvancedOrCancelledAlone(t *testing.T) {
	tests := []struct {
		name    string
		actor   order.Actor
		status  string
		wantErr error
	}{
		{"seller processes unpaid sub-order", ana, "PROCESSING", order.ErrPaymentRequired},
		{"seller cancels unpaid sub-order", ana, "CANCELLED", order.ErrCancelWithParent},
		{"buyer cancels one unpaid sub-order", buyer, "CANCELLED", order.ErrCancelWithParent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			_, err := f.orders.Transition(ctx, f.sub("ana").ID, tt.actor, orderapp.TransitionRequest{Status: tt.status})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Transition() error = %v, want %v", err, tt.wantErr)
			}
			got, err := f.orders.Get(ctx, f.sub("ana").ID, admin)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if got.Status != "PENDING_PAYMENT" || len(got.History) != 1 {
				t.Errorf("sub-order mutated: status=%s history=%d", got.Status, len(got.History))
			}
			if stock := f.stock(t, "backpack"); stock != 0 {
				t.Errorf("backpack stock = %d, want 0", stock)
			}
		})
	}
}
