package order

import (
	"context"
	"sort"
	"time"

	"posimarket/domain/catalog"
	"posimarket/domain/shared"
	"posimarket/domain/shipping"

	"github.com/shopspring/decimal"
)

// MixedShippingMethod parent shipping method when sellers ship differently
const MixedShippingMethod = "MIXED"

// RequestedLine one cart line as submitted at checkout; SellerID is the client's claim
type RequestedLine struct {
	ProductID string
	SellerID  string
	Quantity  int
}

// GroupLine a validated line with the authoritative product record
type GroupLine struct {
	Product  *catalog.Product
	Quantity int
}

// SellerGroup lines of one seller; derived, never persisted
type SellerGroup struct {
	SellerID string
	Lines    []GroupLine
}

// Subtotal sum of authoritative unit price times quantity
func (g SellerGroup) Subtotal() shared.Money {
	total := shared.ZeroMoney()
	for _, l := range g.Lines {
		total = total.Add(l.Product.Price().Times(l.Quantity))
	}
	return total
}

// ShippingItems lines as the rate calculator sees them
func (g SellerGroup) ShippingItems() []shipping.Item {
	items := make([]shipping.Item, len(g.Lines))
	for i, l := range g.Lines {
		items[i] = shipping.ItemFromProduct(l.Product, l.Quantity)
	}
	return items
}

// StockChecker units of a product the buyer may still take; nil means physical stock
type StockChecker interface {
	Available(ctx context.Context, product *catalog.Product) (int, error)
}

// GroupLines groups requested lines by claimed seller and validates each against the
// product directory. Products are locked in id order so concurrent checkouts over the
// same products cannot deadlock. Any failure rejects the whole checkout.
func GroupLines(ctx context.Context, products catalog.ProductRepository, stock StockChecker, lines []RequestedLine) ([]SellerGroup, error) {
	if len(lines) == 0 {
		return nil, NewEmptyOrderError()
	}

	type key struct{ seller, product string }
	quantities := make(map[key]int)
	var keys []key
	for _, l := range lines {
		if l.Quantity <= 0 {
			return nil, shared.NewDomainError(shared.ErrInvalidInput, "order", "quantity must be at least 1").
				WithField("quantity").
				WithDetail("product_id", l.ProductID)
		}
		if l.ProductID == "" || l.SellerID == "" {
			return nil, shared.NewValidationError("order", "items", "product_id and seller_id are required")
		}
		k := key{l.SellerID, l.ProductID}
		if _, ok := quantities[k]; !ok {
			keys = append(keys, k)
		}
		quantities[k] += l.Quantity
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].product != keys[j].product {
			return keys[i].product < keys[j].product
		}
		return keys[i].seller < keys[j].seller
	})

	bySeller := make(map[string]*SellerGroup)
	for _, k := range keys {
		qty := quantities[k]
		product, err := products.FindByIDForUpdate(ctx, k.product)
		if err != nil {
			return nil, err
		}
		if product.SellerID() != k.seller {
			return nil, NewSellerMismatchError(k.product, k.seller, product.SellerID())
		}
		available := product.Stock()
		if stock != nil {
			if available, err = stock.Available(ctx, product); err != nil {
				return nil, err
			}
		}
		if qty > available {
			return nil, catalog.NewInsufficientStockError(k.product, qty, available)
		}

		g, ok := bySeller[k.seller]
		if !ok {
			g = &SellerGroup{SellerID: k.seller}
			bySeller[k.seller] = g
		}
		g.Lines = append(g.Lines, GroupLine{Product: product, Quantity: qty})
	}

	groups := make([]SellerGroup, 0, len(bySeller))
	for _, g := range bySeller {
		groups = append(groups, *g)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].SellerID < groups[j].SellerID })
	return groups, nil
}

// Checkout everything the decomposition needs, already validated and re-quoted
type Checkout struct {
	BuyerID         string
	DeliveryAddress catalog.Address
	PaymentMethod   string
	CleaningFee     shared.Money
	FeeRate         decimal.Decimal
	Groups          []SellerGroup
	// Shipping server-side quote of the method chosen for each seller
	Shipping map[string]shipping.Option
}

// Decompose builds the parent order and one sub-order per seller group.
//
// Shipping is the sum of the re-quoted prices, split evenly across groups with
// leftover cents going to the first groups in seller id order. The platform fee
// is charged per sub-order and summed on the parent. The cleaning fee is charged
// once on the parent, only when some group ships with the hygiene service.
//
// Nothing is persisted here; the caller saves every returned order and
// decrements stock in the same transaction.
func Decompose(c Checkout, number string, now time.Time, newID func() string) (*Order, []*Order, error) {
	if len(c.Groups) == 0 {
		return nil, nil, NewEmptyOrderError()
	}
	if c.CleaningFee.IsNegative() {
		return nil, nil, shared.NewValidationError("order", "cleaning_fee", "cleaning fee cannot be negative")
	}
	if c.FeeRate.IsNegative() || c.FeeRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return nil, nil, shared.NewValidationError("order", "fee_rate", "platform fee rate must be in [0, 1)")
	}

	groups := make([]SellerGroup, len(c.Groups))
	copy(groups, c.Groups)
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].SellerID < groups[j].SellerID })

	totalShipping := shared.ZeroMoney()
	hygiene := false
	methods := make(map[shipping.Method]bool)
	options := make([]shipping.Option, len(groups))
	for i, g := range groups {
		opt, ok := c.Shipping[g.SellerID]
		if !ok {
			return nil, nil, NewShippingOptionUnavailableError(g.SellerID, "")
		}
		options[i] = opt
		totalShipping = totalShipping.Add(opt.Price.Round())
		methods[opt.MethodCode] = true
		if opt.IncludesHygiene {
			hygiene = true
		}
	}
	shares := totalShipping.SplitEven(len(groups))

	parent := &Order{
		id:              newID(),
		number:          number,
		buyerID:         c.BuyerID,
		status:          StatusPendingPayment,
		shippingCost:    totalShipping,
		deliveryAddress: c.DeliveryAddress,
		paymentMethod:   c.PaymentMethod,
		createdAt:       now,
		updatedAt:       now,
		isNew:           true,
	}
	if len(methods) == 1 {
		parent.shippingMethod = string(options[0].MethodCode)
	} else {
		parent.shippingMethod = MixedShippingMethod
	}

	subtotal := shared.ZeroMoney()
	platformFee := shared.ZeroMoney()
	subs := make([]*Order, len(groups))
	for i, g := range groups {
		sub := &Order{
			id:              newID(),
			number:          SubOrderNumber(number, i+1),
			buyerID:         c.BuyerID,
			sellerID:        g.SellerID,
			parentOrderID:   parent.id,
			status:          StatusPendingPayment,
			shippingCost:    shares[i],
			shippingMethod:  string(options[i].MethodCode),
			deliveryAddress: c.DeliveryAddress,
			paymentMethod:   c.PaymentMethod,
			createdAt:       now,
			updatedAt:       now,
			isNew:           true,
		}
		for _, l := range g.Lines {
			sub.items = append(sub.items, LineItem{
				id:           newID(),
				orderID:      sub.id,
				productID:    l.Product.ID(),
				productTitle: l.Product.Title(),
				quantity:     l.Quantity,
				unitPrice:    l.Product.Price(),
				total:        l.Product.Price().Times(l.Quantity).Round(),
			})
		}
		sub.subtotal = g.Subtotal().Round()
		sub.platformFee = sub.subtotal.MulRate(c.FeeRate).Round()
		sub.cleaningFee = shared.ZeroMoney()
		sub.total = shared.SumMoney(sub.subtotal, sub.shippingCost, sub.platformFee)
		sub.appendHistory(newID(), StatusPendingPayment, "order placed", c.BuyerID, now)

		subtotal = subtotal.Add(sub.subtotal)
		platformFee = platformFee.Add(sub.platformFee)
		subs[i] = sub
	}

	parent.subtotal = subtotal
	parent.platformFee = platformFee
	parent.cleaningFee = shared.ZeroMoney()
	if hygiene {
		parent.cleaningFee = c.CleaningFee.Round()
	}
	parent.total = shared.SumMoney(parent.subtotal, parent.shippingCost, parent.platformFee, parent.cleaningFee)
	parent.appendHistory(newID(), StatusPendingPayment, "order placed", c.BuyerID, now)

	parent.Record(newPlacedEvent(parent, subs, now))
	return parent, subs, nil
}
