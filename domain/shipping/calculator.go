/*
Package shipping Shipping rate calculation

Three carrier policies are priced per seller group:

	STANDARD               base + per-kg, slow
	EXPRESS                higher base + per-kg, fast
	REGIONAL_CONSOLIDATED  discounted pickup + delivery with hygiene service,
	                       metro area only, second-hand items only

Distance is a proxy computed from the numeric gap between postal codes. It is a
deliberate low-fidelity stand-in for geocoding.
*/
package shipping

import (
	"math"

	"posimarket/domain/catalog"
	"posimarket/domain/shared"

	"github.com/shopspring/decimal"
)

// Metropolitan postal code range served by the regional consolidated service
const (
	MetroRangeStart int64 = 1000000
	MetroRangeEnd   int64 = 9999999
)

// HubPostalCode platform warehouse, also the fallback origin
const HubPostalCode = "01310100"

// Item defaults applied when a listing has no weight or dimensions
const (
	DefaultItemWeightKg = 0.5
	DefaultItemLengthCm = 20.0
	DefaultItemWidthCm  = 15.0
	DefaultItemHeightCm = 5.0
)

// RateTable pricing constants
type RateTable struct {
	MinWeightKg float64
	MaxWeightKg float64

	DistanceDivisor float64
	MaxDistance     float64

	VolumeThresholdL  float64
	VolumeSurchargePL decimal.Decimal // per litre

	StandardBase     decimal.Decimal
	StandardPerKg    decimal.Decimal
	StandardBaseDays int
	StandardDayStep  float64

	ExpressBase     decimal.Decimal
	ExpressPerKg    decimal.Decimal
	ExpressBaseDays int
	ExpressDayStep  float64

	RegionalCollection decimal.Decimal
	RegionalDelivery   decimal.Decimal
	RegionalPerKg      decimal.Decimal
	RegionalDiscount   decimal.Decimal // multiplier applied to the sum
	RegionalDays       int
}

// DefaultRateTable marketplace rates
func DefaultRateTable() RateTable {
	return RateTable{
		MinWeightKg: 0.3,
		MaxWeightKg: 30,

		DistanceDivisor: 25000,
		MaxDistance:     3000,

		VolumeThresholdL:  20,
		VolumeSurchargePL: decimal.RequireFromString("0.15"),

		StandardBase:     decimal.RequireFromString("12.00"),
		StandardPerKg:    decimal.RequireFromString("4.50"),
		StandardBaseDays: 3,
		StandardDayStep:  500,

		ExpressBase:     decimal.RequireFromString("22.00"),
		ExpressPerKg:    decimal.RequireFromString("7.80"),
		ExpressBaseDays: 1,
		ExpressDayStep:  1000,

		RegionalCollection: decimal.RequireFromString("8.00"),
		RegionalDelivery:   decimal.RequireFromString("10.00"),
		RegionalPerKg:      decimal.RequireFromString("1.50"),
		RegionalDiscount:   decimal.RequireFromString("0.85"),
		RegionalDays:       2,
	}
}

// Item one product line in a shipment
type Item struct {
	Quantity   int
	WeightKg   float64 // per unit; 0 means unknown
	Dimensions catalog.Dimensions
	Condition  catalog.Condition
}

// ItemFromProduct builds a shipment item from a listing
func ItemFromProduct(p *catalog.Product, quantity int) Item {
	return Item{
		Quantity:   quantity,
		WeightKg:   p.WeightKg(),
		Dimensions: p.Dimensions(),
		Condition:  p.Condition(),
	}
}

// Origin where a seller group ships from
type Origin struct {
	PostalCode PostalCode
	// Approximate the seller had no usable address and the hub was used instead
	Approximate bool
}

// ResolveOrigin picks the hub for the platform operator, otherwise the seller's
// registered address, falling back to the hub (flagged approximate) when missing.
func (c *Calculator) ResolveOrigin(kind catalog.SellerKind, address catalog.Address) Origin {
	if kind == catalog.SellerPlatform {
		return Origin{PostalCode: c.hub}
	}
	if code, err := ParsePostalCode(address.PostalCode); err == nil {
		return Origin{PostalCode: code}
	}
	return Origin{PostalCode: c.hub, Approximate: true}
}

// Shipment aggregated physical figures of a seller group
type Shipment struct {
	WeightKg   float64
	VolumeL    float64
	SecondHand bool // every item is USED or LIKE_NEW
}

// Calculator local rate engine; pure and safe for concurrent use
type Calculator struct {
	rates RateTable
	hub   PostalCode
}

// NewCalculator hub is the platform warehouse; an invalid value falls back to HubPostalCode
func NewCalculator(rates RateTable, hub string) *Calculator {
	code, err := ParsePostalCode(hub)
	if err != nil {
		code = HubPostalCode
	}
	return &Calculator{rates: rates, hub: code}
}

// Hub platform warehouse postal code
func (c *Calculator) Hub() PostalCode { return c.hub }

// Rates returns the table in use
func (c *Calculator) Rates() RateTable { return c.rates }

// Calculate prices every eligible policy for one seller group.
// Options come back in fixed carrier order; REGIONAL_CONSOLIDATED is absent when ineligible.
func (c *Calculator) Calculate(origin PostalCode, destination string, items []Item) ([]Option, error) {
	dest, err := ParsePostalCode(destination)
	if err != nil {
		return nil, err
	}
	if _, err := ParsePostalCode(string(origin)); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, NewEmptyItemsError()
	}

	shipment := c.Aggregate(items)
	distance := c.Distance(origin, dest)

	options := []Option{
		c.standard(shipment, distance),
		c.express(shipment, distance),
	}
	if c.RegionalEligible(origin, dest, shipment) {
		options = append(options, c.regional(shipment))
	}
	return options, nil
}

// Aggregate sums weight and volume with defaults, clamping weight to carrier bounds
func (c *Calculator) Aggregate(items []Item) Shipment {
	var weight, volume float64
	secondHand := len(items) > 0
	for _, it := range items {
		qty := it.Quantity
		if qty <= 0 {
			qty = 1
		}
		w := it.WeightKg
		if w <= 0 {
			w = DefaultItemWeightKg
		}
		dims := it.Dimensions
		if dims.IsZero() {
			dims = catalog.Dimensions{LengthCm: DefaultItemLengthCm, WidthCm: DefaultItemWidthCm, HeightCm: DefaultItemHeightCm}
		}
		weight += w * float64(qty)
		volume += dims.LengthCm * dims.WidthCm * dims.HeightCm / 1000 * float64(qty)
		if !it.Condition.IsSecondHand() {
			secondHand = false
		}
	}
	weight = math.Min(math.Max(weight, c.rates.MinWeightKg), c.rates.MaxWeightKg)
	return Shipment{WeightKg: weight, VolumeL: volume, SecondHand: secondHand}
}

// Distance proxy: |origin - destination| / divisor, capped
func (c *Calculator) Distance(origin, destination PostalCode) float64 {
	gap := math.Abs(float64(origin.Number() - destination.Number()))
	return math.Min(gap/c.rates.DistanceDivisor, c.rates.MaxDistance)
}

// RegionalEligible both ends in the metro range and every item second-hand
func (c *Calculator) RegionalEligible(origin, destination PostalCode, s Shipment) bool {
	return origin.InMetroArea() && destination.InMetroArea() && s.SecondHand
}

func (c *Calculator) standard(s Shipment, distance float64) Option {
	price := c.rates.StandardBase.Add(c.rates.StandardPerKg.Mul(decimal.NewFromFloat(s.WeightKg)))
	return Option{
		Name:         "Standard Parcel",
		Company:      "National Post",
		Price:        c.withSurcharge(price, s).Round(),
		LeadTimeDays: c.rates.StandardBaseDays + int(math.Floor(distance/c.rates.StandardDayStep)),
		MethodCode:   MethodStandard,
	}
}

func (c *Calculator) express(s Shipment, distance float64) Option {
	price := c.rates.ExpressBase.Add(c.rates.ExpressPerKg.Mul(decimal.NewFromFloat(s.WeightKg)))
	return Option{
		Name:         "Express Parcel",
		Company:      "National Post",
		Price:        c.withSurcharge(price, s).Round(),
		LeadTimeDays: c.rates.ExpressBaseDays + int(math.Floor(distance/c.rates.ExpressDayStep)),
		MethodCode:   MethodExpress,
	}
}

func (c *Calculator) regional(s Shipment) Option {
	price := c.rates.RegionalCollection.
		Add(c.rates.RegionalDelivery).
		Add(c.rates.RegionalPerKg.Mul(decimal.NewFromFloat(s.WeightKg))).
		Mul(c.rates.RegionalDiscount)
	return Option{
		Name:            "Regional Pickup & Delivery",
		Company:         "PosiMarket Local",
		Price:           shared.NewMoney(price).Round(),
		LeadTimeDays:    c.rates.RegionalDays,
		MethodCode:      MethodRegionalConsolidated,
		IncludesHygiene: true,
		IncludesPickup:  true,
	}
}

func (c *Calculator) withSurcharge(price decimal.Decimal, s Shipment) shared.Money {
	if s.VolumeL > c.rates.VolumeThresholdL {
		price = price.Add(decimal.NewFromFloat(s.VolumeL).Mul(c.rates.VolumeSurchargePL))
	}
	return shared.NewMoney(price)
}
