/*
Package catalog Product and user directory consumed by the marketplace core

The directory is owned by the listing and account screens; the core only reads it,
except for physical stock which checkout decrements and cancellation restores.
*/
package catalog

import (
	"time"

	"posimarket/domain/shared"
)

// Condition physical condition of a listed item
type Condition string

const (
	ConditionNew     Condition = "NEW"
	ConditionLikeNew Condition = "LIKE_NEW"
	ConditionUsed    Condition = "USED"
)

// IsSecondHand reports USED or LIKE_NEW
func (c Condition) IsSecondHand() bool {
	return c == ConditionUsed || c == ConditionLikeNew
}

func (c Condition) Valid() bool {
	switch c {
	case ConditionNew, ConditionLikeNew, ConditionUsed:
		return true
	}
	return false
}

// Dimensions package size in centimetres; zero means unknown
type Dimensions struct {
	LengthCm float64
	WidthCm  float64
	HeightCm float64
}

// IsZero reports whether no dimension was recorded
func (d Dimensions) IsZero() bool {
	return d.LengthCm <= 0 || d.WidthCm <= 0 || d.HeightCm <= 0
}

// Product listed item
type Product struct {
	id         string
	sellerID   string
	title      string
	price      shared.Money
	stock      int
	condition  Condition
	weightKg   float64 // 0 when the seller left it blank
	dimensions Dimensions
	createdAt  time.Time
	updatedAt  time.Time
}

// ProductDTO reconstruction data, for repositories and fixtures
type ProductDTO struct {
	ID         string
	SellerID   string
	Title      string
	Price      shared.Money
	Stock      int
	Condition  Condition
	WeightKg   float64
	Dimensions Dimensions
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// RebuildProduct reconstructs a product from stored data
func RebuildProduct(dto ProductDTO) *Product {
	condition := dto.Condition
	if !condition.Valid() {
		condition = ConditionNew
	}
	return &Product{
		id:         dto.ID,
		sellerID:   dto.SellerID,
		title:      dto.Title,
		price:      dto.Price,
		stock:      dto.Stock,
		condition:  condition,
		weightKg:   dto.WeightKg,
		dimensions: dto.Dimensions,
		createdAt:  dto.CreatedAt,
		updatedAt:  dto.UpdatedAt,
	}
}

// ToDTO snapshot of the product
func (p *Product) ToDTO() ProductDTO {
	return ProductDTO{
		ID:         p.id,
		SellerID:   p.sellerID,
		Title:      p.title,
		Price:      p.price,
		Stock:      p.stock,
		Condition:  p.condition,
		WeightKg:   p.weightKg,
		Dimensions: p.dimensions,
		CreatedAt:  p.createdAt,
		UpdatedAt:  p.updatedAt,
	}
}

func (p *Product) ID() string             { return p.id }
func (p *Product) SellerID() string       { return p.sellerID }
func (p *Product) Title() string          { return p.title }
func (p *Product) Price() shared.Money    { return p.price }
func (p *Product) Stock() int             { return p.stock }
func (p *Product) Condition() Condition   { return p.condition }
func (p *Product) WeightKg() float64      { return p.weightKg }
func (p *Product) Dimensions() Dimensions { return p.dimensions }
func (p *Product) CreatedAt() time.Time   { return p.createdAt }
func (p *Product) UpdatedAt() time.Time   { return p.updatedAt }

// IsOneOfAKind a single physical unit
func (p *Product) IsOneOfAKind() bool { return p.stock == 1 }
