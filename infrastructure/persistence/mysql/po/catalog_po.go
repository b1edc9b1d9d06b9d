package po

import (
	"time"

	"posimarket/domain/catalog"
	"posimarket/domain/shared"

	"github.com/shopspring/decimal"
)

// ProductPO listing row; stock is physical stock
type ProductPO struct {
	ID        string          `gorm:"primaryKey;size:64"`
	SellerID  string          `gorm:"size:64;index;not null"`
	Title     string          `gorm:"size:255;not null"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Stock     int             `gorm:"not null;default:0"`
	Condition string          `gorm:"size:20;not null;default:NEW"`
	WeightKg  float64         `gorm:"not null;default:0"`
	LengthCm  float64         `gorm:"not null;default:0"`
	WidthCm   float64         `gorm:"not null;default:0"`
	HeightCm  float64         `gorm:"not null;default:0"`
	CreatedAt time.Time       `gorm:"autoCreateTime"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime"`
}

func (ProductPO) TableName() string {
	return "products"
}

func FromProductDomain(p *catalog.Product) *ProductPO {
	dto := p.ToDTO()
	return &ProductPO{
		ID:        dto.ID,
		SellerID:  dto.SellerID,
		Title:     dto.Title,
		Price:     dto.Price.Round().Amount(),
		Stock:     dto.Stock,
		Condition: string(dto.Condition),
		WeightKg:  dto.WeightKg,
		LengthCm:  dto.Dimensions.LengthCm,
		WidthCm:   dto.Dimensions.WidthCm,
		HeightCm:  dto.Dimensions.HeightCm,
		CreatedAt: dto.CreatedAt,
		UpdatedAt: dto.UpdatedAt,
	}
}

func (po *ProductPO) ToDomain() *catalog.Product {
	return catalog.RebuildProduct(catalog.ProductDTO{
		ID:        po.ID,
		SellerID:  po.SellerID,
		Title:     po.Title,
		Price:     shared.NewMoney(po.Price),
		Stock:     po.Stock,
		Condition: catalog.Condition(po.Condition),
		WeightKg:  po.WeightKg,
		Dimensions: catalog.Dimensions{
			LengthCm: po.LengthCm,
			WidthCm:  po.WidthCm,
			HeightCm: po.HeightCm,
		},
		CreatedAt: po.CreatedAt,
		UpdatedAt: po.UpdatedAt,
	})
}

// UserPO account row as the core reads it
type UserPO struct {
	ID         string    `gorm:"primaryKey;size:64"`
	Name       string    `gorm:"size:100;not null"`
	Email      string    `gorm:"size:255;index"`
	Kind       string    `gorm:"size:20;not null;default:INDIVIDUAL"`
	Role       string    `gorm:"size:20;not null;default:USER"`
	Street     string    `gorm:"size:255"`
	Number     string    `gorm:"size:20"`
	City       string    `gorm:"size:100"`
	State      string    `gorm:"size:2"`
	PostalCode string    `gorm:"size:9"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

func (UserPO) TableName() string {
	return "users"
}

func FromUserDomain(u *catalog.User) *UserPO {
	a := u.Address()
	return &UserPO{
		ID:         u.ID(),
		Name:       u.Name(),
		Email:      u.Email(),
		Kind:       string(u.Kind()),
		Role:       string(u.Role()),
		Street:     a.Street,
		Number:     a.Number,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		CreatedAt:  u.CreatedAt(),
	}
}

func (po *UserPO) ToDomain() *catalog.User {
	return catalog.RebuildUser(catalog.UserDTO{
		ID:    po.ID,
		Name:  po.Name,
		Email: po.Email,
		Kind:  catalog.SellerKind(po.Kind),
		Role:  catalog.Role(po.Role),
		Address: catalog.Address{
			Street:     po.Street,
			Number:     po.Number,
			City:       po.City,
			State:      po.State,
			PostalCode: po.PostalCode,
		},
		CreatedAt: po.CreatedAt,
	})
}
