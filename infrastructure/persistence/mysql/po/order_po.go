package po

import (
	"time"

	"posimarket/domain/catalog"
	"posimarket/domain/order"
	"posimarket/domain/shared"

	"github.com/shopspring/decimal"
)

// OrderPO parent order or seller sub-order
// Note: Only used for database mapping, does not contain any business logic
// Defining GORM associations is prohibited here
type OrderPO struct {
	ID             string          `gorm:"primaryKey;size:64"`
	Number         string          `gorm:"size:40;uniqueIndex;not null"`
	BuyerID        string          `gorm:"size:64;index;not null"`
	SellerID       string          `gorm:"size:64;index"`
	ParentOrderID  string          `gorm:"size:64;index"`
	Status         string          `gorm:"size:20;not null"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ShippingCost   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PlatformFee    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CleaningFee    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Total          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ShippingMethod string          `gorm:"size:30"`
	DeliveryStreet string          `gorm:"size:255"`
	DeliveryNumber string          `gorm:"size:20"`
	DeliveryCity   string          `gorm:"size:100"`
	DeliveryState  string          `gorm:"size:2"`
	DeliveryPostal string          `gorm:"size:9"`
	PaymentMethod  string          `gorm:"size:20"`
	CancelledAt    *time.Time
	CancelReason   string `gorm:"size:500"`
	DeliveredAt    *time.Time
	Version        int       `gorm:"not null;default:0"`
	CreatedAt      time.Time `gorm:"index"`
	UpdatedAt      time.Time
}

func (OrderPO) TableName() string {
	return "orders"
}

// OrderItemPO price snapshot; written once with the sub-order
type OrderItemPO struct {
	ID           string          `gorm:"primaryKey;size:64"`
	OrderID      string          `gorm:"size:64;index;not null"`
	ProductID    string          `gorm:"size:64;index;not null"`
	ProductTitle string          `gorm:"size:255;not null"`
	Quantity     int             `gorm:"not null"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Total        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

func (OrderItemPO) TableName() string {
	return "order_items"
}

// OrderHistoryPO append-only status log
type OrderHistoryPO struct {
	ID        string    `gorm:"primaryKey;size:64"`
	OrderID   string    `gorm:"size:64;index:idx_order_created,priority:1;not null"`
	Status    string    `gorm:"size:20;not null"`
	Note      string    `gorm:"size:500"`
	ActorID   string    `gorm:"size:64"`
	CreatedAt time.Time `gorm:"index:idx_order_created,priority:2;not null"`
}

func (OrderHistoryPO) TableName() string {
	return "order_status_history"
}

// FromOrderDomain order row and its item rows
func FromOrderDomain(o *order.Order) (*OrderPO, []OrderItemPO) {
	dto := o.ToDTO()
	a := dto.DeliveryAddress
	orderPO := &OrderPO{
		ID:             dto.ID,
		Number:         dto.Number,
		BuyerID:        dto.BuyerID,
		SellerID:       dto.SellerID,
		ParentOrderID:  dto.ParentOrderID,
		Status:         string(dto.Status),
		Subtotal:       dto.Subtotal.Round().Amount(),
		ShippingCost:   dto.ShippingCost.Round().Amount(),
		PlatformFee:    dto.PlatformFee.Round().Amount(),
		CleaningFee:    dto.CleaningFee.Round().Amount(),
		Total:          dto.Total.Round().Amount(),
		ShippingMethod: dto.ShippingMethod,
		DeliveryStreet: a.Street,
		DeliveryNumber: a.Number,
		DeliveryCity:   a.City,
		DeliveryState:  a.State,
		DeliveryPostal: a.PostalCode,
		PaymentMethod:  dto.PaymentMethod,
		CancelledAt:    dto.CancelledAt,
		CancelReason:   dto.CancelReason,
		DeliveredAt:    dto.DeliveredAt,
		Version:        dto.Version,
		CreatedAt:      dto.CreatedAt,
		UpdatedAt:      dto.UpdatedAt,
	}

	items := make([]OrderItemPO, len(dto.Items))
	for i, it := range dto.Items {
		items[i] = OrderItemPO{
			ID:           it.ID,
			OrderID:      dto.ID,
			ProductID:    it.ProductID,
			ProductTitle: it.ProductTitle,
			Quantity:     it.Quantity,
			UnitPrice:    it.UnitPrice.Round().Amount(),
			Total:        it.Total.Round().Amount(),
		}
	}
	return orderPO, items
}

// FromHistoryDomain rows for history entries not yet inserted
func FromHistoryDomain(entries []order.HistoryEntry) []OrderHistoryPO {
	rows := make([]OrderHistoryPO, len(entries))
	for i, h := range entries {
		rows[i] = OrderHistoryPO{
			ID:        h.ID(),
			OrderID:   h.OrderID(),
			Status:    string(h.Status()),
			Note:      h.Note(),
			ActorID:   h.ActorID(),
			CreatedAt: h.CreatedAt(),
		}
	}
	return rows
}

// ToDomain rebuilds the aggregate from its rows
func (po *OrderPO) ToDomain(items []OrderItemPO, history []OrderHistoryPO) *order.Order {
	dto := order.OrderDTO{
		ID:            po.ID,
		Number:        po.Number,
		BuyerID:       po.BuyerID,
		SellerID:      po.SellerID,
		ParentOrderID: po.ParentOrderID,
		Status:        order.Status(po.Status),
		Subtotal:      shared.NewMoney(po.Subtotal),
		ShippingCost:  shared.NewMoney(po.ShippingCost),
		PlatformFee:   shared.NewMoney(po.PlatformFee),
		CleaningFee:   shared.NewMoney(po.CleaningFee),
		Total:         shared.NewMoney(po.Total),
		DeliveryAddress: catalog.Address{
			Street:     po.DeliveryStreet,
			Number:     po.DeliveryNumber,
			City:       po.DeliveryCity,
			State:      po.DeliveryState,
			PostalCode: po.DeliveryPostal,
		},
		ShippingMethod: po.ShippingMethod,
		PaymentMethod:  po.PaymentMethod,
		CancelledAt:    po.CancelledAt,
		CancelReason:   po.CancelReason,
		DeliveredAt:    po.DeliveredAt,
		Version:        po.Version,
		CreatedAt:      po.CreatedAt,
		UpdatedAt:      po.UpdatedAt,
	}
	for _, it := range items {
		dto.Items = append(dto.Items, order.LineItemDTO{
			ID:           it.ID,
			OrderID:      it.OrderID,
			ProductID:    it.ProductID,
			ProductTitle: it.ProductTitle,
			Quantity:     it.Quantity,
			UnitPrice:    shared.NewMoney(it.UnitPrice),
			Total:        shared.NewMoney(it.Total),
		})
	}
	for _, h := range history {
		dto.History = append(dto.History, order.HistoryEntryDTO{
			ID:        h.ID,
			OrderID:   h.OrderID,
			Status:    order.Status(h.Status),
			Note:      h.Note,
			ActorID:   h.ActorID,
			CreatedAt: h.CreatedAt,
		})
	}
	return order.RebuildFromDTO(dto)
}
