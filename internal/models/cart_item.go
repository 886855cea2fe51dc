package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem 购物车项（按商品+尺码+颜色唯一）
type CartItem struct {
	ID            uint      `gorm:"primarykey" json:"id"`                                                           // 主键
	CartID        uint      `gorm:"not null;uniqueIndex:idx_cart_variant" json:"cart_id"`                           // 购物车ID
	ProductID     uint      `gorm:"not null;uniqueIndex:idx_cart_variant" json:"product_id"`                        // 商品ID
	Size          string    `gorm:"type:varchar(20);not null;default:'';uniqueIndex:idx_cart_variant" json:"size"`  // 尺码
	Color         string    `gorm:"type:varchar(30);not null;default:'';uniqueIndex:idx_cart_variant" json:"color"` // 颜色
	Name          string    `gorm:"type:varchar(200);not null" json:"name"`                                         // 商品名称快照
	Image         string    `gorm:"type:varchar(500)" json:"image"`                                                 // 商品图片快照
	Price         Money     `gorm:"type:decimal(20,2);not null;default:0" json:"price"`                             // 加入时单价快照
	DiscountPrice *Money    `gorm:"type:decimal(20,2)" json:"discount_price,omitempty"`                             // 加入时折扣价快照
	Quantity      int       `gorm:"not null" json:"quantity"`                                                       // 数量（>=1）
	CreatedAt     time.Time `gorm:"index" json:"created_at"`                                                        // 创建时间
	UpdatedAt     time.Time `gorm:"index" json:"updated_at"`                                                        // 更新时间
}

// TableName 指定表名
func (CartItem) TableName() string {
	return "cart_items"
}

// EffectivePrice 生效单价（有折扣价取折扣价）
func (it CartItem) EffectivePrice() Money {
	if it.DiscountPrice != nil && it.DiscountPrice.GreaterThan(decimal.Zero) {
		return *it.DiscountPrice
	}
	return it.Price
}

// LineTotal 行小计（生效单价 × 数量）
func (it CartItem) LineTotal() Money {
	return NewMoneyFromDecimal(it.EffectivePrice().Mul(decimal.NewFromInt(int64(it.Quantity))))
}
