package models

import (
	"time"
)

// 支付状态
const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusRejected = "rejected"
	PaymentStatusUnknown  = "unknown"
)

// ShippingAddress 收货地址快照（内嵌到结账单与订单）
type ShippingAddress struct {
	Address    string `gorm:"type:varchar(200)" json:"address"`    // 街道地址
	City       string `gorm:"type:varchar(100)" json:"city"`       // 城市
	PostalCode string `gorm:"type:varchar(20)" json:"postal_code"` // 邮编
	Country    string `gorm:"type:varchar(100)" json:"country"`    // 国家
	Phone      string `gorm:"type:varchar(30)" json:"phone"`       // 联系电话
}

// Complete 地址必填字段是否齐全（电话可选）
func (a ShippingAddress) Complete() bool {
	return a.Address != "" && a.City != "" && a.PostalCode != "" && a.Country != ""
}

// Checkout 结账单（购物车在提交时刻的不可变快照）
type Checkout struct {
	ID              uint            `gorm:"primarykey" json:"id"`                                     // 主键
	UserID          uint            `gorm:"index;not null" json:"user_id"`                            // 用户ID（结账必须登录）
	ShippingAddress ShippingAddress `gorm:"embedded;embeddedPrefix:shipping_" json:"shipping_address"` // 收货地址快照
	PaymentMethod   string          `gorm:"type:varchar(30);not null" json:"payment_method"`          // 支付方式（paypal/stripe）
	TotalPrice      Money           `gorm:"type:decimal(20,2);not null;default:0" json:"total_price"` // 快照总价
	IsPaid          bool            `gorm:"not null;default:false;index" json:"is_paid"`              // 是否已支付
	PaymentStatus   string          `gorm:"type:varchar(20);not null;default:'pending'" json:"payment_status"` // 支付状态
	PaymentDetails  JSON            `gorm:"type:json" json:"payment_details"`                         // 第三方支付回执
	IsFinalized     bool            `gorm:"not null;default:false;index" json:"is_finalized"`         // 是否已生成订单
	OrderID         *uint           `gorm:"index" json:"order_id,omitempty"`                          // 生成的订单ID（审计回链）
	PaidAt          *time.Time      `gorm:"index" json:"paid_at"`                                     // 支付时间
	FinalizedAt     *time.Time      `gorm:"index" json:"finalized_at"`                                // 生成订单时间
	CreatedAt       time.Time       `gorm:"index" json:"created_at"`                                  // 创建时间
	UpdatedAt       time.Time       `gorm:"index" json:"updated_at"`                                  // 更新时间

	Items []CheckoutItem `gorm:"foreignKey:CheckoutID" json:"items"` // 快照行项
}

// TableName 指定表名
func (Checkout) TableName() string {
	return "checkouts"
}

// CheckoutItem 结账单行项快照
type CheckoutItem struct {
	ID            uint      `gorm:"primarykey" json:"id"`                                // 主键
	CheckoutID    uint      `gorm:"index;not null" json:"checkout_id"`                   // 结账单ID
	ProductID     uint      `gorm:"index;not null" json:"product_id"`                    // 商品ID
	Name          string    `gorm:"type:varchar(200);not null" json:"name"`              // 商品名称快照
	Image         string    `gorm:"type:varchar(500)" json:"image"`                      // 商品图片快照
	Price         Money     `gorm:"type:decimal(20,2);not null;default:0" json:"price"`  // 单价快照
	DiscountPrice *Money    `gorm:"type:decimal(20,2)" json:"discount_price,omitempty"`  // 折扣价快照
	Size          string    `gorm:"type:varchar(20);not null;default:''" json:"size"`    // 尺码
	Color         string    `gorm:"type:varchar(30);not null;default:''" json:"color"`   // 颜色
	Quantity      int       `gorm:"not null" json:"quantity"`                            // 数量
	CreatedAt     time.Time `gorm:"index" json:"created_at"`                             // 创建时间
}

// TableName 指定表名
func (CheckoutItem) TableName() string {
	return "checkout_items"
}
