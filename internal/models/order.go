package models

import (
	"time"

	"gorm.io/gorm"
)

// 订单状态
const (
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// Order 订单表（由已支付结账单一次性生成）
type Order struct {
	ID              uint            `gorm:"primarykey" json:"id"`                                      // 主键
	OrderNo         string          `gorm:"uniqueIndex;not null" json:"order_no"`                      // 订单编号
	CheckoutID      uint            `gorm:"uniqueIndex;not null" json:"checkout_id"`                   // 来源结账单ID（每单唯一）
	UserID          uint            `gorm:"index;not null" json:"user_id"`                             // 用户ID
	Status          string          `gorm:"type:varchar(20);index;not null" json:"status"`             // 订单状态
	ShippingAddress ShippingAddress `gorm:"embedded;embeddedPrefix:shipping_" json:"shipping_address"` // 收货地址快照
	PaymentMethod   string          `gorm:"type:varchar(30);not null" json:"payment_method"`           // 支付方式
	TotalPrice      Money           `gorm:"type:decimal(20,2);not null;default:0" json:"total_price"`  // 实付金额
	IsPaid          bool            `gorm:"not null;default:false" json:"is_paid"`                     // 是否已支付
	PaidAt          *time.Time      `gorm:"index" json:"paid_at"`                                      // 支付时间
	IsDelivered     bool            `gorm:"not null;default:false" json:"is_delivered"`                // 是否已送达
	DeliveredAt     *time.Time      `gorm:"index" json:"delivered_at"`                                 // 送达时间（仅设置一次）
	CancelledAt     *time.Time      `gorm:"index" json:"cancelled_at"`                                 // 取消时间
	CreatedAt       time.Time       `gorm:"index" json:"created_at"`                                   // 创建时间
	UpdatedAt       time.Time       `gorm:"index" json:"updated_at"`                                   // 更新时间
	DeletedAt       gorm.DeletedAt  `gorm:"index" json:"-"`                                            // 软删除时间

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"` // 订单项
	User  *User       `gorm:"foreignKey:UserID" json:"user,omitempty"`   // 下单用户（管理端投影）
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
