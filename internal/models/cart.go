package models

import (
	"time"
)

// Cart 购物车（每个归属者唯一一条）
type Cart struct {
	ID         uint      `gorm:"primarykey" json:"id"`                                      // 主键
	OwnerType  string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_cart_owner" json:"owner_type"` // 归属者类型（guest/user）
	OwnerID    string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_cart_owner" json:"owner_id"`   // 归属者标识（游客令牌或用户ID）
	TotalPrice Money     `gorm:"type:decimal(20,2);not null;default:0" json:"total_price"`  // 总价（随每次变更重算）
	CreatedAt  time.Time `gorm:"index" json:"created_at"`                                   // 创建时间
	UpdatedAt  time.Time `gorm:"index" json:"updated_at"`                                   // 更新时间

	Items []CartItem `gorm:"foreignKey:CartID" json:"items"` // 购物车项
}

// TableName 指定表名
func (Cart) TableName() string {
	return "carts"
}
