package models

import (
	"time"

	"gorm.io/gorm"
)

// Product 商品表（本服务只读，用于校验并补全购物车行项）
type Product struct {
	ID            uint           `gorm:"primarykey" json:"id"`                               // 主键
	Slug          string         `gorm:"uniqueIndex;not null" json:"slug"`                   // 唯一标识
	Name          string         `gorm:"type:varchar(200);not null" json:"name"`             // 商品名称
	Description   string         `gorm:"type:text" json:"description"`                       // 商品描述
	Price         Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"` // 价格
	DiscountPrice *Money         `gorm:"type:decimal(20,2)" json:"discount_price,omitempty"` // 折扣价
	Images        StringArray    `gorm:"type:json" json:"images"`                            // 图片数组
	Sizes         StringArray    `gorm:"type:json" json:"sizes"`                             // 可选尺码
	Colors        StringArray    `gorm:"type:json" json:"colors"`                            // 可选颜色
	IsActive      bool           `gorm:"default:true;index" json:"is_active"`                // 是否上架
	SortOrder     int            `gorm:"default:0;index" json:"sort_order"`                  // 排序权重
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`                            // 创建时间
	UpdatedAt     time.Time      `json:"updated_at"`                                         // 更新时间
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`                                     // 软删除时间
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}

// CoverImage 首图（无图返回空串）
func (p Product) CoverImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// HasVariant 商品是否提供指定尺码与颜色
func (p Product) HasVariant(size, color string) bool {
	if size != "" && !contains(p.Sizes, size) {
		return false
	}
	if color != "" && !contains(p.Colors, color) {
		return false
	}
	return true
}

func contains(list StringArray, target string) bool {
	for _, v := range list {
		if v == target {
			return true
		}
	}
	return false
}
