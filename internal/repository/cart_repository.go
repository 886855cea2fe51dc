package repository

import (
	"errors"

	"github.com/threadway-shop/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartRepository 购物车数据访问接口
type CartRepository interface {
	GetByOwner(ownerType, ownerID string) (*models.Cart, error)
	GetOrCreate(ownerType, ownerID string) (*models.Cart, error)
	SetItemQuantity(item *models.CartItem) error
	AddItemQuantity(item *models.CartItem) error
	DeleteItem(cartID, productID uint, size, color string) error
	ClearItems(cartID uint) error
	DeleteCart(cartID uint) error
	UpdateTotal(cartID uint, total models.Money) error
	ListItems(cartID uint) ([]models.CartItem, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) *GormCartRepository
}

// GormCartRepository GORM 实现
type GormCartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓库
func NewCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCartRepository) WithTx(tx *gorm.DB) *GormCartRepository {
	if tx == nil {
		return r
	}
	return &GormCartRepository{db: tx}
}

// Transaction 执行事务
func (r *GormCartRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// GetByOwner 按归属者获取购物车（不存在返回 nil）
func (r *GormCartRepository) GetByOwner(ownerType, ownerID string) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("cart_items.id asc")
	}).Where("owner_type = ? AND owner_id = ?", ownerType, ownerID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// GetOrCreate 按归属者获取购物车，不存在时惰性创建
// 借助唯一索引消解并发首次创建的竞争
func (r *GormCartRepository) GetOrCreate(ownerType, ownerID string) (*models.Cart, error) {
	cart := models.Cart{OwnerType: ownerType, OwnerID: ownerID}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner_type"}, {Name: "owner_id"}},
		DoNothing: true,
	}).Create(&cart).Error
	if err != nil {
		return nil, err
	}
	return r.GetByOwner(ownerType, ownerID)
}

// SetItemQuantity 以目标数量写入购物车项（按变体键 upsert，避免读改写竞争）
func (r *GormCartRepository) SetItemQuantity(item *models.CartItem) error {
	if item == nil {
		return nil
	}
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "cart_id"}, {Name: "product_id"}, {Name: "size"}, {Name: "color"},
		},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   item.Quantity,
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		}),
	}).Create(item).Error
}

// AddItemQuantity 以增量方式合并购物车项（合并游客购物车时使用）
func (r *GormCartRepository) AddItemQuantity(item *models.CartItem) error {
	if item == nil {
		return nil
	}
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "cart_id"}, {Name: "product_id"}, {Name: "size"}, {Name: "color"},
		},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   gorm.Expr("cart_items.quantity + ?", item.Quantity),
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		}),
	}).Create(item).Error
}

// DeleteItem 删除购物车项（不存在视为成功）
func (r *GormCartRepository) DeleteItem(cartID, productID uint, size, color string) error {
	return r.db.
		Where("cart_id = ? AND product_id = ? AND size = ? AND color = ?", cartID, productID, size, color).
		Delete(&models.CartItem{}).Error
}

// ClearItems 清空购物车项
func (r *GormCartRepository) ClearItems(cartID uint) error {
	return r.db.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error
}

// DeleteCart 删除购物车及其全部项（游客购物车合并后退役）
func (r *GormCartRepository) DeleteCart(cartID uint) error {
	if cartID == 0 {
		return nil
	}
	if err := r.db.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error; err != nil {
		return err
	}
	return r.db.Delete(&models.Cart{}, cartID).Error
}

// UpdateTotal 更新购物车总价
func (r *GormCartRepository) UpdateTotal(cartID uint, total models.Money) error {
	return r.db.Model(&models.Cart{}).Where("id = ?", cartID).Update("total_price", total).Error
}

// ListItems 获取购物车项列表
func (r *GormCartRepository) ListItems(cartID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.db.Where("cart_id = ?", cartID).Order("id asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
