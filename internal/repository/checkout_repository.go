package repository

import (
	"errors"
	"time"

	"github.com/threadway-shop/internal/models"

	"gorm.io/gorm"
)

// CheckoutRepository 结账单数据访问接口
type CheckoutRepository interface {
	Create(checkout *models.Checkout, items []models.CheckoutItem) error
	GetByID(id uint) (*models.Checkout, error)
	GetByIDAndUser(id, userID uint) (*models.Checkout, error)
	MarkPaid(id uint, status string, details models.JSON, paidAt time.Time) (int64, error)
	RecordPaymentResult(id uint, status string, details models.JSON) (int64, error)
	MarkFinalized(id uint, finalizedAt time.Time) (int64, error)
	SetOrderID(id, orderID uint) error
	WithTx(tx *gorm.DB) *GormCheckoutRepository
}

// GormCheckoutRepository GORM 实现
type GormCheckoutRepository struct {
	db *gorm.DB
}

// NewCheckoutRepository 创建结账单仓库
func NewCheckoutRepository(db *gorm.DB) *GormCheckoutRepository {
	return &GormCheckoutRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCheckoutRepository) WithTx(tx *gorm.DB) *GormCheckoutRepository {
	if tx == nil {
		return r
	}
	return &GormCheckoutRepository{db: tx}
}

// Create 创建结账单与行项快照
func (r *GormCheckoutRepository) Create(checkout *models.Checkout, items []models.CheckoutItem) error {
	if err := r.db.Create(checkout).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].CheckoutID = checkout.ID
	}
	if len(items) > 0 {
		if err := r.db.Create(&items).Error; err != nil {
			return err
		}
	}
	return nil
}

// GetByID 根据 ID 获取结账单（不存在返回 nil）
func (r *GormCheckoutRepository) GetByID(id uint) (*models.Checkout, error) {
	var checkout models.Checkout
	err := r.db.Preload("Items").First(&checkout, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &checkout, nil
}

// GetByIDAndUser 获取用户自己的结账单
func (r *GormCheckoutRepository) GetByIDAndUser(id, userID uint) (*models.Checkout, error) {
	var checkout models.Checkout
	err := r.db.Preload("Items").Where("id = ? AND user_id = ?", id, userID).First(&checkout).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &checkout, nil
}

// MarkPaid 条件置为已支付（仅当当前未支付；返回生效行数）
func (r *GormCheckoutRepository) MarkPaid(id uint, status string, details models.JSON, paidAt time.Time) (int64, error) {
	result := r.db.Model(&models.Checkout{}).
		Where("id = ? AND is_paid = ?", id, false).
		Updates(map[string]interface{}{
			"is_paid":         true,
			"payment_status":  status,
			"payment_details": details,
			"paid_at":         paidAt,
		})
	return result.RowsAffected, result.Error
}

// RecordPaymentResult 记录未成功的支付结果（不改变已支付状态；返回生效行数）
func (r *GormCheckoutRepository) RecordPaymentResult(id uint, status string, details models.JSON) (int64, error) {
	result := r.db.Model(&models.Checkout{}).
		Where("id = ? AND is_paid = ?", id, false).
		Updates(map[string]interface{}{
			"payment_status":  status,
			"payment_details": details,
		})
	return result.RowsAffected, result.Error
}

// MarkFinalized 条件置为已生成订单（仅当已支付且未生成过；返回生效行数）
func (r *GormCheckoutRepository) MarkFinalized(id uint, finalizedAt time.Time) (int64, error) {
	result := r.db.Model(&models.Checkout{}).
		Where("id = ? AND is_paid = ? AND is_finalized = ?", id, true, false).
		Updates(map[string]interface{}{
			"is_finalized": true,
			"finalized_at": finalizedAt,
		})
	return result.RowsAffected, result.Error
}

// SetOrderID 回填生成的订单ID（审计回链）
func (r *GormCheckoutRepository) SetOrderID(id, orderID uint) error {
	return r.db.Model(&models.Checkout{}).Where("id = ?", id).Update("order_id", orderID).Error
}
