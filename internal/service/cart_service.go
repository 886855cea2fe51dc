package service

import (
	"strings"
	"time"

	"github.com/threadway-shop/internal/models"
	"github.com/threadway-shop/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// UpsertCartItemInput 购物车写入输入
type UpsertCartItemInput struct {
	Owner     models.CartOwner
	ProductID uint
	Size      string
	Color     string
	Quantity  int
}

// CartService 购物车服务
type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

// NewCartService 创建购物车服务
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// GetCart 获取归属者的购物车（不存在时返回空购物车，不落库）
func (s *CartService) GetCart(owner models.CartOwner) (*models.Cart, error) {
	if !owner.Valid() {
		return nil, ErrOwnerInvalid
	}
	ownerType, ownerID := owner.Key()
	cart, err := s.cartRepo.GetByOwner(ownerType, ownerID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return &models.Cart{OwnerType: ownerType, OwnerID: ownerID, Items: []models.CartItem{}}, nil
	}
	return cart, nil
}

// SetItem 写入购物车项：同一 (商品, 尺码, 颜色) 变体只保留一行，数量取本次传入值
func (s *CartService) SetItem(input UpsertCartItemInput) (*models.Cart, error) {
	if !input.Owner.Valid() {
		return nil, ErrOwnerInvalid
	}
	if input.ProductID == 0 {
		return nil, ErrCartItemInvalid
	}
	if input.Quantity <= 0 {
		return nil, ErrQuantityInvalid
	}

	product, err := s.productRepo.GetByID(input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.IsActive {
		return nil, ErrProductNotAvailable
	}

	size := strings.TrimSpace(input.Size)
	color := strings.TrimSpace(input.Color)
	if !product.HasVariant(size, color) {
		return nil, ErrVariantInvalid
	}

	ownerType, ownerID := input.Owner.Key()
	err = s.cartRepo.Transaction(func(tx *gorm.DB) error {
		repo := s.cartRepo.WithTx(tx)
		cart, err := repo.GetOrCreate(ownerType, ownerID)
		if err != nil {
			return err
		}

		now := time.Now()
		item := &models.CartItem{
			CartID:        cart.ID,
			ProductID:     product.ID,
			Size:          size,
			Color:         color,
			Name:          product.Name,
			Image:         product.CoverImage(),
			Price:         product.Price,
			DiscountPrice: product.DiscountPrice,
			Quantity:      input.Quantity,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := repo.SetItemQuantity(item); err != nil {
			return err
		}
		return recomputeCartTotal(repo, cart.ID)
	})
	if err != nil {
		return nil, err
	}
	return s.cartRepo.GetByOwner(ownerType, ownerID)
}

// RemoveItem 删除购物车中指定变体的一行（不存在视为成功）
func (s *CartService) RemoveItem(owner models.CartOwner, productID uint, size, color string) (*models.Cart, error) {
	if !owner.Valid() {
		return nil, ErrOwnerInvalid
	}
	if productID == 0 {
		return nil, ErrCartItemInvalid
	}

	ownerType, ownerID := owner.Key()
	cart, err := s.cartRepo.GetByOwner(ownerType, ownerID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return &models.Cart{OwnerType: ownerType, OwnerID: ownerID, Items: []models.CartItem{}}, nil
	}

	err = s.cartRepo.Transaction(func(tx *gorm.DB) error {
		repo := s.cartRepo.WithTx(tx)
		if err := repo.DeleteItem(cart.ID, productID, strings.TrimSpace(size), strings.TrimSpace(color)); err != nil {
			return err
		}
		return recomputeCartTotal(repo, cart.ID)
	})
	if err != nil {
		return nil, err
	}
	return s.cartRepo.GetByOwner(ownerType, ownerID)
}

// ClearCart 清空购物车
func (s *CartService) ClearCart(owner models.CartOwner) error {
	if !owner.Valid() {
		return ErrOwnerInvalid
	}
	ownerType, ownerID := owner.Key()
	cart, err := s.cartRepo.GetByOwner(ownerType, ownerID)
	if err != nil {
		return err
	}
	if cart == nil {
		return nil
	}
	return s.cartRepo.Transaction(func(tx *gorm.DB) error {
		repo := s.cartRepo.WithTx(tx)
		if err := repo.ClearItems(cart.ID); err != nil {
			return err
		}
		return repo.UpdateTotal(cart.ID, models.NewMoneyFromDecimal(decimal.Zero))
	})
}

// recomputeCartTotal 按行小计重算购物车总价
func recomputeCartTotal(repo *repository.GormCartRepository, cartID uint) error {
	items, err := repo.ListItems(cartID)
	if err != nil {
		return err
	}
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal().Decimal)
	}
	return repo.UpdateTotal(cartID, models.NewMoneyFromDecimal(total))
}
