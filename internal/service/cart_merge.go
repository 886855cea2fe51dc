package service

import (
	"context"
	"fmt"
	"time"

	"github.com/threadway-shop/internal/cache"
	"github.com/threadway-shop/internal/logger"
	"github.com/threadway-shop/internal/models"

	"gorm.io/gorm"
)

const cartMergeLockTTL = 10 * time.Second

// MergeGuestCart 登录后将游客购物车合并进用户购物车
// 同一变体数量相加，合并完成后游客购物车退役；同一对 (游客, 用户) 的并发合并互斥
func (s *CartService) MergeGuestCart(ctx context.Context, guestToken string, userID uint) (*models.Cart, error) {
	guest := models.GuestOwner(guestToken)
	user := models.UserOwner(userID)
	if !guest.Valid() || !user.Valid() {
		return nil, ErrOwnerInvalid
	}

	lockKey := fmt.Sprintf("cart:merge:%s:%d", guestToken, userID)
	token, ok, err := cache.AcquireLock(ctx, lockKey, cartMergeLockTTL)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrMergeConflict
	}
	defer func() {
		if err := cache.ReleaseLock(context.Background(), lockKey, token); err != nil {
			logger.Warnw("cart_merge_lock_release_failed", "key", lockKey, "error", err)
		}
	}()

	guestType, guestID := guest.Key()
	guestCart, err := s.cartRepo.GetByOwner(guestType, guestID)
	if err != nil {
		return nil, err
	}
	if guestCart == nil || len(guestCart.Items) == 0 {
		// 没有可合并的内容，仅清理空的游客购物车
		if guestCart != nil {
			if err := s.cartRepo.DeleteCart(guestCart.ID); err != nil {
				return nil, err
			}
		}
		return s.GetCart(user)
	}

	userType, userOwnerID := user.Key()
	err = s.cartRepo.Transaction(func(tx *gorm.DB) error {
		repo := s.cartRepo.WithTx(tx)
		userCart, err := repo.GetOrCreate(userType, userOwnerID)
		if err != nil {
			return err
		}

		now := time.Now()
		for _, item := range guestCart.Items {
			merged := &models.CartItem{
				CartID:        userCart.ID,
				ProductID:     item.ProductID,
				Size:          item.Size,
				Color:         item.Color,
				Name:          item.Name,
				Image:         item.Image,
				Price:         item.Price,
				DiscountPrice: item.DiscountPrice,
				Quantity:      item.Quantity,
				CreatedAt:     now,
				UpdatedAt:     now,
			}
			if err := repo.AddItemQuantity(merged); err != nil {
				return err
			}
		}

		if err := repo.DeleteCart(guestCart.ID); err != nil {
			return err
		}
		return recomputeCartTotal(repo, userCart.ID)
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("guest_cart_merged",
		"user_id", userID,
		"merged_items", len(guestCart.Items),
	)
	return s.GetCart(user)
}
