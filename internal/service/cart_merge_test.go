package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/threadway-shop/internal/cache"
	"github.com/threadway-shop/internal/models"

	"github.com/shopspring/decimal"
)

func TestMergeGuestCartAddsQuantities(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	shared := createTestProduct(t, db, "merge-tee", 10.00, true)
	guestOnly := createTestProduct(t, db, "merge-hoodie", 40.00, true)
	guestToken := "guest-merge-add"
	userID := uint(21)

	// 游客车：shared ×2、guestOnly ×3；用户车：shared ×1
	for _, step := range []UpsertCartItemInput{
		{Owner: models.GuestOwner(guestToken), ProductID: shared.ID, Size: "M", Quantity: 2},
		{Owner: models.GuestOwner(guestToken), ProductID: guestOnly.ID, Size: "L", Quantity: 3},
		{Owner: models.UserOwner(userID), ProductID: shared.ID, Size: "M", Quantity: 1},
	} {
		if _, err := svc.SetItem(step); err != nil {
			t.Fatalf("seed cart failed: %v", err)
		}
	}

	cart, err := svc.MergeGuestCart(context.Background(), guestToken, userID)
	if err != nil {
		t.Fatalf("merge failed: %v", err)
	}
	if len(cart.Items) != 2 {
		t.Fatalf("merged items want 2, got %d", len(cart.Items))
	}
	quantities := map[uint]int{}
	for _, item := range cart.Items {
		quantities[item.ProductID] = item.Quantity
	}
	if quantities[shared.ID] != 3 {
		t.Fatalf("shared variant quantity want 3, got %d", quantities[shared.ID])
	}
	if quantities[guestOnly.ID] != 3 {
		t.Fatalf("guest-only quantity want 3, got %d", quantities[guestOnly.ID])
	}
	want := decimal.NewFromFloat(150.00)
	if !cart.TotalPrice.Equal(want) {
		t.Fatalf("merged total want %s, got %s", want, cart.TotalPrice)
	}

	// 游客购物车合并后退役
	guestType, guestID := models.GuestOwner(guestToken).Key()
	var count int64
	if err := db.Model(&models.Cart{}).Where("owner_type = ? AND owner_id = ?", guestType, guestID).Count(&count).Error; err != nil {
		t.Fatalf("count guest cart failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("guest cart should be deleted after merge")
	}
}

func TestMergeGuestCartEmptyGuest(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	product := createTestProduct(t, db, "merge-only-user", 15.00, true)
	userID := uint(22)

	if _, err := svc.SetItem(UpsertCartItemInput{Owner: models.UserOwner(userID), ProductID: product.ID, Size: "M", Quantity: 2}); err != nil {
		t.Fatalf("seed user cart failed: %v", err)
	}

	cart, err := svc.MergeGuestCart(context.Background(), "guest-never-seen", userID)
	if err != nil {
		t.Fatalf("merge with no guest cart failed: %v", err)
	}
	if len(cart.Items) != 1 || cart.Items[0].Quantity != 2 {
		t.Fatalf("user cart should be untouched, got %+v", cart.Items)
	}
}

func TestMergeGuestCartLockBusy(t *testing.T) {
	svc, _ := setupCartServiceTest(t)
	guestToken := "guest-merge-lock"
	userID := uint(23)

	lockKey := fmt.Sprintf("cart:merge:%s:%d", guestToken, userID)
	token, ok, err := cache.AcquireLock(context.Background(), lockKey, 10*time.Second)
	if err != nil || !ok {
		t.Fatalf("acquire lock failed: ok=%v err=%v", ok, err)
	}
	defer func() {
		if err := cache.ReleaseLock(context.Background(), lockKey, token); err != nil {
			t.Fatalf("release lock failed: %v", err)
		}
	}()

	if _, err := svc.MergeGuestCart(context.Background(), guestToken, userID); !errors.Is(err, ErrMergeConflict) {
		t.Fatalf("busy lock want ErrMergeConflict, got %v", err)
	}
}

func TestMergeGuestCartInvalidOwner(t *testing.T) {
	svc, _ := setupCartServiceTest(t)
	if _, err := svc.MergeGuestCart(context.Background(), "", 5); !errors.Is(err, ErrOwnerInvalid) {
		t.Fatalf("empty guest token want ErrOwnerInvalid, got %v", err)
	}
	if _, err := svc.MergeGuestCart(context.Background(), "guest-x", 0); !errors.Is(err, ErrOwnerInvalid) {
		t.Fatalf("zero user id want ErrOwnerInvalid, got %v", err)
	}
}
