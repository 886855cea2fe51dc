package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/threadway-shop/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupCartRepoTest(t *testing.T) (*GormCartRepository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:cart_repo_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Cart{}, &models.CartItem{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewCartRepository(db), db
}

func newCartItem(cartID uint, productID uint, size string, quantity int) *models.CartItem {
	now := time.Now()
	return &models.CartItem{
		CartID:    cartID,
		ProductID: productID,
		Size:      size,
		Name:      "Test Item",
		Price:     models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
		Quantity:  quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestGetOrCreateIsIdempotent(t *testing.T) {
	repo, db := setupCartRepoTest(t)

	first, err := repo.GetOrCreate("guest", "token-a")
	if err != nil {
		t.Fatalf("first get or create failed: %v", err)
	}
	second, err := repo.GetOrCreate("guest", "token-a")
	if err != nil {
		t.Fatalf("second get or create failed: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("same owner must map to one cart: %d vs %d", first.ID, second.ID)
	}

	var count int64
	if err := db.Model(&models.Cart{}).Count(&count).Error; err != nil {
		t.Fatalf("count carts failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("cart rows want 1, got %d", count)
	}
}

func TestSetItemQuantityUpsertsVariant(t *testing.T) {
	repo, db := setupCartRepoTest(t)
	cart, err := repo.GetOrCreate("user", "61")
	if err != nil {
		t.Fatalf("get or create failed: %v", err)
	}

	if err := repo.SetItemQuantity(newCartItem(cart.ID, 1, "M", 3)); err != nil {
		t.Fatalf("first set failed: %v", err)
	}
	if err := repo.SetItemQuantity(newCartItem(cart.ID, 1, "M", 1)); err != nil {
		t.Fatalf("second set failed: %v", err)
	}

	var items []models.CartItem
	if err := db.Where("cart_id = ?", cart.ID).Find(&items).Error; err != nil {
		t.Fatalf("load items failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("variant rows want 1, got %d", len(items))
	}
	if items[0].Quantity != 1 {
		t.Fatalf("quantity is absolute, want 1, got %d", items[0].Quantity)
	}
}

func TestAddItemQuantityAccumulates(t *testing.T) {
	repo, db := setupCartRepoTest(t)
	cart, err := repo.GetOrCreate("user", "62")
	if err != nil {
		t.Fatalf("get or create failed: %v", err)
	}

	if err := repo.AddItemQuantity(newCartItem(cart.ID, 2, "L", 2)); err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	if err := repo.AddItemQuantity(newCartItem(cart.ID, 2, "L", 3)); err != nil {
		t.Fatalf("second add failed: %v", err)
	}

	var item models.CartItem
	if err := db.Where("cart_id = ? AND product_id = ?", cart.ID, 2).First(&item).Error; err != nil {
		t.Fatalf("load item failed: %v", err)
	}
	if item.Quantity != 5 {
		t.Fatalf("quantity want 5, got %d", item.Quantity)
	}
}

func TestDeleteCartRemovesItems(t *testing.T) {
	repo, db := setupCartRepoTest(t)
	cart, err := repo.GetOrCreate("guest", "token-delete")
	if err != nil {
		t.Fatalf("get or create failed: %v", err)
	}
	if err := repo.SetItemQuantity(newCartItem(cart.ID, 3, "", 1)); err != nil {
		t.Fatalf("set item failed: %v", err)
	}

	if err := repo.DeleteCart(cart.ID); err != nil {
		t.Fatalf("delete cart failed: %v", err)
	}

	var cartCount, itemCount int64
	if err := db.Model(&models.Cart{}).Count(&cartCount).Error; err != nil {
		t.Fatalf("count carts failed: %v", err)
	}
	if err := db.Model(&models.CartItem{}).Count(&itemCount).Error; err != nil {
		t.Fatalf("count items failed: %v", err)
	}
	if cartCount != 0 || itemCount != 0 {
		t.Fatalf("cart and items should be gone, carts=%d items=%d", cartCount, itemCount)
	}
}
