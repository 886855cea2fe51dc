package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/threadway-shop/internal/constants"
	"github.com/threadway-shop/internal/models"
	"github.com/threadway-shop/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupOrderServiceTest(t *testing.T) (*OrderService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:order_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	orderRepo := repository.NewOrderRepository(db)
	userRepo := repository.NewUserRepository(db)
	return NewOrderService(orderRepo, userRepo, nil), db
}

var testOrderSeq uint64

func createTestOrder(t *testing.T, db *gorm.DB, userID uint, status string) *models.Order {
	t.Helper()
	testOrderSeq++
	now := time.Now()
	order := &models.Order{
		OrderNo:       fmt.Sprintf("TW%d-%d", time.Now().UnixNano(), testOrderSeq),
		CheckoutID:    uint(testOrderSeq),
		UserID:        userID,
		Status:        status,
		PaymentMethod: constants.PaymentMethodStripe,
		TotalPrice:    models.NewMoneyFromDecimal(decimal.NewFromFloat(42.00)),
		IsPaid:        true,
		PaidAt:        &now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return order
}

func createOrderTestUser(t *testing.T, db *gorm.DB, id uint, email string) {
	t.Helper()
	user := models.User{
		ID:           id,
		Email:        email,
		PasswordHash: "hash",
		DisplayName:  "Tester",
		Status:       constants.UserStatusActive,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
}

func TestUpdateOrderStatusTransitions(t *testing.T) {
	cases := []struct {
		name    string
		from    string
		to      string
		wantErr error
	}{
		{name: "processing to shipped", from: models.OrderStatusProcessing, to: "shipped"},
		{name: "processing to cancelled", from: models.OrderStatusProcessing, to: "cancelled"},
		{name: "shipped to delivered", from: models.OrderStatusShipped, to: "delivered"},
		{name: "shipped to cancelled", from: models.OrderStatusShipped, to: "cancelled"},
		{name: "processing skips shipped", from: models.OrderStatusProcessing, to: "delivered", wantErr: ErrOrderStatusInvalid},
		{name: "delivered is terminal", from: models.OrderStatusDelivered, to: "shipped", wantErr: ErrOrderStatusInvalid},
		{name: "cancelled is terminal", from: models.OrderStatusCancelled, to: "processing", wantErr: ErrOrderStatusInvalid},
		{name: "delivered cannot cancel", from: models.OrderStatusDelivered, to: "cancelled", wantErr: ErrOrderStatusInvalid},
		{name: "unknown status", from: models.OrderStatusProcessing, to: "refunded", wantErr: ErrOrderStatusInvalid},
	}

	for _, item := range cases {
		t.Run(item.name, func(t *testing.T) {
			svc, db := setupOrderServiceTest(t)
			order := createTestOrder(t, db, 41, item.from)

			updated, err := svc.UpdateOrderStatus(order.ID, item.to)
			if item.wantErr != nil {
				if !errors.Is(err, item.wantErr) {
					t.Fatalf("want %v, got %v", item.wantErr, err)
				}
				// 非法流转不落任何变更
				var current models.Order
				if err := db.First(&current, order.ID).Error; err != nil {
					t.Fatalf("reload order failed: %v", err)
				}
				if current.Status != item.from {
					t.Fatalf("status must stay %q, got %q", item.from, current.Status)
				}
				return
			}
			if err != nil {
				t.Fatalf("transition failed: %v", err)
			}
			if updated.Status != normalizeOrderStatus(item.to) {
				t.Fatalf("status want %q, got %q", item.to, updated.Status)
			}
		})
	}
}

func TestUpdateOrderStatusNormalizesInput(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	order := createTestOrder(t, db, 42, models.OrderStatusProcessing)

	updated, err := svc.UpdateOrderStatus(order.ID, "  SHIPPED ")
	if err != nil {
		t.Fatalf("normalized transition failed: %v", err)
	}
	if updated.Status != models.OrderStatusShipped {
		t.Fatalf("status want shipped, got %q", updated.Status)
	}
}

func TestUpdateOrderStatusSameStatusIsNoop(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	order := createTestOrder(t, db, 43, models.OrderStatusShipped)

	updated, err := svc.UpdateOrderStatus(order.ID, "shipped")
	if err != nil {
		t.Fatalf("same-status update should succeed: %v", err)
	}
	if updated.Status != models.OrderStatusShipped {
		t.Fatalf("status want shipped, got %q", updated.Status)
	}
}

func TestUpdateOrderStatusDeliveredSetsTimestampOnce(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	order := createTestOrder(t, db, 44, models.OrderStatusShipped)

	delivered, err := svc.UpdateOrderStatus(order.ID, "delivered")
	if err != nil {
		t.Fatalf("deliver failed: %v", err)
	}
	if !delivered.IsDelivered || delivered.DeliveredAt == nil {
		t.Fatalf("delivered flags not set: %+v", delivered)
	}
	deliveredAt := *delivered.DeliveredAt

	// 重复置为 delivered 不改变送达时间
	again, err := svc.UpdateOrderStatus(order.ID, "delivered")
	if err != nil {
		t.Fatalf("repeat deliver should be a noop: %v", err)
	}
	if !again.DeliveredAt.Equal(deliveredAt) {
		t.Fatalf("delivered_at must not move: %v vs %v", again.DeliveredAt, deliveredAt)
	}
}

func TestUpdateOrderStatusCancelledSetsTimestamp(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	order := createTestOrder(t, db, 45, models.OrderStatusProcessing)

	cancelled, err := svc.UpdateOrderStatus(order.ID, "cancelled")
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if cancelled.CancelledAt == nil {
		t.Fatalf("cancelled_at not set: %+v", cancelled)
	}
}

func TestGetOrderByUserScopesOwner(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	order := createTestOrder(t, db, 46, models.OrderStatusProcessing)

	if _, err := svc.GetOrderByUser(order.ID, 46); err != nil {
		t.Fatalf("own order fetch failed: %v", err)
	}
	if _, err := svc.GetOrderByUser(order.ID, 47); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("foreign order want ErrOrderNotFound, got %v", err)
	}
	if _, err := svc.GetOrderByUser(order.ID+100, 46); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("missing order want ErrOrderNotFound, got %v", err)
	}
}

func TestListOrdersByUserFiltersStatus(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	createTestOrder(t, db, 48, models.OrderStatusProcessing)
	createTestOrder(t, db, 48, models.OrderStatusShipped)
	createTestOrder(t, db, 49, models.OrderStatusProcessing)

	orders, total, err := svc.ListOrdersByUser(repository.OrderListFilter{Page: 1, PageSize: 10, UserID: 48})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 2 || len(orders) != 2 {
		t.Fatalf("user 48 want 2 orders, got total=%d len=%d", total, len(orders))
	}

	orders, total, err = svc.ListOrdersByUser(repository.OrderListFilter{Page: 1, PageSize: 10, UserID: 48, Status: models.OrderStatusShipped})
	if err != nil {
		t.Fatalf("filtered list failed: %v", err)
	}
	if total != 1 || orders[0].Status != models.OrderStatusShipped {
		t.Fatalf("status filter mismatch: total=%d orders=%+v", total, orders)
	}
}

func TestListOrdersAdminProjectsUser(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	createOrderTestUser(t, db, 50, "buyer@example.com")
	createTestOrder(t, db, 50, models.OrderStatusProcessing)

	views, total, err := svc.ListOrdersAdmin(repository.OrderListFilter{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("admin list failed: %v", err)
	}
	if total != 1 || len(views) != 1 {
		t.Fatalf("want 1 order, got total=%d len=%d", total, len(views))
	}
	if views[0].UserEmail != "buyer@example.com" || views[0].UserDisplayName != "Tester" {
		t.Fatalf("user projection mismatch: %+v", views[0])
	}
}

func TestDeleteOrder(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	order := createTestOrder(t, db, 51, models.OrderStatusCancelled)

	if err := svc.DeleteOrder(order.ID, 1); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := svc.GetOrder(order.ID); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("deleted order want ErrOrderNotFound, got %v", err)
	}
	if err := svc.DeleteOrder(order.ID, 1); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("double delete want ErrOrderNotFound, got %v", err)
	}
}
