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

func setupOrderRepoTest(t *testing.T) (*GormOrderRepository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:order_repo_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Order{}, &models.OrderItem{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewOrderRepository(db), db
}

var orderRepoSeq uint

func seedOrder(t *testing.T, db *gorm.DB, userID uint, status, orderNo string, createdAt time.Time) *models.Order {
	t.Helper()
	orderRepoSeq++
	order := &models.Order{
		OrderNo:       orderNo,
		CheckoutID:    orderRepoSeq,
		UserID:        userID,
		Status:        status,
		PaymentMethod: "stripe",
		TotalPrice:    models.NewMoneyFromDecimal(decimal.NewFromInt(50)),
		IsPaid:        true,
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("seed order failed: %v", err)
	}
	return order
}

func TestUpdateStatusFromGuardsCurrentStatus(t *testing.T) {
	repo, db := setupOrderRepoTest(t)
	order := seedOrder(t, db, 71, models.OrderStatusProcessing, "TW-CAS-1", time.Now())

	rows, err := repo.UpdateStatusFrom(order.ID, models.OrderStatusProcessing, models.OrderStatusShipped, nil)
	if err != nil {
		t.Fatalf("first transition failed: %v", err)
	}
	if rows != 1 {
		t.Fatalf("matching precondition want 1 row, got %d", rows)
	}

	// 前置状态已不匹配：并发的第二次流转不生效
	rows, err = repo.UpdateStatusFrom(order.ID, models.OrderStatusProcessing, models.OrderStatusCancelled, nil)
	if err != nil {
		t.Fatalf("stale transition failed: %v", err)
	}
	if rows != 0 {
		t.Fatalf("stale precondition want 0 rows, got %d", rows)
	}

	current, err := repo.GetByID(order.ID)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if current.Status != models.OrderStatusShipped {
		t.Fatalf("status want shipped, got %q", current.Status)
	}
}

func TestListAdminFilters(t *testing.T) {
	repo, db := setupOrderRepoTest(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	seedOrder(t, db, 72, models.OrderStatusProcessing, "TW-A-1", base)
	seedOrder(t, db, 72, models.OrderStatusShipped, "TW-A-2", base.AddDate(0, 0, 5))
	seedOrder(t, db, 73, models.OrderStatusProcessing, "TW-B-1", base.AddDate(0, 0, 10))

	orders, total, err := repo.ListAdmin(OrderListFilter{Page: 1, PageSize: 10, UserID: 72})
	if err != nil {
		t.Fatalf("list by user failed: %v", err)
	}
	if total != 2 || len(orders) != 2 {
		t.Fatalf("user filter want 2, got total=%d len=%d", total, len(orders))
	}

	_, total, err = repo.ListAdmin(OrderListFilter{Page: 1, PageSize: 10, Status: models.OrderStatusShipped})
	if err != nil {
		t.Fatalf("list by status failed: %v", err)
	}
	if total != 1 {
		t.Fatalf("status filter want 1, got %d", total)
	}

	orders, total, err = repo.ListAdmin(OrderListFilter{Page: 1, PageSize: 10, OrderNo: "TW-B-1"})
	if err != nil {
		t.Fatalf("list by order no failed: %v", err)
	}
	if total != 1 || orders[0].OrderNo != "TW-B-1" {
		t.Fatalf("order no filter mismatch: total=%d orders=%+v", total, orders)
	}

	from := base.AddDate(0, 0, 3)
	to := base.AddDate(0, 0, 7)
	orders, total, err = repo.ListAdmin(OrderListFilter{Page: 1, PageSize: 10, CreatedFrom: &from, CreatedTo: &to})
	if err != nil {
		t.Fatalf("list by date range failed: %v", err)
	}
	if total != 1 || orders[0].OrderNo != "TW-A-2" {
		t.Fatalf("date range filter mismatch: total=%d orders=%+v", total, orders)
	}
}

func TestListAdminPagination(t *testing.T) {
	repo, db := setupOrderRepoTest(t)
	now := time.Now()
	for i := 0; i < 5; i++ {
		seedOrder(t, db, 74, models.OrderStatusProcessing, fmt.Sprintf("TW-P-%d", i), now)
	}

	orders, total, err := repo.ListAdmin(OrderListFilter{Page: 2, PageSize: 2})
	if err != nil {
		t.Fatalf("paged list failed: %v", err)
	}
	if total != 5 {
		t.Fatalf("total want 5, got %d", total)
	}
	if len(orders) != 2 {
		t.Fatalf("page size want 2, got %d", len(orders))
	}
}

func TestGetByCheckoutID(t *testing.T) {
	repo, db := setupOrderRepoTest(t)
	order := seedOrder(t, db, 75, models.OrderStatusProcessing, "TW-CK-1", time.Now())

	found, err := repo.GetByCheckoutID(order.CheckoutID)
	if err != nil {
		t.Fatalf("get by checkout failed: %v", err)
	}
	if found == nil || found.ID != order.ID {
		t.Fatalf("checkout lookup mismatch: %+v", found)
	}

	missing, err := repo.GetByCheckoutID(order.CheckoutID + 999)
	if err != nil {
		t.Fatalf("missing lookup failed: %v", err)
	}
	if missing != nil {
		t.Fatalf("missing checkout want nil, got %+v", missing)
	}
}
