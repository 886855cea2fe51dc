package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/threadway-shop/internal/config"
	"github.com/threadway-shop/internal/models"
	"github.com/threadway-shop/internal/provider"
	"github.com/threadway-shop/internal/queue"
	"github.com/threadway-shop/internal/repository"
	"github.com/threadway-shop/internal/service"

	"github.com/glebarez/sqlite"
	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupConsumerTest(t *testing.T) (*Consumer, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:worker_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Order{}, &models.OrderItem{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	container := &provider.Container{
		OrderRepo:    repository.NewOrderRepository(db),
		UserRepo:     repository.NewUserRepository(db),
		EmailService: service.NewEmailService(&config.EmailConfig{Enabled: false}),
	}
	return NewConsumer(container), db
}

func newOrderStatusEmailTask(t *testing.T, payload queue.OrderStatusEmailPayload) *asynq.Task {
	t.Helper()
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload failed: %v", err)
	}
	return asynq.NewTask(queue.TaskOrderStatusEmail, raw)
}

func seedWorkerOrder(t *testing.T, db *gorm.DB, userID uint) *models.Order {
	t.Helper()
	order := &models.Order{
		OrderNo:       fmt.Sprintf("TW-WK-%d", time.Now().UnixNano()),
		CheckoutID:    uint(time.Now().UnixNano() % 1_000_000),
		UserID:        userID,
		Status:        models.OrderStatusShipped,
		PaymentMethod: "stripe",
		TotalPrice:    models.NewMoneyFromDecimal(decimal.NewFromInt(30)),
		IsPaid:        true,
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("seed order failed: %v", err)
	}
	return order
}

func TestHandleOrderStatusEmailInvalidPayload(t *testing.T) {
	consumer, _ := setupConsumerTest(t)
	task := asynq.NewTask(queue.TaskOrderStatusEmail, []byte("{not json"))
	if err := consumer.handleOrderStatusEmail(context.Background(), task); err == nil {
		t.Fatalf("invalid payload should fail")
	}
}

func TestHandleOrderStatusEmailSkipsMissingOrder(t *testing.T) {
	consumer, _ := setupConsumerTest(t)

	task := newOrderStatusEmailTask(t, queue.OrderStatusEmailPayload{OrderID: 0, Status: "shipped"})
	if err := consumer.handleOrderStatusEmail(context.Background(), task); err != nil {
		t.Fatalf("zero order id should be skipped, got %v", err)
	}

	task = newOrderStatusEmailTask(t, queue.OrderStatusEmailPayload{OrderID: 9999, Status: "shipped"})
	if err := consumer.handleOrderStatusEmail(context.Background(), task); err != nil {
		t.Fatalf("missing order should be skipped, got %v", err)
	}
}

func TestHandleOrderStatusEmailSkipsMissingReceiver(t *testing.T) {
	consumer, db := setupConsumerTest(t)
	order := seedWorkerOrder(t, db, 501)

	// 下单用户不存在：静默跳过而不是重试
	task := newOrderStatusEmailTask(t, queue.OrderStatusEmailPayload{OrderID: order.ID, Status: "shipped"})
	if err := consumer.handleOrderStatusEmail(context.Background(), task); err != nil {
		t.Fatalf("missing receiver should be skipped, got %v", err)
	}
}

func TestHandleOrderStatusEmailReturnsSendError(t *testing.T) {
	consumer, db := setupConsumerTest(t)
	order := seedWorkerOrder(t, db, 502)
	user := models.User{ID: 502, Email: "buyer@example.com", PasswordHash: "hash", Status: "active"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user failed: %v", err)
	}

	// 邮件服务未启用：发送错误向上返回，交给队列重试
	task := newOrderStatusEmailTask(t, queue.OrderStatusEmailPayload{OrderID: order.ID, Status: "shipped"})
	err := consumer.handleOrderStatusEmail(context.Background(), task)
	if !errors.Is(err, service.ErrEmailServiceDisabled) {
		t.Fatalf("want ErrEmailServiceDisabled, got %v", err)
	}
}
