package service

import (
	"time"

	"github.com/threadway-shop/internal/logger"
	"github.com/threadway-shop/internal/models"
	"github.com/threadway-shop/internal/queue"
	"github.com/threadway-shop/internal/repository"
)

// AdminOrderView 管理端订单投影（附带下单用户信息）
type AdminOrderView struct {
	models.Order
	UserEmail       string `json:"user_email"`
	UserDisplayName string `json:"user_display_name"`
}

// OrderService 订单服务
type OrderService struct {
	orderRepo   repository.OrderRepository
	userRepo    repository.UserRepository
	queueClient *queue.Client
}

// NewOrderService 创建订单服务
func NewOrderService(orderRepo repository.OrderRepository, userRepo repository.UserRepository, queueClient *queue.Client) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		userRepo:    userRepo,
		queueClient: queueClient,
	}
}

// GetOrderByUser 获取用户自己的订单详情
func (s *OrderService) GetOrderByUser(orderID, userID uint) (*models.Order, error) {
	if orderID == 0 || userID == 0 {
		return nil, ErrOrderNotFound
	}
	order, err := s.orderRepo.GetByIDAndUser(orderID, userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListOrdersByUser 获取用户订单列表
func (s *OrderService) ListOrdersByUser(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	if filter.UserID == 0 {
		return nil, 0, ErrOrderNotFound
	}
	return s.orderRepo.ListByUser(filter)
}

// GetOrder 管理端获取订单详情
func (s *OrderService) GetOrder(orderID uint) (*models.Order, error) {
	if orderID == 0 {
		return nil, ErrOrderNotFound
	}
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListOrdersAdmin 管理端订单列表（批量补齐下单用户投影）
func (s *OrderService) ListOrdersAdmin(filter repository.OrderListFilter) ([]AdminOrderView, int64, error) {
	orders, total, err := s.orderRepo.ListAdmin(filter)
	if err != nil {
		return nil, 0, err
	}

	userIDs := make([]uint, 0, len(orders))
	seen := make(map[uint]bool, len(orders))
	for _, order := range orders {
		if order.UserID != 0 && !seen[order.UserID] {
			seen[order.UserID] = true
			userIDs = append(userIDs, order.UserID)
		}
	}
	users, err := s.userRepo.ListByIDs(userIDs)
	if err != nil {
		return nil, 0, err
	}
	userByID := make(map[uint]models.User, len(users))
	for _, user := range users {
		userByID[user.ID] = user
	}

	views := make([]AdminOrderView, 0, len(orders))
	for _, order := range orders {
		view := AdminOrderView{Order: order}
		if user, ok := userByID[order.UserID]; ok {
			view.UserEmail = user.Email
			view.UserDisplayName = user.DisplayName
		}
		views = append(views, view)
	}
	return views, total, nil
}

// UpdateOrderStatus 流转订单状态
// 非法流转不落任何变更；写入以当前状态为前置条件，并发冲突时返回 ErrStatusConflict
func (s *OrderService) UpdateOrderStatus(orderID uint, target string) (*models.Order, error) {
	if orderID == 0 {
		return nil, ErrOrderNotFound
	}
	toStatus := normalizeOrderStatus(target)
	if toStatus == "" {
		return nil, ErrOrderStatusInvalid
	}

	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	// 重复置为当前终态是无害空操作
	if order.Status == toStatus {
		return order, nil
	}
	if !canTransition(order.Status, toStatus) {
		return nil, ErrOrderStatusInvalid
	}

	now := time.Now()
	updates := map[string]interface{}{
		"updated_at": now,
	}
	switch toStatus {
	case models.OrderStatusDelivered:
		updates["is_delivered"] = true
		updates["delivered_at"] = now
	case models.OrderStatusCancelled:
		updates["cancelled_at"] = now
	}

	rows, err := s.orderRepo.UpdateStatusFrom(orderID, order.Status, toStatus, updates)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrStatusConflict
	}

	logger.Infow("order_status_updated",
		"order_id", orderID,
		"order_no", order.OrderNo,
		"from", order.Status,
		"to", toStatus,
	)

	if skipped, err := enqueueOrderStatusEmailTaskIfEligible(s.userRepo, s.queueClient, order, toStatus); err != nil {
		logger.Warnw("order_status_email_enqueue_failed",
			"order_id", orderID,
			"status", toStatus,
			"error", err,
		)
	} else if !skipped {
		logger.Debugw("order_status_email_enqueued", "order_id", orderID, "status", toStatus)
	}

	return s.orderRepo.GetByID(orderID)
}

// DeleteOrder 管理端删除订单（审计例外，留痕）
func (s *OrderService) DeleteOrder(orderID, adminID uint) error {
	if orderID == 0 {
		return ErrOrderNotFound
	}
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return ErrOrderNotFound
	}
	if err := s.orderRepo.Delete(orderID); err != nil {
		return err
	}
	logger.Warnw("order_deleted",
		"order_id", orderID,
		"order_no", order.OrderNo,
		"admin_id", adminID,
	)
	return nil
}
