package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/threadway-shop/internal/constants"
	"github.com/threadway-shop/internal/logger"
	"github.com/threadway-shop/internal/models"
	"github.com/threadway-shop/internal/queue"
	"github.com/threadway-shop/internal/repository"

	"gorm.io/gorm"
)

// CreateCheckoutInput 创建结账单输入
type CreateCheckoutInput struct {
	UserID          uint
	ShippingAddress models.ShippingAddress
	PaymentMethod   string
}

// PaymentResult 归一化后的支付结果
type PaymentResult struct {
	Status  string      // paid / rejected / unknown
	Details models.JSON // 第三方回执原文
}

// CheckoutService 结账服务
type CheckoutService struct {
	checkoutRepo repository.CheckoutRepository
	orderRepo    repository.OrderRepository
	cartRepo     repository.CartRepository
	userRepo     repository.UserRepository
	queueClient  *queue.Client
}

// NewCheckoutService 创建结账服务
func NewCheckoutService(checkoutRepo repository.CheckoutRepository, orderRepo repository.OrderRepository, cartRepo repository.CartRepository, userRepo repository.UserRepository, queueClient *queue.Client) *CheckoutService {
	return &CheckoutService{
		checkoutRepo: checkoutRepo,
		orderRepo:    orderRepo,
		cartRepo:     cartRepo,
		userRepo:     userRepo,
		queueClient:  queueClient,
	}
}

// Create 从用户购物车生成结账单快照
func (s *CheckoutService) Create(input CreateCheckoutInput) (*models.Checkout, error) {
	if input.UserID == 0 {
		return nil, ErrNotFound
	}
	if !input.ShippingAddress.Complete() {
		return nil, ErrCheckoutInputInvalid
	}
	method := strings.ToLower(strings.TrimSpace(input.PaymentMethod))
	if method != constants.PaymentMethodPaypal && method != constants.PaymentMethodStripe {
		return nil, ErrPaymentMethodNotSupported
	}

	owner := models.UserOwner(input.UserID)
	ownerType, ownerID := owner.Key()
	cart, err := s.cartRepo.GetByOwner(ownerType, ownerID)
	if err != nil {
		return nil, err
	}
	if cart == nil || len(cart.Items) == 0 {
		return nil, ErrCartEmpty
	}

	now := time.Now()
	checkout := &models.Checkout{
		UserID:          input.UserID,
		ShippingAddress: input.ShippingAddress,
		PaymentMethod:   method,
		TotalPrice:      cart.TotalPrice,
		PaymentStatus:   models.PaymentStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	items := make([]models.CheckoutItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, models.CheckoutItem{
			ProductID:     item.ProductID,
			Name:          item.Name,
			Image:         item.Image,
			Price:         item.Price,
			DiscountPrice: item.DiscountPrice,
			Size:          item.Size,
			Color:         item.Color,
			Quantity:      item.Quantity,
			CreatedAt:     now,
		})
	}

	if err := s.checkoutRepo.Create(checkout, items); err != nil {
		return nil, err
	}
	logger.Infow("checkout_created",
		"checkout_id", checkout.ID,
		"user_id", input.UserID,
		"payment_method", method,
		"total", checkout.TotalPrice.String(),
		"items", len(items),
	)
	return s.checkoutRepo.GetByID(checkout.ID)
}

// GetByIDAndUser 获取用户自己的结账单
func (s *CheckoutService) GetByIDAndUser(id, userID uint) (*models.Checkout, error) {
	if id == 0 || userID == 0 {
		return nil, ErrCheckoutNotFound
	}
	checkout, err := s.checkoutRepo.GetByIDAndUser(id, userID)
	if err != nil {
		return nil, err
	}
	if checkout == nil {
		return nil, ErrCheckoutNotFound
	}
	return checkout, nil
}

// ConfirmPayment 记录支付结果（幂等）
// 成功结果只生效一次；重复确认已支付的结账单是无害空操作
func (s *CheckoutService) ConfirmPayment(checkoutID uint, result PaymentResult) (*models.Checkout, error) {
	if checkoutID == 0 {
		return nil, ErrCheckoutNotFound
	}
	checkout, err := s.checkoutRepo.GetByID(checkoutID)
	if err != nil {
		return nil, err
	}
	if checkout == nil {
		return nil, ErrCheckoutNotFound
	}

	switch result.Status {
	case models.PaymentStatusPaid:
		rows, err := s.checkoutRepo.MarkPaid(checkoutID, models.PaymentStatusPaid, result.Details, time.Now())
		if err != nil {
			return nil, err
		}
		if rows == 0 {
			// 已支付，重复确认视为成功
			logger.Infow("payment_confirm_duplicate", "checkout_id", checkoutID)
		} else {
			logger.Infow("payment_confirmed",
				"checkout_id", checkoutID,
				"payment_method", checkout.PaymentMethod,
			)
		}
		return s.checkoutRepo.GetByID(checkoutID)
	case models.PaymentStatusRejected:
		if _, err := s.checkoutRepo.RecordPaymentResult(checkoutID, models.PaymentStatusRejected, result.Details); err != nil {
			return nil, err
		}
		logger.Warnw("payment_rejected",
			"checkout_id", checkoutID,
			"payment_method", checkout.PaymentMethod,
		)
		return nil, ErrPaymentRejected
	default:
		// 超时或无法判定的结果不落任何状态，等待下一次确认
		logger.Warnw("payment_result_unknown",
			"checkout_id", checkoutID,
			"status", result.Status,
		)
		return nil, ErrPaymentUnknown
	}
}

// Finalize 将已支付结账单一次性转为订单并清空购物车（幂等）
func (s *CheckoutService) Finalize(checkoutID, userID uint) (*models.Order, error) {
	if checkoutID == 0 {
		return nil, ErrCheckoutNotFound
	}
	checkout, err := s.checkoutRepo.GetByIDAndUser(checkoutID, userID)
	if err != nil {
		return nil, err
	}
	if checkout == nil {
		return nil, ErrCheckoutNotFound
	}

	var created *models.Order
	err = s.cartRepo.Transaction(func(tx *gorm.DB) error {
		checkoutRepo := s.checkoutRepo.WithTx(tx)
		orderRepo := s.orderRepo.WithTx(tx)
		cartRepo := s.cartRepo.WithTx(tx)

		rows, err := checkoutRepo.MarkFinalized(checkoutID, time.Now())
		if err != nil {
			return err
		}
		if rows == 0 {
			current, err := checkoutRepo.GetByID(checkoutID)
			if err != nil {
				return err
			}
			if current != nil && current.IsFinalized {
				// 已生成过订单，走幂等读取
				return nil
			}
			return ErrCheckoutNotPaid
		}

		// 支付确认可能在事务外的快照读之后才落库，付款时间以事务内的行为准
		paid, err := checkoutRepo.GetByID(checkoutID)
		if err != nil {
			return err
		}
		if paid == nil {
			return ErrCheckoutNotFound
		}

		now := time.Now()
		order := &models.Order{
			OrderNo:         generateOrderNo(),
			CheckoutID:      checkout.ID,
			UserID:          checkout.UserID,
			Status:          models.OrderStatusProcessing,
			ShippingAddress: checkout.ShippingAddress,
			PaymentMethod:   checkout.PaymentMethod,
			TotalPrice:      checkout.TotalPrice,
			IsPaid:          true,
			PaidAt:          paid.PaidAt,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		items := make([]models.OrderItem, 0, len(checkout.Items))
		for _, item := range checkout.Items {
			items = append(items, models.OrderItem{
				ProductID:     item.ProductID,
				Name:          item.Name,
				Image:         item.Image,
				Price:         item.Price,
				DiscountPrice: item.DiscountPrice,
				Size:          item.Size,
				Color:         item.Color,
				Quantity:      item.Quantity,
				CreatedAt:     now,
			})
		}
		if err := orderRepo.Create(order, items); err != nil {
			return err
		}
		if err := checkoutRepo.SetOrderID(checkout.ID, order.ID); err != nil {
			return err
		}

		ownerType, ownerID := models.UserOwner(checkout.UserID).Key()
		cart, err := cartRepo.GetByOwner(ownerType, ownerID)
		if err != nil {
			return err
		}
		if cart != nil {
			if err := cartRepo.ClearItems(cart.ID); err != nil {
				return err
			}
			if err := cartRepo.UpdateTotal(cart.ID, models.Money{}); err != nil {
				return err
			}
		}

		created = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	if created != nil {
		logger.Infow("checkout_finalized",
			"checkout_id", checkoutID,
			"order_id", created.ID,
			"order_no", created.OrderNo,
		)
		if _, err := enqueueOrderStatusEmailTaskIfEligible(s.userRepo, s.queueClient, created, created.Status); err != nil {
			logger.Warnw("order_status_email_enqueue_failed",
				"order_id", created.ID,
				"status", created.Status,
				"error", err,
			)
		}
		return s.orderRepo.GetByID(created.ID)
	}

	// 并发或重复 finalize：返回已生成的订单
	order, err := s.orderRepo.GetByCheckoutID(checkoutID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func generateOrderNo() string {
	now := time.Now().Format("20060102150405")
	return fmt.Sprintf("TW%s%s", now, randNumeric(6))
}

func randNumeric(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteString("0")
			continue
		}
		b.WriteString(fmt.Sprintf("%d", n.Int64()))
	}
	return b.String()
}
