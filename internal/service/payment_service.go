package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/threadway-shop/internal/config"
	"github.com/threadway-shop/internal/constants"
	"github.com/threadway-shop/internal/logger"
	"github.com/threadway-shop/internal/models"
	"github.com/threadway-shop/internal/payment/paypal"
	"github.com/threadway-shop/internal/payment/stripe"
)

// ClientPaymentInput 前端回传的支付结果
type ClientPaymentInput struct {
	Status        string      // 提供方返回的状态原文
	TransactionID string      // 提供方交易引用（PayPal order id / Stripe payment intent id）
	Details       models.JSON // 回执原文
}

// PaymentService 支付核验服务
type PaymentService struct {
	cfg         *config.Config
	checkoutSvc *CheckoutService
}

// NewPaymentService 创建支付核验服务
func NewPaymentService(cfg *config.Config, checkoutSvc *CheckoutService) *PaymentService {
	return &PaymentService{
		cfg:         cfg,
		checkoutSvc: checkoutSvc,
	}
}

// ConfirmFromClient 处理页面内支付确认
// 提供方已配置且携带交易引用时以提供方查询结果为准，否则采信归一化后的客户端结果
func (s *PaymentService) ConfirmFromClient(ctx context.Context, checkoutID, userID uint, input ClientPaymentInput) (*models.Checkout, error) {
	checkout, err := s.checkoutSvc.GetByIDAndUser(checkoutID, userID)
	if err != nil {
		return nil, err
	}

	result, err := s.resolveResult(ctx, checkout.PaymentMethod, input)
	if err != nil {
		return nil, err
	}
	return s.checkoutSvc.ConfirmPayment(checkoutID, result)
}

// ConfirmFromWebhook 处理提供方回调的支付确认
func (s *PaymentService) ConfirmFromWebhook(checkoutID uint, result PaymentResult) (*models.Checkout, error) {
	return s.checkoutSvc.ConfirmPayment(checkoutID, result)
}

// VerifyPaypalOrder 向 PayPal 查询订单并归一化结果
func (s *PaymentService) VerifyPaypalOrder(ctx context.Context, orderID string, details models.JSON) (PaymentResult, error) {
	if !s.cfg.Payment.Paypal.Enabled {
		return PaymentResult{}, ErrPaymentMethodNotSupported
	}
	cfg := &paypal.Config{
		ClientID:     s.cfg.Payment.Paypal.ClientID,
		ClientSecret: s.cfg.Payment.Paypal.ClientSecret,
		BaseURL:      s.cfg.Payment.Paypal.BaseURL,
	}

	ctx, cancel := s.verifyContext(ctx)
	defer cancel()

	order, err := paypal.GetOrder(ctx, cfg, orderID)
	if err != nil {
		return unknownOnProviderError("paypal", orderID, err)
	}
	status, ok := paypal.ToPaymentStatus(order.Status)
	if !ok {
		status = "pending"
	}
	merged := mergeDetails(details, models.JSON{
		"provider":     constants.PaymentMethodPaypal,
		"provider_ref": order.OrderID,
		"status":       order.Status,
		"amount":       order.Amount,
		"currency":     order.Currency,
	})
	return PaymentResult{Status: normalizeProviderStatus(status), Details: merged}, nil
}

// VerifyStripeIntent 向 Stripe 查询 PaymentIntent 并归一化结果
func (s *PaymentService) VerifyStripeIntent(ctx context.Context, intentID string, details models.JSON) (PaymentResult, error) {
	if !s.cfg.Payment.Stripe.Enabled {
		return PaymentResult{}, ErrPaymentMethodNotSupported
	}
	cfg := &stripe.Config{
		SecretKey:     s.cfg.Payment.Stripe.SecretKey,
		WebhookSecret: s.cfg.Payment.Stripe.WebhookSecret,
	}

	ctx, cancel := s.verifyContext(ctx)
	defer cancel()

	intent, err := stripe.GetPaymentIntent(ctx, cfg, intentID)
	if err != nil {
		return unknownOnProviderError("stripe", intentID, err)
	}
	status, ok := stripe.ToPaymentStatus(intent.Status)
	if !ok {
		status = "pending"
	}
	merged := mergeDetails(details, models.JSON{
		"provider":     constants.PaymentMethodStripe,
		"provider_ref": intent.PaymentIntentID,
		"status":       intent.Status,
		"amount":       intent.Amount,
		"currency":     intent.Currency,
	})
	return PaymentResult{Status: normalizeProviderStatus(status), Details: merged}, nil
}

// StripeConfig 暴露 webhook 校验所需配置
func (s *PaymentService) StripeConfig() *stripe.Config {
	return &stripe.Config{
		SecretKey:     s.cfg.Payment.Stripe.SecretKey,
		WebhookSecret: s.cfg.Payment.Stripe.WebhookSecret,
	}
}

// resolveResult 决定采信来源：提供方可核验时查询提供方，否则归一化客户端结果
func (s *PaymentService) resolveResult(ctx context.Context, method string, input ClientPaymentInput) (PaymentResult, error) {
	ref := strings.TrimSpace(input.TransactionID)
	switch method {
	case constants.PaymentMethodPaypal:
		if s.cfg.Payment.Paypal.Enabled && ref != "" {
			return s.VerifyPaypalOrder(ctx, ref, input.Details)
		}
	case constants.PaymentMethodStripe:
		if s.cfg.Payment.Stripe.Enabled && ref != "" {
			return s.VerifyStripeIntent(ctx, ref, input.Details)
		}
	default:
		return PaymentResult{}, ErrPaymentMethodNotSupported
	}
	return PaymentResult{
		Status:  normalizeProviderStatus(input.Status),
		Details: input.Details,
	}, nil
}

func (s *PaymentService) verifyContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	timeoutMS := s.cfg.Payment.TimeoutMS
	if timeoutMS <= 0 {
		timeoutMS = 10000
	}
	return context.WithTimeout(ctx, time.Duration(timeoutMS)*time.Millisecond)
}

// normalizeProviderStatus 归一化支付状态
// approved/completed/succeeded → paid；declined/failed → rejected；其余 → unknown
func normalizeProviderStatus(status string) string {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case constants.ProviderResultApproved, "completed", "succeeded", "success", "paid":
		return models.PaymentStatusPaid
	case constants.ProviderResultDeclined, "failed", "denied", "rejected", "voided":
		return models.PaymentStatusRejected
	}
	return models.PaymentStatusUnknown
}

// unknownOnProviderError 提供方查询失败时统一判定为结果未知
func unknownOnProviderError(provider, ref string, err error) (PaymentResult, error) {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		logger.Warnw("payment_verify_timeout", "provider", provider, "provider_ref", ref)
	} else {
		logger.Warnw("payment_verify_failed", "provider", provider, "provider_ref", ref, "error", err)
	}
	return PaymentResult{Status: models.PaymentStatusUnknown}, nil
}

func mergeDetails(base, extra models.JSON) models.JSON {
	merged := models.JSON{}
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}
	return merged
}
