package stripe

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	stripeapi "github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/paymentintent"
	"github.com/stripe/stripe-go/v83/webhook"
)

var (
	ErrConfigInvalid    = errors.New("stripe config invalid")
	ErrRequestFailed    = errors.New("stripe request failed")
	ErrIntentNotFound   = errors.New("stripe payment intent not found")
	ErrSignatureInvalid = errors.New("stripe signature invalid")
)

// Config Stripe 渠道配置。
type Config struct {
	SecretKey     string `json:"secret_key"`
	WebhookSecret string `json:"webhook_secret"`
}

// QueryResult 查询 PaymentIntent 返回。
type QueryResult struct {
	PaymentIntentID string
	Status          string
	Amount          string
	Currency        string
	CreatedAt       *time.Time
}

// ValidateConfig 校验配置。
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("%w: config is nil", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.SecretKey) == "" {
		return fmt.Errorf("%w: secret_key is required", ErrConfigInvalid)
	}
	return nil
}

// GetPaymentIntent 查询 PaymentIntent 用于支付结果核验。
func GetPaymentIntent(ctx context.Context, cfg *Config, intentID string) (*QueryResult, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	intentID = strings.TrimSpace(intentID)
	if intentID == "" {
		return nil, fmt.Errorf("%w: payment intent id is empty", ErrConfigInvalid)
	}

	params := &stripeapi.PaymentIntentParams{}
	params.Context = ctx
	stripeapi.Key = strings.TrimSpace(cfg.SecretKey)

	intent, err := paymentintent.Get(intentID, params)
	if err != nil {
		var stripeErr *stripeapi.Error
		if errors.As(err, &stripeErr) && stripeErr.Code == stripeapi.ErrorCodeResourceMissing {
			return nil, ErrIntentNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}

	result := &QueryResult{
		PaymentIntentID: intent.ID,
		Status:          string(intent.Status),
		Currency:        strings.ToUpper(string(intent.Currency)),
	}
	result.Amount = fromMinorAmount(intent.Amount, result.Currency)
	if intent.Created > 0 {
		created := time.Unix(intent.Created, 0)
		result.CreatedAt = &created
	}
	return result, nil
}

// VerifyWebhook 校验 webhook 签名并解析事件。
func VerifyWebhook(cfg *Config, payload []byte, signatureHeader string) (*stripeapi.Event, error) {
	if cfg == nil || strings.TrimSpace(cfg.WebhookSecret) == "" {
		return nil, fmt.Errorf("%w: webhook_secret is required", ErrConfigInvalid)
	}
	event, err := webhook.ConstructEvent(payload, signatureHeader, strings.TrimSpace(cfg.WebhookSecret))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSignatureInvalid, err)
	}
	return &event, nil
}

// ToPaymentStatus 映射 PaymentIntent 状态到统一支付结论。
func ToPaymentStatus(status string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "succeeded":
		return "success", true
	case "canceled", "failed", "requires_payment_method":
		return "failed", true
	case "processing", "requires_action", "requires_confirmation", "requires_capture":
		return "pending", true
	}
	return "", false
}

var zeroDecimalCurrencies = map[string]struct{}{
	"BIF": {}, "CLP": {}, "DJF": {}, "GNF": {}, "JPY": {}, "KMF": {},
	"KRW": {}, "MGA": {}, "PYG": {}, "RWF": {}, "UGX": {}, "VND": {},
	"VUV": {}, "XAF": {}, "XOF": {}, "XPF": {},
}

func fromMinorAmount(minor int64, currency string) string {
	scale := int32(2)
	if _, ok := zeroDecimalCurrencies[strings.ToUpper(strings.TrimSpace(currency))]; ok {
		scale = 0
	}
	return decimal.New(minor, -scale).StringFixed(scale)
}
