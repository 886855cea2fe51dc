package public

import (
	"encoding/json"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/threadway-shop/internal/constants"
	"github.com/threadway-shop/internal/http/response"
	"github.com/threadway-shop/internal/models"
	"github.com/threadway-shop/internal/payment/stripe"
	"github.com/threadway-shop/internal/service"

	"github.com/gin-gonic/gin"
	stripeapi "github.com/stripe/stripe-go/v83"
)

// PaymentWebhook 支付提供方回调入口（按 provider 路由）
func (h *Handler) PaymentWebhook(c *gin.Context) {
	provider := strings.ToLower(strings.TrimSpace(c.Param("provider")))
	switch provider {
	case constants.PaymentMethodStripe:
		h.StripeWebhook(c)
	case constants.PaymentMethodPaypal:
		h.PaypalWebhook(c)
	default:
		respondError(c, response.CodeNotFound, "error.payment_method_not_supported", nil)
	}
}

// StripeWebhook Stripe webhook 回调（签名校验后确认支付结果）
func (h *Handler) StripeWebhook(c *gin.Context) {
	log := requestLog(c)
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		log.Warnw("stripe_webhook_body_read_failed", "error", err)
		respondError(c, response.CodeBadRequest, "error.webhook_invalid", err)
		return
	}

	event, err := stripe.VerifyWebhook(h.PaymentService.StripeConfig(), body, c.GetHeader("Stripe-Signature"))
	if err != nil {
		log.Warnw("stripe_webhook_signature_invalid", "error", err)
		respondError(c, response.CodeBadRequest, "error.webhook_invalid", nil)
		return
	}
	log.Infow("stripe_webhook_received",
		"event_type", event.Type,
		"client_ip", c.ClientIP(),
		"body_size", len(body),
	)

	var status string
	switch event.Type {
	case "payment_intent.succeeded":
		status = models.PaymentStatusPaid
	case "payment_intent.payment_failed", "payment_intent.canceled":
		status = models.PaymentStatusRejected
	default:
		response.Success(c, gin.H{"accepted": true, "updated": false, "event_type": event.Type})
		return
	}

	var intent stripeapi.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		log.Warnw("stripe_webhook_payload_invalid", "event_type", event.Type, "error", err)
		respondError(c, response.CodeBadRequest, "error.webhook_invalid", err)
		return
	}
	checkoutID, ok := parseWebhookCheckoutID(intent.Metadata["checkout_id"])
	if !ok {
		log.Warnw("stripe_webhook_checkout_id_missing", "payment_intent_id", intent.ID)
		respondError(c, response.CodeBadRequest, "error.webhook_invalid", nil)
		return
	}

	result := service.PaymentResult{
		Status: status,
		Details: models.JSON{
			"provider":     constants.PaymentMethodStripe,
			"provider_ref": intent.ID,
			"event_type":   string(event.Type),
			"status":       string(intent.Status),
		},
	}
	h.respondWebhookConfirm(c, constants.PaymentMethodStripe, checkoutID, result)
}

// paypalWebhookEvent PayPal webhook 事件载荷
type paypalWebhookEvent struct {
	EventType string `json:"event_type"`
	Resource  struct {
		ID                string `json:"id"`
		Status            string `json:"status"`
		CustomID          string `json:"custom_id"`
		SupplementaryData struct {
			RelatedIDs struct {
				OrderID string `json:"order_id"`
			} `json:"related_ids"`
		} `json:"supplementary_data"`
	} `json:"resource"`
}

// PaypalWebhook PayPal webhook 回调（向提供方反查订单后确认支付结果）
func (h *Handler) PaypalWebhook(c *gin.Context) {
	log := requestLog(c)
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		log.Warnw("paypal_webhook_body_read_failed", "error", err)
		respondError(c, response.CodeBadRequest, "error.webhook_invalid", err)
		return
	}

	var event paypalWebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		log.Warnw("paypal_webhook_payload_invalid", "error", err)
		respondError(c, response.CodeBadRequest, "error.webhook_invalid", err)
		return
	}
	log.Infow("paypal_webhook_received",
		"event_type", event.EventType,
		"client_ip", c.ClientIP(),
		"body_size", len(body),
		"paypal_transmission_id", strings.TrimSpace(c.GetHeader("Paypal-Transmission-Id")),
	)

	switch event.EventType {
	case "CHECKOUT.ORDER.APPROVED", "PAYMENT.CAPTURE.COMPLETED", "PAYMENT.CAPTURE.DENIED":
	default:
		response.Success(c, gin.H{"accepted": true, "updated": false, "event_type": event.EventType})
		return
	}

	checkoutID, ok := parseWebhookCheckoutID(event.Resource.CustomID)
	if !ok {
		log.Warnw("paypal_webhook_checkout_id_missing", "resource_id", event.Resource.ID)
		respondError(c, response.CodeBadRequest, "error.webhook_invalid", nil)
		return
	}

	orderRef := event.Resource.ID
	if related := event.Resource.SupplementaryData.RelatedIDs.OrderID; related != "" {
		orderRef = related
	}
	details := models.JSON{
		"provider":   constants.PaymentMethodPaypal,
		"event_type": event.EventType,
	}

	result, err := h.PaymentService.VerifyPaypalOrder(c.Request.Context(), orderRef, details)
	if err != nil {
		log.Warnw("paypal_webhook_verify_failed", "provider_ref", orderRef, "error", err)
		respondPaymentConfirmError(c, err)
		return
	}
	h.respondWebhookConfirm(c, constants.PaymentMethodPaypal, checkoutID, result)
}

// respondWebhookConfirm 执行确认并按回调语义响应
// 拒绝结果已被记录，对提供方仍视为接收成功
func (h *Handler) respondWebhookConfirm(c *gin.Context, provider string, checkoutID uint, result service.PaymentResult) {
	log := requestLog(c)
	checkout, err := h.PaymentService.ConfirmFromWebhook(checkoutID, result)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPaymentRejected):
			log.Infow("webhook_payment_rejected", "provider", provider, "checkout_id", checkoutID)
			response.Success(c, gin.H{"accepted": true, "updated": true, "status": models.PaymentStatusRejected})
		case errors.Is(err, service.ErrPaymentUnknown):
			log.Infow("webhook_payment_unknown", "provider", provider, "checkout_id", checkoutID)
			response.Success(c, gin.H{"accepted": true, "updated": false, "status": models.PaymentStatusUnknown})
		case errors.Is(err, service.ErrCheckoutNotFound):
			respondError(c, response.CodeNotFound, "error.checkout_not_found", nil)
		default:
			respondError(c, response.CodeInternal, "error.payment_confirm_failed", err)
		}
		return
	}

	log.Infow("webhook_payment_confirmed",
		"provider", provider,
		"checkout_id", checkoutID,
		"payment_status", checkout.PaymentStatus,
	)
	response.Success(c, gin.H{"accepted": true, "updated": true, "status": checkout.PaymentStatus})
}

func parseWebhookCheckoutID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
