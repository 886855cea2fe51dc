package public

import (
	"strconv"

	"github.com/threadway-shop/internal/http/response"
	"github.com/threadway-shop/internal/models"
	"github.com/threadway-shop/internal/service"

	"github.com/gin-gonic/gin"
)

// CheckoutCreateRequest 创建结账单请求
type CheckoutCreateRequest struct {
	ShippingAddress models.ShippingAddress `json:"shipping_address" binding:"required"`
	PaymentMethod   string                 `json:"payment_method" binding:"required"`
}

// CheckoutPayRequest 页面内支付确认请求
type CheckoutPayRequest struct {
	Status        string      `json:"status" binding:"required"`
	TransactionID string      `json:"transaction_id"`
	Details       models.JSON `json:"details"`
}

func parseCheckoutID(c *gin.Context) (uint, bool) {
	rawID := c.Param("id")
	id, err := strconv.ParseUint(rawID, 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "error.invalid_request", nil)
		return 0, false
	}
	return uint(id), true
}

// CreateCheckout 从当前购物车创建结账单快照
func (h *Handler) CreateCheckout(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req CheckoutCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.invalid_request", err)
		return
	}

	checkout, err := h.CheckoutService.Create(service.CreateCheckoutInput{
		UserID:          uid,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
	})
	if err != nil {
		respondCheckoutCreateError(c, err)
		return
	}
	response.Success(c, gin.H{"checkout": checkout})
}

// GetCheckout 获取当前用户的结账单
func (h *Handler) GetCheckout(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	checkoutID, ok := parseCheckoutID(c)
	if !ok {
		return
	}

	checkout, err := h.CheckoutService.GetByIDAndUser(checkoutID, uid)
	if err != nil {
		respondWithMappedError(c, err, []mappedHandlerError{
			{target: service.ErrCheckoutNotFound, code: response.CodeNotFound, key: "error.checkout_not_found"},
		}, response.CodeInternal, "error.checkout_fetch_failed")
		return
	}
	response.Success(c, gin.H{"checkout": checkout})
}

// PayCheckout 页面内支付确认（幂等）
func (h *Handler) PayCheckout(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	checkoutID, ok := parseCheckoutID(c)
	if !ok {
		return
	}
	var req CheckoutPayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.invalid_request", err)
		return
	}

	checkout, err := h.PaymentService.ConfirmFromClient(c.Request.Context(), checkoutID, uid, service.ClientPaymentInput{
		Status:        req.Status,
		TransactionID: req.TransactionID,
		Details:       req.Details,
	})
	if err != nil {
		respondPaymentConfirmError(c, err)
		return
	}
	response.Success(c, gin.H{"checkout": checkout})
}

// FinalizeCheckout 由已支付结账单生成订单（幂等，至多一单）
func (h *Handler) FinalizeCheckout(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	checkoutID, ok := parseCheckoutID(c)
	if !ok {
		return
	}

	order, err := h.CheckoutService.Finalize(checkoutID, uid)
	if err != nil {
		respondCheckoutFinalizeError(c, err)
		return
	}
	response.Success(c, gin.H{"order": order})
}
