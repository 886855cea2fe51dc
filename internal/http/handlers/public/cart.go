package public

import (
	"errors"
	"strconv"

	"github.com/threadway-shop/internal/http/response"
	"github.com/threadway-shop/internal/service"

	"github.com/gin-gonic/gin"
)

// CartItemRequest 购物车项请求
type CartItemRequest struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
	Size      string `json:"size"`
	Color     string `json:"color"`
}

// GetCart 获取当前归属者的购物车
func (h *Handler) GetCart(c *gin.Context) {
	owner, ok := resolveCartOwner(c)
	if !ok {
		return
	}

	cart, err := h.CartService.GetCart(owner)
	if err != nil {
		respondError(c, response.CodeInternal, "error.cart_fetch_failed", err)
		return
	}
	response.Success(c, gin.H{"cart": cart})
}

// UpsertCartItem 添加/更新购物车项（目标数量为绝对值）
func (h *Handler) UpsertCartItem(c *gin.Context) {
	owner, ok := resolveCartOwner(c)
	if !ok {
		return
	}
	var req CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.invalid_request", err)
		return
	}

	cart, err := h.CartService.SetItem(service.UpsertCartItemInput{
		Owner:     owner,
		ProductID: req.ProductID,
		Size:      req.Size,
		Color:     req.Color,
		Quantity:  req.Quantity,
	})
	if err != nil {
		respondCartMutationError(c, err)
		return
	}
	response.Success(c, gin.H{"cart": cart})
}

// DeleteCartItem 删除指定变体的购物车项
func (h *Handler) DeleteCartItem(c *gin.Context) {
	owner, ok := resolveCartOwner(c)
	if !ok {
		return
	}
	rawID := c.Param("product_id")
	productID, err := strconv.ParseUint(rawID, 10, 64)
	if err != nil || productID == 0 {
		respondError(c, response.CodeBadRequest, "error.cart_item_invalid", nil)
		return
	}

	cart, err := h.CartService.RemoveItem(owner, uint(productID), c.Query("size"), c.Query("color"))
	if err != nil {
		respondCartMutationError(c, err)
		return
	}
	response.Success(c, gin.H{"cart": cart})
}

// ClearCart 清空购物车
func (h *Handler) ClearCart(c *gin.Context) {
	owner, ok := resolveCartOwner(c)
	if !ok {
		return
	}
	if err := h.CartService.ClearCart(owner); err != nil {
		respondError(c, response.CodeInternal, "error.cart_update_failed", err)
		return
	}
	response.Success(c, gin.H{"cleared": true})
}

// MergeCart 登录后合并游客购物车（叠加数量，一次性）
func (h *Handler) MergeCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	guestToken := getGuestToken(c)
	if guestToken == "" {
		respondError(c, response.CodeBadRequest, "error.guest_token_required", nil)
		return
	}

	cart, err := h.CartService.MergeGuestCart(c.Request.Context(), guestToken, uid)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMergeConflict):
			respondError(c, response.CodeTooManyRequests, "error.cart_merge_conflict", nil)
		default:
			respondError(c, response.CodeInternal, "error.cart_update_failed", err)
		}
		return
	}
	response.Success(c, gin.H{"cart": cart})
}
