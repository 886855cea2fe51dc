package public

import (
	"strconv"

	"github.com/threadway-shop/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetProduct 获取商品详情（数字按 ID，其余按 slug）
func (h *Handler) GetProduct(c *gin.Context) {
	raw := c.Param("id")

	if id, err := strconv.ParseUint(raw, 10, 64); err == nil && id > 0 {
		product, err := h.ProductRepo.GetByID(uint(id))
		if err != nil {
			respondError(c, response.CodeInternal, "error.internal", err)
			return
		}
		if product == nil || !product.IsActive {
			respondError(c, response.CodeNotFound, "error.product_not_found", nil)
			return
		}
		response.Success(c, gin.H{"product": product})
		return
	}

	product, err := h.ProductRepo.GetBySlug(raw)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	if product == nil || !product.IsActive {
		respondError(c, response.CodeNotFound, "error.product_not_found", nil)
		return
	}
	response.Success(c, gin.H{"product": product})
}
