package public

import (
	"github.com/threadway-shop/internal/http/response"
	handlershared "github.com/threadway-shop/internal/http/handlers/shared"
	"github.com/threadway-shop/internal/models"

	"github.com/gin-gonic/gin"
)

func getContextUintWithKeys(c *gin.Context, key, invalidKey, typeInvalidKey string) (uint, bool) {
	return handlershared.GetContextUintWithKeys(c, key, invalidKey, typeInvalidKey)
}

func getUserID(c *gin.Context) (uint, bool) {
	return getContextUintWithKeys(c, "user_id", "error.user_id_invalid", "error.user_id_type_invalid")
}

// getGuestToken 读取中间件解析出的游客令牌（可能为空）
func getGuestToken(c *gin.Context) string {
	return c.GetString("guest_token")
}

// resolveCartOwner 解析购物车归属者：已登录用户优先，其次游客令牌
func resolveCartOwner(c *gin.Context) (models.CartOwner, bool) {
	if _, exists := c.Get("user_id"); exists {
		uid, ok := getUserID(c)
		if !ok {
			return models.CartOwner{}, false
		}
		return models.UserOwner(uid), true
	}
	if token := getGuestToken(c); token != "" {
		return models.GuestOwner(token), true
	}
	respondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
	return models.CartOwner{}, false
}
