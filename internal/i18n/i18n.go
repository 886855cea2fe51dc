package i18n

import (
	"strings"

	"github.com/threadway-shop/internal/constants"

	"github.com/gin-gonic/gin"
)

// ResolveLocale 解析请求语言（query 优先，其次 Accept-Language，最后回退默认）
func ResolveLocale(c *gin.Context) string {
	if c == nil {
		return constants.LocaleEnUS
	}
	if locale := normalizeLocale(c.Query("locale")); locale != "" {
		return locale
	}
	header := c.GetHeader("Accept-Language")
	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if locale := normalizeLocale(tag); locale != "" {
			return locale
		}
	}
	return constants.LocaleEnUS
}

// T 按语言取文案，缺失时回退英文，再缺失回退 key 本身
func T(locale, key string) string {
	if catalog, ok := messages[locale]; ok {
		if msg, ok := catalog[key]; ok {
			return msg
		}
	}
	if msg, ok := messages[constants.LocaleEnUS][key]; ok {
		return msg
	}
	return key
}

func normalizeLocale(tag string) string {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return ""
	}
	lower := strings.ToLower(tag)
	switch {
	case strings.HasPrefix(lower, "zh"):
		return constants.LocaleZhCN
	case strings.HasPrefix(lower, "en"):
		return constants.LocaleEnUS
	}
	return ""
}

var messages = map[string]map[string]string{
	constants.LocaleEnUS: {
		"error.invalid_request":              "Invalid request",
		"error.unauthorized":                 "Authentication required",
		"error.forbidden":                    "Permission denied",
		"error.internal":                     "Internal server error",
		"error.rate_limited":                 "Too many requests, please try again later",
		"error.email_invalid":                "Invalid email address",
		"error.email_taken":                  "Email is already registered",
		"error.password_too_weak":            "Password does not meet the security policy",
		"error.invalid_credentials":          "Invalid email or password",
		"error.user_disabled":                "Account is disabled",
		"error.product_not_available":        "Product is not available",
		"error.product_variant_invalid":      "Selected size or color is not available",
		"error.cart_quantity_invalid":        "Quantity must be at least 1",
		"error.cart_item_invalid":            "Invalid cart item",
		"error.cart_update_failed":           "Failed to update cart",
		"error.cart_merge_conflict":          "Cart is being merged, please retry",
		"error.cart_empty":                   "Cart is empty",
		"error.checkout_input_invalid":       "Shipping address is incomplete",
		"error.checkout_not_found":           "Checkout not found",
		"error.checkout_not_paid":            "Checkout has not been paid",
		"error.checkout_create_failed":       "Failed to create checkout",
		"error.payment_method_not_supported": "Payment method is not supported",
		"error.payment_rejected":             "Payment was declined",
		"error.payment_unknown":              "Payment result is unknown, please try again later",
		"error.payment_confirm_failed":       "Failed to confirm payment",
		"error.order_not_found":              "Order not found",
		"error.order_status_invalid":         "Illegal order status transition",
		"error.order_status_conflict":        "Order was modified concurrently, please retry",
		"error.order_update_failed":          "Failed to update order",
		"error.order_fetch_failed":           "Failed to fetch orders",
		"error.order_delete_failed":          "Failed to delete order",
		"error.user_id_invalid":              "Invalid user identity",
		"error.user_id_type_invalid":         "Invalid user identity type",
		"error.admin_id_invalid":             "Invalid admin identity",
		"error.admin_id_type_invalid":        "Invalid admin identity type",
		"error.guest_token_required":         "Guest token is required",
		"error.user_not_found":               "User not found",
		"error.register_failed":              "Failed to register",
		"error.login_failed":                 "Failed to log in",
		"error.profile_update_failed":        "Failed to update profile",
		"error.password_change_failed":       "Failed to change password",
		"error.cart_fetch_failed":            "Failed to fetch cart",
		"error.checkout_fetch_failed":        "Failed to fetch checkout",
		"error.checkout_finalize_failed":     "Failed to finalize checkout",
		"error.product_not_found":            "Product not found",
		"error.webhook_invalid":              "Invalid webhook payload",
		"error.admin_login_invalid":          "Invalid username or password",
		"error.jwt_secret_missing":           "Server authentication is not configured",
		"error.auth_header_missing":          "Authorization header is missing",
		"error.auth_header_invalid":          "Authorization header is invalid",
		"error.token_invalid":                "Invalid token",
		"error.token_revoked":                "Token has been revoked",
		"error.rate_limit_unavailable":       "Rate limiting is temporarily unavailable",
		"error.login_too_many":               "Too many login attempts, please try again later",
		"error.password_old_invalid":         "Old password is incorrect",
		"error.save_failed":                  "Failed to save",
	},
	constants.LocaleZhCN: {
		"error.invalid_request":              "请求参数无效",
		"error.unauthorized":                 "请先登录",
		"error.forbidden":                    "没有操作权限",
		"error.internal":                     "服务器内部错误",
		"error.rate_limited":                 "请求过于频繁，请稍后再试",
		"error.email_invalid":                "邮箱地址无效",
		"error.email_taken":                  "邮箱已被注册",
		"error.password_too_weak":            "密码不满足安全策略",
		"error.invalid_credentials":          "邮箱或密码错误",
		"error.user_disabled":                "账号已被禁用",
		"error.product_not_available":        "商品不可购买",
		"error.product_variant_invalid":      "所选尺码或颜色不可用",
		"error.cart_quantity_invalid":        "数量必须大于等于 1",
		"error.cart_item_invalid":            "购物车项无效",
		"error.cart_update_failed":           "更新购物车失败",
		"error.cart_merge_conflict":          "购物车正在合并，请重试",
		"error.cart_empty":                   "购物车为空",
		"error.checkout_input_invalid":       "收货地址不完整",
		"error.checkout_not_found":           "结账单不存在",
		"error.checkout_not_paid":            "结账单尚未支付",
		"error.checkout_create_failed":       "创建结账单失败",
		"error.payment_method_not_supported": "不支持的支付方式",
		"error.payment_rejected":             "支付被拒绝",
		"error.payment_unknown":              "支付结果未知，请稍后再试",
		"error.payment_confirm_failed":       "确认支付失败",
		"error.order_not_found":              "订单不存在",
		"error.order_status_invalid":         "非法的订单状态流转",
		"error.order_status_conflict":        "订单已被并发修改，请重试",
		"error.order_update_failed":          "更新订单失败",
		"error.order_fetch_failed":           "获取订单失败",
		"error.order_delete_failed":          "删除订单失败",
		"error.user_id_invalid":              "用户身份无效",
		"error.user_id_type_invalid":         "用户身份类型无效",
		"error.admin_id_invalid":             "管理员身份无效",
		"error.admin_id_type_invalid":        "管理员身份类型无效",
		"error.guest_token_required":         "缺少游客令牌",
		"error.user_not_found":               "用户不存在",
		"error.register_failed":              "注册失败",
		"error.login_failed":                 "登录失败",
		"error.profile_update_failed":        "更新资料失败",
		"error.password_change_failed":       "修改密码失败",
		"error.cart_fetch_failed":            "获取购物车失败",
		"error.checkout_fetch_failed":        "获取结账单失败",
		"error.checkout_finalize_failed":     "结账单生成订单失败",
		"error.product_not_found":            "商品不存在",
		"error.webhook_invalid":              "回调载荷无效",
		"error.admin_login_invalid":          "用户名或密码错误",
		"error.jwt_secret_missing":           "服务端鉴权未配置",
		"error.auth_header_missing":          "缺少鉴权请求头",
		"error.auth_header_invalid":          "鉴权请求头无效",
		"error.token_invalid":                "Token 无效",
		"error.token_revoked":                "Token 已失效",
		"error.rate_limit_unavailable":       "限流服务暂不可用",
		"error.login_too_many":               "登录尝试过于频繁，请稍后再试",
		"error.password_old_invalid":         "旧密码不正确",
		"error.save_failed":                  "保存失败",
	},
}
