package service

import "errors"

// 业务错误定义（由 handler 层映射为接口错误码）
var (
	ErrNotFound           = errors.New("记录不存在")
	ErrInvalidCredentials = errors.New("用户名或密码错误")
	ErrInvalidPassword    = errors.New("密码错误")
	ErrWeakPassword       = errors.New("密码不满足安全策略")
	ErrInvalidEmail       = errors.New("邮箱格式无效")
	ErrEmailTaken         = errors.New("邮箱已被注册")
	ErrUserDisabled       = errors.New("账号已被禁用")
	ErrOwnerInvalid       = errors.New("购物车归属者无效")

	ErrProductNotAvailable = errors.New("商品不可购买")
	ErrVariantInvalid      = errors.New("所选尺码或颜色不可用")
	ErrQuantityInvalid     = errors.New("数量必须大于等于 1")
	ErrCartItemInvalid     = errors.New("购物车项无效")
	ErrMergeConflict       = errors.New("购物车合并互斥冲突")

	ErrCartEmpty            = errors.New("购物车为空")
	ErrCheckoutInputInvalid = errors.New("结账输入无效")
	ErrCheckoutNotFound     = errors.New("结账单不存在")
	ErrCheckoutNotPaid      = errors.New("结账单尚未支付")

	ErrPaymentMethodNotSupported = errors.New("不支持的支付方式")
	ErrPaymentRejected           = errors.New("支付被拒绝")
	ErrPaymentUnknown            = errors.New("支付结果未知")

	ErrOrderNotFound      = errors.New("订单不存在")
	ErrOrderStatusInvalid = errors.New("非法的订单状态流转")
	ErrStatusConflict     = errors.New("订单状态已被并发修改")

	ErrEmailServiceDisabled      = errors.New("邮件服务未启用")
	ErrEmailServiceNotConfigured = errors.New("邮件服务未配置")
	ErrEmailRecipientRejected    = errors.New("收件地址被拒绝")
)
