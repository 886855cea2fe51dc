package constants

// 支付方式常量
const (
	PaymentMethodPaypal = "paypal"
	PaymentMethodStripe = "stripe"
)

// 支付提供方结果常量
const (
	ProviderResultApproved = "approved"
	ProviderResultDeclined = "declined"
	ProviderResultPending  = "pending"
)

// 用户状态常量
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// 队列常量
const (
	QueueDefault         = "default"
	TaskOrderStatusEmail = "order:status_email"
)

// 缓存默认配置常量
const (
	RedisPrefixDefault = "tw"
)

// 游客令牌请求头
const (
	GuestTokenHeader = "X-Guest-Token"
)

// 站点语言常量
const (
	LocaleEnUS = "en-US"
	LocaleZhCN = "zh-CN"
)

// 支持的站点语言顺序（含回退顺序）
var SupportedLocales = []string{LocaleEnUS, LocaleZhCN}
