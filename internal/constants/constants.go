package constants

// 持久缓存键
const (
	CacheKeyCart        = "cart"
	CacheKeySharedCarts = "shared_carts"
	CacheKeyOrderPrefix = "order"
)

// 缓存后端
const (
	CacheDriverMemory   = "memory"
	CacheDriverRedis    = "redis"
	CacheDriverDatabase = "database"
)

// 分享购物车视图状态
const (
	SharedCartStatusFound       = "found"
	SharedCartStatusNotFound    = "not_found"
	SharedCartStatusInvalidLink = "invalid_link"
	SharedCartStatusNoData      = "no_data"
)

// SharedCartQueryParam 分享链接中承载购物车快照的查询参数
const SharedCartQueryParam = "cartData"

// SharedCartPath 分享链接路径
const SharedCartPath = "/shared-cart"

// 订单状态常量
const (
	OrderStatusConfirmed      = "confirmed"
	OrderStatusPendingPayment = "pending_payment"
)

// 支付方式常量
const (
	PaymentMethodCOD  = "cod"
	PaymentMethodUPI  = "upi"
	PaymentMethodCard = "card"
)

// 队列常量
const (
	QueueDefault       = "default"
	TaskOrderSubmitted = "order:submitted"
)
