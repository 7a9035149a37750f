package provider

import (
	"github.com/MekalaManojKumar1128/pappaladabba/internal/cache"
	"github.com/MekalaManojKumar1128/pappaladabba/internal/codec"
	"github.com/MekalaManojKumar1128/pappaladabba/internal/config"
	"github.com/MekalaManojKumar1128/pappaladabba/internal/logger"
	"github.com/MekalaManojKumar1128/pappaladabba/internal/models"
	"github.com/MekalaManojKumar1128/pappaladabba/internal/queue"
	"github.com/MekalaManojKumar1128/pappaladabba/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	Cache       cache.Store
	QueueClient *queue.Client
	Codec       codec.Codec

	// Services
	CartStore         *service.CartStore
	SharedCartService *service.SharedCartService
	Selection         *service.Selection
	ShareService      *service.ShareService
	OrderLedger       *service.OrderLedger
	CheckoutService   *service.CheckoutService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化 Redis（缓存后端与分享限流共用）
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}
	// 初始化缓存
	store := cache.Open(cfg.Cache, &cfg.Redis, models.DB)
	return NewContainerWithStore(cfg, store)
}

// NewContainerWithStore 使用指定缓存初始化容器
func NewContainerWithStore(cfg *config.Config, store cache.Store) *Container {
	// 初始化队列客户端
	queueClient, err := queue.NewClient(&cfg.Queue)
	if err != nil {
		logger.Errorw("provider_init_queue_client_failed", "error", err)
		queueClient, _ = queue.NewClient(nil)
	}

	c := &Container{
		Config:      cfg,
		Cache:       store,
		QueueClient: queueClient,
		Codec:       codec.New(cfg.Share.MaxDecodedBytes),
	}
	c.initServices()
	return c
}

func (c *Container) initServices() {
	c.CartStore = service.NewCartStore(c.Cache)
	c.SharedCartService = service.NewSharedCartService(c.Cache)
	c.Selection = service.NewSelection()
	c.ShareService = service.NewShareService(c.CartStore, c.SharedCartService, c.Codec, service.ShareOptions{
		BaseURL:        c.Config.Share.BaseURL,
		CurrencySymbol: c.Config.Share.CurrencySymbol,
		WhatsAppNumber: c.Config.Share.WhatsAppNumber,
	})
	c.OrderLedger = service.NewOrderLedger(c.Cache)
	c.CheckoutService = service.NewCheckoutService(c.CartStore, service.NewQueueOrderSink(c.QueueClient, c.OrderLedger))
}

// Close 释放外部连接
func (c *Container) Close() {
	if c == nil {
		return
	}
	if err := c.QueueClient.Close(); err != nil {
		logger.Warnw("provider_close_queue_client_failed", "error", err)
	}
}
