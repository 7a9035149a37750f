package router

import (
	"fmt"
	"strings"

	"github.com/MekalaManojKumar1128/pappaladabba/internal/cache"
	"github.com/MekalaManojKumar1128/pappaladabba/internal/config"
	publichandlers "github.com/MekalaManojKumar1128/pappaladabba/internal/http/handlers/public"
	"github.com/MekalaManojKumar1128/pappaladabba/internal/http/response"
	"github.com/MekalaManojKumar1128/pappaladabba/internal/logger"
	"github.com/MekalaManojKumar1128/pappaladabba/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	h := publichandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "sf"
	}
	shareRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:shared_cart", redisPrefix),
		WindowSeconds: cfg.Security.ShareRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.ShareRateLimit.MaxRequests,
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	apiV1 := r.Group("/api/v1")
	{
		// 购物车
		cart := apiV1.Group("/cart")
		{
			cart.GET("", h.GetCart)
			cart.DELETE("", h.ClearCart)
			cart.GET("/events", h.StreamCart)
			cart.POST("/items", h.AddCartItem)
			cart.PUT("/items", h.UpdateCartItem)
			cart.DELETE("/items", h.RemoveCartItem)

			// 多选与批量删除
			cart.GET("/selection", h.GetSelection)
			cart.POST("/selection/toggle", h.ToggleSelection)
			cart.POST("/selection/toggle-all", h.ToggleAllSelection)
			cart.POST("/selection/delete", h.DeleteSelected)

			// 分享
			cart.POST("/share-link", h.CreateShareLink)
			cart.POST("/share-message", h.CreateShareMessage)
		}

		// 分享链接
		apiV1.GET("/shared-cart", h.GetSharedCart)
		apiV1.POST("/shared-cart/import", h.ImportSharedCart)

		// 分享登记表
		sharedCarts := apiV1.Group("/shared-carts")
		{
			sharedCarts.POST("", RateLimitMiddleware(cache.Client(), shareRule, KeyByIP), h.CreateSharedCart)
			sharedCarts.GET("/:id", h.GetSharedCartByID)
			sharedCarts.DELETE("/:id", h.DeleteSharedCart)
		}

		// 下单
		apiV1.POST("/orders", h.PlaceOrder)
		apiV1.GET("/orders/:id", h.GetOrder)
	}

	r.GET("/healthz", func(ctx *gin.Context) {
		response.Success(ctx, gin.H{"status": "ok", "cache": fmt.Sprintf("%T", c.Cache)})
	})

	r.NoRoute(func(ctx *gin.Context) {
		response.NotFound(ctx, "route not found")
	})

	return r
}
