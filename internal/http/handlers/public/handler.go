package public

import "github.com/MekalaManojKumar1128/pappaladabba/internal/provider"

// Handler 前台接口处理器入口
// 说明：购物车、分享、多选与下单接口共用同一个容器。
type Handler struct {
	*provider.Container
}

// New 创建前台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
