package app

import (
	"context"
	"errors"
	"net/http"
)

// HTTPService HTTP 服务封装
type HTTPService struct {
	name   string
	server *http.Server
}

// NewHTTPService 创建 HTTP 服务
// onShutdown 在 Shutdown 开始时执行，用于结束 SSE 等长连接，否则 Shutdown 会一直等到超时
func NewHTTPService(addr string, handler http.Handler, onShutdown ...func()) *HTTPService {
	server := &http.Server{
		Addr:    addr,
		Handler: handler,
	}
	for _, fn := range onShutdown {
		if fn != nil {
			server.RegisterOnShutdown(fn)
		}
	}
	return &HTTPService{
		name:   "http",
		server: server,
	}
}

// Name 服务名称
func (s *HTTPService) Name() string {
	if s == nil || s.name == "" {
		return "http"
	}
	return s.name
}

// Start 启动服务
func (s *HTTPService) Start(ctx context.Context) error {
	if s == nil || s.server == nil {
		return errors.New("http server not initialized")
	}
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop 停止服务
func (s *HTTPService) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
