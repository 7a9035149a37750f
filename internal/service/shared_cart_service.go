package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/MekalaManojKumar1128/pappaladabba/internal/cache"
	"github.com/MekalaManojKumar1128/pappaladabba/internal/constants"
	"github.com/MekalaManojKumar1128/pappaladabba/internal/logger"
	"github.com/MekalaManojKumar1128/pappaladabba/internal/models"

	"github.com/google/uuid"
)

const sharedCartIDLength = 7

// SharedCartService 分享购物车登记表
// 所有分享快照以 id → 购物车行 的映射整体存放在一个缓存键下，无过期
type SharedCartService struct {
	mu    sync.Mutex
	store cache.Store
	key   string
	newID func() string
}

// NewSharedCartService 创建分享购物车服务
func NewSharedCartService(store cache.Store) *SharedCartService {
	return &SharedCartService{
		store: store,
		key:   constants.CacheKeySharedCarts,
		newID: newSharedCartID,
	}
}

// Save 保存快照并返回短 id；id 碰撞时后写覆盖先写
func (s *SharedCartService) Save(ctx context.Context, items []models.CartItem) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	registry, err := s.read(ctx)
	if err != nil {
		return "", err
	}
	id := s.newID()
	registry[id] = models.CloneItems(items)
	if err := cache.SetJSON(ctx, s.store, s.key, registry); err != nil {
		return "", fmt.Errorf("save shared cart: %w", err)
	}
	return id, nil
}

// Get 读取快照；id 不存在时返回 (nil, false, nil)
func (s *SharedCartService) Get(ctx context.Context, id string) ([]models.CartItem, bool, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, false, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	registry, err := s.read(ctx)
	if err != nil {
		return nil, false, err
	}
	items, ok := registry[id]
	if !ok {
		return nil, false, nil
	}
	return models.CloneItems(items), true, nil
}

// Delete 删除快照，id 不存在时忽略
func (s *SharedCartService) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	s.mu.Lock()
	defer s.mu.Unlock()
	registry, err := s.read(ctx)
	if err != nil {
		return err
	}
	if _, ok := registry[id]; !ok {
		return nil
	}
	delete(registry, id)
	if err := cache.SetJSON(ctx, s.store, s.key, registry); err != nil {
		return fmt.Errorf("delete shared cart: %w", err)
	}
	return nil
}

// read 读取整张登记表；后端不可用时返回错误，值损坏时记录告警并从空表开始
func (s *SharedCartService) read(ctx context.Context) (map[string][]models.CartItem, error) {
	registry := make(map[string][]models.CartItem)
	if s.store == nil {
		return registry, nil
	}
	raw, ok, err := s.store.Get(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("read shared carts: %w", err)
	}
	if !ok {
		return registry, nil
	}
	if err := json.Unmarshal([]byte(raw), &registry); err != nil {
		logger.Warnw("shared_cart_registry_corrupted", "key", s.key, "error", err)
		return make(map[string][]models.CartItem), nil
	}
	if registry == nil {
		registry = make(map[string][]models.CartItem)
	}
	return registry, nil
}

// newSharedCartID 从随机 UUID 的低位生成 7 位 base36 id
func newSharedCartID() string {
	u := uuid.New()
	text := new(big.Int).SetBytes(u[:]).Text(36)
	if len(text) < sharedCartIDLength {
		text = strings.Repeat("0", sharedCartIDLength-len(text)) + text
	}
	return text[len(text)-sharedCartIDLength:]
}
