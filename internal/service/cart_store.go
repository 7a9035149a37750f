package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/MekalaManojKumar1128/pappaladabba/internal/cache"
	"github.com/MekalaManojKumar1128/pappaladabba/internal/constants"
	"github.com/MekalaManojKumar1128/pappaladabba/internal/logger"
	"github.com/MekalaManojKumar1128/pappaladabba/internal/models"
)

const cacheTimeout = 2 * time.Second

// CartStore 购物车状态存储
// 持有唯一的购物车聚合；每次变更后整体写入持久缓存并向订阅者广播完整聚合
type CartStore struct {
	mu      sync.Mutex
	cart    models.Cart
	store   cache.Store
	key     string
	subs    map[int]chan models.Cart
	nextSub int
	closed  bool
}

// NewCartStore 创建购物车存储并从缓存恢复；缓存缺失或损坏时从空购物车开始
func NewCartStore(store cache.Store) *CartStore {
	s := &CartStore{
		store: store,
		key:   constants.CacheKeyCart,
		subs:  make(map[int]chan models.Cart),
	}
	s.cart = s.load()
	return s
}

// CurrentItems 返回当前购物车项的副本
func (s *CartStore) CurrentItems() []models.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.CloneItems(s.cart.Items)
}

// Observe 订阅购物车聚合
// 订阅时立即收到当前聚合，之后每次变更收到一次完整聚合；慢速订阅者只保留最新值
func (s *CartStore) Observe() (<-chan models.Cart, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan models.Cart, 1)
	ch <- s.cart.Clone()
	if s.closed {
		close(ch)
		return ch, func() {}
	}
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if sub, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// CloseSubscribers 关闭全部订阅，用于进程退出时结束长连接推送
// 关闭后新订阅只收到当前聚合随即结束；购物车本身仍可读写
func (s *CartStore) CloseSubscribers() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
}

// Total 订阅合计金额，随每次聚合推送重新计算
func (s *CartStore) Total() (<-chan models.Money, func()) {
	return deriveStream(s, func(c models.Cart) models.Money { return models.TotalOf(c.Items) })
}

// ItemCount 订阅商品总件数
func (s *CartStore) ItemCount() (<-chan int, func()) {
	return deriveStream(s, func(c models.Cart) int { return models.ItemCountOf(c.Items) })
}

// AddLine 加入购物车；同一商品同一规格累加数量，否则追加商品快照
// 规格按商品规格列表解析，价格倍数取目录值；quantity < 1 时按 1 处理
func (s *CartStore) AddLine(product models.Product, quantity int) error {
	if strings.TrimSpace(product.ID) == "" {
		return ErrInvalidProductID
	}
	unit, ok := product.DefaultUnit()
	if !ok || strings.TrimSpace(unit.Label) == "" {
		return ErrInvalidUnit
	}
	if quantity < 1 {
		quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	key := models.NewLineKey(product.ID, unit.Label)
	if idx := s.indexOf(key); idx >= 0 {
		item := &s.cart.Items[idx]
		item.Quantity += quantity
		item.Product.SelectedQuantity = item.Quantity
	} else {
		snapshot := product.Clone()
		snapshot.SelectedUnit = unit
		snapshot.SelectedQuantity = quantity
		s.cart.Items = append(s.cart.Items, models.CartItem{Product: snapshot, Quantity: quantity})
	}
	s.commit("add_line")
	return nil
}

// UpdateQuantity 更新数量；quantity <= 0 等同删除，行不存在时不改变内容但仍会写入并广播
func (s *CartStore) UpdateQuantity(productID, unitLabel string, quantity int) error {
	if strings.TrimSpace(productID) == "" {
		return ErrInvalidProductID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := models.NewLineKey(productID, unitLabel)
	idx := s.indexOf(key)
	switch {
	case idx < 0:
	case quantity <= 0:
		s.removeAt(idx)
	default:
		s.cart.Items[idx].Quantity = quantity
		s.cart.Items[idx].Product.SelectedQuantity = quantity
	}
	s.commit("update_quantity")
	return nil
}

// RemoveLine 删除购物车行，不存在时忽略
func (s *CartStore) RemoveLine(productID, unitLabel string) error {
	if strings.TrimSpace(productID) == "" {
		return ErrInvalidProductID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.indexOf(models.NewLineKey(productID, unitLabel)); idx >= 0 {
		s.removeAt(idx)
	}
	s.commit("remove_line")
	return nil
}

// Clear 清空购物车
func (s *CartStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = models.Cart{Items: []models.CartItem{}}
	s.commit("clear")
	return nil
}

// ImportItems 将分享的购物车行合并进当前购物车（按 AddLine 规则累加）
// 每行规格同样按商品规格列表解析，任一行无效时整体拒绝
func (s *CartStore) ImportItems(items []models.CartItem) error {
	lines := make([]models.CartItem, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item.Product.ID) == "" {
			return ErrInvalidProductID
		}
		if strings.TrimSpace(item.Product.SelectedUnit.Label) == "" {
			return ErrInvalidUnit
		}
		unit, ok := item.Product.DefaultUnit()
		if !ok {
			return ErrInvalidUnit
		}
		if item.Quantity < 1 {
			continue
		}
		line := item.Clone()
		line.Product.SelectedUnit = unit
		lines = append(lines, line)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, line := range lines {
		if idx := s.indexOf(line.Key()); idx >= 0 {
			s.cart.Items[idx].Quantity += line.Quantity
			s.cart.Items[idx].Product.SelectedQuantity = s.cart.Items[idx].Quantity
			continue
		}
		line.Product.SelectedQuantity = line.Quantity
		s.cart.Items = append(s.cart.Items, line)
	}
	s.commit("import")
	return nil
}

func (s *CartStore) indexOf(key models.LineKey) int {
	for i := range s.cart.Items {
		if s.cart.Items[i].Key() == key {
			return i
		}
	}
	return -1
}

func (s *CartStore) removeAt(idx int) {
	items := make([]models.CartItem, 0, len(s.cart.Items)-1)
	items = append(items, s.cart.Items[:idx]...)
	items = append(items, s.cart.Items[idx+1:]...)
	s.cart.Items = items
}

// commit 持久化并广播，调用方需持有锁
func (s *CartStore) commit(op string) {
	if s.cart.Items == nil {
		s.cart.Items = []models.CartItem{}
	}
	s.persist(op)
	for _, ch := range s.subs {
		offerLatest(ch, s.cart.Clone())
	}
}

func (s *CartStore) persist(op string) {
	if s.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), cacheTimeout)
	defer cancel()
	if err := cache.SetJSON(ctx, s.store, s.key, s.cart); err != nil {
		logger.Warnw("cart_store_persist_failed", "op", op, "key", s.key, "error", err)
	}
}

func (s *CartStore) load() models.Cart {
	empty := models.Cart{Items: []models.CartItem{}}
	if s.store == nil {
		return empty
	}
	ctx, cancel := context.WithTimeout(context.Background(), cacheTimeout)
	defer cancel()
	var cart models.Cart
	hit, err := cache.GetJSON(ctx, s.store, s.key, &cart)
	if err != nil {
		logger.Warnw("cart_store_load_failed", "key", s.key, "error", err)
		return empty
	}
	if !hit {
		return empty
	}
	return normalizeCart(cart)
}

// normalizeCart 修复缓存中的聚合：合并重复行，丢弃非正数量与缺失标识的行
func normalizeCart(cart models.Cart) models.Cart {
	out := models.Cart{Items: make([]models.CartItem, 0, len(cart.Items))}
	index := make(map[models.LineKey]int, len(cart.Items))
	for _, item := range cart.Items {
		if strings.TrimSpace(item.Product.ID) == "" || item.Quantity < 1 {
			continue
		}
		key := item.Key()
		if idx, ok := index[key]; ok {
			out.Items[idx].Quantity += item.Quantity
			out.Items[idx].Product.SelectedQuantity = out.Items[idx].Quantity
			continue
		}
		item.Product.SelectedQuantity = item.Quantity
		index[key] = len(out.Items)
		out.Items = append(out.Items, item)
	}
	return out
}

// offerLatest 非阻塞写入单槽通道，旧值未被读取时以新值替换
// 同一通道只有一个写入方（持有 CartStore 锁）
func offerLatest[T any](ch chan T, value T) {
	select {
	case ch <- value:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- value:
	default:
	}
}

func deriveStream[T any](s *CartStore, project func(models.Cart) T) (<-chan T, func()) {
	src, cancel := s.Observe()
	out := make(chan T, 1)
	go func() {
		defer close(out)
		for cart := range src {
			offerLatest(out, project(cart))
		}
	}()
	return out, cancel
}
