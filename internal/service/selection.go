package service

import (
	"sort"
	"sync"

	"github.com/MekalaManojKumar1128/pappaladabba/internal/logger"
	"github.com/MekalaManojKumar1128/pappaladabba/internal/models"
)

// LineRemover 按行标识删除购物车行
type LineRemover interface {
	RemoveLine(productID, unitLabel string) error
}

// BatchDeleteFailure 单行删除失败
type BatchDeleteFailure struct {
	Key models.LineKey
	Err error
}

// BatchDeleteResult 批量删除结果
type BatchDeleteResult struct {
	Removed []models.LineKey
	Failed  []BatchDeleteFailure
}

// Selection 购物车行多选状态
type Selection struct {
	mu       sync.Mutex
	selected map[models.LineKey]struct{}
}

// NewSelection 创建空选择集
func NewSelection() *Selection {
	return &Selection{selected: make(map[models.LineKey]struct{})}
}

// Toggle 切换单行选择状态，返回切换后是否选中
func (s *Selection) Toggle(key models.LineKey) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.selected[key]; ok {
		delete(s.selected, key)
		return false
	}
	s.selected[key] = struct{}{}
	return true
}

// SelectAll 选中全部给定行
func (s *Selection) SelectAll(keys []models.LineKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		s.selected[key] = struct{}{}
	}
}

// Deselect 取消单行选择，未选中时无操作
func (s *Selection) Deselect(key models.LineKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.selected, key)
}

// Clear 清空选择
func (s *Selection) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = make(map[models.LineKey]struct{})
}

// IsSelected 是否已选中
func (s *Selection) IsSelected(key models.LineKey) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.selected[key]
	return ok
}

// Keys 返回已选行，按字符串形式排序
func (s *Selection) Keys() []models.LineKey {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedKeys()
}

// Len 已选行数
func (s *Selection) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.selected)
}

// AllSelected 购物车非空且每一行都已选中
func (s *Selection) AllSelected(items []models.CartItem) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(items) == 0 {
		return false
	}
	for _, item := range items {
		if _, ok := s.selected[item.Key()]; !ok {
			return false
		}
	}
	return true
}

// ToggleAll 全选开关：已全选时清空，否则选中全部行
func (s *Selection) ToggleAll(items []models.CartItem) bool {
	if s.AllSelected(items) {
		s.Clear()
		return false
	}
	keys := make([]models.LineKey, 0, len(items))
	for _, item := range items {
		keys = append(keys, item.Key())
	}
	s.SelectAll(keys)
	return len(keys) > 0
}

// ConfirmBatchDelete 逐行删除已选行
// 单行失败不会中断其余行，结束后无论成败都清空选择
func (s *Selection) ConfirmBatchDelete(remover LineRemover) BatchDeleteResult {
	s.mu.Lock()
	keys := s.sortedKeys()
	s.selected = make(map[models.LineKey]struct{})
	s.mu.Unlock()

	result := BatchDeleteResult{Removed: make([]models.LineKey, 0, len(keys))}
	for _, key := range keys {
		if err := remover.RemoveLine(key.ProductID, key.UnitLabel); err != nil {
			logger.Warnw("cart_batch_delete_line_failed", "line_key", key.String(), "error", err)
			result.Failed = append(result.Failed, BatchDeleteFailure{Key: key, Err: err})
			continue
		}
		result.Removed = append(result.Removed, key)
	}
	return result
}

func (s *Selection) sortedKeys() []models.LineKey {
	keys := make([]models.LineKey, 0, len(s.selected))
	for key := range s.selected {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	return keys
}
