package cache

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/MekalaManojKumar1128/pappaladabba/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DatabaseStore 基于 GORM 的缓存后端（sqlite / postgres 的 kv_entries 表）
type DatabaseStore struct {
	db     *gorm.DB
	prefix string
}

// NewDatabaseStore 创建数据库缓存
func NewDatabaseStore(db *gorm.DB, prefix string) *DatabaseStore {
	return &DatabaseStore{db: db, prefix: strings.TrimSpace(prefix)}
}

// Get 读取缓存
func (s *DatabaseStore) Get(ctx context.Context, key string) (string, bool, error) {
	var entry models.KVEntry
	err := s.db.WithContext(ctx).Where("cache_key = ?", buildKey(s.prefix, key)).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return entry.Value, true, nil
}

// Set 写入缓存（存在则整体覆盖）
func (s *DatabaseStore) Set(ctx context.Context, key, value string) error {
	entry := models.KVEntry{
		CacheKey:  buildKey(s.prefix, key),
		Value:     value,
		UpdatedAt: time.Now(),
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "cache_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
}

// Del 删除缓存
func (s *DatabaseStore) Del(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Where("cache_key = ?", buildKey(s.prefix, key)).Delete(&models.KVEntry{}).Error
}
