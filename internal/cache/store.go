package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/MekalaManojKumar1128/pappaladabba/internal/config"
	"github.com/MekalaManojKumar1128/pappaladabba/internal/constants"
	"github.com/MekalaManojKumar1128/pappaladabba/internal/logger"

	"gorm.io/gorm"
)

const pingTimeout = 2 * time.Second

// Store 本地持久键值缓存，值为整体序列化后的字符串，写入即整体覆盖
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Del(ctx context.Context, key string) error
}

// Open 按配置创建缓存；后端不可用时降级为内存缓存
func Open(cfg config.CacheConfig, redisCfg *config.RedisConfig, db *gorm.DB) Store {
	namespace := strings.TrimSpace(cfg.Namespace)
	switch cfg.Driver {
	case constants.CacheDriverRedis:
		if !Enabled() {
			if err := InitRedis(redisCfg); err != nil || !Enabled() {
				logger.Warnw("cache_backend_unavailable", "driver", cfg.Driver, "error", err, "fallback", constants.CacheDriverMemory)
				return NewMemoryStore()
			}
		}
		ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
		defer cancel()
		if err := Client().Ping(ctx).Err(); err != nil {
			logger.Warnw("cache_backend_unavailable", "driver", cfg.Driver, "error", err, "fallback", constants.CacheDriverMemory)
			return NewMemoryStore()
		}
		return NewRedisStore(Client(), namespace)
	case constants.CacheDriverDatabase:
		if db == nil {
			logger.Warnw("cache_backend_unavailable", "driver", cfg.Driver, "error", "database not initialized", "fallback", constants.CacheDriverMemory)
			return NewMemoryStore()
		}
		return NewDatabaseStore(db, namespace)
	case "", constants.CacheDriverMemory:
		return NewMemoryStore()
	default:
		logger.Warnw("cache_driver_unknown", "driver", cfg.Driver, "fallback", constants.CacheDriverMemory)
		return NewMemoryStore()
	}
}

// GetJSON 读取并反序列化缓存值
func GetJSON(ctx context.Context, store Store, key string, dest interface{}) (bool, error) {
	if store == nil {
		return false, nil
	}
	val, ok, err := store.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return false, fmt.Errorf("decode cache value %s: %w", key, err)
	}
	return true, nil
}

// SetJSON 序列化并写入缓存值
func SetJSON(ctx context.Context, store Store, key string, value interface{}) error {
	if store == nil {
		return nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return store.Set(ctx, key, string(payload))
}

func buildKey(prefix, key string) string {
	trimmed := strings.TrimSpace(key)
	if prefix == "" {
		return trimmed
	}
	if trimmed == "" {
		return prefix
	}
	return fmt.Sprintf("%s:%s", prefix, trimmed)
}
