package models

import "time"

// KVEntry 持久化键值缓存条目（数据库缓存后端）
type KVEntry struct {
	CacheKey  string    `gorm:"primaryKey;type:varchar(191)" json:"cache_key"` // 缓存键（含命名空间）
	Value     string    `gorm:"type:text;not null" json:"value"`               // JSON 序列化后的值
	UpdatedAt time.Time `gorm:"index" json:"updated_at"`                       // 更新时间
}

// TableName 指定表名
func (KVEntry) TableName() string {
	return "kv_entries"
}
