package models

import "time"

// CacheEntry сохраненный ответ оффлайн-кэша
type CacheEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CacheName string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_cache_url" json:"cache_name"`
	URL       string    `gorm:"not null;uniqueIndex:idx_cache_url" json:"url"`
	Status    int       `gorm:"not null;default:200" json:"status"`
	Header    string    `gorm:"type:text" json:"header"` // http.Header в JSON
	Body      []byte    `json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (CacheEntry) TableName() string {
	return "cache_entries"
}
