package models

import (
	"time"

	"gorm.io/gorm"
)

// ============================================================
// Persistent Store: one JSON blob per logical key
// ============================================================

// KVRecord represents kv_records table
type KVRecord struct {
	Key       string    `gorm:"primaryKey;size:64" json:"key"`
	Value     string    `gorm:"type:longtext;not null" json:"value"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (KVRecord) TableName() string {
	return "kv_records"
}

// AutoMigrate runs auto migration for all models
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&KVRecord{},
	)
}
