package repositories

import (
	"context"
	"errors"

	"messpay/internal/adapters/persistence/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// databaseStore implements Store on top of the kv_records table
type databaseStore struct {
	db *gorm.DB
}

// NewDatabaseStore creates a new gorm-backed store
func NewDatabaseStore(db *gorm.DB) Store {
	return &databaseStore{db: db}
}

// Get gets the value stored under key
func (r *databaseStore) Get(ctx context.Context, key string) ([]byte, error) {
	var record models.KVRecord
	err := r.db.WithContext(ctx).Where("`key` = ?", key).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return []byte(record.Value), nil
}

// Set creates or replaces the value stored under key
func (r *databaseStore) Set(ctx context.Context, key string, value []byte) error {
	record := &models.KVRecord{Key: key, Value: string(value)}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(record).Error
}

// Remove deletes key
func (r *databaseStore) Remove(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).
		Where("`key` = ?", key).
		Delete(&models.KVRecord{}).Error
}

// RemoveAll deletes every key in one transaction
func (r *databaseStore) RemoveAll(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Where("`key` IN ?", keys).Delete(&models.KVRecord{}).Error
	})
}
