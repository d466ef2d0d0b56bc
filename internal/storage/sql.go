package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SaveRow is one stored value in the save_records table.
type SaveRow struct {
	Key       string `gorm:"primaryKey"`
	Value     string `gorm:"not null"`
	UpdatedAt time.Time
}

func (SaveRow) TableName() string {
	return "save_records"
}

// SQLStore keeps saves in a postgres table.
type SQLStore struct {
	db *gorm.DB
}

func OpenPostgres(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return db, nil
}

// NewSQLStore migrates the save table and returns a store backed by it.
func NewSQLStore(db *gorm.DB) (*SQLStore, error) {
	if err := db.AutoMigrate(&SaveRow{}); err != nil {
		return nil, fmt.Errorf("migrating save_records: %w", err)
	}
	return &SQLStore{db: db}, nil
}

func (s *SQLStore) Get(ctx context.Context, key string) (string, bool, error) {
	var row SaveRow
	err := s.db.WithContext(ctx).
		Where(map[string]any{"key": key}).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return row.Value, true, nil
}

func (s *SQLStore) Set(ctx context.Context, key, value string) error {
	if err := Key(key).Validate(); err != nil {
		return err
	}

	row := SaveRow{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now(),
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
}

func (s *SQLStore) Delete(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).
		Where(map[string]any{"key": key}).
		Delete(&SaveRow{}).Error
}

func (s *SQLStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	err := s.db.WithContext(ctx).
		Model(&SaveRow{}).
		Where("key LIKE ?", likePrefix(prefix)).
		Pluck("key", &keys).Error
	if err != nil {
		return nil, err
	}
	// Byte order, not the database collation.
	sort.Strings(keys)
	return keys, nil
}

// likePrefix escapes LIKE wildcards in a prefix.
func likePrefix(prefix string) string {
	out := make([]rune, 0, len(prefix)+1)
	for _, r := range prefix {
		if r == '%' || r == '_' || r == '\\' {
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(append(out, '%'))
}
