package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// sessionEntry is one persisted session value
type sessionEntry struct {
	Scope     string    `gorm:"column:scope;primaryKey;type:varchar(255)"`
	EntryKey  string    `gorm:"column:entry_key;primaryKey;type:varchar(64)"`
	Value     string    `gorm:"column:value;type:text;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (sessionEntry) TableName() string {
	return "session_entries"
}

// SQLiteRepository stores session values in a local SQLite database
type SQLiteRepository struct {
	db    *gorm.DB
	scope string
}

// NewSQLiteRepository opens (and migrates) the database at path
func NewSQLiteRepository(path, scope string) (*SQLiteRepository, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open session database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	// SQLite serializes writers anyway; one connection also keeps :memory: stable
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&sessionEntry{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to migrate session database: %w", err)
	}

	return &SQLiteRepository{db: db, scope: scope}, nil
}

func (r *SQLiteRepository) Get(ctx context.Context, key Key) (string, error) {
	var entry sessionEntry
	err := r.db.WithContext(ctx).
		Where("scope = ? AND entry_key = ?", r.scope, string(key)).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to load %s: %w", key, err)
	}
	return entry.Value, nil
}

func (r *SQLiteRepository) Set(ctx context.Context, key Key, value string) error {
	entry := sessionEntry{
		Scope:    r.scope,
		EntryKey: string(key),
		Value:    value,
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "scope"}, {Name: "entry_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context, keys ...Key) error {
	if len(keys) == 0 {
		return nil
	}

	names := make([]string, len(keys))
	for i, key := range keys {
		names[i] = string(key)
	}

	err := r.db.WithContext(ctx).
		Where("scope = ? AND entry_key IN ?", r.scope, names).
		Delete(&sessionEntry{}).Error
	if err != nil {
		return fmt.Errorf("failed to clear session entries: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
